package handlers

import (
	"context"
	"net/http"

	"github.com/W-Nunes/MobiVan/internal/api/dto"
	"github.com/W-Nunes/MobiVan/internal/domain"
)

// RouteOptimizer computes a best-effort route; it never fails once input is valid.
type RouteOptimizer interface {
	Optimize(ctx context.Context, req domain.OptimizationRequest) *domain.OptimizationResult
}

type OptimizeHandler struct {
	Optimizer RouteOptimizer
}

// Optimize orders the passengers and attaches road metrics when the routing
// provider answers. Only malformed input is rejected.
func (h *OptimizeHandler) Optimize(w http.ResponseWriter, r *http.Request) {
	var req dto.OptimizeRequest
	if detail := decodeAndValidate(w, r, &req); detail != nil {
		writeValidationError(w, r, detail)
		return
	}

	res := h.Optimizer.Optimize(r.Context(), req.ToDomain())
	writeJSON(w, r, http.StatusOK, dto.NewOptimizeResponse(res))
}
