package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/W-Nunes/MobiVan/internal/api/dto"
	"github.com/W-Nunes/MobiVan/internal/platform/obs"
	"github.com/W-Nunes/MobiVan/internal/ports"
)

const dateLayout = "2006-01-02"

type RosterHandler struct {
	Repo      ports.RosterRepository
	Optimizer RouteOptimizer
	// Now returns the current time; the default trip date is its UTC day.
	Now func() time.Time
}

// Optimize loads a stored route's confirmed passengers for a date and
// optimizes them like POST /optimize.
func (h *RosterHandler) Optimize(w http.ResponseWriter, r *http.Request) {
	routeID, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || routeID <= 0 {
		writeValidationError(w, r, []FieldError{{Field: "id", Message: "must be a positive integer"}})
		return
	}

	tripDate, err := h.tripDate(r.URL.Query().Get("date"))
	if err != nil {
		writeValidationError(w, r, []FieldError{{Field: "date", Message: "must be YYYY-MM-DD"}})
		return
	}

	roster, err := h.Repo.LoadRoster(r.Context(), routeID, tripDate)
	if errors.Is(err, ports.ErrRosterNotFound) {
		writeError(w, r, http.StatusNotFound, "route not found")
		return
	}
	if err != nil {
		slog.ErrorContext(r.Context(), "load roster failed", "req_id", obs.RequestID(r.Context()), "route_id", routeID, "err", err)
		writeError(w, r, http.StatusInternalServerError, "could not load route")
		return
	}

	req, err := roster.OptimizationRequest()
	if err != nil {
		slog.ErrorContext(r.Context(), "invalid roster", "req_id", obs.RequestID(r.Context()), "route_id", routeID, "err", err)
		writeError(w, r, http.StatusInternalServerError, "stored route is invalid")
		return
	}

	res := h.Optimizer.Optimize(r.Context(), req)
	writeJSON(w, r, http.StatusOK, dto.RosterOptimizeResponse{
		RouteID:          roster.RouteID,
		RouteName:        roster.RouteName,
		TripDate:         tripDate.Format(dateLayout),
		OptimizeResponse: dto.NewOptimizeResponse(res),
	})
}

func (h *RosterHandler) tripDate(raw string) (time.Time, error) {
	if raw == "" {
		now := time.Now
		if h.Now != nil {
			now = h.Now
		}
		y, m, d := now().UTC().Date()
		return time.Date(y, m, d, 0, 0, 0, 0, time.UTC), nil
	}
	return time.Parse(dateLayout, raw)
}
