package api

import (
	"log/slog"
	"net/http"

	"golang.org/x/time/rate"

	"github.com/W-Nunes/MobiVan/internal/api/handlers"
	"github.com/W-Nunes/MobiVan/internal/config"
	"github.com/W-Nunes/MobiVan/internal/ports"
)

// Deps are the collaborators the HTTP layer needs. Rosters may be nil, in
// which case the stored-route endpoint is not registered.
type Deps struct {
	Optimizer handlers.RouteOptimizer
	Rosters   ports.RosterRepository
	RateLimit config.RateLimitConfig
	Logger    *slog.Logger
}

// NewRouter wires HTTP handlers with their dependencies and returns an http.Handler.
// This is the API composition root (handlers stay unaware of concrete adapters).
func NewRouter(deps Deps) http.Handler {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	mux := http.NewServeMux()

	optimizeHandler := &handlers.OptimizeHandler{Optimizer: deps.Optimizer}

	mux.HandleFunc("GET /{$}", handlers.Root)
	mux.HandleFunc("GET /health", handlers.Health)
	mux.HandleFunc("POST /optimize", optimizeHandler.Optimize)

	if deps.Rosters != nil {
		rosterHandler := &handlers.RosterHandler{Repo: deps.Rosters, Optimizer: deps.Optimizer}
		mux.HandleFunc("POST /routes/{id}/optimize", rosterHandler.Optimize)
	}

	var h http.Handler = mux
	if deps.RateLimit.RPS > 0 {
		burst := deps.RateLimit.Burst
		if burst < 1 {
			burst = 1
		}
		h = rateLimitMiddleware(rate.NewLimiter(rate.Limit(deps.RateLimit.RPS), burst), h)
	}

	return requestIDMiddleware(loggingMiddleware(logger, h))
}
