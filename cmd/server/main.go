package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/W-Nunes/MobiVan/internal/adapters/repositories"
	"github.com/W-Nunes/MobiVan/internal/adapters/routing"
	"github.com/W-Nunes/MobiVan/internal/api"
	"github.com/W-Nunes/MobiVan/internal/config"
	"github.com/W-Nunes/MobiVan/internal/platform/db"
	"github.com/W-Nunes/MobiVan/internal/platform/logger"
	"github.com/W-Nunes/MobiVan/internal/platform/tracing"
	"github.com/W-Nunes/MobiVan/internal/ports"
	"github.com/W-Nunes/MobiVan/internal/services"
)

// main is the application composition root.
// It wires the routing provider and optional roster database behind ports and
// starts the HTTP server.
func main() {
	cfg := config.Load()

	log := logger.New(os.Stdout, cfg.Log)
	slog.SetDefault(log)

	if err := run(cfg, log); err != nil {
		log.Error("server stopped", "err", err)
		os.Exit(1)
	}
}

func run(cfg config.Config, log *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := tracing.Setup(ctx, cfg.Tracing.Exporter)
	if err != nil {
		return err
	}
	defer func() { _ = shutdownTracing(context.Background()) }()

	resolver, err := newPathResolver(cfg.Routing, log)
	if err != nil {
		return err
	}
	optimizer := services.NewOptimizer(resolver, cfg.Routing.Timeout, log)

	var rosters ports.RosterRepository
	if cfg.DB.Driver != "" {
		conn, err := db.Open(cfg.DB.Driver, cfg.DB.DSN())
		if err != nil {
			return err
		}
		defer conn.Close()

		if cfg.DB.Driver == db.DriverSQLite {
			// Initialize schema and seed demo data on startup for local runs.
			if err := initAndSeed(conn, cfg.DB.SeedPath); err != nil {
				return err
			}
		}

		rosters, err = repositories.NewRosterRepository(cfg.DB.Driver, conn, log)
		if err != nil {
			return err
		}
		log.Info("roster database enabled", "driver", cfg.DB.Driver)
	}

	router := api.NewRouter(api.Deps{
		Optimizer: optimizer,
		Rosters:   rosters,
		RateLimit: cfg.RateLimit,
		Logger:    log,
	})

	// WriteTimeout leaves room for the routing provider timeout.
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      cfg.Routing.Timeout + 20*time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("server listening", "addr", srv.Addr, "provider", cfg.Routing.Provider)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// newPathResolver builds the configured routing provider, wrapped in a circuit
// breaker unless the breaker is disabled.
func newPathResolver(cfg config.RoutingConfig, log *slog.Logger) (ports.PathResolver, error) {
	var (
		inner ports.PathResolver
		err   error
	)

	switch cfg.Provider {
	case "osrm", "":
		inner, err = routing.NewOSRMPathResolver(cfg.OSRMBaseURL, cfg.OSRMProfile, cfg.Timeout, log)
	case "google":
		inner, err = routing.NewGooglePathResolver(cfg.GoogleAPIKey, &http.Client{Timeout: cfg.Timeout}, log)
	default:
		return nil, fmt.Errorf("unsupported ROUTING_PROVIDER %q", cfg.Provider)
	}
	if err != nil {
		return nil, err
	}

	// BREAKER_MAX_FAILURES=0 turns the breaker off.
	if cfg.BreakerConfig.MaxFailures == 0 {
		return inner, nil
	}

	return routing.NewBreakerPathResolver(cfg.Provider, inner, routing.BreakerSettings{
		MaxFailures: cfg.BreakerConfig.MaxFailures,
		OpenTimeout: cfg.BreakerConfig.OpenTimeout,
		Interval:    cfg.BreakerConfig.Interval,
	}, log), nil
}

func initAndSeed(conn *sql.DB, seedPath string) error {
	if err := repositories.InitSchema(conn); err != nil {
		return fmt.Errorf("init and seed: %w", err)
	}

	if _, err := os.Stat(seedPath); errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err := repositories.SeedFromJSON(conn, db.DriverSQLite, seedPath); err != nil {
		return fmt.Errorf("init and seed: %w", err)
	}

	return nil
}
