package services

import (
	"context"
	"errors"
	"log/slog"
	"math"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/W-Nunes/MobiVan/internal/domain"
	"github.com/W-Nunes/MobiVan/internal/platform/obs"
	"github.com/W-Nunes/MobiVan/internal/platform/tracing"
	"github.com/W-Nunes/MobiVan/internal/ports"
)

// DefaultResolveTimeout bounds a single routing provider call.
const DefaultResolveTimeout = 10 * time.Second

var errNoRouteInfo = errors.New("resolver returned no route")

// Optimizer orders passengers and asks a PathResolver for the road route.
// It holds no per-request state and is safe for concurrent use.
type Optimizer struct {
	resolver ports.PathResolver
	timeout  time.Duration
	logger   *slog.Logger
}

func NewOptimizer(resolver ports.PathResolver, timeout time.Duration, logger *slog.Logger) *Optimizer {
	if timeout <= 0 {
		timeout = DefaultResolveTimeout
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Optimizer{resolver: resolver, timeout: timeout, logger: logger}
}

// Optimize computes the visiting order and road metrics for req.
//
// Routing provider failures never surface as errors: the passenger order is
// still returned with zero metrics, empty geometry and no steps.
// With no passengers the resolver is not called at all.
func (o *Optimizer) Optimize(ctx context.Context, req domain.OptimizationRequest) *domain.OptimizationResult {
	ctx, span := tracing.StartSpan(ctx, "optimizer.Optimize")
	span.SetAttributes(attribute.Int("passengers", len(req.Passengers)))
	defer span.End()

	if len(req.Passengers) == 0 {
		return emptyResult([]domain.Location{})
	}

	ordered := NearestNeighborOrder(req.DriverStart, req.Passengers)

	points := make([]domain.Location, 0, 1+len(ordered))
	points = append(points, req.DriverStart)
	points = append(points, ordered...)

	info, err := o.resolve(ctx, points)
	if err != nil {
		o.logger.Warn("routing provider unavailable, returning order without road metrics",
			"req_id", obs.RequestID(ctx),
			"points", len(points),
			"err", err,
		)
		span.SetAttributes(attribute.Bool("route_available", false))
		return emptyResult(ordered)
	}
	span.SetAttributes(attribute.Bool("route_available", true))

	steps := info.Maneuvers
	if steps == nil {
		steps = []domain.Maneuver{}
	}
	geometry := info.Geometry
	if len(geometry) == 0 {
		geometry = domain.EmptyGeometry
	}

	return &domain.OptimizationResult{
		OptimizedOrder:       ordered,
		TotalDistanceKm:      MetersToKm(info.DistanceMeters),
		TotalDurationMinutes: SecondsToMinutes(info.DurationSeconds),
		Geometry:             geometry,
		Steps:                steps,
		RouteAvailable:       true,
	}
}

// resolve makes the single bounded provider call for points.
func (o *Optimizer) resolve(ctx context.Context, points []domain.Location) (*domain.RouteInfo, error) {
	if o.resolver == nil {
		return nil, errors.New("no path resolver configured")
	}

	ctx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()

	info, err := o.resolver.ResolvePath(ctx, points)
	if err != nil {
		return nil, err
	}
	if info == nil {
		return nil, errNoRouteInfo
	}
	return info, nil
}

func emptyResult(order []domain.Location) *domain.OptimizationResult {
	return &domain.OptimizationResult{
		OptimizedOrder:       order,
		TotalDistanceKm:      0,
		TotalDurationMinutes: 0,
		Geometry:             domain.EmptyGeometry,
		Steps:                []domain.Maneuver{},
	}
}

// MetersToKm converts to kilometres rounded to two decimals, half away from zero.
// Rounds whole decametres, so 12345 m is 12.35 km.
func MetersToKm(meters float64) float64 {
	if meters <= 0 || math.IsNaN(meters) {
		return 0
	}
	return math.Round(meters/10) / 100
}

// SecondsToMinutes converts to whole minutes, half away from zero (750 s is 13 min).
func SecondsToMinutes(seconds float64) float64 {
	if seconds <= 0 || math.IsNaN(seconds) {
		return 0
	}
	return math.Round(seconds / 60)
}
