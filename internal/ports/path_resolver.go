package ports

import (
	"context"

	"github.com/W-Nunes/MobiVan/internal/domain"
)

// Contract for resolving the real road path through an ordered sequence of points.
type PathResolver interface {
	// Return distance, duration, geometry and maneuvers for visiting points in order.
	// points always holds at least two entries: the start and one stop.
	ResolvePath(ctx context.Context, points []domain.Location) (*domain.RouteInfo, error)
}
