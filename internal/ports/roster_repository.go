package ports

import (
	"context"
	"errors"
	"time"

	"github.com/W-Nunes/MobiVan/internal/domain"
)

// ErrRosterNotFound is returned when the requested route does not exist.
var ErrRosterNotFound = errors.New("roster not found")

// Port: a read-only boundary to the persistence services that own routes,
// drivers and trip confirmations.
type RosterRepository interface {
	// Load the driver and confirmed passengers of a route for one trip date.
	LoadRoster(ctx context.Context, routeID int64, tripDate time.Time) (*domain.Roster, error)
}
