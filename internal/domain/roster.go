package domain

import (
	"fmt"
	"time"
)

// Represents a stored van route for one service day: the driver and the
// passengers who confirmed they will ride.
// A Roster is read from the persistence services and is never written back.
type Roster struct {
	RouteID    int64
	RouteName  string
	TripDate   time.Time
	Driver     Location
	Passengers []Location
}

// Build the optimization request for this roster.
// The driver must have coordinates; passengers are passed in stored order.
func (r *Roster) OptimizationRequest() (OptimizationRequest, error) {
	if r == nil {
		return OptimizationRequest{}, fmt.Errorf("roster request: roster must be non-nil")
	}
	if r.Driver.Role != "" && r.Driver.Role != RoleDriver {
		return OptimizationRequest{}, fmt.Errorf("roster request: route %d: user %d is not a driver", r.RouteID, r.Driver.ID)
	}

	passengers := make([]Location, len(r.Passengers))
	copy(passengers, r.Passengers)

	return OptimizationRequest{
		DriverStart: r.Driver,
		Passengers:  passengers,
	}, nil
}
