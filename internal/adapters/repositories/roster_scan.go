package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/W-Nunes/MobiVan/internal/domain"
	"github.com/W-Nunes/MobiVan/internal/ports"
)

// rosterQueries holds one dialect's statements. Both take the route id first;
// passengers additionally takes the trip date as "YYYY-MM-DD".
type rosterQueries struct {
	route      string
	passengers string
}

func loadRoster(ctx context.Context, conn *sql.DB, q rosterQueries, routeID int64, tripDate time.Time) (*domain.Roster, error) {
	if conn == nil {
		return nil, errors.New("load roster: DB is nil")
	}

	roster := &domain.Roster{RouteID: routeID, TripDate: tripDate}

	var role string
	err := conn.QueryRowContext(ctx, q.route, routeID).Scan(
		&roster.RouteName,
		&roster.Driver.ID,
		&roster.Driver.Name,
		&role,
		&roster.Driver.Latitude,
		&roster.Driver.Longitude,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("load roster: route %d: %w", routeID, ports.ErrRosterNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("load roster: query route %d: %w", routeID, err)
	}
	roster.Driver.Role = domain.Role(role)

	rows, err := conn.QueryContext(ctx, q.passengers, routeID, tripDate.Format(tripDateLayout))
	if err != nil {
		return nil, fmt.Errorf("load roster: query passengers: %w", err)
	}
	defer rows.Close()

	passengers := make([]domain.Location, 0, 16)
	for rows.Next() {
		var p domain.Location
		if err := rows.Scan(&p.ID, &p.Name, &role, &p.Latitude, &p.Longitude); err != nil {
			return nil, fmt.Errorf("load roster: scan passenger: %w", err)
		}
		p.Role = domain.Role(role)
		passengers = append(passengers, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("load roster: row iteration: %w", err)
	}

	roster.Passengers = passengers
	return roster, nil
}
