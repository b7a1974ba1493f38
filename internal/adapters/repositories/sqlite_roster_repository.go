package repositories

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"github.com/W-Nunes/MobiVan/internal/domain"
	"github.com/W-Nunes/MobiVan/internal/platform/obs"
)

var sqliteRosterQueries = rosterQueries{
	route: `
	SELECT r.name, u.id, u.name, u.role, u.latitude, u.longitude
	FROM routes r
	JOIN users u ON u.id = r.driver_id
	WHERE r.id = ?;
	`,
	passengers: `
	SELECT u.id, u.name, u.role, u.latitude, u.longitude
	FROM trips t
	JOIN trip_confirmations c ON c.trip_id = t.id
	JOIN users u ON u.id = c.passenger_id
	WHERE t.route_id = ?
		AND t.trip_date = ?
		AND c.status = 'CONFIRMED'
	ORDER BY u.id;
	`,
}

// SQLite-backed implementation of the RosterRepository port.
type SqliteRosterRepository struct {
	DB     *sql.DB
	Logger *slog.Logger
}

func NewSqliteRosterRepository(db *sql.DB, logger *slog.Logger) *SqliteRosterRepository {
	return &SqliteRosterRepository{DB: db, Logger: logger}
}

// Return the driver and confirmed passengers of a route for one date.
func (s *SqliteRosterRepository) LoadRoster(ctx context.Context, routeID int64, tripDate time.Time) (_ *domain.Roster, err error) {
	defer obs.Time(ctx, s.Logger, "roster.sqlite.LoadRoster")(&err)

	return loadRoster(ctx, s.DB, sqliteRosterQueries, routeID, tripDate)
}
