package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/W-Nunes/MobiVan/internal/domain"
	"github.com/W-Nunes/MobiVan/internal/platform/db"
	"github.com/W-Nunes/MobiVan/internal/platform/obs"
	"github.com/W-Nunes/MobiVan/internal/ports"
)

var postgresRosterQueries = rosterQueries{
	route: `
	SELECT r.name, u.id, u.name, u.role, u.latitude, u.longitude
	FROM routes r
	JOIN users u ON u.id = r.driver_id
	WHERE r.id = $1;
	`,
	passengers: `
	SELECT u.id, u.name, u.role, u.latitude, u.longitude
	FROM trips t
	JOIN trip_confirmations c ON c.trip_id = t.id
	JOIN users u ON u.id = c.passenger_id
	WHERE t.route_id = $1
		AND t.trip_date = $2
		AND c.status = 'CONFIRMED'
	ORDER BY u.id;
	`,
}

// SQLRosterRepository reads rosters from a Postgres database laid out by
// InitSchema. Roles must be stored as "driver" and "passenger".
type SQLRosterRepository struct {
	DB     *sql.DB
	Logger *slog.Logger
}

func NewSQLRosterRepository(db *sql.DB, logger *slog.Logger) *SQLRosterRepository {
	return &SQLRosterRepository{DB: db, Logger: logger}
}

func (s *SQLRosterRepository) LoadRoster(ctx context.Context, routeID int64, tripDate time.Time) (_ *domain.Roster, err error) {
	defer obs.Time(ctx, s.Logger, "roster.sql.LoadRoster")(&err)

	return loadRoster(ctx, s.DB, postgresRosterQueries, routeID, tripDate)
}

// NewRosterRepository picks the implementation matching the database/sql driver name.
func NewRosterRepository(driver string, conn *sql.DB, logger *slog.Logger) (ports.RosterRepository, error) {
	switch driver {
	case db.DriverPostgres:
		return NewSQLRosterRepository(conn, logger), nil
	case db.DriverSQLite:
		return NewSqliteRosterRepository(conn, logger), nil
	default:
		return nil, fmt.Errorf("roster repository: unsupported driver %q", driver)
	}
}

var (
	_ ports.RosterRepository = (*SQLRosterRepository)(nil)
	_ ports.RosterRepository = (*SqliteRosterRepository)(nil)
)
