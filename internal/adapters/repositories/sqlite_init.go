package repositories

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/W-Nunes/MobiVan/internal/domain"
	"github.com/W-Nunes/MobiVan/internal/platform/db"
)

// Confirmation statuses written by the trips collaborator.
const (
	StatusConfirmed = "CONFIRMED"
	StatusCancelled = "CANCELLED"
)

// tripDateLayout is how trip dates are stored; TEXT keeps the schema
// identical on SQLite and Postgres.
const tripDateLayout = "2006-01-02"

// Initialize the roster schema. The DDL is portable between SQLite and Postgres.
func InitSchema(db *sql.DB) error {
	if db == nil {
		return errors.New("init schema: DB is nil")
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("init schema: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	createUsersQuery := `
	CREATE TABLE IF NOT EXISTS users (
		id BIGINT PRIMARY KEY,
		name TEXT NOT NULL,
		role TEXT NOT NULL CHECK (role IN ('driver', 'passenger')),
		latitude DOUBLE PRECISION NOT NULL,
		longitude DOUBLE PRECISION NOT NULL
	);
	`

	createRoutesQuery := `
	CREATE TABLE IF NOT EXISTS routes (
		id BIGINT PRIMARY KEY,
		name TEXT NOT NULL,
		driver_id BIGINT NOT NULL REFERENCES users(id)
	);
	`

	createTripsQuery := `
	CREATE TABLE IF NOT EXISTS trips (
		id BIGINT PRIMARY KEY,
		route_id BIGINT NOT NULL REFERENCES routes(id),
		trip_date TEXT NOT NULL,
		UNIQUE (route_id, trip_date)
	);
	`

	createConfirmationsQuery := `
	CREATE TABLE IF NOT EXISTS trip_confirmations (
		trip_id BIGINT NOT NULL REFERENCES trips(id),
		passenger_id BIGINT NOT NULL REFERENCES users(id),
		status TEXT NOT NULL,
		PRIMARY KEY (trip_id, passenger_id)
	);
	`

	createIndexQuery := `
	CREATE INDEX IF NOT EXISTS idx_trip_confirmations_status
	ON trip_confirmations(trip_id, status);
	`

	statements := []string{
		createUsersQuery,
		createRoutesQuery,
		createTripsQuery,
		createConfirmationsQuery,
		createIndexQuery,
	}

	for i, stmt := range statements {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("init schema: exec statement #%d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("init schema: commit tx: %w", err)
	}

	return nil
}

type UserSeed struct {
	ID        int64   `json:"id"`
	Name      string  `json:"name"`
	Role      string  `json:"role"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type RouteSeed struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	DriverID int64  `json:"driver_id"`
}

type ConfirmationSeed struct {
	PassengerID int64  `json:"passenger_id"`
	Status      string `json:"status"`
}

type TripSeed struct {
	ID            int64              `json:"id"`
	RouteID       int64              `json:"route_id"`
	TripDate      string             `json:"trip_date"`
	Confirmations []ConfirmationSeed `json:"confirmations"`
}

// RosterSeed is the layout of the seed file consumed by SeedFromJSON.
type RosterSeed struct {
	Users  []UserSeed  `json:"users"`
	Routes []RouteSeed `json:"routes"`
	Trips  []TripSeed  `json:"trips"`
}

func (s *RosterSeed) validate() error {
	for i, u := range s.Users {
		if u.ID <= 0 {
			return fmt.Errorf("user at index %d: invalid id %d", i+1, u.ID)
		}
		if strings.TrimSpace(u.Name) == "" {
			return fmt.Errorf("user %d: name cannot be empty", u.ID)
		}
		if domain.Role(u.Role) != domain.RoleDriver && domain.Role(u.Role) != domain.RolePassenger {
			return fmt.Errorf("user %d: unknown role %q", u.ID, u.Role)
		}
		if u.Latitude < -90 || u.Latitude > 90 || u.Longitude < -180 || u.Longitude > 180 {
			return fmt.Errorf("user %d: coordinates out of range", u.ID)
		}
	}
	for i, r := range s.Routes {
		if r.ID <= 0 || r.DriverID <= 0 {
			return fmt.Errorf("route at index %d: invalid id or driver_id", i+1)
		}
		if strings.TrimSpace(r.Name) == "" {
			return fmt.Errorf("route %d: name cannot be empty", r.ID)
		}
	}
	for i, t := range s.Trips {
		if t.ID <= 0 || t.RouteID <= 0 {
			return fmt.Errorf("trip at index %d: invalid id or route_id", i+1)
		}
		if _, err := time.Parse(tripDateLayout, t.TripDate); err != nil {
			return fmt.Errorf("trip %d: invalid trip_date %q", t.ID, t.TripDate)
		}
		for _, c := range t.Confirmations {
			if c.Status != StatusConfirmed && c.Status != StatusCancelled {
				return fmt.Errorf("trip %d passenger %d: unknown status %q", t.ID, c.PassengerID, c.Status)
			}
		}
	}
	return nil
}

// Populate the roster tables from a JSON file. Rows are upserted by primary key,
// so seeding twice is harmless.
func SeedFromJSON(conn *sql.DB, driver, jsonPath string) error {
	if conn == nil {
		return errors.New("seed roster: DB is nil")
	}

	bytes, err := os.ReadFile(jsonPath)
	if err != nil {
		return fmt.Errorf("seed roster: read %q: %w", jsonPath, err)
	}

	var data RosterSeed
	if err := json.Unmarshal(bytes, &data); err != nil {
		return fmt.Errorf("seed roster: parse json: %w", err)
	}
	if err := data.validate(); err != nil {
		return fmt.Errorf("seed roster: %w", err)
	}

	tx, err := conn.Begin()
	if err != nil {
		return fmt.Errorf("seed roster: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, u := range data.Users {
		_, err := tx.Exec(rebind(driver, `
		INSERT INTO users (id, name, role, latitude, longitude)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE
		SET name = EXCLUDED.name,
			role = EXCLUDED.role,
			latitude = EXCLUDED.latitude,
			longitude = EXCLUDED.longitude;
		`), u.ID, strings.TrimSpace(u.Name), u.Role, u.Latitude, u.Longitude)
		if err != nil {
			return fmt.Errorf("seed roster: insert user id=%d: %w", u.ID, err)
		}
	}

	for _, r := range data.Routes {
		_, err := tx.Exec(rebind(driver, `
		INSERT INTO routes (id, name, driver_id)
		VALUES (?, ?, ?)
		ON CONFLICT (id) DO UPDATE
		SET name = EXCLUDED.name,
			driver_id = EXCLUDED.driver_id;
		`), r.ID, strings.TrimSpace(r.Name), r.DriverID)
		if err != nil {
			return fmt.Errorf("seed roster: insert route id=%d: %w", r.ID, err)
		}
	}

	for _, t := range data.Trips {
		_, err := tx.Exec(rebind(driver, `
		INSERT INTO trips (id, route_id, trip_date)
		VALUES (?, ?, ?)
		ON CONFLICT (id) DO UPDATE
		SET route_id = EXCLUDED.route_id,
			trip_date = EXCLUDED.trip_date;
		`), t.ID, t.RouteID, t.TripDate)
		if err != nil {
			return fmt.Errorf("seed roster: insert trip id=%d: %w", t.ID, err)
		}

		for _, c := range t.Confirmations {
			_, err := tx.Exec(rebind(driver, `
			INSERT INTO trip_confirmations (trip_id, passenger_id, status)
			VALUES (?, ?, ?)
			ON CONFLICT (trip_id, passenger_id) DO UPDATE
			SET status = EXCLUDED.status;
			`), t.ID, c.PassengerID, c.Status)
			if err != nil {
				return fmt.Errorf("seed roster: insert confirmation trip=%d passenger=%d: %w", t.ID, c.PassengerID, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("seed roster: commit tx: %w", err)
	}

	return nil
}

// rebind rewrites "?" placeholders to "$1, $2, ..." for the pgx driver.
func rebind(driver, query string) string {
	if driver != db.DriverPostgres {
		return query
	}

	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteString("$" + strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
