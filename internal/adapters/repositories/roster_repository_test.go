package repositories

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/W-Nunes/MobiVan/internal/domain"
	"github.com/W-Nunes/MobiVan/internal/platform/db"
	"github.com/W-Nunes/MobiVan/internal/ports"
)

const testSeed = `{
  "users": [
    {"id": 1, "name": "Driver", "role": "driver", "latitude": -23.55, "longitude": -46.63},
    {"id": 30, "name": "Late", "role": "passenger", "latitude": -23.57, "longitude": -46.65},
    {"id": 20, "name": "Early", "role": "passenger", "latitude": -23.56, "longitude": -46.64},
    {"id": 40, "name": "Cancelled", "role": "passenger", "latitude": -23.58, "longitude": -46.66}
  ],
  "routes": [
    {"id": 7, "name": "Morning", "driver_id": 1},
    {"id": 8, "name": "Empty", "driver_id": 1}
  ],
  "trips": [
    {"id": 1, "route_id": 7, "trip_date": "2026-03-02", "confirmations": [
      {"passenger_id": 30, "status": "CONFIRMED"},
      {"passenger_id": 20, "status": "CONFIRMED"},
      {"passenger_id": 40, "status": "CANCELLED"}
    ]},
    {"id": 2, "route_id": 7, "trip_date": "2026-03-03", "confirmations": [
      {"passenger_id": 40, "status": "CONFIRMED"}
    ]}
  ]
}`

func writeSeed(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "seed.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func newSeededDB(t *testing.T) *sql.DB {
	t.Helper()
	conn, err := db.Open(db.DriverSQLite, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	require.NoError(t, InitSchema(conn))
	require.NoError(t, SeedFromJSON(conn, db.DriverSQLite, writeSeed(t, testSeed)))
	return conn
}

func date(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := time.Parse("2006-01-02", s)
	require.NoError(t, err)
	return d
}

func TestLoadRosterConfirmedPassengersOnly(t *testing.T) {
	repo := NewSqliteRosterRepository(newSeededDB(t), nil)

	roster, err := repo.LoadRoster(context.Background(), 7, date(t, "2026-03-02"))
	require.NoError(t, err)

	assert.Equal(t, int64(7), roster.RouteID)
	assert.Equal(t, "Morning", roster.RouteName)
	assert.Equal(t, domain.Location{ID: 1, Name: "Driver", Latitude: -23.55, Longitude: -46.63, Role: domain.RoleDriver}, roster.Driver)

	require.Len(t, roster.Passengers, 2)
	assert.Equal(t, int64(20), roster.Passengers[0].ID)
	assert.Equal(t, int64(30), roster.Passengers[1].ID)
	assert.Equal(t, domain.RolePassenger, roster.Passengers[0].Role)
}

func TestLoadRosterOtherDate(t *testing.T) {
	repo := NewSqliteRosterRepository(newSeededDB(t), nil)

	roster, err := repo.LoadRoster(context.Background(), 7, date(t, "2026-03-03"))
	require.NoError(t, err)
	require.Len(t, roster.Passengers, 1)
	assert.Equal(t, int64(40), roster.Passengers[0].ID)
}

func TestLoadRosterWithoutTrip(t *testing.T) {
	repo := NewSqliteRosterRepository(newSeededDB(t), nil)

	roster, err := repo.LoadRoster(context.Background(), 8, date(t, "2026-03-02"))
	require.NoError(t, err)
	assert.NotNil(t, roster.Passengers)
	assert.Empty(t, roster.Passengers)
}

func TestLoadRosterUnknownRoute(t *testing.T) {
	repo := NewSqliteRosterRepository(newSeededDB(t), nil)

	_, err := repo.LoadRoster(context.Background(), 999, date(t, "2026-03-02"))
	assert.ErrorIs(t, err, ports.ErrRosterNotFound)
}

func TestSeedFromJSONIsIdempotent(t *testing.T) {
	conn := newSeededDB(t)
	require.NoError(t, SeedFromJSON(conn, db.DriverSQLite, writeSeed(t, testSeed)))

	var n int
	require.NoError(t, conn.QueryRow(`SELECT COUNT(*) FROM trip_confirmations`).Scan(&n))
	assert.Equal(t, 4, n)
}

func TestSeedFromJSONRejectsInvalidData(t *testing.T) {
	conn, err := db.Open(db.DriverSQLite, ":memory:")
	require.NoError(t, err)
	defer conn.Close()
	require.NoError(t, InitSchema(conn))

	tests := map[string]string{
		"bad role":     `{"users":[{"id":1,"name":"x","role":"admin","latitude":0,"longitude":0}]}`,
		"foreign role": `{"users":[{"id":1,"name":"x","role":"MOTORISTA","latitude":0,"longitude":0}]}`,
		"bad latitude": `{"users":[{"id":1,"name":"x","role":"driver","latitude":91,"longitude":0}]}`,
		"bad date":     `{"trips":[{"id":1,"route_id":1,"trip_date":"02/03/2026"}]}`,
		"bad status":   `{"trips":[{"id":1,"route_id":1,"trip_date":"2026-03-02","confirmations":[{"passenger_id":1,"status":"MAYBE"}]}]}`,
		"bad json":     `{"users": [`,
	}
	for name, content := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Error(t, SeedFromJSON(conn, db.DriverSQLite, writeSeed(t, content)))
		})
	}
}

func TestSeedShippedRosterFile(t *testing.T) {
	conn, err := db.Open(db.DriverSQLite, ":memory:")
	require.NoError(t, err)
	defer conn.Close()
	require.NoError(t, InitSchema(conn))

	require.NoError(t, SeedFromJSON(conn, db.DriverSQLite, filepath.Join("..", "..", "..", "data", "seeds", "roster.json")))

	roster, err := NewSqliteRosterRepository(conn, nil).LoadRoster(context.Background(), 1, date(t, "2026-03-02"))
	require.NoError(t, err)
	assert.Len(t, roster.Passengers, 3)
}

func TestRebind(t *testing.T) {
	q := "INSERT INTO t (a, b) VALUES (?, ?)"
	assert.Equal(t, q, rebind(db.DriverSQLite, q))
	assert.Equal(t, "INSERT INTO t (a, b) VALUES ($1, $2)", rebind(db.DriverPostgres, q))
}

func TestNewRosterRepository(t *testing.T) {
	repo, err := NewRosterRepository(db.DriverPostgres, nil, nil)
	require.NoError(t, err)
	assert.IsType(t, &SQLRosterRepository{}, repo)

	repo, err = NewRosterRepository(db.DriverSQLite, nil, nil)
	require.NoError(t, err)
	assert.IsType(t, &SqliteRosterRepository{}, repo)

	_, err = NewRosterRepository("mysql", nil, nil)
	assert.Error(t, err)
}
