package api

import (
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/W-Nunes/MobiVan/internal/adapters/repositories"
	"github.com/W-Nunes/MobiVan/internal/adapters/routing"
	"github.com/W-Nunes/MobiVan/internal/config"
	"github.com/W-Nunes/MobiVan/internal/domain"
	"github.com/W-Nunes/MobiVan/internal/platform/db"
	"github.com/W-Nunes/MobiVan/internal/services"
)

const optimizeBody = `{
	"driver_start": {"id": 100, "name": "Garage", "latitude": 0, "longitude": 0, "type": "driver"},
	"passengers": [
		{"id": 1, "name": "A", "latitude": 0, "longitude": 1},
		{"id": 5, "name": "E", "latitude": 0, "longitude": 5},
		{"id": 3, "name": "C", "latitude": 0, "longitude": 3}
	]
}`

func newTestRouter(t *testing.T, resolver *routing.MockPathResolver, deps Deps) http.Handler {
	t.Helper()
	deps.Optimizer = services.NewOptimizer(resolver, 50*time.Millisecond, nil)
	return NewRouter(deps)
}

func TestRouterOptimizeEndToEnd(t *testing.T) {
	resolver := routing.NewMockPathResolver(&domain.RouteInfo{
		DistanceMeters:  12345,
		DurationSeconds: 750,
		Geometry:        []byte(`{"type":"LineString","coordinates":[[0,0],[5,0]]}`),
	}, nil)
	h := newTestRouter(t, resolver, Deps{})

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/optimize", strings.NewReader(optimizeBody)))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
	assert.JSONEq(t, `{
		"optimized_order": [
			{"id": 1, "name": "A", "latitude": 0, "longitude": 1, "type": "passenger"},
			{"id": 3, "name": "C", "latitude": 0, "longitude": 3, "type": "passenger"},
			{"id": 5, "name": "E", "latitude": 0, "longitude": 5, "type": "passenger"}
		],
		"total_distance_km": 12.35,
		"total_duration_minutes": 13,
		"geometry": {"type": "LineString", "coordinates": [[0, 0], [5, 0]]},
		"steps": []
	}`, rec.Body.String())
}

func TestRouterOptimizeProviderDown(t *testing.T) {
	resolver := routing.NewMockPathResolver(nil, nil)
	resolver.Block = true
	h := newTestRouter(t, resolver, Deps{})

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/optimize", strings.NewReader(optimizeBody)))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"total_distance_km":0`)
	assert.Contains(t, rec.Body.String(), `"geometry":{}`)
	assert.Contains(t, rec.Body.String(), `"steps":[]`)
}

func TestRouterRequestIDPropagates(t *testing.T) {
	h := newTestRouter(t, routing.NewMockPathResolver(nil, nil), Deps{})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, "abc-123", rec.Header().Get("X-Request-ID"))
}

func TestRouterRoutes(t *testing.T) {
	h := newTestRouter(t, routing.NewMockPathResolver(nil, nil), Deps{})

	tests := []struct {
		method, path string
		status       int
	}{
		{http.MethodGet, "/", http.StatusOK},
		{http.MethodGet, "/health", http.StatusOK},
		{http.MethodGet, "/optimize", http.StatusMethodNotAllowed},
		{http.MethodGet, "/nope", http.StatusNotFound},
		// Without a roster database the stored-route endpoint does not exist.
		{http.MethodPost, "/routes/1/optimize", http.StatusNotFound},
	}
	for _, tt := range tests {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(tt.method, tt.path, nil))
		assert.Equal(t, tt.status, rec.Code, "%s %s", tt.method, tt.path)
	}
}

func TestRouterRateLimit(t *testing.T) {
	h := newTestRouter(t, routing.NewMockPathResolver(nil, nil), Deps{
		RateLimit: config.RateLimitConfig{RPS: 0.001, Burst: 2},
	})

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
		codes = append(codes, rec.Code)
	}

	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
}

func TestRouterRosterOptimize(t *testing.T) {
	conn, err := db.Open(db.DriverSQLite, ":memory:")
	require.NoError(t, err)
	defer conn.Close()
	require.NoError(t, repositories.InitSchema(conn))
	require.NoError(t, repositories.SeedFromJSON(conn, db.DriverSQLite, filepath.Join("..", "..", "data", "seeds", "roster.json")))

	resolver := routing.NewMockPathResolver(&domain.RouteInfo{DistanceMeters: 4200, DurationSeconds: 600}, nil)
	h := newTestRouter(t, resolver, Deps{Rosters: repositories.NewSqliteRosterRepository(conn, nil)})

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/routes/1/optimize?date=2026-03-02", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"total_distance_km":4.2`)

	calls := resolver.Calls()
	require.Len(t, calls, 1)
	// Driver plus the three confirmed passengers.
	assert.Len(t, calls[0], 4)
	assert.Equal(t, domain.RoleDriver, calls[0][0].Role)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/routes/99/optimize?date=2026-03-02", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
