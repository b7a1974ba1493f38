package services

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/W-Nunes/MobiVan/internal/adapters/routing"
	"github.com/W-Nunes/MobiVan/internal/domain"
)

func sampleRequest() domain.OptimizationRequest {
	return domain.OptimizationRequest{
		DriverStart: domain.Location{ID: 100, Name: "Garage", Latitude: 0, Longitude: 0, Role: domain.RoleDriver},
		Passengers: []domain.Location{
			{ID: 1, Name: "Ana", Latitude: 0, Longitude: 1, Role: domain.RolePassenger},
			{ID: 5, Name: "Bia", Latitude: 0, Longitude: 5, Role: domain.RolePassenger},
			{ID: 3, Name: "Caio", Latitude: 0, Longitude: 3, Role: domain.RolePassenger},
		},
	}
}

func TestOptimizeNoPassengersSkipsResolver(t *testing.T) {
	mock := routing.NewMockPathResolver(&domain.RouteInfo{DistanceMeters: 1}, nil)
	opt := NewOptimizer(mock, time.Second, nil)

	res := opt.Optimize(context.Background(), domain.OptimizationRequest{
		DriverStart: domain.Location{ID: 1, Role: domain.RoleDriver},
	})

	require.NotNil(t, res)
	assert.Empty(t, res.OptimizedOrder)
	assert.NotNil(t, res.OptimizedOrder)
	assert.Zero(t, res.TotalDistanceKm)
	assert.Zero(t, res.TotalDurationMinutes)
	assert.JSONEq(t, `{}`, string(res.Geometry))
	assert.Empty(t, res.Steps)
	assert.Empty(t, mock.Calls())
}

func TestOptimizeConvertsUnits(t *testing.T) {
	geom := json.RawMessage(`{"type":"LineString","coordinates":[[0,0],[5,0]]}`)
	maneuvers := []domain.Maneuver{
		{Instruction: "depart", StreetName: "Rua A", Location: domain.Coordinates{Lon: 0, Lat: 0}, DistanceMeters: 10},
		{Instruction: "arrive", Location: domain.Coordinates{Lon: 5, Lat: 0}},
	}
	mock := routing.NewMockPathResolver(&domain.RouteInfo{
		DistanceMeters:  12345,
		DurationSeconds: 725,
		Geometry:        geom,
		Maneuvers:       maneuvers,
	}, nil)
	opt := NewOptimizer(mock, time.Second, nil)

	res := opt.Optimize(context.Background(), sampleRequest())

	assert.Equal(t, 12.35, res.TotalDistanceKm)
	assert.Equal(t, 12.0, res.TotalDurationMinutes)
	assert.JSONEq(t, string(geom), string(res.Geometry))
	assert.Equal(t, maneuvers, res.Steps)
	assert.True(t, res.RouteAvailable)
	assert.Equal(t, []int64{1, 3, 5}, ids(res.OptimizedOrder))
}

func TestOptimizePassesStartThenOrderToResolver(t *testing.T) {
	mock := routing.NewMockPathResolver(&domain.RouteInfo{}, nil)
	opt := NewOptimizer(mock, time.Second, nil)
	req := sampleRequest()

	res := opt.Optimize(context.Background(), req)

	calls := mock.Calls()
	require.Len(t, calls, 1)
	require.Len(t, calls[0], len(req.Passengers)+1)
	assert.Equal(t, req.DriverStart, calls[0][0])
	assert.Equal(t, res.OptimizedOrder, calls[0][1:])
}

func TestOptimizeResolverFailureKeepsOrder(t *testing.T) {
	mock := routing.NewMockPathResolver(nil, errors.New("connection refused"))
	opt := NewOptimizer(mock, time.Second, nil)

	res := opt.Optimize(context.Background(), sampleRequest())

	require.NotNil(t, res)
	assert.Equal(t, []int64{1, 3, 5}, ids(res.OptimizedOrder))
	assert.Zero(t, res.TotalDistanceKm)
	assert.Zero(t, res.TotalDurationMinutes)
	assert.JSONEq(t, `{}`, string(res.Geometry))
	assert.NotNil(t, res.Steps)
	assert.Empty(t, res.Steps)
	assert.False(t, res.RouteAvailable)
}

func TestOptimizeNilRouteInfoIsSoftFailure(t *testing.T) {
	mock := routing.NewMockPathResolver(nil, nil)
	opt := NewOptimizer(mock, time.Second, nil)

	res := opt.Optimize(context.Background(), sampleRequest())

	assert.False(t, res.RouteAvailable)
	assert.Len(t, res.OptimizedOrder, 3)
}

func TestOptimizeResolverTimeout(t *testing.T) {
	mock := routing.NewMockPathResolver(nil, nil)
	mock.Block = true
	opt := NewOptimizer(mock, 20*time.Millisecond, nil)

	start := time.Now()
	res := opt.Optimize(context.Background(), sampleRequest())

	assert.Less(t, time.Since(start), time.Second)
	assert.False(t, res.RouteAvailable)
	assert.Equal(t, []int64{1, 3, 5}, ids(res.OptimizedOrder))
}

func TestOptimizeMissingGeometryBecomesEmptyObject(t *testing.T) {
	mock := routing.NewMockPathResolver(&domain.RouteInfo{DistanceMeters: 500, DurationSeconds: 60}, nil)
	opt := NewOptimizer(mock, time.Second, nil)

	res := opt.Optimize(context.Background(), sampleRequest())

	assert.True(t, res.RouteAvailable)
	assert.JSONEq(t, `{}`, string(res.Geometry))
	assert.NotNil(t, res.Steps)
}

func TestMetersToKm(t *testing.T) {
	tests := []struct {
		in, want float64
	}{
		{12345, 12.35},
		{12344, 12.34},
		{1005, 1.01},
		{999, 1.0},
		{0, 0},
		{-5, 0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, MetersToKm(tt.in), "meters=%v", tt.in)
	}
}

func TestSecondsToMinutes(t *testing.T) {
	tests := []struct {
		in, want float64
	}{
		{725, 12},
		{750, 13},
		{749, 12},
		{29, 0},
		{30, 1},
		{0, 0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, SecondsToMinutes(tt.in), "seconds=%v", tt.in)
	}
}
