package dto

import (
	"encoding/json"

	"github.com/W-Nunes/MobiVan/internal/domain"
)

// LocationRequest uses pointers so a missing field is distinguishable from zero.
type LocationRequest struct {
	ID        *int64   `json:"id" validate:"required"`
	Name      *string  `json:"name" validate:"required"`
	Latitude  *float64 `json:"latitude" validate:"required,gte=-90,lte=90"`
	Longitude *float64 `json:"longitude" validate:"required,gte=-180,lte=180"`
	Type      string   `json:"type" validate:"omitempty,oneof=driver passenger"`
}

type OptimizeRequest struct {
	DriverStart *LocationRequest  `json:"driver_start" validate:"required"`
	Passengers  []LocationRequest `json:"passengers" validate:"required,dive"`
}

type LocationResponse struct {
	ID        int64   `json:"id"`
	Name      string  `json:"name"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Type      string  `json:"type"`
}

type StepResponse struct {
	Instruction string    `json:"instruction"`
	Modifier    string    `json:"modifier"`
	Name        string    `json:"name"`
	Location    []float64 `json:"location"`
	Distance    float64   `json:"distance"`
}

type OptimizeResponse struct {
	OptimizedOrder       []LocationResponse `json:"optimized_order"`
	TotalDistanceKm      float64            `json:"total_distance_km"`
	TotalDurationMinutes float64            `json:"total_duration_minutes"`
	Geometry             json.RawMessage    `json:"geometry"`
	Steps                []StepResponse     `json:"steps"`
}

// RosterOptimizeResponse is OptimizeResponse plus the roster it was computed for.
type RosterOptimizeResponse struct {
	RouteID   int64  `json:"route_id"`
	RouteName string `json:"route_name"`
	TripDate  string `json:"trip_date"`
	OptimizeResponse
}

// ToDomain assumes the request already passed validation.
func (l LocationRequest) ToDomain() domain.Location {
	role := domain.RolePassenger
	if l.Type != "" {
		role = domain.Role(l.Type)
	}
	return domain.Location{
		ID:        *l.ID,
		Name:      *l.Name,
		Latitude:  *l.Latitude,
		Longitude: *l.Longitude,
		Role:      role,
	}
}

func (r OptimizeRequest) ToDomain() domain.OptimizationRequest {
	passengers := make([]domain.Location, 0, len(r.Passengers))
	for _, p := range r.Passengers {
		passengers = append(passengers, p.ToDomain())
	}
	return domain.OptimizationRequest{
		DriverStart: r.DriverStart.ToDomain(),
		Passengers:  passengers,
	}
}

func NewOptimizeResponse(res *domain.OptimizationResult) OptimizeResponse {
	order := make([]LocationResponse, 0, len(res.OptimizedOrder))
	for _, l := range res.OptimizedOrder {
		order = append(order, LocationResponse{
			ID:        l.ID,
			Name:      l.Name,
			Latitude:  l.Latitude,
			Longitude: l.Longitude,
			Type:      string(l.Role),
		})
	}

	steps := make([]StepResponse, 0, len(res.Steps))
	for _, s := range res.Steps {
		steps = append(steps, StepResponse{
			Instruction: s.Instruction,
			Modifier:    s.Modifier,
			Name:        s.StreetName,
			Location:    s.Location.CoordsToList(),
			Distance:    s.DistanceMeters,
		})
	}

	geometry := res.Geometry
	if len(geometry) == 0 {
		geometry = domain.EmptyGeometry
	}

	return OptimizeResponse{
		OptimizedOrder:       order,
		TotalDistanceKm:      res.TotalDistanceKm,
		TotalDurationMinutes: res.TotalDurationMinutes,
		Geometry:             geometry,
		Steps:                steps,
	}
}
