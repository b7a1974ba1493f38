package domain

import "encoding/json"

// Maneuver is one turn-by-turn instruction within a computed route leg.
// Instruction and Modifier use the routing provider's vocabulary.
type Maneuver struct {
	Instruction    string
	Modifier       string
	StreetName     string
	Location       Coordinates
	DistanceMeters float64
}

// RouteInfo is the normalized answer of a routing provider for one ordered
// sequence of points.
type RouteInfo struct {
	DistanceMeters  float64
	DurationSeconds float64
	// Geometry is the provider's path shape, passed through untouched.
	Geometry  json.RawMessage
	Maneuvers []Maneuver
}

// OptimizationRequest holds the driver's start position and the passengers to pick up.
// Passengers may be empty.
type OptimizationRequest struct {
	DriverStart Location
	Passengers  []Location
}

// OptimizationResult is the consolidated output of one optimization.
// OptimizedOrder is a permutation of the request's passengers.
// Metrics are zero and Geometry is an empty object when no road route was available.
type OptimizationResult struct {
	OptimizedOrder       []Location
	TotalDistanceKm      float64
	TotalDurationMinutes float64
	Geometry             json.RawMessage
	Steps                []Maneuver
	// RouteAvailable is false when the routing provider failed softly
	// or was never called.
	RouteAvailable bool
}

// EmptyGeometry is the geometry reported when no road route is available.
var EmptyGeometry = json.RawMessage(`{}`)
