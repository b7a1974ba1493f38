package domain

// Role tells whether a Location is the driver's start or a passenger pickup.
type Role string

const (
	RoleDriver    Role = "driver"
	RolePassenger Role = "passenger"
)

// Location is a point of interest supplied by the caller.
// The optimizer never validates ID uniqueness and never mutates a Location.
type Location struct {
	ID        int64
	Name      string
	Latitude  float64
	Longitude float64
	Role      Role
}

// Coords returns the location as lon/lat coordinates.
func (l Location) Coords() Coordinates {
	return Coordinates{Lon: l.Longitude, Lat: l.Latitude}
}
