package domain

// Coordinates is a point in the lon/lat order routing providers use on the wire.
type Coordinates struct {
	Lon float64
	Lat float64
}

// CoordsToList renders c as the two-element [lon, lat] array of a step location.
func (c Coordinates) CoordsToList() []float64 { return []float64{c.Lon, c.Lat} }
