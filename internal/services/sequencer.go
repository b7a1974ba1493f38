package services

import (
	"math"

	"github.com/W-Nunes/MobiVan/internal/domain"
)

const earthRadiusKm = 6371.0

// Order passengers using a greedy nearest-neighbor heuristic.
//
// Starting from start, the unvisited passenger with the smallest great-circle
// distance from the current position is visited next. On exact ties the
// passenger that appears first in the input wins.
// It does not attempt global tour optimization; the result is a permutation
// of passengers and the input slice is never modified.
func NearestNeighborOrder(start domain.Location, passengers []domain.Location) []domain.Location {
	order := make([]domain.Location, 0, len(passengers))
	if len(passengers) == 0 {
		return order
	}

	visited := make([]bool, len(passengers))
	current := start

	for len(order) < len(passengers) {
		best := -1
		minDist := math.Inf(1)

		// Select next stop by minimum straight-line distance (greedy step).
		for i, p := range passengers {
			if visited[i] {
				continue
			}
			d := haversineKm(current.Latitude, current.Longitude, p.Latitude, p.Longitude)
			// Strict comparison keeps the earliest candidate on ties.
			if d < minDist {
				minDist = d
				best = i
			}
		}

		// Only reachable with non-finite coordinates; fall back to scan order.
		if best < 0 {
			for i := range passengers {
				if !visited[i] {
					best = i
					break
				}
			}
		}

		visited[best] = true
		order = append(order, passengers[best])
		current = passengers[best]
	}

	return order
}

// haversineKm returns the great-circle distance in kilometres between two
// points given in decimal degrees.
func haversineKm(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := degreesToRadians(lat2 - lat1)
	dLon := degreesToRadians(lon2 - lon1)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(degreesToRadians(lat1))*math.Cos(degreesToRadians(lat2))*
			math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusKm * c
}

func degreesToRadians(deg float64) float64 {
	return deg * math.Pi / 180.0
}
