// Package geo provides great-circle distance math and radius filtering
// for entities that expose optional coordinates.
package geo

import "math"

// earthRadiusKm is the mean radius used for haversine distances.
const earthRadiusKm = 6371.0

// Locatable is anything that may carry a position. Entities without both
// axes set report ok=false and are skipped by radius filters.
type Locatable interface {
	Coordinates() (lat, lon float64, ok bool)
}

// Haversine returns the great-circle distance between two points in kilometers.
func Haversine(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := toRadians(lat2 - lat1)
	dLon := toRadians(lon2 - lon1)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRadians(lat1))*math.Cos(toRadians(lat2))*
			math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusKm * c
}

// FilterByRadius keeps the items whose distance from (lat, lon) is at most
// radiusKm. Items without coordinates are excluded, never errored.
func FilterByRadius[T Locatable](items []T, lat, lon, radiusKm float64) []T {
	filtered := make([]T, 0, len(items))
	for _, item := range items {
		itemLat, itemLon, ok := item.Coordinates()
		if !ok {
			continue
		}
		if Haversine(lat, lon, itemLat, itemLon) <= radiusKm {
			filtered = append(filtered, item)
		}
	}
	return filtered
}

func toRadians(deg float64) float64 {
	return deg * math.Pi / 180
}
