package domain

import "math"

// earthRadiusKm is the mean Earth radius used for great-circle distances.
const earthRadiusKm = 6371.0

// london is the fixed reference point for distance calculations
// (Charing Cross).
var london = Position{Latitude: 51.5074, Longitude: -0.1278}

// Distance returns the great-circle (haversine) distance between two
// positions in kilometers.
func Distance(a, b Position) float64 {
	latA := degreesToRadians(a.Latitude)
	latB := degreesToRadians(b.Latitude)
	deltaLat := degreesToRadians(b.Latitude - a.Latitude)
	deltaLon := degreesToRadians(b.Longitude - a.Longitude)

	h := math.Sin(deltaLat/2)*math.Sin(deltaLat/2) +
		math.Cos(latA)*math.Cos(latB)*math.Sin(deltaLon/2)*math.Sin(deltaLon/2)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))

	return earthRadiusKm * c
}

// DistanceToLondon returns the great-circle distance from pos to London in
// kilometers.
func DistanceToLondon(pos Position) float64 {
	return Distance(pos, london)
}

func degreesToRadians(deg float64) float64 {
	return deg * math.Pi / 180
}
