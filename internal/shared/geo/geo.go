package geo

import "math"

// earthRadiusKm is the mean Earth radius used by the haversine formula.
// Spherical approximation is accurate enough for cycling-scale distances.
const earthRadiusKm = 6371.0

// HaversineKm returns the great-circle distance in kilometers between two
// WGS84 coordinates. Every stage of the route pipeline goes through this
// one function so raw and simplified paths measure distance identically.
func HaversineKm(lat1, lng1, lat2, lng2 float64) float64 {
	lat1Rad := lat1 * math.Pi / 180
	lat2Rad := lat2 * math.Pi / 180
	deltaLat := (lat2 - lat1) * math.Pi / 180
	deltaLng := (lng2 - lng1) * math.Pi / 180

	a := math.Sin(deltaLat/2)*math.Sin(deltaLat/2) +
		math.Cos(lat1Rad)*math.Cos(lat2Rad)*
			math.Sin(deltaLng/2)*math.Sin(deltaLng/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusKm * c
}

// GradientPercent returns the signed slope between two points as a
// percentage, given the elevation delta in meters and the horizontal
// distance in kilometers. Returns 0 when there is no horizontal run.
func GradientPercent(elevationDeltaM, horizontalKm float64) float64 {
	if horizontalKm <= 0 {
		return 0
	}
	return elevationDeltaM / (horizontalKm * 1000) * 100
}
