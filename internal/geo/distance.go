// Package geo provides great-circle distance math for lead enrichment.
package geo

import "math"

// earthRadiusMiles is the mean Earth radius used for haversine distances.
const earthRadiusMiles = 3959

// Miles returns the great-circle distance in miles between two points
// given in degrees, using the haversine formula. It is symmetric and
// returns 0 for identical points.
func Miles(lat1, lon1, lat2, lon2 float64) float64 {
	lat1Rad := lat1 * math.Pi / 180
	lon1Rad := lon1 * math.Pi / 180
	lat2Rad := lat2 * math.Pi / 180
	lon2Rad := lon2 * math.Pi / 180

	dLat := lat2Rad - lat1Rad
	dLon := lon2Rad - lon1Rad

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1Rad)*math.Cos(lat2Rad)*math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Asin(math.Sqrt(a))

	return earthRadiusMiles * c
}
