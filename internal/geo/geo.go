package geo

import (
	"fmt"
	"math"
)

// EarthRadiusKm is the mean Earth radius used by Distance.
const EarthRadiusKm = 6371.0

// Coordinates is a latitude/longitude pair in degrees.
type Coordinates struct {
	Latitude  float64
	Longitude float64
}

// MalformedCoordinateError reports a coordinate pair outside [-90,90]x[-180,180].
type MalformedCoordinateError struct {
	Latitude  float64
	Longitude float64
}

func (e *MalformedCoordinateError) Error() string {
	return fmt.Sprintf("malformed coordinates (%v, %v): latitude must be in [-90,90] and longitude in [-180,180]", e.Latitude, e.Longitude)
}

// Validate returns a *MalformedCoordinateError when c is out of bounds or not a number.
func Validate(c Coordinates) error {
	if math.IsNaN(c.Latitude) || math.IsNaN(c.Longitude) ||
		c.Latitude < -90 || c.Latitude > 90 ||
		c.Longitude < -180 || c.Longitude > 180 {
		return &MalformedCoordinateError{Latitude: c.Latitude, Longitude: c.Longitude}
	}
	return nil
}

// Distance returns the great-circle distance in kilometers between a and b
// using the haversine formula.
func Distance(a, b Coordinates) float64 {
	dLat := radians(b.Latitude - a.Latitude)
	dLon := radians(b.Longitude - a.Longitude)
	lat1 := radians(a.Latitude)
	lat2 := radians(b.Latitude)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Sin(dLon/2)*math.Sin(dLon/2)*math.Cos(lat1)*math.Cos(lat2)
	// rounding can push h slightly above 1 for antipodal points
	h = math.Min(1, math.Max(0, h))

	return EarthRadiusKm * 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
}

func radians(deg float64) float64 {
	return deg * math.Pi / 180
}
