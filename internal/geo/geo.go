package geo

import "math"

// earthRadiusMeters is the mean earth radius used by the haversine formula.
const earthRadiusMeters = 6371000.0

// Point is a geographic coordinate in signed decimal degrees.
type Point struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Distance returns the great-circle distance between two points in meters.
// It is zero for identical points and never negative.
func Distance(a, b Point) float64 {
	lat1 := radians(a.Latitude)
	lat2 := radians(b.Latitude)
	dLat := radians(b.Latitude - a.Latitude)
	dLon := radians(b.Longitude - a.Longitude)

	sinLat := math.Sin(dLat / 2)
	sinLon := math.Sin(dLon / 2)

	h := sinLat*sinLat + math.Cos(lat1)*math.Cos(lat2)*sinLon*sinLon
	// Clamp to [0, 1] so antipodal rounding noise can't push Asin out of domain.
	if h > 1 {
		h = 1
	}

	return 2 * earthRadiusMeters * math.Asin(math.Sqrt(h))
}

func radians(deg float64) float64 {
	return deg * math.Pi / 180
}

// Classifier decides whether a sample point lies inside the circular
// geofence around a reference point. A sample exactly on the boundary
// counts as inside.
type Classifier struct {
	RadiusMeters float64
}

// NewClassifier creates a classifier with the given containment radius.
func NewClassifier(radiusMeters float64) Classifier {
	return Classifier{RadiusMeters: radiusMeters}
}

// IsInside reports whether sample is within the fence around ref.
func (c Classifier) IsInside(sample, ref Point) bool {
	return Distance(sample, ref) <= c.RadiusMeters
}
