package geo

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// metersPerDegreeLat is the approximate north-south distance of one
// degree of latitude, used to construct points at known distances.
const metersPerDegreeLat = earthRadiusMeters * 3.141592653589793 / 180

// pointAtMeters returns a point the given distance due north of origin.
func pointAtMeters(origin Point, meters float64) Point {
	return Point{
		Latitude:  origin.Latitude + meters/metersPerDegreeLat,
		Longitude: origin.Longitude,
	}
}

func TestDistance(t *testing.T) {
	hq := Point{Latitude: 12.9716, Longitude: 77.5946}

	t.Run("identical points are zero meters apart", func(t *testing.T) {
		assert.Equal(t, 0.0, Distance(hq, hq))
		assert.Equal(t, 0.0, Distance(Point{}, Point{}))
	})

	t.Run("one degree of longitude at the equator", func(t *testing.T) {
		d := Distance(Point{0, 0}, Point{0, 1})
		assert.InDelta(t, 111194.9, d, 1.0)
	})

	t.Run("symmetric", func(t *testing.T) {
		other := Point{Latitude: 12.9352, Longitude: 77.6245}
		assert.InDelta(t, Distance(hq, other), Distance(other, hq), 1e-9)
	})

	t.Run("constructed northward offsets land at the expected distance", func(t *testing.T) {
		for _, meters := range []float64{50, 200, 500, 5000} {
			d := Distance(hq, pointAtMeters(hq, meters))
			assert.InDelta(t, meters, d, 0.01)
		}
	})

	t.Run("antipodal points stay finite", func(t *testing.T) {
		d := Distance(Point{0, 0}, Point{0, 180})
		assert.InDelta(t, 3.141592653589793*earthRadiusMeters, d, 1.0)
	})
}

func TestClassifierIsInside(t *testing.T) {
	hq := Point{Latitude: 12.9716, Longitude: 77.5946}
	c := NewClassifier(200.0)

	testCases := []struct {
		name   string
		sample Point
		inside bool
	}{
		{"at the reference point", hq, true},
		{"well inside the fence", pointAtMeters(hq, 50), true},
		{"just inside the boundary", pointAtMeters(hq, 199.9), true},
		{"just outside the boundary", pointAtMeters(hq, 200.1), false},
		{"far outside", pointAtMeters(hq, 500), false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.inside, c.IsInside(tc.sample, hq))
		})
	}
}

// The boundary itself is inside: with a radius equal to the exact
// computed distance, the verdict must flip only strictly beyond it.
func TestClassifierBoundaryInclusive(t *testing.T) {
	hq := Point{Latitude: 12.9716, Longitude: 77.5946}
	sample := pointAtMeters(hq, 200)

	exact := Distance(hq, sample)
	assert.True(t, NewClassifier(exact).IsInside(sample, hq))
	assert.False(t, NewClassifier(exact-1e-6).IsInside(sample, hq))
}

// Monotonicity: any point closer than an inside point is also inside.
func TestClassifierMonotonicInDistance(t *testing.T) {
	hq := Point{Latitude: 12.9716, Longitude: 77.5946}
	c := NewClassifier(200.0)

	outer := pointAtMeters(hq, 180)
	assert.True(t, c.IsInside(outer, hq))
	for _, meters := range []float64{0, 30, 90, 150, 179} {
		closer := pointAtMeters(hq, meters)
		assert.LessOrEqual(t, Distance(closer, hq), Distance(outer, hq))
		assert.True(t, c.IsInside(closer, hq))
	}
}
