package geo

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type point struct {
	lat, lon *float64
}

func (p point) Coordinates() (float64, float64, bool) {
	if p.lat == nil || p.lon == nil {
		return 0, 0, false
	}
	return *p.lat, *p.lon, true
}

func coords(lat, lon float64) point {
	return point{lat: &lat, lon: &lon}
}

func TestHaversine(t *testing.T) {
	t.Run("identical points have zero distance", func(t *testing.T) {
		assert.Zero(t, Haversine(-1.2921, 36.8219, -1.2921, 36.8219))
	})

	t.Run("distance is symmetric", func(t *testing.T) {
		d1 := Haversine(-1.2921, 36.8219, 0.0917, 34.7680)
		d2 := Haversine(0.0917, 34.7680, -1.2921, 36.8219)
		assert.InDelta(t, d1, d2, 1e-9)
	})

	t.Run("known distance Nairobi to Kisumu", func(t *testing.T) {
		// Roughly 270 km apart
		d := Haversine(-1.2921, 36.8219, -0.0917, 34.7680)
		assert.InDelta(t, 266, d, 15)
	})

	t.Run("antipodal points approach half the circumference", func(t *testing.T) {
		d := Haversine(0, 0, 0, 180)
		assert.InDelta(t, 20015, d, 5)
	})
}

func TestFilterByRadius(t *testing.T) {
	origin := coords(-1.2921, 36.8219)

	t.Run("radius zero keeps only exact matches", func(t *testing.T) {
		items := []point{origin, coords(-1.30, 36.82), coords(10, 10)}
		got := FilterByRadius(items, -1.2921, 36.8219, 0)
		assert.Len(t, got, 1)
	})

	t.Run("items without coordinates are excluded", func(t *testing.T) {
		items := []point{origin, {}, {lat: origin.lat}}
		got := FilterByRadius(items, -1.2921, 36.8219, 1000)
		assert.Len(t, got, 1)
	})

	t.Run("keeps items within radius and preserves order", func(t *testing.T) {
		near := coords(-1.30, 36.83) // about 1.2 km away
		far := coords(-0.0917, 34.7680)
		got := FilterByRadius([]point{far, near, origin}, -1.2921, 36.8219, 10)
		assert.Equal(t, []point{near, origin}, got)
	})

	t.Run("empty input yields empty output", func(t *testing.T) {
		got := FilterByRadius[point](nil, 0, 0, 10)
		assert.Empty(t, got)
	})
}
