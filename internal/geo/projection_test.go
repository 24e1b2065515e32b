package geo

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProjectOrigin(t *testing.T) {
	p := Project(LatLng{Lat: 0, Lng: 0}, 0)
	assert.InDelta(t, 128, p.X, 1e-9)
	assert.InDelta(t, 128, p.Y, 1e-9)

	p = Project(LatLng{Lat: 0, Lng: -180}, 3)
	assert.InDelta(t, 0, p.X, 1e-9)
}

func TestProjectMonotonicInLongitude(t *testing.T) {
	for z := 0; z <= 18; z++ {
		prev := math.Inf(-1)
		for lng := -179.0; lng <= 179; lng += 7.5 {
			x := Project(LatLng{Lat: 16.5, Lng: lng}, z).X
			require.Greater(t, x, prev, "zoom %d lng %v", z, lng)
			prev = x
		}
	}
}

func TestProjectYIncreasesSouthward(t *testing.T) {
	for z := 0; z <= 18; z++ {
		prev := math.Inf(-1)
		for lat := 85.0; lat >= -85; lat -= 5 {
			y := Project(LatLng{Lat: lat, Lng: 80.648}, z).Y
			require.False(t, math.IsNaN(y))
			require.Greater(t, y, prev, "zoom %d lat %v", z, lat)
			prev = y
		}
	}
}

func TestProjectScalesWithZoom(t *testing.T) {
	c := LatLng{Lat: 16.5062, Lng: 80.6480}
	a := Project(c, 12)
	b := Project(c, 13)
	assert.InDelta(t, a.X*2, b.X, 1e-6)
	assert.InDelta(t, a.Y*2, b.Y, 1e-6)
}

func TestLerp(t *testing.T) {
	a := LatLng{Lat: 10, Lng: 20}
	b := LatLng{Lat: 12, Lng: 24}
	assert.Equal(t, a, Lerp(a, b, 0))
	assert.Equal(t, b, Lerp(a, b, 1))
	assert.Equal(t, LatLng{Lat: 11, Lng: 22}, Lerp(a, b, 0.5))
}

func TestHaversineAndBearing(t *testing.T) {
	a := LatLng{Lat: 0, Lng: 0}
	b := LatLng{Lat: 0, Lng: 1}
	assert.InDelta(t, 111195, Haversine(a, b), 1)
	assert.InDelta(t, 90, Bearing(a, b), 1e-9)
	assert.InDelta(t, 270, Bearing(b, a), 1e-9)
	assert.InDelta(t, 0, Bearing(a, LatLng{Lat: 1, Lng: 0}), 1e-9)
}
