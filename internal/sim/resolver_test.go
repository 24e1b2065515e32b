package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"metrogo/internal/geo"
	"metrogo/internal/transit"
)

func testRegistry() *transit.Registry {
	return transit.NewRegistry(
		[]transit.Station{
			{ID: "A", Lat: 10, Lng: 20, Kind: transit.Hub},
			{ID: "B", Lat: 12, Lng: 24, Kind: transit.Stop},
			{ID: "C", Lat: 14, Lng: 20, Kind: transit.Stop},
			{ID: "s1", Lat: 16.5086, Lng: 80.6183, Kind: transit.Hub},
			{ID: "s2", Lat: 16.5003, Lng: 80.6539, Kind: transit.Hub},
		},
		[]transit.Line{
			{ID: "abc", Stations: []string{"A", "B", "C"}},
			{ID: "pair", Stations: []string{"s1", "s2"}},
			{ID: "short", Stations: []string{"A"}},
			{ID: "broken", Stations: []string{"A", "ghost", "C"}},
		},
	)
}

func TestPosition(t *testing.T) {
	r := NewResolver(testRegistry())
	tests := []struct {
		name     string
		progress float64
		want     geo.LatLng
	}{
		{"start", 0, geo.LatLng{Lat: 10, Lng: 20}},
		{"first midpoint", 0.25, geo.LatLng{Lat: 11, Lng: 22}},
		{"middle station", 0.5, geo.LatLng{Lat: 12, Lng: 24}},
		{"second midpoint", 0.75, geo.LatLng{Lat: 13, Lng: 22}},
		{"end", 1, geo.LatLng{Lat: 14, Lng: 20}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			pos, ok := r.Position(Vehicle{LineID: "abc", Progress: tc.progress, Direction: Forward})
			require.True(t, ok)
			assert.InDelta(t, tc.want.Lat, pos.Lat, 1e-9)
			assert.InDelta(t, tc.want.Lng, pos.Lng, 1e-9)
		})
	}
}

func TestPositionUnresolvable(t *testing.T) {
	r := NewResolver(testRegistry())
	tests := []struct {
		name string
		v    Vehicle
	}{
		{"unknown line", Vehicle{LineID: "nope", Progress: 0.5}},
		{"too few stations", Vehicle{LineID: "short", Progress: 0.5}},
		{"unknown end station", Vehicle{LineID: "broken", Progress: 0.25}},
		{"unknown start station", Vehicle{LineID: "broken", Progress: 0.75}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, ok := r.Position(tc.v)
			assert.False(t, ok)
			_, ok = r.Heading(tc.v)
			assert.False(t, ok)
		})
	}
	_, ok := r.Position(Vehicle{LineID: "broken", Progress: 0})
	assert.False(t, ok, "segment A-ghost is unresolvable")
}

func TestPositionEveryBuiltinLine(t *testing.T) {
	reg := transit.Builtin()
	r := NewResolver(reg)
	for _, line := range reg.Lines() {
		for _, p := range []float64{0, 0.1, 0.33, 0.5, 0.999, 1} {
			_, ok := r.Position(Vehicle{LineID: line.ID, Progress: p})
			assert.True(t, ok, "%s at %v", line.ID, p)
		}
		last, _ := reg.Station(line.Stations[len(line.Stations)-1])
		pos, _ := r.Position(Vehicle{LineID: line.ID, Progress: 1})
		assert.InDelta(t, last.Lat, pos.Lat, 1e-9)
		assert.InDelta(t, last.Lng, pos.Lng, 1e-9)
	}
}

func TestHeading(t *testing.T) {
	r := NewResolver(testRegistry())
	fwd, ok := r.Heading(Vehicle{LineID: "pair", Progress: 0.5, Direction: Forward})
	require.True(t, ok)
	back, ok := r.Heading(Vehicle{LineID: "pair", Progress: 0.5, Direction: Backward})
	require.True(t, ok)
	assert.InDelta(t, 180, diffDeg(fwd, back), 0.1)

	// parked at the far end, heading back along the last segment
	end, ok := r.Heading(Vehicle{LineID: "pair", Progress: 1, Direction: Backward})
	require.True(t, ok)
	assert.InDelta(t, back, end, 1e-9)
}

func diffDeg(a, b float64) float64 {
	d := a - b
	if d < 0 {
		d = -d
	}
	if d > 180 {
		d = 360 - d
	}
	return d
}

// Two stations, speed 0.1: five ticks from the start land halfway.
func TestFiveTicksReachMidpoint(t *testing.T) {
	reg := testRegistry()
	r := NewResolver(reg)
	s := NewSimulator([]Vehicle{{ID: "v", LineID: "pair", Progress: 0, Direction: Forward, Speed: 0.1}}, 0, r, nil)
	for i := 0; i < 5; i++ {
		s.Tick()
	}
	v := s.Snapshot()[0]
	assert.InDelta(t, 0.5, v.Progress, 1e-9)
	assert.Equal(t, Forward, v.Direction)

	s1, _ := reg.Station("s1")
	s2, _ := reg.Station("s2")
	pos, ok := r.Position(v)
	require.True(t, ok)
	assert.InDelta(t, (s1.Lat+s2.Lat)/2, pos.Lat, 1e-9)
	assert.InDelta(t, (s1.Lng+s2.Lng)/2, pos.Lng, 1e-9)
}
