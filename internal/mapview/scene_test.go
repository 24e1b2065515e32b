package mapview

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"metrogo/internal/sim"
	"metrogo/internal/transit"
)

func testFleet() []sim.Vehicle {
	return []sim.Vehicle{
		{ID: "BUS-L_3-0", LineID: "L_3", Color: "#16a34a", Progress: 0.5, Direction: sim.Forward, Speed: 0.001},
		{ID: "BUS-L_55-0", LineID: "L_55", Color: "#db2777", Progress: 0.1, Direction: sim.Forward, Speed: 0.001},
		{ID: "BUS-ghost-0", LineID: "ghost", Color: "#000000", Progress: 0.1, Direction: sim.Forward, Speed: 0.001},
	}
}

func TestSceneFull(t *testing.T) {
	reg := transit.Builtin()
	v := NewViewport(FullOptions())
	s := v.Scene(reg, testFleet(), sim.NewResolver(reg), "")

	assert.Len(t, s.Tiles, 49)
	assert.Contains(t, s.Tiles[0].URL, "https://tile.openstreetmap.org/13/")
	assert.Len(t, s.Lines, 7)
	for _, l := range s.Lines {
		assert.Equal(t, 3.0, l.Width)
		assert.Equal(t, 0.6, l.Opacity)
	}
	require.Len(t, s.Stations, 18)
	for _, m := range s.Stations {
		if m.Hub {
			assert.Equal(t, 12.0, m.Size)
			assert.NotEmpty(t, m.Label)
		} else {
			assert.Equal(t, 8.0, m.Size)
			assert.Empty(t, m.Label)
		}
		assert.Equal(t, 1.0, m.Opacity)
	}
	require.Len(t, s.Buses, 2, "unresolvable vehicle is skipped")
	assert.Equal(t, 14.0, s.Buses[0].Size)
	assert.Equal(t, "© OpenStreetMap", s.Attribution)
}

func TestSceneSelectedLine(t *testing.T) {
	reg := transit.Builtin()
	v := NewViewport(FullOptions())
	s := v.Scene(reg, testFleet(), sim.NewResolver(reg), "L_3")

	require.Len(t, s.Buses, 1)
	assert.Equal(t, "BUS-L_3-0", s.Buses[0].VehicleID)
	for _, l := range s.Lines {
		if l.LineID == "L_3" {
			assert.True(t, l.Selected)
			assert.Equal(t, 6.0, l.Width)
			assert.Equal(t, 0.6, l.Opacity)
		} else {
			assert.Equal(t, 3.0, l.Width)
			assert.Equal(t, 0.1, l.Opacity)
		}
	}

	// unknown selection is no selection
	s = v.Scene(reg, testFleet(), sim.NewResolver(reg), "nope")
	assert.Len(t, s.Buses, 2)
}

func TestScenePreview(t *testing.T) {
	reg := transit.Builtin()
	v := NewViewport(PreviewOptions())
	s := v.Scene(reg, testFleet(), sim.NewResolver(reg), "L_3")

	assert.Len(t, s.Tiles, 25)
	assert.Contains(t, s.Tiles[0].URL, "https://a.basemaps.cartocdn.com/dark_all/12/")
	for _, l := range s.Lines {
		assert.Equal(t, 2.0, l.Width)
		assert.Equal(t, 0.4, l.Opacity)
	}
	for _, m := range s.Stations {
		assert.Empty(t, m.Label)
		assert.Equal(t, 0.6, m.Opacity)
		if m.Hub {
			assert.Equal(t, 6.0, m.Size)
		} else {
			assert.Equal(t, 4.0, m.Size)
		}
	}
	require.Len(t, s.Buses, 1)
	assert.Equal(t, 8.0, s.Buses[0].Size)
	assert.Empty(t, s.Attribution)
}

func TestSceneSkipsUnknownStations(t *testing.T) {
	reg := transit.NewRegistry(
		[]transit.Station{{ID: "a", Lat: 16.5, Lng: 80.6, Kind: transit.Stop}, {ID: "b", Lat: 16.6, Lng: 80.7, Kind: transit.Stop}},
		[]transit.Line{{ID: "l", Stations: []string{"a", "ghost", "b"}}},
	)
	s := NewViewport(FullOptions()).Scene(reg, nil, sim.NewResolver(reg), "")
	require.Len(t, s.Lines, 1)
	assert.Len(t, s.Lines[0].Points, 2)
	assert.Empty(t, s.Buses)
}

func TestRenderSVG(t *testing.T) {
	reg := transit.Builtin()
	v := NewViewport(FullOptions())
	s := v.Scene(reg, testFleet(), sim.NewResolver(reg), "")

	var buf bytes.Buffer
	require.NoError(t, RenderSVG(&buf, s))
	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "<svg "))
	assert.Equal(t, 49, strings.Count(out, "<image "))
	assert.Equal(t, 7, strings.Count(out, "<polyline "))
	assert.Equal(t, 2, strings.Count(out, "data-vehicle="))
	assert.Contains(t, out, "Benz Circle")
	assert.NotContains(t, out, "Besant Road", "stop labels are not drawn")
	assert.Equal(t, 1, strings.Count(out, "<g transform="))

	buf.Reset()
	p := NewViewport(PreviewOptions())
	require.NoError(t, RenderSVG(&buf, p.Scene(reg, testFleet(), sim.NewResolver(reg), "")))
	assert.NotContains(t, buf.String(), "OpenStreetMap")
	assert.NotContains(t, buf.String(), "Benz Circle")
}
