package mapview

import (
	"metrogo/internal/geo"
	"metrogo/internal/sim"
	"metrogo/internal/transit"
)

const (
	fullBackground     = "#f3f4f6"
	previewBackground  = "#0f172a"
	fullStationFill    = "#1e293b"
	previewStationFill = "#ffffff"
	attribution        = "© OpenStreetMap"
	dragHint           = "Drag to pan map"
)

type TileImage struct {
	Tile geo.Tile
	URL  string
	At   geo.Pixel
	Size float64
}

type Polyline struct {
	LineID   string
	Color    string
	Points   []geo.Pixel
	Width    float64
	Opacity  float64
	Selected bool
}

type StationMarker struct {
	StationID string
	At        geo.Pixel
	Size      float64
	Opacity   float64
	Fill      string
	Hub       bool
	// Label is empty when the marker is drawn without a name.
	Label string
}

type BusMarker struct {
	VehicleID string
	LineID    string
	Color     string
	At        geo.Pixel
	Size      float64
}

// Scene is one composed frame. All pixel positions are world pixels at the
// viewport zoom; Transform places them in the container.
type Scene struct {
	Width, Height float64
	Preview       bool
	Background    string
	Transform     geo.Pixel
	Tiles         []TileImage
	Lines         []Polyline
	Stations      []StationMarker
	Buses         []BusMarker
	Attribution   string
	Hint          string
}

// Scene composes tiles, line overlays, stations and buses. selectedLine
// filters buses and emphasises its overlay; it is ignored when empty or
// when no such line exists.
func (v *Viewport) Scene(reg *transit.Registry, fleet []sim.Vehicle, r *sim.Resolver, selectedLine string) Scene {
	if _, ok := reg.Line(selectedLine); !ok {
		selectedLine = ""
	}
	s := Scene{
		Width:     v.opts.Width,
		Height:    v.opts.Height,
		Preview:   v.opts.Preview,
		Transform: v.Transform(),
		Tiles:     v.tiles(),
	}
	if v.opts.Preview {
		s.Background = previewBackground
	} else {
		s.Background = fullBackground
		s.Attribution = attribution
		s.Hint = dragHint
	}

	zoom := v.opts.Zoom
	for _, line := range reg.Lines() {
		pl := Polyline{LineID: line.ID, Color: line.Color, Selected: line.ID == selectedLine}
		for _, sid := range line.Stations {
			st, ok := reg.Station(sid)
			if !ok {
				continue
			}
			pl.Points = append(pl.Points, geo.Project(st.Point(), zoom))
		}
		pl.Width, pl.Opacity = lineStroke(v.opts.Preview, pl.Selected, selectedLine != "" && !pl.Selected)
		s.Lines = append(s.Lines, pl)
	}

	for _, st := range reg.Stations() {
		m := StationMarker{
			StationID: st.ID,
			At:        geo.Project(st.Point(), zoom),
			Hub:       st.IsHub(),
		}
		m.Size, m.Opacity, m.Fill = stationStyle(v.opts.Preview, m.Hub)
		if !v.opts.Preview && m.Hub {
			m.Label = st.Name
		}
		s.Stations = append(s.Stations, m)
	}

	busSize := 14.0
	if v.opts.Preview {
		busSize = 8
	}
	for _, bus := range fleet {
		if selectedLine != "" && bus.LineID != selectedLine {
			continue
		}
		pos, ok := r.Position(bus)
		if !ok {
			continue
		}
		s.Buses = append(s.Buses, BusMarker{
			VehicleID: bus.ID,
			LineID:    bus.LineID,
			Color:     bus.Color,
			At:        geo.Project(pos, zoom),
			Size:      busSize,
		})
	}
	return s
}

func (v *Viewport) tiles() []TileImage {
	center := geo.TileOf(v.centerPx, v.opts.Zoom)
	grid := geo.TileGrid(center, v.opts.Range)
	out := make([]TileImage, 0, len(grid))
	for _, t := range grid {
		out = append(out, TileImage{
			Tile: t,
			URL:  t.URL(v.opts.TileBase),
			At:   t.Origin(),
			Size: geo.TileSize,
		})
	}
	return out
}

// lineStroke returns stroke width and opacity for a line overlay.
func lineStroke(preview, selected, dimmed bool) (width, opacity float64) {
	switch {
	case preview:
		return 2, 0.4
	case selected:
		return 6, 0.6
	case dimmed:
		return 3, 0.1
	default:
		return 3, 0.6
	}
}

func stationStyle(preview, hub bool) (size, opacity float64, fill string) {
	if preview {
		if hub {
			return 6, 0.6, previewStationFill
		}
		return 4, 0.6, previewStationFill
	}
	if hub {
		return 12, 1, fullStationFill
	}
	return 8, 1, fullStationFill
}
