package sim

import (
	"math"

	"metrogo/internal/geo"
	"metrogo/internal/transit"
)

// Resolver maps vehicle progress onto line geometry.
type Resolver struct {
	reg *transit.Registry
}

func NewResolver(reg *transit.Registry) *Resolver {
	return &Resolver{reg: reg}
}

// Position interpolates the vehicle between the two stations bounding its
// current segment. ok is false when the line is unknown, has fewer than two
// stations, or references a station that does not exist; such a vehicle is
// simply not renderable right now.
func (r *Resolver) Position(v Vehicle) (pos geo.LatLng, ok bool) {
	a, b, frac, ok := r.segment(v)
	if !ok {
		return geo.LatLng{}, false
	}
	return geo.Lerp(a.Point(), b.Point(), frac), true
}

// Heading is the bearing of travel along the current segment.
func (r *Resolver) Heading(v Vehicle) (float64, bool) {
	a, b, _, ok := r.segment(v)
	if !ok {
		return 0, false
	}
	if a.ID == b.ID {
		// parked on the last station; look back along the final segment
		line, _ := r.reg.Line(v.LineID)
		prev, ok := r.reg.Station(line.Stations[len(line.Stations)-2])
		if !ok {
			return 0, false
		}
		a, b = prev, a
	}
	if v.Direction == Backward {
		a, b = b, a
	}
	return geo.Bearing(a.Point(), b.Point()), true
}

func (r *Resolver) segment(v Vehicle) (a, b transit.Station, frac float64, ok bool) {
	line, found := r.reg.Line(v.LineID)
	if !found {
		return a, b, 0, false
	}
	n := len(line.Stations)
	if n < 2 {
		return a, b, 0, false
	}
	segLen := 1 / float64(n-1)
	idx := int(math.Floor(v.Progress / segLen))
	if idx < 0 {
		idx = 0
	}
	if idx > n-1 {
		idx = n - 1
	}
	next := idx + 1
	if next > n-1 {
		next = n - 1
	}
	if a, ok = r.reg.Station(line.Stations[idx]); !ok {
		return a, b, 0, false
	}
	if b, ok = r.reg.Station(line.Stations[next]); !ok {
		return a, b, 0, false
	}
	frac = (v.Progress - float64(idx)*segLen) / segLen
	frac = math.Max(0, math.Min(1, frac))
	return a, b, frac, true
}
