package transit

import (
	"errors"
	"fmt"
)

// Registry is read-only after construction and safe for concurrent use.
type Registry struct {
	stations []Station
	lines    []Line

	stationIdx map[string]int
	lineIdx    map[string]int
}

// NewRegistry indexes the given network. Declaration order is preserved.
// Duplicate ids keep the first occurrence; Validate reports them.
func NewRegistry(stations []Station, lines []Line) *Registry {
	r := &Registry{
		stations:   append([]Station(nil), stations...),
		lines:      make([]Line, len(lines)),
		stationIdx: make(map[string]int, len(stations)),
		lineIdx:    make(map[string]int, len(lines)),
	}
	for i, s := range r.stations {
		if _, dup := r.stationIdx[s.ID]; !dup {
			r.stationIdx[s.ID] = i
		}
	}
	for i, l := range lines {
		l.Stations = append([]string(nil), l.Stations...)
		r.lines[i] = l
		if _, dup := r.lineIdx[l.ID]; !dup {
			r.lineIdx[l.ID] = i
		}
	}
	return r
}

func (r *Registry) Station(id string) (Station, bool) {
	i, ok := r.stationIdx[id]
	if !ok {
		return Station{}, false
	}
	return r.stations[i], true
}

func (r *Registry) Line(id string) (Line, bool) {
	i, ok := r.lineIdx[id]
	if !ok {
		return Line{}, false
	}
	return r.lines[i], true
}

func (r *Registry) Stations() []Station { return append([]Station(nil), r.stations...) }

func (r *Registry) Lines() []Line { return append([]Line(nil), r.lines...) }

// LinesServing returns lines that visit stationID, in declaration order.
func (r *Registry) LinesServing(stationID string) []Line {
	var out []Line
	for _, l := range r.lines {
		if l.Serves(stationID) {
			out = append(out, l)
		}
	}
	return out
}

// Validate checks structural invariants of the network. The simulator
// tolerates an invalid registry, so callers usually just log the result.
func (r *Registry) Validate() error {
	var errs []error
	seen := make(map[string]bool, len(r.stations))
	for _, s := range r.stations {
		if s.ID == "" {
			errs = append(errs, errors.New("station with empty id"))
			continue
		}
		if seen[s.ID] {
			errs = append(errs, fmt.Errorf("duplicate station id %q", s.ID))
		}
		seen[s.ID] = true
		if s.Kind != Hub && s.Kind != Stop {
			errs = append(errs, fmt.Errorf("station %q: unknown kind %q", s.ID, s.Kind))
		}
	}
	seenLine := make(map[string]bool, len(r.lines))
	for _, l := range r.lines {
		if seenLine[l.ID] {
			errs = append(errs, fmt.Errorf("duplicate line id %q", l.ID))
		}
		seenLine[l.ID] = true
		if l.Mode != Bus && l.Mode != Metro {
			errs = append(errs, fmt.Errorf("line %q: unknown mode %q", l.ID, l.Mode))
		}
		if len(l.Stations) < 2 {
			errs = append(errs, fmt.Errorf("line %q: needs at least 2 stations, has %d", l.ID, len(l.Stations)))
		}
		onLine := make(map[string]bool, len(l.Stations))
		for _, sid := range l.Stations {
			if onLine[sid] {
				errs = append(errs, fmt.Errorf("line %q: station %q repeated", l.ID, sid))
			}
			onLine[sid] = true
			if _, ok := r.stationIdx[sid]; !ok {
				errs = append(errs, fmt.Errorf("line %q: unknown station %q", l.ID, sid))
			}
		}
	}
	return errors.Join(errs...)
}
