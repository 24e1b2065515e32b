package transit

import "metrogo/internal/geo"

type StationKind string

const (
	Hub  StationKind = "hub"
	Stop StationKind = "stop"
)

type Mode string

const (
	Bus   Mode = "bus"
	Metro Mode = "metro"
)

type Station struct {
	ID   string      `json:"id" toml:"id"`
	Name string      `json:"name" toml:"name"`
	Lat  float64     `json:"lat" toml:"lat"`
	Lng  float64     `json:"lng" toml:"lng"`
	Kind StationKind `json:"kind" toml:"kind"`
}

func (s Station) Point() geo.LatLng { return geo.LatLng{Lat: s.Lat, Lng: s.Lng} }

func (s Station) IsHub() bool { return s.Kind == Hub }

// Line is an ordered station path, traversed forward then backward.
type Line struct {
	ID          string   `json:"id" toml:"id"`
	Name        string   `json:"name" toml:"name"`
	Description string   `json:"description" toml:"description"`
	Color       string   `json:"color" toml:"color"`
	Mode        Mode     `json:"mode" toml:"mode"`
	Stations    []string `json:"stations" toml:"stations"`
}

// Serves reports whether the line visits the station.
func (l Line) Serves(stationID string) bool {
	for _, id := range l.Stations {
		if id == stationID {
			return true
		}
	}
	return false
}
