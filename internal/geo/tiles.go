package geo

import (
	"fmt"
	"math"
	"strings"
)

const (
	OSMTileBase       = "https://tile.openstreetmap.org"
	CartoDarkTileBase = "https://a.basemaps.cartocdn.com/dark_all"
)

// Tile addresses one tile of the world grid. X may lie outside [0, 2^zoom)
// when it describes a placement; use Wrapped for the fetchable column.
type Tile struct {
	Zoom int `json:"z"`
	X    int `json:"x"`
	Y    int `json:"y"`
}

// TileOf returns the tile containing the pixel.
func TileOf(px Pixel, zoom int) Tile {
	return Tile{
		Zoom: zoom,
		X:    int(math.Floor(px.X / TileSize)),
		Y:    int(math.Floor(px.Y / TileSize)),
	}
}

// Wrapped returns the column folded into [0, 2^zoom). Rows do not wrap.
func (t Tile) Wrapped() int {
	n := WorldSize(t.Zoom)
	return ((t.X % n) + n) % n
}

// Origin is the top-left pixel where the tile is placed.
func (t Tile) Origin() Pixel {
	return Pixel{X: float64(t.X * TileSize), Y: float64(t.Y * TileSize)}
}

// URL builds {base}/{z}/{x}/{y}.png using the wrapped column.
func (t Tile) URL(base string) string {
	return fmt.Sprintf("%s/%d/%d/%d.png", strings.TrimRight(base, "/"), t.Zoom, t.Wrapped(), t.Y)
}

// TileGrid returns the (2r+1)^2 neighbourhood around center, column-major.
func TileGrid(center Tile, r int) []Tile {
	if r < 0 {
		r = 0
	}
	side := 2*r + 1
	grid := make([]Tile, 0, side*side)
	for x := center.X - r; x <= center.X+r; x++ {
		for y := center.Y - r; y <= center.Y+r; y++ {
			grid = append(grid, Tile{Zoom: center.Zoom, X: x, Y: y})
		}
	}
	return grid
}
