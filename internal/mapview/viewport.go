package mapview

import "metrogo/internal/geo"

// Vijayawada city centre.
var DefaultCenter = geo.LatLng{Lat: 16.5062, Lng: 80.6480}

const (
	DefaultWidth  = 400
	DefaultHeight = 800
)

type Options struct {
	Center   geo.LatLng
	Zoom     int
	Preview  bool
	Range    int // tiles loaded in each direction around the center tile
	Width    float64
	Height   float64
	TileBase string
}

// FullOptions is the interactive map: OSM tiles, zoom 13, 7x7 tiles.
func FullOptions() Options {
	return Options{
		Center:   DefaultCenter,
		Zoom:     13,
		Range:    3,
		Width:    DefaultWidth,
		Height:   DefaultHeight,
		TileBase: geo.OSMTileBase,
	}
}

// PreviewOptions is the dark, non-interactive background map.
func PreviewOptions() Options {
	return Options{
		Center:   DefaultCenter,
		Zoom:     12,
		Preview:  true,
		Range:    2,
		Width:    DefaultWidth,
		Height:   DefaultHeight,
		TileBase: geo.CartoDarkTileBase,
	}
}

// Viewport holds the pan state of one map surface. It is not safe for
// concurrent use.
type Viewport struct {
	opts     Options
	centerPx geo.Pixel

	offset   geo.Pixel
	dragging bool
	anchor   geo.Pixel
}

func NewViewport(opts Options) *Viewport {
	if opts.Width <= 0 {
		opts.Width = DefaultWidth
	}
	if opts.Height <= 0 {
		opts.Height = DefaultHeight
	}
	if opts.Range < 0 {
		opts.Range = 0
	}
	v := &Viewport{opts: opts}
	v.centerPx = geo.Project(opts.Center, opts.Zoom)
	return v
}

func (v *Viewport) Options() Options { return v.opts }
func (v *Viewport) Preview() bool { return v.opts.Preview }
func (v *Viewport) Zoom() int { return v.opts.Zoom }
func (v *Viewport) CenterPixel() geo.Pixel { return v.centerPx }
func (v *Viewport) Offset() geo.Pixel { return v.offset }
func (v *Viewport) Dragging() bool { return v.dragging }

// SetZoom changes the zoom level and re-derives the center pixel. The pan
// offset is kept as is.
func (v *Viewport) SetZoom(zoom int) {
	v.opts.Zoom = zoom
	v.centerPx = geo.Project(v.opts.Center, zoom)
}

func (v *Viewport) Resize(width, height float64) {
	if width > 0 {
		v.opts.Width = width
	}
	if height > 0 {
		v.opts.Height = height
	}
}

// DragStart records the anchor of a pointer or touch drag. It reports
// whether the viewport accepted the gesture; preview maps never do.
func (v *Viewport) DragStart(p geo.Pixel) bool {
	if v.opts.Preview {
		return false
	}
	v.dragging = true
	v.anchor = p
	return true
}

// DragMove pans by the delta from the last anchor and advances the anchor.
func (v *Viewport) DragMove(p geo.Pixel) bool {
	if !v.dragging || v.opts.Preview {
		return false
	}
	v.offset = v.offset.Add(p.Sub(v.anchor))
	v.anchor = p
	return true
}

func (v *Viewport) DragEnd() {
	v.dragging = false
}

// Reset drops the pan offset and any gesture in progress.
func (v *Viewport) Reset() {
	v.offset = geo.Pixel{}
	v.dragging = false
}

// Transform is the translation shared by every layer: the container
// center, minus the projected map center, plus the pan offset.
func (v *Viewport) Transform() geo.Pixel {
	return geo.Pixel{
		X: v.opts.Width/2 - v.centerPx.X + v.offset.X,
		Y: v.opts.Height/2 - v.centerPx.Y + v.offset.Y,
	}
}
