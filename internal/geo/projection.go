package geo

import "math"

// TileSize is the edge length of one map tile in pixels.
const TileSize = 256

type LatLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Pixel is a point on the world pixel plane at a fixed zoom level.
type Pixel struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

func (p Pixel) Add(o Pixel) Pixel { return Pixel{X: p.X + o.X, Y: p.Y + o.Y} }
func (p Pixel) Sub(o Pixel) Pixel { return Pixel{X: p.X - o.X, Y: p.Y - o.Y} }

// WorldSize returns the number of tiles along one axis at zoom.
func WorldSize(zoom int) int { return 1 << uint(zoom) }

// Project converts a geographic coordinate to spherical web-Mercator pixels.
// Only latitudes within roughly ±85° are meaningful.
func Project(p LatLng, zoom int) Pixel {
	scale := float64(WorldSize(zoom)) * TileSize
	x := ((p.Lng + 180) / 360) * scale
	latRad := p.Lat * math.Pi / 180
	y := ((1 - math.Log(math.Tan(latRad)+1/math.Cos(latRad))/math.Pi) / 2) * scale
	return Pixel{X: x, Y: y}
}

// Lerp linearly interpolates between a and b; f=0 yields a, f=1 yields b.
func Lerp(a, b LatLng, f float64) LatLng {
	return LatLng{
		Lat: a.Lat + (b.Lat-a.Lat)*f,
		Lng: a.Lng + (b.Lng-a.Lng)*f,
	}
}

const earthRadiusMeters = 6371000.0

func toRad(d float64) float64 { return d * math.Pi / 180 }

// Haversine distance in meters
func Haversine(a, b LatLng) float64 {
	dLat := toRad(b.Lat - a.Lat)
	dLng := toRad(b.Lng - a.Lng)
	h := math.Sin(dLat/2)*math.Sin(dLat/2) + math.Cos(toRad(a.Lat))*math.Cos(toRad(b.Lat))*math.Sin(dLng/2)*math.Sin(dLng/2)
	return earthRadiusMeters * 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
}

// Bearing returns the initial bearing from a to b in degrees, [0,360).
func Bearing(a, b LatLng) float64 {
	y := math.Sin(toRad(b.Lng-a.Lng)) * math.Cos(toRad(b.Lat))
	x := math.Cos(toRad(a.Lat))*math.Sin(toRad(b.Lat)) - math.Sin(toRad(a.Lat))*math.Cos(toRad(b.Lat))*math.Cos(toRad(b.Lng-a.Lng))
	brng := math.Atan2(y, x) * 180 / math.Pi
	if brng < 0 {
		brng += 360
	}
	return brng
}
