// Package projection maps geographic coordinates onto the planar space the
// map meshes are built in.
package projection

import (
	"math"
)

// MaxLatitude is the latitude at which Mercator input is clamped. Beyond it
// the projected y grows without bound and reaches infinity at the poles.
const MaxLatitude = 85.05112877980659

// Default projection parameters, tuned for a country-scale dataset.
var (
	DefaultCenter    = [2]float64{104.0, 37.5}
	DefaultScale     = 80.0
	DefaultTranslate = [2]float64{0, 0}
)

// Point is a planar coordinate. Y grows downward (screen convention); mesh
// builders negate it when moving into render space.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Config holds the fixed parameters of a projection.
type Config struct {
	Center    [2]float64 `json:"center"`    // lon, lat in degrees
	Scale     float64    `json:"scale"`     // planar units per radian
	Translate [2]float64 `json:"translate"` // planar offset of the center
}

// DefaultConfig returns the default projection parameters.
func DefaultConfig() Config {
	return Config{
		Center:    DefaultCenter,
		Scale:     DefaultScale,
		Translate: DefaultTranslate,
	}
}

// Mercator is a conformal cylindrical projection. The zero value is not
// usable; construct one with New.
type Mercator struct {
	cfg Config
	// projected center, in raw (unscaled) Mercator units
	cx, cy float64
}

// New returns a Mercator projection for cfg.
func New(cfg Config) *Mercator {
	m := &Mercator{cfg: cfg}
	m.cx, m.cy = raw(cfg.Center[0], cfg.Center[1])
	return m
}

// Config returns the parameters the projection was built with.
func (m *Mercator) Config() Config {
	return m.cfg
}

// Project maps (lon, lat) in degrees to a planar point. Latitudes outside
// ±MaxLatitude are clamped.
func (m *Mercator) Project(lon, lat float64) Point {
	x, y := raw(lon, lat)
	return Point{
		X: m.cfg.Translate[0] + m.cfg.Scale*(x-m.cx),
		Y: m.cfg.Translate[1] - m.cfg.Scale*(y-m.cy),
	}
}

// Invert maps a planar point back to (lon, lat) in degrees.
func (m *Mercator) Invert(p Point) (lon, lat float64) {
	if m.cfg.Scale == 0 {
		return m.cfg.Center[0], m.cfg.Center[1]
	}
	x := (p.X-m.cfg.Translate[0])/m.cfg.Scale + m.cx
	y := (m.cfg.Translate[1]-p.Y)/m.cfg.Scale + m.cy
	lon = x * 180 / math.Pi
	lat = (2*math.Atan(math.Exp(y)) - math.Pi/2) * 180 / math.Pi
	return lon, lat
}

// raw is the unscaled Mercator transform in radians.
func raw(lon, lat float64) (x, y float64) {
	lat = ClampLatitude(lat)
	lambda := lon * math.Pi / 180
	phi := lat * math.Pi / 180
	return lambda, math.Log(math.Tan(math.Pi/4 + phi/2))
}

// ClampLatitude limits lat to [-MaxLatitude, MaxLatitude]. NaN passes
// through unchanged.
func ClampLatitude(lat float64) float64 {
	switch {
	case lat > MaxLatitude:
		return MaxLatitude
	case lat < -MaxLatitude:
		return -MaxLatitude
	}
	return lat
}

// FitCenter returns cfg with its center moved to the middle of the given
// geographic bounds (min/max as lon, lat pairs).
func FitCenter(cfg Config, min, max [2]float64) Config {
	cfg.Center = [2]float64{
		(min[0] + max[0]) / 2,
		(ClampLatitude(min[1]) + ClampLatitude(max[1])) / 2,
	}
	return cfg
}
