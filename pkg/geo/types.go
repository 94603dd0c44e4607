// Package geo defines the geographic input model: regions with metadata and
// polygon boundaries expressed as longitude/latitude rings.
package geo

import (
	"fmt"
	"strconv"
)

// NameKey is the metadata key holding a region's display name.
const NameKey = "name"

// Coord is a geographic coordinate in degrees.
type Coord struct {
	Lon float64 `json:"lon"`
	Lat float64 `json:"lat"`
}

// Ring is an implicitly closed sequence of coordinates. The first and last
// coordinate may coincide but need not.
type Ring []Coord

// Polygon is an outer ring followed by zero or more hole rings.
type Polygon []Ring

// Outer returns the boundary ring, or nil for an empty polygon.
func (p Polygon) Outer() Ring {
	if len(p) == 0 {
		return nil
	}
	return p[0]
}

// Holes returns the rings subtracted from the outer ring.
func (p Polygon) Holes() []Ring {
	if len(p) < 2 {
		return nil
	}
	return p[1:]
}

// Metadata holds per-region properties. Values are strings or float64.
type Metadata map[string]any

// Name returns the display name of the region, or "" if it has none.
func (m Metadata) Name() string {
	return m.String(NameKey)
}

// String returns the value under key formatted as a string.
func (m Metadata) String(key string) string {
	switch v := m[key].(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return fmt.Sprint(v)
	}
}

// Number returns the numeric value under key.
func (m Metadata) Number(key string) (float64, bool) {
	v, ok := m[key].(float64)
	return v, ok
}

// Clone returns a shallow copy. Values are scalars, so the copy is
// independent of the original.
func (m Metadata) Clone() Metadata {
	if m == nil {
		return nil
	}
	out := make(Metadata, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// Feature is one logical region: its metadata and one or more disjoint
// polygons.
type Feature struct {
	Metadata Metadata  `json:"metadata"`
	Polygons []Polygon `json:"polygons"`
}

// Dataset is a parsed map: its features in source order plus their
// geographic extent.
type Dataset struct {
	Features []Feature
	Min, Max [2]float64 // lon, lat
}

// Empty reports whether the dataset has no features.
func (d *Dataset) Empty() bool {
	return d == nil || len(d.Features) == 0
}
