// Package scene holds the assembled map: a tree of nodes handed to the
// renderer, the region meshes that can be picked, and the shared region
// metadata they point back to.
package scene

import (
	"fmt"

	"github.com/chazu/relief/pkg/kernel"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Node is an element of the scene tree.
type Node interface {
	// Bounds returns the axis-aligned bounds in render space.
	Bounds() (min, max v3.Vec)
}

// Pickable is a node the picker may hit. Only region solids implement it;
// outlines and decorative nodes never do.
type Pickable interface {
	Node
	// Geometry returns the triangles to test against.
	Geometry() *kernel.Mesh
	// Eligible reports whether the node has the two-face structure the
	// highlight protocol needs.
	Eligible() bool
	// RegionIndex returns the index of the region the node belongs to.
	RegionIndex() int
	FaceColors() FaceColors
	SetFaceColors(FaceColors)
}

// Group is an ordered container of nodes.
type Group struct {
	Name     string `json:"name"`
	Children []Node `json:"-"`
}

// Add appends children in order.
func (g *Group) Add(n ...Node) {
	g.Children = append(g.Children, n...)
}

// Bounds returns the union of the children's bounds.
func (g *Group) Bounds() (min, max v3.Vec) {
	first := true
	for _, c := range g.Children {
		cmin, cmax := c.Bounds()
		if first {
			min, max = cmin, cmax
			first = false
			continue
		}
		min, max = union(min, max, cmin, cmax)
	}
	return min, max
}

// Outline is a set of closed polylines, one per ring, at a fixed elevation.
type Outline struct {
	Rings [][]v3.Vec `json:"rings"`
	Color Color      `json:"color"`
}

// PointCount returns the number of points of ring i.
func (o *Outline) PointCount(i int) int {
	return len(o.Rings[i])
}

// Bounds returns the bounds of all outline points.
func (o *Outline) Bounds() (min, max v3.Vec) {
	first := true
	for _, r := range o.Rings {
		for _, p := range r {
			if first {
				min, max = p, p
				first = false
				continue
			}
			min, max = union(min, max, p, p)
		}
	}
	return min, max
}

// RegionMesh is one extruded polygon of a region.
type RegionMesh struct {
	// Index is the position of the mesh in build order.
	Index int
	// Region is the index of the shared Region in the collection.
	Region    int
	Solid     *kernel.Mesh
	Materials Materials
	Outline   *Outline

	min, max v3.Vec
	dirty    bool
}

var _ Pickable = (*RegionMesh)(nil)

// NewRegionMesh returns a mesh for region built from solid. It fails when
// the solid's groups reference a face other than top or side.
func NewRegionMesh(region int, solid *kernel.Mesh, mats Materials, outline *Outline) (*RegionMesh, error) {
	if solid == nil {
		return nil, fmt.Errorf("scene: region %d: nil solid", region)
	}
	for _, g := range solid.Groups {
		if g.MaterialIndex < 0 || g.MaterialIndex >= FaceCount {
			return nil, fmt.Errorf("scene: region %d: group material %d out of range", region, g.MaterialIndex)
		}
	}
	m := &RegionMesh{
		Region:    region,
		Solid:     solid,
		Materials: mats,
		Outline:   outline,
	}
	lo, hi := solid.Bounds()
	m.min = v3.Vec{X: lo[0], Y: lo[1], Z: lo[2]}
	m.max = v3.Vec{X: hi[0], Y: hi[1], Z: hi[2]}
	return m, nil
}

// Bounds returns the bounds of the solid.
func (m *RegionMesh) Bounds() (min, max v3.Vec) {
	return m.min, m.max
}

// Geometry returns the solid.
func (m *RegionMesh) Geometry() *kernel.Mesh {
	return m.Solid
}

// Eligible reports whether the solid has triangles and every triangle is
// drawn with the top or side face.
func (m *RegionMesh) Eligible() bool {
	if m == nil || m.Solid == nil || m.Solid.TriangleCount() == 0 {
		return false
	}
	covered := 0
	for _, g := range m.Solid.Groups {
		if g.MaterialIndex < 0 || g.MaterialIndex >= FaceCount {
			return false
		}
		covered += g.Count
	}
	return covered == len(m.Solid.Indices)
}

// RegionIndex implements Pickable.
func (m *RegionMesh) RegionIndex() int {
	return m.Region
}

// FaceColors returns the current color of each face.
func (m *RegionMesh) FaceColors() FaceColors {
	return m.Materials.Colors()
}

// SetFaceColors sets the color of each face. Setting the colors the mesh
// already has is a no-op.
func (m *RegionMesh) SetFaceColors(fc FaceColors) {
	for i := range m.Materials {
		if m.Materials[i].Color != fc[i] {
			m.Materials[i].Color = fc[i]
			m.dirty = true
		}
	}
}

func union(amin, amax, bmin, bmax v3.Vec) (min, max v3.Vec) {
	min = v3.Vec{X: minf(amin.X, bmin.X), Y: minf(amin.Y, bmin.Y), Z: minf(amin.Z, bmin.Z)}
	max = v3.Vec{X: maxf(amax.X, bmax.X), Y: maxf(amax.Y, bmax.Y), Z: maxf(amax.Z, bmax.Z)}
	return min, max
}

func minf(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

func maxf(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
