// Package earcut implements the kernel.Kernel interface with exact planar
// geometry: caps are triangulated by ear clipping with rclancey/earcut
// and walls are one quad per contour edge.
package earcut

import (
	"errors"
	"fmt"
	"math"

	"github.com/chazu/relief/pkg/kernel"
	v2 "github.com/deadsy/sdfx/vec/v2"
	ec "github.com/rclancey/earcut"
)

// Compile-time interface check.
var _ kernel.Kernel = (*EarcutKernel)(nil)

// ErrEmptyShape is returned when a shape has no outer contour.
var ErrEmptyShape = errors.New("earcut: shape has no outer contour")

// earcutSolid holds the already tessellated extrusion.
type earcutSolid struct {
	mesh     *kernel.Mesh
	min, max [3]float64
}

// BoundingBox returns the axis-aligned bounding box.
func (s *earcutSolid) BoundingBox() (min, max [3]float64) {
	return s.min, s.max
}

// EarcutKernel implements kernel.Kernel.
type EarcutKernel struct{}

// New returns a new EarcutKernel.
func New() *EarcutKernel {
	return &EarcutKernel{}
}

// Extrude triangulates the shape and sweeps it from z=0 to z=depth.
// Contours with fewer than three distinct points produce a solid with an
// empty mesh.
func (k *EarcutKernel) Extrude(shape *kernel.Shape, depth float64) (kernel.Solid, error) {
	if shape == nil || len(shape.Outer.Points) == 0 {
		return nil, ErrEmptyShape
	}
	if depth <= 0 || math.IsNaN(depth) || math.IsInf(depth, 0) {
		return nil, fmt.Errorf("earcut: invalid extrusion depth %v", depth)
	}

	outer := kernel.Clean(shape.Outer.Points)
	s := &earcutSolid{mesh: &kernel.Mesh{}}
	s.min, s.max = planarBounds(outer, depth)
	if len(outer) < 3 {
		return s, nil
	}

	rings := [][]v2.Vec{kernel.Oriented(outer, true)}
	for _, h := range shape.Holes {
		pts := kernel.Clean(h.Points)
		if len(pts) < 3 {
			continue
		}
		rings = append(rings, kernel.Oriented(pts, false))
	}

	m, err := extrude(rings, depth)
	if err != nil {
		return nil, err
	}
	s.mesh = m
	return s, nil
}

// ToMesh returns the tessellated extrusion. The returned mesh is shared
// with the solid and must not be modified.
func (k *EarcutKernel) ToMesh(s kernel.Solid) (*kernel.Mesh, error) {
	es, ok := s.(*earcutSolid)
	if !ok {
		return nil, fmt.Errorf("earcut: foreign solid %T", s)
	}
	return es.mesh, nil
}

// extrude builds caps and walls for an outer contour (counter-clockwise)
// followed by hole contours (clockwise).
func extrude(rings [][]v2.Vec, depth float64) (*kernel.Mesh, error) {
	var coords []float64
	var holeStarts []int
	n := 0
	for ri, r := range rings {
		if ri > 0 {
			holeStarts = append(holeStarts, n)
		}
		for _, p := range r {
			coords = append(coords, p.X, p.Y)
		}
		n += len(r)
	}
	tris, err := triangulate(coords, holeStarts)
	if err != nil {
		return nil, err
	}

	m := &kernel.Mesh{}
	z := float32(depth)

	// Caps: top vertices [0,n), bottom vertices [n,2n).
	for i := 0; i < n; i++ {
		m.Vertices = append(m.Vertices, float32(coords[i*2]), float32(coords[i*2+1]), z)
		m.Normals = append(m.Normals, 0, 0, 1)
	}
	for i := 0; i < n; i++ {
		m.Vertices = append(m.Vertices, float32(coords[i*2]), float32(coords[i*2+1]), 0)
		m.Normals = append(m.Normals, 0, 0, -1)
	}
	for t := 0; t+2 < len(tris); t += 3 {
		a, b, c := tris[t], tris[t+1], tris[t+2]
		if cross(coords, a, b, c) < 0 {
			b, c = c, b
		}
		// top faces +Z (counter-clockwise), bottom faces -Z (clockwise)
		m.Indices = append(m.Indices, uint32(a), uint32(b), uint32(c))
		m.Indices = append(m.Indices, uint32(n+a), uint32(n+c), uint32(n+b))
	}
	capCount := len(m.Indices)

	// Walls: one quad per edge with its own vertices for flat normals.
	for _, r := range rings {
		for i := range r {
			p0, p1 := r[i], r[(i+1)%len(r)]
			dx, dy := p1.X-p0.X, p1.Y-p0.Y
			l := math.Hypot(dx, dy)
			if l == 0 {
				continue
			}
			nx, ny := float32(dy/l), float32(-dx/l)
			base := uint32(len(m.Vertices) / 3)
			m.Vertices = append(m.Vertices,
				float32(p0.X), float32(p0.Y), 0,
				float32(p1.X), float32(p1.Y), 0,
				float32(p1.X), float32(p1.Y), z,
				float32(p0.X), float32(p0.Y), z,
			)
			for j := 0; j < 4; j++ {
				m.Normals = append(m.Normals, nx, ny, 0)
			}
			m.Indices = append(m.Indices, base, base+1, base+2, base, base+2, base+3)
		}
	}

	m.Groups = []kernel.Group{
		{Start: 0, Count: capCount, MaterialIndex: kernel.MaterialCap},
		{Start: capCount, Count: len(m.Indices) - capCount, MaterialIndex: kernel.MaterialWall},
	}
	return m, nil
}

// triangulate splits flat x,y coords into cap triangles. holeStarts holds
// the vertex index at which each hole begins; the outer ring runs from 0 to
// holeStarts[0]. The result holds three vertex indices per triangle.
func triangulate(coords []float64, holeStarts []int) ([]int, error) {
	if len(coords) < 6 {
		return nil, nil
	}
	tris, err := ec.Earcut(coords, holeStarts, 2)
	if err != nil {
		return nil, fmt.Errorf("earcut: triangulating cap: %w", err)
	}
	return tris, nil
}

// cross returns the z component of (b-a)×(c-a) for vertices a, b, c.
func cross(coords []float64, a, b, c int) float64 {
	ax, ay := coords[a*2], coords[a*2+1]
	return (coords[b*2]-ax)*(coords[c*2+1]-ay) - (coords[b*2+1]-ay)*(coords[c*2]-ax)
}

func planarBounds(pts []v2.Vec, depth float64) (min, max [3]float64) {
	for i, p := range pts {
		if i == 0 {
			min = [3]float64{p.X, p.Y, 0}
			max = [3]float64{p.X, p.Y, depth}
			continue
		}
		min[0] = math.Min(min[0], p.X)
		min[1] = math.Min(min[1], p.Y)
		max[0] = math.Max(max[0], p.X)
		max[1] = math.Max(max[1], p.Y)
	}
	return min, max
}
