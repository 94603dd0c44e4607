// Package sdfx implements the kernel.Kernel interface using the
// github.com/deadsy/sdfx SDF-based CAD library. Meshes are approximate
// (marching cubes); use it for previews and cross-checking the exact kernel.
package sdfx

import (
	"errors"
	"fmt"
	"math"

	"github.com/chazu/relief/pkg/kernel"
	"github.com/deadsy/sdfx/render"
	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Compile-time interface check.
var _ kernel.Kernel = (*SdfxKernel)(nil)

// defaultMeshCells controls marching cubes tessellation resolution.
const defaultMeshCells = 200

// capNormalZ is the minimum |normal.z| for a triangle to count as a cap.
const capNormalZ = 0.9

// ErrEmptyShape is returned when a shape has fewer than three distinct
// outer points.
var ErrEmptyShape = errors.New("sdfx: shape needs at least three points")

// sdfxSolid wraps an sdf.SDF3 to implement kernel.Solid.
type sdfxSolid struct {
	s sdf.SDF3
}

// BoundingBox returns the axis-aligned bounding box.
func (s *sdfxSolid) BoundingBox() (min, max [3]float64) {
	bb := s.s.BoundingBox()
	min = [3]float64{bb.Min.X, bb.Min.Y, bb.Min.Z}
	max = [3]float64{bb.Max.X, bb.Max.Y, bb.Max.Z}
	return min, max
}

// SdfxKernel implements kernel.Kernel using sdfx.
type SdfxKernel struct {
	cells int
}

// New returns a new SdfxKernel.
func New() *SdfxKernel {
	return &SdfxKernel{cells: defaultMeshCells}
}

// WithCells returns a kernel that meshes with the given marching cubes
// resolution along the longest axis.
func WithCells(cells int) *SdfxKernel {
	if cells <= 0 {
		cells = defaultMeshCells
	}
	return &SdfxKernel{cells: cells}
}

// unwrap extracts the underlying sdf.SDF3 from a kernel.Solid.
func unwrap(s kernel.Solid) (sdf.SDF3, error) {
	ss, ok := s.(*sdfxSolid)
	if !ok {
		return nil, fmt.Errorf("sdfx: foreign solid %T", s)
	}
	return ss.s, nil
}

// wrap creates a kernel.Solid from an sdf.SDF3.
func wrap(s sdf.SDF3) kernel.Solid {
	return &sdfxSolid{s: s}
}

// Extrude builds a polygon SDF, subtracts the holes, and extrudes it.
// sdf.Extrude3D centers the solid on z=0, so it is shifted up by half the
// depth to span z=0..depth.
func (k *SdfxKernel) Extrude(shape *kernel.Shape, depth float64) (kernel.Solid, error) {
	if shape == nil {
		return nil, ErrEmptyShape
	}
	if depth <= 0 || math.IsNaN(depth) || math.IsInf(depth, 0) {
		return nil, fmt.Errorf("sdfx: invalid extrusion depth %v", depth)
	}
	outer := kernel.Clean(shape.Outer.Points)
	if len(outer) < 3 {
		return nil, ErrEmptyShape
	}

	s2, err := sdf.Polygon2D(kernel.Oriented(outer, true))
	if err != nil {
		return nil, fmt.Errorf("sdfx.Polygon2D: %w", err)
	}
	for i, h := range shape.Holes {
		pts := kernel.Clean(h.Points)
		if len(pts) < 3 {
			continue
		}
		hole, err := sdf.Polygon2D(kernel.Oriented(pts, true))
		if err != nil {
			return nil, fmt.Errorf("sdfx.Polygon2D: hole %d: %w", i, err)
		}
		s2 = sdf.Difference2D(s2, hole)
	}

	s3 := sdf.Extrude3D(s2, depth)
	m := sdf.Translate3d(v3.Vec{X: 0, Y: 0, Z: depth / 2})
	return wrap(sdf.Transform3D(s3, m)), nil
}

// ToMesh converts a solid to a triangle mesh using marching cubes.
// Triangles whose normal is close to ±Z form the cap group; the rest
// form the wall group.
func (k *SdfxKernel) ToMesh(s kernel.Solid) (*kernel.Mesh, error) {
	sdf3, err := unwrap(s)
	if err != nil {
		return nil, err
	}

	renderer := render.NewMarchingCubesUniform(k.cells)
	triangles := render.ToTriangles(sdf3, renderer)

	numVerts := len(triangles) * 3

	vertices := make([]float32, 0, numVerts*3)
	normals := make([]float32, 0, numVerts*3)
	var caps, walls []uint32

	for i, tri := range triangles {
		// Compute face normal.
		n := tri.Normal()
		nx := float32(n.X)
		ny := float32(n.Y)
		nz := float32(n.Z)

		idx := &walls
		if math.Abs(n.Z) >= capNormalZ {
			idx = &caps
		}
		for j := 0; j < 3; j++ {
			v := tri[j]
			vertices = append(vertices, float32(v.X), float32(v.Y), float32(v.Z))
			normals = append(normals, nx, ny, nz)
			*idx = append(*idx, uint32(i*3+j))
		}
	}

	indices := append(caps, walls...)
	return &kernel.Mesh{
		Vertices: vertices,
		Normals:  normals,
		Indices:  indices,
		Groups: []kernel.Group{
			{Start: 0, Count: len(caps), MaterialIndex: kernel.MaterialCap},
			{Start: len(caps), Count: len(walls), MaterialIndex: kernel.MaterialWall},
		},
	}, nil
}
