// Package tessellate turns geographic regions into extruded triangle meshes
// using a projection and a geometry kernel. One mesh is produced per
// polygon, so a region with several disjoint parts yields several meshes.
package tessellate

import (
	"errors"
	"fmt"

	"github.com/chazu/relief/pkg/geo"
	"github.com/chazu/relief/pkg/kernel"
	"github.com/chazu/relief/pkg/projection"
	"github.com/chazu/relief/pkg/scene"
	v3 "github.com/deadsy/sdfx/vec/v3"
	"github.com/go-logr/logr"
)

// Default build parameters.
const (
	DefaultDepth            = 10.0
	DefaultOutlineElevation = 4.01
)

// Projector maps geographic coordinates to planar points.
type Projector interface {
	Project(lon, lat float64) projection.Point
}

// Option configures a Builder.
type Option func(*Builder)

// WithLogger sets the logger. The default discards.
func WithLogger(l logr.Logger) Option {
	return func(b *Builder) { b.log = l }
}

// WithDepth sets the extrusion depth.
func WithDepth(d float64) Option {
	return func(b *Builder) { b.depth = d }
}

// WithOutlineElevation sets the z of the outline polylines.
func WithOutlineElevation(z float64) Option {
	return func(b *Builder) { b.outlineZ = z }
}

// WithMaterials sets the initial face materials of every mesh.
func WithMaterials(m scene.Materials) Option {
	return func(b *Builder) { b.materials = m }
}

// WithOutlineColor sets the outline color.
func WithOutlineColor(c scene.Color) Option {
	return func(b *Builder) { b.outlineColor = c }
}

// Builder builds region meshes. It is read-only with respect to its input.
type Builder struct {
	proj   Projector
	kernel kernel.Kernel
	log    logr.Logger

	depth        float64
	outlineZ     float64
	materials    scene.Materials
	outlineColor scene.Color
}

// NewBuilder returns a builder that projects with p and extrudes with k.
func NewBuilder(p Projector, k kernel.Kernel, opts ...Option) *Builder {
	b := &Builder{
		proj:         p,
		kernel:       k,
		log:          logr.Discard(),
		depth:        DefaultDepth,
		outlineZ:     DefaultOutlineElevation,
		materials:    scene.DefaultMaterials(),
		outlineColor: scene.DefaultOutlineColor,
	}
	for _, o := range opts {
		o(b)
	}
	return b
}

// Build returns one mesh per polygon of f, tagged with region. Polygons
// whose outer ring is empty, and polygons the kernel rejects, are skipped
// and logged. A degenerate outer ring yields an outline-only mesh.
func (b *Builder) Build(f geo.Feature, region int) []*scene.RegionMesh {
	log := b.log.WithValues("region", region, "name", f.Metadata.Name())

	var meshes []*scene.RegionMesh
	for pi, poly := range f.Polygons {
		m, err := b.buildPolygon(poly, region)
		if err != nil {
			log.Error(err, "skipping polygon", "polygon", pi)
			continue
		}
		if m.Solid.IsEmpty() {
			log.Info("degenerate polygon, outline only", "polygon", pi, "points", len(poly.Outer()))
		}
		log.V(1).Info("built polygon", "polygon", pi,
			"holes", len(poly.Holes()), "triangles", m.Solid.TriangleCount())
		meshes = append(meshes, m)
	}
	return meshes
}

// ErrEmptyRing is returned for a polygon whose outer ring has no points.
var ErrEmptyRing = errors.New("tessellate: empty outer ring")

func (b *Builder) buildPolygon(poly geo.Polygon, region int) (*scene.RegionMesh, error) {
	outer := poly.Outer()
	if len(outer) == 0 {
		return nil, ErrEmptyRing
	}

	shape := kernel.NewShape()
	outline := &scene.Outline{Color: b.outlineColor}

	pts := b.project(outer)
	shape.MoveTo(pts[0].X, pts[0].Y)
	for _, p := range pts[1:] {
		shape.LineTo(p.X, p.Y)
	}
	outline.Rings = append(outline.Rings, b.raise(pts))

	for _, h := range poly.Holes() {
		if len(h) == 0 {
			continue
		}
		hp := b.project(h)
		var path kernel.Path
		path.MoveTo(hp[0].X, hp[0].Y)
		for _, p := range hp[1:] {
			path.LineTo(p.X, p.Y)
		}
		shape.AddHole(path)
		outline.Rings = append(outline.Rings, b.raise(hp))
	}

	// Fewer than three distinct outer points enclose no area: an empty,
	// unpickable mesh that keeps its outline, whatever the kernel.
	if len(kernel.Clean(shape.Outer.Points)) < 3 {
		return scene.NewRegionMesh(region, &kernel.Mesh{}, b.materials, outline)
	}

	solid, err := b.kernel.Extrude(shape, b.depth)
	if err != nil {
		return nil, fmt.Errorf("tessellate: extrude: %w", err)
	}
	mesh, err := b.kernel.ToMesh(solid)
	if err != nil {
		return nil, fmt.Errorf("tessellate: ToMesh: %w", err)
	}
	return scene.NewRegionMesh(region, mesh, b.materials, outline)
}

// project maps a ring into render space. The projector's y grows
// downward, render space grows upward, so y is negated.
func (b *Builder) project(r geo.Ring) []projection.Point {
	out := make([]projection.Point, len(r))
	for i, c := range r {
		p := b.proj.Project(c.Lon, c.Lat)
		out[i] = projection.Point{X: p.X, Y: -p.Y}
	}
	return out
}

func (b *Builder) raise(pts []projection.Point) []v3.Vec {
	out := make([]v3.Vec, len(pts))
	for i, p := range pts {
		out[i] = v3.Vec{X: p.X, Y: p.Y, Z: b.outlineZ}
	}
	return out
}

// Assemble builds every feature in order into a frozen collection. It
// runs once per dataset load.
func Assemble(features []geo.Feature, b *Builder) (*scene.Collection, error) {
	c := scene.NewCollection("map")
	for _, f := range features {
		r, err := c.AddRegion(f.Metadata)
		if err != nil {
			return nil, fmt.Errorf("tessellate: region %q: %w", f.Metadata.Name(), err)
		}
		for _, m := range b.Build(f, r.Index) {
			if err := c.AddMesh(m); err != nil {
				return nil, fmt.Errorf("tessellate: region %q: %w", r.Name(), err)
			}
		}
	}
	c.Freeze()
	b.log.Info("assembled map", "regions", len(c.Regions), "meshes", len(c.Meshes))
	return c, nil
}
