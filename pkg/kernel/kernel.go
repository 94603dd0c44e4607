// Package kernel defines the abstract geometry kernel interface.
// Implementations (earcut, sdfx) turn planar shapes into extruded solids
// and triangle meshes behind this interface. Builders depend only on
// this interface, so the backend is picked once at startup.
package kernel

// Solid is an opaque handle to a geometry kernel solid.
// Implementations wrap their internal representation.
type Solid interface {
	// BoundingBox returns the axis-aligned bounding box.
	BoundingBox() (min, max [3]float64)
}

// Kernel is the abstract geometry kernel interface.
type Kernel interface {
	// Extrude sweeps shape along +Z from z=0 to z=depth with flat caps.
	Extrude(shape *Shape, depth float64) (Solid, error)

	// ToMesh tessellates a solid. The mesh carries two index groups:
	// MaterialCap for the caps and MaterialWall for the walls.
	ToMesh(s Solid) (*Mesh, error)
}

// Material indices used by mesh groups.
const (
	MaterialCap  = 0
	MaterialWall = 1
)
