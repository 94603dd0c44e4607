// Package picking casts rays from a perspective camera through the pointer
// and finds the nearest region mesh they hit.
package picking

import (
	"math"

	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Camera defaults.
const (
	DefaultFOV  = 75.0
	DefaultNear = 0.1
	DefaultFar  = 1000.0
)

// DefaultPosition is where the camera starts, looking down -Z at the map.
var DefaultPosition = v3.Vec{X: 0, Y: 0, Z: 60}

// NDC is a pointer position in normalized device coordinates: both axes in
// [-1, 1], origin at the viewport center, y up.
type NDC struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// ToNDC converts a pointer pixel position to NDC. It reports false when the
// viewport has no area.
func ToNDC(px, py, width, height float64) (NDC, bool) {
	if width <= 0 || height <= 0 {
		return NDC{}, false
	}
	return NDC{
		X: px/width*2 - 1,
		Y: -(py/height)*2 + 1,
	}, true
}

// Camera is a perspective camera.
type Camera struct {
	Position v3.Vec  `json:"position"`
	Target   v3.Vec  `json:"target"`
	Up       v3.Vec  `json:"up"`
	FOV      float64 `json:"fov"` // vertical, degrees
	Aspect   float64 `json:"aspect"`
	Near     float64 `json:"near"`
	Far      float64 `json:"far"`
}

// NewPerspective returns the default camera for a viewport of the given
// aspect ratio.
func NewPerspective(aspect float64) Camera {
	if aspect <= 0 {
		aspect = 1
	}
	return Camera{
		Position: DefaultPosition,
		Up:       v3.Vec{X: 0, Y: 1, Z: 0},
		FOV:      DefaultFOV,
		Aspect:   aspect,
		Near:     DefaultNear,
		Far:      DefaultFar,
	}
}

// Ray is a half-line. Dir has unit length.
type Ray struct {
	Origin v3.Vec
	Dir    v3.Vec
}

// At returns the point at distance t along the ray.
func (r Ray) At(t float64) v3.Vec {
	return r.Origin.Add(r.Dir.MulScalar(t))
}

// forward returns the unit view direction. A camera whose position equals
// its target looks down -Z.
func (c Camera) forward() v3.Vec {
	d := c.Target.Sub(c.Position)
	if d.Length() < 1e-12 {
		return v3.Vec{X: 0, Y: 0, Z: -1}
	}
	return d.Normalize()
}

// Ray returns the ray from the camera through the pointer.
func (c Camera) Ray(p NDC) Ray {
	forward := c.forward()
	up := c.Up
	if up.Length() == 0 {
		up = v3.Vec{X: 0, Y: 1, Z: 0}
	}
	right := forward.Cross(up)
	if right.Length() < 1e-12 {
		// looking along up; pick any perpendicular
		right = forward.Cross(v3.Vec{X: 0, Y: 0, Z: 1})
		if right.Length() < 1e-12 {
			right = forward.Cross(v3.Vec{X: 1, Y: 0, Z: 0})
		}
	}
	right = right.Normalize()
	trueUp := right.Cross(forward)

	aspect := c.Aspect
	if aspect <= 0 {
		aspect = 1
	}
	tanHalf := math.Tan(c.FOV * math.Pi / 360)
	dir := forward.
		Add(right.MulScalar(p.X * tanHalf * aspect)).
		Add(trueUp.MulScalar(p.Y * tanHalf))
	return Ray{Origin: c.Position, Dir: dir.Normalize()}
}

// depthRange converts the camera's near and far planes into distances
// along a ray. Planes are perpendicular to the view direction.
func (c Camera) depthRange(r Ray) (near, far float64) {
	forward := c.forward()
	cos := r.Dir.Dot(forward)
	if cos <= 0 {
		return 0, 0
	}
	near, far = c.Near/cos, c.Far/cos
	if c.Far <= 0 {
		far = math.Inf(1)
	}
	return near, far
}
