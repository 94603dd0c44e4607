package kernel

import (
	v2 "github.com/deadsy/sdfx/vec/v2"
)

// Path is a planar contour built with MoveTo/LineTo. It is implicitly
// closed back to its first point.
type Path struct {
	Points []v2.Vec
}

// MoveTo starts a new contour at (x, y), discarding any previous points.
func (p *Path) MoveTo(x, y float64) *Path {
	p.Points = append(p.Points[:0], v2.Vec{X: x, Y: y})
	return p
}

// LineTo extends the contour to (x, y).
func (p *Path) LineTo(x, y float64) *Path {
	p.Points = append(p.Points, v2.Vec{X: x, Y: y})
	return p
}

// Shape is an outer contour with optional holes.
type Shape struct {
	Outer Path
	Holes []Path
}

// NewShape returns an empty shape.
func NewShape() *Shape {
	return &Shape{}
}

// MoveTo starts the outer contour.
func (s *Shape) MoveTo(x, y float64) *Shape {
	s.Outer.MoveTo(x, y)
	return s
}

// LineTo extends the outer contour.
func (s *Shape) LineTo(x, y float64) *Shape {
	s.Outer.LineTo(x, y)
	return s
}

// AddHole appends a hole contour.
func (s *Shape) AddHole(h Path) *Shape {
	s.Holes = append(s.Holes, h)
	return s
}

// Clean returns the contour without consecutive duplicate points and
// without a closing point equal to the first.
func Clean(pts []v2.Vec) []v2.Vec {
	out := make([]v2.Vec, 0, len(pts))
	for _, p := range pts {
		if len(out) > 0 && out[len(out)-1] == p {
			continue
		}
		out = append(out, p)
	}
	for len(out) > 1 && out[len(out)-1] == out[0] {
		out = out[:len(out)-1]
	}
	return out
}

// SignedArea returns the shoelace area of a closed contour. It is positive
// for counter-clockwise winding in a y-up frame.
func SignedArea(pts []v2.Vec) float64 {
	var sum float64
	n := len(pts)
	for i := 0; i < n; i++ {
		a, b := pts[i], pts[(i+1)%n]
		sum += a.X*b.Y - b.X*a.Y
	}
	return sum / 2
}

// Oriented returns pts wound counter-clockwise when ccw is true and
// clockwise otherwise. The input slice is not modified.
func Oriented(pts []v2.Vec, ccw bool) []v2.Vec {
	out := make([]v2.Vec, len(pts))
	copy(out, pts)
	if (SignedArea(out) > 0) != ccw {
		for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
			out[i], out[j] = out[j], out[i]
		}
	}
	return out
}
