package picking

import (
	"math"
	"sort"

	"github.com/chazu/relief/pkg/scene"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// epsilon guards the ray/triangle determinant against parallel rays.
const epsilon = 1e-9

// Result is a ray hit on a pickable node.
type Result struct {
	Mesh     scene.Pickable
	Distance float64
	Point    v3.Vec
}

// Pick returns the nearest hit of the ray through p on an eligible node of
// c, or nil. Hits at equal distance resolve to the node earliest in build
// order.
func Pick(p NDC, cam Camera, c *scene.Collection) *Result {
	hits := Intersect(cam.Ray(p), cam, c)
	if len(hits) == 0 {
		return nil
	}
	return &hits[0]
}

// Intersect returns every hit of r on the eligible nodes of c, nearest
// first, one per node. The sort is stable, so equal distances keep build
// order.
func Intersect(r Ray, cam Camera, c *scene.Collection) []Result {
	if c == nil {
		return nil
	}
	near, far := cam.depthRange(r)
	var hits []Result
	c.Walk(func(n scene.Node) bool {
		pk, ok := n.(scene.Pickable)
		if !ok || !pk.Eligible() {
			return true
		}
		if t, ok := nearestHit(r, pk, near, far); ok {
			hits = append(hits, Result{Mesh: pk, Distance: t, Point: r.At(t)})
		}
		return true
	})
	sort.SliceStable(hits, func(i, j int) bool { return hits[i].Distance < hits[j].Distance })
	return hits
}

// nearestHit returns the smallest distance in [near, far] at which r hits a
// triangle of pk.
func nearestHit(r Ray, pk scene.Pickable, near, far float64) (float64, bool) {
	min, max := pk.Bounds()
	if !hitsBox(r, min, max, near, far) {
		return 0, false
	}
	mesh := pk.Geometry()
	best := math.Inf(1)
	for i := 0; i < mesh.TriangleCount(); i++ {
		a, b, c := mesh.Triangle(i)
		t, ok := intersectTriangle(r, vec(a), vec(b), vec(c))
		if ok && t >= near && t <= far && t < best {
			best = t
		}
	}
	return best, !math.IsInf(best, 1)
}

// intersectTriangle is the Möller–Trumbore test. Both faces count as hits.
func intersectTriangle(r Ray, a, b, c v3.Vec) (float64, bool) {
	e1 := b.Sub(a)
	e2 := c.Sub(a)
	p := r.Dir.Cross(e2)
	det := e1.Dot(p)
	if math.Abs(det) < epsilon {
		return 0, false
	}
	inv := 1 / det
	s := r.Origin.Sub(a)
	u := s.Dot(p) * inv
	if u < 0 || u > 1 {
		return 0, false
	}
	q := s.Cross(e1)
	v := r.Dir.Dot(q) * inv
	if v < 0 || u+v > 1 {
		return 0, false
	}
	t := e2.Dot(q) * inv
	if t <= 0 {
		return 0, false
	}
	return t, true
}

// hitsBox is the slab test for an axis-aligned box.
func hitsBox(r Ray, min, max v3.Vec, near, far float64) bool {
	o := [3]float64{r.Origin.X, r.Origin.Y, r.Origin.Z}
	d := [3]float64{r.Dir.X, r.Dir.Y, r.Dir.Z}
	lo := [3]float64{min.X, min.Y, min.Z}
	hi := [3]float64{max.X, max.Y, max.Z}
	tmin, tmax := near, far
	for k := 0; k < 3; k++ {
		if math.Abs(d[k]) < epsilon {
			if o[k] < lo[k] || o[k] > hi[k] {
				return false
			}
			continue
		}
		t1 := (lo[k] - o[k]) / d[k]
		t2 := (hi[k] - o[k]) / d[k]
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		tmin = math.Max(tmin, t1)
		tmax = math.Min(tmax, t2)
		if tmin > tmax {
			return false
		}
	}
	return true
}

func vec(p [3]float64) v3.Vec {
	return v3.Vec{X: p[0], Y: p[1], Z: p[2]}
}
