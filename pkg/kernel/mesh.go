package kernel

// Mesh is a triangle mesh suitable for rendering.
// All arrays are flat: vertices has 3 floats per vertex (x,y,z),
// normals has 3 floats per vertex, indices has 3 uint32s per triangle.
type Mesh struct {
	Vertices []float32 `json:"vertices"` // [x0,y0,z0, x1,y1,z1, ...]
	Normals  []float32 `json:"normals"`  // [nx0,ny0,nz0, ...]
	Indices  []uint32  `json:"indices"`  // [i0,i1,i2, ...] triangles
	Groups   []Group   `json:"groups"`   // index ranges per material
}

// Group is a contiguous range of Indices drawn with one material.
type Group struct {
	Start         int `json:"start"` // first index
	Count         int `json:"count"` // number of indices
	MaterialIndex int `json:"materialIndex"`
}

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int {
	return len(m.Vertices) / 3
}

// TriangleCount returns the number of triangles.
func (m *Mesh) TriangleCount() int {
	return len(m.Indices) / 3
}

// IsEmpty returns true if the mesh has no geometry.
func (m *Mesh) IsEmpty() bool {
	return len(m.Vertices) == 0
}

// Triangle returns the corners of triangle i.
func (m *Mesh) Triangle(i int) (a, b, c [3]float64) {
	return m.vertex(m.Indices[i*3]), m.vertex(m.Indices[i*3+1]), m.vertex(m.Indices[i*3+2])
}

func (m *Mesh) vertex(i uint32) [3]float64 {
	j := int(i) * 3
	return [3]float64{float64(m.Vertices[j]), float64(m.Vertices[j+1]), float64(m.Vertices[j+2])}
}

// GroupCount returns the number of triangles drawn with material.
func (m *Mesh) GroupCount(material int) int {
	n := 0
	for _, g := range m.Groups {
		if g.MaterialIndex == material {
			n += g.Count / 3
		}
	}
	return n
}

// Bounds returns the axis-aligned bounds of the vertices. An empty mesh
// returns zero bounds.
func (m *Mesh) Bounds() (min, max [3]float64) {
	if m.IsEmpty() {
		return min, max
	}
	for k := 0; k < 3; k++ {
		min[k] = float64(m.Vertices[k])
		max[k] = min[k]
	}
	for i := 3; i < len(m.Vertices); i += 3 {
		for k := 0; k < 3; k++ {
			v := float64(m.Vertices[i+k])
			if v < min[k] {
				min[k] = v
			}
			if v > max[k] {
				max[k] = v
			}
		}
	}
	return min, max
}
