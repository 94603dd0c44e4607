package scene

import (
	"errors"

	"github.com/chazu/relief/pkg/geo"
)

// ErrFrozen is returned when a frozen collection is modified.
var ErrFrozen = errors.New("scene: collection is frozen")

// Region is one logical geographic unit. Its metadata is owned here once
// and referenced by index from every mesh built for it.
type Region struct {
	Index    int          `json:"index"`
	Metadata geo.Metadata `json:"metadata"`

	group *Group
}

// Name returns the region's display name.
func (r *Region) Name() string {
	return r.Metadata.Name()
}

// Collection is the assembled map. It is append-only while the map is
// built and frozen afterwards; only face colors change after Freeze.
type Collection struct {
	Regions []*Region
	Meshes  []*RegionMesh

	root   Group
	frozen bool
}

// NewCollection returns an empty collection whose root group is named name.
func NewCollection(name string) *Collection {
	return &Collection{root: Group{Name: name}}
}

// AddRegion registers a region with a copy of md and returns it.
func (c *Collection) AddRegion(md geo.Metadata) (*Region, error) {
	if c.frozen {
		return nil, ErrFrozen
	}
	r := &Region{
		Index:    len(c.Regions),
		Metadata: md.Clone(),
		group:    &Group{Name: md.Name()},
	}
	c.Regions = append(c.Regions, r)
	c.root.Add(r.group)
	return r, nil
}

// AddMesh appends a mesh to its region. The mesh's Index is set to its
// position in build order.
func (c *Collection) AddMesh(m *RegionMesh) error {
	if c.frozen {
		return ErrFrozen
	}
	if m.Region < 0 || m.Region >= len(c.Regions) {
		return errors.New("scene: mesh references unknown region")
	}
	m.Index = len(c.Meshes)
	c.Meshes = append(c.Meshes, m)
	g := c.Regions[m.Region].group
	g.Add(m)
	if m.Outline != nil {
		g.Add(m.Outline)
	}
	return nil
}

// Freeze ends assembly.
func (c *Collection) Freeze() {
	c.frozen = true
}

// Frozen reports whether Freeze was called.
func (c *Collection) Frozen() bool {
	return c.frozen
}

// Root returns the group node handed to the renderer.
func (c *Collection) Root() *Group {
	return &c.root
}

// RegionOf returns the region a pickable node belongs to, or nil.
func (c *Collection) RegionOf(p Pickable) *Region {
	if p == nil {
		return nil
	}
	i := p.RegionIndex()
	if i < 0 || i >= len(c.Regions) {
		return nil
	}
	return c.Regions[i]
}

// Walk visits every node depth-first in build order. Returning false from
// fn stops the walk.
func (c *Collection) Walk(fn func(Node) bool) {
	walk(&c.root, fn)
}

func walk(n Node, fn func(Node) bool) bool {
	if !fn(n) {
		return false
	}
	if g, ok := n.(*Group); ok {
		for _, child := range g.Children {
			if !walk(child, fn) {
				return false
			}
		}
	}
	return true
}

// TakeDirty returns the meshes whose face colors changed since the last
// call, in build order, and clears their dirty flag.
func (c *Collection) TakeDirty() []*RegionMesh {
	var out []*RegionMesh
	for _, m := range c.Meshes {
		if m.dirty {
			m.dirty = false
			out = append(out, m)
		}
	}
	return out
}

// Highlighted returns the meshes whose every face has color hc.
func (c *Collection) Highlighted(hc Color) []*RegionMesh {
	var out []*RegionMesh
	for _, m := range c.Meshes {
		if m.FaceColors() == Uniform(hc) {
			out = append(out, m)
		}
	}
	return out
}
