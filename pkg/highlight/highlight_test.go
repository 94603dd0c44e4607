package highlight_test

import (
	"testing"

	"github.com/chazu/relief/pkg/geo"
	"github.com/chazu/relief/pkg/highlight"
	"github.com/chazu/relief/pkg/kernel/earcut"
	"github.com/chazu/relief/pkg/picking"
	"github.com/chazu/relief/pkg/projection"
	"github.com/chazu/relief/pkg/scene"
	"github.com/chazu/relief/pkg/tessellate"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// display records the info display state.
type display struct {
	text    string
	visible bool
	sets    int
}

func (d *display) SetText(s string) { d.text = s; d.sets++ }
func (d *display) SetVisible(v bool) { d.visible = v }

type planar struct{}

func (planar) Project(lon, lat float64) projection.Point {
	return projection.Point{X: lon, Y: -lat}
}

var red = scene.DefaultHighlightColor

// fixture builds regions A (left) and B (right) plus a two-part region C
// far to the right.
func fixture(t *testing.T) *scene.Collection {
	t.Helper()
	sq := func(x0, y0 float64) geo.Polygon {
		return geo.Polygon{{{Lon: x0, Lat: y0}, {Lon: x0 + 10, Lat: y0}, {Lon: x0 + 10, Lat: y0 + 10}, {Lon: x0, Lat: y0 + 10}}}
	}
	features := []geo.Feature{
		{Metadata: geo.Metadata{"name": "A"}, Polygons: []geo.Polygon{sq(-20, -5)}},
		{Metadata: geo.Metadata{"name": "B"}, Polygons: []geo.Polygon{sq(10, -5)}},
		{Metadata: geo.Metadata{"name": "C"}, Polygons: []geo.Polygon{sq(30, -5), sq(45, -5)}},
	}
	c, err := tessellate.Assemble(features, tessellate.NewBuilder(planar{}, earcut.New()))
	require.NoError(t, err)
	require.Len(t, c.Meshes, 4)
	return c
}

// at returns the pointer NDC over world (x, y) on the top faces.
func at(cam picking.Camera, x, y float64) picking.NDC {
	r := cam.Ray(picking.NDC{X: 1, Y: 1})
	// slope of the corner ray gives the half extents at the top face
	dist := cam.Position.Z - tessellate.DefaultDepth
	halfW := -r.Dir.X / r.Dir.Z * dist
	halfH := -r.Dir.Y / r.Dir.Z * dist
	return picking.NDC{X: x / halfW, Y: y / halfH}
}

func pick(t *testing.T, c *scene.Collection, cam picking.Camera, p picking.NDC) scene.Pickable {
	t.Helper()
	if r := picking.Pick(p, cam, c); r != nil {
		return r.Mesh
	}
	return nil
}

func originals(c *scene.Collection) []scene.FaceColors {
	out := make([]scene.FaceColors, len(c.Meshes))
	for i, m := range c.Meshes {
		out[i] = m.FaceColors()
	}
	return out
}

func assertAtMostOneHighlighted(t *testing.T, c *scene.Collection) {
	t.Helper()
	assert.LessOrEqual(t, len(c.Highlighted(red)), 1)
}

func TestScenarioHoverRegion(t *testing.T) {
	c := fixture(t)
	cam := picking.NewPerspective(1)
	d := &display{}
	hc := highlight.New(c, d, red)

	target := pick(t, c, cam, at(cam, -15, 1))
	require.NotNil(t, target)
	assert.Equal(t, "A", c.RegionOf(target).Name())

	st := hc.Update(target)
	h, ok := st.(highlight.Highlighted)
	require.True(t, ok)
	assert.Same(t, c.Meshes[0], h.Mesh)
	assert.Equal(t, scene.Uniform(red), c.Meshes[0].FaceColors())
	assert.Equal(t, "A", d.text)
	assert.True(t, d.visible)
}

func TestScenarioPointerLeaves(t *testing.T) {
	c := fixture(t)
	orig := originals(c)
	cam := picking.NewPerspective(1)
	d := &display{}
	hc := highlight.New(c, d, red)

	hc.Update(pick(t, c, cam, at(cam, -15, 1)))
	require.True(t, d.visible)

	target := pick(t, c, cam, at(cam, 0, 30))
	require.Nil(t, target)
	st := hc.Update(target)
	assert.IsType(t, highlight.Idle{}, st)
	assert.Equal(t, orig[0], c.Meshes[0].FaceColors())
	assert.False(t, d.visible)
	assert.Empty(t, c.Highlighted(red))
}

func TestScenarioMoveBetweenRegions(t *testing.T) {
	c := fixture(t)
	orig := originals(c)
	cam := picking.NewPerspective(1)
	d := &display{}
	hc := highlight.New(c, d, red)

	hc.Update(pick(t, c, cam, at(cam, -15, 1)))
	st := hc.Update(pick(t, c, cam, at(cam, 15, 1)))

	h, ok := st.(highlight.Highlighted)
	require.True(t, ok)
	assert.Same(t, c.Meshes[1], h.Mesh)
	assert.Equal(t, orig[0], c.Meshes[0].FaceColors(), "A restored")
	assert.Equal(t, scene.Uniform(red), c.Meshes[1].FaceColors(), "B highlighted")
	assert.Equal(t, "B", d.text)
	assert.True(t, d.visible)
	assertAtMostOneHighlighted(t, c)
}

func TestSameRegionIsNoop(t *testing.T) {
	c := fixture(t)
	d := &display{}
	hc := highlight.New(c, d, red)

	hc.Update(c.Meshes[0])
	sets := d.sets
	dirty := c.TakeDirty()
	require.Len(t, dirty, 1)

	for i := 0; i < 10; i++ {
		hc.Update(c.Meshes[0])
	}
	assert.Equal(t, sets, d.sets, "text not rewritten")
	assert.Empty(t, c.TakeDirty(), "colors not rewritten")
	assert.Equal(t, scene.Uniform(red), c.Meshes[0].FaceColors())
}

func TestIdleStaysHidden(t *testing.T) {
	c := fixture(t)
	d := &display{visible: true}
	hc := highlight.New(c, d, red)

	st := hc.Update(nil)
	assert.IsType(t, highlight.Idle{}, st)
	assert.False(t, d.visible)
	assert.Nil(t, hc.Current())
}

func TestNoDriftAfterManyCycles(t *testing.T) {
	c := fixture(t)
	orig := originals(c)
	d := &display{}
	hc := highlight.New(c, d, red)

	seq := []scene.Pickable{c.Meshes[0], c.Meshes[1], nil, c.Meshes[2], c.Meshes[3], c.Meshes[0], c.Meshes[0], nil, nil}
	for round := 0; round < 50; round++ {
		for _, m := range seq {
			hc.Update(m)
			assertAtMostOneHighlighted(t, c)
		}
	}
	assert.Equal(t, orig, originals(c))
}

func TestMultiPartRegionSharesText(t *testing.T) {
	c := fixture(t)
	d := &display{}
	hc := highlight.New(c, d, red)

	hc.Update(c.Meshes[2])
	assert.Equal(t, "C", d.text)
	hc.Update(c.Meshes[3])
	assert.Equal(t, "C", d.text)
	assert.Same(t, c.Meshes[3], hc.Current())
	assertAtMostOneHighlighted(t, c)
}

func TestIneligibleTargetIgnored(t *testing.T) {
	c := fixture(t)
	flat, err := scene.NewRegionMesh(0, c.Meshes[0].Solid, scene.DefaultMaterials(), nil)
	require.NoError(t, err)
	flat.Solid = nil

	d := &display{}
	hc := highlight.New(c, d, red)
	hc.Update(c.Meshes[1])
	st := hc.Update(flat)
	assert.IsType(t, highlight.Idle{}, st)
	assert.False(t, d.visible)
	assert.Empty(t, c.Highlighted(red))
}

func TestReset(t *testing.T) {
	c := fixture(t)
	orig := originals(c)
	d := &display{}
	hc := highlight.New(c, d, red)

	hc.Update(c.Meshes[1])
	hc.Reset()
	assert.IsType(t, highlight.Idle{}, hc.State())
	assert.Equal(t, orig, originals(c))
	assert.False(t, d.visible)
}

func TestWithLabel(t *testing.T) {
	c := fixture(t)
	d := &display{}
	hc := highlight.New(c, d, red, highlight.WithLabel(func(r *scene.Region) string {
		return "region " + r.Name()
	}))
	hc.Update(c.Meshes[1])
	assert.Equal(t, "region B", d.text)
}
