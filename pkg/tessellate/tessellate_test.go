package tessellate_test

import (
	"fmt"
	"testing"

	"github.com/chazu/relief/pkg/geo"
	"github.com/chazu/relief/pkg/kernel"
	"github.com/chazu/relief/pkg/kernel/earcut"
	"github.com/chazu/relief/pkg/kernel/sdfx"
	"github.com/chazu/relief/pkg/projection"
	"github.com/chazu/relief/pkg/scene"
	"github.com/chazu/relief/pkg/tessellate"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// planar maps lon to x and lat to y in render space (the builder negates
// the projector's y).
type planar struct{}

func (planar) Project(lon, lat float64) projection.Point {
	return projection.Point{X: lon, Y: -lat}
}

// newBuilder returns a builder with the exact kernel.
func newBuilder(opts ...tessellate.Option) *tessellate.Builder {
	return tessellate.NewBuilder(planar{}, earcut.New(), opts...)
}

func square(x0, y0, size float64) geo.Ring {
	return geo.Ring{{Lon: x0, Lat: y0}, {Lon: x0 + size, Lat: y0}, {Lon: x0 + size, Lat: y0 + size}, {Lon: x0, Lat: y0 + size}}
}

func TestSingleFeature(t *testing.T) {
	features := []geo.Feature{{
		Metadata: geo.Metadata{"name": "A"},
		Polygons: []geo.Polygon{{square(0, 0, 1)}},
	}}
	c, err := tessellate.Assemble(features, newBuilder())
	require.NoError(t, err)
	require.Len(t, c.Meshes, 1)
	assert.Equal(t, "A", c.RegionOf(c.Meshes[0]).Name())
	assert.True(t, c.Frozen())
	assert.True(t, c.Meshes[0].Eligible())
}

func TestMultiPolygonRoundTrip(t *testing.T) {
	md := geo.Metadata{"name": "Islands", "adcode": 460000.0}
	f := geo.Feature{
		Metadata: md,
		Polygons: []geo.Polygon{
			{square(0, 0, 1)},
			{square(5, 0, 1)},
			{square(10, 0, 2)},
		},
	}
	c, err := tessellate.Assemble([]geo.Feature{f}, newBuilder())
	require.NoError(t, err)
	require.Len(t, c.Meshes, 3)
	for _, m := range c.Meshes {
		assert.Equal(t, md, c.RegionOf(m).Metadata)
	}
}

func TestOutlineMatchesRing(t *testing.T) {
	tests := []struct {
		name string
		ring geo.Ring
	}{
		{"square", square(0, 0, 1)},
		{"closed square", append(square(0, 0, 1), geo.Coord{Lon: 0, Lat: 0})},
		{"triangle", geo.Ring{{Lon: 0, Lat: 0}, {Lon: 2, Lat: 0}, {Lon: 1, Lat: 1}}},
		{"single point", geo.Ring{{Lon: 3, Lat: 3}}},
		{"two points", geo.Ring{{Lon: 0, Lat: 0}, {Lon: 1, Lat: 1}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ms := newBuilder().Build(geo.Feature{Polygons: []geo.Polygon{{tt.ring}}}, 0)
			require.Len(t, ms, 1)
			require.Len(t, ms[0].Outline.Rings, 1)
			assert.Equal(t, len(tt.ring), ms[0].Outline.PointCount(0))
			for _, p := range ms[0].Outline.Rings[0] {
				assert.Equal(t, tessellate.DefaultOutlineElevation, p.Z)
			}
		})
	}
}

func TestDegenerateRingNotEligible(t *testing.T) {
	ms := newBuilder().Build(geo.Feature{Polygons: []geo.Polygon{{{{Lon: 0, Lat: 0}, {Lon: 1, Lat: 1}}}}}, 0)
	require.Len(t, ms, 1)
	assert.True(t, ms[0].Solid.IsEmpty())
	assert.False(t, ms[0].Eligible())
}

func TestEmptyRingSkipped(t *testing.T) {
	f := geo.Feature{
		Metadata: geo.Metadata{"name": "A"},
		Polygons: []geo.Polygon{{geo.Ring{}}, {}, {square(0, 0, 1)}},
	}
	ms := newBuilder().Build(f, 0)
	assert.Len(t, ms, 1)
}

func TestRenderSpaceOrientation(t *testing.T) {
	ms := newBuilder().Build(geo.Feature{Polygons: []geo.Polygon{{square(2, 3, 1)}}}, 0)
	require.Len(t, ms, 1)
	min, max := ms[0].Bounds()
	assert.Equal(t, 2.0, min.X)
	assert.Equal(t, 3.0, min.Y)
	assert.Equal(t, 3.0, max.X)
	assert.Equal(t, 4.0, max.Y)
	assert.Equal(t, 0.0, min.Z)
	assert.Equal(t, tessellate.DefaultDepth, max.Z)
}

func TestHoleIsSubtracted(t *testing.T) {
	ring := square(0, 0, 4)
	hole := geo.Ring{{Lon: 1, Lat: 1}, {Lon: 3, Lat: 1}, {Lon: 3, Lat: 3}, {Lon: 1, Lat: 3}}
	ms := newBuilder().Build(geo.Feature{Polygons: []geo.Polygon{{ring, hole}}}, 0)
	require.Len(t, ms, 1)

	m := ms[0]
	assert.Len(t, m.Outline.Rings, 2)
	// Each cap covers 16 - 4 = 12 square units.
	var capArea float64
	for _, g := range m.Solid.Groups {
		if g.MaterialIndex != kernel.MaterialCap {
			continue
		}
		for i := g.Start / 3; i < (g.Start+g.Count)/3; i++ {
			a, b, c := m.Solid.Triangle(i)
			cross := (b[0]-a[0])*(c[1]-a[1]) - (b[1]-a[1])*(c[0]-a[0])
			if cross < 0 {
				cross = -cross
			}
			capArea += cross / 2
		}
	}
	assert.InDelta(t, 24.0, capArea, 1e-6)
}

func TestOptions(t *testing.T) {
	mats := scene.DefaultMaterials()
	mats[scene.FaceTop].Color = scene.MustParseColor("#00ff00")
	b := newBuilder(
		tessellate.WithDepth(2),
		tessellate.WithOutlineElevation(2.01),
		tessellate.WithMaterials(mats),
		tessellate.WithOutlineColor(scene.MustParseColor("black")),
	)
	ms := b.Build(geo.Feature{Polygons: []geo.Polygon{{square(0, 0, 1)}}}, 0)
	require.Len(t, ms, 1)
	_, max := ms[0].Bounds()
	assert.Equal(t, 2.0, max.Z)
	assert.Equal(t, 2.01, ms[0].Outline.Rings[0][0].Z)
	assert.Equal(t, mats, ms[0].Materials)
	assert.Equal(t, scene.Color(0), ms[0].Outline.Color)
}

func TestAssembleOrderDeterministic(t *testing.T) {
	features := []geo.Feature{
		{Metadata: geo.Metadata{"name": "A"}, Polygons: []geo.Polygon{{square(0, 0, 1)}, {square(3, 0, 1)}}},
		{Metadata: geo.Metadata{"name": "B"}, Polygons: []geo.Polygon{{square(6, 0, 1)}}},
		{Metadata: geo.Metadata{"name": "C"}, Polygons: []geo.Polygon{{geo.Ring{}}}},
	}
	names := func() []string {
		c, err := tessellate.Assemble(features, newBuilder())
		require.NoError(t, err)
		require.Len(t, c.Regions, 3)
		var out []string
		for _, m := range c.Meshes {
			out = append(out, c.RegionOf(m).Name())
		}
		return out
	}
	first := names()
	assert.Equal(t, []string{"A", "A", "B"}, first)
	assert.Equal(t, first, names())
}

func TestSdfxKernelBuild(t *testing.T) {
	b := tessellate.NewBuilder(planar{}, sdfx.WithCells(30))
	ms := b.Build(geo.Feature{Polygons: []geo.Polygon{{square(0, 0, 5)}}}, 0)
	require.Len(t, ms, 1)
	assert.True(t, ms[0].Eligible())

}

func TestDegenerateRingSameForEveryKernel(t *testing.T) {
	f := geo.Feature{Polygons: []geo.Polygon{
		{{{Lon: 0, Lat: 0}, {Lon: 1, Lat: 1}, {Lon: 0, Lat: 0}}},
		{square(3, 0, 2)},
	}}
	for _, k := range []kernel.Kernel{earcut.New(), sdfx.WithCells(30)} {
		t.Run(fmt.Sprintf("%T", k), func(t *testing.T) {
			ms := tessellate.NewBuilder(planar{}, k).Build(f, 0)
			require.Len(t, ms, 2)

			m := ms[0]
			assert.True(t, m.Solid.IsEmpty())
			assert.False(t, m.Eligible())
			require.Len(t, m.Outline.Rings, 1)
			assert.Equal(t, 3, m.Outline.PointCount(0))

			assert.True(t, ms[1].Eligible())
		})
	}
}
