package main

import (
	"math"
	"os"
	"testing"

	"github.com/chazu/relief/pkg/kernel/earcut"
	"github.com/chazu/relief/pkg/projection"
	"github.com/chazu/relief/pkg/style"
	"github.com/go-logr/logr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const viewport = 1000.0

func newTestApp(t *testing.T) *App {
	t.Helper()
	return NewApp(logr.Discard(), earcut.New())
}

func loadExample(t *testing.T, app *App) MapResult {
	t.Helper()
	data, err := os.ReadFile("examples/regions.geojson")
	require.NoError(t, err)
	res := app.LoadMap(string(data))
	require.Empty(t, res.Errors)
	return res
}

// pixelFor returns the viewport pixel over the top cap at (lon, lat) for the
// default style and camera.
func pixelFor(lon, lat float64) (x, y float64) {
	st := style.Default()
	p := projection.New(st.Projection).Project(lon, lat)
	dist := st.Camera.Position[2] - st.Depth
	tanHalf := math.Tan(st.Camera.FOV * math.Pi / 360)
	ndcX := p.X / (dist * tanHalf)
	ndcY := -p.Y / (dist * tanHalf)
	return (ndcX + 1) / 2 * viewport, (1 - ndcY) / 2 * viewport
}

func frame(app *App) FrameData {
	return app.Frame(CameraData{Width: viewport, Height: viewport})
}

func hover(app *App, lon, lat float64) FrameData {
	x, y := pixelFor(lon, lat)
	app.PointerMove(x, y, viewport, viewport)
	return frame(app)
}

func changedIndexes(fd FrameData) []int {
	out := make([]int, len(fd.Changed))
	for i, c := range fd.Changed {
		out[i] = c.Index
	}
	return out
}

// TestE2ELoadExample runs the whole load path: GeoJSON, projection, mesh
// building and assembly, as the LoadMap binding does without the runtime.
func TestE2ELoadExample(t *testing.T) {
	app := newTestApp(t)
	res := loadExample(t, app)

	require.Len(t, res.Regions, 3)
	assert.Equal(t, "Alpha", res.Regions[0].Name)
	assert.Equal(t, "Beta", res.Regions[1].Name)
	assert.Equal(t, "Gamma", res.Regions[2].Name)
	assert.Equal(t, 130000.0, res.Regions[2].Properties["adcode"])
	assert.Empty(t, res.Warnings)
	require.NotNil(t, res.Bounds)
	assert.Equal(t, [2]float64{96, 30}, res.Bounds[0])
	assert.Equal(t, [2]float64{115, 40}, res.Bounds[1])

	// Gamma is a two-part region.
	require.Len(t, res.Meshes, 4)
	wantRegion := []int{0, 1, 2, 2}
	wantRings := []int{1, 2, 1, 1}
	for i, m := range res.Meshes {
		assert.Equal(t, i, m.Index)
		assert.Equal(t, wantRegion[i], m.Region, "mesh %d region", i)
		assert.True(t, m.Pickable, "mesh %d pickable", i)
		assert.NotEmpty(t, m.Vertices)
		assert.Len(t, m.Normals, len(m.Vertices))
		assert.NotEmpty(t, m.Indices)
		require.Len(t, m.Groups, 2)
		require.Len(t, m.Materials, 2)
		assert.Equal(t, "#2defff", m.Materials[0].Color)
		assert.Equal(t, "#3480c4", m.Materials[1].Color)
		assert.Equal(t, "#ffffff", m.OutlineColor)
		require.Len(t, m.Outline, wantRings[i], "mesh %d outline rings", i)
		for _, ring := range m.Outline {
			// Five closed-ring coordinates, three floats each, at the
			// outline elevation.
			require.Len(t, ring, 15)
			assert.InDelta(t, 4.01, ring[2], 1e-6)
		}
	}
	assert.Equal(t, res.Meshes[2].Name, res.Meshes[3].Name)
}

func TestE2EHoverScenario(t *testing.T) {
	app := newTestApp(t)
	loadExample(t, app)

	// Nothing under the pointer before it moves.
	fd := frame(app)
	assert.Empty(t, fd.Changed)
	assert.False(t, fd.Tooltip.Visible)

	fd = hover(app, 97.5, 38.7)
	assert.Equal(t, []int{0}, changedIndexes(fd))
	assert.Equal(t, [2]string{"#ff0000", "#ff0000"}, fd.Changed[0].Colors)
	require.NotNil(t, fd.Hit)
	assert.Equal(t, 0, *fd.Hit)
	assert.True(t, fd.Tooltip.Visible)
	assert.Equal(t, "Alpha", fd.Tooltip.Text)
	x, y := pixelFor(97.5, 38.7)
	assert.InDelta(t, x+2, fd.Tooltip.Left, 1e-9)
	assert.InDelta(t, y+2, fd.Tooltip.Top, 1e-9)

	// Same region again: no repaint.
	fd = frame(app)
	assert.Empty(t, fd.Changed)
	assert.Equal(t, "Alpha", fd.Tooltip.Text)

	// Across to the southern part of Gamma.
	fd = hover(app, 112.8, 31.3)
	assert.ElementsMatch(t, []int{0, 3}, changedIndexes(fd))
	for _, c := range fd.Changed {
		if c.Index == 0 {
			assert.Equal(t, [2]string{"#2defff", "#3480c4"}, c.Colors)
		} else {
			assert.Equal(t, [2]string{"#ff0000", "#ff0000"}, c.Colors)
		}
	}
	assert.Equal(t, "Gamma", fd.Tooltip.Text)

	app.PointerLeave()
	fd = frame(app)
	assert.Equal(t, []int{3}, changedIndexes(fd))
	assert.Equal(t, [2]string{"#2defff", "#3480c4"}, fd.Changed[0].Colors)
	assert.False(t, fd.Tooltip.Visible)
	assert.Nil(t, fd.Hit)
}

func TestE2EHoverHole(t *testing.T) {
	app := newTestApp(t)
	loadExample(t, app)

	fd := hover(app, 107, 35)
	assert.Nil(t, fd.Hit)
	assert.Empty(t, fd.Changed)
	assert.False(t, fd.Tooltip.Visible)

	fd = hover(app, 104.7, 37.2)
	require.NotNil(t, fd.Hit)
	assert.Equal(t, 1, *fd.Hit)
	assert.Equal(t, "Beta", fd.Tooltip.Text)
}

func TestE2EDefaultStyleFile(t *testing.T) {
	app := newTestApp(t)
	src, err := os.ReadFile("examples/default.relief")
	require.NoError(t, err)

	res := app.SetStyle(string(src))
	require.Empty(t, res.Errors)
	assert.Equal(t, style.Default().Camera, res.Camera)
	assert.Equal(t, *style.Default(), *app.style)
}

func TestE2ESetStyleRebuildsMap(t *testing.T) {
	app := newTestApp(t)
	loadExample(t, app)
	hover(app, 97.5, 38.7)

	res := app.SetStyle(`(colors :top "#00ff00" :highlight "#0000ff") (camera :fov 60)`)
	require.Empty(t, res.Errors)
	require.Len(t, res.Meshes, 4)
	for _, m := range res.Meshes {
		assert.Equal(t, "#00ff00", m.Materials[0].Color)
		assert.Equal(t, "#3480c4", m.Materials[1].Color)
	}
	assert.Equal(t, 60.0, res.Camera.FOV)

	// The rebuilt map starts idle; the old pointer sample is gone.
	fd := frame(app)
	assert.Empty(t, fd.Changed)
	assert.False(t, fd.Tooltip.Visible)
}

func TestE2EWithoutMap(t *testing.T) {
	app := newTestApp(t)

	app.PointerMove(10, 10, viewport, viewport)
	app.PointerLeave()
	fd := frame(app)
	assert.NotNil(t, fd.Changed)
	assert.Empty(t, fd.Changed)
	assert.Nil(t, fd.Hit)

	res := app.SetStyle(`(extrude :depth 4)`)
	assert.Empty(t, res.Errors)
	assert.NotNil(t, res.Meshes)
	assert.Empty(t, res.Meshes)
}
