package main

import (
	"context"
	"sync"

	"github.com/chazu/relief/pkg/geo"
	"github.com/chazu/relief/pkg/highlight"
	"github.com/chazu/relief/pkg/interact"
	"github.com/chazu/relief/pkg/kernel"
	"github.com/chazu/relief/pkg/projection"
	"github.com/chazu/relief/pkg/scene"
	"github.com/chazu/relief/pkg/style"
	"github.com/chazu/relief/pkg/tessellate"
	"github.com/go-logr/logr"
)

// App is the Wails backend. It exposes methods to the frontend via bindings.
type App struct {
	ctx    context.Context
	log    logr.Logger
	engine *style.Engine
	kernel kernel.Kernel

	mu      sync.Mutex
	style   *style.Style
	dataset *geo.Dataset
	session *interact.Session
	tooltip *tooltip
}

// MeshData is the JSON-serializable region mesh sent to the frontend.
type MeshData struct {
	Index        int            `json:"index"`
	Region       int            `json:"region"`
	Name         string         `json:"name"`
	Vertices     []float32      `json:"vertices"`
	Normals      []float32      `json:"normals"`
	Indices      []uint32       `json:"indices"`
	Groups       []GroupData    `json:"groups"`
	Materials    []MaterialData `json:"materials"`
	Outline      [][]float32    `json:"outline"`
	OutlineColor string         `json:"outlineColor"`
	Pickable     bool           `json:"pickable"`
}

// GroupData is an index range drawn with one material.
type GroupData struct {
	Start         int `json:"start"`
	Count         int `json:"count"`
	MaterialIndex int `json:"materialIndex"`
}

// MaterialData is one face material.
type MaterialData struct {
	Color       string  `json:"color"`
	Opacity     float64 `json:"opacity"`
	Transparent bool    `json:"transparent"`
}

// RegionData describes one region and its properties.
type RegionData struct {
	Index      int          `json:"index"`
	Name       string       `json:"name"`
	Properties geo.Metadata `json:"properties"`
}

// EvalErrorData is a JSON-serializable style or load error for the frontend.
type EvalErrorData struct {
	Line    int    `json:"line"`
	Col     int    `json:"col"`
	Message string `json:"message"`
}

// MapResult is the full result of loading a map or changing its style.
type MapResult struct {
	Meshes   []MeshData       `json:"meshes"`
	Regions  []RegionData     `json:"regions"`
	Camera   style.CameraSpec `json:"camera"`
	Errors   []EvalErrorData  `json:"errors"`
	Warnings []EvalErrorData  `json:"warnings"`
	Bounds   *[2][2]float64   `json:"bounds,omitempty"`
}

// CameraData is the frontend camera for one frame. Nil fields keep the
// style's values.
type CameraData struct {
	Width    float64     `json:"width"`
	Height   float64     `json:"height"`
	Position *[3]float64 `json:"position,omitempty"`
	Target   *[3]float64 `json:"target,omitempty"`
	Up       *[3]float64 `json:"up,omitempty"`
}

// ColorUpdate carries the new face colors of one mesh.
type ColorUpdate struct {
	Index  int       `json:"index"`
	Colors [2]string `json:"colors"`
}

// TooltipData places the info display.
type TooltipData struct {
	Text    string  `json:"text"`
	Visible bool    `json:"visible"`
	Left    float64 `json:"left"`
	Top     float64 `json:"top"`
}

// FrameData is what one frame changed.
type FrameData struct {
	Changed []ColorUpdate `json:"changed"`
	Tooltip TooltipData   `json:"tooltip"`
	Hit     *int          `json:"hit,omitempty"`
}

// NewApp creates a new App with an engine and kernel k.
func NewApp(log logr.Logger, k kernel.Kernel) *App {
	return &App{
		log:     log,
		engine:  style.NewEngine(),
		kernel:  k,
		style:   style.Default(),
		tooltip: &tooltip{},
	}
}

// startup is called by Wails on app startup. The context is saved so the
// tooltip can emit runtime events.
func (a *App) startup(ctx context.Context) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.ctx = ctx
	a.tooltip.ctx = ctx
}

// SetStyle evaluates style source. On success the style replaces the
// current one and a loaded map is rebuilt with it. On failure the current
// style is kept.
func (a *App) SetStyle(source string) MapResult {
	result := newMapResult()

	s, evalErrs, err := a.engine.Evaluate(source)
	if err != nil {
		a.log.Error(err, "style evaluation failed")
		result.Errors = append(result.Errors, EvalErrorData{Message: err.Error()})
		return result
	}
	if len(evalErrs) > 0 {
		for _, e := range evalErrs {
			result.Errors = append(result.Errors, EvalErrorData{Line: e.Line, Col: e.Col, Message: e.Message})
		}
		return result
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	a.style = s
	result.Camera = s.Camera
	if a.dataset == nil {
		return result
	}
	return a.assemble(a.dataset, result)
}

// LoadMap parses a GeoJSON FeatureCollection and builds its region meshes
// with the current style. The previous map, if any, is replaced.
func (a *App) LoadMap(data string) MapResult {
	result := newMapResult()

	ds, err := geo.Parse([]byte(data), a.log)
	if err != nil {
		a.log.Error(err, "map load failed")
		result.Errors = append(result.Errors, EvalErrorData{Message: err.Error()})
		return result
	}
	for _, w := range geo.Validate(ds) {
		result.Warnings = append(result.Warnings, EvalErrorData{Message: w.String()})
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	a.dataset = ds
	result.Camera = a.style.Camera
	return a.assemble(ds, result)
}

// assemble builds ds into a new session. Callers hold a.mu.
func (a *App) assemble(ds *geo.Dataset, result MapResult) MapResult {
	st := a.style
	cfg := st.ProjectionFor(ds.Min, ds.Max)
	opts := append(st.BuilderOptions(), tessellate.WithLogger(a.log))
	b := tessellate.NewBuilder(projection.New(cfg), a.kernel, opts...)

	coll, err := tessellate.Assemble(ds.Features, b)
	if err != nil {
		a.log.Error(err, "map assembly failed")
		result.Errors = append(result.Errors, EvalErrorData{Message: err.Error()})
		return result
	}

	if a.session != nil {
		a.session.Close()
	}
	a.tooltip.reset()
	hc := highlight.New(coll, a.tooltip, st.Highlight, highlight.WithLogger(a.log))
	a.session = interact.NewSession(coll, hc, a.log)

	if !ds.Empty() {
		result.Bounds = &[2][2]float64{ds.Min, ds.Max}
	}
	for _, r := range coll.Regions {
		result.Regions = append(result.Regions, RegionData{Index: r.Index, Name: r.Name(), Properties: r.Metadata})
	}
	for _, m := range coll.Meshes {
		result.Meshes = append(result.Meshes, meshData(coll, m))
	}
	return result
}

func newMapResult() MapResult {
	return MapResult{
		Meshes:   []MeshData{},
		Regions:  []RegionData{},
		Camera:   style.Default().Camera,
		Errors:   []EvalErrorData{},
		Warnings: []EvalErrorData{},
	}
}

func meshData(coll *scene.Collection, m *scene.RegionMesh) MeshData {
	md := MeshData{
		Index:    m.Index,
		Region:   m.Region,
		Name:     coll.Regions[m.Region].Name(),
		Vertices: m.Solid.Vertices,
		Normals:  m.Solid.Normals,
		Indices:  m.Solid.Indices,
		Pickable: m.Eligible(),
	}
	for _, g := range m.Solid.Groups {
		md.Groups = append(md.Groups, GroupData{Start: g.Start, Count: g.Count, MaterialIndex: g.MaterialIndex})
	}
	for _, mat := range m.Materials {
		md.Materials = append(md.Materials, MaterialData{Color: mat.Color.Hex(), Opacity: mat.Opacity, Transparent: mat.Transparent})
	}
	if m.Outline != nil {
		md.OutlineColor = m.Outline.Color.Hex()
		for _, ring := range m.Outline.Rings {
			flat := make([]float32, 0, len(ring)*3)
			for _, p := range ring {
				flat = append(flat, float32(p.X), float32(p.Y), float32(p.Z))
			}
			md.Outline = append(md.Outline, flat)
		}
	}
	return md
}

// PointerMove records the pointer at pixel (x, y) in a width by height
// viewport. It never blocks on the frame loop.
func (a *App) PointerMove(x, y, width, height float64) {
	if s := a.currentSession(); s != nil {
		s.Pointer.Move(x, y, width, height)
	}
}

// PointerLeave records that the pointer left the viewport.
func (a *App) PointerLeave() {
	if s := a.currentSession(); s != nil {
		s.Pointer.Clear()
	}
}

func (a *App) currentSession() *interact.Session {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.session
}

// Frame runs one pick and highlight cycle with the frontend's camera and
// returns the color and tooltip changes to apply.
func (a *App) Frame(c CameraData) FrameData {
	out := FrameData{Changed: []ColorUpdate{}}

	a.mu.Lock()
	defer a.mu.Unlock()
	if a.session == nil {
		return out
	}

	aspect := 1.0
	if c.Width > 0 && c.Height > 0 {
		aspect = c.Width / c.Height
	}
	cam := a.style.NewCamera(aspect)
	if c.Position != nil {
		cam.Position = vec(*c.Position)
	}
	if c.Target != nil {
		cam.Target = vec(*c.Target)
	}
	if c.Up != nil {
		cam.Up = vec(*c.Up)
	}

	r := a.session.Frame(cam)
	for _, m := range r.Changed {
		fc := m.FaceColors()
		out.Changed = append(out.Changed, ColorUpdate{
			Index:  m.Index,
			Colors: [2]string{fc[scene.FaceTop].Hex(), fc[scene.FaceSide].Hex()},
		})
	}
	if r.Hit != nil {
		if m, ok := r.Hit.Mesh.(*scene.RegionMesh); ok {
			idx := m.Index
			out.Hit = &idx
		}
	}
	left, top := r.TooltipPosition()
	out.Tooltip = a.tooltip.flush(left, top)
	return out
}
