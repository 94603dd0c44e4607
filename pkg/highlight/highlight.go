// Package highlight tracks which region mesh is under the pointer, paints
// it with the highlight color, restores it when the pointer moves away, and
// keeps an external info display in step.
package highlight

import (
	"fmt"

	"github.com/chazu/relief/pkg/scene"
	"github.com/go-logr/logr"
)

// InfoDisplay is the text surface that shows the hovered region's name.
type InfoDisplay interface {
	SetText(text string)
	SetVisible(visible bool)
}

// State is the controller state: Idle or Highlighted.
type State interface {
	state()
}

// Idle means no mesh is highlighted.
type Idle struct{}

// Highlighted means Mesh carries the highlight color. Saved holds the face
// colors it had before.
type Highlighted struct {
	Mesh  scene.Pickable
	Saved scene.FaceColors
}

func (Idle) state()        {}
func (Highlighted) state() {}

// Option configures a Controller.
type Option func(*Controller)

// WithLogger sets the logger. The default discards.
func WithLogger(l logr.Logger) Option {
	return func(c *Controller) { c.log = l }
}

// WithLabel sets the function that turns a region into display text. The
// default is the region's name.
func WithLabel(fn func(*scene.Region) string) Option {
	return func(c *Controller) { c.label = fn }
}

// Controller is the highlight state machine. It is not safe for concurrent
// use; call it from the frame loop only.
type Controller struct {
	coll    *scene.Collection
	display InfoDisplay
	color   scene.Color
	label   func(*scene.Region) string
	log     logr.Logger

	state State
}

// New returns an Idle controller for the meshes of coll.
func New(coll *scene.Collection, display InfoDisplay, color scene.Color, opts ...Option) *Controller {
	c := &Controller{
		coll:    coll,
		display: display,
		color:   color,
		label:   (*scene.Region).Name,
		log:     logr.Discard(),
		state:   Idle{},
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// State returns the current state.
func (c *Controller) State() State {
	return c.state
}

// Current returns the highlighted mesh, or nil when Idle.
func (c *Controller) Current() scene.Pickable {
	if h, ok := c.state.(Highlighted); ok {
		return h.Mesh
	}
	return nil
}

// Update advances the machine with this frame's pick. A nil target means
// nothing is under the pointer. An ineligible target is treated as nil.
// Restoring the old mesh and highlighting the new one happen in the same
// call, so no frame observes both or neither.
func (c *Controller) Update(target scene.Pickable) State {
	if target != nil && !target.Eligible() {
		c.log.Error(fmt.Errorf("highlight: mesh of region %d is not pickable", target.RegionIndex()),
			"ignoring pick")
		target = nil
	}

	switch s := c.state.(type) {
	case Idle:
		if target == nil {
			c.display.SetVisible(false)
			return c.state
		}
		c.apply(target)

	case Highlighted:
		switch {
		case target == nil:
			c.restore(s)
			c.display.SetVisible(false)
			c.state = Idle{}
			c.log.V(1).Info("highlight cleared", "region", s.Mesh.RegionIndex())
		case target == s.Mesh:
			// already highlighted
		default:
			c.restore(s)
			c.apply(target)
		}

	default:
		panic(fmt.Sprintf("highlight: unknown state %T", s))
	}
	return c.state
}

// Reset restores any highlighted mesh, hides the display and returns to
// Idle.
func (c *Controller) Reset() {
	if h, ok := c.state.(Highlighted); ok {
		c.restore(h)
	}
	c.display.SetVisible(false)
	c.state = Idle{}
}

func (c *Controller) apply(m scene.Pickable) {
	h := Highlighted{Mesh: m, Saved: m.FaceColors()}
	m.SetFaceColors(scene.Uniform(c.color))
	text := ""
	if r := c.coll.RegionOf(m); r != nil {
		text = c.label(r)
	}
	c.display.SetText(text)
	c.display.SetVisible(true)
	c.state = h
	c.log.V(1).Info("highlight", "region", m.RegionIndex(), "text", text)
}

func (c *Controller) restore(h Highlighted) {
	h.Mesh.SetFaceColors(h.Saved)
}
