package main

import (
	"context"

	v3 "github.com/deadsy/sdfx/vec/v3"
	"github.com/wailsapp/wails/v2/pkg/runtime"
)

// tooltipEvent is the runtime event the frontend listens on.
const tooltipEvent = "tooltip"

// tooltip is the info display behind the highlight controller. It records
// what the controller asked for and, once the Wails runtime is up, emits a
// tooltip event whenever that changes.
type tooltip struct {
	ctx     context.Context
	text    string
	visible bool
	changed bool
}

func (t *tooltip) SetText(text string) {
	if t.text != text {
		t.text = text
		t.changed = true
	}
}

func (t *tooltip) SetVisible(visible bool) {
	if t.visible != visible {
		t.visible = visible
		t.changed = true
	}
}

func (t *tooltip) reset() {
	t.text = ""
	t.visible = false
	t.changed = true
}

// flush returns the display state placed at (left, top) and emits it if it
// changed since the last flush.
func (t *tooltip) flush(left, top float64) TooltipData {
	d := TooltipData{Text: t.text, Visible: t.visible, Left: left, Top: top}
	if t.changed && t.ctx != nil {
		runtime.EventsEmit(t.ctx, tooltipEvent, d)
	}
	t.changed = false
	return d
}

func vec(a [3]float64) v3.Vec {
	return v3.Vec{X: a[0], Y: a[1], Z: a[2]}
}
