// Package interact runs the per-frame pick and highlight cycle. Pointer
// input arrives on other goroutines through a last-write-wins cell; the
// frame loop reads it once per frame.
package interact

import (
	"github.com/chazu/relief/pkg/picking"
)

// Pointer is the latest pointer sample.
type Pointer struct {
	NDC picking.NDC
	// Pixel position, kept for tooltip placement.
	X, Y float64
	// Present is false once the pointer has left the viewport.
	Present bool
}

// PointerCell is a single-slot mailbox. Store replaces any unread value,
// Load returns the newest value seen so far. Store may be called from any
// goroutine; Load belongs to the frame loop.
type PointerCell struct {
	ch   chan Pointer
	last Pointer
}

// NewPointerCell returns an empty cell. Until the first Store, Load
// reports an absent pointer.
func NewPointerCell() *PointerCell {
	return &PointerCell{ch: make(chan Pointer, 1)}
}

// Store publishes p, dropping any value the frame loop has not read yet.
func (c *PointerCell) Store(p Pointer) {
	for {
		select {
		case c.ch <- p:
			return
		default:
		}
		// slot full: discard the stale value and retry
		select {
		case <-c.ch:
		default:
		}
	}
}

// Move stores a present pointer at pixel (x, y) in a width×height
// viewport. Samples from an empty viewport are dropped.
func (c *PointerCell) Move(x, y, width, height float64) {
	ndc, ok := picking.ToNDC(x, y, width, height)
	if !ok {
		return
	}
	c.Store(Pointer{NDC: ndc, X: x, Y: y, Present: true})
}

// Clear marks the pointer as gone.
func (c *PointerCell) Clear() {
	c.Store(Pointer{})
}

// Load returns the newest pointer sample.
func (c *PointerCell) Load() Pointer {
	select {
	case p := <-c.ch:
		c.last = p
	default:
	}
	return c.last
}
