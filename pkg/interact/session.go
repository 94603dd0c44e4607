package interact

import (
	"context"

	"github.com/chazu/relief/pkg/highlight"
	"github.com/chazu/relief/pkg/picking"
	"github.com/chazu/relief/pkg/scene"
	"github.com/go-logr/logr"
)

// TooltipOffset is the pixel offset of the info display from the pointer.
const TooltipOffset = 2.0

// FrameResult reports what one frame did.
type FrameResult struct {
	Hit     *picking.Result
	State   highlight.State
	Pointer Pointer
	// Changed lists the meshes whose face colors changed this frame.
	Changed []*scene.RegionMesh
}

// TooltipPosition returns where the host should place the info display.
func (r FrameResult) TooltipPosition() (left, top float64) {
	return r.Pointer.X + TooltipOffset, r.Pointer.Y + TooltipOffset
}

// Session ties a collection, its highlight controller and the pointer cell
// together.
type Session struct {
	Pointer *PointerCell

	coll  *scene.Collection
	hc    *highlight.Controller
	log   logr.Logger
	frame uint64
}

// NewSession returns a session over coll driving hc.
func NewSession(coll *scene.Collection, hc *highlight.Controller, log logr.Logger) *Session {
	return &Session{
		Pointer: NewPointerCell(),
		coll:    coll,
		hc:      hc,
		log:     log,
	}
}

// Collection returns the session's map.
func (s *Session) Collection() *scene.Collection {
	return s.coll
}

// Frame runs one pick and highlight cycle against the newest pointer
// sample. An absent pointer picks nothing.
func (s *Session) Frame(cam picking.Camera) FrameResult {
	s.frame++
	p := s.Pointer.Load()

	var hit *picking.Result
	var target scene.Pickable
	if p.Present {
		hit = picking.Pick(p.NDC, cam, s.coll)
		if hit != nil {
			target = hit.Mesh
		}
	}
	st := s.hc.Update(target)
	changed := s.coll.TakeDirty()
	if len(changed) > 0 {
		s.log.V(1).Info("frame", "frame", s.frame, "changed", len(changed))
	}
	return FrameResult{Hit: hit, State: st, Pointer: p, Changed: changed}
}

// Run calls Frame for every camera received on frames until ctx is done or
// frames is closed. Each result is passed to emit when it is non-nil. A
// frame in progress always completes.
func (s *Session) Run(ctx context.Context, frames <-chan picking.Camera, emit func(FrameResult)) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case cam, ok := <-frames:
			if !ok {
				return nil
			}
			r := s.Frame(cam)
			if emit != nil {
				emit(r)
			}
		}
	}
}

// Close restores any highlighted mesh and returns the meshes it repainted.
func (s *Session) Close() []*scene.RegionMesh {
	s.hc.Reset()
	return s.coll.TakeDirty()
}
