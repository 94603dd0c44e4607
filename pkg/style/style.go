// Package style describes how a map looks: projection parameters,
// extrusion sizes, face colors and the camera. Styles are written in a
// small sandboxed Lisp and evaluated by Engine.
package style

import (
	"fmt"
	"math"

	"github.com/chazu/relief/pkg/picking"
	"github.com/chazu/relief/pkg/projection"
	"github.com/chazu/relief/pkg/scene"
	"github.com/chazu/relief/pkg/tessellate"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// CameraSpec holds the perspective camera parameters.
type CameraSpec struct {
	FOV      float64    `json:"fov"`
	Near     float64    `json:"near"`
	Far      float64    `json:"far"`
	Position [3]float64 `json:"position"`
}

// Style is the evaluated map style.
type Style struct {
	Projection projection.Config `json:"projection"`
	// FitToData recenters the projection on the dataset extent.
	FitToData bool `json:"fitToData"`

	Depth            float64 `json:"depth"`
	OutlineElevation float64 `json:"outlineElevation"`

	Top       scene.Color `json:"top"`
	Side      scene.Color `json:"side"`
	Highlight scene.Color `json:"highlight"`
	Outline   scene.Color `json:"outline"`

	TopOpacity  float64 `json:"topOpacity"`
	SideOpacity float64 `json:"sideOpacity"`

	Camera CameraSpec `json:"camera"`
}

// Default returns the built-in style.
func Default() *Style {
	return &Style{
		Projection:       projection.DefaultConfig(),
		Depth:            tessellate.DefaultDepth,
		OutlineElevation: tessellate.DefaultOutlineElevation,
		Top:              scene.DefaultTopColor,
		Side:             scene.DefaultSideColor,
		Highlight:        scene.DefaultHighlightColor,
		Outline:          scene.DefaultOutlineColor,
		TopOpacity:       scene.DefaultTopOpacity,
		SideOpacity:      scene.DefaultSideOpacity,
		Camera: CameraSpec{
			FOV:  picking.DefaultFOV,
			Near: picking.DefaultNear,
			Far:  picking.DefaultFar,
			Position: [3]float64{
				picking.DefaultPosition.X,
				picking.DefaultPosition.Y,
				picking.DefaultPosition.Z,
			},
		},
	}
}

// Validate reports the first out-of-range value.
func (s *Style) Validate() error {
	switch {
	case !positive(s.Projection.Scale):
		return fmt.Errorf("projection scale must be positive, got %v", s.Projection.Scale)
	case !positive(s.Depth):
		return fmt.Errorf("extrude depth must be positive, got %v", s.Depth)
	case math.IsNaN(s.OutlineElevation) || math.IsInf(s.OutlineElevation, 0):
		return fmt.Errorf("outline elevation must be finite, got %v", s.OutlineElevation)
	case s.TopOpacity < 0 || s.TopOpacity > 1 || s.SideOpacity < 0 || s.SideOpacity > 1:
		return fmt.Errorf("opacity must be within [0, 1], got top %v side %v", s.TopOpacity, s.SideOpacity)
	case s.Camera.FOV <= 0 || s.Camera.FOV >= 180:
		return fmt.Errorf("camera fov must be within (0, 180), got %v", s.Camera.FOV)
	case s.Camera.Near < 0 || s.Camera.Far <= s.Camera.Near:
		return fmt.Errorf("camera near/far must satisfy 0 <= near < far, got %v/%v", s.Camera.Near, s.Camera.Far)
	}
	return nil
}

func positive(v float64) bool {
	return v > 0 && !math.IsInf(v, 0)
}

// Materials returns the initial top and side materials.
func (s *Style) Materials() scene.Materials {
	return scene.Materials{
		scene.FaceTop:  {Color: s.Top, Opacity: s.TopOpacity, Transparent: s.TopOpacity < 1},
		scene.FaceSide: {Color: s.Side, Opacity: s.SideOpacity, Transparent: s.SideOpacity < 1},
	}
}

// BuilderOptions returns the tessellate options the style implies.
func (s *Style) BuilderOptions() []tessellate.Option {
	return []tessellate.Option{
		tessellate.WithDepth(s.Depth),
		tessellate.WithOutlineElevation(s.OutlineElevation),
		tessellate.WithMaterials(s.Materials()),
		tessellate.WithOutlineColor(s.Outline),
	}
}

// ProjectionFor returns the projection config for a dataset extent. With
// FitToData set the center moves to the middle of the extent.
func (s *Style) ProjectionFor(min, max [2]float64) projection.Config {
	if !s.FitToData {
		return s.Projection
	}
	return projection.FitCenter(s.Projection, min, max)
}

// NewCamera returns the style's camera for a viewport aspect ratio.
func (s *Style) NewCamera(aspect float64) picking.Camera {
	cam := picking.NewPerspective(aspect)
	cam.FOV = s.Camera.FOV
	cam.Near = s.Camera.Near
	cam.Far = s.Camera.Far
	cam.Position = v3.Vec{X: s.Camera.Position[0], Y: s.Camera.Position[1], Z: s.Camera.Position[2]}
	return cam
}
