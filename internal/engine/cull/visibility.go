package cull

import "github.com/Faultbox/viscull/pkg/math"

// CameraState is the per-frame camera snapshot consumed by Update. The
// culling core is decoupled from any renderer's camera type; collaborators
// assemble this from whatever camera they drive.
type CameraState struct {
	Position   math.Vec3
	Projection math.Mat4
	View       math.Mat4

	// FOVY is the vertical field of view in radians.
	FOVY float32

	// ViewportHeight is the render target height in pixels.
	ViewportHeight float32
}

// testVisibility applies the distance, frustum, and pixel-size filters to
// one object. The three tests are independent exclusion filters; ordering
// is cheapest-first.
//
// Both effective thresholds divide by aggressiveness, which tightens
// distance culling (smaller allowed distance) while loosening pixel-size
// culling (smaller required size) as aggressiveness rises. The asymmetry
// is long-standing observed behavior that callers tune against, so it is
// kept as-is.
func (s *System) testVisibility(r *registered, cam *CameraState, aggressiveness float32) bool {
	if r.alwaysVisible || !r.opts.CullingEnabled {
		return true
	}
	if !r.hasBounds {
		// Nothing to cull against; degrade to visible.
		return true
	}

	dist := cam.Position.Distance(r.bounds.Center)

	if s.cfg.DistanceCulling {
		maxDist := r.opts.MaxDistance
		if maxDist <= 0 {
			maxDist = s.cfg.MaxDistance
		}
		if dist > maxDist/aggressiveness {
			return false
		}
	}

	if !s.frustum.ContainsSphere(r.bounds) {
		return false
	}

	if s.cfg.CullSmallObjects && dist > 0 && cam.FOVY > 0 && cam.ViewportHeight > 0 {
		minPixel := r.opts.MinPixelSize
		if minPixel <= 0 {
			minPixel = s.cfg.MinPixelSize
		}
		importance := r.opts.Importance
		if importance <= 0 {
			importance = 1
		}

		angular := 2 * r.bounds.Radius / dist
		pixels := angular / cam.FOVY * cam.ViewportHeight
		if pixels < minPixel/(aggressiveness*importance) {
			return false
		}
	}

	return true
}
