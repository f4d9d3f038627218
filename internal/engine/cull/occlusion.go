package cull

import "github.com/Faultbox/viscull/pkg/math"

// IntersectFunc is the scene raycast supplied by the renderer or physics
// layer when occlusion culling is enabled. It returns the distance to the
// nearest intersection along the ray within maxDist, and whether one was
// found. The culling core makes no assumption about the acceleration
// structure behind it.
type IntersectFunc func(origin, dir math.Vec3, maxDist float32) (float32, bool)

// isOccluded casts a single ray from the camera toward the sphere center.
// The object counts as occluded only when geometry sits unambiguously in
// front of it: the nearest hit must be strictly closer than the sphere's
// near surface. A single ray cannot prove visibility, so this pass only
// ever reduces the visible set.
func isOccluded(intersect IntersectFunc, camPos math.Vec3, s Sphere) bool {
	toCenter := s.Center.Sub(camPos)
	dist := toCenter.Length()
	if dist <= s.Radius {
		// Camera is inside the sphere.
		return false
	}

	hit, ok := intersect(camPos, toCenter.Scale(1/dist), dist)
	return ok && hit < dist-s.Radius
}
