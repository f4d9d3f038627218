// Package picking provides ray casting utilities. The benchmark's scene
// intersector is built on these for the occlusion culling pass.
package picking

import (
	gomath "math"

	"github.com/Faultbox/viscull/pkg/math"
)

// Ray represents a ray in 3D space with origin and normalized direction.
type Ray struct {
	Origin    math.Vec3
	Direction math.Vec3
}

// NewRay returns a ray from origin toward target.
func NewRay(origin, target math.Vec3) Ray {
	return Ray{
		Origin:    origin,
		Direction: target.Sub(origin).Normalize(),
	}
}

// IntersectSphere returns the distance to the nearest intersection with a
// sphere, if any. A ray starting inside the sphere hits at the exit point.
func (r Ray) IntersectSphere(center math.Vec3, radius float32) (t float32, hit bool) {
	oc := r.Origin.Sub(center)
	b := oc.Dot(r.Direction)
	c := oc.Dot(oc) - radius*radius

	disc := b*b - c
	if disc < 0 {
		return 0, false
	}
	sq := float32(gomath.Sqrt(float64(disc)))

	if t0 := -b - sq; t0 >= 0 {
		return t0, true
	}
	if t1 := -b + sq; t1 >= 0 {
		return t1, true
	}
	return 0, false
}

// IntersectAABB tests ray intersection with an axis-aligned bounding box
// using the slab method. Returns the distance to intersection and whether
// one occurred. A ray starting inside the box returns the exit distance.
func (r Ray) IntersectAABB(boxMin, boxMax math.Vec3) (t float32, hit bool) {
	tmin := float32(-gomath.MaxFloat32)
	tmax := float32(gomath.MaxFloat32)

	origin := [3]float32{r.Origin.X, r.Origin.Y, r.Origin.Z}
	dir := [3]float32{r.Direction.X, r.Direction.Y, r.Direction.Z}
	lo := [3]float32{boxMin.X, boxMin.Y, boxMin.Z}
	hi := [3]float32{boxMax.X, boxMax.Y, boxMax.Z}

	for axis := 0; axis < 3; axis++ {
		if dir[axis] != 0 {
			t1 := (lo[axis] - origin[axis]) / dir[axis]
			t2 := (hi[axis] - origin[axis]) / dir[axis]
			if t1 > t2 {
				t1, t2 = t2, t1
			}
			if t1 > tmin {
				tmin = t1
			}
			if t2 < tmax {
				tmax = t2
			}
		} else if origin[axis] < lo[axis] || origin[axis] > hi[axis] {
			return 0, false
		}
	}

	if tmax < tmin || tmax < 0 {
		return 0, false
	}

	// Return entry point, or exit point if starting inside
	if tmin < 0 {
		return tmax, true
	}
	return tmin, true
}
