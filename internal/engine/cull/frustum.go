package cull

import (
	gomath "math"

	"github.com/Faultbox/viscull/pkg/math"
)

// Plane represents a half-space: points p with Normal·p + D >= 0 are inside.
type Plane struct {
	Normal math.Vec3
	D      float32
}

// DistanceTo returns the signed distance from the plane to a point.
func (p Plane) DistanceTo(pt math.Vec3) float32 {
	return p.Normal.Dot(pt) + p.D
}

// Frustum plane indices.
const (
	PlaneLeft = iota
	PlaneRight
	PlaneBottom
	PlaneTop
	PlaneNear
	PlaneFar
)

// Frustum holds the six planes of a view frustum, normals pointing inward.
// Rebuilt once per frame and read-only for the rest of the culling pass.
type Frustum struct {
	Planes [6]Plane
}

// FrustumFromMatrix extracts frustum planes from a combined
// projection*view matrix using the Gribb/Hartmann method.
// All planes are normalized.
func FrustumFromMatrix(viewProj math.Mat4) Frustum {
	r0 := viewProj.Row(0)
	r1 := viewProj.Row(1)
	r2 := viewProj.Row(2)
	r3 := viewProj.Row(3)

	var f Frustum
	f.Planes[PlaneLeft] = planeFromRow(add4(r3, r0))
	f.Planes[PlaneRight] = planeFromRow(sub4(r3, r0))
	f.Planes[PlaneBottom] = planeFromRow(add4(r3, r1))
	f.Planes[PlaneTop] = planeFromRow(sub4(r3, r1))
	f.Planes[PlaneNear] = planeFromRow(add4(r3, r2))
	f.Planes[PlaneFar] = planeFromRow(sub4(r3, r2))
	return f
}

// ContainsSphere reports whether the sphere intersects the frustum.
// The sphere is visible unless some plane puts it entirely outside,
// i.e. its center lies farther than radius behind that plane.
func (f *Frustum) ContainsSphere(s Sphere) bool {
	for i := range f.Planes {
		if f.Planes[i].DistanceTo(s.Center) < -s.Radius {
			return false
		}
	}
	return true
}

// ContainsPoint reports whether a point lies inside all six planes.
func (f *Frustum) ContainsPoint(p math.Vec3) bool {
	for i := range f.Planes {
		if f.Planes[i].DistanceTo(p) < 0 {
			return false
		}
	}
	return true
}

// axisDominance is the minimum normal component magnitude for a plane to
// bound an axis of the approximate box (alignment tolerance 0.1).
const axisDominance = 0.9

// ApproxAABB computes a conservative axis-aligned box around the frustum
// by inspecting planes whose normal is dominantly aligned with one axis.
// Axes no plane bounds default to the world extent, so the box only ever
// over-includes. The grid uses this as a pre-filter; exact frustum-sphere
// testing happens per object afterward.
func (f *Frustum) ApproxAABB(extent float32) AABB {
	inf := float32(gomath.Inf(1))
	lo := [3]float32{inf, inf, inf}
	hi := [3]float32{-inf, -inf, -inf}

	for _, p := range f.Planes {
		normal := [3]float32{p.Normal.X, p.Normal.Y, p.Normal.Z}
		for axis, n := range normal {
			// Inside means n*x + ... + D >= 0. For an axis-dominant
			// normal that is approximately a one-sided bound on x.
			switch {
			case n > axisDominance:
				if b := -p.D / n; b < lo[axis] {
					lo[axis] = b
				}
			case n < -axisDominance:
				if b := -p.D / n; b > hi[axis] {
					hi[axis] = b
				}
			}
		}
	}

	for axis := 0; axis < 3; axis++ {
		if lo[axis] == inf || lo[axis] < -extent {
			lo[axis] = -extent
		}
		if hi[axis] == -inf || hi[axis] > extent {
			hi[axis] = extent
		}
		if lo[axis] > hi[axis] {
			// Conflicting near-dominant planes; fall back to unbounded.
			lo[axis], hi[axis] = -extent, extent
		}
	}

	return AABB{
		Min: math.Vec3{X: lo[0], Y: lo[1], Z: lo[2]},
		Max: math.Vec3{X: hi[0], Y: hi[1], Z: hi[2]},
	}
}

func planeFromRow(v math.Vec4) Plane {
	p := Plane{
		Normal: math.Vec3{X: v[0], Y: v[1], Z: v[2]},
		D:      v[3],
	}
	l := p.Normal.Length()
	if l > 0 {
		p.Normal = p.Normal.Scale(1 / l)
		p.D /= l
	}
	return p
}

func add4(a, b math.Vec4) math.Vec4 {
	return math.Vec4{a[0] + b[0], a[1] + b[1], a[2] + b[2], a[3] + b[3]}
}

func sub4(a, b math.Vec4) math.Vec4 {
	return math.Vec4{a[0] - b[0], a[1] - b[1], a[2] - b[2], a[3] - b[3]}
}
