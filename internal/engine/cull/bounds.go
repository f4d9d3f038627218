package cull

import "github.com/Faultbox/viscull/pkg/math"

// Sphere is a bounding sphere in world space.
type Sphere struct {
	Center math.Vec3
	Radius float32
}

// AABB returns the axis-aligned box enclosing the sphere.
func (s Sphere) AABB() AABB {
	r := math.Vec3{X: s.Radius, Y: s.Radius, Z: s.Radius}
	return AABB{Min: s.Center.Sub(r), Max: s.Center.Add(r)}
}

// AABB is an axis-aligned bounding box.
type AABB struct {
	Min, Max math.Vec3
}

// Union returns the smallest box enclosing both b and o.
func (b AABB) Union(o AABB) AABB {
	return AABB{Min: math.Min(b.Min, o.Min), Max: math.Max(b.Max, o.Max)}
}

// Center returns the box midpoint.
func (b AABB) Center() math.Vec3 {
	return b.Min.Add(b.Max).Scale(0.5)
}

// EnclosingSphere returns the smallest sphere containing the box.
func (b AABB) EnclosingSphere() Sphere {
	c := b.Center()
	return Sphere{Center: c, Radius: b.Max.Sub(c).Length()}
}

// ComputeBounds derives a world-space bounding sphere for obj.
//
// Objects with direct geometry get their local sphere transformed by the
// object's position and scale, with the radius scaled by the largest scale
// axis and expanded by the expansion factor as a safety margin against
// fast-moving or imprecise bounds. Container objects without geometry get
// the sphere enclosing the world-space box of all their children.
//
// Returns false when the object has neither geometry nor bounded children;
// such objects cannot be culled and callers must treat them as visible.
func ComputeBounds(obj Object, expansion float32) (Sphere, bool) {
	t := obj.Transform()

	if local, ok := obj.LocalSphere(); ok {
		center := t.Position.Add(local.Center.Mul(t.Scale))
		radius := local.Radius * t.Scale.Abs().MaxComponent() * expansion
		return Sphere{Center: center, Radius: radius}, true
	}

	var box AABB
	found := false
	for _, child := range obj.Children() {
		cs, ok := ComputeBounds(child, expansion)
		if !ok {
			continue
		}
		if !found {
			box = cs.AABB()
			found = true
		} else {
			box = box.Union(cs.AABB())
		}
	}
	if !found {
		return Sphere{}, false
	}
	return box.EnclosingSphere(), true
}
