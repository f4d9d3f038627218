package cull

import (
	"testing"

	"github.com/Faultbox/viscull/pkg/math"
)

func TestComputeBoundsDirectGeometry(t *testing.T) {
	obj := &testObject{
		position: math.Vec3{X: 10, Y: 20, Z: 30},
		scale:    math.Vec3{X: 2, Y: 2, Z: 2},
		radius:   2,
		hasLocal: true,
	}

	s, ok := ComputeBounds(obj, 1.1)
	if !ok {
		t.Fatal("ComputeBounds returned no bounds for an object with geometry")
	}
	want := obj.position
	if s.Center != want {
		t.Errorf("center = %+v, want %+v", s.Center, want)
	}
	// radius 2, max scale axis 2, expansion 1.1
	if got, wantR := s.Radius, float32(4.4); !near(got, wantR, 1e-5) {
		t.Errorf("radius = %v, want %v", got, wantR)
	}
}

func TestComputeBoundsOffsetLocalCenter(t *testing.T) {
	obj := &testObject{
		position:    math.Vec3{X: 100},
		scale:       math.Vec3{X: 2, Y: 1, Z: 1},
		radius:      1,
		localCenter: math.Vec3{X: 5, Y: 3, Z: 0},
		hasLocal:    true,
	}

	s, ok := ComputeBounds(obj, 1)
	if !ok {
		t.Fatal("ComputeBounds returned no bounds")
	}
	// Local center scales componentwise before translating.
	want := math.Vec3{X: 110, Y: 3, Z: 0}
	if s.Center != want {
		t.Errorf("center = %+v, want %+v", s.Center, want)
	}
	if !near(s.Radius, 2, 1e-5) {
		t.Errorf("radius = %v, want 2 (largest scale axis)", s.Radius)
	}
}

func TestComputeBoundsNegativeScale(t *testing.T) {
	obj := &testObject{
		scale:    math.Vec3{X: -3, Y: 1, Z: 1},
		radius:   1,
		hasLocal: true,
	}

	s, ok := ComputeBounds(obj, 1)
	if !ok {
		t.Fatal("ComputeBounds returned no bounds")
	}
	if !near(s.Radius, 3, 1e-5) {
		t.Errorf("radius = %v, want 3 (mirrored scale must not shrink the sphere)", s.Radius)
	}
}

func TestComputeBoundsChildrenUnion(t *testing.T) {
	parent := &testObject{
		scale: math.Vec3{X: 1, Y: 1, Z: 1},
		children: []Object{
			&testObject{
				position: math.Vec3{X: -10},
				scale:    math.Vec3{X: 1, Y: 1, Z: 1},
				radius:   2,
				hasLocal: true,
			},
			&testObject{
				position: math.Vec3{X: 10},
				scale:    math.Vec3{X: 1, Y: 1, Z: 1},
				radius:   2,
				hasLocal: true,
			},
		},
	}

	s, ok := ComputeBounds(parent, 1)
	if !ok {
		t.Fatal("ComputeBounds returned no bounds for a container with bounded children")
	}
	if s.Center != (math.Vec3{}) {
		t.Errorf("center = %+v, want origin", s.Center)
	}
	// Children's box spans x in [-12, 12], y and z in [-2, 2]. The sphere
	// enclosing that box has radius |(12, 2, 2)|.
	wantR := math.Vec3{X: 12, Y: 2, Z: 2}.Length()
	if !near(s.Radius, wantR, 1e-4) {
		t.Errorf("radius = %v, want %v", s.Radius, wantR)
	}

	// Both children must be inside the parent's sphere.
	for _, child := range parent.children {
		cs, _ := ComputeBounds(child, 1)
		if cs.Center.Distance(s.Center)+cs.Radius > s.Radius+1e-4 {
			t.Errorf("child sphere %+v escapes parent sphere %+v", cs, s)
		}
	}
}

func TestComputeBoundsSkipsUnboundedChildren(t *testing.T) {
	parent := &testObject{
		scale: math.Vec3{X: 1, Y: 1, Z: 1},
		children: []Object{
			&testObject{scale: math.Vec3{X: 1, Y: 1, Z: 1}}, // no geometry
			&testObject{
				position: math.Vec3{X: 5},
				scale:    math.Vec3{X: 1, Y: 1, Z: 1},
				radius:   1,
				hasLocal: true,
			},
		},
	}

	s, ok := ComputeBounds(parent, 1)
	if !ok {
		t.Fatal("ComputeBounds should bound the one child that has geometry")
	}
	if s.Center != (math.Vec3{X: 5}) {
		t.Errorf("center = %+v, want {5 0 0}", s.Center)
	}
}

func TestComputeBoundsNothingToBound(t *testing.T) {
	obj := &testObject{scale: math.Vec3{X: 1, Y: 1, Z: 1}}

	if _, ok := ComputeBounds(obj, 1.1); ok {
		t.Error("object with neither geometry nor children should have no bounds")
	}
}

func TestAABBUnionAndEnclosingSphere(t *testing.T) {
	a := AABB{Min: math.Vec3{X: -1, Y: -1, Z: -1}, Max: math.Vec3{X: 1, Y: 1, Z: 1}}
	b := AABB{Min: math.Vec3{X: 2, Y: 0, Z: 0}, Max: math.Vec3{X: 4, Y: 2, Z: 2}}

	u := a.Union(b)
	if u.Min != (math.Vec3{X: -1, Y: -1, Z: -1}) || u.Max != (math.Vec3{X: 4, Y: 2, Z: 2}) {
		t.Fatalf("Union = %+v", u)
	}

	s := u.EnclosingSphere()
	wantCenter := math.Vec3{X: 1.5, Y: 0.5, Z: 0.5}
	if s.Center != wantCenter {
		t.Errorf("sphere center = %+v, want %+v", s.Center, wantCenter)
	}
	wantR := u.Max.Sub(wantCenter).Length()
	if !near(s.Radius, wantR, 1e-5) {
		t.Errorf("sphere radius = %v, want %v", s.Radius, wantR)
	}
}

func near(got, want, eps float32) bool {
	d := got - want
	if d < 0 {
		d = -d
	}
	return d <= eps
}
