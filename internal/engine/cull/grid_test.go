package cull

import (
	"math/rand"
	"testing"

	"github.com/Faultbox/viscull/pkg/math"
)

// checkGridConsistency verifies the bidirectional invariant: an object's
// recorded cell list matches exactly the set of cells whose member set
// contains it.
func checkGridConsistency(t *testing.T, g *SpatialGrid) {
	t.Helper()

	for h, coords := range g.objectCells {
		seen := make(map[CellCoord]bool, len(coords))
		for _, c := range coords {
			if seen[c] {
				t.Fatalf("object %d recorded twice for cell %+v", h, c)
			}
			seen[c] = true
			if _, ok := g.cells[c][h]; !ok {
				t.Fatalf("object %d records cell %+v but the cell does not contain it", h, c)
			}
		}
	}
	for c, set := range g.cells {
		if len(set) == 0 {
			t.Fatalf("empty cell %+v was not deleted", c)
		}
		for h := range set {
			found := false
			for _, rc := range g.objectCells[h] {
				if rc == c {
					found = true
					break
				}
			}
			if !found {
				t.Fatalf("cell %+v contains object %d but the object does not record it", c, h)
			}
		}
	}
}

func TestGridSingleCellOccupancy(t *testing.T) {
	g := NewSpatialGrid(100)

	// 250±10 stays within [200, 300) on every axis, so exactly one cell.
	g.Insert(1, Sphere{Center: math.Vec3{X: 250, Y: 250, Z: 250}, Radius: 10})

	if got := g.CellCount(); got != 1 {
		t.Fatalf("CellCount() = %d, want 1", got)
	}
	want := CellCoord{X: 2, Y: 2, Z: 2}
	if _, ok := g.cells[want][1]; !ok {
		t.Errorf("object should occupy cell %+v, recorded cells: %v", want, g.objectCells[1])
	}
	checkGridConsistency(t, g)
}

func TestGridBoundaryStraddle(t *testing.T) {
	g := NewSpatialGrid(100)

	// y=0 with radius 10 spans [-10, 10], straddling cells -1 and 0.
	g.Insert(1, Sphere{Center: math.Vec3{X: 250, Y: 0, Z: 250}, Radius: 10})

	if got := g.CellCount(); got != 2 {
		t.Fatalf("CellCount() = %d, want 2 (y straddles a cell boundary)", got)
	}
	for _, want := range []CellCoord{{2, -1, 2}, {2, 0, 2}} {
		if _, ok := g.cells[want][1]; !ok {
			t.Errorf("object should occupy cell %+v", want)
		}
	}
	checkGridConsistency(t, g)
}

func TestGridCellAtNegative(t *testing.T) {
	g := NewSpatialGrid(100)

	got := g.CellAt(math.Vec3{X: -1, Y: -100, Z: -101})
	want := CellCoord{X: -1, Y: -1, Z: -2}
	if got != want {
		t.Errorf("CellAt(-1,-100,-101) = %+v, want %+v", got, want)
	}
}

func TestGridRemoveDeletesEmptyCells(t *testing.T) {
	g := NewSpatialGrid(50)

	g.Insert(1, Sphere{Center: math.Vec3{X: 25, Y: 25, Z: 25}, Radius: 10})
	g.Insert(2, Sphere{Center: math.Vec3{X: 25, Y: 25, Z: 25}, Radius: 60})

	g.Remove(1)
	checkGridConsistency(t, g)
	g.Remove(2)

	if g.CellCount() != 0 {
		t.Errorf("CellCount() = %d after removing everything, want 0", g.CellCount())
	}
	if g.Len() != 0 {
		t.Errorf("Len() = %d after removing everything, want 0", g.Len())
	}
}

func TestGridRemoveUnknownIsNoop(t *testing.T) {
	g := NewSpatialGrid(100)
	g.Insert(1, Sphere{Center: math.Vec3{X: 50, Y: 50, Z: 50}, Radius: 5})

	g.Remove(99)

	if g.Len() != 1 || g.CellCount() != 1 {
		t.Error("removing an unknown handle should not disturb the grid")
	}
}

func TestGridReinsertReplacesStaleCells(t *testing.T) {
	g := NewSpatialGrid(100)

	g.Insert(1, Sphere{Center: math.Vec3{X: 50, Y: 50, Z: 50}, Radius: 5})
	g.Insert(1, Sphere{Center: math.Vec3{X: 950, Y: 50, Z: 50}, Radius: 5})

	if g.Len() != 1 {
		t.Fatalf("Len() = %d, want 1 after re-insert", g.Len())
	}
	stale := CellCoord{X: 0, Y: 0, Z: 0}
	if _, ok := g.cells[stale]; ok {
		t.Error("stale cell entry survived a re-insert")
	}
	fresh := CellCoord{X: 9, Y: 0, Z: 0}
	if _, ok := g.cells[fresh][1]; !ok {
		t.Error("re-inserted object missing from its new cell")
	}
	checkGridConsistency(t, g)
}

// TestGridInsertRemoveProperty drives a random insert/remove sequence and
// checks the consistency invariant throughout.
func TestGridInsertRemoveProperty(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	g := NewSpatialGrid(75)

	live := make(map[Handle]bool)
	for i := 0; i < 300; i++ {
		h := Handle(rng.Intn(40))
		if live[h] && rng.Float32() < 0.4 {
			g.Remove(h)
			delete(live, h)
		} else {
			g.Insert(h, Sphere{
				Center: math.Vec3{
					X: (rng.Float32()*2 - 1) * 1000,
					Y: (rng.Float32()*2 - 1) * 1000,
					Z: (rng.Float32()*2 - 1) * 1000,
				},
				Radius: 1 + rng.Float32()*150,
			})
			live[h] = true
		}
		checkGridConsistency(t, g)
	}

	if g.Len() != len(live) {
		t.Fatalf("Len() = %d, want %d", g.Len(), len(live))
	}
	for h := range live {
		g.Remove(h)
	}
	if g.CellCount() != 0 {
		t.Errorf("CellCount() = %d after removing all objects, want 0", g.CellCount())
	}
}

// TestGridQuerySoundness: every object whose sphere intersects the
// frustum must appear in the query result. The query may over-return.
func TestGridQuerySoundness(t *testing.T) {
	rng := rand.New(rand.NewSource(5))
	g := NewSpatialGrid(100)
	cam := lookDownZCamera(math.Vec3{})
	f := frustumFor(cam)

	spheres := make(map[Handle]Sphere)
	for h := Handle(1); h <= 400; h++ {
		s := Sphere{
			Center: math.Vec3{
				X: (rng.Float32()*2 - 1) * 3000,
				Y: (rng.Float32()*2 - 1) * 3000,
				Z: (rng.Float32()*2 - 1) * 3000,
			},
			Radius: 1 + rng.Float32()*50,
		}
		spheres[h] = s
		g.Insert(h, s)
	}

	result := g.Query(&f, 10000)
	for h, s := range spheres {
		if !f.ContainsSphere(s) {
			continue
		}
		if _, ok := result[h]; !ok {
			t.Errorf("object %d intersects the frustum but the query missed it (sphere %+v)", h, s)
		}
	}
}

func TestGridQueryExcludesFarCells(t *testing.T) {
	g := NewSpatialGrid(100)
	cam := lookDownZCamera(math.Vec3{})
	f := frustumFor(cam)

	g.Insert(1, Sphere{Center: math.Vec3{Z: -200}, Radius: 10}) // in view
	g.Insert(2, Sphere{Center: math.Vec3{Z: 500}, Radius: 10})  // behind camera

	result := g.Query(&f, 10000)
	if _, ok := result[1]; !ok {
		t.Error("object in front of the camera missing from the query")
	}
	if _, ok := result[2]; ok {
		t.Error("object behind the camera should be outside the query's depth range")
	}
}
