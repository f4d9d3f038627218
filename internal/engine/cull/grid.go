package cull

import (
	gomath "math"

	"github.com/Faultbox/viscull/pkg/math"
)

// CellCoord identifies one cubic cell of the spatial grid.
type CellCoord struct {
	X, Y, Z int32
}

// SpatialGrid partitions 3D space into fixed-size cubic cells and indexes
// static objects by the cells their bounding sphere overlaps. Cells are
// stored sparsely; emptied cells are deleted so memory tracks occupancy,
// not world size.
type SpatialGrid struct {
	cellSize    float32
	cells       map[CellCoord]map[Handle]struct{}
	objectCells map[Handle][]CellCoord
}

// NewSpatialGrid creates a grid with the given cell edge length.
// The cell size is fixed for the grid's lifetime; changing it means
// building a new grid and re-inserting every object.
func NewSpatialGrid(cellSize float32) *SpatialGrid {
	return &SpatialGrid{
		cellSize:    cellSize,
		cells:       make(map[CellCoord]map[Handle]struct{}),
		objectCells: make(map[Handle][]CellCoord),
	}
}

// CellSize returns the cell edge length.
func (g *SpatialGrid) CellSize() float32 {
	return g.cellSize
}

// CellAt returns the coordinate of the cell containing a world position.
func (g *SpatialGrid) CellAt(p math.Vec3) CellCoord {
	return CellCoord{
		X: int32(gomath.Floor(float64(p.X / g.cellSize))),
		Y: int32(gomath.Floor(float64(p.Y / g.cellSize))),
		Z: int32(gomath.Floor(float64(p.Z / g.cellSize))),
	}
}

// Insert records the object in every cell its bounding sphere's box
// overlaps. Inserting an already-present object replaces its stale entry,
// so callers may re-insert after a bounds change without removing first.
func (g *SpatialGrid) Insert(h Handle, bounds Sphere) {
	if _, ok := g.objectCells[h]; ok {
		g.Remove(h)
	}

	box := bounds.AABB()
	lo := g.CellAt(box.Min)
	hi := g.CellAt(box.Max)

	coords := make([]CellCoord, 0, int(hi.X-lo.X+1)*int(hi.Y-lo.Y+1)*int(hi.Z-lo.Z+1))
	for x := lo.X; x <= hi.X; x++ {
		for y := lo.Y; y <= hi.Y; y++ {
			for z := lo.Z; z <= hi.Z; z++ {
				c := CellCoord{X: x, Y: y, Z: z}
				set := g.cells[c]
				if set == nil {
					set = make(map[Handle]struct{})
					g.cells[c] = set
				}
				set[h] = struct{}{}
				coords = append(coords, c)
			}
		}
	}
	g.objectCells[h] = coords
}

// Remove deletes the object from every cell it occupies and drops cells
// that become empty. No-op for objects that were never inserted.
func (g *SpatialGrid) Remove(h Handle) {
	coords, ok := g.objectCells[h]
	if !ok {
		return
	}
	for _, c := range coords {
		set := g.cells[c]
		delete(set, h)
		if len(set) == 0 {
			delete(g.cells, c)
		}
	}
	delete(g.objectCells, h)
}

// Query returns the union of object sets from all cells inside the
// frustum's approximate bounding box. This is a conservative pre-filter:
// it may over-return, and callers run the exact frustum-sphere test on
// each candidate afterward.
func (g *SpatialGrid) Query(f *Frustum, extent float32) map[Handle]struct{} {
	box := f.ApproxAABB(extent)
	lo := g.CellAt(box.Min)
	hi := g.CellAt(box.Max)

	out := make(map[Handle]struct{})

	// When the coordinate range covers more cells than are occupied,
	// walking the occupied cells is cheaper than enumerating the range.
	// Per-axis spans are capped before multiplying so a tiny cell size
	// against the world extent cannot overflow the product.
	const maxSpan = int64(1) << 13
	sx, sy, sz := int64(hi.X-lo.X+1), int64(hi.Y-lo.Y+1), int64(hi.Z-lo.Z+1)
	if sx > maxSpan || sy > maxSpan || sz > maxSpan || sx*sy*sz > int64(len(g.cells)) {
		for c, set := range g.cells {
			if c.X < lo.X || c.X > hi.X ||
				c.Y < lo.Y || c.Y > hi.Y ||
				c.Z < lo.Z || c.Z > hi.Z {
				continue
			}
			for h := range set {
				out[h] = struct{}{}
			}
		}
		return out
	}

	for x := lo.X; x <= hi.X; x++ {
		for y := lo.Y; y <= hi.Y; y++ {
			for z := lo.Z; z <= hi.Z; z++ {
				for h := range g.cells[CellCoord{X: x, Y: y, Z: z}] {
					out[h] = struct{}{}
				}
			}
		}
	}
	return out
}

// Contains reports whether the object is currently indexed.
func (g *SpatialGrid) Contains(h Handle) bool {
	_, ok := g.objectCells[h]
	return ok
}

// CellCount returns the number of occupied cells.
func (g *SpatialGrid) CellCount() int {
	return len(g.cells)
}

// Len returns the number of indexed objects.
func (g *SpatialGrid) Len() int {
	return len(g.objectCells)
}
