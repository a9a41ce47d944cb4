// Package systems provides the per-tick simulation rules and their supporting structures.
package systems

import (
	"github.com/mlange-42/ark/ecs"
)

// Neighbor holds a nearby entity with precomputed spatial data.
// Slot indexes the per-tick snapshot the grid was built from, so callers resolve
// neighbor state by lookup instead of touching live components.
type Neighbor struct {
	E      ecs.Entity
	Slot   int32
	DX, DY float32 // Toroidal delta from query origin
	DistSq float32 // Squared distance (avoid sqrt in hot path)
}

// SpatialIndex answers proximity queries over agent positions.
// Results reflect positions as of the last rebuild, which happens at tick boundaries.
type SpatialIndex interface {
	Clear()
	Insert(e ecs.Entity, slot int32, x, y float32)
	QueryRadiusInto(dst []Neighbor, x, y, radius float32, exclude ecs.Entity) []Neighbor
	AnyWithin(x, y, radius float32, exclude ecs.Entity) bool
	Len() int
}

// noEntity is the zero entity, used when a query should exclude nothing.
var noEntity ecs.Entity

type gridEntry struct {
	e    ecs.Entity
	slot int32
	x, y float32
}

// SpatialGrid is a uniform toroidal grid. Entries store the position they were
// inserted with, so the grid is a stable snapshot until the next rebuild.
type SpatialGrid struct {
	cellW  float32
	cellH  float32
	cols   int
	rows   int
	width  float32
	height float32
	cells  [][]gridEntry
	count  int
}

// NewSpatialGrid creates a spatial grid covering the given world size.
// Cells are stretched so that a whole number of them tiles the world exactly,
// which keeps wrap-around lookups correct at the seam.
func NewSpatialGrid(width, height, cellSize float32) *SpatialGrid {
	cols := int(width / cellSize)
	if cols < 1 {
		cols = 1
	}
	rows := int(height / cellSize)
	if rows < 1 {
		rows = 1
	}

	cells := make([][]gridEntry, cols*rows)
	for i := range cells {
		cells[i] = make([]gridEntry, 0, 8) // pre-allocate small capacity
	}

	return &SpatialGrid{
		cellW:  width / float32(cols),
		cellH:  height / float32(rows),
		cols:   cols,
		rows:   rows,
		width:  width,
		height: height,
		cells:  cells,
	}
}

// Clear removes all entities from the grid.
func (g *SpatialGrid) Clear() {
	for i := range g.cells {
		g.cells[i] = g.cells[i][:0]
	}
	g.count = 0
}

// Insert adds an entity to the grid at the given position.
func (g *SpatialGrid) Insert(e ecs.Entity, slot int32, x, y float32) {
	x = Wrap(x, g.width)
	y = Wrap(y, g.height)
	idx := g.row(y)*g.cols + g.col(x)
	g.cells[idx] = append(g.cells[idx], gridEntry{e: e, slot: slot, x: x, y: y})
	g.count++
}

// Len returns the number of inserted entities.
func (g *SpatialGrid) Len() int {
	return g.count
}

// QueryRadiusInto finds entities within radius and appends them to dst.
// Reuse dst across calls to avoid allocations.
func (g *SpatialGrid) QueryRadiusInto(dst []Neighbor, x, y, radius float32, exclude ecs.Entity) []Neighbor {
	g.visit(x, y, radius, exclude, func(en *gridEntry, dx, dy, distSq float32) bool {
		dst = append(dst, Neighbor{E: en.e, Slot: en.slot, DX: dx, DY: dy, DistSq: distSq})
		return true
	})
	return dst
}

// AnyWithin reports whether any entity other than exclude lies within radius.
func (g *SpatialGrid) AnyWithin(x, y, radius float32, exclude ecs.Entity) bool {
	found := false
	g.visit(x, y, radius, exclude, func(*gridEntry, float32, float32, float32) bool {
		found = true
		return false
	})
	return found
}

// visit calls fn for every entry within radius until fn returns false.
func (g *SpatialGrid) visit(x, y, radius float32, exclude ecs.Entity, fn func(en *gridEntry, dx, dy, distSq float32) bool) {
	x = Wrap(x, g.width)
	y = Wrap(y, g.height)
	radiusSq := radius * radius

	colStart, colCount := span(g.col(x), int(radius/g.cellW)+1, g.cols)
	rowStart, rowCount := span(g.row(y), int(radius/g.cellH)+1, g.rows)

	for i := 0; i < colCount; i++ {
		col := wrapIndex(colStart+i, g.cols)
		for j := 0; j < rowCount; j++ {
			row := wrapIndex(rowStart+j, g.rows)
			bucket := g.cells[row*g.cols+col]
			for k := range bucket {
				en := &bucket[k]
				if en.e == exclude {
					continue
				}
				dx, dy := ToroidalDelta(x, y, en.x, en.y, g.width, g.height)
				distSq := dx*dx + dy*dy
				if distSq <= radiusSq {
					if !fn(en, dx, dy, distSq) {
						return
					}
				}
			}
		}
	}
}

// span returns the first cell and cell count to scan around center.
// A span wider than the grid collapses to the whole axis so no cell is visited twice.
func span(center, radiusCells, n int) (start, count int) {
	if 2*radiusCells+1 >= n {
		return 0, n
	}
	return center - radiusCells, 2*radiusCells + 1
}

func wrapIndex(i, n int) int {
	i %= n
	if i < 0 {
		i += n
	}
	return i
}

func (g *SpatialGrid) col(x float32) int {
	c := int(x / g.cellW)
	if c >= g.cols {
		c = g.cols - 1
	}
	return c
}

func (g *SpatialGrid) row(y float32) int {
	r := int(y / g.cellH)
	if r >= g.rows {
		r = g.rows - 1
	}
	return r
}

// ToroidalDelta returns the shortest path delta from (x1,y1) to (x2,y2).
func ToroidalDelta(x1, y1, x2, y2, w, h float32) (dx, dy float32) {
	dx = x2 - x1
	dy = y2 - y1

	if dx > w/2 {
		dx -= w
	} else if dx < -w/2 {
		dx += w
	}
	if dy > h/2 {
		dy -= h
	} else if dy < -h/2 {
		dy += h
	}

	return dx, dy
}
