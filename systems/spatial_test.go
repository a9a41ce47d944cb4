package systems

import (
	"testing"

	"github.com/mlange-42/ark/ecs"
)

type testPos struct {
	Slot int32
}

// newTestEntities creates n live entities so grid entries carry real identities.
func newTestEntities(n int) []ecs.Entity {
	world := ecs.NewWorld()
	mapper := ecs.NewMap1[testPos](world)
	entities := make([]ecs.Entity, n)
	for i := range entities {
		entities[i] = mapper.NewEntity(&testPos{Slot: int32(i)})
	}
	return entities
}

func TestSpatialGridQueryRadius(t *testing.T) {
	es := newTestEntities(4)
	g := NewSpatialGrid(100, 100, 10)
	g.Insert(es[0], 0, 50, 50)
	g.Insert(es[1], 1, 53, 54) // distance 5
	g.Insert(es[2], 2, 70, 50) // distance 20
	g.Insert(es[3], 3, 50, 50) // same position

	got := g.QueryRadiusInto(nil, 50, 50, 6, es[0])
	if len(got) != 2 {
		t.Fatalf("expected 2 neighbors, got %d", len(got))
	}
	for _, n := range got {
		if n.E == es[0] {
			t.Error("excluded entity returned")
		}
		if n.E == es[2] {
			t.Error("entity outside radius returned")
		}
	}
}

func TestSpatialGridWrapsAtSeam(t *testing.T) {
	tests := []struct {
		name     string
		w, h     float32
		cellSize float32
		ax, ay   float32
		bx, by   float32
		radius   float32
	}{
		{"x seam", 320, 180, 8, 319, 90, 1, 90, 5},
		{"y seam", 320, 180, 8, 100, 179.5, 100, 0.5, 2},
		{"corner", 320, 180, 8, 319.5, 179.5, 0.5, 0.5, 2},
		{"uneven cells", 97, 97, 8, 95, 50, 8.5, 50, 10.6},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			es := newTestEntities(2)
			g := NewSpatialGrid(tt.w, tt.h, tt.cellSize)
			g.Insert(es[0], 0, tt.ax, tt.ay)
			g.Insert(es[1], 1, tt.bx, tt.by)

			got := g.QueryRadiusInto(nil, tt.ax, tt.ay, tt.radius, es[0])
			if len(got) != 1 || got[0].E != es[1] {
				t.Errorf("expected neighbor across seam, got %v", got)
			}
			if !g.AnyWithin(tt.ax, tt.ay, tt.radius, es[0]) {
				t.Error("AnyWithin should see neighbor across seam")
			}
		})
	}
}

func TestSpatialGridNoDuplicatesOnSmallWorld(t *testing.T) {
	es := newTestEntities(3)
	g := NewSpatialGrid(20, 20, 8) // 2x2 cells, radius spans everything
	g.Insert(es[0], 0, 1, 1)
	g.Insert(es[1], 1, 15, 15)
	g.Insert(es[2], 2, 9, 2)

	got := g.QueryRadiusInto(nil, 1, 1, 50, es[0])
	if len(got) != 2 {
		t.Errorf("expected 2 unique neighbors, got %d", len(got))
	}
}

func TestSpatialGridAnyWithin(t *testing.T) {
	es := newTestEntities(2)
	g := NewSpatialGrid(100, 100, 10)
	g.Insert(es[0], 0, 10, 10)
	g.Insert(es[1], 1, 30, 10)

	if g.AnyWithin(10, 10, 1, es[0]) {
		t.Error("only the excluded entity is nearby, expected false")
	}
	if !g.AnyWithin(10, 10, 1, noEntity) {
		t.Error("expected the entity itself to be found when nothing is excluded")
	}
	if !g.AnyWithin(29.5, 10, 1, es[0]) {
		t.Error("expected entity 1 within radius")
	}
}

func TestSpatialGridClear(t *testing.T) {
	es := newTestEntities(1)
	g := NewSpatialGrid(100, 100, 10)
	g.Insert(es[0], 0, 10, 10)
	if g.Len() != 1 {
		t.Fatalf("Len = %d, want 1", g.Len())
	}
	g.Clear()
	if g.Len() != 0 {
		t.Errorf("Len after Clear = %d, want 0", g.Len())
	}
	if g.AnyWithin(10, 10, 5, noEntity) {
		t.Error("cleared grid should be empty")
	}
}

func TestToroidalDelta(t *testing.T) {
	tests := []struct {
		name           string
		x1, y1, x2, y2 float32
		wantDX, wantDY float32
	}{
		{"direct", 10, 10, 20, 15, 10, 5},
		{"wrap right", 95, 50, 5, 50, 10, 0},
		{"wrap left", 5, 50, 95, 50, -10, 0},
		{"wrap down", 50, 98, 50, 2, 0, 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dx, dy := ToroidalDelta(tt.x1, tt.y1, tt.x2, tt.y2, 100, 100)
			if dx != tt.wantDX || dy != tt.wantDY {
				t.Errorf("got (%f, %f), want (%f, %f)", dx, dy, tt.wantDX, tt.wantDY)
			}
		})
	}
}

func TestWrap(t *testing.T) {
	tests := []struct {
		v, size, want float32
	}{
		{5, 10, 5},
		{-1, 10, 9},
		{10, 10, 0},
		{25, 10, 5},
	}
	for _, tt := range tests {
		if got := Wrap(tt.v, tt.size); got != tt.want {
			t.Errorf("Wrap(%f, %f) = %f, want %f", tt.v, tt.size, got, tt.want)
		}
	}
}
