package systems

import (
	"testing"

	"github.com/pthm-cable/cellsoup/components"
)

var testItemParams = ItemParams{DecaySeconds: 60, DefaultAmount: 10, CollectRadius: 1}

func TestUpdateItem(t *testing.T) {
	tests := []struct {
		name        string
		item        components.EnergyItem
		dt          float32
		wantDestroy bool
		wantAmount  float32
	}{
		{"fresh item keeps amount", components.EnergyItem{Amount: 30, CanDecay: true}, 1, false, 30},
		{"decays at sixty seconds", components.EnergyItem{Amount: 30, DecayElapsed: 59.95, CanDecay: true}, 0.1, true, 30},
		{"non-decaying item survives", components.EnergyItem{Amount: 30, DecayElapsed: 59.95}, 0.1, false, 30},
		{"zero amount floored", components.EnergyItem{CanDecay: true}, 0.1, false, 10},
		{"negative amount floored", components.EnergyItem{Amount: -4, CanDecay: true}, 0.1, false, 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			item := tt.item
			destroyed := UpdateItem(&item, tt.dt, testItemParams)
			if destroyed != tt.wantDestroy {
				t.Errorf("destroyed = %v, want %v", destroyed, tt.wantDestroy)
			}
			if !destroyed && item.Amount != tt.wantAmount {
				t.Errorf("amount = %f, want %f", item.Amount, tt.wantAmount)
			}
		})
	}
}

func TestUpdateItemUncollectedLifetime(t *testing.T) {
	item := components.EnergyItem{Amount: 30, CanDecay: true}
	ticks := 0
	for !UpdateItem(&item, 0.1, testItemParams) {
		ticks++
		if ticks > 1000 {
			t.Fatal("item never decayed")
		}
	}
	// 600 ticks of 0.1s, allowing for float accumulation
	if ticks < 598 || ticks > 601 {
		t.Errorf("item survived %d ticks, want about 599", ticks)
	}
}

func TestNearestCollector(t *testing.T) {
	es := newTestEntities(3)
	g := NewSpatialGrid(100, 100, 10)
	g.Insert(es[0], 0, 10.8, 10) // collector, farther
	g.Insert(es[1], 1, 10.3, 10) // collector, nearest
	g.Insert(es[2], 2, 10.1, 10) // nearest but cannot collect

	collectors := map[int32]bool{0: true, 1: true}
	accept := func(n Neighbor) bool { return collectors[n.Slot] }

	best, _, ok := NearestCollector(g, nil, 10, 10, 1, accept)
	if !ok {
		t.Fatal("expected a collector")
	}
	if best.Slot != 1 {
		t.Errorf("collector slot = %d, want 1", best.Slot)
	}

	_, _, ok = NearestCollector(g, nil, 50, 50, 1, accept)
	if ok {
		t.Error("no collector should be found far away")
	}
}
