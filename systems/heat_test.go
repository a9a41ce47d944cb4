package systems

import (
	"math"
	"testing"
)

func TestExchangeHeat(t *testing.T) {
	p := testParams(t)
	tick := testTick(p, 1)
	es := newTestEntities(4)

	source := quietCell()
	source.Entity = es[0]
	source.Pos.X, source.Pos.Y = 50, 50
	source.Vitals.Energy = 50
	source.Caps.GeneratingHeat = true
	source.Traits.HeatGenerationRate = 5
	source.Traits.HeatResistance = 1
	source.Traits.HeatProductionRate = 2
	source.Traits.HeatProductionEfficiency = 0.1
	source.Traits.HeatDissipationRate = 1

	harvester := quietCell()
	harvester.Entity = es[1]
	harvester.Pos.X, harvester.Pos.Y = 52, 50
	harvester.Caps.HarnessHeat = true

	bystander := quietCell()
	bystander.Entity = es[2]
	bystander.Pos.X, bystander.Pos.Y = 51, 50

	distant := quietCell()
	distant.Entity = es[3]
	distant.Pos.X, distant.Pos.Y = 60, 50
	distant.Caps.HarnessHeat = true

	tick.Peers = []Cell{source, harvester, bystander, distant}
	for i, c := range tick.Peers {
		tick.Index.Insert(c.Entity, int32(i), c.Pos.X, c.Pos.Y)
	}

	fx := &Effects{}
	ExchangeHeat(&source, tick, fx)

	if len(fx.Heat) != 1 {
		t.Fatalf("heat transfers = %d, want 1", len(fx.Heat))
	}
	if fx.Heat[0].Slot != 1 {
		t.Errorf("transfer slot = %d, want 1", fx.Heat[0].Slot)
	}
	wantTransfer := 5.0 / 205.0
	if math.Abs(float64(fx.Heat[0].Amount)-wantTransfer) > 1e-6 {
		t.Errorf("transfer = %f, want %f", fx.Heat[0].Amount, wantTransfer)
	}

	// 50 - 2*(50/100)*0.1 + 1
	if math.Abs(float64(source.Vitals.Energy-50.9)) > 1e-4 {
		t.Errorf("source energy = %f, want 50.9", source.Vitals.Energy)
	}
}

func TestExchangeHeatWrapsAcrossSeam(t *testing.T) {
	p := testParams(t)
	tick := testTick(p, 1)
	es := newTestEntities(2)

	source := quietCell()
	source.Entity = es[0]
	source.Pos.X, source.Pos.Y = 1, 90
	source.Traits.HeatGenerationRate = 5
	source.Traits.HeatResistance = 1

	harvester := quietCell()
	harvester.Entity = es[1]
	harvester.Pos.X, harvester.Pos.Y = p.WorldW-2, 90
	harvester.Caps.HarnessHeat = true

	tick.Peers = []Cell{source, harvester}
	for i, c := range tick.Peers {
		tick.Index.Insert(c.Entity, int32(i), c.Pos.X, c.Pos.Y)
	}

	fx := &Effects{}
	ExchangeHeat(&source, tick, fx)

	if len(fx.Heat) != 1 {
		t.Errorf("heat transfers = %d, want 1 across the seam", len(fx.Heat))
	}
}
