package systems

import (
	"math"
	"math/rand"
	"testing"

	"github.com/pthm-cable/cellsoup/components"
)

func breedingParent() Cell {
	c := quietCell()
	c.Vitals.Energy = 80
	c.Traits.ReproductionThreshold = 75
	c.Traits.ReproductionEnergyCost = 60
	c.Traits.Generation = 3
	c.Timers.SinceReproduction = 40
	c.Timers.ReproductionCooldown = 30
	return c
}

func TestReproduceSingleBirth(t *testing.T) {
	p := testParams(t)
	tick := testTick(p, 0.1)
	gate := tick.Gate.(*testGate)
	parent := breedingParent()
	fx := &Effects{}

	ok := Reproduce(&parent, tick, rand.New(rand.NewSource(1)), fx)

	if !ok {
		t.Fatal("expected reproduction to succeed on an empty world")
	}
	if len(fx.Births) != 1 {
		t.Fatalf("births = %d, want 1", len(fx.Births))
	}
	// cost charged for the attempt and again for the birth
	if math.Abs(float64(parent.Vitals.Energy+40)) > 1e-4 {
		t.Errorf("parent energy = %f, want -40", parent.Vitals.Energy)
	}
	if gate.commits != 1 {
		t.Errorf("gate commits = %d, want 1", gate.commits)
	}

	child := fx.Births[0]
	if child.Traits.Generation != 4 {
		t.Errorf("child generation = %d, want 4", child.Traits.Generation)
	}
	if !child.Alive() {
		t.Error("child should be alive")
	}
	dx, dy := ToroidalDelta(parent.Pos.X, parent.Pos.Y, child.Pos.X, child.Pos.Y, p.WorldW, p.WorldH)
	if d := math.Hypot(float64(dx), float64(dy)); d > float64(p.ChildOffset)+1e-4 {
		t.Errorf("child placed %f from parent, want <= %f", d, p.ChildOffset)
	}
}

func TestUpdateCellReproductionResetsTimers(t *testing.T) {
	p := testParams(t)
	tick := testTick(p, 0.1)
	parent := breedingParent()
	parent.Traits.MaxEnergy = 500
	parent.Vitals.Energy = 200
	parent.Traits.PhotosynthesisRate = 0
	fx := &Effects{}

	UpdateCell(&parent, tick, rand.New(rand.NewSource(2)), fx)

	if len(fx.Births) != 1 {
		t.Fatalf("births = %d, want 1", len(fx.Births))
	}
	if math.Abs(float64(parent.Vitals.Energy-80)) > 1e-4 {
		t.Errorf("parent energy = %f, want 80", parent.Vitals.Energy)
	}
	if parent.Timers.SinceReproduction != 0 {
		t.Errorf("since reproduction = %f, want 0", parent.Timers.SinceReproduction)
	}
	if cd := parent.Timers.ReproductionCooldown; cd < 10 || cd > 20 {
		t.Errorf("cooldown = %f, want within [10, 20]", cd)
	}
}

func TestReproduceCooldownBlocks(t *testing.T) {
	p := testParams(t)
	parent := breedingParent()
	parent.Traits.PhotosynthesisRate = 0
	parent.Timers.SinceReproduction = 0
	fx := &Effects{}

	UpdateCell(&parent, testTick(p, 0.1), rand.New(rand.NewSource(1)), fx)

	if len(fx.Births) != 0 {
		t.Errorf("births = %d, want 0 during cooldown", len(fx.Births))
	}
}

func TestReproduceClosedGate(t *testing.T) {
	p := testParams(t)
	tick := testTick(p, 0.1)
	tick.Gate = &testGate{open: false}
	parent := breedingParent()
	fx := &Effects{}

	if Reproduce(&parent, tick, rand.New(rand.NewSource(1)), fx) {
		t.Error("reproduction should fail with the gate closed")
	}
	if len(fx.Births) != 0 {
		t.Errorf("births = %d, want 0", len(fx.Births))
	}
	if parent.Vitals.Energy != 80 {
		t.Errorf("parent energy = %f, want unchanged 80", parent.Vitals.Energy)
	}
}

func TestReproduceAbandonsWhenOccupied(t *testing.T) {
	p := testParams(t)
	p.SearchRadius = 0
	tick := testTick(p, 0.1)
	es := newTestEntities(2)
	parent := breedingParent()
	parent.Entity = es[0]
	tick.Index.Insert(es[0], 0, parent.Pos.X, parent.Pos.Y)
	tick.Index.Insert(es[1], 1, parent.Pos.X+0.5, parent.Pos.Y)
	fx := &Effects{}

	if Reproduce(&parent, tick, rand.New(rand.NewSource(1)), fx) {
		t.Fatal("reproduction should fail when every candidate is occupied")
	}

	attempts := float32(p.MaxRetries + 1)
	want := 80 - attempts*60
	if math.Abs(float64(parent.Vitals.Energy-want)) > 1e-3 {
		t.Errorf("parent energy = %f, want %f", parent.Vitals.Energy, want)
	}
	if fx.Abandoned != 1 {
		t.Errorf("abandoned = %d, want 1", fx.Abandoned)
	}
	if parent.Org.SpawnFailures != 0 {
		t.Errorf("spawn failures = %d, want reset to 0", parent.Org.SpawnFailures)
	}
	if len(fx.Births) != 0 {
		t.Errorf("births = %d, want 0", len(fx.Births))
	}
}

func TestReproduceIgnoresOwnPosition(t *testing.T) {
	p := testParams(t)
	p.SearchRadius = 0
	tick := testTick(p, 0.1)
	es := newTestEntities(1)
	parent := breedingParent()
	parent.Entity = es[0]
	tick.Index.Insert(es[0], 0, parent.Pos.X, parent.Pos.Y)
	fx := &Effects{}

	if !Reproduce(&parent, tick, rand.New(rand.NewSource(1)), fx) {
		t.Error("the parent itself should not block the spawn point")
	}
}

func TestOffspringMutation(t *testing.T) {
	p := testParams(t)
	p.PhotosynthesisToggle = 1
	p.HarnessToggle = 1
	p.CollectToggle = 1

	parent := breedingParent()
	parent.Caps.Photosynthesis = true
	parent.Caps.HarnessHeat = false
	parent.Caps.CollectEnergy = false
	parent.Caps.CanSuicide = true

	child := newOffspring(&parent, p, rand.New(rand.NewSource(5)))

	if child.Caps.Photosynthesis {
		t.Error("photosynthesis should have toggled off")
	}
	if child.Traits.BaseSpeed != p.MobileSpeed {
		t.Errorf("base speed = %f, want mobile speed %f", child.Traits.BaseSpeed, p.MobileSpeed)
	}
	if !child.Caps.HarnessHeat {
		t.Error("harness heat should have toggled on")
	}
	if !child.Caps.CollectEnergy {
		t.Error("collect energy should have toggled on")
	}
	if !child.Caps.CanSuicide {
		t.Error("can suicide is inherited unchanged")
	}
	if child.Timers.ReproductionCooldown != p.ChildCooldown {
		t.Errorf("child cooldown = %f, want %f", child.Timers.ReproductionCooldown, p.ChildCooldown)
	}
	if child.Timers.SinceReproduction != parent.Timers.SinceReproduction {
		t.Errorf("since reproduction = %f, want inherited %f", child.Timers.SinceReproduction, parent.Timers.SinceReproduction)
	}
	limit := p.SuicideJitter * p.SuicideFactor
	if st := child.Timers.SuicideTimer; st < -limit || st > limit {
		t.Errorf("suicide timer = %f, want within [%f, %f]", st, -limit, limit)
	}
}

func TestOffspringTraitJitter(t *testing.T) {
	p := testParams(t)
	p.PhotosynthesisToggle = 0
	parent := breedingParent()
	parent.Caps.Photosynthesis = false
	parent.Traits.BaseSpeed = 2
	rng := rand.New(rand.NewSource(9))

	for i := 0; i < 200; i++ {
		child := newOffspring(&parent, p, rng)
		tr := child.Traits
		if math.Abs(float64(tr.BaseSpeed-2)) > float64(p.SpeedJitter)+1e-5 {
			t.Fatalf("base speed %f outside jitter", tr.BaseSpeed)
		}
		if math.Abs(float64(tr.MaxHealth-100)) > float64(p.MaxHealthJitter)+1e-4 {
			t.Fatalf("max health %f outside jitter", tr.MaxHealth)
		}
		maxEnergyJitter := float64(p.MaxEnergyJitter*tr.MaxHealth/100) + 1e-4
		if math.Abs(float64(tr.MaxEnergy-100)) > maxEnergyJitter {
			t.Fatalf("max energy %f outside jitter", tr.MaxEnergy)
		}
		if child.Vitals.RemainingHealth != tr.MaxHealth || child.Vitals.RemainingEnergy != tr.MaxEnergy {
			t.Fatalf("lifespan budget %f/%f, want own max %f/%f",
				child.Vitals.RemainingHealth, child.Vitals.RemainingEnergy, tr.MaxHealth, tr.MaxEnergy)
		}
	}
}

func TestOffspringChildInit(t *testing.T) {
	tests := []struct {
		name         string
		reinitialize bool
		wantEnergy   func(child Cell) float32
	}{
		{"literal copies parent energy", false, func(Cell) float32 { return -40 }},
		{"reinitialize starts at quarter energy", true, func(c Cell) float32 { return c.Traits.MaxEnergy / 4 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := testParams(t)
			p.Reinitialize = tt.reinitialize
			parent := breedingParent()
			parent.Vitals.Energy = -40

			child := newOffspring(&parent, p, rand.New(rand.NewSource(4)))

			if want := tt.wantEnergy(child); math.Abs(float64(child.Vitals.Energy-want)) > 1e-4 {
				t.Errorf("child energy = %f, want %f", child.Vitals.Energy, want)
			}
			if tt.reinitialize && child.Timers.SuicideTimer != p.FounderSuicideCountdown {
				t.Errorf("suicide timer = %f, want %f", child.Timers.SuicideTimer, p.FounderSuicideCountdown)
			}
			if child.Cause != components.CauseNone {
				t.Errorf("child cause = %v, want none", child.Cause)
			}
		})
	}
}
