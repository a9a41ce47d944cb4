package systems

import (
	"math"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/cellsoup/components"
)

// Reproduce attempts to create one offspring next to the parent.
//
// Every attempt costs the parent ReproductionEnergyCost. A candidate spawn point
// is occupied when any other agent in the tick-start index lies within
// OccupancyRadius of it; occupied attempts are retried up to MaxRetries times and
// then abandoned. A successful attempt charges the cost a second time.
// Offspring created in this tick are not visible to occupancy checks.
func Reproduce(parent *Cell, t *Tick, rng Rand, fx *Effects) bool {
	p := t.Params
	cost := parent.Traits.ReproductionEnergyCost

	for {
		if !t.Gate.Open() {
			return false
		}

		parent.Vitals.Energy -= cost

		ox, oy := randomInDisc(rng, p.SearchRadius)
		cx := Wrap(parent.Pos.X+ox, p.WorldW)
		cy := Wrap(parent.Pos.Y+oy, p.WorldH)

		if !t.Index.AnyWithin(cx, cy, p.OccupancyRadius, parent.Entity) {
			parent.Org.SpawnFailures = 0
			parent.Vitals.Energy -= cost
			t.Gate.Commit()
			fx.Births = append(fx.Births, newOffspring(parent, p, rng))
			return true
		}

		if parent.Org.SpawnFailures >= p.MaxRetries {
			parent.Org.SpawnFailures = 0
			fx.Abandoned++
			return false
		}
		parent.Org.SpawnFailures++
	}
}

// newOffspring clones the parent and applies inheritance and mutation.
func newOffspring(parent *Cell, p *Params, rng Rand) Cell {
	child := *parent
	child.Entity = ecs.Entity{}
	child.Cause = components.CauseNone
	child.EnergyAtDeath = 0
	child.Org = components.Organism{ParentID: parent.Org.ID}

	ox, oy := randomInDisc(rng, p.ChildOffset)
	child.Pos.X = Wrap(parent.Pos.X+ox, p.WorldW)
	child.Pos.Y = Wrap(parent.Pos.Y+oy, p.WorldH)

	tr := &child.Traits
	tr.BaseSpeed += uniform(rng, -p.SpeedJitter, p.SpeedJitter)

	if rng.Float32() < p.PhotosynthesisToggle {
		if child.Caps.Photosynthesis {
			child.StopPhotosynthesis(p.MobileSpeed)
		} else {
			child.StartPhotosynthesis()
		}
	}

	tr.MaxHealth += uniform(rng, -p.MaxHealthJitter, p.MaxHealthJitter)
	tr.MaxEnergy += uniform(rng, -p.MaxEnergyJitter, p.MaxEnergyJitter) * tr.MaxHealth / 100

	child.Timers.SinceReproduction = parent.Timers.SinceReproduction
	child.Timers.SuicideTimer = uniform(rng, -p.SuicideJitter, p.SuicideJitter) * p.SuicideFactor
	child.Timers.ReproductionCooldown = p.ChildCooldown

	tr.Generation = parent.Traits.Generation + 1

	if rng.Float32() < p.HarnessToggle {
		child.Caps.HarnessHeat = !child.Caps.HarnessHeat
	}
	if rng.Float32() < p.CollectToggle {
		child.Caps.CollectEnergy = !child.Caps.CollectEnergy
	}

	child.Vitals.RemainingEnergy = tr.MaxEnergy
	child.Vitals.RemainingHealth = tr.MaxHealth

	if p.Reinitialize {
		child.Initialize(p, rng)
	}

	return child
}

// randomInDisc returns an offset uniformly distributed in a disc of the given radius.
func randomInDisc(rng Rand, radius float32) (float32, float32) {
	r := radius * float32(math.Sqrt(rng.Float64()))
	dx, dy := randomUnit(rng)
	return dx * r, dy * r
}
