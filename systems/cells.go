package systems

import (
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/cellsoup/components"
)

// Cell is the working copy of one agent's components during a tick.
// Updates mutate only the Cell they are given; effects on other agents are
// reported through Effects and applied after every agent has run.
type Cell struct {
	Entity ecs.Entity
	Pos    components.Position
	Vitals components.Vitals
	Timers components.Timers
	Traits components.Traits
	Caps   components.Capabilities
	Org    components.Organism

	Cause         components.DeathCause // CauseNone while alive
	EnergyAtDeath float32
}

// Alive reports whether the agent has not died yet.
func (c *Cell) Alive() bool {
	return c.Cause == components.CauseNone
}

// Die marks the agent dead and records its energy for the dropped EnergyItem.
// Later calls are no-ops.
func (c *Cell) Die(cause components.DeathCause) {
	if !c.Alive() {
		return
	}
	c.Cause = cause
	c.EnergyAtDeath = c.Vitals.Energy
}

// TakeDamage reduces health and kills the agent when it reaches zero.
func (c *Cell) TakeDamage(d float32) {
	c.Vitals.Health -= d
	if c.Vitals.Health <= 0 {
		c.Die(components.CauseDamage)
	}
}

// StartPhotosynthesis makes the agent photosynthesize. Photosynthesizers are immobile.
func (c *Cell) StartPhotosynthesis() {
	c.Caps.Photosynthesis = true
	c.Traits.BaseSpeed = 0
}

// StopPhotosynthesis makes the agent mobile again at the given speed.
func (c *Cell) StopPhotosynthesis(speed float32) {
	c.Caps.Photosynthesis = false
	c.Traits.BaseSpeed = speed
}

// Initialize applies start-of-life state: full health, a quarter of max energy,
// a fresh lifespan budget and a jittered reproduction cooldown.
// The current ReproductionCooldown seeds the time since last reproduction.
func (c *Cell) Initialize(p *Params, rng Rand) {
	c.Vitals.Health = c.Traits.MaxHealth
	c.Vitals.Energy = c.Traits.MaxEnergy / 4
	c.Vitals.RemainingEnergy = c.Traits.MaxEnergy
	c.Vitals.RemainingHealth = c.Traits.MaxHealth
	c.Timers.SinceReproduction = c.Timers.ReproductionCooldown
	c.Timers.SuicideTimer = p.FounderSuicideCountdown
	r := c.Traits.ReproductionRange
	c.Timers.ReproductionCooldown = p.BaseReproCooldown + uniform(rng, -r, r)
}

// ClampVitals bounds energy to [0, MaxEnergy] and health to at most MaxHealth.
func (c *Cell) ClampVitals() {
	c.Vitals.Energy = clampFloat(c.Vitals.Energy, 0, c.Traits.MaxEnergy)
	if c.Vitals.Health > c.Traits.MaxHealth {
		c.Vitals.Health = c.Traits.MaxHealth
	}
}

// Tick is the read-only view of the current tick shared by all agent updates.
type Tick struct {
	DT     float32
	Params *Params
	Light  LightModel
	Index  SpatialIndex
	Peers  []Cell // tick-start state, indexed by Neighbor.Slot
	Gate   PopulationGate
}

// UpdateCell advances one agent by one tick. The steps run in a fixed order and
// later steps observe the mutations of earlier ones. The update stops as soon
// as the agent dies.
func UpdateCell(c *Cell, t *Tick, rng Rand, fx *Effects) {
	if !c.Alive() {
		return
	}
	p := t.Params
	dt := t.DT
	v := &c.Vitals
	tr := &c.Traits

	// Health regeneration draws on energy and ignores dt.
	if v.Health < tr.MaxHealth {
		regen := v.Energy / p.HealthRegenDivisor
		v.Health += regen
		v.Energy -= regen
	}

	if c.Caps.HarnessHeat && tr.BaseSpeed < p.HarnessSpeedMin {
		tr.BaseSpeed = uniform(rng, p.HarnessSpeedMin, p.HarnessSpeedMax)
	}
	if c.Caps.HarnessHeat {
		c.Caps.GeneratingHeat = false
	}
	if tr.BaseSpeed < 0 {
		tr.BaseSpeed = 0
	}

	if v.Energy < 0 {
		v.Energy = 0
	}

	if c.Caps.Photosynthesis {
		sunlight := t.Light.Intensity(c.Pos.X, c.Pos.Y)
		v.Energy += sunlight * tr.PhotosynthesisRate * tr.PhotosynthesisEfficiency * dt
	} else {
		v.Energy -= tr.RespirationRate * dt
	}

	if v.Energy < 0 {
		deficit := -v.Energy
		c.TakeDamage(deficit * p.DeficitDamageFactor)
		if !c.Alive() {
			return
		}
		v.Energy = 0
	}

	c.Timers.SinceReproduction += dt

	if v.Energy >= tr.ReproductionThreshold && c.Timers.SinceReproduction >= c.Timers.ReproductionCooldown {
		Reproduce(c, t, rng, fx)
		c.Timers.SinceReproduction = 0
		r := tr.ReproductionRange
		c.Timers.ReproductionCooldown = p.BaseReproCooldown + uniform(rng, -r, r)
	}

	if !c.Caps.Photosynthesis {
		MoveRandomly(c, p, dt, rng)
	}

	c.Timers.SuicideTimer -= dt
	if c.Timers.SuicideTimer <= 0 && c.Caps.CanSuicide {
		c.Die(components.CauseSuicide)
		return
	}

	if c.Caps.GeneratingHeat {
		ExchangeHeat(c, t, fx)
	}

	aging := tr.AgingRate * dt
	v.RemainingEnergy -= aging
	v.RemainingHealth -= aging
	if v.RemainingEnergy <= 0 || v.RemainingHealth <= 0 {
		c.Die(components.CauseAging)
		return
	}

	// Heat harnessing overrides photosynthesis.
	if c.Caps.Photosynthesis && c.Caps.HarnessHeat {
		c.Caps.Photosynthesis = false
	}

	c.ClampVitals()
}
