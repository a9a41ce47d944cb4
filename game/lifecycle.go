package game

import (
	"github.com/pthm-cable/cellsoup/components"
	"github.com/pthm-cable/cellsoup/systems"
	"github.com/pthm-cable/cellsoup/telemetry"
)

// spawnFounders creates the initial population at uniform positions.
func (g *Game) spawnFounders() {
	f := &g.cfg.Founder
	for i := 0; i < g.cfg.Population.Initial; i++ {
		c := systems.Cell{
			Pos: components.Position{
				X: g.rng.Float32() * g.params.WorldW,
				Y: g.rng.Float32() * g.params.WorldH,
			},
			Traits: components.TraitsFromFounder(f),
			Caps:   components.CapabilitiesFromFounder(f),
		}
		c.Timers.ReproductionCooldown = g.params.FounderReproCooldown
		c.Initialize(&g.params, g.rng)
		g.registerAgent(&c)
	}
}

// registerAgent assigns an identity and creates the agent's entity.
func (g *Game) registerAgent(c *systems.Cell) {
	c.ClampVitals()
	c.Org.ID = g.pop.nextIdentity()
	c.Org.BirthTick = g.tick
	c.Org.SpawnFailures = 0

	c.Entity = g.agentMapper.NewEntity(&c.Pos, &c.Vitals, &c.Timers, &c.Traits, &c.Caps, &c.Org)
	g.pop.add(c.Entity)
	g.lifetimes.Register(c.Org.ID, g.tick, c.Org.ParentID, c.Traits.Generation)
	g.listener.AgentSpawned(c.Org.ID, c.Pos)
}

// killAgent runs the death path for a dead Cell: it drops an EnergyItem
// carrying the energy at death and removes the agent.
// The caller compacts the population order afterwards.
func (g *Game) killAgent(c *systems.Cell) {
	pos := c.Pos
	item := components.EnergyItem{
		Amount:   c.EnergyAtDeath,
		CanDecay: g.cfg.Item.CanDecay,
		SourceID: c.Org.ID,
	}
	g.itemMapper.NewEntity(&pos, &item)
	g.collector.RecordItemSpawned()
	g.listener.ItemSpawned(c.Org.ID, pos, item.Amount)

	life := g.lifetimes.Remove(c.Org.ID, g.tick, g.cfg.Derived.DT32)
	g.collector.RecordDeath(c.Cause, life)
	rec := telemetry.DeathRecord{
		Tick:          g.tick,
		ID:            c.Org.ID,
		ParentID:      c.Org.ParentID,
		Generation:    c.Traits.Generation,
		Cause:         c.Cause.String(),
		EnergyAtDeath: c.EnergyAtDeath,
	}
	if life != nil {
		rec.LifespanSec = life.SurvivalTimeSec
		rec.Children = life.Children
		rec.PeakEnergy = life.PeakEnergy
		rec.HeatReceived = life.HeatReceived
	}
	g.deathLog = append(g.deathLog, rec)

	g.world.RemoveEntity(c.Entity)
	g.pop.removed()
	g.listener.AgentDespawned(c.Org.ID, c.Cause)
}

// applyEffects applies the results of the agent update phase: heat
// transfers, state write-back, deaths and then births in parent order.
func (g *Game) applyEffects(effects []systems.Effects) {
	for i := range effects {
		for _, h := range effects[i].Heat {
			c := &g.cells[h.Slot]
			if !c.Alive() {
				continue
			}
			c.Vitals.Energy += h.Amount
			g.collector.RecordHeat(h.Amount)
			g.lifetimes.RecordHeat(c.Org.ID, h.Amount)
		}
	}

	died := false
	for i := range g.cells {
		c := &g.cells[i]
		if !c.Alive() {
			g.killAgent(c)
			died = true
			continue
		}
		c.ClampVitals()
		g.writeBack(c)
	}
	if died {
		g.pop.compact(g.world.Alive)
	}

	for i := range effects {
		fx := &effects[i]
		for j := range fx.Births {
			g.registerAgent(&fx.Births[j])
			g.collector.RecordBirth()
		}
		g.collector.RecordAbandoned(fx.Abandoned)
	}
}
