package game

import (
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/cellsoup/systems"
	"github.com/pthm-cable/cellsoup/telemetry"
)

// Step advances the simulation by one tick of duration dt.
//
// Agents update against a snapshot taken at tick start. Their spawn and kill
// requests are applied afterwards in a fixed order, then items update and the
// population cap is enforced.
func (g *Game) Step(dt float32) {
	g.perf.StartTick()

	g.perf.StartPhase(telemetry.PhaseSpatial)
	g.snapshotAgents()

	g.perf.StartPhase(telemetry.PhaseAgents)
	g.gate.reset(g.pop.Live())
	tick := systems.Tick{
		DT:     dt,
		Params: &g.params,
		Light:  g.light,
		Index:  g.index,
		Peers:  g.peers,
		Gate:   g.gate,
	}
	effects := g.updateAgents(&tick)

	g.perf.StartPhase(telemetry.PhaseApply)
	g.applyEffects(effects)

	g.perf.StartPhase(telemetry.PhaseItems)
	g.indexCollectors()
	g.updateItems(dt)

	g.perf.StartPhase(telemetry.PhaseCull)
	g.enforceCap()

	g.tick++
	g.simTime += float64(dt)

	g.perf.StartPhase(telemetry.PhaseTelemetry)
	g.flushTelemetry()
	if g.snapshots {
		g.publishSnapshot()
	}

	g.perf.EndTick()
}

// snapshotAgents copies every live agent into peers and cells, in
// registration order, and rebuilds the spatial index with matching slots.
func (g *Game) snapshotAgents() {
	g.index.Clear()
	g.peers = g.peers[:0]

	for i, e := range g.pop.order {
		c := g.cellFor(e)
		g.peers = append(g.peers, c)
		g.index.Insert(e, int32(i), c.Pos.X, c.Pos.Y)
	}

	g.cells = append(g.cells[:0], g.peers...)
}

// cellFor copies an agent's components into a Cell.
func (g *Game) cellFor(e ecs.Entity) systems.Cell {
	pos, vitals, timers, traits, caps, org := g.agentMapper.Get(e)
	return systems.Cell{
		Entity: e,
		Pos:    *pos,
		Vitals: *vitals,
		Timers: *timers,
		Traits: *traits,
		Caps:   *caps,
		Org:    *org,
	}
}

// writeBack stores a Cell's state into its components.
func (g *Game) writeBack(c *systems.Cell) {
	pos, vitals, timers, traits, caps, org := g.agentMapper.Get(c.Entity)
	*pos = c.Pos
	*vitals = c.Vitals
	*timers = c.Timers
	*traits = c.Traits
	*caps = c.Caps
	*org = c.Org
}

// indexCollectors rebuilds the spatial index from the post-apply population
// and records which slots may collect items.
func (g *Game) indexCollectors() {
	g.index.Clear()
	g.collectors = g.collectors[:0]

	for i, e := range g.pop.order {
		pos := g.posMap.Get(e)
		caps := g.capsMap.Get(e)
		g.index.Insert(e, int32(i), pos.X, pos.Y)
		g.collectors = append(g.collectors, caps.CollectEnergy)
	}
}
