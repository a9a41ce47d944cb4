package game

import (
	"log/slog"
	"sync/atomic"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/cellsoup/components"
)

// Population owns the registration order and identity counter of live agents.
type Population struct {
	order  []ecs.Entity // oldest first
	nextID uint32
	live   int
}

func newPopulation() *Population {
	return &Population{nextID: 1}
}

// nextIdentity reserves the identity for the next registered agent.
func (p *Population) nextIdentity() uint32 {
	id := p.nextID
	p.nextID++
	return id
}

func (p *Population) add(e ecs.Entity) {
	p.order = append(p.order, e)
	p.live++
}

func (p *Population) removed() {
	p.live--
}

// compact drops entities that are no longer alive, preserving order.
func (p *Population) compact(alive func(ecs.Entity) bool) {
	kept := p.order[:0]
	for _, e := range p.order {
		if alive(e) {
			kept = append(kept, e)
		}
	}
	clear(p.order[len(kept):])
	p.order = kept
}

// Live returns the number of registered live agents.
func (p *Population) Live() int {
	return p.live
}

// oldest returns up to n of the earliest registered agents.
func (p *Population) oldest(n int) []ecs.Entity {
	if n > len(p.order) {
		n = len(p.order)
	}
	out := make([]ecs.Entity, n)
	copy(out, p.order[:n])
	return out
}

// populationGate counts live agents plus births committed during the
// current update phase. Reproduction is allowed while the count is at or
// below the limit.
type populationGate struct {
	count atomic.Int64
	limit int64
}

func (g *populationGate) reset(n int) {
	g.count.Store(int64(n))
}

func (g *populationGate) Open() bool {
	return g.count.Load() <= g.limit
}

func (g *populationGate) Commit() {
	g.count.Add(1)
}

// enforceCap kills the oldest agents above the absolute cap through the
// normal death path.
func (g *Game) enforceCap() {
	excess := g.pop.Live() - g.cfg.Population.AbsoluteCap
	if excess <= 0 {
		return
	}

	for _, e := range g.pop.oldest(excess) {
		c := g.cellFor(e)
		c.Die(components.CauseCull)
		g.killAgent(&c)
	}
	g.pop.compact(g.world.Alive)

	if g.logStats {
		slog.Info("population_cull",
			"tick", g.tick,
			"culled", excess,
			"population", g.pop.Live(),
		)
	}
}
