package game

import (
	"github.com/pthm-cable/cellsoup/components"
	"github.com/pthm-cable/cellsoup/systems"
)

// AgentDetail is a full copy of one agent's components.
type AgentDetail struct {
	Pos    components.Position
	Vitals components.Vitals
	Timers components.Timers
	Traits components.Traits
	Caps   components.Capabilities
	Org    components.Organism
}

// Inspect returns the components of the live agent with the given ID.
// Must be called from the goroutine that steps the game.
func (g *Game) Inspect(id uint32) (AgentDetail, bool) {
	for _, e := range g.pop.order {
		if !g.world.Alive(e) {
			continue
		}
		if g.orgMap.Get(e).ID != id {
			continue
		}
		c := g.cellFor(e)
		return AgentDetail{
			Pos:    c.Pos,
			Vitals: c.Vitals,
			Timers: c.Timers,
			Traits: c.Traits,
			Caps:   c.Caps,
			Org:    c.Org,
		}, true
	}
	return AgentDetail{}, false
}

// Light returns the light model the game samples.
func (g *Game) Light() systems.LightModel {
	return g.light
}
