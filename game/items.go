package game

import (
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/cellsoup/components"
	"github.com/pthm-cable/cellsoup/systems"
)

type itemRef struct {
	entity ecs.Entity
	pos    components.Position
	item   components.EnergyItem
}

// updateItems advances item decay and hands items to the nearest collector.
// The spatial index must reflect the post-apply population.
func (g *Game) updateItems(dt float32) {
	g.items = g.items[:0]
	query := g.itemFilter.Query()
	for query.Next() {
		pos, item := query.Get()
		g.items = append(g.items, itemRef{entity: query.Entity(), pos: *pos, item: *item})
	}

	radius := g.itemParams.CollectRadius
	for i := range g.items {
		ref := &g.items[i]

		if systems.UpdateItem(&ref.item, dt, g.itemParams) {
			g.world.RemoveEntity(ref.entity)
			g.collector.RecordItemDecayed()
			g.listener.ItemDespawned(ref.item.SourceID, 0, ref.item.Amount)
			continue
		}

		var best systems.Neighbor
		var found bool
		best, g.neighbors, found = systems.NearestCollector(g.index, g.neighbors, ref.pos.X, ref.pos.Y, radius, g.canCollect)
		if !found {
			*g.itemMap.Get(ref.entity) = ref.item
			continue
		}

		g.giveEnergy(best.E, ref.item.Amount)
		g.world.RemoveEntity(ref.entity)
		g.collector.RecordItemCollected(ref.item.Amount)
		collectorID := g.orgMap.Get(best.E).ID
		g.lifetimes.RecordCollect(collectorID, ref.item.Amount)
		g.listener.ItemDespawned(ref.item.SourceID, collectorID, ref.item.Amount)
	}
}

func (g *Game) canCollect(n systems.Neighbor) bool {
	return int(n.Slot) < len(g.collectors) && g.collectors[n.Slot]
}

// giveEnergy adds collected energy, bounded by the collector's MaxEnergy.
func (g *Game) giveEnergy(e ecs.Entity, amount float32) {
	vitals := g.vitalsMap.Get(e)
	traits := g.traitsMap.Get(e)
	vitals.Energy += amount
	if vitals.Energy > traits.MaxEnergy {
		vitals.Energy = traits.MaxEnergy
	}
	if vitals.Energy < 0 {
		vitals.Energy = 0
	}
}

// ItemCount returns the number of EnergyItems in the world.
func (g *Game) ItemCount() int {
	n := 0
	query := g.itemFilter.Query()
	for query.Next() {
		n++
	}
	return n
}
