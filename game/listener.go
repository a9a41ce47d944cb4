package game

import "github.com/pthm-cable/cellsoup/components"

// Listener receives spawn and despawn notifications. Calls happen on the
// simulation goroutine during the apply and item phases of a tick.
type Listener interface {
	AgentSpawned(id uint32, pos components.Position)
	AgentDespawned(id uint32, cause components.DeathCause)
	ItemSpawned(sourceID uint32, pos components.Position, amount float32)
	// ItemDespawned reports an item leaving the world. collectorID is zero
	// when the item decayed.
	ItemDespawned(sourceID uint32, collectorID uint32, amount float32)
}

// NopListener ignores all notifications.
type NopListener struct{}

func (NopListener) AgentSpawned(uint32, components.Position) {}
func (NopListener) AgentDespawned(uint32, components.DeathCause) {}
func (NopListener) ItemSpawned(uint32, components.Position, float32) {}
func (NopListener) ItemDespawned(uint32, uint32, float32) {}

type multiListener []Listener

// Listeners fans notifications out to every non-nil listener in order.
func Listeners(ls ...Listener) Listener {
	out := make(multiListener, 0, len(ls))
	for _, l := range ls {
		if l != nil {
			out = append(out, l)
		}
	}
	if len(out) == 0 {
		return NopListener{}
	}
	if len(out) == 1 {
		return out[0]
	}
	return out
}

func (m multiListener) AgentSpawned(id uint32, pos components.Position) {
	for _, l := range m {
		l.AgentSpawned(id, pos)
	}
}

func (m multiListener) AgentDespawned(id uint32, cause components.DeathCause) {
	for _, l := range m {
		l.AgentDespawned(id, cause)
	}
}

func (m multiListener) ItemSpawned(sourceID uint32, pos components.Position, amount float32) {
	for _, l := range m {
		l.ItemSpawned(sourceID, pos, amount)
	}
}

func (m multiListener) ItemDespawned(sourceID, collectorID uint32, amount float32) {
	for _, l := range m {
		l.ItemDespawned(sourceID, collectorID, amount)
	}
}
