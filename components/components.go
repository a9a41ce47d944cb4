// Package components defines ECS components for the simulation.
package components

// DeathCause records why an agent left the simulation.
type DeathCause uint8

const (
	CauseNone    DeathCause = iota
	CauseDamage             // health reached zero
	CauseSuicide            // suicide countdown expired
	CauseAging              // lifespan budget exhausted
	CauseCull               // removed by the population cap

	NumDeathCauses = int(CauseCull) + 1
)

// String returns the snake_case name used in logs and CSV output.
func (c DeathCause) String() string {
	switch c {
	case CauseDamage:
		return "damage"
	case CauseSuicide:
		return "suicide"
	case CauseAging:
		return "aging"
	case CauseCull:
		return "cull"
	default:
		return "none"
	}
}

// EnergyItem is a collectible resource dropped where an agent died.
type EnergyItem struct {
	Amount       float32 `inspect:"label,fmt:%.1f"`
	DecayElapsed float32 `inspect:"label,fmt:%.1fs"`
	CanDecay     bool    `inspect:"bool"`
	SourceID     uint32  `inspect:"label"` // ID of the agent whose death produced the item
}
