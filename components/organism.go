package components

// Vitals tracks an agent's resource state and lifespan budget.
// Health and Energy are bounded by the agent's MaxHealth and MaxEnergy traits.
// RemainingHealth and RemainingEnergy decay with age; either reaching zero is a natural death.
type Vitals struct {
	Health          float32 `inspect:"label,fmt:%.1f"`
	Energy          float32 `inspect:"label,fmt:%.1f"`
	RemainingHealth float32 `inspect:"label,fmt:%.1f"`
	RemainingEnergy float32 `inspect:"label,fmt:%.1f"`
}

// Timers holds the agent's reproduction and suicide clocks, in seconds.
type Timers struct {
	SinceReproduction    float32 `inspect:"label,fmt:%.1fs"`
	ReproductionCooldown float32 `inspect:"label,fmt:%.1fs"`
	SuicideTimer         float32 `inspect:"label,fmt:%.1fs"`
}

// Organism bundles identity and transient bookkeeping.
type Organism struct {
	ID            uint32 `inspect:"label"` // registration identity, increases monotonically
	ParentID      uint32 `inspect:"label"` // zero for founders
	BirthTick     int32  `inspect:"label"`
	SpawnFailures int32  `inspect:"label"` // occupied-slot retries in the current reproduction attempt
}
