package systems

// PopulationGate guards reproduction by live population.
// Implementations must be safe for concurrent use.
type PopulationGate interface {
	// Open reports whether the live population is within the reproduction gate.
	Open() bool
	// Commit records one committed birth.
	Commit()
}

// Effects collects the cross-agent results of agent updates. Each worker owns
// one Effects value; the game merges them in a fixed order after the update phase.
type Effects struct {
	Heat      []HeatTransfer
	Births    []Cell
	Abandoned int // reproductions given up after exhausting retries

	neighbors []Neighbor
}

// Reset empties the buffers while keeping their capacity.
func (fx *Effects) Reset() {
	fx.Heat = fx.Heat[:0]
	fx.Births = fx.Births[:0]
	fx.Abandoned = 0
}
