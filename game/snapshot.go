package game

// AgentView is the read-only presentation state of one agent.
type AgentView struct {
	ID         uint32  `json:"id"`
	X          float32 `json:"x"`
	Y          float32 `json:"y"`
	Health     float32 `json:"health"`
	MaxHealth  float32 `json:"max_health"`
	Energy     float32 `json:"energy"`
	MaxEnergy  float32 `json:"max_energy"`
	BaseSpeed  float32 `json:"base_speed"`
	Generation uint32  `json:"generation"`

	Photosynthesis bool `json:"photosynthesis"`
	GeneratingHeat bool `json:"generating_heat"`
	HarnessHeat    bool `json:"harness_heat"`
	CollectEnergy  bool `json:"collect_energy"`
}

// ItemView is the read-only presentation state of one EnergyItem.
type ItemView struct {
	X      float32 `json:"x"`
	Y      float32 `json:"y"`
	Amount float32 `json:"amount"`
}

// Snapshot is an immutable copy of the world taken at a tick boundary.
type Snapshot struct {
	Tick        int32       `json:"tick"`
	SimTime     float64     `json:"sim_time"`
	WorldWidth  float32     `json:"world_width"`
	WorldHeight float32     `json:"world_height"`
	Agents      []AgentView `json:"agents"`
	Items       []ItemView  `json:"items"`
}

// Population returns the number of agents in the snapshot.
func (s *Snapshot) Population() int {
	return len(s.Agents)
}

// Snapshot returns the latest published snapshot, or nil when snapshots are
// disabled. Safe for concurrent use.
func (g *Game) Snapshot() *Snapshot {
	return g.snapshot.Load()
}

// publishSnapshot builds and atomically publishes the current state.
func (g *Game) publishSnapshot() {
	s := &Snapshot{
		Tick:        g.tick,
		SimTime:     g.simTime,
		WorldWidth:  g.params.WorldW,
		WorldHeight: g.params.WorldH,
		Agents:      make([]AgentView, 0, g.pop.Live()),
	}

	query := g.agentFilter.Query()
	for query.Next() {
		pos, vitals, _, traits, caps, org := query.Get()
		s.Agents = append(s.Agents, AgentView{
			ID:             org.ID,
			X:              pos.X,
			Y:              pos.Y,
			Health:         vitals.Health,
			MaxHealth:      traits.MaxHealth,
			Energy:         vitals.Energy,
			MaxEnergy:      traits.MaxEnergy,
			BaseSpeed:      traits.BaseSpeed,
			Generation:     traits.Generation,
			Photosynthesis: caps.Photosynthesis,
			GeneratingHeat: caps.GeneratingHeat,
			HarnessHeat:    caps.HarnessHeat,
			CollectEnergy:  caps.CollectEnergy,
		})
	}

	items := g.itemFilter.Query()
	for items.Next() {
		pos, item := items.Get()
		s.Items = append(s.Items, ItemView{X: pos.X, Y: pos.Y, Amount: item.Amount})
	}

	g.snapshot.Store(s)
}
