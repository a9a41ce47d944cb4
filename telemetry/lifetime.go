package telemetry

// LifetimeStats tracks per-agent statistics over its lifetime.
type LifetimeStats struct {
	BirthTick       int32
	SurvivalTimeSec float32

	ParentID   uint32 // zero for founders
	Generation uint32
	Children   int

	PeakEnergy      float32
	HeatReceived    float32
	EnergyCollected float32
}

// LifetimeTracker manages per-agent lifetime statistics keyed by agent ID.
type LifetimeTracker struct {
	stats map[uint32]*LifetimeStats
}

// NewLifetimeTracker creates a new lifetime tracker.
func NewLifetimeTracker() *LifetimeTracker {
	return &LifetimeTracker{
		stats: make(map[uint32]*LifetimeStats),
	}
}

// Register starts tracking a newly registered agent.
func (lt *LifetimeTracker) Register(id uint32, birthTick int32, parentID, generation uint32) {
	lt.stats[id] = &LifetimeStats{
		BirthTick:  birthTick,
		ParentID:   parentID,
		Generation: generation,
	}
	if parentID != 0 {
		lt.RecordChild(parentID)
	}
}

// Get returns the lifetime stats for an agent, or nil if not found.
func (lt *LifetimeTracker) Get(id uint32) *LifetimeStats {
	return lt.stats[id]
}

// Remove stops tracking an agent and returns its final stats with the
// survival time filled in.
func (lt *LifetimeTracker) Remove(id uint32, currentTick int32, dt float32) *LifetimeStats {
	s := lt.stats[id]
	if s == nil {
		return nil
	}
	delete(lt.stats, id)
	s.SurvivalTimeSec = float32(currentTick-s.BirthTick) * dt
	return s
}

// RecordChild increments the children count.
func (lt *LifetimeTracker) RecordChild(parentID uint32) {
	if s := lt.stats[parentID]; s != nil {
		s.Children++
	}
}

// RecordHeat adds harvested heat energy.
func (lt *LifetimeTracker) RecordHeat(id uint32, amount float32) {
	if s := lt.stats[id]; s != nil {
		s.HeatReceived += amount
	}
}

// RecordCollect adds energy collected from items.
func (lt *LifetimeTracker) RecordCollect(id uint32, amount float32) {
	if s := lt.stats[id]; s != nil {
		s.EnergyCollected += amount
	}
}

// UpdateEnergy tracks peak energy.
func (lt *LifetimeTracker) UpdateEnergy(id uint32, energy float32) {
	if s := lt.stats[id]; s != nil && energy > s.PeakEnergy {
		s.PeakEnergy = energy
	}
}

// Count returns the number of tracked agents.
func (lt *LifetimeTracker) Count() int {
	return len(lt.stats)
}
