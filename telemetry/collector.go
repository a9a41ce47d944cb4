package telemetry

import (
	"math"

	"github.com/pthm-cable/cellsoup/components"
)

// PopulationSample is the live state sampled when a window is flushed.
type PopulationSample struct {
	Population        int
	Items             int
	Photosynthesizers int
	HeatGenerators    int
	HeatHarvesters    int
	Collectors        int

	Energies    []float64
	Generations []float64
	BaseSpeeds  []float64
}

// Collector accumulates events within time windows and produces WindowStats.
type Collector struct {
	windowDurationTicks int32
	dt                  float32

	windowStartTick int32

	births         int
	abandoned      int
	deaths         [components.NumDeathCauses]int
	itemsSpawned   int
	itemsCollected int
	itemsDecayed   int

	energyCollected float64
	heatTransferred float64

	lifespanSum float64
	childrenSum int
	lifetimes   int
}

// NewCollector creates a new stats collector.
// windowDurationSec: how long each stats window lasts in simulation seconds
// dt: nominal seconds per tick
func NewCollector(windowDurationSec float64, dt float32) *Collector {
	ticksPerWindow := int32(math.Round(windowDurationSec / float64(dt)))
	if ticksPerWindow < 1 {
		ticksPerWindow = 1
	}
	return &Collector{
		windowDurationTicks: ticksPerWindow,
		dt:                  dt,
	}
}

// RecordBirth records a registered offspring.
func (c *Collector) RecordBirth() {
	c.births++
}

// RecordAbandoned records reproductions given up after exhausting retries.
func (c *Collector) RecordAbandoned(n int) {
	c.abandoned += n
}

// RecordDeath records a death and the lifetime of the agent that died.
func (c *Collector) RecordDeath(cause components.DeathCause, life *LifetimeStats) {
	if int(cause) < len(c.deaths) {
		c.deaths[cause]++
	}
	if life != nil {
		c.lifespanSum += float64(life.SurvivalTimeSec)
		c.childrenSum += life.Children
		c.lifetimes++
	}
}

// RecordItemSpawned records an EnergyItem dropped by a death.
func (c *Collector) RecordItemSpawned() {
	c.itemsSpawned++
}

// RecordItemCollected records an item consumed by an agent.
func (c *Collector) RecordItemCollected(amount float32) {
	c.itemsCollected++
	c.energyCollected += float64(amount)
}

// RecordItemDecayed records an item destroyed by decay.
func (c *Collector) RecordItemDecayed() {
	c.itemsDecayed++
}

// RecordHeat adds delivered heat energy.
func (c *Collector) RecordHeat(amount float32) {
	c.heatTransferred += float64(amount)
}

// ShouldFlush returns true if enough ticks have passed to flush the window.
func (c *Collector) ShouldFlush(currentTick int32) bool {
	return currentTick-c.windowStartTick >= c.windowDurationTicks
}

// Flush produces a WindowStats and resets counters for the next window.
func (c *Collector) Flush(currentTick int32, simTimeSec float64, s PopulationSample) WindowStats {
	energy := ComputeDistribution(s.Energies)
	gen := ComputeDistribution(s.Generations)
	speed := ComputeDistribution(s.BaseSpeeds)

	stats := WindowStats{
		WindowStartTick: c.windowStartTick,
		WindowEndTick:   currentTick,
		SimTimeSec:      simTimeSec,

		Population:        s.Population,
		Items:             s.Items,
		Photosynthesizers: s.Photosynthesizers,
		HeatGenerators:    s.HeatGenerators,
		HeatHarvesters:    s.HeatHarvesters,
		Collectors:        s.Collectors,

		Births:         c.births,
		Abandoned:      c.abandoned,
		DeathsDamage:   c.deaths[components.CauseDamage],
		DeathsSuicide:  c.deaths[components.CauseSuicide],
		DeathsAging:    c.deaths[components.CauseAging],
		DeathsCull:     c.deaths[components.CauseCull],
		ItemsSpawned:   c.itemsSpawned,
		ItemsCollected: c.itemsCollected,
		ItemsDecayed:   c.itemsDecayed,

		EnergyCollected: c.energyCollected,
		HeatTransferred: c.heatTransferred,

		EnergyMean: energy.Mean,
		EnergyStd:  energy.Std,
		EnergyP10:  energy.P10,
		EnergyP50:  energy.P50,
		EnergyP90:  energy.P90,

		GenerationMean: gen.Mean,
		GenerationMax:  gen.Max,

		BaseSpeedMean: speed.Mean,
	}
	if c.lifetimes > 0 {
		stats.MeanLifespanSec = c.lifespanSum / float64(c.lifetimes)
		stats.MeanChildren = float64(c.childrenSum) / float64(c.lifetimes)
	}

	c.reset(currentTick)
	return stats
}

func (c *Collector) reset(tick int32) {
	*c = Collector{
		windowDurationTicks: c.windowDurationTicks,
		dt:                  c.dt,
		windowStartTick:     tick,
	}
}

// WindowDurationTicks returns the number of ticks per window.
func (c *Collector) WindowDurationTicks() int32 {
	return c.windowDurationTicks
}
