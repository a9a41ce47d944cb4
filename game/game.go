// Package game wires the agent rules to the ECS world and runs the tick loop.
package game

import (
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"sync/atomic"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/cellsoup/components"
	"github.com/pthm-cable/cellsoup/config"
	"github.com/pthm-cable/cellsoup/systems"
	"github.com/pthm-cable/cellsoup/telemetry"
)

// ErrMissingCollaborator is returned by New when a required collaborator
// is absent or cannot be built. It is the only fatal startup condition.
var ErrMissingCollaborator = errors.New("missing required collaborator")

// Options configures optional collaborators and outputs.
type Options struct {
	Seed      int64
	LogStats  bool   // log window stats to slog
	OutputDir string // CSV output directory, empty disables

	Light    systems.LightModel   // nil builds one from config
	Index    systems.SpatialIndex // nil builds a SpatialGrid from config
	Listener Listener

	Snapshots     bool // publish a Snapshot after every tick
	StatsCallback func(telemetry.WindowStats)
}

// Game holds the complete simulation state.
type Game struct {
	cfg        *config.Config
	params     systems.Params
	itemParams systems.ItemParams
	clock      Clock

	world *ecs.World
	rng   *rand.Rand
	seed  int64

	agentMapper *ecs.Map6[
		components.Position,
		components.Vitals,
		components.Timers,
		components.Traits,
		components.Capabilities,
		components.Organism,
	]
	agentFilter *ecs.Filter6[
		components.Position,
		components.Vitals,
		components.Timers,
		components.Traits,
		components.Capabilities,
		components.Organism,
	]
	itemMapper *ecs.Map2[components.Position, components.EnergyItem]
	itemFilter *ecs.Filter2[components.Position, components.EnergyItem]

	posMap    *ecs.Map1[components.Position]
	vitalsMap *ecs.Map1[components.Vitals]
	traitsMap *ecs.Map1[components.Traits]
	capsMap   *ecs.Map1[components.Capabilities]
	orgMap    *ecs.Map1[components.Organism]
	itemMap   *ecs.Map1[components.EnergyItem]

	light    systems.LightModel
	index    systems.SpatialIndex
	pop      *Population
	gate     *populationGate
	listener Listener

	// Per-tick working state
	parallel   *parallelState
	peers      []systems.Cell // tick-start state
	cells      []systems.Cell // working copies
	items      []itemRef
	neighbors  []systems.Neighbor
	collectors []bool

	// Telemetry
	collector     *telemetry.Collector
	lifetimes     *telemetry.LifetimeTracker
	perf          *telemetry.PerfCollector
	output        *telemetry.OutputManager
	deathLog      []telemetry.DeathRecord
	logStats      bool
	statsCallback func(telemetry.WindowStats)
	lastStats     telemetry.WindowStats

	snapshots bool
	snapshot  atomic.Pointer[Snapshot]

	tick    int32
	simTime float64
}

// New creates a game and seeds the founder population.
func New(cfg *config.Config, opts Options) (*Game, error) {
	if cfg == nil {
		return nil, fmt.Errorf("%w: configuration", ErrMissingCollaborator)
	}

	light := opts.Light
	if light == nil {
		var err error
		light, err = NewLightModel(cfg.Environment.Light, opts.Seed)
		if err != nil {
			return nil, err
		}
	}

	index := opts.Index
	if index == nil {
		index = systems.NewSpatialGrid(cfg.Derived.WorldW32, cfg.Derived.WorldH32, float32(cfg.World.GridCellSize))
	}

	output, err := telemetry.NewOutputManager(opts.OutputDir)
	if err != nil {
		return nil, fmt.Errorf("creating output manager: %w", err)
	}
	if err := output.WriteConfig(cfg); err != nil {
		output.Close()
		return nil, fmt.Errorf("writing config: %w", err)
	}

	world := ecs.NewWorld()
	g := &Game{
		cfg:    cfg,
		params: systems.NewParams(cfg),
		itemParams: systems.ItemParams{
			DecaySeconds:  float32(cfg.Item.DecaySeconds),
			DefaultAmount: float32(cfg.Item.DefaultAmount),
			CollectRadius: float32(cfg.Item.CollectRadius),
		},
		clock: NewClock(cfg.Clock),
		world: world,
		rng:   rand.New(rand.NewSource(opts.Seed)),
		seed:  opts.Seed,

		agentMapper: ecs.NewMap6[
			components.Position,
			components.Vitals,
			components.Timers,
			components.Traits,
			components.Capabilities,
			components.Organism,
		](world),
		agentFilter: ecs.NewFilter6[
			components.Position,
			components.Vitals,
			components.Timers,
			components.Traits,
			components.Capabilities,
			components.Organism,
		](world),
		itemMapper: ecs.NewMap2[components.Position, components.EnergyItem](world),
		itemFilter: ecs.NewFilter2[components.Position, components.EnergyItem](world),

		posMap:    ecs.NewMap1[components.Position](world),
		vitalsMap: ecs.NewMap1[components.Vitals](world),
		traitsMap: ecs.NewMap1[components.Traits](world),
		capsMap:   ecs.NewMap1[components.Capabilities](world),
		orgMap:    ecs.NewMap1[components.Organism](world),
		itemMap:   ecs.NewMap1[components.EnergyItem](world),

		light:    light,
		index:    index,
		pop:      newPopulation(),
		gate:     &populationGate{limit: int64(cfg.Population.ReproductionGate)},
		listener: Listeners(opts.Listener),
		parallel: newParallelState(),

		collector:     telemetry.NewCollector(cfg.Telemetry.StatsWindow, cfg.Derived.DT32),
		lifetimes:     telemetry.NewLifetimeTracker(),
		perf:          telemetry.NewPerfCollector(cfg.Telemetry.PerfCollectorWindow),
		output:        output,
		logStats:      opts.LogStats,
		statsCallback: opts.StatsCallback,
		snapshots:     opts.Snapshots,
	}

	g.spawnFounders()
	if g.snapshots {
		g.publishSnapshot()
	}

	return g, nil
}

// NewLightModel builds the configured light model.
func NewLightModel(c config.LightConfig, seed int64) (systems.LightModel, error) {
	switch c.Model {
	case "", "constant":
		return systems.ConstantLight(c.Intensity), nil
	case "noise":
		return systems.NewNoiseLight(seed, c.Intensity, c.Amplitude, c.Scale), nil
	default:
		return nil, fmt.Errorf("%w: light model %q", ErrMissingCollaborator, c.Model)
	}
}

// Update runs StepsPerUpdate ticks. frameTime is the wall-clock duration of
// the last frame and is only used by a measured clock.
func (g *Game) Update(frameTime float32) {
	dt := g.clock.Step(frameTime)
	for i := 0; i < g.clock.StepsPerUpdate(); i++ {
		g.Step(dt)
	}
}

// SetStepsPerUpdate changes the number of ticks run per Update, minimum 1.
func (g *Game) SetStepsPerUpdate(n int) {
	g.clock.steps = max(n, 1)
}

// StepsPerUpdate returns the number of ticks run per Update.
func (g *Game) StepsPerUpdate() int {
	return g.clock.StepsPerUpdate()
}

// UpdateHeadless runs StepsPerUpdate ticks at the fixed dt.
func (g *Game) UpdateHeadless() {
	g.Update(0)
}

// Tick returns the number of completed ticks.
func (g *Game) Tick() int32 {
	return g.tick
}

// SimTime returns the simulated seconds elapsed.
func (g *Game) SimTime() float64 {
	return g.simTime
}

// Population returns the live agent count.
func (g *Game) Population() int {
	return g.pop.Live()
}

// Config returns the configuration the game was built with.
func (g *Game) Config() *config.Config {
	return g.cfg
}

// LastStats returns the most recently flushed telemetry window.
func (g *Game) LastStats() telemetry.WindowStats {
	return g.lastStats
}

// PerfStats returns timing statistics for recent ticks.
func (g *Game) PerfStats() telemetry.PerfStats {
	return g.perf.Stats()
}

// RecordFrame records a rendered frame for FPS reporting.
func (g *Game) RecordFrame() {
	g.perf.RecordFrame()
}

// Close stops the worker pool and closes output files.
func (g *Game) Close() error {
	g.parallel.stopWorkers()
	if err := g.output.WriteDeaths(g.deathLog); err != nil {
		slog.Error("failed to write deaths", "error", err)
	}
	g.deathLog = g.deathLog[:0]
	return g.output.Close()
}
