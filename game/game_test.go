package game

import (
	"errors"
	"math"
	"reflect"
	"testing"

	"github.com/pthm-cable/cellsoup/components"
	"github.com/pthm-cable/cellsoup/config"
	"github.com/pthm-cable/cellsoup/systems"
	"github.com/pthm-cable/cellsoup/telemetry"
)

type itemEvent struct {
	sourceID    uint32
	collectorID uint32
	amount      float32
}

// recorder is a Listener that keeps every notification.
type recorder struct {
	spawned   []uint32
	despawned map[uint32]components.DeathCause
	dropped   []itemEvent
	gone      []itemEvent
}

func newRecorder() *recorder {
	return &recorder{despawned: make(map[uint32]components.DeathCause)}
}

func (r *recorder) AgentSpawned(id uint32, _ components.Position) {
	r.spawned = append(r.spawned, id)
}

func (r *recorder) AgentDespawned(id uint32, cause components.DeathCause) {
	r.despawned[id] = cause
}

func (r *recorder) ItemSpawned(sourceID uint32, _ components.Position, amount float32) {
	r.dropped = append(r.dropped, itemEvent{sourceID: sourceID, amount: amount})
}

func (r *recorder) ItemDespawned(sourceID, collectorID uint32, amount float32) {
	r.gone = append(r.gone, itemEvent{sourceID: sourceID, collectorID: collectorID, amount: amount})
}

// newTestGame builds an empty world; agents are added with addAgent.
func newTestGame(t *testing.T, mutate func(*config.Config)) (*Game, *recorder) {
	t.Helper()
	cfg, err := config.Load("")
	if err != nil {
		t.Fatalf("loading defaults: %v", err)
	}
	cfg.Population.Initial = 0
	if mutate != nil {
		mutate(cfg)
	}
	rec := newRecorder()
	g, err := New(cfg, Options{Seed: 1, Listener: rec, Snapshots: true})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { g.Close() })
	return g, rec
}

// addAgent registers a founder at (x, y) after applying mutate.
func addAgent(g *Game, x, y float32, mutate func(c *systems.Cell)) systems.Cell {
	f := &g.cfg.Founder
	c := systems.Cell{
		Pos:    components.Position{X: x, Y: y},
		Traits: components.TraitsFromFounder(f),
		Caps:   components.CapabilitiesFromFounder(f),
	}
	c.Timers.ReproductionCooldown = g.params.FounderReproCooldown
	c.Initialize(&g.params, g.rng)
	c.Traits.ReproductionThreshold = 1e9
	if mutate != nil {
		mutate(&c)
	}
	g.registerAgent(&c)
	return c
}

func findAgent(s *Snapshot, id uint32) (AgentView, bool) {
	for _, a := range s.Agents {
		if a.ID == id {
			return a, true
		}
	}
	return AgentView{}, false
}

func TestNewMissingCollaborator(t *testing.T) {
	t.Run("nil config", func(t *testing.T) {
		_, err := New(nil, Options{})
		if !errors.Is(err, ErrMissingCollaborator) {
			t.Errorf("err = %v, want ErrMissingCollaborator", err)
		}
	})

	t.Run("unknown light model", func(t *testing.T) {
		cfg := config.MustLoad("")
		cfg.Environment.Light.Model = "laser"
		_, err := New(cfg, Options{})
		if !errors.Is(err, ErrMissingCollaborator) {
			t.Errorf("err = %v, want ErrMissingCollaborator", err)
		}
	})
}

func TestNewSeedsFounders(t *testing.T) {
	cfg := config.MustLoad("")
	cfg.Population.Initial = 25
	g, err := New(cfg, Options{Seed: 3, Snapshots: true})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer g.Close()

	if g.Population() != 25 {
		t.Fatalf("population = %d, want 25", g.Population())
	}
	for _, a := range g.Snapshot().Agents {
		if a.Health != a.MaxHealth {
			t.Errorf("agent %d health = %f, want %f", a.ID, a.Health, a.MaxHealth)
		}
		if a.Energy != a.MaxEnergy/4 {
			t.Errorf("agent %d energy = %f, want %f", a.ID, a.Energy, a.MaxEnergy/4)
		}
		if a.X < 0 || a.X >= cfg.Derived.WorldW32 || a.Y < 0 || a.Y >= cfg.Derived.WorldH32 {
			t.Errorf("agent %d at (%f, %f) outside the world", a.ID, a.X, a.Y)
		}
	}
}

func TestStepReproduction(t *testing.T) {
	g, rec := newTestGame(t, nil)
	parent := addAgent(g, 100, 100, func(c *systems.Cell) {
		c.Vitals.Energy = 80
		c.Traits.ReproductionThreshold = 75
		c.Traits.ReproductionEnergyCost = 30
		c.Caps.CanSuicide = false
	})

	g.Step(1.0 / 60)

	if g.Population() != 2 {
		t.Fatalf("population = %d, want 2", g.Population())
	}
	if len(rec.spawned) != 2 {
		t.Fatalf("spawn notifications = %d, want 2", len(rec.spawned))
	}

	s := g.Snapshot()
	p, ok := findAgent(s, parent.Org.ID)
	if !ok {
		t.Fatal("parent missing from snapshot")
	}
	// 80 - 2*30 plus small photosynthesis and heat adjustments
	if p.Energy < 19.9 || p.Energy > 20.2 {
		t.Errorf("parent energy = %f, want ~20", p.Energy)
	}

	child, ok := findAgent(s, rec.spawned[1])
	if !ok {
		t.Fatal("child missing from snapshot")
	}
	if child.Generation != 1 {
		t.Errorf("child generation = %d, want 1", child.Generation)
	}
	if child.Energy < 19.9 || child.Energy > 20.2 {
		t.Errorf("child energy = %f, want ~20", child.Energy)
	}
}

func TestStepReproductionGate(t *testing.T) {
	tests := []struct {
		name    string
		gate    int
		wantPop int
	}{
		{"above gate", 3, 5},
		{"within gate", 10, 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, _ := newTestGame(t, func(cfg *config.Config) {
				cfg.Population.ReproductionGate = tt.gate
			})
			for i := 0; i < 5; i++ {
				addAgent(g, float32(30*i+20), 90, func(c *systems.Cell) {
					c.Vitals.Energy = 80
					c.Traits.ReproductionThreshold = 75
					c.Traits.ReproductionEnergyCost = 1
				})
			}

			g.Step(0.1)

			if g.Population() != tt.wantPop {
				t.Errorf("population = %d, want %d", g.Population(), tt.wantPop)
			}
		})
	}
}

func TestStepPopulationCap(t *testing.T) {
	g, rec := newTestGame(t, func(cfg *config.Config) {
		cfg.Population.AbsoluteCap = 5
	})
	for i := 0; i < 8; i++ {
		addAgent(g, float32(30*i+10), 50, nil)
	}

	g.Step(0.1)

	if g.Population() != 5 {
		t.Fatalf("population = %d, want 5", g.Population())
	}
	for id := uint32(1); id <= 3; id++ {
		if cause, ok := rec.despawned[id]; !ok || cause != components.CauseCull {
			t.Errorf("agent %d: despawned=%v cause=%v, want culled", id, ok, cause)
		}
	}
	for id := uint32(4); id <= 8; id++ {
		if _, ok := rec.despawned[id]; ok {
			t.Errorf("agent %d should have survived the cull", id)
		}
	}
	if g.ItemCount() != 3 {
		t.Errorf("items = %d, want one per culled agent", g.ItemCount())
	}
}

func TestDeathDropsItemUntilDecay(t *testing.T) {
	g, rec := newTestGame(t, nil)
	victim := addAgent(g, 60, 60, func(c *systems.Cell) {
		c.Vitals.Energy = 42
		c.Timers.SuicideTimer = 0.001
		c.Caps.CanSuicide = true
	})

	g.Step(0.1)

	if g.Population() != 0 {
		t.Fatalf("population = %d, want 0", g.Population())
	}
	if rec.despawned[victim.Org.ID] != components.CauseSuicide {
		t.Errorf("cause = %v, want suicide", rec.despawned[victim.Org.ID])
	}
	if len(rec.dropped) != 1 {
		t.Fatalf("items dropped = %d, want 1", len(rec.dropped))
	}
	// 42 plus one step of photosynthesis, no heat exchange before death
	if math.Abs(float64(rec.dropped[0].amount-42.15)) > 1e-3 {
		t.Errorf("item amount = %f, want 42.15", rec.dropped[0].amount)
	}
	if rec.dropped[0].sourceID != victim.Org.ID {
		t.Errorf("item source = %d, want %d", rec.dropped[0].sourceID, victim.Org.ID)
	}

	for i := 0; i < 600 && g.ItemCount() > 0; i++ {
		g.Step(0.1)
	}
	if g.ItemCount() != 0 {
		t.Fatal("item should decay after 60 seconds")
	}
	if len(rec.gone) != 1 || rec.gone[0].collectorID != 0 {
		t.Errorf("despawn events = %+v, want one decay", rec.gone)
	}
}

func TestItemCollectedOnce(t *testing.T) {
	g, rec := newTestGame(t, nil)
	near := addAgent(g, 100.3, 100, func(c *systems.Cell) {
		c.Caps.CollectEnergy = true
		c.Vitals.Energy = 50
	})
	addAgent(g, 100, 100.6, func(c *systems.Cell) {
		c.Caps.CollectEnergy = true
		c.Vitals.Energy = 50
	})
	addAgent(g, 100.1, 100, nil) // nearest, but cannot collect

	pos := components.Position{X: 100, Y: 100}
	item := components.EnergyItem{Amount: 30, CanDecay: true, SourceID: 99}
	g.itemMapper.NewEntity(&pos, &item)

	g.Step(0.1)

	if g.ItemCount() != 0 {
		t.Fatalf("items = %d, want 0", g.ItemCount())
	}
	if len(rec.gone) != 1 {
		t.Fatalf("item despawns = %d, want 1", len(rec.gone))
	}
	if rec.gone[0].collectorID != near.Org.ID {
		t.Errorf("collector = %d, want nearest collector %d", rec.gone[0].collectorID, near.Org.ID)
	}

	a, _ := findAgent(g.Snapshot(), near.Org.ID)
	if a.Energy < 79 || a.Energy > 81 {
		t.Errorf("collector energy = %f, want ~80", a.Energy)
	}

	g.Step(0.1)
	if len(rec.gone) != 1 {
		t.Error("item must not be collected twice")
	}
}

func TestItemCollectionClampsEnergy(t *testing.T) {
	g, _ := newTestGame(t, nil)
	c := addAgent(g, 10, 10, func(c *systems.Cell) {
		c.Caps.CollectEnergy = true
		c.Vitals.Energy = 95
	})
	pos := components.Position{X: 10, Y: 10.5}
	item := components.EnergyItem{Amount: 30, CanDecay: true}
	g.itemMapper.NewEntity(&pos, &item)

	g.Step(0.1)

	a, _ := findAgent(g.Snapshot(), c.Org.ID)
	if a.Energy != a.MaxEnergy {
		t.Errorf("energy = %f, want clamped to %f", a.Energy, a.MaxEnergy)
	}
}

func TestStepKeepsAgentsConsistent(t *testing.T) {
	cfg := config.MustLoad("")
	cfg.Population.Initial = 300
	cfg.Population.AbsoluteCap = 400
	cfg.Reproduction.ChildInit = "reinitialize"
	cfg.Mutation.HarnessToggle = 0.2
	cfg.Mutation.CollectToggle = 0.2
	cfg.Mutation.PhotosynthesisToggle = 0.2

	g, err := New(cfg, Options{Seed: 11, Snapshots: true})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer g.Close()

	for i := 0; i < 200; i++ {
		g.Step(0.1)

		if g.Population() > cfg.Population.AbsoluteCap {
			t.Fatalf("tick %d: population %d above cap", g.Tick(), g.Population())
		}
		s := g.Snapshot()
		if s.Population() != g.Population() {
			t.Fatalf("tick %d: snapshot has %d agents, population %d", g.Tick(), s.Population(), g.Population())
		}
		for _, a := range s.Agents {
			if a.Energy < 0 || a.Energy > a.MaxEnergy {
				t.Fatalf("tick %d: agent %d energy %f outside [0, %f]", g.Tick(), a.ID, a.Energy, a.MaxEnergy)
			}
			if a.Health > a.MaxHealth || a.Health <= 0 {
				t.Fatalf("tick %d: agent %d health %f outside (0, %f]", g.Tick(), a.ID, a.Health, a.MaxHealth)
			}
		}
	}
}

func TestStepDeterministic(t *testing.T) {
	run := func() *Snapshot {
		cfg := config.MustLoad("")
		cfg.Population.Initial = 200
		cfg.Reproduction.ChildInit = "reinitialize"
		g, err := New(cfg, Options{Seed: 5, Snapshots: true})
		if err != nil {
			t.Fatalf("New: %v", err)
		}
		defer g.Close()
		for i := 0; i < 60; i++ {
			g.Step(0.1)
		}
		return g.Snapshot()
	}

	a, b := run(), run()
	if !reflect.DeepEqual(a, b) {
		t.Error("same seed produced different worlds")
	}
}

func TestStatsWindowFlush(t *testing.T) {
	cfg := config.MustLoad("")
	cfg.Population.Initial = 10
	cfg.Telemetry.StatsWindow = 1
	cfg.Clock.DT = 0.1
	cfg.Derived.DT32 = 0.1

	var windows []telemetry.WindowStats
	g, err := New(cfg, Options{
		Seed:          2,
		StatsCallback: func(s telemetry.WindowStats) { windows = append(windows, s) },
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer g.Close()

	for i := 0; i < 25; i++ {
		g.UpdateHeadless()
	}

	if len(windows) != 2 {
		t.Fatalf("flushed windows = %d, want 2", len(windows))
	}
	if windows[0].WindowEndTick != 10 || windows[1].WindowEndTick != 20 {
		t.Errorf("window ends = %d, %d, want 10, 20", windows[0].WindowEndTick, windows[1].WindowEndTick)
	}
	if windows[0].Population == 0 {
		t.Error("window population should be sampled")
	}
	if g.LastStats().WindowEndTick != 20 {
		t.Errorf("LastStats window end = %d, want 20", g.LastStats().WindowEndTick)
	}
}

func TestInspect(t *testing.T) {
	g, _ := newTestGame(t, nil)
	addAgent(g, 10, 10, nil)
	b := addAgent(g, 40, 50, func(c *systems.Cell) {
		c.Caps.CollectEnergy = true
		c.Vitals.Energy = 33
	})

	d, ok := g.Inspect(b.Org.ID)
	if !ok {
		t.Fatalf("Inspect(%d) not found", b.Org.ID)
	}
	if d.Pos != b.Pos {
		t.Errorf("Pos = %+v, want %+v", d.Pos, b.Pos)
	}
	if !d.Caps.CollectEnergy || d.Vitals.Energy != 33 {
		t.Errorf("detail = %+v, want collector with energy 33", d)
	}

	if _, ok := g.Inspect(999); ok {
		t.Error("Inspect(999) found an agent")
	}
}
