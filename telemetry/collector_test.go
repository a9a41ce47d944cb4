package telemetry

import (
	"testing"

	"github.com/pthm-cable/cellsoup/components"
)

func TestCollectorShouldFlush(t *testing.T) {
	c := NewCollector(1.0, 0.1)
	if c.WindowDurationTicks() != 10 {
		t.Fatalf("window ticks = %d, want 10", c.WindowDurationTicks())
	}
	if c.ShouldFlush(9) {
		t.Error("should not flush before the window ends")
	}
	if !c.ShouldFlush(10) {
		t.Error("should flush at the window end")
	}

	c.Flush(10, 1.0, PopulationSample{})
	if c.ShouldFlush(15) {
		t.Error("window should restart after flush")
	}
}

func TestCollectorFlush(t *testing.T) {
	c := NewCollector(10, 0.1)

	c.RecordBirth()
	c.RecordBirth()
	c.RecordAbandoned(3)
	c.RecordDeath(components.CauseDamage, &LifetimeStats{SurvivalTimeSec: 4, Children: 1})
	c.RecordDeath(components.CauseAging, &LifetimeStats{SurvivalTimeSec: 8, Children: 3})
	c.RecordDeath(components.CauseCull, nil)
	c.RecordItemSpawned()
	c.RecordItemCollected(12.5)
	c.RecordItemDecayed()
	c.RecordHeat(0.5)

	stats := c.Flush(100, 10, PopulationSample{
		Population:  3,
		Energies:    []float64{10, 20, 30},
		Generations: []float64{0, 2, 5},
	})

	if stats.Births != 2 {
		t.Errorf("births = %d, want 2", stats.Births)
	}
	if stats.Abandoned != 3 {
		t.Errorf("abandoned = %d, want 3", stats.Abandoned)
	}
	if stats.DeathsDamage != 1 || stats.DeathsAging != 1 || stats.DeathsCull != 1 || stats.DeathsSuicide != 0 {
		t.Errorf("deaths by cause = %d/%d/%d/%d, want 1/0/1/1",
			stats.DeathsDamage, stats.DeathsSuicide, stats.DeathsAging, stats.DeathsCull)
	}
	if stats.Deaths() != 3 {
		t.Errorf("deaths = %d, want 3", stats.Deaths())
	}
	if stats.MeanLifespanSec != 6 {
		t.Errorf("mean lifespan = %v, want 6", stats.MeanLifespanSec)
	}
	if stats.MeanChildren != 2 {
		t.Errorf("mean children = %v, want 2", stats.MeanChildren)
	}
	if stats.ItemsCollected != 1 || stats.EnergyCollected != 12.5 {
		t.Errorf("collected = %d (%v), want 1 (12.5)", stats.ItemsCollected, stats.EnergyCollected)
	}
	if stats.EnergyMean != 20 {
		t.Errorf("energy mean = %v, want 20", stats.EnergyMean)
	}
	if stats.GenerationMax != 5 {
		t.Errorf("generation max = %v, want 5", stats.GenerationMax)
	}

	next := c.Flush(200, 20, PopulationSample{})
	if next.Births != 0 || next.Deaths() != 0 || next.ItemsSpawned != 0 {
		t.Error("counters should reset after flush")
	}
	if next.WindowStartTick != 100 {
		t.Errorf("window start = %d, want 100", next.WindowStartTick)
	}
}

func TestLifetimeTracker(t *testing.T) {
	lt := NewLifetimeTracker()
	lt.Register(1, 0, 0, 0)
	lt.Register(2, 50, 1, 1)
	lt.Register(3, 60, 1, 1)

	if got := lt.Get(1).Children; got != 2 {
		t.Errorf("parent children = %d, want 2", got)
	}

	lt.UpdateEnergy(2, 40)
	lt.UpdateEnergy(2, 30)
	lt.RecordHeat(2, 0.25)
	lt.RecordCollect(2, 10)

	s := lt.Remove(2, 150, 0.1)
	if s == nil {
		t.Fatal("expected stats for agent 2")
	}
	if s.PeakEnergy != 40 {
		t.Errorf("peak energy = %v, want 40", s.PeakEnergy)
	}
	if s.SurvivalTimeSec != 10 {
		t.Errorf("survival = %v, want 10", s.SurvivalTimeSec)
	}
	if lt.Get(2) != nil {
		t.Error("removed agent should not be tracked")
	}
	if lt.Remove(2, 150, 0.1) != nil {
		t.Error("second remove should return nil")
	}
	if lt.Count() != 2 {
		t.Errorf("count = %d, want 2", lt.Count())
	}
}
