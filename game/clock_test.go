package game

import (
	"testing"

	"github.com/pthm-cable/cellsoup/config"
)

func TestClockStep(t *testing.T) {
	tests := []struct {
		name      string
		cfg       config.ClockConfig
		frameTime float32
		want      float32
	}{
		{"fixed ignores frame time", config.ClockConfig{DT: 0.02, MaxDT: 0.1}, 0.05, 0.02},
		{"measured uses frame time", config.ClockConfig{DT: 0.02, MaxDT: 0.1, Measured: true}, 0.05, 0.05},
		{"measured clamps long frames", config.ClockConfig{DT: 0.02, MaxDT: 0.1, Measured: true}, 0.5, 0.1},
		{"measured without frame time", config.ClockConfig{DT: 0.02, MaxDT: 0.1, Measured: true}, 0, 0.02},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewClock(tt.cfg)
			if got := c.Step(tt.frameTime); got != tt.want {
				t.Errorf("Step(%v) = %v, want %v", tt.frameTime, got, tt.want)
			}
		})
	}
}

func TestClockStepsPerUpdate(t *testing.T) {
	if got := NewClock(config.ClockConfig{DT: 0.1}).StepsPerUpdate(); got != 1 {
		t.Errorf("StepsPerUpdate = %d, want at least 1", got)
	}
	if got := NewClock(config.ClockConfig{DT: 0.1, StepsPerUpdate: 4}).StepsPerUpdate(); got != 4 {
		t.Errorf("StepsPerUpdate = %d, want 4", got)
	}
}

func TestUpdateRunsStepsPerUpdate(t *testing.T) {
	cfg := config.MustLoad("")
	cfg.Population.Initial = 5
	cfg.Clock.StepsPerUpdate = 3

	g, err := New(cfg, Options{Seed: 1})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer g.Close()

	g.UpdateHeadless()
	if g.Tick() != 3 {
		t.Errorf("tick = %d, want 3", g.Tick())
	}
	want := 3 * float64(cfg.Derived.DT32)
	if d := g.SimTime() - want; d > 1e-9 || d < -1e-9 {
		t.Errorf("sim time = %v, want %v", g.SimTime(), want)
	}
}

func TestSetStepsPerUpdate(t *testing.T) {
	cfg := config.MustLoad("")
	cfg.Population.Initial = 0

	g, err := New(cfg, Options{Seed: 1})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer g.Close()

	g.SetStepsPerUpdate(4)
	g.UpdateHeadless()
	if g.Tick() != 4 {
		t.Errorf("tick = %d, want 4", g.Tick())
	}

	g.SetStepsPerUpdate(0)
	if g.StepsPerUpdate() != 1 {
		t.Errorf("steps per update = %d, want 1", g.StepsPerUpdate())
	}
}
