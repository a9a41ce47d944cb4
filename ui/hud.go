package ui

import (
	"fmt"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/cellsoup/telemetry"
)

// HUDData holds the values shown in the main heads-up display.
type HUDData struct {
	Title             string
	Tick              int32
	SimTime           float64
	Population        int
	Items             int
	Photosynthesizers int
	HeatGenerators    int
	HeatHarvesters    int
	Collectors        int
	Speed             int
	FPS               int32
	Paused            bool
}

// HUD renders the main heads-up display.
type HUD struct {
	renderer *Renderer
}

// NewHUD creates a HUD.
func NewHUD() *HUD {
	return &HUD{renderer: NewRenderer()}
}

// Draw renders the HUD.
func (h *HUD) Draw(data HUDData) {
	rl.DrawText(data.Title, 10, 10, 20, rl.White)

	rl.DrawText(
		fmt.Sprintf("Agents: %d | Items: %d", data.Population, data.Items),
		10, 35, 16, rl.LightGray,
	)
	rl.DrawText(
		fmt.Sprintf("Photo: %d | Heat: %d | Harness: %d | Collect: %d",
			data.Photosynthesizers, data.HeatGenerators, data.HeatHarvesters, data.Collectors),
		10, 55, 14, rl.LightGray,
	)
	rl.DrawText(
		fmt.Sprintf("Tick: %d | t=%.1fs | Speed: %dx | FPS: %d", data.Tick, data.SimTime, data.Speed, data.FPS),
		10, 73, 14, rl.LightGray,
	)

	status := "Running"
	if data.Paused {
		status = "PAUSED"
	}
	rl.DrawText(status, 10, 91, 16, rl.Yellow)
}

// DrawControls renders the key legend at the bottom of the screen.
func (h *HUD) DrawControls(screenHeight int32, controls string) {
	rl.DrawText(controls, 10, screenHeight-25, 14, rl.Gray)
}

// PerfPanel renders tick phase timings.
type PerfPanel struct {
	renderer *Renderer
	x, y     int32
}

// NewPerfPanel creates a performance panel.
func NewPerfPanel(x, y int32) *PerfPanel {
	return &PerfPanel{renderer: NewRenderer(), x: x, y: y}
}

// SetPosition moves the panel.
func (p *PerfPanel) SetPosition(x, y int32) {
	p.x = x
	p.y = y
}

// Draw renders the panel.
func (p *PerfPanel) Draw(stats telemetry.PerfStats) {
	x, y := p.x, p.y

	rl.DrawText("Tick Performance", x, y, 16, rl.White)
	y += 20

	rl.DrawText(
		fmt.Sprintf("Avg: %s  Max: %s  (%.0f ticks/s)",
			stats.AvgTickDuration.Round(time.Microsecond),
			stats.MaxTickDuration.Round(time.Microsecond),
			stats.TicksPerSecond),
		x, y, 14, rl.Yellow,
	)
	y += 16

	for ph := range stats.PhaseAvg {
		pct := stats.PhasePct[ph]
		color := rl.LightGray
		if pct > 40 {
			color = rl.Red
		} else if pct > 20 {
			color = rl.Orange
		}
		rl.DrawText(
			fmt.Sprintf("%-10s %8s %5.1f%%", telemetry.Phase(ph), stats.PhaseAvg[ph].Round(time.Microsecond), pct),
			x, y, 12, color,
		)
		y += 14
	}
}

// StatsPanel describes the last completed telemetry window.
func StatsPanel() PanelDescriptor {
	ws := func(d any) *telemetry.WindowStats { return d.(*telemetry.WindowStats) }
	count := func(label string, get func(*telemetry.WindowStats) int) FieldDescriptor {
		return FieldDescriptor{
			Label:      label,
			Widget:     WidgetText,
			TextGetter: func(d any) string { return fmt.Sprintf("%d", get(ws(d))) },
		}
	}
	value := func(label, format string, get func(*telemetry.WindowStats) float64) FieldDescriptor {
		return FieldDescriptor{
			Label:  label,
			Widget: WidgetText,
			Format: format,
			Getter: func(d any) float32 { return float32(get(ws(d))) },
		}
	}

	return PanelDescriptor{
		ID:     "window_stats",
		Title:  "Last Window",
		Width:  260,
		Anchor: AnchorBottomRight,
		Sections: []SectionDescriptor{
			{
				Title: "Events",
				Fields: []FieldDescriptor{
					count("Births", func(w *telemetry.WindowStats) int { return w.Births }),
					count("Abandoned", func(w *telemetry.WindowStats) int { return w.Abandoned }),
					count("Damage deaths", func(w *telemetry.WindowStats) int { return w.DeathsDamage }),
					count("Suicides", func(w *telemetry.WindowStats) int { return w.DeathsSuicide }),
					count("Aged out", func(w *telemetry.WindowStats) int { return w.DeathsAging }),
					count("Culled", func(w *telemetry.WindowStats) int { return w.DeathsCull }),
					count("Items collected", func(w *telemetry.WindowStats) int { return w.ItemsCollected }),
				},
			},
			{
				Title: "Distribution",
				Fields: []FieldDescriptor{
					value("Energy mean", "%.1f", func(w *telemetry.WindowStats) float64 { return w.EnergyMean }),
					value("Energy p90", "%.1f", func(w *telemetry.WindowStats) float64 { return w.EnergyP90 }),
					value("Generation", "%.1f", func(w *telemetry.WindowStats) float64 { return w.GenerationMean }),
					value("Lifespan", "%.1fs", func(w *telemetry.WindowStats) float64 { return w.MeanLifespanSec }),
				},
			},
		},
	}
}
