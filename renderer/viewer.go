// Package renderer draws a running simulation in a raylib window.
package renderer

import (
	"context"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/cellsoup/camera"
	"github.com/pthm-cable/cellsoup/game"
	"github.com/pthm-cable/cellsoup/palette"
	"github.com/pthm-cable/cellsoup/ui"
)

const controlsLegend = "SPACE pause | ,/. speed | TAB controls | click select | BKSP deselect | wheel zoom | arrows pan | HOME reset"

// Viewer owns the window loop: it steps the game, handles input and draws
// the latest snapshot.
type Viewer struct {
	game *game.Game
	cam  *camera.Camera

	overlays  *ui.OverlayRegistry
	hud       *ui.HUD
	perf      *ui.PerfPanel
	controls  *ui.ControlsPanel
	inspector *ui.Inspector
	stats     ui.PanelDescriptor
	widgets   *ui.Renderer
	lightMap  *LightMap

	state    ui.ControlState
	selected uint32 // zero when nothing is selected

	screenW, screenH int32
	itemRef          float32
	gridCell         float32
	maxTicks         int32
}

// NewViewer creates a viewer for g. The raylib window must already be open.
// maxTicks > 0 closes the viewer once the game reaches that tick.
func NewViewer(g *game.Game, maxTicks int) *Viewer {
	cfg := g.Config()
	w, h := cfg.Derived.ScreenW, cfg.Derived.ScreenH
	worldW, worldH := cfg.Derived.WorldW32, cfg.Derived.WorldH32

	return &Viewer{
		game:      g,
		cam:       camera.New(float32(w), float32(h), worldW, worldH),
		overlays:  ui.NewOverlayRegistry(),
		hud:       ui.NewHUD(),
		perf:      ui.NewPerfPanel(10, h-160),
		controls:  ui.NewControlsPanel(10, 120, 240),
		inspector: ui.NewInspector(w-290, 10, 280),
		stats:     ui.StatsPanel(),
		widgets:   ui.NewRenderer(),
		lightMap:  NewLightMap(g.Light(), worldW, worldH, 4),
		state:     ui.ControlState{StepsPerUpdate: g.StepsPerUpdate()},
		screenW:   w,
		screenH:   h,
		itemRef:   float32(cfg.Founder.MaxEnergy) / 4,
		gridCell:  float32(cfg.World.GridCellSize),
		maxTicks:  int32(maxTicks),
	}
}

// Run loops until the window closes, ctx is cancelled or maxTicks is reached.
func (v *Viewer) Run(ctx context.Context) {
	for !rl.WindowShouldClose() {
		if ctx.Err() != nil {
			return
		}

		v.handleInput()
		v.game.SetStepsPerUpdate(v.state.StepsPerUpdate)
		if !v.state.Paused {
			v.game.Update(rl.GetFrameTime())
		} else if v.state.StepOnce {
			v.game.Step(float32(v.game.Config().Clock.DT))
		}

		v.draw()
		v.game.RecordFrame()

		if v.maxTicks > 0 && v.game.Tick() >= v.maxTicks {
			return
		}
	}
}

func (v *Viewer) handleInput() {
	if rl.IsWindowResized() {
		v.screenW = int32(rl.GetScreenWidth())
		v.screenH = int32(rl.GetScreenHeight())
		v.cam.Resize(float32(v.screenW), float32(v.screenH))
		v.perf.SetPosition(10, v.screenH-160)
		v.inspector.SetPosition(v.screenW-290, 10)
	}

	if rl.IsKeyPressed(rl.KeySpace) {
		v.state.Paused = !v.state.Paused
	}
	if rl.IsKeyPressed(rl.KeyComma) && v.state.StepsPerUpdate > 1 {
		v.state.StepsPerUpdate--
	}
	if rl.IsKeyPressed(rl.KeyPeriod) && v.state.StepsPerUpdate < ui.MaxStepsPerUpdate {
		v.state.StepsPerUpdate++
	}
	if rl.IsKeyPressed(rl.KeyTab) {
		v.controls.Toggle()
	}
	if rl.IsKeyPressed(rl.KeyBackspace) {
		v.selected = 0
	}
	v.overlays.HandleKeys()

	pan := float32(8)
	if rl.IsKeyDown(rl.KeyRight) {
		v.cam.Pan(pan, 0)
	}
	if rl.IsKeyDown(rl.KeyLeft) {
		v.cam.Pan(-pan, 0)
	}
	if rl.IsKeyDown(rl.KeyDown) {
		v.cam.Pan(0, pan)
	}
	if rl.IsKeyDown(rl.KeyUp) {
		v.cam.Pan(0, -pan)
	}
	if rl.IsKeyPressed(rl.KeyHome) {
		v.cam.Reset()
	}

	mouse := rl.GetMousePosition()
	if wheel := rl.GetMouseWheelMove(); wheel != 0 {
		v.cam.ZoomAt(1+wheel*0.1, mouse.X, mouse.Y)
	}
	if rl.IsMouseButtonDown(rl.MouseButtonRight) {
		d := rl.GetMouseDelta()
		v.cam.Pan(-d.X, -d.Y)
	}
	if rl.IsMouseButtonPressed(rl.MouseButtonLeft) && !v.controls.Contains(mouse, v.overlays) {
		v.selected = v.pick(mouse.X, mouse.Y)
	}
}

// pick returns the agent nearest to a screen point within a few pixels,
// or zero.
func (v *Viewer) pick(sx, sy float32) uint32 {
	s := v.game.Snapshot()
	if s == nil {
		return 0
	}
	wx, wy := v.cam.ScreenToWorld(sx, sy)
	limit := 8 / v.cam.Scale()
	best := limit * limit
	var id uint32
	for _, a := range s.Agents {
		dx := camera.Delta(a.X, wx, s.WorldWidth)
		dy := camera.Delta(a.Y, wy, s.WorldHeight)
		if d := dx*dx + dy*dy; d <= best {
			best = d
			id = a.ID
		}
	}
	return id
}

func (v *Viewer) draw() {
	rl.BeginDrawing()
	defer rl.EndDrawing()

	rl.ClearBackground(palette.Background)

	if v.overlays.IsEnabled(ui.OverlayLightMap) {
		v.lightMap.Draw(v.cam)
	}
	if v.overlays.IsEnabled(ui.OverlayGrid) {
		v.drawGrid()
	}

	s := v.game.Snapshot()
	if s != nil {
		if v.overlays.IsEnabled(ui.OverlayItems) {
			v.drawItems(s)
		}
		v.drawAgents(s)
	}

	v.drawPanels(s)
}

func (v *Viewer) drawGrid() {
	s := v.cam.Scale()
	spanX, spanY := v.cam.WorldW*s, v.cam.WorldH*s
	lineColor := rl.Color{R: 60, G: 60, B: 90, A: 120}
	h, w := float32(v.screenH), float32(v.screenW)

	for x := float32(0); x < v.cam.WorldW; x += v.gridCell {
		sx, _ := v.cam.WorldToScreen(x, v.cam.Y)
		for p := camera.Wrap(sx, spanX); p < w; p += spanX {
			rl.DrawLineV(rl.Vector2{X: p, Y: 0}, rl.Vector2{X: p, Y: h}, lineColor)
		}
	}
	for y := float32(0); y < v.cam.WorldH; y += v.gridCell {
		_, sy := v.cam.WorldToScreen(v.cam.X, y)
		for p := camera.Wrap(sy, spanY); p < h; p += spanY {
			rl.DrawLineV(rl.Vector2{X: 0, Y: p}, rl.Vector2{X: w, Y: p}, lineColor)
		}
	}
}

func (v *Viewer) drawItems(s *game.Snapshot) {
	r := float32(0.3) * v.cam.Scale()
	for _, it := range s.Items {
		if !v.cam.IsVisible(it.X, it.Y, 0.3) {
			continue
		}
		c := palette.ItemColor(it.Amount, v.itemRef)
		v.drawAt(it.X, it.Y, 0.3, func(x, y float32) {
			rl.DrawRectangleV(rl.Vector2{X: x - r, Y: y - r}, rl.Vector2{X: 2 * r, Y: 2 * r}, c)
		})
	}
}

func (v *Viewer) drawAgents(s *game.Snapshot) {
	scale := v.cam.Scale()
	heat := v.overlays.IsEnabled(ui.OverlayHeatRadius)
	collect := v.overlays.IsEnabled(ui.OverlayCollectRange)
	heatRadius := float32(v.game.Config().Founder.HeatRadius)
	collectRadius := float32(v.game.Config().Item.CollectRadius)

	for i := range s.Agents {
		a := &s.Agents[i]
		radius := 0.5 * palette.Scale(a.MaxHealth)
		if !v.cam.IsVisible(a.X, a.Y, max(radius, heatRadius)) {
			continue
		}
		c := palette.Agent(*a)
		selected := a.ID == v.selected

		v.drawAt(a.X, a.Y, radius, func(x, y float32) {
			center := rl.Vector2{X: x, Y: y}
			rl.DrawCircleV(center, radius*scale, c)
			if a.HarnessHeat {
				rl.DrawCircleLinesV(center, radius*scale+1, palette.HarnessRing)
			}
			if heat && a.GeneratingHeat {
				rl.DrawCircleLinesV(center, heatRadius*scale, rl.Color{R: 240, G: 90, B: 40, A: 60})
			}
			if collect && a.CollectEnergy {
				rl.DrawCircleLinesV(center, collectRadius*scale, palette.Collector)
			}
			if selected {
				rl.DrawCircleLinesV(center, radius*scale+4, rl.Yellow)
			}
		})
	}
}

// drawAt calls draw at the primary screen position and at every wrapped
// ghost position.
func (v *Viewer) drawAt(wx, wy, radius float32, draw func(x, y float32)) {
	x, y := v.cam.WorldToScreen(wx, wy)
	draw(x, y)
	for _, p := range v.cam.Ghosts(wx, wy, radius) {
		draw(p.X, p.Y)
	}
}

func (v *Viewer) drawPanels(s *game.Snapshot) {
	if v.overlays.IsEnabled(ui.OverlayHUD) {
		data := ui.HUDData{
			Title:  "Cell Soup",
			Tick:   v.game.Tick(),
			Speed:  v.state.StepsPerUpdate,
			FPS:    rl.GetFPS(),
			Paused: v.state.Paused,
		}
		if s != nil {
			data.SimTime = s.SimTime
			data.Population = len(s.Agents)
			data.Items = len(s.Items)
			for _, a := range s.Agents {
				if a.Photosynthesis {
					data.Photosynthesizers++
				}
				if a.GeneratingHeat {
					data.HeatGenerators++
				}
				if a.HarnessHeat {
					data.HeatHarvesters++
				}
				if a.CollectEnergy {
					data.Collectors++
				}
			}
		}
		v.hud.Draw(data)
		v.hud.DrawControls(v.screenH, controlsLegend)

		last := v.game.LastStats()
		if last.WindowEndTick > 0 {
			v.widgets.DrawDescribedPanel(v.stats, &last, v.screenW, v.screenH)
		}
	}

	if v.overlays.IsEnabled(ui.OverlayPerf) {
		v.perf.Draw(v.game.PerfStats())
	}

	v.controls.Draw(&v.state, v.overlays)

	if v.selected != 0 {
		d, ok := v.game.Inspect(v.selected)
		if !ok {
			v.selected = 0
			return
		}
		v.inspector.Draw(&d)
	}
}
