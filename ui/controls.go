package ui

import (
	"fmt"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"
)

// ControlState is what the controls panel edits.
type ControlState struct {
	Paused         bool
	StepsPerUpdate int
	StepOnce       bool // set for one frame when "Step" is pressed
}

// MaxStepsPerUpdate bounds the speed slider.
const MaxStepsPerUpdate = 32

// ControlsPanel renders simulation controls and overlay toggles.
type ControlsPanel struct {
	renderer *Renderer
	x, y     int32
	width    int32
	visible  bool
}

// NewControlsPanel creates a hidden controls panel.
func NewControlsPanel(x, y, width int32) *ControlsPanel {
	return &ControlsPanel{
		renderer: NewRenderer(),
		x:        x,
		y:        y,
		width:    width,
	}
}

// Toggle switches panel visibility.
func (c *ControlsPanel) Toggle() bool {
	c.visible = !c.visible
	return c.visible
}

// IsVisible returns whether the panel is shown.
func (c *ControlsPanel) IsVisible() bool {
	return c.visible
}

// Contains reports whether a screen point is over the visible panel.
func (c *ControlsPanel) Contains(p rl.Vector2, overlays *OverlayRegistry) bool {
	if !c.visible {
		return false
	}
	return rl.CheckCollisionPointRec(p, c.bounds(overlays))
}

func (c *ControlsPanel) bounds(overlays *OverlayRegistry) rl.Rectangle {
	lh := c.renderer.Theme.LineHeight
	h := lh*4 + int32(len(overlays.All()))*(lh+4) + c.renderer.Theme.Padding*3
	return rl.Rectangle{X: float32(c.x), Y: float32(c.y), Width: float32(c.width), Height: float32(h)}
}

// Draw renders the panel and applies edits to state and overlays.
func (c *ControlsPanel) Draw(state *ControlState, overlays *OverlayRegistry) {
	state.StepOnce = false
	if !c.visible {
		return
	}

	r := c.renderer
	pad := r.Theme.Padding
	lh := r.Theme.LineHeight
	b := c.bounds(overlays)
	r.DrawPanel(c.x, c.y, c.width, int32(b.Height))

	x := float32(c.x + pad)
	y := float32(c.y + pad)
	inner := float32(c.width - pad*2)

	rl.DrawText("Controls", int32(x), int32(y), 16, rl.White)
	y += float32(lh + 4)

	label := "Pause"
	if state.Paused {
		label = "Resume"
	}
	if gui.Button(rl.Rectangle{X: x, Y: y, Width: inner/2 - 4, Height: float32(lh)}, label) {
		state.Paused = !state.Paused
	}
	if gui.Button(rl.Rectangle{X: x + inner/2 + 4, Y: y, Width: inner/2 - 4, Height: float32(lh)}, "Step") {
		state.StepOnce = true
	}
	y += float32(lh + 6)

	steps := gui.SliderBar(
		rl.Rectangle{X: x + 40, Y: y, Width: inner - 80, Height: float32(lh - 2)},
		"Speed", fmt.Sprintf("%dx", state.StepsPerUpdate),
		float32(state.StepsPerUpdate), 1, MaxStepsPerUpdate,
	)
	state.StepsPerUpdate = int(steps + 0.5)
	y += float32(lh + 6)

	for _, desc := range overlays.All() {
		text := desc.Name
		if desc.KeyLabel != "" {
			text = fmt.Sprintf("%s [%s]", desc.Name, desc.KeyLabel)
		}
		on := overlays.IsEnabled(desc.ID)
		if next := gui.CheckBox(rl.Rectangle{X: x, Y: y, Width: 12, Height: 12}, text, on); next != on {
			overlays.SetEnabled(desc.ID, next)
		}
		y += float32(lh + 4)
	}
}
