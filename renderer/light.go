package renderer

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/cellsoup/camera"
	"github.com/pthm-cable/cellsoup/systems"
)

// LightMap shades the world by sampled light intensity. Samples are taken
// once on a coarse grid; light models do not change over time.
type LightMap struct {
	cell       float32
	cols, rows int
	shade      []rl.Color
}

// NewLightMap samples light at the centre of each cell of the given size.
// Intensities are normalised to the brightest sample.
func NewLightMap(light systems.LightModel, worldW, worldH, cell float32) *LightMap {
	cols := int(worldW/cell + 0.5)
	rows := int(worldH/cell + 0.5)
	if cols < 1 {
		cols = 1
	}
	if rows < 1 {
		rows = 1
	}
	l := &LightMap{
		cell:  cell,
		cols:  cols,
		rows:  rows,
		shade: make([]rl.Color, cols*rows),
	}

	samples := make([]float32, cols*rows)
	var peak float32
	for j := 0; j < rows; j++ {
		for i := 0; i < cols; i++ {
			v := light.Intensity((float32(i)+0.5)*cell, (float32(j)+0.5)*cell)
			samples[j*cols+i] = v
			peak = max(peak, v)
		}
	}
	for i, v := range samples {
		t := float32(0)
		if peak > 0 {
			t = v / peak
		}
		l.shade[i] = rl.Color{R: uint8(200 * t), G: uint8(180 * t), B: uint8(60 * t), A: 70}
	}
	return l
}

// Draw fills each visible cell at its shortest toroidal position.
func (l *LightMap) Draw(cam *camera.Camera) {
	s := cam.Scale()
	size := l.cell*s + 1
	for j := 0; j < l.rows; j++ {
		for i := 0; i < l.cols; i++ {
			cx := (float32(i) + 0.5) * l.cell
			cy := (float32(j) + 0.5) * l.cell
			if !cam.IsVisible(cx, cy, l.cell) {
				continue
			}
			sx, sy := cam.WorldToScreen(cx, cy)
			rl.DrawRectangleV(
				rl.Vector2{X: sx - size/2, Y: sy - size/2},
				rl.Vector2{X: size, Y: size},
				l.shade[j*l.cols+i],
			)
		}
	}
}
