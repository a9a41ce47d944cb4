// Package frames renders snapshots to PNG files for headless runs.
package frames

import (
	"fmt"
	"image"
	"os"
	"path/filepath"

	"github.com/fogleman/gg"

	"github.com/pthm-cable/cellsoup/game"
	"github.com/pthm-cable/cellsoup/palette"
)

// AgentRadius is the drawn radius in world units of an agent with MaxHealth 100.
const AgentRadius = 0.5

// Writer draws snapshots with gg and saves every Nth tick as a PNG.
type Writer struct {
	dir     string
	every   int32
	scale   float64 // pixels per world unit
	itemRef float32

	dc *gg.Context
}

// NewWriter creates dir and a canvas sized to the world at pixelsPerUnit.
func NewWriter(dir string, every int, pixelsPerUnit float64, worldW, worldH float32, itemRef float32) (*Writer, error) {
	if every < 1 {
		every = 1
	}
	if pixelsPerUnit <= 0 {
		pixelsPerUnit = 1
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating frame directory: %w", err)
	}

	w := int(float64(worldW)*pixelsPerUnit + 0.5)
	h := int(float64(worldH)*pixelsPerUnit + 0.5)
	return &Writer{
		dir:     dir,
		every:   int32(every),
		scale:   pixelsPerUnit,
		itemRef: itemRef,
		dc:      gg.NewContext(w, h),
	}, nil
}

// Render draws a snapshot and returns the canvas image. The image is reused
// by the next Render call.
func (w *Writer) Render(s *game.Snapshot) image.Image {
	dc := w.dc
	dc.SetColor(palette.Background)
	dc.Clear()

	for _, it := range s.Items {
		dc.SetColor(palette.ItemColor(it.Amount, w.itemRef))
		dc.DrawCircle(float64(it.X)*w.scale, float64(it.Y)*w.scale, 0.25*w.scale)
		dc.Fill()
	}

	for _, a := range s.Agents {
		x := float64(a.X) * w.scale
		y := float64(a.Y) * w.scale
		r := AgentRadius * float64(palette.Scale(a.MaxHealth)) * w.scale

		dc.SetColor(palette.Agent(a))
		dc.DrawCircle(x, y, r)
		dc.Fill()

		if a.HarnessHeat {
			dc.SetColor(palette.HarnessRing)
			dc.SetLineWidth(1)
			dc.DrawCircle(x, y, r+1)
			dc.Stroke()
		}
	}

	return dc.Image()
}

// Due reports whether the snapshot's tick should be written.
func (w *Writer) Due(s *game.Snapshot) bool {
	return s != nil && s.Tick%w.every == 0
}

// Write renders the snapshot to frame_<tick>.png and returns the path.
func (w *Writer) Write(s *game.Snapshot) (string, error) {
	w.Render(s)
	path := filepath.Join(w.dir, fmt.Sprintf("frame_%06d.png", s.Tick))
	if err := w.dc.SavePNG(path); err != nil {
		return "", fmt.Errorf("saving frame: %w", err)
	}
	return path, nil
}
