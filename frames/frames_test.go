package frames

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/pthm-cable/cellsoup/game"
	"github.com/pthm-cable/cellsoup/palette"
)

func rgb(t *testing.T, w *Writer, x, y int) (uint8, uint8, uint8) {
	t.Helper()
	r, g, b, _ := w.dc.Image().At(x, y).RGBA()
	return uint8(r >> 8), uint8(g >> 8), uint8(b >> 8)
}

func TestRender(t *testing.T) {
	w, err := NewWriter(t.TempDir(), 1, 8, 20, 10, 10)
	if err != nil {
		t.Fatalf("NewWriter: %v", err)
	}

	bounds := w.dc.Image().Bounds()
	if bounds.Dx() != 160 || bounds.Dy() != 80 {
		t.Fatalf("canvas = %dx%d, want 160x80", bounds.Dx(), bounds.Dy())
	}

	s := &game.Snapshot{
		Agents: []game.AgentView{{
			X: 10, Y: 5, Health: 100, MaxHealth: 100, Photosynthesis: true,
		}},
	}
	w.Render(s)

	r, g, b := rgb(t, w, 80, 40)
	want := palette.Photosynthesis
	if r != want.R || g != want.G || b != want.B {
		t.Errorf("agent pixel = (%d, %d, %d), want %v", r, g, b, want)
	}

	r, g, b = rgb(t, w, 2, 2)
	bg := palette.Background
	if r != bg.R || g != bg.G || b != bg.B {
		t.Errorf("corner pixel = (%d, %d, %d), want background %v", r, g, b, bg)
	}
}

func TestWrite(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "frames")
	w, err := NewWriter(dir, 5, 2, 10, 10, 10)
	if err != nil {
		t.Fatalf("NewWriter: %v", err)
	}

	if w.Due(&game.Snapshot{Tick: 3}) {
		t.Error("tick 3 should not be due with every=5")
	}
	s := &game.Snapshot{Tick: 10, Items: []game.ItemView{{X: 5, Y: 5, Amount: 4}}}
	if !w.Due(s) {
		t.Fatal("tick 10 should be due with every=5")
	}

	path, err := w.Write(s)
	if err != nil {
		t.Fatalf("Write: %v", err)
	}
	if filepath.Base(path) != "frame_000010.png" {
		t.Errorf("path = %s, want frame_000010.png", path)
	}
	if info, err := os.Stat(path); err != nil || info.Size() == 0 {
		t.Errorf("frame not written: %v", err)
	}
}
