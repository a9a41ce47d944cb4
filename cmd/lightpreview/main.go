// Light model preview tool - interactive visualization with sliders.
//
// Usage: go run ./cmd/lightpreview [-config path]
package main

import (
	"flag"
	"fmt"
	"image/color"
	"log"
	"strings"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/cellsoup/config"
	"github.com/pthm-cable/cellsoup/game"
)

const (
	windowWidth  = 1100
	windowHeight = 640
	previewW     = 640
	panelWidth   = windowWidth - previewW - 30
	gridW        = 320
)

func main() {
	configPath := flag.String("config", "", "Config YAML to start from (empty = use defaults)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	defaults := cfg.Environment.Light
	defaults.Model = "noise"
	if defaults.Scale == 0 {
		defaults.Scale = 0.02
	}

	worldW, worldH := cfg.World.Width, cfg.World.Height
	gridH := int(float64(gridW) * worldH / worldW)
	previewH := float32(previewW) * float32(worldH/worldW)

	rl.InitWindow(windowWidth, windowHeight, "Light Preview")
	defer rl.CloseWindow()
	rl.SetTargetFPS(30)

	params := defaults
	seed := int64(12345)

	samples := make([]float32, gridW*gridH)
	img := rl.GenImageColor(gridW, gridH, rl.Black)
	texture := rl.LoadTextureFromImage(img)
	rl.UnloadImage(img)
	defer rl.UnloadTexture(texture)

	needsRegen := true

	for !rl.WindowShouldClose() {
		if needsRegen {
			sampleLight(samples, gridW, gridH, worldW, worldH, params, seed)
			updateTexture(texture, samples, params.Intensity+params.Amplitude)
			needsRegen = false
		}

		rl.BeginDrawing()
		rl.ClearBackground(rl.RayWhite)

		rl.DrawTexturePro(
			texture,
			rl.Rectangle{X: 0, Y: 0, Width: gridW, Height: float32(gridH)},
			rl.Rectangle{X: 10, Y: 10, Width: previewW, Height: previewH},
			rl.Vector2{},
			0,
			rl.White,
		)
		rl.DrawRectangleLines(10, 10, previewW, int32(previewH), rl.DarkGray)

		minVal, maxVal, avg, dark := summarize(samples)
		statsY := int32(previewH) + 25
		rl.DrawText(fmt.Sprintf("Min: %.3f  Max: %.3f  Avg: %.3f", minVal, maxVal, avg), 15, statsY, 16, rl.DarkGray)
		rl.DrawText(fmt.Sprintf("Dark (zero light): %.1f%%", dark*100), 15, statsY+20, 16, rl.DarkGray)
		rl.DrawText(fmt.Sprintf("World: %.0f x %.0f", worldW, worldH), 15, statsY+40, 16, rl.DarkGray)

		panelX := float32(previewW + 20)
		panelY := float32(10)

		rl.DrawText("Noise Light Parameters", int32(panelX), int32(panelY), 20, rl.DarkGray)
		panelY += 35

		var changed bool
		params.Intensity, changed = slider(panelX, &panelY, "Mean intensity", "0", "3", params.Intensity, 0, 3)
		needsRegen = needsRegen || changed
		params.Amplitude, changed = slider(panelX, &panelY, "Amplitude", "0", "2", params.Amplitude, 0, 2)
		needsRegen = needsRegen || changed
		params.Scale, changed = slider(panelX, &panelY, "Scale (spatial frequency)", "0.001", "0.2", params.Scale, 0.001, 0.2)
		needsRegen = needsRegen || changed

		rl.DrawText("Seed", int32(panelX), int32(panelY), 14, rl.Gray)
		panelY += 18
		newSeed := gui.SliderBar(
			rl.Rectangle{X: panelX, Y: panelY, Width: float32(panelWidth - 80), Height: 20},
			"0", "99999",
			float32(seed), 0, 99999,
		)
		rl.DrawText(fmt.Sprintf("%d", seed), int32(panelX+float32(panelWidth-70)), int32(panelY+2), 16, rl.DarkGray)
		if int64(newSeed) != seed {
			seed = int64(newSeed)
			needsRegen = true
		}
		panelY += 45

		if gui.Button(rl.Rectangle{X: panelX, Y: panelY, Width: 120, Height: 30}, "Random Seed") {
			seed = int64(rl.GetRandomValue(0, 99999))
			needsRegen = true
		}
		if gui.Button(rl.Rectangle{X: panelX + 130, Y: panelY, Width: 120, Height: 30}, "Reset All") {
			params = defaults
			seed = 12345
			needsRegen = true
		}
		panelY += 55

		rl.DrawText("YAML Config:", int32(panelX), int32(panelY), 16, rl.DarkGray)
		panelY += 25
		yaml := lightYAML(params)
		for _, line := range strings.Split(yaml, "\n") {
			rl.DrawText(line, int32(panelX), int32(panelY), 14, rl.Gray)
			panelY += 16
		}

		rl.DrawText("Press C to copy YAML to clipboard", int32(panelX), windowHeight-30, 12, rl.LightGray)
		if rl.IsKeyPressed(rl.KeyC) {
			rl.SetClipboardText(yaml)
		}

		rl.EndDrawing()
	}
}

// slider draws a labelled slider and reports whether its value moved.
func slider(x float32, y *float32, label, left, right string, value, lo, hi float64) (float64, bool) {
	rl.DrawText(label, int32(x), int32(*y), 14, rl.Gray)
	*y += 18
	next := gui.SliderBar(
		rl.Rectangle{X: x, Y: *y, Width: float32(panelWidth - 80), Height: 20},
		left, right,
		float32(value), float32(lo), float32(hi),
	)
	rl.DrawText(fmt.Sprintf("%.3f", value), int32(x+float32(panelWidth-70)), int32(*y+2), 16, rl.DarkGray)
	*y += 35
	if float32(value) == next {
		return value, false
	}
	return float64(next), true
}

// sampleLight fills samples from the same light model the simulation builds.
func sampleLight(samples []float32, w, h int, worldW, worldH float64, params config.LightConfig, seed int64) {
	light, err := game.NewLightModel(params, seed)
	if err != nil {
		log.Printf("light model: %v", err)
		return
	}
	cellW := float32(worldW) / float32(w)
	cellH := float32(worldH) / float32(h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			samples[y*w+x] = light.Intensity((float32(x)+0.5)*cellW, (float32(y)+0.5)*cellH)
		}
	}
}

func updateTexture(tex rl.Texture2D, samples []float32, peak float64) {
	pixels := make([]color.RGBA, len(samples))
	for i, v := range samples {
		t := float32(0)
		if peak > 0 {
			t = min(v/float32(peak), 1)
		}
		pixels[i] = color.RGBA{R: uint8(255 * t), G: uint8(230 * t), B: uint8(120 * t), A: 255}
	}
	rl.UpdateTexture(tex, pixels)
}

// summarize returns min, max, mean and the fraction of zero samples.
func summarize(samples []float32) (lo, hi, mean, dark float32) {
	if len(samples) == 0 {
		return 0, 0, 0, 0
	}
	lo, hi = samples[0], samples[0]
	var sum float32
	var zeros int
	for _, v := range samples {
		lo = min(lo, v)
		hi = max(hi, v)
		sum += v
		if v == 0 {
			zeros++
		}
	}
	n := float32(len(samples))
	return lo, hi, sum / n, float32(zeros) / n
}

func lightYAML(p config.LightConfig) string {
	return fmt.Sprintf(`environment:
  light:
    model: noise
    intensity: %.3f
    amplitude: %.3f
    scale: %.4f`, p.Intensity, p.Amplitude, p.Scale)
}
