// Package palette maps agent and item state to display colours.
//
// Photosynthesizers share one colour; every other agent is coloured by its
// base speed along a gradient that saturates at SpeedRange. Alpha follows the
// health ratio and drawn size follows MaxHealth.
package palette

import (
	"image/color"

	"github.com/pthm-cable/cellsoup/game"
)

// SpeedRange is the base speed at the top of the speed gradient.
const SpeedRange = 25

// MinAlpha keeps nearly dead agents visible.
const MinAlpha = 64

var (
	Background     = color.RGBA{12, 12, 28, 255}
	Photosynthesis = color.RGBA{50, 180, 80, 255}
	Item           = color.RGBA{230, 200, 60, 255}
	HarnessRing    = color.RGBA{240, 120, 40, 255}
	Collector      = color.RGBA{200, 200, 220, 255}
)

// speedStops runs from slow (blue) through purple to fast (red).
var speedStops = []color.RGBA{
	{80, 150, 200, 255},
	{180, 100, 180, 255},
	{200, 80, 80, 255},
}

// SpeedColor returns the gradient colour for a base speed.
func SpeedColor(speed float32) color.RGBA {
	t := clamp01(speed / SpeedRange)
	segments := float32(len(speedStops) - 1)
	pos := t * segments
	i := int(pos)
	if i >= len(speedStops)-1 {
		return speedStops[len(speedStops)-1]
	}
	return lerp(speedStops[i], speedStops[i+1], pos-float32(i))
}

// Agent returns the fill colour of an agent.
func Agent(a game.AgentView) color.RGBA {
	c := Photosynthesis
	if !a.Photosynthesis {
		c = SpeedColor(a.BaseSpeed)
	}
	c.A = Alpha(a.Health, a.MaxHealth)
	return c
}

// Alpha maps the health ratio to opacity in [MinAlpha, 255].
func Alpha(health, maxHealth float32) uint8 {
	if maxHealth <= 0 {
		return MinAlpha
	}
	ratio := clamp01(health / maxHealth)
	return uint8(MinAlpha + ratio*(255-MinAlpha))
}

// Scale is the drawn size relative to an agent with MaxHealth 100.
func Scale(maxHealth float32) float32 {
	if maxHealth <= 0 {
		return 0
	}
	return maxHealth / 100
}

// ItemColor fades items with the energy they carry relative to ref.
func ItemColor(amount, ref float32) color.RGBA {
	c := Item
	if ref > 0 {
		c.A = uint8(MinAlpha + clamp01(amount/ref)*(255-MinAlpha))
	}
	return c
}

func lerp(a, b color.RGBA, t float32) color.RGBA {
	return color.RGBA{
		R: uint8(float32(a.R) + (float32(b.R)-float32(a.R))*t),
		G: uint8(float32(a.G) + (float32(b.G)-float32(a.G))*t),
		B: uint8(float32(a.B) + (float32(b.B)-float32(a.B))*t),
		A: 255,
	}
}

func clamp01(x float32) float32 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}
