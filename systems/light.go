package systems

import (
	"github.com/ojrac/opensimplex-go"
)

// LightModel supplies sunlight intensity at a world position.
type LightModel interface {
	Intensity(x, y float32) float32
}

// ConstantLight is uniform sunlight.
type ConstantLight float32

// Intensity returns the constant value everywhere.
func (l ConstantLight) Intensity(x, y float32) float32 {
	return float32(l)
}

// NoiseLight varies sunlight smoothly over space using simplex noise.
// Values are mean + amplitude*noise, floored at zero.
type NoiseLight struct {
	noise     opensimplex.Noise
	mean      float64
	amplitude float64
	scale     float64
}

// NewNoiseLight creates a noise light model with the given seed.
func NewNoiseLight(seed int64, mean, amplitude, scale float64) *NoiseLight {
	return &NoiseLight{
		noise:     opensimplex.New(seed),
		mean:      mean,
		amplitude: amplitude,
		scale:     scale,
	}
}

// Intensity samples the noise field at the given position.
func (l *NoiseLight) Intensity(x, y float32) float32 {
	v := l.mean + l.amplitude*l.noise.Eval2(float64(x)*l.scale, float64(y)*l.scale)
	if v < 0 {
		return 0
	}
	return float32(v)
}
