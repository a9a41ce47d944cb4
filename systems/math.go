package systems

import "math"

// clampFloat clamps a float32 value between min and max.
func clampFloat(v, minVal, maxVal float32) float32 {
	if v < minVal {
		return minVal
	}
	if v > maxVal {
		return maxVal
	}
	return v
}

// Wrap maps v into [0, size). Go's % can return negative values.
func Wrap(v, size float32) float32 {
	r := float32(math.Mod(float64(v), float64(size)))
	if r < 0 {
		r += size
	}
	if r >= size {
		r = 0
	}
	return r
}

// uniform returns a value drawn uniformly from [lo, hi).
func uniform(rng Rand, lo, hi float32) float32 {
	return lo + rng.Float32()*(hi-lo)
}

// randomUnit returns a unit vector with uniformly distributed angle.
func randomUnit(rng Rand) (float32, float32) {
	angle := rng.Float64() * 2 * math.Pi
	return float32(math.Cos(angle)), float32(math.Sin(angle))
}
