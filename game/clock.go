package game

import "github.com/pthm-cable/cellsoup/config"

// Clock chooses the duration of each tick. In fixed mode every tick lasts DT.
// In measured mode the caller's frame time is used, bounded by MaxDT.
type Clock struct {
	fixed    float32
	max      float32
	measured bool
	steps    int
}

// NewClock creates a clock from the clock configuration.
func NewClock(c config.ClockConfig) Clock {
	steps := c.StepsPerUpdate
	if steps < 1 {
		steps = 1
	}
	return Clock{
		fixed:    float32(c.DT),
		max:      float32(c.MaxDT),
		measured: c.Measured,
		steps:    steps,
	}
}

// Step returns the dt for the next tick given the last frame time in seconds.
func (c Clock) Step(frameTime float32) float32 {
	if !c.measured || frameTime <= 0 {
		return c.fixed
	}
	if frameTime > c.max {
		return c.max
	}
	return frameTime
}

// StepsPerUpdate is the number of ticks run per Update call.
func (c Clock) StepsPerUpdate() int {
	return c.steps
}
