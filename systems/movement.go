package systems

// MoveRandomly displaces the agent in a random direction and charges the
// metabolic cost of the distance covered.
func MoveRandomly(c *Cell, p *Params, dt float32, rng Rand) {
	dirX, dirY := randomUnit(rng)

	scale := p.SpeedScale
	speed := c.Traits.BaseSpeed/scale + uniform(rng, -1/scale, 1/scale)
	if speed < 0 {
		speed = 0
	}

	c.Pos.X = Wrap(c.Pos.X+dirX*speed*dt, p.WorldW)
	c.Pos.Y = Wrap(c.Pos.Y+dirY*speed*dt, p.WorldH)

	c.Vitals.Energy -= speed * c.Traits.MetabolicRate * dt
}
