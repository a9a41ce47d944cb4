package systems

// HeatTransfer is energy one agent's heat gives to a harnessing neighbor.
type HeatTransfer struct {
	Slot   int32 // receiver, indexed into the tick snapshot
	Amount float32
}

// ExchangeHeat runs heat generation for a heat-producing agent. The agent pays
// for the heat it produces, regains a constant background amount, and every
// neighbor within HeatRadius that can harness heat receives a flat transfer.
// Transfers ignore dt and are queued in fx; the source is not charged for them.
func ExchangeHeat(c *Cell, t *Tick, fx *Effects) {
	tr := &c.Traits
	dt := t.DT

	var generated float32
	if tr.MaxEnergy != 0 {
		generated = tr.HeatProductionRate * (c.Vitals.Energy / tr.MaxEnergy) * tr.HeatProductionEfficiency
	}
	c.Vitals.Energy -= generated * dt
	c.Vitals.Energy += tr.HeatDissipationRate * dt

	transfer := tr.HeatGenerationRate * tr.HeatResistance / t.Params.HeatTransferDivisor

	fx.neighbors = t.Index.QueryRadiusInto(fx.neighbors[:0], c.Pos.X, c.Pos.Y, tr.HeatRadius, c.Entity)
	for _, n := range fx.neighbors {
		if n.Slot < 0 || int(n.Slot) >= len(t.Peers) {
			continue
		}
		if !t.Peers[n.Slot].Caps.HarnessHeat {
			continue
		}
		fx.Heat = append(fx.Heat, HeatTransfer{Slot: n.Slot, Amount: transfer})
	}
}
