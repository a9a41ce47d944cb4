package game

import (
	"log/slog"

	"github.com/pthm-cable/cellsoup/telemetry"
)

// flushTelemetry writes pending death records and, at window boundaries,
// flushes the stats window.
func (g *Game) flushTelemetry() {
	if len(g.deathLog) > 0 {
		if err := g.output.WriteDeaths(g.deathLog); err != nil {
			slog.Error("failed to write deaths", "error", err)
		}
		g.deathLog = g.deathLog[:0]
	}

	if !g.collector.ShouldFlush(g.tick) {
		return
	}

	stats := g.collector.Flush(g.tick, g.simTime, g.samplePopulation())
	perfStats := g.perf.Stats()
	g.lastStats = stats

	if g.statsCallback != nil {
		g.statsCallback(stats)
	}

	if g.logStats {
		stats.LogStats()
		perfStats.LogStats()
	}

	if g.output != nil {
		if err := g.output.WriteTelemetry(stats); err != nil {
			slog.Error("failed to write telemetry", "error", err)
		}
		if err := g.output.WritePerf(perfStats, stats.WindowEndTick); err != nil {
			slog.Error("failed to write perf", "error", err)
		}
	}
}

// samplePopulation collects capability counts and trait distributions.
func (g *Game) samplePopulation() telemetry.PopulationSample {
	s := telemetry.PopulationSample{
		Population: g.pop.Live(),
		Items:      g.ItemCount(),
	}

	query := g.agentFilter.Query()
	for query.Next() {
		_, vitals, _, traits, caps, org := query.Get()

		if caps.Photosynthesis {
			s.Photosynthesizers++
		}
		if caps.GeneratingHeat {
			s.HeatGenerators++
		}
		if caps.HarnessHeat {
			s.HeatHarvesters++
		}
		if caps.CollectEnergy {
			s.Collectors++
		}

		s.Energies = append(s.Energies, float64(vitals.Energy))
		s.Generations = append(s.Generations, float64(traits.Generation))
		s.BaseSpeeds = append(s.BaseSpeeds, float64(traits.BaseSpeed))

		g.lifetimes.UpdateEnergy(org.ID, vitals.Energy)
	}

	return s
}
