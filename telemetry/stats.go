// Package telemetry provides windowed population statistics, lifetime
// tracking, performance timing and CSV output.
package telemetry

import (
	"log/slog"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// Distribution summarizes a sample of values.
type Distribution struct {
	Mean float64
	Std  float64
	P10  float64
	P50  float64
	P90  float64
	Max  float64
}

// ComputeDistribution calculates mean, standard deviation and empirical
// quantiles. The input slice is not modified. Empty input yields zeros.
func ComputeDistribution(values []float64) Distribution {
	n := len(values)
	if n == 0 {
		return Distribution{}
	}

	sorted := make([]float64, n)
	copy(sorted, values)
	sort.Float64s(sorted)

	var d Distribution
	if n > 1 {
		d.Mean, d.Std = stat.MeanStdDev(sorted, nil)
	} else {
		d.Mean = sorted[0]
	}
	d.P10 = stat.Quantile(0.10, stat.Empirical, sorted, nil)
	d.P50 = stat.Quantile(0.50, stat.Empirical, sorted, nil)
	d.P90 = stat.Quantile(0.90, stat.Empirical, sorted, nil)
	d.Max = sorted[n-1]
	return d
}

// WindowStats holds aggregated statistics for a time window.
type WindowStats struct {
	WindowStartTick int32   `csv:"-"`
	WindowEndTick   int32   `csv:"window_end"`
	SimTimeSec      float64 `csv:"sim_time"`

	// Counts at window end
	Population        int `csv:"population"`
	Items             int `csv:"items"`
	Photosynthesizers int `csv:"photosynthesizers"`
	HeatGenerators    int `csv:"heat_generators"`
	HeatHarvesters    int `csv:"heat_harvesters"`
	Collectors        int `csv:"collectors"`

	// Events during window
	Births         int `csv:"births"`
	Abandoned      int `csv:"abandoned"`
	DeathsDamage   int `csv:"deaths_damage"`
	DeathsSuicide  int `csv:"deaths_suicide"`
	DeathsAging    int `csv:"deaths_aging"`
	DeathsCull     int `csv:"deaths_cull"`
	ItemsSpawned   int `csv:"items_spawned"`
	ItemsCollected int `csv:"items_collected"`
	ItemsDecayed   int `csv:"items_decayed"`

	EnergyCollected float64 `csv:"energy_collected"`
	HeatTransferred float64 `csv:"heat_transferred"`

	// Lifetimes of agents that died during the window
	MeanLifespanSec float64 `csv:"mean_lifespan"`
	MeanChildren    float64 `csv:"mean_children"`

	// Distributions sampled at window end
	EnergyMean float64 `csv:"energy_mean"`
	EnergyStd  float64 `csv:"energy_std"`
	EnergyP10  float64 `csv:"energy_p10"`
	EnergyP50  float64 `csv:"energy_p50"`
	EnergyP90  float64 `csv:"energy_p90"`

	GenerationMean float64 `csv:"generation_mean"`
	GenerationMax  float64 `csv:"generation_max"`

	BaseSpeedMean float64 `csv:"base_speed_mean"`
}

// Deaths returns the total deaths in the window.
func (s WindowStats) Deaths() int {
	return s.DeathsDamage + s.DeathsSuicide + s.DeathsAging + s.DeathsCull
}

// LogValue implements slog.LogValuer for structured logging.
func (s WindowStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("window_start", int(s.WindowStartTick)),
		slog.Int("window_end", int(s.WindowEndTick)),
		slog.Float64("sim_time", s.SimTimeSec),
		slog.Int("population", s.Population),
		slog.Int("items", s.Items),
		slog.Int("births", s.Births),
		slog.Int("deaths", s.Deaths()),
		slog.Int("abandoned", s.Abandoned),
		slog.Float64("energy_mean", s.EnergyMean),
		slog.Float64("generation_max", s.GenerationMax),
	)
}

// LogStats logs the window stats using slog.
func (s WindowStats) LogStats() {
	slog.Info("stats",
		"window_end", s.WindowEndTick,
		"sim_time", s.SimTimeSec,
		"population", s.Population,
		"items", s.Items,
		"photosynthesizers", s.Photosynthesizers,
		"heat_generators", s.HeatGenerators,
		"heat_harvesters", s.HeatHarvesters,
		"collectors", s.Collectors,
		"births", s.Births,
		"abandoned", s.Abandoned,
		"deaths_damage", s.DeathsDamage,
		"deaths_suicide", s.DeathsSuicide,
		"deaths_aging", s.DeathsAging,
		"deaths_cull", s.DeathsCull,
		"items_spawned", s.ItemsSpawned,
		"items_collected", s.ItemsCollected,
		"items_decayed", s.ItemsDecayed,
		"energy_collected", s.EnergyCollected,
		"heat_transferred", s.HeatTransferred,
		"mean_lifespan", s.MeanLifespanSec,
		"mean_children", s.MeanChildren,
		"energy_mean", s.EnergyMean,
		"energy_std", s.EnergyStd,
		"energy_p10", s.EnergyP10,
		"energy_p50", s.EnergyP50,
		"energy_p90", s.EnergyP90,
		"generation_mean", s.GenerationMean,
		"generation_max", s.GenerationMax,
		"base_speed_mean", s.BaseSpeedMean,
	)
}
