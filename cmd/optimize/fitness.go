package main

import (
	"math"
	"sync"

	"gonum.org/v1/gonum/stat"

	"github.com/pthm-cable/cellsoup/config"
	"github.com/pthm-cable/cellsoup/game"
	"github.com/pthm-cable/cellsoup/telemetry"
)

// Score weights. Lower scores are better.
const (
	weightError     = 1.0 // mean squared relative error from the target
	weightStability = 0.5 // coefficient of variation across windows
	extinctPenalty  = 10.0

	warmupWindows = 2 // windows skipped while the founders settle
)

// FitnessEvaluator runs headless simulations and scores how closely the
// population tracks a target size.
type FitnessEvaluator struct {
	params     *ParamVector
	maxTicks   int32
	seeds      []int64
	baseConfig *config.Config
	target     float64

	mu       sync.Mutex
	lastMean float64 // mean population of the most recent Evaluate call
}

// NewFitnessEvaluator creates a new evaluator.
func NewFitnessEvaluator(params *ParamVector, maxTicks int32, seeds []int64, baseCfg *config.Config, target float64) *FitnessEvaluator {
	return &FitnessEvaluator{
		params:     params,
		maxTicks:   maxTicks,
		seeds:      seeds,
		baseConfig: baseCfg,
		target:     target,
	}
}

// LastMean returns the mean population from the most recent evaluation.
func (fe *FitnessEvaluator) LastMean() float64 {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.lastMean
}

// runResult holds the results from a single simulation run.
type runResult struct {
	extinctAt   int32 // zero when the population survived
	windowStats []telemetry.WindowStats
}

// Evaluate computes the mean score over all seeds for raw parameters x.
func (fe *FitnessEvaluator) Evaluate(x []float64) float64 {
	scores := make([]float64, len(fe.seeds))
	means := make([]float64, len(fe.seeds))
	var wg sync.WaitGroup

	for i, seed := range fe.seeds {
		wg.Add(1)
		go func(idx int, s int64) {
			defer wg.Done()
			r := fe.runSimulation(x, s)
			scores[idx] = fe.score(r)
			means[idx] = meanPopulation(r.windowStats)
		}(i, seed)
	}
	wg.Wait()

	fe.mu.Lock()
	fe.lastMean = stat.Mean(means, nil)
	fe.mu.Unlock()

	return stat.Mean(scores, nil)
}

// runSimulation executes a single headless run until extinction or maxTicks.
func (fe *FitnessEvaluator) runSimulation(x []float64, seed int64) *runResult {
	cfg := fe.copyConfig()
	fe.params.ApplyToConfig(cfg, x)

	result := &runResult{}
	g, err := game.New(cfg, game.Options{
		Seed: seed,
		StatsCallback: func(stats telemetry.WindowStats) {
			result.windowStats = append(result.windowStats, stats)
		},
	})
	if err != nil {
		// Only possible for an invalid base config, which main rejects.
		result.extinctAt = 1
		return result
	}
	defer g.Close()

	for g.Tick() < fe.maxTicks {
		g.UpdateHeadless()
		if g.Population() == 0 {
			result.extinctAt = g.Tick()
			break
		}
	}
	return result
}

// copyConfig returns a copy of the base config safe to mutate per run.
func (fe *FitnessEvaluator) copyConfig() *config.Config {
	cfg := *fe.baseConfig
	cfg.Server.CORSOrigins = append([]string(nil), fe.baseConfig.Server.CORSOrigins...)
	return &cfg
}

// score combines distance from the target with population stability.
// Extinction adds a penalty that shrinks the longer the population lasted.
func (fe *FitnessEvaluator) score(r *runResult) float64 {
	var s float64
	if r.extinctAt > 0 {
		s += extinctPenalty * (1 - float64(r.extinctAt)/float64(fe.maxTicks))
	}

	pops := populations(r.windowStats)
	if len(pops) == 0 {
		return s + extinctPenalty
	}

	var sqErr float64
	for _, p := range pops {
		e := (p - fe.target) / fe.target
		sqErr += e * e
	}
	s += weightError * sqErr / float64(len(pops))

	if len(pops) >= 2 {
		mean, std := stat.MeanStdDev(pops, nil)
		if mean > 0 {
			s += weightStability * std / mean
		}
	}
	return s
}

// populations returns end-of-window population counts after warmup.
func populations(windows []telemetry.WindowStats) []float64 {
	if len(windows) <= warmupWindows {
		return nil
	}
	out := make([]float64, 0, len(windows)-warmupWindows)
	for _, w := range windows[warmupWindows:] {
		out = append(out, float64(w.Population))
	}
	return out
}

func meanPopulation(windows []telemetry.WindowStats) float64 {
	pops := populations(windows)
	if len(pops) == 0 {
		return 0
	}
	m := stat.Mean(pops, nil)
	if math.IsNaN(m) {
		return 0
	}
	return m
}
