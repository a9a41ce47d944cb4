// Package main searches reproduction and aging parameters for a population
// that holds steady near a target size.
package main

import (
	"encoding/csv"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gonum.org/v1/gonum/optimize"

	"github.com/pthm-cable/cellsoup/config"
)

// formatDuration formats a duration as HH:MM:SS or MM:SS for shorter durations.
func formatDuration(d time.Duration) string {
	d = d.Round(time.Second)
	h := d / time.Hour
	d -= h * time.Hour
	m := d / time.Minute
	d -= m * time.Minute
	s := d / time.Second

	if h > 0 {
		return fmt.Sprintf("%dh%02dm%02ds", h, m, s)
	}
	return fmt.Sprintf("%dm%02ds", m, s)
}

// bestResult is written next to the best config.
type bestResult struct {
	Score          float64            `json:"score"`
	MeanPopulation float64            `json:"mean_population"`
	Target         float64            `json:"target"`
	Evaluations    int                `json:"evaluations"`
	Params         map[string]float64 `json:"params"`
}

// newMethod returns the named gonum optimizer.
func newMethod(name string, dim int) (optimize.Method, error) {
	switch name {
	case "nelder-mead":
		return &optimize.NelderMead{SimplexSize: 0.2}, nil
	case "cmaes":
		return &optimize.CmaEsChol{
			InitStepSize: 0.3,
			Population:   4 + int(3*math.Log(float64(dim))),
		}, nil
	default:
		return nil, fmt.Errorf("unknown method %q", name)
	}
}

func main() {
	configPath := flag.String("config", "", "Base config YAML file (empty = use defaults)")
	maxTicks := flag.Int("max-ticks", 36000, "Simulation duration per run in ticks")
	seeds := flag.Int("seeds", 3, "Number of seeds per evaluation")
	maxEvals := flag.Int("max-evals", 200, "Maximum number of evaluations")
	target := flag.Float64("target", 600, "Target live population")
	methodName := flag.String("method", "nelder-mead", "Optimizer: nelder-mead or cmaes")
	outputDir := flag.String("output", "", "Output directory for results")
	flag.Parse()

	if *outputDir == "" {
		log.Fatal("--output is required")
	}
	if *target <= 0 {
		log.Fatal("--target must be positive")
	}

	if err := os.MkdirAll(*outputDir, 0755); err != nil {
		log.Fatalf("failed to create output directory: %v", err)
	}

	baseCfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	params := NewParamVector()
	dim := params.Dim()

	method, err := newMethod(*methodName, dim)
	if err != nil {
		log.Fatal(err)
	}

	evalSeeds := make([]int64, *seeds)
	for i := range evalSeeds {
		evalSeeds[i] = int64(i*1000 + 42)
	}

	evaluator := NewFitnessEvaluator(params, int32(*maxTicks), evalSeeds, baseCfg, *target)
	initX := params.Normalize(params.DefaultVector())

	logPath := filepath.Join(*outputDir, "optimize_log.csv")
	logFile, err := os.Create(logPath)
	if err != nil {
		log.Fatalf("failed to create log file: %v", err)
	}
	defer logFile.Close()

	logWriter := csv.NewWriter(logFile)
	defer logWriter.Flush()

	header := []string{"eval", "score", "mean_population"}
	for _, spec := range params.Specs {
		header = append(header, spec.Name)
	}
	logWriter.Write(header)

	evalCount := 0
	bestScore := math.Inf(1)
	var bestParams []float64
	var bestMean float64
	startTime := time.Now()

	problem := optimize.Problem{
		Func: func(x []float64) float64 {
			// Values actually used are the clamped ones.
			clamped := params.Clamp(params.Denormalize(x))
			score := evaluator.Evaluate(clamped)
			mean := evaluator.LastMean()
			evalCount++

			if score < bestScore {
				bestScore = score
				bestMean = mean
				bestParams = clamped
			}

			row := []string{strconv.Itoa(evalCount), fmt.Sprintf("%.6f", score), fmt.Sprintf("%.1f", mean)}
			for _, v := range clamped {
				row = append(row, fmt.Sprintf("%.6f", v))
			}
			logWriter.Write(row)
			logWriter.Flush()

			elapsed := time.Since(startTime)
			avgPerEval := elapsed / time.Duration(evalCount)
			remaining := time.Duration(*maxEvals-evalCount) * avgPerEval
			fmt.Printf("Eval %d/%d: score=%.4f mean_pop=%.0f (best=%.4f) | elapsed: %s, ETA: %s\n",
				evalCount, *maxEvals, score, mean, bestScore,
				formatDuration(elapsed), formatDuration(remaining))

			return score
		},
	}

	settings := &optimize.Settings{
		FuncEvaluations: *maxEvals,
		Concurrent:      0,
	}

	fmt.Printf("Starting %s optimization with %d parameters, target=%.0f, max_evals=%d\n",
		*methodName, dim, *target, *maxEvals)
	fmt.Printf("Seeds per evaluation: %d, ticks per run: %d\n", *seeds, *maxTicks)

	result, err := optimize.Minimize(problem, initX, settings, method)
	if err != nil {
		log.Printf("optimization ended: %v", err)
	}
	if bestParams == nil && result != nil {
		bestParams = params.Clamp(params.Denormalize(result.X))
	}
	if bestParams == nil {
		log.Fatal("no evaluations completed")
	}

	fmt.Printf("\nOptimization complete after %d evaluations in %s\n", evalCount, formatDuration(time.Since(startTime)))
	fmt.Printf("Best score: %.4f (mean population %.0f)\n", bestScore, bestMean)

	summary := bestResult{
		Score:          bestScore,
		MeanPopulation: bestMean,
		Target:         *target,
		Evaluations:    evalCount,
		Params:         make(map[string]float64, dim),
	}
	fmt.Println("\nBest parameters:")
	for i, spec := range params.Specs {
		fmt.Printf("  %s (%s): %.6f\n", spec.Name, spec.Path, bestParams[i])
		summary.Params[spec.Name] = bestParams[i]
	}

	bestCfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("failed to reload config: %v", err)
	}
	params.ApplyToConfig(bestCfg, bestParams)

	configOutPath := filepath.Join(*outputDir, "best_config.yaml")
	if err := bestCfg.WriteYAML(configOutPath); err != nil {
		log.Printf("failed to write best config: %v", err)
	} else {
		fmt.Printf("\nBest config saved to: %s\n", configOutPath)
	}

	resultPath := filepath.Join(*outputDir, "best_result.json")
	data, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		log.Printf("failed to marshal result: %v", err)
	} else if err := os.WriteFile(resultPath, data, 0644); err != nil {
		log.Printf("failed to write result: %v", err)
	} else {
		fmt.Printf("Result saved to: %s\n", resultPath)
	}
}
