package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/cellsoup/config"
	"github.com/pthm-cable/cellsoup/frames"
	"github.com/pthm-cable/cellsoup/game"
	"github.com/pthm-cable/cellsoup/renderer"
	"github.com/pthm-cable/cellsoup/server"
	"github.com/pthm-cable/cellsoup/telemetry"
)

// runOptions collects the command line.
type runOptions struct {
	headless   bool
	logStats   bool
	outputDir  string
	seed       int64
	maxTicks   int
	frameDir   string
	frameEvery int
	frameScale float64
	serve      bool
}

func main() {
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	stepsPerUpdate := flag.Int("steps-per-update", 0, "Simulation ticks per update call (0 = use config)")
	addr := flag.String("addr", "", "Observation server address (empty = use config)")

	var opts runOptions
	flag.BoolVar(&opts.headless, "headless", false, "Run without graphics")
	flag.BoolVar(&opts.logStats, "log-stats", false, "Output window stats via slog")
	flag.StringVar(&opts.outputDir, "output-dir", "", "Output directory for CSV logs and config snapshot")
	flag.Int64Var(&opts.seed, "seed", 0, "RNG seed (0 = time-based)")
	flag.IntVar(&opts.maxTicks, "max-ticks", 0, "Stop after N ticks (0 = unlimited)")
	flag.StringVar(&opts.frameDir, "frame-dir", "", "Directory for PNG frames in headless mode")
	flag.IntVar(&opts.frameEvery, "frame-every", 60, "Write a frame every N ticks")
	flag.Float64Var(&opts.frameScale, "frame-scale", 4, "Frame pixels per world unit")
	flag.BoolVar(&opts.serve, "serve", false, "Start the HTTP observation server")

	flag.Parse()

	// Set up slog (JSON to stdout for structured logging)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	if *stepsPerUpdate > 0 {
		cfg.Clock.StepsPerUpdate = *stepsPerUpdate
	}
	if *addr != "" {
		cfg.Server.Addr = *addr
	}
	if opts.seed == 0 {
		opts.seed = time.Now().UnixNano()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err = run(ctx, cfg, opts)
	stop()
	if err != nil {
		slog.Error("simulation failed", "error", err)
		os.Exit(1)
	}
}

// run builds the game and its outputs, then drives it until it finishes.
func run(ctx context.Context, cfg *config.Config, opts runOptions) error {
	gameOpts := game.Options{
		Seed:      opts.seed,
		LogStats:  opts.logStats,
		OutputDir: opts.outputDir,
		Snapshots: opts.serve || opts.frameDir != "" || !opts.headless,
	}

	var srv *server.Server
	var metrics *server.Metrics
	if opts.serve {
		metrics = server.NewMetrics()
		gameOpts.Listener = metrics
		// srv is set before the first tick flushes a window.
		gameOpts.StatsCallback = func(w telemetry.WindowStats) { srv.RecordStats(w) }
	}

	g, err := game.New(cfg, gameOpts)
	if err != nil {
		return fmt.Errorf("starting simulation: %w", err)
	}
	defer func() {
		if err := g.Close(); err != nil {
			slog.Error("failed to close output", "error", err)
		}
	}()

	if opts.serve {
		srv = server.New(cfg.Server, g, metrics)
		serverCtx, cancel := context.WithCancel(ctx)
		done := make(chan struct{})
		go func() {
			defer close(done)
			if err := srv.Start(serverCtx); err != nil {
				slog.Error("server stopped", "error", err)
			}
		}()
		defer func() {
			cancel()
			<-done
		}()
	}

	slog.Info("starting simulation",
		"seed", opts.seed,
		"headless", opts.headless,
		"population", g.Population(),
		"max_ticks", opts.maxTicks,
		"steps_per_update", g.StepsPerUpdate(),
	)

	if !opts.headless {
		rl.InitWindow(cfg.Derived.ScreenW, cfg.Derived.ScreenH, "Cell Soup")
		defer rl.CloseWindow()
		rl.SetTargetFPS(int32(cfg.Screen.TargetFPS))

		renderer.NewViewer(g, opts.maxTicks).Run(ctx)
		return nil
	}

	var fw *frames.Writer
	if opts.frameDir != "" {
		fw, err = frames.NewWriter(opts.frameDir, opts.frameEvery, opts.frameScale,
			cfg.Derived.WorldW32, cfg.Derived.WorldH32, float32(cfg.Founder.MaxEnergy)/4)
		if err != nil {
			return fmt.Errorf("creating frame writer: %w", err)
		}
	}

	for ctx.Err() == nil {
		g.UpdateHeadless()

		if fw != nil {
			if s := g.Snapshot(); fw.Due(s) {
				if _, err := fw.Write(s); err != nil {
					return fmt.Errorf("writing frame: %w", err)
				}
			}
		}

		if opts.maxTicks > 0 && int(g.Tick()) >= opts.maxTicks {
			slog.Info("max ticks reached", "tick", g.Tick(), "population", g.Population())
			return nil
		}
	}

	slog.Info("interrupted", "tick", g.Tick(), "population", g.Population())
	return nil
}
