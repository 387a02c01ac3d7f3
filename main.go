package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/pthm-cable/savanna/config"
	"github.com/pthm-cable/savanna/game"
	"github.com/pthm-cable/savanna/renderer"
)

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	headless := flag.Bool("headless", false, "Run without graphics")
	logStats := flag.Bool("log-stats", false, "Output stats via slog")
	statsWindow := flag.Int("stats-window", 0, "Stats window size in steps (0 = use config)")
	outputDir := flag.String("output-dir", "", "Output directory for CSV logs and config snapshot")
	seed := flag.Int64("seed", 0, "RNG seed (0 = time-based)")
	steps := flag.Int("steps", 0, "Steps to simulate (0 = use config)")
	delay := flag.Duration("delay", -1, "Pause between steps (negative = use config)")
	statusEvery := flag.Int("status-every", 100, "Headless status log interval in steps (0 = off)")

	flag.Parse()

	// Set up slog (JSON to stdout for structured logging)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// Initialize config before anything else
	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg := config.Cfg()

	// Set up seed
	rngSeed := *seed
	if rngSeed == 0 {
		rngSeed = time.Now().UnixNano()
	}

	numSteps := cfg.Simulation.Steps
	if *steps > 0 {
		numSteps = *steps
	}
	stepDelay := cfg.Derived.Delay
	if *delay >= 0 {
		stepDelay = *delay
	}

	opts := game.Options{
		Seed:        rngSeed,
		OutputDir:   *outputDir,
		LogStats:    *logStats,
		StatsWindow: *statsWindow,
		Delay:       stepDelay,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if *headless {
		if err := runHeadless(ctx, cfg, opts, numSteps, *statusEvery); err != nil {
			slog.Error("simulation failed", "error", err)
			os.Exit(1)
		}
		return
	}

	if err := runGraphical(ctx, cfg, opts, numSteps); err != nil {
		slog.Error("simulation failed", "error", err)
		if errors.Is(err, renderer.ErrNoGraphics) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}

func runHeadless(ctx context.Context, cfg *config.Config, opts game.Options, numSteps, statusEvery int) error {
	// Headless mode - pure CPU simulation, no raylib needed
	sim, err := game.NewSimulator(cfg, game.NewHeadlessView(statusEvery), opts)
	if err != nil {
		return err
	}
	defer sim.Close()

	slog.Info("starting headless simulation",
		"seed", opts.Seed,
		"steps", numSteps,
		"delay", opts.Delay,
	)

	ran := sim.Simulate(ctx, numSteps)
	snap := sim.Snapshot()
	slog.Info("simulation finished",
		"steps_run", ran,
		"step", sim.Step(),
		"viable", sim.Viable(),
		"organisms", snap.Census.Total(),
		"census", renderer.CensusLine(snap),
	)
	for _, row := range sim.Summary() {
		slog.Info("species summary",
			"species", row.Species,
			"peak", row.Peak,
			"peak_step", row.PeakStep,
			"final", row.Final,
			"births", row.Births,
			"deaths", row.Deaths,
			"extinct_step", row.ExtinctStep,
		)
	}
	return sim.Close()
}

func runGraphical(ctx context.Context, cfg *config.Config, opts game.Options, numSteps int) error {
	view := renderer.NewGridView(cfg)
	sim, err := game.NewSimulator(cfg, view, opts)
	if err != nil {
		return err
	}
	defer sim.Close()

	return view.Run(ctx, sim, numSteps)
}
