// Package game runs the ecosystem step loop and publishes its state.
package game

import (
	"context"
	"fmt"
	"image/color"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/savanna/components"
	"github.com/pthm-cable/savanna/config"
	"github.com/pthm-cable/savanna/systems"
	"github.com/pthm-cable/savanna/telemetry"
)

// Simulator owns the field, the clock and the live organism lists.
// Stepping and reset are serialized; Pause may be called from any goroutine.
type Simulator struct {
	mu sync.Mutex

	cfg   *config.Config
	view  View
	rng   systems.Rand
	seed  int64
	delay time.Duration

	field *systems.Field
	eco   *systems.Ecosystem
	clock *systems.Clock

	// Live collections, replaced at the end of every step
	animals []ecs.Entity
	plants  []ecs.Entity

	// Step-local newborn buffers
	newAnimals []ecs.Entity
	newPlants  []ecs.Entity

	last    systems.Snapshot
	running atomic.Bool

	// Telemetry
	collector     *telemetry.Collector
	summary       *telemetry.RunSummary
	bookmarks     *telemetry.BookmarkDetector
	perf          *telemetry.PerfCollector
	output        *telemetry.OutputManager
	logStats      bool
	statsCallback func(telemetry.WindowStats)
}

// NewSimulator creates a simulator on cfg and populates it.
// Non-positive world dimensions fall back to 80x120.
func NewSimulator(cfg *config.Config, view View, opts Options) (*Simulator, error) {
	depth, width := cfg.World.Depth, cfg.World.Width
	if depth <= 0 || width <= 0 {
		slog.Warn("dimensions must be greater than zero, using defaults",
			"depth", depth,
			"width", width,
			"default_depth", DefaultDepth,
			"default_width", DefaultWidth,
		)
		depth, width = DefaultDepth, DefaultWidth
	}

	statsWindow := cfg.Telemetry.StatsWindow
	if opts.StatsWindow > 0 {
		statsWindow = opts.StatsWindow
	}

	s := &Simulator{
		cfg:           cfg,
		view:          view,
		rng:           systems.NewRand(opts.Seed),
		seed:          opts.Seed,
		delay:         opts.Delay,
		field:         systems.NewField(depth, width),
		clock:         systems.NewClock(cfg.Clock),
		collector:     telemetry.NewCollector(statsWindow),
		bookmarks:     telemetry.NewBookmarkDetector(cfg.Telemetry.BookmarkHistorySize, cfg.Bookmarks),
		perf:          telemetry.NewPerfCollector(cfg.Telemetry.PerfCollectorWindow),
		logStats:      opts.LogStats,
		statsCallback: opts.StatsCallback,
	}

	eco, err := systems.NewEcosystem(cfg, s.field, s.rng, s.collector)
	if err != nil {
		return nil, fmt.Errorf("building ecosystem: %w", err)
	}
	s.eco = eco
	s.summary = telemetry.NewRunSummary(eco.Traits().Order())

	output, err := telemetry.NewOutputManager(opts.OutputDir)
	if err != nil {
		return nil, err
	}
	s.output = output
	if err := output.WriteConfig(cfg); err != nil {
		output.Close()
		return nil, fmt.Errorf("writing config: %w", err)
	}
	output.SummarizeWith(s.Summary)

	for _, sc := range cfg.Species {
		sp, _ := components.ParseSpecies(sc.Name)
		view.SetColor(sp, color.RGBA{R: sc.Color.R, G: sc.Color.G, B: sc.Color.B, A: 255})
	}

	s.Reset()
	return s, nil
}

// Reset clears the field and repopulates it from scratch at step 0.
func (s *Simulator) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.eco.Reset()
	s.clock.Reset()
	s.collector.Reset()
	s.bookmarks.Reset()
	s.summary.Reset()
	s.animals, s.plants = s.eco.Populate()
	s.newAnimals = s.newAnimals[:0]
	s.newPlants = s.newPlants[:0]

	s.publish()
	s.summary.Observe(0, s.last.Census)
	slog.Info("reset",
		"seed", s.seed,
		"depth", s.field.Depth(),
		"width", s.field.Width(),
		"animals", len(s.animals),
		"plants", len(s.plants),
	)
}

// SimulateOneStep advances the clock, lets every live organism act and
// publishes the resulting field.
func (s *Simulator) SimulateOneStep() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.step()
}

func (s *Simulator) step() {
	s.perf.StartStep()

	s.perf.StartPhase(telemetry.PhaseClock)
	s.clock.Advance(s.rng)

	s.perf.StartPhase(telemetry.PhaseAnimals)
	s.newAnimals = s.newAnimals[:0]
	s.animals = s.actAll(s.animals, &s.newAnimals, s.eco.ActAnimal)

	s.perf.StartPhase(telemetry.PhasePlants)
	s.newPlants = s.newPlants[:0]
	s.plants = s.actAll(s.plants, &s.newPlants, s.eco.ActGrass)

	s.perf.StartPhase(telemetry.PhaseRepopulate)
	if len(s.plants) < s.cfg.Population.PlantLowWater {
		s.repopulate()
	}

	s.perf.StartPhase(telemetry.PhaseMerge)
	s.merge()

	s.perf.StartPhase(telemetry.PhasePublish)
	s.publish()
	s.perf.EndStep()

	s.flushTelemetry()
}

// Simulate runs up to numSteps steps and returns how many ran. It stops
// early when the view reports the ecosystem is no longer viable, when Pause
// is called, or when ctx is done.
func (s *Simulator) Simulate(ctx context.Context, numSteps int) int {
	s.running.Store(true)
	defer s.running.Store(false)

	ran := 0
	for ran < numSteps && s.running.Load() && ctx.Err() == nil {
		if !s.view.IsViable(s.Snapshot()) {
			slog.Info("ecosystem no longer viable", "step", s.Step())
			break
		}
		s.SimulateOneStep()
		ran++

		if s.delay > 0 {
			select {
			case <-ctx.Done():
				return ran
			case <-time.After(s.delay):
			}
		}
	}
	return ran
}

// Pause stops a running Simulate loop between steps.
func (s *Simulator) Pause() {
	if s.running.Swap(false) {
		slog.Info("paused")
	}
}

// Running reports whether a Simulate loop is in progress.
func (s *Simulator) Running() bool {
	return s.running.Load()
}

// Step returns the current step.
func (s *Simulator) Step() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.clock.Step()
}

// Time returns the hour of day.
func (s *Simulator) Time() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.clock.Time()
}

// Season returns the current season.
func (s *Simulator) Season() components.Season {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.clock.Season()
}

// Raining reports whether it is raining now.
func (s *Simulator) Raining() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.clock.Raining()
}

// RainedThisSeason reports whether it has rained since the season began.
func (s *Simulator) RainedThisSeason() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.clock.RainedThisSeason()
}

// Census returns live counts per species from the last published snapshot.
func (s *Simulator) Census() systems.Census {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.last.Census
}

// Snapshot returns the last published snapshot.
func (s *Simulator) Snapshot() systems.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.last
}

// Summary returns per-species run totals up to the current step.
func (s *Simulator) Summary() []telemetry.SpeciesSummary {
	s.mu.Lock()
	defer s.mu.Unlock()
	r := *s.summary
	r.Observe(s.clock.Step(), s.last.Census)
	return r.Rows()
}

// Viable reports whether the view still considers the ecosystem viable.
func (s *Simulator) Viable() bool {
	return s.view.IsViable(s.Snapshot())
}

// Perf returns step timing over the recent window.
func (s *Simulator) Perf() telemetry.PerfStats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.perf.Stats()
}

// RecordFrame records draw loop timing for the perf stats.
func (s *Simulator) RecordFrame() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.perf.RecordFrame()
}

// Close writes the run summary and closes run output.
func (s *Simulator) Close() error {
	return s.output.Close()
}

func (s *Simulator) publish() {
	step := s.clock.Step()
	s.last = s.eco.Snapshot(step)
	s.view.ShowStatus(step, s.last)
}
