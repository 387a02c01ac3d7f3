package game

import (
	"log/slog"

	"github.com/pthm-cable/savanna/components"
	"github.com/pthm-cable/savanna/telemetry"
)

// flushTelemetry checks if the stats window should be flushed and handles bookmarks.
func (s *Simulator) flushTelemetry() {
	step := s.clock.Step()
	if !s.collector.ShouldFlush(step) {
		return
	}

	stats := s.collector.Flush(s.sample())
	s.summary.AddWindow(stats)
	perfStats := s.perf.Stats()

	// Call stats callback if provided
	if s.statsCallback != nil {
		s.statsCallback(stats)
	}

	// Log stats if enabled (console output)
	if s.logStats {
		stats.LogStats()
		perfStats.LogStats()
	}

	if s.output != nil {
		if err := s.output.WriteWindow(stats); err != nil {
			slog.Error("failed to write window", "error", err)
		}
		if err := s.output.WritePerf(perfStats, stats.WindowEndStep); err != nil {
			slog.Error("failed to write perf", "error", err)
		}
	}

	for _, bm := range s.bookmarks.Check(stats) {
		if s.logStats {
			bm.LogBookmark()
		}
		if s.output != nil {
			if err := s.output.WriteBookmark(bm); err != nil {
				slog.Error("failed to write bookmark", "error", err)
			}
		}
	}
}

// sample collects the population state at the end of a window.
func (s *Simulator) sample() telemetry.Sample {
	snap := s.last
	out := telemetry.Sample{
		Step:          s.clock.Step(),
		Day:           s.clock.Day(),
		Season:        s.clock.Season(),
		Raining:       s.clock.Raining(),
		Counts:        snap.Census,
		Predators:     snap.RoleCount(components.RolePredator),
		Prey:          snap.RoleCount(components.RolePrey),
		Species:       s.eco.Traits().Order(),
		ElevatedLevel: s.cfg.Disease.ElevatedLevel,
		Ages:          make([]float64, 0, len(s.animals)),
		Food:          make([]float64, 0, len(s.animals)),
		Infections:    make([]float64, 0, len(s.animals)),
	}
	for _, e := range s.animals {
		org := s.eco.Organism(e)
		an := s.eco.Animal(e)
		out.Ages = append(out.Ages, float64(org.Age))
		out.Food = append(out.Food, float64(an.FoodLevel))
		out.Infections = append(out.Infections, an.Infection)
	}
	return out
}
