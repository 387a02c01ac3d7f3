package telemetry

import (
	"fmt"
	"log/slog"

	"github.com/pthm-cable/savanna/config"
)

// BookmarkType identifies the type of bookmark.
type BookmarkType string

const (
	BookmarkSpeciesExtinct   BookmarkType = "species_extinct"
	BookmarkPreyCrash        BookmarkType = "prey_crash"
	BookmarkPredatorRecovery BookmarkType = "predator_recovery"
	BookmarkGrassRepopulated BookmarkType = "grass_repopulated"
	BookmarkStableEcosystem  BookmarkType = "stable_ecosystem"
)

// Bookmark represents an automatically triggered bookmark.
type Bookmark struct {
	Type        BookmarkType `csv:"type"`
	Step        int          `csv:"step"`
	Description string       `csv:"description"`
}

// LogBookmark logs the bookmark using slog.
func (b Bookmark) LogBookmark() {
	slog.Info("bookmark",
		"type", string(b.Type),
		"step", b.Step,
		"description", b.Description,
	)
}

// BookmarkDetector detects interesting moments in the simulation.
type BookmarkDetector struct {
	cfg config.BookmarksConfig

	// Rolling history (circular buffer)
	history     []WindowStats
	historySize int
	historyIdx  int
	historyFull bool

	// State tracking
	recentPredMin      int // minimum predator count in recent history
	recentPreyPeak     int // peak prey count in recent history
	stableWindowsCount int // consecutive windows with stable populations
}

// NewBookmarkDetector creates a detector with the given history size.
func NewBookmarkDetector(historySize int, cfg config.BookmarksConfig) *BookmarkDetector {
	if historySize < 5 {
		historySize = 5 // minimum for stable ecosystem detection
	}
	if cfg.StableEcosystem.StableWindows < 1 {
		cfg.StableEcosystem.StableWindows = 5
	}
	return &BookmarkDetector{
		cfg:         cfg,
		history:     make([]WindowStats, historySize),
		historySize: historySize,
	}
}

// Check analyzes the latest stats and returns any triggered bookmarks.
func (bd *BookmarkDetector) Check(stats WindowStats) []Bookmark {
	var bookmarks []Bookmark

	bookmarks = append(bookmarks, bd.checkExtinctions(stats)...)

	if stats.Repopulated > 0 {
		bookmarks = append(bookmarks, Bookmark{
			Type:        BookmarkGrassRepopulated,
			Step:        stats.WindowEndStep,
			Description: fmt.Sprintf("Repopulated %d grass, now %d", stats.Repopulated, stats.Grass),
		})
	}

	if bd.historyFull || bd.historyIdx > 0 {
		if b := bd.checkPredatorRecovery(stats); b != nil {
			bookmarks = append(bookmarks, *b)
		}
		if b := bd.checkPreyCrash(stats); b != nil {
			bookmarks = append(bookmarks, *b)
		}
		if b := bd.checkStableEcosystem(stats); b != nil {
			bookmarks = append(bookmarks, *b)
		}
	}

	bd.addToHistory(stats)

	if stats.Predators < bd.recentPredMin || bd.recentPredMin == 0 {
		bd.recentPredMin = stats.Predators
	}
	if stats.Prey > bd.recentPreyPeak {
		bd.recentPreyPeak = stats.Prey
	}

	return bookmarks
}

// Reset clears history so the detector can be reused for a new run.
func (bd *BookmarkDetector) Reset() {
	clear(bd.history)
	bd.historyIdx = 0
	bd.historyFull = false
	bd.recentPredMin = 0
	bd.recentPreyPeak = 0
	bd.stableWindowsCount = 0
}

func (bd *BookmarkDetector) addToHistory(stats WindowStats) {
	bd.history[bd.historyIdx] = stats
	bd.historyIdx = (bd.historyIdx + 1) % bd.historySize
	if bd.historyIdx == 0 {
		bd.historyFull = true
	}
}

// getHistory returns stored windows oldest first.
func (bd *BookmarkDetector) getHistory() []WindowStats {
	if !bd.historyFull {
		return bd.history[:bd.historyIdx]
	}
	out := make([]WindowStats, 0, bd.historySize)
	out = append(out, bd.history[bd.historyIdx:]...)
	return append(out, bd.history[:bd.historyIdx]...)
}

// checkExtinctions fires when a species alive in the previous window is gone.
func (bd *BookmarkDetector) checkExtinctions(stats WindowStats) []Bookmark {
	prev, ok := bd.last()
	if !ok {
		return nil
	}
	before, now := prev.SpeciesCounts(), stats.SpeciesCounts()

	var out []Bookmark
	for _, name := range speciesColumns {
		if before[name] > 0 && now[name] == 0 {
			out = append(out, Bookmark{
				Type:        BookmarkSpeciesExtinct,
				Step:        stats.WindowEndStep,
				Description: fmt.Sprintf("%s went extinct", name),
			})
		}
	}
	return out
}

func (bd *BookmarkDetector) last() (WindowStats, bool) {
	if !bd.historyFull && bd.historyIdx == 0 {
		return WindowStats{}, false
	}
	idx := (bd.historyIdx - 1 + bd.historySize) % bd.historySize
	return bd.history[idx], true
}

func (bd *BookmarkDetector) checkPredatorRecovery(stats WindowStats) *Bookmark {
	c := bd.cfg.PredatorRecovery
	if bd.recentPredMin == 0 || bd.recentPredMin > c.LowThreshold {
		return nil
	}

	threshold := bd.recentPredMin * c.Multiplier
	if stats.Predators >= threshold && stats.Predators >= c.MinCount {
		// Reset the minimum after triggering
		oldMin := bd.recentPredMin
		bd.recentPredMin = stats.Predators

		return &Bookmark{
			Type:        BookmarkPredatorRecovery,
			Step:        stats.WindowEndStep,
			Description: fmt.Sprintf("Predator population recovered from %d to %d", oldMin, stats.Predators),
		}
	}

	return nil
}

func (bd *BookmarkDetector) checkPreyCrash(stats WindowStats) *Bookmark {
	c := bd.cfg.PreyCrash
	if bd.recentPreyPeak == 0 {
		return nil
	}

	dropPercent := 1.0 - float64(stats.Prey)/float64(bd.recentPreyPeak)
	if dropPercent > c.DropPercent && stats.Prey < bd.recentPreyPeak-c.MinDrop {
		// Reset peak after crash
		oldPeak := bd.recentPreyPeak
		bd.recentPreyPeak = stats.Prey

		return &Bookmark{
			Type:        BookmarkPreyCrash,
			Step:        stats.WindowEndStep,
			Description: fmt.Sprintf("Prey crashed %.0f%% from peak %d to %d", dropPercent*100, oldPeak, stats.Prey),
		}
	}

	return nil
}

func (bd *BookmarkDetector) checkStableEcosystem(stats WindowStats) *Bookmark {
	c := bd.cfg.StableEcosystem
	if stats.Prey < c.MinPrey || stats.Predators < c.MinPredators || stats.Grass < c.MinPlants {
		bd.stableWindowsCount = 0
		return nil
	}

	history := bd.getHistory()
	if len(history) < 4 {
		return nil
	}

	recent := history[len(history)-4:]
	prey := make([]float64, len(recent))
	pred := make([]float64, len(recent))
	for i, h := range recent {
		prey[i] = float64(h.Prey)
		pred[i] = float64(h.Predators)
	}

	if CoefficientOfVariation(prey) < c.CVThreshold && CoefficientOfVariation(pred) < c.CVThreshold {
		bd.stableWindowsCount++
	} else {
		bd.stableWindowsCount = 0
	}

	if bd.stableWindowsCount == c.StableWindows { // trigger exactly once per stable run
		return &Bookmark{
			Type:        BookmarkStableEcosystem,
			Step:        stats.WindowEndStep,
			Description: fmt.Sprintf("Stable ecosystem with %d prey, %d predators over %d windows", stats.Prey, stats.Predators, c.StableWindows),
		}
	}

	return nil
}
