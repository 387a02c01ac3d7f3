package game

import (
	"time"

	"github.com/pthm-cable/savanna/telemetry"
)

// Fallback field size used when the configured dimensions are not positive.
const (
	DefaultDepth = 80
	DefaultWidth = 120
)

// Options configures a Simulator beyond the loaded config.
type Options struct {
	Seed          int64
	OutputDir     string // CSV and config output, empty disables
	LogStats      bool   // log window stats and bookmarks via slog
	StatsWindow   int    // steps per stats window, 0 uses config
	Delay         time.Duration
	StatsCallback func(telemetry.WindowStats)
}
