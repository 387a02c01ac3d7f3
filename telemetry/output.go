package telemetry

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"

	"github.com/pthm-cable/savanna/config"
)

// Output file names inside the run directory.
const (
	PopulationFile = "population.csv"
	SpeciesFile    = "species.csv"
	PerfFile       = "perf.csv"
	BookmarksFile  = "bookmarks.csv"
	SummaryFile    = "summary.csv"
	ConfigFile     = "config.yaml"
)

// csvStream appends rows of one record type to a CSV file. The header goes
// out with the first row.
type csvStream[T any] struct {
	name   string
	f      *os.File
	header bool
}

func openStream[T any](dir, name string) (*csvStream[T], error) {
	f, err := os.Create(filepath.Join(dir, name))
	if err != nil {
		return nil, fmt.Errorf("creating %s: %w", name, err)
	}
	return &csvStream[T]{name: name, f: f}, nil
}

func (s *csvStream[T]) write(rows ...T) error {
	if len(rows) == 0 {
		return nil
	}
	if s.f == nil {
		return fmt.Errorf("writing %s: %w", s.name, os.ErrClosed)
	}
	marshal := gocsv.MarshalWithoutHeaders
	if !s.header {
		marshal = gocsv.Marshal
	}
	if err := marshal(rows, s.f); err != nil {
		return fmt.Errorf("writing %s: %w", s.name, err)
	}
	s.header = true
	return nil
}

func (s *csvStream[T]) close() error {
	if s == nil || s.f == nil {
		return nil
	}
	err := s.f.Close()
	s.f = nil
	return err
}

// OutputManager writes a run directory: the effective config, one CSV
// stream per record type, and the per-species summary on Close.
type OutputManager struct {
	dir string

	population *csvStream[WindowStats]
	species    *csvStream[SpeciesWindow]
	perf       *csvStream[PerfStatsCSV]
	bookmarks  *csvStream[Bookmark]

	summary func() []SpeciesSummary
}

// NewOutputManager creates the run directory and its CSV streams.
// Returns nil if dir is empty (output disabled).
func NewOutputManager(dir string) (*OutputManager, error) {
	if dir == "" {
		return nil, nil
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	om := &OutputManager{dir: dir}
	var err error
	if om.population, err = openStream[WindowStats](dir, PopulationFile); err != nil {
		return nil, err
	}
	if om.species, err = openStream[SpeciesWindow](dir, SpeciesFile); err != nil {
		om.Close()
		return nil, err
	}
	if om.perf, err = openStream[PerfStatsCSV](dir, PerfFile); err != nil {
		om.Close()
		return nil, err
	}
	if om.bookmarks, err = openStream[Bookmark](dir, BookmarksFile); err != nil {
		om.Close()
		return nil, err
	}
	return om, nil
}

// WriteConfig saves the configuration the run uses.
func (om *OutputManager) WriteConfig(cfg *config.Config) error {
	if om == nil {
		return nil
	}
	return cfg.WriteYAML(filepath.Join(om.dir, ConfigFile))
}

// WriteWindow appends the window to population.csv and its species rows to
// species.csv.
func (om *OutputManager) WriteWindow(stats WindowStats) error {
	if om == nil {
		return nil
	}
	if err := om.population.write(stats); err != nil {
		return err
	}
	return om.species.write(stats.Species...)
}

// WritePerf appends the perf stats of the window ending at windowEnd.
func (om *OutputManager) WritePerf(stats PerfStats, windowEnd int) error {
	if om == nil {
		return nil
	}
	return om.perf.write(stats.ToCSV(windowEnd))
}

// WriteBookmark appends a bookmark.
func (om *OutputManager) WriteBookmark(b Bookmark) error {
	if om == nil {
		return nil
	}
	return om.bookmarks.write(b)
}

// SummarizeWith registers the source of summary.csv, read once on Close.
func (om *OutputManager) SummarizeWith(summary func() []SpeciesSummary) {
	if om == nil {
		return
	}
	om.summary = summary
}

func (om *OutputManager) writeSummary() error {
	rows := om.summary()
	f, err := os.Create(filepath.Join(om.dir, SummaryFile))
	if err != nil {
		return fmt.Errorf("creating %s: %w", SummaryFile, err)
	}
	if err := gocsv.Marshal(rows, f); err != nil {
		f.Close()
		return fmt.Errorf("writing %s: %w", SummaryFile, err)
	}
	return f.Close()
}

// Close writes the summary and closes every stream. Calling it again is a
// no-op.
func (om *OutputManager) Close() error {
	if om == nil {
		return nil
	}
	var errs []error
	if om.summary != nil {
		errs = append(errs, om.writeSummary())
		om.summary = nil
	}
	errs = append(errs,
		om.population.close(),
		om.species.close(),
		om.perf.close(),
		om.bookmarks.close(),
	)
	return errors.Join(errs...)
}
