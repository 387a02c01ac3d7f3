package main

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/gocarina/gocsv"

	"github.com/pthm-cable/savanna/components"
	"github.com/pthm-cable/savanna/config"
)

// searchLog writes one optimize_log.csv row per evaluation. Columns depend on
// the parameter set and the configured species.
type searchLog struct {
	w       *csv.Writer
	species []components.Species
}

func newSearchLog(out io.Writer, params *ParamVector, cfg *config.Config) (*searchLog, error) {
	l := &searchLog{w: csv.NewWriter(out)}
	header := []string{"eval", "fitness", "survived_steps", "quality"}
	for _, sc := range cfg.Species {
		sp, ok := components.ParseSpecies(sc.Name)
		if !ok || sc.Role == "plant" {
			continue
		}
		l.species = append(l.species, sp)
		header = append(header, sc.Name+"_survival")
	}
	for _, spec := range params.Specs {
		header = append(header, spec.Name)
	}
	if err := l.w.Write(header); err != nil {
		return nil, err
	}
	return l, nil
}

func (l *searchLog) record(eval int, ev Evaluation, values []float64) error {
	row := []string{
		strconv.Itoa(eval),
		strconv.FormatFloat(ev.Fitness, 'f', 6, 64),
		strconv.FormatFloat(ev.Survival, 'f', 1, 64),
		strconv.FormatFloat(ev.Quality, 'f', 4, 64),
	}
	for _, sp := range l.species {
		row = append(row, strconv.FormatFloat(ev.SpeciesSurvival[sp], 'f', 3, 64))
	}
	for _, v := range values {
		row = append(row, strconv.FormatFloat(v, 'f', 6, 64))
	}
	if err := l.w.Write(row); err != nil {
		return err
	}
	l.w.Flush()
	return l.w.Error()
}

// ParamResult is one best_params.csv row.
type ParamResult struct {
	Name    string  `csv:"name"`
	Path    string  `csv:"path"`
	Min     float64 `csv:"min"`
	Max     float64 `csv:"max"`
	Default float64 `csv:"default"`
	Best    float64 `csv:"best"`
	Shift   float64 `csv:"shift"` // (best - default) as a share of the range
}

// bestTracker keeps the best evaluation seen so far.
type bestTracker struct {
	params *ParamVector
	eval   int
	best   Evaluation
	values []float64
}

// offer records ev if it beats the current best and reports whether it did.
func (b *bestTracker) offer(eval int, ev Evaluation, values []float64) bool {
	if b.values != nil && ev.Fitness >= b.best.Fitness {
		return false
	}
	b.eval, b.best = eval, ev
	b.values = append(b.values[:0], values...)
	return true
}

// results compares the best values with the defaults.
func (b *bestTracker) results() []ParamResult {
	out := make([]ParamResult, len(b.params.Specs))
	for i, spec := range b.params.Specs {
		out[i] = ParamResult{
			Name:    spec.Name,
			Path:    spec.Path,
			Min:     spec.Min,
			Max:     spec.Max,
			Default: spec.Default,
			Best:    b.values[i],
			Shift:   (b.values[i] - spec.Default) / (spec.Max - spec.Min),
		}
	}
	return out
}

func (b *bestTracker) writeResults(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	if err := gocsv.Marshal(b.results(), f); err != nil {
		f.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return f.Close()
}
