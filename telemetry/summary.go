package telemetry

import "github.com/pthm-cable/savanna/components"

// SpeciesSummary is one species' totals over a whole run.
type SpeciesSummary struct {
	Species     string `csv:"species"`
	Peak        int    `csv:"peak"`
	PeakStep    int    `csv:"peak_step"`
	Final       int    `csv:"final"`
	Births      int    `csv:"births"`
	Deaths      int    `csv:"deaths"`
	Eaten       int    `csv:"eaten"`
	Meals       int    `csv:"meals"`
	ExtinctStep int    `csv:"extinct_step"` // -1 while the species is alive
}

// Survived reports whether the species was alive at the last observation.
func (s SpeciesSummary) Survived() bool {
	return s.Final > 0
}

// RunSummary folds window stats into per-species run totals.
type RunSummary struct {
	order []components.Species
	rows  [components.NumSpecies]SpeciesSummary
	seen  [components.NumSpecies]bool
}

// NewRunSummary tracks the given species in output order.
func NewRunSummary(order []components.Species) *RunSummary {
	r := &RunSummary{order: append([]components.Species(nil), order...)}
	r.Reset()
	return r
}

// Reset drops all totals.
func (r *RunSummary) Reset() {
	for _, sp := range r.order {
		r.rows[sp] = SpeciesSummary{Species: sp.String(), ExtinctStep: -1}
		r.seen[sp] = false
	}
}

// AddWindow adds one window's event counts and population.
func (r *RunSummary) AddWindow(ws WindowStats) {
	var counts [components.NumSpecies]int
	for _, w := range ws.Species {
		sp, ok := components.ParseSpecies(w.Species)
		if !ok {
			continue
		}
		row := &r.rows[sp]
		row.Births += w.Births
		row.Deaths += w.Deaths
		row.Eaten += w.Eaten
		row.Meals += w.Meals
		counts[sp] = w.Count
	}
	r.Observe(ws.WindowEndStep, counts)
}

// Observe records the population at step.
func (r *RunSummary) Observe(step int, counts [components.NumSpecies]int) {
	for _, sp := range r.order {
		row := &r.rows[sp]
		n := counts[sp]
		if !r.seen[sp] || n > row.Peak {
			row.Peak, row.PeakStep = n, step
		}
		switch {
		case n > 0:
			row.ExtinctStep = -1
		case row.Final > 0 || !r.seen[sp]:
			row.ExtinctStep = step
		}
		row.Final = n
		r.seen[sp] = true
	}
}

// Rows returns the summaries in output order.
func (r *RunSummary) Rows() []SpeciesSummary {
	out := make([]SpeciesSummary, 0, len(r.order))
	for _, sp := range r.order {
		out = append(out, r.rows[sp])
	}
	return out
}
