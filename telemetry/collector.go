// Package telemetry provides population tracking, bookmarking, and run output.
package telemetry

import "github.com/pthm-cable/savanna/components"

// tally is one species' lifecycle events within a window.
type tally struct {
	births     int
	deaths     [components.NumCauses]int
	meals      int // organisms this species ate
	infections int // neighbours this species infected
}

func (t *tally) totalDeaths() int {
	n := 0
	for _, d := range t.deaths {
		n += d
	}
	return n
}

// Collector accumulates lifecycle events within step windows and produces WindowStats.
type Collector struct {
	windowSteps int
	windowStart int

	species     [components.NumSpecies]tally
	repopulated int
}

// NewCollector creates a stats collector that flushes every windowSteps steps.
func NewCollector(windowSteps int) *Collector {
	if windowSteps < 1 {
		windowSteps = 1
	}
	return &Collector{windowSteps: windowSteps}
}

func (c *Collector) tallyFor(s components.Species) *tally {
	if s >= components.NumSpecies {
		return &c.species[components.SpeciesNone]
	}
	return &c.species[s]
}

// RecordBirth records n offspring of species s.
func (c *Collector) RecordBirth(s components.Species, n int) {
	c.tallyFor(s).births += n
}

// RecordDeath records a death and its cause.
func (c *Collector) RecordDeath(s components.Species, cause components.DeathCause) {
	if cause >= components.NumCauses {
		return
	}
	c.tallyFor(s).deaths[cause]++
}

// RecordMeal records eater consuming one organism. The eaten side is
// already counted as a predation death.
func (c *Collector) RecordMeal(eater, eaten components.Species) {
	c.tallyFor(eater).meals++
}

// RecordInfection records n neighbours raised to the elevated infection level by s.
func (c *Collector) RecordInfection(s components.Species, n int) {
	c.tallyFor(s).infections += n
}

// RecordRepopulation records grass planted by a repopulation pass.
func (c *Collector) RecordRepopulation(n int) {
	c.repopulated += n
}

// ShouldFlush returns true if enough steps have passed to flush the window.
func (c *Collector) ShouldFlush(step int) bool {
	return step-c.windowStart >= c.windowSteps
}

// Sample is the population state captured when a window is flushed.
type Sample struct {
	Step      int
	Day       int
	Season    components.Season
	Raining   bool
	Counts    [components.NumSpecies]int
	Predators int
	Prey      int

	// Species to report per window, in output order. Empty means all.
	Species []components.Species

	// Per-animal values for distribution stats
	Ages       []float64
	Food       []float64
	Infections []float64

	ElevatedLevel float64 // infection at or above this counts as elevated
}

func (s Sample) reported() []components.Species {
	if len(s.Species) > 0 {
		return s.Species
	}
	all := make([]components.Species, 0, components.NumSpecies-1)
	for sp := components.Grass; sp < components.NumSpecies; sp++ {
		all = append(all, sp)
	}
	return all
}

// Flush produces a WindowStats and resets counters for the next window.
func (c *Collector) Flush(s Sample) WindowStats {
	ageMean, ageStd, ageP50 := ComputeStats(s.Ages)
	foodMean, foodStd, _ := ComputeStats(s.Food)
	infMean, _, _ := ComputeStats(s.Infections)

	elevated := 0
	for _, v := range s.Infections {
		if v >= s.ElevatedLevel {
			elevated++
		}
	}

	stats := WindowStats{
		WindowStartStep: c.windowStart,
		WindowEndStep:   s.Step,
		Day:             s.Day,
		Season:          s.Season.String(),
		Raining:         s.Raining,

		Grass:     s.Counts[components.Grass],
		Zebra:     s.Counts[components.Zebra],
		Deer:      s.Counts[components.Deer],
		Lion:      s.Counts[components.Lion],
		Bear:      s.Counts[components.Bear],
		Tiger:     s.Counts[components.Tiger],
		Predators: s.Predators,
		Prey:      s.Prey,

		Repopulated: c.repopulated,

		AgeMean:       ageMean,
		AgeStd:        ageStd,
		AgeP50:        ageP50,
		FoodMean:      foodMean,
		FoodStd:       foodStd,
		InfectionMean: infMean,
		Elevated:      elevated,
	}

	// Role totals are sums of the species tallies
	for sp := range c.species {
		t := &c.species[sp]
		if components.Species(sp) == components.Grass {
			stats.GrassBirths += t.births
		} else {
			stats.AnimalBirths += t.births
		}
		stats.OldAgeDeaths += t.deaths[components.CauseOldAge]
		stats.StarvationDeaths += t.deaths[components.CauseStarvation]
		stats.OvercrowdingDeaths += t.deaths[components.CauseOvercrowding]
		stats.DiseaseDeaths += t.deaths[components.CauseDisease]
		stats.PredationDeaths += t.deaths[components.CausePredation]
		stats.OvergrownDeaths += t.deaths[components.CauseOvergrown]
		stats.Meals += t.meals
		stats.Infections += t.infections
	}

	for _, sp := range s.reported() {
		t := c.tallyFor(sp)
		stats.Species = append(stats.Species, SpeciesWindow{
			WindowEnd:   s.Step,
			Species:     sp.String(),
			Count:       s.Counts[sp],
			Births:      t.births,
			Deaths:      t.totalDeaths(),
			OldAge:      t.deaths[components.CauseOldAge],
			Starvation:  t.deaths[components.CauseStarvation],
			Overcrowded: t.deaths[components.CauseOvercrowding],
			Disease:     t.deaths[components.CauseDisease],
			Eaten:       t.deaths[components.CausePredation],
			Overgrown:   t.deaths[components.CauseOvergrown],
			Meals:       t.meals,
			Infections:  t.infections,
		})
	}

	c.windowStart = s.Step
	c.species = [components.NumSpecies]tally{}
	c.repopulated = 0

	return stats
}

// Reset clears counters and restarts the window at step 0.
func (c *Collector) Reset() {
	*c = Collector{windowSteps: c.windowSteps}
}
