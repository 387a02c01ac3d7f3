package systems

import (
	"testing"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/savanna/components"
	"github.com/pthm-cable/savanna/config"
)

// scriptedRand replays queued draws, then falls back to fixed values.
type scriptedRand struct {
	floats   []float64
	ints     []int
	defFloat float64
}

func (r *scriptedRand) Float64() float64 {
	if len(r.floats) == 0 {
		return r.defFloat
	}
	v := r.floats[0]
	r.floats = r.floats[1:]
	return v
}

func (r *scriptedRand) IntN(n int) int {
	if len(r.ints) == 0 {
		return 0
	}
	v := r.ints[0]
	r.ints = r.ints[1:]
	if v >= n {
		v = n - 1
	}
	return v
}

type countingRecorder struct {
	births     [components.NumSpecies]int
	deaths     [components.NumCauses]int
	meals      int
	infections int
}

func (r *countingRecorder) RecordBirth(s components.Species, n int) { r.births[s] += n }
func (r *countingRecorder) RecordDeath(_ components.Species, c components.DeathCause) {
	r.deaths[c]++
}
func (r *countingRecorder) RecordMeal(components.Species, components.Species) { r.meals++ }
func (r *countingRecorder) RecordInfection(_ components.Species, n int)      { r.infections += n }

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg, err := config.Load("")
	if err != nil {
		t.Fatalf("loading default config: %v", err)
	}
	return cfg
}

func newTestEcosystem(t *testing.T, depth, width int, rng Rand) (*Ecosystem, *countingRecorder) {
	t.Helper()
	rec := &countingRecorder{}
	eco, err := NewEcosystem(testConfig(t), NewField(depth, width), rng, rec)
	if err != nil {
		t.Fatalf("NewEcosystem: %v", err)
	}
	return eco, rec
}

// adult spawns a newborn and ages it past breeding age with the given sex and food.
func adult(eco *Ecosystem, s components.Species, loc components.Location, sex components.Sex, food int) ecs.Entity {
	e := eco.SpawnAnimal(s, loc, false)
	eco.Organism(e).Age = 20
	an := eco.Animal(e)
	an.Sex = sex
	an.FoodLevel = food
	return e
}

func loc(r, c int) components.Location {
	return components.Location{Row: r, Col: c}
}

func clockAt(hour int) *Clock {
	c := NewClock(config.ClockConfig{HoursPerDay: 24, SeasonLength: 30, SeasonCount: 4, RainInterval: 8, RainThreshold: 0.75})
	c.SetStep(hour)
	return c
}

func testTraits(t *testing.T) *TraitTable {
	t.Helper()
	tt, err := NewTraitTable(testConfig(t))
	if err != nil {
		t.Fatalf("NewTraitTable: %v", err)
	}
	return tt
}
