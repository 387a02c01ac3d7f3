package telemetry

import (
	"testing"

	"github.com/pthm-cable/savanna/components"
)

func TestCollector_ShouldFlush(t *testing.T) {
	c := NewCollector(24)

	if c.ShouldFlush(23) {
		t.Error("should not flush before a full window")
	}
	if !c.ShouldFlush(24) {
		t.Error("should flush at a full window")
	}

	c.Flush(Sample{Step: 24})
	if c.ShouldFlush(47) {
		t.Error("window should restart after flush")
	}
	if !c.ShouldFlush(48) {
		t.Error("should flush at the second window")
	}
}

func TestCollector_FlushCountsAndResets(t *testing.T) {
	c := NewCollector(10)

	c.RecordBirth(components.Zebra, 3)
	c.RecordBirth(components.Grass, 2)
	c.RecordDeath(components.Zebra, components.CausePredation)
	c.RecordDeath(components.Lion, components.CauseStarvation)
	c.RecordDeath(components.Grass, components.CauseOvergrown)
	c.RecordMeal(components.Lion, components.Zebra)
	c.RecordInfection(components.Bear, 4)
	c.RecordRepopulation(7)

	var counts [components.NumSpecies]int
	counts[components.Zebra] = 12
	counts[components.Lion] = 3

	stats := c.Flush(Sample{
		Step:          10,
		Season:        components.Summer,
		Counts:        counts,
		Predators:     3,
		Prey:          12,
		Ages:          []float64{10, 20},
		Food:          []float64{4, 6},
		Infections:    []float64{0.1, 0.9},
		ElevatedLevel: 0.8,
	})

	if stats.AnimalBirths != 3 || stats.GrassBirths != 2 {
		t.Errorf("births = %d/%d, want 3/2", stats.AnimalBirths, stats.GrassBirths)
	}
	if stats.PredationDeaths != 1 || stats.StarvationDeaths != 1 || stats.OvergrownDeaths != 1 {
		t.Errorf("unexpected deaths: %+v", stats)
	}
	if stats.Meals != 1 || stats.Infections != 4 || stats.Repopulated != 7 {
		t.Errorf("meals/infections/repopulated = %d/%d/%d", stats.Meals, stats.Infections, stats.Repopulated)
	}
	if stats.Zebra != 12 || stats.Lion != 3 || stats.Predators != 3 || stats.Prey != 12 {
		t.Errorf("unexpected counts: %+v", stats)
	}
	if stats.Season != "summer" {
		t.Errorf("season = %q, want summer", stats.Season)
	}
	if stats.AgeMean != 15 || stats.FoodMean != 5 {
		t.Errorf("age/food mean = %v/%v, want 15/5", stats.AgeMean, stats.FoodMean)
	}
	if stats.Elevated != 1 {
		t.Errorf("elevated = %d, want 1", stats.Elevated)
	}
	if stats.WindowStartStep != 0 || stats.WindowEndStep != 10 {
		t.Errorf("window = [%d, %d], want [0, 10]", stats.WindowStartStep, stats.WindowEndStep)
	}

	next := c.Flush(Sample{Step: 20})
	if next.AnimalBirths != 0 || next.Deaths() != 0 || next.Meals != 0 || next.Repopulated != 0 {
		t.Errorf("counters not reset: %+v", next)
	}
	if next.WindowStartStep != 10 {
		t.Errorf("second window start = %d, want 10", next.WindowStartStep)
	}
}

func TestCollector_SpeciesRows(t *testing.T) {
	c := NewCollector(5)
	c.RecordBirth(components.Deer, 3)
	c.RecordBirth(components.Grass, 4)
	c.RecordDeath(components.Deer, components.CausePredation)
	c.RecordDeath(components.Deer, components.CauseOldAge)
	c.RecordDeath(components.Tiger, components.CauseStarvation)
	c.RecordMeal(components.Tiger, components.Deer)
	c.RecordInfection(components.Tiger, 2)

	var counts [components.NumSpecies]int
	counts[components.Deer] = 9
	counts[components.Tiger] = 1
	stats := c.Flush(Sample{
		Step:    5,
		Counts:  counts,
		Species: []components.Species{components.Tiger, components.Deer, components.Grass},
	})

	if len(stats.Species) != 3 {
		t.Fatalf("got %d species rows, want 3", len(stats.Species))
	}
	tiger, deer, grass := stats.Species[0], stats.Species[1], stats.Species[2]
	if tiger.Species != "tiger" || deer.Species != "deer" || grass.Species != "grass" {
		t.Fatalf("rows out of order: %s, %s, %s", tiger.Species, deer.Species, grass.Species)
	}
	if deer.Count != 9 || deer.Births != 3 || deer.Deaths != 2 || deer.Eaten != 1 || deer.OldAge != 1 {
		t.Errorf("deer row = %+v", deer)
	}
	if tiger.Meals != 1 || tiger.Starvation != 1 || tiger.Infections != 2 || tiger.Deaths != 1 {
		t.Errorf("tiger row = %+v", tiger)
	}
	if grass.Births != 4 || grass.WindowEnd != 5 {
		t.Errorf("grass row = %+v", grass)
	}

	// Role totals agree with the species rows
	if stats.AnimalBirths != 3 || stats.GrassBirths != 4 || stats.Deaths() != 3 || stats.Meals != 1 {
		t.Errorf("totals = births %d/%d deaths %d meals %d",
			stats.AnimalBirths, stats.GrassBirths, stats.Deaths(), stats.Meals)
	}

	next := c.Flush(Sample{Step: 10, Species: []components.Species{components.Deer}})
	if next.Species[0].Births != 0 || next.Species[0].Deaths != 0 {
		t.Errorf("species tallies not reset: %+v", next.Species[0])
	}
}

func TestCollector_ReportsAllSpeciesByDefault(t *testing.T) {
	stats := NewCollector(1).Flush(Sample{Step: 1})
	if len(stats.Species) != int(components.NumSpecies)-1 {
		t.Fatalf("got %d rows, want one per species", len(stats.Species))
	}
	if stats.Species[0].Species != "grass" {
		t.Errorf("first row = %q, want grass", stats.Species[0].Species)
	}
}

func TestCollector_Reset(t *testing.T) {
	c := NewCollector(5)
	c.RecordBirth(components.Deer, 2)
	c.Flush(Sample{Step: 5})
	c.Reset()

	if c.ShouldFlush(4) {
		t.Error("window size lost on reset")
	}
	if !c.ShouldFlush(5) {
		t.Error("window should restart at step 0 after reset")
	}
}
