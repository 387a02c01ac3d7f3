package systems

import (
	"testing"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/savanna/components"
)

func TestStarvationAfterHungerTick(t *testing.T) {
	eco, rec := newTestEcosystem(t, 5, 5, &scriptedRand{defFloat: 0.5})
	z := adult(eco, components.Zebra, loc(2, 2), components.Female, 1)

	var newborns []ecs.Entity
	eco.ActAnimal(z, clockAt(10), &newborns)

	if eco.Alive(z) {
		t.Fatal("zebra with food 1 and nothing to eat should starve on its hunger tick")
	}
	if rec.deaths[components.CauseStarvation] != 1 {
		t.Errorf("starvation deaths = %d, want 1", rec.deaths[components.CauseStarvation])
	}
	if eco.Organism(z).Placed {
		t.Error("dead zebra still attached to the field")
	}
	snap := eco.Snapshot(1)
	if snap.Census.Total() != 0 {
		t.Errorf("field still holds %d organisms", snap.Census.Total())
	}
	if len(newborns) != 0 {
		t.Errorf("lone zebra produced %d newborns", len(newborns))
	}
}

func TestOvercrowdingDeath(t *testing.T) {
	eco, rec := newTestEcosystem(t, 3, 3, &scriptedRand{defFloat: 0.5})
	z := adult(eco, components.Zebra, loc(1, 1), components.Female, 9)
	for _, l := range eco.Field().AdjacentLocations(loc(1, 1)) {
		adult(eco, components.Lion, l, components.Male, 20)
	}

	var newborns []ecs.Entity
	eco.ActAnimal(z, clockAt(10), &newborns)

	if eco.Alive(z) {
		t.Fatal("surrounded zebra should die of overcrowding")
	}
	if rec.deaths[components.CauseOvercrowding] != 1 {
		t.Errorf("overcrowding deaths = %d, want 1", rec.deaths[components.CauseOvercrowding])
	}
	if _, ok := eco.Field().ObjectAt(loc(1, 1)); ok {
		t.Error("centre cell should be empty after overcrowding death")
	}
}

func TestPredatorEatsAdjacentPrey(t *testing.T) {
	eco, rec := newTestEcosystem(t, 3, 3, &scriptedRand{defFloat: 0.5})
	lion := adult(eco, components.Lion, loc(1, 1), components.Male, 5)
	zebra := adult(eco, components.Zebra, loc(2, 2), components.Female, 9)
	adult(eco, components.Deer, loc(0, 0), components.Female, 9)

	var newborns []ecs.Entity
	eco.ActAnimal(lion, clockAt(10), &newborns)

	if eco.Alive(zebra) {
		t.Error("zebra should have been eaten")
	}
	if !eco.Alive(lion) {
		t.Fatal("lion should survive its meal")
	}
	if got := eco.Organism(lion).Loc; got != loc(2, 2) {
		t.Errorf("lion at %v, want %v", got, loc(2, 2))
	}
	occ, ok := eco.Field().ObjectAt(loc(2, 2))
	if !ok || occ != lion {
		t.Error("lion should occupy the prey's cell")
	}
	if _, ok := eco.Field().ObjectAt(loc(1, 1)); ok {
		t.Error("lion's old cell should be empty")
	}
	// Full meal minus the step's hunger tick.
	if got := eco.Animal(lion).FoodLevel; got != 19 {
		t.Errorf("lion food = %d, want 19", got)
	}
	if rec.meals != 1 || rec.deaths[components.CausePredation] != 1 {
		t.Errorf("meals = %d, predation deaths = %d", rec.meals, rec.deaths[components.CausePredation])
	}
}

func TestPredatorIgnoresOtherPrey(t *testing.T) {
	eco, _ := newTestEcosystem(t, 3, 3, &scriptedRand{defFloat: 0.5})
	lion := adult(eco, components.Lion, loc(1, 1), components.Male, 5)
	deer := adult(eco, components.Deer, loc(0, 0), components.Female, 9)

	var newborns []ecs.Entity
	eco.ActAnimal(lion, clockAt(10), &newborns)

	if !eco.Alive(deer) {
		t.Error("lions do not eat deer")
	}
	if got := eco.Animal(lion).FoodLevel; got != 4 {
		t.Errorf("lion food = %d, want 4", got)
	}
}

func TestOldAgeDeath(t *testing.T) {
	eco, rec := newTestEcosystem(t, 3, 3, &scriptedRand{defFloat: 0.5})
	d := adult(eco, components.Deer, loc(1, 1), components.Female, 14)
	eco.Organism(d).Age = eco.Traits().Get(components.Deer).MaxAge

	var newborns []ecs.Entity
	eco.ActAnimal(d, clockAt(15), &newborns)

	if eco.Alive(d) {
		t.Fatal("deer past max age should die")
	}
	if rec.deaths[components.CauseOldAge] != 1 {
		t.Errorf("old age deaths = %d, want 1", rec.deaths[components.CauseOldAge])
	}
}

func TestInactiveHours(t *testing.T) {
	tests := []struct {
		name     string
		species  components.Species
		hour     int
		draw     float64
		wantFood int
	}{
		{"zebra resting, hunger roll hits", components.Zebra, 2, 0.05, 8},
		{"zebra resting, hunger roll misses", components.Zebra, 2, 0.5, 9},
		{"tiger resting, hunger roll hits", components.Tiger, 20, 0.1, 8},
		{"deer resting never hungers", components.Deer, 10, 0.0, 9},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rng := &scriptedRand{defFloat: 0.5}
			eco, _ := newTestEcosystem(t, 3, 3, rng)
			e := adult(eco, tt.species, loc(1, 1), components.Female, 9)
			rng.floats = []float64{tt.draw}

			var newborns []ecs.Entity
			eco.ActAnimal(e, clockAt(tt.hour), &newborns)

			if got := eco.Organism(e).Loc; got != loc(1, 1) {
				t.Errorf("resting animal moved to %v", got)
			}
			if got := eco.Animal(e).FoodLevel; got != tt.wantFood {
				t.Errorf("food = %d, want %d", got, tt.wantFood)
			}
			if eco.Organism(e).Age != 21 {
				t.Errorf("age = %d, want 21", eco.Organism(e).Age)
			}
		})
	}
}

func TestDeerNightWindow(t *testing.T) {
	tr := testTraits(t).Get(components.Deer)
	for hour := 0; hour < 24; hour++ {
		want := hour <= 6 || hour >= 14
		if got := tr.Active(hour); got != want {
			t.Errorf("deer Active(%d) = %v, want %v", hour, got, want)
		}
	}
}

func TestActOnDeadPanics(t *testing.T) {
	eco, _ := newTestEcosystem(t, 3, 3, &scriptedRand{defFloat: 0.5})
	z := adult(eco, components.Zebra, loc(1, 1), components.Female, 9)
	eco.Kill(z, components.CauseDisease)

	defer func() {
		if recover() == nil {
			t.Error("acting on a dead organism should panic")
		}
	}()
	var newborns []ecs.Entity
	eco.ActAnimal(z, clockAt(10), &newborns)
}

func TestLionSpreadsWhileResting(t *testing.T) {
	rng := &scriptedRand{defFloat: 0.5}
	eco, rec := newTestEcosystem(t, 3, 3, rng)
	lion := adult(eco, components.Lion, loc(1, 1), components.Male, 20)
	zebra := adult(eco, components.Zebra, loc(0, 0), components.Female, 9)
	eco.Animal(zebra).Infection = 0.1

	// Hour 2 is outside the lion's window; the spread roll still happens.
	rng.floats = []float64{0.8, 0.9}
	var newborns []ecs.Entity
	eco.ActAnimal(lion, clockAt(2), &newborns)

	if got := eco.Animal(zebra).Infection; got != 0.8 {
		t.Errorf("zebra infection = %v, want 0.8", got)
	}
	if rec.infections != 1 {
		t.Errorf("recorded infections = %d, want 1", rec.infections)
	}
}

func TestHungerBoundOverManySteps(t *testing.T) {
	eco, _ := newTestEcosystem(t, 6, 6, NewRand(7))
	animals, _ := eco.Populate()
	clock := clockAt(0)
	rng := NewRand(8)

	for step := 0; step < 60; step++ {
		clock.Advance(rng)
		var newborns []ecs.Entity
		for _, e := range animals {
			if eco.Alive(e) {
				eco.ActAnimal(e, clock, &newborns)
			}
		}
		animals = append(animals, newborns...)
		for _, e := range animals {
			if !eco.world.Alive(e) {
				continue
			}
			org := eco.Organism(e)
			if org.Alive && eco.Animal(e).FoodLevel <= 0 {
				t.Fatalf("step %d: live %v with food %d", step, org.Species, eco.Animal(e).FoodLevel)
			}
			if org.Alive && org.Age > eco.Traits().Get(org.Species).MaxAge {
				t.Fatalf("step %d: live %v older than max age", step, org.Species)
			}
		}
	}
}

func TestEmptyFounderCanStillFeed(t *testing.T) {
	tests := []struct {
		name       string
		species    components.Species
		prey       components.Species
		wantBirths int
		wantFood   int
	}{
		{"lion breeds at the food floor", components.Lion, components.Zebra, 1, 19},
		{"tiger needs food above the floor", components.Tiger, components.Deer, 0, 23},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			eco, rec := newTestEcosystem(t, 3, 3, &scriptedRand{defFloat: 0.5})
			e := adult(eco, tt.species, loc(1, 1), components.Male, 0)
			adult(eco, tt.species, loc(0, 0), components.Female, 10)
			adult(eco, tt.prey, loc(2, 2), components.Female, 9)

			var newborns []ecs.Entity
			eco.ActAnimal(e, clockAt(10), &newborns)

			if !eco.Alive(e) {
				t.Fatal("active founder with an empty stomach should eat before its hunger tick")
			}
			if got := eco.Animal(e).FoodLevel; got != tt.wantFood {
				t.Errorf("food = %d, want %d", got, tt.wantFood)
			}
			if len(newborns) != tt.wantBirths || rec.births[tt.species] != tt.wantBirths {
				t.Errorf("births = %d (recorded %d), want %d", len(newborns), rec.births[tt.species], tt.wantBirths)
			}
		})
	}
}

func TestEmptyFounderStarvesWhileResting(t *testing.T) {
	for _, draw := range []float64{0.05, 0.5} {
		rng := &scriptedRand{defFloat: 0.5}
		eco, rec := newTestEcosystem(t, 3, 3, rng)
		z := adult(eco, components.Zebra, loc(1, 1), components.Female, 0)
		rng.floats = []float64{draw}

		var newborns []ecs.Entity
		eco.ActAnimal(z, clockAt(2), &newborns)

		if eco.Alive(z) {
			t.Errorf("draw %v: resting zebra with no food should starve", draw)
		}
		if rec.deaths[components.CauseStarvation] != 1 {
			t.Errorf("draw %v: starvation deaths = %d, want 1", draw, rec.deaths[components.CauseStarvation])
		}
	}
}
