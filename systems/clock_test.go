package systems

import (
	"testing"

	"github.com/pthm-cable/savanna/components"
	"github.com/pthm-cable/savanna/config"
)

func defaultClock() *Clock {
	return NewClock(config.ClockConfig{HoursPerDay: 24, SeasonLength: 30, SeasonCount: 4, RainInterval: 8, RainThreshold: 0.75})
}

func TestClockCycle(t *testing.T) {
	c := defaultClock()
	rng := &scriptedRand{defFloat: 0.1}

	seasonChanges := 0
	seen := map[components.Season]bool{c.Season(): true}
	prev := c.Season()
	for s := 1; s <= 600; s++ {
		c.Advance(rng)
		if c.Step() != s {
			t.Fatalf("Step() = %d, want %d", c.Step(), s)
		}
		if c.Time() != s%24 {
			t.Fatalf("step %d: Time() = %d, want %d", s, c.Time(), s%24)
		}
		if c.Season() != prev {
			seasonChanges++
			if s%30 != 0 {
				t.Fatalf("season changed at step %d, not a multiple of 30", s)
			}
			prev = c.Season()
		}
		seen[c.Season()] = true
	}
	if seasonChanges != 20 {
		t.Errorf("season changed %d times in 600 steps, want 20", seasonChanges)
	}
	if len(seen) != components.NumSeasons {
		t.Errorf("saw %d distinct seasons, want %d", len(seen), components.NumSeasons)
	}
}

func TestClockSeasonOrder(t *testing.T) {
	c := defaultClock()
	rng := &scriptedRand{defFloat: 0.1}
	want := []components.Season{components.Summer, components.Autumn, components.Winter, components.Spring}
	for i, w := range want {
		for s := 0; s < 30; s++ {
			c.Advance(rng)
		}
		if c.Season() != w {
			t.Errorf("after %d seasons got %v, want %v", i+1, c.Season(), w)
		}
	}
}

func TestClockResetState(t *testing.T) {
	c := defaultClock()
	if c.Step() != 0 || c.Time() != 0 || c.Season() != components.Spring {
		t.Errorf("fresh clock = step %d hour %d season %v", c.Step(), c.Time(), c.Season())
	}
	if c.Raining() {
		t.Error("fresh clock should not be raining")
	}
	if !c.RainedThisSeason() {
		t.Error("fresh clock should count as rained this season")
	}
}

func TestWeatherRollsEveryEightHours(t *testing.T) {
	c := defaultClock()
	rng := &scriptedRand{defFloat: 0.9}

	for s := 1; s <= 24; s++ {
		before := len(rng.floats)
		rng.floats = append(rng.floats, 0.9)
		c.Advance(rng)
		consumed := before+1 != len(rng.floats)
		if consumed != (s%8 == 0) {
			t.Errorf("step %d: consumed draw = %v", s, consumed)
		}
		rng.floats = rng.floats[:0]
	}
}

func TestWeatherMemory(t *testing.T) {
	c := defaultClock()
	// Rain on the first roll (hour 8), dry afterwards.
	rng := &scriptedRand{floats: []float64{0.8}, defFloat: 0.1}

	for s := 1; s <= 8; s++ {
		c.Advance(rng)
	}
	if !c.Raining() {
		t.Fatal("expected rain at hour 8 with draw 0.8")
	}

	for s := 9; s < 30; s++ {
		c.Advance(rng)
		if !c.RainedThisSeason() {
			t.Fatalf("step %d: rainedThisSeason dropped inside the season", s)
		}
	}
	if c.Raining() {
		t.Error("rain should have stopped after the dry roll at hour 16")
	}

	c.Advance(rng) // step 30: season boundary
	if c.RainedThisSeason() {
		t.Error("rainedThisSeason should reset at the season boundary")
	}
}

func TestRainThresholdInclusive(t *testing.T) {
	c := defaultClock()
	rng := &scriptedRand{floats: []float64{0.75}}
	for s := 1; s <= 8; s++ {
		c.Advance(rng)
	}
	if !c.Raining() {
		t.Error("draw equal to the threshold should rain")
	}
}
