package systems

import (
	"github.com/pthm-cable/savanna/components"
	"github.com/pthm-cable/savanna/config"
)

// Clock tracks step, hour of day, season and rain.
// The simulator advances it once per step before any organism acts.
type Clock struct {
	cfg config.ClockConfig

	step             int
	hour             int
	seasonCounter    int
	season           components.Season
	rainDraw         float64
	raining          bool
	rainedThisSeason bool
}

// NewClock returns a clock at step 0 in the first season.
func NewClock(cfg config.ClockConfig) *Clock {
	if cfg.HoursPerDay < 1 {
		cfg.HoursPerDay = 24
	}
	if cfg.SeasonLength < 1 {
		cfg.SeasonLength = 30
	}
	if cfg.SeasonCount < 1 || cfg.SeasonCount > components.NumSeasons {
		cfg.SeasonCount = components.NumSeasons
	}
	if cfg.RainInterval < 1 {
		cfg.RainInterval = 8
	}
	c := &Clock{cfg: cfg}
	c.Reset()
	return c
}

// Reset rewinds to step 0. A fresh population counts as watered this season.
func (c *Clock) Reset() {
	c.step = 0
	c.hour = 0
	c.seasonCounter = 0
	c.season = components.Spring
	c.rainDraw = 0
	c.raining = false
	c.rainedThisSeason = true
}

// Advance moves the clock forward one step and rolls the weather when due.
func (c *Clock) Advance(rng Rand) {
	c.step++
	c.hour = c.step % c.cfg.HoursPerDay
	c.seasonCounter = c.step % c.cfg.SeasonLength

	if c.seasonCounter == 0 {
		c.rainedThisSeason = false
		c.season = components.Season((int(c.season) + 1) % c.cfg.SeasonCount)
	}

	if c.hour%c.cfg.RainInterval == 0 {
		c.rainDraw = rng.Float64()
		c.raining = c.rainDraw >= c.cfg.RainThreshold
		if c.raining {
			c.rainedThisSeason = true
		}
	}
}

// SetWeather overrides the rain state until the next roll.
func (c *Clock) SetWeather(raining, rainedThisSeason bool) {
	c.raining = raining
	c.rainedThisSeason = rainedThisSeason || raining
}

// SetStep jumps to an arbitrary step without rolling weather.
func (c *Clock) SetStep(step int) {
	c.step = step
	c.hour = step % c.cfg.HoursPerDay
	c.seasonCounter = step % c.cfg.SeasonLength
}

// Step returns the number of steps taken since reset.
func (c *Clock) Step() int { return c.step }

// Time returns the hour of day.
func (c *Clock) Time() int { return c.hour }

// Day returns the zero-based day number.
func (c *Clock) Day() int { return c.step / c.cfg.HoursPerDay }

// Season returns the current season.
func (c *Clock) Season() components.Season { return c.season }

// Raining reports whether it is raining now.
func (c *Clock) Raining() bool { return c.raining }

// RainedThisSeason reports whether it has rained since the season began.
func (c *Clock) RainedThisSeason() bool { return c.rainedThisSeason }
