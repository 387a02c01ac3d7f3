// Package config provides configuration loading and access for the simulation.
package config

import (
	_ "embed"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all simulation configuration parameters.
type Config struct {
	Screen     ScreenConfig     `yaml:"screen"`
	World      WorldConfig      `yaml:"world"`
	Simulation SimulationConfig `yaml:"simulation"`
	Clock      ClockConfig      `yaml:"clock"`
	Disease    DiseaseConfig    `yaml:"disease"`
	Flora      FloraConfig      `yaml:"flora"`
	Population PopulationConfig `yaml:"population"`
	Species    []SpeciesConfig  `yaml:"species"`
	Telemetry  TelemetryConfig  `yaml:"telemetry"`
	Bookmarks  BookmarksConfig  `yaml:"bookmarks"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// ScreenConfig holds display settings for the graphical view.
type ScreenConfig struct {
	CellSize  int `yaml:"cell_size"` // pixels per grid cell
	HUDHeight int `yaml:"hud_height"`
	TargetFPS int `yaml:"target_fps"`
}

// WorldConfig holds the field dimensions.
// Non-positive values fall back to 80x120.
type WorldConfig struct {
	Depth int `yaml:"depth"`
	Width int `yaml:"width"`
}

// SimulationConfig holds step loop parameters.
type SimulationConfig struct {
	Steps   int `yaml:"steps"`    // default budget for a long run
	DelayMS int `yaml:"delay_ms"` // pause between steps in Simulate
}

// ClockConfig holds the day, season and rain cycle.
type ClockConfig struct {
	HoursPerDay   int     `yaml:"hours_per_day"`
	SeasonLength  int     `yaml:"season_length"`  // steps per season
	SeasonCount   int     `yaml:"season_count"`
	RainInterval  int     `yaml:"rain_interval"`  // hours between rain rolls
	RainThreshold float64 `yaml:"rain_threshold"` // draw >= this means rain
}

// DiseaseConfig holds infection spread parameters.
type DiseaseConfig struct {
	SpreadThreshold    float64 `yaml:"spread_threshold"`    // draw > this infects neighbours
	MortalityThreshold float64 `yaml:"mortality_threshold"` // draw > this kills the spreader
	ElevatedLevel      float64 `yaml:"elevated_level"`      // infection assigned to neighbours
}

// FloraConfig holds weather-driven plant breeding probabilities.
type FloraConfig struct {
	RainProbability   float64 `yaml:"rain_probability"`   // raining now
	RainedProbability float64 `yaml:"rained_probability"` // rained earlier this season
	DryProbability    float64 `yaml:"dry_probability"`
}

// PopulationConfig holds plant repopulation parameters.
type PopulationConfig struct {
	PlantLowWater        int     `yaml:"plant_low_water"`    // repopulate below this
	PlantRefillFloor     int     `yaml:"plant_refill_floor"` // keep scanning while at or below this
	PlantHighWater       int     `yaml:"plant_high_water"`   // stop once above this
	PlantSeedProbability float64 `yaml:"plant_seed_probability"`
	RepopulateMode       string  `yaml:"repopulate_mode"` // "occupied" or "free"
}

// HourWindow is an inclusive hour-of-day interval.
type HourWindow struct {
	Start int `yaml:"start"`
	End   int `yaml:"end"`
}

// Contains reports whether hour lies in the window.
func (w HourWindow) Contains(hour int) bool {
	return hour >= w.Start && hour <= w.End
}

// ColorConfig is an RGB display color.
type ColorConfig struct {
	R uint8 `yaml:"r"`
	G uint8 `yaml:"g"`
	B uint8 `yaml:"b"`
}

// SpeciesConfig is the rule record for one species.
// List order in the config is the founder creation order.
type SpeciesConfig struct {
	Name                string       `yaml:"name"`
	Role                string       `yaml:"role"` // predator, prey or plant
	CreationProbability float64      `yaml:"creation_probability"`
	BreedingAge         int          `yaml:"breeding_age"`
	MaxAge              int          `yaml:"max_age"`
	BreedingProbability float64      `yaml:"breeding_probability"` // ignored for plants, weather decides
	MaxLitterSize       int          `yaml:"max_litter_size"`
	FoodValue           int          `yaml:"food_value"`
	BreedingFoodFloor   int          `yaml:"breeding_food_floor"`
	FloorInclusive      bool         `yaml:"floor_inclusive"` // breed at food >= floor instead of >
	ActiveHours         []HourWindow `yaml:"active_hours"`
	IdleHungerChance    float64      `yaml:"idle_hunger_chance"`
	Eats                []string     `yaml:"eats"`
	Infection           string       `yaml:"infection"` // none, always or after_move
	Color               ColorConfig  `yaml:"color"`
}

// Infection phases.
const (
	InfectionNone      = "none"
	InfectionAlways    = "always"
	InfectionAfterMove = "after_move"
)

// Repopulation modes.
const (
	RepopulateOccupied = "occupied"
	RepopulateFree     = "free"
)

// TelemetryConfig holds telemetry and logging parameters.
type TelemetryConfig struct {
	StatsWindow         int `yaml:"stats_window"` // steps per stats window
	BookmarkHistorySize int `yaml:"bookmark_history_size"`
	PerfCollectorWindow int `yaml:"perf_collector_window"`
}

// BookmarksConfig holds bookmark detection thresholds.
type BookmarksConfig struct {
	PreyCrash        PreyCrashConfig        `yaml:"prey_crash"`
	PredatorRecovery PredatorRecoveryConfig `yaml:"predator_recovery"`
	StableEcosystem  StableEcosystemConfig  `yaml:"stable_ecosystem"`
}

// PreyCrashConfig triggers when prey fall sharply from a recent peak.
type PreyCrashConfig struct {
	DropPercent float64 `yaml:"drop_percent"`
	MinDrop     int     `yaml:"min_drop"`
}

// PredatorRecoveryConfig triggers when predators rebound from a low.
type PredatorRecoveryConfig struct {
	LowThreshold int `yaml:"low_threshold"`
	Multiplier   int `yaml:"multiplier"`
	MinCount     int `yaml:"min_count"`
}

// StableEcosystemConfig triggers after several low-variance windows.
type StableEcosystemConfig struct {
	MinPrey       int     `yaml:"min_prey"`
	MinPredators  int     `yaml:"min_predators"`
	MinPlants     int     `yaml:"min_plants"`
	CVThreshold   float64 `yaml:"cv_threshold"`
	StableWindows int     `yaml:"stable_windows"`
}

// DerivedConfig holds values computed from the loaded config.
type DerivedConfig struct {
	SpeciesIndex map[string]int // name -> index into Species
	Delay        time.Duration
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used. A species list in the
// user file replaces the default list.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.computeDerived(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}
	return cfg, nil
}

// computeDerived calculates values derived from loaded config and rejects
// species records the engine cannot run.
func (c *Config) computeDerived() error {
	c.Derived.Delay = time.Duration(c.Simulation.DelayMS) * time.Millisecond
	c.Derived.SpeciesIndex = make(map[string]int, len(c.Species))

	for i := range c.Species {
		sp := &c.Species[i]
		if _, dup := c.Derived.SpeciesIndex[sp.Name]; dup {
			return fmt.Errorf("species %q listed twice", sp.Name)
		}
		switch sp.Role {
		case "predator", "prey", "plant":
		default:
			return fmt.Errorf("species %q: unknown role %q", sp.Name, sp.Role)
		}
		if sp.Infection == "" {
			sp.Infection = InfectionNone
		}
		switch sp.Infection {
		case InfectionNone, InfectionAlways, InfectionAfterMove:
		default:
			return fmt.Errorf("species %q: unknown infection phase %q", sp.Name, sp.Infection)
		}
		if sp.MaxAge <= 0 {
			return fmt.Errorf("species %q: max_age must be positive", sp.Name)
		}
		if sp.MaxLitterSize <= 0 {
			return fmt.Errorf("species %q: max_litter_size must be positive", sp.Name)
		}
		if sp.Role != "plant" && sp.FoodValue <= 0 {
			return fmt.Errorf("species %q: food_value must be positive", sp.Name)
		}
		c.Derived.SpeciesIndex[sp.Name] = i
	}

	for i := range c.Species {
		for _, prey := range c.Species[i].Eats {
			if _, ok := c.Derived.SpeciesIndex[prey]; !ok {
				return fmt.Errorf("species %q eats unknown species %q", c.Species[i].Name, prey)
			}
		}
	}

	switch c.Population.RepopulateMode {
	case "":
		c.Population.RepopulateMode = RepopulateOccupied
	case RepopulateOccupied, RepopulateFree:
	default:
		return fmt.Errorf("unknown repopulate_mode %q", c.Population.RepopulateMode)
	}
	return nil
}

// SpeciesByName returns the rule record for a species, or nil.
func (c *Config) SpeciesByName(name string) *SpeciesConfig {
	idx, ok := c.Derived.SpeciesIndex[name]
	if !ok {
		return nil
	}
	return &c.Species[idx]
}

// Clone returns a deep copy safe to mutate independently.
func (c *Config) Clone() *Config {
	out := *c
	out.Species = make([]SpeciesConfig, len(c.Species))
	for i, sp := range c.Species {
		sp.ActiveHours = append([]HourWindow(nil), sp.ActiveHours...)
		sp.Eats = append([]string(nil), sp.Eats...)
		out.Species[i] = sp
	}
	out.Derived.SpeciesIndex = make(map[string]int, len(c.Derived.SpeciesIndex))
	for k, v := range c.Derived.SpeciesIndex {
		out.Derived.SpeciesIndex[k] = v
	}
	return &out
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
