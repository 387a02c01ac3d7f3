package main

import (
	"strings"

	"github.com/pthm-cable/savanna/config"
)

// ParamSpec defines a single optimizable parameter.
type ParamSpec struct {
	Name    string  // Human-readable name
	Path    string  // Config path for logging
	Min     float64 // Lower bound
	Max     float64 // Upper bound
	Default float64 // Default value
}

// ParamVector holds the set of all optimizable parameters.
type ParamVector struct {
	Specs []ParamSpec
}

// NewParamVector creates the standard set of optimizable parameters.
func NewParamVector() *ParamVector {
	return &ParamVector{
		Specs: []ParamSpec{
			// Founder mix
			{Name: "tiger_creation", Path: "species.tiger.creation_probability", Min: 0.01, Max: 0.2, Default: 0.11},
			{Name: "bear_creation", Path: "species.bear.creation_probability", Min: 0.01, Max: 0.2, Default: 0.08},
			{Name: "lion_creation", Path: "species.lion.creation_probability", Min: 0.01, Max: 0.2, Default: 0.07},
			{Name: "zebra_creation", Path: "species.zebra.creation_probability", Min: 0.02, Max: 0.3, Default: 0.12},
			{Name: "deer_creation", Path: "species.deer.creation_probability", Min: 0.02, Max: 0.3, Default: 0.16},
			// Breeding
			{Name: "tiger_breeding", Path: "species.tiger.breeding_probability", Min: 0.1, Max: 1.0, Default: 0.8},
			{Name: "bear_breeding", Path: "species.bear.breeding_probability", Min: 0.1, Max: 1.0, Default: 0.8},
			{Name: "lion_breeding", Path: "species.lion.breeding_probability", Min: 0.1, Max: 1.0, Default: 0.9},
			{Name: "zebra_breeding", Path: "species.zebra.breeding_probability", Min: 0.1, Max: 1.0, Default: 0.8},
			{Name: "deer_breeding", Path: "species.deer.breeding_probability", Min: 0.1, Max: 1.0, Default: 0.95},
			// Flora
			{Name: "grass_rained", Path: "flora.rained_probability", Min: 0.2, Max: 1.0, Default: 0.7},
			{Name: "grass_dry", Path: "flora.dry_probability", Min: 0.1, Max: 1.0, Default: 0.5},
			{Name: "grass_seed", Path: "population.plant_seed_probability", Min: 0.1, Max: 1.0, Default: 0.6},
			// Disease
			{Name: "spread_threshold", Path: "disease.spread_threshold", Min: 0.5, Max: 0.99, Default: 0.75},
		},
	}
}

// Dim returns the number of parameters.
func (pv *ParamVector) Dim() int {
	return len(pv.Specs)
}

// DefaultVector returns the default parameter values as a slice.
func (pv *ParamVector) DefaultVector() []float64 {
	v := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		v[i] = spec.Default
	}
	return v
}

// Normalize converts raw parameter values to [0,1] range.
func (pv *ParamVector) Normalize(raw []float64) []float64 {
	normalized := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		normalized[i] = (raw[i] - spec.Min) / (spec.Max - spec.Min)
	}
	return normalized
}

// Denormalize converts [0,1] values back to raw parameter values.
func (pv *ParamVector) Denormalize(normalized []float64) []float64 {
	raw := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		raw[i] = spec.Min + normalized[i]*(spec.Max-spec.Min)
	}
	return raw
}

// Clamp ensures all values are within bounds.
func (pv *ParamVector) Clamp(v []float64) []float64 {
	clamped := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		val := v[i]
		if val < spec.Min {
			val = spec.Min
		}
		if val > spec.Max {
			val = spec.Max
		}
		clamped[i] = val
	}
	return clamped
}

// ApplyToConfig applies parameter values to a Config struct by path.
// Species missing from cfg are skipped.
func (pv *ParamVector) ApplyToConfig(cfg *config.Config, values []float64) {
	clamped := pv.Clamp(values)

	for i, spec := range pv.Specs {
		v := clamped[i]
		parts := strings.Split(spec.Path, ".")

		switch parts[0] {
		case "species":
			sp := cfg.SpeciesByName(parts[1])
			if sp == nil {
				continue
			}
			switch parts[2] {
			case "creation_probability":
				sp.CreationProbability = v
			case "breeding_probability":
				sp.BreedingProbability = v
			}
		case "flora":
			switch parts[1] {
			case "rained_probability":
				cfg.Flora.RainedProbability = v
			case "dry_probability":
				cfg.Flora.DryProbability = v
			}
		case "population":
			cfg.Population.PlantSeedProbability = v
		case "disease":
			cfg.Disease.SpreadThreshold = v
		}
	}
}
