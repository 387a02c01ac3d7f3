package systems

import (
	"fmt"

	"github.com/pthm-cable/savanna/components"
	"github.com/pthm-cable/savanna/config"
)

// InfectionPhase says when a species runs the infection spread pass.
type InfectionPhase uint8

const (
	InfectNever     InfectionPhase = iota
	InfectAlways                   // every step, before the active-hours check
	InfectAfterMove                // after movement, before the hunger tick
)

// Traits is the resolved rule record for one species.
type Traits struct {
	Species             components.Species
	Role                components.Role
	CreationProbability float64
	BreedingAge         int
	MaxAge              int
	BreedingProbability float64
	MaxLitterSize       int
	FoodValue           int
	BreedingFoodFloor   int
	FloorInclusive      bool
	ActiveHours         []config.HourWindow
	IdleHungerChance    float64
	Prey                [components.NumSpecies]bool
	Infection           InfectionPhase
}

// Active reports whether hour falls in one of the species' active windows.
func (t *Traits) Active(hour int) bool {
	for _, w := range t.ActiveHours {
		if w.Contains(hour) {
			return true
		}
	}
	return false
}

// CanBreed reports whether an organism of this age may reproduce.
func (t *Traits) CanBreed(age int) bool {
	return age >= t.BreedingAge
}

// FedForBreeding applies the breeding food floor.
func (t *Traits) FedForBreeding(food int) bool {
	if t.FloorInclusive {
		return food >= t.BreedingFoodFloor
	}
	return food > t.BreedingFoodFloor
}

// TraitTable indexes Traits by species and keeps config order.
type TraitTable struct {
	bySpecies [components.NumSpecies]*Traits
	order     []components.Species
	plant     components.Species
}

// NewTraitTable resolves config species records.
func NewTraitTable(cfg *config.Config) (*TraitTable, error) {
	tt := &TraitTable{}
	for _, sc := range cfg.Species {
		sp, ok := components.ParseSpecies(sc.Name)
		if !ok {
			return nil, fmt.Errorf("unknown species %q", sc.Name)
		}
		role, ok := components.ParseRole(sc.Role)
		if !ok {
			return nil, fmt.Errorf("species %q: unknown role %q", sc.Name, sc.Role)
		}
		if (role == components.RolePlant) != (sp == components.Grass) {
			return nil, fmt.Errorf("species %q cannot have role %q", sc.Name, sc.Role)
		}
		tr := &Traits{
			Species:             sp,
			Role:                role,
			CreationProbability: sc.CreationProbability,
			BreedingAge:         sc.BreedingAge,
			MaxAge:              sc.MaxAge,
			BreedingProbability: sc.BreedingProbability,
			MaxLitterSize:       sc.MaxLitterSize,
			FoodValue:           sc.FoodValue,
			BreedingFoodFloor:   sc.BreedingFoodFloor,
			FloorInclusive:      sc.FloorInclusive,
			ActiveHours:         sc.ActiveHours,
			IdleHungerChance:    sc.IdleHungerChance,
		}
		switch sc.Infection {
		case config.InfectionAlways:
			tr.Infection = InfectAlways
		case config.InfectionAfterMove:
			tr.Infection = InfectAfterMove
		}
		for _, name := range sc.Eats {
			prey, ok := components.ParseSpecies(name)
			if !ok {
				return nil, fmt.Errorf("species %q eats unknown species %q", sc.Name, name)
			}
			tr.Prey[prey] = true
		}
		tt.bySpecies[sp] = tr
		tt.order = append(tt.order, sp)
		if role == components.RolePlant {
			tt.plant = sp
		}
	}
	if tt.plant == components.SpeciesNone {
		return nil, fmt.Errorf("no plant species configured")
	}
	return tt, nil
}

// Get returns the traits for s, or nil if s is not configured.
func (tt *TraitTable) Get(s components.Species) *Traits {
	if s >= components.NumSpecies {
		return nil
	}
	return tt.bySpecies[s]
}

// Order returns species in founder creation order.
func (tt *TraitTable) Order() []components.Species {
	return tt.order
}

// Plant returns the plant species.
func (tt *TraitTable) Plant() components.Species {
	return tt.plant
}

// Role returns the role of s, or RoleNone.
func (tt *TraitTable) Role(s components.Species) components.Role {
	if tr := tt.Get(s); tr != nil {
		return tr.Role
	}
	return components.RoleNone
}
