package systems

import (
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/savanna/components"
)

// ActAnimal runs one step of the shared animal state machine for e.
// Newborns are appended to newborns, never to the live population.
func (eco *Ecosystem) ActAnimal(e ecs.Entity, clock *Clock, newborns *[]ecs.Entity) {
	org := eco.mustLive(e)
	tr := eco.traits.Get(org.Species)

	if !eco.IncrementAge(e) {
		return
	}
	if tr.Infection == InfectAlways {
		eco.SpreadInfection(e)
		if !eco.Alive(e) {
			return
		}
	}

	if !tr.Active(clock.Time()) {
		// Resting animals still get hungry now and then.
		if eco.rng.Float64() < tr.IdleHungerChance {
			eco.IncrementHunger(e)
			return
		}
		// Founders can start with an empty stomach and no tick to end it.
		if eco.animalMap.Get(e).FoodLevel <= 0 {
			eco.Kill(e, components.CauseStarvation)
		}
		return
	}

	if tr.FedForBreeding(eco.animalMap.Get(e).FoodLevel) {
		eco.GiveBirth(e, tr.BreedingProbability, newborns)
	}

	dest, ok := eco.findFood(e)
	if !ok {
		dest, ok = eco.field.FreeAdjacentLocation(eco.orgMap.Get(e).Loc, eco.rng)
	}
	if !ok {
		eco.Kill(e, components.CauseOvercrowding)
		return
	}
	eco.moveTo(e, dest)

	if tr.Infection == InfectAfterMove {
		eco.SpreadInfection(e)
		if !eco.Alive(e) {
			return
		}
	}
	eco.IncrementHunger(e)
}

// findFood eats the first live prey adjacent to e and returns its cell.
func (eco *Ecosystem) findFood(e ecs.Entity) (components.Location, bool) {
	org := eco.orgMap.Get(e)
	tr := eco.traits.Get(org.Species)
	for _, loc := range eco.field.AdjacentLocations(org.Loc) {
		occ, ok := eco.field.ObjectAt(loc)
		if !ok {
			continue
		}
		prey := eco.orgMap.Get(occ)
		if !prey.Alive || !tr.Prey[prey.Species] {
			continue
		}
		eaten := prey.Species
		eco.Kill(occ, components.CausePredation)
		eco.animalMap.Get(e).FoodLevel = tr.FoodValue
		eco.recorder.RecordMeal(org.Species, eaten)
		return loc, true
	}
	return components.Location{}, false
}
