package systems

import (
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/savanna/components"
)

// FindMate returns the first adjacent animal e can breed with.
//
// Cell contents are handled as follows: empty cells, plants and animals of
// another species are skipped; a same-species animal qualifies when it is
// alive, of the opposite sex and old enough to breed.
func (eco *Ecosystem) FindMate(e ecs.Entity) (ecs.Entity, bool) {
	org := eco.orgMap.Get(e)
	self := eco.animalMap.Get(e)
	tr := eco.traits.Get(org.Species)

	for _, loc := range eco.field.AdjacentLocations(org.Loc) {
		occ, ok := eco.field.ObjectAt(loc)
		if !ok {
			continue
		}
		if !eco.animalMap.Has(occ) {
			continue
		}
		other := eco.orgMap.Get(occ)
		if other.Species != org.Species || !other.Alive {
			continue
		}
		if eco.animalMap.Get(occ).Sex != self.Sex && tr.CanBreed(other.Age) {
			return occ, true
		}
	}
	return ecs.Entity{}, false
}

// BreedCount returns the litter size for one breeding attempt, or 0.
// Animals need a mate; plants only need to be old enough.
func (eco *Ecosystem) BreedCount(e ecs.Entity, probability float64) int {
	org := eco.orgMap.Get(e)
	tr := eco.traits.Get(org.Species)

	if tr.Role != components.RolePlant {
		if _, ok := eco.FindMate(e); !ok {
			return 0
		}
	}
	if !tr.CanBreed(org.Age) || eco.rng.Float64() > probability {
		return 0
	}
	return eco.rng.IntN(tr.MaxLitterSize) + 1
}

// GiveBirth places offspring of e into its free neighbours in order.
// Offspring beyond the free cells are dropped. Returns the number born.
func (eco *Ecosystem) GiveBirth(e ecs.Entity, probability float64, newborns *[]ecs.Entity) int {
	org := eco.orgMap.Get(e)
	s := org.Species
	plant := eco.traits.Get(s).Role == components.RolePlant
	free := eco.field.FreeAdjacentLocations(org.Loc)

	births := eco.BreedCount(e, probability)
	n := 0
	for ; n < births && n < len(free); n++ {
		var child ecs.Entity
		if plant {
			child = eco.SpawnGrass(free[n], false)
		} else {
			child = eco.SpawnAnimal(s, free[n], false)
		}
		*newborns = append(*newborns, child)
	}
	if n > 0 {
		eco.recorder.RecordBirth(s, n)
	}
	return n
}
