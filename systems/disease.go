package systems

import (
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/savanna/components"
)

// SpreadInfection makes one infection roll for e. A high roll raises every
// live neighbouring animal to the elevated level; a very high roll kills e.
func (eco *Ecosystem) SpreadInfection(e ecs.Entity) {
	org := eco.orgMap.Get(e)
	if !org.Alive || !org.Placed {
		return
	}
	r := eco.rng.Float64()

	if r > eco.disease.SpreadThreshold {
		infected := 0
		for _, loc := range eco.field.AdjacentLocations(org.Loc) {
			occ, ok := eco.field.ObjectAt(loc)
			if !ok || !eco.animalMap.Has(occ) || !eco.orgMap.Get(occ).Alive {
				continue
			}
			eco.animalMap.Get(occ).Infection = eco.disease.ElevatedLevel
			infected++
		}
		if infected > 0 {
			eco.recorder.RecordInfection(org.Species, infected)
		}
	}

	if r > eco.disease.MortalityThreshold {
		eco.Kill(e, components.CauseDisease)
	}
}
