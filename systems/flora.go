package systems

import (
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/savanna/components"
	"github.com/pthm-cable/savanna/config"
)

// GrassBreedingProbability derives the plant breeding chance from the weather.
func (eco *Ecosystem) GrassBreedingProbability(clock *Clock) float64 {
	switch {
	case clock.Raining():
		return eco.flora.RainProbability
	case clock.RainedThisSeason():
		return eco.flora.RainedProbability
	default:
		return eco.flora.DryProbability
	}
}

// ActGrass runs one step of the plant rules for e: age, then seed
// neighbouring cells during daylight hours.
func (eco *Ecosystem) ActGrass(e ecs.Entity, clock *Clock, newborns *[]ecs.Entity) {
	org := eco.mustLive(e)
	tr := eco.traits.Get(org.Species)
	probability := eco.GrassBreedingProbability(clock)

	if !eco.IncrementAge(e) {
		return
	}
	if tr.Active(clock.Time()) {
		eco.GiveBirth(e, probability, newborns)
	}
}

// Repopulate tops up a thin plant population, appending new grass to plants.
//
// Scans run row-major while the plant count stays at or below the refill
// floor, and a scan stops once the count passes the high-water mark. In
// occupied mode only cells holding an animal are seeded; the occupant is
// killed and replaced. In free mode only empty cells are seeded.
// A scan that fails to raise the count ends the pass. Returns the number of
// grass planted.
func (eco *Ecosystem) Repopulate(plants *[]ecs.Entity) int {
	occupied := eco.population.RepopulateMode != config.RepopulateFree
	plant := eco.traits.Plant()
	count := 0
	for _, p := range *plants {
		if eco.Alive(p) {
			count++
		}
	}

	added := 0
	for count <= eco.population.PlantRefillFloor {
		start := count
		seeded := 0
		for row := 0; row < eco.field.Depth() && count <= eco.population.PlantHighWater; row++ {
			for col := 0; col < eco.field.Width(); col++ {
				loc := components.Location{Row: row, Col: col}
				occ, ok := eco.field.ObjectAt(loc)
				if ok != occupied || (ok && eco.orgMap.Get(occ).Species == plant) {
					continue
				}
				if eco.rng.Float64() > eco.population.PlantSeedProbability {
					continue
				}
				if ok {
					eco.Kill(occ, components.CauseOvergrown)
				}
				*plants = append(*plants, eco.SpawnGrass(loc, true))
				count++
				seeded++
			}
		}
		added += seeded
		if count <= start {
			// No cell left that can raise the count, e.g. an empty grid in
			// occupied mode or a full grid in free mode.
			break
		}
	}
	return added
}
