package systems

import (
	"fmt"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/savanna/components"
	"github.com/pthm-cable/savanna/config"
)

// Recorder receives lifecycle events as they happen.
type Recorder interface {
	RecordBirth(s components.Species, n int)
	RecordDeath(s components.Species, cause components.DeathCause)
	RecordMeal(eater, eaten components.Species)
	RecordInfection(s components.Species, n int)
}

type nopRecorder struct{}

func (nopRecorder) RecordBirth(components.Species, int) {}
func (nopRecorder) RecordDeath(components.Species, components.DeathCause) {}
func (nopRecorder) RecordMeal(components.Species, components.Species) {}
func (nopRecorder) RecordInfection(components.Species, int) {}

// Ecosystem owns the ECS world holding every organism and applies
// species rules to them on the shared field.
//
// Component pointers returned by Organism and Animal are only valid until
// the next spawn or removal.
type Ecosystem struct {
	world  *ecs.World
	field  *Field
	rng    Rand
	traits *TraitTable

	disease    config.DiseaseConfig
	flora      config.FloraConfig
	population config.PopulationConfig
	recorder   Recorder

	orgMap       *ecs.Map1[components.Organism]
	animalMap    *ecs.Map[components.Animal]
	animalMapper *ecs.Map2[components.Organism, components.Animal]

	nextID uint32
}

// NewEcosystem creates an empty ecosystem on field. A nil recorder drops events.
func NewEcosystem(cfg *config.Config, field *Field, rng Rand, rec Recorder) (*Ecosystem, error) {
	traits, err := NewTraitTable(cfg)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		rec = nopRecorder{}
	}
	eco := &Ecosystem{
		field:      field,
		rng:        rng,
		traits:     traits,
		disease:    cfg.Disease,
		flora:      cfg.Flora,
		population: cfg.Population,
		recorder:   rec,
	}
	eco.bindWorld()
	return eco, nil
}

func (eco *Ecosystem) bindWorld() {
	eco.world = ecs.NewWorld()
	eco.orgMap = ecs.NewMap1[components.Organism](eco.world)
	eco.animalMap = ecs.NewMap[components.Animal](eco.world)
	eco.animalMapper = ecs.NewMap2[components.Organism, components.Animal](eco.world)
}

// Reset drops every organism and empties the field.
func (eco *Ecosystem) Reset() {
	eco.field.ClearAll()
	eco.bindWorld()
	eco.nextID = 0
}

// Field returns the grid the ecosystem runs on.
func (eco *Ecosystem) Field() *Field { return eco.field }

// Traits returns the species rule table.
func (eco *Ecosystem) Traits() *TraitTable { return eco.traits }

// Organism returns the shared component of e.
func (eco *Ecosystem) Organism(e ecs.Entity) *components.Organism {
	return eco.orgMap.Get(e)
}

// Animal returns the animal component of e, or nil for plants.
func (eco *Ecosystem) Animal(e ecs.Entity) *components.Animal {
	if !eco.animalMap.Has(e) {
		return nil
	}
	return eco.animalMap.Get(e)
}

// IsAnimal reports whether e carries animal state.
func (eco *Ecosystem) IsAnimal(e ecs.Entity) bool {
	return eco.animalMap.Has(e)
}

// Alive reports whether e exists and has not died.
func (eco *Ecosystem) Alive(e ecs.Entity) bool {
	return eco.world.Alive(e) && eco.orgMap.Get(e).Alive
}

// SpawnAnimal creates an animal of species s on loc. Founders get a random
// age and food level, newborns start at age 0 with a full stomach.
func (eco *Ecosystem) SpawnAnimal(s components.Species, loc components.Location, founder bool) ecs.Entity {
	tr := eco.traits.Get(s)
	if tr == nil || tr.Role == components.RolePlant {
		panic(fmt.Sprintf("ecosystem: %v is not a configured animal", s))
	}
	eco.mustBeFree(loc)

	eco.nextID++
	org := components.Organism{ID: eco.nextID, Species: s, Alive: true, Loc: loc, Placed: true}
	an := components.Animal{FoodLevel: tr.FoodValue}
	an.Infection = eco.rng.Float64()
	an.Sex = components.Sex(eco.rng.IntN(2))
	if founder {
		org.Age = eco.rng.IntN(tr.MaxAge)
		an.FoodLevel = eco.rng.IntN(tr.FoodValue)
	}

	e := eco.animalMapper.NewEntity(&org, &an)
	eco.field.Place(e, loc)
	return e
}

// SpawnGrass creates a plant on loc.
func (eco *Ecosystem) SpawnGrass(loc components.Location, founder bool) ecs.Entity {
	s := eco.traits.Plant()
	tr := eco.traits.Get(s)
	eco.mustBeFree(loc)

	eco.nextID++
	org := components.Organism{ID: eco.nextID, Species: s, Alive: true, Loc: loc, Placed: true}
	if founder {
		org.Age = eco.rng.IntN(tr.MaxAge)
	}

	e := eco.orgMap.NewEntity(&org)
	eco.field.Place(e, loc)
	return e
}

func (eco *Ecosystem) mustBeFree(loc components.Location) {
	if !eco.field.InBounds(loc) {
		panic(fmt.Sprintf("ecosystem: spawn out of bounds at %v", loc))
	}
	if _, ok := eco.field.ObjectAt(loc); ok {
		panic(fmt.Sprintf("ecosystem: spawn onto occupied cell %v", loc))
	}
}

// Kill marks e dead and detaches it from the field. Killing twice is a no-op.
func (eco *Ecosystem) Kill(e ecs.Entity, cause components.DeathCause) {
	org := eco.orgMap.Get(e)
	if !org.Alive {
		return
	}
	org.Alive = false
	if org.Placed {
		if occ, ok := eco.field.ObjectAt(org.Loc); ok && occ == e {
			eco.field.Clear(org.Loc)
		}
		org.Placed = false
	}
	eco.recorder.RecordDeath(org.Species, cause)
}

// Remove releases the entity of a dead organism.
func (eco *Ecosystem) Remove(e ecs.Entity) {
	if !eco.world.Alive(e) {
		return
	}
	if eco.orgMap.Get(e).Alive {
		panic("ecosystem: removing a live organism")
	}
	eco.world.RemoveEntity(e)
}

// IncrementAge ages e by one step and reports whether it survived.
func (eco *Ecosystem) IncrementAge(e ecs.Entity) bool {
	org := eco.orgMap.Get(e)
	org.Age++
	if org.Age > eco.traits.Get(org.Species).MaxAge {
		eco.Kill(e, components.CauseOldAge)
		return false
	}
	return true
}

// IncrementHunger uses up one unit of food and reports whether e survived.
func (eco *Ecosystem) IncrementHunger(e ecs.Entity) bool {
	an := eco.animalMap.Get(e)
	an.FoodLevel--
	if an.FoodLevel <= 0 {
		eco.Kill(e, components.CauseStarvation)
		return false
	}
	return true
}

func (eco *Ecosystem) moveTo(e ecs.Entity, loc components.Location) {
	org := eco.orgMap.Get(e)
	if org.Placed {
		if occ, ok := eco.field.ObjectAt(org.Loc); ok && occ == e {
			eco.field.Clear(org.Loc)
		}
	}
	org.Loc = loc
	org.Placed = true
	eco.field.Place(e, loc)
}

// mustLive fails fast when asked to act on a dead or detached organism.
func (eco *Ecosystem) mustLive(e ecs.Entity) *components.Organism {
	if !eco.world.Alive(e) {
		panic("ecosystem: act on a removed entity")
	}
	org := eco.orgMap.Get(e)
	if !org.Alive || !org.Placed {
		panic(fmt.Sprintf("ecosystem: act on dead organism %d (%v)", org.ID, org.Species))
	}
	return org
}

// Populate seeds every cell in row-major order. Each species in creation
// order gets one draw against its creation probability; the first hit wins.
func (eco *Ecosystem) Populate() (animals, plants []ecs.Entity) {
	order := eco.traits.Order()
	for row := 0; row < eco.field.Depth(); row++ {
		for col := 0; col < eco.field.Width(); col++ {
			loc := components.Location{Row: row, Col: col}
			for _, s := range order {
				tr := eco.traits.Get(s)
				if eco.rng.Float64() > tr.CreationProbability {
					continue
				}
				if tr.Role == components.RolePlant {
					plants = append(plants, eco.SpawnGrass(loc, true))
				} else {
					animals = append(animals, eco.SpawnAnimal(s, loc, true))
				}
				break
			}
		}
	}
	return animals, plants
}
