package components

// Species identifies an organism variant.
type Species uint8

const (
	SpeciesNone Species = iota
	Grass
	Zebra
	Deer
	Lion
	Bear
	Tiger
	NumSpecies
)

var speciesNames = [NumSpecies]string{
	SpeciesNone: "none",
	Grass:       "grass",
	Zebra:       "zebra",
	Deer:        "deer",
	Lion:        "lion",
	Bear:        "bear",
	Tiger:       "tiger",
}

func (s Species) String() string {
	if s >= NumSpecies {
		return "unknown"
	}
	return speciesNames[s]
}

// ParseSpecies maps a config name to a Species.
func ParseSpecies(name string) (Species, bool) {
	for i := Grass; i < NumSpecies; i++ {
		if speciesNames[i] == name {
			return i, true
		}
	}
	return SpeciesNone, false
}

// Role groups species for viability and telemetry.
type Role uint8

const (
	RoleNone Role = iota
	RolePlant
	RolePrey
	RolePredator
)

func (r Role) String() string {
	switch r {
	case RolePlant:
		return "plant"
	case RolePrey:
		return "prey"
	case RolePredator:
		return "predator"
	}
	return "none"
}

// ParseRole maps a config name to a Role.
func ParseRole(name string) (Role, bool) {
	switch name {
	case "plant":
		return RolePlant, true
	case "prey":
		return RolePrey, true
	case "predator":
		return RolePredator, true
	}
	return RoleNone, false
}
