package components

// Organism is carried by every grid occupant, plant or animal.
type Organism struct {
	ID      uint32
	Species Species
	Alive   bool
	Age     int
	Loc     Location
	Placed  bool // false once dead and detached from the field
}

// Sex of an animal, fixed at creation.
type Sex uint8

const (
	Female Sex = iota
	Male
)

func (s Sex) String() string {
	if s == Female {
		return "female"
	}
	return "male"
}

// Animal holds the state only animals carry.
type Animal struct {
	FoodLevel int
	Sex       Sex
	Infection float64 // probability-like level, observable only
}

// DeathCause records why an organism died.
type DeathCause uint8

const (
	CauseOldAge DeathCause = iota
	CauseStarvation
	CauseOvercrowding
	CauseDisease
	CausePredation
	CauseOvergrown // replaced by grass during repopulation
	NumCauses
)

func (c DeathCause) String() string {
	switch c {
	case CauseOldAge:
		return "old_age"
	case CauseStarvation:
		return "starvation"
	case CauseOvercrowding:
		return "overcrowding"
	case CauseDisease:
		return "disease"
	case CausePredation:
		return "predation"
	case CauseOvergrown:
		return "overgrown"
	}
	return "unknown"
}
