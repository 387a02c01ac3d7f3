package systems

import "github.com/pthm-cable/savanna/components"

// Census holds live organism counts per species.
type Census [components.NumSpecies]int

// Count returns the live count for s.
func (c Census) Count(s components.Species) int {
	if s >= components.NumSpecies {
		return 0
	}
	return c[s]
}

// Total returns the number of live organisms.
func (c Census) Total() int {
	n := 0
	for _, v := range c {
		n += v
	}
	return n
}

// Snapshot is a read-only copy of field occupancy handed to views.
type Snapshot struct {
	Step   int
	Depth  int
	Width  int
	Cells  []components.Species // row-major, SpeciesNone when empty
	Census Census
	Roles  [components.NumSpecies]components.Role
}

// At returns the species occupying row, col.
func (s Snapshot) At(row, col int) components.Species {
	if row < 0 || row >= s.Depth || col < 0 || col >= s.Width {
		return components.SpeciesNone
	}
	return s.Cells[row*s.Width+col]
}

// RoleCount sums live organisms with the given role.
func (s Snapshot) RoleCount(role components.Role) int {
	n := 0
	for sp, r := range s.Roles {
		if r == role {
			n += s.Census[sp]
		}
	}
	return n
}

// Snapshot copies the current occupancy of the field.
func (eco *Ecosystem) Snapshot(step int) Snapshot {
	f := eco.field
	snap := Snapshot{
		Step:  step,
		Depth: f.depth,
		Width: f.width,
		Cells: make([]components.Species, len(f.cells)),
	}
	for s := components.Species(0); s < components.NumSpecies; s++ {
		snap.Roles[s] = eco.traits.Role(s)
	}
	for i, c := range f.cells {
		if !c.ok {
			continue
		}
		sp := eco.orgMap.Get(c.entity).Species
		snap.Cells[i] = sp
		snap.Census[sp]++
	}
	return snap
}
