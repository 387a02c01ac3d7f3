package systems

import (
	"fmt"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/savanna/components"
)

type cell struct {
	entity ecs.Entity
	ok     bool
}

// Field is a rectangular grid holding at most one organism per cell.
type Field struct {
	depth, width int
	cells        []cell
}

// NewField creates an empty field. Non-positive sizes clamp to 1.
func NewField(depth, width int) *Field {
	if depth < 1 {
		depth = 1
	}
	if width < 1 {
		width = 1
	}
	return &Field{
		depth: depth,
		width: width,
		cells: make([]cell, depth*width),
	}
}

// Depth returns the number of rows.
func (f *Field) Depth() int { return f.depth }

// Width returns the number of columns.
func (f *Field) Width() int { return f.width }

// InBounds reports whether loc lies on the grid.
func (f *Field) InBounds(loc components.Location) bool {
	return loc.Row >= 0 && loc.Row < f.depth && loc.Col >= 0 && loc.Col < f.width
}

func (f *Field) index(loc components.Location) int {
	return loc.Row*f.width + loc.Col
}

// ObjectAt returns the occupant of loc, if any.
func (f *Field) ObjectAt(loc components.Location) (ecs.Entity, bool) {
	if !f.InBounds(loc) {
		return ecs.Entity{}, false
	}
	c := f.cells[f.index(loc)]
	return c.entity, c.ok
}

// Place registers e as the occupant of loc.
// Placing onto a cell held by a different entity is a programming error.
func (f *Field) Place(e ecs.Entity, loc components.Location) {
	if !f.InBounds(loc) {
		panic(fmt.Sprintf("field: place out of bounds at %v", loc))
	}
	c := &f.cells[f.index(loc)]
	if c.ok && c.entity != e {
		panic(fmt.Sprintf("field: cell %v already occupied", loc))
	}
	c.entity = e
	c.ok = true
}

// Clear removes any occupant at loc.
func (f *Field) Clear(loc components.Location) {
	if !f.InBounds(loc) {
		return
	}
	f.cells[f.index(loc)] = cell{}
}

// ClearAll empties every cell.
func (f *Field) ClearAll() {
	clear(f.cells)
}

// AdjacentLocations returns the in-bounds Moore neighbours of loc in
// row-major offset order.
func (f *Field) AdjacentLocations(loc components.Location) []components.Location {
	out := make([]components.Location, 0, 8)
	for dr := -1; dr <= 1; dr++ {
		r := loc.Row + dr
		if r < 0 || r >= f.depth {
			continue
		}
		for dc := -1; dc <= 1; dc++ {
			if dr == 0 && dc == 0 {
				continue
			}
			c := loc.Col + dc
			if c < 0 || c >= f.width {
				continue
			}
			out = append(out, components.Location{Row: r, Col: c})
		}
	}
	return out
}

// FreeAdjacentLocations returns the unoccupied neighbours of loc.
func (f *Field) FreeAdjacentLocations(loc components.Location) []components.Location {
	adj := f.AdjacentLocations(loc)
	free := adj[:0]
	for _, n := range adj {
		if !f.cells[f.index(n)].ok {
			free = append(free, n)
		}
	}
	return free
}

// FreeAdjacentLocation picks one free neighbour of loc at random.
func (f *Field) FreeAdjacentLocation(loc components.Location, rng Rand) (components.Location, bool) {
	free := f.FreeAdjacentLocations(loc)
	if len(free) == 0 {
		return components.Location{}, false
	}
	return free[rng.IntN(len(free))], true
}
