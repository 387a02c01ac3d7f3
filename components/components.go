// Package components defines ECS components for the simulation.
package components

import "fmt"

// Location is a cell coordinate on the field grid.
type Location struct {
	Row, Col int
}

// String formats the location as row,col.
func (l Location) String() string {
	return fmt.Sprintf("%d,%d", l.Row, l.Col)
}

// Season is the index of the current season.
type Season uint8

const (
	Spring Season = iota
	Summer
	Autumn
	Winter
)

// NumSeasons is the length of the season cycle.
const NumSeasons = 4

func (s Season) String() string {
	switch s {
	case Spring:
		return "spring"
	case Summer:
		return "summer"
	case Autumn:
		return "autumn"
	case Winter:
		return "winter"
	}
	return fmt.Sprintf("season(%d)", uint8(s))
}
