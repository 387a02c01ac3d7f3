// Package renderer draws the field grid and the control surface.
package renderer

import (
	"errors"
	"fmt"
	"image/color"
	"strings"
	"sync"

	"github.com/pthm-cable/savanna/components"
	"github.com/pthm-cable/savanna/game"
	"github.com/pthm-cable/savanna/systems"
)

// ErrNoGraphics is returned by Run in builds without the raylib tag.
var ErrNoGraphics = errors.New("graphical mode requires building with -tags raylib")

// viewState is the part of the view shared by the simulation goroutine and
// the draw loop.
type viewState struct {
	mu     sync.Mutex
	last   systems.Snapshot
	colors [components.NumSpecies]color.RGBA
}

// ShowStatus stores the latest snapshot for the next frame.
func (s *viewState) ShowStatus(step int, snap systems.Snapshot) {
	s.mu.Lock()
	s.last = snap
	s.mu.Unlock()
}

// IsViable applies the default predator and prey rule.
func (s *viewState) IsViable(snap systems.Snapshot) bool {
	return game.DefaultViability(snap)
}

// SetColor registers the draw color of a species.
func (s *viewState) SetColor(sp components.Species, c color.RGBA) {
	if sp >= components.NumSpecies {
		return
	}
	s.mu.Lock()
	s.colors[sp] = c
	s.mu.Unlock()
}

func (s *viewState) frame() (systems.Snapshot, [components.NumSpecies]color.RGBA) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.last, s.colors
}

// StatusLine formats the HUD header.
func StatusLine(step, hour int, season components.Season, raining bool) string {
	weather := "dry"
	if raining {
		weather = "rain"
	}
	return fmt.Sprintf("Step: %d  Time: %02d:00  Season: %s  Weather: %s", step, hour, season, weather)
}

// CensusLine lists live counts of every configured species.
func CensusLine(snap systems.Snapshot) string {
	var parts []string
	for sp := components.Grass; sp < components.NumSpecies; sp++ {
		if snap.Roles[sp] == components.RoleNone {
			continue
		}
		parts = append(parts, fmt.Sprintf("%s: %d", sp, snap.Census[sp]))
	}
	return strings.Join(parts, "  ")
}
