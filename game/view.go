package game

import (
	"image/color"
	"log/slog"
	"sync"

	"github.com/pthm-cable/savanna/components"
	"github.com/pthm-cable/savanna/systems"
)

// View consumes published field snapshots and decides viability.
// Colors are cosmetic and never consulted by the engine.
type View interface {
	ShowStatus(step int, snap systems.Snapshot)
	IsViable(snap systems.Snapshot) bool
	SetColor(s components.Species, c color.RGBA)
}

// DefaultViability holds while at least one predator and one prey animal live.
func DefaultViability(snap systems.Snapshot) bool {
	return snap.RoleCount(components.RolePredator) > 0 &&
		snap.RoleCount(components.RolePrey) > 0
}

// HeadlessView keeps the latest snapshot without drawing anything.
type HeadlessView struct {
	// Viable overrides DefaultViability when set.
	Viable func(systems.Snapshot) bool
	// LogEvery logs a status line every n steps, 0 disables.
	LogEvery int

	mu     sync.Mutex
	last   systems.Snapshot
	colors map[components.Species]color.RGBA
}

// NewHeadlessView creates a view that logs a census every logEvery steps.
func NewHeadlessView(logEvery int) *HeadlessView {
	return &HeadlessView{LogEvery: logEvery}
}

// ShowStatus stores snap.
func (v *HeadlessView) ShowStatus(step int, snap systems.Snapshot) {
	v.mu.Lock()
	v.last = snap
	v.mu.Unlock()

	if v.LogEvery > 0 && step%v.LogEvery == 0 {
		attrs := []any{"step", step}
		for s := components.Grass; s < components.NumSpecies; s++ {
			if snap.Roles[s] != components.RoleNone {
				attrs = append(attrs, s.String(), snap.Census[s])
			}
		}
		slog.Info("status", attrs...)
	}
}

// IsViable applies Viable or DefaultViability.
func (v *HeadlessView) IsViable(snap systems.Snapshot) bool {
	if v.Viable != nil {
		return v.Viable(snap)
	}
	return DefaultViability(snap)
}

// SetColor records a species color.
func (v *HeadlessView) SetColor(s components.Species, c color.RGBA) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.colors == nil {
		v.colors = make(map[components.Species]color.RGBA)
	}
	v.colors[s] = c
}

// Last returns the most recent snapshot.
func (v *HeadlessView) Last() systems.Snapshot {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.last
}

// Color returns the registered color of s.
func (v *HeadlessView) Color(s components.Species) (color.RGBA, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	c, ok := v.colors[s]
	return c, ok
}
