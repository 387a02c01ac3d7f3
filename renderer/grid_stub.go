//go:build !raylib

package renderer

import (
	"context"

	"github.com/pthm-cable/savanna/config"
	"github.com/pthm-cable/savanna/game"
)

// GridView is a placeholder that satisfies the API of the graphical build.
type GridView struct {
	viewState
}

// NewGridView returns a view that records snapshots but cannot open a window.
func NewGridView(*config.Config) *GridView {
	return &GridView{}
}

// Run always reports that the raylib build tag is missing.
func (v *GridView) Run(context.Context, *game.Simulator, int) error {
	return ErrNoGraphics
}
