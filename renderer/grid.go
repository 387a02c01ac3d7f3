//go:build raylib

package renderer

import (
	"context"
	"fmt"
	"log/slog"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/savanna/components"
	"github.com/pthm-cable/savanna/config"
	"github.com/pthm-cable/savanna/game"
)

// GridView draws one rectangle per occupied cell under a HUD with
// Run, Step and Reset buttons.
type GridView struct {
	viewState

	cellSize  int32
	hudHeight int32
	targetFPS int32
}

// NewGridView creates a view sized from the screen config.
func NewGridView(cfg *config.Config) *GridView {
	cellSize := int32(cfg.Screen.CellSize)
	if cellSize < 1 {
		cellSize = 1
	}
	return &GridView{
		cellSize:  cellSize,
		hudHeight: int32(cfg.Screen.HUDHeight),
		targetFPS: int32(cfg.Screen.TargetFPS),
	}
}

// Run opens the window and drives sim until the window is closed. The
// simulation runs on its own goroutine, the window stays on the caller's.
func (v *GridView) Run(ctx context.Context, sim *game.Simulator, steps int) error {
	snap, _ := v.frame()
	width := int32(snap.Width) * v.cellSize
	height := int32(snap.Depth)*v.cellSize + v.hudHeight
	if width < 360 {
		width = 360
	}

	rl.InitWindow(width, height, "Savanna")
	defer rl.CloseWindow()
	rl.SetTargetFPS(v.targetFPS)

	var done chan int // non-nil while a Simulate call is in flight
	start := func(n int) {
		ch := make(chan int, 1)
		go func() { ch <- sim.Simulate(ctx, n) }()
		done = ch
	}

	for !rl.WindowShouldClose() && ctx.Err() == nil {
		busy := false
		if done != nil {
			select {
			case n := <-done:
				done = nil
				slog.Info("run finished",
					"steps", n,
					"step", sim.Step(),
					"census", CensusLine(sim.Snapshot()),
				)
			default:
				busy = true
			}
		}

		sim.RecordFrame()
		rl.BeginDrawing()
		rl.ClearBackground(rl.RayWhite)
		v.drawField()
		v.drawHUD(sim, width)

		runLabel := "Run"
		if busy {
			runLabel = "Pause"
		}
		if gui.Button(rl.Rectangle{X: float32(width) - 250, Y: 8, Width: 76, Height: 24}, runLabel) {
			if busy {
				sim.Pause()
			} else if sim.Viable() {
				start(steps)
			}
		}
		if gui.Button(rl.Rectangle{X: float32(width) - 166, Y: 8, Width: 76, Height: 24}, "Step") && !busy {
			start(1)
		}
		if gui.Button(rl.Rectangle{X: float32(width) - 82, Y: 8, Width: 76, Height: 24}, "Reset") && !busy {
			sim.Reset()
		}
		rl.EndDrawing()
	}

	sim.Pause()
	if done != nil {
		<-done
	}
	return nil
}

func (v *GridView) drawField() {
	snap, colors := v.frame()
	for row := 0; row < snap.Depth; row++ {
		for col := 0; col < snap.Width; col++ {
			sp := snap.At(row, col)
			if sp == components.SpeciesNone {
				continue
			}
			c := colors[sp]
			rl.DrawRectangle(
				int32(col)*v.cellSize,
				v.hudHeight+int32(row)*v.cellSize,
				v.cellSize-1,
				v.cellSize-1,
				rl.NewColor(c.R, c.G, c.B, c.A),
			)
		}
	}
}

func (v *GridView) drawHUD(sim *game.Simulator, width int32) {
	snap, colors := v.frame()
	rl.DrawRectangle(0, 0, width, v.hudHeight, rl.LightGray)
	rl.DrawText(StatusLine(snap.Step, sim.Time(), sim.Season(), sim.Raining()), 8, 10, 16, rl.DarkGray)

	x := int32(8)
	for sp := components.Grass; sp < components.NumSpecies; sp++ {
		if snap.Roles[sp] == components.RoleNone {
			continue
		}
		c := colors[sp]
		rl.DrawRectangle(x, 38, 12, 12, rl.NewColor(c.R, c.G, c.B, c.A))
		label := fmt.Sprintf("%s %d", sp, snap.Census[sp])
		rl.DrawText(label, x+16, 36, 14, rl.DarkGray)
		x += 16 + rl.MeasureText(label, 14) + 14
	}
	perf := sim.Perf()
	rl.DrawText(fmt.Sprintf("%.0f fps  %.0f steps/s", perf.FPS, perf.StepsPerSecond), 8, v.hudHeight-13, 11, rl.Gray)
	if !game.DefaultViability(snap) {
		rl.DrawText("not viable", width-90, 40, 14, rl.Maroon)
	}
}
