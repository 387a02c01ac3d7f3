package systems

import (
	"slices"
	"testing"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/savanna/components"
)

func testEntities(n int) []ecs.Entity {
	w := ecs.NewWorld()
	m := ecs.NewMap1[components.Organism](w)
	out := make([]ecs.Entity, n)
	for i := range out {
		out[i] = m.NewEntity(&components.Organism{ID: uint32(i + 1)})
	}
	return out
}

func TestNewFieldClampsDimensions(t *testing.T) {
	f := NewField(0, -3)
	if f.Depth() != 1 || f.Width() != 1 {
		t.Errorf("NewField(0, -3) = %dx%d, want 1x1", f.Depth(), f.Width())
	}
}

func TestAdjacentLocations(t *testing.T) {
	f := NewField(3, 4)
	tests := []struct {
		name string
		at   components.Location
		want []components.Location
	}{
		{"centre", loc(1, 1), []components.Location{
			loc(0, 0), loc(0, 1), loc(0, 2),
			loc(1, 0), loc(1, 2),
			loc(2, 0), loc(2, 1), loc(2, 2),
		}},
		{"top left corner", loc(0, 0), []components.Location{loc(0, 1), loc(1, 0), loc(1, 1)}},
		{"bottom right corner", loc(2, 3), []components.Location{loc(1, 2), loc(1, 3), loc(2, 2)}},
		{"right edge", loc(1, 3), []components.Location{loc(0, 2), loc(0, 3), loc(1, 2), loc(2, 2), loc(2, 3)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := f.AdjacentLocations(tt.at)
			if !slices.Equal(got, tt.want) {
				t.Errorf("AdjacentLocations(%v) = %v, want %v", tt.at, got, tt.want)
			}
		})
	}
}

func TestAdjacentLocationsSingleCell(t *testing.T) {
	f := NewField(1, 1)
	if got := f.AdjacentLocations(loc(0, 0)); len(got) != 0 {
		t.Errorf("1x1 field has neighbours %v", got)
	}
}

func TestPlaceAndClear(t *testing.T) {
	f := NewField(2, 2)
	es := testEntities(2)

	f.Place(es[0], loc(0, 1))
	got, ok := f.ObjectAt(loc(0, 1))
	if !ok || got != es[0] {
		t.Fatalf("ObjectAt after Place = %v, %v", got, ok)
	}

	// Re-placing the same entity is allowed.
	f.Place(es[0], loc(0, 1))

	f.Clear(loc(0, 1))
	f.Clear(loc(0, 1))
	if _, ok := f.ObjectAt(loc(0, 1)); ok {
		t.Error("cell still occupied after Clear")
	}

	f.Place(es[1], loc(0, 1))
	f.ClearAll()
	if _, ok := f.ObjectAt(loc(0, 1)); ok {
		t.Error("cell still occupied after ClearAll")
	}
}

func TestPlaceOccupiedPanics(t *testing.T) {
	f := NewField(2, 2)
	es := testEntities(2)
	f.Place(es[0], loc(1, 1))

	defer func() {
		if recover() == nil {
			t.Error("placing onto an occupied cell should panic")
		}
	}()
	f.Place(es[1], loc(1, 1))
}

func TestPlaceOutOfBoundsPanics(t *testing.T) {
	f := NewField(2, 2)
	es := testEntities(1)
	defer func() {
		if recover() == nil {
			t.Error("placing out of bounds should panic")
		}
	}()
	f.Place(es[0], loc(2, 0))
}

func TestFreeAdjacentLocations(t *testing.T) {
	f := NewField(3, 3)
	es := testEntities(3)
	f.Place(es[0], loc(0, 0))
	f.Place(es[1], loc(0, 1))
	f.Place(es[2], loc(2, 2))

	want := []components.Location{loc(0, 2), loc(1, 0), loc(1, 2), loc(2, 0), loc(2, 1)}
	if got := f.FreeAdjacentLocations(loc(1, 1)); !slices.Equal(got, want) {
		t.Errorf("FreeAdjacentLocations = %v, want %v", got, want)
	}

	rng := &scriptedRand{ints: []int{3}}
	got, ok := f.FreeAdjacentLocation(loc(1, 1), rng)
	if !ok || got != loc(2, 0) {
		t.Errorf("FreeAdjacentLocation = %v, %v; want %v", got, ok, loc(2, 0))
	}
}

func TestFreeAdjacentLocationNone(t *testing.T) {
	f := NewField(2, 2)
	es := testEntities(3)
	f.Place(es[0], loc(0, 1))
	f.Place(es[1], loc(1, 0))
	f.Place(es[2], loc(1, 1))

	if _, ok := f.FreeAdjacentLocation(loc(0, 0), &scriptedRand{}); ok {
		t.Error("expected no free neighbour")
	}
}
