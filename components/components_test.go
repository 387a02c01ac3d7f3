package components

import "testing"

func TestParseSpecies(t *testing.T) {
	tests := []struct {
		name string
		want Species
		ok   bool
	}{
		{"grass", Grass, true},
		{"zebra", Zebra, true},
		{"deer", Deer, true},
		{"lion", Lion, true},
		{"bear", Bear, true},
		{"tiger", Tiger, true},
		{"none", SpeciesNone, false},
		{"wolf", SpeciesNone, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseSpecies(tt.name)
			if got != tt.want || ok != tt.ok {
				t.Errorf("ParseSpecies(%q) = %v, %v; want %v, %v", tt.name, got, ok, tt.want, tt.ok)
			}
			if ok && got.String() != tt.name {
				t.Errorf("String() = %q, want %q", got.String(), tt.name)
			}
		})
	}
}

func TestLocationEquality(t *testing.T) {
	a := Location{Row: 3, Col: 4}
	b := Location{Row: 3, Col: 4}
	if a != b {
		t.Errorf("locations with equal coordinates should compare equal")
	}
	if a.String() != "3,4" {
		t.Errorf("String() = %q", a.String())
	}
}

func TestSeasonNames(t *testing.T) {
	want := []string{"spring", "summer", "autumn", "winter"}
	for i := 0; i < NumSeasons; i++ {
		if got := Season(i).String(); got != want[i] {
			t.Errorf("Season(%d) = %q, want %q", i, got, want[i])
		}
	}
}
