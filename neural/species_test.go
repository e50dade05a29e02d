package neural

import (
	"testing"

	"github.com/yaricom/goNEAT/v4/neat/genetics"
)

func TestSpeciesPaletteDistinct(t *testing.T) {
	palette := NewSpeciesPalette(16)

	seen := make(map[SpeciesColor]int)
	for id := 1; id < 16; id++ {
		c := palette.Color(id)
		if prev, ok := seen[c]; ok {
			t.Errorf("species %d and %d share color %v", prev, id, c)
		}
		seen[c] = id
	}
}

func TestSpeciesPaletteStable(t *testing.T) {
	palette := NewSpeciesPalette(8)

	if palette.Color(3) != palette.Color(3) {
		t.Error("same species should get the same color")
	}
	if palette.Color(3) != palette.Color(11) {
		t.Error("ids should wrap around the palette")
	}
}

func TestSpeciesPaletteDefaults(t *testing.T) {
	palette := NewSpeciesPalette(8)

	if got := palette.Color(0); got != defaultSpeciesColor {
		t.Errorf("Color(0) = %v, want default", got)
	}
	if got := palette.OrganismColor(nil); got != defaultSpeciesColor {
		t.Errorf("OrganismColor(nil) = %v, want default", got)
	}
	if got := palette.OrganismColor(&genetics.Organism{}); got != defaultSpeciesColor {
		t.Errorf("OrganismColor without species = %v, want default", got)
	}

	org := &genetics.Organism{Species: &genetics.Species{Id: 5}}
	if got := palette.OrganismColor(org); got != palette.Color(5) {
		t.Errorf("OrganismColor = %v, want %v", got, palette.Color(5))
	}
}

func TestHSVToRGB(t *testing.T) {
	tests := []struct {
		name    string
		h, s, v float64
		r, g, b uint8
	}{
		{"red", 0, 1, 1, 255, 0, 0},
		{"green", 120, 1, 1, 0, 255, 0},
		{"blue", 240, 1, 1, 0, 0, 255},
		{"white", 0, 0, 1, 255, 255, 255},
		{"black", 0, 0, 0, 0, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, g, b := hsvToRGB(tt.h, tt.s, tt.v)
			if r != tt.r || g != tt.g || b != tt.b {
				t.Errorf("hsvToRGB(%v, %v, %v) = (%d, %d, %d), want (%d, %d, %d)",
					tt.h, tt.s, tt.v, r, g, b, tt.r, tt.g, tt.b)
			}
		})
	}
}
