package neural

import (
	"math"

	"github.com/yaricom/goNEAT/v4/neat/genetics"
)

// SpeciesColor represents an RGB color for species visualization.
type SpeciesColor struct {
	R, G, B uint8
}

// defaultSpeciesColor is used for organisms without a species.
var defaultSpeciesColor = SpeciesColor{R: 255, G: 255, B: 255}

// SpeciesPalette hands out a stable, visually distinct color per species id.
type SpeciesPalette struct {
	colors []SpeciesColor
}

// NewSpeciesPalette pre-generates count colors.
func NewSpeciesPalette(count int) *SpeciesPalette {
	if count < 1 {
		count = 1
	}
	return &SpeciesPalette{colors: generateDistinctColors(count)}
}

// Color returns the color of a species id. Ids wrap around the palette.
func (p *SpeciesPalette) Color(speciesID int) SpeciesColor {
	if speciesID <= 0 {
		return defaultSpeciesColor
	}
	return p.colors[speciesID%len(p.colors)]
}

// OrganismColor returns the color of an organism's species.
func (p *SpeciesPalette) OrganismColor(org *genetics.Organism) SpeciesColor {
	if org == nil || org.Species == nil {
		return defaultSpeciesColor
	}
	return p.Color(org.Species.Id)
}

// generateDistinctColors creates visually distinct colors using golden angle.
func generateDistinctColors(count int) []SpeciesColor {
	colors := make([]SpeciesColor, count)
	goldenAngle := 137.508

	for i := 0; i < count; i++ {
		hue := math.Mod(float64(i)*goldenAngle, 360.0)

		// saturation=0.7, value=0.9
		r, g, b := hsvToRGB(hue, 0.7, 0.9)
		colors[i] = SpeciesColor{R: r, G: g, B: b}
	}
	return colors
}

// hsvToRGB converts HSV to RGB.
func hsvToRGB(h, s, v float64) (uint8, uint8, uint8) {
	h = math.Mod(h, 360)
	c := v * s
	x := c * (1 - math.Abs(math.Mod(h/60, 2)-1))
	m := v - c

	var r, g, b float64
	switch {
	case h < 60:
		r, g, b = c, x, 0
	case h < 120:
		r, g, b = x, c, 0
	case h < 180:
		r, g, b = 0, c, x
	case h < 240:
		r, g, b = 0, x, c
	case h < 300:
		r, g, b = x, 0, c
	default:
		r, g, b = c, 0, x
	}

	return uint8((r + m) * 255), uint8((g + m) * 255), uint8((b + m) * 255)
}
