package body

import (
	"math"

	"github.com/lucasb-eyer/go-colorful"
)

const (
	// LowMass and HighMass bound the color gradient; masses outside are clamped.
	LowMass  = 50.0
	HighMass = 1e8

	// NeutralColor replaces user colors that fail validation.
	NeutralColor = "#808080"
)

var (
	lightColor = colorful.Color{R: 1, G: 0, B: 0}
	midColor   = colorful.Color{R: 1, G: 1, B: 1}
	heavyColor = colorful.Color{R: 0, G: 0, B: 1}

	pivotMass = math.Sqrt(LowMass * HighMass)
)

// ValidColor reports whether c is a #rgb or #rrggbb hex color.
func ValidColor(c string) bool {
	if len(c) != 4 && len(c) != 7 {
		return false
	}
	_, err := colorful.Hex(c)
	return err == nil
}

// NormalizeColor returns c in #rrggbb form, or NeutralColor if c is invalid.
func NormalizeColor(c string) string {
	if !ValidColor(c) {
		return NeutralColor
	}
	col, _ := colorful.Hex(c)
	return col.Hex()
}

// ColorForMass maps mass onto a red → white → blue gradient that is linear in
// log(mass), pivoting at the geometric mean of LowMass and HighMass.
func ColorForMass(mass float64) string {
	m := math.Min(math.Max(mass, LowMass), HighMass)
	if m <= pivotMass {
		t := math.Log(m/LowMass) / math.Log(pivotMass/LowMass)
		return lightColor.BlendRgb(midColor, t).Clamped().Hex()
	}
	t := math.Log(m/pivotMass) / math.Log(HighMass/pivotMass)
	return midColor.BlendRgb(heavyColor, t).Clamped().Hex()
}
