package body

import "math"

const (
	// Density is the reference density used to derive radius from mass.
	Density = 1.0

	MinMass   = 1.0
	MinRadius = 1.0
)

// Body is a physical disc. Its fields are only changed through SetProperties
// and SetMovable so the clamping invariants always hold.
type Body struct {
	mass    float64
	radius  float64
	movable bool
	color   string
}

// New creates a body from p. Radius and color are derived from mass unless
// p.Kind carries them.
func New(p Properties, movable bool) *Body {
	b := &Body{movable: movable}
	b.SetProperties(p)
	return b
}

// SetProperties applies p, recomputing whichever of radius and color p.Kind
// leaves out. Mass is clamped to MinMass and radius to MinRadius.
func (b *Body) SetProperties(p Properties) {
	b.mass = math.Max(p.Mass, MinMass)
	if math.IsNaN(p.Mass) {
		b.mass = MinMass
	}

	if p.Kind.hasRadius() {
		b.radius = clampRadius(p.Radius)
	} else {
		b.radius = RadiusForMass(b.mass)
	}

	if p.Kind.hasColor() {
		b.color = NormalizeColor(p.Color)
	} else {
		b.color = ColorForMass(b.mass)
	}
}

func (b *Body) Mass() float64   { return b.mass }
func (b *Body) Radius() float64 { return b.radius }
func (b *Body) Movable() bool   { return b.movable }
func (b *Body) Color() string   { return b.color }

func (b *Body) SetMovable(movable bool) {
	b.movable = movable
}

// Clone returns an independent copy of b.
func (b *Body) Clone() *Body {
	c := *b
	return &c
}

// RadiusForMass returns the radius of a sphere of the given mass at Density,
// clamped to MinRadius.
func RadiusForMass(mass float64) float64 {
	return clampRadius(math.Cbrt(3 * mass / (4 * math.Pi * Density)))
}

func clampRadius(r float64) float64 {
	if math.IsNaN(r) || r < MinRadius {
		return MinRadius
	}
	return r
}
