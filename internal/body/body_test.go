package body

import (
	"math"
	"testing"
)

func TestNewDerivesDefaults(t *testing.T) {
	b := New(Mass(1000), true)

	wantRadius := math.Cbrt(3 * 1000 / (4 * math.Pi))
	if math.Abs(b.Radius()-wantRadius) > 1e-12 {
		t.Errorf("radius = %f, want %f", b.Radius(), wantRadius)
	}
	if b.Color() != ColorForMass(1000) {
		t.Errorf("color = %s, want %s", b.Color(), ColorForMass(1000))
	}
	if !b.Movable() {
		t.Error("expected movable body")
	}
}

func TestClamping(t *testing.T) {
	tests := []struct {
		name       string
		props      Properties
		wantMass   float64
		wantRadius float64
	}{
		{"zero mass", Mass(0), 1, 1},
		{"negative mass", Mass(-50), 1, 1},
		{"NaN mass", Mass(math.NaN()), 1, 1},
		{"tiny radius", MassRadius(10, 0.1), 10, 1},
		{"explicit radius", MassRadius(10, 7), 10, 7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := New(tt.props, true)
			if b.Mass() != tt.wantMass {
				t.Errorf("mass = %f, want %f", b.Mass(), tt.wantMass)
			}
			if b.Radius() != tt.wantRadius {
				t.Errorf("radius = %f, want %f", b.Radius(), tt.wantRadius)
			}
		})
	}
}

func TestSetPropertiesDispatch(t *testing.T) {
	tests := []struct {
		name       string
		props      Properties
		wantRadius float64
		wantColor  string
	}{
		{"mass only", Mass(500), RadiusForMass(500), ColorForMass(500)},
		{"mass and radius", MassRadius(500, 3), 3, ColorForMass(500)},
		{"mass and color", MassColor(500, "#00ff00"), RadiusForMass(500), "#00ff00"},
		{"full", FullProperties(500, 3, "#0f0"), 3, "#00ff00"},
		{"invalid color", MassColor(500, "chartreuse-ish"), RadiusForMass(500), NeutralColor},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := New(FullProperties(10, 42, "#123456"), true)
			b.SetProperties(tt.props)
			if b.Mass() != 500 {
				t.Errorf("mass = %f, want 500", b.Mass())
			}
			if b.Radius() != tt.wantRadius {
				t.Errorf("radius = %f, want %f", b.Radius(), tt.wantRadius)
			}
			if b.Color() != tt.wantColor {
				t.Errorf("color = %s, want %s", b.Color(), tt.wantColor)
			}
		})
	}
}

func TestColorGradient(t *testing.T) {
	tests := []struct {
		mass float64
		want string
	}{
		{1, "#ff0000"},
		{LowMass, "#ff0000"},
		{math.Sqrt(LowMass * HighMass), "#ffffff"},
		{HighMass, "#0000ff"},
		{1e12, "#0000ff"},
	}

	for _, tt := range tests {
		if got := ColorForMass(tt.mass); got != tt.want {
			t.Errorf("ColorForMass(%g) = %s, want %s", tt.mass, got, tt.want)
		}
	}
}

func TestValidColor(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"#fff", true},
		{"#a1b2c3", true},
		{"fff", false},
		{"#ggg", false},
		{"#12345", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := ValidColor(tt.in); got != tt.want {
			t.Errorf("ValidColor(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestClone(t *testing.T) {
	b := New(Mass(20), false)
	c := b.Clone()
	c.SetProperties(Mass(40))
	c.SetMovable(true)

	if b.Mass() != 20 || b.Movable() {
		t.Error("clone shares state with original")
	}
}
