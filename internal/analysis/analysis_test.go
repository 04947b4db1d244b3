package analysis

import (
	"math"
	"strings"
	"testing"

	"github.com/san-kum/gravsim/internal/body"
	"github.com/san-kum/gravsim/internal/engine"
	"github.com/san-kum/gravsim/internal/vector"
)

func sine(n int, samplesPerPeriod float64, phase float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = 5 + 3*math.Sin(2*math.Pi*float64(i)/samplesPerPeriod+phase)
	}
	return out
}

func TestPowerSpectrum(t *testing.T) {
	ps := PowerSpectrum(sine(64, 8, 0))
	if len(ps) != 32 {
		t.Fatalf("expected 32 bins, got %d", len(ps))
	}
	// 64 samples with period 8 put all the oscillation in bin 8
	for k, v := range ps {
		if k == 0 || k == 8 {
			continue
		}
		if v > 1e-6 {
			t.Errorf("bin %d = %g, expected ~0", k, v)
		}
	}
	if math.Abs(ps[8]-96) > 1e-6 {
		t.Errorf("bin 8 = %g, want 96", ps[8])
	}

	if PowerSpectrum(nil) != nil {
		t.Error("expected nil spectrum for empty input")
	}
}

func TestDominantPeriod(t *testing.T) {
	tests := []struct {
		name string
		data []float64
		dt   float64
		want float64
	}{
		{"period 8 samples", sine(64, 8, 0), 0.5, 4},
		{"period 16 samples", sine(64, 16, 1), 0.1, 1.6},
		{"non power of two", sine(60, 12, 0), 1, 12},
		{"flat", make([]float64, 32), 1, 0},
		{"too short", []float64{1, 2, 3}, 1, 0},
		{"bad dt", sine(64, 8, 0), 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DominantPeriod(tt.data, tt.dt)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("got %g, want %g", got, tt.want)
			}
		})
	}
}

func TestCrossings(t *testing.T) {
	times := []float64{0, 1, 2, 3, 4, 5}
	values := []float64{-1, 1, 2, -2, -1, 3}

	got := Crossings(times, values, 0)
	want := []float64{0.5, 4.25}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if math.Abs(got[i]-want[i]) > 1e-12 {
			t.Errorf("crossing %d = %g, want %g", i, got[i], want[i])
		}
	}

	if MeanInterval(got) != 3.75 {
		t.Errorf("mean interval = %g, want 3.75", MeanInterval(got))
	}
	if MeanInterval(got[:1]) != 0 {
		t.Error("expected zero interval for a single crossing")
	}
}

func TestPhasePortraitASCII(t *testing.T) {
	p := NewPhasePortrait("x", []float64{-1, 0, 1, 2}, "y", []float64{-1, 0, 1})
	if len(p.Points) != 3 {
		t.Fatalf("expected 3 points, got %d", len(p.Points))
	}

	out := p.ASCII(20, 10)
	lines := strings.Split(strings.TrimSuffix(out, "\n"), "\n")
	if len(lines) != 10 {
		t.Fatalf("expected 10 rows, got %d", len(lines))
	}
	for i, l := range lines {
		if n := len([]rune(l)); n != 20 {
			t.Errorf("row %d has width %d", i, n)
		}
	}
	if strings.Count(out, "•") != 3 {
		t.Errorf("expected 3 plotted points:\n%s", out)
	}

	var empty *PhasePortrait
	if empty.ASCII(10, 10) != "" {
		t.Error("expected empty output for nil portrait")
	}
}

func twoBody(offset float64) *engine.Engine {
	e := engine.New(engine.WithG(1))
	e.AddObject(body.New(body.Mass(100), false), vector.Zero, vector.Zero)
	e.AddObject(body.New(body.Mass(1), true), vector.New(50+offset, 0), vector.New(0, 1.4))
	return e
}

func TestDivergence(t *testing.T) {
	res, err := Divergence(twoBody(0), twoBody(1e-3), 200)
	if err != nil {
		t.Fatalf("divergence failed: %v", err)
	}
	if math.Abs(res.Initial-1e-3) > 1e-9 {
		t.Errorf("initial separation = %g, want 1e-3", res.Initial)
	}
	if len(res.Separations) != 200 {
		t.Errorf("expected 200 samples, got %d", len(res.Separations))
	}
	if math.IsNaN(res.Exponent) || math.IsInf(res.Exponent, 0) {
		t.Errorf("exponent not finite: %g", res.Exponent)
	}
}

func TestDivergenceErrors(t *testing.T) {
	if _, err := Divergence(twoBody(0), twoBody(0), 10); err == nil {
		t.Error("expected error for identical runs")
	}
	if _, err := Divergence(engine.New(), twoBody(0), 10); err == nil {
		t.Error("expected error for empty engine")
	}
}
