package metrics

import (
	"math"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/san-kum/gravsim/internal/engine"
	"github.com/san-kum/gravsim/internal/vector"
)

func pair() engine.Snapshot {
	return engine.Snapshot{
		Tick: 7,
		G:    2,
		Objects: []engine.BodyState{
			{ID: 1, Mass: 4, Position: vector.New(0, 0), Velocity: vector.New(1, 0)},
			{ID: 2, Mass: 1, Position: vector.New(4, 0), Velocity: vector.New(0, -2)},
		},
	}
}

func TestEnergies(t *testing.T) {
	snap := pair()

	if got := Kinetic(snap); got != 4 {
		t.Errorf("kinetic = %f, want 4", got)
	}
	if got := Potential(snap); got != -2 {
		t.Errorf("potential = %f, want -2", got)
	}
	if got := Total(snap); got != 2 {
		t.Errorf("total = %f, want 2", got)
	}
	if got := Momentum(snap); got != vector.New(4, -2) {
		t.Errorf("momentum = %v, want (4, -2)", got)
	}
}

func TestPotentialSkipsCoincident(t *testing.T) {
	snap := pair()
	snap.Objects[1].Position = vector.Zero
	if got := Potential(snap); got != 0 {
		t.Errorf("potential = %f, want 0", got)
	}
}

func TestEnergyDrift(t *testing.T) {
	m := NewEnergyDrift()
	snap := pair()

	m.Observe(snap)
	if m.Value() != 0 {
		t.Errorf("expected zero drift on first sample, got %f", m.Value())
	}

	snap.Objects[0].Velocity = vector.New(2, 0)
	m.Observe(snap)
	// total goes from 2 to 8
	if math.Abs(m.Value()-3) > 1e-12 {
		t.Errorf("expected drift 3, got %f", m.Value())
	}

	m.Reset()
	if m.Value() != 0 {
		t.Error("expected zero drift after reset")
	}
}

func TestSet(t *testing.T) {
	s := DefaultSet()
	s.OnTick(pair())

	vals := s.Values()
	if vals["bodies"] != 2 {
		t.Errorf("bodies = %f, want 2", vals["bodies"])
	}
	if vals["kinetic_energy"] != 4 {
		t.Errorf("kinetic_energy = %f, want 4", vals["kinetic_energy"])
	}
	if vals["potential_energy"] != -2 {
		t.Errorf("potential_energy = %f, want -2", vals["potential_energy"])
	}
	if math.Abs(vals["momentum"]-math.Sqrt(20)) > 1e-12 {
		t.Errorf("momentum = %f, want %f", vals["momentum"], math.Sqrt(20))
	}

	s.Reset()
	for name, v := range s.Values() {
		if v != 0 {
			t.Errorf("%s = %f after reset", name, v)
		}
	}
}

func TestCollector(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	snap := pair()
	snap.Merges = 2
	snap.Bounces = 1
	c.OnTick(snap)

	snap.Merges = 3
	c.OnTick(snap)

	if got := testutil.ToFloat64(c.tick); got != 7 {
		t.Errorf("tick = %f, want 7", got)
	}
	if got := testutil.ToFloat64(c.bodies); got != 2 {
		t.Errorf("bodies = %f, want 2", got)
	}
	if got := testutil.ToFloat64(c.events.WithLabelValues("merge")); got != 3 {
		t.Errorf("merges = %f, want 3", got)
	}
	if got := testutil.ToFloat64(c.events.WithLabelValues("bounce")); got != 1 {
		t.Errorf("bounces = %f, want 1", got)
	}

	// engine reset
	snap.Merges = 1
	c.OnTick(snap)
	if got := testutil.ToFloat64(c.events.WithLabelValues("merge")); got != 4 {
		t.Errorf("merges after reset = %f, want 4", got)
	}

	if n, err := testutil.GatherAndCount(reg); err != nil || n == 0 {
		t.Errorf("gather failed: n=%d err=%v", n, err)
	}
}
