package metrics

import (
	"math"

	"github.com/san-kum/gravsim/internal/engine"
	"github.com/san-kum/gravsim/internal/vector"
)

// Metric accumulates a scalar over a sequence of snapshots.
type Metric interface {
	Name() string
	Observe(snap engine.Snapshot)
	Value() float64
	Reset()
}

// Set fans snapshots out to several metrics. It satisfies runner.Observer.
type Set []Metric

func (s Set) OnTick(snap engine.Snapshot) {
	for _, m := range s {
		m.Observe(snap)
	}
}

func (s Set) Values() map[string]float64 {
	out := make(map[string]float64, len(s))
	for _, m := range s {
		out[m.Name()] = m.Value()
	}
	return out
}

func (s Set) Reset() {
	for _, m := range s {
		m.Reset()
	}
}

func DefaultSet() Set {
	return Set{
		NewKineticEnergy(),
		NewPotentialEnergy(),
		NewEnergyDrift(),
		NewMomentum(),
		NewBodyCount(),
	}
}

func Kinetic(snap engine.Snapshot) float64 {
	ke := 0.0
	for _, o := range snap.Objects {
		v2 := o.Velocity.Dot(o.Velocity)
		ke += 0.5 * o.Mass * v2
	}
	return ke
}

// Potential sums -g·mi·mj/d over all pairs. Coincident pairs are skipped.
func Potential(snap engine.Snapshot) float64 {
	pe := 0.0
	objs := snap.Objects
	for i := 0; i < len(objs); i++ {
		for j := i + 1; j < len(objs); j++ {
			d := objs[i].Position.Distance(objs[j].Position)
			if d == 0 {
				continue
			}
			pe -= snap.G * objs[i].Mass * objs[j].Mass / d
		}
	}
	return pe
}

func Total(snap engine.Snapshot) float64 {
	return Kinetic(snap) + Potential(snap)
}

func Momentum(snap engine.Snapshot) vector.Vector2D {
	p := vector.Zero
	for _, o := range snap.Objects {
		p = p.Add(o.Velocity.Scale(o.Mass))
	}
	return p
}

type KineticEnergy struct {
	last float64
}

func NewKineticEnergy() *KineticEnergy { return &KineticEnergy{} }

func (k *KineticEnergy) Name() string                 { return "kinetic_energy" }
func (k *KineticEnergy) Observe(snap engine.Snapshot) { k.last = Kinetic(snap) }
func (k *KineticEnergy) Value() float64               { return k.last }
func (k *KineticEnergy) Reset()                       { k.last = 0 }

// EnergyDrift tracks the largest relative deviation of total energy from
// the first observed value.
type EnergyDrift struct {
	name          string
	initialEnergy float64
	maxDrift      float64
	samples       int
}

func NewEnergyDrift() *EnergyDrift {
	return &EnergyDrift{name: "energy_drift"}
}

func (e *EnergyDrift) Name() string { return e.name }

func (e *EnergyDrift) Observe(snap engine.Snapshot) {
	energy := Total(snap)
	if e.samples == 0 {
		e.initialEnergy = energy
	}
	e.samples++

	if e.initialEnergy != 0 {
		drift := math.Abs(energy-e.initialEnergy) / math.Abs(e.initialEnergy)
		e.maxDrift = math.Max(e.maxDrift, drift)
	}
}

func (e *EnergyDrift) Value() float64 {
	return e.maxDrift
}

func (e *EnergyDrift) Reset() {
	e.initialEnergy = 0
	e.maxDrift = 0
	e.samples = 0
}

type PotentialEnergy struct {
	last float64
}

func NewPotentialEnergy() *PotentialEnergy { return &PotentialEnergy{} }

func (p *PotentialEnergy) Name() string                 { return "potential_energy" }
func (p *PotentialEnergy) Observe(snap engine.Snapshot) { p.last = Potential(snap) }
func (p *PotentialEnergy) Value() float64               { return p.last }
func (p *PotentialEnergy) Reset()                       { p.last = 0 }

// TotalMomentum reports the magnitude of the summed linear momentum.
type TotalMomentum struct {
	last float64
}

func NewMomentum() *TotalMomentum { return &TotalMomentum{} }

func (m *TotalMomentum) Name() string { return "momentum" }
func (m *TotalMomentum) Observe(snap engine.Snapshot) {
	m.last = Momentum(snap).Magnitude()
}
func (m *TotalMomentum) Value() float64 { return m.last }
func (m *TotalMomentum) Reset()         { m.last = 0 }

type BodyCount struct {
	last int
}

func NewBodyCount() *BodyCount { return &BodyCount{} }

func (b *BodyCount) Name() string                 { return "bodies" }
func (b *BodyCount) Observe(snap engine.Snapshot) { b.last = len(snap.Objects) }
func (b *BodyCount) Value() float64               { return float64(b.last) }
func (b *BodyCount) Reset()                       { b.last = 0 }
