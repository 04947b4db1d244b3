package analysis

import (
	"errors"
	"math"

	"github.com/san-kum/gravsim/internal/engine"
)

// DivergenceResult holds the separation history of two runs.
type DivergenceResult struct {
	Initial     float64
	Separations []float64
	// Exponent is ln(final/initial) per simulated second. Positive values
	// indicate sensitive dependence on initial conditions.
	Exponent float64
}

// Divergence advances base and perturbed in lockstep for the given number of
// ticks, recording the position separation over bodies present in both.
// Both engines are mutated.
func Divergence(base, perturbed *engine.Engine, ticks int) (*DivergenceResult, error) {
	if base.Len() == 0 || perturbed.Len() == 0 {
		return nil, errors.New("divergence needs non-empty engines")
	}

	d0 := separation(base.Snapshot(), perturbed.Snapshot())
	if d0 == 0 {
		return nil, errors.New("runs start from identical states")
	}

	res := &DivergenceResult{
		Initial:     d0,
		Separations: make([]float64, 0, ticks),
	}

	var last engine.Snapshot
	for i := 0; i < ticks; i++ {
		base.AdvanceTick()
		perturbed.AdvanceTick()
		last = base.Snapshot()
		sep := separation(last, perturbed.Snapshot())
		if math.IsNaN(sep) || math.IsInf(sep, 0) {
			break
		}
		res.Separations = append(res.Separations, sep)
	}

	if n := len(res.Separations); n > 0 {
		final := res.Separations[n-1]
		elapsed := last.TickLength.Seconds() * float64(n)
		if final > 0 && elapsed > 0 {
			res.Exponent = math.Log(final/d0) / elapsed
		}
	}
	return res, nil
}

func separation(a, b engine.Snapshot) float64 {
	sum := 0.0
	for _, oa := range a.Objects {
		ob, ok := b.Find(oa.ID)
		if !ok {
			continue
		}
		d := oa.Position.Distance(ob.Position)
		sum += d * d
	}
	return math.Sqrt(sum)
}
