package engine

import "github.com/san-kum/gravsim/internal/vector"

// AdvanceTick runs one fixed step: force accumulation, integration and,
// when enabled, collision resolution.
func (e *Engine) AdvanceTick() {
	forces := e.accumulateForces()
	dt := e.tickLength.Seconds()

	for i := range e.objects {
		o := &e.objects[i]
		if !o.Body.Movable() {
			o.pin()
			continue
		}

		m := o.Body.Mass()
		f := forces[i]
		o.Acceleration = vector.New(f.X/m, f.Y/m)
		o.Velocity = o.Velocity.Add(o.Acceleration.Scale(dt))
		o.Position = o.Position.Add(o.Velocity.Scale(dt))
	}

	if e.collisionDetection {
		e.resolveCollisions()
	}

	e.tick++
}

// accumulateForces returns the net gravitational force on every entry,
// evaluating each unordered pair once.
func (e *Engine) accumulateForces() []vector.Vector2D {
	n := len(e.objects)
	forces := make([]vector.Vector2D, n)

	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			f := e.PairForce(&e.objects[i], &e.objects[j])
			if f.IsZero() {
				continue
			}
			forces[i] = forces[i].Add(f)
			forces[j] = forces[j].Sub(f)
		}
	}

	return forces
}

// PairForce returns the force exerted on a by b. The force on b is its exact
// negation. Pairs closer than the gravity lower bound, or coincident, exert
// no force.
func (e *Engine) PairForce(a, b *ObjectState) vector.Vector2D {
	delta := b.Position.Sub(a.Position)
	d := delta.Magnitude()
	if d == 0 || d < e.gravityLowerBounds {
		return vector.Zero
	}

	magnitude := e.g * (a.Body.Mass() * b.Body.Mass()) / (d * d)
	return delta.Normalize().Scale(magnitude)
}
