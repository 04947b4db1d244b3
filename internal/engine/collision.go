package engine

import (
	"github.com/san-kum/gravsim/internal/body"
	"github.com/san-kum/gravsim/internal/vector"
)

// resolveCollisions checks every unordered pair once. Absorbed entries are
// marked and skipped for the remainder of the pass, then compacted in order
// once the pass is complete, so no pair is skipped or visited twice.
func (e *Engine) resolveCollisions() {
	n := len(e.objects)
	absorbed := make([]bool, n)
	removed := 0

	for i := 0; i < n; i++ {
		if absorbed[i] {
			continue
		}
		for j := i + 1; j < n; j++ {
			if absorbed[j] {
				continue
			}

			a, b := &e.objects[i], &e.objects[j]
			d := a.Position.Distance(b.Position)
			ra, rb := a.Body.Radius(), b.Body.Radius()
			if d > ra+rb {
				continue
			}

			if d <= ra || d <= rb {
				loser := e.merge(i, j)
				absorbed[loser] = true
				removed++
				e.merges++
				if loser == i {
					break
				}
				continue
			}

			if e.elasticCollisions && e.bounce(a, b) {
				e.bounces++
			}
		}
	}

	if removed == 0 {
		return
	}

	kept := e.objects[:0]
	for i := range e.objects {
		if !absorbed[i] {
			kept = append(kept, e.objects[i])
		}
	}
	for i := len(kept); i < n; i++ {
		e.objects[i] = ObjectState{}
	}
	e.objects = kept
}

// merge folds the lighter of entries i and j into the heavier one and
// returns the index of the absorbed entry. Ties favor i.
func (e *Engine) merge(i, j int) int {
	survivor, loser := i, j
	if e.objects[j].Body.Mass() > e.objects[i].Body.Mass() {
		survivor, loser = j, i
	}

	s, l := &e.objects[survivor], &e.objects[loser]
	ms, ml := s.Body.Mass(), l.Body.Mass()
	total := ms + ml
	momentum := s.Velocity.Scale(ms).Add(l.Velocity.Scale(ml))

	s.Velocity = vector.New(momentum.X/total, momentum.Y/total)
	s.Body.SetProperties(body.Mass(total))
	s.Body.SetMovable(s.Body.Movable() && l.Body.Movable())
	s.pin()

	return loser
}

// bounce applies an impulse along the line of centers and reports whether
// the velocities changed. An immovable body stays at rest and the impulse
// it would have taken is applied to the movable one.
func (e *Engine) bounce(a, b *ObjectState) bool {
	delta := b.Position.Sub(a.Position)
	d := delta.Magnitude()
	if d == 0 || d <= e.collisionLowerBounds {
		return false
	}

	n := delta.Normalize()
	velocityAlongNormal := b.Velocity.Sub(a.Velocity).Dot(n)
	if velocityAlongNormal >= 0 {
		return false
	}

	ma, mb := a.Body.Mass(), b.Body.Mass()
	j := -(1 + e.restitution) * velocityAlongNormal / (ma + mb)

	switch am, bm := a.Body.Movable(), b.Body.Movable(); {
	case am && bm:
		a.Velocity = a.Velocity.Sub(n.Scale(j * mb))
		b.Velocity = b.Velocity.Add(n.Scale(j * ma))
	case am:
		a.Velocity = a.Velocity.Sub(n.Scale(j * (ma + mb)))
		b.pin()
	case bm:
		b.Velocity = b.Velocity.Add(n.Scale(j * (ma + mb)))
		a.pin()
	default:
		return false
	}
	return true
}
