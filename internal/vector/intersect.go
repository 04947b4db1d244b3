package vector

import "math"

// parallelEpsilon bounds |cross| below which two directions count as parallel.
const parallelEpsilon = 1e-10

// Segment is a line segment from A to B.
type Segment struct {
	A, B Vector2D
}

func (s Segment) Direction() Vector2D {
	return s.B.Sub(s.A)
}

// At returns the point A + (B-A)*t.
func (s Segment) At(t float64) Vector2D {
	return s.A.Add(s.Direction().Scale(t))
}

// LinesIntersecting intersects l1 with l2 and returns nil, one point or two
// points.
//
// In non-strict mode both inputs are treated as infinite lines: collinear
// lines return l1's endpoints, and crossing lines return the crossing point
// even when it lies outside either segment. In strict mode the result is
// restricted to the segments themselves, and collinear overlaps return the
// overlapping sub-segment of l1. Parallel, non-collinear inputs return nil
// in both modes.
func LinesIntersecting(l1, l2 Segment, strict bool) []Vector2D {
	r := l1.Direction()
	s := l2.Direction()
	qp := l2.A.Sub(l1.A)

	rxs := r.Cross(s)
	qpxr := qp.Cross(r)

	if math.Abs(rxs) < parallelEpsilon {
		if math.Abs(qpxr) >= parallelEpsilon {
			return nil
		}
		if !strict {
			return []Vector2D{l1.A, l1.B}
		}
		return collinearOverlap(l1, l2)
	}

	t := qp.Cross(s) / rxs
	u := qpxr / rxs

	if strict && (t < 0 || t > 1 || u < 0 || u > 1) {
		return nil
	}
	return []Vector2D{l1.At(t)}
}

// collinearOverlap clips l2 to l1's parameter range [0,1].
func collinearOverlap(l1, l2 Segment) []Vector2D {
	r := l1.Direction()
	rr := r.Dot(r)
	if rr == 0 {
		if onSegment(l1.A, l2) {
			return []Vector2D{l1.A}
		}
		return nil
	}

	t0 := l2.A.Sub(l1.A).Dot(r) / rr
	t1 := t0 + l2.Direction().Dot(r)/rr
	lo, hi := math.Min(t0, t1), math.Max(t0, t1)
	lo = math.Max(lo, 0)
	hi = math.Min(hi, 1)

	switch {
	case lo > hi:
		return nil
	case lo == hi:
		return []Vector2D{l1.At(lo)}
	default:
		return []Vector2D{l1.At(lo), l1.At(hi)}
	}
}

func onSegment(p Vector2D, seg Segment) bool {
	d := seg.Direction()
	dd := d.Dot(d)
	rel := p.Sub(seg.A)
	if dd == 0 {
		return rel.IsZero()
	}
	if math.Abs(rel.Cross(d)) >= parallelEpsilon {
		return false
	}
	t := rel.Dot(d) / dd
	return t >= 0 && t <= 1
}
