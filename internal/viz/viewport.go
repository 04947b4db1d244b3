package viz

import (
	"math"
	"sort"

	"github.com/san-kum/gravsim/internal/engine"
	"github.com/san-kum/gravsim/internal/vector"
)

// Viewport maps world coordinates onto canvas sub-pixels. World y points
// up; screen y points down.
type Viewport struct {
	Center vector.Vector2D
	Scale  float64 // sub-pixels per world unit
	W, H   int
}

const fitPadding = 0.1

// FitViewport frames every body in snap, radius included.
func FitViewport(snap engine.Snapshot, w, h int) Viewport {
	v := Viewport{Scale: 1, W: w, H: h}
	if len(snap.Objects) == 0 || w <= 0 || h <= 0 {
		return v
	}

	minX, maxX := math.Inf(1), math.Inf(-1)
	minY, maxY := math.Inf(1), math.Inf(-1)
	for _, o := range snap.Objects {
		minX = math.Min(minX, o.Position.X-o.Radius)
		maxX = math.Max(maxX, o.Position.X+o.Radius)
		minY = math.Min(minY, o.Position.Y-o.Radius)
		maxY = math.Max(maxY, o.Position.Y+o.Radius)
	}

	rangeX := (maxX - minX) * (1 + 2*fitPadding)
	rangeY := (maxY - minY) * (1 + 2*fitPadding)
	if rangeX <= 0 {
		rangeX = 1
	}
	if rangeY <= 0 {
		rangeY = 1
	}

	v.Center = vector.New((minX+maxX)/2, (minY+maxY)/2)
	v.Scale = math.Min(float64(w)/rangeX, float64(h)/rangeY)
	return v
}

// Project returns the unrounded screen position of p.
func (v Viewport) Project(p vector.Vector2D) (float64, float64) {
	return float64(v.W)/2 + (p.X-v.Center.X)*v.Scale, float64(v.H)/2 - (p.Y-v.Center.Y)*v.Scale
}

func (v Viewport) ToScreen(p vector.Vector2D) (int, int) {
	sx, sy := v.Project(p)
	return int(math.Floor(sx)), int(math.Floor(sy))
}

func (v Viewport) halfExtent() (float64, float64) {
	return float64(v.W) / 2 / v.Scale, float64(v.H) / 2 / v.Scale
}

func (v Viewport) Contains(p vector.Vector2D) bool {
	hw, hh := v.halfExtent()
	return math.Abs(p.X-v.Center.X) <= hw && math.Abs(p.Y-v.Center.Y) <= hh
}

func (v Viewport) edges() [4]vector.Segment {
	hw, hh := v.halfExtent()
	c := v.Center
	tl := vector.New(c.X-hw, c.Y+hh)
	tr := vector.New(c.X+hw, c.Y+hh)
	br := vector.New(c.X+hw, c.Y-hh)
	bl := vector.New(c.X-hw, c.Y-hh)
	return [4]vector.Segment{{A: tl, B: tr}, {A: tr, B: br}, {A: br, B: bl}, {A: bl, B: tl}}
}

// Clip trims seg to the visible rectangle. ok is false when no part of it
// is visible.
func (v Viewport) Clip(seg vector.Segment) (clipped vector.Segment, ok bool) {
	inA, inB := v.Contains(seg.A), v.Contains(seg.B)
	if inA && inB {
		return seg, true
	}

	var hits []vector.Vector2D
	for _, edge := range v.edges() {
		hits = append(hits, vector.LinesIntersecting(seg, edge, true)...)
	}
	if len(hits) == 0 {
		return vector.Segment{}, false
	}

	d := seg.Direction()
	dd := d.Dot(d)
	param := func(p vector.Vector2D) float64 {
		if dd == 0 {
			return 0
		}
		return p.Sub(seg.A).Dot(d) / dd
	}
	sort.Slice(hits, func(i, j int) bool { return param(hits[i]) < param(hits[j]) })

	switch {
	case inA:
		return vector.Segment{A: seg.A, B: hits[len(hits)-1]}, true
	case inB:
		return vector.Segment{A: hits[0], B: seg.B}, true
	}

	first, last := hits[0], hits[len(hits)-1]
	if first == last {
		return vector.Segment{}, false
	}
	return vector.Segment{A: first, B: last}, true
}

// arrowSeconds is how far ahead a velocity arrow reaches.
const arrowSeconds = 1.0

// Render draws snap onto c. Discs are at least one sub-pixel wide.
func Render(c *Canvas, v Viewport, snap engine.Snapshot, velocities bool) {
	c.Clear()
	for _, o := range snap.Objects {
		x, y := v.ToScreen(o.Position)
		c.FillDisc(x, y, int(math.Round(o.Radius*v.Scale)))

		if !velocities || o.Velocity.IsZero() {
			continue
		}
		seg := vector.Segment{A: o.Position, B: o.Position.Add(o.Velocity.Scale(arrowSeconds))}
		if seg, ok := v.Clip(seg); ok {
			x0, y0 := v.ToScreen(seg.A)
			x1, y1 := v.ToScreen(seg.B)
			c.DrawLine(x0, y0, x1, y1)
		}
	}
}
