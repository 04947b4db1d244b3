// Package sweep runs one scenario across a grid of engine settings in
// parallel and ranks the outcomes by a metric.
package sweep

import (
	"context"
	"math"
	"sync"

	"github.com/san-kum/gravsim/internal/engine"
	"github.com/san-kum/gravsim/internal/metrics"
	"github.com/san-kum/gravsim/internal/runner"
)

const DefaultWorkers = 4

// Point is one combination of swept settings.
type Point struct {
	G           float64 `json:"g"`
	Restitution float64 `json:"restitution"`
}

type Result struct {
	Point
	Ticks     uint64             `json:"ticks"`
	Survivors int                `json:"survivors"`
	Merges    uint64             `json:"merges"`
	Bounces   uint64             `json:"bounces"`
	Metrics   map[string]float64 `json:"metrics"`
	Err       error              `json:"-"`
}

// Build returns a fresh, populated engine for p.
type Build func(p Point) (*engine.Engine, error)

// Grid returns the cartesian product of the given values.
func Grid(gs, restitutions []float64) []Point {
	points := make([]Point, 0, len(gs)*len(restitutions))
	for _, g := range gs {
		for _, e := range restitutions {
			points = append(points, Point{G: g, Restitution: e})
		}
	}
	return points
}

// Run advances every point for the given number of ticks, at most workers
// at a time. Results keep the order of points.
func Run(ctx context.Context, points []Point, build Build, ticks, workers int) []Result {
	if workers < 1 {
		workers = DefaultWorkers
	}
	results := make([]Result, len(points))
	sem := make(chan struct{}, workers)

	var wg sync.WaitGroup
	for i, p := range points {
		wg.Add(1)
		go func(idx int, p Point) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			results[idx] = runPoint(ctx, p, build, ticks)
		}(i, p)
	}

	wg.Wait()
	return results
}

func runPoint(ctx context.Context, p Point, build Build, ticks int) Result {
	res := Result{Point: p}

	eng, err := build(p)
	if err != nil {
		res.Err = err
		return res
	}

	set := metrics.DefaultSet()
	set.OnTick(eng.Snapshot())

	for i := 0; i < ticks; i++ {
		if i%100 == 0 {
			if err := ctx.Err(); err != nil {
				res.Err = err
				break
			}
		}
		eng.AdvanceTick()
		snap := eng.Snapshot()
		set.OnTick(snap)
		if !snap.Valid() {
			res.Err = &runner.TickError{Tick: snap.Tick, Wrapped: runner.ErrUnstable}
			break
		}
	}

	final := eng.Snapshot()
	res.Ticks = final.Tick
	res.Survivors = len(final.Objects)
	res.Merges = final.Merges
	res.Bounces = final.Bounces
	res.Metrics = set.Values()
	return res
}

// Best returns the successful result with the lowest value of metric.
func Best(results []Result, metric string) (Result, bool) {
	best := math.Inf(1)
	idx := -1
	for i, r := range results {
		if r.Err != nil {
			continue
		}
		v, ok := r.Metrics[metric]
		if !ok || math.IsNaN(v) {
			continue
		}
		if v < best {
			best = v
			idx = i
		}
	}
	if idx < 0 {
		return Result{}, false
	}
	return results[idx], true
}
