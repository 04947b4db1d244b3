package storage

import (
	"sort"
	"sync"

	"github.com/san-kum/gravsim/internal/engine"
	"github.com/san-kum/gravsim/internal/vector"
)

// Row is one body at one sampled tick.
type Row struct {
	Tick         uint64          `json:"tick"`
	Time         float64         `json:"time"`
	ID           uint64          `json:"id"`
	Position     vector.Vector2D `json:"position"`
	Velocity     vector.Vector2D `json:"velocity"`
	Acceleration vector.Vector2D `json:"acceleration"`
	Mass         float64         `json:"mass"`
	Radius       float64         `json:"radius"`
}

type Trace []Row

func (t *Trace) Append(snap engine.Snapshot) {
	secs := snap.Time().Seconds()
	for _, o := range snap.Objects {
		*t = append(*t, Row{
			Tick:         snap.Tick,
			Time:         secs,
			ID:           o.ID,
			Position:     o.Position,
			Velocity:     o.Velocity,
			Acceleration: o.Acceleration,
			Mass:         o.Mass,
			Radius:       o.Radius,
		})
	}
}

// IDs returns the distinct body ids in ascending order.
func (t Trace) IDs() []uint64 {
	seen := make(map[uint64]struct{})
	var ids []uint64
	for _, r := range t {
		if _, ok := seen[r.ID]; ok {
			continue
		}
		seen[r.ID] = struct{}{}
		ids = append(ids, r.ID)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// Samples counts the distinct ticks recorded.
func (t Trace) Samples() int {
	n := 0
	for i, r := range t {
		if i == 0 || r.Tick != t[i-1].Tick {
			n++
		}
	}
	return n
}

// Body returns the rows belonging to one body, in recorded order.
func (t Trace) Body(id uint64) Trace {
	var out Trace
	for _, r := range t {
		if r.ID == id {
			out = append(out, r)
		}
	}
	return out
}

func (t Trace) Times() []float64 {
	out := make([]float64, len(t))
	for i, r := range t {
		out[i] = r.Time
	}
	return out
}

// Column extracts a named field: x, y, vx, vy, ax, ay, speed, mass or radius.
func (t Trace) Column(name string) ([]float64, bool) {
	var get func(Row) float64
	switch name {
	case "x":
		get = func(r Row) float64 { return r.Position.X }
	case "y":
		get = func(r Row) float64 { return r.Position.Y }
	case "vx":
		get = func(r Row) float64 { return r.Velocity.X }
	case "vy":
		get = func(r Row) float64 { return r.Velocity.Y }
	case "ax":
		get = func(r Row) float64 { return r.Acceleration.X }
	case "ay":
		get = func(r Row) float64 { return r.Acceleration.Y }
	case "speed":
		get = func(r Row) float64 { return r.Velocity.Magnitude() }
	case "mass":
		get = func(r Row) float64 { return r.Mass }
	case "radius":
		get = func(r Row) float64 { return r.Radius }
	default:
		return nil, false
	}

	out := make([]float64, len(t))
	for i, r := range t {
		out[i] = get(r)
	}
	return out, true
}

// Recorder samples snapshots into a trace every N ticks.
type Recorder struct {
	mu    sync.Mutex
	every uint64
	trace Trace
}

func NewRecorder(every int) *Recorder {
	if every < 1 {
		every = 1
	}
	return &Recorder{every: uint64(every)}
}

func (r *Recorder) OnTick(snap engine.Snapshot) {
	if snap.Tick%r.every != 0 {
		return
	}
	r.mu.Lock()
	r.trace.Append(snap)
	r.mu.Unlock()
}

// Trace returns a copy of everything recorded so far.
func (r *Recorder) Trace() Trace {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make(Trace, len(r.trace))
	copy(out, r.trace)
	return out
}

func (r *Recorder) Reset() {
	r.mu.Lock()
	r.trace = nil
	r.mu.Unlock()
}
