// Package runner drives an engine either one tick at a time or from a
// fixed-interval timer loop.
package runner

import (
	"context"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/time/rate"

	"github.com/san-kum/gravsim/internal/body"
	"github.com/san-kum/gravsim/internal/engine"
	"github.com/san-kum/gravsim/internal/vector"
)

// Observer receives a snapshot after every tick. Calls never overlap.
type Observer interface {
	OnTick(snap engine.Snapshot)
}

type ObserverFunc func(engine.Snapshot)

func (f ObserverFunc) OnTick(snap engine.Snapshot) { f(snap) }

// Runner owns an engine and serializes all access to it. While running, a
// ticker fires every tick length; ticks never overlap and the cadence is
// best effort.
type Runner struct {
	mu      sync.Mutex
	eng     *engine.Engine
	running bool
	gen     uint64
	done    chan struct{}
	err     error

	notifyMu  sync.Mutex
	observers []Observer

	logger *log.Logger
	status rate.Sometimes
}

type Option func(*Runner)

func WithLogger(l *log.Logger) Option {
	return func(r *Runner) { r.logger = l }
}

func WithObserver(o Observer) Option {
	return func(r *Runner) { r.observers = append(r.observers, o) }
}

// WithStatusInterval sets how often the loop logs a progress line.
func WithStatusInterval(d time.Duration) Option {
	return func(r *Runner) { r.status = rate.Sometimes{Interval: d} }
}

func New(eng *engine.Engine, opts ...Option) *Runner {
	r := &Runner{
		eng:    eng,
		logger: log.Default(),
		status: rate.Sometimes{Interval: 5 * time.Second},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *Runner) AddObserver(o Observer) {
	r.notifyMu.Lock()
	defer r.notifyMu.Unlock()
	r.observers = append(r.observers, o)
}

// Run starts the timer loop. It is a no-op if the loop is already running.
// The loop stops on Stop or when ctx is done.
func (r *Runner) Run(ctx context.Context) {
	r.mu.Lock()
	if r.running {
		r.mu.Unlock()
		return
	}
	r.running = true
	r.err = nil
	r.gen++
	gen := r.gen
	interval := r.eng.TickLength()
	done := make(chan struct{})
	r.done = done
	tick := r.eng.Tick()
	r.mu.Unlock()

	r.logger.Info("simulation started", "tick", tick, "interval", interval)
	go r.loop(ctx, gen, interval, done)
}

// Stop clears the running flag. The loop notices on its next tick, so it
// may take up to one tick length to exit; use Wait to block until then.
func (r *Runner) Stop() {
	r.mu.Lock()
	if !r.running {
		r.mu.Unlock()
		return
	}
	r.running = false
	tick := r.eng.Tick()
	r.mu.Unlock()

	r.logger.Info("simulation stopped", "tick", tick)
}

// Wait blocks until the most recently started loop has exited.
func (r *Runner) Wait() {
	r.mu.Lock()
	done := r.done
	r.mu.Unlock()
	if done != nil {
		<-done
	}
}

func (r *Runner) loop(ctx context.Context, gen uint64, interval time.Duration, done chan struct{}) {
	defer close(done)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			r.mu.Lock()
			current := r.gen == gen && r.running
			if current {
				r.running = false
			}
			r.mu.Unlock()
			if current {
				r.logger.Info("simulation canceled", "reason", ctx.Err())
			}
			return
		case <-ticker.C:
			if !r.tickAndNotify(gen) {
				return
			}
		}
	}
}

// tickAndNotify advances and delivers one tick while holding notifyMu, so a
// Step issued right after Stop cannot overtake the loop's last snapshot.
func (r *Runner) tickAndNotify(gen uint64) bool {
	r.notifyMu.Lock()
	defer r.notifyMu.Unlock()

	snap, ok := r.advance(gen)
	if !ok {
		return false
	}
	r.notifyLocked(snap)
	r.status.Do(func() {
		r.logger.Debug("tick", "tick", snap.Tick, "bodies", len(snap.Objects), "merges", snap.Merges)
	})
	return true
}

// advance runs one timer-driven tick if gen is still the active loop.
func (r *Runner) advance(gen uint64) (engine.Snapshot, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.running || r.gen != gen {
		return engine.Snapshot{}, false
	}

	r.eng.AdvanceTick()
	snap := r.snapshotLocked()
	if !snap.Valid() {
		r.running = false
		snap.Running = false
		r.err = &TickError{Tick: snap.Tick, Wrapped: ErrUnstable}
		r.logger.Error("simulation halted", "err", r.err)
	}
	return snap, true
}

// Step advances exactly one tick. It returns ErrRunning while the timer loop
// is active.
func (r *Runner) Step() error {
	r.notifyMu.Lock()
	defer r.notifyMu.Unlock()

	r.mu.Lock()
	if r.running {
		r.mu.Unlock()
		return ErrRunning
	}
	r.eng.AdvanceTick()
	snap := r.snapshotLocked()
	r.mu.Unlock()

	r.notifyLocked(snap)
	if !snap.Valid() {
		return &TickError{Tick: snap.Tick, Wrapped: ErrUnstable}
	}
	return nil
}

// notifyLocked delivers snap to every observer. notifyMu must be held; it
// is always taken before mu.
func (r *Runner) notifyLocked(snap engine.Snapshot) {
	for _, o := range r.observers {
		o.OnTick(snap)
	}
}

func (r *Runner) snapshotLocked() engine.Snapshot {
	snap := r.eng.Snapshot()
	snap.Running = r.running
	return snap
}

func (r *Runner) Snapshot() engine.Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.snapshotLocked()
}

func (r *Runner) Running() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.running
}

func (r *Runner) Tick() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.eng.Tick()
}

// Err returns the error that halted the last loop, if any.
func (r *Runner) Err() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.err
}

// Do runs fn with exclusive access to the engine, between ticks.
func (r *Runner) Do(fn func(e *engine.Engine)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	fn(r.eng)
}

func (r *Runner) AddObject(b *body.Body, pos, vel vector.Vector2D) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.eng.AddObject(b, pos, vel)
}

func (r *Runner) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.eng.Reset()
}

func (r *Runner) SetG(g float64) float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	applied := r.eng.SetG(g)
	if applied != g {
		r.logger.Warn("gravitational constant clamped", "requested", g, "applied", applied)
	}
	return applied
}

func (r *Runner) SetCollisions(enabled, elastic bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.eng.SetCollisions(enabled, elastic)
}

func (r *Runner) SetRestitution(e float64) float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.eng.SetRestitution(e)
}
