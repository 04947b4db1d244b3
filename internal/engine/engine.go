package engine

import (
	"math"
	"time"

	"github.com/san-kum/gravsim/internal/body"
	"github.com/san-kum/gravsim/internal/vector"
)

const (
	MinG     = 1e-6
	MaxG     = 1e6
	DefaultG = 1.0

	DefaultTickLength = 10 * time.Millisecond

	// DefaultGravityLowerBounds is the distance below which a pair exerts no
	// force on each other.
	DefaultGravityLowerBounds = 1e-3

	// DefaultCollisionLowerBounds is the distance at or below which an
	// elastic collision has no usable normal and is skipped.
	DefaultCollisionLowerBounds = 1e-6

	DefaultRestitution = 1.0
)

type Engine struct {
	objects []ObjectState
	nextID  uint64
	tick    uint64

	g                    float64
	tickLength           time.Duration
	gravityLowerBounds   float64
	collisionLowerBounds float64

	collisionDetection bool
	elasticCollisions  bool
	restitution        float64

	merges  uint64
	bounces uint64
}

type Option func(*Engine)

func WithG(g float64) Option {
	return func(e *Engine) { e.SetG(g) }
}

// WithTickLength sets the fixed step. Non-positive values are ignored.
func WithTickLength(d time.Duration) Option {
	return func(e *Engine) {
		if d > 0 {
			e.tickLength = d
		}
	}
}

func WithGravityLowerBounds(d float64) Option {
	return func(e *Engine) {
		if d >= 0 {
			e.gravityLowerBounds = d
		}
	}
}

func WithCollisions(enabled, elastic bool) Option {
	return func(e *Engine) { e.SetCollisions(enabled, elastic) }
}

func WithRestitution(r float64) Option {
	return func(e *Engine) { e.SetRestitution(r) }
}

func New(opts ...Option) *Engine {
	e := &Engine{
		objects:              make([]ObjectState, 0),
		g:                    DefaultG,
		tickLength:           DefaultTickLength,
		gravityLowerBounds:   DefaultGravityLowerBounds,
		collisionLowerBounds: DefaultCollisionLowerBounds,
		restitution:          DefaultRestitution,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// AddObject inserts b at pos with velocity vel and returns the new number of
// entries. Immovable bodies always start at rest.
func (e *Engine) AddObject(b *body.Body, pos, vel vector.Vector2D) int {
	e.nextID++
	o := ObjectState{
		ID:       e.nextID,
		Body:     b,
		Position: pos,
		Velocity: vel,
	}
	o.pin()
	e.objects = append(e.objects, o)
	return len(e.objects)
}

// Reset removes every entry and zeroes the tick counter. Gravity and
// collision settings are kept.
func (e *Engine) Reset() {
	clear(e.objects)
	e.objects = e.objects[:0]
	e.tick = 0
	e.merges = 0
	e.bounces = 0
}

// SetG sets the gravitational constant clamped to [MinG, MaxG] and returns
// the value applied.
func (e *Engine) SetG(g float64) float64 {
	if math.IsNaN(g) {
		g = DefaultG
	}
	e.g = math.Min(math.Max(g, MinG), MaxG)
	return e.g
}

func (e *Engine) SetCollisions(enabled, elastic bool) {
	e.collisionDetection = enabled
	e.elasticCollisions = elastic
}

// SetRestitution sets the bounce coefficient clamped to [0, 1].
func (e *Engine) SetRestitution(r float64) float64 {
	if math.IsNaN(r) {
		r = DefaultRestitution
	}
	e.restitution = math.Min(math.Max(r, 0), 1)
	return e.restitution
}

func (e *Engine) Tick() uint64              { return e.tick }
func (e *Engine) Len() int                  { return len(e.objects) }
func (e *Engine) G() float64                { return e.g }
func (e *Engine) TickLength() time.Duration { return e.tickLength }

func (e *Engine) Collisions() (enabled, elastic bool) {
	return e.collisionDetection, e.elasticCollisions
}

// Objects returns the live entry list. Callers must not retain it across
// ticks; use Snapshot for a stable copy.
func (e *Engine) Objects() []ObjectState {
	return e.objects
}

func (e *Engine) Snapshot() Snapshot {
	objs := make([]BodyState, len(e.objects))
	for i := range e.objects {
		objs[i] = e.objects[i].view()
	}
	return Snapshot{
		Tick:               e.tick,
		G:                  e.g,
		TickLength:         e.tickLength,
		CollisionDetection: e.collisionDetection,
		ElasticCollisions:  e.elasticCollisions,
		Restitution:        e.restitution,
		Merges:             e.merges,
		Bounces:            e.bounces,
		Objects:            objs,
	}
}
