package engine

import (
	"time"

	"github.com/san-kum/gravsim/internal/body"
	"github.com/san-kum/gravsim/internal/vector"
)

// ObjectState associates a body with its kinematic state. The engine owns
// the body exclusively.
type ObjectState struct {
	ID           uint64
	Body         *body.Body
	Position     vector.Vector2D
	Velocity     vector.Vector2D
	Acceleration vector.Vector2D
}

// pin enforces the immovable invariant.
func (o *ObjectState) pin() {
	if !o.Body.Movable() {
		o.Velocity = vector.Zero
		o.Acceleration = vector.Zero
	}
}

// BodyState is a read-only copy of one entry.
type BodyState struct {
	ID           uint64          `json:"id"`
	Mass         float64         `json:"mass"`
	Radius       float64         `json:"radius"`
	Color        string          `json:"color"`
	Movable      bool            `json:"movable"`
	Position     vector.Vector2D `json:"position"`
	Velocity     vector.Vector2D `json:"velocity"`
	Acceleration vector.Vector2D `json:"acceleration"`
}

func (o *ObjectState) view() BodyState {
	return BodyState{
		ID:           o.ID,
		Mass:         o.Body.Mass(),
		Radius:       o.Body.Radius(),
		Color:        o.Body.Color(),
		Movable:      o.Body.Movable(),
		Position:     o.Position,
		Velocity:     o.Velocity,
		Acceleration: o.Acceleration,
	}
}

// Snapshot is a deep copy of the engine state taken between ticks.
type Snapshot struct {
	Tick               uint64        `json:"tick"`
	Running            bool          `json:"running"`
	G                  float64       `json:"g"`
	TickLength         time.Duration `json:"tick_length"`
	CollisionDetection bool          `json:"collision_detection"`
	ElasticCollisions  bool          `json:"elastic_collisions"`
	Restitution        float64       `json:"restitution"`
	Merges             uint64        `json:"merges"`
	Bounces            uint64        `json:"bounces"`
	Objects            []BodyState   `json:"objects"`
}

// Time returns the simulated time elapsed since the last reset.
func (s Snapshot) Time() time.Duration {
	return time.Duration(s.Tick) * s.TickLength
}

// Find returns the entry with the given id.
func (s Snapshot) Find(id uint64) (BodyState, bool) {
	for _, o := range s.Objects {
		if o.ID == id {
			return o, true
		}
	}
	return BodyState{}, false
}

// Valid reports whether every position and velocity is finite.
func (s Snapshot) Valid() bool {
	for _, o := range s.Objects {
		if !o.Position.IsValid() || !o.Velocity.IsValid() {
			return false
		}
	}
	return true
}
