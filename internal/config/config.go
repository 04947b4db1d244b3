package config

import (
	"errors"
	"fmt"
	"math"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/gravsim/internal/body"
	"github.com/san-kum/gravsim/internal/engine"
	"github.com/san-kum/gravsim/internal/vector"
)

const (
	DefaultName        = "custom"
	DefaultRecordEvery = 10
	DefaultTicks       = 1000
)

var ErrInvalidConfig = errors.New("config: invalid scenario")

type Config struct {
	Name        string           `yaml:"name"`
	G           float64          `yaml:"g"`
	TickLength  time.Duration    `yaml:"tick_length"`
	Ticks       int              `yaml:"ticks"`
	RecordEvery int              `yaml:"record_every"`
	AutoOrbit   bool             `yaml:"auto_orbit,omitempty"`
	Collisions  CollisionsConfig `yaml:"collisions"`
	Bodies      []BodyConfig     `yaml:"bodies"`
}

type CollisionsConfig struct {
	Enabled     bool    `yaml:"enabled"`
	Elastic     bool    `yaml:"elastic"`
	Restitution float64 `yaml:"restitution"`
}

// BodyConfig describes one body. Radius and Color are optional and derived
// from Mass when omitted. Movable defaults to true.
type BodyConfig struct {
	Mass    float64    `yaml:"mass"`
	Radius  float64    `yaml:"radius,omitempty"`
	Color   string     `yaml:"color,omitempty"`
	Movable *bool      `yaml:"movable,omitempty"`
	Pos     [2]float64 `yaml:"pos,flow"`
	Vel     [2]float64 `yaml:"vel,flow"`
}

func DefaultConfig() *Config {
	return &Config{
		Name:        DefaultName,
		G:           engine.DefaultG,
		TickLength:  engine.DefaultTickLength,
		Ticks:       DefaultTicks,
		RecordEvery: DefaultRecordEvery,
		Collisions: CollisionsConfig{
			Restitution: engine.DefaultRestitution,
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate rejects values the engine cannot represent. Values the engine
// clamps, such as g or body mass, are accepted as-is.
func (c *Config) Validate() error {
	if c.TickLength <= 0 {
		return fmt.Errorf("%w: tick_length must be positive, got %v", ErrInvalidConfig, c.TickLength)
	}
	if c.Ticks < 0 {
		return fmt.Errorf("%w: ticks must not be negative, got %d", ErrInvalidConfig, c.Ticks)
	}
	if c.RecordEvery < 1 {
		return fmt.Errorf("%w: record_every must be at least 1, got %d", ErrInvalidConfig, c.RecordEvery)
	}
	for i, b := range c.Bodies {
		for _, v := range []float64{b.Mass, b.Radius, b.Pos[0], b.Pos[1], b.Vel[0], b.Vel[1]} {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return fmt.Errorf("%w: body %d has a non-finite value", ErrInvalidConfig, i)
			}
		}
	}
	return nil
}

func (b BodyConfig) IsMovable() bool {
	return b.Movable == nil || *b.Movable
}

// Properties picks the body update kind matching the fields that were set.
func (b BodyConfig) Properties() body.Properties {
	switch {
	case b.Radius > 0 && b.Color != "":
		return body.FullProperties(b.Mass, b.Radius, b.Color)
	case b.Radius > 0:
		return body.MassRadius(b.Mass, b.Radius)
	case b.Color != "":
		return body.MassColor(b.Mass, b.Color)
	default:
		return body.Mass(b.Mass)
	}
}

// Options translates the scenario settings into engine options.
func (c *Config) Options() []engine.Option {
	return []engine.Option{
		engine.WithG(c.G),
		engine.WithTickLength(c.TickLength),
		engine.WithCollisions(c.Collisions.Enabled, c.Collisions.Elastic),
		engine.WithRestitution(c.Collisions.Restitution),
	}
}

// Populate adds every configured body to e. With AutoOrbit set, bodies at
// rest are first given a circular orbit around body 0.
func (c *Config) Populate(e *engine.Engine) {
	bodies := c.Bodies
	if c.AutoOrbit {
		bodies = append([]BodyConfig(nil), c.Bodies...)
		SetOrbitalVelocities(bodies, e.G())
	}
	for _, b := range bodies {
		e.AddObject(
			body.New(b.Properties(), b.IsMovable()),
			vector.New(b.Pos[0], b.Pos[1]),
			vector.New(b.Vel[0], b.Vel[1]),
		)
	}
}

// Build validates c and returns a populated engine. Extra options are
// applied after the scenario's own.
func (c *Config) Build(opts ...engine.Option) (*engine.Engine, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	e := engine.New(append(c.Options(), opts...)...)
	c.Populate(e)
	return e, nil
}

// SetOrbitalVelocities gives every resting body after the first the circular
// orbital velocity around bodies[0], counter-clockwise.
func SetOrbitalVelocities(bodies []BodyConfig, g float64) {
	if len(bodies) == 0 {
		return
	}
	central := bodies[0]
	for i := 1; i < len(bodies); i++ {
		if bodies[i].Vel != [2]float64{} {
			continue
		}
		dx := bodies[i].Pos[0] - central.Pos[0]
		dy := bodies[i].Pos[1] - central.Pos[1]
		r := math.Hypot(dx, dy)
		if r == 0 {
			continue
		}
		v := math.Sqrt(g * central.Mass / r)
		bodies[i].Vel[0] = central.Vel[0] - dy/r*v
		bodies[i].Vel[1] = central.Vel[1] + dx/r*v
	}
}
