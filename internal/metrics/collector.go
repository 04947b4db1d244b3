package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/san-kum/gravsim/internal/engine"
)

// Collector exports engine snapshots as prometheus metrics.
type Collector struct {
	tick      prometheus.Gauge
	bodies    prometheus.Gauge
	g         prometheus.Gauge
	kinetic   prometheus.Gauge
	potential prometheus.Gauge
	momentum  prometheus.Gauge
	events    *prometheus.CounterVec

	lastMerges  uint64
	lastBounces uint64
}

func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		tick: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "gravsim_tick",
			Help: "Current simulation tick",
		}),
		bodies: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "gravsim_bodies",
			Help: "Number of bodies in the simulation",
		}),
		g: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "gravsim_gravitational_constant",
			Help: "Gravitational constant in use",
		}),
		kinetic: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "gravsim_kinetic_energy",
			Help: "Total kinetic energy",
		}),
		potential: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "gravsim_potential_energy",
			Help: "Total gravitational potential energy",
		}),
		momentum: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "gravsim_momentum",
			Help: "Magnitude of total linear momentum",
		}),
		events: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gravsim_collisions_total",
				Help: "Collisions resolved, by kind",
			},
			[]string{"kind"},
		),
	}

	reg.MustRegister(c.tick, c.bodies, c.g, c.kinetic, c.potential, c.momentum, c.events)
	return c
}

func (c *Collector) OnTick(snap engine.Snapshot) {
	c.tick.Set(float64(snap.Tick))
	c.bodies.Set(float64(len(snap.Objects)))
	c.g.Set(snap.G)
	c.kinetic.Set(Kinetic(snap))
	c.potential.Set(Potential(snap))
	c.momentum.Set(Momentum(snap).Magnitude())

	c.events.WithLabelValues("merge").Add(float64(delta(snap.Merges, c.lastMerges)))
	c.events.WithLabelValues("bounce").Add(float64(delta(snap.Bounces, c.lastBounces)))
	c.lastMerges, c.lastBounces = snap.Merges, snap.Bounces
}

// delta handles the engine counters restarting from zero after a reset.
func delta(now, last uint64) uint64 {
	if now < last {
		return now
	}
	return now - last
}
