package config

import (
	"sort"
	"time"

	"github.com/san-kum/gravsim/internal/engine"
)

func fixed() *bool {
	f := false
	return &f
}

var Presets = map[string]*Config{
	"orbit": {
		Name: "orbit", G: 1e-4, TickLength: 10 * time.Millisecond, Ticks: 2000, RecordEvery: 5,
		Collisions: CollisionsConfig{Restitution: engine.DefaultRestitution},
		Bodies: []BodyConfig{
			{Mass: 1e10, Movable: fixed()},
			{Mass: 1, Pos: [2]float64{100, 0}, Vel: [2]float64{0, 100}},
		},
	},
	"binary": {
		Name: "binary", G: 1, TickLength: 10 * time.Millisecond, Ticks: 3000, RecordEvery: 10,
		Collisions: CollisionsConfig{Restitution: engine.DefaultRestitution},
		Bodies: []BodyConfig{
			{Mass: 1e5, Pos: [2]float64{-50, 0}, Vel: [2]float64{0, -22.36}},
			{Mass: 1e5, Pos: [2]float64{50, 0}, Vel: [2]float64{0, 22.36}},
		},
	},
	"merge": {
		Name: "merge", G: 1, TickLength: 10 * time.Millisecond, Ticks: 200, RecordEvery: 1,
		Collisions: CollisionsConfig{Enabled: true, Restitution: engine.DefaultRestitution},
		Bodies: []BodyConfig{
			{Mass: 10},
			{Mass: 10, Pos: [2]float64{0.5, 0}, Vel: [2]float64{-1, 0}},
		},
	},
	"bounce": {
		Name: "bounce", G: 1e-6, TickLength: 10 * time.Millisecond, Ticks: 500, RecordEvery: 2,
		Collisions: CollisionsConfig{Enabled: true, Elastic: true, Restitution: engine.DefaultRestitution},
		Bodies: []BodyConfig{
			{Mass: 100, Movable: fixed(), Color: "#cccccc"},
			{Mass: 1, Pos: [2]float64{-20, 0}, Vel: [2]float64{5, 0}},
			{Mass: 1, Pos: [2]float64{20, 0.5}, Vel: [2]float64{-5, 0}},
		},
	},
	"solar": {
		Name: "solar", G: 1, TickLength: 10 * time.Millisecond, Ticks: 5000, RecordEvery: 20, AutoOrbit: true,
		Collisions: CollisionsConfig{Enabled: true, Restitution: engine.DefaultRestitution},
		Bodies: []BodyConfig{
			{Mass: 1e6, Movable: fixed(), Color: "#ffcc33"},
			{Mass: 60, Pos: [2]float64{120, 0}},
			{Mass: 400, Pos: [2]float64{0, 220}},
			{Mass: 2500, Pos: [2]float64{-350, 0}},
			{Mass: 900, Pos: [2]float64{0, -500}},
		},
	},
	"cluster": {
		Name: "cluster", G: 5, TickLength: 10 * time.Millisecond, Ticks: 4000, RecordEvery: 20,
		Collisions: CollisionsConfig{Enabled: true, Elastic: true, Restitution: 0.8},
		Bodies: []BodyConfig{
			{Mass: 500, Pos: [2]float64{0, 0}},
			{Mass: 200, Pos: [2]float64{40, 10}, Vel: [2]float64{-1, 3}},
			{Mass: 200, Pos: [2]float64{-35, 25}, Vel: [2]float64{2, -2}},
			{Mass: 80, Pos: [2]float64{10, -45}, Vel: [2]float64{3, 1}},
			{Mass: 80, Pos: [2]float64{-20, -30}, Vel: [2]float64{-2, 2}},
			{Mass: 50, Pos: [2]float64{60, -20}, Vel: [2]float64{0, -3}},
		},
	},
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(name string) *Config {
	p, ok := Presets[name]
	if !ok {
		return nil
	}
	c := *p
	c.Bodies = append([]BodyConfig(nil), p.Bodies...)
	return &c
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
