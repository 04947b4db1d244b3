package viz

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/gravsim/internal/engine"
	"github.com/san-kum/gravsim/internal/metrics"
	"github.com/san-kum/gravsim/internal/runner"
)

const (
	canvasCols      = 70
	canvasRows      = 24
	historyCapacity = 300
	frameInterval   = time.Second / 30
	gFactor         = 1.25
)

type frameMsg time.Time

// Scenario repopulates an engine that has just been reset.
type Scenario func(e *engine.Engine)

// Model is the live view. The runner's own timer loop advances the engine;
// the model only samples snapshots on each frame.
type Model struct {
	ctx      context.Context
	runner   *runner.Runner
	scenario Scenario
	name     string

	canvas     *Canvas
	snap       engine.Snapshot
	velocities bool
	notice     string

	energy   []float64
	momentum []float64
}

func NewModel(ctx context.Context, r *runner.Runner, name string, scenario Scenario) Model {
	return Model{
		ctx:      ctx,
		runner:   r,
		scenario: scenario,
		name:     name,
		canvas:   NewCanvas(canvasCols, canvasRows),
		snap:     r.Snapshot(),
		energy:   make([]float64, 0, historyCapacity),
		momentum: make([]float64, 0, historyCapacity),
	}
}

func frame() tea.Cmd {
	return tea.Tick(frameInterval, func(t time.Time) tea.Msg { return frameMsg(t) })
}

func (m Model) Init() tea.Cmd {
	return frame()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg.String())
	case frameMsg:
		m.sample()
		return m, frame()
	}
	return m, nil
}

func (m Model) handleKey(key string) (tea.Model, tea.Cmd) {
	m.notice = ""
	switch key {
	case "q", "ctrl+c":
		m.runner.Stop()
		return m, tea.Quit
	case " ":
		if m.runner.Running() {
			m.runner.Stop()
		} else {
			m.runner.Run(m.ctx)
		}
	case "n":
		if err := m.runner.Step(); err != nil {
			if errors.Is(err, runner.ErrRunning) {
				m.notice = "stop the simulation before stepping"
			} else {
				m.notice = err.Error()
			}
		}
	case "r":
		m.runner.Do(func(e *engine.Engine) {
			e.Reset()
			if m.scenario != nil {
				m.scenario(e)
			}
		})
		m.energy = m.energy[:0]
		m.momentum = m.momentum[:0]
	case "c":
		s := m.runner.Snapshot()
		m.runner.SetCollisions(!s.CollisionDetection, s.ElasticCollisions)
	case "e":
		s := m.runner.Snapshot()
		m.runner.SetCollisions(s.CollisionDetection, !s.ElasticCollisions)
	case "+", "=":
		m.runner.SetG(m.runner.Snapshot().G * gFactor)
	case "-", "_":
		m.runner.SetG(m.runner.Snapshot().G / gFactor)
	case "v":
		m.velocities = !m.velocities
	}
	m.sample()
	return m, nil
}

// sample refreshes the cached snapshot and appends to the histories when
// the tick has moved on.
func (m *Model) sample() {
	prev := m.snap.Tick
	m.snap = m.runner.Snapshot()
	if m.snap.Tick == prev && len(m.energy) > 0 {
		return
	}
	m.energy = appendCapped(m.energy, metrics.Total(m.snap))
	m.momentum = appendCapped(m.momentum, metrics.Momentum(m.snap).Magnitude())
}

func appendCapped(xs []float64, v float64) []float64 {
	if len(xs) >= historyCapacity {
		copy(xs, xs[1:])
		xs = xs[:len(xs)-1]
	}
	return append(xs, v)
}

func (m Model) status() string {
	switch {
	case m.runner.Err() != nil && !m.snap.Running:
		return statusHalted.Render("HALTED")
	case m.snap.Running:
		return statusRunning.Render("RUNNING")
	default:
		return statusStopped.Render("STOPPED")
	}
}

func (m Model) View() string {
	Render(m.canvas, FitViewport(m.snap, m.canvas.SubWidth(), m.canvas.SubHeight()), m.snap, m.velocities)
	canvasView := canvasStyle.Render(m.canvas.String())

	var s strings.Builder
	s.WriteString(headerStyle.Render(strings.ToUpper(m.name)) + "\n")
	s.WriteString(m.status() + "\n\n")

	if len(m.energy) > 1 {
		chart := asciigraph.Plot(m.energy, asciigraph.Height(4), asciigraph.Width(30), asciigraph.Caption("Energy"))
		s.WriteString(graphStyle.Render(chart) + "\n")
	}

	row := func(label, value string) {
		s.WriteString(labelStyle.Render(label) + valueStyle.Render(value) + "\n")
	}
	row("Tick", fmt.Sprintf("%d", m.snap.Tick))
	row("Time", fmt.Sprintf("%.2fs", m.snap.Time().Seconds()))
	row("Bodies", fmt.Sprintf("%d", len(m.snap.Objects)))
	row("g", fmt.Sprintf("%.4g", m.snap.G))
	row("Collisions", onOff(m.snap.CollisionDetection))
	row("Elastic", onOff(m.snap.ElasticCollisions))
	row("Merges", fmt.Sprintf("%d", m.snap.Merges))
	row("Bounces", fmt.Sprintf("%d", m.snap.Bounces))
	s.WriteString(labelStyle.Render("Momentum") + Sparkline(m.momentum, 24) + "\n")

	if m.notice != "" {
		s.WriteString("\n" + noticeStyle.Render(m.notice) + "\n")
	}
	if err := m.runner.Err(); err != nil {
		s.WriteString("\n" + statusHalted.Render(err.Error()) + "\n")
	}

	s.WriteString(helpStyle.Render("SP:Run/Stop N:Step R:Reset Q:Quit\nC:Collide E:Elastic +/-:g V:Vel"))
	return lipgloss.JoinHorizontal(lipgloss.Top, canvasView, statsStyle.Render(s.String()))
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}
