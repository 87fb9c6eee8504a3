package viz

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/arglab/internal/scenario"
	"github.com/san-kum/arglab/internal/sim"
)

const (
	windowSamples = 240
	frameRate     = 30
)

type TickMsg time.Time

// Model replays a finished trajectory sample by sample. The core loop is
// strictly sequential, so the live view animates a completed run rather than
// interleaving with it.
type Model struct {
	sc      scenario.Scenario
	tr      *sim.Trajectory
	events  []sim.Event
	head    int
	stride  int
	playing bool
}

func NewModel(sc scenario.Scenario, tr *sim.Trajectory, events []sim.Event) Model {
	stride := tr.Len() / (frameRate * 10)
	if stride < 1 {
		stride = 1
	}
	return Model{sc: sc, tr: tr, events: events, head: 1, stride: stride, playing: true}
}

func tick() tea.Cmd {
	return tea.Tick(time.Second/frameRate, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

func (m Model) Init() tea.Cmd {
	return tick()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.playing = !m.playing
		case "r":
			m.head = 1
			m.playing = true
		}
		return m, nil
	case TickMsg:
		if m.playing && m.head < m.tr.Len() {
			m.head += m.stride
			if m.head > m.tr.Len() {
				m.head = m.tr.Len()
			}
		}
		return m, tick()
	}
	return m, nil
}

func (m Model) View() string {
	var b strings.Builder

	b.WriteString(headerStyle.Render(fmt.Sprintf("%s (%s)", m.sc.Label, m.sc.ID)))
	b.WriteString("\n")

	start := 0
	if m.head > windowSamples {
		start = m.head - windowSamples
	}
	graph := asciigraph.Plot(m.tr.Accumulator[start:m.head],
		asciigraph.Height(12),
		asciigraph.Width(plotWidth),
		asciigraph.Caption("accumulator"),
	)
	b.WriteString(graphStyle.Render(graph))
	b.WriteString("\n")

	idx := m.head - 1
	fired := 0
	for _, ev := range m.events {
		if ev.Time <= m.tr.Times[idx] {
			fired++
		}
	}

	stats := []string{
		statRow("time", fmt.Sprintf("%.3fs / %.3fs", m.tr.Times[idx], m.sc.Duration)),
		statRow("accumulator", fmt.Sprintf("%.4f", m.tr.Accumulator[idx])),
		statRow("order parameter", fmt.Sprintf("%.4f", m.tr.OrderParameter[idx])),
		statRow("releases", eventStyle.Render(fmt.Sprintf("%d / %d", fired, len(m.events)))),
	}
	b.WriteString(statsStyle.Render(strings.Join(stats, "\n")))
	b.WriteString("\n")
	b.WriteString(helpStyle.Render("space pause/resume · r restart · q quit"))

	return b.String()
}

// RunPlayback opens the bubbletea playback view for a finished run.
func RunPlayback(sc scenario.Scenario, tr *sim.Trajectory, events []sim.Event) error {
	p := tea.NewProgram(NewModel(sc, tr, events))
	_, err := p.Run()
	return err
}
