// Package tui is an interactive inspector for the live window tree.
package tui

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/1broseidon/winhost/internal/controller"
)

const refreshInterval = 500 * time.Millisecond

type tickMsg time.Time

// model is the root bubbletea model for the inspector.
type model struct {
	ctrl *controller.Controller

	rows   []controller.Info
	paused bool

	width  int
	height int
}

func newModel(ctrl *controller.Controller) model {
	m := model{ctrl: ctrl}
	m.refresh()
	return m
}

func (m *model) refresh() {
	m.rows = m.ctrl.Snapshot()
}

func tick() tea.Cmd {
	return tea.Tick(refreshInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Init implements tea.Model.
func (m model) Init() tea.Cmd {
	return tick()
}

// Update implements tea.Model.
func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "p":
			m.paused = !m.paused
			return m, nil
		case "r":
			m.refresh()
			return m, nil
		}

	case tickMsg:
		if !m.paused {
			m.refresh()
		}
		return m, tick()

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	}
	return m, nil
}

// View implements tea.Model.
func (m model) View() string {
	var out string
	out += titleStyle.Render("winhost windows") + "\n\n"

	if len(m.rows) == 0 {
		out += dimStyle.Render("no live windows") + "\n"
	} else {
		for _, line := range renderTree(m.rows) {
			out += line + "\n"
		}
	}

	status := fmt.Sprintf("%d window(s)", len(m.rows))
	if m.paused {
		status += "  paused"
	}
	out += "\n" + dimStyle.Render(status) + "\n"
	out += helpStyle.Render("q quit · p pause · r refresh")
	return out
}

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("15")).
			Background(lipgloss.Color("62")).
			Padding(0, 1)

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			MarginTop(1)
)

// Run starts the inspector and blocks until the user quits.
func Run(ctrl *controller.Controller) error {
	p := tea.NewProgram(newModel(ctrl), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
