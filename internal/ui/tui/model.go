package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/okessler/sitecache/internal/registry"
)

// Model is the Bubble Tea model for the status watch.
type Model struct {
	Instances []registry.Summary
	Loaded    bool
	LastPoll  time.Time

	Width  int
	Height int
	Err    error
}

// NewModel creates a model for the status watch.
func NewModel() Model {
	return Model{}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		}

	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height

	case StatusMsg:
		m.Instances = msg.Instances
		m.Loaded = true
		m.LastPoll = time.Now()

	case ErrMsg:
		m.Err = msg.Err
		return m, tea.Quit
	}

	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	return renderView(m)
}
