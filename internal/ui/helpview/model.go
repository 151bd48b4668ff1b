package helpview

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/hr-console/internal/keys"
	"github.com/nhle/hr-console/internal/theme"
)

// Model renders the keybinding reference.
type Model struct {
	keys   *keys.KeyMap
	width  int
	height int
}

// New creates a help view.
func New(k *keys.KeyMap, width, height int) Model {
	return Model{keys: k, width: width, height: height}
}

// SetSize updates the view dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// Update handles messages; the help view is static.
func (m Model) Update(_ tea.Msg) (Model, tea.Cmd) {
	return m, nil
}

// View renders the grouped keybinding list.
func (m Model) View() string {
	sections := []struct {
		title    string
		bindings []key.Binding
	}{
		{"Views", []key.Binding{
			m.keys.Inbox, m.keys.Leaves, m.keys.Employees, m.keys.NewLeave,
		}},
		{"Navigation", []key.Binding{
			m.keys.Up, m.keys.Down, m.keys.Select, m.keys.Back, m.keys.Search,
		}},
		{"Actions", []key.Binding{
			m.keys.Approve, m.keys.Reject, m.keys.MarkRead, m.keys.Delete,
			m.keys.Refresh,
		}},
		{"General", []key.Binding{
			m.keys.Help, m.keys.Quit,
		}},
	}

	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(theme.ColorBlue)
	var b strings.Builder
	for _, section := range sections {
		b.WriteString(titleStyle.Render(section.title))
		b.WriteString("\n")
		for _, binding := range section.bindings {
			h := binding.Help()
			b.WriteString("  ")
			b.WriteString(lipgloss.NewStyle().Width(12).Render(h.Key))
			b.WriteString(theme.HelpStyle.Render(h.Desc))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	return lipgloss.NewStyle().Padding(1, 2).Render(b.String())
}
