// Package panel is the dropdown notification panel surface.
package panel

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/taskboardhq/pulse/internal/keys"
	"github.com/taskboardhq/pulse/internal/model"
	"github.com/taskboardhq/pulse/internal/theme"
	"github.com/taskboardhq/pulse/internal/watermark"
)

// ClosedMsg signals the panel was dismissed. The root model marks all
// events seen when it receives this: closing the panel is one of the
// two moments the watermark may advance.
type ClosedMsg struct{}

// MarkAllReadMsg signals the user explicitly marked everything read
// while keeping the panel open.
type MarkAllReadMsg struct{}

// Model is the dropdown notification panel view.
type Model struct {
	list      list.Model
	watermark *watermark.Manager
	keys      *keys.KeyMap
	failed    bool
	errText   string
	width     int
	height    int
}

// New creates a new notification panel model. The watermark manager is
// shared with the bell badge so both surfaces agree on what is unread.
func New(wm *watermark.Manager, k *keys.KeyMap, width, height int) Model {
	l := list.New([]list.Item{}, ItemDelegate{}, width, height-2)
	l.Title = "Notifications"
	l.SetShowStatusBar(false)
	l.SetShowHelp(false)
	l.SetFilteringEnabled(false)
	l.Styles.Title = theme.HeaderStyle

	return Model{
		list:      l,
		watermark: wm,
		keys:      k,
		width:     width,
		height:    height,
	}
}

// SetEvents replaces the panel's items from an event store snapshot.
// Unread styling is computed against the shared watermark at render
// time, not stored on the events.
func (m *Model) SetEvents(events []model.ActivityEvent) {
	items := make([]list.Item, len(events))
	for i, e := range events {
		items[i] = EventItem{Event: e, Unread: m.watermark.IsUnread(e)}
	}
	m.list.SetItems(items)
	m.failed = false
	m.errText = ""
}

// SetFailed puts the panel into the failed state with a retry hint.
func (m *Model) SetFailed(err error) {
	m.failed = true
	if err != nil {
		m.errText = err.Error()
	}
}

// Update handles messages for the panel view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(keyMsg, m.keys.Back), key.Matches(keyMsg, m.keys.TogglePanel):
			return m, func() tea.Msg { return ClosedMsg{} }

		case key.Matches(keyMsg, m.keys.MarkAllRead):
			return m, func() tea.Msg { return MarkAllReadMsg{} }
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// View renders the panel.
func (m Model) View() string {
	if m.failed {
		body := theme.ErrorStyle.Render("Couldn't load notifications.") +
			"\n\n" + theme.HelpStyle.Render("Press r to retry, esc to close.")
		if m.errText != "" {
			body += "\n\n" + theme.ReadStyle.Render(m.errText)
		}
		return theme.PanelStyle.Width(m.width - 2).Render(body)
	}

	if len(m.list.Items()) == 0 {
		empty := lipgloss.NewStyle().
			Width(m.width - 4).
			Height(m.height - 4).
			Align(lipgloss.Center, lipgloss.Center).
			Foreground(theme.ColorGray).
			Render("No activity yet.")
		return theme.PanelStyle.Render(empty)
	}

	return theme.PanelStyle.Render(m.list.View())
}

// SetSize updates the panel dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.list.SetSize(width-4, height-2)
}
