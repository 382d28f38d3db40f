// Package feedview is the full activity feed surface.
package feedview

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

// ClosedMsg signals the feed view was dismissed. Unlike the panel,
// leaving the feed does not advance the watermark.
type ClosedMsg struct{}

// Model is the full activity feed view.
type Model struct {
	list      list.Model
	watermark *watermark.Manager
	keys      *keys.KeyMap
	failed    bool
	errText   string
	width     int
	height    int
}

// New creates a new activity feed model.
func New(wm *watermark.Manager, k *keys.KeyMap, width, height int) Model {
	l := list.New([]list.Item{}, ItemDelegate{}, width, height-2)
	l.Title = "Activity"
	l.SetShowStatusBar(true)
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

// SetEvents replaces the feed's items from an event store snapshot.
func (m *Model) SetEvents(events []model.ActivityEvent) {
	items := make([]list.Item, len(events))
	for i, e := range events {
		items[i] = EventItem{Event: e, Unread: m.watermark.IsUnread(e)}
	}
	m.list.SetItems(items)
	m.failed = false
	m.errText = ""
}

// SetFailed puts the feed into the failed state with a retry hint.
func (m *Model) SetFailed(err error) {
	m.failed = true
	if err != nil {
		m.errText = err.Error()
	}
}

// Update handles messages for the feed view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		if key.Matches(keyMsg, m.keys.Back) {
			return m, func() tea.Msg { return ClosedMsg{} }
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// View renders the feed.
func (m Model) View() string {
	if m.failed {
		body := theme.ErrorStyle.Render("Couldn't load the activity feed.") +
			"\n\n" + theme.HelpStyle.Render("Press r to retry, esc to go back.")
		if m.errText != "" {
			body += "\n\n" + theme.ReadStyle.Render(m.errText)
		}
		return lipgloss.NewStyle().Padding(1, 2).Render(body)
	}

	if len(m.list.Items()) == 0 {
		return lipgloss.NewStyle().
			Width(m.width).
			Height(m.height).
			Align(lipgloss.Center, lipgloss.Center).
			Foreground(theme.ColorGray).
			Render("No activity yet.")
	}

	return m.list.View()
}

// SetSize updates the list dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.list.SetSize(width, height-2)
}
