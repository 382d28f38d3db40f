package panel

import (
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/taskboardhq/pulse/internal/model"
	"github.com/taskboardhq/pulse/internal/theme"
	"github.com/taskboardhq/pulse/internal/ui"
)

// EventItem wraps an activity event so it can be used in a bubbles/list.
type EventItem struct {
	Event  model.ActivityEvent
	Unread bool
}

// FilterValue returns the string used for fuzzy filtering.
func (i EventItem) FilterValue() string {
	return i.Event.ActorName + " " + i.Event.Describe()
}

// ItemDelegate implements list.ItemDelegate for rendering one
// notification line.
type ItemDelegate struct{}

// Height returns the number of lines each item takes.
func (d ItemDelegate) Height() int { return 1 }

// Spacing returns the number of blank lines between items.
func (d ItemDelegate) Spacing() int { return 0 }

// Update handles per-item messages (unused).
func (d ItemDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd {
	return nil
}

// Render draws a single notification line.
func (d ItemDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	ei, ok := item.(EventItem)
	if !ok {
		return
	}

	e := ei.Event
	glyph := theme.ActionStyle(e.Action).Render(theme.ActionGlyph(e.Action))
	timeStr := theme.ReadStyle.Render(ui.RelativeTime(e.OccurredAt))

	text := fmt.Sprintf("%s %s", e.ActorName, e.Describe())
	if ei.Unread {
		text = theme.UnreadStyle.Render(text)
	} else {
		text = theme.ReadStyle.Render(text)
	}

	line := fmt.Sprintf("%s %s  %s", glyph, text, timeStr)

	if index == m.Index() {
		line = theme.SelectedItemStyle.Render(line)
	} else {
		line = theme.ListItemStyle.Render(line)
	}

	fmt.Fprint(w, line)
}
