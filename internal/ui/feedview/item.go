package feedview

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

// ItemDelegate renders one feed entry over two lines: the event text
// and a dimmed detail line with the task reference and timestamp.
type ItemDelegate struct{}

// Height returns the number of lines each item takes.
func (d ItemDelegate) Height() int { return 2 }

// Spacing returns the number of blank lines between items.
func (d ItemDelegate) Spacing() int { return 0 }

// Update handles per-item messages (unused).
func (d ItemDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd {
	return nil
}

// Render draws a single feed entry.
func (d ItemDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	ei, ok := item.(EventItem)
	if !ok {
		return
	}

	e := ei.Event
	glyph := theme.ActionStyle(e.Action).Render(theme.ActionGlyph(e.Action))

	text := fmt.Sprintf("%s %s", e.ActorName, e.Describe())
	if ei.Unread {
		text = theme.UnreadStyle.Render(text)
	} else {
		text = theme.ReadStyle.Render(text)
	}

	detail := ui.RelativeTime(e.OccurredAt)
	if e.SubjectTaskID != "" {
		detail = fmt.Sprintf("#%s · %s", e.SubjectTaskID, detail)
	}

	first := fmt.Sprintf("%s %s", glyph, text)
	second := "  " + theme.ReadStyle.Render(detail)

	if index == m.Index() {
		first = theme.SelectedItemStyle.Render(first)
	} else {
		first = theme.ListItemStyle.Render(first)
	}

	fmt.Fprintf(w, "%s\n%s", first, second)
}
