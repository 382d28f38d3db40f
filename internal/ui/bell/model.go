// Package bell renders the header bell badge with the unread count.
package bell

import (
	"fmt"

	"github.com/taskboardhq/pulse/internal/theme"
)

// Model is the bell badge surface. It is the simplest consumer of the
// activity stream: it displays the unread count and nothing else. The
// count is derived by the root model from the badge's event store and
// the shared watermark, so the badge can never disagree with the
// panel about what is unread.
type Model struct {
	count int
	stale bool
}

// New creates a bell badge model.
func New() Model {
	return Model{}
}

// SetCount updates the displayed unread count. Negative values are
// clamped to zero; the badge never shows a negative number.
func (m *Model) SetCount(count int) {
	if count < 0 {
		count = 0
	}
	m.count = count
}

// Count returns the currently displayed unread count.
func (m Model) Count() int {
	return m.count
}

// SetStale marks the badge when the underlying stream is failed or
// disconnected, so the user knows the count may lag.
func (m *Model) SetStale(stale bool) {
	m.stale = stale
}

// View renders the badge for the header bar.
func (m Model) View() string {
	suffix := ""
	if m.stale {
		suffix = " !"
	}

	if m.count == 0 {
		return theme.BadgeQuietStyle.Render("🔔" + suffix)
	}
	return theme.BadgeStyle.Render(fmt.Sprintf("🔔 %d%s", m.count, suffix))
}
