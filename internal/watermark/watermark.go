// Package watermark tracks the boundary between seen and unseen
// activity events for one local identity.
package watermark

import (
	"context"
	"time"

	"github.com/taskboardhq/pulse/internal/model"
	"github.com/taskboardhq/pulse/internal/store"
)

// Manager answers "is this event unread?" against a persisted
// last-seen timestamp without re-reading storage on every render.
//
// One Manager instance is shared by every surface of an identity so
// the bell badge and the panel can never disagree about the unread
// boundary. The persisted value is last-writer-wins; monotonic
// non-decrease holds because the only write path uses time.Now().
type Manager struct {
	st       store.Store
	identity string
	lastSeen time.Time
	loaded   bool
}

// NewManager creates a Manager backed by the given store. Call Load
// before using it.
func NewManager(st store.Store) *Manager {
	return &Manager{st: st}
}

// Load reads the persisted watermark for the given identity. A missing
// or unreadable value resolves to the zero time, which makes every
// event unread: a new user has seen nothing. Switching identity must
// go through Load again so one user's watermark is never applied to
// another.
func (m *Manager) Load(ctx context.Context, identity string) {
	m.identity = identity
	m.loaded = true

	t, err := m.st.GetLastSeen(ctx, identity)
	if err != nil {
		// Degrade to everything-unread for the session.
		m.lastSeen = time.Time{}
		return
	}
	m.lastSeen = t
}

// Identity returns the identity the watermark was loaded for.
func (m *Manager) Identity() string {
	return m.identity
}

// LastSeen returns the current in-memory watermark value.
func (m *Manager) LastSeen() time.Time {
	return m.lastSeen
}

// IsUnread reports whether the event occurred after the watermark.
func (m *Manager) IsUnread(e model.ActivityEvent) bool {
	return e.OccurredAt.After(m.lastSeen)
}

// UnreadCount counts the events in the given snapshot that are unread.
func (m *Manager) UnreadCount(events []model.ActivityEvent) int {
	count := 0
	for _, e := range events {
		if m.IsUnread(e) {
			count++
		}
	}
	return count
}

// MarkAllSeenNow advances the watermark to the current time and
// persists it. It is called when the notification panel closes and
// when the user explicitly marks everything read, never merely because
// events arrived. Persistence failures are swallowed: the in-memory
// value stays authoritative for the session.
func (m *Manager) MarkAllSeenNow(ctx context.Context) {
	now := time.Now()
	if now.Before(m.lastSeen) {
		// A skewed clock must not regress the watermark.
		return
	}
	m.lastSeen = now
	_ = m.st.SetLastSeen(ctx, m.identity, now)
}
