package store

import (
	"context"
	"time"

	"github.com/taskboardhq/pulse/internal/model"
)

// Store defines the local persistence interface for notification
// settings, per-identity watermarks, and the activity event cache.
//
// All writes are best effort from the caller's perspective: the UI
// keeps its own in-memory copy of every value it persists, so a
// failing write degrades to "resets next session" rather than an
// error surfaced to the user.
type Store interface {
	// === Notification settings ===

	// GetSettings returns the persisted notification settings, or the
	// documented defaults when nothing has been stored or the stored
	// value is unparseable.
	GetSettings(ctx context.Context) (model.NotificationSettings, error)
	SaveSettings(ctx context.Context, s model.NotificationSettings) error

	// === Watermarks ===

	// GetLastSeen returns the last-seen timestamp for the given
	// identity. A zero time means the identity has seen nothing yet.
	GetLastSeen(ctx context.Context, identity string) (time.Time, error)
	SetLastSeen(ctx context.Context, identity string, t time.Time) error

	// === Activity cache ===

	// CacheEvents stores a batch of events locally so the feed can
	// render immediately on the next launch. Replaces by event ID.
	CacheEvents(ctx context.Context, events []model.ActivityEvent) error

	// GetCachedEvents returns up to limit cached events, newest first.
	GetCachedEvents(ctx context.Context, limit int) ([]model.ActivityEvent, error)

	Close() error
}
