package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/taskboardhq/pulse/internal/model"
)

// MemoryStore is an in-memory Store used when the on-disk database
// cannot be opened (e.g. an unwritable data directory). Everything it
// holds is lost when the process exits, so the feature set degrades to
// "resets every session" instead of failing at startup.
type MemoryStore struct {
	mu       sync.Mutex
	settings *model.NotificationSettings
	lastSeen map[string]time.Time
	events   map[string]model.ActivityEvent
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		lastSeen: make(map[string]time.Time),
		events:   make(map[string]model.ActivityEvent),
	}
}

// Close is a no-op for the in-memory store.
func (s *MemoryStore) Close() error {
	return nil
}

// GetSettings returns the stored settings, or defaults when nothing
// has been saved this session.
func (s *MemoryStore) GetSettings(
	_ context.Context,
) (model.NotificationSettings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.settings == nil {
		return model.DefaultNotificationSettings(), nil
	}
	return *s.settings, nil
}

// SaveSettings stores the settings for the rest of the session.
func (s *MemoryStore) SaveSettings(
	_ context.Context,
	settings model.NotificationSettings,
) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.settings = &settings
	return nil
}

// GetLastSeen returns the watermark for the given identity.
func (s *MemoryStore) GetLastSeen(
	_ context.Context,
	identity string,
) (time.Time, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.lastSeen[identity], nil
}

// SetLastSeen stores the watermark for the given identity.
func (s *MemoryStore) SetLastSeen(
	_ context.Context,
	identity string,
	t time.Time,
) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.lastSeen[identity] = t
	return nil
}

// CacheEvents stores events keyed by ID.
func (s *MemoryStore) CacheEvents(
	_ context.Context,
	events []model.ActivityEvent,
) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, e := range events {
		s.events[e.ID] = e
	}
	return nil
}

// GetCachedEvents returns up to limit cached events, newest first.
func (s *MemoryStore) GetCachedEvents(
	_ context.Context,
	limit int,
) ([]model.ActivityEvent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	events := make([]model.ActivityEvent, 0, len(s.events))
	for _, e := range s.events {
		events = append(events, e)
	}
	sort.Slice(events, func(i, j int) bool {
		return events[i].OccurredAt.After(events[j].OccurredAt)
	})

	if limit > 0 && len(events) > limit {
		events = events[:limit]
	}
	return events, nil
}
