// Package feed maintains the canonical, deduplicated, ordered, capped
// view of activity events for one consumer surface.
package feed

import (
	"sort"

	"github.com/taskboardhq/pulse/internal/model"
)

// Store holds activity events for a single surface, ordered newest
// first and truncated to a configured cap.
//
// A Store is owned by the UI event loop: all mutation happens from
// Bubble Tea's single Update goroutine, so it is deliberately not
// safe for concurrent use.
type Store struct {
	cap     int
	events  []model.ActivityEvent
	present map[string]bool
	dropped int
}

// NewStore creates a Store retaining at most cap events. A cap of
// zero or less means unlimited retention.
func NewStore(cap int) *Store {
	return &Store{
		cap:     cap,
		present: make(map[string]bool),
	}
}

// Seed replaces the store's contents with a historical batch. Events
// failing validation are dropped and counted; duplicate IDs within the
// batch keep the first occurrence. Seeding twice with the same batch
// yields the same snapshot.
func (s *Store) Seed(events []model.ActivityEvent) {
	s.events = s.events[:0]
	s.present = make(map[string]bool, len(events))

	for _, e := range events {
		if e.Validate() != nil {
			s.dropped++
			continue
		}
		if s.present[e.ID] {
			continue
		}
		s.present[e.ID] = true
		s.events = append(s.events, e)
	}

	// Stable sort keeps the server's delivery order for equal
	// timestamps.
	sort.SliceStable(s.events, func(i, j int) bool {
		return s.events[i].OccurredAt.After(s.events[j].OccurredAt)
	})

	s.truncate()
}

// IngestLive inserts a single live-delivered event in sorted position
// and reports whether the snapshot changed. An event whose ID is
// already present is a no-op, which makes re-delivery after a
// transport reconnect harmless. On equal timestamps the live event
// sorts ahead of existing entries: live events are by definition newer
// than the last fetch window.
func (s *Store) IngestLive(e model.ActivityEvent) bool {
	if e.Validate() != nil {
		s.dropped++
		return false
	}
	if s.present[e.ID] {
		return false
	}

	idx := sort.Search(len(s.events), func(i int) bool {
		return !s.events[i].OccurredAt.After(e.OccurredAt)
	})

	s.events = append(s.events, model.ActivityEvent{})
	copy(s.events[idx+1:], s.events[idx:])
	s.events[idx] = e
	s.present[e.ID] = true

	s.truncate()

	// The event may have been evicted straight away when it is older
	// than everything in a full store.
	return s.present[e.ID]
}

// Snapshot returns a copy of the current ordered event sequence,
// newest first. Safe to call from a render path.
func (s *Store) Snapshot() []model.ActivityEvent {
	out := make([]model.ActivityEvent, len(s.events))
	copy(out, s.events)
	return out
}

// Len returns the number of retained events.
func (s *Store) Len() int {
	return len(s.events)
}

// Cap returns the configured retention cap.
func (s *Store) Cap() int {
	return s.cap
}

// Dropped returns how many malformed events have been discarded at
// ingestion since the store was created.
func (s *Store) Dropped() int {
	return s.dropped
}

// truncate evicts the oldest events beyond the cap.
func (s *Store) truncate() {
	if s.cap <= 0 || len(s.events) <= s.cap {
		return
	}
	for _, e := range s.events[s.cap:] {
		delete(s.present, e.ID)
	}
	s.events = s.events[:s.cap]
}
