package feed

import (
	"fmt"
	"testing"
	"time"

	"github.com/taskboardhq/pulse/internal/model"
)

var base = time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)

func event(id string, offset time.Duration) model.ActivityEvent {
	return model.ActivityEvent{
		ID:         id,
		Action:     model.ActionTaskCreated,
		ActorName:  "dana",
		OccurredAt: base.Add(offset),
	}
}

func ids(events []model.ActivityEvent) []string {
	out := make([]string, len(events))
	for i, e := range events {
		out[i] = e.ID
	}
	return out
}

func assertOrder(t *testing.T, s *Store, want ...string) {
	t.Helper()

	got := ids(s.Snapshot())
	if len(got) != len(want) {
		t.Fatalf("snapshot has %d events %v, want %d %v", len(got), got, len(want), want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("snapshot order %v, want %v", got, want)
		}
	}
}

func TestSeedOrdersNewestFirst(t *testing.T) {
	s := NewStore(10)
	s.Seed([]model.ActivityEvent{
		event("a", 1*time.Minute),
		event("b", 3*time.Minute),
		event("c", 2*time.Minute),
	})

	assertOrder(t, s, "b", "c", "a")
}

func TestSeedDeduplicatesWithinBatch(t *testing.T) {
	s := NewStore(10)
	s.Seed([]model.ActivityEvent{
		event("a", time.Minute),
		event("a", 2*time.Minute),
		event("b", 3*time.Minute),
	})

	if s.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", s.Len())
	}
}

func TestSeedIsIdempotent(t *testing.T) {
	batch := []model.ActivityEvent{
		event("a", time.Minute),
		event("b", 2*time.Minute),
	}

	s := NewStore(10)
	s.Seed(batch)
	s.Seed(batch)

	assertOrder(t, s, "b", "a")
}

func TestSeedDropsMalformedAndCounts(t *testing.T) {
	s := NewStore(10)
	s.Seed([]model.ActivityEvent{
		event("a", time.Minute),
		{ID: "", Action: model.ActionTaskCreated, ActorName: "dana", OccurredAt: base},
		{ID: "x", Action: "made_up_action", ActorName: "dana", OccurredAt: base},
	})

	if s.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", s.Len())
	}
	if s.Dropped() != 2 {
		t.Fatalf("Dropped() = %d, want 2", s.Dropped())
	}
}

func TestSeedTruncatesToCap(t *testing.T) {
	s := NewStore(3)
	var batch []model.ActivityEvent
	for i := 0; i < 5; i++ {
		batch = append(batch, event(fmt.Sprintf("e%d", i), time.Duration(i)*time.Minute))
	}
	s.Seed(batch)

	// Only the three newest survive.
	assertOrder(t, s, "e4", "e3", "e2")
}

func TestIngestLiveInsertsInOrder(t *testing.T) {
	s := NewStore(10)
	s.Seed([]model.ActivityEvent{
		event("old", 1*time.Minute),
		event("new", 3*time.Minute),
	})

	if !s.IngestLive(event("mid", 2*time.Minute)) {
		t.Fatal("IngestLive returned false for a fresh event")
	}

	assertOrder(t, s, "new", "mid", "old")
}

func TestIngestLiveDuplicateIsNoOp(t *testing.T) {
	s := NewStore(10)
	s.Seed([]model.ActivityEvent{event("a", time.Minute)})

	if s.IngestLive(event("a", time.Minute)) {
		t.Fatal("IngestLive returned true for a duplicate ID")
	}
	if s.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", s.Len())
	}
}

func TestIngestLiveWinsTimestampTie(t *testing.T) {
	s := NewStore(10)
	s.Seed([]model.ActivityEvent{event("hist", time.Minute)})
	s.IngestLive(event("live", time.Minute))

	// Equal timestamps: the live arrival sorts ahead.
	assertOrder(t, s, "live", "hist")
}

func TestIngestLiveEvictsOldestWhenFull(t *testing.T) {
	s := NewStore(2)
	s.Seed([]model.ActivityEvent{
		event("a", 1*time.Minute),
		event("b", 2*time.Minute),
	})

	if !s.IngestLive(event("c", 3*time.Minute)) {
		t.Fatal("IngestLive returned false for a retained event")
	}

	assertOrder(t, s, "c", "b")

	// The evicted ID must be re-ingestable, not ghost-blocked by the
	// dedupe index.
	if !s.IngestLive(event("a", 4*time.Minute)) {
		t.Fatal("evicted ID still blocked after truncation")
	}
}

func TestIngestLiveOlderThanFullStoreIsDiscarded(t *testing.T) {
	s := NewStore(2)
	s.Seed([]model.ActivityEvent{
		event("a", 2*time.Minute),
		event("b", 3*time.Minute),
	})

	if s.IngestLive(event("stale", 1*time.Minute)) {
		t.Fatal("IngestLive reported a change for an immediately evicted event")
	}
	assertOrder(t, s, "b", "a")
}

func TestIngestLiveMalformedDropped(t *testing.T) {
	s := NewStore(10)
	if s.IngestLive(model.ActivityEvent{ID: "x"}) {
		t.Fatal("IngestLive accepted a malformed event")
	}
	if s.Dropped() != 1 {
		t.Fatalf("Dropped() = %d, want 1", s.Dropped())
	}
}

func TestSnapshotIsACopy(t *testing.T) {
	s := NewStore(10)
	s.Seed([]model.ActivityEvent{event("a", time.Minute)})

	snap := s.Snapshot()
	snap[0].ID = "mutated"

	if s.Snapshot()[0].ID != "a" {
		t.Fatal("mutating a snapshot leaked into the store")
	}
}

func TestZeroCapMeansUnlimited(t *testing.T) {
	s := NewStore(0)
	for i := 0; i < 500; i++ {
		s.IngestLive(event(fmt.Sprintf("e%d", i), time.Duration(i)*time.Second))
	}
	if s.Len() != 500 {
		t.Fatalf("Len() = %d, want 500", s.Len())
	}
}
