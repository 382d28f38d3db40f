package store_test

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/taskboardhq/pulse/internal/model"
	"github.com/taskboardhq/pulse/tests/testutil"
)

func TestGetSettingsDefaultsWhenAbsent(t *testing.T) {
	s := testutil.NewTestStore(t)

	settings, err := s.GetSettings(context.Background())
	if err != nil {
		t.Fatalf("GetSettings: %v", err)
	}
	if settings != model.DefaultNotificationSettings() {
		t.Fatalf("GetSettings() = %+v, want defaults", settings)
	}
}

func TestSaveAndGetSettings(t *testing.T) {
	ctx := context.Background()
	s := testutil.NewTestStore(t)

	want := model.NotificationSettings{
		Enabled:        true,
		SoundEnabled:   false,
		DesktopEnabled: true,
	}
	if err := s.SaveSettings(ctx, want); err != nil {
		t.Fatalf("SaveSettings: %v", err)
	}

	got, err := s.GetSettings(ctx)
	if err != nil {
		t.Fatalf("GetSettings: %v", err)
	}
	if got != want {
		t.Fatalf("GetSettings() = %+v, want %+v", got, want)
	}
}

func TestGetLastSeenZeroForUnknownIdentity(t *testing.T) {
	s := testutil.NewTestStore(t)

	seen, err := s.GetLastSeen(context.Background(), "nobody")
	if err != nil {
		t.Fatalf("GetLastSeen: %v", err)
	}
	if !seen.IsZero() {
		t.Fatalf("GetLastSeen() = %v, want zero time", seen)
	}
}

func TestSetAndGetLastSeenRoundTrips(t *testing.T) {
	ctx := context.Background()
	s := testutil.NewTestStore(t)

	want := time.Date(2026, 3, 14, 9, 26, 53, 589793000, time.UTC)
	if err := s.SetLastSeen(ctx, "dana", want); err != nil {
		t.Fatalf("SetLastSeen: %v", err)
	}

	got, err := s.GetLastSeen(ctx, "dana")
	if err != nil {
		t.Fatalf("GetLastSeen: %v", err)
	}
	if !got.Equal(want) {
		t.Fatalf("GetLastSeen() = %v, want %v", got, want)
	}
}

func TestLastSeenIsScopedToIdentity(t *testing.T) {
	ctx := context.Background()
	s := testutil.NewTestStore(t)

	if err := s.SetLastSeen(ctx, "dana", time.Now()); err != nil {
		t.Fatalf("SetLastSeen: %v", err)
	}

	seen, err := s.GetLastSeen(ctx, "sam")
	if err != nil {
		t.Fatalf("GetLastSeen: %v", err)
	}
	if !seen.IsZero() {
		t.Fatalf("sam sees dana's watermark: %v", seen)
	}
}

func cacheEvent(id string, at time.Time) model.ActivityEvent {
	return model.ActivityEvent{
		ID:            id,
		Action:        model.ActionStatusChanged,
		ActorName:     "sam",
		SubjectTaskID: "task-42",
		SubjectText:   "Ship the Q3 report",
		OccurredAt:    at,
		Details:       json.RawMessage(`{"from":"todo","to":"doing"}`),
	}
}

func TestCacheEventsRoundTrips(t *testing.T) {
	ctx := context.Background()
	s := testutil.NewTestStore(t)

	at := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
	if err := s.CacheEvents(ctx, []model.ActivityEvent{cacheEvent("e1", at)}); err != nil {
		t.Fatalf("CacheEvents: %v", err)
	}

	events, err := s.GetCachedEvents(ctx, 10)
	if err != nil {
		t.Fatalf("GetCachedEvents: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("got %d cached events, want 1", len(events))
	}

	e := events[0]
	if e.ID != "e1" || e.Action != model.ActionStatusChanged || e.ActorName != "sam" {
		t.Fatalf("cached event mangled: %+v", e)
	}
	if !e.OccurredAt.Equal(at) {
		t.Fatalf("OccurredAt = %v, want %v", e.OccurredAt, at)
	}

	var details model.ChangeDetails
	if err := e.DecodeDetails(&details); err != nil {
		t.Fatalf("DecodeDetails: %v", err)
	}
	if details.From != "todo" || details.To != "doing" {
		t.Fatalf("details = %+v", details)
	}
}

func TestCacheEventsReplacesDuplicateIDs(t *testing.T) {
	ctx := context.Background()
	s := testutil.NewTestStore(t)

	at := time.Now().UTC()
	e := cacheEvent("e1", at)
	if err := s.CacheEvents(ctx, []model.ActivityEvent{e}); err != nil {
		t.Fatalf("CacheEvents: %v", err)
	}
	if err := s.CacheEvents(ctx, []model.ActivityEvent{e}); err != nil {
		t.Fatalf("CacheEvents again: %v", err)
	}

	events, err := s.GetCachedEvents(ctx, 10)
	if err != nil {
		t.Fatalf("GetCachedEvents: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("got %d cached events after re-cache, want 1", len(events))
	}
}

func TestGetCachedEventsNewestFirst(t *testing.T) {
	ctx := context.Background()
	s := testutil.NewTestStore(t)

	base := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
	batch := []model.ActivityEvent{
		cacheEvent("old", base),
		cacheEvent("new", base.Add(time.Hour)),
		cacheEvent("mid", base.Add(time.Minute)),
	}
	if err := s.CacheEvents(ctx, batch); err != nil {
		t.Fatalf("CacheEvents: %v", err)
	}

	events, err := s.GetCachedEvents(ctx, 2)
	if err != nil {
		t.Fatalf("GetCachedEvents: %v", err)
	}
	if len(events) != 2 || events[0].ID != "new" || events[1].ID != "mid" {
		t.Fatalf("unexpected cache order/limit: %+v", events)
	}
}

func TestCacheTrimsToRetentionLimit(t *testing.T) {
	ctx := context.Background()
	s := testutil.NewTestStore(t)

	base := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
	var batch []model.ActivityEvent
	for i := 0; i < 250; i++ {
		batch = append(batch, cacheEvent(
			fmt.Sprintf("e%03d", i), base.Add(time.Duration(i)*time.Second),
		))
	}
	if err := s.CacheEvents(ctx, batch); err != nil {
		t.Fatalf("CacheEvents: %v", err)
	}

	events, err := s.GetCachedEvents(ctx, 0)
	if err != nil {
		t.Fatalf("GetCachedEvents: %v", err)
	}
	if len(events) != 200 {
		t.Fatalf("cache retained %d events, want 200", len(events))
	}
	// The newest entries survive the trim.
	if events[0].ID != "e249" {
		t.Fatalf("newest cached event = %s, want e249", events[0].ID)
	}
}
