package remote

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/taskboardhq/pulse/internal/model"
)

func newTestValidator(t *testing.T) *Validator {
	t.Helper()

	v, err := NewValidator()
	if err != nil {
		t.Fatalf("NewValidator: %v", err)
	}
	return v
}

func TestFetchActivityDecodesEvents(t *testing.T) {
	var gotAuth, gotQuery string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotQuery = r.URL.RawQuery
		fmt.Fprint(w, `{"events": [
			{"id": "e1", "action": "task_created", "actor_name": "sam",
			 "subject_text": "Write launch notes",
			 "occurred_at": "2026-03-14T09:00:00Z"},
			{"id": "e2", "action": "task_completed", "actor_name": "dana",
			 "occurred_at": "2026-03-14T09:05:00Z"}
		]}`)
	}))
	defer server.Close()

	c := NewClient(server.URL, "secret", newTestValidator(t))
	events, err := c.FetchActivity(context.Background(), FetchOptions{
		Identity: "dana",
		Limit:    30,
	})
	if err != nil {
		t.Fatalf("FetchActivity: %v", err)
	}

	if gotAuth != "Bearer secret" {
		t.Fatalf("Authorization header = %q", gotAuth)
	}
	if gotQuery != "identity=dana&limit=30" {
		t.Fatalf("query = %q", gotQuery)
	}
	if len(events) != 2 {
		t.Fatalf("got %d events, want 2", len(events))
	}
	if events[0].ID != "e1" || events[0].Action != model.ActionTaskCreated {
		t.Fatalf("first event mangled: %+v", events[0])
	}
}

func TestFetchActivityDropsInvalidRecords(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// The second record is missing actor_name, the third has a
		// non-string id; only the first passes the schema.
		fmt.Fprint(w, `{"events": [
			{"id": "good", "action": "task_created", "actor_name": "sam",
			 "occurred_at": "2026-03-14T09:00:00Z"},
			{"id": "bad1", "action": "task_created",
			 "occurred_at": "2026-03-14T09:00:00Z"},
			{"id": 42, "action": "task_created", "actor_name": "sam",
			 "occurred_at": "2026-03-14T09:00:00Z"}
		]}`)
	}))
	defer server.Close()

	v := newTestValidator(t)
	c := NewClient(server.URL, "secret", v)
	events, err := c.FetchActivity(context.Background(), FetchOptions{})
	if err != nil {
		t.Fatalf("FetchActivity: %v", err)
	}

	if len(events) != 1 || events[0].ID != "good" {
		t.Fatalf("got %v, want only the valid record", events)
	}
	if v.Dropped() != 2 {
		t.Fatalf("Dropped() = %d, want 2", v.Dropped())
	}
}

func TestFetchActivityUnauthorized(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	c := NewClient(server.URL, "stale-token", newTestValidator(t))
	_, err := c.FetchActivity(context.Background(), FetchOptions{})
	if err == nil {
		t.Fatal("expected error for 401")
	}
	if !IsAuthError(err) {
		t.Fatalf("IsAuthError(%v) = false, want true", err)
	}
}

func TestFetchActivityRetriesOn429(t *testing.T) {
	attempts := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts == 1 {
			w.Header().Set("Retry-After", "0")
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		fmt.Fprint(w, `{"events": []}`)
	}))
	defer server.Close()

	c := NewClient(server.URL, "secret", newTestValidator(t))
	_, err := c.FetchActivity(context.Background(), FetchOptions{})
	if err != nil {
		t.Fatalf("FetchActivity: %v", err)
	}
	if attempts != 2 {
		t.Fatalf("server saw %d attempts, want 2", attempts)
	}
}

func TestFetchActivityServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer server.Close()

	c := NewClient(server.URL, "secret", newTestValidator(t))
	_, err := c.FetchActivity(context.Background(), FetchOptions{})
	if err == nil {
		t.Fatal("expected error for 500")
	}
	if IsAuthError(err) {
		t.Fatal("a 500 must not read as an auth failure")
	}
}

func TestTrimBaseURL(t *testing.T) {
	if got := trimBaseURL("https://board.example.com///"); got != "https://board.example.com" {
		t.Fatalf("trimBaseURL() = %q", got)
	}
	if got := trimBaseURL("https://board.example.com"); got != "https://board.example.com" {
		t.Fatalf("trimBaseURL() = %q", got)
	}
}
