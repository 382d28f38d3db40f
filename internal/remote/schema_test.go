package remote

import "testing"

func TestValidatorAcceptsWellFormedRecord(t *testing.T) {
	v := newTestValidator(t)

	raw := []byte(`{
		"id": "e1",
		"action": "status_changed",
		"actor_name": "sam",
		"subject_task_id": "task-42",
		"subject_text": "Ship the Q3 report",
		"occurred_at": "2026-03-14T09:00:00Z",
		"details": {"from": "todo", "to": "doing"}
	}`)

	if !v.Check(raw) {
		t.Fatal("well-formed record rejected")
	}
	if v.Dropped() != 0 {
		t.Fatalf("Dropped() = %d, want 0", v.Dropped())
	}
}

func TestValidatorRejects(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"not json", `{"id": `},
		{"not an object", `["e1"]`},
		{"missing id", `{"action": "task_created", "actor_name": "sam", "occurred_at": "2026-03-14T09:00:00Z"}`},
		{"empty id", `{"id": "", "action": "task_created", "actor_name": "sam", "occurred_at": "2026-03-14T09:00:00Z"}`},
		{"missing actor", `{"id": "e1", "action": "task_created", "occurred_at": "2026-03-14T09:00:00Z"}`},
		{"numeric id", `{"id": 42, "action": "task_created", "actor_name": "sam", "occurred_at": "2026-03-14T09:00:00Z"}`},
		{"details not object", `{"id": "e1", "action": "task_created", "actor_name": "sam", "occurred_at": "2026-03-14T09:00:00Z", "details": "oops"}`},
	}

	v := newTestValidator(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if v.Check([]byte(tt.raw)) {
				t.Fatalf("record accepted: %s", tt.raw)
			}
		})
	}

	if v.Dropped() != int64(len(tests)) {
		t.Fatalf("Dropped() = %d, want %d", v.Dropped(), len(tests))
	}
}

func TestValidatorPassesUnknownActionsThrough(t *testing.T) {
	// The schema checks structure only; the closed action set is
	// enforced at model validation so new server-side actions degrade
	// gracefully instead of breaking the wire contract.
	v := newTestValidator(t)

	raw := []byte(`{
		"id": "e1",
		"action": "task_teleported",
		"actor_name": "sam",
		"occurred_at": "2026-03-14T09:00:00Z"
	}`)

	if !v.Check(raw) {
		t.Fatal("structurally valid record with unknown action rejected at the wire")
	}
}
