package remote

import (
	"bytes"
	"fmt"
	"strings"
	"sync/atomic"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// activitySchema is the wire contract for one activity record. Records
// from either delivery path that fail it are dropped before decoding,
// so a misbehaving backend can never push a half-formed event into the
// feed.
const activitySchema = `{
	"$schema": "https://json-schema.org/draft/2020-12/schema",
	"type": "object",
	"required": ["id", "action", "actor_name", "occurred_at"],
	"properties": {
		"id": {"type": "string", "minLength": 1},
		"action": {"type": "string", "minLength": 1},
		"actor_name": {"type": "string", "minLength": 1},
		"subject_task_id": {"type": "string"},
		"subject_text": {"type": "string"},
		"occurred_at": {"type": "string", "format": "date-time"},
		"details": {"type": "object"}
	}
}`

// Validator checks raw activity records against the wire schema and
// counts rejects for operators.
type Validator struct {
	schema  *jsonschema.Schema
	dropped atomic.Int64
}

// NewValidator compiles the embedded activity record schema.
func NewValidator() (*Validator, error) {
	doc, err := jsonschema.UnmarshalJSON(strings.NewReader(activitySchema))
	if err != nil {
		return nil, fmt.Errorf("parsing activity schema: %w", err)
	}

	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("activity_event.json", doc); err != nil {
		return nil, fmt.Errorf("adding activity schema resource: %w", err)
	}

	schema, err := compiler.Compile("activity_event.json")
	if err != nil {
		return nil, fmt.Errorf("compiling activity schema: %w", err)
	}

	return &Validator{schema: schema}, nil
}

// Check reports whether raw is a structurally valid activity record.
// Invalid records are counted, not surfaced.
func (v *Validator) Check(raw []byte) bool {
	inst, err := jsonschema.UnmarshalJSON(bytes.NewReader(raw))
	if err != nil {
		v.dropped.Add(1)
		return false
	}
	if err := v.schema.Validate(inst); err != nil {
		v.dropped.Add(1)
		return false
	}
	return true
}

// Dropped returns how many records have been rejected so far.
func (v *Validator) Dropped() int64 {
	return v.dropped.Load()
}
