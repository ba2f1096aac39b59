package apicontract

import (
	"encoding/json"
	"fmt"
	"slices"
)

// Violation is a single field level failure. Path is dotted with bracketed
// indexes (items[0].quantity); the root value has an empty path.
type Violation struct {
	Path    string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"-"`
}

func (v Violation) String() string {
	if v.Path == "" {
		return v.Message
	}
	return v.Path + ": " + v.Message
}

// Result is the outcome of [Validate]: either a normalized value or a
// non-empty ordered list of violations.
type Result struct {
	schema     string
	value      any
	violations []Violation
}

// OK reports whether the input satisfied the schema.
func (r Result) OK() bool { return len(r.violations) == 0 }

// Value returns the normalized value. It is nil when r is not OK.
func (r Result) Value() any { return r.value }

// Violations returns every failure in traversal order.
func (r Result) Violations() []Violation { return slices.Clone(r.violations) }

// Schema is the registry name of the validated node, if it had one.
func (r Result) Schema() string { return r.schema }

// Err returns a *ValidationError when r is not OK, and nil otherwise.
func (r Result) Err() error {
	if r.OK() {
		return nil
	}
	return &ValidationError{Schema: r.schema, Violations: r.Violations()}
}

// Bind converts the value of a valid result into T through its JSON form.
// Field names follow T's json tags.
func Bind[T any](r Result) (T, error) {
	var out T
	if err := r.Err(); err != nil {
		return out, err
	}
	b, err := json.Marshal(r.value)
	if err != nil {
		return out, fmt.Errorf("bind %T: %w", out, err)
	}
	if err := json.Unmarshal(b, &out); err != nil {
		return out, fmt.Errorf("bind %T: %w", out, err)
	}
	return out, nil
}
