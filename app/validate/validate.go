// Package validate collects field-scoped input errors that block a request
// before it reaches any backend.
package validate

import (
	"sort"
	"strings"
)

// Error maps a field name to a user-facing message.
type Error struct {
	Fields map[string]string
}

func New() *Error {
	return &Error{Fields: make(map[string]string)}
}

// Field builds an Error holding a single field message.
func Field(field, msg string) *Error {
	e := New()
	e.Add(field, msg)
	return e
}

// Add records msg for field. The first message recorded for a field wins.
func (e *Error) Add(field, msg string) {
	if _, ok := e.Fields[field]; ok {
		return
	}
	e.Fields[field] = msg
}

func (e *Error) Empty() bool {
	return len(e.Fields) == 0
}

// Err returns nil when no field failed, so callers can `return v.Err()`.
func (e *Error) Err() error {
	if e.Empty() {
		return nil
	}
	return e
}

func (e *Error) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}
