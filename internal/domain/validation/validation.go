package validation

import "fmt"

// Error is returned by the pre-save checks when a single field is unusable.
// Value keeps the offending input so the message can name it.
type Error struct {
	Field  string `json:"field"`
	Value  string `json:"value,omitempty"`
	Reason string `json:"reason"`
}

func (e Error) Error() string {
	if e.Value != "" {
		return fmt.Sprintf("%s: %s (got %q)", e.Field, e.Reason, e.Value)
	}

	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// ReferenceError is returned when a document points at another document that
// does not exist at save time.
type ReferenceError struct {
	Collection string `json:"collection"`
	ID         string `json:"id"`
}

func (e ReferenceError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Collection, e.ID)
}
