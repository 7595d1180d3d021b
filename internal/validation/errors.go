// Package validation provides per-step validation of the resume document.
package validation

import (
	"fmt"
	"strings"

	"github.com/jonathan/resume-builder/internal/types"
)

// FieldError represents a single validation failure at a specific field path
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// FieldErrorSet is an ordered collection of field errors, in document order
type FieldErrorSet []FieldError

// Empty reports whether the set holds no errors
func (s FieldErrorSet) Empty() bool {
	return len(s) == 0
}

// Fields returns the failing field paths in order
func (s FieldErrorSet) Fields() []string {
	fields := make([]string, 0, len(s))
	for _, fe := range s {
		fields = append(fields, fe.Field)
	}
	return fields
}

// Get returns the first error recorded for field
func (s FieldErrorSet) Get(field string) (FieldError, bool) {
	for _, fe := range s {
		if fe.Field == field {
			return fe, true
		}
	}
	return FieldError{}, false
}

// Has reports whether field has an error
func (s FieldErrorSet) Has(field string) bool {
	_, ok := s.Get(field)
	return ok
}

// ValidationError blocks an operation because a step has field errors
type ValidationError struct {
	Step   types.Step
	Errors FieldErrorSet
}

func (e *ValidationError) Error() string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("validation failed for step %s:\n", e.Step))
	for i, fe := range e.Errors {
		sb.WriteString(fmt.Sprintf("  %d. %s: %s\n", i+1, fe.Field, fe.Message))
	}
	return sb.String()
}
