// Package rendering projects a resume document into a template-specific display tree
// and encodes trees or pages as text, HTML, and LaTeX.
package rendering

import "fmt"

// TemplateError represents an error parsing or executing an output template
type TemplateError struct {
	Message string
	Cause   error
}

func (e *TemplateError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("template error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("template error: %s", e.Message)
}

func (e *TemplateError) Unwrap() error {
	return e.Cause
}
