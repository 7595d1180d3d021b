// Package document provides pure mutation operations over the resume document.
package document

import (
	"errors"
	"fmt"

	"github.com/jonathan/resume-builder/internal/types"
)

// InvalidTemplateError is returned when a mutation names an unknown template
type InvalidTemplateError struct {
	TemplateID types.TemplateID
}

func (e *InvalidTemplateError) Error() string {
	return fmt.Sprintf("invalid template: %q is not one of %v", e.TemplateID, types.TemplateIDs())
}

// DuplicateSkillError signals that a skill was already present. The document is left unchanged.
type DuplicateSkillError struct {
	Skill    string
	Existing string
}

func (e *DuplicateSkillError) Error() string {
	return fmt.Sprintf("duplicate skill: %q already present as %q", e.Skill, e.Existing)
}

// FieldPathError represents an unknown section, field path, or unparsable value
type FieldPathError struct {
	Section string
	Path    string
	Message string
	Cause   error
}

func (e *FieldPathError) Error() string {
	where := e.Section
	if e.Path != "" {
		where = e.Section + "." + e.Path
	}
	if e.Cause != nil {
		return fmt.Sprintf("field path error: %s: %s: %v", where, e.Message, e.Cause)
	}
	return fmt.Sprintf("field path error: %s: %s", where, e.Message)
}

func (e *FieldPathError) Unwrap() error {
	return e.Cause
}

// IsDuplicateSkill reports whether err is an advisory duplicate-skill signal
func IsDuplicateSkill(err error) bool {
	var dup *DuplicateSkillError
	return errors.As(err, &dup)
}

// IsInvalidTemplate reports whether err rejected a template selection
func IsInvalidTemplate(err error) bool {
	var inv *InvalidTemplateError
	return errors.As(err, &inv)
}
