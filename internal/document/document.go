package document

import (
	"reflect"

	"github.com/google/uuid"
	"github.com/jonathan/resume-builder/internal/types"
)

// NewID returns a fresh entry identifier
var NewID = uuid.NewString

// New returns the initial empty document
func New() types.ResumeDocument {
	return types.ResumeDocument{
		Education:      []types.Education{},
		Experience:     []types.Experience{},
		Skills:         []string{},
		Certifications: []types.Certification{},
		Projects:       []types.Project{},
		References:     []types.Reference{},
		TemplateID:     types.DefaultTemplate,
		CurrentStep:    types.FirstStep,
		HighestStep:    types.FirstStep,
	}
}

// Reset discards all content and returns the initial empty document
func Reset(types.ResumeDocument) types.ResumeDocument {
	return New()
}

// Clone returns a deep copy of doc so callers can mutate it freely
func Clone(doc types.ResumeDocument) types.ResumeDocument {
	out := doc
	out.Education = cloneSlice(doc.Education)
	out.Experience = cloneSlice(doc.Experience)
	out.Skills = cloneSlice(doc.Skills)
	out.Certifications = cloneSlice(doc.Certifications)
	out.Projects = cloneSlice(doc.Projects)
	out.References = cloneSlice(doc.References)
	out.Additional.CustomSections = cloneSlice(doc.Additional.CustomSections)
	return out
}

// Equal reports whether two documents hold the same content.
// Nil and empty lists compare equal.
func Equal(a, b types.ResumeDocument) bool {
	return reflect.DeepEqual(normalizeLists(a), normalizeLists(b))
}

// WithStep returns doc positioned at current, raising HighestStep if needed
func WithStep(doc types.ResumeDocument, current types.Step) types.ResumeDocument {
	out := Clone(doc)
	out.CurrentStep = current
	if current > out.HighestStep {
		out.HighestStep = current
	}
	return out
}

func normalizeLists(doc types.ResumeDocument) types.ResumeDocument {
	out := Clone(doc)
	if out.Education == nil {
		out.Education = []types.Education{}
	}
	if out.Experience == nil {
		out.Experience = []types.Experience{}
	}
	if out.Skills == nil {
		out.Skills = []string{}
	}
	if out.Certifications == nil {
		out.Certifications = []types.Certification{}
	}
	if out.Projects == nil {
		out.Projects = []types.Project{}
	}
	if out.References == nil {
		out.References = []types.Reference{}
	}
	if out.Additional.CustomSections == nil {
		out.Additional.CustomSections = []types.CustomSection{}
	}
	return out
}

func cloneSlice[T any](s []T) []T {
	if s == nil {
		return nil
	}
	out := make([]T, len(s))
	copy(out, s)
	return out
}
