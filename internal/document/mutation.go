package document

import (
	"fmt"

	"github.com/jonathan/resume-builder/internal/types"
)

// Mutation is one discrete user edit. It returns the new document and, for rejected or
// advisory outcomes, an error alongside the (possibly unchanged) document.
type Mutation struct {
	Name  string
	apply func(types.ResumeDocument) (types.ResumeDocument, error)
}

// Apply runs the mutation against doc
func (m Mutation) Apply(doc types.ResumeDocument) (types.ResumeDocument, error) {
	if m.apply == nil {
		return doc, nil
	}
	return m.apply(doc)
}

func (m Mutation) String() string {
	return m.Name
}

// SetFieldOp builds a SetField mutation
func SetFieldOp(section, path, value string) Mutation {
	return Mutation{
		Name: fmt.Sprintf("set %s.%s", section, path),
		apply: func(doc types.ResumeDocument) (types.ResumeDocument, error) {
			return SetField(doc, section, path, value)
		},
	}
}

// AddEntryOp builds an AddEntry mutation
func AddEntryOp(section string) Mutation {
	return Mutation{
		Name: "add " + section,
		apply: func(doc types.ResumeDocument) (types.ResumeDocument, error) {
			return AddEntry(doc, section)
		},
	}
}

// RemoveEntryOp builds a RemoveEntry mutation
func RemoveEntryOp(section string, index int) Mutation {
	return Mutation{
		Name: fmt.Sprintf("remove %s[%d]", section, index),
		apply: func(doc types.ResumeDocument) (types.ResumeDocument, error) {
			return RemoveEntry(doc, section, index)
		},
	}
}

// ReorderEntryOp builds a ReorderEntry mutation
func ReorderEntryOp(section string, from, to int) Mutation {
	return Mutation{
		Name: fmt.Sprintf("move %s[%d] to %d", section, from, to),
		apply: func(doc types.ResumeDocument) (types.ResumeDocument, error) {
			return ReorderEntry(doc, section, from, to)
		},
	}
}

// AddSkillOp builds an AddSkill mutation
func AddSkillOp(token string) Mutation {
	return Mutation{
		Name: fmt.Sprintf("add skill %q", token),
		apply: func(doc types.ResumeDocument) (types.ResumeDocument, error) {
			return AddSkill(doc, token)
		},
	}
}

// RemoveSkillOp builds a RemoveSkill mutation
func RemoveSkillOp(token string) Mutation {
	return Mutation{
		Name: fmt.Sprintf("remove skill %q", token),
		apply: func(doc types.ResumeDocument) (types.ResumeDocument, error) {
			return RemoveSkill(doc, token), nil
		},
	}
}

// SelectTemplateOp builds a SelectTemplate mutation
func SelectTemplateOp(id types.TemplateID) Mutation {
	return Mutation{
		Name: fmt.Sprintf("template %s", id),
		apply: func(doc types.ResumeDocument) (types.ResumeDocument, error) {
			return SelectTemplate(doc, id)
		},
	}
}
