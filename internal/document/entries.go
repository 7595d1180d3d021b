package document

import (
	"github.com/jonathan/resume-builder/internal/types"
)

// AddEntry appends an empty entry with a fresh ID to a list section
func AddEntry(doc types.ResumeDocument, section string) (types.ResumeDocument, error) {
	out := Clone(doc)
	id := NewID()

	switch section {
	case types.SectionEducation:
		out.Education = append(out.Education, types.Education{ID: id})
	case types.SectionExperience:
		out.Experience = append(out.Experience, types.Experience{ID: id})
	case types.SectionCertifications:
		out.Certifications = append(out.Certifications, types.Certification{ID: id})
	case types.SectionProjects:
		out.Projects = append(out.Projects, types.Project{ID: id})
	case types.SectionReferences:
		out.References = append(out.References, types.Reference{ID: id})
	case types.SectionCustom:
		out.Additional.CustomSections = append(out.Additional.CustomSections, types.CustomSection{ID: id})
	default:
		return doc, &FieldPathError{Section: section, Message: "not a list section"}
	}
	return out, nil
}

// RemoveEntry deletes the entry at index. An out-of-range index returns the document unchanged.
func RemoveEntry(doc types.ResumeDocument, section string, index int) (types.ResumeDocument, error) {
	out := Clone(doc)
	var changed bool

	switch section {
	case types.SectionEducation:
		out.Education, changed = removeAt(out.Education, index)
	case types.SectionExperience:
		out.Experience, changed = removeAt(out.Experience, index)
	case types.SectionCertifications:
		out.Certifications, changed = removeAt(out.Certifications, index)
	case types.SectionProjects:
		out.Projects, changed = removeAt(out.Projects, index)
	case types.SectionReferences:
		out.References, changed = removeAt(out.References, index)
	case types.SectionCustom:
		out.Additional.CustomSections, changed = removeAt(out.Additional.CustomSections, index)
	default:
		return doc, &FieldPathError{Section: section, Message: "not a list section"}
	}

	if !changed {
		return doc, nil
	}
	return out, nil
}

// ReorderEntry moves the entry at from to position to, shifting the entries in between.
// Out-of-range positions return the document unchanged.
func ReorderEntry(doc types.ResumeDocument, section string, from, to int) (types.ResumeDocument, error) {
	out := Clone(doc)
	var changed bool

	switch section {
	case types.SectionEducation:
		out.Education, changed = move(out.Education, from, to)
	case types.SectionExperience:
		out.Experience, changed = move(out.Experience, from, to)
	case types.SectionCertifications:
		out.Certifications, changed = move(out.Certifications, from, to)
	case types.SectionProjects:
		out.Projects, changed = move(out.Projects, from, to)
	case types.SectionReferences:
		out.References, changed = move(out.References, from, to)
	case types.SectionCustom:
		out.Additional.CustomSections, changed = move(out.Additional.CustomSections, from, to)
	default:
		return doc, &FieldPathError{Section: section, Message: "not a list section"}
	}

	if !changed {
		return doc, nil
	}
	return out, nil
}

func removeAt[T any](list []T, index int) ([]T, bool) {
	if index < 0 || index >= len(list) {
		return list, false
	}
	out := make([]T, 0, len(list)-1)
	out = append(out, list[:index]...)
	out = append(out, list[index+1:]...)
	return out, true
}

func move[T any](list []T, from, to int) ([]T, bool) {
	if from < 0 || from >= len(list) || to < 0 || to >= len(list) || from == to {
		return list, false
	}
	item := list[from]
	rest, _ := removeAt(list, from)
	out := make([]T, 0, len(list))
	out = append(out, rest[:to]...)
	out = append(out, item)
	out = append(out, rest[to:]...)
	return out, true
}
