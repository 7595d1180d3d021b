package document

import (
	"strconv"
	"strings"

	"github.com/jonathan/resume-builder/internal/types"
)

type fieldMap[T any] map[string]func(*T) *string

var personalFields = fieldMap[types.Personal]{
	"fullName": func(p *types.Personal) *string { return &p.FullName },
	"title":    func(p *types.Personal) *string { return &p.Title },
	"email":    func(p *types.Personal) *string { return &p.Email },
	"phone":    func(p *types.Personal) *string { return &p.Phone },
	"location": func(p *types.Personal) *string { return &p.Location },
	"linkedin": func(p *types.Personal) *string { return &p.LinkedIn },
	"website":  func(p *types.Personal) *string { return &p.Website },
}

var additionalFields = fieldMap[types.Additional]{
	"summary": func(a *types.Additional) *string { return &a.Summary },
}

var educationFields = fieldMap[types.Education]{
	"institution":  func(e *types.Education) *string { return &e.Institution },
	"degree":       func(e *types.Education) *string { return &e.Degree },
	"fieldOfStudy": func(e *types.Education) *string { return &e.FieldOfStudy },
	"startDate":    func(e *types.Education) *string { return &e.StartDate },
	"endDate":      func(e *types.Education) *string { return &e.EndDate },
	"description":  func(e *types.Education) *string { return &e.Description },
}

var experienceFields = fieldMap[types.Experience]{
	"organization": func(e *types.Experience) *string { return &e.Organization },
	"role":         func(e *types.Experience) *string { return &e.Role },
	"location":     func(e *types.Experience) *string { return &e.Location },
	"startDate":    func(e *types.Experience) *string { return &e.StartDate },
	"endDate":      func(e *types.Experience) *string { return &e.EndDate },
	"description":  func(e *types.Experience) *string { return &e.Description },
}

var certificationFields = fieldMap[types.Certification]{
	"name":         func(c *types.Certification) *string { return &c.Name },
	"issuer":       func(c *types.Certification) *string { return &c.Issuer },
	"date":         func(c *types.Certification) *string { return &c.Date },
	"credentialId": func(c *types.Certification) *string { return &c.CredentialID },
}

var projectFields = fieldMap[types.Project]{
	"name":         func(p *types.Project) *string { return &p.Name },
	"description":  func(p *types.Project) *string { return &p.Description },
	"technologies": func(p *types.Project) *string { return &p.Technologies },
	"link":         func(p *types.Project) *string { return &p.Link },
}

var referenceFields = fieldMap[types.Reference]{
	"name":    func(r *types.Reference) *string { return &r.Name },
	"title":   func(r *types.Reference) *string { return &r.Title },
	"company": func(r *types.Reference) *string { return &r.Company },
	"email":   func(r *types.Reference) *string { return &r.Email },
	"phone":   func(r *types.Reference) *string { return &r.Phone },
}

var customSectionFields = fieldMap[types.CustomSection]{
	"heading": func(c *types.CustomSection) *string { return &c.Heading },
	"body":    func(c *types.CustomSection) *string { return &c.Body },
}

// SetField updates one scalar field and returns the new document.
// Single-record sections (personal, additional) take a bare field name as path;
// list sections take "index.field". An out-of-range index leaves the document unchanged.
func SetField(doc types.ResumeDocument, section, path, value string) (types.ResumeDocument, error) {
	out := Clone(doc)
	var err error

	switch section {
	case types.SectionPersonal:
		err = setScalar(&out.Personal, section, path, value, personalFields)
	case types.SectionAdditional:
		err = setScalar(&out.Additional, section, path, value, additionalFields)
	case types.SectionEducation:
		out.Education, err = setEntryField(out.Education, section, path, value, educationFields)
	case types.SectionExperience:
		out.Experience, err = setExperienceField(out.Experience, path, value)
	case types.SectionCertifications:
		out.Certifications, err = setEntryField(out.Certifications, section, path, value, certificationFields)
	case types.SectionProjects:
		out.Projects, err = setEntryField(out.Projects, section, path, value, projectFields)
	case types.SectionReferences:
		out.References, err = setEntryField(out.References, section, path, value, referenceFields)
	case types.SectionCustom:
		out.Additional.CustomSections, err = setEntryField(out.Additional.CustomSections, section, path, value, customSectionFields)
	default:
		return doc, &FieldPathError{Section: section, Path: path, Message: "unknown section"}
	}

	if err != nil {
		return doc, err
	}
	return out, nil
}

func setScalar[T any](target *T, section, field, value string, fields fieldMap[T]) error {
	get, ok := fields[field]
	if !ok {
		return &FieldPathError{Section: section, Path: field, Message: "unknown field"}
	}
	*get(target) = value
	return nil
}

// setExperienceField handles the boolean "current" field before falling back to string fields
func setExperienceField(list []types.Experience, path, value string) ([]types.Experience, error) {
	index, field, err := parseEntryPath(types.SectionExperience, path)
	if err != nil {
		return list, err
	}
	if field != "current" {
		return setEntryField(list, types.SectionExperience, path, value, experienceFields)
	}

	current := false
	if v := strings.TrimSpace(value); v != "" {
		current, err = strconv.ParseBool(v)
		if err != nil {
			return list, &FieldPathError{Section: types.SectionExperience, Path: path, Message: "invalid boolean", Cause: err}
		}
	}
	if index < 0 || index >= len(list) {
		return list, nil
	}
	list[index].Current = current
	if current {
		list[index].EndDate = ""
	}
	return list, nil
}

func setEntryField[T any](list []T, section, path, value string, fields fieldMap[T]) ([]T, error) {
	index, field, err := parseEntryPath(section, path)
	if err != nil {
		return list, err
	}
	get, ok := fields[field]
	if !ok {
		return list, &FieldPathError{Section: section, Path: path, Message: "unknown field"}
	}
	if index < 0 || index >= len(list) {
		return list, nil
	}
	*get(&list[index]) = value
	return list, nil
}

func parseEntryPath(section, path string) (int, string, error) {
	idx, field, ok := strings.Cut(path, ".")
	if !ok || field == "" {
		return 0, "", &FieldPathError{Section: section, Path: path, Message: "expected index.field"}
	}
	index, err := strconv.Atoi(idx)
	if err != nil {
		return 0, "", &FieldPathError{Section: section, Path: path, Message: "invalid index", Cause: err}
	}
	return index, field, nil
}
