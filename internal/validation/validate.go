package validation

import (
	"fmt"
	"strings"

	"github.com/jonathan/resume-builder/internal/types"
)

// Validate returns the blocking field errors for one wizard step. It never mutates doc.
func Validate(doc types.ResumeDocument, step types.Step) FieldErrorSet {
	errs := FieldErrorSet{}

	switch step {
	case types.StepPersonal:
		errs = validatePersonal(doc.Personal, errs)
	case types.StepEducation:
		errs = validateEducation(doc.Education, errs)
	case types.StepExperience:
		errs = validateExperience(doc.Experience, errs)
	case types.StepSkills:
		if len(doc.Skills) == 0 {
			errs = append(errs, FieldError{Field: types.SectionSkills, Message: "Add at least one skill"})
		}
	case types.StepAdditional, types.StepTemplate:
		// optional content only
	}

	return errs
}

// ValidateAll runs every step in order and concatenates the results
func ValidateAll(doc types.ResumeDocument) FieldErrorSet {
	errs := FieldErrorSet{}
	for _, step := range types.AllSteps() {
		errs = append(errs, Validate(doc, step)...)
	}
	return errs
}

// HighestReachable returns the furthest step a user could reach by pressing Next from
// the first step, given the document as it stands.
func HighestReachable(doc types.ResumeDocument) types.Step {
	for _, step := range types.AllSteps() {
		if !Validate(doc, step).Empty() {
			return step
		}
	}
	return types.LastStep
}

// Check returns a *ValidationError when step has errors
func Check(doc types.ResumeDocument, step types.Step) error {
	if errs := Validate(doc, step); !errs.Empty() {
		return &ValidationError{Step: step, Errors: errs}
	}
	return nil
}

func validatePersonal(p types.Personal, errs FieldErrorSet) FieldErrorSet {
	required := []struct {
		field string
		value string
		label string
	}{
		{"fullName", p.FullName, "Full name"},
		{"title", p.Title, "Professional title"},
		{"email", p.Email, "Email"},
		{"phone", p.Phone, "Phone"},
	}

	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			errs = append(errs, FieldError{Field: personalField(r.field), Message: r.label + " is required"})
			continue
		}
		if r.field == "email" {
			if msg := checkEmail(r.value); msg != "" {
				errs = append(errs, FieldError{Field: personalField(r.field), Message: msg})
			}
		}
	}
	return errs
}

func validateEducation(entries []types.Education, errs FieldErrorSet) FieldErrorSet {
	for i, e := range entries {
		if e.IsEmpty() {
			continue
		}
		if strings.TrimSpace(e.Institution) == "" {
			errs = append(errs, FieldError{Field: entryField(types.SectionEducation, i, "institution"), Message: "Institution is required"})
		}
		if strings.TrimSpace(e.Degree) == "" {
			errs = append(errs, FieldError{Field: entryField(types.SectionEducation, i, "degree"), Message: "Degree is required"})
		}
		errs = checkDateRange(errs, types.SectionEducation, i, e.StartDate, e.EndDate, false)
	}
	return errs
}

func validateExperience(entries []types.Experience, errs FieldErrorSet) FieldErrorSet {
	for i, e := range entries {
		if e.IsEmpty() {
			continue
		}
		if strings.TrimSpace(e.Organization) == "" {
			errs = append(errs, FieldError{Field: entryField(types.SectionExperience, i, "organization"), Message: "Organization is required"})
		}
		if strings.TrimSpace(e.Role) == "" {
			errs = append(errs, FieldError{Field: entryField(types.SectionExperience, i, "role"), Message: "Role is required"})
		}
		errs = checkDateRange(errs, types.SectionExperience, i, e.StartDate, e.EndDate, e.Current)
	}
	return errs
}

func checkDateRange(errs FieldErrorSet, section string, index int, start, end string, current bool) FieldErrorSet {
	startDate, startOK, startErr := types.ParseMonthDate(start, false)
	if startErr != nil {
		errs = append(errs, FieldError{Field: entryField(section, index, "startDate"), Message: startErr.Error()})
	}
	if current {
		return errs
	}
	endDate, endOK, endErr := types.ParseMonthDate(end, true)
	if endErr != nil {
		errs = append(errs, FieldError{Field: entryField(section, index, "endDate"), Message: endErr.Error()})
	}
	if startOK && endOK && startDate.After(endDate) {
		errs = append(errs, FieldError{Field: entryField(section, index, "endDate"), Message: "End date must not be before start date"})
	}
	return errs
}

func personalField(name string) string {
	return types.SectionPersonal + "." + name
}

func entryField(section string, index int, name string) string {
	return fmt.Sprintf("%s.%d.%s", section, index, name)
}
