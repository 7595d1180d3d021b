package validation

import (
	"testing"

	"github.com/jonathan/resume-builder/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func completePersonal() types.Personal {
	return types.Personal{
		FullName: "Ada Lovelace",
		Title:    "Analyst",
		Email:    "ada@example.com",
		Phone:    "+44 20 7946 0000",
	}
}

func TestValidate_EmptyPersonalStep(t *testing.T) {
	errs := Validate(types.ResumeDocument{}, types.StepPersonal)

	assert.Equal(t, []string{
		"personal.fullName",
		"personal.title",
		"personal.email",
		"personal.phone",
	}, errs.Fields())
}

func TestValidate_WhitespaceIsEmpty(t *testing.T) {
	doc := types.ResumeDocument{Personal: completePersonal()}
	doc.Personal.Title = "   "

	errs := Validate(doc, types.StepPersonal)
	assert.Equal(t, []string{"personal.title"}, errs.Fields())
}

func TestValidate_Email(t *testing.T) {
	tests := []struct {
		name  string
		email string
		valid bool
	}{
		{name: "plain", email: "ada@example.com", valid: true},
		{name: "subdomain", email: "ada.l@mail.example.org", valid: true},
		{name: "no at", email: "not-an-email", valid: false},
		{name: "no domain", email: "ada@", valid: false},
		{name: "short tld", email: "ada@example.c", valid: false},
		{name: "spaces", email: "ada @example.com", valid: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := types.ResumeDocument{Personal: completePersonal()}
			doc.Personal.Email = tt.email
			errs := Validate(doc, types.StepPersonal)
			assert.Equal(t, !tt.valid, errs.Has("personal.email"), "errors: %v", errs)
		})
	}
}

func TestValidate_IgnoresEmptyEntries(t *testing.T) {
	doc := types.ResumeDocument{
		Education:  []types.Education{{ID: "e1"}},
		Experience: []types.Experience{{ID: "x1"}},
	}

	assert.True(t, Validate(doc, types.StepEducation).Empty())
	assert.True(t, Validate(doc, types.StepExperience).Empty())
}

func TestValidate_PartiallyFilledEntriesRequireKeyFields(t *testing.T) {
	doc := types.ResumeDocument{
		Education:  []types.Education{{ID: "e1"}, {ID: "e2", FieldOfStudy: "Mathematics"}},
		Experience: []types.Experience{{ID: "x1", Location: "London"}},
	}

	edu := Validate(doc, types.StepEducation)
	assert.Equal(t, []string{"education.1.institution", "education.1.degree"}, edu.Fields())

	exp := Validate(doc, types.StepExperience)
	assert.Equal(t, []string{"experience.0.organization", "experience.0.role"}, exp.Fields())
}

func TestValidate_DateRange(t *testing.T) {
	doc := types.ResumeDocument{
		Education: []types.Education{{
			ID: "e1", Institution: "UCL", Degree: "BSc", StartDate: "2025-12", EndDate: "2024-01",
		}},
		Experience: []types.Experience{{
			ID: "x1", Organization: "Acme", Role: "Engineer", StartDate: "2025-12", EndDate: "2024-01",
		}},
	}

	edu := Validate(doc, types.StepEducation)
	fe, ok := edu.Get("education.0.endDate")
	require.True(t, ok)
	assert.Contains(t, fe.Message, "before start date")

	exp := Validate(doc, types.StepExperience)
	assert.True(t, exp.Has("experience.0.endDate"))
}

func TestValidate_OpenEndedRangeIsValid(t *testing.T) {
	doc := types.ResumeDocument{
		Experience: []types.Experience{
			{ID: "x1", Organization: "Acme", Role: "Engineer", StartDate: "2023-04"},
			{ID: "x2", Organization: "Beta", Role: "Lead", StartDate: "2025-01", EndDate: "2020-01", Current: true},
			{ID: "x3", Organization: "Gamma", Role: "Intern", StartDate: "2019", EndDate: "2019-06"},
		},
	}

	assert.True(t, Validate(doc, types.StepExperience).Empty())
}

func TestValidate_MalformedDates(t *testing.T) {
	doc := types.ResumeDocument{
		Education: []types.Education{{ID: "e1", Institution: "UCL", Degree: "BSc", StartDate: "Sept 2020", EndDate: "2021-13"}},
	}

	errs := Validate(doc, types.StepEducation)
	assert.Equal(t, []string{"education.0.startDate", "education.0.endDate"}, errs.Fields())
}

func TestValidate_Skills(t *testing.T) {
	assert.True(t, Validate(types.ResumeDocument{}, types.StepSkills).Has("skills"))
	assert.True(t, Validate(types.ResumeDocument{Skills: []string{"Go"}}, types.StepSkills).Empty())
}

func TestValidate_OptionalSteps(t *testing.T) {
	assert.True(t, Validate(types.ResumeDocument{}, types.StepAdditional).Empty())
	assert.True(t, Validate(types.ResumeDocument{}, types.StepTemplate).Empty())
}

func TestValidate_IsPure(t *testing.T) {
	doc := types.ResumeDocument{
		Personal:  types.Personal{FullName: "  ", Email: "bad"},
		Education: []types.Education{{ID: "e1", StartDate: "2025-12", EndDate: "2024-01"}},
	}
	before := doc.Personal

	for _, step := range types.AllSteps() {
		first := Validate(doc, step)
		second := Validate(doc, step)
		assert.Equal(t, first, second, "step %s", step)
	}
	assert.Equal(t, before, doc.Personal)
}

func TestHighestReachable(t *testing.T) {
	doc := types.ResumeDocument{}
	assert.Equal(t, types.StepPersonal, HighestReachable(doc))

	doc.Personal = completePersonal()
	assert.Equal(t, types.StepSkills, HighestReachable(doc))

	doc.Skills = []string{"Go"}
	assert.Equal(t, types.StepTemplate, HighestReachable(doc))
}

func TestCheck(t *testing.T) {
	err := Check(types.ResumeDocument{}, types.StepPersonal)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, types.StepPersonal, verr.Step)
	assert.Len(t, verr.Errors, 4)
	assert.Contains(t, err.Error(), "personal.email")

	assert.NoError(t, Check(types.ResumeDocument{}, types.StepAdditional))
}

func TestAdvise(t *testing.T) {
	doc := types.ResumeDocument{Personal: completePersonal()}
	doc.Personal.Email = "ada@gmail.om"
	doc.Personal.Phone = "12"

	hints := Advise(doc, types.StepPersonal)
	fe, ok := hints.Get("personal.email")
	require.True(t, ok)
	assert.Equal(t, "Did you mean ada@gmail.com?", fe.Message)
	assert.True(t, hints.Has("personal.phone"))

	assert.Empty(t, Advise(doc, types.StepSkills))
	assert.False(t, Validate(doc, types.StepPersonal).Has("personal.phone"), "advice must not block")
}
