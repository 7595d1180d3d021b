package document

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jonathan/resume-builder/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sequentialIDs(t *testing.T) {
	t.Helper()
	n := 0
	orig := NewID
	NewID = func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	}
	t.Cleanup(func() { NewID = orig })
}

func TestNew_IsEmptyAtFirstStep(t *testing.T) {
	doc := New()

	assert.Equal(t, types.TemplateModern, doc.TemplateID)
	assert.Equal(t, types.StepPersonal, doc.CurrentStep)
	assert.Equal(t, types.StepPersonal, doc.HighestStep)
	assert.Empty(t, doc.Skills)
	assert.NotNil(t, doc.Education)
}

func TestSetField_DoesNotMutateInput(t *testing.T) {
	doc := New()

	updated, err := SetField(doc, types.SectionPersonal, "fullName", "Ada Lovelace")
	require.NoError(t, err)

	assert.Equal(t, "Ada Lovelace", updated.Personal.FullName)
	assert.Empty(t, doc.Personal.FullName)
}

func TestSetField_ListSections(t *testing.T) {
	sequentialIDs(t)
	doc := New()
	doc, err := AddEntry(doc, types.SectionEducation)
	require.NoError(t, err)
	doc, err = AddEntry(doc, types.SectionExperience)
	require.NoError(t, err)

	before := doc
	doc, err = SetField(doc, types.SectionEducation, "0.degree", "BSc")
	require.NoError(t, err)
	doc, err = SetField(doc, types.SectionExperience, "0.role", "Engineer")
	require.NoError(t, err)

	assert.Equal(t, "BSc", doc.Education[0].Degree)
	assert.Equal(t, "Engineer", doc.Experience[0].Role)
	assert.Empty(t, before.Education[0].Degree, "earlier snapshot must not change")
}

func TestSetField_ExperienceCurrentClearsEndDate(t *testing.T) {
	doc, err := AddEntry(New(), types.SectionExperience)
	require.NoError(t, err)
	doc, err = SetField(doc, types.SectionExperience, "0.endDate", "2024-01")
	require.NoError(t, err)

	doc, err = SetField(doc, types.SectionExperience, "0.current", "true")
	require.NoError(t, err)

	assert.True(t, doc.Experience[0].Current)
	assert.Empty(t, doc.Experience[0].EndDate)

	_, err = SetField(doc, types.SectionExperience, "0.current", "sometimes")
	var pathErr *FieldPathError
	assert.True(t, errors.As(err, &pathErr))
}

func TestSetField_Errors(t *testing.T) {
	tests := []struct {
		name    string
		section string
		path    string
	}{
		{name: "unknown section", section: "hobbies", path: "name"},
		{name: "unknown personal field", section: types.SectionPersonal, path: "age"},
		{name: "missing index", section: types.SectionEducation, path: "degree"},
		{name: "bad index", section: types.SectionEducation, path: "x.degree"},
		{name: "unknown entry field", section: types.SectionProjects, path: "0.stars"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := New()
			got, err := SetField(doc, tt.section, tt.path, "v")
			var pathErr *FieldPathError
			require.True(t, errors.As(err, &pathErr), "got %v", err)
			assert.True(t, Equal(doc, got))
		})
	}
}

func TestSetField_OutOfRangeIndexIsNoOp(t *testing.T) {
	doc := New()
	got, err := SetField(doc, types.SectionEducation, "3.degree", "PhD")
	require.NoError(t, err)
	assert.True(t, Equal(doc, got))
}

func TestRemoveEntry(t *testing.T) {
	sequentialIDs(t)
	doc := New()
	for i := 0; i < 3; i++ {
		var err error
		doc, err = AddEntry(doc, types.SectionProjects)
		require.NoError(t, err)
		doc, err = SetField(doc, types.SectionProjects, fmt.Sprintf("%d.name", i), fmt.Sprintf("p%d", i))
		require.NoError(t, err)
	}

	t.Run("removes and compacts", func(t *testing.T) {
		got, err := RemoveEntry(doc, types.SectionProjects, 1)
		require.NoError(t, err)
		require.Len(t, got.Projects, 2)
		assert.Equal(t, "p0", got.Projects[0].Name)
		assert.Equal(t, "p2", got.Projects[1].Name)
		assert.Len(t, doc.Projects, 3)
	})

	t.Run("out of range is no-op", func(t *testing.T) {
		for _, idx := range []int{-1, 3, 100} {
			got, err := RemoveEntry(doc, types.SectionProjects, idx)
			require.NoError(t, err)
			assert.True(t, Equal(doc, got))
		}
	})

	t.Run("unknown section", func(t *testing.T) {
		_, err := RemoveEntry(doc, types.SectionSkills, 0)
		assert.Error(t, err)
	})
}

func TestReorderEntry(t *testing.T) {
	sequentialIDs(t)
	doc := New()
	for i := 0; i < 4; i++ {
		var err error
		doc, err = AddEntry(doc, types.SectionEducation)
		require.NoError(t, err)
	}

	got, err := ReorderEntry(doc, types.SectionEducation, 0, 2)
	require.NoError(t, err)

	ids := make([]string, 0, len(got.Education))
	for _, e := range got.Education {
		ids = append(ids, e.ID)
	}
	assert.Equal(t, []string{"id-2", "id-3", "id-1", "id-4"}, ids)

	same, err := ReorderEntry(doc, types.SectionEducation, 1, 9)
	require.NoError(t, err)
	assert.True(t, Equal(doc, same))
}

func TestAddSkill_CaseInsensitiveDuplicate(t *testing.T) {
	doc, err := AddSkill(New(), "JavaScript")
	require.NoError(t, err)

	doc, err = AddSkill(doc, "javascript")
	assert.True(t, IsDuplicateSkill(err))
	assert.Equal(t, []string{"JavaScript"}, doc.Skills)
}

func TestAddSkill_NormalizesWhitespace(t *testing.T) {
	doc, err := AddSkill(New(), "  Machine   Learning ")
	require.NoError(t, err)
	assert.Equal(t, []string{"Machine Learning"}, doc.Skills)

	doc, err = AddSkill(doc, "machine learning")
	assert.True(t, IsDuplicateSkill(err))
	assert.Len(t, doc.Skills, 1)

	doc, err = AddSkill(doc, "   ")
	assert.NoError(t, err)
	assert.Len(t, doc.Skills, 1)
}

func TestAddSkill_PreservesInsertionOrder(t *testing.T) {
	doc := New()
	for _, s := range []string{"Go", "Rust", "SQL"} {
		var err error
		doc, err = AddSkill(doc, s)
		require.NoError(t, err)
	}
	assert.Equal(t, []string{"Go", "Rust", "SQL"}, doc.Skills)
}

func TestRemoveSkill(t *testing.T) {
	doc, err := AddSkill(New(), "React")
	require.NoError(t, err)
	doc, err = AddSkill(doc, "Go")
	require.NoError(t, err)

	got := RemoveSkill(doc, "react")
	assert.Equal(t, []string{"Go"}, got.Skills)

	unchanged := RemoveSkill(got, "Elm")
	assert.True(t, Equal(got, unchanged))
}

func TestDedupeSkills(t *testing.T) {
	got := DedupeSkills([]string{"Go", " go ", "", "Kubernetes", "KUBERNETES", "Node.js"})
	assert.Equal(t, []string{"Go", "Kubernetes", "Node.js"}, got)
}

func TestSelectTemplate(t *testing.T) {
	doc, err := SelectTemplate(New(), types.TemplateElegant)
	require.NoError(t, err)
	assert.Equal(t, types.TemplateElegant, doc.TemplateID)

	got, err := SelectTemplate(doc, "brutalist")
	assert.True(t, IsInvalidTemplate(err))
	assert.Equal(t, types.TemplateElegant, got.TemplateID)
}

func TestMutationOps(t *testing.T) {
	sequentialIDs(t)
	ops := []Mutation{
		SetFieldOp(types.SectionPersonal, "fullName", "Grace Hopper"),
		AddEntryOp(types.SectionExperience),
		SetFieldOp(types.SectionExperience, "0.organization", "US Navy"),
		AddSkillOp("COBOL"),
		AddSkillOp("cobol"),
		SelectTemplateOp(types.TemplateClassic),
		RemoveSkillOp("Fortran"),
	}

	doc := New()
	for _, op := range ops {
		next, err := op.Apply(doc)
		if err != nil {
			require.True(t, IsDuplicateSkill(err), "unexpected error from %s: %v", op, err)
		}
		doc = next
	}

	assert.Equal(t, "Grace Hopper", doc.Personal.FullName)
	assert.Equal(t, "US Navy", doc.Experience[0].Organization)
	assert.Equal(t, []string{"COBOL"}, doc.Skills)
	assert.Equal(t, types.TemplateClassic, doc.TemplateID)
}

func TestWithStep_RaisesHighest(t *testing.T) {
	doc := WithStep(New(), types.StepSkills)
	assert.Equal(t, types.StepSkills, doc.HighestStep)

	doc = WithStep(doc, types.StepEducation)
	assert.Equal(t, types.StepEducation, doc.CurrentStep)
	assert.Equal(t, types.StepSkills, doc.HighestStep)
}

func TestReset(t *testing.T) {
	doc, err := SetField(New(), types.SectionPersonal, "email", "a@b.co")
	require.NoError(t, err)
	assert.True(t, Equal(New(), Reset(doc)))
}
