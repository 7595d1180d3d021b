package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/resume-builder/internal/document"
	"github.com/jonathan/resume-builder/internal/types"
)

func TestValidateSteps(t *testing.T) {
	doc := document.New()
	doc.Personal.FullName = "Ada Lovelace"

	t.Run("all steps", func(t *testing.T) {
		reports, err := validateSteps(doc, 0)
		require.NoError(t, err)
		require.Len(t, reports, len(types.AllSteps()))

		assert.True(t, reports[0].Errors.Has("personal.email"))
		assert.False(t, reports[0].Errors.Has("personal.fullName"))
		assert.True(t, reports[3].Errors.Has(types.SectionSkills))
		assert.True(t, reports[5].Errors.Empty())
	})

	t.Run("single step", func(t *testing.T) {
		reports, err := validateSteps(doc, int(types.StepEducation))
		require.NoError(t, err)
		require.Len(t, reports, 1)
		assert.Equal(t, types.StepEducation, reports[0].Step)
		assert.Equal(t, "Education", reports[0].Name)
	})

	t.Run("invalid step", func(t *testing.T) {
		_, err := validateSteps(doc, 7)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "between 1 and 6")
	})
}

func TestPrintReports(t *testing.T) {
	reports, err := validateSteps(document.New(), int(types.StepTemplate))
	require.NoError(t, err)

	var buf bytes.Buffer
	printReports(&buf, reports)

	assert.Contains(t, buf.String(), "6. Template: no errors")
}
