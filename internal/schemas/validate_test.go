package schemas

import (
	"testing"

	rootschemas "github.com/jonathan/resume-builder/schemas"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate_Snapshot(t *testing.T) {
	tests := []struct {
		name      string
		json      string
		wantError bool
	}{
		{
			name: "valid envelope",
			json: `{"version": 2, "savedAt": "2026-01-02T03:04:05Z", "document": {"personal": {}}}`,
		},
		{
			name:      "missing version",
			json:      `{"document": {}}`,
			wantError: true,
		},
		{
			name:      "version wrong type",
			json:      `{"version": "two", "document": {}}`,
			wantError: true,
		},
		{
			name:      "document not an object",
			json:      `{"version": 1, "document": []}`,
			wantError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(rootschemas.Snapshot, []byte(tt.json))
			if !tt.wantError {
				assert.NoError(t, err)
				return
			}
			validationErr, ok := err.(*ValidationError)
			require.True(t, ok, "error should be ValidationError type, got %T: %v", err, err)
			assert.Greater(t, len(validationErr.Errors), 0)
		})
	}
}

func TestValidate_MalformedJSON(t *testing.T) {
	err := Validate(rootschemas.Snapshot, []byte("{ invalid json }"))
	require.Error(t, err)

	_, ok := err.(*SchemaLoadError)
	assert.True(t, ok, "malformed content should surface as a load error, got %T", err)
}

func TestValidate_UnknownSchema(t *testing.T) {
	err := Validate("nope.schema.json", []byte(`{}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "schema not found")
}

func TestValidate_ResumeDocumentStepBounds(t *testing.T) {
	err := Validate(rootschemas.ResumeDocument, []byte(`{"personal": {}, "templateId": "modern", "currentStep": 9}`))

	validationErr, ok := err.(*ValidationError)
	require.True(t, ok)
	assert.Equal(t, "currentStep", validationErr.Errors[0].Field)
}

func TestValidationError_Error(t *testing.T) {
	err := &ValidationError{
		Errors: []FieldError{
			{Field: "name", Message: "is required"},
			{Field: "age", Message: "must be a number"},
		},
	}

	errorMsg := err.Error()
	assert.Contains(t, errorMsg, "validation failed")
	assert.Contains(t, errorMsg, "name")
	assert.Contains(t, errorMsg, "age")
}
