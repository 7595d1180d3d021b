// Package server provides the HTTP preview server for the resume wizard.
package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/jonathan/resume-builder/internal/document"
	"github.com/jonathan/resume-builder/internal/export"
	"github.com/jonathan/resume-builder/internal/persistence"
	"github.com/jonathan/resume-builder/internal/summarize"
	"github.com/jonathan/resume-builder/internal/validation"
	"github.com/jonathan/resume-builder/internal/wizard"
)

// ErrBadRequest indicates a malformed request body or query
type ErrBadRequest struct {
	Message string
}

func (e *ErrBadRequest) Error() string {
	return fmt.Sprintf("bad request: %s", e.Message)
}

// ErrorResponse is the JSON body of every failed API call
type ErrorResponse struct {
	Error  string                   `json:"error"`
	Code   string                   `json:"code"`
	Fields validation.FieldErrorSet `json:"fields,omitempty"`
}

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	var (
		badRequest  *ErrBadRequest
		invalid     *validation.ValidationError
		duplicate   *document.DuplicateSkillError
		template    *document.InvalidTemplateError
		fieldPath   *document.FieldPathError
		step        *wizard.StepError
		failed      *persistence.PersistenceFailedError
		exportErr   *export.ExportFailedError
		unavailable *summarize.UnavailableError
		fieldErrs   validator.ValidationErrors
	)

	switch {
	case errors.As(err, &badRequest), errors.As(err, &fieldErrs):
		return http.StatusBadRequest
	case errors.As(err, &invalid):
		return http.StatusUnprocessableEntity
	case errors.As(err, &exportErr):
		return http.StatusInternalServerError
	case errors.As(err, &duplicate), errors.As(err, &step):
		return http.StatusConflict
	case errors.As(err, &template), errors.As(err, &fieldPath):
		return http.StatusBadRequest
	case errors.As(err, &failed), errors.As(err, &unavailable):
		return http.StatusServiceUnavailable
	case errors.Is(err, summarize.ErrEmptyInput):
		return http.StatusBadRequest
	case errors.Is(err, summarize.ErrTimeout):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

// errorCode is the stable machine-readable name of an error's kind
func errorCode(err error) string {
	var (
		invalid   *validation.ValidationError
		duplicate *document.DuplicateSkillError
		template  *document.InvalidTemplateError
		step      *wizard.StepError
		failed    *persistence.PersistenceFailedError
		exportErr *export.ExportFailedError
	)
	switch {
	case errors.As(err, &exportErr):
		return "export_failed"
	case errors.As(err, &invalid):
		return "validation_error"
	case errors.As(err, &duplicate):
		return "duplicate_skill"
	case errors.As(err, &template):
		return "invalid_template"
	case errors.As(err, &step):
		return "step_unavailable"
	case errors.As(err, &failed):
		return "persistence_failed"
	case HTTPStatus(err) == http.StatusBadRequest:
		return "bad_request"
	case HTTPStatus(err) == http.StatusServiceUnavailable, HTTPStatus(err) == http.StatusGatewayTimeout:
		return "summarizer_unavailable"
	default:
		return "internal_error"
	}
}

// errorBody builds the response for err. Validation failures carry their field errors.
func errorBody(err error) ErrorResponse {
	body := ErrorResponse{Error: err.Error(), Code: errorCode(err)}

	var invalid *validation.ValidationError
	if errors.As(err, &invalid) {
		body.Error = fmt.Sprintf("step %s has %d invalid field(s)", invalid.Step, len(invalid.Errors))
		body.Fields = invalid.Errors
	}
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		fe := fieldErrs[0]
		body.Error = fmt.Sprintf("validation error: %s - %s", fe.Field(), fe.Tag())
	}
	return body
}
