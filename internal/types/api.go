package types

import (
	"github.com/go-playground/validator/v10"
)

// GoToRequest asks the preview server to jump to a step
type GoToRequest struct {
	Step int `json:"step" validate:"required,min=1,max=6"`
}

// SummarizeRequest carries text (plain or HTML) to condense into a summary
type SummarizeRequest struct {
	Text string `json:"text" validate:"required,max=20000"`
}

// SummarizeResponse is the suggested summary
type SummarizeResponse struct {
	Summary string `json:"summary"`
}

// ExportRequest selects the output of an export. Template defaults to the
// document's selection.
type ExportRequest struct {
	Format   string `json:"format" validate:"required,alphanum,max=16"`
	Template string `json:"template,omitempty" validate:"omitempty,oneof=modern classic minimal elegant creative"`
}

// SessionResponse describes the session a token was issued for
type SessionResponse struct {
	SessionID string `json:"session_id"`
	Token     string `json:"token,omitempty"`
}

var validate = validator.New()

// Validate validates the GoToRequest using the validator.
func (r *GoToRequest) Validate() error {
	return validate.Struct(r)
}

// Validate validates the SummarizeRequest using the validator.
func (r *SummarizeRequest) Validate() error {
	return validate.Struct(r)
}

// Validate validates the ExportRequest using the validator.
func (r *ExportRequest) Validate() error {
	return validate.Struct(r)
}
