package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/jonathan/resume-builder/internal/document"
	"github.com/jonathan/resume-builder/internal/export"
	"github.com/jonathan/resume-builder/internal/persistence"
	"github.com/jonathan/resume-builder/internal/rendering"
	"github.com/jonathan/resume-builder/internal/server/middleware"
	"github.com/jonathan/resume-builder/internal/types"
	"github.com/jonathan/resume-builder/internal/validation"
	"github.com/jonathan/resume-builder/internal/wizard"
)

const maxBodyBytes = 1 << 20

// StateResponse is the session state with the durability of the last save
type StateResponse struct {
	wizard.State
	Persistence string `json:"persistence"`
}

// DocumentResponse is the full document with the session state
type DocumentResponse struct {
	Document types.ResumeDocument `json:"document"`
	State    StateResponse        `json:"state"`
}

// ErrorsResponse lists the current step's errors
type ErrorsResponse struct {
	Step   types.Step               `json:"step"`
	Errors validation.FieldErrorSet `json:"errors"`
	Advice validation.FieldErrorSet `json:"advice,omitempty"`
}

// PreviewResponse is one rendered preview
type PreviewResponse struct {
	Revision uint64                 `json:"revision"`
	Template types.TemplateID       `json:"template"`
	HTML     string                 `json:"html"`
	Tree     *rendering.DisplayTree `json:"tree,omitempty"`
}

// BlurRequest names the field the user just left
type BlurRequest struct {
	Field string `json:"field"`
}

// handleHealth returns server health status
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]any{
		"status":      "ok",
		"persistence": s.persistenceStatus(),
		"subscribers": s.hub.Subscribers(),
	})
}

func (s *Server) handleSession(w http.ResponseWriter, r *http.Request) {
	id, err := middleware.GetSessionID(r)
	if err != nil {
		s.errorResponse(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, types.SessionResponse{SessionID: id.String()})
}

func (s *Server) handleGetDocument(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, DocumentResponse{
		Document: s.controller.Document(),
		State:    s.state(),
	})
}

func (s *Server) handleGetState(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, s.state())
}

// handleMutation applies one edit. Rejected and advisory edits leave the document
// unchanged and come back as errors.
func (s *Server) handleMutation(w http.ResponseWriter, r *http.Request) {
	var edit wizard.Edit
	if err := decodeJSON(r, &edit); err != nil {
		s.errorResponse(w, err)
		return
	}
	m, err := edit.Mutation()
	if err != nil {
		s.errorResponse(w, &ErrBadRequest{Message: err.Error()})
		return
	}
	if err := s.controller.Apply(m); err != nil {
		if document.IsDuplicateSkill(err) {
			s.logger.Debug("duplicate skill ignored", slog.String("skill", edit.Token))
		}
		s.errorResponse(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, s.state())
}

func (s *Server) handleNext(w http.ResponseWriter, _ *http.Request) {
	if err := s.controller.Next(); err != nil {
		s.errorResponse(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, s.state())
}

func (s *Server) handlePrevious(w http.ResponseWriter, _ *http.Request) {
	s.controller.Previous()
	s.jsonResponse(w, http.StatusOK, s.state())
}

func (s *Server) handleGoTo(w http.ResponseWriter, r *http.Request) {
	var req types.GoToRequest
	if err := decodeJSON(r, &req); err != nil {
		s.errorResponse(w, err)
		return
	}
	if err := req.Validate(); err != nil {
		s.errorResponse(w, err)
		return
	}
	if err := s.controller.GoTo(types.Step(req.Step)); err != nil {
		s.errorResponse(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, s.state())
}

// handleErrors returns the errors on screen, or every current error with ?all=true
func (s *Server) handleErrors(w http.ResponseWriter, r *http.Request) {
	state := s.controller.State()
	errs := s.controller.Shown()
	if all, _ := strconv.ParseBool(r.URL.Query().Get("all")); all {
		errs = s.controller.Errors()
	}
	s.jsonResponse(w, http.StatusOK, ErrorsResponse{Step: state.Step, Errors: errs, Advice: state.Advice})
}

func (s *Server) handleBlur(w http.ResponseWriter, r *http.Request) {
	var req BlurRequest
	if err := decodeJSON(r, &req); err != nil {
		s.errorResponse(w, err)
		return
	}
	if req.Field == "" {
		s.errorResponse(w, &ErrBadRequest{Message: "field is required"})
		return
	}
	s.jsonResponse(w, http.StatusOK, ErrorsResponse{
		Step:   s.controller.Step(),
		Errors: s.controller.Blur(req.Field),
	})
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	if err := s.controller.Reset(r.Context()); err != nil {
		// the in-memory reset has happened; only the stored copy survived
		s.logger.Warn("saved document not cleared", slog.Any("error", err))
		s.errorResponse(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, s.state())
}

// handlePreview renders the document. ?template= previews another template without
// selecting it; ?format=html returns the page itself instead of JSON.
func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	tree, revision := s.controller.Preview()
	if id := types.TemplateID(r.URL.Query().Get("template")); id != "" && id != tree.Template {
		if !id.Valid() {
			s.errorResponse(w, &document.InvalidTemplateError{TemplateID: id})
			return
		}
		other, err := rendering.Render(s.controller.Document(), id)
		if err != nil {
			s.errorResponse(w, err)
			return
		}
		tree = other
	}

	html, err := rendering.HTML(tree)
	if err != nil {
		s.errorResponse(w, err)
		return
	}
	if r.URL.Query().Get("format") == "html" {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Header().Set("X-Preview-Revision", strconv.FormatUint(revision, 10))
		_, _ = io.WriteString(w, html)
		return
	}
	s.jsonResponse(w, http.StatusOK, PreviewResponse{Revision: revision, Template: tree.Template, HTML: html, Tree: tree})
}

// handlePreviewStream pushes the rendered preview after every change. A client that
// falls behind skips straight to the newest revision.
func (s *Server) handlePreviewStream(w http.ResponseWriter, r *http.Request) {
	sse, err := NewSSEWriter(w)
	if err != nil {
		s.errorResponse(w, err)
		return
	}

	id, events := s.hub.Subscribe()
	defer s.hub.Unsubscribe(id)

	if tree, revision := s.controller.Preview(); tree != nil {
		s.hub.Publish(revision, tree)
	}

	for {
		select {
		case <-r.Context().Done():
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			html, err := rendering.HTML(ev.Tree)
			if err != nil {
				sse.WriteError(err.Error())
				continue
			}
			if err := sse.WriteEvent("preview", PreviewResponse{
				Revision: ev.Revision,
				Template: ev.Tree.Template,
				HTML:     html,
			}); err != nil {
				s.logger.Debug("preview stream closed", slog.Any("error", err))
				return
			}
		}
	}
}

func (s *Server) handleExportFormats(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string][]string{"formats": s.exporter.Formats()})
}

// handleExport exports the current document. Format and template come from the
// query string or a JSON body.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	req := types.ExportRequest{
		Format:   r.URL.Query().Get("format"),
		Template: r.URL.Query().Get("template"),
	}
	if req.Format == "" && r.ContentLength != 0 {
		if err := decodeJSON(r, &req); err != nil {
			s.errorResponse(w, err)
			return
		}
	}
	if err := req.Validate(); err != nil {
		s.errorResponse(w, err)
		return
	}

	artifact, err := s.exporter.Export(r.Context(), export.Request{
		Key:      s.sessionID.String(),
		Document: s.controller.Document(),
		Template: types.TemplateID(req.Template),
		Format:   req.Format,
	})
	if err != nil {
		s.errorResponse(w, err)
		return
	}

	w.Header().Set("Content-Type", artifact.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", artifact.Filename))
	w.Header().Set("Content-Length", strconv.Itoa(len(artifact.Data)))
	w.Header().Set("X-Export-Pages", strconv.Itoa(artifact.Pages))
	if artifact.Location != "" {
		w.Header().Set("X-Export-Location", artifact.Location)
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(artifact.Data)
}

func (s *Server) handleSummarize(w http.ResponseWriter, r *http.Request) {
	var req types.SummarizeRequest
	if err := decodeJSON(r, &req); err != nil {
		s.errorResponse(w, err)
		return
	}
	if err := req.Validate(); err != nil {
		s.errorResponse(w, err)
		return
	}
	summary, err := s.summarizer.Summarize(r.Context(), req.Text)
	if err != nil {
		s.errorResponse(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, types.SummarizeResponse{Summary: summary})
}

func (s *Server) state() StateResponse {
	return StateResponse{State: s.controller.State(), Persistence: s.persistenceStatus()}
}

func (s *Server) persistenceStatus() string {
	if s.persistence == nil {
		return "disabled"
	}
	status, _ := s.persistence.Status()
	return status.String()
}

// decodeJSON reads a bounded JSON body, rejecting unknown fields
func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(nil, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			return &ErrBadRequest{Message: "request body too large"}
		}
		return &ErrBadRequest{Message: "invalid request body: " + err.Error()}
	}
	return nil
}

var _ StatusReporter = (*persistence.Manager)(nil)
