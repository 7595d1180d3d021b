// Package wizard drives the step-by-step editing session. The Controller owns the
// document, gates forward navigation on validation, keeps the preview current after
// every change, and hands each committed document to the persistence manager.
package wizard

import (
	"context"
	"log/slog"
	"sync"

	"github.com/jonathan/resume-builder/internal/document"
	"github.com/jonathan/resume-builder/internal/metrics"
	"github.com/jonathan/resume-builder/internal/persistence"
	"github.com/jonathan/resume-builder/internal/rendering"
	"github.com/jonathan/resume-builder/internal/types"
	"github.com/jonathan/resume-builder/internal/validation"
)

// PreviewFunc receives each new preview with the revision it belongs to. It is called
// with the controller locked and must not call back into the controller.
type PreviewFunc func(revision uint64, tree *rendering.DisplayTree)

// Options configures a Controller
type Options struct {
	Saver     persistence.Saver
	Logger    *slog.Logger
	OnPreview PreviewFunc
}

// State is a read-only view of the session for display
type State struct {
	Step        types.Step               `json:"step"`
	StepName    string                   `json:"stepName"`
	HighestStep types.Step               `json:"highestStep"`
	Template    types.TemplateID         `json:"template"`
	Revision    uint64                   `json:"revision"`
	Errors      validation.FieldErrorSet `json:"errors"`
	Advice      validation.FieldErrorSet `json:"advice"`
}

// Controller is the editing session. All methods are safe for concurrent use and
// are applied in call order.
type Controller struct {
	saver     persistence.Saver
	logger    *slog.Logger
	onPreview PreviewFunc

	mu       sync.Mutex
	doc      types.ResumeDocument
	preview  *rendering.DisplayTree
	revision uint64
	shown    bool
}

// New creates a controller holding an empty document at step 1
func New(opts Options) *Controller {
	c := &Controller{
		saver:     opts.Saver,
		logger:    opts.Logger,
		onPreview: opts.OnPreview,
		doc:       document.New(),
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}
	c.render()
	return c
}

// Start restores the persisted document, if any. The session resumes at the stored
// step, clamped so that every step before it validates. A load failure leaves the
// empty document in place and is returned for display; editing continues.
func (c *Controller) Start(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.saver == nil {
		return nil
	}
	loaded, err := c.saver.Load(ctx)
	if err != nil {
		c.logger.Warn("could not load saved document, starting empty", slog.Any("error", err))
		return err
	}
	if loaded == nil {
		c.logger.Info("no saved document, starting empty")
		return nil
	}

	doc := resume(*loaded)
	if doc.TemplateID != loaded.TemplateID {
		c.logger.Warn("saved template is unknown, using default",
			slog.String("template", string(loaded.TemplateID)))
	}
	if doc.CurrentStep != loaded.CurrentStep {
		c.logger.Info("resume step clamped to last valid step",
			slog.Int("saved", int(loaded.CurrentStep)),
			slog.Int("resumed", int(doc.CurrentStep)))
	}

	c.doc = doc
	c.shown = false
	c.render()
	c.logger.Info("resumed saved document",
		slog.String("step", doc.CurrentStep.String()),
		slog.String("template", string(doc.TemplateID)))
	return nil
}

// resume clamps the navigation state of a loaded document
func resume(doc types.ResumeDocument) types.ResumeDocument {
	out := document.Clone(doc)
	if !out.TemplateID.Valid() {
		out.TemplateID = types.DefaultTemplate
	}

	current := clampStep(out.CurrentStep)
	highest := max(clampStep(out.HighestStep), current)
	highest = min(highest, validation.HighestReachable(out))

	out.CurrentStep = min(current, highest)
	out.HighestStep = highest
	return out
}

func clampStep(s types.Step) types.Step {
	return min(max(s, types.FirstStep), types.LastStep)
}

// Next advances one step when the current step has no errors. It returns a
// *validation.ValidationError otherwise and leaves the step unchanged. On the last
// step Next does nothing.
func (c *Controller) Next() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	step := c.doc.CurrentStep
	if err := validation.Check(c.doc, step); err != nil {
		c.shown = true
		c.logger.Debug("next blocked by validation", slog.String("step", step.String()), slog.Any("error", err))
		return err
	}
	if step >= types.LastStep {
		return nil
	}

	c.shown = false
	c.commit(document.WithStep(c.doc, step+1))
	return nil
}

// Previous moves back one step without validation. It does nothing on step 1.
func (c *Controller) Previous() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.doc.CurrentStep <= types.FirstStep {
		return
	}
	c.shown = false
	c.commit(document.WithStep(c.doc, c.doc.CurrentStep-1))
}

// GoTo jumps to any step up to the highest step reached so far
func (c *Controller) GoTo(step types.Step) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !step.Valid() || step > c.doc.HighestStep {
		return &StepError{Step: step, Highest: c.doc.HighestStep}
	}
	if step == c.doc.CurrentStep {
		return nil
	}
	c.shown = false
	c.commit(document.WithStep(c.doc, step))
	return nil
}

// Apply runs one edit. A rejected or advisory edit (duplicate skill, unknown template,
// bad field path) returns its error and leaves the document untouched. Otherwise the
// preview is re-rendered before Apply returns and a save is scheduled.
func (c *Controller) Apply(m document.Mutation) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	next, err := m.Apply(c.doc)
	if err != nil {
		c.logger.Debug("edit rejected", slog.String("edit", m.String()), slog.Any("error", err))
		return err
	}
	if document.Equal(next, c.doc) {
		return nil
	}
	c.commit(next)
	return nil
}

// Errors returns the current step's blocking errors
func (c *Controller) Errors() validation.FieldErrorSet {
	c.mu.Lock()
	defer c.mu.Unlock()
	return validation.Validate(c.doc, c.doc.CurrentStep)
}

// Shown returns the errors that should be on screen: none until the user leaves a
// field or tries to advance, then the live errors for the current step.
func (c *Controller) Shown() validation.FieldErrorSet {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.shown {
		return validation.FieldErrorSet{}
	}
	return validation.Validate(c.doc, c.doc.CurrentStep)
}

// Blur re-validates when the user leaves field and returns that field's errors
// together with any advice for it
func (c *Controller) Blur(field string) validation.FieldErrorSet {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.shown = true
	out := validation.FieldErrorSet{}
	step := c.doc.CurrentStep
	for _, set := range []validation.FieldErrorSet{validation.Validate(c.doc, step), validation.Advise(c.doc, step)} {
		for _, fe := range set {
			if fe.Field == field {
				out = append(out, fe)
			}
		}
	}
	return out
}

// Reset discards the document, returns to step 1, and deletes the saved snapshot
func (c *Controller) Reset(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.doc = document.Reset(c.doc)
	c.shown = false
	c.render()
	c.logger.Info("document reset")

	if c.saver == nil {
		return nil
	}
	return c.saver.Clear(ctx)
}

// Flush writes any pending save immediately
func (c *Controller) Flush(ctx context.Context) error {
	if c.saver == nil {
		return nil
	}
	return c.saver.Flush(ctx)
}

// Document returns a copy of the current document
func (c *Controller) Document() types.ResumeDocument {
	c.mu.Lock()
	defer c.mu.Unlock()
	return document.Clone(c.doc)
}

// Step returns the current step
func (c *Controller) Step() types.Step {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.doc.CurrentStep
}

// Preview returns the latest preview and its revision
func (c *Controller) Preview() (*rendering.DisplayTree, uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.preview, c.revision
}

// Revision increases with every committed change
func (c *Controller) Revision() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.revision
}

// State returns a snapshot of the session for display
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()

	step := c.doc.CurrentStep
	errs := validation.FieldErrorSet{}
	if c.shown {
		errs = validation.Validate(c.doc, step)
	}
	return State{
		Step:        step,
		StepName:    step.String(),
		HighestStep: c.doc.HighestStep,
		Template:    c.doc.TemplateID,
		Revision:    c.revision,
		Errors:      errs,
		Advice:      validation.Advise(c.doc, step),
	}
}

// commit replaces the document, re-renders, and schedules a save. Callers hold mu.
func (c *Controller) commit(doc types.ResumeDocument) {
	c.doc = doc
	c.render()
	if c.saver != nil {
		c.saver.Save(c.doc)
	}
}

// render refreshes the preview for the current document. Callers hold mu.
func (c *Controller) render() {
	tree, err := rendering.Render(c.doc, c.doc.TemplateID)
	if err != nil {
		// the template id is checked on every path that sets it
		c.logger.Error("preview render failed", slog.Any("error", err))
		return
	}
	c.preview = tree
	c.revision++
	metrics.PreviewRendered(string(c.doc.TemplateID))
	if c.onPreview != nil {
		c.onPreview(c.revision, tree)
	}
}
