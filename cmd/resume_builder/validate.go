package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-builder/internal/observability"
	"github.com/jonathan/resume-builder/internal/types"
	"github.com/jonathan/resume-builder/internal/validation"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a resume document",
	Long:  "Validates a JSON or YAML resume document step by step and reports every field error. Exits non-zero when any checked step has errors.",
	RunE:  runValidate,
}

var (
	validateInput string
	validateStep  int
	validateOut   string
)

func init() {
	validateCmd.Flags().StringVarP(&validateInput, "in", "i", "", "Path to document JSON or YAML file (required)")
	validateCmd.Flags().IntVar(&validateStep, "step", 0, "Validate only this step (1-6); all steps when omitted")
	validateCmd.Flags().StringVarP(&validateOut, "out", "o", "", "Write the errors as JSON to this path instead of a report")

	if err := validateCmd.MarkFlagRequired("in"); err != nil {
		panic(fmt.Sprintf("failed to mark in flag as required: %v", err))
	}

	rootCmd.AddCommand(validateCmd)
}

// stepReport is the JSON form of one step's validation result
type stepReport struct {
	Step   types.Step               `json:"step"`
	Name   string                   `json:"name"`
	Errors validation.FieldErrorSet `json:"errors"`
	Advice validation.FieldErrorSet `json:"advice,omitempty"`
}

func runValidate(cmd *cobra.Command, _ []string) error {
	doc, err := loadDocument(validateInput)
	if err != nil {
		return err
	}

	reports, err := validateSteps(doc, validateStep)
	if err != nil {
		return err
	}

	if validateOut != "" {
		if err := writeJSON(validateOut, reports); err != nil {
			return err
		}
	} else {
		printReports(cmd.OutOrStdout(), reports)
	}

	failed := 0
	for _, r := range reports {
		if !r.Errors.Empty() {
			failed++
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d step(s) have errors", failed)
	}
	return nil
}

// validateSteps checks one step, or every step when step is 0
func validateSteps(doc types.ResumeDocument, step int) ([]stepReport, error) {
	steps := types.AllSteps()
	if step != 0 {
		s := types.Step(step)
		if !s.Valid() {
			return nil, fmt.Errorf("step must be between %d and %d, got %d", int(types.FirstStep), int(types.LastStep), step)
		}
		steps = []types.Step{s}
	}

	reports := make([]stepReport, 0, len(steps))
	for _, s := range steps {
		reports = append(reports, stepReport{
			Step:   s,
			Name:   s.String(),
			Errors: validation.Validate(doc, s),
			Advice: validation.Advise(doc, s),
		})
	}
	return reports, nil
}

func printReports(w io.Writer, reports []stepReport) {
	if w == nil {
		w = os.Stdout
	}
	p := observability.NewPrinter(w)
	for _, r := range reports {
		p.PrintErrors(fmt.Sprintf("%d. %s", int(r.Step), r.Name), r.Errors)
		if len(r.Advice) > 0 {
			p.PrintErrors(fmt.Sprintf("%d. %s suggestions", int(r.Step), r.Name), r.Advice)
		}
	}
}
