// Package observability provides formatted output utilities for the interactive CLI.
package observability

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/jonathan/resume-builder/internal/export"
	"github.com/jonathan/resume-builder/internal/types"
	"github.com/jonathan/resume-builder/internal/validation"
	"github.com/jonathan/resume-builder/internal/wizard"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for the wizard shell
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %s │\n", pad(title))
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(strings.TrimRight(content, "\n"), "\n") {
		fmt.Fprintf(p.out, "│ %s │\n", pad(line))
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// pad truncates or right-pads line to the inner box width, counting runes
func pad(line string) string {
	width := boxWidth - 4
	if utf8.RuneCountInString(line) > width {
		runes := []rune(line)
		return string(runes[:width-3]) + "..."
	}
	return line + strings.Repeat(" ", width-utf8.RuneCountInString(line))
}

// PrintState shows where the session is and what blocks the next step
func (p *Printer) PrintState(state wizard.State) {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Step:      %d of %d  %s\n", int(state.Step), int(types.LastStep), state.StepName))
	sb.WriteString(fmt.Sprintf("Furthest:  %s\n", state.HighestStep))
	sb.WriteString(fmt.Sprintf("Template:  %s\n", state.Template))
	sb.WriteString(fmt.Sprintf("Revision:  %d\n", state.Revision))
	if len(state.Errors) > 0 {
		sb.WriteString(fmt.Sprintf("\nErrors (%d):\n", len(state.Errors)))
		writeFieldErrors(&sb, state.Errors)
	}
	if len(state.Advice) > 0 {
		sb.WriteString("\nSuggestions:\n")
		writeFieldErrors(&sb, state.Advice)
	}

	p.printBox("WIZARD", sb.String())
}

// PrintErrors lists field errors under a title. An empty set prints a single OK line.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) PrintErrors(title string, errs validation.FieldErrorSet) {
	if len(errs) == 0 {
		fmt.Fprintf(p.out, "✓ %s: no errors\n", title)
		return
	}
	var sb strings.Builder
	writeFieldErrors(&sb, errs)
	p.printBox(strings.ToUpper(title), sb.String())
}

func writeFieldErrors(sb *strings.Builder, errs validation.FieldErrorSet) {
	for _, fe := range errs {
		sb.WriteString(fmt.Sprintf("  • %s\n", fe.Field))
		sb.WriteString(fmt.Sprintf("      %s\n", fe.Message))
	}
}

// PrintDocument outputs a short summary of each section of the document
func (p *Printer) PrintDocument(doc types.ResumeDocument) {
	var sb strings.Builder

	name := doc.Personal.FullName
	if name == "" {
		name = "(no name yet)"
	}
	sb.WriteString(fmt.Sprintf("%s\n", name))
	if doc.Personal.Title != "" {
		sb.WriteString(fmt.Sprintf("%s\n", doc.Personal.Title))
	}
	sb.WriteString("\n")

	if len(doc.Education) > 0 {
		sb.WriteString(fmt.Sprintf("Education (%d):\n", len(doc.Education)))
		for i, e := range doc.Education {
			sb.WriteString(fmt.Sprintf("  %d. %s, %s\n", i, orDash(e.Degree), orDash(e.Institution)))
		}
	}
	if len(doc.Experience) > 0 {
		sb.WriteString(fmt.Sprintf("Experience (%d):\n", len(doc.Experience)))
		for i, e := range doc.Experience {
			sb.WriteString(fmt.Sprintf("  %d. %s at %s\n", i, orDash(e.Role), orDash(e.Organization)))
		}
	}
	if len(doc.Skills) > 0 {
		shown := doc.Skills[:min(len(doc.Skills), maxItemsToShow)]
		sb.WriteString(fmt.Sprintf("Skills: %s", strings.Join(shown, ", ")))
		if len(doc.Skills) > maxItemsToShow {
			sb.WriteString(fmt.Sprintf(" ... and %d more", len(doc.Skills)-maxItemsToShow))
		}
		sb.WriteString("\n")
	}

	counts := []struct {
		label string
		n     int
	}{
		{"Certifications", len(doc.Certifications)},
		{"Projects", len(doc.Projects)},
		{"References", len(doc.References)},
		{"Custom sections", len(doc.Additional.CustomSections)},
	}
	for _, c := range counts {
		if c.n > 0 {
			sb.WriteString(fmt.Sprintf("%s: %d\n", c.label, c.n))
		}
	}

	p.printBox("DOCUMENT", sb.String())
}

// PrintArtifact reports a finished export
func (p *Printer) PrintArtifact(artifact *export.Artifact, path string) {
	if artifact == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("File:      %s\n", artifact.Filename))
	sb.WriteString(fmt.Sprintf("Format:    %s\n", artifact.Format))
	sb.WriteString(fmt.Sprintf("Template:  %s\n", artifact.Template))
	sb.WriteString(fmt.Sprintf("Pages:     %d\n", artifact.Pages))
	sb.WriteString(fmt.Sprintf("Size:      %d bytes\n", len(artifact.Data)))
	if path != "" {
		sb.WriteString(fmt.Sprintf("Written:   %s\n", path))
	}
	if artifact.Location != "" {
		sb.WriteString(fmt.Sprintf("Stored:    %s\n", artifact.Location))
	}

	p.printBox("EXPORT", sb.String())
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "—"
	}
	return s
}
