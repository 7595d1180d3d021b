package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-builder/internal/rendering"
	"github.com/jonathan/resume-builder/internal/types"
)

var previewCmd = &cobra.Command{
	Use:   "preview",
	Short: "Render a resume document with a template",
	Long:  "Renders the document as the live preview would show it, as plain text, HTML, or the JSON display tree.",
	RunE:  runPreview,
}

var (
	previewInput    string
	previewTemplate string
	previewFormat   string
	previewOut      string
	previewWidth    int
)

func init() {
	previewCmd.Flags().StringVarP(&previewInput, "in", "i", "", "Path to document JSON or YAML file (required)")
	previewCmd.Flags().StringVarP(&previewTemplate, "template", "t", "", "Template id; defaults to the document's template")
	previewCmd.Flags().StringVarP(&previewFormat, "format", "f", "text", "Output format: text, html, or tree")
	previewCmd.Flags().StringVarP(&previewOut, "out", "o", "", "Output path (default stdout)")
	previewCmd.Flags().IntVar(&previewWidth, "width", 90, "Characters per line for text output")

	if err := previewCmd.MarkFlagRequired("in"); err != nil {
		panic(fmt.Sprintf("failed to mark in flag as required: %v", err))
	}

	rootCmd.AddCommand(previewCmd)
}

func runPreview(cmd *cobra.Command, _ []string) error {
	doc, err := loadDocument(previewInput)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if previewOut != "" {
		f, err := os.Create(previewOut)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()
		out = f
	}
	return writePreview(out, doc, types.TemplateID(previewTemplate), previewFormat, previewWidth)
}

// writePreview renders doc and writes it in the requested format
func writePreview(w io.Writer, doc types.ResumeDocument, id types.TemplateID, format string, width int) error {
	if id == "" {
		id = doc.TemplateID
	}
	tree, err := rendering.Render(doc, id)
	if err != nil {
		return err
	}

	switch format {
	case "text", "":
		_, err = io.WriteString(w, rendering.Text(tree, width))
		return err
	case "html":
		html, err := rendering.HTML(tree)
		if err != nil {
			return err
		}
		_, err = io.WriteString(w, html)
		return err
	case "tree":
		return writeJSONTo(w, tree)
	default:
		return fmt.Errorf("unknown preview format %q (text, html, tree)", format)
	}
}
