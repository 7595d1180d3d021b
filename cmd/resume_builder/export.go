package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-builder/internal/export"
	"github.com/jonathan/resume-builder/internal/observability"
	"github.com/jonathan/resume-builder/internal/types"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export a resume document",
	Long:  "Paginates the document exactly as the preview shows it and writes it as text, LaTeX, HTML, or PDF. PDF output needs Chrome or Chromium.",
	RunE:  runExport,
}

var (
	exportInput    string
	exportTemplate string
	exportFormat   string
	exportOutDir   string
	exportUpload   bool
)

func init() {
	exportCmd.Flags().StringVarP(&exportInput, "in", "i", "", "Path to document JSON or YAML file (required)")
	exportCmd.Flags().StringVarP(&exportTemplate, "template", "t", "", "Template id; defaults to the document's template")
	exportCmd.Flags().StringVarP(&exportFormat, "format", "f", export.FormatPDF, "Output format: text, latex, html, or pdf")
	exportCmd.Flags().StringVarP(&exportOutDir, "out", "o", "", "Output directory (default from config, usually the current directory)")
	exportCmd.Flags().BoolVar(&exportUpload, "upload", false, "Store the artifact in the configured MinIO bucket instead of a local directory")

	if err := exportCmd.MarkFlagRequired("in"); err != nil {
		panic(fmt.Sprintf("failed to mark in flag as required: %v", err))
	}

	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, _ []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	if exportOutDir != "" {
		a.cfg.Export.OutputDir = exportOutDir
	}

	doc, err := loadDocument(exportInput)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	artifact, err := exportDocument(ctx, a, exportInput, doc, types.TemplateID(exportTemplate), exportFormat, exportUpload || a.cfg.Export.Upload)
	if err != nil {
		return err
	}
	observability.NewPrinter(cmd.OutOrStdout()).PrintArtifact(artifact, "")
	return nil
}

func exportDocument(ctx context.Context, a *app, key string, doc types.ResumeDocument, id types.TemplateID, format string, upload bool) (*export.Artifact, error) {
	exporter, err := a.exporter(ctx, format == export.FormatPDF, upload)
	if err != nil {
		return nil, err
	}
	return exporter.Export(ctx, export.Request{
		Key:      key,
		Document: doc,
		Template: id,
		Format:   format,
	})
}
