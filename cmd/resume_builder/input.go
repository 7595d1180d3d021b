package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/jonathan/resume-builder/internal/document"
	"github.com/jonathan/resume-builder/internal/schemas"
	"github.com/jonathan/resume-builder/internal/types"
	rootschemas "github.com/jonathan/resume-builder/schemas"
)

// loadDocument reads a resume document from a JSON or YAML file. Missing navigation
// fields and entry IDs are filled in; skills are normalized and deduplicated. The
// result is checked against the resume document schema.
func loadDocument(path string) (types.ResumeDocument, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return types.ResumeDocument{}, fmt.Errorf("failed to read document: %w", err)
	}

	doc := document.New()
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(content, &doc); err != nil {
			return types.ResumeDocument{}, fmt.Errorf("failed to parse YAML document: %w", err)
		}
	default:
		if err := json.Unmarshal(content, &doc); err != nil {
			return types.ResumeDocument{}, fmt.Errorf("failed to parse JSON document: %w", err)
		}
	}

	doc = fillDefaults(doc)

	normalized, err := json.Marshal(doc)
	if err != nil {
		return types.ResumeDocument{}, fmt.Errorf("failed to encode document: %w", err)
	}
	if err := schemas.Validate(rootschemas.ResumeDocument, normalized); err != nil {
		return types.ResumeDocument{}, fmt.Errorf("%s does not match the resume document schema: %w", path, err)
	}
	return doc, nil
}

func fillDefaults(doc types.ResumeDocument) types.ResumeDocument {
	out := document.Clone(doc)
	if out.TemplateID == "" {
		out.TemplateID = types.DefaultTemplate
	}
	if out.CurrentStep == 0 {
		out.CurrentStep = types.FirstStep
	}
	out.HighestStep = max(out.HighestStep, out.CurrentStep)
	out.Skills = document.DedupeSkills(out.Skills)

	for i := range out.Education {
		out.Education[i].ID = idOrNew(out.Education[i].ID)
	}
	for i := range out.Experience {
		out.Experience[i].ID = idOrNew(out.Experience[i].ID)
	}
	for i := range out.Certifications {
		out.Certifications[i].ID = idOrNew(out.Certifications[i].ID)
	}
	for i := range out.Projects {
		out.Projects[i].ID = idOrNew(out.Projects[i].ID)
	}
	for i := range out.References {
		out.References[i].ID = idOrNew(out.References[i].ID)
	}
	for i := range out.Additional.CustomSections {
		out.Additional.CustomSections[i].ID = idOrNew(out.Additional.CustomSections[i].ID)
	}
	return out
}

func idOrNew(id string) string {
	if id == "" {
		return document.NewID()
	}
	return id
}

// writeJSON writes v as indented JSON to path, or to stdout when path is empty or "-"
func writeJSON(path string, v any) error {
	if path == "" || path == "-" {
		return writeJSONTo(os.Stdout, v)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := writeJSONTo(f, v); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

func writeJSONTo(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	return nil
}
