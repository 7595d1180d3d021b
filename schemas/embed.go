// Package schemas holds the JSON Schema files for persisted artifacts.
package schemas

import "embed"

// FS contains every *.schema.json file in this directory
//
//go:embed *.schema.json
var FS embed.FS

// Schema file names
const (
	Snapshot       = "snapshot.schema.json"
	ResumeDocument = "resume_document.schema.json"
)
