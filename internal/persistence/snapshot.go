package persistence

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/jonathan/resume-builder/internal/document"
	"github.com/jonathan/resume-builder/internal/schemas"
	"github.com/jonathan/resume-builder/internal/types"
	rootschemas "github.com/jonathan/resume-builder/schemas"
)

// CurrentVersion is the schema version written by EncodeSnapshot
const CurrentVersion = 2

// Envelope is the persisted form of a document
type Envelope struct {
	Version  int             `json:"version"`
	SavedAt  time.Time       `json:"savedAt"`
	Document json.RawMessage `json:"document"`
}

// Migration upgrades a raw document from version N to N+1
type Migration func(document json.RawMessage) (json.RawMessage, error)

// Migrations maps a source version to the function that upgrades it by one version
type Migrations map[int]Migration

// DefaultMigrations returns the built-in migration chain
func DefaultMigrations() Migrations {
	return Migrations{
		1: migrateV1ToV2,
	}
}

// EncodeSnapshot serializes doc at CurrentVersion
func EncodeSnapshot(doc types.ResumeDocument, savedAt time.Time) ([]byte, error) {
	body, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal document: %w", err)
	}
	data, err := json.Marshal(Envelope{Version: CurrentVersion, SavedAt: savedAt.UTC(), Document: body})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal snapshot: %w", err)
	}
	return data, nil
}

// DecodeSnapshot parses a stored snapshot, migrating older versions forward.
// It returns a *SnapshotError when the snapshot must be discarded: malformed data,
// a version newer than CurrentVersion, or a version with no migration path.
func DecodeSnapshot(data []byte, migrations Migrations) (types.ResumeDocument, error) {
	if err := schemas.Validate(rootschemas.Snapshot, data); err != nil {
		return types.ResumeDocument{}, &SnapshotError{Message: "invalid envelope", Cause: err}
	}

	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return types.ResumeDocument{}, &SnapshotError{Message: "unreadable envelope", Cause: err}
	}
	if env.Version > CurrentVersion {
		return types.ResumeDocument{}, &SnapshotError{Version: env.Version, Message: "unknown version"}
	}

	body := env.Document
	for v := env.Version; v < CurrentVersion; v++ {
		migrate, ok := migrations[v]
		if !ok {
			return types.ResumeDocument{}, &SnapshotError{Version: env.Version, Message: fmt.Sprintf("no migration from v%d", v)}
		}
		upgraded, err := migrate(body)
		if err != nil {
			return types.ResumeDocument{}, &SnapshotError{Version: env.Version, Message: fmt.Sprintf("migration from v%d failed", v), Cause: err}
		}
		body = upgraded
	}

	if err := schemas.Validate(rootschemas.ResumeDocument, body); err != nil {
		return types.ResumeDocument{}, &SnapshotError{Version: env.Version, Message: "invalid document", Cause: err}
	}

	var doc types.ResumeDocument
	if err := json.Unmarshal(body, &doc); err != nil {
		return types.ResumeDocument{}, &SnapshotError{Version: env.Version, Message: "unreadable document", Cause: err}
	}

	doc.Skills = document.DedupeSkills(doc.Skills)
	if doc.HighestStep < doc.CurrentStep {
		doc.HighestStep = doc.CurrentStep
	}
	return doc, nil
}

// migrateV1ToV2 moves the summary out of personal details, splits the comma-separated
// skills string, and renames "template" to "templateId".
func migrateV1ToV2(raw json.RawMessage) (json.RawMessage, error) {
	var doc map[string]any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, err
	}

	additional, _ := doc["additional"].(map[string]any)
	if additional == nil {
		additional = map[string]any{}
	}
	if personal, ok := doc["personal"].(map[string]any); ok {
		if summary, ok := personal["summary"].(string); ok {
			if _, exists := additional["summary"]; !exists {
				additional["summary"] = summary
			}
			delete(personal, "summary")
		}
	}
	doc["additional"] = additional

	switch skills := doc["skills"].(type) {
	case string:
		var list []any
		for _, s := range strings.Split(skills, ",") {
			if s = strings.TrimSpace(s); s != "" {
				list = append(list, s)
			}
		}
		if list == nil {
			list = []any{}
		}
		doc["skills"] = list
	case nil:
		doc["skills"] = []any{}
	}

	if tmpl, ok := doc["template"]; ok {
		if _, exists := doc["templateId"]; !exists {
			doc["templateId"] = tmpl
		}
		delete(doc, "template")
	}
	if _, ok := doc["templateId"]; !ok {
		doc["templateId"] = string(types.DefaultTemplate)
	}
	if step, ok := doc["currentStep"]; ok {
		doc["highestStep"] = step
	}

	return json.Marshal(doc)
}
