package document

import (
	"strings"

	"github.com/jonathan/resume-builder/internal/types"
	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// NormalizeSkill trims a skill token and collapses internal whitespace
func NormalizeSkill(token string) string {
	return strings.Join(strings.Fields(norm.NFC.String(token)), " ")
}

// SkillKey returns the case-insensitive comparison key for a skill token
func SkillKey(token string) string {
	return cases.Fold().String(NormalizeSkill(token))
}

// AddSkill appends a normalized skill. Empty tokens are ignored. A case-insensitive
// duplicate leaves the document unchanged and returns a *DuplicateSkillError.
func AddSkill(doc types.ResumeDocument, token string) (types.ResumeDocument, error) {
	skill := NormalizeSkill(token)
	if skill == "" {
		return doc, nil
	}

	key := SkillKey(skill)
	for _, existing := range doc.Skills {
		if SkillKey(existing) == key {
			return doc, &DuplicateSkillError{Skill: skill, Existing: existing}
		}
	}

	out := Clone(doc)
	out.Skills = append(out.Skills, skill)
	return out, nil
}

// RemoveSkill deletes a skill matched case-insensitively. Absent skills are a no-op.
func RemoveSkill(doc types.ResumeDocument, token string) types.ResumeDocument {
	key := SkillKey(token)
	for i, existing := range doc.Skills {
		if SkillKey(existing) == key {
			out := Clone(doc)
			out.Skills, _ = removeAt(out.Skills, i)
			return out
		}
	}
	return doc
}

// DedupeSkills normalizes a skill list and drops case-insensitive duplicates, keeping first occurrences
func DedupeSkills(skills []string) []string {
	out := make([]string, 0, len(skills))
	seen := make(map[string]struct{})

	for _, skill := range skills {
		normalized := NormalizeSkill(skill)
		if normalized == "" {
			continue
		}
		key := cases.Fold().String(normalized)
		if _, exists := seen[key]; !exists {
			out = append(out, normalized)
			seen[key] = struct{}{}
		}
	}
	return out
}
