package types

import "fmt"

// Step identifies one page of the wizard, numbered from 1
type Step int

// Wizard steps in display order
const (
	StepPersonal Step = iota + 1
	StepEducation
	StepExperience
	StepSkills
	StepAdditional
	StepTemplate
)

// FirstStep and LastStep bound the wizard
const (
	FirstStep = StepPersonal
	LastStep  = StepTemplate
)

var stepNames = map[Step]string{
	StepPersonal:   "Personal",
	StepEducation:  "Education",
	StepExperience: "Experience",
	StepSkills:     "Skills",
	StepAdditional: "Additional",
	StepTemplate:   "Template",
}

// Valid reports whether s is a wizard step
func (s Step) Valid() bool {
	return s >= FirstStep && s <= LastStep
}

func (s Step) String() string {
	if name, ok := stepNames[s]; ok {
		return name
	}
	return fmt.Sprintf("Step(%d)", int(s))
}

// AllSteps returns every step in order
func AllSteps() []Step {
	steps := make([]Step, 0, int(LastStep))
	for s := FirstStep; s <= LastStep; s++ {
		steps = append(steps, s)
	}
	return steps
}

// TemplateID selects one of the fixed layout templates
type TemplateID string

// Known templates
const (
	TemplateModern   TemplateID = "modern"
	TemplateClassic  TemplateID = "classic"
	TemplateMinimal  TemplateID = "minimal"
	TemplateElegant  TemplateID = "elegant"
	TemplateCreative TemplateID = "creative"
)

// DefaultTemplate is applied to new documents
const DefaultTemplate = TemplateModern

// TemplateIDs returns the known template ids in display order
func TemplateIDs() []TemplateID {
	return []TemplateID{TemplateModern, TemplateClassic, TemplateMinimal, TemplateElegant, TemplateCreative}
}

// Valid reports whether id names a known template
func (id TemplateID) Valid() bool {
	for _, known := range TemplateIDs() {
		if id == known {
			return true
		}
	}
	return false
}

// Section names used by field paths and the display tree
const (
	SectionPersonal       = "personal"
	SectionEducation      = "education"
	SectionExperience     = "experience"
	SectionSkills         = "skills"
	SectionCertifications = "certifications"
	SectionProjects       = "projects"
	SectionReferences     = "references"
	SectionAdditional     = "additional"
	SectionCustom         = "customSections"
)
