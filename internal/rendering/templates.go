package rendering

import (
	"strings"

	"github.com/jonathan/resume-builder/internal/document"
	"github.com/jonathan/resume-builder/internal/types"
)

// HeadingStyle controls how built-in section titles are shown
type HeadingStyle int

const (
	HeadingPlain HeadingStyle = iota
	HeadingUpper
	HeadingRule
)

// SkillsStyle controls how the skills list is arranged
type SkillsStyle int

const (
	SkillsTags SkillsStyle = iota
	SkillsInline
)

// Layout is the arrangement and styling of one template. Layouts never change content.
type Layout struct {
	Name             string
	Order            []string
	Heading          HeadingStyle
	Skills           SkillsStyle
	SkillSeparator   string
	TagPrefix        string
	MetaInline       bool
	HeaderCentered   bool
	ContactSeparator string
	EntryGap         int
}

// HeadingRows is the number of text rows a section heading occupies, including the gap above it
func (l Layout) HeadingRows() int {
	if l.Heading == HeadingRule {
		return 3
	}
	return 2
}

func (l Layout) headingText(title string) string {
	if l.Heading == HeadingUpper {
		return strings.ToUpper(title)
	}
	return title
}

// Template is one of the fixed layout variants, dispatched by TemplateID
type Template struct {
	ID     types.TemplateID
	Layout Layout
}

var (
	Modern = Template{ID: types.TemplateModern, Layout: Layout{
		Name: "Modern",
		Order: []string{SectionSummary, types.SectionExperience, types.SectionEducation, types.SectionSkills,
			types.SectionProjects, types.SectionCertifications, types.SectionReferences, types.SectionCustom},
		Heading:          HeadingUpper,
		Skills:           SkillsTags,
		TagPrefix:        "#",
		ContactSeparator: " | ",
		EntryGap:         1,
	}}

	Classic = Template{ID: types.TemplateClassic, Layout: Layout{
		Name: "Classic",
		Order: []string{SectionSummary, types.SectionEducation, types.SectionExperience, types.SectionSkills,
			types.SectionCertifications, types.SectionProjects, types.SectionReferences, types.SectionCustom},
		Heading:          HeadingRule,
		Skills:           SkillsInline,
		SkillSeparator:   " • ",
		MetaInline:       true,
		HeaderCentered:   true,
		ContactSeparator: " • ",
		EntryGap:         1,
	}}

	Minimal = Template{ID: types.TemplateMinimal, Layout: Layout{
		Name: "Minimal",
		Order: []string{SectionSummary, types.SectionExperience, types.SectionEducation, types.SectionSkills,
			types.SectionProjects, types.SectionCertifications, types.SectionCustom, types.SectionReferences},
		Heading:          HeadingPlain,
		Skills:           SkillsTags,
		MetaInline:       true,
		ContactSeparator: "  ",
	}}

	Elegant = Template{ID: types.TemplateElegant, Layout: Layout{
		Name: "Elegant",
		Order: []string{SectionSummary, types.SectionExperience, types.SectionEducation, types.SectionCertifications,
			types.SectionProjects, types.SectionSkills, types.SectionReferences, types.SectionCustom},
		Heading:          HeadingRule,
		Skills:           SkillsTags,
		TagPrefix:        "~ ",
		HeaderCentered:   true,
		ContactSeparator: " · ",
		EntryGap:         1,
	}}

	Creative = Template{ID: types.TemplateCreative, Layout: Layout{
		Name: "Creative",
		Order: []string{SectionSummary, types.SectionSkills, types.SectionProjects, types.SectionExperience,
			types.SectionEducation, types.SectionCertifications, types.SectionCustom, types.SectionReferences},
		Heading:          HeadingUpper,
		Skills:           SkillsTags,
		TagPrefix:        "* ",
		ContactSeparator: " / ",
		EntryGap:         1,
	}}
)

// Templates returns all variants in display order
func Templates() []Template {
	return []Template{Modern, Classic, Minimal, Elegant, Creative}
}

// Lookup returns the template for id, or an InvalidTemplateError
func Lookup(id types.TemplateID) (Template, error) {
	switch id {
	case types.TemplateModern:
		return Modern, nil
	case types.TemplateClassic:
		return Classic, nil
	case types.TemplateMinimal:
		return Minimal, nil
	case types.TemplateElegant:
		return Elegant, nil
	case types.TemplateCreative:
		return Creative, nil
	default:
		return Template{}, &document.InvalidTemplateError{TemplateID: id}
	}
}
