package rendering

import (
	"fmt"
	"strings"

	"github.com/jonathan/resume-builder/internal/types"
)

// Section key for the summary block
const SectionSummary = "summary"

// Block is one entry of projected content. Headline and Meta are short fields shown
// on one or two lines; Body fields are wrappable paragraphs; Items are list tokens.
type Block struct {
	ID       string
	Headline []FieldText
	Meta     []FieldText
	Dates    []FieldText
	Body     []FieldText
	Items    []FieldText
}

// Section is a titled group of blocks in document order
type Section struct {
	Key     string
	Title   string
	Heading *FieldText
	Blocks  []Block
}

// Content is the template-independent projection of a document. Every template
// renders the same Content; only arrangement and styling differ.
type Content struct {
	Name     *FieldText
	Title    *FieldText
	Contacts []FieldText
	Sections []Section
}

// SectionsFor returns the projected sections with the given key in document order
func (c Content) SectionsFor(key string) []Section {
	var out []Section
	for _, s := range c.Sections {
		if s.Key == key {
			out = append(out, s)
		}
	}
	return out
}

// Project builds the content projection. Empty entries and blank fields are omitted.
func Project(doc types.ResumeDocument) Content {
	p := doc.Personal
	content := Content{
		Name:  optional(fieldPath(types.SectionPersonal, "fullName"), p.FullName),
		Title: optional(fieldPath(types.SectionPersonal, "title"), p.Title),
	}
	content.Contacts = collect(
		optional(fieldPath(types.SectionPersonal, "email"), p.Email),
		optional(fieldPath(types.SectionPersonal, "phone"), p.Phone),
		optional(fieldPath(types.SectionPersonal, "location"), p.Location),
		optional(fieldPath(types.SectionPersonal, "linkedin"), p.LinkedIn),
		optional(fieldPath(types.SectionPersonal, "website"), p.Website),
	)

	if summary := optional(fieldPath(types.SectionAdditional, "summary"), doc.Additional.Summary); summary != nil {
		content.Sections = append(content.Sections, Section{
			Key:    SectionSummary,
			Title:  "Summary",
			Blocks: []Block{{ID: SectionSummary, Body: []FieldText{*summary}}},
		})
	}

	var experience []Block
	for i, e := range doc.Experience {
		if e.IsEmpty() {
			continue
		}
		path := entryPath(types.SectionExperience, i)
		experience = append(experience, Block{
			ID:       e.ID,
			Headline: collect(optional(path("role"), e.Role), optional(path("organization"), e.Organization)),
			Dates:    dateFields(path, e.StartDate, e.EndDate, e.Current),
			Meta:     collect(optional(path("location"), e.Location)),
			Body:     collect(optional(path("description"), e.Description)),
		})
	}
	content.add(types.SectionExperience, "Experience", experience)

	var education []Block
	for i, e := range doc.Education {
		if e.IsEmpty() {
			continue
		}
		path := entryPath(types.SectionEducation, i)
		education = append(education, Block{
			ID: e.ID,
			Headline: collect(
				optional(path("degree"), e.Degree),
				optional(path("fieldOfStudy"), e.FieldOfStudy),
				optional(path("institution"), e.Institution),
			),
			Dates: dateFields(path, e.StartDate, e.EndDate, false),
			Body:  collect(optional(path("description"), e.Description)),
		})
	}
	content.add(types.SectionEducation, "Education", education)

	var skills []FieldText
	for i, s := range doc.Skills {
		if f := optional(fmt.Sprintf("%s.%d", types.SectionSkills, i), s); f != nil {
			skills = append(skills, *f)
		}
	}
	if len(skills) > 0 {
		content.add(types.SectionSkills, "Skills", []Block{{ID: types.SectionSkills, Items: skills}})
	}

	var certifications []Block
	for i, c := range doc.Certifications {
		if c.IsEmpty() {
			continue
		}
		path := entryPath(types.SectionCertifications, i)
		certifications = append(certifications, Block{
			ID:       c.ID,
			Headline: collect(optional(path("name"), c.Name), optional(path("issuer"), c.Issuer)),
			Dates:    collect(optional(path("date"), formatDate(c.Date, false))),
			Meta:     collect(optional(path("credentialId"), c.CredentialID)),
		})
	}
	content.add(types.SectionCertifications, "Certifications", certifications)

	var projects []Block
	for i, pr := range doc.Projects {
		if pr.IsEmpty() {
			continue
		}
		path := entryPath(types.SectionProjects, i)
		projects = append(projects, Block{
			ID:       pr.ID,
			Headline: collect(optional(path("name"), pr.Name), optional(path("link"), pr.Link)),
			Meta:     collect(optional(path("technologies"), pr.Technologies)),
			Body:     collect(optional(path("description"), pr.Description)),
		})
	}
	content.add(types.SectionProjects, "Projects", projects)

	var references []Block
	for i, r := range doc.References {
		if r.IsEmpty() {
			continue
		}
		path := entryPath(types.SectionReferences, i)
		references = append(references, Block{
			ID: r.ID,
			Headline: collect(
				optional(path("name"), r.Name),
				optional(path("title"), r.Title),
				optional(path("company"), r.Company),
			),
			Meta: collect(optional(path("email"), r.Email), optional(path("phone"), r.Phone)),
		})
	}
	content.add(types.SectionReferences, "References", references)

	for i, cs := range doc.Additional.CustomSections {
		path := entryPath(types.SectionCustom, i)
		heading := optional(path("heading"), cs.Heading)
		body := optional(path("body"), cs.Body)
		if heading == nil && body == nil {
			continue
		}
		section := Section{Key: types.SectionCustom, Title: "Additional Information", Heading: heading}
		if body != nil {
			section.Blocks = []Block{{ID: cs.ID, Body: []FieldText{*body}}}
		}
		content.Sections = append(content.Sections, section)
	}

	return content
}

func (c *Content) add(key, title string, blocks []Block) {
	if len(blocks) == 0 {
		return
	}
	c.Sections = append(c.Sections, Section{Key: key, Title: title, Blocks: blocks})
}

// dateFields renders a start/end pair. An open range (or a current role) ends in "Present".
func dateFields(path func(string) string, start, end string, current bool) []FieldText {
	var out []FieldText
	if f := optional(path("startDate"), formatDate(start, false)); f != nil {
		out = append(out, *f)
	}
	switch {
	case current:
		out = append(out, FieldText{Field: path("endDate"), Text: "Present"})
	case strings.TrimSpace(end) != "":
		out = append(out, FieldText{Field: path("endDate"), Text: formatDate(end, true)})
	case len(out) > 0:
		out = append(out, FieldText{Field: path("endDate"), Text: "Present"})
	}
	return out
}

// formatDate renders YYYY-MM as "Jan 2020". Unparsable values are shown as typed.
func formatDate(value string, end bool) string {
	value = strings.TrimSpace(value)
	if strings.EqualFold(value, "present") {
		return "Present"
	}
	date, ok, err := types.ParseMonthDate(value, end)
	if err != nil || !ok {
		return value
	}
	if len(value) == 4 {
		return value
	}
	return date.Label()
}

func optional(path, value string) *FieldText {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	return &FieldText{Field: path, Text: value}
}

func collect(fields ...*FieldText) []FieldText {
	out := make([]FieldText, 0, len(fields))
	for _, f := range fields {
		if f != nil {
			out = append(out, *f)
		}
	}
	return out
}

func fieldPath(section, field string) string {
	return section + "." + field
}

func entryPath(section string, index int) func(string) string {
	return func(field string) string {
		return fmt.Sprintf("%s.%d.%s", section, index, field)
	}
}
