// Package types provides type definitions for structured data used throughout the resume-builder system.
//
//nolint:revive // types is a standard Go package name pattern
package types

// ResumeDocument is the canonical, serializable representation of one resume
type ResumeDocument struct {
	Personal       Personal        `json:"personal" yaml:"personal"`
	Education      []Education     `json:"education" yaml:"education"`
	Experience     []Experience    `json:"experience" yaml:"experience"`
	Skills         []string        `json:"skills" yaml:"skills"`
	Certifications []Certification `json:"certifications" yaml:"certifications"`
	Projects       []Project       `json:"projects" yaml:"projects"`
	References     []Reference     `json:"references" yaml:"references"`
	Additional     Additional      `json:"additional" yaml:"additional"`
	TemplateID     TemplateID      `json:"templateId" yaml:"templateId"`
	CurrentStep    Step            `json:"currentStep" yaml:"currentStep"`
	HighestStep    Step            `json:"highestStep" yaml:"highestStep"`
}

// Personal holds contact details shown in the document header
type Personal struct {
	FullName string `json:"fullName" yaml:"fullName"`
	Title    string `json:"title" yaml:"title"`
	Email    string `json:"email" yaml:"email"`
	Phone    string `json:"phone" yaml:"phone"`
	Location string `json:"location,omitempty" yaml:"location,omitempty"`
	LinkedIn string `json:"linkedin,omitempty" yaml:"linkedin,omitempty"`
	Website  string `json:"website,omitempty" yaml:"website,omitempty"`
}

// Education is one education entry
type Education struct {
	ID           string `json:"id" yaml:"id"`
	Institution  string `json:"institution" yaml:"institution"`
	Degree       string `json:"degree" yaml:"degree"`
	FieldOfStudy string `json:"fieldOfStudy,omitempty" yaml:"fieldOfStudy,omitempty"`
	StartDate    string `json:"startDate,omitempty" yaml:"startDate,omitempty"`
	EndDate      string `json:"endDate,omitempty" yaml:"endDate,omitempty"`
	Description  string `json:"description,omitempty" yaml:"description,omitempty"`
}

// Experience is one work experience entry. An empty EndDate means the role is ongoing.
type Experience struct {
	ID           string `json:"id" yaml:"id"`
	Organization string `json:"organization" yaml:"organization"`
	Role         string `json:"role" yaml:"role"`
	Location     string `json:"location,omitempty" yaml:"location,omitempty"`
	StartDate    string `json:"startDate,omitempty" yaml:"startDate,omitempty"`
	EndDate      string `json:"endDate,omitempty" yaml:"endDate,omitempty"`
	Current      bool   `json:"current,omitempty" yaml:"current,omitempty"`
	Description  string `json:"description,omitempty" yaml:"description,omitempty"`
}

// Certification is one certification entry
type Certification struct {
	ID           string `json:"id" yaml:"id"`
	Name         string `json:"name" yaml:"name"`
	Issuer       string `json:"issuer,omitempty" yaml:"issuer,omitempty"`
	Date         string `json:"date,omitempty" yaml:"date,omitempty"`
	CredentialID string `json:"credentialId,omitempty" yaml:"credentialId,omitempty"`
}

// Project is one project entry
type Project struct {
	ID           string `json:"id" yaml:"id"`
	Name         string `json:"name" yaml:"name"`
	Description  string `json:"description,omitempty" yaml:"description,omitempty"`
	Technologies string `json:"technologies,omitempty" yaml:"technologies,omitempty"`
	Link         string `json:"link,omitempty" yaml:"link,omitempty"`
}

// Reference is one professional reference
type Reference struct {
	ID      string `json:"id" yaml:"id"`
	Name    string `json:"name" yaml:"name"`
	Title   string `json:"title,omitempty" yaml:"title,omitempty"`
	Company string `json:"company,omitempty" yaml:"company,omitempty"`
	Email   string `json:"email,omitempty" yaml:"email,omitempty"`
	Phone   string `json:"phone,omitempty" yaml:"phone,omitempty"`
}

// Additional holds free-form optional content
type Additional struct {
	Summary        string          `json:"summary,omitempty" yaml:"summary,omitempty"`
	CustomSections []CustomSection `json:"customSections,omitempty" yaml:"customSections,omitempty"`
}

// CustomSection is a user-defined titled block
type CustomSection struct {
	ID      string `json:"id" yaml:"id"`
	Heading string `json:"heading" yaml:"heading"`
	Body    string `json:"body,omitempty" yaml:"body,omitempty"`
}

// IsEmpty reports whether no user-facing field of the entry is filled
func (e Education) IsEmpty() bool {
	return allBlank(e.Institution, e.Degree, e.FieldOfStudy, e.StartDate, e.EndDate, e.Description)
}

// IsEmpty reports whether no user-facing field of the entry is filled
func (e Experience) IsEmpty() bool {
	return !e.Current && allBlank(e.Organization, e.Role, e.Location, e.StartDate, e.EndDate, e.Description)
}

// IsEmpty reports whether no user-facing field of the entry is filled
func (c Certification) IsEmpty() bool {
	return allBlank(c.Name, c.Issuer, c.Date, c.CredentialID)
}

// IsEmpty reports whether no user-facing field of the entry is filled
func (p Project) IsEmpty() bool {
	return allBlank(p.Name, p.Description, p.Technologies, p.Link)
}

// IsEmpty reports whether no user-facing field of the entry is filled
func (r Reference) IsEmpty() bool {
	return allBlank(r.Name, r.Title, r.Company, r.Email, r.Phone)
}

// IsEmpty reports whether no user-facing field of the section is filled
func (c CustomSection) IsEmpty() bool {
	return allBlank(c.Heading, c.Body)
}

func allBlank(values ...string) bool {
	for _, v := range values {
		for _, r := range v {
			if r != ' ' && r != '\t' && r != '\n' && r != '\r' {
				return false
			}
		}
	}
	return true
}
