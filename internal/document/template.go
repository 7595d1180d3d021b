package document

import "github.com/jonathan/resume-builder/internal/types"

// SelectTemplate switches the layout template. Unknown ids leave the document unchanged.
func SelectTemplate(doc types.ResumeDocument, id types.TemplateID) (types.ResumeDocument, error) {
	if !id.Valid() {
		return doc, &InvalidTemplateError{TemplateID: id}
	}
	out := Clone(doc)
	out.TemplateID = id
	return out, nil
}
