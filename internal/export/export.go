package export

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/jonathan/resume-builder/internal/rendering"
	"github.com/jonathan/resume-builder/internal/types"
	"github.com/jonathan/resume-builder/internal/validation"
)

// Result is a paginated document together with the preview tree it was flowed from
type Result struct {
	Document types.ResumeDocument
	Template types.TemplateID
	Tree     *rendering.DisplayTree
	Pages    []Page
	Spec     PageSpec
}

// Document renders doc with the template and flows it into pages
func Document(doc types.ResumeDocument, id types.TemplateID, spec PageSpec) ([]Page, error) {
	result, err := Build(doc, id, spec)
	if err != nil {
		return nil, err
	}
	return result.Pages, nil
}

// Build checks the document is ready for export, renders it, paginates it, and
// verifies the pages show exactly the preview's fields in the same order.
func Build(doc types.ResumeDocument, id types.TemplateID, spec PageSpec) (*Result, error) {
	if err := Ready(doc); err != nil {
		return nil, failed(err, "document is not ready for export")
	}

	tree, err := rendering.Render(doc, id)
	if err != nil {
		return nil, failed(err, "cannot render template %q", id)
	}

	pages, err := Paginate(tree, spec)
	if err != nil {
		return nil, err
	}
	if err := Check(tree, pages, spec); err != nil {
		return nil, err
	}

	return &Result{Document: doc, Template: id, Tree: tree, Pages: pages, Spec: spec}, nil
}

// readySteps hold the content invariants every exported document must satisfy.
// Skills stay a navigation gate only.
var readySteps = []types.Step{types.StepPersonal, types.StepEducation, types.StepExperience}

// Ready returns a *validation.ValidationError for the first step whose content is invalid
func Ready(doc types.ResumeDocument) error {
	for _, step := range readySteps {
		if err := validation.Check(doc, step); err != nil {
			return err
		}
	}
	return nil
}

// PageFields returns the visible fields across pages with split paragraphs rejoined
func PageFields(pages []Page) []rendering.FieldText {
	var out []rendering.FieldText
	for _, page := range pages {
		for _, f := range rendering.NodeFields(page.Nodes...) {
			if n := len(out); n > 0 && out[n-1].Field == f.Field {
				out[n-1].Text += "\n" + f.Text
				continue
			}
			out = append(out, f)
		}
	}
	return out
}

// Check verifies pages against the tree they came from: every page fits the page size
// and the pages show the tree's visible fields, in order, with the same text.
func Check(tree *rendering.DisplayTree, pages []Page, spec PageSpec) error {
	if len(pages) == 0 {
		return failed(nil, "no pages produced")
	}
	for i, page := range pages {
		if page.Number != i+1 {
			return failed(nil, "page %d is numbered %d", i+1, page.Number)
		}
		rows := 0
		for _, n := range page.Nodes {
			rows += rendering.Height(n, tree.Layout, spec.CharsPerLine)
		}
		if rows > spec.Lines {
			return failed(nil, "page %d overflows: %d of %d lines", page.Number, rows, spec.Lines)
		}
	}

	want := rendering.VisibleFields(tree)
	got := PageFields(pages)
	if len(want) != len(got) {
		return failed(nil, "pages show %d fields but the preview shows %d", len(got), len(want))
	}
	for i := range want {
		if want[i].Field != got[i].Field || normalize(want[i].Text) != normalize(got[i].Text) {
			return failed(nil, "field %d differs from preview: got %s, want %s", i, got[i].Field, want[i].Field)
		}
	}
	return nil
}

func normalize(text string) string {
	return strings.Join(strings.Fields(text), " ")
}

// Filename returns "<Full_Name>_resume.<ext>", or "resume.<ext>" when the name is empty
func Filename(doc types.ResumeDocument, ext string) string {
	var parts []string
	for _, word := range strings.Fields(doc.Personal.FullName) {
		clean := strings.Map(func(r rune) rune {
			switch {
			case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-':
				return r
			case r > unicode.MaxASCII && unicode.IsLetter(r):
				return r
			default:
				return -1
			}
		}, word)
		if clean != "" {
			parts = append(parts, clean)
		}
	}
	if len(parts) == 0 {
		return fmt.Sprintf("resume.%s", ext)
	}
	return fmt.Sprintf("%s_resume.%s", strings.Join(parts, "_"), ext)
}
