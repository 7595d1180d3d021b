package rendering

import (
	"fmt"
	"os"
	"strings"
	"text/template"
)

const defaultLaTeXTemplate = `\documentclass[10pt]{article}
\usepackage[a4paper,margin=16mm]{geometry}
\usepackage[T1]{fontenc}
\usepackage[utf8]{inputenc}
\usepackage{textcomp}
\setlength{\parindent}{0pt}
\pagestyle{empty}
\begin{document}
{{- range $i, $page := .Pages}}
{{- if $i}}
\newpage
{{- end}}
{{- range $page.Blocks}}
{{range .}}{{.}}
{{end}}
{{- end}}
{{- end}}
\end{document}
`

// LaTeXData is the data passed to a LaTeX template. Every string is already escaped.
type LaTeXData struct {
	Name  string
	Pages []LaTeXPage
}

// LaTeXPage holds the LaTeX source lines of each block on one page
type LaTeXPage struct {
	Blocks [][]string
}

// RenderLaTeX renders pages as LaTeX source. An empty templatePath uses the built-in
// article template; a custom template receives LaTeXData and an "escape" function.
func RenderLaTeX(layout Layout, pages []Page, templatePath string) (string, error) {
	tmpl, err := parseTemplate(templatePath)
	if err != nil {
		return "", err
	}

	data := buildTemplateData(layout, pages)

	var result strings.Builder
	if err := tmpl.Execute(&result, data); err != nil {
		return "", &TemplateError{
			Message: "failed to execute template",
			Cause:   err,
		}
	}
	return result.String(), nil
}

// parseTemplate reads and parses a LaTeX template file, or the built-in one
func parseTemplate(templatePath string) (*template.Template, error) {
	content := defaultLaTeXTemplate
	if templatePath != "" {
		raw, err := os.ReadFile(templatePath)
		if err != nil {
			if os.IsNotExist(err) {
				return nil, &TemplateError{
					Message: fmt.Sprintf("template file not found: %s", templatePath),
					Cause:   err,
				}
			}
			return nil, &TemplateError{
				Message: fmt.Sprintf("failed to read template file: %s", templatePath),
				Cause:   err,
			}
		}
		content = string(raw)
	}

	tmpl, err := template.New("resume").Funcs(template.FuncMap{
		"escape": EscapeLaTeX,
	}).Parse(content)
	if err != nil {
		return nil, &TemplateError{
			Message: "failed to parse template",
			Cause:   err,
		}
	}
	return tmpl, nil
}

func buildTemplateData(layout Layout, pages []Page) *LaTeXData {
	data := &LaTeXData{Pages: make([]LaTeXPage, 0, len(pages))}
	for _, page := range pages {
		lp := LaTeXPage{}
		for _, n := range page.Nodes {
			lp.Blocks = append(lp.Blocks, latexBlock(layout, n))
		}
		data.Pages = append(data.Pages, lp)
	}
	if len(pages) > 0 {
		for _, f := range NodeFields(pages[0].Nodes...) {
			if f.Field == "personal.fullName" {
				data.Name = EscapeLaTeX(f.Text)
				break
			}
		}
	}
	return data
}

func latexBlock(layout Layout, n *Node) []string {
	var out []string
	switch n.Kind {
	case KindHeader:
		if layout.HeaderCentered {
			out = append(out, `\begin{center}`)
		}
		for _, c := range n.Children {
			text := EscapeLaTeX(LineText(c, layout))
			switch c.Class {
			case "name":
				out = append(out, `{\LARGE\textbf{`+text+`}}\\`)
			case "title":
				out = append(out, `{\large `+text+`}\\`)
			default:
				out = append(out, text+`\\`)
			}
		}
		if layout.HeaderCentered {
			out = append(out, `\end{center}`)
		}
	case KindHeading:
		out = append(out, `\section*{`+EscapeLaTeX(n.Text)+`}`)
		if layout.Heading == HeadingRule {
			out = append(out, `\vspace{-8pt}\hrule\vspace{4pt}`)
		}
	case KindEntry:
		if n.Continued {
			out = append(out, `\textit{(continued)}\\`)
		}
		for _, c := range n.Children {
			switch {
			case c.Kind == KindText:
				out = append(out, latexParagraph(c.Text))
			case c.Class == "headline":
				out = append(out, `\textbf{`+EscapeLaTeX(LineText(c, layout))+`}\\`)
			case c.Class == "meta":
				out = append(out, `\textit{`+EscapeLaTeX(LineText(c, layout))+`}\\`)
			default:
				out = append(out, EscapeLaTeX(LineText(c, layout))+`\\`)
			}
		}
		out = append(out, `\medskip`)
	}
	return out
}

// latexParagraph escapes text and keeps explicit line breaks
func latexParagraph(text string) string {
	lines := strings.Split(text, "\n")
	for i, l := range lines {
		lines[i] = EscapeLaTeX(strings.TrimSpace(l))
	}
	return strings.Join(lines, `\\`+"\n") + "\n"
}
