package rendering

import (
	"html/template"
	"strings"
)

const htmlLayout = `{{define "node"}}
{{- if eq .Kind "header"}}<header class="{{.Class}}">{{range .Children}}{{template "node" .}}{{end}}</header>
{{- else if eq .Kind "heading"}}<h2 class="section-heading section-{{.Class}}"{{with .Field}} data-field="{{.}}"{{end}}>{{.Text}}</h2>
{{- else if eq .Kind "entry"}}<div class="entry entry-{{.Class}}{{if .Continued}} continued{{end}}">{{range .Children}}{{template "node" .}}{{end}}</div>
{{- else if eq .Kind "line"}}<div class="line {{.Class}}">{{range .Children}}{{template "node" .}}{{end}}</div>
{{- else if eq .Kind "list"}}<ul class="{{.Class}}">{{range .Children}}{{template "node" .}}{{end}}</ul>
{{- else if eq .Kind "item"}}<li class="{{.Class}}" data-field="{{.Field}}">{{.Text}}</li>
{{- else if eq .Kind "text"}}
{{- if not .Field}}<span class="sep">{{.Text}}</span>
{{- else if eq .Class "body"}}<p class="body" data-field="{{.Field}}">{{.Text}}</p>
{{- else}}<span class="{{.Class}}" data-field="{{.Field}}">{{.Text}}</span>
{{- end}}
{{- end}}
{{- end -}}
<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
@page { size: A4; margin: 0; }
body { margin: 0; font-family: "Helvetica Neue", Arial, sans-serif; color: #1f2933; font-size: 9.5pt; }
.page { width: 210mm; min-height: 297mm; padding: 16mm 18mm; box-sizing: border-box; background: #fff; line-height: 4.4mm; }
.paged .page { height: 297mm; break-after: page; }
.paged .page:last-child { break-after: auto; }
.header .name { font-size: 14pt; font-weight: 700; }
.header .title { font-size: 11pt; }
.header.centered { text-align: center; }
.section-heading { font-size: 10pt; line-height: 4.4mm; margin: 4.4mm 0 0; letter-spacing: .04em; }
.entry { margin: 0 0 4.4mm; }
.template-minimal .entry { margin: 0; }
.line, .body { margin: 0; }
.headline { font-weight: 600; }
.meta, .date { color: #52606d; }
.body { white-space: pre-line; }
.tags { list-style: none; padding: 0; margin: 0; }
.tag { display: inline; margin-right: 6pt; }
.template-modern .section-heading { color: #2563eb; border-left: 3pt solid #2563eb; padding-left: 6pt; }
.template-modern .tag { background: #dbeafe; }
.template-classic { font-family: Georgia, "Times New Roman", serif; }
.template-classic .section-heading { border-bottom: 1px solid #1f2933; }
.template-minimal .section-heading { font-weight: 400; color: #52606d; }
.template-minimal .tag { padding: 0 4pt 0 0; }
.template-elegant { font-family: Garamond, Georgia, serif; }
.template-elegant .section-heading { font-variant: small-caps; border-bottom: 1px solid #b08d57; color: #7c5e2a; }
.template-elegant .tag { border: 1px solid #b08d57; }
.template-creative .header { background: #6d28d9; color: #fff; padding: 10pt; }
.template-creative .section-heading { color: #6d28d9; }
.template-creative .tag { background: #ede9fe; }
</style>
</head>
<body class="template-{{.Template}}{{if .Paged}} paged{{end}}">
{{range .Pages}}<section class="page" data-page="{{.Number}}">
{{range .Nodes}}{{template "node" .}}
{{end}}</section>
{{end}}</body>
</html>
`

var htmlTemplate = template.Must(template.New("resume").Parse(htmlLayout))

type htmlData struct {
	Title    string
	Template string
	Paged    bool
	Pages    []Page
}

// HTML renders the whole tree as one continuous HTML page
func HTML(tree *DisplayTree) (string, error) {
	return executeHTML(htmlData{
		Title:    documentTitle(tree.Blocks()),
		Template: string(tree.Template),
		Pages:    []Page{{Number: 1, Nodes: tree.Blocks()}},
	})
}

// HTMLPages renders pages as A4 sections with a page break after each one
func HTMLPages(tree *DisplayTree, pages []Page) (string, error) {
	var title string
	if len(pages) > 0 {
		title = documentTitle(pages[0].Nodes)
	}
	return executeHTML(htmlData{
		Title:    title,
		Template: string(tree.Template),
		Paged:    true,
		Pages:    pages,
	})
}

func executeHTML(data htmlData) (string, error) {
	var b strings.Builder
	if err := htmlTemplate.Execute(&b, data); err != nil {
		return "", &TemplateError{Message: "failed to execute html template", Cause: err}
	}
	return b.String(), nil
}

func documentTitle(blocks []*Node) string {
	for _, f := range NodeFields(blocks...) {
		if f.Field == "personal.fullName" {
			return f.Text + " - Resume"
		}
	}
	return "Resume"
}
