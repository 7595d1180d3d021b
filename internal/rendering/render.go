package rendering

import (
	"github.com/jonathan/resume-builder/internal/types"
)

// Render projects doc and arranges it with the template named by id
func Render(doc types.ResumeDocument, id types.TemplateID) (*DisplayTree, error) {
	tmpl, err := Lookup(id)
	if err != nil {
		return nil, err
	}
	return tmpl.Render(Project(doc)), nil
}

// Render arranges projected content with the template's layout
func (t Template) Render(content Content) *DisplayTree {
	l := t.Layout
	root := &Node{Kind: KindDocument, Class: string(t.ID)}
	root.Children = append(root.Children, l.header(content))

	for _, key := range l.Order {
		for _, section := range content.SectionsFor(key) {
			root.Children = append(root.Children, l.section(section))
		}
	}
	return &DisplayTree{Template: t.ID, Layout: l, Root: root}
}

func (l Layout) header(c Content) *Node {
	class := "header"
	if l.HeaderCentered {
		class = "header centered"
	}
	header := &Node{Kind: KindHeader, Class: class}
	if c.Name != nil {
		header.Children = append(header.Children, line("name", textNode(c.Name.Field, c.Name.Text, "name")))
	}
	if c.Title != nil {
		header.Children = append(header.Children, line("title", textNode(c.Title.Field, c.Title.Text, "title")))
	}
	if len(c.Contacts) > 0 {
		header.Children = append(header.Children, line("contacts", joinFields(c.Contacts, l.ContactSeparator, "contact")...))
	}
	return header
}

func (l Layout) section(s Section) *Node {
	node := &Node{Kind: KindSection, Class: s.Key}
	heading := &Node{Kind: KindHeading, Class: s.Key, Text: l.headingText(s.Title)}
	if s.Heading != nil {
		heading.Field = s.Heading.Field
		heading.Text = s.Heading.Text
	}
	node.Children = append(node.Children, heading)

	for _, b := range s.Blocks {
		node.Children = append(node.Children, l.entry(s.Key, b))
	}
	return node
}

func (l Layout) entry(key string, b Block) *Node {
	entry := &Node{Kind: KindEntry, Class: key}

	meta := l.metaNodes(b)
	switch {
	case l.MetaInline && len(b.Headline) > 0 && len(meta) > 0:
		children := append(joinFields(b.Headline, ", ", "headline"), sep("  |  "))
		entry.Children = append(entry.Children, line("headline", append(children, meta...)...))
	default:
		if len(b.Headline) > 0 {
			entry.Children = append(entry.Children, line("headline", joinFields(b.Headline, ", ", "headline")...))
		}
		if len(meta) > 0 {
			entry.Children = append(entry.Children, line("meta", meta...))
		}
	}

	if len(b.Items) > 0 {
		entry.Children = append(entry.Children, l.items(b.Items))
	}
	for _, body := range b.Body {
		entry.Children = append(entry.Children, textNode(body.Field, body.Text, "body"))
	}
	return entry
}

// metaNodes joins the date range and the remaining meta fields
func (l Layout) metaNodes(b Block) []*Node {
	var nodes []*Node
	if len(b.Dates) > 0 {
		nodes = append(nodes, joinFields(b.Dates, " - ", "date")...)
	}
	if len(b.Meta) > 0 {
		if len(nodes) > 0 {
			nodes = append(nodes, sep(" | "))
		}
		nodes = append(nodes, joinFields(b.Meta, " | ", "meta")...)
	}
	return nodes
}

func (l Layout) items(items []FieldText) *Node {
	if l.Skills == SkillsInline {
		return line("skills", joinFields(items, l.SkillSeparator, "skill")...)
	}
	list := &Node{Kind: KindList, Class: "tags"}
	for _, it := range items {
		list.Children = append(list.Children, &Node{Kind: KindItem, Field: it.Field, Text: it.Text, Class: "tag"})
	}
	return list
}

func line(class string, children ...*Node) *Node {
	return &Node{Kind: KindLine, Class: class, Children: children}
}

func joinFields(fields []FieldText, separator, class string) []*Node {
	nodes := make([]*Node, 0, len(fields)*2)
	for i, f := range fields {
		if i > 0 {
			nodes = append(nodes, sep(separator))
		}
		nodes = append(nodes, textNode(f.Field, f.Text, class))
	}
	return nodes
}
