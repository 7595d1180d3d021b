package rendering

import (
	"strings"

	"github.com/jonathan/resume-builder/internal/types"
)

// NodeKind identifies the role of a node in the display tree
type NodeKind string

// Node kinds
const (
	KindDocument NodeKind = "document"
	KindHeader   NodeKind = "header"
	KindSection  NodeKind = "section"
	KindHeading  NodeKind = "heading"
	KindEntry    NodeKind = "entry"
	KindLine     NodeKind = "line"
	KindText     NodeKind = "text"
	KindList     NodeKind = "list"
	KindItem     NodeKind = "item"
)

// Node is one element of a display tree. Text and item nodes that show document
// content carry the field path they came from; separators and built-in headings do not.
type Node struct {
	Kind      NodeKind `json:"kind"`
	Class     string   `json:"class,omitempty"`
	Field     string   `json:"field,omitempty"`
	Text      string   `json:"text,omitempty"`
	Continued bool     `json:"continued,omitempty"`
	Children  []*Node  `json:"children,omitempty"`
}

// DisplayTree is the rendered form of a document under one template
type DisplayTree struct {
	Template types.TemplateID `json:"template"`
	Layout   Layout           `json:"-"`
	Root     *Node            `json:"root"`
}

// FieldText is one visible field with the text shown for it
type FieldText struct {
	Field string `json:"field"`
	Text  string `json:"text"`
}

// Page is one fixed-size unit of output. Nodes are header, heading, and entry blocks.
type Page struct {
	Number int     `json:"number"`
	Nodes  []*Node `json:"nodes"`
}

// Blocks flattens the tree into the sequence of blocks that pagination flows:
// the header, then each section's heading followed by its entries.
func (t *DisplayTree) Blocks() []*Node {
	if t == nil || t.Root == nil {
		return nil
	}
	var blocks []*Node
	for _, child := range t.Root.Children {
		switch child.Kind {
		case KindSection:
			blocks = append(blocks, child.Children...)
		default:
			blocks = append(blocks, child)
		}
	}
	return blocks
}

// VisibleFields returns every field-tagged node in pre-order
func VisibleFields(tree *DisplayTree) []FieldText {
	if tree == nil {
		return nil
	}
	return NodeFields(tree.Root)
}

// NodeFields returns the field-tagged descendants of the given nodes in pre-order
func NodeFields(nodes ...*Node) []FieldText {
	var out []FieldText
	var walk func(n *Node)
	walk = func(n *Node) {
		if n == nil {
			return
		}
		if n.Field != "" {
			out = append(out, FieldText{Field: n.Field, Text: n.Text})
		}
		for _, c := range n.Children {
			walk(c)
		}
	}
	for _, n := range nodes {
		walk(n)
	}
	return out
}

// ContainsText reports whether any node in the tree shows text exactly equal to s
func ContainsText(tree *DisplayTree, s string) bool {
	for _, f := range VisibleFields(tree) {
		if f.Text == s {
			return true
		}
	}
	return false
}

// LineText is the single-line text of a node: a line concatenates its children,
// a list joins its items, anything else returns its own text.
func LineText(n *Node, layout Layout) string {
	switch n.Kind {
	case KindLine:
		var b strings.Builder
		for _, c := range n.Children {
			b.WriteString(c.Text)
		}
		return b.String()
	case KindList:
		items := make([]string, 0, len(n.Children))
		for _, c := range n.Children {
			items = append(items, layout.TagPrefix+c.Text)
		}
		return strings.Join(items, "  ")
	default:
		return n.Text
	}
}

func textNode(field, text, class string) *Node {
	return &Node{Kind: KindText, Field: field, Text: text, Class: class}
}

func sep(text string) *Node {
	return &Node{Kind: KindText, Text: text, Class: "sep"}
}
