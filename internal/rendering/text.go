package rendering

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// DefaultTextWidth is the terminal preview width
const DefaultTextWidth = 90

// Text writes the whole tree as plain text, wrapped at width
func Text(tree *DisplayTree, width int) string {
	return TextPages(tree.Layout, []Page{{Number: 1, Nodes: tree.Blocks()}}, width)
}

// TextPages writes pages as plain text separated by page markers
func TextPages(layout Layout, pages []Page, width int) string {
	w := &textWriter{layout: layout, width: width}
	for i, page := range pages {
		if i > 0 {
			w.b.WriteString(fmt.Sprintf("\n--- page %d of %d ---\n\n", page.Number, len(pages)))
		}
		for _, n := range page.Nodes {
			w.block(n)
		}
	}
	return w.b.String()
}

type textWriter struct {
	b      strings.Builder
	layout Layout
	width  int
}

func (w *textWriter) block(n *Node) {
	switch n.Kind {
	case KindHeader:
		for _, c := range n.Children {
			for _, l := range Wrap(LineText(c, w.layout), w.width) {
				w.row(l, w.layout.HeaderCentered)
			}
		}
	case KindHeading:
		w.b.WriteString("\n")
		w.row(n.Text, false)
		if w.layout.Heading == HeadingRule {
			w.row(strings.Repeat("-", min(utf8.RuneCountInString(n.Text), w.width)), false)
		}
	case KindEntry:
		for _, c := range n.Children {
			text := LineText(c, w.layout)
			if c.Kind == KindText {
				text = c.Text
			}
			for _, l := range Wrap(text, w.width) {
				w.row(l, false)
			}
		}
		for range w.layout.EntryGap {
			w.b.WriteString("\n")
		}
	default:
		for _, l := range Wrap(LineText(n, w.layout), w.width) {
			w.row(l, false)
		}
	}
}

// row writes one wrapped line, hard-breaking words longer than the width
func (w *textWriter) row(line string, centered bool) {
	runes := []rune(line)
	for {
		chunk := runes
		if len(chunk) > w.width {
			chunk = runes[:w.width]
		}
		text := string(chunk)
		if centered {
			if pad := (w.width - len(chunk)) / 2; pad > 0 {
				text = strings.Repeat(" ", pad) + text
			}
		}
		w.b.WriteString(strings.TrimRight(text, " "))
		w.b.WriteString("\n")
		runes = runes[len(chunk):]
		if len(runes) == 0 {
			return
		}
	}
}
