package rendering

import (
	"strings"
	"unicode/utf8"
)

// Wrap breaks text into lines of at most width runes at word boundaries, keeping
// explicit line breaks. A word longer than width stays whole on its own line.
func Wrap(text string, width int) []string {
	if width < 1 {
		width = 1
	}
	var lines []string
	for _, paragraph := range strings.Split(text, "\n") {
		words := strings.Fields(paragraph)
		if len(words) == 0 {
			lines = append(lines, "")
			continue
		}
		current := words[0]
		for _, w := range words[1:] {
			if utf8.RuneCountInString(current)+1+utf8.RuneCountInString(w) > width {
				lines = append(lines, current)
				current = w
				continue
			}
			current += " " + w
		}
		lines = append(lines, current)
	}
	return lines
}

// Rows is the number of output rows a wrapped line occupies
func Rows(line string, width int) int {
	if width < 1 {
		width = 1
	}
	n := utf8.RuneCountInString(line)
	if n <= width {
		return 1
	}
	return (n + width - 1) / width
}

// TotalRows sums Rows over lines
func TotalRows(lines []string, width int) int {
	total := 0
	for _, l := range lines {
		total += Rows(l, width)
	}
	return total
}

// Height is the number of rows a block occupies when written at the given width.
// The text encoder writes exactly this many rows per block.
func Height(n *Node, layout Layout, width int) int {
	switch n.Kind {
	case KindHeading:
		return layout.HeadingRows()
	case KindHeader:
		rows := 0
		for _, c := range n.Children {
			rows += Height(c, layout, width)
		}
		return rows
	case KindEntry:
		rows := 0
		for _, c := range n.Children {
			rows += Height(c, layout, width)
		}
		return rows + layout.EntryGap
	case KindText:
		return TotalRows(Wrap(n.Text, width), width)
	default:
		return TotalRows(Wrap(LineText(n, layout), width), width)
	}
}
