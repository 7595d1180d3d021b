package export

import (
	"fmt"
	"strings"

	"github.com/jonathan/resume-builder/internal/rendering"
)

// Page is one fixed-size unit of exported output
type Page = rendering.Page

// PageSpec is the size of a page in text rows and characters per row
type PageSpec struct {
	Lines        int `json:"lines"`
	CharsPerLine int `json:"charsPerLine"`
}

// DefaultPageSpec approximates an A4 page at the HTML encoder's type size
var DefaultPageSpec = PageSpec{Lines: 56, CharsPerLine: 90}

// Validate checks the page is large enough to lay out a resume
func (s PageSpec) Validate() error {
	if s.Lines < 10 || s.CharsPerLine < 20 {
		return fmt.Errorf("page spec %dx%d is too small (minimum 10 lines x 20 chars)", s.Lines, s.CharsPerLine)
	}
	return nil
}

// Paginate flows the tree's blocks into pages. Pages break between blocks; a
// section heading stays with the start of its first entry; an entry taller than a
// whole page has its paragraphs split on line boundaries. A block that cannot fit
// on an empty page even after splitting is an ExportFailedError.
func Paginate(tree *rendering.DisplayTree, spec PageSpec) ([]Page, error) {
	if tree == nil || tree.Root == nil {
		return nil, failed(nil, "nothing to paginate")
	}
	if err := spec.Validate(); err != nil {
		return nil, failed(err, "invalid page size")
	}

	p := &paginator{spec: spec, layout: tree.Layout}
	blocks := tree.Blocks()
	for i, block := range blocks {
		h := p.height(block)

		if block.Kind == rendering.KindHeading {
			if h > spec.Lines {
				return nil, failed(nil, "heading %q needs %d lines but a page holds %d", block.Text, h, spec.Lines)
			}
			need := h
			if i+1 < len(blocks) && blocks[i+1].Kind == rendering.KindEntry {
				next := blocks[i+1]
				if nh := p.height(next); h+nh <= spec.Lines {
					need += nh
				} else {
					need += p.head(next) + p.layout.EntryGap
				}
			}
			if p.used > 0 && p.used+need > spec.Lines {
				p.newPage()
			}
			p.place(block, h)
			continue
		}

		switch {
		case p.used+h <= spec.Lines:
			p.place(block, h)
		case h <= spec.Lines:
			p.newPage()
			p.place(block, h)
		default:
			if err := p.split(block); err != nil {
				return nil, err
			}
		}
	}
	p.newPage()

	return p.pages, nil
}

type paginator struct {
	spec    PageSpec
	layout  rendering.Layout
	pages   []Page
	current []*rendering.Node
	used    int
}

func (p *paginator) height(n *rendering.Node) int {
	return rendering.Height(n, p.layout, p.spec.CharsPerLine)
}

func (p *paginator) place(n *rendering.Node, rows int) {
	p.current = append(p.current, n)
	p.used += rows
}

func (p *paginator) newPage() {
	if len(p.current) > 0 {
		p.pages = append(p.pages, Page{Number: len(p.pages) + 1, Nodes: p.current})
	}
	p.current = nil
	p.used = 0
}

// head is the number of rows an entry needs before its first paragraph can start
func (p *paginator) head(entry *rendering.Node) int {
	rows := 0
	for _, c := range entry.Children {
		if splittable(c) {
			return rows + 1
		}
		rows += p.height(c)
	}
	return rows
}

func splittable(n *rendering.Node) bool {
	return n.Kind == rendering.KindText
}

// split places an oversized entry across pages. Fixed lines move whole; paragraphs
// break between wrapped lines. Each part reserves room for the entry gap.
func (p *paginator) split(entry *rendering.Node) error {
	if entry.Kind != rendering.KindEntry {
		return failed(nil, "%s block needs %d lines but a page holds %d", entry.Kind, p.height(entry), p.spec.Lines)
	}

	capacity := p.spec.Lines - p.layout.EntryGap
	if head := p.head(entry); head > capacity {
		return failed(nil, "%s entry header needs %d lines but a page holds %d", entry.Class, head, capacity)
	} else if p.used > 0 && p.used+head > capacity {
		p.newPage()
	}

	part := &rendering.Node{Kind: entry.Kind, Class: entry.Class, Continued: entry.Continued}
	flush := func() {
		if len(part.Children) > 0 {
			p.place(part, p.layout.EntryGap)
		}
		p.newPage()
		part = &rendering.Node{Kind: entry.Kind, Class: entry.Class, Continued: true}
	}

	for _, c := range entry.Children {
		if !splittable(c) {
			h := p.height(c)
			if h > capacity {
				return failed(nil, "%s line needs %d lines but a page holds %d", entry.Class, h, capacity)
			}
			if p.used+h > capacity {
				flush()
			}
			part.Children = append(part.Children, c)
			p.used += h
			continue
		}

		lines := rendering.Wrap(c.Text, p.spec.CharsPerLine)
		fragment := 0
		for len(lines) > 0 {
			room := capacity - p.used
			take, rows := 0, 0
			for take < len(lines) {
				r := rendering.Rows(lines[take], p.spec.CharsPerLine)
				if rows+r > room {
					break
				}
				rows += r
				take++
			}
			if take == 0 {
				if p.used == 0 {
					return failed(nil, "a line of %s needs more than %d rows", c.Field, capacity)
				}
				flush()
				continue
			}
			part.Children = append(part.Children, &rendering.Node{
				Kind:      c.Kind,
				Class:     c.Class,
				Field:     c.Field,
				Text:      strings.Join(lines[:take], "\n"),
				Continued: fragment > 0,
			})
			fragment++
			p.used += rows
			lines = lines[take:]
		}
	}

	if len(part.Children) > 0 {
		p.place(part, p.layout.EntryGap)
	}
	return nil
}
