package export

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/jonathan/resume-builder/internal/rendering"
)

// Supported formats
const (
	FormatText  = "text"
	FormatLaTeX = "latex"
	FormatHTML  = "html"
	FormatPDF   = "pdf"
)

// Encoder turns a paginated result into a downloadable file
type Encoder interface {
	Format() string
	Extension() string
	ContentType() string
	Encode(ctx context.Context, result *Result) ([]byte, error)
}

// TextEncoder writes pages as plain text with page markers
type TextEncoder struct{}

func (TextEncoder) Format() string      { return FormatText }
func (TextEncoder) Extension() string   { return "txt" }
func (TextEncoder) ContentType() string { return "text/plain; charset=utf-8" }

func (TextEncoder) Encode(_ context.Context, r *Result) ([]byte, error) {
	return []byte(rendering.TextPages(r.Tree.Layout, r.Pages, r.Spec.CharsPerLine)), nil
}

// LaTeXEncoder writes LaTeX source, optionally through a custom template file
type LaTeXEncoder struct {
	TemplatePath string
}

func (LaTeXEncoder) Format() string      { return FormatLaTeX }
func (LaTeXEncoder) Extension() string   { return "tex" }
func (LaTeXEncoder) ContentType() string { return "application/x-tex" }

func (e LaTeXEncoder) Encode(_ context.Context, r *Result) ([]byte, error) {
	out, err := rendering.RenderLaTeX(r.Tree.Layout, r.Pages, e.TemplatePath)
	if err != nil {
		return nil, err
	}
	return []byte(out), nil
}

// HTMLEncoder writes a print-ready HTML document with one A4 section per page
type HTMLEncoder struct{}

func (HTMLEncoder) Format() string      { return FormatHTML }
func (HTMLEncoder) Extension() string   { return "html" }
func (HTMLEncoder) ContentType() string { return "text/html; charset=utf-8" }

func (HTMLEncoder) Encode(_ context.Context, r *Result) ([]byte, error) {
	out, err := rendering.HTMLPages(r.Tree, r.Pages)
	if err != nil {
		return nil, err
	}
	return []byte(out), nil
}

// Printer prints HTML to PDF and counts pages of the output
type Printer interface {
	Print(ctx context.Context, html string) ([]byte, error)
}

// PDFEncoder prints the paged HTML and checks the printed page count
type PDFEncoder struct {
	Printer    Printer
	CountPages func([]byte) (int, error)
}

func (PDFEncoder) Format() string      { return FormatPDF }
func (PDFEncoder) Extension() string   { return "pdf" }
func (PDFEncoder) ContentType() string { return "application/pdf" }

func (e PDFEncoder) Encode(ctx context.Context, r *Result) ([]byte, error) {
	html, err := rendering.HTMLPages(r.Tree, r.Pages)
	if err != nil {
		return nil, err
	}
	data, err := e.Printer.Print(ctx, html)
	if err != nil {
		return nil, err
	}
	if e.CountPages != nil {
		count, err := e.CountPages(data)
		if err != nil {
			return nil, fmt.Errorf("verify printed pages: %w", err)
		}
		if count != len(r.Pages) {
			return nil, fmt.Errorf("printed %d pages, expected %d", count, len(r.Pages))
		}
	}
	return data, nil
}

// Encoders indexes encoders by format name
type Encoders map[string]Encoder

// NewEncoders builds the registry from the given encoders
func NewEncoders(encoders ...Encoder) Encoders {
	m := make(Encoders, len(encoders))
	for _, e := range encoders {
		m[e.Format()] = e
	}
	return m
}

// Lookup returns the encoder for format
func (m Encoders) Lookup(format string) (Encoder, error) {
	e, ok := m[strings.ToLower(strings.TrimSpace(format))]
	if !ok {
		return nil, fmt.Errorf("unsupported format %q (available: %s)", format, strings.Join(m.Formats(), ", "))
	}
	return e, nil
}

// Formats returns the registered format names, sorted
func (m Encoders) Formats() []string {
	formats := make([]string, 0, len(m))
	for f := range m {
		formats = append(formats, f)
	}
	sort.Strings(formats)
	return formats
}
