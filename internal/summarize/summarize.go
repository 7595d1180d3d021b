// Package summarize drafts a short professional summary from free text using a
// hosted model. The result is only a suggestion; callers apply it to the document
// themselves.
package summarize

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/jonathan/resume-builder/internal/config"
)

// DefaultTimeout bounds one summarization request
const DefaultTimeout = 30 * time.Second

// Summarizer condenses text into a short summary
type Summarizer interface {
	Summarize(ctx context.Context, text string) (string, error)
}

// New returns the summarizer selected by cfg. The "none" provider returns a
// summarizer that always reports itself unavailable.
func New(ctx context.Context, cfg config.SummarizeConfig) (Summarizer, error) {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	switch cfg.Provider {
	case config.ProviderHuggingFace:
		return NewHuggingFaceClient(cfg.HFModelURL, cfg.HFToken, timeout), nil
	case config.ProviderGemini:
		return NewGeminiClient(ctx, cfg.GeminiAPIKey, timeout)
	case config.ProviderNone, "":
		return Disabled{}, nil
	default:
		return nil, fmt.Errorf("unknown summarize provider %q", cfg.Provider)
	}
}

// Disabled is the summarizer used when no provider is configured
type Disabled struct{}

func (Disabled) Summarize(_ context.Context, text string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", ErrEmptyInput
	}
	return "", &UnavailableError{Provider: "none", Message: "no summarize provider configured"}
}

// PlainText prepares input for a provider. Pasted HTML is reduced to its visible
// text; whitespace is collapsed line by line and blank lines dropped.
func PlainText(input string) (string, error) {
	text := input
	if looksLikeHTML(input) {
		doc, err := goquery.NewDocumentFromReader(strings.NewReader(input))
		if err != nil {
			return "", fmt.Errorf("failed to parse HTML: %w", err)
		}
		doc.Find("script, style, noscript, nav, footer").Remove()
		doc.Find("br, p, li, div, h1, h2, h3, h4").Each(func(_ int, s *goquery.Selection) {
			s.AppendHtml("\n")
		})
		text = doc.Find("body").Text()
	}

	var lines []string
	for _, line := range strings.Split(text, "\n") {
		if line = strings.Join(strings.Fields(line), " "); line != "" {
			lines = append(lines, line)
		}
	}
	if len(lines) == 0 {
		return "", ErrEmptyInput
	}
	return strings.Join(lines, "\n"), nil
}

func looksLikeHTML(s string) bool {
	s = strings.TrimSpace(s)
	return strings.HasPrefix(s, "<") && strings.Contains(s, ">")
}
