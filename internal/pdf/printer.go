// Package pdf prints HTML to PDF with headless Chrome and inspects the result.
package pdf

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	pdfreader "github.com/ledongthuc/pdf"
)

// A4 paper size in inches
const (
	A4Width  = 8.27
	A4Height = 11.69
)

// DefaultTimeout bounds a single print job
const DefaultTimeout = 60 * time.Second

// Printer renders HTML documents to PDF. Requires Chrome/Chromium on the system.
type Printer struct {
	ExecPath string
	Timeout  time.Duration
	Logger   *slog.Logger
}

// NewPrinter creates a printer. An empty execPath lets chromedp locate Chrome.
func NewPrinter(execPath string, timeout time.Duration, logger *slog.Logger) *Printer {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Printer{ExecPath: execPath, Timeout: timeout, Logger: logger}
}

// Print loads html into a blank tab and prints it on A4 with no margins, header, or footer.
// Page breaks come from the document's CSS.
func (p *Printer) Print(ctx context.Context, html string) ([]byte, error) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
	)
	if p.ExecPath != "" {
		opts = append(opts, chromedp.ExecPath(p.ExecPath))
	}

	allocCtx, cancel := chromedp.NewExecAllocator(ctx, opts...)
	defer cancel()

	browserCtx, cancel := chromedp.NewContext(allocCtx)
	defer cancel()

	browserCtx, cancel = context.WithTimeout(browserCtx, p.Timeout)
	defer cancel()

	started := time.Now()
	var data []byte
	err := chromedp.Run(browserCtx,
		chromedp.Navigate("about:blank"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			tree, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return fmt.Errorf("get frame tree: %w", err)
			}
			return page.SetDocumentContent(tree.Frame.ID, html).Do(ctx)
		}),
		chromedp.WaitReady("body"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			buf, _, err := page.PrintToPDF().
				WithPrintBackground(true).
				WithPreferCSSPageSize(true).
				WithPaperWidth(A4Width).
				WithPaperHeight(A4Height).
				WithMarginTop(0).
				WithMarginBottom(0).
				WithMarginLeft(0).
				WithMarginRight(0).
				WithDisplayHeaderFooter(false).
				Do(ctx)
			if err != nil {
				return err
			}
			data = buf
			return nil
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("print to pdf failed: %w", err)
	}

	p.Logger.Debug("printed pdf", slog.Int("bytes", len(data)), slog.Duration("elapsed", time.Since(started)))
	return data, nil
}

// CountPages returns the number of pages in a PDF document
func CountPages(data []byte) (int, error) {
	reader, err := pdfreader.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return 0, fmt.Errorf("failed to read pdf: %w", err)
	}
	return reader.NumPage(), nil
}
