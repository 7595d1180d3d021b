package export

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/resume-builder/internal/document"
	"github.com/jonathan/resume-builder/internal/storage"
	"github.com/jonathan/resume-builder/internal/types"
)

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

// blockingEncoder holds every Encode call until release is closed
type blockingEncoder struct {
	format  string
	calls   atomic.Int32
	started chan struct{}
	release chan struct{}
}

func newBlockingEncoder(format string) *blockingEncoder {
	return &blockingEncoder{format: format, started: make(chan struct{}, 8), release: make(chan struct{})}
}

func (b *blockingEncoder) Format() string      { return b.format }
func (b *blockingEncoder) Extension() string   { return b.format }
func (b *blockingEncoder) ContentType() string { return "application/octet-stream" }

func (b *blockingEncoder) Encode(_ context.Context, r *Result) ([]byte, error) {
	b.calls.Add(1)
	b.started <- struct{}{}
	<-b.release
	return []byte(b.format), nil
}

type failingEncoder struct{}

func (failingEncoder) Format() string      { return "broken" }
func (failingEncoder) Extension() string   { return "bin" }
func (failingEncoder) ContentType() string { return "application/octet-stream" }
func (failingEncoder) Encode(context.Context, *Result) ([]byte, error) {
	return nil, errors.New("disk full")
}

func TestExporter_TextExport(t *testing.T) {
	ex := NewExporter(Options{Logger: discard})

	artifact, err := ex.Export(context.Background(), Request{Key: "s1", Document: longDoc(), Format: "TEXT"})
	require.NoError(t, err)

	assert.Equal(t, "Grace_Hopper_resume.txt", artifact.Filename)
	assert.Equal(t, FormatText, artifact.Format)
	assert.Equal(t, types.TemplateModern, artifact.Template)
	assert.GreaterOrEqual(t, artifact.Pages, 2)
	assert.Contains(t, string(artifact.Data), "--- page 1 of")
	assert.Contains(t, string(artifact.Data), "Grace Hopper")
	assert.Empty(t, artifact.Location)
}

func TestExporter_Formats(t *testing.T) {
	ex := NewExporter(Options{Logger: discard})
	assert.Equal(t, []string{FormatHTML, FormatLaTeX, FormatText}, ex.Formats())
}

func TestExporter_Failures(t *testing.T) {
	tests := []struct {
		name   string
		doc    types.ResumeDocument
		tmpl   types.TemplateID
		format string
	}{
		{name: "unknown format", doc: readyDoc(), format: "docx"},
		{name: "incomplete document", doc: document.New(), format: FormatText},
		{name: "unknown template", doc: readyDoc(), tmpl: "gothic", format: FormatText},
		{name: "encoder error", doc: readyDoc(), format: "broken"},
	}

	ex := NewExporter(Options{
		Encoders: NewEncoders(TextEncoder{}, failingEncoder{}),
		Logger:   discard,
	})
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			artifact, err := ex.Export(context.Background(), Request{Key: "k", Document: tt.doc, Template: tt.tmpl, Format: tt.format})
			assert.Nil(t, artifact)
			assert.True(t, IsExportFailed(err), "got %v", err)
		})
	}
}

func TestExporter_CoalescesIdenticalRequests(t *testing.T) {
	enc := newBlockingEncoder("slow")
	ex := NewExporter(Options{Encoders: NewEncoders(enc), Logger: discard})
	req := Request{Key: "session", Document: readyDoc(), Format: "slow"}

	var wg sync.WaitGroup
	results := make([]*Artifact, 2)
	errs := make([]error, 2)

	wg.Add(1)
	go func() {
		defer wg.Done()
		results[0], errs[0] = ex.Export(context.Background(), req)
	}()
	<-enc.started

	wg.Add(1)
	go func() {
		defer wg.Done()
		results[1], errs[1] = ex.Export(context.Background(), req)
	}()
	require.Eventually(t, func() bool { return ex.waiting.Load() == 2 }, time.Second, time.Millisecond)
	time.Sleep(20 * time.Millisecond)
	close(enc.release)
	wg.Wait()

	require.NoError(t, errs[0])
	require.NoError(t, errs[1])
	assert.Equal(t, int32(1), enc.calls.Load())
	assert.Same(t, results[0], results[1])
}

func TestExporter_EditedDocumentIsNotCoalesced(t *testing.T) {
	enc := newBlockingEncoder("slow")
	ex := NewExporter(Options{Encoders: NewEncoders(enc), Logger: discard})
	before := readyDoc()
	after, err := document.SetField(before, types.SectionPersonal, "fullName", "Grace Brewster Hopper")
	require.NoError(t, err)

	var wg sync.WaitGroup
	results := make([]*Artifact, 2)
	errs := make([]error, 2)

	wg.Add(1)
	go func() {
		defer wg.Done()
		results[0], errs[0] = ex.Export(context.Background(), Request{Key: "session", Document: before, Format: "slow"})
	}()
	<-enc.started

	wg.Add(1)
	go func() {
		defer wg.Done()
		results[1], errs[1] = ex.Export(context.Background(), Request{Key: "session", Document: after, Format: "slow"})
	}()
	require.Eventually(t, func() bool { return ex.waiting.Load() == 2 }, time.Second, time.Millisecond)
	close(enc.release)
	wg.Wait()

	require.NoError(t, errs[0])
	require.NoError(t, errs[1])
	assert.Equal(t, int32(2), enc.calls.Load())
	assert.Equal(t, "Grace_Hopper_resume.slow", results[0].Filename)
	assert.Equal(t, "Grace_Brewster_Hopper_resume.slow", results[1].Filename)
}

func TestExporter_RunsOneExportAtATime(t *testing.T) {
	first := newBlockingEncoder("first")
	second := newBlockingEncoder("second")
	ex := NewExporter(Options{Encoders: NewEncoders(first, second), Logger: discard})

	var wg sync.WaitGroup
	for _, format := range []string{"first", "second"} {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := ex.Export(context.Background(), Request{Key: "s", Document: readyDoc(), Format: format})
			assert.NoError(t, err)
		}()
	}

	require.Eventually(t, func() bool { return ex.waiting.Load() == 2 }, time.Second, time.Millisecond)
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, int32(1), first.calls.Load()+second.calls.Load(), "second export waits for the first")

	close(first.release)
	close(second.release)
	wg.Wait()

	assert.Equal(t, int32(1), first.calls.Load())
	assert.Equal(t, int32(1), second.calls.Load())
}

func TestExporter_FileSink(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	ex := NewExporter(Options{Sink: FileSink{Dir: dir}, Logger: discard})

	artifact, err := ex.Export(context.Background(), Request{Key: "s", Document: readyDoc(), Template: types.TemplateClassic, Format: FormatHTML})
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "Grace_Hopper_resume.html"), artifact.Location)
	written, err := os.ReadFile(artifact.Location)
	require.NoError(t, err)
	assert.Equal(t, artifact.Data, written)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no temp files left behind")
}

type fakePutter struct {
	names []string
	err   error
}

func (f *fakePutter) PutArtifact(_ context.Context, name string, data []byte, contentType string) (*storage.ObjectMeta, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.names = append(f.names, name)
	return &storage.ObjectMeta{Key: "exports/" + name, Size: int64(len(data)), ETag: "etag"}, nil
}

func TestExporter_ObjectSink(t *testing.T) {
	putter := &fakePutter{}
	ex := NewExporter(Options{Sink: ObjectSink{Objects: putter}, Logger: discard})

	artifact, err := ex.Export(context.Background(), Request{Key: "s", Document: readyDoc(), Format: FormatLaTeX})
	require.NoError(t, err)
	assert.Equal(t, "exports/Grace_Hopper_resume.tex", artifact.Location)
	assert.Equal(t, []string{"Grace_Hopper_resume.tex"}, putter.names)

	putter.err = errors.New("bucket gone")
	_, err = ex.Export(context.Background(), Request{Key: "s", Document: readyDoc(), Format: FormatLaTeX})
	assert.True(t, IsExportFailed(err))
}

type fakePrinter struct {
	html string
	err  error
}

func (p *fakePrinter) Print(_ context.Context, html string) ([]byte, error) {
	p.html = html
	return []byte("%PDF-fake"), p.err
}

func TestPDFEncoder(t *testing.T) {
	result, err := Build(longDoc(), types.TemplateElegant, DefaultPageSpec)
	require.NoError(t, err)
	pages := len(result.Pages)

	tests := []struct {
		name    string
		printer *fakePrinter
		count   func([]byte) (int, error)
		wantErr string
	}{
		{name: "page count matches", printer: &fakePrinter{}, count: func([]byte) (int, error) { return pages, nil }},
		{name: "no verification", printer: &fakePrinter{}},
		{name: "page count differs", printer: &fakePrinter{}, count: func([]byte) (int, error) { return pages + 1, nil }, wantErr: "printed"},
		{name: "unreadable output", printer: &fakePrinter{}, count: func([]byte) (int, error) { return 0, errors.New("bad xref") }, wantErr: "verify printed pages"},
		{name: "printer error", printer: &fakePrinter{err: errors.New("chrome crashed")}, wantErr: "chrome crashed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			enc := PDFEncoder{Printer: tt.printer, CountPages: tt.count}
			data, err := enc.Encode(context.Background(), result)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, []byte("%PDF-fake"), data)
			assert.Equal(t, pages, strings.Count(tt.printer.html, `class="page"`))
		})
	}
}

func TestEncoders_Lookup(t *testing.T) {
	encoders := NewEncoders(TextEncoder{}, HTMLEncoder{})

	e, err := encoders.Lookup(" Html ")
	require.NoError(t, err)
	assert.Equal(t, "html", e.Extension())

	_, err = encoders.Lookup("pdf")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "available: html, text")
}
