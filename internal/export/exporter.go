package export

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/jonathan/resume-builder/internal/metrics"
	"github.com/jonathan/resume-builder/internal/types"
)

// DefaultTimeout bounds one export including encoding
const DefaultTimeout = 60 * time.Second

// Request asks for one export of a session's document
type Request struct {
	Key      string
	Document types.ResumeDocument
	Template types.TemplateID
	Format   string
}

// Artifact is an encoded export ready for download
type Artifact struct {
	Filename    string           `json:"filename"`
	ContentType string           `json:"contentType"`
	Format      string           `json:"format"`
	Template    types.TemplateID `json:"template"`
	Pages       int              `json:"pages"`
	Location    string           `json:"location,omitempty"`
	Data        []byte           `json:"-"`
}

// Options configures an Exporter
type Options struct {
	Spec     PageSpec
	Encoders Encoders
	Sink     ArtifactSink
	Timeout  time.Duration
	Logger   *slog.Logger
}

// Exporter runs exports one at a time. Identical requests arriving while one is in
// flight share its result instead of running again.
type Exporter struct {
	spec     PageSpec
	encoders Encoders
	sink     ArtifactSink
	timeout  time.Duration
	logger   *slog.Logger

	group   singleflight.Group
	runMu   sync.Mutex
	waiting atomic.Int32
}

// NewExporter creates an exporter. Zero options fall back to the text, LaTeX and HTML
// encoders at the default page size.
func NewExporter(opts Options) *Exporter {
	if opts.Spec == (PageSpec{}) {
		opts.Spec = DefaultPageSpec
	}
	if opts.Encoders == nil {
		opts.Encoders = NewEncoders(TextEncoder{}, LaTeXEncoder{}, HTMLEncoder{})
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &Exporter{
		spec:     opts.Spec,
		encoders: opts.Encoders,
		sink:     opts.Sink,
		timeout:  opts.Timeout,
		logger:   opts.Logger,
	}
}

// Formats lists the formats this exporter can produce
func (e *Exporter) Formats() []string {
	return e.encoders.Formats()
}

// Export builds, encodes, and optionally stores the artifact. Every failure is an
// ExportFailedError and no artifact is returned with it.
func (e *Exporter) Export(ctx context.Context, req Request) (*Artifact, error) {
	if req.Template == "" {
		req.Template = req.Document.TemplateID
	}
	encoder, err := e.encoders.Lookup(req.Format)
	if err != nil {
		return nil, failed(err, "unknown format")
	}

	digest, err := documentDigest(req.Document)
	if err != nil {
		return nil, failed(err, "document could not be encoded")
	}
	key := fmt.Sprintf("%s|%s|%s|%s", req.Key, req.Template, encoder.Format(), digest)
	e.waiting.Add(1)
	v, err, shared := e.group.Do(key, func() (any, error) {
		return e.run(ctx, req, encoder)
	})
	e.waiting.Add(-1)

	if shared {
		metrics.ExportCoalesced()
		e.logger.Info("export request coalesced", slog.String("session", req.Key), slog.String("document", digest[:12]))
	}
	if err != nil {
		return nil, err
	}
	return v.(*Artifact), nil
}

// documentDigest identifies the document content so that only requests for the same
// revision share an in-flight export
func documentDigest(doc types.ResumeDocument) (string, error) {
	data, err := json.Marshal(doc)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}

func (e *Exporter) run(ctx context.Context, req Request, encoder Encoder) (artifact *Artifact, err error) {
	e.runMu.Lock()
	defer e.runMu.Unlock()

	started := time.Now()
	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	pages := 0
	defer func() {
		metrics.ExportFinished(string(req.Template), pages, err)
		if err != nil {
			e.logger.Warn("export failed",
				slog.String("template", string(req.Template)),
				slog.String("format", encoder.Format()),
				slog.Any("error", err))
		}
	}()

	result, err := Build(req.Document, req.Template, e.spec)
	if err != nil {
		return nil, err
	}
	pages = len(result.Pages)

	encodeStarted := time.Now()
	data, err := encoder.Encode(ctx, result)
	metrics.ObserveEncode(encoder.Format(), encodeStarted)
	if err != nil {
		return nil, failed(err, "%s encoding failed", encoder.Format())
	}
	if ctx.Err() != nil {
		return nil, failed(ctx.Err(), "export timed out")
	}

	artifact = &Artifact{
		Filename:    Filename(req.Document, encoder.Extension()),
		ContentType: encoder.ContentType(),
		Format:      encoder.Format(),
		Template:    req.Template,
		Pages:       pages,
		Data:        data,
	}

	if e.sink != nil {
		location, err := e.sink.Store(ctx, artifact)
		if err != nil {
			return nil, failed(err, "storing %s", artifact.Filename)
		}
		artifact.Location = location
	}

	e.logger.Info("export finished",
		slog.String("template", string(req.Template)),
		slog.String("format", artifact.Format),
		slog.Int("pages", pages),
		slog.Int("bytes", len(data)),
		slog.Duration("elapsed", time.Since(started)))
	return artifact, nil
}
