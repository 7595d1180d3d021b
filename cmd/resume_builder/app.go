package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/jonathan/resume-builder/internal/config"
	"github.com/jonathan/resume-builder/internal/db"
	"github.com/jonathan/resume-builder/internal/export"
	"github.com/jonathan/resume-builder/internal/pdf"
	"github.com/jonathan/resume-builder/internal/persistence"
	"github.com/jonathan/resume-builder/internal/storage"
)

// app holds what every command needs: configuration, a logger, and lazily opened storage
type app struct {
	cfg     *config.Config
	logger  *slog.Logger
	closers []func() error
	objects *storage.ObjectStore
}

// newApp loads configuration from file and environment and applies the global flags
func newApp() (*app, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, err
	}
	if driverFlag != "" {
		cfg.Storage.Driver = driverFlag
	}
	if logLevel != "" {
		cfg.Log.Level = logLevel
	}
	if logFormat != "" {
		cfg.Log.Format = logFormat
	}
	merged := cfg.MergeWithDefaults(config.Defaults())
	if err := merged.Validate(); err != nil {
		return nil, err
	}
	return &app{cfg: &merged, logger: newLogger(os.Stderr, merged.Log)}, nil
}

// newLogger builds the slog logger for the configured level and format
func newLogger(w io.Writer, cfg config.LogConfig) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}
	if strings.EqualFold(cfg.Format, "json") {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// Close releases every opened connection
func (a *app) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}

// backend opens the snapshot store selected by storage.driver
func (a *app) backend(ctx context.Context) (persistence.Backend, error) {
	s := a.cfg.Storage
	switch s.Driver {
	case config.DriverMemory:
		return persistence.NewMemoryBackend(), nil
	case config.DriverFile:
		return persistence.NewFileBackend(s.Dir)
	case config.DriverSQLite:
		store, err := db.OpenSQLite(s.SQLitePath)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, store.Close)
		return store, nil
	case config.DriverPostgres:
		database, err := db.Connect(ctx, s.DatabaseURL)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, func() error { database.Close(); return nil })
		return database, nil
	case config.DriverRedis:
		r, err := storage.NewRedisBackend(ctx, s.Redis.Addr, s.Redis.Password, s.Redis.DB, s.Redis.Prefix, s.Redis.TTL)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, r.Close)
		return r, nil
	case config.DriverMinIO:
		return a.objectStore(ctx)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", s.Driver)
	}
}

// objectStore connects to the MinIO bucket once and reuses the client
func (a *app) objectStore(ctx context.Context) (*storage.ObjectStore, error) {
	if a.objects != nil {
		return a.objects, nil
	}
	store, err := storage.NewObjectStore(ctx, a.cfg.Storage.MinIO)
	if err != nil {
		return nil, err
	}
	a.objects = store
	return store, nil
}

// manager opens the backend and wraps it in a debounced persistence manager
func (a *app) manager(ctx context.Context) (*persistence.Manager, error) {
	backend, err := a.backend(ctx)
	if err != nil {
		return nil, fmt.Errorf("open %s storage: %w", a.cfg.Storage.Driver, err)
	}
	return persistence.NewManager(backend, persistence.Options{
		Key:          a.cfg.Storage.Key,
		Debounce:     a.cfg.Persistence.Debounce,
		WriteTimeout: a.cfg.Persistence.WriteTimeout,
		Logger:       a.logger,
	}), nil
}

// exporter builds the export pipeline. PDF output is registered when withPDF is set.
// Finished artifacts go to the configured output directory, or to the MinIO bucket
// when uploading.
func (a *app) exporter(ctx context.Context, withPDF, upload bool) (*export.Exporter, error) {
	e := a.cfg.Export
	encoders := []export.Encoder{export.TextEncoder{}, export.LaTeXEncoder{}, export.HTMLEncoder{}}
	if withPDF {
		encoders = append(encoders, export.PDFEncoder{
			Printer:    pdf.NewPrinter(e.ChromePath, e.Timeout, a.logger),
			CountPages: pdf.CountPages,
		})
	}

	var sink export.ArtifactSink = export.FileSink{Dir: e.OutputDir}
	if upload {
		store, err := a.objectStore(ctx)
		if err != nil {
			return nil, fmt.Errorf("connect artifact storage: %w", err)
		}
		sink = export.ObjectSink{Objects: store}
	}

	return export.NewExporter(export.Options{
		Spec:     export.PageSpec{Lines: e.LinesPerPage, CharsPerLine: e.CharsPerLine},
		Encoders: export.NewEncoders(encoders...),
		Sink:     sink,
		Timeout:  e.Timeout,
		Logger:   a.logger,
	}), nil
}
