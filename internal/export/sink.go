package export

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jonathan/resume-builder/internal/storage"
)

// ArtifactSink stores a finished artifact and returns where it went
type ArtifactSink interface {
	Store(ctx context.Context, artifact *Artifact) (string, error)
}

// FileSink writes artifacts into a local directory
type FileSink struct {
	Dir string
}

// Store writes the file atomically so a failed export never leaves a partial file
func (s FileSink) Store(_ context.Context, a *Artifact) (string, error) {
	if err := os.MkdirAll(s.Dir, 0755); err != nil {
		return "", fmt.Errorf("create output directory: %w", err)
	}

	path := filepath.Join(s.Dir, a.Filename)
	tmp, err := os.CreateTemp(s.Dir, ".export-*")
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(a.Data); err != nil {
		tmp.Close()
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("close %s: %w", path, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return "", fmt.Errorf("move into place %s: %w", path, err)
	}
	return path, nil
}

// ObjectPutter uploads artifact bytes to object storage
type ObjectPutter interface {
	PutArtifact(ctx context.Context, name string, data []byte, contentType string) (*storage.ObjectMeta, error)
}

// ObjectSink uploads artifacts to a MinIO/S3 bucket
type ObjectSink struct {
	Objects ObjectPutter
}

// Store uploads the artifact and returns its object key
func (s ObjectSink) Store(ctx context.Context, a *Artifact) (string, error) {
	meta, err := s.Objects.PutArtifact(ctx, a.Filename, a.Data, a.ContentType)
	if err != nil {
		return "", err
	}
	return meta.Key, nil
}
