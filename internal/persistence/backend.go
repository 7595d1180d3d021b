package persistence

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// Backend is a durable key-value store for serialized snapshots
type Backend interface {
	// Get returns the stored value, or nil with no error when the key is absent
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

// MemoryBackend keeps values in memory. It can simulate quota exhaustion and
// disabled storage for tests and for sessions without durable storage.
type MemoryBackend struct {
	mu         sync.Mutex
	data       map[string][]byte
	quotaBytes int
	disabled   bool
	writes     int
}

// NewMemoryBackend creates an empty in-memory backend with no quota
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{data: make(map[string][]byte)}
}

// SetQuota limits the total stored bytes. Zero disables the limit.
func (m *MemoryBackend) SetQuota(bytes int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.quotaBytes = bytes
}

// SetDisabled makes every operation fail with ErrStorageDisabled
func (m *MemoryBackend) SetDisabled(disabled bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.disabled = disabled
}

// Writes returns the number of successful Set calls
func (m *MemoryBackend) Writes() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.writes
}

// Get implements Backend
func (m *MemoryBackend) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.disabled {
		return nil, ErrStorageDisabled
	}
	value, ok := m.data[key]
	if !ok {
		return nil, nil
	}
	return append([]byte(nil), value...), nil
}

// Set implements Backend
func (m *MemoryBackend) Set(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.disabled {
		return ErrStorageDisabled
	}
	if m.quotaBytes > 0 {
		used := 0
		for k, v := range m.data {
			if k != key {
				used += len(v)
			}
		}
		if used+len(value) > m.quotaBytes {
			return ErrQuotaExceeded
		}
	}
	m.data[key] = append([]byte(nil), value...)
	m.writes++
	return nil
}

// Delete implements Backend
func (m *MemoryBackend) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.disabled {
		return ErrStorageDisabled
	}
	delete(m.data, key)
	return nil
}

// FileBackend stores each key as a JSON file in a directory
type FileBackend struct {
	dir string
}

// NewFileBackend creates the directory if needed
func NewFileBackend(dir string) (*FileBackend, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}
	return &FileBackend{dir: dir}, nil
}

func (f *FileBackend) path(key string) string {
	safe := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_', r == '.':
			return r
		default:
			return '_'
		}
	}, key)
	return filepath.Join(f.dir, safe+".json")
}

// Get implements Backend
func (f *FileBackend) Get(_ context.Context, key string) ([]byte, error) {
	data, err := os.ReadFile(f.path(key))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot: %w", err)
	}
	return data, nil
}

// Set implements Backend. The write is atomic: a temp file is renamed over the target.
func (f *FileBackend) Set(_ context.Context, key string, value []byte) error {
	target := f.path(key)
	tmp, err := os.CreateTemp(f.dir, ".snapshot-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err := tmp.Write(value); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to write snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close snapshot: %w", err)
	}
	if err := os.Rename(tmp.Name(), target); err != nil {
		return fmt.Errorf("failed to replace snapshot: %w", err)
	}
	return nil
}

// Delete implements Backend
func (f *FileBackend) Delete(_ context.Context, key string) error {
	err := os.Remove(f.path(key))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to delete snapshot: %w", err)
	}
	return nil
}
