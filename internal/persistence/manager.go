package persistence

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/jonathan/resume-builder/internal/document"
	"github.com/jonathan/resume-builder/internal/metrics"
	"github.com/jonathan/resume-builder/internal/types"
)

// Defaults for Options
const (
	DefaultKey          = "resume_builder_data"
	DefaultDebounce     = 500 * time.Millisecond
	MinDebounce         = 300 * time.Millisecond
	MaxDebounce         = 800 * time.Millisecond
	DefaultWriteTimeout = 5 * time.Second
)

// Status is the durability state of the manager
type Status int

const (
	// Healthy means the last write (if any) succeeded
	Healthy Status = iota
	// Failed means the last write failed and edits are held in memory only
	Failed
)

func (s Status) String() string {
	if s == Failed {
		return "failed"
	}
	return "healthy"
}

// Saver is the subset of Manager used by the wizard
type Saver interface {
	Save(doc types.ResumeDocument)
	Flush(ctx context.Context) error
	Load(ctx context.Context) (*types.ResumeDocument, error)
	Clear(ctx context.Context) error
}

// Options configures a Manager
type Options struct {
	Key          string
	Debounce     time.Duration
	WriteTimeout time.Duration
	Scheduler    Scheduler
	Migrations   Migrations
	Logger       *slog.Logger
	Now          func() time.Time
}

// Manager debounces saves of the document into a Backend and reports failure transitions
type Manager struct {
	backend      Backend
	key          string
	debounce     time.Duration
	writeTimeout time.Duration
	scheduler    Scheduler
	migrations   Migrations
	logger       *slog.Logger
	now          func() time.Time

	mu         sync.Mutex
	pending    *types.ResumeDocument
	timer      Timer
	generation uint64
	status     Status
	lastErr    error
	onFailure  []func(*PersistenceFailedError)
	onRecover  []func()

	writeMu     sync.Mutex
	lastWritten uint64
}

// NewManager creates a Manager over backend. Debounce outside 300..800ms is clamped.
func NewManager(backend Backend, opts Options) *Manager {
	m := &Manager{
		backend:      backend,
		key:          opts.Key,
		debounce:     opts.Debounce,
		writeTimeout: opts.WriteTimeout,
		scheduler:    opts.Scheduler,
		migrations:   opts.Migrations,
		logger:       opts.Logger,
		now:          opts.Now,
	}
	if m.key == "" {
		m.key = DefaultKey
	}
	switch {
	case m.debounce == 0:
		m.debounce = DefaultDebounce
	case m.debounce < MinDebounce:
		m.debounce = MinDebounce
	case m.debounce > MaxDebounce:
		m.debounce = MaxDebounce
	}
	if m.writeTimeout <= 0 {
		m.writeTimeout = DefaultWriteTimeout
	}
	if m.scheduler == nil {
		m.scheduler = ClockScheduler{}
	}
	if m.migrations == nil {
		m.migrations = DefaultMigrations()
	}
	if m.logger == nil {
		m.logger = slog.Default()
	}
	if m.now == nil {
		m.now = time.Now
	}
	return m
}

// Key returns the storage key
func (m *Manager) Key() string {
	return m.key
}

// Debounce returns the effective debounce window
func (m *Manager) Debounce() time.Duration {
	return m.debounce
}

// OnFailure registers a callback invoked once each time the manager moves from healthy to failed
func (m *Manager) OnFailure(fn func(*PersistenceFailedError)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onFailure = append(m.onFailure, fn)
}

// OnRecover registers a callback invoked once each time a write succeeds after a failure
func (m *Manager) OnRecover(fn func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onRecover = append(m.onRecover, fn)
}

// Status returns the current durability state and the error that caused a failure
func (m *Manager) Status() (Status, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.status, m.lastErr
}

// Save schedules a write of doc after the debounce window. A later Save before the
// window elapses replaces the pending snapshot and restarts the window. Save never fails;
// write errors are reported through OnFailure.
func (m *Manager) Save(doc types.ResumeDocument) {
	snapshot := document.Clone(doc)
	metrics.SaveRequested()

	m.mu.Lock()
	defer m.mu.Unlock()

	m.pending = &snapshot
	m.generation++
	if m.timer != nil {
		m.timer.Stop()
	}
	gen := m.generation
	m.timer = m.scheduler.AfterFunc(m.debounce, func() { m.fire(gen) })
}

// Pending reports whether a debounced write has not happened yet
func (m *Manager) Pending() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.pending != nil
}

func (m *Manager) fire(gen uint64) {
	m.mu.Lock()
	if gen != m.generation || m.pending == nil {
		m.mu.Unlock()
		return
	}
	doc := *m.pending
	m.pending = nil
	m.timer = nil
	m.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), m.writeTimeout)
	defer cancel()
	_ = m.write(ctx, doc, gen)
}

// Flush writes any pending snapshot immediately
func (m *Manager) Flush(ctx context.Context) error {
	m.mu.Lock()
	if m.timer != nil {
		m.timer.Stop()
		m.timer = nil
	}
	doc := m.pending
	m.pending = nil
	m.generation++
	gen := m.generation
	m.mu.Unlock()

	if doc == nil {
		return nil
	}
	return m.write(ctx, *doc, gen)
}

// write stores doc unless a snapshot from a later generation has already been written
func (m *Manager) write(ctx context.Context, doc types.ResumeDocument, gen uint64) error {
	m.writeMu.Lock()
	defer m.writeMu.Unlock()

	if gen <= m.lastWritten {
		return nil
	}
	m.lastWritten = gen

	data, err := EncodeSnapshot(doc, m.now())
	if err == nil {
		err = m.backend.Set(ctx, m.key, data)
	}
	metrics.SnapshotWritten(err)

	if err != nil {
		failure := &PersistenceFailedError{Op: "save", Key: m.key, Message: "snapshot not written", Cause: err}
		m.markFailed(failure)
		return failure
	}
	m.markHealthy()
	m.logger.Debug("snapshot saved", "key", m.key, "bytes", len(data))
	return nil
}

func (m *Manager) markFailed(failure *PersistenceFailedError) {
	m.mu.Lock()
	wasHealthy := m.status == Healthy
	m.status = Failed
	m.lastErr = failure
	callbacks := append([]func(*PersistenceFailedError){}, m.onFailure...)
	m.mu.Unlock()

	if !wasHealthy {
		return
	}
	m.logger.Warn("persistence degraded, continuing in memory", "key", m.key, "error", failure.Cause)
	for _, fn := range callbacks {
		fn(failure)
	}
}

func (m *Manager) markHealthy() {
	m.mu.Lock()
	wasFailed := m.status == Failed
	m.status = Healthy
	m.lastErr = nil
	callbacks := append([]func(){}, m.onRecover...)
	m.mu.Unlock()

	if !wasFailed {
		return
	}
	m.logger.Info("persistence recovered", "key", m.key)
	for _, fn := range callbacks {
		fn()
	}
}

// Load reads the stored snapshot. It returns nil with no error when nothing is stored
// or when the snapshot was discarded. A backend read failure is returned as a
// *PersistenceFailedError and counts as a failure transition.
func (m *Manager) Load(ctx context.Context) (*types.ResumeDocument, error) {
	data, err := m.backend.Get(ctx, m.key)
	if err != nil {
		failure := &PersistenceFailedError{Op: "load", Key: m.key, Message: "snapshot not read", Cause: err}
		m.markFailed(failure)
		return nil, failure
	}
	if data == nil {
		return nil, nil
	}

	doc, err := DecodeSnapshot(data, m.migrations)
	if err != nil {
		var snapErr *SnapshotError
		if errors.As(err, &snapErr) {
			metrics.SnapshotDiscarded()
			m.logger.Warn("discarding stored snapshot", "key", m.key, "version", snapErr.Version, "reason", snapErr.Error())
			return nil, nil
		}
		return nil, err
	}
	return &doc, nil
}

// Clear cancels any pending write and deletes the stored snapshot
func (m *Manager) Clear(ctx context.Context) error {
	m.mu.Lock()
	if m.timer != nil {
		m.timer.Stop()
		m.timer = nil
	}
	m.pending = nil
	m.generation++
	gen := m.generation
	m.mu.Unlock()

	m.writeMu.Lock()
	defer m.writeMu.Unlock()
	// a write already taken off the timer must not land after the delete
	if gen > m.lastWritten {
		m.lastWritten = gen
	}
	if err := m.backend.Delete(ctx, m.key); err != nil {
		return &PersistenceFailedError{Op: "clear", Key: m.key, Message: "snapshot not deleted", Cause: err}
	}
	return nil
}
