package persistence

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/jonathan/resume-builder/internal/document"
	"github.com/jonathan/resume-builder/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

func newTestManager(t *testing.T, backend Backend) (*Manager, *ManualScheduler) {
	t.Helper()
	sched := NewManualScheduler()
	m := NewManager(backend, Options{
		Scheduler: sched,
		Logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
		Now:       func() time.Time { return fixedNow },
	})
	return m, sched
}

func namedDoc(t *testing.T, name string) types.ResumeDocument {
	t.Helper()
	doc, err := document.SetField(document.New(), types.SectionPersonal, "fullName", name)
	require.NoError(t, err)
	return doc
}

func TestManager_DebounceCoalescesWrites(t *testing.T) {
	backend := NewMemoryBackend()
	m, sched := newTestManager(t, backend)
	ctx := context.Background()

	m.Save(namedDoc(t, "A"))
	sched.Advance(200 * time.Millisecond)
	m.Save(namedDoc(t, "Ab"))
	sched.Advance(200 * time.Millisecond)
	m.Save(namedDoc(t, "Abc"))

	sched.Advance(DefaultDebounce - time.Millisecond)
	assert.Equal(t, 0, backend.Writes(), "no write before the quiet window elapses")
	assert.True(t, m.Pending())

	sched.Advance(time.Millisecond)
	assert.Equal(t, 1, backend.Writes())
	assert.False(t, m.Pending())
	assert.Equal(t, 0, sched.Pending())

	loaded, err := m.Load(ctx)
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, "Abc", loaded.Personal.FullName)
}

func TestManager_DebounceWindowIsClamped(t *testing.T) {
	assert.Equal(t, MinDebounce, NewManager(NewMemoryBackend(), Options{Debounce: time.Millisecond}).Debounce())
	assert.Equal(t, MaxDebounce, NewManager(NewMemoryBackend(), Options{Debounce: time.Hour}).Debounce())
	assert.Equal(t, 600*time.Millisecond, NewManager(NewMemoryBackend(), Options{Debounce: 600 * time.Millisecond}).Debounce())
}

func TestManager_FlushWritesImmediately(t *testing.T) {
	backend := NewMemoryBackend()
	m, sched := newTestManager(t, backend)

	m.Save(namedDoc(t, "Flushed"))
	require.NoError(t, m.Flush(context.Background()))
	assert.Equal(t, 1, backend.Writes())

	sched.Advance(time.Second)
	assert.Equal(t, 1, backend.Writes(), "stopped timer must not write again")
	assert.NoError(t, m.Flush(context.Background()), "flush with nothing pending is a no-op")
}

func TestManager_FailureReportedOncePerTransition(t *testing.T) {
	backend := NewMemoryBackend()
	m, sched := newTestManager(t, backend)

	var failures []*PersistenceFailedError
	recoveries := 0
	m.OnFailure(func(err *PersistenceFailedError) { failures = append(failures, err) })
	m.OnRecover(func() { recoveries++ })

	backend.SetQuota(10)
	for i := 0; i < 3; i++ {
		m.Save(namedDoc(t, "Quota"))
		sched.Advance(time.Second)
	}

	require.Len(t, failures, 1, "three failed writes, one report")
	assert.ErrorIs(t, failures[0], ErrQuotaExceeded)
	status, lastErr := m.Status()
	assert.Equal(t, Failed, status)
	assert.Error(t, lastErr)

	backend.SetQuota(0)
	m.Save(namedDoc(t, "Recovered"))
	sched.Advance(time.Second)

	assert.Equal(t, 1, recoveries)
	status, _ = m.Status()
	assert.Equal(t, Healthy, status)

	backend.SetDisabled(true)
	m.Save(namedDoc(t, "Again"))
	sched.Advance(time.Second)
	require.Len(t, failures, 2, "a new failure after recovery is a new transition")
	assert.ErrorIs(t, failures[1], ErrStorageDisabled)
}

func TestManager_FlushReturnsFailure(t *testing.T) {
	backend := NewMemoryBackend()
	backend.SetDisabled(true)
	m, _ := newTestManager(t, backend)

	m.Save(namedDoc(t, "x"))
	err := m.Flush(context.Background())

	var pf *PersistenceFailedError
	require.ErrorAs(t, err, &pf)
	assert.Equal(t, "save", pf.Op)
}

func TestManager_LoadEmpty(t *testing.T) {
	m, _ := newTestManager(t, NewMemoryBackend())
	doc, err := m.Load(context.Background())
	assert.NoError(t, err)
	assert.Nil(t, doc)
}

func TestManager_LoadDisabledStorage(t *testing.T) {
	backend := NewMemoryBackend()
	backend.SetDisabled(true)
	m, _ := newTestManager(t, backend)

	reported := 0
	m.OnFailure(func(*PersistenceFailedError) { reported++ })

	doc, err := m.Load(context.Background())
	assert.Nil(t, doc)
	assert.ErrorIs(t, err, ErrStorageDisabled)
	assert.Equal(t, 1, reported)
}

func TestManager_LoadDiscardsUnknownVersion(t *testing.T) {
	backend := NewMemoryBackend()
	ctx := context.Background()
	require.NoError(t, backend.Set(ctx, DefaultKey, []byte(`{"version": 99, "document": {"personal": {}}}`)))

	m, _ := newTestManager(t, backend)
	doc, err := m.Load(ctx)
	assert.NoError(t, err)
	assert.Nil(t, doc)
}

func TestManager_LoadDiscardsCorruptData(t *testing.T) {
	backend := NewMemoryBackend()
	ctx := context.Background()
	require.NoError(t, backend.Set(ctx, DefaultKey, []byte(`not json at all`)))

	m, _ := newTestManager(t, backend)
	doc, err := m.Load(ctx)
	assert.NoError(t, err)
	assert.Nil(t, doc)
}

func TestManager_LoadMigratesV1(t *testing.T) {
	backend := NewMemoryBackend()
	ctx := context.Background()
	v1 := `{
		"version": 1,
		"savedAt": "2024-05-01T10:00:00Z",
		"document": {
			"personal": {"fullName": "Ada", "title": "Analyst", "email": "ada@example.com", "phone": "1", "summary": "Counts things"},
			"skills": "Go, Rust , ,SQL",
			"template": "classic",
			"currentStep": 3
		}
	}`
	require.NoError(t, backend.Set(ctx, DefaultKey, []byte(v1)))

	m, _ := newTestManager(t, backend)
	doc, err := m.Load(ctx)
	require.NoError(t, err)
	require.NotNil(t, doc)

	assert.Equal(t, "Counts things", doc.Additional.Summary)
	assert.Equal(t, []string{"Go", "Rust", "SQL"}, doc.Skills)
	assert.Equal(t, types.TemplateClassic, doc.TemplateID)
	assert.Equal(t, types.Step(3), doc.CurrentStep)
	assert.Equal(t, types.Step(3), doc.HighestStep)
}

func TestManager_LoadWithoutMigrationPathDiscards(t *testing.T) {
	backend := NewMemoryBackend()
	ctx := context.Background()
	require.NoError(t, backend.Set(ctx, DefaultKey, []byte(`{"version": 1, "document": {"personal": {}}}`)))

	m := NewManager(backend, Options{
		Migrations: Migrations{},
		Logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	doc, err := m.Load(ctx)
	assert.NoError(t, err)
	assert.Nil(t, doc)
}

func TestManager_CustomMigrationError(t *testing.T) {
	backend := NewMemoryBackend()
	ctx := context.Background()
	require.NoError(t, backend.Set(ctx, DefaultKey, []byte(`{"version": 1, "document": {"personal": {}}}`)))

	m := NewManager(backend, Options{
		Migrations: Migrations{1: func(json.RawMessage) (json.RawMessage, error) { return nil, errors.New("boom") }},
		Logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	doc, err := m.Load(ctx)
	assert.NoError(t, err)
	assert.Nil(t, doc)
}

func TestManager_Clear(t *testing.T) {
	backend := NewMemoryBackend()
	m, sched := newTestManager(t, backend)
	ctx := context.Background()

	m.Save(namedDoc(t, "Gone"))
	require.NoError(t, m.Flush(ctx))
	m.Save(namedDoc(t, "Pending"))
	require.NoError(t, m.Clear(ctx))
	sched.Advance(time.Second)

	doc, err := m.Load(ctx)
	assert.NoError(t, err)
	assert.Nil(t, doc)
}

func TestManager_ClearWinsOverInFlightWrite(t *testing.T) {
	backend := NewMemoryBackend()
	m, _ := newTestManager(t, backend)
	ctx := context.Background()

	// the timer has fired and taken the snapshot, but its write has not started
	m.Save(namedDoc(t, "Before reset"))
	m.mu.Lock()
	gen := m.generation
	doc := *m.pending
	m.pending = nil
	m.timer = nil
	m.mu.Unlock()

	require.NoError(t, m.Clear(ctx))
	require.NoError(t, m.write(ctx, doc, gen))

	assert.Equal(t, 0, backend.Writes())
	loaded, err := m.Load(ctx)
	assert.NoError(t, err)
	assert.Nil(t, loaded)

	m.Save(namedDoc(t, "After reset"))
	require.NoError(t, m.Flush(ctx))
	loaded, err = m.Load(ctx)
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, "After reset", loaded.Personal.FullName)
}

func TestSnapshot_RoundTrip(t *testing.T) {
	doc := document.New()
	doc, err := document.AddEntry(doc, types.SectionExperience)
	require.NoError(t, err)
	doc, err = document.SetField(doc, types.SectionExperience, "0.current", "true")
	require.NoError(t, err)
	doc, err = document.AddSkill(doc, "Go")
	require.NoError(t, err)
	doc = document.WithStep(doc, types.StepSkills)

	data, err := EncodeSnapshot(doc, fixedNow)
	require.NoError(t, err)

	var env Envelope
	require.NoError(t, json.Unmarshal(data, &env))
	assert.Equal(t, CurrentVersion, env.Version)
	assert.True(t, fixedNow.Equal(env.SavedAt))

	got, err := DecodeSnapshot(data, DefaultMigrations())
	require.NoError(t, err)
	assert.True(t, document.Equal(doc, got))
}

func TestFileBackend(t *testing.T) {
	ctx := context.Background()
	backend, err := NewFileBackend(t.TempDir())
	require.NoError(t, err)

	value, err := backend.Get(ctx, "resume/../data")
	require.NoError(t, err)
	assert.Nil(t, value)

	require.NoError(t, backend.Set(ctx, "resume/../data", []byte(`{"a":1}`)))
	value, err = backend.Get(ctx, "resume/../data")
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":1}`, string(value))

	require.NoError(t, backend.Delete(ctx, "resume/../data"))
	require.NoError(t, backend.Delete(ctx, "resume/../data"), "deleting a missing key is not an error")
}

func TestManager_WithFileBackendSurvivesRestart(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	backend, err := NewFileBackend(dir)
	require.NoError(t, err)
	first, _ := newTestManager(t, backend)
	first.Save(namedDoc(t, "Persistent"))
	require.NoError(t, first.Flush(ctx))

	reopened, err := NewFileBackend(dir)
	require.NoError(t, err)
	second, _ := newTestManager(t, reopened)
	doc, err := second.Load(ctx)
	require.NoError(t, err)
	require.NotNil(t, doc)
	assert.Equal(t, "Persistent", doc.Personal.FullName)
}
