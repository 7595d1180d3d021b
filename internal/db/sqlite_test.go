package db

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSQLiteStore_CRUD(t *testing.T) {
	ctx := context.Background()
	store, err := OpenSQLite(filepath.Join(t.TempDir(), "snapshots.db"))
	require.NoError(t, err)
	defer store.Close()

	value, err := store.Get(ctx, "resume_builder_data")
	require.NoError(t, err)
	assert.Nil(t, value)

	require.NoError(t, store.Set(ctx, "resume_builder_data", []byte(`{"version":2}`)))
	require.NoError(t, store.Set(ctx, "resume_builder_data", []byte(`{"version":3}`)))

	value, err = store.Get(ctx, "resume_builder_data")
	require.NoError(t, err)
	assert.JSONEq(t, `{"version":3}`, string(value))

	require.NoError(t, store.Delete(ctx, "resume_builder_data"))
	value, err = store.Get(ctx, "resume_builder_data")
	require.NoError(t, err)
	assert.Nil(t, value)
}

func TestOpenSQLite_Idempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "snapshots.db")

	first, err := OpenSQLite(path)
	require.NoError(t, err)
	require.NoError(t, first.Set(context.Background(), "k", []byte(`{}`)))
	require.NoError(t, first.Close())

	second, err := OpenSQLite(path)
	require.NoError(t, err)
	defer second.Close()

	var version int
	require.NoError(t, second.db.QueryRow("PRAGMA user_version").Scan(&version))
	assert.Equal(t, currentSQLiteVersion, version)

	value, err := second.Get(context.Background(), "k")
	require.NoError(t, err)
	assert.Equal(t, []byte(`{}`), value)
}
