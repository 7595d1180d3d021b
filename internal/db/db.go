// Package db provides PostgreSQL and SQLite snapshot storage for resume sessions.
package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const createSnapshotsTable = `
CREATE TABLE IF NOT EXISTS resume_snapshots (
	session_key TEXT PRIMARY KEY,
	payload     JSONB NOT NULL,
	updated_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`

// DB wraps a PostgreSQL connection pool
type DB struct {
	pool *pgxpool.Pool
}

// Connect establishes a connection pool to the database and creates the snapshot table
func Connect(ctx context.Context, databaseURL string) (*DB, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Verify connection
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if _, err := pool.Exec(ctx, createSnapshotsTable); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to create snapshot table: %w", err)
	}

	return &DB{pool: pool}, nil
}

// Close closes the connection pool
func (db *DB) Close() {
	if db.pool != nil {
		db.pool.Close()
	}
}

// Get returns the stored snapshot for a session key, or nil if none exists
func (db *DB) Get(ctx context.Context, key string) ([]byte, error) {
	var payload []byte
	err := db.pool.QueryRow(ctx,
		`SELECT payload FROM resume_snapshots WHERE session_key = $1`,
		key,
	).Scan(&payload)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get snapshot: %w", err)
	}
	return payload, nil
}

// Set stores the snapshot for a session key, replacing any previous one
func (db *DB) Set(ctx context.Context, key string, value []byte) error {
	_, err := db.pool.Exec(ctx,
		`INSERT INTO resume_snapshots (session_key, payload)
		 VALUES ($1, $2)
		 ON CONFLICT (session_key) DO UPDATE SET payload = $2, updated_at = NOW()`,
		key, value,
	)
	if err != nil {
		return fmt.Errorf("failed to save snapshot: %w", err)
	}
	return nil
}

// Delete removes the snapshot for a session key
func (db *DB) Delete(ctx context.Context, key string) error {
	_, err := db.pool.Exec(ctx, `DELETE FROM resume_snapshots WHERE session_key = $1`, key)
	if err != nil {
		return fmt.Errorf("failed to delete snapshot: %w", err)
	}
	return nil
}
