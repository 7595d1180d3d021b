// Package persistence provides debounced, versioned storage of the resume document.
package persistence

import (
	"errors"
	"fmt"
)

// Backend failure modes surfaced by the in-memory backend and recognised from others
var (
	ErrQuotaExceeded   = errors.New("storage quota exceeded")
	ErrStorageDisabled = errors.New("storage disabled")
)

// PersistenceFailedError reports that durable storage could not be written or read.
// Editing continues in memory while this condition holds.
type PersistenceFailedError struct {
	Op      string
	Key     string
	Message string
	Cause   error
}

func (e *PersistenceFailedError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("persistence failed: %s %s: %s: %v", e.Op, e.Key, e.Message, e.Cause)
	}
	return fmt.Sprintf("persistence failed: %s %s: %s", e.Op, e.Key, e.Message)
}

func (e *PersistenceFailedError) Unwrap() error {
	return e.Cause
}

// SnapshotError explains why a stored snapshot was discarded on load
type SnapshotError struct {
	Version int
	Message string
	Cause   error
}

func (e *SnapshotError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("snapshot v%d discarded: %s: %v", e.Version, e.Message, e.Cause)
	}
	return fmt.Sprintf("snapshot v%d discarded: %s", e.Version, e.Message)
}

func (e *SnapshotError) Unwrap() error {
	return e.Cause
}
