package summarize

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyInput is returned when there is no text to summarize
	ErrEmptyInput = errors.New("text to summarize is empty")
	// ErrTimeout is returned when the provider does not answer in time
	ErrTimeout = errors.New("summarization timed out")
)

// UnavailableError means the provider cannot serve requests right now, for
// example while a hosted model is still loading
type UnavailableError struct {
	Provider string
	Message  string
	Cause    error
}

func (e *UnavailableError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s summarizer unavailable: %s: %v", e.Provider, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s summarizer unavailable: %s", e.Provider, e.Message)
}

func (e *UnavailableError) Unwrap() error {
	return e.Cause
}

// IsUnavailable reports whether err is an UnavailableError
func IsUnavailable(err error) bool {
	var u *UnavailableError
	return errors.As(err, &u)
}
