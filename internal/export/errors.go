// Package export paginates rendered resumes into fixed-size pages and encodes them
// into downloadable artifacts.
package export

import (
	"errors"
	"fmt"
)

// ExportFailedError is returned when an export cannot produce a complete artifact.
// No partial output accompanies it; the document is unchanged and the export can be retried.
type ExportFailedError struct {
	Message string
	Cause   error
}

func (e *ExportFailedError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("export failed: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("export failed: %s", e.Message)
}

func (e *ExportFailedError) Unwrap() error {
	return e.Cause
}

// IsExportFailed reports whether err is or wraps an ExportFailedError
func IsExportFailed(err error) bool {
	var target *ExportFailedError
	return errors.As(err, &target)
}

func failed(cause error, format string, args ...any) *ExportFailedError {
	return &ExportFailedError{Message: fmt.Sprintf(format, args...), Cause: cause}
}
