package fileutil

import (
	"fmt"
	"os"

	"github.com/rohmanhakim/robots-parser/pkg/failure"
)

// ReadTextFile reads the entire file at path and returns its content as a
// string. I/O failures come back as classified errors so callers can
// distinguish a missing file from an unreadable one without string matching.
func ReadTextFile(path string) (string, failure.ClassifiedError) {
	if _, err := os.Stat(path); err != nil {
		return "", &FileError{
			Message:   fmt.Sprintf("%v", err),
			Retryable: false,
			Cause:     ErrCauseFileNotFound,
		}
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return "", &FileError{
			Message:   fmt.Sprintf("%v", err),
			Retryable: false,
			Cause:     ErrCauseReadFailure,
		}
	}

	return string(content), nil
}

// EnsureDir creates the directory at path, including parents, if it does
// not already exist.
func EnsureDir(path string) failure.ClassifiedError {
	if err := os.MkdirAll(path, 0o755); err != nil {
		return &FileError{
			Message:   fmt.Sprintf("%v", err),
			Retryable: false,
			Cause:     ErrCausePathError,
		}
	}
	return nil
}
