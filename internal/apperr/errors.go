// Package apperr defines the error types shared across the generator.
package apperr

import (
	"errors"
	"fmt"
)

// ErrNoContent marks a preset file that is empty or whitespace-only.
var ErrNoContent = errors.New("no content")

// DirectoryAccessError reports a directory that could not be opened or listed.
// It is fatal for a run.
type DirectoryAccessError struct {
	Path string
	Err  error
}

func (e *DirectoryAccessError) Error() string {
	return fmt.Sprintf("directory access %s: %v", e.Path, e.Err)
}

func (e *DirectoryAccessError) Unwrap() error { return e.Err }

// FieldError reports a missing or malformed preset field.
type FieldError struct {
	Field   string
	Value   string
	Present bool
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("invalid %s value", e.Field)
}
