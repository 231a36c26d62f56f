package telemetry

import (
	"errors"
	"fmt"
)

// ErrNotFound is matched by NotFoundError via errors.Is
var ErrNotFound = errors.New("file not found")

// NotFoundError reports that the flight log path does not exist
type NotFoundError struct {
	Path string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("file not found at '%s'", e.Path)
}

// Is lets errors.Is(err, ErrNotFound) match
func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// ParseError reports that the file exists but is not a usable flight log.
// Error returns the underlying cause's text unchanged.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	return e.Err.Error()
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// MissingColumnsError lists required headers absent from the file
type MissingColumnsError struct {
	Columns []string
}

func (e *MissingColumnsError) Error() string {
	return fmt.Sprintf("missing required columns: %q", e.Columns)
}
