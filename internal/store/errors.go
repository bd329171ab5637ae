package store

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when no record has the requested id.
var ErrNotFound = errors.New("account not found")

// IOError reports a failed file operation on the account file.
// Callers treat it as fatal to the session.
type IOError struct {
	Op   string
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("store %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error {
	return e.Err
}

// IsIOError reports whether err wraps an *IOError.
func IsIOError(err error) bool {
	var ioErr *IOError
	return errors.As(err, &ioErr)
}

func ioError(op, path string, err error) error {
	return &IOError{Op: op, Path: path, Err: err}
}
