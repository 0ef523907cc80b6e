// Package source provides the growing files the follow engine reads from.
package source

import (
	"errors"
	"fmt"
	"io"
)

var (
	// ErrNotFound is matched by open failures for a missing path
	ErrNotFound = errors.New("file not found")
	// ErrPermissionDenied is matched by open failures caused by access rights
	ErrPermissionDenied = errors.New("permission denied")
)

// Source is an open file that may grow, shrink or be replaced while read
type Source interface {
	io.ReaderAt
	// Size returns the current size of the open file
	Size() (int64, error)
	// Name identifies the source in diagnostics
	Name() string
}

// Reopener is implemented by sources that can follow a replacement of the
// file at their path (log rotation by rename).
type Reopener interface {
	// Rotated reports whether the path now names a different file than the open one
	Rotated() (bool, error)
	// Reopen switches to the file currently at the path
	Reopen() error
}

// OpenError describes a failure to open a path
type OpenError struct {
	Path string
	Kind error // ErrNotFound, ErrPermissionDenied or nil
	Err  error
}

func (e *OpenError) Error() string {
	return fmt.Sprintf("cannot open %s: %v", e.Path, e.Err)
}

// Unwrap exposes both the classification and the underlying cause to errors.Is
func (e *OpenError) Unwrap() []error {
	if e.Kind == nil {
		return []error{e.Err}
	}
	return []error{e.Kind, e.Err}
}
