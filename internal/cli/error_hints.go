package cli

import (
	"errors"

	"github.com/vburojevic/trunk/internal/source"
)

func codeForOpen(err error) string {
	switch {
	case errors.Is(err, source.ErrNotFound):
		return CodeFileNotFound
	case errors.Is(err, source.ErrPermissionDenied):
		return CodePermissionDenied
	default:
		return CodeOpenError
	}
}

func hintForOpen(err error) string {
	if err == nil {
		return ""
	}

	switch {
	case errors.Is(err, source.ErrNotFound):
		return "Check the path, or pass '-' to read from stdin"
	case errors.Is(err, source.ErrPermissionDenied):
		return "The file must be readable by the current user"
	}
	return ""
}
