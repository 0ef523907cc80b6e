package cli

import (
	"github.com/vburojevic/trunk/internal/output"
)

// outputErrorCommon normalizes error emission across commands, respecting
// ndjson vs text formats so scripted consumers always get machine-readable
// failures.
func outputErrorCommon(globals *Globals, code, message string, hint ...string) error {
	h := ""
	if len(hint) > 0 {
		h = hint[0]
	}
	if globals != nil && globals.Format == "ndjson" {
		_ = output.NewNDJSONWriter(globals.Stdout, "").WriteError(code, message, h)
	} else if globals != nil {
		_ = output.NewTextWriter(globals.Stderr, nil).WriteError(code, message, h)
	}
	return &CLIError{Code: code, Message: message, Hint: h}
}

// outputCauseError emits like outputErrorCommon and keeps cause reachable
// through errors.Is and errors.As.
func outputCauseError(globals *Globals, code string, cause error, hint ...string) error {
	err := outputErrorCommon(globals, code, cause.Error(), hint...)
	err.(*CLIError).Err = cause
	return err
}

// outputWarning writes a warning the way outputErrorCommon writes errors.
// Quiet mode drops it.
func outputWarning(globals *Globals, message string) {
	if globals == nil || globals.Quiet {
		return
	}
	if globals.Format == "ndjson" {
		_ = output.NewNDJSONWriter(globals.Stdout, "").WriteWarning(message)
		return
	}
	_ = output.NewTextWriter(globals.Stderr, nil).WriteWarning(message)
}
