package cli

// CLIError is a structured error used for consistent NDJSON/text emission.
type CLIError struct {
	Code    string
	Message string
	Hint    string
	Err     error
}

func (e *CLIError) Error() string {
	if e == nil {
		return ""
	}
	return e.Message
}

func (e *CLIError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// Error codes
const (
	CodeInvalidFlags     = "INVALID_FLAGS"
	CodeFileNotFound     = "FILE_NOT_FOUND"
	CodePermissionDenied = "PERMISSION_DENIED"
	CodeOpenError        = "OPEN_ERROR"
	CodeReadError        = "READ_ERROR"
	CodeOutputError      = "OUTPUT_ERROR"
)
