package jump

import (
	"errors"
	"fmt"
)

// Code classifies a failed run.
type Code string

const (
	// CodeUsage is a malformed invocation. Nothing was attempted.
	CodeUsage Code = "USAGE"
	// CodePath is a directory argument that does not exist or cannot be resolved.
	CodePath Code = "PATH"
	// CodeNoMatch means no pane satisfied the filters.
	CodeNoMatch Code = "NO_MATCH"
	// CodeCollaborator means ps or the pane listing could not be run.
	CodeCollaborator Code = "COLLABORATOR"
	// CodeAction means sending keys or focusing the pane failed.
	CodeAction Code = "ACTION"
	// CodeCancelled means the chooser was dismissed.
	CodeCancelled Code = "CANCELLED"
)

// Error is a classified failure. Message is the line shown to the user.
type Error struct {
	Code    Code           `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
	Cause   error          `json:"-"`
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// WithDetail attaches a key/value for debug logging.
func (e *Error) WithDetail(key string, value any) *Error {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// NewError creates a classified error.
func NewError(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// WrapError classifies an existing error.
func WrapError(err error, code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...), Cause: err}
}

// CodeOf extracts the code of the outermost *Error in err's chain, or "".
func CodeOf(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// IsCode reports whether err carries the given code.
func IsCode(err error, code Code) bool {
	return err != nil && CodeOf(err) == code
}
