package errors

import (
	stderrors "errors"
	"fmt"
)

// Kind classifies a per-item or run-level failure.
type Kind string

const (
	KindDirectoryNotFound   Kind = "directory_not_found"
	KindConversionFailed    Kind = "conversion_failed"
	KindTranscriptionFailed Kind = "transcription_failed"
	KindEmptyResult         Kind = "empty_result"
	KindWriteFailed         Kind = "write_failed"
)

// Failure taxonomy
var (
	// Fatal to a whole run, raised before any file is touched
	ErrDirectoryNotFound = New("directory not found")

	// Per-item, counted as failed
	ErrConversionFailed    = New("conversion failed")
	ErrTranscriptionFailed = New("transcription failed")
	ErrEmptyResult         = New("empty transcription result")
	ErrWriteFailed         = New("write failed")

	// Configuration
	ErrMissingConfig   = New("configuration is required")
	ErrInvalidConfig   = New("invalid configuration")
	ErrUnknownProvider = New("provider not found")
)

var sentinels = map[Kind]*Error{
	KindDirectoryNotFound:   ErrDirectoryNotFound,
	KindConversionFailed:    ErrConversionFailed,
	KindTranscriptionFailed: ErrTranscriptionFailed,
	KindEmptyResult:         ErrEmptyResult,
	KindWriteFailed:         ErrWriteFailed,
}

// Error represents a standardized error
type Error struct {
	message string
	cause   error
}

// New creates a new error
func New(message string) *Error {
	return &Error{message: message}
}

// Newf creates a new formatted error
func Newf(format string, args ...interface{}) *Error {
	return &Error{message: fmt.Sprintf(format, args...)}
}

// Wrap attaches detail to a sentinel: the message is the detail and the cause is err.
// errors.Is(Wrap(ErrX, "..."), ErrX) holds.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return &Error{
		message: message,
		cause:   err,
	}
}

// Wrapf wraps an error with formatted context
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return &Error{
		message: fmt.Sprintf(format, args...),
		cause:   err,
	}
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.cause != nil {
		if e.message == "" {
			return e.cause.Error()
		}
		return fmt.Sprintf("%s: %s", e.cause.Error(), e.message)
	}
	return e.message
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.cause
}

// Is checks if the error matches target
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.message == t.message && e.cause == nil && t.cause == nil
}

// Sentinel returns the sentinel error for kind, or ErrTranscriptionFailed for unknown kinds.
func Sentinel(kind Kind) error {
	if s, ok := sentinels[kind]; ok {
		return s
	}
	return ErrTranscriptionFailed
}

// KindOf maps err onto the failure taxonomy. Errors outside it are transcription failures.
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}
	for _, kind := range []Kind{
		KindDirectoryNotFound,
		KindConversionFailed,
		KindEmptyResult,
		KindWriteFailed,
		KindTranscriptionFailed,
	} {
		if stderrors.Is(err, sentinels[kind]) {
			return kind
		}
	}
	return KindTranscriptionFailed
}

// RequiredField returns an error for missing required fields
func RequiredField(field string) error {
	return Wrapf(ErrMissingConfig, "%s is required", field)
}

// InvalidField returns an error for invalid field values
func InvalidField(field string, reason string) error {
	return Wrapf(ErrInvalidConfig, "%s is invalid: %s", field, reason)
}
