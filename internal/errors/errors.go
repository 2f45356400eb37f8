package errors

import (
	"errors"
	"fmt"
	"io/fs"
	"syscall"
)

// Error is the structured error type shown to CLI users.
type Error struct {
	// Code is the unique error code (e.g., "ERR_201_FILE_NOT_FOUND").
	Code string

	// Message is the human-readable error message.
	Message string

	// Category is the error category (Config, IO, Validation, Internal).
	Category Category

	// Details contains additional context as key-value pairs.
	Details map[string]string

	// Cause is the underlying error that caused this error.
	Cause error

	// Suggestion is an actionable suggestion for the user.
	Suggestion string
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for error chain support.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target is an *Error with the same code.
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Code == t.Code
	}
	return false
}

// WithDetail adds a key-value detail to the error.
func (e *Error) WithDetail(key, value string) *Error {
	if e.Details == nil {
		e.Details = make(map[string]string)
	}
	e.Details[key] = value
	return e
}

// WithSuggestion adds an actionable suggestion for the user.
func (e *Error) WithSuggestion(suggestion string) *Error {
	e.Suggestion = suggestion
	return e
}

// New creates a new Error. The category is derived from the code.
func New(code string, message string, cause error) *Error {
	return &Error{
		Code:     code,
		Message:  message,
		Category: categoryFromCode(code),
		Cause:    cause,
	}
}

// Wrap creates an Error from an existing error, keeping its message.
func Wrap(code string, err error) *Error {
	if err == nil {
		return nil
	}
	return New(code, err.Error(), err)
}

// ConfigError creates a configuration-related error.
func ConfigError(message string, cause error) *Error {
	return New(ErrCodeConfigInvalid, message, cause).
		WithSuggestion("Run 'namedlog config show' to inspect the effective configuration")
}

// ValidationError creates an input validation error.
func ValidationError(message string, cause error) *Error {
	return New(ErrCodeInvalidInput, message, cause)
}

// InternalError creates an internal error.
func InternalError(message string, cause error) *Error {
	return New(ErrCodeInternal, message, cause)
}

// Classify maps err to an *Error. Errors that already carry an *Error in
// their chain are returned as is; filesystem failures get an IO code and a
// suggestion; everything else is internal.
func Classify(err error) *Error {
	if err == nil {
		return nil
	}

	var e *Error
	if errors.As(err, &e) {
		return e
	}

	var pathErr *fs.PathError
	path := ""
	if errors.As(err, &pathErr) {
		path = pathErr.Path
	}

	var out *Error
	switch {
	case errors.Is(err, fs.ErrPermission):
		out = Wrap(ErrCodeFilePermission, err).
			WithSuggestion("Check write permissions for the log directory, or choose another one with --dir")
	case errors.Is(err, fs.ErrNotExist):
		out = Wrap(ErrCodeFileNotFound, err).
			WithSuggestion("Check that the path exists")
	case errors.Is(err, syscall.ENOSPC):
		out = Wrap(ErrCodeDiskFull, err).
			WithSuggestion("Free disk space or choose another log directory with --dir")
	case errors.Is(err, syscall.ENOTDIR), errors.Is(err, syscall.EISDIR), errors.Is(err, fs.ErrExist):
		out = Wrap(ErrCodePathConflict, err).
			WithSuggestion("A file or directory already occupies the log path; remove it or choose another --dir")
	default:
		return Wrap(ErrCodeInternal, err)
	}

	if path != "" {
		out.WithDetail("path", path)
	}
	return out
}

// GetCode extracts the error code from the chain of err.
// Returns empty string if there is no *Error.
func GetCode(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// GetCategory extracts the category from the chain of err.
// Returns empty string if there is no *Error.
func GetCategory(err error) Category {
	var e *Error
	if errors.As(err, &e) {
		return e.Category
	}
	return ""
}
