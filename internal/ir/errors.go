package ir

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorCode categorizes compilation errors.
type ErrorCode string

const (
	// ErrCodeConfig indicates a mismatch between the domain layer and the
	// protocol layer: unknown action type, register kind, effector or frame.
	ErrCodeConfig ErrorCode = "CONFIG_ERROR"

	// ErrCodeDataInconsistency indicates malformed domain input: missing
	// tracker expectation, empty position list, wrong definition for a tag.
	ErrCodeDataInconsistency ErrorCode = "DATA_INCONSISTENCY"
)

// Error is a fatal, non-retryable compilation error.
//
// Origin is the stack of components the error travelled through, outermost
// first (e.g. ["COMPILER", "PROXY", "REGISTER"]).
type Error struct {
	Code    ErrorCode
	Origin  []string
	Message string
}

// Error implements the error interface.
func (e *Error) Error() string {
	if len(e.Origin) > 0 {
		return fmt.Sprintf("%s: %s (origin=%s)", e.Code, e.Message, strings.Join(e.Origin, "."))
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// WithOrigin prefixes the origin stack and returns the same error.
func (e *Error) WithOrigin(origin ...string) *Error {
	e.Origin = append(append([]string{}, origin...), e.Origin...)
	return e
}

// NewConfigError creates an Error with ErrCodeConfig.
func NewConfigError(origin, format string, args ...any) *Error {
	return &Error{
		Code:    ErrCodeConfig,
		Origin:  []string{origin},
		Message: fmt.Sprintf(format, args...),
	}
}

// NewDataError creates an Error with ErrCodeDataInconsistency.
func NewDataError(origin, format string, args ...any) *Error {
	return &Error{
		Code:    ErrCodeDataInconsistency,
		Origin:  []string{origin},
		Message: fmt.Sprintf(format, args...),
	}
}

// AddOrigin prefixes the origin stack when err is an *Error and returns err unchanged otherwise.
func AddOrigin(err error, origin ...string) error {
	var e *Error
	if errors.As(err, &e) {
		e.WithOrigin(origin...)
	}
	return err
}

// IsConfigError returns true if err is (or wraps) a configuration error.
func IsConfigError(err error) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == ErrCodeConfig
	}
	return false
}

// IsDataError returns true if err is (or wraps) a data inconsistency error.
func IsDataError(err error) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == ErrCodeDataInconsistency
	}
	return false
}
