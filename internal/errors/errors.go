// Package errors provides structured error types for shaker.
//
// ShakerError carries an error category, a stable code, and optional context
// so that run-level failures can be logged and matched without string
// comparisons. Backend build errors are intentionally propagated unwrapped
// through the executor; wrapping happens only at configuration and run
// boundaries.
package errors

import (
	"errors"
	"fmt"
)

// ErrorType represents different categories of errors.
type ErrorType string

const (
	ErrorTypeConfig ErrorType = "config"
	ErrorTypeIO     ErrorType = "io"
	ErrorTypeBuild  ErrorType = "build"
	ErrorTypeLint   ErrorType = "lint"
)

// Stable error codes.
const (
	ErrCodeInvalidConfig   = "INVALID_CONFIG"
	ErrCodeManifestMissing = "MANIFEST_MISSING"
	ErrCodeUnknownTask     = "UNKNOWN_TASK"
	ErrCodeBuildFailed     = "BUILD_FAILED"
	ErrCodeLintFailed      = "LINT_FAILED"
)

// ShakerError is a structured error with category, code and context.
type ShakerError struct {
	Type    ErrorType
	Code    string
	Message string
	Cause   error
	Context map[string]interface{}
}

// Error implements the error interface.
func (e *ShakerError) Error() string {
	msg := fmt.Sprintf("[%s] %s", e.Code, e.Message)
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying cause.
func (e *ShakerError) Unwrap() error {
	return e.Cause
}

// Is matches on type and code so callers can compare against sentinels.
func (e *ShakerError) Is(target error) bool {
	var se *ShakerError
	if !errors.As(target, &se) {
		return false
	}
	return e.Type == se.Type && (se.Code == "" || e.Code == se.Code)
}

// WithContext attaches a key/value pair to the error.
func (e *ShakerError) WithContext(key string, value interface{}) *ShakerError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// New creates a ShakerError without a cause.
func New(t ErrorType, code, message string) *ShakerError {
	return &ShakerError{Type: t, Code: code, Message: message}
}

// Wrap creates a ShakerError wrapping a cause.
func Wrap(cause error, t ErrorType, code, message string) *ShakerError {
	return &ShakerError{Type: t, Code: code, Message: message, Cause: cause}
}

// WrapConfig wraps a configuration error.
func WrapConfig(cause error, code, message string) *ShakerError {
	return Wrap(cause, ErrorTypeConfig, code, message)
}

// WrapBuild wraps a build error.
func WrapBuild(cause error, code, message string) *ShakerError {
	return Wrap(cause, ErrorTypeBuild, code, message)
}

// IsConfigError reports whether err is a configuration error.
func IsConfigError(err error) bool {
	var se *ShakerError
	return errors.As(err, &se) && se.Type == ErrorTypeConfig
}
