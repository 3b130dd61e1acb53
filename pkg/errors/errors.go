package errors

import (
	"errors"
	"fmt"
)

// ErrorCode represents a unique error code for stable testing
type ErrorCode string

// Error codes for different error categories
const (
	// General errors
	ErrUnknown      ErrorCode = "UNKNOWN"
	ErrInternal     ErrorCode = "INTERNAL"
	ErrInvalidInput ErrorCode = "INVALID_INPUT"
	ErrNotFound     ErrorCode = "NOT_FOUND"

	// Configuration errors
	ErrConfigLoad  ErrorCode = "CONFIG_LOAD"
	ErrConfigParse ErrorCode = "CONFIG_PARSE"
	ErrConfigValid ErrorCode = "CONFIG_INVALID"

	// Per-entry failures
	ErrLstat         ErrorCode = "LSTAT"
	ErrReadlink      ErrorCode = "READLINK"
	ErrLinkChanged   ErrorCode = "LINK_CHANGED"
	ErrPathTooLong   ErrorCode = "PATH_TOO_LONG"
	ErrRemove        ErrorCode = "REMOVE"
	ErrSymlinkCreate ErrorCode = "SYMLINK_CREATE"
	ErrDirOpen       ErrorCode = "DIR_OPEN"

	// Directory-level failures
	ErrResourceExhausted ErrorCode = "RESOURCE_EXHAUSTED"
	ErrListingTooLong    ErrorCode = "LISTING_TOO_LONG"

	// Run-level outcomes
	ErrFailures ErrorCode = "FAILURES"
)

// FixlinksError represents a structured error with code and details
type FixlinksError struct {
	Code    ErrorCode
	Message string
	Details map[string]interface{}
	Wrapped error
}

// Error implements the error interface
func (e *FixlinksError) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Wrapped)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap implements the errors.Unwrap interface
func (e *FixlinksError) Unwrap() error {
	return e.Wrapped
}

// Is implements errors.Is interface
func (e *FixlinksError) Is(target error) bool {
	var targetErr *FixlinksError
	if errors.As(target, &targetErr) {
		return e.Code == targetErr.Code
	}
	return false
}

// New creates a new FixlinksError with the given code and message
func New(code ErrorCode, message string) *FixlinksError {
	return &FixlinksError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
	}
}

// Newf creates a new FixlinksError with a formatted message
func Newf(code ErrorCode, format string, args ...interface{}) *FixlinksError {
	return &FixlinksError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
	}
}

// Wrap wraps an existing error with a FixlinksError
func Wrap(err error, code ErrorCode, message string) *FixlinksError {
	if err == nil {
		return nil
	}
	return &FixlinksError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// Wrapf wraps an existing error with a formatted message
func Wrapf(err error, code ErrorCode, format string, args ...interface{}) *FixlinksError {
	if err == nil {
		return nil
	}
	return &FixlinksError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// WithDetail adds a detail to the error
func (e *FixlinksError) WithDetail(key string, value interface{}) *FixlinksError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// WithDetails adds multiple details to the error
func (e *FixlinksError) WithDetails(details map[string]interface{}) *FixlinksError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	for k, v := range details {
		e.Details[k] = v
	}
	return e
}

// IsErrorCode checks if an error has a specific error code
func IsErrorCode(err error, code ErrorCode) bool {
	var fixErr *FixlinksError
	if errors.As(err, &fixErr) {
		return fixErr.Code == code
	}
	return false
}

// GetErrorCode returns the error code from an error, or ErrUnknown if not a FixlinksError
func GetErrorCode(err error) ErrorCode {
	var fixErr *FixlinksError
	if errors.As(err, &fixErr) {
		return fixErr.Code
	}
	return ErrUnknown
}

// GetErrorDetails returns the details from an error, or nil if not a FixlinksError
func GetErrorDetails(err error) map[string]interface{} {
	var fixErr *FixlinksError
	if errors.As(err, &fixErr) {
		return fixErr.Details
	}
	return nil
}

// GetPath returns the "path" detail of an error, or an empty string
func GetPath(err error) string {
	if path, ok := GetErrorDetails(err)["path"].(string); ok {
		return path
	}
	return ""
}
