package common

import (
	"errors"
	"fmt"
)

// ErrorCode represents different types of errors in the dashboard backend
type ErrorCode int

const (
	// General errors
	ErrInternal ErrorCode = iota + 1000
	ErrInvalidInput
	ErrNotFound
)

const (
	// Authentication and session errors
	ErrUnauthorized ErrorCode = iota + 2000
	ErrMalformedToken
	ErrExpiredSession
	ErrNoTenant
)

const (
	// Upstream API errors
	ErrNetworkFailure ErrorCode = iota + 3000
	ErrUpstream
)

const (
	// Storage errors
	ErrStorageUnavailable ErrorCode = iota + 4000
)

// DashboardError represents an error raised by the dashboard core
type DashboardError struct {
	Code    ErrorCode
	Message string
	Cause   error
	Context map[string]interface{}
}

// Error implements the error interface
func (e *DashboardError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%d] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%d] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error
func (e *DashboardError) Unwrap() error {
	return e.Cause
}

// NewError creates a new DashboardError
func NewError(code ErrorCode, message string) *DashboardError {
	return &DashboardError{
		Code:    code,
		Message: message,
		Context: make(map[string]interface{}),
	}
}

// NewErrorWithCause creates a new DashboardError with an underlying cause
func NewErrorWithCause(code ErrorCode, message string, cause error) *DashboardError {
	return &DashboardError{
		Code:    code,
		Message: message,
		Cause:   cause,
		Context: make(map[string]interface{}),
	}
}

// WithContext adds context to the error
func (e *DashboardError) WithContext(key string, value interface{}) *DashboardError {
	e.Context[key] = value
	return e
}

// IsErrorCode reports whether any error in err's chain carries the given code
func IsErrorCode(err error, code ErrorCode) bool {
	var dashErr *DashboardError
	if errors.As(err, &dashErr) {
		return dashErr.Code == code
	}
	return false
}

// CodeOf returns the code of the first DashboardError in err's chain,
// or ErrInternal when there is none.
func CodeOf(err error) ErrorCode {
	var dashErr *DashboardError
	if errors.As(err, &dashErr) {
		return dashErr.Code
	}
	return ErrInternal
}

// Common error constructors
func ErrInvalidInputError(message string) *DashboardError {
	return NewError(ErrInvalidInput, message)
}

func ErrNotFoundError(message string) *DashboardError {
	return NewError(ErrNotFound, message)
}

func ErrExpiredSessionError() *DashboardError {
	return NewError(ErrExpiredSession, "please log in again")
}

func ErrNoTenantError() *DashboardError {
	return NewError(ErrNoTenant, "no active tenant")
}
