package errors

import (
	"encoding/json"
	"fmt"
)

// ErrorCode represents a specific error condition
type ErrorCode string

const (
	// Content tree errors
	ErrCodeBoundaryViolation ErrorCode = "BOUNDARY_VIOLATION"
	ErrCodeNotFound          ErrorCode = "NOT_FOUND"
	ErrCodeIOFailure         ErrorCode = "IO_FAILURE"

	// Reference registry errors
	ErrCodeUnknownToken ErrorCode = "UNKNOWN_TOKEN"

	// Configuration errors
	ErrCodeConfigNotFound ErrorCode = "CONFIG_NOT_FOUND"
	ErrCodeConfigInvalid  ErrorCode = "CONFIG_INVALID"

	// General errors
	ErrCodeInvalidInput ErrorCode = "INVALID_INPUT"
	ErrCodeInternal     ErrorCode = "INTERNAL_ERROR"
)

// BotError represents a structured error with context
type BotError struct {
	Code    ErrorCode              `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
	Cause   error                  `json:"-"`
}

// Error implements the error interface
func (e *BotError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap implements the errors.Unwrap interface
func (e *BotError) Unwrap() error {
	return e.Cause
}

// WithDetail adds a detail to the error
func (e *BotError) WithDetail(key string, value interface{}) *BotError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// ToJSON converts the error to JSON
func (e *BotError) ToJSON() string {
	data, _ := json.MarshalIndent(e, "", "  ")
	return string(data)
}

// New creates a new BotError
func New(code ErrorCode, message string) *BotError {
	return &BotError{
		Code:    code,
		Message: message,
	}
}

// Wrap wraps an existing error with a BotError
func Wrap(err error, code ErrorCode, message string) *BotError {
	return &BotError{
		Code:    code,
		Message: message,
		Cause:   err,
	}
}

// Is checks if an error is a specific BotError code
func Is(err error, code ErrorCode) bool {
	if err == nil {
		return false
	}

	botErr, ok := err.(*BotError)
	if !ok {
		// Try to unwrap
		if unwrapper, ok := err.(interface{ Unwrap() error }); ok {
			return Is(unwrapper.Unwrap(), code)
		}
		return false
	}

	return botErr.Code == code
}

// GetCode extracts the error code from an error
func GetCode(err error) ErrorCode {
	if err == nil {
		return ""
	}

	botErr, ok := err.(*BotError)
	if !ok {
		if unwrapper, ok := err.(interface{ Unwrap() error }); ok {
			return GetCode(unwrapper.Unwrap())
		}
		return ""
	}

	return botErr.Code
}
