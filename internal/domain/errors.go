package domain

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrorCode represents a specific type of error in the domain
type ErrorCode string

const (
	// Common errors
	CodeInternal     ErrorCode = "INTERNAL_ERROR"
	CodeInvalidInput ErrorCode = "INVALID_INPUT"
	CodeNotFound     ErrorCode = "NOT_FOUND"

	// Lesson generation errors
	CodeGenerationNotConfigured ErrorCode = "GENERATION_NOT_CONFIGURED"
	CodeGenerationFailed        ErrorCode = "GENERATION_FAILED"
	CodeMalformedOutput         ErrorCode = "MALFORMED_OUTPUT"
	CodeIncompleteStructure     ErrorCode = "INCOMPLETE_STRUCTURE"
	CodeInvalidStructure        ErrorCode = "INVALID_STRUCTURE"
)

// ErrLessonAlreadyExists is returned by a LessonRepository when another
// writer already stored a lesson under the same topic key.
var ErrLessonAlreadyExists = errors.New("lesson already exists for topic key")

// DomainError represents a domain-specific error
type DomainError struct {
	Code    ErrorCode              `json:"code"`
	Message string                 `json:"message"`
	Cause   error                  `json:"-"`
	Context map[string]interface{} `json:"-"`
}

func (e *DomainError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Cause
}

// MarshalJSON implements the json.Marshaler interface.
// Context is diagnostic only and never leaves the process.
func (e *DomainError) MarshalJSON() ([]byte, error) {
	return json.Marshal(&struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	}{
		Code:    string(e.Code),
		Message: e.Message,
	})
}

// WithContext attaches a diagnostic key/value and returns the same error.
func (e *DomainError) WithContext(key string, value interface{}) *DomainError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// NewError creates a new DomainError
func NewError(code ErrorCode, message string, cause error) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// HasCode reports whether err is (or wraps) a DomainError with the given code.
func HasCode(err error, code ErrorCode) bool {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Code == code
	}
	return false
}

// Helper functions for common errors
func NewInvalidInputError(message string) *DomainError {
	return NewError(CodeInvalidInput, message, nil)
}

func NewInternalError(message string, err error) *DomainError {
	return NewError(CodeInternal, message, err)
}

func NewGenerationNotConfiguredError() *DomainError {
	return NewError(CodeGenerationNotConfigured, "Lesson generation is not configured", nil)
}

func NewGenerationFailedError(err error) *DomainError {
	return NewError(CodeGenerationFailed, "Failed to generate lesson with the external generator", err)
}

func NewMalformedOutputError(raw string, err error) *DomainError {
	return NewError(CodeMalformedOutput, "Generator output is not valid JSON", err).
		WithContext("raw_output", raw)
}

func NewIncompleteStructureError(missing []string, raw string) *DomainError {
	return NewError(CodeIncompleteStructure, fmt.Sprintf("Generator output is missing fields: %v", missing), nil).
		WithContext("missing_fields", missing).
		WithContext("raw_output", raw)
}

func NewInvalidStructureError(raw string, err error) *DomainError {
	return NewError(CodeInvalidStructure, "Generator output does not match the lesson schema", err).
		WithContext("raw_output", raw)
}
