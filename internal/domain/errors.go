package domain

import (
	"fmt"
	"time"
)

// AssistantError represents a standardized error response
type AssistantError struct {
	Code      string    `json:"code"`
	Message   string    `json:"message"`
	Details   string    `json:"details,omitempty"`
	Timestamp time.Time `json:"timestamp"`
	RequestID string    `json:"request_id"`
}

// Error implements the error interface
func (e *AssistantError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Error codes for different failure scenarios
const (
	ErrInvalidInput    = "INVALID_INPUT"
	ErrProviderError   = "PROVIDER_ERROR"
	ErrRecordFetch     = "RECORD_FETCH_ERROR"
	ErrSessionNotFound = "SESSION_NOT_FOUND"
	ErrDocumentUpload  = "DOCUMENT_UPLOAD_ERROR"
	ErrSearchError     = "SEARCH_ERROR"
	ErrInternalServer  = "INTERNAL_SERVER_ERROR"
)

// ValidationError represents input validation errors
type ValidationError struct {
	Field   string      `json:"field"`
	Message string      `json:"message"`
	Value   interface{} `json:"value"`
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error for field '%s': %s", e.Field, e.Message)
}

// NewAssistantError creates a new AssistantError with timestamp
func NewAssistantError(code, message, details, requestID string) *AssistantError {
	return &AssistantError{
		Code:      code,
		Message:   message,
		Details:   details,
		Timestamp: time.Now().UTC(),
		RequestID: requestID,
	}
}

// NewValidationError creates a new ValidationError
func NewValidationError(field, message string, value interface{}) *ValidationError {
	return &ValidationError{
		Field:   field,
		Message: message,
		Value:   value,
	}
}
