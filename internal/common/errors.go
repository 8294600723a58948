package common

import (
	"errors"
	"fmt"
)

// Common application errors
var (
	ErrNotFound     = errors.New("resource not found")
	ErrInvalidInput = errors.New("invalid input")
	ErrInternal     = errors.New("internal error")
	ErrDatabase     = errors.New("database error")
)

// ValidationError reports a malformed field. Field is the dot-qualified
// path of the offending value (e.g. "activity.title").
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed for field '%s': %s", e.Field, e.Message)
}

func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// ParseError reports a raw-text blob the parser could not handle.
// Text carries the original input for diagnostics.
type ParseError struct {
	Text    string
	Message string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse failed: %s", e.Message)
}

func NewParseError(text, message string) *ParseError {
	return &ParseError{Text: text, Message: message}
}

// ConversionReason tags why content could not become an activity.
type ConversionReason string

const (
	ReasonMissingTitle    ConversionReason = "missing_title"
	ReasonInvalidActivity ConversionReason = "invalid_activity"
)

// ConversionError reports a failure turning parsed content into activities.
type ConversionError struct {
	Reason  ConversionReason
	Message string
}

func (e *ConversionError) Error() string {
	return fmt.Sprintf("conversion failed (%s): %s", e.Reason, e.Message)
}

func NewConversionError(reason ConversionReason, message string) *ConversionError {
	return &ConversionError{Reason: reason, Message: message}
}

// NotFoundError reports a missing record by identity.
type NotFoundError struct {
	ID      string
	Message string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s: id=%s", e.Message, e.ID)
}

func (e *NotFoundError) Unwrap() error { return ErrNotFound }

func NewNotFoundError(id, message string) *NotFoundError {
	return &NotFoundError{ID: id, Message: message}
}

// ProcessingError reports an infrastructure-level failure (I/O, storage,
// remote service) with free-form details.
type ProcessingError struct {
	Message string
	Details string
}

func (e *ProcessingError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s", e.Message, e.Details)
	}
	return e.Message
}

func NewProcessingError(message, details string) *ProcessingError {
	return &ProcessingError{Message: message, Details: details}
}

func WrapError(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}
