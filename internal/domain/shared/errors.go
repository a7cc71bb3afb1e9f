// Package shared contains common domain types and errors used across all
// domain packages. This package has zero external dependencies.
package shared

import (
	"errors"
	"fmt"
)

// Base domain errors that can be used for error checking with errors.Is().
var (
	// Entity errors
	ErrNotFound      = errors.New("entity not found")
	ErrAlreadyExists = errors.New("entity already exists")

	// Validation errors
	ErrValidation      = errors.New("validation error")
	ErrInvalidID       = errors.New("invalid ID")
	ErrInvalidInput    = errors.New("invalid input")
	ErrEmptyValue      = errors.New("value cannot be empty")
	ErrValueOutOfRange = errors.New("value out of range")

	// Data-quality errors: a record is structurally present but a required
	// signal is missing or non-numeric. Recovered per record, never fatal
	// to the whole roster.
	ErrDataQuality = errors.New("data quality error")

	// External service errors
	ErrTransport          = errors.New("transport failure")
	ErrServiceUnavailable = errors.New("service unavailable")
	ErrTimeout            = errors.New("operation timeout")
)

// DomainError represents a domain-specific error with context.
type DomainError struct {
	Domain  string // e.g., "risk", "roster", "alert"
	Op      string // Operation that failed, e.g., "Classify", "Dispatch"
	Kind    error  // Base error type for errors.Is() checking
	Message string // Human-readable message
	Err     error  // Underlying error (optional)
}

// Error implements the error interface.
func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s.%s: %s: %v", e.Domain, e.Op, e.Message, e.Err)
	}
	return fmt.Sprintf("%s.%s: %s", e.Domain, e.Op, e.Message)
}

// Unwrap returns the underlying error for errors.Unwrap().
func (e *DomainError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return e.Kind
}

// Is implements errors.Is() matching.
func (e *DomainError) Is(target error) bool {
	if e.Kind != nil && errors.Is(e.Kind, target) {
		return true
	}
	if e.Err != nil && errors.Is(e.Err, target) {
		return true
	}
	return false
}

// NewDomainError creates a new domain error.
func NewDomainError(domain, op string, kind error, message string) *DomainError {
	return &DomainError{
		Domain:  domain,
		Op:      op,
		Kind:    kind,
		Message: message,
	}
}

// WrapError wraps an existing error with domain context.
func WrapError(domain, op string, kind error, message string, err error) *DomainError {
	return &DomainError{
		Domain:  domain,
		Op:      op,
		Kind:    kind,
		Message: message,
		Err:     err,
	}
}

// DataQualityError reports a student record whose signal fields cannot be
// scored. It carries the offending student id and field so callers can
// surface the warning and exclude the record from aggregates.
type DataQualityError struct {
	StudentID string
	Field     string
	Reason    string
}

// Error implements the error interface.
func (e *DataQualityError) Error() string {
	return fmt.Sprintf("data quality: student %s field %q: %s", e.StudentID, e.Field, e.Reason)
}

// Is lets errors.Is(err, ErrDataQuality) match.
func (e *DataQualityError) Is(target error) bool {
	return target == ErrDataQuality
}

// NewDataQualityError creates a data-quality error for one record field.
func NewDataQualityError(studentID, field, reason string) *DataQualityError {
	return &DataQualityError{StudentID: studentID, Field: field, Reason: reason}
}

// IsNotFound checks if the error is a "not found" error.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsValidation checks if the error is a validation error.
func IsValidation(err error) bool {
	return errors.Is(err, ErrValidation) ||
		errors.Is(err, ErrInvalidID) ||
		errors.Is(err, ErrInvalidInput) ||
		errors.Is(err, ErrEmptyValue) ||
		errors.Is(err, ErrValueOutOfRange)
}

// IsDataQuality checks if the error is a data-quality error.
func IsDataQuality(err error) bool {
	return errors.Is(err, ErrDataQuality)
}

// IsTransport checks if the error came from the outbound transport.
func IsTransport(err error) bool {
	return errors.Is(err, ErrTransport) ||
		errors.Is(err, ErrServiceUnavailable) ||
		errors.Is(err, ErrTimeout)
}
