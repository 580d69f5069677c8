// Package shared contains common domain types, errors, events, and value objects
// that are used across all domain packages. This package has zero external dependencies.
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
	ErrInvalidEntity = errors.New("invalid entity")

	// Validation errors
	ErrValidation      = errors.New("validation error")
	ErrInvalidID       = errors.New("invalid ID")
	ErrInvalidInput    = errors.New("invalid input")
	ErrEmptyValue      = errors.New("value cannot be empty")
	ErrNegativeValue   = errors.New("value cannot be negative")
	ErrValueOutOfRange = errors.New("value out of range")
	ErrInvalidFormat   = errors.New("invalid format")

	// State errors
	ErrInvalidState     = errors.New("invalid state")
	ErrStateTransition  = errors.New("invalid state transition")
	ErrAlreadyProcessed = errors.New("already processed")

	// Authorization errors
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")

	// Persistence errors
	ErrStorage            = errors.New("storage error")
	ErrSerialization      = errors.New("serialization error")
	ErrServiceUnavailable = errors.New("service unavailable")
	ErrTimeout            = errors.New("operation timeout")
)

// DomainError represents a domain-specific error with context.
type DomainError struct {
	Domain  string // e.g., "userdata", "challenge"
	Op      string // Operation that failed, e.g., "Save", "Toggle"
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

// UserData domain errors
var (
	ErrGoalNotFound      = NewDomainError("userdata", "FindGoal", ErrNotFound, "goal not found")
	ErrSessionNotFound   = NewDomainError("userdata", "FindSession", ErrNotFound, "study session not found")
	ErrSessionCompleted  = NewDomainError("userdata", "CompleteSession", ErrAlreadyProcessed, "session already completed")
	ErrInvalidWeekday    = NewDomainError("userdata", "Validate", ErrInvalidInput, "not a valid weekday name")
	ErrInvalidStressLvl  = NewDomainError("userdata", "Validate", ErrValueOutOfRange, "stress level must be between 1 and 10")
	ErrInvalidPriority   = NewDomainError("userdata", "Validate", ErrInvalidInput, "invalid goal priority")
	ErrBaselineSet       = NewDomainError("userdata", "SetBaseline", ErrAlreadyExists, "baseline already recorded")
	ErrNoSubjects        = NewDomainError("userdata", "Validate", ErrEmptyValue, "subject list is empty")
	ErrInvalidDuration   = NewDomainError("userdata", "Validate", ErrValueOutOfRange, "duration must be positive")
	ErrEmptyGoalText     = NewDomainError("userdata", "Validate", ErrEmptyValue, "goal text cannot be empty")
	ErrEmptySubjectName  = NewDomainError("userdata", "Validate", ErrEmptyValue, "subject name cannot be empty")
	ErrNegativeHours     = NewDomainError("userdata", "Validate", ErrNegativeValue, "hours cannot be negative")
)

// Challenge domain errors
var (
	ErrChallengeNotFound  = NewDomainError("challenge", "Find", ErrNotFound, "no challenge started")
	ErrChallengeFinished  = NewDomainError("challenge", "Update", ErrInvalidState, "challenge already completed")
	ErrInvalidChallenge   = NewDomainError("challenge", "Validate", ErrInvalidInput, "invalid challenge type")
	ErrChallengeNotActive = NewDomainError("challenge", "Update", ErrInvalidState, "challenge is not active")
)

// Persistence errors
var (
	ErrBlobNotFound     = NewDomainError("storage", "Get", ErrNotFound, "blob not found")
	ErrBlobCorrupt      = NewDomainError("storage", "Decode", ErrSerialization, "stored blob is not valid JSON")
	ErrStoreUnavailable = NewDomainError("storage", "Connect", ErrServiceUnavailable, "key-value store is unavailable")
)

// IsNotFound checks if the error is a "not found" error.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsAlreadyExists checks if the error is an "already exists" error.
func IsAlreadyExists(err error) bool {
	return errors.Is(err, ErrAlreadyExists)
}

// IsValidation checks if the error is a validation error.
func IsValidation(err error) bool {
	return errors.Is(err, ErrValidation) ||
		errors.Is(err, ErrInvalidID) ||
		errors.Is(err, ErrInvalidInput) ||
		errors.Is(err, ErrEmptyValue) ||
		errors.Is(err, ErrNegativeValue) ||
		errors.Is(err, ErrValueOutOfRange)
}

// IsStorage checks if the error came from the persistence layer.
func IsStorage(err error) bool {
	return errors.Is(err, ErrStorage) ||
		errors.Is(err, ErrSerialization) ||
		errors.Is(err, ErrServiceUnavailable) ||
		errors.Is(err, ErrTimeout)
}

// IsRetryable checks if the operation can be retried.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrServiceUnavailable) ||
		errors.Is(err, ErrTimeout)
}
