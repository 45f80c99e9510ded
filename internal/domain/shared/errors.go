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
	ErrValueOutOfRange = errors.New("value out of range")
	ErrInvalidFormat   = errors.New("invalid format")

	// State errors
	ErrInvalidState    = errors.New("invalid state")
	ErrStateTransition = errors.New("invalid state transition")
	ErrAlreadyFinal    = errors.New("already in a final state")

	// Authorization errors
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")

	// External service errors
	ErrExternalService    = errors.New("external service error")
	ErrServiceUnavailable = errors.New("service unavailable")
	ErrTimeout            = errors.New("operation timeout")
	ErrRateLimited        = errors.New("rate limited")
)

// DomainError represents a domain-specific error with context.
type DomainError struct {
	Domain  string // e.g., "user", "rubric", "match"
	Op      string // Operation that failed, e.g., "Create", "Accept"
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

// User domain errors
var (
	ErrUserNotFound      = NewDomainError("user", "Find", ErrNotFound, "user not found")
	ErrUserAlreadyExists = NewDomainError("user", "Create", ErrAlreadyExists, "user already exists")
	ErrInvalidEmail      = NewDomainError("user", "Validate", ErrInvalidFormat, "invalid email address")
	ErrWeakPassword      = NewDomainError("user", "Validate", ErrInvalidInput, "password is too weak")
)

// Rubric domain errors
var (
	ErrScoreNotFound        = NewDomainError("rubric", "Find", ErrNotFound, "rubric score not found")
	ErrInvalidCategory      = NewDomainError("rubric", "Validate", ErrInvalidInput, "invalid rubric category")
	ErrInvalidScoreValue    = NewDomainError("rubric", "Validate", ErrValueOutOfRange, "score must be between 1 and 5")
	ErrEmptySubcategory     = NewDomainError("rubric", "Validate", ErrEmptyValue, "subcategory is required")
	ErrScoresNotAnalyzed    = NewDomainError("rubric", "Find", ErrNotFound, "user has no analyzed scores yet")
	ErrInvalidMetadata      = NewDomainError("rubric", "Validate", ErrInvalidFormat, "invalid score metadata")
	ErrMetadataKindMismatch = NewDomainError("rubric", "Validate", ErrInvalidFormat, "metadata kind does not match subcategory")
)

// Match domain errors
var (
	ErrMatchRequestNotFound = NewDomainError("match", "FindRequest", ErrNotFound, "match request not found")
	ErrSelfMatchRequest     = NewDomainError("match", "Send", ErrInvalidInput, "cannot send a match request to yourself")
	ErrRequestNotPending    = NewDomainError("match", "Respond", ErrStateTransition, "match request is not pending")
	ErrNotRequestReceiver   = NewDomainError("match", "Respond", ErrForbidden, "only the receiver may respond to a match request")
	ErrConnectionNotFound   = NewDomainError("match", "FindConnection", ErrNotFound, "connection not found")
	ErrConnectionExists     = NewDomainError("match", "CreateConnection", ErrAlreadyExists, "connection already exists")
)

// Notification domain errors
var (
	ErrNotificationNotFound = NewDomainError("notification", "Find", ErrNotFound, "notification not found")
	ErrInvalidNotification  = NewDomainError("notification", "Validate", ErrInvalidInput, "invalid notification")
)

// External service errors
var (
	ErrGitHubAPIUnavailable     = NewDomainError("github", "Request", ErrServiceUnavailable, "GitHub API is unavailable")
	ErrGitHubAPIRateLimited     = NewDomainError("github", "Request", ErrRateLimited, "GitHub API rate limit exceeded")
	ErrGitHubAPITimeout         = NewDomainError("github", "Request", ErrTimeout, "GitHub API request timeout")
	ErrGitHubAPIInvalidResponse = NewDomainError("github", "Parse", ErrInvalidFormat, "invalid response from GitHub API")
	ErrGitHubUserNotFound       = NewDomainError("github", "Request", ErrNotFound, "GitHub user not found")
)

// IsNotFound checks if the error is a "not found" error.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsConflict checks if the error is an "already exists" conflict.
func IsConflict(err error) bool {
	return errors.Is(err, ErrAlreadyExists)
}

// IsValidation checks if the error is a validation error.
func IsValidation(err error) bool {
	return errors.Is(err, ErrValidation) ||
		errors.Is(err, ErrInvalidID) ||
		errors.Is(err, ErrInvalidInput) ||
		errors.Is(err, ErrEmptyValue) ||
		errors.Is(err, ErrValueOutOfRange) ||
		errors.Is(err, ErrInvalidFormat)
}

// IsForbidden checks if the error is an authorization error.
func IsForbidden(err error) bool {
	return errors.Is(err, ErrForbidden) || errors.Is(err, ErrUnauthorized)
}

// IsStateTransition checks if the error is an invalid lifecycle transition.
func IsStateTransition(err error) bool {
	return errors.Is(err, ErrStateTransition) || errors.Is(err, ErrInvalidState)
}

// IsExternalService checks if the error is from an external service.
func IsExternalService(err error) bool {
	return errors.Is(err, ErrExternalService) ||
		errors.Is(err, ErrServiceUnavailable) ||
		errors.Is(err, ErrTimeout) ||
		errors.Is(err, ErrRateLimited)
}

// IsRetryable checks if the operation can be retried against an external service.
// Datastore writes are never retried (see the send race documented in match).
func IsRetryable(err error) bool {
	return errors.Is(err, ErrServiceUnavailable) || errors.Is(err, ErrTimeout)
}
