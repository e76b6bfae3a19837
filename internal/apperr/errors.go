package apperr

import (
	"errors"
	"fmt"
)

// Sentinel errors for the failure classes of the scoring engine.
var (
	// ErrTransientTransport is returned when the remote analyzer could not be reached
	// after all retry attempts.
	ErrTransientTransport = errors.New("transient transport error")

	// ErrMalformedResponse is returned when a remote response has no recognizable content.
	ErrMalformedResponse = errors.New("malformed response")

	// ErrModelUnavailable is returned when a model required by a matching tier failed to load.
	ErrModelUnavailable = errors.New("model unavailable")

	// ErrDuplicateSubmission is returned when an application already has an assessment result.
	ErrDuplicateSubmission = errors.New("duplicate submission")

	// ErrValidation is returned when input is rejected before any scoring happens.
	ErrValidation = errors.New("invalid input")

	// ErrResultNotFound is returned when no assessment result exists for an application.
	ErrResultNotFound = errors.New("assessment result not found")
)

// ValidationError represents an input validation error with context.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation error for field '%s': %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation error: %s", e.Message)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// NewValidationError creates a new ValidationError.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// DuplicateSubmissionError reports a second assessment submission for one application.
type DuplicateSubmissionError struct {
	ApplicationID int64
}

func (e *DuplicateSubmissionError) Error() string {
	return fmt.Sprintf("application %d has already submitted this assessment", e.ApplicationID)
}

func (e *DuplicateSubmissionError) Is(target error) bool {
	return target == ErrDuplicateSubmission
}

// NewDuplicateSubmissionError creates a new DuplicateSubmissionError.
func NewDuplicateSubmissionError(applicationID int64) *DuplicateSubmissionError {
	return &DuplicateSubmissionError{ApplicationID: applicationID}
}

// ModelUnavailableError names the model that failed to load and keeps the load error.
type ModelUnavailableError struct {
	Model string
	Err   error
}

func (e *ModelUnavailableError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("model '%s' unavailable: %v", e.Model, e.Err)
	}
	return fmt.Sprintf("model '%s' unavailable", e.Model)
}

func (e *ModelUnavailableError) Is(target error) bool {
	return target == ErrModelUnavailable
}

func (e *ModelUnavailableError) Unwrap() error {
	return e.Err
}

// NewModelUnavailableError creates a new ModelUnavailableError.
func NewModelUnavailableError(model string, err error) *ModelUnavailableError {
	return &ModelUnavailableError{Model: model, Err: err}
}
