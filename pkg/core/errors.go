package core

import (
	"errors"
	"fmt"
)

// ExecutionError represents a structured error with category and details
type ExecutionError struct {
	Category ErrorCategory
	Code     string                 // Machine-readable code: resolution_timeout, stale_reference, etc.
	Message  string                 // Human-readable message
	Details  map[string]interface{} // Additional context
	Cause    error                  // Underlying error
}

// Error implements the error interface
func (e *ExecutionError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// Unwrap returns the underlying error for errors.Is/As support
func (e *ExecutionError) Unwrap() error {
	return e.Cause
}

// Is matches by code so that sentinel comparisons survive WithCause/WithDetails copies
func (e *ExecutionError) Is(target error) bool {
	t, ok := target.(*ExecutionError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// WithCause returns a copy of the error with the given cause
func (e *ExecutionError) WithCause(cause error) *ExecutionError {
	return &ExecutionError{
		Category: e.Category,
		Code:     e.Code,
		Message:  e.Message,
		Details:  e.Details,
		Cause:    cause,
	}
}

// WithMessage returns a copy of the error with a custom message
func (e *ExecutionError) WithMessage(msg string) *ExecutionError {
	return &ExecutionError{
		Category: e.Category,
		Code:     e.Code,
		Message:  msg,
		Details:  e.Details,
		Cause:    e.Cause,
	}
}

// WithDetails returns a copy of the error with additional details
func (e *ExecutionError) WithDetails(details map[string]interface{}) *ExecutionError {
	merged := make(map[string]interface{})
	for k, v := range e.Details {
		merged[k] = v
	}
	for k, v := range details {
		merged[k] = v
	}
	return &ExecutionError{
		Category: e.Category,
		Code:     e.Code,
		Message:  e.Message,
		Details:  merged,
		Cause:    e.Cause,
	}
}

// Predefined errors
var (
	// Resolution errors
	ErrResolutionTimeout = &ExecutionError{
		Category: ErrCategoryResolution,
		Code:     "resolution_timeout",
		Message:  "no candidate locator resolved within budget",
	}

	// Interaction errors
	ErrStaleReference = &ExecutionError{
		Category: ErrCategoryInteraction,
		Code:     "stale_reference",
		Message:  "element is no longer attached to the page",
	}
	ErrNotInteractable = &ExecutionError{
		Category: ErrCategoryInteraction,
		Code:     "not_interactable",
		Message:  "element is not receiving native input",
	}

	// Assertion errors
	ErrAssertionFailed = &ExecutionError{
		Category: ErrCategoryAssertion,
		Code:     "assertion_failed",
		Message:  "verification did not match expectation",
	}

	// Timeout errors
	ErrWaitTimeout = &ExecutionError{
		Category: ErrCategoryTimeout,
		Code:     "wait_timeout",
		Message:  "wait condition timed out",
	}

	// Session errors
	ErrSessionCreate = &ExecutionError{
		Category: ErrCategorySession,
		Code:     "session_create",
		Message:  "could not create browser session",
	}
	ErrSessionClosed = &ExecutionError{
		Category: ErrCategorySession,
		Code:     "session_closed",
		Message:  "browser session is closed",
	}

	// Config errors
	ErrInvalidConfig = &ExecutionError{
		Category: ErrCategoryConfig,
		Code:     "invalid_config",
		Message:  "invalid configuration",
	}
	ErrMissingRequired = &ExecutionError{
		Category: ErrCategoryConfig,
		Code:     "missing_required",
		Message:  "missing required field",
	}
)

// NewExecutionError creates a new ExecutionError with the given parameters
func NewExecutionError(category ErrorCategory, code, message string) *ExecutionError {
	return &ExecutionError{
		Category: category,
		Code:     code,
		Message:  message,
	}
}

// NewAssertionError creates an assertion failure carrying both values.
// Expected and actual always travel in Details so the step layer can report them.
func NewAssertionError(message string, expected, actual interface{}) *ExecutionError {
	return ErrAssertionFailed.WithMessage(message).WithDetails(map[string]interface{}{
		"expected": expected,
		"actual":   actual,
	})
}

// CategoryOf returns the category of an error, unwrapping as needed
func CategoryOf(err error) ErrorCategory {
	var ee *ExecutionError
	if errors.As(err, &ee) {
		return ee.Category
	}
	return ErrCategoryNone
}

// IsResolutionTimeout reports whether err is a locator-exhaustion failure.
// Negative-test steps rely on this to treat absence as the expected outcome.
func IsResolutionTimeout(err error) bool {
	return errors.Is(err, ErrResolutionTimeout)
}

// IsWaitTimeout reports whether err is a wait-deadline failure rather than a
// predicate error.
func IsWaitTimeout(err error) bool {
	return errors.Is(err, ErrWaitTimeout)
}

// IsStaleReference reports whether err indicates a detached element handle
func IsStaleReference(err error) bool {
	return errors.Is(err, ErrStaleReference)
}

// IsNotInteractable reports whether err indicates a blocked element
func IsNotInteractable(err error) bool {
	return errors.Is(err, ErrNotInteractable)
}

// IsAssertionFailure reports whether err is an explicit verification mismatch
func IsAssertionFailure(err error) bool {
	return errors.Is(err, ErrAssertionFailed)
}
