package core

import (
	"errors"
	"fmt"
	"time"
)

// ExecutionError represents a structured error with category and details
type ExecutionError struct {
	Category ErrorCategory
	Code     string                 // Machine-readable code: element_not_found, state_mismatch, etc.
	Message  string                 // Human-readable message
	Locator  string                 // Locator identity of the target, if any
	Details  map[string]interface{} // Additional context
	Cause    error                  // Underlying error
}

// Error implements the error interface
func (e *ExecutionError) Error() string {
	msg := e.Message
	if e.Locator != "" {
		msg = fmt.Sprintf("%s [%s]", msg, e.Locator)
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", msg, e.Cause)
	}
	return msg
}

// Unwrap returns the underlying error for errors.Is/As support
func (e *ExecutionError) Unwrap() error {
	return e.Cause
}

// Is reports whether target is an ExecutionError with the same code, so copies made with the
// With* helpers still match the predefined values.
func (e *ExecutionError) Is(target error) bool {
	t, ok := target.(*ExecutionError)
	if !ok {
		return false
	}
	return t.Code != "" && t.Code == e.Code
}

func (e *ExecutionError) clone() *ExecutionError {
	c := *e
	return &c
}

// WithCause returns a copy of the error with the given cause
func (e *ExecutionError) WithCause(cause error) *ExecutionError {
	c := e.clone()
	c.Cause = cause
	return c
}

// WithMessage returns a copy of the error with a custom message
func (e *ExecutionError) WithMessage(msg string) *ExecutionError {
	c := e.clone()
	c.Message = msg
	return c
}

// WithLocator returns a copy of the error naming the target it concerns
func (e *ExecutionError) WithLocator(loc fmt.Stringer) *ExecutionError {
	c := e.clone()
	c.Locator = loc.String()
	return c
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
	c := e.clone()
	c.Details = merged
	return c
}

// Predefined errors
var (
	// Location errors
	ErrElementNotFound = &ExecutionError{
		Category: ErrCategoryNotFound,
		Code:     "element_not_found",
		Message:  "element not found",
	}
	ErrStaleElement = &ExecutionError{
		Category: ErrCategoryNotFound,
		Code:     "stale_element",
		Message:  "element is no longer attached to the page",
	}

	// Assertion errors
	ErrStateMismatch = &ExecutionError{
		Category: ErrCategoryAssertion,
		Code:     "state_mismatch",
		Message:  "state does not match requested value",
	}

	// Interaction errors
	ErrNotInteractable = &ExecutionError{
		Category: ErrCategoryInteraction,
		Code:     "not_interactable",
		Message:  "element cannot be interacted with",
	}

	// Timeout errors
	ErrDriverTimeout = &ExecutionError{
		Category: ErrCategoryTimeout,
		Code:     "driver_timeout",
		Message:  "browser call timed out",
	}

	// Navigation errors
	ErrRouteUndefined = &ExecutionError{
		Category: ErrCategoryNavigation,
		Code:     "route_undefined",
		Message:  "no route from this page to the destination",
	}
	ErrNavigationIncomplete = &ExecutionError{
		Category: ErrCategoryNavigation,
		Code:     "navigation_incomplete",
		Message:  "destination did not appear after navigating",
	}

	// Config errors
	ErrInvalidLocator = &ExecutionError{
		Category: ErrCategoryConfig,
		Code:     "invalid_locator",
		Message:  "locator cannot be resolved",
	}
	ErrInvalidConfig = &ExecutionError{
		Category: ErrCategoryConfig,
		Code:     "invalid_config",
		Message:  "invalid configuration",
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

// NotFound builds the error reported when loc could not be located within timeout.
func NotFound(loc fmt.Stringer, timeout time.Duration, cause error) *ExecutionError {
	return ErrElementNotFound.
		WithMessage(fmt.Sprintf("unable to locate element within %s", timeout)).
		WithLocator(loc).
		WithDetails(map[string]interface{}{"timeout": timeout}).
		WithCause(cause)
}

// StateMismatch builds the error reported when a setter's post-condition does not hold.
func StateMismatch(msg string, loc fmt.Stringer, requested, observed interface{}) *ExecutionError {
	e := ErrStateMismatch.
		WithMessage(fmt.Sprintf("%s: requested %v, observed %v", msg, requested, observed)).
		WithDetails(map[string]interface{}{"requested": requested, "observed": observed})
	if loc != nil {
		e = e.WithLocator(loc)
	}
	return e
}

// MismatchValues extracts the requested and observed values from a state mismatch error.
func MismatchValues(err error) (requested, observed interface{}, ok bool) {
	var e *ExecutionError
	if !errors.As(err, &e) || e.Code != ErrStateMismatch.Code {
		return nil, nil, false
	}
	return e.Details["requested"], e.Details["observed"], true
}

// CategoryOf returns the category of err, or ErrCategoryNone when err is not structured.
func CategoryOf(err error) ErrorCategory {
	var e *ExecutionError
	if errors.As(err, &e) {
		return e.Category
	}
	return ErrCategoryNone
}

// IsNotFound reports whether err means the target could not be located.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrElementNotFound)
}

// IsStale reports whether err means a resolved element was detached before use.
func IsStale(err error) bool {
	return errors.Is(err, ErrStaleElement)
}

// IsStateMismatch reports whether err is a setter post-condition failure.
func IsStateMismatch(err error) bool {
	return errors.Is(err, ErrStateMismatch)
}
