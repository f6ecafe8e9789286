package core

import "fmt"

// Status represents the outcome of a check
type Status int

const (
	StatusPending Status = iota // Not yet started
	StatusRunning               // Currently executing
	StatusPassed                // Target located / state as expected
	StatusFailed                // Target not located or state mismatch
	StatusErrored               // Unexpected error (driver, config)
	StatusSkipped               // Owning view is not the current screen
)

// String returns the string representation of Status
func (s Status) String() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusRunning:
		return "running"
	case StatusPassed:
		return "passed"
	case StatusFailed:
		return "failed"
	case StatusErrored:
		return "errored"
	case StatusSkipped:
		return "skipped"
	default:
		return "unknown"
	}
}

// IsTerminal returns true if the status is a final state
func (s Status) IsTerminal() bool {
	switch s {
	case StatusPassed, StatusFailed, StatusErrored, StatusSkipped:
		return true
	default:
		return false
	}
}

// IsSuccess returns true if the status does not indicate a failure
func (s Status) IsSuccess() bool {
	return s == StatusPassed || s == StatusSkipped
}

// StatusFromError maps an operation error to a check status.
func StatusFromError(err error) Status {
	switch CategoryOf(err) {
	case ErrCategoryNone:
		if err == nil {
			return StatusPassed
		}
		return StatusErrored
	case ErrCategoryNotFound, ErrCategoryAssertion, ErrCategoryNavigation:
		return StatusFailed
	default:
		return StatusErrored
	}
}

// ErrorCategory classifies the type of error for better debugging and reporting
type ErrorCategory int

const (
	ErrCategoryNone        ErrorCategory = iota // No error
	ErrCategoryNotFound                         // Element never located, or detached
	ErrCategoryAssertion                        // Requested state not observed after a setter
	ErrCategoryInteraction                      // Element located but the interaction was refused
	ErrCategoryTimeout                          // Driver operation timed out
	ErrCategoryNavigation                       // Route missing or destination never appeared
	ErrCategoryConfig                           // Invalid configuration or locator
)

// String returns the string representation of ErrorCategory
func (c ErrorCategory) String() string {
	switch c {
	case ErrCategoryNone:
		return "none"
	case ErrCategoryNotFound:
		return "not_found"
	case ErrCategoryAssertion:
		return "assertion"
	case ErrCategoryInteraction:
		return "interaction"
	case ErrCategoryTimeout:
		return "timeout"
	case ErrCategoryNavigation:
		return "navigation"
	case ErrCategoryConfig:
		return "config"
	default:
		return "unknown"
	}
}

// MarshalText encodes the status by name.
func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// MarshalText encodes the category by name.
func (c ErrorCategory) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// UnmarshalText decodes a status name.
func (s *Status) UnmarshalText(text []byte) error {
	for v := StatusPending; v <= StatusSkipped; v++ {
		if v.String() == string(text) {
			*s = v
			return nil
		}
	}
	return fmt.Errorf("unknown status %q", text)
}

// UnmarshalText decodes a category name.
func (c *ErrorCategory) UnmarshalText(text []byte) error {
	for v := ErrCategoryNone; v <= ErrCategoryConfig; v++ {
		if v.String() == string(text) {
			*c = v
			return nil
		}
	}
	return fmt.Errorf("unknown error category %q", text)
}
