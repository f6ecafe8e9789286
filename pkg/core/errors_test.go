package core

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/devicelab-dev/perspective-pom/pkg/locator"
)

func TestExecutionError_Error(t *testing.T) {
	err := &ExecutionError{
		Category: ErrCategoryAssertion,
		Code:     "test_error",
		Message:  "test message",
	}

	if got := err.Error(); got != "test message" {
		t.Errorf("Error() = %q, want %q", got, "test message")
	}
}

func TestExecutionError_ErrorWithCauseAndLocator(t *testing.T) {
	cause := errors.New("underlying error")
	err := ErrElementNotFound.WithCause(cause).WithLocator(locator.ID("save"))

	got := err.Error()
	for _, want := range []string{"element not found", "[id=save]", "underlying error"} {
		if !strings.Contains(got, want) {
			t.Errorf("Error() = %q, should contain %q", got, want)
		}
	}
}

func TestExecutionError_Unwrap(t *testing.T) {
	cause := errors.New("underlying error")
	err := &ExecutionError{Message: "wrapper", Cause: cause}

	if got := err.Unwrap(); got != cause {
		t.Errorf("Unwrap() = %v, want %v", got, cause)
	}
	if !errors.Is(err, cause) {
		t.Error("errors.Is should find the cause")
	}
}

func TestExecutionError_WithHelpersCopy(t *testing.T) {
	original := ErrElementNotFound
	cause := errors.New("custom cause")

	newErr := original.WithCause(cause).WithMessage("custom").WithDetails(map[string]interface{}{"k": 1})

	if newErr.Cause != cause {
		t.Error("WithCause() did not set cause")
	}
	if newErr.Message != "custom" {
		t.Errorf("Message = %q, want %q", newErr.Message, "custom")
	}
	if newErr.Details["k"] != 1 {
		t.Errorf("Details[k] = %v, want 1", newErr.Details["k"])
	}
	if original.Cause != nil || original.Message != "element not found" || original.Details != nil {
		t.Error("With* helpers modified the predefined error")
	}
}

func TestExecutionError_IsMatchesCode(t *testing.T) {
	err := ErrStaleElement.WithMessage("gone").WithLocator(locator.CSS(".row"))

	if !errors.Is(err, ErrStaleElement) {
		t.Error("copy should match ErrStaleElement")
	}
	if errors.Is(err, ErrElementNotFound) {
		t.Error("stale error should not match ErrElementNotFound")
	}
	if !IsStale(err) {
		t.Error("IsStale() = false, want true")
	}
}

func TestNotFound(t *testing.T) {
	loc := locator.Class("spinner")
	err := NotFound(loc, 2*time.Second, ErrStaleElement)

	if !IsNotFound(err) {
		t.Error("IsNotFound() = false, want true")
	}
	if err.Locator != loc.String() {
		t.Errorf("Locator = %q, want %q", err.Locator, loc.String())
	}
	if err.Details["timeout"] != 2*time.Second {
		t.Errorf("timeout detail = %v, want 2s", err.Details["timeout"])
	}
	if !strings.Contains(err.Error(), "2s") {
		t.Errorf("Error() = %q, should mention the timeout", err.Error())
	}
	if CategoryOf(err) != ErrCategoryNotFound {
		t.Errorf("CategoryOf() = %v, want %v", CategoryOf(err), ErrCategoryNotFound)
	}
}

func TestStateMismatch(t *testing.T) {
	err := StateMismatch("toggle", locator.ID("wifi"), true, false)

	if !IsStateMismatch(err) {
		t.Error("IsStateMismatch() = false, want true")
	}
	requested, observed, ok := MismatchValues(err)
	if !ok {
		t.Fatal("MismatchValues() ok = false")
	}
	if requested != true || observed != false {
		t.Errorf("MismatchValues() = %v, %v, want true, false", requested, observed)
	}
	if err.Locator != "id=wifi" {
		t.Errorf("Locator = %q, want %q", err.Locator, "id=wifi")
	}
}

func TestStateMismatch_NilLocator(t *testing.T) {
	err := StateMismatch("value", nil, "a", "b")
	if err.Locator != "" {
		t.Errorf("Locator = %q, want empty", err.Locator)
	}
}

func TestMismatchValues_OtherError(t *testing.T) {
	if _, _, ok := MismatchValues(ErrElementNotFound); ok {
		t.Error("MismatchValues() ok = true for not-found error")
	}
	if _, _, ok := MismatchValues(errors.New("plain")); ok {
		t.Error("MismatchValues() ok = true for plain error")
	}
}

func TestCategoryOf(t *testing.T) {
	tests := []struct {
		err  error
		want ErrorCategory
	}{
		{nil, ErrCategoryNone},
		{errors.New("plain"), ErrCategoryNone},
		{ErrRouteUndefined, ErrCategoryNavigation},
		{ErrNavigationIncomplete, ErrCategoryNavigation},
		{ErrInvalidLocator, ErrCategoryConfig},
		{ErrNotInteractable, ErrCategoryInteraction},
		{ErrStateMismatch, ErrCategoryAssertion},
	}

	for _, tt := range tests {
		if got := CategoryOf(tt.err); got != tt.want {
			t.Errorf("CategoryOf(%v) = %v, want %v", tt.err, got, tt.want)
		}
	}
}

func TestNewExecutionError(t *testing.T) {
	err := NewExecutionError(ErrCategoryTimeout, "custom_code", "custom message")

	if err.Category != ErrCategoryTimeout {
		t.Errorf("Category = %v, want %v", err.Category, ErrCategoryTimeout)
	}
	if err.Code != "custom_code" {
		t.Errorf("Code = %q, want %q", err.Code, "custom_code")
	}
	if err.Message != "custom message" {
		t.Errorf("Message = %q, want %q", err.Message, "custom message")
	}
}
