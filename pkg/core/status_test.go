package core

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func TestStatus_String(t *testing.T) {
	tests := []struct {
		status Status
		want   string
	}{
		{StatusPending, "pending"},
		{StatusRunning, "running"},
		{StatusPassed, "passed"},
		{StatusFailed, "failed"},
		{StatusErrored, "errored"},
		{StatusSkipped, "skipped"},
		{Status(99), "unknown"},
	}

	for _, tt := range tests {
		if got := tt.status.String(); got != tt.want {
			t.Errorf("Status(%d).String() = %q, want %q", tt.status, got, tt.want)
		}
	}
}

func TestStatus_IsTerminal(t *testing.T) {
	terminal := []Status{StatusPassed, StatusFailed, StatusErrored, StatusSkipped}
	nonTerminal := []Status{StatusPending, StatusRunning}

	for _, s := range terminal {
		if !s.IsTerminal() {
			t.Errorf("%v.IsTerminal() = false, want true", s)
		}
	}
	for _, s := range nonTerminal {
		if s.IsTerminal() {
			t.Errorf("%v.IsTerminal() = true, want false", s)
		}
	}
}

func TestStatus_IsSuccess(t *testing.T) {
	tests := []struct {
		status Status
		want   bool
	}{
		{StatusPassed, true},
		{StatusSkipped, true},
		{StatusFailed, false},
		{StatusErrored, false},
		{StatusPending, false},
	}

	for _, tt := range tests {
		if got := tt.status.IsSuccess(); got != tt.want {
			t.Errorf("%v.IsSuccess() = %v, want %v", tt.status, got, tt.want)
		}
	}
}

func TestStatusFromError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Status
	}{
		{"nil", nil, StatusPassed},
		{"plain", errors.New("boom"), StatusErrored},
		{"not found", ErrElementNotFound, StatusFailed},
		{"mismatch", ErrStateMismatch, StatusFailed},
		{"navigation", ErrNavigationIncomplete, StatusFailed},
		{"config", ErrInvalidLocator, StatusErrored},
		{"interaction", ErrNotInteractable, StatusErrored},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StatusFromError(tt.err); got != tt.want {
				t.Errorf("StatusFromError() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestErrorCategory_String(t *testing.T) {
	tests := []struct {
		cat  ErrorCategory
		want string
	}{
		{ErrCategoryNone, "none"},
		{ErrCategoryNotFound, "not_found"},
		{ErrCategoryAssertion, "assertion"},
		{ErrCategoryInteraction, "interaction"},
		{ErrCategoryTimeout, "timeout"},
		{ErrCategoryNavigation, "navigation"},
		{ErrCategoryConfig, "config"},
		{ErrorCategory(99), "unknown"},
	}

	for _, tt := range tests {
		if got := tt.cat.String(); got != tt.want {
			t.Errorf("ErrorCategory(%d).String() = %q, want %q", tt.cat, got, tt.want)
		}
	}
}

func TestStatus_MarshalJSON(t *testing.T) {
	data, err := json.Marshal(CheckResult{Name: "Home.title", Status: StatusFailed, Category: ErrCategoryNotFound})
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	for _, want := range []string{`"status":"failed"`, `"errorCategory":"not_found"`} {
		if !strings.Contains(string(data), want) {
			t.Errorf("Marshal() = %s, want it to contain %s", data, want)
		}
	}

	data, _ = json.Marshal(CheckResult{Status: StatusPassed})
	if strings.Contains(string(data), "errorCategory") {
		t.Errorf("Marshal() = %s, want no errorCategory for a passing check", data)
	}
}

func TestStatus_UnmarshalText(t *testing.T) {
	var r CheckResult
	if err := json.Unmarshal([]byte(`{"status":"skipped","errorCategory":"navigation"}`), &r); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if r.Status != StatusSkipped || r.Category != ErrCategoryNavigation {
		t.Errorf("Unmarshal() = %v/%v, want skipped/navigation", r.Status, r.Category)
	}
	if err := json.Unmarshal([]byte(`{"status":"bogus"}`), &r); err == nil {
		t.Error("Unmarshal() expected error for unknown status")
	}
}
