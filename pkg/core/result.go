package core

import (
	"time"
)

// CheckResult captures the outcome of resolving one declared target
type CheckResult struct {
	// Identity
	Name    string `json:"name"`    // Dotted path: Home.view.filter.search
	Kind    string `json:"kind"`    // view, piece, or component kind
	Locator string `json:"locator"` // Fully scoped locator

	// Status
	Status   Status        `json:"status"`
	Category ErrorCategory `json:"errorCategory,omitempty"`

	// Timing
	StartTime time.Time     `json:"startTime"`
	Duration  time.Duration `json:"duration"`

	// Output
	Message string       `json:"message,omitempty"`
	Element *ElementInfo `json:"element,omitempty"`
	Error   string       `json:"error,omitempty"`

	Attachments []Attachment `json:"attachments,omitempty"`
}

// PageResult captures every check made for one declared page
type PageResult struct {
	// Identity
	Name string `json:"name"`
	Path string `json:"path"` // /<project>/<path>

	// Status (aggregated from checks)
	Status  Status `json:"status"`
	Current bool   `json:"current"` // View was the rendered screen

	// Timing
	StartTime time.Time     `json:"startTime"`
	Duration  time.Duration `json:"duration"`

	Checks []CheckResult `json:"checks"`

	// Summary (computed)
	TotalChecks   int `json:"totalChecks"`
	PassedChecks  int `json:"passedChecks"`
	FailedChecks  int `json:"failedChecks"`
	SkippedChecks int `json:"skippedChecks"`
}

// ComputeSummary calculates check counts from the Checks slice
func (p *PageResult) ComputeSummary() {
	p.TotalChecks = len(p.Checks)
	p.PassedChecks = 0
	p.FailedChecks = 0
	p.SkippedChecks = 0

	for _, c := range p.Checks {
		switch c.Status {
		case StatusPassed:
			p.PassedChecks++
		case StatusFailed, StatusErrored:
			p.FailedChecks++
		case StatusSkipped:
			p.SkippedChecks++
		}
	}
}

// AggregateStatus determines the page status from check results
// Rules:
// - Any failed/errored check → StatusFailed
// - View not current → StatusSkipped
// - Otherwise → StatusPassed
func (p *PageResult) AggregateStatus() Status {
	for _, c := range p.Checks {
		if c.Status == StatusFailed || c.Status == StatusErrored {
			return StatusFailed
		}
	}
	if !p.Current {
		return StatusSkipped
	}
	return StatusPassed
}

// Report captures the outcome of checking one or more page maps
type Report struct {
	RunID     string        `json:"runId"`
	StartTime time.Time     `json:"startTime"`
	Duration  time.Duration `json:"duration"`

	Pages []PageResult `json:"pages"`

	// Summary
	TotalPages   int `json:"totalPages"`
	PassedPages  int `json:"passedPages"`
	FailedPages  int `json:"failedPages"`
	SkippedPages int `json:"skippedPages"`
}

// ComputeSummary calculates page counts from the Pages slice
func (r *Report) ComputeSummary() {
	r.TotalPages = len(r.Pages)
	r.PassedPages = 0
	r.FailedPages = 0
	r.SkippedPages = 0

	for _, p := range r.Pages {
		switch p.Status {
		case StatusPassed:
			r.PassedPages++
		case StatusFailed, StatusErrored:
			r.FailedPages++
		case StatusSkipped:
			r.SkippedPages++
		}
	}
}

// Success returns true if no page failed and at least one page was current
func (r *Report) Success() bool {
	current := false
	for _, p := range r.Pages {
		if !p.Status.IsSuccess() {
			return false
		}
		if p.Current {
			current = true
		}
	}
	return current
}
