package interact

import (
	"strings"

	"github.com/devicelab-dev/perspective-pom/pkg/assert"
)

// TextCondition compares observed text with an expected value.
type TextCondition int

// Text conditions
const (
	Equals TextCondition = iota
	NotEquals
	Contains
	NotContains
	NumericEquals    // Both sides parse as numbers and are equal; thousands separators ignored
	NumericNotEquals // Either side is not a number, or the numbers differ
)

// String returns the condition name.
func (c TextCondition) String() string {
	switch c {
	case Equals:
		return "equals"
	case NotEquals:
		return "not_equals"
	case Contains:
		return "contains"
	case NotContains:
		return "not_contains"
	case NumericEquals:
		return "numeric_equals"
	case NumericNotEquals:
		return "numeric_not_equals"
	default:
		return "unknown"
	}
}

// Match reports whether actual satisfies the condition against expected.
func (c TextCondition) Match(actual, expected string) bool {
	switch c {
	case Equals:
		return actual == expected
	case NotEquals:
		return actual != expected
	case Contains:
		return strings.Contains(actual, expected)
	case NotContains:
		return !strings.Contains(actual, expected)
	case NumericEquals:
		return numericEqual(actual, expected)
	case NumericNotEquals:
		return !numericEqual(actual, expected)
	default:
		return false
	}
}

// Satisfied returns a predicate for use with WaitOn.
func (c TextCondition) Satisfied(expected string) func(string) bool {
	return func(actual string) bool { return c.Match(actual, expected) }
}

func numericEqual(a, b string) bool {
	x, ok := assert.ParseNumber(a)
	if !ok {
		return false
	}
	y, ok := assert.ParseNumber(b)
	return ok && x == y
}
