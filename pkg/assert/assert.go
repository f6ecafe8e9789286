// Package assert reports standardized mismatch failures for setter verification and tests.
// Every failure is a core.ErrStateMismatch carrying the requested and observed values.
package assert

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/stretchr/testify/assert"

	"github.com/devicelab-dev/perspective-pom/pkg/core"
)

// That fails with requested and observed when ok is false.
func That(msg string, loc fmt.Stringer, ok bool, requested, observed interface{}) error {
	if ok {
		return nil
	}
	return core.StateMismatch(msg, loc, requested, observed)
}

// Equal fails when observed differs from requested.
func Equal(msg string, loc fmt.Stringer, requested, observed interface{}) error {
	return That(msg, loc, assert.ObjectsAreEqual(requested, observed), requested, observed)
}

// True fails when observed is false.
func True(msg string, loc fmt.Stringer, observed bool) error {
	return Equal(msg, loc, true, observed)
}

// Contains fails when observed does not contain substr.
func Contains(msg string, loc fmt.Stringer, substr, observed string) error {
	return That(msg, loc, strings.Contains(observed, substr), substr, observed)
}

// NumericEqual compares two numeric strings, ignoring thousands separators.
// A string that is not a number never matches.
func NumericEqual(msg string, loc fmt.Stringer, requested, observed string) error {
	r, rok := ParseNumber(requested)
	o, ook := ParseNumber(observed)
	return That(msg, loc, rok && ook && r == o, requested, observed)
}

// ParseNumber parses text such as "1,234.5" into a float.
func ParseNumber(s string) (float64, bool) {
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", ""))
	if s == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}
