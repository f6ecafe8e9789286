package interact

import (
	"context"

	"github.com/stretchr/testify/assert"

	pomassert "github.com/devicelab-dev/perspective-pom/pkg/assert"
	"github.com/devicelab-dev/perspective-pom/pkg/core"
	"github.com/devicelab-dev/perspective-pom/pkg/locator"
	"github.com/devicelab-dev/perspective-pom/pkg/logger"
)

// Verification declares whether a wrapper's setters can confirm their effect.
type Verification int

// Verification policies
const (
	Verified   Verification = iota // Setters read back and compare (default)
	Unverified                     // The application transforms input; setters cannot compare
)

// String returns the policy name.
func (v Verification) String() string {
	if v == Unverified {
		return "unverified"
	}
	return "verified"
}

// Verify is the setter post-condition. It waits up to VerifyTimeout for the value read
// from loc to settle on requested and fails with a state mismatch carrying both values.
// Unverified wrappers skip the check.
func Verify[T any](ctx context.Context, scope Scope, loc locator.Locator, v Verification, requested T, read func(context.Context, core.Element) (T, error)) error {
	return VerifyFunc(ctx, scope, loc, v, requested, read, func(o T) bool {
		return assert.ObjectsAreEqual(requested, o)
	})
}

// VerifyFunc is Verify with a custom settle predicate, for setters whose requested value
// is not directly comparable with what is read back (such as one option among several selected).
func VerifyFunc[T any](ctx context.Context, scope Scope, loc locator.Locator, v Verification, requested interface{}, read func(context.Context, core.Element) (T, error), satisfied func(T) bool) error {
	if v == Unverified {
		logger.Debug("set %s: verification skipped", loc)
		return nil
	}
	opts := scope.Options().normalized()
	observed, err := WaitOnElement(ctx, scope, loc, read, satisfied, Timeout(opts.VerifyTimeout))
	if err != nil {
		return err
	}
	return pomassert.That("state did not match after set", loc, satisfied(observed), requested, observed)
}
