package interact

import (
	"context"
	"time"

	"github.com/devicelab-dev/perspective-pom/pkg/core"
	"github.com/devicelab-dev/perspective-pom/pkg/locator"
	"github.com/devicelab-dev/perspective-pom/pkg/logger"
)

// WaitOn reads immediately and then every poll interval until satisfied returns true
// or the wait duration elapses. The last read happens at the deadline.
//
// On timeout the last observed value is returned with no error; the caller judges it.
// Not-found and stale reads are retried. If no value was ever observed the last read
// error is returned. Any other read error ends the wait.
func WaitOn[T any](ctx context.Context, opts Options, read func(context.Context) (T, error), satisfied func(T) bool, wopts ...WaitOption) (T, error) {
	cfg := opts.waitConfig(wopts...)
	deadline := time.Now().Add(cfg.timeout)

	var (
		last     T
		observed bool
		lastErr  error
	)
	for {
		v, err := read(ctx)
		switch {
		case err == nil:
			last, observed = v, true
			if satisfied(v) {
				return v, nil
			}
		case core.IsNotFound(err), core.IsStale(err):
			lastErr = err
		default:
			return last, err
		}

		remaining := time.Until(deadline)
		if remaining <= 0 {
			break
		}
		sleep := cfg.poll
		if remaining < sleep {
			sleep = remaining
		}
		t := time.NewTimer(sleep)
		select {
		case <-ctx.Done():
			t.Stop()
			return last, ctx.Err()
		case <-t.C:
		}
	}

	if !observed {
		return last, lastErr
	}
	logger.Debug("wait ended after %s without the expected state", cfg.timeout)
	return last, nil
}

// WaitOnElement waits on a value read from the element loc resolves to.
// Each read is a single resolution attempt. If the element never resolved the
// waiter behaves like a getter and returns a not-found error.
func WaitOnElement[T any](ctx context.Context, scope Scope, loc locator.Locator, read func(context.Context, core.Element) (T, error), satisfied func(T) bool, wopts ...WaitOption) (T, error) {
	opts := scope.Options()
	v, err := WaitOn(ctx, opts, func(ctx context.Context) (T, error) {
		return ReadOnce(ctx, scope, loc, read)
	}, satisfied, wopts...)
	if err != nil && (core.IsNotFound(err) || core.IsStale(err)) {
		cause := err
		if core.IsNotFound(err) {
			cause = nil
		}
		return v, core.NotFound(loc, opts.WaitTimeoutFor(wopts...), cause)
	}
	return v, err
}

// WaitOnPresent waits until loc's presence equals want and returns the last observed presence.
func WaitOnPresent(ctx context.Context, scope Scope, loc locator.Locator, want bool, wopts ...WaitOption) (bool, error) {
	return WaitOn(ctx, scope.Options(), func(ctx context.Context) (bool, error) {
		return Present(ctx, scope, loc)
	}, func(present bool) bool {
		return present == want
	}, wopts...)
}
