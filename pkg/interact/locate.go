package interact

import (
	"context"

	"github.com/cenkalti/backoff/v4"

	"github.com/devicelab-dev/perspective-pom/pkg/core"
	"github.com/devicelab-dev/perspective-pom/pkg/locator"
	"github.com/devicelab-dev/perspective-pom/pkg/logger"
)

// Read locates loc through the driver of scope and applies fn to the first match.
// Location is retried every PollInterval until LocateTimeout elapses; a read that
// hits a detached element is retried inside the same window. loc is used as given,
// so callers pass an already scoped locator.
func Read[T any](ctx context.Context, scope Scope, loc locator.Locator, fn func(context.Context, core.Element) (T, error)) (T, error) {
	opts := scope.Options().normalized()
	lctx, cancel := context.WithTimeout(ctx, opts.LocateTimeout)
	defer cancel()

	var lastErr error
	attempts := 0
	op := func() (T, error) {
		var zero T
		attempts++
		el, err := first(lctx, scope.Driver(), loc)
		if err == nil {
			var v T
			v, err = fn(ctx, el)
			if err == nil {
				return v, nil
			}
		}
		switch {
		case core.IsNotFound(err), core.IsStale(err):
			lastErr = err
			return zero, err
		case lctx.Err() != nil:
			return zero, err
		default:
			return zero, backoff.Permanent(err)
		}
	}

	b := backoff.WithContext(backoff.NewConstantBackOff(opts.PollInterval), lctx)
	v, err := backoff.RetryWithData(op, b)
	if err == nil {
		return v, nil
	}
	if ctx.Err() != nil {
		return v, ctx.Err()
	}
	if lctx.Err() == nil && !core.IsNotFound(err) && !core.IsStale(err) {
		return v, err
	}

	cause := lastErr
	if core.IsNotFound(cause) {
		cause = nil
	}
	logger.Debug("locate %s: gave up after %d attempts in %s", loc, attempts, opts.LocateTimeout)
	return v, core.NotFound(loc, opts.LocateTimeout, cause)
}

// Do locates loc like Read and performs fn on the first match.
func Do(ctx context.Context, scope Scope, loc locator.Locator, fn func(context.Context, core.Element) error) error {
	_, err := Read(ctx, scope, loc, func(ctx context.Context, el core.Element) (struct{}, error) {
		return struct{}{}, fn(ctx, el)
	})
	return err
}

// ReadOnce makes a single resolution attempt and applies fn to the first match.
// It returns a not-found error immediately when nothing matches.
func ReadOnce[T any](ctx context.Context, scope Scope, loc locator.Locator, fn func(context.Context, core.Element) (T, error)) (T, error) {
	var zero T
	el, err := first(ctx, scope.Driver(), loc)
	if err != nil {
		return zero, err
	}
	return fn(ctx, el)
}

// FindOnce returns every element matching loc right now.
func FindOnce(ctx context.Context, scope Scope, loc locator.Locator) ([]core.Element, error) {
	els, err := scope.Driver().FindAll(ctx, loc)
	if err != nil {
		return nil, err
	}
	return els, nil
}

// Present reports whether loc currently resolves. It never waits.
func Present(ctx context.Context, scope Scope, loc locator.Locator) (bool, error) {
	els, err := FindOnce(ctx, scope, loc)
	if err != nil {
		return false, err
	}
	return len(els) > 0, nil
}

func first(ctx context.Context, d core.Driver, loc locator.Locator) (core.Element, error) {
	els, err := d.FindAll(ctx, loc)
	if err != nil {
		return nil, err
	}
	if len(els) == 0 {
		return nil, core.ErrElementNotFound.WithLocator(loc)
	}
	return els[0], nil
}
