package interact

import "time"

// Default timing
const (
	DefaultLocateTimeout = 2 * time.Second
	DefaultWaitTimeout   = 10 * time.Second
	DefaultPollInterval  = 100 * time.Millisecond
	DefaultVerifyTimeout = 1 * time.Second
)

// Options holds the timing every interaction resolves against.
// It is threaded explicitly from a Session through pieces to components.
type Options struct {
	LocateTimeout time.Duration // How long getters, queries and setters keep trying to locate
	WaitTimeout   time.Duration // Default waiter duration
	PollInterval  time.Duration // Interval between location attempts and waiter reads
	VerifyTimeout time.Duration // How long a setter waits for the requested state to settle
}

// DefaultOptions returns the default timing.
func DefaultOptions() Options {
	return Options{
		LocateTimeout: DefaultLocateTimeout,
		WaitTimeout:   DefaultWaitTimeout,
		PollInterval:  DefaultPollInterval,
		VerifyTimeout: DefaultVerifyTimeout,
	}
}

// Merge returns o with every non-zero field of override applied.
func (o Options) Merge(override Options) Options {
	if override.LocateTimeout > 0 {
		o.LocateTimeout = override.LocateTimeout
	}
	if override.WaitTimeout > 0 {
		o.WaitTimeout = override.WaitTimeout
	}
	if override.PollInterval > 0 {
		o.PollInterval = override.PollInterval
	}
	if override.VerifyTimeout > 0 {
		o.VerifyTimeout = override.VerifyTimeout
	}
	return o
}

// normalized fills unset fields with defaults.
func (o Options) normalized() Options {
	return DefaultOptions().Merge(o)
}

// WaitOption adjusts a single waiter call.
type WaitOption func(*waitConfig)

type waitConfig struct {
	timeout time.Duration
	poll    time.Duration
}

// Timeout overrides the waiter duration for one call.
func Timeout(d time.Duration) WaitOption {
	return func(c *waitConfig) {
		if d >= 0 {
			c.timeout = d
		}
	}
}

// Poll overrides the polling interval for one call.
func Poll(d time.Duration) WaitOption {
	return func(c *waitConfig) {
		if d > 0 {
			c.poll = d
		}
	}
}

func (o Options) waitConfig(opts ...WaitOption) waitConfig {
	o = o.normalized()
	c := waitConfig{timeout: o.WaitTimeout, poll: o.PollInterval}
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

// SettleTimeout bounds a waiter by VerifyTimeout, for setters waiting on their own effect.
func (o Options) SettleTimeout() WaitOption {
	return Timeout(o.normalized().VerifyTimeout)
}

// WaitTimeoutFor returns the duration a waiter called with opts would use.
func (o Options) WaitTimeoutFor(opts ...WaitOption) time.Duration {
	return o.waitConfig(opts...).timeout
}
