package debounce

import (
	"log/slog"
	"time"

	"k8s.io/utils/clock"
)

type config struct {
	leading  bool
	trailing bool
	maxWait  time.Duration
	clock    clock.WithDelayedExecution
	logger   *slog.Logger
	notify   func()
}

// newConfig resolves options against the defaults shared by all flavors:
// trailing-only edges, the real clock, and the process-default logger.
func newConfig(wait time.Duration, opts []Option) config {
	c := config{
		clock:  clock.RealClock{},
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(&c)
	}

	// If neither leading nor trailing is set, default to trailing.
	if !c.leading && !c.trailing {
		c.trailing = true
	}

	// If maxWait is not greater than wait, it can never fire first, so
	// disable it.
	if c.maxWait <= wait {
		c.maxWait = 0
	}

	return c
}

// Option is a function that can be used to configure the debounced function.
type Option func(*config)

// WithLeading returns an option that will cause the debounced function to
// invoke the given function immediately on the first call of a burst.
//
// When only leading is used, a burst of calls immediately invokes the
// function, and any subsequent calls are absorbed until the wait duration has
// passed without further calls.
func WithLeading() Option {
	return func(c *config) {
		c.leading = true
	}
}

// WithTrailing returns an option that will cause the debounced function to be
// invoked after the wait duration has passed since the last call.
//
// Trailing is the default when neither WithLeading nor WithTrailing is used.
//
// If both leading and trailing are used, a burst of calls immediately invokes
// the function, followed by another invocation once the burst settles, but
// only if the burst contained more than the opening call. A burst consisting
// of a single call invokes the function exactly once, on the leading edge.
func WithTrailing() Option {
	return func(c *config) {
		c.trailing = true
	}
}

// WithMaxWait returns an option that will cause the debounced function to be
// invoked after at most maxWait, even if calls keep arriving within the wait
// duration.
//
// Without a max wait, the debounced function might never be invoked if it is
// called repeatedly within the wait duration.
//
// A maxWait that is not greater than wait is ignored.
func WithMaxWait(maxWait time.Duration) Option {
	return func(c *config) {
		c.maxWait = maxWait
	}
}

// WithClock returns an option that replaces the clock used to schedule
// timers. Intended for injecting fake clocks in tests.
func WithClock(clk clock.WithDelayedExecution) Option {
	return func(c *config) {
		c.clock = clk
	}
}

// WithLogger returns an option that replaces the logger used to report
// errors returned by asynchronous debounced functions. Defaults to
// slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) {
		c.logger = logger
	}
}

// WithNotify returns an option that registers a function to be called after
// every observable state change (the pending/waiting indicator or, for
// asynchronous flavors, the result value). It is invoked outside of any
// internal locks, so it may call back into the debouncer.
func WithNotify(notify func()) Option {
	return func(c *config) {
		c.notify = notify
	}
}
