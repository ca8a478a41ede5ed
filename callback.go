package debounce

import "time"

// Callback debounces a synchronous function taking typed arguments. Bursts
// of calls collapse into edge invocations according to the configured
// options, and the arguments of the most recent call in a burst win.
type Callback[A any] struct {
	engine *Engine[A]
	direct func(A)
}

// NewCallback returns a Callback wrapping fn.
//
// If wait is zero or negative, every call invokes fn immediately.
func NewCallback[A any](
	wait time.Duration,
	fn func(A),
	opts ...Option,
) *Callback[A] {
	if wait <= 0 {
		return &Callback[A]{direct: fn}
	}

	conf := newConfig(wait, opts)
	run := func(args A, _ int, invoked bool) {
		if invoked {
			fn(args)
		}
		if conf.notify != nil {
			conf.notify()
		}
	}

	c := &Callback[A]{}
	c.engine = NewEngine(wait, Hooks[A]{
		OnLeading:  run,
		OnTrailing: run,
		OnCancel:   conf.notify,
	}, opts...)

	return c
}

// Call records a call with the given arguments.
func (c *Callback[A]) Call(args A) {
	if c.direct != nil {
		c.direct(args)

		return
	}
	c.engine.Trigger(args)
}

// Pending reports whether a burst is in progress, i.e. whether an
// invocation of the wrapped function may still be coming.
func (c *Callback[A]) Pending() bool {
	if c.direct != nil {
		return false
	}

	return c.engine.Active()
}

// Cancel discards any pending invocation.
func (c *Callback[A]) Cancel() {
	if c.direct != nil {
		return
	}
	c.engine.Cancel()
}

// Flush invokes the wrapped function immediately with the buffered arguments
// if a burst is in progress, ending the burst.
func (c *Callback[A]) Flush() {
	if c.direct != nil {
		return
	}
	c.engine.Flush()
}

// Close permanently shuts the Callback down. All further operations are
// no-ops. Close is idempotent.
func (c *Callback[A]) Close() {
	if c.direct != nil {
		return
	}
	c.engine.Close()
}
