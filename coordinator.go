package debounce

import (
	"context"
	"log/slog"
	"sync"
)

// coordinator owns the single in-flight asynchronous invocation for a Func
// and drives the call state machine from engine edges and call settlements.
//
// At most one call is live at a time. Starting a new call first cancels the
// context of any call still in flight and bumps the generation counter, so
// the superseded call's eventual settlement is recognized as stale and
// discarded. Failed calls are logged, never surfaced; the last known good
// result is retained.
type coordinator[A, R any] struct {
	fn     func(context.Context, A) (R, error)
	logger *slog.Logger
	notify func()

	mu     sync.Mutex
	state  callState[R]
	gen    uint64
	cancel context.CancelFunc
	closed bool
}

func newCoordinator[A, R any](
	fn func(context.Context, A) (R, error),
	initial R,
	conf config,
) *coordinator[A, R] {
	return &coordinator[A, R]{
		fn:     fn,
		logger: conf.logger,
		notify: conf.notify,
		state:  callState[R]{status: statusStandby, result: initial},
	}
}

// burstOpened handles the engine's leading edge: a start event, the leading
// call event, and, when the edge does real work, a fresh invocation.
func (c *coordinator[A, R]) burstOpened(args A, _ int, invoked bool) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()

		return
	}

	prev := c.state.status
	c.state = transition(c.state, evStart[R]())
	c.state = transition(c.state, evLeadingCall[R](!invoked))
	if invoked {
		c.invokeLocked(args)
	}
	changed := c.state.status != prev
	c.mu.Unlock()

	c.notifyIf(changed)
}

// trailingEdge handles the engine's trailing edge.
func (c *coordinator[A, R]) trailingEdge(args A, _ int, invoked bool) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()

		return
	}

	prev := c.state.status
	c.state = transition(c.state, evTrailingCall[R](!invoked))
	if invoked {
		c.invokeLocked(args)
	}
	changed := c.state.status != prev
	c.mu.Unlock()

	c.notifyIf(changed)
}

// cancelled handles the engine's cancel signal: abort any in-flight call and
// return to standby. Safe to receive repeatedly.
func (c *coordinator[A, R]) cancelled() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()

		return
	}

	prev := c.state.status
	c.cancelInFlightLocked()
	c.state = transition(c.state, evCancelled[R]())
	changed := c.state.status != prev
	c.mu.Unlock()

	c.notifyIf(changed)
}

// reset installs a new result value. The owner must have cancelled any
// active burst and in-flight call first; reset away from standby is a
// protocol violation. Every reset counts as an observable change: result
// values are not compared, since R is not comparable in general.
func (c *coordinator[A, R]) reset(result R) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()

		return
	}

	c.state = transition(c.state, evReset(result))
	c.mu.Unlock()

	c.notifyIf(true)
}

// close is teardown: abort any in-flight call so downstream work observing
// the context stops, without emitting further state changes.
func (c *coordinator[A, R]) close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}
	c.closed = true
	c.cancelInFlightLocked()
}

// waiting reports whether a timer or call is outstanding. A closed
// coordinator is never waiting, even when teardown interrupted a call.
func (c *coordinator[A, R]) waiting() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	return !c.closed && c.state.status != statusStandby
}

// result returns the last known good result.
func (c *coordinator[A, R]) result() R {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.state.result
}

// invokeLocked starts a new call, superseding any call still in flight.
func (c *coordinator[A, R]) invokeLocked(args A) {
	c.cancelInFlightLocked()

	gen := c.gen
	ctx, cancel := context.WithCancel(context.Background())
	c.cancel = cancel

	go func() {
		result, err := c.fn(ctx, args)
		cancel()
		c.settle(gen, result, err)
	}()
}

// cancelInFlightLocked aborts the in-flight call, if any, and bumps the
// generation so a settlement still en route is recognized as stale.
func (c *coordinator[A, R]) cancelInFlightLocked() {
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
	c.gen++
}

// settle applies the outcome of a call, unless the call was superseded or
// the coordinator torn down since it started.
func (c *coordinator[A, R]) settle(gen uint64, result R, err error) {
	c.mu.Lock()
	if c.closed || gen != c.gen {
		// Abandoned call; its settlement must not touch the result.
		c.mu.Unlock()

		return
	}

	c.cancel = nil
	prev := c.state.status
	fulfilled := err == nil
	if fulfilled {
		c.state = transition(c.state, evFulfilled(result))
	} else {
		c.logger.Error("debounced call failed", "error", err)
		c.state = transition(c.state, evRejected[R]())
	}
	changed := fulfilled || c.state.status != prev
	c.mu.Unlock()

	c.notifyIf(changed)
}

// notifyIf invokes the owner's notify hook when the observable state (the
// waiting flag or the result) changed. Called without the lock held so the
// hook may call back into the debouncer.
func (c *coordinator[A, R]) notifyIf(changed bool) {
	if changed && c.notify != nil {
		c.notify()
	}
}
