package debounce

import (
	"context"
	"time"
)

// Func is the asynchronous flavor. Calls are debounced like NewCallback, but
// the wrapped function runs in its own goroutine with a cancellation
// context, and at most one invocation is in flight at a time:
//
//   - Starting a new invocation cancels the context of one still in flight.
//     The superseded invocation's eventual return value is discarded, so a
//     stale call can never overwrite a newer result.
//   - A failed invocation is logged and otherwise swallowed; Result keeps
//     returning the last known good value.
//   - Waiting reports whether a debounce timer or an invocation is
//     outstanding, which makes it suitable for driving progress indicators.
//
// The wrapped function should honor ctx cancellation and abandon its own
// sub-work, such as outbound requests, when ctx is done.
type Func[A, R any] struct {
	engine *Engine[A]
	coord  *coordinator[A, R]
}

// NewFunc returns a Func wrapping fn, with initial as the starting result.
//
// A zero or negative wait fires the trailing edge immediately after each
// opening call rather than invoking fn inline, since fn runs asynchronously
// either way.
func NewFunc[A, R any](
	wait time.Duration,
	fn func(context.Context, A) (R, error),
	initial R,
	opts ...Option,
) *Func[A, R] {
	conf := newConfig(wait, opts)

	f := &Func[A, R]{coord: newCoordinator(fn, initial, conf)}
	f.engine = NewEngine(wait, Hooks[A]{
		OnLeading:  f.coord.burstOpened,
		OnTrailing: f.coord.trailingEdge,
		OnCancel:   f.coord.cancelled,
	}, opts...)

	return f
}

// Call records a call with the given arguments.
func (f *Func[A, R]) Call(args A) {
	f.engine.Trigger(args)
}

// Result returns the last known good result: the initial value until an
// invocation fulfills, then the value of the most recent fulfilled,
// non-superseded invocation, or whatever Reset installed last.
func (f *Func[A, R]) Result() R {
	return f.coord.result()
}

// Waiting reports whether a debounce timer or an invocation of the wrapped
// function is outstanding.
func (f *Func[A, R]) Waiting() bool {
	return f.coord.waiting()
}

// Cancel discards any pending burst and aborts any in-flight invocation.
func (f *Func[A, R]) Cancel() {
	f.engine.Cancel()
}

// Flush fires the trailing edge immediately if a burst is in progress. The
// invocation it starts still runs asynchronously.
func (f *Func[A, R]) Flush() {
	f.engine.Flush()
}

// Reset cancels outstanding work and installs result as the current result.
// Both steps run as one engine operation, so an edge firing at the same
// moment cannot observe the state between them.
func (f *Func[A, R]) Reset(result R) {
	f.engine.run(func() {
		f.engine.cancelOp()
		f.coord.reset(result)
	})
}

// Close permanently shuts the Func down: the burst state is discarded, any
// in-flight invocation's context is cancelled, and all further operations
// become no-ops. Result remains readable. Close is idempotent.
func (f *Func[A, R]) Close() {
	f.engine.Close()
	f.coord.close()
}
