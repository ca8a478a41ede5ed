// Package debounce collapses bursts of calls into a bounded number of
// invocations of a wrapped function.
//
// Debouncing is useful when calls may be triggered rapidly, such as in
// response to user input or filesystem events, but the underlying operation
// is expensive and only needs to be performed once per batch of calls.
//
// A burst is a run of calls separated by gaps smaller than the wait
// duration. By default the wrapped function runs once per burst, on the
// trailing edge, once the burst settles. WithLeading adds an immediate
// invocation when a burst opens, WithTrailing controls the settling
// invocation, and WithMaxWait bounds how long a continuously re-triggered
// burst can defer the trailing edge.
//
// Several flavors share the same core state machine:
//
//   - New and NewMutable debounce plain func() calls, in the style of a
//     classic debounced function pair.
//   - NewCallback debounces a synchronous function taking typed arguments;
//     the arguments of the last call in a burst win.
//   - NewValue debounces writes to a value cell.
//   - NewFunc debounces an asynchronous function, cancelling superseded
//     in-flight calls through their context and retaining the last known
//     good result across failures.
package debounce

import "time"

// New returns a debounced function that delays invoking f until after wait
// has elapsed since the last time the debounced function was invoked,
// subject to the given options.
//
// The returned cancel function discards any pending invocation of f. It is
// not required to be called, so it can be ignored if not needed.
//
// Both debounced and cancel functions are safe for concurrent use in
// goroutines, and can both be called multiple times.
//
// If wait is zero or negative, f itself is returned as debounced, and cancel
// is a no-op.
func New(
	wait time.Duration,
	f func(),
	opts ...Option,
) (debounced func(), cancel func()) {
	if wait <= 0 {
		return f, func() {}
	}

	run := func(_ struct{}, _ int, invoked bool) {
		if invoked {
			f()
		}
	}
	e := NewEngine(wait, Hooks[struct{}]{
		OnLeading:  run,
		OnTrailing: run,
	}, opts...)

	return func() { e.Trigger(struct{}{}) }, e.Cancel
}
