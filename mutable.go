package debounce

import "time"

// NewMutable returns a debounced function like New, but it allows the
// callback function to be changed, as a new callback function is passed to
// each invocation of the debounced function.
//
// Only the very last f passed to the debounced function is called when an
// edge fires. Previous f values are discarded.
//
// The returned cancel function discards any pending invocation. Both
// debounced and cancel functions are safe for concurrent use in goroutines.
//
// If wait is zero or negative, every passed function is invoked immediately.
func NewMutable(
	wait time.Duration,
	opts ...Option,
) (debounced func(f func()), cancel func()) {
	if wait <= 0 {
		return func(f func()) {
			if f != nil {
				f()
			}
		}, func() {}
	}

	run := func(f func(), _ int, invoked bool) {
		if invoked && f != nil {
			f()
		}
	}
	e := NewEngine(wait, Hooks[func()]{
		OnLeading:  run,
		OnTrailing: run,
	}, opts...)

	return e.Trigger, e.Cancel
}
