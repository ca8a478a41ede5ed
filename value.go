package debounce

import (
	"sync"
	"time"
)

// Value is a debounced value cell. Set schedules a new value to be applied
// once the burst of sets settles; Get reads the value as last applied.
// Within a burst the most recent Set wins. With WithLeading the first Set of
// a burst applies immediately.
type Value[T any] struct {
	engine *Engine[T]
	notify func()

	mu      sync.RWMutex
	current T
}

// NewValue returns a Value holding initial.
//
// If wait is zero or negative, every Set applies immediately.
func NewValue[T any](
	wait time.Duration,
	initial T,
	opts ...Option,
) *Value[T] {
	conf := newConfig(wait, opts)
	v := &Value[T]{current: initial, notify: conf.notify}

	if wait <= 0 {
		return v
	}

	apply := func(val T, _ int, invoked bool) {
		if invoked {
			v.store(val)
		}
		v.changed()
	}
	v.engine = NewEngine(wait, Hooks[T]{
		OnLeading:  apply,
		OnTrailing: apply,
		OnCancel:   v.changed,
	}, opts...)

	return v
}

// Set schedules val to become the current value.
func (v *Value[T]) Set(val T) {
	if v.engine == nil {
		v.store(val)
		v.changed()

		return
	}
	v.engine.Trigger(val)
}

// Get returns the current value. Safe for concurrent readers.
func (v *Value[T]) Get() T {
	v.mu.RLock()
	defer v.mu.RUnlock()

	return v.current
}

// Pending reports whether a scheduled Set has not been applied yet.
func (v *Value[T]) Pending() bool {
	if v.engine == nil {
		return false
	}

	return v.engine.Active()
}

// Reset discards any scheduled Set and installs val as the current value.
// Both steps run as one engine operation, so a trailing edge firing at the
// same moment cannot land its buffered value after the reset one.
func (v *Value[T]) Reset(val T) {
	if v.engine == nil {
		v.store(val)
		v.changed()

		return
	}

	v.engine.run(func() {
		if v.engine.Closed() {
			return
		}
		v.engine.cancelOp()
		v.store(val)
		v.changed()
	})
}

// Cancel discards any scheduled Set, keeping the current value.
func (v *Value[T]) Cancel() {
	if v.engine == nil {
		return
	}
	v.engine.Cancel()
}

// Flush applies any scheduled Set immediately.
func (v *Value[T]) Flush() {
	if v.engine == nil {
		return
	}
	v.engine.Flush()
}

// Close permanently shuts the Value down; the current value remains readable
// but Set, Cancel and Flush become no-ops. Close is idempotent.
func (v *Value[T]) Close() {
	if v.engine == nil {
		return
	}
	v.engine.Close()
}

func (v *Value[T]) store(val T) {
	v.mu.Lock()
	v.current = val
	v.mu.Unlock()
}

func (v *Value[T]) changed() {
	if v.notify != nil {
		v.notify()
	}
}
