package debounce

import (
	"sync"
	"time"

	"k8s.io/utils/clock"
)

// Hooks bundles the edge callbacks fired by an Engine. Each hook may be nil.
//
// OnLeading fires exactly once per burst, synchronously, on the trigger that
// opens it. OnTrailing fires exactly once per burst when it closes due to
// quiescence, the max wait ceiling, or Flush. For both, invoked reports
// whether the configured edge semantics call for real work: when false the
// edge still happened, so owners can update waiting indicators, but the
// debounced function itself should not run.
//
// OnCancel fires on every Cancel call, even when no burst is active, so
// owners tracking in-flight work of their own always receive the signal.
type Hooks[A any] struct {
	OnLeading  func(args A, count int, invoked bool)
	OnTrailing func(args A, count int, invoked bool)
	OnCancel   func()
}

// Engine is the core debounce state machine. It collapses bursts of triggers
// into at most one leading and one trailing edge per burst, tracking the
// latest trigger arguments and the number of triggers that followed the one
// that opened the burst.
//
// The Engine knows nothing about results or asynchronous calls; it only
// turns trigger arrivals and timer edges into hook invocations. Higher level
// flavors (New, NewCallback, NewValue, NewFunc) compose it.
//
// All operations are safe for concurrent use. Internally the Engine behaves
// like a single-threaded event loop: state transitions and hook invocations
// are serialized, and an operation arriving while a hook is still running is
// queued and applied once the hook returns. Hooks may therefore re-enter the
// Engine freely.
type Engine[A any] struct {
	wait     time.Duration
	maxWait  time.Duration
	leading  bool
	trailing bool
	clock    clock.WithDelayedExecution

	mu          sync.Mutex
	hooks       Hooks[A]
	dispatching bool
	queue       []func()

	// Burst state. gen identifies the current burst and trailingSeq the
	// current trailing timer within it; a timer callback carrying stale
	// tokens finds they have moved on and does nothing, which covers a
	// timer that fires in the instant before it would have been stopped.
	active        bool
	latest        A
	count         int
	leadingCalled bool
	gen           uint64
	trailingSeq   uint64
	trailingTimer clock.Timer
	maxTimer      clock.Timer
	closed        bool
}

// NewEngine returns an Engine that debounces triggers over the given wait
// duration. A non-positive wait schedules the trailing edge immediately
// after each opening trigger.
func NewEngine[A any](
	wait time.Duration,
	hooks Hooks[A],
	opts ...Option,
) *Engine[A] {
	conf := newConfig(wait, opts)
	if wait < 0 {
		wait = 0
	}

	return &Engine[A]{
		wait:     wait,
		maxWait:  conf.maxWait,
		leading:  conf.leading,
		trailing: conf.trailing,
		clock:    conf.clock,
		hooks:    hooks,
	}
}

// Trigger records a trigger event. The first trigger after idle opens a
// burst, schedules the trailing timer (and the max wait timer, if
// configured) and fires the OnLeading hook. Triggers while a burst is active
// overwrite the buffered arguments, bump the trigger count, and reschedule
// only the trailing timer.
//
// The count passed to OnTrailing is the number of triggers received after
// the one that opened the burst, so a single-trigger burst reports 0.
//
// Trigger is a no-op after Close.
func (e *Engine[A]) Trigger(args A) {
	e.run(func() { e.triggerOp(args) })
}

// Cancel discards any active burst without firing the trailing edge, then
// fires the OnCancel hook. The hook fires even when the engine is idle.
// Cancel is a no-op after Close.
func (e *Engine[A]) Cancel() {
	e.run(e.cancelOp)
}

// Flush closes any active burst immediately, firing the trailing edge with
// the buffered arguments and count as if the trailing timer had elapsed. If
// the engine is idle nothing happens. Flush is a no-op after Close.
func (e *Engine[A]) Flush() {
	e.run(e.flushOp)
}

// Active reports whether a burst is currently in progress.
func (e *Engine[A]) Active() bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.active
}

// Closed reports whether the engine has been shut down with Close.
func (e *Engine[A]) Closed() bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.closed
}

// SetHooks replaces the engine's hooks. The engine always dereferences hooks
// at the moment an edge fires, so replacements take effect for the next edge
// even when a burst is already in progress.
func (e *Engine[A]) SetHooks(hooks Hooks[A]) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.hooks = hooks
}

// Close permanently shuts the engine down: pending timers are stopped, burst
// state is discarded, and all further operations become no-ops. No hooks are
// fired. Close is idempotent.
func (e *Engine[A]) Close() {
	e.run(e.closeOp)
}

// run serializes operations. If no operation is in progress the caller
// becomes the dispatcher: it runs op, then drains any operations queued by
// hooks or by other goroutines in the meantime. Otherwise op is queued for
// the current dispatcher, which preserves ordering without ever re-entering
// a state transition.
func (e *Engine[A]) run(op func()) {
	e.mu.Lock()
	if e.dispatching {
		e.queue = append(e.queue, op)
		e.mu.Unlock()

		return
	}
	e.dispatching = true
	e.mu.Unlock()

	for {
		op()

		e.mu.Lock()
		if len(e.queue) == 0 {
			e.dispatching = false
			e.mu.Unlock()

			return
		}
		op = e.queue[0]
		e.queue = e.queue[1:]
		e.mu.Unlock()
	}
}

func (e *Engine[A]) triggerOp(args A) {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()

		return
	}

	e.latest = args

	if e.active {
		// Only the trailing timer moves; the max wait timer keeps its
		// original deadline for the burst.
		e.count++
		e.scheduleTrailingLocked()
		e.mu.Unlock()

		return
	}

	e.active = true
	e.count = 0
	e.leadingCalled = e.leading
	e.gen++
	gen := e.gen
	e.scheduleTrailingLocked()
	if e.maxWait > 0 {
		e.maxTimer = schedule(e.clock, e.maxWait, func() {
			e.run(func() { e.expireMaxOp(gen) })
		})
	}
	hook := e.hooks.OnLeading
	e.mu.Unlock()

	if hook != nil {
		hook(args, 0, e.leading)
	}
}

// scheduleTrailingLocked stops the current trailing timer, if any, and arms
// a fresh one for the full wait. The sequence token lets the callback detect
// that it lost a race with a reschedule: a timer that fired just before
// being stopped carries a stale sequence and must not close the burst early.
func (e *Engine[A]) scheduleTrailingLocked() {
	stopTimer(e.trailingTimer)
	e.trailingSeq++
	gen, seq := e.gen, e.trailingSeq
	e.trailingTimer = schedule(e.clock, e.wait, func() {
		e.run(func() { e.expireTrailingOp(gen, seq) })
	})
}

// The expire ops fire the trailing edge from a timer callback. The sibling
// timer is not stopped; the generation bump makes its eventual firing a
// no-op instead, as stopping a fake clock timer from within another timer's
// callback can deadlock the clock.

func (e *Engine[A]) expireTrailingOp(gen, seq uint64) {
	e.mu.Lock()
	if e.closed || !e.active || gen != e.gen || seq != e.trailingSeq {
		// A stale timer from a burst that closed or a window that moved.
		e.mu.Unlock()

		return
	}
	args, count, invoked, hook := e.closeBurstLocked()
	e.mu.Unlock()

	if hook != nil {
		hook(args, count, invoked)
	}
}

func (e *Engine[A]) expireMaxOp(gen uint64) {
	e.mu.Lock()
	if e.closed || !e.active || gen != e.gen {
		// A stale timer from a burst that already closed.
		e.mu.Unlock()

		return
	}
	args, count, invoked, hook := e.closeBurstLocked()
	e.mu.Unlock()

	if hook != nil {
		hook(args, count, invoked)
	}
}

func (e *Engine[A]) cancelOp() {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()

		return
	}

	if e.active {
		e.stopTimersLocked()
		e.clearLocked()
	}
	hook := e.hooks.OnCancel
	e.mu.Unlock()

	if hook != nil {
		hook()
	}
}

func (e *Engine[A]) flushOp() {
	e.mu.Lock()
	if e.closed || !e.active {
		e.mu.Unlock()

		return
	}

	e.stopTimersLocked()
	args, count, invoked, hook := e.closeBurstLocked()
	e.mu.Unlock()

	if hook != nil {
		hook(args, count, invoked)
	}
}

func (e *Engine[A]) closeOp() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return
	}
	e.closed = true
	e.stopTimersLocked()
	e.clearLocked()
}

// closeBurstLocked ends the current burst and reports what the trailing edge
// should deliver. The trailing edge does real work unless trailing is
// disabled or the burst's only trigger already ran on the leading edge.
func (e *Engine[A]) closeBurstLocked() (
	args A,
	count int,
	invoked bool,
	hook func(A, int, bool),
) {
	args, count = e.latest, e.count
	invoked = e.trailing && !(e.leadingCalled && count == 0)
	hook = e.hooks.OnTrailing
	e.clearLocked()

	return args, count, invoked, hook
}

func (e *Engine[A]) stopTimersLocked() {
	stopTimer(e.trailingTimer)
	stopTimer(e.maxTimer)
}

func (e *Engine[A]) clearLocked() {
	var zero A

	e.trailingTimer = nil
	e.maxTimer = nil
	e.active = false
	e.leadingCalled = false
	e.count = 0
	e.latest = zero
	e.gen++
}
