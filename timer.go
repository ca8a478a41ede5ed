package debounce

import (
	"time"

	"k8s.io/utils/clock"
)

// schedule arms a one-shot timer on the given clock. The returned handle is
// disarmed with stopTimer. A fresh timer is created for every (re)schedule
// rather than resetting an existing one, as fake clocks do not re-arm a
// timer that has already fired.
func schedule(
	clk clock.WithDelayedExecution,
	d time.Duration,
	f func(),
) clock.Timer {
	return clk.AfterFunc(d, f)
}

// stopTimer disarms a timer handle, tolerating nil and already-fired timers.
func stopTimer(t clock.Timer) {
	if t != nil {
		t.Stop()
	}
}
