package debounce

import "fmt"

// status enumerates the combined "debounce timer outstanding" / "call in
// flight" lifecycle tracked for the asynchronous flavor.
type status int

const (
	// statusStandby means nothing is outstanding.
	statusStandby status = iota
	// statusWaiting means a debounce burst is open but no call is in flight.
	statusWaiting
	// statusPending means a call is in flight but no burst is open.
	statusPending
	// statusWaitingPending means a burst opened while an earlier call is
	// still in flight, so both are outstanding at once.
	statusWaitingPending
)

func (s status) String() string {
	switch s {
	case statusStandby:
		return "standby"
	case statusWaiting:
		return "waiting"
	case statusPending:
		return "pending"
	case statusWaitingPending:
		return "waiting-pending"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

// callState pairs the lifecycle status with the last known good result. The
// result is only ever replaced by a fulfilled call or an explicit reset,
// never cleared implicitly.
type callState[R any] struct {
	status status
	result R
}

type eventKind int

const (
	// eventStart signals that a debounce burst has opened.
	eventStart eventKind = iota
	// eventLeadingCall signals the burst's leading edge; skipped reports
	// that the edge did not invoke the function.
	eventLeadingCall
	// eventTrailingCall signals the burst's trailing edge; skipped reports
	// that the edge did not invoke the function.
	eventTrailingCall
	// eventFulfilled signals that the in-flight call resolved with a result.
	eventFulfilled
	// eventRejected signals that the in-flight call failed.
	eventRejected
	// eventCancelled signals that burst and call were both abandoned.
	eventCancelled
	// eventReset replaces the result; legal only from standby.
	eventReset
)

func (k eventKind) String() string {
	switch k {
	case eventStart:
		return "start"
	case eventLeadingCall:
		return "leading-call"
	case eventTrailingCall:
		return "trailing-call"
	case eventFulfilled:
		return "fulfilled"
	case eventRejected:
		return "rejected"
	case eventCancelled:
		return "cancelled"
	case eventReset:
		return "reset"
	default:
		return fmt.Sprintf("event(%d)", int(k))
	}
}

type event[R any] struct {
	kind    eventKind
	skipped bool
	result  R
}

func evStart[R any]() event[R] {
	return event[R]{kind: eventStart}
}

func evLeadingCall[R any](skipped bool) event[R] {
	return event[R]{kind: eventLeadingCall, skipped: skipped}
}

func evTrailingCall[R any](skipped bool) event[R] {
	return event[R]{kind: eventTrailingCall, skipped: skipped}
}

func evFulfilled[R any](result R) event[R] {
	return event[R]{kind: eventFulfilled, result: result}
}

func evRejected[R any]() event[R] {
	return event[R]{kind: eventRejected}
}

func evCancelled[R any]() event[R] {
	return event[R]{kind: eventCancelled}
}

func evReset[R any](result R) event[R] {
	return event[R]{kind: eventReset, result: result}
}

// transition is the call lifecycle state machine. An event that is not legal
// for the current status means the caller has driven the machine out of
// protocol; that is a programming error and panics rather than being papered
// over, as continuing would corrupt the externally visible state.
func transition[R any](s callState[R], ev event[R]) callState[R] {
	switch s.status {
	case statusStandby:
		switch ev.kind {
		case eventStart:
			return callState[R]{statusWaiting, s.result}
		case eventCancelled:
			return s
		case eventReset:
			return callState[R]{statusStandby, ev.result}
		}
	case statusWaiting:
		switch ev.kind {
		case eventLeadingCall:
			if ev.skipped {
				return s
			}

			return callState[R]{statusWaitingPending, s.result}
		case eventTrailingCall:
			if ev.skipped {
				return callState[R]{statusStandby, s.result}
			}

			return callState[R]{statusPending, s.result}
		case eventCancelled:
			return callState[R]{statusStandby, s.result}
		}
	case statusPending:
		switch ev.kind {
		case eventStart:
			return callState[R]{statusWaitingPending, s.result}
		case eventFulfilled:
			return callState[R]{statusStandby, ev.result}
		case eventRejected:
			return callState[R]{statusStandby, s.result}
		case eventCancelled:
			return callState[R]{statusStandby, s.result}
		}
	case statusWaitingPending:
		switch ev.kind {
		case eventLeadingCall:
			return s
		case eventTrailingCall:
			// Either way the timer is done; the call remains in flight.
			return callState[R]{statusPending, s.result}
		case eventFulfilled:
			return callState[R]{statusWaiting, ev.result}
		case eventRejected:
			return callState[R]{statusWaiting, s.result}
		case eventCancelled:
			return callState[R]{statusStandby, s.result}
		}
	}

	panic(fmt.Sprintf(
		"debounce: illegal call state transition: %s while %s", ev.kind, s.status,
	))
}
