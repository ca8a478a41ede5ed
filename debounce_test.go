package debounce

import (
	"sort"
	"sync/atomic"
	"testing"
	"testing/synctest"
	"time"

	"github.com/stretchr/testify/assert"
)

type fireCase struct {
	name    string
	wait    time.Duration
	options []Option
	calls   []time.Duration
	cancels []time.Duration
	// want maps checkpoint offsets to the cumulative number of invocations
	// expected by that point in time.
	want map[time.Duration]int64
}

func runFireCases(t *testing.T, tests []fireCase) {
	t.Helper()

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			synctest.Test(t, func(t *testing.T) {
				var n atomic.Int64
				debounced, cancel := New(tt.wait, func() { n.Add(1) },
					tt.options...)
				defer cancel()

				type step struct {
					at     time.Duration
					call   bool
					cancel bool
					want   int64
				}

				steps := make([]step, 0,
					len(tt.calls)+len(tt.cancels)+len(tt.want))
				for _, at := range tt.calls {
					steps = append(steps, step{at: at, call: true})
				}
				for _, at := range tt.cancels {
					steps = append(steps, step{at: at, cancel: true})
				}
				for at, want := range tt.want {
					steps = append(steps, step{at: at, want: want})
				}
				sort.SliceStable(steps, func(i, j int) bool {
					return steps[i].at < steps[j].at
				})

				elapsed := time.Duration(0)
				for _, s := range steps {
					time.Sleep(s.at - elapsed)
					elapsed = s.at
					synctest.Wait()

					switch {
					case s.call:
						debounced()
					case s.cancel:
						cancel()
					default:
						assert.Equal(t, s.want, n.Load(), "at %s", s.at)
					}
				}
			})
		})
	}
}

func TestNew(t *testing.T) {
	runFireCases(t, []fireCase{
		{
			name:  "single call invokes once after wait",
			wait:  100 * time.Millisecond,
			calls: []time.Duration{0},
			want: map[time.Duration]int64{
				50 * time.Millisecond:  0,
				150 * time.Millisecond: 1,
				650 * time.Millisecond: 1,
			},
		},
		{
			name: "burst of calls invokes once",
			wait: 100 * time.Millisecond,
			calls: []time.Duration{
				0,
				50 * time.Millisecond,
				100 * time.Millisecond,
				150 * time.Millisecond,
			},
			want: map[time.Duration]int64{
				200 * time.Millisecond: 0,
				300 * time.Millisecond: 1,
				800 * time.Millisecond: 1,
			},
		},
		{
			name: "calls spaced beyond wait each invoke",
			wait: 100 * time.Millisecond,
			calls: []time.Duration{
				0,
				200 * time.Millisecond,
				400 * time.Millisecond,
			},
			want: map[time.Duration]int64{
				150 * time.Millisecond: 1,
				350 * time.Millisecond: 2,
				550 * time.Millisecond: 3,
			},
		},
		{
			name:    "cancel discards the pending invocation",
			wait:    100 * time.Millisecond,
			calls:   []time.Duration{0, 50 * time.Millisecond},
			cancels: []time.Duration{120 * time.Millisecond},
			want: map[time.Duration]int64{
				600 * time.Millisecond: 0,
			},
		},
		{
			name:    "leading only invokes once per burst, immediately",
			wait:    100 * time.Millisecond,
			options: []Option{WithLeading()},
			calls: []time.Duration{
				0,
				50 * time.Millisecond,
				100 * time.Millisecond,
			},
			want: map[time.Duration]int64{
				10 * time.Millisecond:  1,
				700 * time.Millisecond: 1,
			},
		},
		{
			name:    "leading and trailing, single call invokes only once",
			wait:    100 * time.Millisecond,
			options: []Option{WithLeading(), WithTrailing()},
			calls:   []time.Duration{0},
			want: map[time.Duration]int64{
				10 * time.Millisecond:  1,
				600 * time.Millisecond: 1,
			},
		},
		{
			name:    "leading and trailing, burst invokes twice",
			wait:    100 * time.Millisecond,
			options: []Option{WithLeading(), WithTrailing()},
			calls:   []time.Duration{0, 50 * time.Millisecond},
			want: map[time.Duration]int64{
				10 * time.Millisecond:  1,
				100 * time.Millisecond: 1,
				200 * time.Millisecond: 2,
				700 * time.Millisecond: 2,
			},
		},
		{
			name:    "maxWait bounds continuous calling",
			wait:    200 * time.Millisecond,
			options: []Option{WithMaxWait(500 * time.Millisecond)},
			calls: []time.Duration{
				0,
				100 * time.Millisecond,
				200 * time.Millisecond,
				300 * time.Millisecond,
				400 * time.Millisecond,
				550 * time.Millisecond,
				650 * time.Millisecond,
				750 * time.Millisecond,
				850 * time.Millisecond,
				950 * time.Millisecond,
			},
			want: map[time.Duration]int64{
				// The first burst is cut off by maxWait at 500ms despite
				// calls still arriving within the wait window.
				450 * time.Millisecond:  0,
				520 * time.Millisecond:  1,
				// The second burst opens at 550ms and is cut off at 1050ms.
				1000 * time.Millisecond: 1,
				1100 * time.Millisecond: 2,
				1800 * time.Millisecond: 2,
			},
		},
	})
}

func TestNew_zeroWait(t *testing.T) {
	t.Parallel()

	var n atomic.Int64
	f := func() { n.Add(1) }

	debounced, cancel := New(0, f)
	defer cancel()

	// A non-positive wait returns f itself; every call invokes immediately.
	debounced()
	debounced()
	debounced()

	assert.Equal(t, int64(3), n.Load())
}

func TestNewMutable(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		var got atomic.Value

		debounced, cancel := NewMutable(100 * time.Millisecond)
		defer cancel()

		debounced(func() { got.Store("first") })
		time.Sleep(50 * time.Millisecond)
		synctest.Wait()
		debounced(func() { got.Store("second") })

		time.Sleep(200 * time.Millisecond)
		synctest.Wait()

		// Only the last function passed during the burst is invoked.
		assert.Equal(t, "second", got.Load())
	})
}

func TestNewMutable_cancel(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		var n atomic.Int64

		debounced, cancel := NewMutable(100 * time.Millisecond)

		debounced(func() { n.Add(1) })
		cancel()

		time.Sleep(time.Second)
		synctest.Wait()
		assert.Equal(t, int64(0), n.Load())

		// The debounced function keeps working after cancel.
		debounced(func() { n.Add(1) })
		time.Sleep(200 * time.Millisecond)
		synctest.Wait()
		assert.Equal(t, int64(1), n.Load())
	})
}

func TestNewMutable_zeroWait(t *testing.T) {
	t.Parallel()

	var n atomic.Int64

	debounced, cancel := NewMutable(0)
	defer cancel()

	debounced(func() { n.Add(1) })
	debounced(func() { n.Add(1) })

	assert.Equal(t, int64(2), n.Load())
}
