// Package clock abstracts wall-clock time so that long-lived notification
// timers can be driven synthetically in tests.
package clock

import "time"

type (
	// TimeSource tells time and arms one-shot deferred callbacks.
	TimeSource interface {
		Now() time.Time
		AfterFunc(d time.Duration, f func()) Timer
	}

	// Timer is a deferred callback handle.
	Timer interface {
		// Stop prevents the callback from firing. Returns true if the timer
		// was still pending.
		Stop() bool
		// Reset re-arms the timer for a new delay. Returns true if the timer
		// was still pending.
		Reset(d time.Duration) bool
	}

	realTimeSource struct{}

	realTimer struct {
		t *time.Timer
	}
)

var _ TimeSource = (*realTimeSource)(nil)

// NewRealTimeSource returns a TimeSource backed by the time package.
func NewRealTimeSource() TimeSource {
	return &realTimeSource{}
}

func (ts *realTimeSource) Now() time.Time {
	return time.Now()
}

func (ts *realTimeSource) AfterFunc(d time.Duration, f func()) Timer {
	return &realTimer{t: time.AfterFunc(d, f)}
}

func (t *realTimer) Stop() bool { return t.t.Stop() }

func (t *realTimer) Reset(d time.Duration) bool { return t.t.Reset(d) }
