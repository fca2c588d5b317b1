package clock

import (
	"sync"
	"time"
)

type (
	// EventTimeSource is a fake TimeSource. It is synchronous: when Advance or
	// Update is called, every timer due by the new time fires before the call
	// returns, in the calling goroutine. Callbacks run with the source
	// unlocked, so a callback may arm new timers; timers it arms for a time
	// already reached fire before the outer call returns as well.
	EventTimeSource struct {
		mu     sync.RWMutex
		now    time.Time
		timers []*fakeTimer
	}

	fakeTimer struct {
		// link to the parent source for synchronization
		source   *EventTimeSource
		deadline time.Time
		callback func()
		// done is true once the timer has fired or been stopped
		done bool
	}
)

var _ TimeSource = (*EventTimeSource)(nil)

// NewEventTimeSource returns an EventTimeSource set to the Unix epoch.
func NewEventTimeSource() *EventTimeSource {
	return &EventTimeSource{now: time.Unix(0, 0)}
}

func (ts *EventTimeSource) Now() time.Time {
	ts.mu.RLock()
	defer ts.mu.RUnlock()

	return ts.now
}

// AfterFunc arms a timer for the given delay. Non-positive delays fire before
// AfterFunc returns, in the calling goroutine.
func (ts *EventTimeSource) AfterFunc(d time.Duration, f func()) Timer {
	if d < 0 {
		d = 0
	}
	ts.mu.Lock()
	t := &fakeTimer{source: ts, deadline: ts.now.Add(d), callback: f}
	ts.timers = append(ts.timers, t)
	ts.mu.Unlock()

	ts.fireDue()
	return t
}

// Update sets the fake current time and fires any due timers. Returns the
// source so calls can be chained: NewEventTimeSource().Update(t).
func (ts *EventTimeSource) Update(now time.Time) *EventTimeSource {
	ts.mu.Lock()
	ts.now = now
	ts.mu.Unlock()

	ts.fireDue()
	return ts
}

// Advance moves the fake current time forward by d.
func (ts *EventTimeSource) Advance(d time.Duration) {
	ts.mu.Lock()
	ts.now = ts.now.Add(d)
	ts.mu.Unlock()

	ts.fireDue()
}

// PendingTimers reports how many timers are still armed.
func (ts *EventTimeSource) PendingTimers() int {
	ts.mu.RLock()
	defer ts.mu.RUnlock()

	return len(ts.timers)
}

// fireDue pops and runs due timers one at a time, earliest deadline first,
// until none remain. The lock is dropped around each callback.
func (ts *EventTimeSource) fireDue() {
	for {
		ts.mu.Lock()
		var due *fakeTimer
		idx := -1
		for i, t := range ts.timers {
			if t.deadline.After(ts.now) {
				continue
			}
			if due == nil || t.deadline.Before(due.deadline) {
				due, idx = t, i
			}
		}
		if due == nil {
			ts.mu.Unlock()
			return
		}
		ts.timers = append(ts.timers[:idx], ts.timers[idx+1:]...)
		due.done = true
		ts.mu.Unlock()

		due.callback()
	}
}

func (t *fakeTimer) Reset(d time.Duration) bool {
	if d < 0 {
		d = 0
	}

	t.source.mu.Lock()
	wasActive := !t.done
	t.deadline = t.source.now.Add(d)
	if t.done {
		t.done = false
		t.source.timers = append(t.source.timers, t)
	}
	t.source.mu.Unlock()

	t.source.fireDue()
	return wasActive
}

func (t *fakeTimer) Stop() bool {
	t.source.mu.Lock()
	defer t.source.mu.Unlock()

	if t.done {
		return false
	}
	for i, pending := range t.source.timers {
		if pending == t {
			t.source.timers = append(t.source.timers[:i], t.source.timers[i+1:]...)
			break
		}
	}
	t.done = true

	return true
}
