package notification

import (
	"sort"
	"sync"
	"time"

	"github.com/studiumapp/backend/core/clock"
)

// Scheduler owns the transient timer handles of the subsystem, one per named
// slot ("morning", "evening", "task-reminder-{id}"). A slot holds at most one
// outstanding timer: arming a slot first cancels whatever was armed on it, so
// duplicate firings cannot happen by construction. Nothing here is persisted;
// slots are re-armed from settings and task data on startup.
type Scheduler struct {
	clock clock.TimeSource

	mu    sync.Mutex
	slots map[string]clock.Timer
	gen   map[string]uint64
}

func NewScheduler(ts clock.TimeSource) *Scheduler {
	return &Scheduler{
		clock: ts,
		slots: make(map[string]clock.Timer),
		gen:   make(map[string]uint64),
	}
}

// Arm schedules fn to run once after delay on the given slot, replacing any
// pending timer for that slot. A non-positive delay fires as soon as the
// underlying time source allows.
func (s *Scheduler) Arm(slot string, delay time.Duration, fn func()) {
	s.mu.Lock()
	if t, ok := s.slots[slot]; ok {
		t.Stop()
		delete(s.slots, slot)
	}
	s.gen[slot]++
	gen := s.gen[slot]
	s.mu.Unlock()

	timer := s.clock.AfterFunc(delay, func() {
		s.mu.Lock()
		stale := s.gen[slot] != gen
		if !stale {
			s.gen[slot]++
			delete(s.slots, slot)
		}
		s.mu.Unlock()
		if stale {
			// replaced or cancelled between fire and now
			return
		}
		fn()
	})

	s.mu.Lock()
	if s.gen[slot] == gen { // not fired, cancelled or re-armed meanwhile
		s.slots[slot] = timer
	}
	s.mu.Unlock()
}

// Cancel disarms the slot. Returns true if a timer was pending.
func (s *Scheduler) Cancel(slot string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.slots[slot]
	if !ok {
		return false
	}
	t.Stop()
	delete(s.slots, slot)
	s.gen[slot]++
	return true
}

// CancelAll disarms every slot.
func (s *Scheduler) CancelAll() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for slot, t := range s.slots {
		t.Stop()
		delete(s.slots, slot)
		s.gen[slot]++
	}
}

// Active returns the names of slots with a pending timer, sorted.
func (s *Scheduler) Active() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	slots := make([]string, 0, len(s.slots))
	for slot := range s.slots {
		slots = append(slots, slot)
	}
	sort.Strings(slots)
	return slots
}
