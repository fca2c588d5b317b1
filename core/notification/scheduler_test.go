package notification

import (
	"testing"
	"time"

	"github.com/studiumapp/backend/core/clock"
)

func TestScheduler_ArmReplacesSlot(t *testing.T) {
	ts := clock.NewEventTimeSource()
	s := NewScheduler(ts)

	var fired []string
	s.Arm("morning", time.Hour, func() { fired = append(fired, "first") })
	s.Arm("morning", 3*time.Hour, func() { fired = append(fired, "second") })

	if got := s.Active(); len(got) != 1 || got[0] != "morning" {
		t.Fatalf("Active() = %v, want [morning]", got)
	}

	// past the first deadline: the replaced timer must not fire
	ts.Advance(2 * time.Hour)
	if len(fired) != 0 {
		t.Fatalf("replaced timer fired: %v", fired)
	}

	ts.Advance(time.Hour)
	if len(fired) != 1 || fired[0] != "second" {
		t.Fatalf("fired = %v, want [second]", fired)
	}
	if got := s.Active(); len(got) != 0 {
		t.Fatalf("Active() after fire = %v, want none", got)
	}
}

func TestScheduler_Cancel(t *testing.T) {
	ts := clock.NewEventTimeSource()
	s := NewScheduler(ts)

	var fired bool
	s.Arm("task-reminder-abc", time.Hour, func() { fired = true })

	if !s.Cancel("task-reminder-abc") {
		t.Fatal("Cancel() = false, want true for an armed slot")
	}
	if s.Cancel("task-reminder-abc") {
		t.Fatal("Cancel() = true for an already cancelled slot")
	}

	ts.Advance(2 * time.Hour)
	if fired {
		t.Fatal("cancelled slot fired")
	}
}

func TestScheduler_IndependentSlots(t *testing.T) {
	ts := clock.NewEventTimeSource()
	s := NewScheduler(ts)

	var fired []string
	s.Arm("morning", time.Hour, func() { fired = append(fired, "morning") })
	s.Arm("evening", 2*time.Hour, func() { fired = append(fired, "evening") })

	ts.Advance(time.Hour)
	if len(fired) != 1 || fired[0] != "morning" {
		t.Fatalf("fired = %v, want [morning]", fired)
	}
	if got := s.Active(); len(got) != 1 || got[0] != "evening" {
		t.Fatalf("Active() = %v, want [evening]", got)
	}

	ts.Advance(time.Hour)
	if len(fired) != 2 || fired[1] != "evening" {
		t.Fatalf("fired = %v, want [morning evening]", fired)
	}
}

func TestScheduler_RearmFromCallback(t *testing.T) {
	ts := clock.NewEventTimeSource()
	s := NewScheduler(ts)

	// a self-perpetuating slot, the daily notifier's pattern
	var fires int
	var rearm func()
	rearm = func() {
		s.Arm("morning", 24*time.Hour, func() {
			fires++
			rearm()
		})
	}
	rearm()

	for day := 1; day <= 3; day++ {
		ts.Advance(24 * time.Hour)
		if fires != day {
			t.Fatalf("day %d: fires = %d", day, fires)
		}
		if got := s.Active(); len(got) != 1 {
			t.Fatalf("day %d: Active() = %v, want one armed slot", day, got)
		}
	}
}

func TestScheduler_CancelAll(t *testing.T) {
	ts := clock.NewEventTimeSource()
	s := NewScheduler(ts)

	var fired bool
	s.Arm("morning", time.Hour, func() { fired = true })
	s.Arm("evening", time.Hour, func() { fired = true })
	s.CancelAll()

	if got := s.Active(); len(got) != 0 {
		t.Fatalf("Active() = %v, want none", got)
	}
	ts.Advance(2 * time.Hour)
	if fired {
		t.Fatal("cancelled slot fired")
	}
}

func TestScheduler_NonPositiveDelayFiresImmediately(t *testing.T) {
	ts := clock.NewEventTimeSource()
	s := NewScheduler(ts)

	var fired bool
	s.Arm("morning", 0, func() { fired = true })
	if !fired {
		t.Fatal("zero-delay slot did not fire")
	}
	if got := s.Active(); len(got) != 0 {
		t.Fatalf("Active() = %v, want none after immediate fire", got)
	}
}
