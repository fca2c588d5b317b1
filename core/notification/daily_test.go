package notification

import (
	"testing"
	"time"

	"github.com/studiumapp/backend/core"
	"github.com/studiumapp/backend/core/clock"
)

func newTestDailyNotifier(ts *clock.EventTimeSource) (*DailyNotifier, *Scheduler, *notifierRecorder) {
	sched := NewScheduler(ts)
	rec := &notifierRecorder{}
	d := NewDispatcher(StaticGate(PermissionGranted), rec, testLogger())
	return NewDailyNotifier(sched, ts, d, testLogger()), sched, rec
}

func enabledSettings() Settings {
	return Settings{
		UserID:         "u1",
		Enabled:        true,
		MorningTime:    "08:00",
		EveningTime:    "22:00",
		MorningMessage: "rise and grind",
		EveningMessage: "wind down",
	}
}

// 06:00 local on an arbitrary day
func startOfTestDay() time.Time {
	return time.Date(2021, time.March, 1, 6, 0, 0, 0, time.Local)
}

func TestDailyNotifier_DisabledHoldsNoTimers(t *testing.T) {
	ts := clock.NewEventTimeSource().Update(startOfTestDay())
	dn, sched, rec := newTestDailyNotifier(ts)

	s := enabledSettings()
	s.Enabled = false
	if err := dn.Configure(s); err != nil {
		t.Fatalf("Configure() failed: %v", err)
	}
	if got := sched.Active(); len(got) != 0 {
		t.Fatalf("Active() = %v, want none with notifications disabled", got)
	}

	ts.Advance(48 * time.Hour)
	if len(rec.sent) != 0 {
		t.Fatalf("disabled notifier dispatched %d notifications", len(rec.sent))
	}
}

func TestDailyNotifier_DisableCancelsArmedTimers(t *testing.T) {
	ts := clock.NewEventTimeSource().Update(startOfTestDay())
	dn, sched, rec := newTestDailyNotifier(ts)

	if err := dn.Configure(enabledSettings()); err != nil {
		t.Fatalf("Configure() failed: %v", err)
	}
	if got := sched.Active(); len(got) != 2 {
		t.Fatalf("Active() = %v, want [evening morning]", got)
	}

	s := enabledSettings()
	s.Enabled = false
	if err := dn.Configure(s); err != nil {
		t.Fatalf("Configure() failed: %v", err)
	}
	if got := sched.Active(); len(got) != 0 {
		t.Fatalf("Active() = %v, want none after disabling", got)
	}

	ts.Advance(48 * time.Hour)
	if len(rec.sent) != 0 {
		t.Fatalf("disabled notifier dispatched %d notifications", len(rec.sent))
	}
}

func TestDailyNotifier_FiresAtConfiguredTimes(t *testing.T) {
	ts := clock.NewEventTimeSource().Update(startOfTestDay()) // 06:00
	dn, _, rec := newTestDailyNotifier(ts)

	if err := dn.Configure(enabledSettings()); err != nil {
		t.Fatalf("Configure() failed: %v", err)
	}

	ts.Advance(time.Hour) // 07:00
	if len(rec.sent) != 0 {
		t.Fatalf("fired before the configured time: %v", rec.sentTags())
	}

	ts.Advance(time.Hour) // 08:00
	if tags := rec.sentTags(); len(tags) != 1 || tags[0] != TaskTag(SlotMorning) {
		t.Fatalf("sent = %v, want [%s]", tags, TaskTag(SlotMorning))
	}
	if rec.sent[0].Title != "Good Morning!" {
		t.Errorf("Title = %q, want %q", rec.sent[0].Title, "Good Morning!")
	}
	if rec.sent[0].Body != "rise and grind" {
		t.Errorf("Body = %q, want configured message", rec.sent[0].Body)
	}
	if !rec.sent[0].RequireInteraction {
		t.Error("RequireInteraction not set on a daily notification")
	}
	// the synthetic id deep-links like a task's
	if got := ClickTarget(rec.sent[0].Tag, ""); got != "/calendar?task=morning" {
		t.Errorf("ClickTarget = %q, want %q", got, "/calendar?task=morning")
	}

	ts.Advance(14 * time.Hour) // 22:00
	if tags := rec.sentTags(); len(tags) != 2 || tags[1] != TaskTag(SlotEvening) {
		t.Fatalf("sent = %v, want [%s %s]", tags, TaskTag(SlotMorning), TaskTag(SlotEvening))
	}
	if rec.sent[1].Title != "Good Evening!" {
		t.Errorf("Title = %q, want %q", rec.sent[1].Title, "Good Evening!")
	}
}

func TestDailyNotifier_TimePassedTodayArmsTomorrow(t *testing.T) {
	// 09:00: today's 08:00 already passed
	ts := clock.NewEventTimeSource().Update(startOfTestDay().Add(3 * time.Hour))
	dn, _, rec := newTestDailyNotifier(ts)

	if err := dn.Configure(enabledSettings()); err != nil {
		t.Fatalf("Configure() failed: %v", err)
	}

	ts.Advance(13 * time.Hour) // 22:00: evening fires, morning must not
	if tags := rec.sentTags(); len(tags) != 1 || tags[0] != TaskTag(SlotEvening) {
		t.Fatalf("sent = %v, want [%s]", tags, TaskTag(SlotEvening))
	}

	ts.Advance(10 * time.Hour) // 08:00 next day
	if tags := rec.sentTags(); len(tags) != 2 || tags[1] != TaskTag(SlotMorning) {
		t.Fatalf("sent = %v, want [%s %s]", tags, TaskTag(SlotEvening), TaskTag(SlotMorning))
	}
}

func TestDailyNotifier_SelfPerpetuates(t *testing.T) {
	ts := clock.NewEventTimeSource().Update(startOfTestDay())
	dn, sched, rec := newTestDailyNotifier(ts)

	if err := dn.Configure(enabledSettings()); err != nil {
		t.Fatalf("Configure() failed: %v", err)
	}

	// three full days: each slot fires exactly once a day and re-arms itself
	for day := 1; day <= 3; day++ {
		ts.Advance(24 * time.Hour)
		if len(rec.sent) != 2*day {
			t.Fatalf("day %d: sent %d notifications, want %d: %v", day, len(rec.sent), 2*day, rec.sentTags())
		}
		if got := sched.Active(); len(got) != 2 {
			t.Fatalf("day %d: Active() = %v, want both slots re-armed", day, got)
		}
	}
}

func TestDailyNotifier_ReconfigureReplacesTimers(t *testing.T) {
	ts := clock.NewEventTimeSource().Update(startOfTestDay()) // 06:00
	dn, sched, rec := newTestDailyNotifier(ts)

	if err := dn.Configure(enabledSettings()); err != nil {
		t.Fatalf("Configure() failed: %v", err)
	}

	// re-configure before anything fires: morning moves 08:00 -> 10:00
	s := enabledSettings()
	s.MorningTime = "10:00"
	s.MorningMessage = "late start"
	if err := dn.Configure(s); err != nil {
		t.Fatalf("Configure() failed: %v", err)
	}
	if got := sched.Active(); len(got) != 2 {
		t.Fatalf("Active() = %v, want exactly one timer per slot", got)
	}

	ts.Advance(3 * time.Hour) // 09:00, past the original 08:00 target
	if len(rec.sent) != 0 {
		t.Fatalf("stale timer fired after reconfiguration: %v", rec.sentTags())
	}

	ts.Advance(time.Hour) // 10:00, the new target
	if tags := rec.sentTags(); len(tags) != 1 || tags[0] != TaskTag(SlotMorning) {
		t.Fatalf("sent = %v, want [%s]", tags, TaskTag(SlotMorning))
	}
	if rec.sent[0].Body != "late start" {
		t.Errorf("Body = %q, want the re-configured message", rec.sent[0].Body)
	}
}

func TestDailyNotifier_MalformedTimeRejected(t *testing.T) {
	ts := clock.NewEventTimeSource().Update(startOfTestDay())
	dn, sched, _ := newTestDailyNotifier(ts)

	tests := []struct {
		name    string
		mutate  func(*Settings)
		wantFld string
	}{
		{name: "morning garbage", mutate: func(s *Settings) { s.MorningTime = "8 o'clock" }, wantFld: "morningTime"},
		{name: "evening out of range", mutate: func(s *Settings) { s.EveningTime = "25:61" }, wantFld: "eveningTime"},
		{name: "morning empty", mutate: func(s *Settings) { s.MorningTime = "" }, wantFld: "morningTime"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := enabledSettings()
			tt.mutate(&s)

			err := dn.Configure(s)
			if err == nil {
				t.Fatal("Configure() accepted a malformed time")
			}
			vErr, ok := err.(*core.ValidationError)
			if !ok {
				t.Fatalf("Configure() error = %T, want *core.ValidationError", err)
			}
			if len(vErr.Fields) != 1 || vErr.Fields[0].Field != tt.wantFld {
				t.Errorf("error fields = %+v, want field %q", vErr.Fields, tt.wantFld)
			}
			if got := sched.Active(); len(got) != 0 {
				t.Errorf("Active() = %v, want no slots armed after rejection", got)
			}
		})
	}
}
