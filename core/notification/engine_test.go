package notification

import (
	"testing"
	"time"

	"github.com/studiumapp/backend/core"
	"github.com/studiumapp/backend/core/clock"
	"github.com/studiumapp/backend/core/task"
)

func newTestEngine(ts *clock.EventTimeSource) (*Engine, *notifierRecorder) {
	rec := &notifierRecorder{}
	d := NewDispatcher(StaticGate(PermissionGranted), rec, testLogger())
	conf := core.NotificationConfig{
		ReminderLeadTime: 2 * time.Hour,
		DailyCapacity:    3,
		LookaheadDays:    7,
		SlotHour:         10,
		TodayGateHours:   2,
	}
	return NewEngine(ts, d, conf, testLogger()), rec
}

func TestEngine_UsersScheduleIndependently(t *testing.T) {
	ts := clock.NewEventTimeSource().Update(startOfTestDay())
	eng, rec := newTestEngine(ts)

	s1 := enabledSettings()
	s2 := enabledSettings()
	s2.UserID = "u2"
	s2.MorningTime = "09:00"

	if err := eng.Apply(s1); err != nil {
		t.Fatalf("Apply() failed: %v", err)
	}
	if err := eng.Apply(s2); err != nil {
		t.Fatalf("Apply() failed: %v", err)
	}

	// 08:00: only u1's morning slot fires
	ts.Advance(2 * time.Hour)
	if tags := rec.sentTags(); len(tags) != 1 || tags[0] != TaskTag(SlotMorning) {
		t.Fatalf("sent = %v, want [%s]", tags, TaskTag(SlotMorning))
	}

	// 09:00: u2's morning follows
	ts.Advance(1 * time.Hour)
	if tags := rec.sentTags(); len(tags) != 2 {
		t.Fatalf("sent = %v, want two morning notifications", tags)
	}
}

func TestEngine_ApplyReplacesOnlyThatUser(t *testing.T) {
	ts := clock.NewEventTimeSource().Update(startOfTestDay())
	eng, rec := newTestEngine(ts)

	s1 := enabledSettings()
	s2 := enabledSettings()
	s2.UserID = "u2"

	if err := eng.Apply(s1); err != nil {
		t.Fatalf("Apply() failed: %v", err)
	}
	if err := eng.Apply(s2); err != nil {
		t.Fatalf("Apply() failed: %v", err)
	}

	// disable u1; u2 keeps firing
	s1.Enabled = false
	if err := eng.Apply(s1); err != nil {
		t.Fatalf("Apply() failed: %v", err)
	}

	ts.Advance(2 * time.Hour)
	if tags := rec.sentTags(); len(tags) != 1 || tags[0] != TaskTag(SlotMorning) {
		t.Fatalf("sent = %v, want only u2's morning", tags)
	}
}

func TestEngine_RemindersRouteByOwner(t *testing.T) {
	now := startOfTestDay()
	ts := clock.NewEventTimeSource().Update(now)
	eng, rec := newTestEngine(ts)

	t1 := task.Task{ID: "t1", UserID: "u1", Title: "Essay", DueDate: now.Add(5 * time.Hour)}
	t2 := task.Task{ID: "t2", UserID: "u2", Title: "Quiz prep", DueDate: now.Add(6 * time.Hour)}

	if !eng.ScheduleReminder(t1) {
		t.Fatal("ScheduleReminder(t1) not armed")
	}
	if !eng.ScheduleReminder(t2) {
		t.Fatal("ScheduleReminder(t2) not armed")
	}

	// cancelling t2 must not touch u1's reminder
	eng.CancelReminder("t2")

	ts.Advance(6 * time.Hour)
	if tags := rec.sentTags(); len(tags) != 1 || tags[0] != TaskTag("t1") {
		t.Fatalf("sent = %v, want [%s]", tags, TaskTag("t1"))
	}
}
