package notification

import (
	"fmt"
	"time"

	"github.com/studiumapp/backend/core"
	"github.com/studiumapp/backend/core/clock"
	"github.com/studiumapp/backend/core/task"
)

const reminderSlotPrefix = "task-reminder-"

// ReminderScheduler arms one reminder per task, a fixed lead time ahead of the
// task's due time. Reminders whose fire time already passed are never armed;
// there is no retroactive notification.
type ReminderScheduler struct {
	sched      *Scheduler
	clock      clock.TimeSource
	dispatcher *Dispatcher
	leadTime   time.Duration
	logger     core.Logger
}

var _ task.ReminderScheduler = (*ReminderScheduler)(nil)

func NewReminderScheduler(sched *Scheduler, ts clock.TimeSource, dispatcher *Dispatcher, conf core.NotificationConfig, logger core.Logger) *ReminderScheduler {
	return &ReminderScheduler{
		sched:      sched,
		clock:      ts,
		dispatcher: dispatcher,
		leadTime:   conf.ReminderLeadTime,
		logger:     logger,
	}
}

// ScheduleReminder arms the task's reminder slot for due − lead time. Returns
// false when the reminder time is already in the past (or the task is done)
// and nothing was armed. Re-scheduling an armed task replaces its timer.
func (rs *ReminderScheduler) ScheduleReminder(t task.Task) bool {
	if t.Completed {
		return false
	}
	now := rs.clock.Now()
	remindAt := t.DueDate.Add(-rs.leadTime)
	if !remindAt.After(now) {
		return false
	}

	rs.sched.Arm(reminderSlot(t.ID), remindAt.Sub(now), func() { rs.fire(t) })
	return true
}

// CancelReminder disarms a pending reminder; used when the task is completed
// or deleted before the reminder fires.
func (rs *ReminderScheduler) CancelReminder(taskID string) {
	rs.sched.Cancel(reminderSlot(taskID))
}

func (rs *ReminderScheduler) fire(t task.Task) {
	hours := int(rs.leadTime / time.Hour)
	rs.dispatcher.Dispatch(NewTaskNotification(
		"Task Reminder",
		fmt.Sprintf("%q is due in %d hours!", t.Title, hours),
		t.ID,
		Action{Action: ActionComplete, Title: "Mark Complete"},
		Action{Action: ActionReschedule, Title: "Reschedule"},
	))
}

func reminderSlot(taskID string) string {
	return reminderSlotPrefix + taskID
}
