package notification

import (
	"sync"

	"github.com/studiumapp/backend/core"
	"github.com/studiumapp/backend/core/clock"
	"github.com/studiumapp/backend/core/task"
)

// Engine fans the scheduling machinery out per user: each user gets their own
// slot scheduler, daily notifier and reminder scheduler over a shared clock
// and dispatcher. Users are materialized lazily on first use.
type Engine struct {
	clock      clock.TimeSource
	dispatcher *Dispatcher
	conf       core.NotificationConfig
	logger     core.Logger

	mu    sync.Mutex
	users map[string]*engineUser
}

type engineUser struct {
	sched     *Scheduler
	daily     *DailyNotifier
	reminders *ReminderScheduler
}

var _ task.ReminderScheduler = (*Engine)(nil)

func NewEngine(ts clock.TimeSource, dispatcher *Dispatcher, conf core.NotificationConfig, logger core.Logger) *Engine {
	return &Engine{
		clock:      ts,
		dispatcher: dispatcher,
		conf:       conf,
		logger:     logger,
		users:      make(map[string]*engineUser),
	}
}

func (e *Engine) user(userID string) *engineUser {
	e.mu.Lock()
	defer e.mu.Unlock()

	u, ok := e.users[userID]
	if !ok {
		sched := NewScheduler(e.clock)
		u = &engineUser{
			sched:     sched,
			daily:     NewDailyNotifier(sched, e.clock, e.dispatcher, e.logger),
			reminders: NewReminderScheduler(sched, e.clock, e.dispatcher, e.conf, e.logger),
		}
		e.users[userID] = u
	}
	return u
}

// Apply reconfigures the user's daily notifier with the given settings.
func (e *Engine) Apply(s Settings) error {
	return e.user(s.UserID).daily.Configure(s)
}

// ScheduleReminder arms the reminder on the owning user's scheduler.
func (e *Engine) ScheduleReminder(t task.Task) bool {
	return e.user(t.UserID).reminders.ScheduleReminder(t)
}

// CancelReminder disarms the task's reminder. The owning user is not known
// here; task ids are unique so cancelling across all users hits at most one
// armed slot.
func (e *Engine) CancelReminder(taskID string) {
	e.mu.Lock()
	users := make([]*engineUser, 0, len(e.users))
	for _, u := range e.users {
		users = append(users, u)
	}
	e.mu.Unlock()

	for _, u := range users {
		u.reminders.CancelReminder(taskID)
	}
}
