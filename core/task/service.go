package task

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/studiumapp/backend/core"
	"github.com/studiumapp/backend/core/clock"
)

var (
	// errors
	ErrNotFound = errors.New("task not found")
)

type (
	Repository interface {
		CreateTask(ctx context.Context, t Task) (Task, error)
		GetTaskByID(ctx context.Context, id string) (Task, error)
		// QueryPendingDueBefore returns incomplete tasks of the user with
		// due_date strictly before the cutoff, in ascending due_date order.
		QueryPendingDueBefore(ctx context.Context, userID string, cutoff time.Time) ([]Task, error)
		// QueryPendingDueBetween returns incomplete tasks of the user with
		// due_date in [from, to], in ascending due_date order.
		QueryPendingDueBetween(ctx context.Context, userID string, from, to time.Time) ([]Task, error)
		UpdateTask(ctx context.Context, t Task) (Task, error)
		// BatchRescheduleTasks upserts the given tasks keyed by id in a single
		// write; callers only ever change due_date.
		BatchRescheduleTasks(ctx context.Context, tasks []Task) error
		DeleteTasksByID(ctx context.Context, ids ...string) error
	}

	// ReminderCanceler disarms a pending reminder for a task; consulted when a
	// task is completed or deleted so the stale timer does not fire.
	ReminderCanceler interface {
		CancelReminder(taskID string)
	}

	// ReminderScheduler additionally arms reminders as tasks are created or
	// moved.
	ReminderScheduler interface {
		ReminderCanceler
		ScheduleReminder(t Task) bool
	}

	Service struct {
		repo      Repository
		clock     clock.TimeSource
		logger    core.Logger
		conf      core.NotificationConfig
		reminders ReminderScheduler // optional
	}
)

func NewService(repo Repository, ts clock.TimeSource, logger core.Logger, conf core.NotificationConfig) *Service {
	return &Service{
		repo:   repo,
		clock:  ts,
		logger: logger,
		conf:   conf,
	}
}

// SetReminderScheduler wires the reminder scheduler in; left nil, task writes
// never touch timers.
func (svc *Service) SetReminderScheduler(rs ReminderScheduler) {
	svc.reminders = rs
}

func (svc *Service) Create(ctx context.Context, userID string, nt NewTask) (Task, error) {
	now := svc.clock.Now().UTC()
	t := Task{
		ID:        uuid.New().String(),
		UserID:    userID,
		Title:     core.CleanString(nt.Title),
		Notes:     core.CleanString(nt.Notes),
		DueDate:   nt.DueDate,
		CreatedAt: now,
		UpdatedAt: now,
	}
	t, err := svc.repo.CreateTask(ctx, t)
	if err != nil {
		return Task{}, err
	}
	if svc.reminders != nil {
		svc.reminders.ScheduleReminder(t)
	}
	return t, nil
}

// GetByID fetches a task owned by userID; other users' tasks are not found.
func (svc *Service) GetByID(ctx context.Context, userID, id string) (Task, error) {
	t, err := svc.repo.GetTaskByID(ctx, id)
	if err != nil {
		return Task{}, err
	}
	if t.UserID != userID {
		return Task{}, ErrNotFound
	}
	return t, nil
}

// Complete marks the task done and disarms its reminder.
func (svc *Service) Complete(ctx context.Context, userID, id string) (Task, error) {
	t, err := svc.GetByID(ctx, userID, id)
	if err != nil {
		return Task{}, err
	}
	t.Completed = true
	t.UpdatedAt = svc.clock.Now().UTC()
	t, err = svc.repo.UpdateTask(ctx, t)
	if err != nil {
		return Task{}, err
	}
	if svc.reminders != nil {
		svc.reminders.CancelReminder(t.ID)
	}
	return t, nil
}

// UpdateDueDate moves a single task to a new due date.
func (svc *Service) UpdateDueDate(ctx context.Context, userID, id string, due time.Time) (Task, error) {
	t, err := svc.GetByID(ctx, userID, id)
	if err != nil {
		return Task{}, err
	}
	t.DueDate = due
	t.UpdatedAt = svc.clock.Now().UTC()
	t, err = svc.repo.UpdateTask(ctx, t)
	if err != nil {
		return Task{}, err
	}
	if svc.reminders != nil {
		svc.reminders.ScheduleReminder(t)
	}
	return t, nil
}

// QueryUpcoming returns pending tasks due within the lookahead window; used
// to re-arm reminders after a restart.
func (svc *Service) QueryUpcoming(ctx context.Context, userID string) ([]Task, error) {
	now := svc.clock.Now()
	return svc.repo.QueryPendingDueBetween(ctx, userID, now, now.AddDate(0, 0, svc.conf.LookaheadDays))
}

// QueryOverdue returns the tasks a RescheduleOverdue call would move.
func (svc *Service) QueryOverdue(ctx context.Context, userID string) ([]Task, error) {
	return svc.repo.QueryPendingDueBefore(ctx, userID, StartOfDay(svc.clock.Now()))
}

func (svc *Service) Delete(ctx context.Context, userID string, ids ...string) error {
	for _, id := range ids {
		if _, err := svc.GetByID(ctx, userID, id); err != nil {
			return err
		}
	}
	if err := svc.repo.DeleteTasksByID(ctx, ids...); err != nil {
		return err
	}
	if svc.reminders != nil {
		for _, id := range ids {
			svc.reminders.CancelReminder(id)
		}
	}
	return nil
}
