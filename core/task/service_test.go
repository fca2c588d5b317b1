package task_test

import (
	"context"
	"testing"
	"time"

	"github.com/studiumapp/backend/core/task"
)

type reminderRecorder struct {
	scheduled []string
	cancelled []string
}

func (r *reminderRecorder) ScheduleReminder(t task.Task) bool {
	r.scheduled = append(r.scheduled, t.ID)
	return true
}

func (r *reminderRecorder) CancelReminder(taskID string) {
	r.cancelled = append(r.cancelled, taskID)
}

func TestService_CompleteCancelsReminder(t *testing.T) {
	now := time.Date(2021, time.March, 15, 9, 0, 0, 0, time.Local)
	svc, _, createTask := setup(t, now)
	rec := &reminderRecorder{}
	svc.SetReminderScheduler(rec)

	tsk := createTask(now.Add(5 * time.Hour))

	done, err := svc.Complete(context.Background(), testUserID, tsk.ID)
	if err != nil {
		t.Fatalf("Complete() failed: %v", err)
	}
	if !done.Completed {
		t.Error("Completed flag not set")
	}
	if len(rec.cancelled) != 1 || rec.cancelled[0] != tsk.ID {
		t.Errorf("cancelled reminders = %v, want [%s]", rec.cancelled, tsk.ID)
	}
}

func TestService_DeleteCancelsReminders(t *testing.T) {
	now := time.Date(2021, time.March, 15, 9, 0, 0, 0, time.Local)
	svc, _, createTask := setup(t, now)
	rec := &reminderRecorder{}
	svc.SetReminderScheduler(rec)

	tsk := createTask(now.Add(5 * time.Hour))

	if err := svc.Delete(context.Background(), testUserID, tsk.ID); err != nil {
		t.Fatalf("Delete() failed: %v", err)
	}
	if len(rec.cancelled) != 1 || rec.cancelled[0] != tsk.ID {
		t.Errorf("cancelled reminders = %v, want [%s]", rec.cancelled, tsk.ID)
	}
	if _, err := svc.GetByID(context.Background(), testUserID, tsk.ID); err != task.ErrNotFound {
		t.Errorf("GetByID() after delete = %v, want ErrNotFound", err)
	}
}

func TestService_CreateAndMoveArmReminders(t *testing.T) {
	now := time.Date(2021, time.March, 15, 9, 0, 0, 0, time.Local)
	svc, _, createTask := setup(t, now)
	rec := &reminderRecorder{}
	svc.SetReminderScheduler(rec)

	created, err := svc.Create(context.Background(), testUserID, task.NewTask{
		Title:   "Read ch. 4",
		DueDate: now.Add(5 * time.Hour),
	})
	if err != nil {
		t.Fatalf("Create() failed: %v", err)
	}
	if len(rec.scheduled) != 1 || rec.scheduled[0] != created.ID {
		t.Errorf("scheduled reminders = %v, want [%s]", rec.scheduled, created.ID)
	}

	tsk := createTask(now.Add(6 * time.Hour))
	if _, err := svc.UpdateDueDate(context.Background(), testUserID, tsk.ID, now.AddDate(0, 0, 2)); err != nil {
		t.Fatalf("UpdateDueDate() failed: %v", err)
	}
	if len(rec.scheduled) != 2 || rec.scheduled[1] != tsk.ID {
		t.Errorf("scheduled reminders = %v, want [%s %s]", rec.scheduled, created.ID, tsk.ID)
	}
}

func TestService_OtherUsersTasksNotFound(t *testing.T) {
	now := time.Date(2021, time.March, 15, 9, 0, 0, 0, time.Local)
	svc, _, createTask := setup(t, now)
	tsk := createTask(now.Add(5 * time.Hour))

	if _, err := svc.GetByID(context.Background(), "intruder", tsk.ID); err != task.ErrNotFound {
		t.Errorf("GetByID() as another user = %v, want ErrNotFound", err)
	}
	if _, err := svc.Complete(context.Background(), "intruder", tsk.ID); err != task.ErrNotFound {
		t.Errorf("Complete() as another user = %v, want ErrNotFound", err)
	}
}

func TestService_UpdateDueDate(t *testing.T) {
	now := time.Date(2021, time.March, 15, 9, 0, 0, 0, time.Local)
	svc, _, createTask := setup(t, now)
	tsk := createTask(now.Add(5 * time.Hour))

	due := now.AddDate(0, 0, 2)
	moved, err := svc.UpdateDueDate(context.Background(), testUserID, tsk.ID, due)
	if err != nil {
		t.Fatalf("UpdateDueDate() failed: %v", err)
	}
	if !moved.DueDate.Equal(due) {
		t.Errorf("DueDate = %s, want %s", moved.DueDate, due)
	}
}
