package task

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/studiumapp/backend/core"
)

type Task struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Title     string    `json:"title"`
	Notes     string    `json:"notes,omitempty"`
	DueDate   time.Time `json:"due_date"`
	Completed bool      `json:"completed"`
	CreatedAt time.Time `json:"created_at"` // UTC
	UpdatedAt time.Time `json:"updated_at"` // UTC
}

// IsOverdue reports whether the task is incomplete and was due before the
// start of the day containing now.
func (t Task) IsOverdue(now time.Time) bool {
	return !t.Completed && t.DueDate.Before(StartOfDay(now))
}

// NewTask holds the fields accepted when creating a task.
type NewTask struct {
	Title   string    `json:"title" validate:"required,max=255"`
	Notes   string    `json:"notes" validate:"max=2000"`
	DueDate time.Time `json:"due_date" validate:"required"`
}

func (nt *NewTask) Clean() {
	nt.Title = core.CleanString(nt.Title)
	nt.Notes = core.CleanString(nt.Notes)
}

func (nt *NewTask) Validate(validate *validator.Validate) error {
	nt.Clean()
	return validate.Struct(nt)
}

// DueDateUpdate is one rescheduled task in a batch result.
type DueDateUpdate struct {
	ID         string    `json:"id"`
	NewDueDate time.Time `json:"due_date"`
}

// RescheduleResult lists the due-date reassignments applied by a
// RescheduleOverdue run, in processing order.
type RescheduleResult struct {
	Updated []DueDateUpdate `json:"updated"`
}

// StartOfDay returns midnight of the day containing t, in t's location.
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
