package sqlxrepos

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/studiumapp/backend/core/task"
)

const taskColumns = "id, user_id, title, notes, due_date, completed, created_at, updated_at"

type (
	taskRepository struct {
		db *sqlx.DB
	}

	taskRow struct {
		ID        string      `db:"id"`
		UserID    string      `db:"user_id"`
		Title     string      `db:"title"`
		Notes     null.String `db:"notes"`
		DueDate   time.Time   `db:"due_date"`
		Completed bool        `db:"completed"`
		CreatedAt time.Time   `db:"created_at"`
		UpdatedAt time.Time   `db:"updated_at"`
	}
)

var _ task.Repository = (*taskRepository)(nil)

func NewTaskRepository(db *sqlx.DB) *taskRepository {
	return &taskRepository{db: db}
}

func (repo taskRepository) pack(t task.Task) taskRow {
	return taskRow{
		ID:        t.ID,
		UserID:    t.UserID,
		Title:     t.Title,
		Notes:     null.NewString(t.Notes, t.Notes != ""),
		DueDate:   t.DueDate,
		Completed: t.Completed,
		CreatedAt: t.CreatedAt.UTC(),
		UpdatedAt: t.UpdatedAt.UTC(),
	}
}

func (repo taskRepository) unpack(row taskRow) task.Task {
	return task.Task{
		ID:        row.ID,
		UserID:    row.UserID,
		Title:     row.Title,
		Notes:     row.Notes.String,
		DueDate:   row.DueDate,
		Completed: row.Completed,
		CreatedAt: row.CreatedAt,
		UpdatedAt: row.UpdatedAt,
	}
}

func (repo taskRepository) unpackSlice(rows []taskRow) []task.Task {
	tasks := make([]task.Task, 0, len(rows))
	for _, row := range rows {
		tasks = append(tasks, repo.unpack(row))
	}
	return tasks
}

// trapNoRowsErr maps psql "no rows" err to task.ErrNotFound
func (repo taskRepository) trapNoRowsErr(err error, msg string) error {
	if err == sql.ErrNoRows {
		return task.ErrNotFound
	}
	return errors.Wrap(err, msg)
}

func (repo taskRepository) CreateTask(ctx context.Context, t task.Task) (task.Task, error) {
	row := repo.pack(t)
	q := `INSERT INTO task (` + taskColumns + `)
	      VALUES (:id, :user_id, :title, :notes, :due_date, :completed, :created_at, :updated_at)`
	if _, err := sqlx.NamedExecContext(ctx, repo.db, q, row); err != nil {
		return task.Task{}, errors.Wrap(err, "inserting task")
	}
	return t, nil
}

func (repo taskRepository) GetTaskByID(ctx context.Context, id string) (task.Task, error) {
	var row taskRow
	q := `SELECT ` + taskColumns + ` FROM task WHERE id = $1`
	if err := repo.db.GetContext(ctx, &row, q, id); err != nil {
		return task.Task{}, repo.trapNoRowsErr(err, "getting task")
	}
	return repo.unpack(row), nil
}

func (repo taskRepository) QueryPendingDueBefore(ctx context.Context, userID string, cutoff time.Time) ([]task.Task, error) {
	var rows []taskRow
	q := `SELECT ` + taskColumns + ` FROM task
	      WHERE user_id = $1 AND completed = false AND due_date < $2
	      ORDER BY due_date ASC`
	if err := repo.db.SelectContext(ctx, &rows, q, userID, cutoff); err != nil {
		return nil, errors.Wrap(err, "querying pending tasks")
	}
	return repo.unpackSlice(rows), nil
}

func (repo taskRepository) QueryPendingDueBetween(ctx context.Context, userID string, from, to time.Time) ([]task.Task, error) {
	var rows []taskRow
	q := `SELECT ` + taskColumns + ` FROM task
	      WHERE user_id = $1 AND completed = false AND due_date BETWEEN $2 AND $3
	      ORDER BY due_date ASC`
	if err := repo.db.SelectContext(ctx, &rows, q, userID, from, to); err != nil {
		return nil, errors.Wrap(err, "querying pending tasks")
	}
	return repo.unpackSlice(rows), nil
}

func (repo taskRepository) UpdateTask(ctx context.Context, t task.Task) (task.Task, error) {
	row := repo.pack(t)
	q := `UPDATE task
	      SET title = :title, notes = :notes, due_date = :due_date, completed = :completed, updated_at = :updated_at
	      WHERE id = :id`
	res, err := sqlx.NamedExecContext(ctx, repo.db, q, row)
	if err != nil {
		return task.Task{}, errors.Wrap(err, "updating task")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return task.Task{}, task.ErrNotFound
	}
	return t, nil
}

// BatchRescheduleTasks writes all due-date reassignments at once: an upsert
// keyed by id so the whole batch lands or none of it does.
func (repo taskRepository) BatchRescheduleTasks(ctx context.Context, tasks []task.Task) error {
	if len(tasks) == 0 {
		return nil
	}

	vals := make([]string, 0, len(tasks))
	args := make([]interface{}, 0, len(tasks)*8)
	for i, t := range tasks {
		row := repo.pack(t)
		n := i * 8
		vals = append(vals, fmt.Sprintf("($%d, $%d, $%d, $%d, $%d, $%d, $%d, $%d)",
			n+1, n+2, n+3, n+4, n+5, n+6, n+7, n+8))
		args = append(args, row.ID, row.UserID, row.Title, row.Notes, row.DueDate, row.Completed, row.CreatedAt, row.UpdatedAt)
	}
	q := `INSERT INTO task (` + taskColumns + `) VALUES ` + strings.Join(vals, ", ") + `
	      ON CONFLICT (id) DO UPDATE SET due_date = EXCLUDED.due_date, updated_at = EXCLUDED.updated_at`
	if _, err := repo.db.ExecContext(ctx, q, args...); err != nil {
		return errors.Wrap(err, "batch rescheduling tasks")
	}
	return nil
}

func (repo taskRepository) DeleteTasksByID(ctx context.Context, ids ...string) error {
	q, args, err := sqlx.In(`DELETE FROM task WHERE id IN (?)`, ids)
	if err != nil {
		return errors.Wrap(err, "building delete query")
	}
	if _, err := repo.db.ExecContext(ctx, repo.db.Rebind(q), args...); err != nil {
		return errors.Wrap(err, "deleting tasks")
	}
	return nil
}
