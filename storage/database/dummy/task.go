package dummydb

import (
	"context"
	"sort"
	"time"

	"github.com/studiumapp/backend/core/task"
)

type TaskRepository struct {
	db *DB

	// optional failure injection for error-path tests
	FailWrites error
}

var _ task.Repository = (*TaskRepository)(nil)

func NewTaskRepository(db *DB) *TaskRepository {
	return &TaskRepository{db: db}
}

func (repo *TaskRepository) CreateTask(ctx context.Context, t task.Task) (task.Task, error) {
	repo.db.task.Lock()
	defer repo.db.task.Unlock()

	repo.db.task.table[t.ID] = &t
	return t, nil
}

func (repo *TaskRepository) GetTaskByID(ctx context.Context, id string) (task.Task, error) {
	repo.db.task.RLock()
	defer repo.db.task.RUnlock()

	if t, ok := repo.db.task.table[id]; ok {
		return *t, nil
	}
	return task.Task{}, task.ErrNotFound
}

func (repo *TaskRepository) QueryPendingDueBefore(ctx context.Context, userID string, cutoff time.Time) ([]task.Task, error) {
	return repo.filterPending(userID, func(t task.Task) bool {
		return t.DueDate.Before(cutoff)
	})
}

func (repo *TaskRepository) QueryPendingDueBetween(ctx context.Context, userID string, from, to time.Time) ([]task.Task, error) {
	return repo.filterPending(userID, func(t task.Task) bool {
		return !t.DueDate.Before(from) && !t.DueDate.After(to)
	})
}

func (repo *TaskRepository) filterPending(userID string, match func(task.Task) bool) ([]task.Task, error) {
	repo.db.task.RLock()
	defer repo.db.task.RUnlock()

	var tasks []task.Task
	for _, t := range repo.db.task.table {
		if t.UserID == userID && !t.Completed && match(*t) {
			tasks = append(tasks, *t)
		}
	}
	sort.Slice(tasks, func(i, j int) bool { return tasks[i].DueDate.Before(tasks[j].DueDate) })
	return tasks, nil
}

func (repo *TaskRepository) UpdateTask(ctx context.Context, t task.Task) (task.Task, error) {
	if repo.FailWrites != nil {
		return task.Task{}, repo.FailWrites
	}

	repo.db.task.Lock()
	defer repo.db.task.Unlock()

	if _, ok := repo.db.task.table[t.ID]; !ok {
		return task.Task{}, task.ErrNotFound
	}
	repo.db.task.table[t.ID] = &t
	return t, nil
}

func (repo *TaskRepository) BatchRescheduleTasks(ctx context.Context, tasks []task.Task) error {
	if repo.FailWrites != nil {
		return repo.FailWrites
	}

	repo.db.task.Lock()
	defer repo.db.task.Unlock()

	for i := range tasks {
		t := tasks[i]
		repo.db.task.table[t.ID] = &t
	}
	return nil
}

func (repo *TaskRepository) DeleteTasksByID(ctx context.Context, ids ...string) error {
	repo.db.task.Lock()
	defer repo.db.task.Unlock()

	for _, id := range ids {
		delete(repo.db.task.table, id)
	}
	return nil
}
