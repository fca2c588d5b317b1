package dummydb

import (
	"sync"

	"github.com/studiumapp/backend/core/notification"
	"github.com/studiumapp/backend/core/task"
)

type (
	DB struct {
		task     *taskTable
		settings *settingsTable
	}

	taskTable struct {
		sync.RWMutex
		table map[string]*task.Task
	}

	settingsTable struct {
		sync.RWMutex
		table map[string]*notification.Settings // keyed by user id
	}
)

func Open() (*DB, error) {
	db := &DB{
		task:     &taskTable{table: make(map[string]*task.Task)},
		settings: &settingsTable{table: make(map[string]*notification.Settings)},
	}
	return db, nil
}
