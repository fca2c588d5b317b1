package dummydb

import (
	"context"

	"github.com/studiumapp/backend/core/notification"
)

type settingsRepository struct {
	db *DB
}

var _ notification.SettingsRepository = (*settingsRepository)(nil)

func NewSettingsRepository(db *DB) *settingsRepository {
	return &settingsRepository{db: db}
}

func (repo *settingsRepository) GetSettingsByUserID(ctx context.Context, userID string) (notification.Settings, error) {
	repo.db.settings.RLock()
	defer repo.db.settings.RUnlock()

	if s, ok := repo.db.settings.table[userID]; ok {
		return *s, nil
	}
	return notification.Settings{}, notification.ErrSettingsNotFound
}

func (repo *settingsRepository) QueryEnabledSettings(ctx context.Context) ([]notification.Settings, error) {
	repo.db.settings.RLock()
	defer repo.db.settings.RUnlock()

	var enabled []notification.Settings
	for _, s := range repo.db.settings.table {
		if s.Enabled {
			enabled = append(enabled, *s)
		}
	}
	return enabled, nil
}

func (repo *settingsRepository) UpsertSettings(ctx context.Context, s notification.Settings) (notification.Settings, error) {
	repo.db.settings.Lock()
	defer repo.db.settings.Unlock()

	repo.db.settings.table[s.UserID] = &s
	return s, nil
}
