package notification

import (
	"context"
	"errors"

	"github.com/studiumapp/backend/core/clock"
)

var (
	// errors
	ErrSettingsNotFound = errors.New("notification settings not found")
)

type (
	SettingsRepository interface {
		GetSettingsByUserID(ctx context.Context, userID string) (Settings, error)
		// QueryEnabledSettings returns every row with notifications switched
		// on; used to re-arm schedules after a restart.
		QueryEnabledSettings(ctx context.Context) ([]Settings, error)
		UpsertSettings(ctx context.Context, s Settings) (Settings, error)
	}

	// Service owns the persisted per-user Settings. A missing row is not an
	// error: the hardcoded defaults are served instead. After every successful
	// save the changed-settings port fires so schedulers re-arm; this is the
	// explicit replacement for the browser storage-change event.
	Service struct {
		repo      SettingsRepository
		clock     clock.TimeSource
		onChanged []func(Settings)
	}
)

func NewService(repo SettingsRepository, ts clock.TimeSource) *Service {
	return &Service{repo: repo, clock: ts}
}

// OnChanged registers a callback invoked after each successful settings save.
func (svc *Service) OnChanged(fn func(Settings)) {
	svc.onChanged = append(svc.onChanged, fn)
}

// GetByUserID returns the user's settings, or the defaults if none were ever
// saved.
func (svc *Service) GetByUserID(ctx context.Context, userID string) (Settings, error) {
	s, err := svc.repo.GetSettingsByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrSettingsNotFound) {
			return DefaultSettings(userID), nil
		}
		return Settings{}, err
	}
	return s, nil
}

// QueryEnabled returns the settings of every user with notifications on.
func (svc *Service) QueryEnabled(ctx context.Context) ([]Settings, error) {
	return svc.repo.QueryEnabledSettings(ctx)
}

// Save upserts the settings row and notifies the changed-settings listeners.
func (svc *Service) Save(ctx context.Context, s Settings) (Settings, error) {
	s.UpdatedAt = svc.clock.Now().UTC()
	saved, err := svc.repo.UpsertSettings(ctx, s)
	if err != nil {
		return Settings{}, err
	}
	for _, fn := range svc.onChanged {
		fn(saved)
	}
	return saved, nil
}
