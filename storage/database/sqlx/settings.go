package sqlxrepos

import (
	"context"
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/studiumapp/backend/core/notification"
)

type (
	settingsRepository struct {
		db *sqlx.DB
	}

	settingsRow struct {
		UserID         string    `db:"user_id"`
		Enabled        bool      `db:"enabled"`
		MorningTime    string    `db:"morning_time"`
		EveningTime    string    `db:"evening_time"`
		MorningMessage string    `db:"morning_message"`
		EveningMessage string    `db:"evening_message"`
		UpdatedAt      time.Time `db:"updated_at"`
	}
)

var _ notification.SettingsRepository = (*settingsRepository)(nil)

func NewSettingsRepository(db *sqlx.DB) *settingsRepository {
	return &settingsRepository{db: db}
}

func (repo settingsRepository) pack(s notification.Settings) settingsRow {
	return settingsRow{
		UserID:         s.UserID,
		Enabled:        s.Enabled,
		MorningTime:    s.MorningTime,
		EveningTime:    s.EveningTime,
		MorningMessage: s.MorningMessage,
		EveningMessage: s.EveningMessage,
		UpdatedAt:      s.UpdatedAt.UTC(),
	}
}

func (repo settingsRepository) unpack(row settingsRow) notification.Settings {
	return notification.Settings{
		UserID:         row.UserID,
		Enabled:        row.Enabled,
		MorningTime:    row.MorningTime,
		EveningTime:    row.EveningTime,
		MorningMessage: row.MorningMessage,
		EveningMessage: row.EveningMessage,
		UpdatedAt:      row.UpdatedAt,
	}
}

func (repo settingsRepository) GetSettingsByUserID(ctx context.Context, userID string) (notification.Settings, error) {
	var row settingsRow
	q := `SELECT user_id, enabled, morning_time, evening_time, morning_message, evening_message, updated_at
	      FROM notification_settings WHERE user_id = $1`
	if err := repo.db.GetContext(ctx, &row, q, userID); err != nil {
		if err == sql.ErrNoRows {
			return notification.Settings{}, notification.ErrSettingsNotFound
		}
		return notification.Settings{}, errors.Wrap(err, "getting notification settings")
	}
	return repo.unpack(row), nil
}

func (repo settingsRepository) QueryEnabledSettings(ctx context.Context) ([]notification.Settings, error) {
	var rows []settingsRow
	q := `SELECT user_id, enabled, morning_time, evening_time, morning_message, evening_message, updated_at
	      FROM notification_settings WHERE enabled = true`
	if err := repo.db.SelectContext(ctx, &rows, q); err != nil {
		return nil, errors.Wrap(err, "querying enabled notification settings")
	}
	settings := make([]notification.Settings, 0, len(rows))
	for _, row := range rows {
		settings = append(settings, repo.unpack(row))
	}
	return settings, nil
}

func (repo settingsRepository) UpsertSettings(ctx context.Context, s notification.Settings) (notification.Settings, error) {
	row := repo.pack(s)
	q := `INSERT INTO notification_settings
	          (user_id, enabled, morning_time, evening_time, morning_message, evening_message, updated_at)
	      VALUES (:user_id, :enabled, :morning_time, :evening_time, :morning_message, :evening_message, :updated_at)
	      ON CONFLICT (user_id) DO UPDATE SET
	          enabled = EXCLUDED.enabled,
	          morning_time = EXCLUDED.morning_time,
	          evening_time = EXCLUDED.evening_time,
	          morning_message = EXCLUDED.morning_message,
	          evening_message = EXCLUDED.evening_message,
	          updated_at = EXCLUDED.updated_at`
	if _, err := sqlx.NamedExecContext(ctx, repo.db, q, row); err != nil {
		return notification.Settings{}, errors.Wrap(err, "upserting notification settings")
	}
	return s, nil
}
