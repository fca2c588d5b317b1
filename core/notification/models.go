package notification

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"github.com/studiumapp/backend/core"
)

// Hardcoded defaults served when a user has no settings row yet.
const (
	DefaultMorningTime    = "08:00"
	DefaultEveningTime    = "22:00"
	DefaultMorningMessage = "Good morning! Time to plan today's study session."
	DefaultEveningMessage = "Time to wind down. Review what you got done today."
)

var errBadTimeOfDay = errors.New("malformed time of day")

// Settings is a user's notification configuration. One row per user; loaded at
// startup and re-applied whenever the user saves changes.
type Settings struct {
	UserID         string    `json:"-"`
	Enabled        bool      `json:"enabled"`
	MorningTime    string    `json:"morningTime" validate:"required,hhmm"`
	EveningTime    string    `json:"eveningTime" validate:"required,hhmm"`
	MorningMessage string    `json:"morningMessage" validate:"required,max=500"`
	EveningMessage string    `json:"eveningMessage" validate:"required,max=500"`
	UpdatedAt      time.Time `json:"updated_at"` // UTC
}

// DefaultSettings returns the record served for users who never saved any:
// notifications off, 08:00/22:00 with the stock messages.
func DefaultSettings(userID string) Settings {
	return Settings{
		UserID:         userID,
		Enabled:        false,
		MorningTime:    DefaultMorningTime,
		EveningTime:    DefaultEveningTime,
		MorningMessage: DefaultMorningMessage,
		EveningMessage: DefaultEveningMessage,
	}
}

func (s *Settings) Clean() {
	s.MorningTime = core.CleanString(s.MorningTime)
	s.EveningTime = core.CleanString(s.EveningTime)
	s.MorningMessage = core.CleanString(s.MorningMessage)
	s.EveningMessage = core.CleanString(s.EveningMessage)
}

func (s *Settings) Validate(validate *validator.Validate) error {
	s.Clean()
	return validate.Struct(s)
}

// ParseTimeOfDay parses a 24-hour "HH:MM" string.
func ParseTimeOfDay(s string) (hour, minute int, err error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, 0, errors.Wrapf(errBadTimeOfDay, "%q", s)
	}
	return t.Hour(), t.Minute(), nil
}

// NextOccurrence returns the next wall-clock instant of hour:minute strictly
// after now: today if the time has not passed yet, tomorrow otherwise.
func NextOccurrence(now time.Time, hour, minute int) time.Time {
	target := time.Date(now.Year(), now.Month(), now.Day(), hour, minute, 0, 0, now.Location())
	if !target.After(now) {
		target = target.AddDate(0, 0, 1)
	}
	return target
}
