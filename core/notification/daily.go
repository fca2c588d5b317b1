package notification

import (
	"sync"

	"github.com/studiumapp/backend/core"
	"github.com/studiumapp/backend/core/clock"
)

// Daily slot names.
const (
	SlotMorning = "morning"
	SlotEvening = "evening"
)

// DailyNotifier fires one notification at each of the two configured
// times-of-day and keeps itself armed: after a slot fires, the next occurrence
// is recomputed from the current clock and the slot is re-armed, so each cycle
// starts fresh and no drift accumulates. State is in-memory only; the host
// re-applies the persisted settings on startup.
type DailyNotifier struct {
	sched      *Scheduler
	clock      clock.TimeSource
	dispatcher *Dispatcher
	logger     core.Logger

	mu       sync.Mutex
	settings Settings
}

func NewDailyNotifier(sched *Scheduler, ts clock.TimeSource, dispatcher *Dispatcher, logger core.Logger) *DailyNotifier {
	return &DailyNotifier{
		sched:      sched,
		clock:      ts,
		dispatcher: dispatcher,
		logger:     logger,
	}
}

// Configure replaces the notifier's schedule with the given settings. Both
// slots are always cancelled first; with Enabled unset they stay that way.
// Malformed times reject the whole configuration with a validation error,
// leaving both slots disarmed.
func (dn *DailyNotifier) Configure(s Settings) error {
	dn.sched.Cancel(SlotMorning)
	dn.sched.Cancel(SlotEvening)

	dn.mu.Lock()
	dn.settings = s
	dn.mu.Unlock()

	if !s.Enabled {
		dn.logger.Debug("daily notifications disabled", map[string]interface{}{"user_id": s.UserID})
		return nil
	}

	// reject malformed times up front so neither slot ends up half-armed
	if _, _, err := ParseTimeOfDay(s.MorningTime); err != nil {
		return core.NewValidationError(err, core.FieldError{Field: "morningTime", Error: "must be a 24-hour time in HH:MM format"})
	}
	if _, _, err := ParseTimeOfDay(s.EveningTime); err != nil {
		return core.NewValidationError(err, core.FieldError{Field: "eveningTime", Error: "must be a 24-hour time in HH:MM format"})
	}

	dn.armSlot(SlotMorning)
	dn.armSlot(SlotEvening)
	return nil
}

// armSlot schedules the slot's next occurrence from the current settings and
// clock. Called from Configure and again from each fire.
func (dn *DailyNotifier) armSlot(slot string) {
	dn.mu.Lock()
	s := dn.settings
	dn.mu.Unlock()

	if !s.Enabled {
		return
	}

	timeOfDay := s.MorningTime
	if slot == SlotEvening {
		timeOfDay = s.EveningTime
	}
	hour, minute, err := ParseTimeOfDay(timeOfDay)
	if err != nil {
		// Configure validated these; only reachable if settings were mutated
		// behind our back
		dn.logger.Error("arming daily slot", err, map[string]interface{}{"slot": slot})
		return
	}

	now := dn.clock.Now()
	target := NextOccurrence(now, hour, minute)
	dn.sched.Arm(slot, target.Sub(now), func() { dn.fire(slot) })
}

func (dn *DailyNotifier) fire(slot string) {
	dn.mu.Lock()
	s := dn.settings
	dn.mu.Unlock()

	title, body := "Good Morning!", s.MorningMessage
	if slot == SlotEvening {
		title, body = "Good Evening!", s.EveningMessage
	}
	dn.dispatcher.Dispatch(NewTaskNotification(title, body, slot))

	dn.armSlot(slot)
}
