package task

import (
	"context"
	"time"

	"github.com/pkg/errors"
)

const dayKeyFormat = "2006-01-02"

// RescheduleOverdue redistributes the user's overdue tasks over upcoming days.
//
// The most-overdue task may land on "later today" when at least TodayGateHours
// hours remain in the day; every other task takes the earliest day after today
// whose assigned count is below DailyCapacity. Assignments within one run are
// cumulative: a day filled by this batch stops accepting further tasks.
// All moves are persisted in a single batch write; only due_date changes.
func (svc *Service) RescheduleOverdue(ctx context.Context, userID string) (RescheduleResult, error) {
	now := svc.clock.Now()
	today := StartOfDay(now)

	overdue, err := svc.repo.QueryPendingDueBefore(ctx, userID, today)
	if err != nil {
		return RescheduleResult{}, errors.Wrap(err, "querying overdue tasks")
	}
	if len(overdue) == 0 {
		return RescheduleResult{Updated: []DueDateUpdate{}}, nil
	}

	windowEnd := today.AddDate(0, 0, svc.conf.LookaheadDays)
	upcoming, err := svc.repo.QueryPendingDueBetween(ctx, userID, today, windowEnd)
	if err != nil {
		return RescheduleResult{}, errors.Wrap(err, "querying upcoming tasks")
	}

	perDay := make(map[string]int, len(upcoming))
	for _, t := range upcoming {
		perDay[t.DueDate.In(now.Location()).Format(dayKeyFormat)]++
	}

	endOfToday := today.AddDate(0, 0, 1)
	hoursLeftToday := endOfToday.Sub(now).Hours()

	updated := make([]DueDateUpdate, 0, len(overdue))
	batch := make([]Task, 0, len(overdue))
	for i, t := range overdue {
		var day time.Time
		if i == 0 && hoursLeftToday >= float64(svc.conf.TodayGateHours) {
			day = today
		} else {
			day = svc.firstOpenDay(today, perDay)
			perDay[day.Format(dayKeyFormat)]++
		}
		due := day.Add(time.Duration(svc.conf.SlotHour) * time.Hour)

		t.DueDate = due
		t.UpdatedAt = now.UTC()
		batch = append(batch, t)
		updated = append(updated, DueDateUpdate{ID: t.ID, NewDueDate: due})
	}

	if err := svc.repo.BatchRescheduleTasks(ctx, batch); err != nil {
		return RescheduleResult{}, errors.Wrap(err, "persisting rescheduled tasks")
	}
	if svc.reminders != nil {
		for _, t := range batch {
			svc.reminders.ScheduleReminder(t)
		}
	}

	svc.logger.Info("rescheduled overdue tasks", map[string]interface{}{
		"user_id": userID,
		"count":   len(updated),
	})
	return RescheduleResult{Updated: updated}, nil
}

// firstOpenDay scans forward from the day after `today` for the first day with
// remaining capacity.
func (svc *Service) firstOpenDay(today time.Time, perDay map[string]int) time.Time {
	day := today.AddDate(0, 0, 1)
	for perDay[day.Format(dayKeyFormat)] >= svc.conf.DailyCapacity {
		day = day.AddDate(0, 0, 1)
	}
	return day
}
