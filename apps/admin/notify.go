package main

import (
	"context"

	"github.com/studiumapp/backend/core/notification"
)

// notify fires the user's daily notification for the slot immediately,
// bypassing the timers. Uses the saved settings (or the defaults).
func (cli *commandLine) notify(userID, slot string) error {
	s, err := cli.settingsSvc.GetByUserID(context.Background(), userID)
	if err != nil {
		return err
	}

	title, body := "Good Morning!", s.MorningMessage
	if slot == notification.SlotEvening {
		title, body = "Good Evening!", s.EveningMessage
	}
	cli.dispatcher.Dispatch(notification.NewTaskNotification(title, body, slot))
	return nil
}
