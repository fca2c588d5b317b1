package main

import (
	"context"
	"fmt"
	"time"
)

func (cli *commandLine) reschedule(userID string) error {
	res, err := cli.taskSvc.RescheduleOverdue(context.Background(), userID)
	if err != nil {
		return err
	}

	fmt.Printf("%d task(s) rescheduled\n", len(res.Updated))
	for _, u := range res.Updated {
		fmt.Printf("  %s -> %s\n", u.ID, u.NewDueDate.Format(time.RFC1123))
	}
	return nil
}
