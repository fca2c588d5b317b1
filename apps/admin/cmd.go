package main

import (
	"database/sql"
	"errors"
	"flag"
	"fmt"

	"github.com/studiumapp/backend/core/notification"
	"github.com/studiumapp/backend/core/task"
)

var errHelp = errors.New("help provided")

type commandLine struct {
	db          *sql.DB
	dispatcher  *notification.Dispatcher
	taskSvc     *task.Service
	settingsSvc *notification.Service
}

func (cli *commandLine) printUsage() {
	fmt.Println("Usage:")
	fmt.Println("  migrate COMMAND [args] - run database migrations (any goose command)")
	fmt.Println("  reschedule -user ID - move the user's overdue tasks to open slots")
	fmt.Println("  notify -user ID -slot morning|evening - fire a daily notification now")
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	rescheduleCmd := flag.NewFlagSet("reschedule", flag.ExitOnError)
	rescheduleUser := rescheduleCmd.String("user", "", "The user's ID.")

	notifyCmd := flag.NewFlagSet("notify", flag.ExitOnError)
	notifyUser := notifyCmd.String("user", "", "The user's ID.")
	notifySlot := notifyCmd.String("slot", notification.SlotMorning, "The daily slot: morning or evening.")

	switch args[1] {
	case "migrate":
		if len(args) < 3 {
			cli.printUsage()
			return errHelp
		}
		return cli.migrate(args[2:])
	case "reschedule":
		if err := rescheduleCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *rescheduleUser == "" {
			rescheduleCmd.Usage()
			return errHelp
		}
		return cli.reschedule(*rescheduleUser)
	case "notify":
		if err := notifyCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *notifyUser == "" {
			notifyCmd.Usage()
			return errHelp
		}
		if *notifySlot != notification.SlotMorning && *notifySlot != notification.SlotEvening {
			notifyCmd.Usage()
			return errHelp
		}
		return cli.notify(*notifyUser, *notifySlot)
	default:
		cli.printUsage()
		return errHelp
	}
}
