package main

import (
	"log"
	"os"

	"github.com/jmoiron/sqlx"

	"github.com/studiumapp/backend/core"
	"github.com/studiumapp/backend/core/clock"
	"github.com/studiumapp/backend/core/notification"
	"github.com/studiumapp/backend/core/task"
	notifiersvc "github.com/studiumapp/backend/services/notifier"
	"github.com/studiumapp/backend/storage/database"
	sqlxrepos "github.com/studiumapp/backend/storage/database/sqlx"
)

var logger *log.Logger

func main() {
	defer os.Exit(0)

	logger = log.New(os.Stdout, "ADMIN : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)

	// set up DB
	db, err := database.Open(core.Conf)
	errAndDie(err)
	defer db.Close()
	errAndDie(db.Ping())
	dbx := sqlx.NewDb(db, core.Conf.Database.Engine)

	// set up services
	ts := clock.NewRealTimeSource()
	coreLogger := core.NewStdLogger(logger)
	dispatcher := notification.NewDispatcher(
		notification.StaticGate(notification.PermissionGranted),
		notifiersvc.NewConsoleService(),
		coreLogger,
	)

	// start CLI
	cli := commandLine{
		db:          db,
		dispatcher:  dispatcher,
		taskSvc:     task.NewService(sqlxrepos.NewTaskRepository(dbx), ts, coreLogger, core.Conf.Notification),
		settingsSvc: notification.NewService(sqlxrepos.NewSettingsRepository(dbx), ts),
	}
	if err := cli.run(os.Args); err != nil {
		if err != errHelp {
			logger.Printf("\nerror: %s\n", err)
		}
		os.Exit(1)
	}
}

func errAndDie(err error) {
	if err != nil {
		logger.Fatal(err)
	}
}
