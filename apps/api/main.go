package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"

	"github.com/jmoiron/sqlx"

	echoapi "github.com/studiumapp/backend/apps/api/echo"
	"github.com/studiumapp/backend/core"
	"github.com/studiumapp/backend/core/clock"
	"github.com/studiumapp/backend/core/notification"
	"github.com/studiumapp/backend/core/task"
	emailsvc "github.com/studiumapp/backend/services/email"
	logsvc "github.com/studiumapp/backend/services/logger"
	notifiersvc "github.com/studiumapp/backend/services/notifier"
	"github.com/studiumapp/backend/storage/database"
	sqlxrepos "github.com/studiumapp/backend/storage/database/sqlx"
)

func main() {
	// =========================================================================
	// Set up Dependencies

	conf := core.Conf

	// set up loggers
	logger := logsvc.NewRollbarLogger(
		log.New(os.Stdout, "API : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile),
		conf,
	)
	logger.Enable(!conf.Debug)

	// set up DB
	db, err := setUpDB(conf)
	if err != nil {
		logger.Fatal(fmt.Sprintf("setting up database: %v", err), err)
	}
	defer func() {
		if err = db.Close(); err != nil {
			logger.Error(fmt.Sprintf("closing database: %v", err), err)
		}
	}()
	dbx := sqlx.NewDb(db, conf.Database.Engine)

	// set up services
	var mailSvc core.EmailService
	if conf.Debug {
		mailSvc = emailsvc.NewConsoleService()
	} else {
		mailSvc = emailsvc.NewSendgridService(logger)
	}

	ts := clock.NewRealTimeSource()
	dispatcher := notification.NewDispatcher(
		notification.StaticGate(notification.PermissionGranted),
		notifiersvc.NewConsoleService(),
		logger,
	)
	engine := notification.NewEngine(ts, dispatcher, conf.Notification, logger)

	taskSvc := task.NewService(sqlxrepos.NewTaskRepository(dbx), ts, logger, conf.Notification)
	taskSvc.SetReminderScheduler(engine)

	settingsSvc := notification.NewService(sqlxrepos.NewSettingsRepository(dbx), ts)
	settingsSvc.OnChanged(func(s notification.Settings) {
		if err := engine.Apply(s); err != nil {
			logger.Error(fmt.Sprintf("applying changed settings: %v", err), err)
		}
	})

	// =========================================================================
	// Initialize App

	logger.Info(fmt.Sprintf("Application initializing : version %q", conf.Build))
	defer logger.Info("Application stopped")

	validate, translator := core.NewValidator()

	// re-arm in-memory schedules lost on the previous shutdown
	if err = rearmSchedules(context.Background(), engine, settingsSvc, taskSvc); err != nil {
		logger.Error(fmt.Sprintf("re-arming schedules: %v", err), err)
	}

	// =========================================================================
	// Start API Service

	server := echoapi.NewServer(echoapi.ServerDeps{
		Logger:          logger,
		TaskSvc:         taskSvc,
		NotificationSvc: settingsSvc,
		MailSvc:         mailSvc,
		Validate:        validate,
		Translator:      translator,
	})

	go func() {
		server.Start()
	}()

	// =========================================================================
	// Shutdown

	select {
	case err = <-server.Errors():
		logger.Fatal(fmt.Sprintf("server error: %v", err), err)

	case sig := <-server.ShutdownSignal():
		logger.Info(fmt.Sprintf("%v: Start shutdown...", sig))

		// give outstanding requests a deadline for completion
		ctx, cancel := context.WithTimeout(context.Background(), conf.Server.ShutdownTimeout)
		defer cancel()

		// asking listener to shutdown and shed load
		if err = server.Shutdown(ctx); err != nil {
			logger.Error(fmt.Sprintf("could not stop server gracefully: %v", err), err)

			if err = server.Close(); err != nil {
				logger.Fatal(fmt.Sprintf("could not force stop server: %v", err), err)
			}
		}
	}
}

func setUpDB(conf *core.Config) (*sql.DB, error) {
	if err := database.CreateIfNotExist(conf); err != nil {
		return nil, err
	}

	db, err := database.Open(conf)
	if err != nil {
		return nil, err
	}

	if err = database.Migrate(db); err != nil {
		return nil, err
	}
	return db, nil
}

// rearmSchedules rebuilds the timers the process lost on restart: daily slots
// for every user with notifications on, and reminders for their upcoming
// tasks.
func rearmSchedules(
	ctx context.Context,
	engine *notification.Engine,
	settingsSvc *notification.Service,
	taskSvc *task.Service,
) error {
	enabled, err := settingsSvc.QueryEnabled(ctx)
	if err != nil {
		return err
	}
	for _, s := range enabled {
		if err := engine.Apply(s); err != nil {
			return err
		}
		upcoming, err := taskSvc.QueryUpcoming(ctx, s.UserID)
		if err != nil {
			return err
		}
		for _, t := range upcoming {
			engine.ScheduleReminder(t)
		}
	}
	return nil
}
