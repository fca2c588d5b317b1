package core

import (
	"log"
	"net/mail"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

var Conf *Config

type (
	Config struct {
		AppName  string
		Env      string // DEV (default), TEST, QA, PROD
		Debug    bool
		TestMode bool
		Build    string
		WorkDir  string

		SecretKey       []byte
		FrontendBaseURL string
		SendgridApiKey  string
		RollbarToken    string

		Server       ServerConfig
		Database     DatabaseConfig
		Notification NotificationConfig

		defaultFromEmail string
	}

	ServerConfig struct {
		Host                      string
		Port                      string
		ShutdownTimeout           time.Duration
		JWTExpirationDelta        time.Duration
		JWTRefreshExpirationDelta time.Duration
	}

	DatabaseConfig struct {
		Engine        string
		Host          string
		Port          string
		Name          string
		User          string
		Password      string
		AdminUser     string
		AdminPassword string
		DisableTLS    bool
	}

	// NotificationConfig holds the scheduling constants. Configurable for ops
	// tuning; the defaults are the product contract.
	NotificationConfig struct {
		ReminderLeadTime time.Duration // before a task's due time
		DailyCapacity    int           // max tasks assigned per day by the rescheduler
		LookaheadDays    int           // rescheduler capacity window
		SlotHour         int           // hour-of-day assigned to rescheduled tasks
		TodayGateHours   int           // min hours left today for a same-day slot
	}
)

func (c *Config) DefaultFromEmail() mail.Address {
	return mail.Address{Name: c.AppName, Address: c.defaultFromEmail}
}

func (c ServerConfig) Address() string { return c.Host + ":" + c.Port }

func (c DatabaseConfig) Address() string { return c.Host + ":" + c.Port }

func init() {
	Conf = LoadConfig()
}

// LoadConfig builds the app configuration from defaults, an optional
// config/.env.<env> file and environment variables (prefixed with the env name).
func LoadConfig() *Config {
	v := viper.New()
	v.SetTypeByDefaultValue(true)

	// defaults
	v.SetDefault("debug", true)
	v.SetDefault("appName", "Studium")
	v.SetDefault("secretKey", "n0t-s0-s3cr3t+k3y(override-me-in-prod)")
	v.SetDefault("frontendBaseURL", "http://localhost:3000")
	v.SetDefault("defaultFromEmail", "noreply@localhost")
	v.SetDefault("serverHost", "")
	v.SetDefault("serverPort", "8000")
	v.SetDefault("serverShutdownTimeout", 5*time.Second)
	v.SetDefault("serverJWTExpirationDelta", 7*24*time.Hour)
	v.SetDefault("serverJWTRefreshExpirationDelta", 30*24*time.Hour)
	v.SetDefault("databaseEngine", "postgres")
	v.SetDefault("databaseHost", "localhost")
	v.SetDefault("databasePort", "5432")
	v.SetDefault("databaseName", "studium")
	v.SetDefault("databaseUser", "")
	v.SetDefault("databasePassword", "")
	v.SetDefault("databaseAdminUser", "")
	v.SetDefault("databaseAdminPassword", "")
	v.SetDefault("databaseDisableTLS", false)
	v.SetDefault("reminderLeadTime", 2*time.Hour)
	v.SetDefault("dailyCapacity", 3)
	v.SetDefault("lookaheadDays", 7)
	v.SetDefault("slotHour", 10)
	v.SetDefault("todayGateHours", 2)

	var testMode bool
	env := os.Getenv("ENV") // DEV (local; default), TEST, QA, PROD
	switch env {
	case "":
		env = "DEV"
	case "TEST":
		testMode = true
	}
	v.SetEnvPrefix(env)

	wd := Getwd()

	// load .env if it exists (ignore if it does not)
	dotEnvPath := filepath.Join(wd, "config", ".env."+strings.ToLower(env))
	if _, err := os.Stat(dotEnvPath); err == nil {
		if err := godotenv.Load(dotEnvPath); err != nil {
			log.Fatalf("config.godotenv(%s): %v", dotEnvPath, err)
		}
	} else if !os.IsNotExist(err) {
		log.Fatalf("config.os.Stat(%s): %v", dotEnvPath, err)
	}
	v.AutomaticEnv()

	return &Config{
		AppName:          v.GetString("appName"),
		Env:              env,
		Debug:            v.GetBool("debug"),
		TestMode:         testMode,
		Build:            v.GetString("build"),
		WorkDir:          wd,
		SecretKey:        []byte(v.GetString("secretKey")),
		FrontendBaseURL:  v.GetString("frontendBaseURL"),
		SendgridApiKey:   v.GetString("sendgridApiKey"),
		RollbarToken:     v.GetString("rollbarToken"),
		defaultFromEmail: v.GetString("defaultFromEmail"),
		Server: ServerConfig{
			Host:                      v.GetString("serverHost"),
			Port:                      v.GetString("serverPort"),
			ShutdownTimeout:           v.GetDuration("serverShutdownTimeout"),
			JWTExpirationDelta:        v.GetDuration("serverJWTExpirationDelta"),
			JWTRefreshExpirationDelta: v.GetDuration("serverJWTRefreshExpirationDelta"),
		},
		Database: DatabaseConfig{
			Engine:        v.GetString("databaseEngine"),
			Host:          v.GetString("databaseHost"),
			Port:          v.GetString("databasePort"),
			Name:          v.GetString("databaseName"),
			User:          v.GetString("databaseUser"),
			Password:      v.GetString("databasePassword"),
			AdminUser:     v.GetString("databaseAdminUser"),
			AdminPassword: v.GetString("databaseAdminPassword"),
			DisableTLS:    v.GetBool("databaseDisableTLS"),
		},
		Notification: NotificationConfig{
			ReminderLeadTime: v.GetDuration("reminderLeadTime"),
			DailyCapacity:    v.GetInt("dailyCapacity"),
			LookaheadDays:    v.GetInt("lookaheadDays"),
			SlotHour:         v.GetInt("slotHour"),
			TodayGateHours:   v.GetInt("todayGateHours"),
		},
	}
}
