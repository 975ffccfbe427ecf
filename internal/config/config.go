package config

import (
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type DatabaseDriver string

const (
	DatabaseDriverSQLite   DatabaseDriver = "sqlite"
	DatabaseDriverPostgres DatabaseDriver = "postgres"
)

type (
	Config struct {
		HTTP
		Global
		Database
		Auth
		Loans
		Tasks
		Scheduler
		Audit
		Mail
	}

	HTTP struct {
		Port int32
		Host string
	}
	Global struct {
		ShutdownTimeoutInSeconds int
	}
	Database struct {
		Driver DatabaseDriver
		Path   string // SQLite file path
		DSN    string // Postgres connection string
	}
	Auth struct {
		SessionSecret   string
		SessionLifetime time.Duration
		TokenExpiry     time.Duration
		BcryptCost      int
		SecureCookies   bool // Set to false for local dev without HTTPS

		// Fixed-window rate limiting for sign-in and sign-up
		RateLimitAttempts int           // Requests allowed per window (default: 5)
		RateLimitWindow   time.Duration // Window length (default: 1m)
	}
	Loans struct {
		DueAfter    time.Duration // Due date offset from the borrow time (default: 7 days)
		ReturnAfter time.Duration // Return date offset from the borrow time (default: 14 days)
	}
	Tasks struct {
		Enabled           bool
		Workers           int
		ReleaseAfter      time.Duration
		CleanupInterval   time.Duration
		RetentionDuration time.Duration
	}
	Scheduler struct {
		Enabled          bool
		ReminderSchedule string // Cron format: "0 9 * * *" = daily at 09:00
		CleanupSchedule  string // Cron format: "30 3 * * *" = daily at 03:30
	}
	Audit struct {
		RetentionDays int // Days to keep audit events (default: 90)
	}
	Mail struct {
		From string
	}
)

func NewConfig() *Config {
	// .env is optional; real environment variables always win
	if err := godotenv.Load(); err == nil {
		log.Printf("Loaded environment from .env")
	}

	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("port", 8188)
	v.SetDefault("host", "0.0.0.0")
	v.SetDefault("shutdown_timeout_in_seconds", 5)

	v.SetDefault("database_driver", string(DatabaseDriverSQLite))
	v.SetDefault("database_path", DefaultDatabasePath)
	v.SetDefault("database_dsn", "")

	// Auth defaults
	v.SetDefault("auth_session_secret", "")      // Auto-generated if empty
	v.SetDefault("auth_session_lifetime", "24h") // 24 hours
	v.SetDefault("auth_token_expiry", "720h")    // 30 days
	v.SetDefault("auth_bcrypt_cost", 12)         // bcrypt cost factor
	v.SetDefault("auth_secure_cookies", true)    // HTTPS-only cookies
	v.SetDefault("auth_rate_limit_attempts", 5)
	v.SetDefault("auth_rate_limit_window", "1m")

	// Loan policy
	v.SetDefault("loan_due_after", DefaultLoanDueAfter.String())
	v.SetDefault("loan_return_after", DefaultLoanReturnAfter.String())

	// Task queue defaults
	v.SetDefault("tasks_enabled", true)
	v.SetDefault("task_workers", 2)
	v.SetDefault("task_release_after", "15m")
	v.SetDefault("task_cleanup_interval", "1h")
	v.SetDefault("task_retention_duration", "24h")

	v.SetDefault("scheduler_enabled", true)
	v.SetDefault("scheduler_reminder_schedule", "0 9 * * *")
	v.SetDefault("scheduler_cleanup_schedule", "30 3 * * *")

	v.SetDefault("audit_retention_days", 90)
	v.SetDefault("mail_from", "library@university.edu")

	return &Config{
		HTTP: HTTP{
			Port: v.GetInt32("PORT"),
			Host: v.GetString("HOST"),
		},
		Global: Global{
			ShutdownTimeoutInSeconds: v.GetInt("SHUTDOWN_TIMEOUT_IN_SECONDS"),
		},
		Database: Database{
			Driver: DatabaseDriver(v.GetString("DATABASE_DRIVER")),
			Path:   v.GetString("DATABASE_PATH"),
			DSN:    v.GetString("DATABASE_DSN"),
		},
		Auth: Auth{
			SessionSecret:     v.GetString("AUTH_SESSION_SECRET"),
			SessionLifetime:   v.GetDuration("AUTH_SESSION_LIFETIME"),
			TokenExpiry:       v.GetDuration("AUTH_TOKEN_EXPIRY"),
			BcryptCost:        v.GetInt("AUTH_BCRYPT_COST"),
			SecureCookies:     v.GetBool("AUTH_SECURE_COOKIES"),
			RateLimitAttempts: v.GetInt("AUTH_RATE_LIMIT_ATTEMPTS"),
			RateLimitWindow:   v.GetDuration("AUTH_RATE_LIMIT_WINDOW"),
		},
		Loans: Loans{
			DueAfter:    v.GetDuration("LOAN_DUE_AFTER"),
			ReturnAfter: v.GetDuration("LOAN_RETURN_AFTER"),
		},
		Tasks: Tasks{
			Enabled:           v.GetBool("TASKS_ENABLED"),
			Workers:           v.GetInt("TASK_WORKERS"),
			ReleaseAfter:      v.GetDuration("TASK_RELEASE_AFTER"),
			CleanupInterval:   v.GetDuration("TASK_CLEANUP_INTERVAL"),
			RetentionDuration: v.GetDuration("TASK_RETENTION_DURATION"),
		},
		Scheduler: Scheduler{
			Enabled:          v.GetBool("SCHEDULER_ENABLED"),
			ReminderSchedule: v.GetString("SCHEDULER_REMINDER_SCHEDULE"),
			CleanupSchedule:  v.GetString("SCHEDULER_CLEANUP_SCHEDULE"),
		},
		Audit: Audit{
			RetentionDays: v.GetInt("AUDIT_RETENTION_DAYS"),
		},
		Mail: Mail{
			From: v.GetString("MAIL_FROM"),
		},
	}
}
