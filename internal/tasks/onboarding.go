package tasks

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/mikestefanello/backlite"

	"github.com/bookwise/library/internal/database/users"
	"github.com/bookwise/library/internal/entities"
)

const (
	// FirstCheckDelay is the wait between the welcome email and the first
	// activity check.
	FirstCheckDelay = 3 * 24 * time.Hour

	// CheckInterval is the wait between later activity checks.
	CheckInterval = 30 * 24 * time.Hour

	inactiveAfter = 3 * 24 * time.Hour
	inactiveUntil = 30 * 24 * time.Hour
)

// Enqueuer schedules a task to run after wait.
type Enqueuer interface {
	Enqueue(ctx context.Context, task backlite.Task, wait time.Duration) error
}

// AccountReader looks up the account an onboarding check is about.
type AccountReader interface {
	GetUserByID(ctx context.Context, id string) (*entities.User, error)
}

// OnboardingWelcomeTask greets a new account and starts the activity checks.
type OnboardingWelcomeTask struct {
	UserID   string `json:"user_id"`
	Email    string `json:"email"`
	FullName string `json:"full_name"`
}

// Config returns the queue configuration for welcome tasks.
func (t OnboardingWelcomeTask) Config() backlite.QueueConfig {
	return backlite.QueueConfig{
		Name:        "onboarding_welcome",
		MaxAttempts: 3,
		Backoff:     time.Minute,
		Timeout:     time.Minute,
		Retention: &backlite.Retention{
			Duration:   24 * time.Hour,
			OnlyFailed: false,
			Data:       &backlite.RetainData{OnlyFailed: true},
		},
	}
}

// OnboardingWelcomeProcessor sends the welcome email and schedules the first
// activity check.
func OnboardingWelcomeProcessor(enqueuer Enqueuer) backlite.QueueProcessor[OnboardingWelcomeTask] {
	return func(ctx context.Context, task OnboardingWelcomeTask) error {
		welcome := SendEmailTask{
			To:      task.Email,
			Subject: "Welcome to the platform",
			Body:    fmt.Sprintf("Welcome to the platform, %s!", task.FullName),
		}
		if err := enqueuer.Enqueue(ctx, welcome, 0); err != nil {
			return fmt.Errorf("enqueue welcome email: %w", err)
		}

		check := OnboardingCheckTask(task)
		if err := enqueuer.Enqueue(ctx, check, FirstCheckDelay); err != nil {
			return fmt.Errorf("enqueue onboarding check: %w", err)
		}

		log.Printf("[TASK] Started onboarding for user %s", task.UserID)
		return nil
	}
}

// NewOnboardingWelcomeQueue creates a backlite queue for welcome tasks.
func NewOnboardingWelcomeQueue(enqueuer Enqueuer) backlite.Queue {
	return backlite.NewQueue(OnboardingWelcomeProcessor(enqueuer))
}

// OnboardingCheckTask emails the account depending on how recently it was
// active, then schedules the next check.
type OnboardingCheckTask struct {
	UserID   string `json:"user_id"`
	Email    string `json:"email"`
	FullName string `json:"full_name"`
}

// Config returns the queue configuration for activity checks.
func (t OnboardingCheckTask) Config() backlite.QueueConfig {
	return backlite.QueueConfig{
		Name:        "onboarding_check",
		MaxAttempts: 3,
		Backoff:     5 * time.Minute,
		Timeout:     time.Minute,
		Retention: &backlite.Retention{
			Duration:   24 * time.Hour,
			OnlyFailed: false,
			Data:       &backlite.RetainData{OnlyFailed: true},
		},
	}
}

// IsInactive reports whether an account last active at last should get the
// "still there" email: more than three days and at most thirty days ago.
// Accounts that never signed in count from their creation.
func IsInactive(user *entities.User, now time.Time) bool {
	last := user.CreatedAt
	if user.LastActivityDate != nil {
		last = *user.LastActivityDate
	}
	idle := now.Sub(last)
	return idle > inactiveAfter && idle <= inactiveUntil
}

// OnboardingCheckProcessor creates a processor function for OnboardingCheckTask.
// The chain stops once the account no longer exists.
func OnboardingCheckProcessor(accounts AccountReader, enqueuer Enqueuer, now func() time.Time) backlite.QueueProcessor[OnboardingCheckTask] {
	if now == nil {
		now = time.Now
	}
	return func(ctx context.Context, task OnboardingCheckTask) error {
		user, err := accounts.GetUserByID(ctx, task.UserID)
		if errors.Is(err, users.ErrUserNotFound) {
			log.Printf("[TASK] Stopping onboarding for deleted user %s", task.UserID)
			return nil
		}
		if err != nil {
			return fmt.Errorf("get user %s: %w", task.UserID, err)
		}

		email := SendEmailTask{
			To:      user.Email,
			Subject: "Welcome back!",
			Body:    fmt.Sprintf("Hey %s, welcome back!", user.FullName),
		}
		if IsInactive(user, now()) {
			email.Subject = "Are you still there?"
			email.Body = fmt.Sprintf("Hey %s, are you still there?", user.FullName)
		}

		if err := enqueuer.Enqueue(ctx, email, 0); err != nil {
			return fmt.Errorf("enqueue check email: %w", err)
		}
		if err := enqueuer.Enqueue(ctx, task, CheckInterval); err != nil {
			return fmt.Errorf("enqueue next onboarding check: %w", err)
		}
		return nil
	}
}

// NewOnboardingCheckQueue creates a backlite queue for activity checks.
func NewOnboardingCheckQueue(accounts AccountReader, enqueuer Enqueuer) backlite.Queue {
	return backlite.NewQueue(OnboardingCheckProcessor(accounts, enqueuer, nil))
}
