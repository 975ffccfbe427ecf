package tasks

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/mikestefanello/backlite"

	"github.com/bookwise/library/internal/mail"
)

// SendEmailTask delivers one message through the configured mailer.
type SendEmailTask struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// Config returns the queue configuration for email tasks.
func (t SendEmailTask) Config() backlite.QueueConfig {
	return backlite.QueueConfig{
		Name:        "send_email",
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

// SendEmailProcessor creates a processor function for SendEmailTask.
func SendEmailProcessor(mailer mail.Mailer) backlite.QueueProcessor[SendEmailTask] {
	return func(ctx context.Context, task SendEmailTask) error {
		if mailer == nil {
			return fmt.Errorf("mailer not configured")
		}

		err := mailer.Send(ctx, mail.Message{To: task.To, Subject: task.Subject, Body: task.Body})
		if err != nil {
			return fmt.Errorf("send email to %s: %w", task.To, err)
		}

		log.Printf("[TASK] Sent %q to %s", task.Subject, task.To)
		return nil
	}
}

// NewSendEmailQueue creates a backlite queue for email tasks.
func NewSendEmailQueue(mailer mail.Mailer) backlite.Queue {
	return backlite.NewQueue(SendEmailProcessor(mailer))
}
