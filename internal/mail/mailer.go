// Package mail defines how the library talks to borrowers by email.
//
// Delivery goes through the Mailer interface. The shipped LogMailer writes
// each message to the process log, which is enough for development and for
// deployments that forward logs to a relay.
package mail

import (
	"context"
	"errors"
	"log"
	"strings"
)

var ErrNoRecipient = errors.New("mail: message has no recipient")

// Message is a single plain-text email.
type Message struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// Mailer delivers messages.
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

// LogMailer writes messages to the standard logger instead of delivering them.
type LogMailer struct {
	From string
}

// NewLogMailer returns a LogMailer sending as from.
func NewLogMailer(from string) *LogMailer {
	return &LogMailer{From: from}
}

func (m *LogMailer) Send(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if strings.TrimSpace(msg.To) == "" {
		return ErrNoRecipient
	}
	log.Printf("[MAIL] from=%s to=%s subject=%q body=%q", m.From, msg.To, msg.Subject, msg.Body)
	return nil
}
