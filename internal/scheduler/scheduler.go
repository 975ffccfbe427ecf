package scheduler

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/bookwise/library/internal/config"
	"github.com/bookwise/library/internal/entities"
)

var cronParser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)

// OverdueSource lists loans that are past their due date.
type OverdueSource interface {
	OverdueLoans(ctx context.Context, now time.Time) ([]entities.BorrowRecord, error)
}

// Queue hands work to the background task queue.
type Queue interface {
	EnqueueEmail(ctx context.Context, to, subject, body string) error
	EnqueueAuditCleanup(ctx context.Context, retentionDays int) error
}

// Scheduler runs the daily library jobs: overdue reminders and audit cleanup.
// Jobs only enqueue tasks; delivery and deletion happen on the task workers.
type Scheduler struct {
	loans         OverdueSource
	queue         Queue
	config        config.Scheduler
	retentionDays int
	now           func() time.Time

	cron       *cron.Cron
	reminderID cron.EntryID
	cleanupID  cron.EntryID
	mu         sync.RWMutex
	isRunning  bool
	cancelFunc context.CancelFunc
}

// NewScheduler creates a new scheduler instance.
func NewScheduler(loans OverdueSource, queue Queue, cfg config.Scheduler, retentionDays int) *Scheduler {
	return &Scheduler{
		loans:         loans,
		queue:         queue,
		config:        cfg,
		retentionDays: retentionDays,
		now:           time.Now,
		cron:          cron.New(cron.WithParser(cronParser)),
	}
}

// ValidateCronSchedule checks a five-field cron expression.
func ValidateCronSchedule(schedule string) error {
	_, err := cronParser.Parse(schedule)
	return err
}

// Start registers both jobs and starts the cron runner. Cancelling ctx stops it.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return nil
	}

	if !s.config.Enabled {
		log.Printf("Scheduler: disabled")
		return nil
	}

	for _, schedule := range []string{s.config.ReminderSchedule, s.config.CleanupSchedule} {
		if err := ValidateCronSchedule(schedule); err != nil {
			return fmt.Errorf("invalid cron schedule '%s': %w", schedule, err)
		}
	}

	reminderID, err := s.cron.AddFunc(s.config.ReminderSchedule, func() {
		if _, err := s.RunReminders(context.Background()); err != nil {
			log.Printf("Scheduler: overdue reminders failed: %v", err)
		}
	})
	if err != nil {
		return fmt.Errorf("failed to schedule reminder job: %w", err)
	}
	cleanupID, err := s.cron.AddFunc(s.config.CleanupSchedule, func() {
		if err := s.RunCleanup(context.Background()); err != nil {
			log.Printf("Scheduler: audit cleanup failed: %v", err)
		}
	})
	if err != nil {
		s.cron.Remove(reminderID)
		return fmt.Errorf("failed to schedule cleanup job: %w", err)
	}
	s.reminderID, s.cleanupID = reminderID, cleanupID

	var cancelCtx context.Context
	cancelCtx, s.cancelFunc = context.WithCancel(ctx)

	s.cron.Start()
	s.isRunning = true

	log.Printf("Scheduler: started (reminders '%s', audit cleanup '%s')",
		s.config.ReminderSchedule, s.config.CleanupSchedule)

	go func() {
		<-cancelCtx.Done()
		s.Stop()
	}()

	return nil
}

// Stop waits for running jobs and stops the scheduler.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return
	}

	ctx := s.cron.Stop()
	<-ctx.Done()

	s.cron.Remove(s.reminderID)
	s.cron.Remove(s.cleanupID)
	if s.cancelFunc != nil {
		s.cancelFunc()
		s.cancelFunc = nil
	}
	s.isRunning = false

	log.Printf("Scheduler: stopped")
}

// IsRunning returns whether the scheduler is active.
func (s *Scheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// NextRuns returns the next run time of each job, keyed by job name.
func (s *Scheduler) NextRuns() map[string]time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.isRunning {
		return nil
	}
	now := s.now()
	return map[string]time.Time{
		"overdue_reminders": s.cron.Entry(s.reminderID).Schedule.Next(now),
		"audit_cleanup":     s.cron.Entry(s.cleanupID).Schedule.Next(now),
	}
}

// RunReminders enqueues one reminder email per overdue loan and returns how
// many were queued. A failed enqueue is logged and the rest continue.
func (s *Scheduler) RunReminders(ctx context.Context) (int, error) {
	now := s.now()
	loans, err := s.loans.OverdueLoans(ctx, now)
	if err != nil {
		return 0, fmt.Errorf("list overdue loans: %w", err)
	}

	queued := 0
	for _, loan := range loans {
		if loan.User.Email == "" {
			continue
		}
		subject, body := reminderEmail(loan, now)
		if err := s.queue.EnqueueEmail(ctx, loan.User.Email, subject, body); err != nil {
			log.Printf("Scheduler: failed to queue reminder for loan %s: %v", loan.ID, err)
			continue
		}
		queued++
	}

	log.Printf("Scheduler: queued %d of %d overdue reminders", queued, len(loans))
	return queued, nil
}

// RunCleanup enqueues the audit retention task.
func (s *Scheduler) RunCleanup(ctx context.Context) error {
	if err := s.queue.EnqueueAuditCleanup(ctx, s.retentionDays); err != nil {
		return fmt.Errorf("queue audit cleanup: %w", err)
	}
	return nil
}

func reminderEmail(loan entities.BorrowRecord, now time.Time) (string, string) {
	days := int(now.Sub(loan.DueDate).Hours() / 24)
	subject := fmt.Sprintf("Overdue: %s", loan.Book.Title)
	body := fmt.Sprintf("Hey %s, \"%s\" was due on %s", loan.User.FullName, loan.Book.Title, loan.DueDate.Format("2006-01-02"))
	if days > 0 {
		body += fmt.Sprintf(" (%d days ago)", days)
	}
	body += ". Please return it to the library."
	return subject, body
}
