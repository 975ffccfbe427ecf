package tasks

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/mikestefanello/backlite"
)

const (
	defaultAuditRetentionDays = 90

	// Borrow and approval history younger than a week is never pruned.
	minAuditRetentionDays = 7
)

var errNoAuditPruner = errors.New("audit pruner not configured")

// AuditEventCleaner deletes audit events older than a retention window.
type AuditEventCleaner interface {
	DeleteOldEvents(ctx context.Context, retention time.Duration) (int64, error)
}

// CleanupAuditEventsTask prunes the audit trail of borrow, return and admin events.
type CleanupAuditEventsTask struct {
	RetentionDays int `json:"retention_days"`
}

// Config returns the queue configuration for audit cleanup tasks.
// A single attempt per day is enough; a failed run is picked up by the next schedule.
func (t CleanupAuditEventsTask) Config() backlite.QueueConfig {
	return backlite.QueueConfig{
		Name:        "cleanup_audit_events",
		MaxAttempts: 2,
		Backoff:     10 * time.Minute,
		Timeout:     5 * time.Minute,
		Retention: &backlite.Retention{
			Duration:   7 * 24 * time.Hour,
			OnlyFailed: true,
		},
	}
}

// retentionWindow clamps the requested days into the allowed range.
func (t CleanupAuditEventsTask) retentionWindow() (int, time.Duration) {
	days := t.RetentionDays
	switch {
	case days <= 0:
		days = defaultAuditRetentionDays
	case days < minAuditRetentionDays:
		days = minAuditRetentionDays
	}
	return days, time.Duration(days) * 24 * time.Hour
}

// CleanupAuditEventsProcessor returns the processor that prunes audit events.
func CleanupAuditEventsProcessor(pruner AuditEventCleaner) backlite.QueueProcessor[CleanupAuditEventsTask] {
	return func(ctx context.Context, task CleanupAuditEventsTask) error {
		if pruner == nil {
			return errNoAuditPruner
		}

		days, window := task.retentionWindow()
		removed, err := pruner.DeleteOldEvents(ctx, window)
		if err != nil {
			log.Printf("[TASK] Audit pruning (%d days) failed: %v", days, err)
			return err
		}

		if removed > 0 {
			log.Printf("[TASK] Pruned %d audit events recorded before %s", removed,
				time.Now().Add(-window).Format(time.DateOnly))
		}
		return nil
	}
}

// NewCleanupAuditEventsQueue creates a backlite queue for audit cleanup tasks.
func NewCleanupAuditEventsQueue(pruner AuditEventCleaner) backlite.Queue {
	return backlite.NewQueue(CleanupAuditEventsProcessor(pruner))
}
