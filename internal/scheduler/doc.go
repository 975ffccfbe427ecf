// Package scheduler runs the library's periodic jobs on cron schedules:
//
//   - overdue reminders (SCHEDULER_REMINDER_SCHEDULE, default daily at 09:00)
//     queue one email per BORROWED loan that is past its due date
//   - audit cleanup (SCHEDULER_CLEANUP_SCHEDULE, default daily at 03:30)
//     queues removal of audit events older than AUDIT_RETENTION_DAYS
package scheduler
