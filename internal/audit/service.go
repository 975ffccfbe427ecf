package audit

import (
	"context"
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/bookwise/library/internal/database/audit"
	"github.com/bookwise/library/internal/entities"
)

// Service provides high-level audit logging functionality.
type Service struct {
	repo *audit.Repository
	wg   sync.WaitGroup
}

// NewService creates a new audit service.
func NewService(repo *audit.Repository) *Service {
	return &Service{repo: repo}
}

// Log records a generic audit event.
func (s *Service) Log(ctx context.Context, event *entities.AuditEvent) error {
	return s.repo.LogEvent(ctx, event)
}

// LogAsync records an audit event in the background (non-blocking).
func (s *Service) LogAsync(event *entities.AuditEvent) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		if err := s.repo.LogEvent(context.Background(), event); err != nil {
			log.Printf("Failed to log audit event: %v", err)
		}
	}()
}

// Wait blocks until all pending LogAsync writes have finished.
func (s *Service) Wait() {
	s.wg.Wait()
}

// LogBorrow records the outcome of a borrow attempt.
func (s *Service) LogBorrow(userID, bookID, recordID, message string, success bool) {
	event := &entities.AuditEvent{
		UserID:      userID,
		EventType:   entities.AuditEventBorrow,
		Action:      "book_borrow",
		Description: message,
		EntityType:  "book",
		EntityID:    bookID,
		Status:      entities.AuditStatusSuccess,
	}
	if recordID != "" {
		event.Metadata = metadata(map[string]any{"borrow_record_id": recordID})
	}
	if !success {
		event.Status = entities.AuditStatusFailed
		event.ErrorMsg = truncate(message, 500)
	}

	s.LogAsync(event)
}

// LogReturn records the outcome of a return attempt.
func (s *Service) LogReturn(userID, recordID, message string, success bool) {
	event := &entities.AuditEvent{
		UserID:      userID,
		EventType:   entities.AuditEventReturn,
		Action:      "book_return",
		Description: message,
		EntityType:  "borrow_record",
		EntityID:    recordID,
		Status:      entities.AuditStatusSuccess,
	}
	if !success {
		event.Status = entities.AuditStatusFailed
		event.ErrorMsg = truncate(message, 500)
	}

	s.LogAsync(event)
}

// LogAuth records an authentication event.
func (s *Service) LogAuth(userID string, action string, ipAddr, userAgent string, success bool) {
	event := &entities.AuditEvent{
		UserID:    userID,
		EventType: entities.AuditEventAuth,
		Action:    action,
		IPAddress: ipAddr,
		UserAgent: truncate(userAgent, 500),
		Status:    entities.AuditStatusSuccess,
	}

	if !success {
		event.Status = entities.AuditStatusFailed
	}

	s.LogAsync(event)
}

// LogAdmin records an administrative change made by adminID.
func (s *Service) LogAdmin(adminID, action, entityType, entityID, description string, err error) {
	event := &entities.AuditEvent{
		UserID:      adminID,
		EventType:   entities.AuditEventAdmin,
		Action:      action,
		Description: description,
		EntityType:  entityType,
		EntityID:    entityID,
		Status:      entities.AuditStatusSuccess,
	}

	if err != nil {
		event.Status = entities.AuditStatusFailed
		event.ErrorMsg = truncate(err.Error(), 500)
	}

	s.LogAsync(event)
}

// GetEvents retrieves paginated audit events.
func (s *Service) GetEvents(ctx context.Context, q audit.EventQuery) ([]entities.AuditEvent, int64, error) {
	return s.repo.GetEvents(ctx, q)
}

// DeleteOldEvents removes events older than the specified duration.
func (s *Service) DeleteOldEvents(ctx context.Context, retention time.Duration) (int64, error) {
	cutoff := time.Now().Add(-retention)
	return s.repo.DeleteOldEvents(ctx, cutoff)
}

func metadata(fields map[string]any) string {
	b, err := json.Marshal(fields)
	if err != nil {
		return ""
	}
	return string(b)
}

// truncate shortens a string to max length.
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
