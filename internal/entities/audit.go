package entities

import (
	"strings"
	"time"
)

// AuditEventType groups audit events by the workflow that produced them.
type AuditEventType string

const (
	AuditEventBorrow AuditEventType = "borrow"
	AuditEventReturn AuditEventType = "return"
	AuditEventAuth   AuditEventType = "auth"
	AuditEventAdmin  AuditEventType = "admin"
)

var auditEventTypes = []AuditEventType{AuditEventBorrow, AuditEventReturn, AuditEventAuth, AuditEventAdmin}

// ParseAuditEventType accepts a known event type in any case.
func ParseAuditEventType(s string) (AuditEventType, bool) {
	for _, t := range auditEventTypes {
		if strings.EqualFold(s, string(t)) {
			return t, true
		}
	}
	return "", false
}

type AuditStatus string

const (
	AuditStatusSuccess AuditStatus = "success"
	AuditStatusFailed  AuditStatus = "failed"
)

// AuditEvent is one row of the audit trail. UserID is the acting account:
// the borrower for loans, the administrator for approvals and catalog changes.
type AuditEvent struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	UserID      string         `gorm:"index;size:36" json:"user_id"`
	EventType   AuditEventType `gorm:"index;size:20" json:"event_type"`
	Action      string         `gorm:"size:50" json:"action"`
	Description string         `gorm:"size:500" json:"description"`
	EntityType  string         `gorm:"size:30" json:"entity_type,omitempty"`
	EntityID    string         `gorm:"index;size:36" json:"entity_id,omitempty"`
	Metadata    string         `gorm:"type:text" json:"metadata,omitempty"`
	IPAddress   string         `gorm:"size:45" json:"ip_address,omitempty"`
	UserAgent   string         `gorm:"size:500" json:"user_agent,omitempty"`
	Status      AuditStatus    `gorm:"size:10" json:"status"`
	ErrorMsg    string         `gorm:"size:500" json:"error_msg,omitempty"`
	CreatedAt   time.Time      `gorm:"index" json:"created_at"`
}

func (AuditEvent) TableName() string {
	return "audit_events"
}

// Failed reports whether the audited operation did not complete.
func (e AuditEvent) Failed() bool {
	return e.Status == AuditStatusFailed
}
