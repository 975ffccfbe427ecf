package entities

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type BorrowStatus string

const (
	BorrowStatusBorrowed BorrowStatus = "BORROWED"
	BorrowStatusPending  BorrowStatus = "PENDING"
	BorrowStatusReturned BorrowStatus = "RETURNED"
)

// BorrowRecord is one loan of a book to a user. At most one BORROWED record may
// exist per (UserID, BookID); see database.activeLoanIndex.
type BorrowRecord struct {
	ID         string       `gorm:"type:varchar(36);primaryKey" json:"id"`
	UserID     string       `gorm:"type:varchar(36);index;not null" json:"user_id"`
	BookID     string       `gorm:"type:varchar(36);index;not null" json:"book_id"`
	BorrowDate time.Time    `gorm:"not null" json:"borrow_date"`
	DueDate    time.Time    `gorm:"index;not null" json:"due_date"`
	ReturnDate *time.Time   `json:"return_date,omitempty"`
	Status     BorrowStatus `gorm:"size:20;index;not null;default:'BORROWED'" json:"status"`
	CreatedAt  time.Time    `json:"created_at"`

	User User `gorm:"foreignKey:UserID" json:"-"`
	Book Book `gorm:"foreignKey:BookID" json:"book,omitempty"`
}

func (BorrowRecord) TableName() string {
	return "borrow_records"
}

func (r *BorrowRecord) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return nil
}

// IsOverdue reports whether a borrowed book is past its due date at the given time.
func (r *BorrowRecord) IsOverdue(now time.Time) bool {
	return r.Status == BorrowStatusBorrowed && now.After(r.DueDate)
}
