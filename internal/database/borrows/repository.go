// Package borrows provides database operations for borrow records.
package borrows

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/bookwise/library/internal/borrowing"
	"github.com/bookwise/library/internal/entities"
)

const DefaultListLimit = 10

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// CreateLoan inserts the record without touching its User or Book associations.
func (r *Repository) CreateLoan(ctx context.Context, record *entities.BorrowRecord) error {
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(record).Error; err != nil {
		return fmt.Errorf("failed to create borrow record: %w", err)
	}
	return nil
}

func (r *Repository) DeleteLoan(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&entities.BorrowRecord{}).Error
}

func (r *Repository) HasActiveLoan(ctx context.Context, userID, bookID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entities.BorrowRecord{}).
		Where("user_id = ? AND book_id = ? AND status = ?", userID, bookID, entities.BorrowStatusBorrowed).
		Count(&count).Error
	return count > 0, err
}

// GetLoan returns borrowing.ErrLoanNotFound when the record does not exist.
func (r *Repository) GetLoan(ctx context.Context, id string) (*entities.BorrowRecord, error) {
	var record entities.BorrowRecord
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, borrowing.ErrLoanNotFound
	}
	if err != nil {
		return nil, err
	}
	return &record, nil
}

func (r *Repository) MarkReturned(ctx context.Context, id string, at time.Time) (bool, error) {
	result := r.db.WithContext(ctx).Model(&entities.BorrowRecord{}).
		Where("id = ? AND status = ?", id, entities.BorrowStatusBorrowed).
		Updates(map[string]interface{}{
			"status":      entities.BorrowStatusReturned,
			"return_date": at,
		})
	if result.Error != nil {
		return false, fmt.Errorf("failed to mark borrow record returned: %w", result.Error)
	}
	return result.RowsAffected == 1, nil
}

// BorrowedBooks returns the user's BORROWED records with their books, newest first.
func (r *Repository) BorrowedBooks(ctx context.Context, userID string, limit int) ([]entities.BorrowRecord, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}
	var records []entities.BorrowRecord
	err := r.db.WithContext(ctx).Preload("Book").
		Where("user_id = ? AND status = ?", userID, entities.BorrowStatusBorrowed).
		Order("created_at DESC").
		Limit(limit).
		Find(&records).Error
	return records, err
}

// OverdueLoans returns BORROWED records whose due date is before now, with
// their user and book loaded.
func (r *Repository) OverdueLoans(ctx context.Context, now time.Time) ([]entities.BorrowRecord, error) {
	var records []entities.BorrowRecord
	err := r.db.WithContext(ctx).Preload("User").Preload("Book").
		Where("status = ? AND due_date < ?", entities.BorrowStatusBorrowed, now).
		Order("due_date ASC").
		Find(&records).Error
	return records, err
}
