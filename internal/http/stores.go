package http

import (
	"context"

	"github.com/bookwise/library/internal/borrowing"
	"github.com/bookwise/library/internal/database/audit"
	"github.com/bookwise/library/internal/entities"
	"github.com/bookwise/library/internal/services"
)

// This file consolidates the interfaces HTTP controllers depend on. Each
// controller takes only what it uses so tests can hand in small fakes.

// BookCatalog creates catalog entries.
type BookCatalog interface {
	CreateBook(ctx context.Context, in services.BookInput) (*entities.Book, error)
}

// LoanReader lists a borrower's loans.
type LoanReader interface {
	BorrowedBooks(ctx context.Context, userID string, limit int) ([]entities.BorrowRecord, error)
}

// Borrower runs the borrow and return flows.
type Borrower interface {
	CanBorrow(ctx context.Context, accountID string, availableCopies int) (borrowing.Eligibility, error)
	BorrowBook(ctx context.Context, bookID, userID string) borrowing.BorrowResult
	ReturnBook(ctx context.Context, recordID, userID string) borrowing.ReturnResult
}

// AccountManager lists accounts and changes their status.
type AccountManager interface {
	ListUsers(ctx context.Context, status entities.UserStatus, limit, offset int) ([]entities.User, int64, error)
	ApproveUser(ctx context.Context, userID string) error
	RejectUser(ctx context.Context, userID string) error
}

// AuditLog reads and writes the audit trail.
type AuditLog interface {
	GetEvents(ctx context.Context, q audit.EventQuery) ([]entities.AuditEvent, int64, error)
	LogAdmin(adminID, action, entityType, entityID, description string, err error)
}
