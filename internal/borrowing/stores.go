package borrowing

import (
	"context"
	"errors"
	"time"

	"github.com/bookwise/library/internal/entities"
)

var (
	ErrAccountNotFound = errors.New("account not found")
	ErrBookNotFound    = errors.New("book not found")
	ErrLoanNotFound    = errors.New("borrow record not found")
)

// AccountStore provides read access to accounts.
type AccountStore interface {
	// GetUserByID returns ErrAccountNotFound when no account has the id.
	GetUserByID(ctx context.Context, id string) (*entities.User, error)
}

// CatalogStore exposes the availability counters of catalog entries.
type CatalogStore interface {
	// AvailableCopies returns ErrBookNotFound when no book has the id.
	AvailableCopies(ctx context.Context, bookID string) (int, error)
	// DecrementAvailable reports false when no row was changed, which includes
	// the case where no copies were left.
	DecrementAvailable(ctx context.Context, bookID string) (bool, error)
	// IncrementAvailable reports false when no row was changed, which includes
	// the case where all copies are already on the shelf.
	IncrementAvailable(ctx context.Context, bookID string) (bool, error)
}

// LoanStore persists borrow records.
type LoanStore interface {
	CreateLoan(ctx context.Context, record *entities.BorrowRecord) error
	DeleteLoan(ctx context.Context, id string) error
	HasActiveLoan(ctx context.Context, userID, bookID string) (bool, error)
	// GetLoan returns ErrLoanNotFound when no record has the id.
	GetLoan(ctx context.Context, id string) (*entities.BorrowRecord, error)
	// MarkReturned moves a BORROWED record to RETURNED and reports false when
	// the record was not BORROWED.
	MarkReturned(ctx context.Context, id string, at time.Time) (bool, error)
}

// Stores bundles the stores touched by one borrow or return.
type Stores struct {
	Catalog CatalogStore
	Loans   LoanStore
}

// Transactor runs fn with stores bound to a single unit of work. Returning an
// error from fn discards the unit of work where the implementation supports it.
type Transactor interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context, stores Stores) error) error
}

// PassThrough is a Transactor that hands out the wrapped stores unchanged.
type PassThrough struct {
	Stores Stores
}

func (p PassThrough) WithinTransaction(ctx context.Context, fn func(ctx context.Context, stores Stores) error) error {
	return fn(ctx, p.Stores)
}

// EventRecorder receives the outcome of every borrow and return attempt.
type EventRecorder interface {
	LogBorrow(userID, bookID, recordID, message string, success bool)
	LogReturn(userID, recordID, message string, success bool)
}
