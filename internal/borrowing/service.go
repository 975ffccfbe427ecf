package borrowing

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/bookwise/library/internal/entities"
)

// errRollback aborts the unit of work after a business failure has already
// been captured in the result.
var errRollback = errors.New("borrowing: rollback")

// Policy holds the date offsets stamped onto new loans.
type Policy struct {
	DueAfter    time.Duration
	ReturnAfter time.Duration
}

type Service struct {
	accounts AccountStore
	tx       Transactor
	policy   Policy
	recorder EventRecorder
	now      func() time.Time
}

// NewService creates a Service that works directly on catalog and loans.
// Call SetTransactor to run borrows and returns inside a transaction.
func NewService(accounts AccountStore, catalog CatalogStore, loans LoanStore, policy Policy) *Service {
	return &Service{
		accounts: accounts,
		tx:       PassThrough{Stores: Stores{Catalog: catalog, Loans: loans}},
		policy:   policy,
		now:      time.Now,
	}
}

func (s *Service) SetTransactor(tx Transactor) {
	s.tx = tx
}

func (s *Service) SetEventRecorder(r EventRecorder) {
	s.recorder = r
}

// CanBorrow reports whether the account may borrow a book with the given
// number of available copies. Availability is checked before account status.
func (s *Service) CanBorrow(ctx context.Context, accountID string, availableCopies int) (Eligibility, error) {
	user, err := s.accounts.GetUserByID(ctx, accountID)
	if err != nil {
		return Eligibility{}, err
	}
	if user == nil {
		return Eligibility{}, ErrAccountNotFound
	}

	if availableCopies <= 0 {
		return Eligibility{IsEligible: false, Message: MsgBookUnavailable}, nil
	}
	if !user.IsApproved() {
		return Eligibility{IsEligible: false, Message: MsgAccountNotAllowed}, nil
	}
	return Eligibility{IsEligible: true, Message: MsgEligible}, nil
}

// BorrowBook creates a BORROWED loan for userID and takes one copy of bookID
// off the shelf. Storage errors are folded into the result.
func (s *Service) BorrowBook(ctx context.Context, bookID, userID string) BorrowResult {
	bookID = strings.TrimSpace(bookID)
	userID = strings.TrimSpace(userID)
	if bookID == "" || userID == "" {
		return borrowFailure(KindInvalidRequest)
	}

	// Writes that have started are allowed to finish after the caller leaves.
	ctx = context.WithoutCancel(ctx)

	var result BorrowResult
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context, stores Stores) error {
		result = s.borrow(ctx, stores, bookID, userID)
		if !result.Success {
			return errRollback
		}
		return nil
	})
	if err != nil && !errors.Is(err, errRollback) {
		log.Printf("[BORROW] Transaction for book %s by user %s failed: %v", bookID, userID, err)
		result = borrowFailure(KindInternal)
	}

	if s.recorder != nil {
		recordID := ""
		if result.Record != nil {
			recordID = result.Record.ID
		}
		s.recorder.LogBorrow(userID, bookID, recordID, result.Message, result.Success)
	}
	return result
}

func (s *Service) borrow(ctx context.Context, stores Stores, bookID, userID string) BorrowResult {
	available, err := stores.Catalog.AvailableCopies(ctx, bookID)
	if errors.Is(err, ErrBookNotFound) {
		return borrowFailure(KindBookUnavailable)
	}
	if err != nil {
		log.Printf("[BORROW] Failed to read availability of book %s: %v", bookID, err)
		return borrowFailure(KindInternal)
	}
	if available <= 0 {
		return borrowFailure(KindBookUnavailable)
	}

	active, err := stores.Loans.HasActiveLoan(ctx, userID, bookID)
	if err != nil {
		log.Printf("[BORROW] Failed to check active loans of user %s: %v", userID, err)
		return borrowFailure(KindInternal)
	}
	if active {
		return borrowFailure(KindAlreadyBorrowed)
	}

	now := s.now()
	returnDate := now.Add(s.policy.ReturnAfter)
	record := &entities.BorrowRecord{
		UserID:     userID,
		BookID:     bookID,
		BorrowDate: now,
		DueDate:    now.Add(s.policy.DueAfter),
		ReturnDate: &returnDate,
		Status:     entities.BorrowStatusBorrowed,
		CreatedAt:  now,
	}
	if err := stores.Loans.CreateLoan(ctx, record); err != nil || record.ID == "" {
		log.Printf("[BORROW] Failed to create borrow record for book %s by user %s: %v", bookID, userID, err)
		return borrowFailure(KindRecordCreationFailed)
	}

	ok, err := stores.Catalog.DecrementAvailable(ctx, bookID)
	if err != nil || !ok {
		kind := KindAvailabilityUpdateFailed
		if err == nil && s.copiesTaken(ctx, stores, bookID) {
			// Another borrower took the last copy after the availability read.
			kind = KindBookUnavailable
		} else {
			log.Printf("[BORROW] Failed to decrement copies of book %s (updated=%t): %v", bookID, ok, err)
		}
		if derr := stores.Loans.DeleteLoan(ctx, record.ID); derr != nil {
			log.Printf("[BORROW] Failed to delete borrow record %s after decrement failure: %v", record.ID, derr)
		}
		return borrowFailure(kind)
	}

	return borrowSuccess(record)
}

// copiesTaken reports whether the book has no copies left, or is gone.
func (s *Service) copiesTaken(ctx context.Context, stores Stores, bookID string) bool {
	available, err := stores.Catalog.AvailableCopies(ctx, bookID)
	if errors.Is(err, ErrBookNotFound) {
		return true
	}
	return err == nil && available <= 0
}
