package borrowing

import (
	"context"
	"errors"
	"log"
	"strings"

	"github.com/bookwise/library/internal/entities"
)

// ReturnBook closes a BORROWED loan owned by userID and puts the copy back on
// the shelf. A loan owned by another account is reported as not found.
func (s *Service) ReturnBook(ctx context.Context, recordID, userID string) ReturnResult {
	recordID = strings.TrimSpace(recordID)
	userID = strings.TrimSpace(userID)
	if recordID == "" || userID == "" {
		return returnFailure(KindInvalidRequest)
	}

	ctx = context.WithoutCancel(ctx)

	var result ReturnResult
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context, stores Stores) error {
		result = s.giveBack(ctx, stores, recordID, userID)
		if !result.Success {
			return errRollback
		}
		return nil
	})
	if err != nil && !errors.Is(err, errRollback) {
		log.Printf("[BORROW] Return transaction for record %s failed: %v", recordID, err)
		result = returnFailure(KindInternal)
	}

	if s.recorder != nil {
		s.recorder.LogReturn(userID, recordID, result.Message, result.Success)
	}
	return result
}

func (s *Service) giveBack(ctx context.Context, stores Stores, recordID, userID string) ReturnResult {
	record, err := stores.Loans.GetLoan(ctx, recordID)
	if errors.Is(err, ErrLoanNotFound) {
		return returnFailure(KindNotFound)
	}
	if err != nil {
		log.Printf("[BORROW] Failed to load borrow record %s: %v", recordID, err)
		return returnFailure(KindInternal)
	}
	if record.UserID != userID {
		return returnFailure(KindNotFound)
	}
	if record.Status != entities.BorrowStatusBorrowed {
		return returnFailure(KindNotBorrowed)
	}

	now := s.now()
	updated, err := stores.Loans.MarkReturned(ctx, recordID, now)
	if err != nil {
		log.Printf("[BORROW] Failed to mark record %s returned: %v", recordID, err)
		return returnFailure(KindInternal)
	}
	if !updated {
		return returnFailure(KindNotBorrowed)
	}

	ok, err := stores.Catalog.IncrementAvailable(ctx, record.BookID)
	if err != nil || !ok {
		log.Printf("[BORROW] Failed to increment copies of book %s (updated=%t): %v", record.BookID, ok, err)
		return returnFailure(KindAvailabilityUpdateFailed)
	}

	record.Status = entities.BorrowStatusReturned
	record.ReturnDate = &now
	return ReturnResult{Success: true, Kind: KindNone, Message: MsgReturned, Record: record}
}
