package borrowing

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/bookwise/library/internal/entities"
)

type fakeAccounts struct {
	users map[string]*entities.User
	err   error
}

func (f *fakeAccounts) GetUserByID(_ context.Context, id string) (*entities.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	u, ok := f.users[id]
	if !ok {
		return nil, ErrAccountNotFound
	}
	return u, nil
}

// fakeCatalog keeps copies in memory. The fail* fields inject faults.
type fakeCatalog struct {
	mu     sync.Mutex
	copies map[string]int
	totals map[string]int
	writes int

	failRead      error
	afterRead     func()
	failDecrement error
	refuseUpdate  bool
	failIncrement error
}

func newFakeCatalog() *fakeCatalog {
	return &fakeCatalog{copies: map[string]int{}, totals: map[string]int{}}
}

func (f *fakeCatalog) add(bookID string, copies int) {
	f.copies[bookID] = copies
	f.totals[bookID] = copies
}

func (f *fakeCatalog) AvailableCopies(_ context.Context, bookID string) (int, error) {
	n, err := f.readCopies(bookID)
	if f.afterRead != nil {
		f.afterRead()
	}
	return n, err
}

func (f *fakeCatalog) readCopies(bookID string) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failRead != nil {
		return 0, f.failRead
	}
	n, ok := f.copies[bookID]
	if !ok {
		return 0, ErrBookNotFound
	}
	return n, nil
}

func (f *fakeCatalog) DecrementAvailable(_ context.Context, bookID string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failDecrement != nil {
		return false, f.failDecrement
	}
	if f.refuseUpdate {
		return false, nil
	}
	if f.copies[bookID] <= 0 {
		return false, nil
	}
	f.copies[bookID]--
	f.writes++
	return true, nil
}

func (f *fakeCatalog) IncrementAvailable(_ context.Context, bookID string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failIncrement != nil {
		return false, f.failIncrement
	}
	if f.copies[bookID] >= f.totals[bookID] {
		return false, nil
	}
	f.copies[bookID]++
	f.writes++
	return true, nil
}

func (f *fakeCatalog) available(bookID string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.copies[bookID]
}

type fakeLoans struct {
	mu      sync.Mutex
	records map[string]*entities.BorrowRecord
	nextID  int
	writes  int
	deletes int

	failCreate error
	skipID     bool
	failDelete error
	failActive error
}

func newFakeLoans() *fakeLoans {
	return &fakeLoans{records: map[string]*entities.BorrowRecord{}}
}

func (f *fakeLoans) CreateLoan(_ context.Context, record *entities.BorrowRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failCreate != nil {
		return f.failCreate
	}
	if f.skipID {
		return nil
	}
	f.nextID++
	record.ID = fmt.Sprintf("loan-%d", f.nextID)
	stored := *record
	f.records[record.ID] = &stored
	f.writes++
	return nil
}

func (f *fakeLoans) DeleteLoan(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deletes++
	if f.failDelete != nil {
		return f.failDelete
	}
	delete(f.records, id)
	return nil
}

func (f *fakeLoans) HasActiveLoan(_ context.Context, userID, bookID string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failActive != nil {
		return false, f.failActive
	}
	for _, r := range f.records {
		if r.UserID == userID && r.BookID == bookID && r.Status == entities.BorrowStatusBorrowed {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeLoans) GetLoan(_ context.Context, id string) (*entities.BorrowRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.records[id]
	if !ok {
		return nil, ErrLoanNotFound
	}
	copied := *r
	return &copied, nil
}

func (f *fakeLoans) MarkReturned(_ context.Context, id string, at time.Time) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.records[id]
	if !ok || r.Status != entities.BorrowStatusBorrowed {
		return false, nil
	}
	r.Status = entities.BorrowStatusReturned
	r.ReturnDate = &at
	f.writes++
	return true, nil
}

func (f *fakeLoans) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.records)
}

// serialTransactor runs units of work one at a time, like a single-connection database.
type serialTransactor struct {
	mu     sync.Mutex
	stores Stores
}

func (s *serialTransactor) WithinTransaction(ctx context.Context, fn func(ctx context.Context, stores Stores) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(ctx, s.stores)
}

type failingTransactor struct{ err error }

func (f failingTransactor) WithinTransaction(context.Context, func(context.Context, Stores) error) error {
	return f.err
}

type recordedEvent struct {
	kind     string
	userID   string
	entityID string
	success  bool
}

type fakeRecorder struct {
	events []recordedEvent
}

func (f *fakeRecorder) LogBorrow(userID, bookID, recordID, message string, success bool) {
	f.events = append(f.events, recordedEvent{kind: "borrow", userID: userID, entityID: bookID, success: success})
}

func (f *fakeRecorder) LogReturn(userID, recordID, message string, success bool) {
	f.events = append(f.events, recordedEvent{kind: "return", userID: userID, entityID: recordID, success: success})
}

var errStorage = errors.New("storage offline")
