package http

import (
	"context"
	"errors"
	"sync"

	"github.com/gin-gonic/gin"

	"github.com/bookwise/library/internal/auth"
	"github.com/bookwise/library/internal/borrowing"
	"github.com/bookwise/library/internal/database/audit"
	"github.com/bookwise/library/internal/database/books"
	"github.com/bookwise/library/internal/entities"
	"github.com/bookwise/library/internal/services"
)

var errStoreDown = errors.New("store down")

// asUser injects an authenticated caller the way auth.Middleware does.
func asUser(userID string, role entities.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(auth.ContextKeyUserID, userID)
		c.Set(auth.ContextKeyRole, role)
		c.Set(auth.ContextKeyAuthType, auth.AuthTypeBearer)
		c.Next()
	}
}

type fakeBookReader struct {
	books     map[string]*entities.Book
	searchErr error
	lastLimit int
}

func newFakeBookReader(list ...*entities.Book) *fakeBookReader {
	r := &fakeBookReader{books: make(map[string]*entities.Book)}
	for _, b := range list {
		r.books[b.ID] = b
	}
	return r
}

func (r *fakeBookReader) GetBookByID(ctx context.Context, id string) (*entities.Book, error) {
	if b, ok := r.books[id]; ok {
		return b, nil
	}
	return nil, borrowing.ErrBookNotFound
}

func (r *fakeBookReader) GetBookByTitleAndAuthor(ctx context.Context, title, author string) (*entities.Book, error) {
	for _, b := range r.books {
		if b.Title == title && b.Author == author {
			return b, nil
		}
	}
	return nil, borrowing.ErrBookNotFound
}

func (r *fakeBookReader) LatestBooks(ctx context.Context, limit int) ([]entities.Book, error) {
	r.lastLimit = limit
	out := make([]entities.Book, 0, len(r.books))
	for _, b := range r.books {
		if len(out) == limit {
			break
		}
		out = append(out, *b)
	}
	return out, nil
}

func (r *fakeBookReader) SearchBooks(ctx context.Context, params books.SearchParams) ([]entities.Book, int64, error) {
	if r.searchErr != nil {
		return nil, 0, r.searchErr
	}
	out := make([]entities.Book, 0, len(r.books))
	for _, b := range r.books {
		out = append(out, *b)
	}
	return out, int64(len(out)), nil
}

type fakeBorrower struct {
	eligibility  borrowing.Eligibility
	eligErr      error
	borrowResult borrowing.BorrowResult
	returnResult borrowing.ReturnResult

	canBorrowCalls int
	borrowCalls    int
	lastUserID     string
}

func (f *fakeBorrower) CanBorrow(ctx context.Context, accountID string, availableCopies int) (borrowing.Eligibility, error) {
	f.canBorrowCalls++
	f.lastUserID = accountID
	return f.eligibility, f.eligErr
}

func (f *fakeBorrower) BorrowBook(ctx context.Context, bookID, userID string) borrowing.BorrowResult {
	f.borrowCalls++
	f.lastUserID = userID
	return f.borrowResult
}

func (f *fakeBorrower) ReturnBook(ctx context.Context, recordID, userID string) borrowing.ReturnResult {
	f.lastUserID = userID
	return f.returnResult
}

type fakeLoans struct {
	records   []entities.BorrowRecord
	err       error
	lastLimit int
	lastUser  string
}

func (f *fakeLoans) BorrowedBooks(ctx context.Context, userID string, limit int) ([]entities.BorrowRecord, error) {
	f.lastLimit = limit
	f.lastUser = userID
	return f.records, f.err
}

type fakeCatalog struct {
	created []services.BookInput
	err     error
}

func (f *fakeCatalog) CreateBook(ctx context.Context, in services.BookInput) (*entities.Book, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	if f.err != nil {
		return nil, f.err
	}
	f.created = append(f.created, in)
	return &entities.Book{
		ID:              "book-new",
		Title:           in.Title,
		Author:          in.Author,
		TotalCopies:     in.TotalCopies,
		AvailableCopies: in.TotalCopies,
	}, nil
}

type fakeAccounts struct {
	users      map[string]*entities.User
	lastStatus entities.UserStatus
	lastLimit  int
	lastOffset int
}

func (f *fakeAccounts) ListUsers(ctx context.Context, status entities.UserStatus, limit, offset int) ([]entities.User, int64, error) {
	f.lastStatus, f.lastLimit, f.lastOffset = status, limit, offset
	var out []entities.User
	for _, u := range f.users {
		if u.Status == status {
			out = append(out, *u)
		}
	}
	return out, int64(len(out)), nil
}

func (f *fakeAccounts) ApproveUser(ctx context.Context, userID string) error {
	return f.set(userID, entities.UserStatusApproved)
}

func (f *fakeAccounts) RejectUser(ctx context.Context, userID string) error {
	return f.set(userID, entities.UserStatusRejected)
}

func (f *fakeAccounts) set(id string, status entities.UserStatus) error {
	u, ok := f.users[id]
	if !ok {
		return auth.ErrUserNotFound
	}
	u.Status = status
	return nil
}

type adminEvent struct {
	adminID, action, entityID string
	failed                    bool
}

type fakeAudit struct {
	mu        sync.Mutex
	events    []entities.AuditEvent
	admin     []adminEvent
	lastQuery audit.EventQuery
}

func (f *fakeAudit) GetEvents(ctx context.Context, q audit.EventQuery) ([]entities.AuditEvent, int64, error) {
	f.lastQuery = q
	return f.events, int64(len(f.events)), nil
}

func (f *fakeAudit) LogAdmin(adminID, action, entityType, entityID, description string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.admin = append(f.admin, adminEvent{adminID: adminID, action: action, entityID: entityID, failed: err != nil})
}
