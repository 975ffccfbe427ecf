package interfaces

// This file contains compile-time interface implementation checks.
// These ensure that concrete types satisfy their interfaces at compile time,
// catching missing methods before runtime.
//
// To verify all checks pass: go build ./internal/interfaces/...

import (
	"github.com/bookwise/library/internal/audit"
	"github.com/bookwise/library/internal/auth"
	"github.com/bookwise/library/internal/borrowing"
	"github.com/bookwise/library/internal/database"
	"github.com/bookwise/library/internal/database/books"
	"github.com/bookwise/library/internal/database/borrows"
	"github.com/bookwise/library/internal/database/users"
	"github.com/bookwise/library/internal/http"
	"github.com/bookwise/library/internal/mail"
	"github.com/bookwise/library/internal/scheduler"
	"github.com/bookwise/library/internal/services"
	"github.com/bookwise/library/internal/tasks"
)

// =============================================================================
// Borrowing
// =============================================================================

var _ borrowing.AccountStore = database.Accounts{}
var _ borrowing.CatalogStore = (*books.Repository)(nil)
var _ borrowing.LoanStore = (*borrows.Repository)(nil)
var _ borrowing.Transactor = (*database.Transactor)(nil)
var _ borrowing.EventRecorder = (*audit.Service)(nil)

// =============================================================================
// HTTP Controllers
// =============================================================================

var _ services.BookReader = (*books.Repository)(nil)
var _ http.BookCatalog = (*services.CatalogService)(nil)
var _ http.LoanReader = (*borrows.Repository)(nil)
var _ http.Borrower = (*borrowing.Service)(nil)
var _ http.AccountManager = (*auth.Service)(nil)
var _ http.AuditLog = (*audit.Service)(nil)
var _ http.TaskQueueChecker = (*tasks.Client)(nil)
var _ auth.EventLogger = (*audit.Service)(nil)

// =============================================================================
// Background Work
// =============================================================================

var _ auth.Onboarder = (*tasks.Client)(nil)
var _ tasks.Enqueuer = (*tasks.Client)(nil)
var _ tasks.AccountReader = (*users.Repository)(nil)
var _ tasks.AuditEventCleaner = (*audit.Service)(nil)
var _ mail.Mailer = (*mail.LogMailer)(nil)
var _ scheduler.OverdueSource = (*borrows.Repository)(nil)
var _ scheduler.Queue = (*tasks.Client)(nil)
