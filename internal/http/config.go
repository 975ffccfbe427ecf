package http

import (
	"github.com/bookwise/library/internal/auth"
	"github.com/bookwise/library/internal/config"
	"github.com/bookwise/library/internal/database"
	"github.com/bookwise/library/internal/services"
)

// RouterConfig contains all dependencies and configuration needed
// to create the HTTP router.
type RouterConfig struct {
	// Core dependencies
	Database   *database.Database
	BookReader services.BookReader
	Catalog    BookCatalog
	Loans      LoanReader
	Borrower   Borrower
	Accounts   AccountManager
	AuditLog   AuditLog

	// Authentication
	AuthService    *auth.Service
	AuthMiddleware *auth.Middleware
	SessionManager *auth.SessionManager
	AuthConfig     config.Auth
	CSRFSecret     []byte // CSRF protection is off when empty

	// Task queue (optional, reported by /health)
	TaskQueue TaskQueueChecker

	// Application info
	Version string
}
