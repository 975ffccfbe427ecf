// Package database provides the data access layer for the application.
//
// # Architecture
//
// The database layer is organized into domain-specific sub-packages:
//
//	database/
//	├── database.go      # Connection setup (SQLite or Postgres), migrations
//	├── transactor.go    # borrowing.Transactor backed by a gorm transaction
//	├── books/           # Catalog entries and availability counters
//	├── borrows/         # Borrow records
//	├── users/           # Accounts, approval status, API tokens
//	└── audit/           # Audit trail
//
// # Using Sub-packages
//
//	db, err := database.NewDatabase("./library.db")
//
//	booksRepo := books.NewRepository(db.DB)
//	loansRepo := borrows.NewRepository(db.DB)
//	usersRepo := users.NewRepository(db.DB)
//
//	svc := borrowing.NewService(usersRepo, booksRepo, loansRepo, policy)
//	svc.SetTransactor(database.NewTransactor(db.DB))
//
// Repositories accept any *gorm.DB, including a transaction handle; the
// Transactor builds fresh books and borrows repositories on the transaction
// for every unit of work.
//
// # SQLite
//
// SQLite connections are limited to one open connection, so concurrent
// transactions are serialized by the pool. Code running inside a transaction
// must only use the stores handed to it; touching the root *gorm.DB there
// would wait forever for the connection the transaction holds.
//
// # Interface Implementations
//
//   - books.Repository: borrowing.CatalogStore
//   - borrows.Repository: borrowing.LoanStore
//   - users.Repository: tasks.AccountReader (Accounts adapts it to borrowing.AccountStore)
//   - audit.Repository: audit.EventStore
package database
