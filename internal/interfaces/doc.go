// Package interfaces documents the core abstractions used throughout the application.
//
// # Interface Categories
//
// ## Borrowing
//
//   - AccountStore, CatalogStore, LoanStore: storage contracts used by the
//     borrow and return flows (internal/borrowing/stores.go)
//   - Transactor: runs one borrow or return as a single unit of work
//     (internal/borrowing/stores.go, implemented by internal/database/transactor.go)
//   - EventRecorder: receives the outcome of every attempt (implemented by
//     internal/audit)
//
// ## HTTP Controllers
//
//   - BookReader: read-only catalog access (internal/services/interfaces.go)
//   - BookCatalog, LoanReader, Borrower, AccountManager, AuditLog: the slices
//     of the services each controller uses (internal/http/stores.go)
//   - TaskQueueChecker: queue health for /health (internal/http/health.go)
//
// ## Background Work
//
//   - Onboarder: starts the welcome workflow after sign-up (internal/auth/service.go)
//   - Enqueuer, AccountReader, AuditEventCleaner: task processor dependencies
//     (internal/tasks)
//   - Mailer: message delivery (internal/mail)
//   - OverdueSource, Queue: scheduler dependencies (internal/scheduler)
//
// # Adding a New Background Task
//
//  1. Define the task and its queue in internal/tasks/
//
//     type ReservationExpiredTask struct {
//         ReservationID string `json:"reservation_id"`
//     }
//
//     func (t ReservationExpiredTask) Config() backlite.QueueConfig {
//         return backlite.QueueConfig{Name: "reservation_expired", MaxAttempts: 3}
//     }
//
//     func NewReservationExpiredQueue(store ReservationStore) backlite.Queue {
//         return backlite.NewQueue[ReservationExpiredTask](ReservationExpiredProcessor(store))
//     }
//
//  2. Register the queue in entrypoint.go
//
//  3. Enqueue it from a service or a scheduler job through the tasks.Client
//
// # Adding a New Database Domain
//
//  1. Create sub-package: internal/database/reservations/
//
//  2. Define repository:
//
//     type Repository struct { db *gorm.DB }
//
//     func NewRepository(db *gorm.DB) *Repository
//
//  3. Add the entity to the AutoMigrate list in internal/database/database.go
//
//  4. Add compile-time check in checks.go:
//
//     var _ http.ReservationStore = (*reservations.Repository)(nil)
//
// # Compile-Time Interface Checks
//
// All implementations should include compile-time checks to ensure they satisfy
// their interfaces. This catches missing methods at compile time rather than runtime:
//
//	var _ SomeInterface = (*MyImplementation)(nil)
//
// See checks.go for the full list.
package interfaces
