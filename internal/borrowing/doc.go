// Package borrowing implements the circulation core: deciding whether an account
// may borrow a book, and moving a copy out of (or back into) the catalog.
//
// # Borrowing
//
// BorrowBook runs a fixed sequence against the catalog and loan stores:
//
//  1. validate the identifiers
//  2. read available copies (missing book or zero copies fails)
//  3. refuse a second BORROWED loan of the same book by the same account
//  4. insert a BORROWED record with the configured due/return offsets
//  5. decrement available copies with a guard on available_copies > 0
//  6. if the decrement fails, delete the record from step 4
//
// Steps 2-6 run inside a Transactor. The database package provides one that
// wraps them in a single transaction, so step 6 is backed by a rollback. With
// PassThrough the stores are used directly and step 6 is the only corrective
// action (best-effort, not retried).
//
// # Results
//
// Operations never return storage errors to the caller. Every outcome is a
// BorrowResult or ReturnResult carrying Success, a FailureKind and a
// human-readable Message. Branch on Success and Kind, never on Message.
//
// # Returning
//
// ReturnBook marks a loan RETURNED and increments available copies. It relies
// on the Transactor for atomicity and performs no compensation of its own.
package borrowing
