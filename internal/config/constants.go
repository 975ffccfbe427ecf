package config

import "time"

const (
	// DefaultDatabasePath is the default path for the main application database
	DefaultDatabasePath = "./library.db"

	// DefaultLoanDueAfter is how long a borrower has before a loan is due
	DefaultLoanDueAfter = 7 * 24 * time.Hour

	// DefaultLoanReturnAfter is the expected return date offset recorded on a new loan
	DefaultLoanReturnAfter = 14 * 24 * time.Hour
)
