package borrowing

import (
	"fmt"

	"github.com/bookwise/library/internal/entities"
)

// FailureKind classifies why a borrow or return did not succeed.
type FailureKind int

const (
	KindNone FailureKind = iota
	KindInvalidRequest
	KindNotFound
	KindBookUnavailable
	KindAlreadyBorrowed
	KindRecordCreationFailed
	KindAvailabilityUpdateFailed
	KindNotBorrowed
	KindInternal
	// KindNotEligible is reported by callers that consult CanBorrow first.
	KindNotEligible
)

var kindNames = map[FailureKind]string{
	KindNone:                     "none",
	KindInvalidRequest:           "invalid_request",
	KindNotFound:                 "not_found",
	KindBookUnavailable:          "book_unavailable",
	KindAlreadyBorrowed:          "already_borrowed",
	KindRecordCreationFailed:     "record_creation_failed",
	KindAvailabilityUpdateFailed: "availability_update_failed",
	KindNotBorrowed:              "not_borrowed",
	KindInternal:                 "internal",
	KindNotEligible:              "not_eligible",
}

func (k FailureKind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

func (k FailureKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Messages shown to borrowers.
const (
	MsgInvalidBorrowRequest     = "Invalid book request. Please try again."
	MsgBookUnavailable          = "Book is not available."
	MsgAlreadyBorrowed          = "You have already borrowed this book."
	MsgRecordCreationFailed     = "Failed to create borrow record."
	MsgAvailabilityUpdateFailed = "Failed to update book copies."
	MsgBorrowError              = "An error occurred while borrowing the book."
	MsgBorrowed                 = "Book borrowed successfully."

	MsgInvalidReturnRequest = "Invalid return request. Please try again."
	MsgLoanNotFound         = "Borrow record not found."
	MsgNotBorrowed          = "Book has already been returned."
	MsgReturnError          = "An error occurred while returning the book."
	MsgReturned             = "Book returned successfully."

	MsgEligible          = "You can borrow this book."
	MsgAccountNotAllowed = "Your account is not approved to borrow books."
)

var borrowMessages = map[FailureKind]string{
	KindInvalidRequest:           MsgInvalidBorrowRequest,
	KindBookUnavailable:          MsgBookUnavailable,
	KindAlreadyBorrowed:          MsgAlreadyBorrowed,
	KindRecordCreationFailed:     MsgRecordCreationFailed,
	KindAvailabilityUpdateFailed: MsgAvailabilityUpdateFailed,
	KindInternal:                 MsgBorrowError,
	KindNotEligible:              MsgAccountNotAllowed,
}

var returnMessages = map[FailureKind]string{
	KindInvalidRequest:           MsgInvalidReturnRequest,
	KindNotFound:                 MsgLoanNotFound,
	KindNotBorrowed:              MsgNotBorrowed,
	KindAvailabilityUpdateFailed: MsgAvailabilityUpdateFailed,
	KindInternal:                 MsgReturnError,
}

// BorrowResult is the outcome of BorrowBook. Record is set only on success.
type BorrowResult struct {
	Success bool                   `json:"success"`
	Kind    FailureKind            `json:"kind"`
	Message string                 `json:"message"`
	Record  *entities.BorrowRecord `json:"record,omitempty"`
}

// NotEligible is the result for a borrower that CanBorrow turned away.
func NotEligible(e Eligibility) BorrowResult {
	return BorrowResult{Kind: KindNotEligible, Message: e.Message}
}

func borrowFailure(kind FailureKind) BorrowResult {
	return BorrowResult{Kind: kind, Message: borrowMessages[kind]}
}

func borrowSuccess(record *entities.BorrowRecord) BorrowResult {
	return BorrowResult{Success: true, Kind: KindNone, Message: MsgBorrowed, Record: record}
}

// ReturnResult is the outcome of ReturnBook. Record is set only on success.
type ReturnResult struct {
	Success bool                   `json:"success"`
	Kind    FailureKind            `json:"kind"`
	Message string                 `json:"message"`
	Record  *entities.BorrowRecord `json:"record,omitempty"`
}

func returnFailure(kind FailureKind) ReturnResult {
	return ReturnResult{Kind: kind, Message: returnMessages[kind]}
}

// Eligibility is the outcome of CanBorrow.
type Eligibility struct {
	IsEligible bool   `json:"is_eligible"`
	Message    string `json:"message"`
}
