package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/bookwise/library/internal/auth"
	"github.com/bookwise/library/internal/database/borrows"
)

const maxBorrowsLimit = 100

type BorrowsController struct {
	loans    LoanReader
	borrower Borrower
}

func NewBorrowsController(loans LoanReader, borrower Borrower) *BorrowsController {
	return &BorrowsController{
		loans:    loans,
		borrower: borrower,
	}
}

// List returns the caller's open loans, newest first.
// GET /api/borrows?limit=
func (bc *BorrowsController) List(c *gin.Context) {
	limit := parseLimit(c, borrows.DefaultListLimit, maxBorrowsLimit)

	records, err := bc.loans.BorrowedBooks(c.Request.Context(), auth.GetUserID(c), limit)
	if err != nil {
		respondInternalError(c, err, "borrowed books")
		return
	}
	c.JSON(http.StatusOK, gin.H{"borrows": records, "count": len(records)})
}

// Return closes one of the caller's loans.
// POST /api/borrows/:id/return
func (bc *BorrowsController) Return(c *gin.Context) {
	result := bc.borrower.ReturnBook(c.Request.Context(), c.Param("id"), auth.GetUserID(c))
	if result.Success {
		c.JSON(http.StatusOK, result)
		return
	}
	c.JSON(borrowStatus(false, result.Kind), result)
}
