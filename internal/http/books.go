package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/bookwise/library/internal/auth"
	"github.com/bookwise/library/internal/borrowing"
	"github.com/bookwise/library/internal/database/books"
	"github.com/bookwise/library/internal/entities"
	"github.com/bookwise/library/internal/services"
)

const maxLatestLimit = 50

type BooksController struct {
	reader   services.BookReader
	borrower Borrower
}

func NewBooksController(reader services.BookReader, borrower Borrower) *BooksController {
	return &BooksController{
		reader:   reader,
		borrower: borrower,
	}
}

// ListBooks searches the catalog.
// GET /api/books?query=&filter=all|title|author|genre|rating&page=
func (bc *BooksController) ListBooks(c *gin.Context) {
	page := parsePage(c)
	params := books.SearchParams{
		Query:    strings.TrimSpace(c.Query("query")),
		Filter:   entities.ParseBookFilter(c.Query("filter")),
		Page:     page,
		PageSize: books.DefaultPageSize,
	}

	found, total, err := bc.reader.SearchBooks(c.Request.Context(), params)
	if errors.Is(err, books.ErrInvalidRating) {
		respondBadRequest(c, err.Error())
		return
	}
	if err != nil {
		respondInternalError(c, err, "search books")
		return
	}

	c.JSON(http.StatusOK, newPaginatedResponse(found, total, page, books.DefaultPageSize))
}

// LatestBooks returns the newest catalog entries.
// GET /api/books/latest?limit=
func (bc *BooksController) LatestBooks(c *gin.Context) {
	limit := parseLimit(c, books.DefaultLatestLimit, maxLatestLimit)

	latest, err := bc.reader.LatestBooks(c.Request.Context(), limit)
	if err != nil {
		respondInternalError(c, err, "latest books")
		return
	}
	c.JSON(http.StatusOK, gin.H{"books": latest, "count": len(latest)})
}

// GetBook returns one catalog entry.
// GET /api/books/:id
func (bc *BooksController) GetBook(c *gin.Context) {
	id, ok := requireParam(c, "id")
	if !ok {
		return
	}

	book, err := bc.reader.GetBookByID(c.Request.Context(), id)
	if errors.Is(err, borrowing.ErrBookNotFound) {
		respondNotFound(c, "book")
		return
	}
	if err != nil {
		respondInternalError(c, err, "get book")
		return
	}
	c.JSON(http.StatusOK, book)
}

// Eligibility tells the caller whether they may borrow the book right now.
// GET /api/books/:id/eligibility
func (bc *BooksController) Eligibility(c *gin.Context) {
	id, ok := requireParam(c, "id")
	if !ok {
		return
	}

	book, err := bc.reader.GetBookByID(c.Request.Context(), id)
	if errors.Is(err, borrowing.ErrBookNotFound) {
		respondNotFound(c, "book")
		return
	}
	if err != nil {
		respondInternalError(c, err, "get book")
		return
	}

	eligibility, err := bc.borrower.CanBorrow(c.Request.Context(), auth.GetUserID(c), book.AvailableCopies)
	if errors.Is(err, borrowing.ErrAccountNotFound) {
		respondError(c, http.StatusUnauthorized, auth.ErrAuthRequired.Error())
		return
	}
	if err != nil {
		respondInternalError(c, err, "eligibility")
		return
	}
	c.JSON(http.StatusOK, eligibility)
}

// Borrow lends one copy of the book to the caller. The caller's eligibility
// is checked first; unknown or exhausted books go straight to BorrowBook so
// the result carries the borrow failure.
// POST /api/books/:id/borrow
func (bc *BooksController) Borrow(c *gin.Context) {
	ctx := c.Request.Context()
	bookID, userID := c.Param("id"), auth.GetUserID(c)

	if book, err := bc.reader.GetBookByID(ctx, bookID); err == nil && book.AvailableCopies > 0 {
		eligibility, err := bc.borrower.CanBorrow(ctx, userID, book.AvailableCopies)
		if errors.Is(err, borrowing.ErrAccountNotFound) {
			respondError(c, http.StatusUnauthorized, auth.ErrAuthRequired.Error())
			return
		}
		if err != nil {
			respondInternalError(c, err, "eligibility")
			return
		}
		if !eligibility.IsEligible {
			result := borrowing.NotEligible(eligibility)
			c.JSON(borrowStatus(result.Success, result.Kind), result)
			return
		}
	}

	result := bc.borrower.BorrowBook(ctx, bookID, userID)
	c.JSON(borrowStatus(result.Success, result.Kind), result)
}

// borrowStatus maps a borrow or return outcome onto an HTTP status.
func borrowStatus(success bool, kind borrowing.FailureKind) int {
	if success {
		return http.StatusCreated
	}
	switch kind {
	case borrowing.KindInvalidRequest:
		return http.StatusBadRequest
	case borrowing.KindNotEligible:
		return http.StatusForbidden
	case borrowing.KindNotFound:
		return http.StatusNotFound
	case borrowing.KindBookUnavailable, borrowing.KindAlreadyBorrowed, borrowing.KindNotBorrowed:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
