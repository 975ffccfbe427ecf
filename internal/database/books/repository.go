// Package books provides database operations for the catalog.
//
// The availability counters are only changed through guarded UPDATE statements
// so that concurrent borrows and returns cannot push available_copies outside
// the range [0, total_copies]. AvailableCopies locks the row it reads, so a
// borrow running in a transaction holds the book until it commits.
//
// # Usage
//
//	repo := books.NewRepository(db)
//	latest, err := repo.LatestBooks(ctx, 10)
package books

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/bookwise/library/internal/borrowing"
	"github.com/bookwise/library/internal/entities"
)

const (
	DefaultLatestLimit = 10
	DefaultPageSize    = 12
)

var ErrInvalidRating = errors.New("rating filter requires a number")

// Repository handles all catalog database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new books repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// SearchParams narrows a catalog search. Page is 1-based.
type SearchParams struct {
	Query    string
	Filter   entities.BookFilter
	Page     int
	PageSize int
}

// CreateBook inserts a new catalog entry.
func (r *Repository) CreateBook(ctx context.Context, book *entities.Book) error {
	return r.db.WithContext(ctx).Create(book).Error
}

// GetBookByID returns borrowing.ErrBookNotFound when the book does not exist.
func (r *Repository) GetBookByID(ctx context.Context, id string) (*entities.Book, error) {
	var book entities.Book
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&book).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, borrowing.ErrBookNotFound
	}
	if err != nil {
		return nil, err
	}
	return &book, nil
}

// GetBookByTitleAndAuthor returns borrowing.ErrBookNotFound when no entry matches.
func (r *Repository) GetBookByTitleAndAuthor(ctx context.Context, title, author string) (*entities.Book, error) {
	var book entities.Book
	err := r.db.WithContext(ctx).Where("title = ? AND author = ?", title, author).First(&book).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, borrowing.ErrBookNotFound
	}
	if err != nil {
		return nil, err
	}
	return &book, nil
}

// availabilityQuery selects the counter with SELECT ... FOR UPDATE. The sqlite
// dialect leaves the locking clause out.
func availabilityQuery(db *gorm.DB, bookID string) *gorm.DB {
	return db.Clauses(clause.Locking{Strength: "UPDATE"}).
		Select("id", "available_copies").
		Where("id = ?", bookID)
}

func (r *Repository) AvailableCopies(ctx context.Context, bookID string) (int, error) {
	var book entities.Book
	err := availabilityQuery(r.db.WithContext(ctx), bookID).Take(&book).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, borrowing.ErrBookNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("failed to read available copies: %w", err)
	}
	return book.AvailableCopies, nil
}

func (r *Repository) DecrementAvailable(ctx context.Context, bookID string) (bool, error) {
	result := r.db.WithContext(ctx).Model(&entities.Book{}).
		Where("id = ? AND available_copies > 0", bookID).
		UpdateColumn("available_copies", gorm.Expr("available_copies - 1"))
	if result.Error != nil {
		return false, fmt.Errorf("failed to decrement available copies: %w", result.Error)
	}
	return result.RowsAffected == 1, nil
}

func (r *Repository) IncrementAvailable(ctx context.Context, bookID string) (bool, error) {
	result := r.db.WithContext(ctx).Model(&entities.Book{}).
		Where("id = ? AND available_copies < total_copies", bookID).
		UpdateColumn("available_copies", gorm.Expr("available_copies + 1"))
	if result.Error != nil {
		return false, fmt.Errorf("failed to increment available copies: %w", result.Error)
	}
	return result.RowsAffected == 1, nil
}

// LatestBooks returns the most recently added books, newest first.
func (r *Repository) LatestBooks(ctx context.Context, limit int) ([]entities.Book, error) {
	if limit <= 0 {
		limit = DefaultLatestLimit
	}
	var books []entities.Book
	err := r.db.WithContext(ctx).Order("created_at DESC").Limit(limit).Find(&books).Error
	return books, err
}

// SearchBooks returns one page of matching books and the total number of matches.
// Text filters match case-insensitively on substrings; the rating filter keeps
// books rated at least the numeric query.
func (r *Repository) SearchBooks(ctx context.Context, params SearchParams) ([]entities.Book, int64, error) {
	if params.PageSize <= 0 {
		params.PageSize = DefaultPageSize
	}
	if params.Page < 1 {
		params.Page = 1
	}

	query := r.db.WithContext(ctx).Model(&entities.Book{})
	text := strings.TrimSpace(params.Query)
	if text != "" {
		pattern := "%" + strings.ToLower(text) + "%"
		switch params.Filter {
		case entities.BookFilterTitle:
			query = query.Where("LOWER(title) LIKE ?", pattern)
		case entities.BookFilterAuthor:
			query = query.Where("LOWER(author) LIKE ?", pattern)
		case entities.BookFilterGenre:
			query = query.Where("LOWER(genre) LIKE ?", pattern)
		case entities.BookFilterRating:
			minRating, err := strconv.ParseFloat(text, 64)
			if err != nil {
				return nil, 0, ErrInvalidRating
			}
			query = query.Where("rating >= ?", minRating)
		default:
			query = query.Where("LOWER(title) LIKE ? OR LOWER(author) LIKE ? OR LOWER(genre) LIKE ?", pattern, pattern, pattern)
		}
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var books []entities.Book
	err := query.Order("created_at DESC").
		Limit(params.PageSize).
		Offset((params.Page - 1) * params.PageSize).
		Find(&books).Error
	return books, total, err
}

// CountBooks returns the number of catalog entries.
func (r *Repository) CountBooks(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entities.Book{}).Count(&count).Error
	return count, err
}
