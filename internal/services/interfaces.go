package services

import (
	"context"

	"github.com/bookwise/library/internal/database/books"
	"github.com/bookwise/library/internal/entities"
)

// BookReader provides read-only access to the catalog.
// Use this interface when you only need to query books.
type BookReader interface {
	GetBookByID(ctx context.Context, id string) (*entities.Book, error)
	GetBookByTitleAndAuthor(ctx context.Context, title, author string) (*entities.Book, error)
	LatestBooks(ctx context.Context, limit int) ([]entities.Book, error)
	SearchBooks(ctx context.Context, params books.SearchParams) ([]entities.Book, int64, error)
}

// BookWriter adds entries to the catalog.
type BookWriter interface {
	CreateBook(ctx context.Context, book *entities.Book) error
}

// BookStore combines read and write access to the catalog.
type BookStore interface {
	BookReader
	BookWriter
}

// ImportResult contains the outcome of a bulk import.
type ImportResult struct {
	BooksCreated int `json:"books_created"`
	BooksSkipped int `json:"books_skipped"` // already in the catalog
	BooksFailed  int `json:"books_failed"`
}
