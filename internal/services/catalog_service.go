package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/bookwise/library/internal/borrowing"
	"github.com/bookwise/library/internal/database/books"
	"github.com/bookwise/library/internal/entities"
)

const (
	MinRating      = 1
	MaxRating      = 5
	MinCopies      = 1
	MaxCopies      = 10000
	MaxTitleLength = 512
	MaxNameLength  = 150
)

// bookValidator checks BookInput outside of gin binding, for seed files and
// service callers. Field names in errors follow the json tags.
var bookValidator = newBookValidator()

func newBookValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// ValidationError describes the first invalid field of a BookInput.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}

// BookInput is a catalog entry as submitted by an administrator or a seed file.
type BookInput struct {
	Title       string  `json:"title" binding:"required" validate:"required,max=512"`
	Author      string  `json:"author" binding:"required" validate:"required,max=150"`
	Genre       string  `json:"genre" binding:"required" validate:"required,max=150"`
	Rating      float64 `json:"rating" binding:"required" validate:"gte=1,lte=5"`
	CoverURL    string  `json:"coverUrl"`
	CoverColor  string  `json:"coverColor" validate:"omitempty,len=7,hexcolor"`
	VideoURL    string  `json:"videoUrl"`
	Description string  `json:"description"`
	Summary     string  `json:"summary"`
	TotalCopies int     `json:"totalCopies" binding:"required" validate:"gte=1,lte=10000"`
}

// Validate checks field presence and ranges. Surrounding whitespace does not
// count towards a required field.
func (in BookInput) Validate() error {
	in.Title = strings.TrimSpace(in.Title)
	in.Author = strings.TrimSpace(in.Author)
	in.Genre = strings.TrimSpace(in.Genre)

	err := bookValidator.Struct(in)
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		fe := fieldErrs[0]
		return &ValidationError{Field: fe.Field(), Message: fieldMessage(fe)}
	}
	return err
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	case "gte", "lte":
		if fe.Field() == "rating" {
			return fmt.Sprintf("must be between %d and %d", MinRating, MaxRating)
		}
		return fmt.Sprintf("must be between %d and %d", MinCopies, MaxCopies)
	case "len", "hexcolor":
		return "must be a hex color like #c4214c"
	}
	return "is invalid"
}

func (in BookInput) toBook() *entities.Book {
	return &entities.Book{
		Title:           strings.TrimSpace(in.Title),
		Author:          strings.TrimSpace(in.Author),
		Genre:           strings.TrimSpace(in.Genre),
		Rating:          in.Rating,
		CoverURL:        in.CoverURL,
		CoverColor:      strings.ToLower(in.CoverColor),
		VideoURL:        in.VideoURL,
		Description:     in.Description,
		Summary:         in.Summary,
		TotalCopies:     in.TotalCopies,
		AvailableCopies: in.TotalCopies,
	}
}

// CatalogService handles adding books to the catalog, one at a time or in bulk.
type CatalogService struct {
	store BookStore
}

// NewCatalogService creates a new CatalogService.
func NewCatalogService(store BookStore) *CatalogService {
	return &CatalogService{store: store}
}

// CreateBook validates in and stores it with every copy available.
func (s *CatalogService) CreateBook(ctx context.Context, in BookInput) (*entities.Book, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	book := in.toBook()
	if err := s.store.CreateBook(ctx, book); err != nil {
		return nil, fmt.Errorf("failed to create book: %w", err)
	}
	return book, nil
}

// ImportBooks adds every input not already in the catalog. Books are matched
// by title and author, so running the same import twice creates nothing new.
// Invalid inputs are counted as failed and skipped.
func (s *CatalogService) ImportBooks(ctx context.Context, inputs []BookInput) (ImportResult, error) {
	var result ImportResult
	for _, in := range inputs {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		if err := in.Validate(); err != nil {
			log.Printf("Skipping book %q: %v", in.Title, err)
			result.BooksFailed++
			continue
		}

		_, err := s.store.GetBookByTitleAndAuthor(ctx, strings.TrimSpace(in.Title), strings.TrimSpace(in.Author))
		if err == nil {
			result.BooksSkipped++
			continue
		}
		if !errors.Is(err, borrowing.ErrBookNotFound) {
			return result, fmt.Errorf("failed to look up %q: %w", in.Title, err)
		}

		if err := s.store.CreateBook(ctx, in.toBook()); err != nil {
			log.Printf("Failed to import book %q: %v", in.Title, err)
			result.BooksFailed++
			continue
		}
		result.BooksCreated++
	}
	return result, nil
}

var _ BookStore = (*books.Repository)(nil)
