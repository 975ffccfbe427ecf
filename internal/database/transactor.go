package database

import (
	"context"

	"gorm.io/gorm"

	"github.com/bookwise/library/internal/borrowing"
	"github.com/bookwise/library/internal/database/books"
	"github.com/bookwise/library/internal/database/borrows"
)

// Transactor runs borrow and return steps in one gorm transaction. Any error
// returned by the callback rolls the transaction back.
type Transactor struct {
	db *gorm.DB
}

func NewTransactor(db *gorm.DB) *Transactor {
	return &Transactor{db: db}
}

func (t *Transactor) WithinTransaction(ctx context.Context, fn func(ctx context.Context, stores borrowing.Stores) error) error {
	return t.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(ctx, borrowing.Stores{
			Catalog: books.NewRepository(tx),
			Loans:   borrows.NewRepository(tx),
		})
	})
}
