package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/bookwise/library/internal/borrowing"
	"github.com/bookwise/library/internal/database/users"
	"github.com/bookwise/library/internal/entities"
)

// Accounts exposes the users repository to the borrowing service, reporting
// unknown accounts as borrowing.ErrAccountNotFound.
type Accounts struct {
	users *users.Repository
}

func NewAccounts(repo *users.Repository) Accounts {
	return Accounts{users: repo}
}

func (a Accounts) GetUserByID(ctx context.Context, id string) (*entities.User, error) {
	user, err := a.users.GetUserByID(ctx, id)
	if errors.Is(err, users.ErrUserNotFound) {
		return nil, fmt.Errorf("%w: %s", borrowing.ErrAccountNotFound, id)
	}
	return user, err
}
