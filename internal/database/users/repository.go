// Package users provides database operations for accounts.
//
// # Usage
//
//	repo := users.NewRepository(db)
//	user, err := repo.GetUserByEmail(ctx, "reader@example.edu")
package users

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/bookwise/library/internal/entities"
)

const DefaultListLimit = 50

// ErrUserNotFound is returned by every lookup that matches no account.
var ErrUserNotFound = errors.New("user not found")

// Repository handles all user database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new users repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// CreateUser inserts a new account. Emails are stored lower-cased.
func (r *Repository) CreateUser(ctx context.Context, user *entities.User) error {
	user.Email = normalizeEmail(user.Email)
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// GetUserByID returns ErrUserNotFound when the account does not exist.
func (r *Repository) GetUserByID(ctx context.Context, id string) (*entities.User, error) {
	return r.first(ctx, "id = ?", id)
}

// GetUserByEmail returns ErrUserNotFound when no account uses the email.
func (r *Repository) GetUserByEmail(ctx context.Context, email string) (*entities.User, error) {
	return r.first(ctx, "email = ?", normalizeEmail(email))
}

// GetUserByTokenHash returns ErrUserNotFound when no account holds the token.
func (r *Repository) GetUserByTokenHash(ctx context.Context, tokenHash string) (*entities.User, error) {
	if tokenHash == "" {
		return nil, ErrUserNotFound
	}
	return r.first(ctx, "token_hash = ?", tokenHash)
}

func (r *Repository) first(ctx context.Context, query string, args ...interface{}) (*entities.User, error) {
	var user entities.User
	err := r.db.WithContext(ctx).Where(query, args...).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// ExistsByEmailOrUniversityID reports whether either identifier is already taken.
func (r *Repository) ExistsByEmailOrUniversityID(ctx context.Context, email string, universityID int) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entities.User{}).
		Where("email = ? OR university_id = ?", normalizeEmail(email), universityID).
		Count(&count).Error
	return count > 0, err
}

// ListUsersByStatus returns a page of accounts with the status, oldest first,
// and the total number of such accounts.
func (r *Repository) ListUsersByStatus(ctx context.Context, status entities.UserStatus, limit, offset int) ([]entities.User, int64, error) {
	var users []entities.User
	var total int64

	query := r.db.WithContext(ctx).Model(&entities.User{}).Where("status = ?", status)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if limit <= 0 {
		limit = DefaultListLimit
	}
	if offset < 0 {
		offset = 0
	}

	err := query.Order("created_at ASC").Limit(limit).Offset(offset).Find(&users).Error
	return users, total, err
}

// SetStatus reports false when the account does not exist.
func (r *Repository) SetStatus(ctx context.Context, id string, status entities.UserStatus) (bool, error) {
	result := r.db.WithContext(ctx).Model(&entities.User{}).Where("id = ?", id).Update("status", status)
	return result.RowsAffected == 1, result.Error
}

// SetRole reports false when the account does not exist.
func (r *Repository) SetRole(ctx context.Context, id string, role entities.UserRole) (bool, error) {
	result := r.db.WithContext(ctx).Model(&entities.User{}).Where("id = ?", id).Update("role", role)
	return result.RowsAffected == 1, result.Error
}

// SetTokenHash stores a token hash, or clears it when tokenHash is empty.
// Reports false when the account does not exist.
func (r *Repository) SetTokenHash(ctx context.Context, id, tokenHash string, createdAt time.Time) (bool, error) {
	updates := map[string]interface{}{
		"token_hash":       tokenHash,
		"token_created_at": createdAt,
	}
	if tokenHash == "" {
		updates["token_created_at"] = nil
	}
	result := r.db.WithContext(ctx).Model(&entities.User{}).Where("id = ?", id).Updates(updates)
	return result.RowsAffected == 1, result.Error
}

// TouchActivity sets last_activity_date to now unless it was already set on
// the same UTC day. Reports whether a write happened.
func (r *Repository) TouchActivity(ctx context.Context, id string, now time.Time) (bool, error) {
	now = now.UTC()
	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	result := r.db.WithContext(ctx).Model(&entities.User{}).
		Where("id = ? AND (last_activity_date IS NULL OR last_activity_date < ?)", id, startOfDay).
		UpdateColumn("last_activity_date", now)
	return result.RowsAffected == 1, result.Error
}

// CountUsers returns the number of accounts.
func (r *Repository) CountUsers(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entities.User{}).Count(&count).Error
	return count, err
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
