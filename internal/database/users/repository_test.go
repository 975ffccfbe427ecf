package users

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/bookwise/library/internal/entities"
)

func setupTestDB(t *testing.T) *Repository {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "users.db")

	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&entities.User{}))

	t.Cleanup(func() {
		sqlDB, _ := db.DB()
		sqlDB.Close()
	})
	return NewRepository(db)
}

func createUser(t *testing.T, repo *Repository, email string, universityID int) *entities.User {
	t.Helper()
	user := &entities.User{
		FullName:       "Test Reader",
		Email:          email,
		UniversityID:   universityID,
		UniversityCard: "card.png",
		PasswordHash:   "hash",
	}
	require.NoError(t, repo.CreateUser(context.Background(), user))
	return user
}

func TestRepository_CreateUser(t *testing.T) {
	repo := setupTestDB(t)

	user := createUser(t, repo, "  Reader@Example.EDU ", 42)

	assert.Len(t, user.ID, 36)
	assert.Equal(t, "reader@example.edu", user.Email)
	assert.Equal(t, entities.UserStatusPending, user.Status)
	assert.Equal(t, entities.UserRoleUser, user.Role)
}

func TestRepository_CreateUserDuplicateEmail(t *testing.T) {
	repo := setupTestDB(t)
	createUser(t, repo, "reader@example.edu", 1)

	err := repo.CreateUser(context.Background(), &entities.User{
		FullName: "Other", Email: "reader@example.edu", UniversityID: 2, PasswordHash: "hash",
	})
	assert.Error(t, err)
}

func TestRepository_Lookups(t *testing.T) {
	repo := setupTestDB(t)
	ctx := context.Background()
	created := createUser(t, repo, "reader@example.edu", 42)

	byID, err := repo.GetUserByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.Email, byID.Email)

	byEmail, err := repo.GetUserByEmail(ctx, "READER@example.edu")
	require.NoError(t, err)
	assert.Equal(t, created.ID, byEmail.ID)

	_, err = repo.GetUserByID(ctx, "missing")
	assert.ErrorIs(t, err, ErrUserNotFound)

	_, err = repo.GetUserByTokenHash(ctx, "")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestRepository_ExistsByEmailOrUniversityID(t *testing.T) {
	repo := setupTestDB(t)
	ctx := context.Background()
	createUser(t, repo, "reader@example.edu", 42)

	exists, err := repo.ExistsByEmailOrUniversityID(ctx, "reader@example.edu", 1)
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = repo.ExistsByEmailOrUniversityID(ctx, "other@example.edu", 42)
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = repo.ExistsByEmailOrUniversityID(ctx, "other@example.edu", 43)
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestRepository_StatusAndListing(t *testing.T) {
	repo := setupTestDB(t)
	ctx := context.Background()
	first := createUser(t, repo, "a@example.edu", 1)
	createUser(t, repo, "b@example.edu", 2)

	ok, err := repo.SetStatus(ctx, first.ID, entities.UserStatusApproved)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.SetStatus(ctx, "missing", entities.UserStatusApproved)
	require.NoError(t, err)
	assert.False(t, ok)

	pending, total, err := repo.ListUsersByStatus(ctx, entities.UserStatusPending, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, pending, 1)
	assert.Equal(t, "b@example.edu", pending[0].Email)

	approved, _, err := repo.ListUsersByStatus(ctx, entities.UserStatusApproved, 10, 0)
	require.NoError(t, err)
	require.Len(t, approved, 1)
	assert.Equal(t, first.ID, approved[0].ID)
}

func TestRepository_TokenHash(t *testing.T) {
	repo := setupTestDB(t)
	ctx := context.Background()
	user := createUser(t, repo, "reader@example.edu", 42)

	ok, err := repo.SetTokenHash(ctx, user.ID, "abc123", time.Now())
	require.NoError(t, err)
	assert.True(t, ok)

	found, err := repo.GetUserByTokenHash(ctx, "abc123")
	require.NoError(t, err)
	assert.Equal(t, user.ID, found.ID)
	require.NotNil(t, found.TokenCreatedAt)

	_, err = repo.SetTokenHash(ctx, user.ID, "", time.Time{})
	require.NoError(t, err)
	_, err = repo.GetUserByTokenHash(ctx, "abc123")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestRepository_TouchActivityOncePerDay(t *testing.T) {
	repo := setupTestDB(t)
	ctx := context.Background()
	user := createUser(t, repo, "reader@example.edu", 42)
	morning := time.Date(2024, 3, 10, 8, 0, 0, 0, time.UTC)

	touched, err := repo.TouchActivity(ctx, user.ID, morning)
	require.NoError(t, err)
	assert.True(t, touched, "first activity is recorded")

	touched, err = repo.TouchActivity(ctx, user.ID, morning.Add(6*time.Hour))
	require.NoError(t, err)
	assert.False(t, touched, "same day is skipped")

	touched, err = repo.TouchActivity(ctx, user.ID, morning.Add(24*time.Hour))
	require.NoError(t, err)
	assert.True(t, touched, "next day is recorded")

	got, err := repo.GetUserByID(ctx, user.ID)
	require.NoError(t, err)
	require.NotNil(t, got.LastActivityDate)
	assert.True(t, got.LastActivityDate.Equal(morning.Add(24*time.Hour)))
}
