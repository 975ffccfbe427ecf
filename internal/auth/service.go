package auth

import (
	"context"
	"errors"
	"fmt"
	"log"
	"regexp"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/bookwise/library/internal/config"
	"github.com/bookwise/library/internal/database/users"
	"github.com/bookwise/library/internal/entities"
)

var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

const (
	MinFullNameLength = 3
	MaxFullNameLength = 200
)

var (
	ErrUserNotFound          = errors.New("user not found")
	ErrUserExists            = errors.New("user already exists")
	ErrInvalidCredentials    = errors.New("invalid email or password")
	ErrInvalidToken          = errors.New("invalid token")
	ErrTokenExpired          = errors.New("token expired")
	ErrAuthRequired          = errors.New("authentication required")
	ErrFullNameInvalid       = errors.New("full name must be 3-200 characters")
	ErrEmailInvalid          = errors.New("invalid email format")
	ErrUniversityIDMissing   = errors.New("university id is required")
	ErrUniversityCardMissing = errors.New("university card is required")
)

// Onboarder starts the welcome workflow for a newly registered account.
type Onboarder interface {
	EnqueueOnboarding(userID, email, fullName string) error
}

// SignUpParams are the fields required to register an account.
type SignUpParams struct {
	FullName       string `json:"fullName" binding:"required,min=3,max=200"`
	Email          string `json:"email" binding:"required,email"`
	UniversityID   int    `json:"universityId" binding:"required,gt=0"`
	UniversityCard string `json:"universityCard" binding:"required"`
	Password       string `json:"password" binding:"required,min=8,max=25"`
}

// Validate checks the same rules as the binding tags for callers outside HTTP.
func (p SignUpParams) Validate() error {
	name := strings.TrimSpace(p.FullName)
	if len(name) < MinFullNameLength || len(name) > MaxFullNameLength {
		return ErrFullNameInvalid
	}
	email := strings.TrimSpace(p.Email)
	if len(email) > 254 || !emailPattern.MatchString(email) {
		return ErrEmailInvalid
	}
	if p.UniversityID <= 0 {
		return ErrUniversityIDMissing
	}
	if strings.TrimSpace(p.UniversityCard) == "" {
		return ErrUniversityCardMissing
	}
	return ValidatePassword(p.Password)
}

// Service handles authentication and account management.
type Service struct {
	users     *users.Repository
	config    config.Auth
	onboarder Onboarder
	now       func() time.Time
}

// NewService creates a new authentication service.
func NewService(db *gorm.DB, cfg config.Auth) *Service {
	return &Service{
		users:  users.NewRepository(db),
		config: cfg,
		now:    time.Now,
	}
}

// SetOnboarder registers the workflow started after each sign-up.
func (s *Service) SetOnboarder(o Onboarder) {
	s.onboarder = o
}

// SignUp registers a PENDING account and starts onboarding.
func (s *Service) SignUp(ctx context.Context, p SignUpParams) (*entities.User, error) {
	return s.createUser(ctx, p, entities.UserRoleUser, entities.UserStatusPending)
}

// CreateAdmin registers an approved administrator. An existing account with
// the same email is promoted instead.
func (s *Service) CreateAdmin(ctx context.Context, p SignUpParams) (*entities.User, error) {
	existing, err := s.users.GetUserByEmail(ctx, p.Email)
	if err == nil {
		if _, err := s.users.SetRole(ctx, existing.ID, entities.UserRoleAdmin); err != nil {
			return nil, fmt.Errorf("failed to promote user: %w", err)
		}
		if _, err := s.users.SetStatus(ctx, existing.ID, entities.UserStatusApproved); err != nil {
			return nil, fmt.Errorf("failed to approve user: %w", err)
		}
		existing.Role = entities.UserRoleAdmin
		existing.Status = entities.UserStatusApproved
		return existing, nil
	}
	if !errors.Is(err, users.ErrUserNotFound) {
		return nil, fmt.Errorf("failed to check existing user: %w", err)
	}
	return s.createUser(ctx, p, entities.UserRoleAdmin, entities.UserStatusApproved)
}

func (s *Service) createUser(ctx context.Context, p SignUpParams, role entities.UserRole, status entities.UserStatus) (*entities.User, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	exists, err := s.users.ExistsByEmailOrUniversityID(ctx, p.Email, p.UniversityID)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing user: %w", err)
	}
	if exists {
		return nil, ErrUserExists
	}

	passwordHash, err := HashPassword(p.Password, s.config.BcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &entities.User{
		FullName:       strings.TrimSpace(p.FullName),
		Email:          p.Email,
		UniversityID:   p.UniversityID,
		UniversityCard: strings.TrimSpace(p.UniversityCard),
		PasswordHash:   passwordHash,
		Role:           role,
		Status:         status,
	}
	if err := s.users.CreateUser(ctx, user); err != nil {
		return nil, err
	}

	if s.onboarder != nil && role == entities.UserRoleUser {
		if err := s.onboarder.EnqueueOnboarding(user.ID, user.Email, user.FullName); err != nil {
			log.Printf("Failed to start onboarding for user %s: %v", user.ID, err)
		}
	}

	return user, nil
}

// Authenticate validates credentials and records the activity. Unknown emails
// and wrong passwords both return ErrInvalidCredentials.
func (s *Service) Authenticate(ctx context.Context, email, password string) (*entities.User, error) {
	user, err := s.users.GetUserByEmail(ctx, email)
	if errors.Is(err, users.ErrUserNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if err := CheckPassword(password, user.PasswordHash); err != nil {
		if errors.Is(err, ErrInvalidPassword) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	s.TouchActivity(ctx, user.ID)
	return user, nil
}

// GetUserByID retrieves a user by their ID.
func (s *Service) GetUserByID(ctx context.Context, id string) (*entities.User, error) {
	user, err := s.users.GetUserByID(ctx, id)
	if errors.Is(err, users.ErrUserNotFound) {
		return nil, ErrUserNotFound
	}
	return user, err
}

// ValidateToken checks a plaintext token and returns the associated user.
// Returns ErrTokenExpired if the token is past its expiry time.
func (s *Service) ValidateToken(ctx context.Context, token string) (*entities.User, error) {
	if token == "" {
		return nil, ErrInvalidToken
	}
	user, err := s.users.GetUserByTokenHash(ctx, HashToken(token))
	if errors.Is(err, users.ErrUserNotFound) {
		return nil, ErrInvalidToken
	}
	if err != nil {
		return nil, err
	}

	if s.config.TokenExpiry > 0 && user.TokenCreatedAt != nil {
		if s.now().Sub(*user.TokenCreatedAt) > s.config.TokenExpiry {
			return nil, ErrTokenExpired
		}
	}

	return user, nil
}

// GenerateToken creates a new API token for a user.
// Returns the plaintext token (show to user once) - only the hash is stored in DB.
func (s *Service) GenerateToken(ctx context.Context, userID string) (string, error) {
	plaintext, hash, err := GenerateAPIToken()
	if err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}

	updated, err := s.users.SetTokenHash(ctx, userID, hash, s.now())
	if err != nil {
		return "", fmt.Errorf("failed to save token: %w", err)
	}
	if !updated {
		return "", ErrUserNotFound
	}

	return plaintext, nil
}

// RevokeToken removes a user's API token.
func (s *Service) RevokeToken(ctx context.Context, userID string) error {
	if _, err := s.users.SetTokenHash(ctx, userID, "", time.Time{}); err != nil {
		return fmt.Errorf("failed to revoke token: %w", err)
	}
	return nil
}

// ApproveUser allows the account to borrow books.
func (s *Service) ApproveUser(ctx context.Context, userID string) error {
	return s.setStatus(ctx, userID, entities.UserStatusApproved)
}

// RejectUser denies the account borrowing privileges.
func (s *Service) RejectUser(ctx context.Context, userID string) error {
	return s.setStatus(ctx, userID, entities.UserStatusRejected)
}

func (s *Service) setStatus(ctx context.Context, userID string, status entities.UserStatus) error {
	updated, err := s.users.SetStatus(ctx, userID, status)
	if err != nil {
		return fmt.Errorf("failed to update user status: %w", err)
	}
	if !updated {
		return ErrUserNotFound
	}
	return nil
}

// ListUsers returns a page of accounts with the given status.
func (s *Service) ListUsers(ctx context.Context, status entities.UserStatus, limit, offset int) ([]entities.User, int64, error) {
	return s.users.ListUsersByStatus(ctx, status, limit, offset)
}

// TouchActivity records that the user was active today. Failures are logged.
func (s *Service) TouchActivity(ctx context.Context, userID string) {
	if _, err := s.users.TouchActivity(ctx, userID, s.now()); err != nil {
		log.Printf("Failed to update activity for user %s: %v", userID, err)
	}
}

// HasUsers returns true if any users exist in the database.
func (s *Service) HasUsers(ctx context.Context) (bool, error) {
	count, err := s.users.CountUsers(ctx)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
