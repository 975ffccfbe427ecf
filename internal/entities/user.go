package entities

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UserStatus string

const (
	UserStatusPending  UserStatus = "PENDING"
	UserStatusApproved UserStatus = "APPROVED"
	UserStatusRejected UserStatus = "REJECTED"
)

// ParseUserStatus returns the status and whether the input named a known status.
func ParseUserStatus(s string) (UserStatus, bool) {
	switch st := UserStatus(s); st {
	case UserStatusPending, UserStatusApproved, UserStatusRejected:
		return st, true
	default:
		return "", false
	}
}

type UserRole string

const (
	UserRoleUser  UserRole = "USER"
	UserRoleAdmin UserRole = "ADMIN"
)

type User struct {
	ID               string     `gorm:"type:varchar(36);primaryKey" json:"id"`
	FullName         string     `gorm:"size:255;not null" json:"full_name"`
	Email            string     `gorm:"uniqueIndex;size:255;not null" json:"email"`
	UniversityID     int        `gorm:"uniqueIndex;not null" json:"university_id"`
	UniversityCard   string     `gorm:"type:text" json:"university_card"`
	PasswordHash     string     `gorm:"type:text;not null" json:"-"`
	Status           UserStatus `gorm:"size:20;index;default:'PENDING'" json:"status"`
	Role             UserRole   `gorm:"size:20;default:'USER'" json:"role"`
	TokenHash        string     `gorm:"index;size:64" json:"-"`
	TokenCreatedAt   *time.Time `json:"-"`
	LastActivityDate *time.Time `json:"last_activity_date,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	if u.Status == "" {
		u.Status = UserStatusPending
	}
	if u.Role == "" {
		u.Role = UserRoleUser
	}
	return nil
}

func (u *User) IsApproved() bool {
	return u.Status == UserStatusApproved
}

func (u *User) IsAdmin() bool {
	return u.Role == UserRoleAdmin
}
