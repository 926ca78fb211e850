package user

import (
	"errors"
	"time"
)

var (
	ErrAdminNotFound      = errors.New("admin not found")
	ErrEmailExists        = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidToken       = errors.New("invalid or expired token")
)

// AdminUser is the signed-in identity. It only exists while a session is active.
type AdminUser struct {
	ID          string `json:"id"`
	Email       string `json:"email"`
	DisplayName string `json:"displayName,omitempty"`
}

type Session struct {
	Token     string    `json:"token"`
	User      AdminUser `json:"user"`
	ExpiresAt time.Time `json:"expiresAt"`
}

func (s Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}

// Admin is the stored account behind an AdminUser.
type Admin struct {
	AdminUser
	PasswordHash string
	CreatedAt    time.Time
}
