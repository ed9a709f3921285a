package domain

import (
	"context"
	"strings"
	"time"

	"github.com/asaskevich/govalidator"
)

//go:generate mockgen -destination mocks/mock_user_repository.go -package mocks github.com/stitchdesk/stitchdesk/internal/domain UserRepository
//go:generate mockgen -destination mocks/mock_session_repository.go -package mocks github.com/stitchdesk/stitchdesk/internal/domain SessionRepository

// UserRole discriminates the two credential schemes: admins sign in
// with email+password, tailors with a long-lived access code.
type UserRole string

const (
	UserRoleAdmin  UserRole = "admin"
	UserRoleTailor UserRole = "tailor"
)

type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username,omitempty"`
	PasswordHash string    `json:"-"`
	Role         UserRole  `json:"role"`
	Name         string    `json:"name"`
	UserCode     string    `json:"userCode,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// Session is a server-side login session referenced by the session cookie.
type Session struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	ExpiresAt time.Time `json:"expiresAt"`
	CreatedAt time.Time `json:"createdAt"`
}

// IsExpired reports whether the session has passed its expiry
func (s *Session) IsExpired() bool {
	return time.Now().UTC().After(s.ExpiresAt)
}

// AdminLoginRequest is the payload for POST /auth/admin/login
type AdminLoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r *AdminLoginRequest) Validate() error {
	r.Email = strings.TrimSpace(r.Email)
	if r.Email == "" {
		return NewValidationError("email is required")
	}
	if !govalidator.IsEmail(r.Email) {
		return NewValidationError("email is invalid")
	}
	if r.Password == "" {
		return NewValidationError("password is required")
	}
	return nil
}

// TailorLoginRequest is the payload for POST /auth/tailor/login
type TailorLoginRequest struct {
	UserCode string `json:"userCode"`
}

func (r *TailorLoginRequest) Validate() error {
	r.UserCode = strings.TrimSpace(r.UserCode)
	if r.UserCode == "" {
		return NewValidationError("User code is required")
	}
	return nil
}

type UserRepository interface {
	CreateUser(ctx context.Context, user *User) error
	GetUserByID(ctx context.Context, id string) (*User, error)
	GetUserByUsername(ctx context.Context, username string) (*User, error)
	GetUserByCode(ctx context.Context, userCode string) (*User, error)
}

type SessionRepository interface {
	CreateSession(ctx context.Context, session *Session) error
	GetSessionByID(ctx context.Context, id string) (*Session, error)
	DeleteSession(ctx context.Context, id string) error
	DeleteExpiredSessions(ctx context.Context) (int64, error)
}
