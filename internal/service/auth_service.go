package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/stitchdesk/stitchdesk/internal/domain"
	"github.com/stitchdesk/stitchdesk/pkg/logger"
)

type AuthService struct {
	users      domain.UserRepository
	sessions   domain.SessionRepository
	logger     logger.Logger
	sessionTTL time.Duration
}

func NewAuthService(
	users domain.UserRepository,
	sessions domain.SessionRepository,
	logger logger.Logger,
	sessionTTL time.Duration,
) *AuthService {
	if sessionTTL <= 0 {
		sessionTTL = 24 * time.Hour
	}
	return &AuthService{
		users:      users,
		sessions:   sessions,
		logger:     logger,
		sessionTTL: sessionTTL,
	}
}

// AdminLogin verifies the email+password pair against the stored bcrypt
// hash. Unknown email and wrong password return the same error so the
// response does not leak which admin accounts exist.
func (s *AuthService) AdminLogin(ctx context.Context, req *domain.AdminLoginRequest) (*domain.User, *domain.Session, error) {
	if err := req.Validate(); err != nil {
		return nil, nil, err
	}

	user, err := s.users.GetUserByUsername(ctx, req.Email)
	if err != nil {
		if domain.IsNotFound(err) {
			return nil, nil, &domain.ErrUnauthenticated{Reason: "Invalid credentials"}
		}
		return nil, nil, err
	}
	if user.Role != domain.UserRoleAdmin {
		return nil, nil, &domain.ErrUnauthenticated{Reason: "Invalid credentials"}
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, nil, &domain.ErrUnauthenticated{Reason: "Invalid credentials"}
	}

	session, err := s.createSession(ctx, user.ID)
	if err != nil {
		return nil, nil, err
	}
	s.logger.WithField("user_id", user.ID).Info("Admin signed in")
	return user, session, nil
}

// TailorLogin signs a tailor in by access code.
func (s *AuthService) TailorLogin(ctx context.Context, req *domain.TailorLoginRequest) (*domain.User, *domain.Session, error) {
	if err := req.Validate(); err != nil {
		return nil, nil, err
	}

	user, err := s.users.GetUserByCode(ctx, req.UserCode)
	if err != nil {
		if domain.IsNotFound(err) {
			return nil, nil, &domain.ErrUnauthenticated{Reason: "Invalid user code"}
		}
		return nil, nil, err
	}
	if user.Role != domain.UserRoleTailor {
		return nil, nil, &domain.ErrUnauthenticated{Reason: "Invalid user code"}
	}

	session, err := s.createSession(ctx, user.ID)
	if err != nil {
		return nil, nil, err
	}
	s.logger.WithField("user_id", user.ID).Info("Tailor signed in")
	return user, session, nil
}

func (s *AuthService) createSession(ctx context.Context, userID string) (*domain.Session, error) {
	now := time.Now().UTC()
	session := &domain.Session{
		ID:        uuid.New().String(),
		UserID:    userID,
		ExpiresAt: now.Add(s.sessionTTL),
		CreatedAt: now,
	}
	if err := s.sessions.CreateSession(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}
	return session, nil
}

// VerifySession resolves the session cookie value to its user. Expired
// sessions are deleted on sight.
func (s *AuthService) VerifySession(ctx context.Context, sessionID string) (*domain.User, error) {
	if sessionID == "" {
		return nil, &domain.ErrUnauthenticated{Reason: "No session"}
	}

	session, err := s.sessions.GetSessionByID(ctx, sessionID)
	if err != nil {
		if domain.IsNotFound(err) {
			return nil, &domain.ErrUnauthenticated{Reason: "Invalid session"}
		}
		return nil, err
	}
	if session.IsExpired() {
		if err := s.sessions.DeleteSession(ctx, session.ID); err != nil {
			s.logger.Warn(fmt.Sprintf("Failed to delete expired session: %v", err))
		}
		return nil, &domain.ErrUnauthenticated{Reason: "Session expired"}
	}

	user, err := s.users.GetUserByID(ctx, session.UserID)
	if err != nil {
		if domain.IsNotFound(err) {
			return nil, &domain.ErrUnauthenticated{Reason: "Invalid session"}
		}
		return nil, err
	}
	return user, nil
}

// Logout removes the session; an unknown session id is not an error.
func (s *AuthService) Logout(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil
	}
	err := s.sessions.DeleteSession(ctx, sessionID)
	if err != nil && !domain.IsNotFound(err) {
		return err
	}
	return nil
}

// PurgeExpiredSessions deletes all expired sessions and logs the count.
func (s *AuthService) PurgeExpiredSessions(ctx context.Context) error {
	n, err := s.sessions.DeleteExpiredSessions(ctx)
	if err != nil {
		return err
	}
	if n > 0 {
		s.logger.WithField("count", n).Info("Purged expired sessions")
	}
	return nil
}
