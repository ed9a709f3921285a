package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/stitchdesk/stitchdesk/internal/domain"
)

type userRepository struct {
	db *sql.DB
}

// NewUserRepository creates a new PostgreSQL user repository
func NewUserRepository(db *sql.DB) domain.UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) CreateUser(ctx context.Context, user *domain.User) error {
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	if user.Role == "" {
		user.Role = domain.UserRoleTailor
	}
	now := time.Now().UTC()
	user.CreatedAt = now
	user.UpdatedAt = now

	query := `
		INSERT INTO users (id, username, password_hash, role, name, user_code, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := r.db.ExecContext(ctx, query,
		user.ID,
		nullString(user.Username),
		nullString(user.PasswordHash),
		user.Role,
		user.Name,
		nullString(user.UserCode),
		user.CreatedAt,
		user.UpdatedAt,
	)
	if err != nil {
		if strings.Contains(err.Error(), "users_username_key") {
			return &domain.ErrUserExists{Field: "username", Value: user.Username}
		}
		if strings.Contains(err.Error(), "users_user_code_key") {
			return &domain.ErrUserExists{Field: "user_code", Value: user.UserCode}
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

func (r *userRepository) GetUserByID(ctx context.Context, id string) (*domain.User, error) {
	return r.getUser(ctx, "id = $1", id)
}

func (r *userRepository) GetUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	return r.getUser(ctx, "username = $1", username)
}

func (r *userRepository) GetUserByCode(ctx context.Context, userCode string) (*domain.User, error) {
	return r.getUser(ctx, "user_code = $1", userCode)
}

func (r *userRepository) getUser(ctx context.Context, where string, arg interface{}) (*domain.User, error) {
	var (
		user     domain.User
		username sql.NullString
		hash     sql.NullString
		userCode sql.NullString
	)
	query := `
		SELECT id, username, password_hash, role, name, user_code, created_at, updated_at
		FROM users
		WHERE ` + where
	err := r.db.QueryRowContext(ctx, query, arg).Scan(
		&user.ID,
		&username,
		&hash,
		&user.Role,
		&user.Name,
		&userCode,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, domain.NewErrNotFound("user", fmt.Sprintf("%v", arg))
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	user.Username = username.String
	user.PasswordHash = hash.String
	user.UserCode = userCode.String
	return &user, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
