package database

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/stitchdesk/stitchdesk/internal/database/schema"
	"github.com/stitchdesk/stitchdesk/internal/domain"
)

// InitializeDatabase creates all necessary database tables if they don't exist
// and seeds the root admin user when rootEmail/rootPassword are provided.
func InitializeDatabase(db *sql.DB, rootEmail, rootPassword string) error {
	for _, query := range schema.TableDefinitions {
		if _, err := db.Exec(query); err != nil {
			return fmt.Errorf("failed to create table: %w", err)
		}
	}

	if rootEmail == "" || rootPassword == "" {
		return nil
	}

	var exists bool
	err := db.QueryRow("SELECT EXISTS(SELECT 1 FROM users WHERE username = $1)", rootEmail).Scan(&exists)
	if err != nil {
		return fmt.Errorf("failed to check root user existence: %w", err)
	}
	if exists {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(rootPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash root password: %w", err)
	}

	now := time.Now().UTC()
	query := `
		INSERT INTO users (id, username, password_hash, role, name, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err = db.Exec(query,
		uuid.New().String(),
		rootEmail,
		string(hash),
		domain.UserRoleAdmin,
		"Admin",
		now,
		now,
	)
	if err != nil {
		return fmt.Errorf("failed to create root user: %w", err)
	}

	return nil
}
