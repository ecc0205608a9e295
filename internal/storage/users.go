package storage

import (
	"context"
	"database/sql"
	"strings"
	"time"
)

// User is an account record. The engine never reads users; they exist for
// the session/credential layer that supplies owner identities.
type User struct {
	ID             string
	Name           string
	Email          string
	HashedPassword string
	ProfilePicture string
	CreatedAt      time.Time
}

// InsertUser stores a new user. Emails are unique; the caller checks for
// duplicates first to report a friendly conflict.
func (s *Store) InsertUser(ctx context.Context, user *User) error {
	_, err := s.q.ExecContext(ctx, `
		INSERT INTO users (id, name, email, hashed_password, profile_picture, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, user.ID, user.Name, normalizeEmail(user.Email), user.HashedPassword,
		user.ProfilePicture, user.CreatedAt)
	return err
}

// GetUserByEmail retrieves a user by normalized email address.
func (s *Store) GetUserByEmail(ctx context.Context, email string) (*User, error) {
	row := s.q.QueryRowContext(ctx, `
		SELECT id, name, email, hashed_password, profile_picture, created_at
		FROM users WHERE email = ?
	`, normalizeEmail(email))
	return scanUser(row)
}

// GetUserByID retrieves a user by ID.
func (s *Store) GetUserByID(ctx context.Context, userID string) (*User, error) {
	row := s.q.QueryRowContext(ctx, `
		SELECT id, name, email, hashed_password, profile_picture, created_at
		FROM users WHERE id = ?
	`, userID)
	return scanUser(row)
}

func scanUser(row scanner) (*User, error) {
	var user User
	err := row.Scan(&user.ID, &user.Name, &user.Email, &user.HashedPassword,
		&user.ProfilePicture, &user.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
