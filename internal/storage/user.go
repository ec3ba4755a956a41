package storage

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"munera-backend/internal/models"
)

const userColumns = `id, first_name, last_name, alias, email, username, password_hash,
	theme, display_name_preference, last_login, created_at, updated_at`

func (s *Storage) CreateUser(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (id, first_name, last_name, alias, email, username, password_hash, theme, display_name_preference)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING created_at, updated_at
	`

	err := s.db.QueryRowContext(ctx, query,
		user.ID, user.FirstName, user.LastName, user.Alias,
		user.Email, user.Username, user.PasswordHash,
		user.Theme, user.DisplayPref,
	).Scan(&user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		switch uniqueConstraint(err) {
		case "users_username_key":
			return ErrDuplicateUsername
		case "users_email_key":
			return ErrDuplicateEmail
		}
		return err
	}

	return nil
}

func (s *Storage) GetUser(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	if err := s.db.GetContext(ctx, &user, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

// GetUserByUsername does an exact, case-sensitive match.
func (s *Storage) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	query := `SELECT ` + userColumns + ` FROM users WHERE username = $1`
	if err := s.db.GetContext(ctx, &user, query, username); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

func (s *Storage) UpdateUserProfile(ctx context.Context, user *models.User) error {
	query := `
		UPDATE users
		SET first_name = $1, last_name = $2, alias = $3, email = $4,
			theme = $5, display_name_preference = $6, updated_at = NOW()
		WHERE id = $7
		RETURNING updated_at
	`

	err := s.db.QueryRowContext(ctx, query,
		user.FirstName, user.LastName, user.Alias, user.Email,
		user.Theme, user.DisplayPref, user.ID,
	).Scan(&user.UpdatedAt)
	if err != nil {
		if uniqueConstraint(err) == "users_email_key" {
			return ErrDuplicateEmail
		}
		return err
	}
	return nil
}

func (s *Storage) UpdateUserPassword(ctx context.Context, userID, passwordHash string) error {
	query := `UPDATE users SET password_hash = $1, updated_at = NOW() WHERE id = $2`
	_, err := s.db.ExecContext(ctx, query, passwordHash, userID)
	return err
}

func (s *Storage) UpdateLastLogin(ctx context.Context, userID string, at time.Time) error {
	query := `UPDATE users SET last_login = $1 WHERE id = $2`
	_, err := s.db.ExecContext(ctx, query, at, userID)
	return err
}
