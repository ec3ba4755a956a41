package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"munera-backend/internal/models"
	"munera-backend/internal/storage"
)

const minPasswordLength = 8

// CreateUser registers a new account. Duplicate username/email surface as
// ErrUsernameTaken/ErrEmailTaken, enforced by the store's unique indexes
// rather than a pre-check so concurrent signups cannot slip through.
func (s *Service) CreateUser(ctx context.Context, input models.CreateUserInput) (*models.User, error) {
	if input.FirstName == "" {
		return nil, invalidField("first_name", "is required")
	}
	if input.LastName == "" {
		return nil, invalidField("last_name", "is required")
	}
	if input.Username == "" || len(input.Username) > 30 {
		return nil, invalidField("username", "is required and must be 30 characters or less")
	}
	if input.Email == "" || len(input.Email) > 60 || !strings.Contains(input.Email, "@") {
		return nil, invalidField("email", "must be a valid address of 60 characters or less")
	}
	if len(input.Alias) > 30 {
		return nil, invalidField("alias", "must be 30 characters or less")
	}
	if input.Password != input.PasswordConfirm {
		return nil, ErrPasswordMismatch
	}
	if len(input.Password) < minPasswordLength {
		return nil, ErrPasswordTooShort
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &models.User{
		ID:           uuid.New().String(),
		FirstName:    input.FirstName,
		LastName:     input.LastName,
		Alias:        input.Alias,
		Email:        input.Email,
		Username:     input.Username,
		PasswordHash: string(hash),
		Theme:        models.ThemeLight,
		DisplayPref:  models.DisplayFullName,
	}

	if err := s.store.CreateUser(ctx, user); err != nil {
		switch {
		case errors.Is(err, storage.ErrDuplicateUsername):
			return nil, ErrUsernameTaken
		case errors.Is(err, storage.ErrDuplicateEmail):
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	s.publish("munera.events.user.created", map[string]string{
		"user_id":  user.ID,
		"username": user.Username,
	})
	return user, nil
}

// Authenticate verifies credentials with an exact username match. It does
// not touch last_login; callers record the login separately.
func (s *Service) Authenticate(ctx context.Context, username, password string) (*models.User, error) {
	user, err := s.store.GetUserByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("look up user: %w", err)
	}
	if user == nil {
		return nil, ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

func (s *Service) RecordLogin(ctx context.Context, userID string) error {
	return s.store.UpdateLastLogin(ctx, userID, time.Now())
}

func (s *Service) GetUser(ctx context.Context, id string) (*models.User, error) {
	user, err := s.store.GetUser(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

// ChangePassword checks run in a fixed order and short-circuit on the
// first failure: current password, new==current, new==confirm, length.
func (s *Service) ChangePassword(ctx context.Context, userID, current, newPassword, confirm string) error {
	user, err := s.GetUser(ctx, userID)
	if err != nil {
		return err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(current)) != nil {
		return ErrInvalidCurrentPassword
	}
	if newPassword == current {
		return ErrPasswordUnchanged
	}
	if newPassword != confirm {
		return ErrPasswordMismatch
	}
	if len(newPassword) < minPasswordLength {
		return ErrPasswordTooShort
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	return s.store.UpdateUserPassword(ctx, userID, string(hash))
}

func (s *Service) UpdateProfile(ctx context.Context, userID string, input models.UpdateProfileInput) (*models.User, error) {
	user, err := s.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	if input.FirstName == "" {
		return nil, invalidField("first_name", "is required")
	}
	if input.LastName == "" {
		return nil, invalidField("last_name", "is required")
	}
	if input.Email == "" || len(input.Email) > 60 || !strings.Contains(input.Email, "@") {
		return nil, invalidField("email", "must be a valid address of 60 characters or less")
	}
	if len(input.Alias) > 30 {
		return nil, invalidField("alias", "must be 30 characters or less")
	}
	theme, ok := models.ParseTheme(input.Theme)
	if !ok {
		return nil, invalidField("theme", "must be light or dark")
	}
	pref, ok := models.ParseDisplayPreference(input.DisplayPref)
	if !ok {
		return nil, invalidField("display_name_preference", "must be full, username or alias")
	}

	user.FirstName = input.FirstName
	user.LastName = input.LastName
	user.Alias = input.Alias
	user.Email = input.Email
	user.Theme = theme
	user.DisplayPref = pref

	if err := s.store.UpdateUserProfile(ctx, user); err != nil {
		if errors.Is(err, storage.ErrDuplicateEmail) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("update profile: %w", err)
	}
	return user, nil
}
