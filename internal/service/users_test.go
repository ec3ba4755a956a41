package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"munera-backend/internal/models"
)

func validSignup(username string) models.CreateUserInput {
	return models.CreateUserInput{
		FirstName:       "Ada",
		LastName:        "Lovelace",
		Email:           username + "@example.com",
		Username:        username,
		Password:        testPassword,
		PasswordConfirm: testPassword,
	}
}

func TestCreateUser(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	user, err := svc.CreateUser(ctx, validSignup("ada"))
	require.NoError(t, err)
	assert.NotEmpty(t, user.ID)
	assert.Equal(t, models.ThemeLight, user.Theme)
	assert.Equal(t, models.DisplayFullName, user.DisplayPref)
	assert.NotEqual(t, testPassword, user.PasswordHash)
}

func TestCreateUserValidation(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	tests := []struct {
		name    string
		mutate  func(*models.CreateUserInput)
		wantErr error
	}{
		{
			name:    "password mismatch",
			mutate:  func(in *models.CreateUserInput) { in.PasswordConfirm = "something-else" },
			wantErr: ErrPasswordMismatch,
		},
		{
			name: "password too short",
			mutate: func(in *models.CreateUserInput) {
				in.Password = "short"
				in.PasswordConfirm = "short"
			},
			wantErr: ErrPasswordTooShort,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validSignup("grace")
			tt.mutate(&in)
			_, err := svc.CreateUser(ctx, in)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	t.Run("missing first name", func(t *testing.T) {
		in := validSignup("grace")
		in.FirstName = ""
		_, err := svc.CreateUser(ctx, in)
		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, "first_name", verr.Field)
	})

	t.Run("bad email", func(t *testing.T) {
		in := validSignup("grace")
		in.Email = "not-an-address"
		_, err := svc.CreateUser(ctx, in)
		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, "email", verr.Field)
	})
}

func TestCreateUserDuplicates(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.CreateUser(ctx, validSignup("ada"))
	require.NoError(t, err)

	_, err = svc.CreateUser(ctx, validSignup("ada"))
	assert.ErrorIs(t, err, ErrUsernameTaken)

	in := validSignup("ada2")
	in.Email = "ada@example.com"
	_, err = svc.CreateUser(ctx, in)
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestAuthenticate(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	user := seedUser(t, svc, "ada")

	got, err := svc.Authenticate(ctx, "ada", testPassword)
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)
	assert.Nil(t, got.LastLogin)

	_, err = svc.Authenticate(ctx, "ada", "wrong-password")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Authenticate(ctx, "nobody", testPassword)
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	// username match is exact, not case-folded
	_, err = svc.Authenticate(ctx, "Ada", testPassword)
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestRecordLogin(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()
	user := seedUser(t, svc, "ada")

	require.NoError(t, svc.RecordLogin(ctx, user.ID))
	got, err := store.GetUser(ctx, user.ID)
	require.NoError(t, err)
	assert.NotNil(t, got.LastLogin)
}

func TestChangePasswordCheckOrder(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	user := seedUser(t, svc, "ada")

	tests := []struct {
		name     string
		current  string
		password string
		confirm  string
		wantErr  error
	}{
		{"wrong current", "nope", "new-password-1", "new-password-1", ErrInvalidCurrentPassword},
		{"unchanged", testPassword, testPassword, testPassword, ErrPasswordUnchanged},
		{"mismatch", testPassword, "new-password-1", "new-password-2", ErrPasswordMismatch},
		{"too short", testPassword, "short", "short", ErrPasswordTooShort},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := svc.ChangePassword(ctx, user.ID, tt.current, tt.password, tt.confirm)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	// wrong current wins even when the rest of the request is also bad
	err := svc.ChangePassword(ctx, user.ID, "nope", "a", "b")
	assert.ErrorIs(t, err, ErrInvalidCurrentPassword)

	require.NoError(t, svc.ChangePassword(ctx, user.ID, testPassword, "new-password-1", "new-password-1"))
	_, err = svc.Authenticate(ctx, "ada", "new-password-1")
	require.NoError(t, err)
	_, err = svc.Authenticate(ctx, "ada", testPassword)
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestUpdateProfile(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	user := seedUser(t, svc, "ada")

	updated, err := svc.UpdateProfile(ctx, user.ID, models.UpdateProfileInput{
		FirstName:   "Ada",
		LastName:    "King",
		Alias:       "countess",
		Email:       "ada@example.com",
		Theme:       "dark",
		DisplayPref: "alias",
	})
	require.NoError(t, err)
	assert.Equal(t, "King", updated.LastName)
	assert.Equal(t, models.ThemeDark, updated.Theme)
	assert.Equal(t, "countess", updated.DisplayName())

	_, err = svc.UpdateProfile(ctx, user.ID, models.UpdateProfileInput{
		FirstName:   "Ada",
		LastName:    "King",
		Email:       "ada@example.com",
		Theme:       "sepia",
		DisplayPref: "full",
	})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "theme", verr.Field)

	other := seedUser(t, svc, "grace")
	_, err = svc.UpdateProfile(ctx, other.ID, models.UpdateProfileInput{
		FirstName:   "Grace",
		LastName:    "Hopper",
		Email:       "ada@example.com",
		Theme:       "light",
		DisplayPref: "full",
	})
	assert.ErrorIs(t, err, ErrEmailTaken)
}
