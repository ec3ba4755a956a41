package models

import "time"

type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

func ParseTheme(s string) (Theme, bool) {
	switch Theme(s) {
	case ThemeLight, ThemeDark:
		return Theme(s), true
	}
	return "", false
}

// DisplayPreference controls which name a user is shown as across the app.
type DisplayPreference string

const (
	DisplayFullName DisplayPreference = "full"
	DisplayUsername DisplayPreference = "username"
	DisplayAlias    DisplayPreference = "alias"
)

func ParseDisplayPreference(s string) (DisplayPreference, bool) {
	switch DisplayPreference(s) {
	case DisplayFullName, DisplayUsername, DisplayAlias:
		return DisplayPreference(s), true
	}
	return "", false
}

type User struct {
	ID           string            `json:"id" db:"id"`
	FirstName    string            `json:"first_name" db:"first_name"`
	LastName     string            `json:"last_name" db:"last_name"`
	Alias        string            `json:"alias,omitempty" db:"alias"`
	Email        string            `json:"email" db:"email"`
	Username     string            `json:"username" db:"username"`
	PasswordHash string            `json:"-" db:"password_hash"`
	Theme        Theme             `json:"theme" db:"theme"`
	DisplayPref  DisplayPreference `json:"display_name_preference" db:"display_name_preference"`
	LastLogin    *time.Time        `json:"last_login,omitempty" db:"last_login"`
	CreatedAt    time.Time         `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time         `json:"updated_at" db:"updated_at"`
}

// DisplayName resolves the user's preferred display form. An alias
// preference without an alias set falls back to the full name.
func (u *User) DisplayName() string {
	switch u.DisplayPref {
	case DisplayAlias:
		if u.Alias != "" {
			return u.Alias
		}
	case DisplayUsername:
		return u.Username
	}
	return u.FirstName + " " + u.LastName
}

type CreateUserInput struct {
	FirstName       string `json:"first_name" validate:"required,max=20"`
	LastName        string `json:"last_name" validate:"required,max=30"`
	Alias           string `json:"alias,omitempty" validate:"max=30"`
	Email           string `json:"email" validate:"required,email,max=60"`
	Username        string `json:"username" validate:"required,max=30"`
	Password        string `json:"password" validate:"required,min=8"`
	PasswordConfirm string `json:"password_confirm" validate:"required"`
}

type UpdateProfileInput struct {
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	Alias       string `json:"alias"`
	Email       string `json:"email"`
	Theme       string `json:"theme"`
	DisplayPref string `json:"display_name_preference"`
}
