package service

import "errors"

// Business failures are sentinel errors so the HTTP layer can map them to
// statuses with errors.Is. Only store breakage surfaces as wrapped
// unexpected errors.
var (
	// not found
	ErrUserNotFound    = errors.New("user not found")
	ErrOrgNotFound     = errors.New("organization not found")
	ErrProjectNotFound = errors.New("project not found")
	ErrTaskNotFound    = errors.New("task not found")

	// forbidden
	ErrNotManager           = errors.New("only managers may perform this action")
	ErrNotAMember           = errors.New("not a member")
	ErrNotOrgMember         = errors.New("user must belong to the organization first")
	ErrSelfChangeForbidden  = errors.New("cannot change your own role")
	ErrSelfRemovalForbidden = errors.New("cannot remove yourself from the project")
	ErrIsCreator            = errors.New("the creator cannot leave the organization")

	// conflict
	ErrAlreadyMember = errors.New("already a member")
	ErrUsernameTaken = errors.New("username is already taken")
	ErrEmailTaken    = errors.New("email is already registered")
	ErrLastManager   = errors.New("each organization must have at least one manager")

	// validation
	ErrInvalidRole            = errors.New("invalid role")
	ErrInvalidStatus          = errors.New("invalid task status")
	ErrInvalidAssignees       = errors.New("all assignees must be members of the project")
	ErrInvalidCredentials     = errors.New("invalid username or password")
	ErrInvalidCurrentPassword = errors.New("current password is incorrect")
	ErrPasswordUnchanged      = errors.New("new password cannot match the current password")
	ErrPasswordMismatch       = errors.New("passwords do not match")
	ErrPasswordTooShort       = errors.New("password must be at least 8 characters")
)

// ValidationError carries a field-level message for form validation
// failures (lengths, formats, missing fields).
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}

func invalidField(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}
