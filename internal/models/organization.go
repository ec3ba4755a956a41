package models

import "time"

type OrgRole string

const (
	OrgRoleManager OrgRole = "Manager"
	OrgRoleMember  OrgRole = "Member"
)

func ParseOrgRole(s string) (OrgRole, bool) {
	switch OrgRole(s) {
	case OrgRoleManager, OrgRoleMember:
		return OrgRole(s), true
	}
	return "", false
}

type Organization struct {
	ID          string    `json:"id" db:"id"`
	CreatorID   string    `json:"creator_id" db:"creator_id"`
	Name        string    `json:"name" db:"name"`
	Code        string    `json:"code" db:"code"`
	Description string    `json:"description,omitempty" db:"description"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}

// OrgMembership relates a user to an organization with a role.
// (org_id, user_id) is unique at the store level.
type OrgMembership struct {
	OrgID    string    `json:"org_id" db:"org_id"`
	UserID   string    `json:"user_id" db:"user_id"`
	Role     OrgRole   `json:"role" db:"role"`
	JoinedAt time.Time `json:"joined_at" db:"joined_at"`
}

type CreateOrganizationInput struct {
	Name        string `json:"name" validate:"required,max=30"`
	Description string `json:"description,omitempty" validate:"max=500"`
}
