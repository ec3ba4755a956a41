package models

import "time"

type ProjectRole string

const (
	ProjectRoleManager ProjectRole = "Manager"
	ProjectRoleMember  ProjectRole = "Member"
)

func ParseProjectRole(s string) (ProjectRole, bool) {
	switch ProjectRole(s) {
	case ProjectRoleManager, ProjectRoleMember:
		return ProjectRole(s), true
	}
	return "", false
}

type Project struct {
	ID          string     `json:"id" db:"id"`
	OrgID       string     `json:"org_id" db:"org_id"`
	CreatedBy   string     `json:"created_by" db:"created_by"`
	Name        string     `json:"name" db:"name"`
	Description string     `json:"description,omitempty" db:"description"`
	StartDate   *time.Time `json:"start_date,omitempty" db:"start_date"`
	EndDate     *time.Time `json:"end_date,omitempty" db:"end_date"`
}

// ProjectMembership relates a user to a project with a role.
// (project_id, user_id) is unique at the store level.
type ProjectMembership struct {
	ProjectID string      `json:"project_id" db:"project_id"`
	UserID    string      `json:"user_id" db:"user_id"`
	Role      ProjectRole `json:"role" db:"role"`
	JoinedAt  time.Time   `json:"joined_at" db:"joined_at"`
}

type CreateProjectInput struct {
	Name        string     `json:"name" validate:"required,max=100"`
	Description string     `json:"description,omitempty"`
	StartDate   *time.Time `json:"start_date,omitempty"`
	EndDate     *time.Time `json:"end_date,omitempty"`
}
