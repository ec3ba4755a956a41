// Package authz holds the role predicates every mutation is gated on.
// Predicates only read membership state; they never mutate it.
package authz

import (
	"context"

	"munera-backend/internal/models"
)

// MembershipReader is the slice of the store the predicates need.
type MembershipReader interface {
	GetOrgMembership(ctx context.Context, orgID, userID string) (*models.OrgMembership, error)
	GetProjectMembership(ctx context.Context, projectID, userID string) (*models.ProjectMembership, error)
}

func IsOrgMember(ctx context.Context, r MembershipReader, userID, orgID string) (bool, error) {
	m, err := r.GetOrgMembership(ctx, orgID, userID)
	if err != nil {
		return false, err
	}
	return m != nil, nil
}

func IsOrgManager(ctx context.Context, r MembershipReader, userID, orgID string) (bool, error) {
	m, err := r.GetOrgMembership(ctx, orgID, userID)
	if err != nil {
		return false, err
	}
	return m != nil && m.Role == models.OrgRoleManager, nil
}

// IsProjectManager intentionally delegates to org-manager status: project
// administrative rights follow the organizational hierarchy and are not
// independently grantable. A project-level Manager role affects display
// only, never permission.
func IsProjectManager(ctx context.Context, r MembershipReader, userID string, project *models.Project) (bool, error) {
	return IsOrgManager(ctx, r, userID, project.OrgID)
}

func IsProjectMember(ctx context.Context, r MembershipReader, userID, projectID string) (bool, error) {
	m, err := r.GetProjectMembership(ctx, projectID, userID)
	if err != nil {
		return false, err
	}
	return m != nil, nil
}
