package authz

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"munera-backend/internal/models"
)

type fakeReader struct {
	orgMemberships  map[string]models.OrgRole     // "orgID/userID" -> role
	projMemberships map[string]models.ProjectRole // "projectID/userID" -> role
}

func (f *fakeReader) GetOrgMembership(_ context.Context, orgID, userID string) (*models.OrgMembership, error) {
	role, ok := f.orgMemberships[orgID+"/"+userID]
	if !ok {
		return nil, nil
	}
	return &models.OrgMembership{OrgID: orgID, UserID: userID, Role: role}, nil
}

func (f *fakeReader) GetProjectMembership(_ context.Context, projectID, userID string) (*models.ProjectMembership, error) {
	role, ok := f.projMemberships[projectID+"/"+userID]
	if !ok {
		return nil, nil
	}
	return &models.ProjectMembership{ProjectID: projectID, UserID: userID, Role: role}, nil
}

func TestOrgPredicates(t *testing.T) {
	ctx := context.Background()
	r := &fakeReader{orgMemberships: map[string]models.OrgRole{
		"org1/alice": models.OrgRoleManager,
		"org1/bob":   models.OrgRoleMember,
	}}

	tests := []struct {
		name        string
		userID      string
		wantMember  bool
		wantManager bool
	}{
		{"manager", "alice", true, true},
		{"member", "bob", true, false},
		{"outsider", "carol", false, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			member, err := IsOrgMember(ctx, r, tt.userID, "org1")
			require.NoError(t, err)
			assert.Equal(t, tt.wantMember, member)

			manager, err := IsOrgManager(ctx, r, tt.userID, "org1")
			require.NoError(t, err)
			assert.Equal(t, tt.wantManager, manager)
		})
	}
}

func TestIsProjectMember(t *testing.T) {
	ctx := context.Background()
	r := &fakeReader{projMemberships: map[string]models.ProjectRole{
		"proj1/bob": models.ProjectRoleMember,
	}}

	member, err := IsProjectMember(ctx, r, "bob", "proj1")
	require.NoError(t, err)
	assert.True(t, member)

	member, err = IsProjectMember(ctx, r, "carol", "proj1")
	require.NoError(t, err)
	assert.False(t, member)
}

// Project manager status is the owning org's manager status; project-level
// roles never factor in.
func TestIsProjectManagerFollowsOrg(t *testing.T) {
	ctx := context.Background()
	r := &fakeReader{
		orgMemberships: map[string]models.OrgRole{
			"org1/alice": models.OrgRoleManager,
			"org1/bob":   models.OrgRoleMember,
		},
		projMemberships: map[string]models.ProjectRole{
			"proj1/bob": models.ProjectRoleManager,
		},
	}
	project := &models.Project{ID: "proj1", OrgID: "org1"}

	// org manager with no project membership
	ok, err := IsProjectManager(ctx, r, "alice", project)
	require.NoError(t, err)
	assert.True(t, ok)

	// project-level Manager who is only an org Member
	ok, err = IsProjectManager(ctx, r, "bob", project)
	require.NoError(t, err)
	assert.False(t, ok)
}
