package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"munera-backend/internal/models"
)

const testPassword = "correct-horse-battery"

func newTestService(t *testing.T) (*Service, *memStore) {
	t.Helper()
	store := newMemStore()
	return New(store, nil), store
}

func seedUser(t *testing.T, svc *Service, username string) *models.User {
	t.Helper()
	user, err := svc.CreateUser(context.Background(), models.CreateUserInput{
		FirstName:       "Test",
		LastName:        "User",
		Email:           username + "@example.com",
		Username:        username,
		Password:        testPassword,
		PasswordConfirm: testPassword,
	})
	require.NoError(t, err)
	return user
}

func seedOrg(t *testing.T, svc *Service, creatorID, name string) *models.Organization {
	t.Helper()
	org, err := svc.CreateOrganization(context.Background(), creatorID, models.CreateOrganizationInput{
		Name: name,
	})
	require.NoError(t, err)
	return org
}

func seedMember(t *testing.T, svc *Service, org *models.Organization, username string) *models.User {
	t.Helper()
	user := seedUser(t, svc, username)
	_, err := svc.JoinOrganization(context.Background(), user.ID, org.Code)
	require.NoError(t, err)
	return user
}

func seedProject(t *testing.T, svc *Service, creatorID, orgID, name string) *models.Project {
	t.Helper()
	project, err := svc.CreateProject(context.Background(), creatorID, orgID, models.CreateProjectInput{
		Name: name,
	})
	require.NoError(t, err)
	return project
}
