// Package service is the mutation orchestrator: every state-changing
// operation resolves the actor's membership context, evaluates the
// authorization predicates in a fixed order, and only then applies the
// mutation through the store. Actors arrive as already-resolved user IDs;
// resolving a session token to a user is the transport layer's job.
package service

import (
	"context"
	"time"

	"munera-backend/internal/models"
)

// Store is the persistence surface the orchestrator runs against. The
// postgres implementation lives in internal/storage; tests substitute an
// in-memory one.
type Store interface {
	// users
	CreateUser(ctx context.Context, user *models.User) error
	GetUser(ctx context.Context, id string) (*models.User, error)
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	UpdateUserProfile(ctx context.Context, user *models.User) error
	UpdateUserPassword(ctx context.Context, userID, passwordHash string) error
	UpdateLastLogin(ctx context.Context, userID string, at time.Time) error

	// organizations
	CreateOrganization(ctx context.Context, org *models.Organization) error
	GetOrganization(ctx context.Context, id string) (*models.Organization, error)
	GetOrganizationByCode(ctx context.Context, code string) (*models.Organization, error)
	OrgCodeExists(ctx context.Context, code string) (bool, error)
	DeleteOrganization(ctx context.Context, id string) error
	ListUserOrganizations(ctx context.Context, userID string) ([]models.Organization, error)
	GetOrgMembership(ctx context.Context, orgID, userID string) (*models.OrgMembership, error)
	ListOrgMemberships(ctx context.Context, orgID string) ([]models.OrgMembership, error)
	CreateOrgMembership(ctx context.Context, m *models.OrgMembership) error
	DeleteOrgMembership(ctx context.Context, orgID, userID string) error
	CountOrgManagers(ctx context.Context, orgID string) (int, error)
	UpdateOrgMemberRole(ctx context.Context, orgID, userID string, role models.OrgRole) error

	// projects
	CreateProject(ctx context.Context, project *models.Project) error
	GetProject(ctx context.Context, id string) (*models.Project, error)
	DeleteProject(ctx context.Context, id string) error
	ListOrgProjects(ctx context.Context, orgID string) ([]models.Project, error)
	ListUserProjects(ctx context.Context, userID string) ([]models.Project, error)
	GetProjectMembership(ctx context.Context, projectID, userID string) (*models.ProjectMembership, error)
	ListProjectMemberships(ctx context.Context, projectID string) ([]models.ProjectMembership, error)
	CreateProjectMembership(ctx context.Context, m *models.ProjectMembership) error
	DeleteProjectMembership(ctx context.Context, projectID, userID string) error

	// tasks
	CreateTask(ctx context.Context, task *models.Task, assigneeIDs []string) error
	UpdateTask(ctx context.Context, task *models.Task, assigneeIDs []string) error
	GetTask(ctx context.Context, id string) (*models.Task, error)
	DeleteTask(ctx context.Context, id string) error
	ListProjectTasks(ctx context.Context, projectID string) ([]models.Task, error)
	ListTaskAssignments(ctx context.Context, taskID string) ([]models.TaskAssignment, error)
}

// EventPublisher receives fire-and-forget activity events after successful
// mutations. May be nil when the event bus is not configured.
type EventPublisher interface {
	Publish(subject string, event any)
}

type Service struct {
	store  Store
	events EventPublisher
}

func New(store Store, events EventPublisher) *Service {
	return &Service{store: store, events: events}
}

func (s *Service) publish(subject string, event any) {
	if s.events == nil {
		return
	}
	s.events.Publish(subject, event)
}
