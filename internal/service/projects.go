package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"munera-backend/internal/authz"
	"munera-backend/internal/models"
	"munera-backend/internal/storage"
)

// CreateProject requires org-Manager status and atomically creates the
// project with a Manager project-membership for the creator.
func (s *Service) CreateProject(ctx context.Context, actorID, orgID string, input models.CreateProjectInput) (*models.Project, error) {
	org, err := s.store.GetOrganization(ctx, orgID)
	if err != nil {
		return nil, fmt.Errorf("get organization: %w", err)
	}
	if org == nil {
		return nil, ErrOrgNotFound
	}

	manager, err := authz.IsOrgManager(ctx, s.store, actorID, orgID)
	if err != nil {
		return nil, err
	}
	if !manager {
		return nil, ErrNotManager
	}

	if input.Name == "" {
		return nil, invalidField("name", "is required")
	}
	if len(input.Name) > 100 {
		return nil, invalidField("name", "must be 100 characters or less")
	}

	project := &models.Project{
		ID:          uuid.New().String(),
		OrgID:       orgID,
		CreatedBy:   actorID,
		Name:        input.Name,
		Description: input.Description,
		StartDate:   input.StartDate,
		EndDate:     input.EndDate,
	}
	if err := s.store.CreateProject(ctx, project); err != nil {
		return nil, fmt.Errorf("create project: %w", err)
	}

	s.publish("munera.events.project.created", map[string]string{
		"project_id": project.ID,
		"org_id":     orgID,
		"creator_id": actorID,
	})
	return project, nil
}

// GetProject returns the project to members of its organization.
func (s *Service) GetProject(ctx context.Context, actorID, projectID string) (*models.Project, error) {
	project, err := s.store.GetProject(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("get project: %w", err)
	}
	if project == nil {
		return nil, ErrProjectNotFound
	}

	member, err := authz.IsOrgMember(ctx, s.store, actorID, project.OrgID)
	if err != nil {
		return nil, err
	}
	if !member {
		return nil, ErrNotAMember
	}
	return project, nil
}

func (s *Service) ListMyProjects(ctx context.Context, actorID string) ([]models.Project, error) {
	return s.store.ListUserProjects(ctx, actorID)
}

// ListOrgProjectsFor lists an organization's projects for one of its
// members.
func (s *Service) ListOrgProjectsFor(ctx context.Context, actorID, orgID string) ([]models.Project, error) {
	if _, err := s.GetOrganization(ctx, actorID, orgID); err != nil {
		return nil, err
	}
	return s.store.ListOrgProjects(ctx, orgID)
}

func (s *Service) ListProjectMembers(ctx context.Context, actorID, projectID string) ([]models.ProjectMembership, error) {
	if _, err := s.GetProject(ctx, actorID, projectID); err != nil {
		return nil, err
	}
	return s.store.ListProjectMemberships(ctx, projectID)
}

// DeleteProject is gated on managing the owning organization, not on any
// project-level role.
func (s *Service) DeleteProject(ctx context.Context, actorID, projectID string) error {
	project, err := s.store.GetProject(ctx, projectID)
	if err != nil {
		return fmt.Errorf("get project: %w", err)
	}
	if project == nil {
		return ErrProjectNotFound
	}

	manager, err := authz.IsProjectManager(ctx, s.store, actorID, project)
	if err != nil {
		return err
	}
	if !manager {
		return ErrNotManager
	}

	if err := s.store.DeleteProject(ctx, projectID); err != nil {
		return fmt.Errorf("delete project: %w", err)
	}

	s.publish("munera.events.project.deleted", map[string]string{
		"project_id": projectID,
		"actor_id":   actorID,
	})
	return nil
}

// AddProjectMember checks, in order: the actor manages the project's
// organization, the target user exists, the target is not already a project
// member, and the target belongs to the organization. Membership linkage to
// the organization is validated only here, on add: revoking someone's org
// membership later leaves their project memberships in place (a known,
// preserved consistency gap).
func (s *Service) AddProjectMember(ctx context.Context, actorID, projectID, username string) (*models.ProjectMembership, error) {
	project, err := s.store.GetProject(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("get project: %w", err)
	}
	if project == nil {
		return nil, ErrProjectNotFound
	}

	manager, err := authz.IsProjectManager(ctx, s.store, actorID, project)
	if err != nil {
		return nil, err
	}
	if !manager {
		return nil, ErrNotManager
	}

	user, err := s.store.GetUserByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("look up user: %w", err)
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	existing, err := s.store.GetProjectMembership(ctx, projectID, user.ID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrAlreadyMember
	}

	orgMember, err := authz.IsOrgMember(ctx, s.store, user.ID, project.OrgID)
	if err != nil {
		return nil, err
	}
	if !orgMember {
		return nil, ErrNotOrgMember
	}

	m := &models.ProjectMembership{
		ProjectID: projectID,
		UserID:    user.ID,
		Role:      models.ProjectRoleMember,
	}
	if err := s.store.CreateProjectMembership(ctx, m); err != nil {
		if errors.Is(err, storage.ErrDuplicateMembership) {
			return nil, ErrAlreadyMember
		}
		return nil, fmt.Errorf("add project member: %w", err)
	}

	s.publish("munera.events.project.member_added", map[string]string{
		"project_id": projectID,
		"user_id":    user.ID,
	})
	return m, nil
}

func (s *Service) RemoveProjectMember(ctx context.Context, actorID, projectID, targetID string) error {
	project, err := s.store.GetProject(ctx, projectID)
	if err != nil {
		return fmt.Errorf("get project: %w", err)
	}
	if project == nil {
		return ErrProjectNotFound
	}

	manager, err := authz.IsProjectManager(ctx, s.store, actorID, project)
	if err != nil {
		return err
	}
	if !manager {
		return ErrNotManager
	}
	if targetID == actorID {
		return ErrSelfRemovalForbidden
	}

	membership, err := s.store.GetProjectMembership(ctx, projectID, targetID)
	if err != nil {
		return err
	}
	if membership == nil {
		return ErrNotAMember
	}

	if err := s.store.DeleteProjectMembership(ctx, projectID, targetID); err != nil {
		return fmt.Errorf("remove project member: %w", err)
	}

	s.publish("munera.events.project.member_removed", map[string]string{
		"project_id": projectID,
		"user_id":    targetID,
	})
	return nil
}
