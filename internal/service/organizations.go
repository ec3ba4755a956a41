package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"munera-backend/internal/authz"
	"munera-backend/internal/models"
	"munera-backend/internal/storage"
)

// CreateOrganization creates the organization together with its creator's
// Manager membership; the two are atomic at the store level. The join code
// is generated server-side and never user-supplied.
func (s *Service) CreateOrganization(ctx context.Context, creatorID string, input models.CreateOrganizationInput) (*models.Organization, error) {
	if input.Name == "" {
		return nil, invalidField("name", "is required")
	}
	if len(input.Name) > 30 {
		return nil, invalidField("name", "must be 30 characters or less")
	}
	if len(input.Description) > 500 {
		return nil, invalidField("description", "must be 500 characters or less")
	}

	for attempt := 0; attempt < maxCodeAttempts; attempt++ {
		code, err := s.uniqueJoinCode(ctx)
		if err != nil {
			return nil, err
		}

		org := &models.Organization{
			ID:          uuid.New().String(),
			CreatorID:   creatorID,
			Name:        input.Name,
			Code:        code,
			Description: input.Description,
		}
		err = s.store.CreateOrganization(ctx, org)
		if errors.Is(err, storage.ErrCodeTaken) {
			// lost a code race to a concurrent creation; try a fresh one
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("create organization: %w", err)
		}

		s.publish("munera.events.org.created", map[string]string{
			"org_id":     org.ID,
			"creator_id": creatorID,
			"name":       org.Name,
		})
		return org, nil
	}
	return nil, fmt.Errorf("create organization: join code collisions exhausted retries")
}

// GetOrganization returns the organization only to its members.
func (s *Service) GetOrganization(ctx context.Context, actorID, orgID string) (*models.Organization, error) {
	org, err := s.store.GetOrganization(ctx, orgID)
	if err != nil {
		return nil, fmt.Errorf("get organization: %w", err)
	}
	if org == nil {
		return nil, ErrOrgNotFound
	}

	member, err := authz.IsOrgMember(ctx, s.store, actorID, orgID)
	if err != nil {
		return nil, err
	}
	if !member {
		return nil, ErrNotAMember
	}
	return org, nil
}

func (s *Service) ListMyOrganizations(ctx context.Context, actorID string) ([]models.Organization, error) {
	return s.store.ListUserOrganizations(ctx, actorID)
}

func (s *Service) ListOrgMembers(ctx context.Context, actorID, orgID string) ([]models.OrgMembership, error) {
	if _, err := s.GetOrganization(ctx, actorID, orgID); err != nil {
		return nil, err
	}
	return s.store.ListOrgMemberships(ctx, orgID)
}

// JoinOrganization adds the user as a Member. A duplicate join — including
// a concurrent one — fails with ErrAlreadyMember and leaves exactly one
// membership behind.
func (s *Service) JoinOrganization(ctx context.Context, userID, code string) (*models.OrgMembership, error) {
	org, err := s.store.GetOrganizationByCode(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("look up organization: %w", err)
	}
	if org == nil {
		return nil, ErrOrgNotFound
	}

	existing, err := s.store.GetOrgMembership(ctx, org.ID, userID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrAlreadyMember
	}

	m := &models.OrgMembership{
		OrgID:  org.ID,
		UserID: userID,
		Role:   models.OrgRoleMember,
	}
	if err := s.store.CreateOrgMembership(ctx, m); err != nil {
		if errors.Is(err, storage.ErrDuplicateMembership) {
			return nil, ErrAlreadyMember
		}
		return nil, fmt.Errorf("join organization: %w", err)
	}

	s.publish("munera.events.org.member_joined", map[string]string{
		"org_id":  org.ID,
		"user_id": userID,
	})
	return m, nil
}

// LeaveOrganization removes the caller's own membership. The creator can
// never leave; there is no ownership transfer.
func (s *Service) LeaveOrganization(ctx context.Context, userID, orgID string) error {
	org, err := s.store.GetOrganization(ctx, orgID)
	if err != nil {
		return fmt.Errorf("get organization: %w", err)
	}
	if org == nil {
		return ErrOrgNotFound
	}

	membership, err := s.store.GetOrgMembership(ctx, orgID, userID)
	if err != nil {
		return err
	}
	if membership == nil {
		return ErrNotAMember
	}
	if org.CreatorID == userID {
		return ErrIsCreator
	}

	if err := s.store.DeleteOrgMembership(ctx, orgID, userID); err != nil {
		return fmt.Errorf("leave organization: %w", err)
	}

	s.publish("munera.events.org.member_left", map[string]string{
		"org_id":  orgID,
		"user_id": userID,
	})
	return nil
}

// ChangeOrgRole updates a member's role. Checks run in order: acting user
// manages the org, target is not the actor, role is valid, and the change
// would not demote the last manager. The manager floor is re-verified
// inside the store transaction, so races cannot get past it.
func (s *Service) ChangeOrgRole(ctx context.Context, actorID, orgID, targetID, role string) error {
	org, err := s.store.GetOrganization(ctx, orgID)
	if err != nil {
		return fmt.Errorf("get organization: %w", err)
	}
	if org == nil {
		return ErrOrgNotFound
	}

	manager, err := authz.IsOrgManager(ctx, s.store, actorID, orgID)
	if err != nil {
		return err
	}
	if !manager {
		return ErrNotManager
	}
	if targetID == actorID {
		return ErrSelfChangeForbidden
	}
	newRole, ok := models.ParseOrgRole(role)
	if !ok {
		return ErrInvalidRole
	}

	err = s.store.UpdateOrgMemberRole(ctx, orgID, targetID, newRole)
	switch {
	case errors.Is(err, storage.ErrManagerFloor):
		return ErrLastManager
	case errors.Is(err, sql.ErrNoRows):
		return ErrNotAMember
	case err != nil:
		return fmt.Errorf("change role: %w", err)
	}

	s.publish("munera.events.org.role_changed", map[string]string{
		"org_id":  orgID,
		"user_id": targetID,
		"role":    string(newRole),
	})
	return nil
}

// DeleteOrganization requires Manager membership and cascades to every
// project, task, membership and assignment beneath the organization.
func (s *Service) DeleteOrganization(ctx context.Context, actorID, orgID string) error {
	org, err := s.store.GetOrganization(ctx, orgID)
	if err != nil {
		return fmt.Errorf("get organization: %w", err)
	}
	if org == nil {
		return ErrOrgNotFound
	}

	membership, err := s.store.GetOrgMembership(ctx, orgID, actorID)
	if err != nil {
		return err
	}
	if membership == nil {
		return ErrNotAMember
	}
	if membership.Role != models.OrgRoleManager {
		return ErrNotManager
	}

	if err := s.store.DeleteOrganization(ctx, orgID); err != nil {
		return fmt.Errorf("delete organization: %w", err)
	}

	s.publish("munera.events.org.deleted", map[string]string{
		"org_id":   orgID,
		"actor_id": actorID,
	})
	return nil
}
