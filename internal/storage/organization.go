package storage

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"munera-backend/internal/models"
)

// CreateOrganization inserts the organization and its creator's Manager
// membership in one transaction: an organization is never visible without
// a manager.
func (s *Storage) CreateOrganization(ctx context.Context, org *models.Organization) error {
	return s.withTx(ctx, func(tx *sqlx.Tx) error {
		query := `
			INSERT INTO organizations (id, creator_id, name, code, description)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING created_at
		`
		err := tx.QueryRowContext(ctx, query,
			org.ID, org.CreatorID, org.Name, org.Code, org.Description,
		).Scan(&org.CreatedAt)
		if err != nil {
			if uniqueConstraint(err) == "organizations_code_key" {
				return ErrCodeTaken
			}
			return err
		}

		_, err = tx.ExecContext(ctx, `
			INSERT INTO org_memberships (org_id, user_id, role)
			VALUES ($1, $2, $3)
		`, org.ID, org.CreatorID, models.OrgRoleManager)
		return err
	})
}

func (s *Storage) GetOrganization(ctx context.Context, id string) (*models.Organization, error) {
	var org models.Organization
	query := `SELECT id, creator_id, name, code, description, created_at FROM organizations WHERE id = $1`
	if err := s.db.GetContext(ctx, &org, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &org, nil
}

func (s *Storage) GetOrganizationByCode(ctx context.Context, code string) (*models.Organization, error) {
	var org models.Organization
	query := `SELECT id, creator_id, name, code, description, created_at FROM organizations WHERE code = $1`
	if err := s.db.GetContext(ctx, &org, query, code); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &org, nil
}

func (s *Storage) OrgCodeExists(ctx context.Context, code string) (bool, error) {
	var exists bool
	query := `SELECT EXISTS (SELECT 1 FROM organizations WHERE code = $1)`
	if err := s.db.GetContext(ctx, &exists, query, code); err != nil {
		return false, err
	}
	return exists, nil
}

// DeleteOrganization removes the organization; projects, tasks, memberships
// and assignments beneath it go with it via ON DELETE CASCADE.
func (s *Storage) DeleteOrganization(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM organizations WHERE id = $1`, id)
	return err
}

func (s *Storage) ListUserOrganizations(ctx context.Context, userID string) ([]models.Organization, error) {
	orgs := make([]models.Organization, 0)
	query := `
		SELECT o.id, o.creator_id, o.name, o.code, o.description, o.created_at
		FROM organizations o
		JOIN org_memberships m ON m.org_id = o.id
		WHERE m.user_id = $1
		ORDER BY o.created_at
	`
	err := s.db.SelectContext(ctx, &orgs, query, userID)
	return orgs, err
}

func (s *Storage) GetOrgMembership(ctx context.Context, orgID, userID string) (*models.OrgMembership, error) {
	var m models.OrgMembership
	query := `SELECT org_id, user_id, role, joined_at FROM org_memberships WHERE org_id = $1 AND user_id = $2`
	if err := s.db.GetContext(ctx, &m, query, orgID, userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &m, nil
}

func (s *Storage) ListOrgMemberships(ctx context.Context, orgID string) ([]models.OrgMembership, error) {
	memberships := make([]models.OrgMembership, 0)
	query := `SELECT org_id, user_id, role, joined_at FROM org_memberships WHERE org_id = $1 ORDER BY joined_at`
	err := s.db.SelectContext(ctx, &memberships, query, orgID)
	return memberships, err
}

// CreateOrgMembership relies on the (org_id, user_id) primary key to reject
// duplicates, so concurrent joins with the same code fail idempotently.
func (s *Storage) CreateOrgMembership(ctx context.Context, m *models.OrgMembership) error {
	query := `
		INSERT INTO org_memberships (org_id, user_id, role)
		VALUES ($1, $2, $3)
		RETURNING joined_at
	`
	err := s.db.QueryRowContext(ctx, query, m.OrgID, m.UserID, m.Role).Scan(&m.JoinedAt)
	if err != nil {
		if uniqueConstraint(err) == "org_memberships_pkey" {
			return ErrDuplicateMembership
		}
		return err
	}
	return nil
}

func (s *Storage) DeleteOrgMembership(ctx context.Context, orgID, userID string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM org_memberships WHERE org_id = $1 AND user_id = $2`, orgID, userID)
	return err
}

func (s *Storage) CountOrgManagers(ctx context.Context, orgID string) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM org_memberships WHERE org_id = $1 AND role = $2`
	if err := s.db.GetContext(ctx, &count, query, orgID, models.OrgRoleManager); err != nil {
		return 0, err
	}
	return count, nil
}

// UpdateOrgMemberRole changes a member's role. When the change demotes a
// manager it locks the organization's manager rows and re-counts them in
// the same transaction, so two racing demotions cannot drop the last
// manager: the second one blocks, re-reads, and gets ErrManagerFloor.
func (s *Storage) UpdateOrgMemberRole(ctx context.Context, orgID, userID string, role models.OrgRole) error {
	return s.withTx(ctx, func(tx *sqlx.Tx) error {
		var current models.OrgRole
		err := tx.QueryRowContext(ctx, `
			SELECT role FROM org_memberships
			WHERE org_id = $1 AND user_id = $2
			FOR UPDATE
		`, orgID, userID).Scan(&current)
		if err != nil {
			return err
		}

		if current == models.OrgRoleManager && role != models.OrgRoleManager {
			var managers []string
			err := tx.SelectContext(ctx, &managers, `
				SELECT user_id FROM org_memberships
				WHERE org_id = $1 AND role = $2
				FOR UPDATE
			`, orgID, models.OrgRoleManager)
			if err != nil {
				return err
			}
			if len(managers) <= 1 {
				return ErrManagerFloor
			}
		}

		_, err = tx.ExecContext(ctx, `
			UPDATE org_memberships SET role = $1
			WHERE org_id = $2 AND user_id = $3
		`, role, orgID, userID)
		return err
	})
}
