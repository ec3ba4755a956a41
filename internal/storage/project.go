package storage

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"munera-backend/internal/models"
)

const projectColumns = `id, org_id, created_by, name, description, start_date, end_date`

// CreateProject inserts the project and its creator's Manager membership in
// one transaction.
func (s *Storage) CreateProject(ctx context.Context, project *models.Project) error {
	return s.withTx(ctx, func(tx *sqlx.Tx) error {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO projects (id, org_id, created_by, name, description, start_date, end_date)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
		`, project.ID, project.OrgID, project.CreatedBy, project.Name,
			project.Description, project.StartDate, project.EndDate)
		if err != nil {
			return err
		}

		_, err = tx.ExecContext(ctx, `
			INSERT INTO project_memberships (project_id, user_id, role)
			VALUES ($1, $2, $3)
		`, project.ID, project.CreatedBy, models.ProjectRoleManager)
		return err
	})
}

func (s *Storage) GetProject(ctx context.Context, id string) (*models.Project, error) {
	var project models.Project
	query := `SELECT ` + projectColumns + ` FROM projects WHERE id = $1`
	if err := s.db.GetContext(ctx, &project, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &project, nil
}

// DeleteProject removes the project; memberships, tasks and assignments
// cascade at the store level.
func (s *Storage) DeleteProject(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM projects WHERE id = $1`, id)
	return err
}

func (s *Storage) ListOrgProjects(ctx context.Context, orgID string) ([]models.Project, error) {
	projects := make([]models.Project, 0)
	query := `SELECT ` + projectColumns + ` FROM projects WHERE org_id = $1 ORDER BY name`
	err := s.db.SelectContext(ctx, &projects, query, orgID)
	return projects, err
}

// ListUserProjects returns every project in organizations the user belongs
// to, matching the visibility rule of the project listing screens.
func (s *Storage) ListUserProjects(ctx context.Context, userID string) ([]models.Project, error) {
	projects := make([]models.Project, 0)
	query := `
		SELECT DISTINCT p.id, p.org_id, p.created_by, p.name, p.description, p.start_date, p.end_date
		FROM projects p
		JOIN org_memberships m ON m.org_id = p.org_id
		WHERE m.user_id = $1
		ORDER BY p.name
	`
	err := s.db.SelectContext(ctx, &projects, query, userID)
	return projects, err
}

func (s *Storage) GetProjectMembership(ctx context.Context, projectID, userID string) (*models.ProjectMembership, error) {
	var m models.ProjectMembership
	query := `SELECT project_id, user_id, role, joined_at FROM project_memberships WHERE project_id = $1 AND user_id = $2`
	if err := s.db.GetContext(ctx, &m, query, projectID, userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &m, nil
}

func (s *Storage) ListProjectMemberships(ctx context.Context, projectID string) ([]models.ProjectMembership, error) {
	memberships := make([]models.ProjectMembership, 0)
	query := `SELECT project_id, user_id, role, joined_at FROM project_memberships WHERE project_id = $1 ORDER BY joined_at`
	err := s.db.SelectContext(ctx, &memberships, query, projectID)
	return memberships, err
}

func (s *Storage) CreateProjectMembership(ctx context.Context, m *models.ProjectMembership) error {
	query := `
		INSERT INTO project_memberships (project_id, user_id, role)
		VALUES ($1, $2, $3)
		RETURNING joined_at
	`
	err := s.db.QueryRowContext(ctx, query, m.ProjectID, m.UserID, m.Role).Scan(&m.JoinedAt)
	if err != nil {
		if uniqueConstraint(err) == "project_memberships_pkey" {
			return ErrDuplicateMembership
		}
		return err
	}
	return nil
}

func (s *Storage) DeleteProjectMembership(ctx context.Context, projectID, userID string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM project_memberships WHERE project_id = $1 AND user_id = $2`, projectID, userID)
	return err
}
