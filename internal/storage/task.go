package storage

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"munera-backend/internal/models"
)

const taskColumns = `id, project_id, name, description, status, due_date`

// CreateTask inserts the task and its initial assignment set in one
// transaction. Assignee membership validation is the caller's job.
func (s *Storage) CreateTask(ctx context.Context, task *models.Task, assigneeIDs []string) error {
	return s.withTx(ctx, func(tx *sqlx.Tx) error {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO tasks (id, project_id, name, description, status, due_date)
			VALUES ($1, $2, $3, $4, $5, $6)
		`, task.ID, task.ProjectID, task.Name, task.Description, task.Status, task.DueDate)
		if err != nil {
			return err
		}
		return insertAssignments(ctx, tx, task.ID, assigneeIDs)
	})
}

// UpdateTask updates the task's fields and reconciles its assignment set to
// exactly match assigneeIDs: stale assignments are deleted and missing ones
// inserted, all in the same transaction as the field update.
func (s *Storage) UpdateTask(ctx context.Context, task *models.Task, assigneeIDs []string) error {
	return s.withTx(ctx, func(tx *sqlx.Tx) error {
		_, err := tx.ExecContext(ctx, `
			UPDATE tasks
			SET name = $1, description = $2, status = $3, due_date = $4
			WHERE id = $5
		`, task.Name, task.Description, task.Status, task.DueDate, task.ID)
		if err != nil {
			return err
		}

		keep := assigneeIDs
		if keep == nil {
			keep = []string{}
		}
		_, err = tx.ExecContext(ctx, `
			DELETE FROM task_assignments
			WHERE task_id = $1 AND NOT (user_id = ANY($2))
		`, task.ID, pq.Array(keep))
		if err != nil {
			return err
		}

		return insertAssignments(ctx, tx, task.ID, assigneeIDs)
	})
}

func insertAssignments(ctx context.Context, tx *sqlx.Tx, taskID string, userIDs []string) error {
	for _, userID := range userIDs {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO task_assignments (task_id, user_id)
			VALUES ($1, $2)
			ON CONFLICT (task_id, user_id) DO NOTHING
		`, taskID, userID)
		if err != nil {
			return err
		}
	}
	return nil
}

func (s *Storage) GetTask(ctx context.Context, id string) (*models.Task, error) {
	var task models.Task
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE id = $1`
	if err := s.db.GetContext(ctx, &task, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &task, nil
}

func (s *Storage) DeleteTask(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = $1`, id)
	return err
}

func (s *Storage) ListProjectTasks(ctx context.Context, projectID string) ([]models.Task, error) {
	tasks := make([]models.Task, 0)
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE project_id = $1 ORDER BY due_date NULLS LAST, name`
	err := s.db.SelectContext(ctx, &tasks, query, projectID)
	return tasks, err
}

func (s *Storage) ListTaskAssignments(ctx context.Context, taskID string) ([]models.TaskAssignment, error) {
	assignments := make([]models.TaskAssignment, 0)
	query := `SELECT task_id, user_id, assigned_at FROM task_assignments WHERE task_id = $1 ORDER BY assigned_at`
	err := s.db.SelectContext(ctx, &assignments, query, taskID)
	return assignments, err
}
