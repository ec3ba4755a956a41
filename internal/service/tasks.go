package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"munera-backend/internal/authz"
	"munera-backend/internal/models"
)

func (s *Service) validateTaskInput(input models.TaskInput) (models.TaskStatus, error) {
	if input.Name == "" {
		return "", invalidField("name", "is required")
	}
	if len(input.Name) > 100 {
		return "", invalidField("name", "must be 100 characters or less")
	}
	status, ok := models.ParseTaskStatus(input.Status)
	if !ok {
		return "", ErrInvalidStatus
	}
	return status, nil
}

// checkAssignees verifies every assignee is a current member of the
// project. Assignment always goes through this check; nothing else may
// write assignment rows.
func (s *Service) checkAssignees(ctx context.Context, projectID string, assigneeIDs []string) error {
	for _, userID := range assigneeIDs {
		m, err := s.store.GetProjectMembership(ctx, projectID, userID)
		if err != nil {
			return err
		}
		if m == nil {
			return ErrInvalidAssignees
		}
	}
	return nil
}

// CreateTask requires the actor to manage the project's organization. The
// task and its initial assignments are created atomically.
func (s *Service) CreateTask(ctx context.Context, actorID, projectID string, input models.TaskInput) (*models.Task, error) {
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

	status, err := s.validateTaskInput(input)
	if err != nil {
		return nil, err
	}
	if err := s.checkAssignees(ctx, projectID, input.AssigneeIDs); err != nil {
		return nil, err
	}

	task := &models.Task{
		ID:          uuid.New().String(),
		ProjectID:   projectID,
		Name:        input.Name,
		Description: input.Description,
		Status:      status,
		DueDate:     input.DueDate,
	}
	if err := s.store.CreateTask(ctx, task, input.AssigneeIDs); err != nil {
		return nil, fmt.Errorf("create task: %w", err)
	}

	s.publish("munera.events.task.created", map[string]string{
		"task_id":    task.ID,
		"project_id": projectID,
		"actor_id":   actorID,
	})
	return task, nil
}

// UpdateTask updates fields and reconciles the assignment set to exactly
// match input.AssigneeIDs in one atomic operation: stale assignments go,
// kept ones stay, new ones are added. Status may move in any direction;
// only enum validity is enforced.
func (s *Service) UpdateTask(ctx context.Context, actorID, taskID string, input models.TaskInput) (*models.Task, error) {
	task, err := s.store.GetTask(ctx, taskID)
	if err != nil {
		return nil, fmt.Errorf("get task: %w", err)
	}
	if task == nil {
		return nil, ErrTaskNotFound
	}

	project, err := s.store.GetProject(ctx, task.ProjectID)
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

	status, err := s.validateTaskInput(input)
	if err != nil {
		return nil, err
	}
	if err := s.checkAssignees(ctx, task.ProjectID, input.AssigneeIDs); err != nil {
		return nil, err
	}

	task.Name = input.Name
	task.Description = input.Description
	task.Status = status
	task.DueDate = input.DueDate

	if err := s.store.UpdateTask(ctx, task, input.AssigneeIDs); err != nil {
		return nil, fmt.Errorf("update task: %w", err)
	}

	s.publish("munera.events.task.updated", map[string]string{
		"task_id":  taskID,
		"actor_id": actorID,
		"status":   string(status),
	})
	return task, nil
}

// GetTask returns the task to members of the owning organization.
func (s *Service) GetTask(ctx context.Context, actorID, taskID string) (*models.Task, error) {
	task, err := s.store.GetTask(ctx, taskID)
	if err != nil {
		return nil, fmt.Errorf("get task: %w", err)
	}
	if task == nil {
		return nil, ErrTaskNotFound
	}

	project, err := s.store.GetProject(ctx, task.ProjectID)
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
	return task, nil
}

func (s *Service) ListProjectTasks(ctx context.Context, actorID, projectID string) ([]models.Task, error) {
	if _, err := s.GetProject(ctx, actorID, projectID); err != nil {
		return nil, err
	}
	return s.store.ListProjectTasks(ctx, projectID)
}

func (s *Service) ListTaskAssignees(ctx context.Context, actorID, taskID string) ([]models.TaskAssignment, error) {
	if _, err := s.GetTask(ctx, actorID, taskID); err != nil {
		return nil, err
	}
	return s.store.ListTaskAssignments(ctx, taskID)
}

func (s *Service) DeleteTask(ctx context.Context, actorID, taskID string) error {
	task, err := s.store.GetTask(ctx, taskID)
	if err != nil {
		return fmt.Errorf("get task: %w", err)
	}
	if task == nil {
		return ErrTaskNotFound
	}

	project, err := s.store.GetProject(ctx, task.ProjectID)
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

	if err := s.store.DeleteTask(ctx, taskID); err != nil {
		return fmt.Errorf("delete task: %w", err)
	}

	s.publish("munera.events.task.deleted", map[string]string{
		"task_id":  taskID,
		"actor_id": actorID,
	})
	return nil
}
