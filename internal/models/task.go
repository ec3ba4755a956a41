package models

import "time"

// TaskStatus is an ordered progression but not a state machine: any
// transition between valid statuses is allowed.
type TaskStatus string

const (
	StatusToDo       TaskStatus = "To Do"
	StatusInProgress TaskStatus = "In Progress"
	StatusTesting    TaskStatus = "Testing"
	StatusDone       TaskStatus = "Done"
)

func ParseTaskStatus(s string) (TaskStatus, bool) {
	switch TaskStatus(s) {
	case StatusToDo, StatusInProgress, StatusTesting, StatusDone:
		return TaskStatus(s), true
	}
	return "", false
}

type Task struct {
	ID          string     `json:"id" db:"id"`
	ProjectID   string     `json:"project_id" db:"project_id"`
	Name        string     `json:"name" db:"name"`
	Description string     `json:"description,omitempty" db:"description"`
	Status      TaskStatus `json:"status" db:"status"`
	DueDate     *time.Time `json:"due_date,omitempty" db:"due_date"`
}

// TaskAssignment relates a user to a task. (task_id, user_id) is unique
// at the store level; assignees must be project members when assigned.
type TaskAssignment struct {
	TaskID     string    `json:"task_id" db:"task_id"`
	UserID     string    `json:"user_id" db:"user_id"`
	AssignedAt time.Time `json:"assigned_at" db:"assigned_at"`
}

type TaskInput struct {
	Name        string     `json:"name" validate:"required,max=100"`
	Description string     `json:"description,omitempty"`
	Status      string     `json:"status" validate:"required"`
	DueDate     *time.Time `json:"due_date,omitempty"`
	AssigneeIDs []string   `json:"assignee_ids"`
}
