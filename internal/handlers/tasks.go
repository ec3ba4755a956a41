package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"munera-backend/internal/models"
)

// CreateTask creates a task with an initial assignee set; org managers only
// @Summary Create task
// @Tags tasks
// @Accept json
// @Produce json
// @Param task body models.TaskInput true "Task fields and assignees"
// @Security BearerAuth
// @Router /projects/{projectID}/tasks [post]
func (h *Handler) CreateTask(w http.ResponseWriter, r *http.Request) {
	userID, ok := actorID(w, r)
	if !ok {
		return
	}
	projectID := chi.URLParam(r, "projectID")

	var input models.TaskInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	task, err := h.svc.CreateTask(r.Context(), userID, projectID, input)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, task)
}

// TaskDetail returns the task and its assignees
// @Summary Task detail
// @Tags tasks
// @Produce json
// @Security BearerAuth
// @Router /tasks/{taskID} [get]
func (h *Handler) TaskDetail(w http.ResponseWriter, r *http.Request) {
	userID, ok := actorID(w, r)
	if !ok {
		return
	}
	taskID := chi.URLParam(r, "taskID")

	task, err := h.svc.GetTask(r.Context(), userID, taskID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	assignees, err := h.svc.ListTaskAssignees(r.Context(), userID, taskID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"task":      task,
		"assignees": assignees,
	})
}

// UpdateTask updates fields and reconciles the assignee set to match the
// request exactly
// @Summary Update task
// @Tags tasks
// @Accept json
// @Produce json
// @Param task body models.TaskInput true "Task fields and assignees"
// @Security BearerAuth
// @Router /tasks/{taskID} [put]
func (h *Handler) UpdateTask(w http.ResponseWriter, r *http.Request) {
	userID, ok := actorID(w, r)
	if !ok {
		return
	}
	taskID := chi.URLParam(r, "taskID")

	var input models.TaskInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	task, err := h.svc.UpdateTask(r.Context(), userID, taskID, input)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, task)
}

// DeleteTask removes the task; org managers only
// @Summary Delete task
// @Tags tasks
// @Produce json
// @Security BearerAuth
// @Router /tasks/{taskID} [delete]
func (h *Handler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	userID, ok := actorID(w, r)
	if !ok {
		return
	}
	taskID := chi.URLParam(r, "taskID")

	if err := h.svc.DeleteTask(r.Context(), userID, taskID); err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}
