package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"munera-backend/internal/models"
)

// MyProjects lists projects visible to the caller
// @Summary List my projects
// @Tags projects
// @Produce json
// @Security BearerAuth
// @Router /projects [get]
func (h *Handler) MyProjects(w http.ResponseWriter, r *http.Request) {
	userID, ok := actorID(w, r)
	if !ok {
		return
	}

	projects, err := h.svc.ListMyProjects(r.Context(), userID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"projects": projects})
}

// CreateProject creates a project in an organization; org managers only
// @Summary Create project
// @Tags projects
// @Accept json
// @Produce json
// @Param project body models.CreateProjectInput true "Project details"
// @Security BearerAuth
// @Router /orgs/{orgID}/projects [post]
func (h *Handler) CreateProject(w http.ResponseWriter, r *http.Request) {
	userID, ok := actorID(w, r)
	if !ok {
		return
	}
	orgID := chi.URLParam(r, "orgID")

	var input models.CreateProjectInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	project, err := h.svc.CreateProject(r.Context(), userID, orgID, input)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, project)
}

// ProjectDetail returns the project, its members and its tasks
// @Summary Project detail
// @Tags projects
// @Produce json
// @Security BearerAuth
// @Router /projects/{projectID} [get]
func (h *Handler) ProjectDetail(w http.ResponseWriter, r *http.Request) {
	userID, ok := actorID(w, r)
	if !ok {
		return
	}
	projectID := chi.URLParam(r, "projectID")

	project, err := h.svc.GetProject(r.Context(), userID, projectID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	members, err := h.svc.ListProjectMembers(r.Context(), userID, projectID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	tasks, err := h.svc.ListProjectTasks(r.Context(), userID, projectID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"project": project,
		"members": members,
		"tasks":   tasks,
	})
}

// DeleteProject removes the project and its tasks; org managers only
// @Summary Delete project
// @Tags projects
// @Produce json
// @Security BearerAuth
// @Router /projects/{projectID} [delete]
func (h *Handler) DeleteProject(w http.ResponseWriter, r *http.Request) {
	userID, ok := actorID(w, r)
	if !ok {
		return
	}
	projectID := chi.URLParam(r, "projectID")

	if err := h.svc.DeleteProject(r.Context(), userID, projectID); err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

type addMemberRequest struct {
	Username string `json:"username"`
}

// AddProjectMember adds an org member to the project by username
// @Summary Add project member
// @Tags projects
// @Accept json
// @Produce json
// @Security BearerAuth
// @Router /projects/{projectID}/members [post]
func (h *Handler) AddProjectMember(w http.ResponseWriter, r *http.Request) {
	userID, ok := actorID(w, r)
	if !ok {
		return
	}
	projectID := chi.URLParam(r, "projectID")

	var req addMemberRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.Username == "" {
		http.Error(w, "Username required", http.StatusBadRequest)
		return
	}

	membership, err := h.svc.AddProjectMember(r.Context(), userID, projectID, req.Username)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, membership)
}

// RemoveProjectMember removes a member from the project; managers only
// @Summary Remove project member
// @Tags projects
// @Produce json
// @Security BearerAuth
// @Router /projects/{projectID}/members/{userID} [delete]
func (h *Handler) RemoveProjectMember(w http.ResponseWriter, r *http.Request) {
	userID, ok := actorID(w, r)
	if !ok {
		return
	}
	projectID := chi.URLParam(r, "projectID")
	targetID := chi.URLParam(r, "userID")

	if err := h.svc.RemoveProjectMember(r.Context(), userID, projectID, targetID); err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}
