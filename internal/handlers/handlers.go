package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	"munera-backend/internal/auth"
	"munera-backend/internal/service"
)

type Handler struct {
	svc *service.Service
}

func New(svc *service.Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes mounts the authenticated API surface. Signup and login
// are registered separately by the caller since they run unauthenticated.
func (h *Handler) RegisterRoutes(r chi.Router) {
	// Organizations
	r.Get("/v1/orgs", h.MyOrganizations)
	r.Post("/v1/orgs", h.CreateOrganization)
	r.Post("/v1/orgs/join", h.JoinOrganization)
	r.Get("/v1/orgs/{orgID}", h.OrganizationDetail)
	r.Delete("/v1/orgs/{orgID}", h.DeleteOrganization)
	r.Post("/v1/orgs/{orgID}/leave", h.LeaveOrganization)
	r.Put("/v1/orgs/{orgID}/members/{userID}/role", h.ChangeOrgRole)
	r.Post("/v1/orgs/{orgID}/projects", h.CreateProject)

	// Projects
	r.Get("/v1/projects", h.MyProjects)
	r.Get("/v1/projects/{projectID}", h.ProjectDetail)
	r.Delete("/v1/projects/{projectID}", h.DeleteProject)
	r.Post("/v1/projects/{projectID}/members", h.AddProjectMember)
	r.Delete("/v1/projects/{projectID}/members/{userID}", h.RemoveProjectMember)
	r.Post("/v1/projects/{projectID}/tasks", h.CreateTask)

	// Tasks
	r.Get("/v1/tasks/{taskID}", h.TaskDetail)
	r.Put("/v1/tasks/{taskID}", h.UpdateTask)
	r.Delete("/v1/tasks/{taskID}", h.DeleteTask)

	// Profile
	r.Put("/v1/users/me", h.UpdateProfile)
	r.Put("/v1/users/me/password", h.ChangePassword)
}

func actorID(w http.ResponseWriter, r *http.Request) (string, bool) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return "", false
	}
	return userID, true
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

// writeServiceError maps the business error taxonomy onto HTTP statuses:
// not-found 404, forbidden 403, conflict 409, validation 400. Anything
// unexpected is a 500.
func writeServiceError(w http.ResponseWriter, err error) {
	var ve *service.ValidationError
	if errors.As(err, &ve) {
		http.Error(w, ve.Error(), http.StatusBadRequest)
		return
	}

	switch {
	case errors.Is(err, service.ErrUserNotFound),
		errors.Is(err, service.ErrOrgNotFound),
		errors.Is(err, service.ErrProjectNotFound),
		errors.Is(err, service.ErrTaskNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)

	case errors.Is(err, service.ErrNotManager),
		errors.Is(err, service.ErrNotAMember),
		errors.Is(err, service.ErrNotOrgMember),
		errors.Is(err, service.ErrSelfChangeForbidden),
		errors.Is(err, service.ErrSelfRemovalForbidden),
		errors.Is(err, service.ErrIsCreator):
		http.Error(w, err.Error(), http.StatusForbidden)

	case errors.Is(err, service.ErrAlreadyMember),
		errors.Is(err, service.ErrUsernameTaken),
		errors.Is(err, service.ErrEmailTaken),
		errors.Is(err, service.ErrLastManager):
		http.Error(w, err.Error(), http.StatusConflict)

	case errors.Is(err, service.ErrInvalidRole),
		errors.Is(err, service.ErrInvalidStatus),
		errors.Is(err, service.ErrInvalidAssignees),
		errors.Is(err, service.ErrInvalidCurrentPassword),
		errors.Is(err, service.ErrPasswordUnchanged),
		errors.Is(err, service.ErrPasswordMismatch),
		errors.Is(err, service.ErrPasswordTooShort):
		http.Error(w, err.Error(), http.StatusBadRequest)

	default:
		log.Printf("ERROR %v", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}
