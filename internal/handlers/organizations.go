package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"munera-backend/internal/models"
)

// MyOrganizations lists organizations the caller belongs to
// @Summary List my organizations
// @Tags organizations
// @Produce json
// @Security BearerAuth
// @Router /orgs [get]
func (h *Handler) MyOrganizations(w http.ResponseWriter, r *http.Request) {
	userID, ok := actorID(w, r)
	if !ok {
		return
	}

	orgs, err := h.svc.ListMyOrganizations(r.Context(), userID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"organizations": orgs})
}

// CreateOrganization creates an org with the caller as its sole Manager
// @Summary Create organization
// @Tags organizations
// @Accept json
// @Produce json
// @Param org body models.CreateOrganizationInput true "Organization details"
// @Security BearerAuth
// @Router /orgs [post]
func (h *Handler) CreateOrganization(w http.ResponseWriter, r *http.Request) {
	userID, ok := actorID(w, r)
	if !ok {
		return
	}

	var input models.CreateOrganizationInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	org, err := h.svc.CreateOrganization(r.Context(), userID, input)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, org)
}

type joinRequest struct {
	Code string `json:"code"`
}

// JoinOrganization joins the caller to the org behind a join code
// @Summary Join organization by code
// @Tags organizations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Router /orgs/join [post]
func (h *Handler) JoinOrganization(w http.ResponseWriter, r *http.Request) {
	userID, ok := actorID(w, r)
	if !ok {
		return
	}

	var req joinRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.Code == "" {
		http.Error(w, "Organization code required", http.StatusBadRequest)
		return
	}

	membership, err := h.svc.JoinOrganization(r.Context(), userID, req.Code)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, membership)
}

// OrganizationDetail returns the org, its members and its projects
// @Summary Organization detail
// @Tags organizations
// @Produce json
// @Security BearerAuth
// @Router /orgs/{orgID} [get]
func (h *Handler) OrganizationDetail(w http.ResponseWriter, r *http.Request) {
	userID, ok := actorID(w, r)
	if !ok {
		return
	}
	orgID := chi.URLParam(r, "orgID")

	org, err := h.svc.GetOrganization(r.Context(), userID, orgID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	members, err := h.svc.ListOrgMembers(r.Context(), userID, orgID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	projects, err := h.svc.ListOrgProjectsFor(r.Context(), userID, orgID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"organization": org,
		"members":      members,
		"projects":     projects,
	})
}

// LeaveOrganization removes the caller's own membership
// @Summary Leave organization
// @Tags organizations
// @Produce json
// @Security BearerAuth
// @Router /orgs/{orgID}/leave [post]
func (h *Handler) LeaveOrganization(w http.ResponseWriter, r *http.Request) {
	userID, ok := actorID(w, r)
	if !ok {
		return
	}
	orgID := chi.URLParam(r, "orgID")

	if err := h.svc.LeaveOrganization(r.Context(), userID, orgID); err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

type changeRoleRequest struct {
	Role string `json:"role"`
}

// ChangeOrgRole updates a member's role; managers only
// @Summary Change member role
// @Tags organizations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Router /orgs/{orgID}/members/{userID}/role [put]
func (h *Handler) ChangeOrgRole(w http.ResponseWriter, r *http.Request) {
	userID, ok := actorID(w, r)
	if !ok {
		return
	}
	orgID := chi.URLParam(r, "orgID")
	targetID := chi.URLParam(r, "userID")

	var req changeRoleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if err := h.svc.ChangeOrgRole(r.Context(), userID, orgID, targetID, req.Role); err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

// DeleteOrganization removes the org and everything beneath it
// @Summary Delete organization
// @Tags organizations
// @Produce json
// @Security BearerAuth
// @Router /orgs/{orgID} [delete]
func (h *Handler) DeleteOrganization(w http.ResponseWriter, r *http.Request) {
	userID, ok := actorID(w, r)
	if !ok {
		return
	}
	orgID := chi.URLParam(r, "orgID")

	if err := h.svc.DeleteOrganization(r.Context(), userID, orgID); err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}
