package service

import (
	"context"
	"database/sql"
	"time"

	"munera-backend/internal/models"
	"munera-backend/internal/storage"
)

// memStore is an in-memory Store used by the service tests. It mirrors the
// postgres layer's contract, including the sentinel errors it maps unique
// violations to and the manager-floor guard.
type memStore struct {
	users       map[string]*models.User
	orgs        map[string]*models.Organization
	orgMembers  map[string]map[string]*models.OrgMembership
	projects    map[string]*models.Project
	projMembers map[string]map[string]*models.ProjectMembership
	tasks       map[string]*models.Task
	assignments map[string]map[string]*models.TaskAssignment
}

func newMemStore() *memStore {
	return &memStore{
		users:       make(map[string]*models.User),
		orgs:        make(map[string]*models.Organization),
		orgMembers:  make(map[string]map[string]*models.OrgMembership),
		projects:    make(map[string]*models.Project),
		projMembers: make(map[string]map[string]*models.ProjectMembership),
		tasks:       make(map[string]*models.Task),
		assignments: make(map[string]map[string]*models.TaskAssignment),
	}
}

var _ Store = (*memStore)(nil)

func (m *memStore) CreateUser(_ context.Context, user *models.User) error {
	for _, u := range m.users {
		if u.Username == user.Username {
			return storage.ErrDuplicateUsername
		}
		if u.Email == user.Email {
			return storage.ErrDuplicateEmail
		}
	}
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	m.users[user.ID] = user
	return nil
}

func (m *memStore) GetUser(_ context.Context, id string) (*models.User, error) {
	return m.users[id], nil
}

func (m *memStore) GetUserByUsername(_ context.Context, username string) (*models.User, error) {
	for _, u := range m.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, nil
}

func (m *memStore) UpdateUserProfile(_ context.Context, user *models.User) error {
	for id, u := range m.users {
		if id != user.ID && u.Email == user.Email {
			return storage.ErrDuplicateEmail
		}
	}
	user.UpdatedAt = time.Now()
	m.users[user.ID] = user
	return nil
}

func (m *memStore) UpdateUserPassword(_ context.Context, userID, passwordHash string) error {
	if u := m.users[userID]; u != nil {
		u.PasswordHash = passwordHash
	}
	return nil
}

func (m *memStore) UpdateLastLogin(_ context.Context, userID string, at time.Time) error {
	if u := m.users[userID]; u != nil {
		u.LastLogin = &at
	}
	return nil
}

func (m *memStore) CreateOrganization(_ context.Context, org *models.Organization) error {
	for _, o := range m.orgs {
		if o.Code == org.Code {
			return storage.ErrCodeTaken
		}
	}
	org.CreatedAt = time.Now()
	m.orgs[org.ID] = org
	m.orgMembers[org.ID] = map[string]*models.OrgMembership{
		org.CreatorID: {
			OrgID:    org.ID,
			UserID:   org.CreatorID,
			Role:     models.OrgRoleManager,
			JoinedAt: time.Now(),
		},
	}
	return nil
}

func (m *memStore) GetOrganization(_ context.Context, id string) (*models.Organization, error) {
	return m.orgs[id], nil
}

func (m *memStore) GetOrganizationByCode(_ context.Context, code string) (*models.Organization, error) {
	for _, o := range m.orgs {
		if o.Code == code {
			return o, nil
		}
	}
	return nil, nil
}

func (m *memStore) OrgCodeExists(_ context.Context, code string) (bool, error) {
	for _, o := range m.orgs {
		if o.Code == code {
			return true, nil
		}
	}
	return false, nil
}

func (m *memStore) DeleteOrganization(_ context.Context, id string) error {
	delete(m.orgs, id)
	delete(m.orgMembers, id)
	for pid, p := range m.projects {
		if p.OrgID == id {
			m.deleteProjectTree(pid)
		}
	}
	return nil
}

func (m *memStore) ListUserOrganizations(_ context.Context, userID string) ([]models.Organization, error) {
	orgs := make([]models.Organization, 0)
	for orgID, members := range m.orgMembers {
		if _, ok := members[userID]; ok {
			orgs = append(orgs, *m.orgs[orgID])
		}
	}
	return orgs, nil
}

func (m *memStore) GetOrgMembership(_ context.Context, orgID, userID string) (*models.OrgMembership, error) {
	return m.orgMembers[orgID][userID], nil
}

func (m *memStore) ListOrgMemberships(_ context.Context, orgID string) ([]models.OrgMembership, error) {
	memberships := make([]models.OrgMembership, 0)
	for _, membership := range m.orgMembers[orgID] {
		memberships = append(memberships, *membership)
	}
	return memberships, nil
}

func (m *memStore) CreateOrgMembership(_ context.Context, membership *models.OrgMembership) error {
	members := m.orgMembers[membership.OrgID]
	if members == nil {
		members = make(map[string]*models.OrgMembership)
		m.orgMembers[membership.OrgID] = members
	}
	if _, ok := members[membership.UserID]; ok {
		return storage.ErrDuplicateMembership
	}
	membership.JoinedAt = time.Now()
	members[membership.UserID] = membership
	return nil
}

func (m *memStore) DeleteOrgMembership(_ context.Context, orgID, userID string) error {
	delete(m.orgMembers[orgID], userID)
	return nil
}

func (m *memStore) CountOrgManagers(_ context.Context, orgID string) (int, error) {
	count := 0
	for _, membership := range m.orgMembers[orgID] {
		if membership.Role == models.OrgRoleManager {
			count++
		}
	}
	return count, nil
}

func (m *memStore) UpdateOrgMemberRole(ctx context.Context, orgID, userID string, role models.OrgRole) error {
	membership := m.orgMembers[orgID][userID]
	if membership == nil {
		return sql.ErrNoRows
	}
	if membership.Role == models.OrgRoleManager && role != models.OrgRoleManager {
		managers, _ := m.CountOrgManagers(ctx, orgID)
		if managers <= 1 {
			return storage.ErrManagerFloor
		}
	}
	membership.Role = role
	return nil
}

func (m *memStore) CreateProject(_ context.Context, project *models.Project) error {
	m.projects[project.ID] = project
	m.projMembers[project.ID] = map[string]*models.ProjectMembership{
		project.CreatedBy: {
			ProjectID: project.ID,
			UserID:    project.CreatedBy,
			Role:      models.ProjectRoleManager,
			JoinedAt:  time.Now(),
		},
	}
	return nil
}

func (m *memStore) GetProject(_ context.Context, id string) (*models.Project, error) {
	return m.projects[id], nil
}

func (m *memStore) DeleteProject(_ context.Context, id string) error {
	m.deleteProjectTree(id)
	return nil
}

func (m *memStore) deleteProjectTree(id string) {
	delete(m.projects, id)
	delete(m.projMembers, id)
	for tid, t := range m.tasks {
		if t.ProjectID == id {
			delete(m.tasks, tid)
			delete(m.assignments, tid)
		}
	}
}

func (m *memStore) ListOrgProjects(_ context.Context, orgID string) ([]models.Project, error) {
	projects := make([]models.Project, 0)
	for _, p := range m.projects {
		if p.OrgID == orgID {
			projects = append(projects, *p)
		}
	}
	return projects, nil
}

func (m *memStore) ListUserProjects(_ context.Context, userID string) ([]models.Project, error) {
	projects := make([]models.Project, 0)
	for _, p := range m.projects {
		if _, ok := m.orgMembers[p.OrgID][userID]; ok {
			projects = append(projects, *p)
		}
	}
	return projects, nil
}

func (m *memStore) GetProjectMembership(_ context.Context, projectID, userID string) (*models.ProjectMembership, error) {
	return m.projMembers[projectID][userID], nil
}

func (m *memStore) ListProjectMemberships(_ context.Context, projectID string) ([]models.ProjectMembership, error) {
	memberships := make([]models.ProjectMembership, 0)
	for _, membership := range m.projMembers[projectID] {
		memberships = append(memberships, *membership)
	}
	return memberships, nil
}

func (m *memStore) CreateProjectMembership(_ context.Context, membership *models.ProjectMembership) error {
	members := m.projMembers[membership.ProjectID]
	if members == nil {
		members = make(map[string]*models.ProjectMembership)
		m.projMembers[membership.ProjectID] = members
	}
	if _, ok := members[membership.UserID]; ok {
		return storage.ErrDuplicateMembership
	}
	membership.JoinedAt = time.Now()
	members[membership.UserID] = membership
	return nil
}

func (m *memStore) DeleteProjectMembership(_ context.Context, projectID, userID string) error {
	delete(m.projMembers[projectID], userID)
	return nil
}

func (m *memStore) CreateTask(_ context.Context, task *models.Task, assigneeIDs []string) error {
	m.tasks[task.ID] = task
	m.assignments[task.ID] = make(map[string]*models.TaskAssignment)
	for _, userID := range assigneeIDs {
		m.assignments[task.ID][userID] = &models.TaskAssignment{
			TaskID:     task.ID,
			UserID:     userID,
			AssignedAt: time.Now(),
		}
	}
	return nil
}

func (m *memStore) UpdateTask(_ context.Context, task *models.Task, assigneeIDs []string) error {
	m.tasks[task.ID] = task

	keep := make(map[string]bool, len(assigneeIDs))
	for _, userID := range assigneeIDs {
		keep[userID] = true
	}
	current := m.assignments[task.ID]
	if current == nil {
		current = make(map[string]*models.TaskAssignment)
		m.assignments[task.ID] = current
	}
	for userID := range current {
		if !keep[userID] {
			delete(current, userID)
		}
	}
	for _, userID := range assigneeIDs {
		if _, ok := current[userID]; !ok {
			current[userID] = &models.TaskAssignment{
				TaskID:     task.ID,
				UserID:     userID,
				AssignedAt: time.Now(),
			}
		}
	}
	return nil
}

func (m *memStore) GetTask(_ context.Context, id string) (*models.Task, error) {
	return m.tasks[id], nil
}

func (m *memStore) DeleteTask(_ context.Context, id string) error {
	delete(m.tasks, id)
	delete(m.assignments, id)
	return nil
}

func (m *memStore) ListProjectTasks(_ context.Context, projectID string) ([]models.Task, error) {
	tasks := make([]models.Task, 0)
	for _, t := range m.tasks {
		if t.ProjectID == projectID {
			tasks = append(tasks, *t)
		}
	}
	return tasks, nil
}

func (m *memStore) ListTaskAssignments(_ context.Context, taskID string) ([]models.TaskAssignment, error) {
	assignments := make([]models.TaskAssignment, 0)
	for _, a := range m.assignments[taskID] {
		assignments = append(assignments, *a)
	}
	return assignments, nil
}
