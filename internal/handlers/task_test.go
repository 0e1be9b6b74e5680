package handlers_test

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/taskhive-dev/taskhive/db"
	"github.com/taskhive-dev/taskhive/internal/models"
	"github.com/taskhive-dev/taskhive/internal/types"
)

// Scenario from the project brief: a task with no assignee succeeds,
// assigning a non-member fails, and after the user joins the project the
// same assignment succeeds.
func TestTaskAssignmentInvariant(t *testing.T) {
	r := setupRouter(t)

	admin := createUser(t, "admin@example.com", types.RoleAdmin)
	stranger := createUser(t, "stranger@example.com", types.RoleUser)

	project := createProject(t, "Site Revamp", admin, nil, nil)
	adminToken := authToken(t, admin)

	w := doRequest(t, r, http.MethodPost, fmt.Sprintf("/api/projects/%d/tasks", project.ID), adminToken, map[string]interface{}{
		"title": "Unassigned task",
	})

	if w.Code != http.StatusCreated {
		t.Fatalf("create without assignee status = %d, body %s", w.Code, w.Body.String())
	}

	var created struct {
		ID uint `json:"id"`
	}
	decodeBody(t, w, &created)

	taskPath := fmt.Sprintf("/api/tasks/%d", created.ID)

	w = doRequest(t, r, http.MethodPatch, taskPath, adminToken, map[string]interface{}{
		"assigned_to_id": stranger.ID,
	})

	if w.Code != http.StatusBadRequest {
		t.Fatalf("assign non-member status = %d, want 400", w.Code)
	}

	var body map[string]string
	decodeBody(t, w, &body)

	if body["field"] != "assigned_to_id" {
		t.Errorf("field = %q, want assigned_to_id", body["field"])
	}

	w = doRequest(t, r, http.MethodPatch, fmt.Sprintf("/api/projects/%d", project.ID), adminToken, map[string]interface{}{
		"user_ids": []uint{stranger.ID},
	})

	if w.Code != http.StatusOK {
		t.Fatalf("add member status = %d, body %s", w.Code, w.Body.String())
	}

	w = doRequest(t, r, http.MethodPatch, taskPath, adminToken, map[string]interface{}{
		"assigned_to_id": stranger.ID,
	})

	if w.Code != http.StatusOK {
		t.Fatalf("assign member status = %d, body %s", w.Code, w.Body.String())
	}

	var task models.Task

	if err := db.DB.First(&task, created.ID).Error; err != nil {
		t.Fatalf("reload task: %v", err)
	}

	if task.AssignedToID == nil || *task.AssignedToID != stranger.ID {
		t.Errorf("assigned_to_id = %v, want %d", task.AssignedToID, stranger.ID)
	}
}

func TestCreateTaskRequiresProjectManager(t *testing.T) {
	r := setupRouter(t)

	admin := createUser(t, "admin@example.com", types.RoleAdmin)
	manager := createUser(t, "manager@example.com", types.RoleManager)
	member := createUser(t, "member@example.com", types.RoleUser)

	project := createProject(t, "Managed", admin, []models.User{manager}, []models.User{member})
	path := fmt.Sprintf("/api/projects/%d/tasks", project.ID)

	w := doRequest(t, r, http.MethodPost, path, authToken(t, member), map[string]interface{}{
		"title": "Nope",
	})

	if w.Code != http.StatusForbidden {
		t.Fatalf("member create status = %d, want 403", w.Code)
	}

	w = doRequest(t, r, http.MethodPost, path, authToken(t, manager), map[string]interface{}{
		"title":          "Assigned at creation",
		"assigned_to_id": member.ID,
	})

	if w.Code != http.StatusCreated {
		t.Fatalf("manager create status = %d, body %s", w.Code, w.Body.String())
	}
}

func TestCreateTaskRejectsNonMemberAssignee(t *testing.T) {
	r := setupRouter(t)

	admin := createUser(t, "admin@example.com", types.RoleAdmin)
	stranger := createUser(t, "stranger@example.com", types.RoleUser)

	project := createProject(t, "Strict", admin, nil, nil)

	w := doRequest(t, r, http.MethodPost, fmt.Sprintf("/api/projects/%d/tasks", project.ID), authToken(t, admin), map[string]interface{}{
		"title":          "Bad assignment",
		"assigned_to_id": stranger.ID,
	})

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}

// Two toggles must return the task to its original state, emitting the
// opposite message each time.
func TestToggleTaskIdempotentPair(t *testing.T) {
	r := setupRouter(t)

	admin := createUser(t, "admin@example.com", types.RoleAdmin)
	member := createUser(t, "member@example.com", types.RoleUser)

	project := createProject(t, "Toggles", admin, nil, []models.User{member})
	task := createTask(t, project, admin, nil)

	path := fmt.Sprintf("/api/tasks/%d/complete", task.ID)
	token := authToken(t, member)

	w := doRequest(t, r, http.MethodPost, path, token, nil)

	if w.Code != http.StatusOK {
		t.Fatalf("first toggle status = %d, body %s", w.Code, w.Body.String())
	}

	var first struct {
		Message     string `json:"message"`
		IsCompleted bool   `json:"is_completed"`
	}
	decodeBody(t, w, &first)

	if !first.IsCompleted || first.Message != "Task completed" {
		t.Errorf("first toggle = %+v, want completed", first)
	}

	w = doRequest(t, r, http.MethodPost, path, token, nil)

	if w.Code != http.StatusOK {
		t.Fatalf("second toggle status = %d", w.Code)
	}

	var second struct {
		Message     string `json:"message"`
		IsCompleted bool   `json:"is_completed"`
	}
	decodeBody(t, w, &second)

	if second.IsCompleted || second.Message != "Task reopened" {
		t.Errorf("second toggle = %+v, want reopened", second)
	}

	var reloaded models.Task

	if err := db.DB.First(&reloaded, task.ID).Error; err != nil {
		t.Fatalf("reload task: %v", err)
	}

	if reloaded.IsCompleted {
		t.Error("task should be back to open after two toggles")
	}
}

func TestToggleTaskAccess(t *testing.T) {
	r := setupRouter(t)

	admin := createUser(t, "admin@example.com", types.RoleAdmin)
	assignee := createUser(t, "assignee@example.com", types.RoleUser)
	stranger := createUser(t, "stranger@example.com", types.RoleUser)

	project := createProject(t, "Access", admin, nil, nil)

	assigneeID := assignee.ID
	task := createTask(t, project, admin, &assigneeID)

	path := fmt.Sprintf("/api/tasks/%d/complete", task.ID)

	if w := doRequest(t, r, http.MethodPost, path, authToken(t, stranger), nil); w.Code != http.StatusForbidden {
		t.Fatalf("stranger toggle status = %d, want 403", w.Code)
	}

	// The assignee may toggle even without being in the member sets.
	if w := doRequest(t, r, http.MethodPost, path, authToken(t, assignee), nil); w.Code != http.StatusOK {
		t.Fatalf("assignee toggle status = %d", w.Code)
	}
}

func TestUpdateTaskRequiresProjectManager(t *testing.T) {
	r := setupRouter(t)

	admin := createUser(t, "admin@example.com", types.RoleAdmin)
	member := createUser(t, "member@example.com", types.RoleUser)

	project := createProject(t, "Locked", admin, nil, []models.User{member})
	task := createTask(t, project, admin, nil)

	path := fmt.Sprintf("/api/tasks/%d", task.ID)

	w := doRequest(t, r, http.MethodPatch, path, authToken(t, member), map[string]interface{}{
		"title": "Member rename",
	})

	if w.Code != http.StatusForbidden {
		t.Fatalf("member update status = %d, want 403", w.Code)
	}

	w = doRequest(t, r, http.MethodPatch, path, authToken(t, admin), map[string]interface{}{
		"title": "Admin rename",
	})

	if w.Code != http.StatusOK {
		t.Fatalf("admin update status = %d, body %s", w.Code, w.Body.String())
	}
}

func TestUpdateTaskUnassign(t *testing.T) {
	r := setupRouter(t)

	admin := createUser(t, "admin@example.com", types.RoleAdmin)
	member := createUser(t, "member@example.com", types.RoleUser)

	project := createProject(t, "Unassign", admin, nil, []models.User{member})

	memberID := member.ID
	task := createTask(t, project, admin, &memberID)

	w := doRequest(t, r, http.MethodPatch, fmt.Sprintf("/api/tasks/%d", task.ID), authToken(t, admin), map[string]interface{}{
		"unassign": true,
	})

	if w.Code != http.StatusOK {
		t.Fatalf("unassign status = %d, body %s", w.Code, w.Body.String())
	}

	var reloaded models.Task

	if err := db.DB.First(&reloaded, task.ID).Error; err != nil {
		t.Fatalf("reload task: %v", err)
	}

	if reloaded.AssignedToID != nil {
		t.Errorf("assigned_to_id = %v, want nil", reloaded.AssignedToID)
	}
}

func TestGetTaskNotFound(t *testing.T) {
	r := setupRouter(t)

	user := createUser(t, "user@example.com", types.RoleUser)

	if w := doRequest(t, r, http.MethodGet, "/api/tasks/9999", authToken(t, user), nil); w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", w.Code)
	}
}
