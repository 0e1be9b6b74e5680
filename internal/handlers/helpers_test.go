package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/taskhive-dev/taskhive/db"
	"github.com/taskhive-dev/taskhive/internal/auth"
	"github.com/taskhive-dev/taskhive/internal/models"
	"github.com/taskhive-dev/taskhive/internal/router"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

const testPassword = "password123"

// setupRouter wires the full engine against a fresh in-memory database.
func setupRouter(t *testing.T) *gin.Engine {
	t.Helper()

	t.Setenv("JWT_SECRET", "handler-test-secret")
	t.Setenv("NOTIFY_WEBHOOK_URL", "")

	if err := auth.InitJWTSecret(); err != nil {
		t.Fatalf("init jwt secret: %v", err)
	}

	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())

	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}

	err = gdb.AutoMigrate(
		&models.User{},
		&models.Project{},
		&models.Task{},
		&models.Comment{},
		&models.PasswordReset{},
	)
	if err != nil {
		t.Fatalf("migrate test db: %v", err)
	}

	db.DB = gdb

	return router.NewRouter()
}

func createUser(t *testing.T, email, role string) models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(testPassword), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}

	user := models.User{
		Email:        email,
		FirstName:    "Test",
		LastName:     "User",
		PasswordHash: string(hash),
		Role:         role,
		IsActive:     true,
	}

	if err := db.DB.Create(&user).Error; err != nil {
		t.Fatalf("create user %s: %v", email, err)
	}

	return user
}

func authToken(t *testing.T, user models.User) string {
	t.Helper()

	token, err := auth.GenerateJWT(user.ID, user.Email, user.TokenVersion)
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}

	return token
}

func createProject(t *testing.T, title string, createdBy models.User, managers, members []models.User) models.Project {
	t.Helper()

	project := models.Project{
		Title:       title,
		CreatedByID: createdBy.ID,
		Managers:    managers,
		Users:       members,
	}

	if err := db.DB.Create(&project).Error; err != nil {
		t.Fatalf("create project %s: %v", title, err)
	}

	return project
}

func createTask(t *testing.T, project models.Project, createdBy models.User, assignedTo *uint) models.Task {
	t.Helper()

	task := models.Task{
		ProjectID:    project.ID,
		Title:        "task",
		CreatedByID:  createdBy.ID,
		AssignedToID: assignedTo,
	}

	if err := db.DB.Create(&task).Error; err != nil {
		t.Fatalf("create task: %v", err)
	}

	return task
}

func doRequest(t *testing.T, r *gin.Engine, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader

	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal request body: %v", err)
		}
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder, dest interface{}) {
	t.Helper()

	if err := json.Unmarshal(w.Body.Bytes(), dest); err != nil {
		t.Fatalf("decode response %q: %v", w.Body.String(), err)
	}
}
