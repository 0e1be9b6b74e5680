package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/taskhive-dev/taskhive/db"
	"github.com/taskhive-dev/taskhive/internal/authz"
	"github.com/taskhive-dev/taskhive/internal/logger"
	"github.com/taskhive-dev/taskhive/internal/models"
	"github.com/taskhive-dev/taskhive/internal/utils"
	"gorm.io/gorm"
)

type CreateTaskRequest struct {
	Title        string `json:"title" binding:"required"`
	Description  string `json:"description"`
	AssignedToID *uint  `json:"assigned_to_id"`
}

type UpdateTaskRequest struct {
	Title        *string `json:"title"`
	Description  *string `json:"description"`
	AssignedToID *uint   `json:"assigned_to_id"`
	Unassign     bool    `json:"unassign"`
}

type TaskResponse struct {
	ID           uint      `json:"id"`
	ProjectID    uint      `json:"project_id"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	IsCompleted  bool      `json:"is_completed"`
	CreatedByID  uint      `json:"created_by_id"`
	AssignedToID *uint     `json:"assigned_to_id"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type TaskDetailResponse struct {
	TaskResponse
	Comments []CommentResponse `json:"comments"`
}

func CreateTask(ctx *gin.Context) {
	currentUser, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	project, ok := loadProject(ctx)

	if !ok {
		return
	}

	if !authz.CanCreateTask(currentUser, project) {
		ctx.JSON(http.StatusForbidden, gin.H{"error": "Insufficient permissions"})
		return
	}

	var body CreateTaskRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	// Assignment invariant: the assignee must be a project member at the
	// time of assignment.
	if body.AssignedToID != nil && !project.IsMember(*body.AssignedToID) {
		ctx.JSON(http.StatusBadRequest, gin.H{
			"error": "Assignee must be a member of the project",
			"field": "assigned_to_id",
		})
		return
	}

	task := models.Task{
		ProjectID:    project.ID,
		Title:        body.Title,
		Description:  body.Description,
		CreatedByID:  currentUser.ID,
		AssignedToID: body.AssignedToID,
	}

	if err := db.DB.Create(&task).Error; err != nil {
		logger.Error("failed to create task", "project_id", project.ID, "error", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create task"})
		return
	}

	ctx.JSON(http.StatusCreated, taskResponse(task))
}

func GetTask(ctx *gin.Context) {
	task, ok := loadTask(ctx)

	if !ok {
		return
	}

	var comments []models.Comment

	if err := db.DB.Preload("Author").Where("task_id = ?", task.ID).Order("created_at asc, id asc").Find(&comments).Error; err != nil {
		logger.Error("failed to load task comments", "task_id", task.ID, "error", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve task"})
		return
	}

	detail := TaskDetailResponse{
		TaskResponse: taskResponse(task),
		Comments:     make([]CommentResponse, 0, len(comments)),
	}

	for _, comment := range comments {
		detail.Comments = append(detail.Comments, commentResponse(comment))
	}

	ctx.JSON(http.StatusOK, detail)
}

func UpdateTask(ctx *gin.Context) {
	currentUser, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	task, ok := loadTask(ctx)

	if !ok {
		return
	}

	if !authz.CanManageProject(currentUser, task.Project) {
		ctx.JSON(http.StatusForbidden, gin.H{"error": "Insufficient permissions"})
		return
	}

	var body UpdateTaskRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	updates := make(map[string]interface{})

	if body.Title != nil {
		updates["title"] = *body.Title
	}

	if body.Description != nil {
		updates["description"] = *body.Description
	}

	if body.Unassign {
		updates["assigned_to_id"] = nil
	} else if body.AssignedToID != nil {
		if !task.Project.IsMember(*body.AssignedToID) {
			ctx.JSON(http.StatusBadRequest, gin.H{
				"error": "Assignee must be a member of the project",
				"field": "assigned_to_id",
			})
			return
		}
		updates["assigned_to_id"] = *body.AssignedToID
	}

	if len(updates) == 0 {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "No valid fields to update"})
		return
	}

	if err := db.DB.Model(&task).Updates(updates).Error; err != nil {
		logger.Error("failed to update task", "task_id", task.ID, "error", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update task"})
		return
	}

	ctx.JSON(http.StatusOK, taskResponse(task))
}

// ToggleTask flips the completion state. Open and Completed are the only two
// states; the response message tells the caller which transition happened.
func ToggleTask(ctx *gin.Context) {
	currentUser, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	task, ok := loadTask(ctx)

	if !ok {
		return
	}

	if !authz.CanToggleTask(currentUser, task) {
		ctx.JSON(http.StatusForbidden, gin.H{"error": "Insufficient permissions"})
		return
	}

	task.IsCompleted = !task.IsCompleted

	if err := db.DB.Model(&task).Update("is_completed", task.IsCompleted).Error; err != nil {
		logger.Error("failed to toggle task", "task_id", task.ID, "error", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update task"})
		return
	}

	message := "Task reopened"
	if task.IsCompleted {
		message = "Task completed"
	}

	ctx.JSON(http.StatusOK, gin.H{
		"message":      message,
		"is_completed": task.IsCompleted,
	})
}

func loadTask(ctx *gin.Context) (models.Task, bool) {
	var task models.Task

	err := db.DB.Preload("Project.Managers").Preload("Project.Users").
		Where("id = ?", ctx.Param("task_id")).
		First(&task).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Task not found"})
		} else {
			logger.Error("failed to load task", "error", err)
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve task"})
		}
		return models.Task{}, false
	}

	return task, true
}

func taskResponse(task models.Task) TaskResponse {
	return TaskResponse{
		ID:           task.ID,
		ProjectID:    task.ProjectID,
		Title:        task.Title,
		Description:  task.Description,
		IsCompleted:  task.IsCompleted,
		CreatedByID:  task.CreatedByID,
		AssignedToID: task.AssignedToID,
		CreatedAt:    task.CreatedAt,
		UpdatedAt:    task.UpdatedAt,
	}
}
