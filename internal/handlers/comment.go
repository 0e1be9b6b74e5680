package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/taskhive-dev/taskhive/db"
	"github.com/taskhive-dev/taskhive/internal/authz"
	"github.com/taskhive-dev/taskhive/internal/logger"
	"github.com/taskhive-dev/taskhive/internal/models"
	"github.com/taskhive-dev/taskhive/internal/types"
	"github.com/taskhive-dev/taskhive/internal/utils"
)

type AddCommentRequest struct {
	Text string `json:"text" binding:"required"`
}

type CommentResponse struct {
	ID        uint               `json:"id"`
	TaskID    uint               `json:"task_id"`
	Author    types.UserResponse `json:"author"`
	Text      string             `json:"text"`
	CreatedAt time.Time          `json:"created_at"`
}

// AddComment appends a comment to the task's log. Comments cannot be edited
// or deleted afterwards.
func AddComment(ctx *gin.Context) {
	currentUser, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	task, ok := loadTask(ctx)

	if !ok {
		return
	}

	if !authz.CanComment(currentUser, task) {
		ctx.JSON(http.StatusForbidden, gin.H{"error": "Insufficient permissions"})
		return
	}

	var body AddCommentRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	text := strings.TrimSpace(body.Text)

	if text == "" {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Comment text cannot be empty", "field": "text"})
		return
	}

	comment := models.Comment{
		TaskID:   task.ID,
		AuthorID: currentUser.ID,
		Text:     text,
	}

	if err := db.DB.Create(&comment).Error; err != nil {
		logger.Error("failed to create comment", "task_id", task.ID, "error", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add comment"})
		return
	}

	comment.Author = currentUser

	ctx.JSON(http.StatusCreated, commentResponse(comment))
}

func commentResponse(comment models.Comment) CommentResponse {
	return CommentResponse{
		ID:        comment.ID,
		TaskID:    comment.TaskID,
		Author:    userResponse(comment.Author),
		Text:      comment.Text,
		CreatedAt: comment.CreatedAt,
	}
}
