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
	"github.com/taskhive-dev/taskhive/internal/types"
	"github.com/taskhive-dev/taskhive/internal/utils"
	"gorm.io/gorm"
)

type CreateProjectRequest struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
	ManagerIDs  []uint `json:"manager_ids"`
	UserIDs     []uint `json:"user_ids"`
}

type UpdateProjectRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	ManagerIDs  *[]uint `json:"manager_ids"`
	UserIDs     *[]uint `json:"user_ids"`
}

type ProjectResponse struct {
	ID          uint                 `json:"id"`
	Title       string               `json:"title"`
	Description string               `json:"description"`
	CreatedByID uint                 `json:"created_by_id"`
	Managers    []types.UserResponse `json:"managers"`
	Users       []types.UserResponse `json:"users"`
	Members     []types.UserResponse `json:"members"`
	CreatedAt   time.Time            `json:"created_at"`
	UpdatedAt   time.Time            `json:"updated_at"`
}

type ProjectDetailResponse struct {
	ProjectResponse
	Tasks []TaskResponse `json:"tasks"`
}

func CreateProject(ctx *gin.Context) {
	currentUser, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	if !authz.IsAdmin(currentUser) {
		ctx.JSON(http.StatusForbidden, gin.H{"error": "Insufficient permissions"})
		return
	}

	var body CreateProjectRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	managers, members, ok := resolveMemberSets(ctx, body.ManagerIDs, body.UserIDs)

	if !ok {
		return
	}

	project := models.Project{
		Title:       body.Title,
		Description: body.Description,
		CreatedByID: currentUser.ID,
		Managers:    managers,
		Users:       members,
	}

	if err := db.DB.Create(&project).Error; err != nil {
		logger.Error("failed to create project", "error", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create project"})
		return
	}

	ctx.JSON(http.StatusCreated, projectResponse(project))
}

// ListProjects returns every project to any authenticated user; listing is
// deliberately not restricted to members.
func ListProjects(ctx *gin.Context) {
	var projects []models.Project

	if err := db.DB.Preload("Managers").Preload("Users").Find(&projects).Error; err != nil {
		logger.Error("failed to list projects", "error", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve projects"})
		return
	}

	response := make([]ProjectResponse, 0, len(projects))

	for _, project := range projects {
		response = append(response, projectResponse(project))
	}

	ctx.JSON(http.StatusOK, response)
}

func GetProject(ctx *gin.Context) {
	project, ok := loadProject(ctx)

	if !ok {
		return
	}

	var tasks []models.Task

	if err := db.DB.Where("project_id = ?", project.ID).Find(&tasks).Error; err != nil {
		logger.Error("failed to load project tasks", "error", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve project"})
		return
	}

	detail := ProjectDetailResponse{
		ProjectResponse: projectResponse(project),
		Tasks:           make([]TaskResponse, 0, len(tasks)),
	}

	for _, task := range tasks {
		detail.Tasks = append(detail.Tasks, taskResponse(task))
	}

	ctx.JSON(http.StatusOK, detail)
}

func UpdateProject(ctx *gin.Context) {
	currentUser, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	project, ok := loadProject(ctx)

	if !ok {
		return
	}

	if !authz.CanManageProject(currentUser, project) {
		ctx.JSON(http.StatusForbidden, gin.H{"error": "Insufficient permissions"})
		return
	}

	var body UpdateProjectRequest

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

	if len(updates) > 0 {
		if err := db.DB.Model(&project).Updates(updates).Error; err != nil {
			logger.Error("failed to update project", "error", err)
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update project"})
			return
		}
	}

	if body.ManagerIDs != nil || body.UserIDs != nil {
		managerIDs := idsForUsers(project.Managers)
		userIDs := idsForUsers(project.Users)

		if body.ManagerIDs != nil {
			managerIDs = *body.ManagerIDs
		}

		if body.UserIDs != nil {
			userIDs = *body.UserIDs
		}

		managers, members, ok := resolveMemberSets(ctx, managerIDs, userIDs)

		if !ok {
			return
		}

		if err := db.DB.Model(&project).Association("Managers").Replace(&managers); err != nil {
			logger.Error("failed to update project managers", "error", err)
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update project"})
			return
		}

		if err := db.DB.Model(&project).Association("Users").Replace(&members); err != nil {
			logger.Error("failed to update project users", "error", err)
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update project"})
			return
		}

		project.Managers = managers
		project.Users = members
	}

	ctx.JSON(http.StatusOK, projectResponse(project))
}

// DeleteProject removes the project together with its tasks, their comments
// and the membership rows, in one transaction.
func DeleteProject(ctx *gin.Context) {
	currentUser, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	if !authz.IsAdmin(currentUser) {
		ctx.JSON(http.StatusForbidden, gin.H{"error": "Insufficient permissions"})
		return
	}

	project, ok := loadProject(ctx)

	if !ok {
		return
	}

	err = db.DB.Transaction(func(tx *gorm.DB) error {
		var taskIDs []uint

		if err := tx.Model(&models.Task{}).Where("project_id = ?", project.ID).Pluck("id", &taskIDs).Error; err != nil {
			return err
		}

		if len(taskIDs) > 0 {
			if err := tx.Where("task_id IN ?", taskIDs).Delete(&models.Comment{}).Error; err != nil {
				return err
			}

			if err := tx.Where("project_id = ?", project.ID).Delete(&models.Task{}).Error; err != nil {
				return err
			}
		}

		if err := tx.Model(&project).Association("Managers").Clear(); err != nil {
			return err
		}

		if err := tx.Model(&project).Association("Users").Clear(); err != nil {
			return err
		}

		return tx.Delete(&project).Error
	})

	if err != nil {
		logger.Error("failed to delete project", "project_id", project.ID, "error", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete project"})
		return
	}

	ctx.Status(http.StatusNoContent)
}

func loadProject(ctx *gin.Context) (models.Project, bool) {
	var project models.Project

	err := db.DB.Preload("Managers").Preload("Users").
		Where("id = ?", ctx.Param("project_id")).
		First(&project).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Project not found"})
		} else {
			logger.Error("failed to load project", "error", err)
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve project"})
		}
		return models.Project{}, false
	}

	return project, true
}

// resolveMemberSets loads and validates the proposed membership sets:
// managers must hold the admin or manager role, and admins may not appear in
// the users set. On failure it writes the response and returns ok=false.
func resolveMemberSets(ctx *gin.Context, managerIDs, userIDs []uint) ([]models.User, []models.User, bool) {
	managers, ok := loadUserSet(ctx, managerIDs, "manager_ids")

	if !ok {
		return nil, nil, false
	}

	for _, u := range managers {
		if u.Role != types.RoleAdmin && u.Role != types.RoleManager {
			ctx.JSON(http.StatusBadRequest, gin.H{
				"error": "Managers must have the admin or manager role",
				"field": "manager_ids",
			})
			return nil, nil, false
		}
	}

	members, ok := loadUserSet(ctx, userIDs, "user_ids")

	if !ok {
		return nil, nil, false
	}

	for _, u := range members {
		if u.Role == types.RoleAdmin {
			ctx.JSON(http.StatusBadRequest, gin.H{
				"error": "Admins cannot be added to the users set",
				"field": "user_ids",
			})
			return nil, nil, false
		}
	}

	return managers, members, true
}

func loadUserSet(ctx *gin.Context, ids []uint, field string) ([]models.User, bool) {
	users := make([]models.User, 0, len(ids))

	if len(ids) == 0 {
		return users, true
	}

	if err := db.DB.Where("id IN ?", ids).Find(&users).Error; err != nil {
		logger.Error("failed to load users", "field", field, "error", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return nil, false
	}

	if len(users) != len(ids) {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Unknown or duplicate user id", "field": field})
		return nil, false
	}

	return users, true
}

func idsForUsers(users []models.User) []uint {
	ids := make([]uint, 0, len(users))

	for _, u := range users {
		ids = append(ids, u.ID)
	}

	return ids
}

func projectResponse(project models.Project) ProjectResponse {
	response := ProjectResponse{
		ID:          project.ID,
		Title:       project.Title,
		Description: project.Description,
		CreatedByID: project.CreatedByID,
		Managers:    make([]types.UserResponse, 0, len(project.Managers)),
		Users:       make([]types.UserResponse, 0, len(project.Users)),
		CreatedAt:   project.CreatedAt,
		UpdatedAt:   project.UpdatedAt,
	}

	for _, u := range project.Managers {
		response.Managers = append(response.Managers, userResponse(u))
	}

	for _, u := range project.Users {
		response.Users = append(response.Users, userResponse(u))
	}

	members := project.GetAllMembers()
	response.Members = make([]types.UserResponse, 0, len(members))

	for _, u := range members {
		response.Members = append(response.Members, userResponse(u))
	}

	return response
}
