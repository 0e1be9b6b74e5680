// Package authz holds the policy predicates gating every mutating operation.
// The functions are pure: callers load the target with its membership sets
// before asking, and every handler evaluates the matching predicate before
// touching the database.
package authz

import (
	"github.com/taskhive-dev/taskhive/internal/models"
	"github.com/taskhive-dev/taskhive/internal/types"
)

func IsAdmin(u models.User) bool {
	return u.Role == types.RoleAdmin || u.IsSuperuser
}

func IsManager(u models.User) bool {
	return u.Role == types.RoleManager
}

func CanManageUsers(u models.User) bool {
	return IsAdmin(u)
}

// CanManageProject allows admins and the managers of this specific project.
// Holding the manager role alone is not enough.
func CanManageProject(u models.User, p models.Project) bool {
	return IsAdmin(u) || inSet(p.Managers, u.ID)
}

func CanCreateTask(u models.User, p models.Project) bool {
	return IsAdmin(u) || inSet(p.Managers, u.ID)
}

// CanViewProject is true for every authenticated user: all projects are
// globally listable in the current design.
func CanViewProject(u models.User, p models.Project) bool {
	return true
}

// CanToggleTask allows admins, members of the owning project, and the
// assignee (who may have been removed from the project since assignment).
func CanToggleTask(u models.User, t models.Task) bool {
	if IsAdmin(u) || t.Project.IsMember(u.ID) {
		return true
	}
	return t.AssignedToID != nil && *t.AssignedToID == u.ID
}

func CanComment(u models.User, t models.Task) bool {
	return IsAdmin(u) || t.Project.IsMember(u.ID)
}

func inSet(users []models.User, id uint) bool {
	for _, u := range users {
		if u.ID == id {
			return true
		}
	}
	return false
}
