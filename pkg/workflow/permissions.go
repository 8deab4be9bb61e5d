package workflow

import (
	"slices"

	"github.com/dukex/newsroom/pkg/models"
)

// capability describes who may perform an action and from which statuses.
type capability struct {
	from    []models.PostStatus
	allowed func(post *models.Post, role models.Role, userID string) bool
}

func isAuthor(post *models.Post, _ models.Role, userID string) bool {
	return userID != "" && post.AuthorID == userID
}

func isDesignerOrAdmin(post *models.Post, role models.Role, userID string) bool {
	return role == models.RoleAdmin || (userID != "" && post.DesignerID == userID)
}

func roleIn(roles ...models.Role) func(*models.Post, models.Role, string) bool {
	return func(_ *models.Post, role models.Role, _ string) bool {
		return slices.Contains(roles, role)
	}
}

var capabilities = map[models.Action]capability{
	models.ActionEditContent: {
		from:    []models.PostStatus{models.StatusDraft, models.StatusNeedsRevision},
		allowed: isAuthor,
	},
	models.ActionSubmitForDesign: {
		from:    []models.PostStatus{models.StatusDraft},
		allowed: isAuthor,
	},
	models.ActionStartDesign: {
		from:    []models.PostStatus{models.StatusAwaitingDesign, models.StatusNeedsRevision},
		allowed: roleIn(models.RoleDesigner, models.RoleAdmin),
	},
	models.ActionAddImages: {
		from:    []models.PostStatus{models.StatusInDesign},
		allowed: isDesignerOrAdmin,
	},
	models.ActionSubmitForReview: {
		from:    []models.PostStatus{models.StatusInDesign},
		allowed: isDesignerOrAdmin,
	},
	models.ActionApprove: {
		from:    []models.PostStatus{models.StatusPendingReview},
		allowed: roleIn(models.RoleAdmin, models.RoleBoss),
	},
	models.ActionRequestRevision: {
		from:    []models.PostStatus{models.StatusPendingReview},
		allowed: roleIn(models.RoleAdmin, models.RoleBoss),
	},
	models.ActionPublish: {
		from:    []models.PostStatus{models.StatusApproved},
		allowed: roleIn(models.RoleAdmin, models.RoleBoss),
	},
	models.ActionSchedule: {
		from:    []models.PostStatus{models.StatusApproved},
		allowed: roleIn(models.RoleAdmin, models.RoleBoss),
	},
}

// AvailableActions returns the actions the user may perform on the post right now,
// in the order of models.AllActions. The super role may perform every action.
func AvailableActions(post *models.Post, role models.Role, userID string) []models.Action {
	if post == nil {
		return []models.Action{}
	}

	if role.IsSuper() {
		return models.AllActions()
	}

	actions := make([]models.Action, 0, len(capabilities))

	for _, action := range models.AllActions() {
		if Can(post, action, role, userID) {
			actions = append(actions, action)
		}
	}

	return actions
}

// Can reports whether the user may perform a single action on the post.
func Can(post *models.Post, action models.Action, role models.Role, userID string) bool {
	if post == nil || !role.IsValid() {
		return false
	}

	rule, ok := capabilities[action]
	if !ok {
		return false
	}

	if role.IsSuper() {
		return true
	}

	return slices.Contains(rule.from, post.Status) && rule.allowed(post, role, userID)
}
