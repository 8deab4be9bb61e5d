package workflow

import (
	"fmt"
	"slices"

	"github.com/dukex/newsroom/pkg/models"
)

type bulkRule struct {
	action models.Action
	from   models.PostStatus // empty matches every status
	roles  func(models.Role) bool
}

func reviewerTier(role models.Role) bool {
	return role.IsSuper() || role == models.RoleAdmin || role == models.RoleBoss
}

var bulkRules = map[models.BulkVerb]bulkRule{
	models.BulkApprove:  {action: models.ActionApprove, from: models.StatusPendingReview, roles: reviewerTier},
	models.BulkPublish:  {action: models.ActionPublish, from: models.StatusApproved, roles: reviewerTier},
	models.BulkSchedule: {action: models.ActionSchedule, from: models.StatusApproved, roles: reviewerTier},
	models.BulkDelete:   {roles: models.Role.IsAdminTier},
}

// BulkAction returns the single-post action a bulk verb applies. Delete has none.
func BulkAction(verb models.BulkVerb) (models.Action, bool) {
	rule, ok := bulkRules[verb]
	if !ok || rule.action == "" {
		return "", false
	}

	return rule.action, true
}

func (r bulkRule) matches(post *models.Post) bool {
	return r.from == "" || post.Status == r.from
}

func canBulk(verb models.BulkVerb, posts []*models.Post, role models.Role) bool {
	rule, ok := bulkRules[verb]
	if !ok || len(posts) == 0 || !rule.roles(role) {
		return false
	}

	for _, post := range posts {
		if post == nil || !rule.matches(post) {
			return false
		}
	}

	return true
}

// CanBulkApprove is true when the role may approve and every selected post is pending review.
func CanBulkApprove(posts []*models.Post, role models.Role) bool {
	return canBulk(models.BulkApprove, posts, role)
}

// CanBulkPublish is true when the role may publish and every selected post is approved.
func CanBulkPublish(posts []*models.Post, role models.Role) bool {
	return canBulk(models.BulkPublish, posts, role)
}

func CanBulkSchedule(posts []*models.Post, role models.Role) bool {
	return canBulk(models.BulkSchedule, posts, role)
}

// CanBulkDelete is true for admin-tier roles over any non-empty selection.
func CanBulkDelete(posts []*models.Post, role models.Role) bool {
	return canBulk(models.BulkDelete, posts, role)
}

// BulkVerbs returns the verbs the role may offer for the whole selection.
func BulkVerbs(posts []*models.Post, role models.Role) []models.BulkVerb {
	verbs := make([]models.BulkVerb, 0, len(bulkRules))

	for _, verb := range []models.BulkVerb{models.BulkApprove, models.BulkPublish, models.BulkSchedule, models.BulkDelete} {
		if canBulk(verb, posts, role) {
			verbs = append(verbs, verb)
		}
	}

	return verbs
}

// BulkResult is the outcome of a bulk operation.
type BulkResult struct {
	Posts   []*models.Post // the new collection
	Applied []*models.Post // updated posts, in selection order
	Removed []*models.Post // deleted posts
	Skipped []string       // selected ids whose status did not match the verb
}

// Bulk applies one verb to every selected post whose status matches the verb's precondition.
// Posts that do not match are left untouched and reported as skipped. Unknown ids,
// a role without the capability, or invalid input reject the whole call before any change.
func (e *Engine) Bulk(posts []*models.Post, ids []string, verb models.BulkVerb, actor models.Actor, input ActionInput) (BulkResult, error) {
	rule, ok := bulkRules[verb]
	if !ok {
		return BulkResult{Posts: posts}, newTransitionError("Bulk", nil, "", actor.Role, ErrUnknownBulkVerb)
	}

	if len(ids) == 0 {
		return BulkResult{Posts: posts}, newTransitionError("Bulk", nil, rule.action, actor.Role, ErrEmptySelection)
	}

	if !rule.roles(actor.Role) {
		return BulkResult{Posts: posts}, newTransitionError("Bulk", nil, rule.action, actor.Role, ErrInvalidTransition)
	}

	if rule.action != "" {
		if err := validateInput(rule.action, input, e.clock.Now()); err != nil {
			return BulkResult{Posts: posts}, newTransitionError("Bulk", nil, rule.action, actor.Role, err)
		}
	}

	selected := make([]*models.Post, 0, len(ids))

	for _, id := range ids {
		post, err := FindPost(posts, id)
		if err != nil {
			return BulkResult{Posts: posts}, &TransitionError{Op: "Bulk", PostID: id, Action: rule.action, Role: actor.Role, Err: err}
		}

		if !slices.Contains(selected, post) {
			selected = append(selected, post)
		}
	}

	result := BulkResult{
		Posts:   posts,
		Applied: []*models.Post{},
		Removed: []*models.Post{},
		Skipped: []string{},
	}

	for _, post := range selected {
		if !rule.matches(post) {
			result.Skipped = append(result.Skipped, post.ID)

			continue
		}

		if verb == models.BulkDelete {
			remaining, removed, err := RemovePost(result.Posts, post.ID)
			if err != nil {
				return BulkResult{Posts: posts}, err
			}

			result.Posts = remaining
			result.Removed = append(result.Removed, removed)

			continue
		}

		updated, err := e.ApplyAction(post, rule.action, actor, input)
		if err != nil {
			return BulkResult{Posts: posts}, fmt.Errorf("failed to apply %s to post %s: %w", verb, post.ID, err)
		}

		replaced, err := ReplacePost(result.Posts, updated)
		if err != nil {
			return BulkResult{Posts: posts}, err
		}

		result.Posts = replaced
		result.Applied = append(result.Applied, updated)
	}

	e.logger.Info("bulk operation applied",
		"verb", verb,
		"actor_id", actor.ID,
		"applied", len(result.Applied),
		"removed", len(result.Removed),
		"skipped", len(result.Skipped),
	)

	return result, nil
}
