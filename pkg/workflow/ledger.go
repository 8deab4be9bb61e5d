package workflow

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/dukex/newsroom/pkg/models"
)

// SystemActor authors the comments of timer-driven transitions.
var SystemActor = models.Actor{ID: "system", Name: "System"}

var defaultComments = map[models.Action]string{
	models.ActionSubmitForDesign: "Submitted for design",
	models.ActionStartDesign:     "Design work started",
	models.ActionSubmitForReview: "Submitted for review",
	models.ActionApprove:         "Post approved",
	models.ActionPublish:         "Post published",
	EventRelease:                 "Published on schedule",
}

func commentTypeFor(action models.Action) models.CommentType {
	switch action {
	case models.ActionApprove:
		return models.CommentApproval
	case models.ActionRequestRevision:
		return models.CommentRevisionRequest
	default:
		return models.CommentGeneral
	}
}

// transitionComment returns the comment body recorded for an action,
// falling back to the action's default message.
func transitionComment(action models.Action, input ActionInput) string {
	body := strings.TrimSpace(input.Comment)

	if action == models.ActionSchedule && input.ScheduledDate != nil {
		when := input.ScheduledDate.UTC().Format(time.RFC3339)
		if body == "" {
			return fmt.Sprintf("Scheduled for publication at %s", when)
		}

		return fmt.Sprintf("%s (scheduled for %s)", body, when)
	}

	if body != "" {
		return body
	}

	return defaultComments[action]
}

func (e *Engine) appendComment(post *models.Post, actor models.Actor, body string, kind models.CommentType, now time.Time) {
	post.Comments = append(post.Comments, models.Comment{
		ID:         e.newID(),
		PostID:     post.ID,
		AuthorID:   actor.ID,
		AuthorName: actor.Name,
		AuthorRole: actor.Role,
		Body:       body,
		Type:       kind,
		CreatedAt:  now,
	})
}

// appendRevision snapshots the current content and images and bumps the version,
// keeping len(revisions) == currentVersion - 1.
func (e *Engine) appendRevision(post *models.Post, actor models.Actor, changes string, now time.Time) {
	post.CurrentVersion++
	post.Revisions = append(post.Revisions, models.Revision{
		ID:         e.newID(),
		PostID:     post.ID,
		Version:    post.CurrentVersion,
		Content:    post.Content,
		Images:     slices.Clone(post.Images),
		EditorID:   actor.ID,
		EditorName: actor.Name,
		Changes:    changes,
		CreatedAt:  now,
	})
}

// completeStage marks the advisory deadline markers of the stage being left.
func completeStage(post *models.Post, stage models.PostStatus) {
	for i := range post.Deadlines {
		if post.Deadlines[i].Stage == stage {
			post.Deadlines[i].Completed = true
		}
	}
}

// CommentsByType returns the comments of the given type in chronological order.
func CommentsByType(post *models.Post, kind models.CommentType) []models.Comment {
	out := make([]models.Comment, 0)

	for _, comment := range post.Comments {
		if comment.Type == kind {
			out = append(out, comment)
		}
	}

	return out
}

// LatestRevision returns the most recent revision snapshot, if any.
func LatestRevision(post *models.Post) (models.Revision, bool) {
	if len(post.Revisions) == 0 {
		return models.Revision{}, false
	}

	return post.Revisions[len(post.Revisions)-1], true
}
