// Package query implements the pure filter, search and sort pipeline over a post collection.
// Inputs are never mutated; every function returns a new slice.
package query

import (
	"cmp"
	"slices"
	"strings"
	"time"

	"github.com/dukex/newsroom/pkg/deadline"
	"github.com/dukex/newsroom/pkg/models"
)

// StatusAll disables the status filter.
const StatusAll = "all"

type View string

const (
	ViewAll           View = "all"
	ViewMyPosts       View = "my_posts"
	ViewPendingAction View = "pending_action"
)

type SortKey string

const (
	SortNewest SortKey = "newest"
	SortOldest SortKey = "oldest"
	SortTitle  SortKey = "title"
	// SortStatus compares the raw status strings, not the workflow order.
	SortStatus SortKey = "status"
	// SortWorkflow orders by the position of the status in the workflow.
	SortWorkflow SortKey = "workflow"
)

// Options composes the pipeline stages.
type Options struct {
	Status         string
	Search         string
	View           View
	Sort           SortKey
	NeedsAttention bool
}

func filter(posts []*models.Post, keep func(*models.Post) bool) []*models.Post {
	out := make([]*models.Post, 0, len(posts))

	for _, post := range posts {
		if post != nil && keep(post) {
			out = append(out, post)
		}
	}

	return out
}

// ByStatus keeps posts with exactly the given status. "all" and "" pass everything through.
func ByStatus(posts []*models.Post, status string) []*models.Post {
	if status == "" || status == StatusAll {
		return filter(posts, func(*models.Post) bool { return true })
	}

	return filter(posts, func(post *models.Post) bool {
		return string(post.Status) == status
	})
}

// Search keeps posts whose title, content, category or any tag contains q, ignoring case.
func Search(posts []*models.Post, q string) []*models.Post {
	needle := strings.ToLower(strings.TrimSpace(q))
	if needle == "" {
		return filter(posts, func(*models.Post) bool { return true })
	}

	return filter(posts, func(post *models.Post) bool {
		if strings.Contains(strings.ToLower(post.Title), needle) ||
			strings.Contains(strings.ToLower(post.Content), needle) ||
			strings.Contains(strings.ToLower(post.Category), needle) {
			return true
		}

		return slices.ContainsFunc(post.Tags, func(tag string) bool {
			return strings.Contains(strings.ToLower(tag), needle)
		})
	})
}

// NextActStatus returns the status a role is expected to act on next.
func NextActStatus(role models.Role) (models.PostStatus, bool) {
	switch role {
	case models.RoleDesigner:
		return models.StatusAwaitingDesign, true
	case models.RoleBoss, models.RoleAdmin, models.RoleSuperAdmin:
		return models.StatusPendingReview, true
	default:
		return "", false
	}
}

func isMine(post *models.Post, userID string) bool {
	return userID != "" && (post.AuthorID == userID || post.DesignerID == userID)
}

func pendingOn(post *models.Post, userID string, role models.Role) bool {
	if next, ok := NextActStatus(role); ok && post.Status == next {
		return true
	}

	return userID != "" && post.AuthorID == userID &&
		(post.Status == models.StatusDraft || post.Status == models.StatusNeedsRevision)
}

// ByView applies a view mode. Unknown views behave like "all".
func ByView(posts []*models.Post, view View, userID string, role models.Role) []*models.Post {
	switch view {
	case ViewMyPosts:
		return filter(posts, func(post *models.Post) bool { return isMine(post, userID) })
	case ViewPendingAction:
		return filter(posts, func(post *models.Post) bool { return pendingOn(post, userID, role) })
	default:
		return filter(posts, func(*models.Post) bool { return true })
	}
}

func compareTitle(a, b *models.Post) int {
	return cmp.Compare(strings.ToLower(a.Title), strings.ToLower(b.Title))
}

// Sort returns a stably sorted copy. Unknown keys keep the collection order.
func Sort(posts []*models.Post, key SortKey) []*models.Post {
	out := filter(posts, func(*models.Post) bool { return true })

	var compare func(a, b *models.Post) int

	switch key {
	case SortNewest:
		compare = func(a, b *models.Post) int { return b.CreatedAt.Compare(a.CreatedAt) }
	case SortOldest:
		compare = func(a, b *models.Post) int { return a.CreatedAt.Compare(b.CreatedAt) }
	case SortTitle:
		compare = compareTitle
	case SortStatus:
		compare = func(a, b *models.Post) int { return cmp.Compare(string(a.Status), string(b.Status)) }
	case SortWorkflow:
		compare = func(a, b *models.Post) int { return cmp.Compare(a.Status.Ordinal(), b.Status.Ordinal()) }
	default:
		return out
	}

	slices.SortStableFunc(out, compare)

	return out
}

// NeedingAttention unions overdue posts, posts pre-assigned to the user at the stage
// they were assigned for, and elevated-priority posts waiting on the user's role.
// Collection order is kept and no post appears twice.
func NeedingAttention(posts []*models.Post, userID string, role models.Role, now time.Time) []*models.Post {
	next, hasNext := NextActStatus(role)

	return filter(posts, func(post *models.Post) bool {
		if class, ok := deadline.ClassifyPtr(post.OverallDeadline, now); ok && class == deadline.Overdue {
			return true
		}

		if userID != "" {
			if post.AssignedDesignerID == userID && post.Status == models.StatusAwaitingDesign {
				return true
			}

			if post.AssignedReviewerID == userID && post.Status == models.StatusPendingReview {
				return true
			}
		}

		return hasNext && post.Priority.IsElevated() && post.Status == next
	})
}

// Apply runs the pipeline for a viewer: status, view, search, attention, then sort last.
func Apply(posts []*models.Post, opts Options, viewer models.Actor, now time.Time) []*models.Post {
	out := ByStatus(posts, opts.Status)
	out = ByView(out, opts.View, viewer.ID, viewer.Role)
	out = Search(out, opts.Search)

	if opts.NeedsAttention {
		out = NeedingAttention(out, viewer.ID, viewer.Role, now)
	}

	if opts.Sort == "" {
		return Sort(out, SortNewest)
	}

	return Sort(out, opts.Sort)
}

// CountByStatus returns the number of posts per status, with every status present.
func CountByStatus(posts []*models.Post) map[models.PostStatus]int {
	counts := make(map[models.PostStatus]int, len(models.AllStatuses()))

	for _, status := range models.AllStatuses() {
		counts[status] = 0
	}

	for _, post := range posts {
		if post != nil {
			counts[post.Status]++
		}
	}

	return counts
}

// CountByDeadline returns how many posts are overdue, due soon and on track.
// Posts without a deadline are not counted.
func CountByDeadline(posts []*models.Post, now time.Time) map[deadline.Classification]int {
	counts := map[deadline.Classification]int{
		deadline.Overdue: 0,
		deadline.DueSoon: 0,
		deadline.OnTrack: 0,
	}

	for _, post := range posts {
		if post == nil {
			continue
		}

		if class, ok := deadline.ClassifyPtr(post.OverallDeadline, now); ok {
			counts[class]++
		}
	}

	return counts
}
