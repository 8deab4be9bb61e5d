package query

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/dukex/newsroom/pkg/models"
)

var now = time.Date(2025, 1, 15, 10, 0, 0, 0, time.UTC)

func post(id, title string, status models.PostStatus, age time.Duration) *models.Post {
	return &models.Post{
		ID:        id,
		Title:     title,
		Status:    status,
		Priority:  models.PriorityNormal,
		AuthorID:  "author-1",
		CreatedAt: now.Add(-age),
		UpdatedAt: now.Add(-age),
	}
}

func ids(posts []*models.Post) []string {
	out := make([]string, 0, len(posts))
	for _, p := range posts {
		out = append(out, p.ID)
	}

	return out
}

func fixture() []*models.Post {
	a := post("a", "Zoning board meets", models.StatusDraft, 3*time.Hour)
	a.Tags = []string{"City-Hall"}

	b := post("b", "apple harvest", models.StatusPendingReview, time.Hour)
	b.Category = "Agriculture"
	b.AuthorID = "author-2"

	c := post("c", "Match report", models.StatusAwaitingDesign, 2*time.Hour)
	c.Content = "The derby ended in a draw"
	c.AuthorID = "author-2"
	c.DesignerID = "author-1"

	d := post("d", "Budget", models.StatusNeedsRevision, 4*time.Hour)

	return []*models.Post{a, b, c, d}
}

func TestByStatus(t *testing.T) {
	t.Parallel()

	posts := fixture()

	assert.Equal(t, []string{"b"}, ids(ByStatus(posts, "pending_review")))
	assert.Equal(t, []string{"a", "b", "c", "d"}, ids(ByStatus(posts, StatusAll)))
	assert.Equal(t, []string{"a", "b", "c", "d"}, ids(ByStatus(posts, "")))
	assert.Empty(t, ByStatus(posts, "published"))
}

func TestSearch(t *testing.T) {
	t.Parallel()

	posts := fixture()

	tests := []struct {
		q        string
		expected []string
	}{
		{"ZONING", []string{"a"}},
		{"city-hall", []string{"a"}},
		{"agri", []string{"b"}},
		{"derby", []string{"c"}},
		{"  ", []string{"a", "b", "c", "d"}},
		{"nothing matches", []string{}},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, ids(Search(posts, tt.q)), tt.q)
	}
}

func TestByView(t *testing.T) {
	t.Parallel()

	posts := fixture()

	assert.Equal(t, []string{"a", "c", "d"}, ids(ByView(posts, ViewMyPosts, "author-1", models.RoleEditor)))
	assert.Equal(t, []string{"a", "d"}, ids(ByView(posts, ViewPendingAction, "author-1", models.RoleEditor)))
	assert.Equal(t, []string{"c"}, ids(ByView(posts, ViewPendingAction, "designer-1", models.RoleDesigner)))
	assert.Equal(t, []string{"b"}, ids(ByView(posts, ViewPendingAction, "boss-1", models.RoleBoss)))
	assert.Equal(t, []string{"a", "b", "d"}, ids(ByView(posts, ViewPendingAction, "author-1", models.RoleAdmin)))
	assert.Len(t, ByView(posts, ViewAll, "", models.RoleEditor), 4)
}

func TestSort(t *testing.T) {
	t.Parallel()

	posts := fixture()

	assert.Equal(t, []string{"b", "c", "a", "d"}, ids(Sort(posts, SortNewest)))
	assert.Equal(t, []string{"d", "a", "c", "b"}, ids(Sort(posts, SortOldest)))
	assert.Equal(t, []string{"b", "d", "c", "a"}, ids(Sort(posts, SortTitle)))
	// lexicographic: awaiting_design < draft < needs_revision < pending_review
	assert.Equal(t, []string{"c", "a", "d", "b"}, ids(Sort(posts, SortStatus)))
	// workflow: draft < awaiting_design < pending_review < needs_revision
	assert.Equal(t, []string{"a", "c", "b", "d"}, ids(Sort(posts, SortWorkflow)))
	assert.Equal(t, []string{"a", "b", "c", "d"}, ids(Sort(posts, SortKey("random"))))

	// input order is preserved
	assert.Equal(t, []string{"a", "b", "c", "d"}, ids(posts))
}

func TestNeedingAttention(t *testing.T) {
	t.Parallel()

	overdue := post("overdue", "Late", models.StatusInDesign, time.Hour)
	past := now.Add(-time.Hour)
	overdue.OverallDeadline = &past

	assigned := post("assigned", "Mine", models.StatusAwaitingDesign, time.Hour)
	assigned.AssignedDesignerID = "designer-1"

	assignedStale := post("assigned-stale", "Moved on", models.StatusInDesign, time.Hour)
	assignedStale.AssignedDesignerID = "designer-1"

	urgent := post("urgent", "Breaking", models.StatusAwaitingDesign, time.Hour)
	urgent.Priority = models.PriorityUrgent

	urgentReview := post("urgent-review", "Breaking review", models.StatusPendingReview, time.Hour)
	urgentReview.Priority = models.PriorityHigh

	future := now.Add(48 * time.Hour)
	calm := post("calm", "Later", models.StatusAwaitingDesign, time.Hour)
	calm.OverallDeadline = &future

	reviewer := post("reviewer", "To review", models.StatusPendingReview, time.Hour)
	reviewer.AssignedReviewerID = "boss-1"

	posts := []*models.Post{overdue, assigned, assignedStale, urgent, urgentReview, calm, reviewer}

	assert.Equal(t, []string{"overdue", "assigned", "urgent"}, ids(NeedingAttention(posts, "designer-1", models.RoleDesigner, now)))
	assert.Equal(t, []string{"overdue", "urgent-review", "reviewer"}, ids(NeedingAttention(posts, "boss-1", models.RoleBoss, now)))
	assert.Equal(t, []string{"overdue"}, ids(NeedingAttention(posts, "editor-1", models.RoleEditor, now)))
}

func TestApply(t *testing.T) {
	t.Parallel()

	posts := fixture()
	viewer := models.Actor{ID: "author-1", Role: models.RoleEditor}

	result := Apply(posts, Options{View: ViewMyPosts, Sort: SortTitle}, viewer, now)
	assert.Equal(t, []string{"d", "c", "a"}, ids(result))

	result = Apply(posts, Options{Status: "draft", Search: "zoning"}, viewer, now)
	assert.Equal(t, []string{"a"}, ids(result))

	result = Apply(posts, Options{}, viewer, now)
	assert.Equal(t, []string{"b", "c", "a", "d"}, ids(result))
}

func TestCounts(t *testing.T) {
	t.Parallel()

	posts := fixture()
	soon := now.Add(time.Hour)
	posts[0].OverallDeadline = &soon

	counts := CountByStatus(posts)
	assert.Len(t, counts, 8)
	assert.Equal(t, 1, counts[models.StatusDraft])
	assert.Equal(t, 0, counts[models.StatusPublished])

	byDeadline := CountByDeadline(posts, now)
	assert.Equal(t, 1, byDeadline["due-soon"])
	assert.Equal(t, 0, byDeadline["overdue"])
}
