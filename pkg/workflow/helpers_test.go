package workflow

import (
	"fmt"
	"time"

	"github.com/dukex/newsroom/pkg/clock"
	"github.com/dukex/newsroom/pkg/models"
)

var testNow = time.Date(2025, 1, 15, 10, 0, 0, 0, time.UTC)

var (
	author   = models.Actor{ID: "author-1", Name: "Alice", Role: models.RoleEditor}
	editor   = models.Actor{ID: "editor-2", Name: "Eve", Role: models.RoleEditor}
	designer = models.Actor{ID: "designer-1", Name: "Dan", Role: models.RoleDesigner}
	boss     = models.Actor{ID: "boss-1", Name: "Bea", Role: models.RoleBoss}
	admin    = models.Actor{ID: "admin-1", Name: "Ada", Role: models.RoleAdmin}
	root     = models.Actor{ID: "root-1", Name: "Root", Role: models.RoleSuperAdmin}
)

func newTestEngine() (*Engine, *clock.Fixed) {
	c := clock.NewFixed(testNow)
	seq := 0

	engine := NewEngine(c, WithIDGenerator(func() string {
		seq++

		return fmt.Sprintf("id-%d", seq)
	}))

	return engine, c
}

func postAt(id string, status models.PostStatus) *models.Post {
	created := testNow.Add(-24 * time.Hour)

	return &models.Post{
		ID:             id,
		Title:          "Budget vote delayed",
		Content:        "The council postponed the vote.",
		Category:       "politics",
		Tags:           []string{"council"},
		Images:         []string{},
		Status:         status,
		Priority:       models.PriorityNormal,
		CurrentVersion: 1,
		AuthorID:       author.ID,
		AuthorName:     author.Name,
		CreatedAt:      created,
		UpdatedAt:      created,
		Comments:       []models.Comment{},
		Revisions:      []models.Revision{},
		Deadlines:      []models.DeadlineMarker{},
	}
}

func timePtr(t time.Time) *time.Time {
	return &t
}
