package workflow

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dukex/newsroom/pkg/models"
)

func TestAvailableActions(t *testing.T) {
	t.Parallel()

	inDesignBy := func(designerID string) *models.Post {
		post := postAt("p", models.StatusInDesign)
		post.DesignerID = designerID

		return post
	}

	tests := []struct {
		name     string
		post     *models.Post
		actor    models.Actor
		expected []models.Action
	}{
		{"author in draft", postAt("p", models.StatusDraft), author, []models.Action{models.ActionEditContent, models.ActionSubmitForDesign}},
		{"other editor in draft", postAt("p", models.StatusDraft), editor, []models.Action{}},
		{"designer in draft", postAt("p", models.StatusDraft), designer, []models.Action{}},
		{"designer awaiting design", postAt("p", models.StatusAwaitingDesign), designer, []models.Action{models.ActionStartDesign}},
		{"admin awaiting design", postAt("p", models.StatusAwaitingDesign), admin, []models.Action{models.ActionStartDesign}},
		{"boss awaiting design", postAt("p", models.StatusAwaitingDesign), boss, []models.Action{}},
		{"author needs revision", postAt("p", models.StatusNeedsRevision), author, []models.Action{models.ActionEditContent}},
		{"designer needs revision", postAt("p", models.StatusNeedsRevision), designer, []models.Action{models.ActionStartDesign}},
		{"assigned designer in design", inDesignBy(designer.ID), designer, []models.Action{models.ActionAddImages, models.ActionSubmitForReview}},
		{"other designer in design", inDesignBy("designer-9"), designer, []models.Action{}},
		{"admin in design", inDesignBy(designer.ID), admin, []models.Action{models.ActionAddImages, models.ActionSubmitForReview}},
		{"boss pending review", postAt("p", models.StatusPendingReview), boss, []models.Action{models.ActionApprove, models.ActionRequestRevision}},
		{"admin pending review", postAt("p", models.StatusPendingReview), admin, []models.Action{models.ActionApprove, models.ActionRequestRevision}},
		{"designer pending review", postAt("p", models.StatusPendingReview), designer, []models.Action{}},
		{"boss approved", postAt("p", models.StatusApproved), boss, []models.Action{models.ActionPublish, models.ActionSchedule}},
		{"boss published", postAt("p", models.StatusPublished), boss, []models.Action{}},
		{"boss scheduled", postAt("p", models.StatusScheduled), boss, []models.Action{}},
		{"super published", postAt("p", models.StatusPublished), root, models.AllActions()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			actions := AvailableActions(tt.post, tt.actor.Role, tt.actor.ID)
			assert.Equal(t, tt.expected, actions)

			for _, action := range models.AllActions() {
				assert.Equal(t, contains(tt.expected, action), Can(tt.post, action, tt.actor.Role, tt.actor.ID), action)
			}
		})
	}
}

func contains(actions []models.Action, action models.Action) bool {
	for _, a := range actions {
		if a == action {
			return true
		}
	}

	return false
}

func TestCan_RejectsUnknownInput(t *testing.T) {
	t.Parallel()

	post := postAt("p", models.StatusDraft)

	assert.False(t, Can(nil, models.ActionSubmitForDesign, models.RoleEditor, author.ID))
	assert.False(t, Can(post, models.Action("archive"), models.RoleSuperAdmin, root.ID))
	assert.False(t, Can(post, models.ActionSubmitForDesign, models.Role("intern"), author.ID))
	assert.False(t, Can(post, models.ActionSubmitForDesign, models.RoleEditor, ""))
	assert.Empty(t, AvailableActions(nil, models.RoleSuperAdmin, root.ID))
}
