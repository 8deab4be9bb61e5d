package models

import (
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostStatus_Ordinal(t *testing.T) {
	t.Parallel()

	statuses := AllStatuses()
	for i, status := range statuses {
		assert.Equal(t, i, status.Ordinal(), status)
		assert.True(t, status.IsValid())
		assert.NotEmpty(t, status.Info().Label)
	}

	assert.Equal(t, -1, PostStatus("archived").Ordinal())
	assert.False(t, PostStatus("archived").IsValid())
	assert.Equal(t, "archived", PostStatus("archived").Info().Label)
}

func TestPriority_IsElevated(t *testing.T) {
	t.Parallel()

	tests := []struct {
		priority Priority
		elevated bool
	}{
		{PriorityUrgent, true},
		{PriorityHigh, true},
		{PriorityNormal, false},
		{PriorityLow, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.priority), func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.elevated, tt.priority.IsElevated())
			assert.True(t, tt.priority.IsValid())
		})
	}

	assert.False(t, Priority("critical").IsValid())
	assert.Equal(t, PriorityNormal, DefaultPriority)
}

func TestRole_Tiers(t *testing.T) {
	t.Parallel()

	assert.True(t, RoleSuperAdmin.IsSuper())
	assert.False(t, RoleAdmin.IsSuper())
	assert.True(t, RoleSuperAdmin.IsAdminTier())
	assert.True(t, RoleAdmin.IsAdminTier())
	assert.False(t, RoleBoss.IsAdminTier())
	assert.False(t, Role("intern").IsValid())

	for _, role := range AllRoles() {
		assert.True(t, role.IsValid(), role)
	}
}

func TestAction_IsTransition(t *testing.T) {
	t.Parallel()

	assert.False(t, ActionEditContent.IsTransition())
	assert.False(t, ActionAddImages.IsTransition())
	assert.True(t, ActionSchedule.IsTransition())
	assert.False(t, Action("release").IsTransition())
	assert.True(t, BulkDelete.IsValid())
	assert.False(t, BulkVerb("archive").IsValid())
}

func TestPost_CloneIsDeep(t *testing.T) {
	t.Parallel()

	deadline := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	original := &Post{
		ID:              "post-1",
		Title:           "Headline",
		Tags:            []string{"politics"},
		Images:          []string{"a.png"},
		OverallDeadline: &deadline,
		Comments:        []Comment{{ID: "c1", Body: "first"}},
		Revisions:       []Revision{{ID: "r1", Version: 2, Images: []string{"old.png"}}},
	}

	clone := original.Clone()
	require.NotSame(t, original, clone)

	clone.Tags[0] = "sports"
	clone.Images = append(clone.Images, "b.png")
	*clone.OverallDeadline = deadline.Add(time.Hour)
	clone.Comments[0].Body = "changed"
	clone.Revisions[0].Images[0] = "new.png"

	assert.Equal(t, "politics", original.Tags[0])
	assert.Len(t, original.Images, 1)
	assert.Equal(t, deadline, *original.OverallDeadline)
	assert.Equal(t, "first", original.Comments[0].Body)
	assert.Equal(t, "old.png", original.Revisions[0].Images[0])

	var nilPost *Post
	assert.Nil(t, nilPost.Clone())
}

func TestPost_Validation(t *testing.T) {
	t.Parallel()

	validate := validator.New(validator.WithRequiredStructEnabled())

	valid := &Post{
		ID:             "post-1",
		Title:          "Headline",
		Status:         StatusDraft,
		Priority:       PriorityNormal,
		CurrentVersion: 1,
		AuthorID:       "author-1",
	}
	require.NoError(t, validate.Struct(valid))

	invalid := *valid
	invalid.Title = ""
	invalid.CurrentVersion = 0
	assert.Error(t, validate.Struct(&invalid))
}
