package events

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dukex/newsroom/pkg/models"
)

func TestNewBaseEvent(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 1, 15, 10, 0, 0, 0, time.UTC)
	post := &models.Post{
		ID:                 "post-1",
		Title:              "Harbour reopens",
		AuthorID:           "author-1",
		DesignerID:         "designer-1",
		AssignedDesignerID: "designer-1",
		ReviewerID:         "boss-1",
	}
	actor := models.Actor{ID: "boss-1", Name: "Bea", Role: models.RoleBoss}

	base := NewBaseEvent(PostTransitionedEvent, "newsroom", post, actor, now)

	assert.NotEmpty(t, base.ID)
	assert.Equal(t, PostTransitionedEvent, base.Type)
	assert.Equal(t, "post-1", base.PostID)
	assert.Equal(t, "Harbour reopens", base.PostTitle)
	assert.Equal(t, []string{"author-1", "designer-1", "boss-1"}, base.Participants)
	assert.Equal(t, now, base.Timestamp)

	empty := NewBaseEvent(PostDeletedEvent, "newsroom", nil, actor, now)
	assert.Empty(t, empty.PostID)
}

func TestEventTypes(t *testing.T) {
	t.Parallel()

	assert.Equal(t, PostCreatedEvent, PostCreated{}.GetType())
	assert.Equal(t, PostTransitionedEvent, PostTransitioned{}.GetType())
	assert.Equal(t, PostUpdatedEvent, PostUpdated{}.GetType())
	assert.Equal(t, PostCommentedEvent, PostCommented{}.GetType())
	assert.Equal(t, PostDeletedEvent, PostDeleted{}.GetType())
	assert.Equal(t, PostReleasedEvent, PostReleased{}.GetType())
}

func TestPostTransitioned_JSON(t *testing.T) {
	t.Parallel()

	event := PostTransitioned{
		BaseEvent: BaseEvent{ID: "evt-1", Type: PostTransitionedEvent, PostID: "post-1"},
		Action:    models.ActionApprove,
		From:      models.StatusPendingReview,
		To:        models.StatusApproved,
	}

	data, err := json.Marshal(event)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"post_id":"post-1"`)
	assert.Contains(t, string(data), `"from":"pending_review"`)
}
