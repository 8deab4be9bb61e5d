package notifications

import (
	"context"
	"fmt"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dukex/newsroom/pkg/events"
	"github.com/dukex/newsroom/pkg/models"
)

func TestRecipients(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		base events.BaseEvent
		want []string
	}{
		{
			name: "excludes actor",
			base: events.BaseEvent{ActorID: "editor-1", Participants: []string{"editor-1", "designer-1", "boss-1"}},
			want: []string{"designer-1", "boss-1"},
		},
		{
			name: "deduplicates and skips blanks",
			base: events.BaseEvent{ActorID: "boss-1", Participants: []string{"", "designer-1", "designer-1"}},
			want: []string{"designer-1"},
		},
		{
			name: "nobody left",
			base: events.BaseEvent{ActorID: "editor-1", Participants: []string{"editor-1"}},
			want: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, Recipients(tt.base))
		})
	}
}

func TestDescribe(t *testing.T) {
	t.Parallel()

	base := events.BaseEvent{PostTitle: "Harbour reopens", ActorName: "Bea"}

	_, message, ok := Describe(&events.PostTransitioned{
		BaseEvent: base,
		From:      models.StatusPendingReview,
		To:        models.StatusNeedsRevision,
	})
	require.True(t, ok)
	assert.Equal(t, `Bea moved "Harbour reopens" from Pending Review to Needs Revision`, message)

	_, message, ok = Describe(&events.PostReleased{BaseEvent: base})
	require.True(t, ok)
	assert.Equal(t, `"Harbour reopens" was published on schedule`, message)

	_, _, ok = Describe("not an event")
	assert.False(t, ok)
}

func TestInbox_BoundedNewestFirst(t *testing.T) {
	t.Parallel()

	inbox := NewInbox(3)
	for i := range 5 {
		inbox.Add(Notification{ID: fmt.Sprintf("n-%d", i), UserID: "u"})
	}

	entries := inbox.List("u", 0)
	require.Len(t, entries, 3)
	assert.Equal(t, "n-4", entries[0].ID)
	assert.Equal(t, "n-2", entries[2].ID)

	assert.Len(t, inbox.List("u", 2), 2)
	assert.Empty(t, inbox.List("other", 0))

	inbox.Clear("u")
	assert.Zero(t, inbox.Count("u"))
}

func TestSubscriber_HandleEvent(t *testing.T) {
	t.Parallel()

	inbox := NewInbox(0)
	subscriber := NewSubscriber(inbox, slog.New(slog.DiscardHandler))
	now := time.Date(2025, 1, 15, 10, 0, 0, 0, time.UTC)

	err := subscriber.HandleEvent(context.Background(), &events.PostCommented{
		BaseEvent: events.BaseEvent{
			Type:         events.PostCommentedEvent,
			Timestamp:    now,
			PostID:       "post-1",
			PostTitle:    "Harbour reopens",
			ActorID:      "boss-1",
			ActorName:    "Bea",
			Participants: []string{"editor-1", "designer-1", "boss-1"},
		},
		Body: "Tighten the lede",
	})
	require.NoError(t, err)

	assert.Equal(t, 1, inbox.Count("editor-1"))
	assert.Equal(t, 1, inbox.Count("designer-1"))
	assert.Zero(t, inbox.Count("boss-1"))

	entry := inbox.List("editor-1", 1)[0]
	assert.Equal(t, "post-1", entry.PostID)
	assert.Equal(t, now, entry.CreatedAt)
	assert.Contains(t, entry.Message, "Tighten the lede")
}
