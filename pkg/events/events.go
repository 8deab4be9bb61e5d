// Package events defines the post lifecycle events published after every persisted change.
package events

import (
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/dukex/newsroom/pkg/models"
)

type EventType string

// Topic carries every post event.
const Topic = "newsroom.posts"

const EventMetadataKey = "key"
const EventTypeMetadataKey = "event_type"

const (
	PostCreatedEvent      EventType = "post.created"
	PostTransitionedEvent EventType = "post.transitioned"
	PostUpdatedEvent      EventType = "post.updated"
	PostCommentedEvent    EventType = "post.commented"
	PostDeletedEvent      EventType = "post.deleted"
	PostReleasedEvent     EventType = "post.released"
)

type BaseEvent struct {
	ID           string      `json:"id"`
	Type         EventType   `json:"type"`
	Timestamp    time.Time   `json:"timestamp"`
	CollectionID string      `json:"collection_id"`
	PostID       string      `json:"post_id"`
	PostTitle    string      `json:"post_title"`
	ActorID      string      `json:"actor_id"`
	ActorName    string      `json:"actor_name,omitempty"`
	ActorRole    models.Role `json:"actor_role,omitempty"`
	// Participants are the users attached to the post: author, designer, reviewer and assignees.
	Participants []string `json:"participants,omitempty"`
}

// NewBaseEvent fills the common fields from the post and the acting user.
func NewBaseEvent(eventType EventType, collectionID string, post *models.Post, actor models.Actor, now time.Time) BaseEvent {
	base := BaseEvent{
		ID:           uuid.NewString(),
		Type:         eventType,
		Timestamp:    now,
		CollectionID: collectionID,
		ActorID:      actor.ID,
		ActorName:    actor.Name,
		ActorRole:    actor.Role,
	}

	if post != nil {
		base.PostID = post.ID
		base.PostTitle = post.Title
		base.Participants = Participants(post)
	}

	return base
}

// Participants returns the distinct, non-empty user ids attached to a post.
func Participants(post *models.Post) []string {
	ids := make([]string, 0, 5)

	for _, id := range []string{
		post.AuthorID,
		post.DesignerID,
		post.ReviewerID,
		post.AssignedDesignerID,
		post.AssignedReviewerID,
	} {
		if id != "" && !slices.Contains(ids, id) {
			ids = append(ids, id)
		}
	}

	return ids
}

func (b BaseEvent) Base() BaseEvent {
	return b
}

type PostCreated struct {
	BaseEvent

	Status   models.PostStatus `json:"status"`
	Priority models.Priority   `json:"priority"`
}

func (e PostCreated) GetType() EventType {
	return PostCreatedEvent
}

type PostTransitioned struct {
	BaseEvent

	Action  models.Action     `json:"action"`
	From    models.PostStatus `json:"from"`
	To      models.PostStatus `json:"to"`
	Comment string            `json:"comment,omitempty"`
	Version int               `json:"version"`
}

func (e PostTransitioned) GetType() EventType {
	return PostTransitionedEvent
}

type PostUpdated struct {
	BaseEvent

	Action models.Action `json:"action"`
}

func (e PostUpdated) GetType() EventType {
	return PostUpdatedEvent
}

type PostCommented struct {
	BaseEvent

	CommentID   string             `json:"comment_id"`
	Body        string             `json:"body"`
	CommentType models.CommentType `json:"comment_type"`
}

func (e PostCommented) GetType() EventType {
	return PostCommentedEvent
}

type PostDeleted struct {
	BaseEvent

	Status models.PostStatus `json:"status"`
}

func (e PostDeleted) GetType() EventType {
	return PostDeletedEvent
}

type PostReleased struct {
	BaseEvent

	ScheduledFor time.Time `json:"scheduled_for"`
}

func (e PostReleased) GetType() EventType {
	return PostReleasedEvent
}
