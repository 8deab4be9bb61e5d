// Package notifications turns post events into per-user inbox entries.
package notifications

import (
	"fmt"
	"slices"
	"time"

	"github.com/dukex/newsroom/pkg/events"
)

type Notification struct {
	ID           string           `json:"id"`
	UserID       string           `json:"user_id"`
	EventType    events.EventType `json:"event_type"`
	CollectionID string           `json:"collection_id"`
	PostID       string           `json:"post_id"`
	PostTitle    string           `json:"post_title"`
	ActorID      string           `json:"actor_id"`
	ActorName    string           `json:"actor_name,omitempty"`
	Message      string           `json:"message"`
	CreatedAt    time.Time        `json:"created_at"`
}

// Recipients are the event's participants without the acting user.
func Recipients(base events.BaseEvent) []string {
	recipients := make([]string, 0, len(base.Participants))

	for _, id := range base.Participants {
		if id == "" || id == base.ActorID || slices.Contains(recipients, id) {
			continue
		}

		recipients = append(recipients, id)
	}

	return recipients
}

func actorName(base events.BaseEvent) string {
	if base.ActorName != "" {
		return base.ActorName
	}

	if base.ActorID != "" {
		return base.ActorID
	}

	return "Someone"
}

// Describe renders the inbox message for an event. ok is false for events that notify nobody.
func Describe(event any) (events.BaseEvent, string, bool) {
	switch e := event.(type) {
	case *events.PostCreated:
		return e.BaseEvent, fmt.Sprintf("%s created %q", actorName(e.BaseEvent), e.PostTitle), true
	case *events.PostTransitioned:
		return e.BaseEvent, fmt.Sprintf("%s moved %q from %s to %s",
			actorName(e.BaseEvent), e.PostTitle, e.From.Info().Label, e.To.Info().Label), true
	case *events.PostUpdated:
		return e.BaseEvent, fmt.Sprintf("%s updated %q", actorName(e.BaseEvent), e.PostTitle), true
	case *events.PostCommented:
		return e.BaseEvent, fmt.Sprintf("%s commented on %q: %s", actorName(e.BaseEvent), e.PostTitle, e.Body), true
	case *events.PostDeleted:
		return e.BaseEvent, fmt.Sprintf("%s deleted %q", actorName(e.BaseEvent), e.PostTitle), true
	case *events.PostReleased:
		return e.BaseEvent, fmt.Sprintf("%q was published on schedule", e.PostTitle), true
	default:
		return events.BaseEvent{}, "", false
	}
}
