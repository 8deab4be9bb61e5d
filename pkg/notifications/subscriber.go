package notifications

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/dukex/newsroom/pkg/eventbus"
	"github.com/dukex/newsroom/pkg/events"
)

var subscribedEvents = []events.EventType{
	events.PostCreatedEvent,
	events.PostTransitionedEvent,
	events.PostUpdatedEvent,
	events.PostCommentedEvent,
	events.PostDeletedEvent,
	events.PostReleasedEvent,
}

type Subscriber struct {
	inbox  *Inbox
	logger *slog.Logger
}

func NewSubscriber(inbox *Inbox, logger *slog.Logger) *Subscriber {
	return &Subscriber{
		inbox:  inbox,
		logger: logger.With("module", "notifications"),
	}
}

// Register attaches the subscriber to every post event type on the bus.
func (s *Subscriber) Register(bus eventbus.EventSubscriber) error {
	for _, eventType := range subscribedEvents {
		if err := bus.Handle(eventType, s.HandleEvent); err != nil {
			return err
		}
	}

	return nil
}

func (s *Subscriber) HandleEvent(ctx context.Context, event any) error {
	base, message, ok := Describe(event)
	if !ok {
		s.logger.WarnContext(ctx, "ignoring unexpected event payload")

		return nil
	}

	recipients := Recipients(base)
	for _, userID := range recipients {
		s.inbox.Add(Notification{
			ID:           uuid.NewString(),
			UserID:       userID,
			EventType:    base.Type,
			CollectionID: base.CollectionID,
			PostID:       base.PostID,
			PostTitle:    base.PostTitle,
			ActorID:      base.ActorID,
			ActorName:    base.ActorName,
			Message:      message,
			CreatedAt:    base.Timestamp,
		})
	}

	s.logger.DebugContext(ctx, "notifications delivered",
		"event_type", base.Type,
		"post_id", base.PostID,
		"recipients", len(recipients))

	return nil
}
