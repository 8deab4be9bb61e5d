package eventbus_test

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dukex/newsroom/pkg/channels/gochannel"
	"github.com/dukex/newsroom/pkg/eventbus"
	"github.com/dukex/newsroom/pkg/events"
	"github.com/dukex/newsroom/pkg/models"
)

func newTestBus(t *testing.T) eventbus.EventBus {
	t.Helper()

	logger := slog.New(slog.DiscardHandler)

	pub, sub, err := gochannel.CreateChannel(watermill.NewSlogLogger(logger))
	require.NoError(t, err)

	bus := eventbus.NewWatermillEventBus(pub, sub, logger)
	t.Cleanup(func() { _ = bus.Close() })

	return bus
}

func TestWatermillEventBus_PublishAndHandle(t *testing.T) {
	t.Parallel()

	bus := newTestBus(t)
	received := make(chan *events.PostTransitioned, 1)

	require.NoError(t, bus.Handle(events.PostTransitionedEvent, func(_ context.Context, event any) error {
		received <- event.(*events.PostTransitioned)

		return nil
	}))

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	require.NoError(t, bus.Subscribe(ctx))

	err := bus.Publish(ctx, "newsroom/post-1", events.PostTransitioned{
		BaseEvent: events.BaseEvent{ID: "evt-1", Type: events.PostTransitionedEvent, PostID: "post-1"},
		Action:    models.ActionApprove,
		From:      models.StatusPendingReview,
		To:        models.StatusApproved,
	})
	require.NoError(t, err)

	select {
	case event := <-received:
		assert.Equal(t, "post-1", event.PostID)
		assert.Equal(t, models.StatusApproved, event.To)
	case <-time.After(2 * time.Second):
		t.Fatal("event was not delivered")
	}
}

func TestWatermillEventBus_IgnoresUnhandledTypes(t *testing.T) {
	t.Parallel()

	bus := newTestBus(t)
	received := make(chan any, 2)

	require.NoError(t, bus.Handle(events.PostDeletedEvent, func(_ context.Context, event any) error {
		received <- event

		return nil
	}))

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	require.NoError(t, bus.Subscribe(ctx))

	require.NoError(t, bus.Publish(ctx, "k", events.PostCreated{BaseEvent: events.BaseEvent{PostID: "a"}}))
	require.NoError(t, bus.Publish(ctx, "k", events.PostDeleted{BaseEvent: events.BaseEvent{PostID: "b"}}))

	select {
	case event := <-received:
		deleted, ok := event.(*events.PostDeleted)
		require.True(t, ok)
		assert.Equal(t, "b", deleted.PostID)
	case <-time.After(2 * time.Second):
		t.Fatal("event was not delivered")
	}
}

func TestWatermillEventBus_GenerateID(t *testing.T) {
	t.Parallel()

	bus := newTestBus(t)

	assert.NotEqual(t, bus.GenerateID(), bus.GenerateID())
}
