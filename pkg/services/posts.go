package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/dukex/newsroom/pkg/deadline"
	"github.com/dukex/newsroom/pkg/eventbus"
	"github.com/dukex/newsroom/pkg/events"
	"github.com/dukex/newsroom/pkg/models"
	"github.com/dukex/newsroom/pkg/otelhelper"
	"github.com/dukex/newsroom/pkg/persistence"
	"github.com/dukex/newsroom/pkg/query"
	"github.com/dukex/newsroom/pkg/workflow"
)

// Posts serializes writes per collection: at most one load-modify-save runs per collection at a time.
type Posts struct {
	persistence persistence.Persistence
	publisher   eventbus.EventPublisher
	engine      *workflow.Engine
	logger      *slog.Logger
	tracer      trace.Tracer

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewPosts creates a posts service. publisher may be nil, in which case no events are emitted.
func NewPosts(p persistence.Persistence, publisher eventbus.EventPublisher, engine *workflow.Engine, logger *slog.Logger) *Posts {
	return &Posts{
		persistence: p,
		publisher:   publisher,
		engine:      engine,
		logger:      logger.With("module", "posts_service"),
		tracer:      otelhelper.Tracer("newsroom.services.posts"),
		locks:       make(map[string]*sync.Mutex),
	}
}

// PostDetail is a post together with what the viewer may do with it.
type PostDetail struct {
	Post             *models.Post            `json:"post"`
	Actions          []models.Action         `json:"available_actions"`
	DeadlineStatus   deadline.Classification `json:"deadline_status,omitempty"`
	DeadlineLabel    string                  `json:"deadline_label,omitempty"`
	LatestRevision   *models.Revision        `json:"latest_revision,omitempty"`
	RevisionRequests []models.Comment        `json:"revision_requests"`
}

type Stats struct {
	Total            int                             `json:"total"`
	ByStatus         map[models.PostStatus]int       `json:"by_status"`
	ByDeadline       map[deadline.Classification]int `json:"by_deadline"`
	NeedingAttention int                             `json:"needing_attention"`
	BulkVerbs        []models.BulkVerb               `json:"bulk_verbs"`
}

// HealthCheck checks the health of the persistence layer.
func (s *Posts) HealthCheck(ctx context.Context) (string, bool) {
	if s.persistence == nil {
		return "Persistence layer not initialized", false
	}

	err := s.persistence.HealthCheck(ctx)
	if err != nil {
		return "Persistence layer is unhealthy: " + err.Error(), false
	}

	return "Persistence layer is healthy", true
}

func (s *Posts) lock(collectionID string) func() {
	s.mu.Lock()

	l, ok := s.locks[collectionID]
	if !ok {
		l = &sync.Mutex{}
		s.locks[collectionID] = l
	}

	s.mu.Unlock()

	l.Lock()

	return l.Unlock
}

// nolint:spancheck
func (s *Posts) startSpan(ctx context.Context, name, collectionID string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	attrs = append(attrs, attribute.String(otelhelper.CollectionIDKey, collectionID))

	return otelhelper.StartSpan(ctx, s.tracer, name, attrs...)
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		otelhelper.SetError(span, err)
	}

	span.End()
}

func actorAttrs(actor models.Actor) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String(otelhelper.ActorIDKey, actor.ID),
		attribute.String(otelhelper.ActorRoleKey, string(actor.Role)),
	}
}

func validateActor(op string, actor models.Actor) error {
	if actor.ID == "" || !actor.Role.IsValid() {
		return &ServiceError{Op: op, Code: CodeValidation, Err: workflow.ErrActorRequired}
	}

	return nil
}

func (s *Posts) load(ctx context.Context, op, collectionID string) ([]*models.Post, error) {
	if err := persistence.ValidateCollectionID(collectionID); err != nil {
		return nil, wrapError(op, err)
	}

	posts, err := s.persistence.Load(ctx, collectionID)
	if err != nil {
		return nil, wrapError(op, fmt.Errorf("failed to load collection: %w", err))
	}

	return posts, nil
}

// mutate runs fn against the current collection under the collection lock, saves the
// collection fn returns and publishes its events once the save succeeded. A nil
// collection from fn means nothing changed and skips the save.
func (s *Posts) mutate(
	ctx context.Context,
	op, collectionID string,
	fn func(posts []*models.Post) ([]*models.Post, []eventbus.Event, error),
) error {
	if err := persistence.ValidateCollectionID(collectionID); err != nil {
		return wrapError(op, err)
	}

	unlock := s.lock(collectionID)
	defer unlock()

	posts, err := s.load(ctx, op, collectionID)
	if err != nil {
		return err
	}

	next, pending, err := fn(posts)
	if err != nil {
		return wrapError(op, err)
	}

	if next == nil {
		return nil
	}

	if err := s.persistence.Save(ctx, collectionID, next); err != nil {
		return wrapError(op, fmt.Errorf("failed to save collection: %w", err))
	}

	s.publish(ctx, collectionID, pending)

	return nil
}

// publish is best effort: the collection is already saved, so failures are logged.
func (s *Posts) publish(ctx context.Context, collectionID string, pending []eventbus.Event) {
	if s.publisher == nil {
		return
	}

	for _, event := range pending {
		key := collectionID
		if b, ok := event.(interface{ Base() events.BaseEvent }); ok {
			key = collectionID + "/" + b.Base().PostID
		}

		if err := s.publisher.Publish(ctx, key, event); err != nil {
			s.logger.ErrorContext(ctx, "failed to publish event",
				"collection_id", collectionID,
				"event_type", event.GetType(),
				"error", err)
		}
	}
}

func (s *Posts) base(eventType events.EventType, collectionID string, post *models.Post, actor models.Actor) events.BaseEvent {
	return events.NewBaseEvent(eventType, collectionID, post, actor, s.engine.Now())
}

// List returns the viewer's filtered and sorted posts.
func (s *Posts) List(ctx context.Context, collectionID string, viewer models.Actor, opts query.Options) (_ []*models.Post, err error) {
	ctx, span := s.startSpan(ctx, "posts.list", collectionID, actorAttrs(viewer)...)
	defer func() { endSpan(span, err) }()

	posts, err := s.load(ctx, "List", collectionID)
	if err != nil {
		return nil, err
	}

	return query.Apply(posts, opts, viewer, s.engine.Now()), nil
}

// Get returns a post with the actions available to the viewer.
func (s *Posts) Get(ctx context.Context, collectionID, postID string, viewer models.Actor) (_ *PostDetail, err error) {
	ctx, span := s.startSpan(ctx, "posts.get", collectionID,
		append(actorAttrs(viewer), attribute.String(otelhelper.PostIDKey, postID))...)
	defer func() { endSpan(span, err) }()

	posts, err := s.load(ctx, "Get", collectionID)
	if err != nil {
		return nil, err
	}

	post, err := workflow.FindPost(posts, postID)
	if err != nil {
		return nil, wrapError("Get", err)
	}

	now := s.engine.Now()

	detail := &PostDetail{
		Post:             post,
		Actions:          workflow.AvailableActions(post, viewer.Role, viewer.ID),
		RevisionRequests: workflow.CommentsByType(post, models.CommentRevisionRequest),
	}

	if class, ok := deadline.ClassifyPtr(post.OverallDeadline, now); ok {
		detail.DeadlineStatus = class
		detail.DeadlineLabel = deadline.Format(*post.OverallDeadline, now)
	}

	if revision, ok := workflow.LatestRevision(post); ok {
		detail.LatestRevision = &revision
	}

	return detail, nil
}

// Create adds a draft post authored by the actor.
func (s *Posts) Create(ctx context.Context, collectionID string, actor models.Actor, draft workflow.PostDraft) (_ *models.Post, err error) {
	ctx, span := s.startSpan(ctx, "posts.create", collectionID, actorAttrs(actor)...)
	defer func() { endSpan(span, err) }()

	if err := validateActor("Create", actor); err != nil {
		return nil, err
	}

	var created *models.Post

	err = s.mutate(ctx, "Create", collectionID, func(posts []*models.Post) ([]*models.Post, []eventbus.Event, error) {
		post, err := s.engine.NewPost(actor, draft)
		if err != nil {
			return nil, nil, err
		}

		created = post

		return workflow.AddPost(posts, post), []eventbus.Event{events.PostCreated{
			BaseEvent: s.base(events.PostCreatedEvent, collectionID, post, actor),
			Status:    post.Status,
			Priority:  post.Priority,
		}}, nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "post created", "collection_id", collectionID, "post_id", created.ID, "actor_id", actor.ID)

	return created, nil
}

// update applies fn to one post and replaces it in the collection.
func (s *Posts) update(
	ctx context.Context,
	op, collectionID, postID string,
	fn func(post *models.Post) (*models.Post, []eventbus.Event, error),
) (*models.Post, error) {
	var updated *models.Post

	err := s.mutate(ctx, op, collectionID, func(posts []*models.Post) ([]*models.Post, []eventbus.Event, error) {
		post, err := workflow.FindPost(posts, postID)
		if err != nil {
			return nil, nil, err
		}

		next, pending, err := fn(post)
		if err != nil {
			return nil, nil, err
		}

		replaced, err := workflow.ReplacePost(posts, next)
		if err != nil {
			return nil, nil, err
		}

		updated = next

		return replaced, pending, nil
	})
	if err != nil {
		return nil, err
	}

	return updated, nil
}

// EditContent applies a partial content update as the author.
func (s *Posts) EditContent(ctx context.Context, collectionID, postID string, actor models.Actor, changes workflow.ContentChanges) (_ *models.Post, err error) {
	ctx, span := s.startSpan(ctx, "posts.edit_content", collectionID,
		append(actorAttrs(actor), attribute.String(otelhelper.PostIDKey, postID))...)
	defer func() { endSpan(span, err) }()

	if err := validateActor("EditContent", actor); err != nil {
		return nil, err
	}

	return s.update(ctx, "EditContent", collectionID, postID, func(post *models.Post) (*models.Post, []eventbus.Event, error) {
		updated, err := s.engine.EditContent(post, actor, changes)
		if err != nil {
			return nil, nil, err
		}

		return updated, []eventbus.Event{events.PostUpdated{
			BaseEvent: s.base(events.PostUpdatedEvent, collectionID, updated, actor),
			Action:    models.ActionEditContent,
		}}, nil
	})
}

// AddImages appends images to a post in design.
func (s *Posts) AddImages(ctx context.Context, collectionID, postID string, actor models.Actor, images []string) (_ *models.Post, err error) {
	ctx, span := s.startSpan(ctx, "posts.add_images", collectionID,
		append(actorAttrs(actor), attribute.String(otelhelper.PostIDKey, postID))...)
	defer func() { endSpan(span, err) }()

	if err := validateActor("AddImages", actor); err != nil {
		return nil, err
	}

	return s.update(ctx, "AddImages", collectionID, postID, func(post *models.Post) (*models.Post, []eventbus.Event, error) {
		updated, err := s.engine.AddImages(post, actor, images)
		if err != nil {
			return nil, nil, err
		}

		return updated, []eventbus.Event{events.PostUpdated{
			BaseEvent: s.base(events.PostUpdatedEvent, collectionID, updated, actor),
			Action:    models.ActionAddImages,
		}}, nil
	})
}

func (s *Posts) transitionEvent(collectionID string, before, after *models.Post, action models.Action, actor models.Actor, comment string) eventbus.Event {
	if before.Status == after.Status && !action.IsTransition() {
		return events.PostUpdated{
			BaseEvent: s.base(events.PostUpdatedEvent, collectionID, after, actor),
			Action:    action,
		}
	}

	return events.PostTransitioned{
		BaseEvent: s.base(events.PostTransitionedEvent, collectionID, after, actor),
		Action:    action,
		From:      before.Status,
		To:        after.Status,
		Comment:   comment,
		Version:   after.CurrentVersion,
	}
}

// Transition applies a workflow action to one post.
func (s *Posts) Transition(ctx context.Context, collectionID, postID string, action models.Action, actor models.Actor, input workflow.ActionInput) (_ *models.Post, err error) {
	ctx, span := s.startSpan(ctx, "posts.transition", collectionID,
		append(actorAttrs(actor),
			attribute.String(otelhelper.PostIDKey, postID),
			attribute.String(otelhelper.ActionKey, string(action)))...)
	defer func() { endSpan(span, err) }()

	if !action.IsValid() {
		return nil, NewValidationError("Transition", "unknown action "+string(action), ErrInvalidAction)
	}

	if err := validateActor("Transition", actor); err != nil {
		return nil, err
	}

	updated, err := s.update(ctx, "Transition", collectionID, postID, func(post *models.Post) (*models.Post, []eventbus.Event, error) {
		updated, err := s.engine.ApplyAction(post, action, actor, input)
		if err != nil {
			return nil, nil, err
		}

		return updated, []eventbus.Event{s.transitionEvent(collectionID, post, updated, action, actor, input.Comment)}, nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "post transitioned",
		"collection_id", collectionID,
		"post_id", postID,
		"action", action,
		"status", updated.Status,
		"actor_id", actor.ID)

	return updated, nil
}

// Comment adds a general comment to a post at any status.
func (s *Posts) Comment(ctx context.Context, collectionID, postID string, actor models.Actor, body string) (_ *models.Post, err error) {
	ctx, span := s.startSpan(ctx, "posts.comment", collectionID,
		append(actorAttrs(actor), attribute.String(otelhelper.PostIDKey, postID))...)
	defer func() { endSpan(span, err) }()

	if err := validateActor("Comment", actor); err != nil {
		return nil, err
	}

	return s.update(ctx, "Comment", collectionID, postID, func(post *models.Post) (*models.Post, []eventbus.Event, error) {
		updated, err := s.engine.AddComment(post, actor, body)
		if err != nil {
			return nil, nil, err
		}

		comment := updated.Comments[len(updated.Comments)-1]

		return updated, []eventbus.Event{events.PostCommented{
			BaseEvent:   s.base(events.PostCommentedEvent, collectionID, updated, actor),
			CommentID:   comment.ID,
			Body:        comment.Body,
			CommentType: comment.Type,
		}}, nil
	})
}

// Bulk applies one verb to a selection of posts.
func (s *Posts) Bulk(ctx context.Context, collectionID string, ids []string, verb models.BulkVerb, actor models.Actor, input workflow.ActionInput) (_ *workflow.BulkResult, err error) {
	ctx, span := s.startSpan(ctx, "posts.bulk", collectionID,
		append(actorAttrs(actor),
			attribute.String(otelhelper.BulkVerbKey, string(verb)),
			attribute.Int(otelhelper.BulkSizeKey, len(ids)))...)
	defer func() { endSpan(span, err) }()

	if err := validateActor("Bulk", actor); err != nil {
		return nil, err
	}

	var result workflow.BulkResult

	err = s.mutate(ctx, "Bulk", collectionID, func(posts []*models.Post) ([]*models.Post, []eventbus.Event, error) {
		res, err := s.engine.Bulk(posts, ids, verb, actor, input)
		if err != nil {
			return nil, nil, err
		}

		pending := make([]eventbus.Event, 0, len(res.Applied)+len(res.Removed))

		for _, updated := range res.Applied {
			before, err := workflow.FindPost(posts, updated.ID)
			if err != nil {
				return nil, nil, err
			}

			pending = append(pending, s.transitionEvent(collectionID, before, updated, bulkAction(verb), actor, input.Comment))
		}

		for _, removed := range res.Removed {
			pending = append(pending, events.PostDeleted{
				BaseEvent: s.base(events.PostDeletedEvent, collectionID, removed, actor),
				Status:    removed.Status,
			})
		}

		result = res

		return res.Posts, pending, nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "bulk operation completed",
		"collection_id", collectionID,
		"verb", verb,
		"applied", len(result.Applied),
		"removed", len(result.Removed),
		"skipped", len(result.Skipped))

	return &result, nil
}

func bulkAction(verb models.BulkVerb) models.Action {
	action, _ := workflow.BulkAction(verb)

	return action
}

// Delete removes a post and its ledger. Admin tier only.
func (s *Posts) Delete(ctx context.Context, collectionID, postID string, actor models.Actor) (err error) {
	ctx, span := s.startSpan(ctx, "posts.delete", collectionID,
		append(actorAttrs(actor), attribute.String(otelhelper.PostIDKey, postID))...)
	defer func() { endSpan(span, err) }()

	if err := validateActor("Delete", actor); err != nil {
		return err
	}

	err = s.mutate(ctx, "Delete", collectionID, func(posts []*models.Post) ([]*models.Post, []eventbus.Event, error) {
		remaining, removed, err := s.engine.Delete(posts, postID, actor)
		if err != nil {
			return nil, nil, err
		}

		return remaining, []eventbus.Event{events.PostDeleted{
			BaseEvent: s.base(events.PostDeletedEvent, collectionID, removed, actor),
			Status:    removed.Status,
		}}, nil
	})
	if err != nil {
		return err
	}

	s.logger.InfoContext(ctx, "post deleted", "collection_id", collectionID, "post_id", postID, "actor_id", actor.ID)

	return nil
}

// NeedingAttention returns overdue posts, posts pre-assigned to the viewer at their stage, and
// elevated-priority posts waiting on the viewer's role. Posts that are only due soon are left out.
func (s *Posts) NeedingAttention(ctx context.Context, collectionID string, viewer models.Actor) (_ []*models.Post, err error) {
	ctx, span := s.startSpan(ctx, "posts.needing_attention", collectionID, actorAttrs(viewer)...)
	defer func() { endSpan(span, err) }()

	posts, err := s.load(ctx, "NeedingAttention", collectionID)
	if err != nil {
		return nil, err
	}

	return query.NeedingAttention(posts, viewer.ID, viewer.Role, s.engine.Now()), nil
}

// Stats summarizes a collection for the viewer.
func (s *Posts) Stats(ctx context.Context, collectionID string, viewer models.Actor) (_ *Stats, err error) {
	ctx, span := s.startSpan(ctx, "posts.stats", collectionID, actorAttrs(viewer)...)
	defer func() { endSpan(span, err) }()

	posts, err := s.load(ctx, "Stats", collectionID)
	if err != nil {
		return nil, err
	}

	now := s.engine.Now()

	return &Stats{
		Total:            len(posts),
		ByStatus:         query.CountByStatus(posts),
		ByDeadline:       query.CountByDeadline(posts, now),
		NeedingAttention: len(query.NeedingAttention(posts, viewer.ID, viewer.Role, now)),
		BulkVerbs:        workflow.BulkVerbs(posts, viewer.Role),
	}, nil
}

// Collections lists the stored collection ids.
func (s *Posts) Collections(ctx context.Context) ([]string, error) {
	ids, err := s.persistence.Collections(ctx)
	if err != nil {
		return nil, wrapError("Collections", fmt.Errorf("failed to list collections: %w", err))
	}

	return ids, nil
}

// ReleaseDue publishes every scheduled post of the collection whose time has come.
func (s *Posts) ReleaseDue(ctx context.Context, collectionID string) (_ []*models.Post, err error) {
	ctx, span := s.startSpan(ctx, "posts.release_due", collectionID)
	defer func() { endSpan(span, err) }()

	released := []*models.Post{}
	now := s.engine.Now()

	err = s.mutate(ctx, "ReleaseDue", collectionID, func(posts []*models.Post) ([]*models.Post, []eventbus.Event, error) {
		var next []*models.Post

		pending := []eventbus.Event{}

		for _, post := range posts {
			if !workflow.IsDue(post, now) {
				continue
			}

			updated, err := s.engine.Release(post)
			if err != nil {
				return nil, nil, err
			}

			if next == nil {
				next = posts
			}

			next, err = workflow.ReplacePost(next, updated)
			if err != nil {
				return nil, nil, err
			}

			released = append(released, updated)
			pending = append(pending, events.PostReleased{
				BaseEvent:    s.base(events.PostReleasedEvent, collectionID, updated, workflow.SystemActor),
				ScheduledFor: *post.ScheduledFor,
			})
		}

		return next, pending, nil
	})
	if err != nil {
		return nil, err
	}

	if len(released) > 0 {
		s.logger.InfoContext(ctx, "scheduled posts released", "collection_id", collectionID, "count", len(released))
	}

	return released, nil
}

// ReleaseAll runs ReleaseDue over every stored collection. A failing collection does not stop the others.
func (s *Posts) ReleaseAll(ctx context.Context) (int, error) {
	ids, err := s.Collections(ctx)
	if err != nil {
		return 0, err
	}

	total := 0

	var errs []error

	for _, id := range ids {
		released, err := s.ReleaseDue(ctx, id)
		if err != nil {
			s.logger.ErrorContext(ctx, "failed to release collection", "collection_id", id, "error", err)
			errs = append(errs, err)

			continue
		}

		total += len(released)
	}

	return total, errors.Join(errs...)
}
