// Package workflow implements the editorial state machine: authorization, transitions,
// the comment and revision ledger, and bulk operations over a post collection.
package workflow

import (
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dukex/newsroom/pkg/clock"
	"github.com/dukex/newsroom/pkg/models"
)

// ActionInput carries the optional, action-specific input of a transition.
type ActionInput struct {
	Comment       string          `json:"comment,omitempty"`
	Priority      models.Priority `json:"priority,omitempty"`
	Deadline      *time.Time      `json:"deadline,omitempty"`
	AssigneeID    string          `json:"assignee_id,omitempty"`
	AssigneeName  string          `json:"assignee_name,omitempty"`
	ScheduledDate *time.Time      `json:"scheduled_date,omitempty"`
}

// ContentChanges is a partial update of the content and publishing fields. Nil fields are kept.
type ContentChanges struct {
	Title          *string
	Content        *string
	Excerpt        *string
	Language       *string
	Category       *string
	Tags           []string
	Featured       *bool
	AllowComments  *bool
	SEOTitle       *string
	SEODescription *string
	Priority       models.Priority
	Deadline       *time.Time
}

// PostDraft is the data-entry payload of a new post.
type PostDraft struct {
	Title          string
	Content        string
	Excerpt        string
	Language       string
	Category       string
	Tags           []string
	Images         []string
	Priority       models.Priority
	Deadline       *time.Time
	Deadlines      []models.DeadlineMarker
	Featured       bool
	AllowComments  bool
	SEOTitle       string
	SEODescription string
}

// Engine applies workflow operations to posts. Inputs are never mutated;
// every operation returns a new post or the untouched original with an error.
type Engine struct {
	clock  clock.Clock
	graph  *Graph
	newID  func() string
	logger *slog.Logger
}

type Option func(*Engine)

// WithIDGenerator replaces the uuid generator used for posts, comments and revisions.
func WithIDGenerator(fn func() string) Option {
	return func(e *Engine) {
		e.newID = fn
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

func NewEngine(c clock.Clock, opts ...Option) *Engine {
	e := &Engine{
		clock:  c,
		graph:  NewGraph(),
		newID:  uuid.NewString,
		logger: slog.Default().With("module", "workflow"),
	}

	for _, opt := range opts {
		opt(e)
	}

	return e
}

// Now returns the engine clock reading.
func (e *Engine) Now() time.Time {
	return e.clock.Now()
}

// NewPost creates a draft post authored by the actor.
func (e *Engine) NewPost(actor models.Actor, draft PostDraft) (*models.Post, error) {
	now := e.clock.Now()

	if actor.ID == "" || !actor.Role.IsValid() {
		return nil, newTransitionError("NewPost", nil, "", actor.Role, ErrActorRequired)
	}

	if strings.TrimSpace(draft.Title) == "" {
		return nil, newTransitionError("NewPost", nil, "", actor.Role, ErrTitleRequired)
	}

	if err := validateCrossCutting(draft.Priority, draft.Deadline, now); err != nil {
		return nil, newTransitionError("NewPost", nil, "", actor.Role, err)
	}

	for _, marker := range draft.Deadlines {
		if !marker.Stage.IsValid() || marker.DueAt.IsZero() {
			return nil, newTransitionError("NewPost", nil, "", actor.Role, ErrInvalidDeadlineMarker)
		}
	}

	priority := draft.Priority
	if priority == "" {
		priority = models.DefaultPriority
	}

	post := &models.Post{
		ID:             e.newID(),
		Title:          draft.Title,
		Content:        draft.Content,
		Excerpt:        draft.Excerpt,
		Language:       draft.Language,
		Category:       draft.Category,
		Tags:           nonNil(slices.Clone(draft.Tags)),
		Images:         nonNil(slices.Clone(draft.Images)),
		Status:         models.StatusDraft,
		Priority:       priority,
		CurrentVersion: 1,
		AuthorID:       actor.ID,
		AuthorName:     actor.Name,
		CreatedAt:      now,
		UpdatedAt:      now,
		Comments:       []models.Comment{},
		Revisions:      []models.Revision{},
		Deadlines:      nonNil(slices.Clone(draft.Deadlines)),
		Featured:       draft.Featured,
		AllowComments:  draft.AllowComments,
		SEOTitle:       draft.SEOTitle,
		SEODescription: draft.SEODescription,
	}

	if draft.Deadline != nil {
		deadline := *draft.Deadline
		post.OverallDeadline = &deadline
	}

	return post, nil
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}

	return s
}

func validateCrossCutting(priority models.Priority, deadline *time.Time, now time.Time) error {
	if priority != "" && !priority.IsValid() {
		return ErrInvalidPriority
	}

	if deadline != nil && !deadline.After(now) {
		return ErrDeadlineNotFuture
	}

	return nil
}

// validateInput checks the input of an action before any mutation.
func validateInput(action models.Action, input ActionInput, now time.Time) error {
	if err := validateCrossCutting(input.Priority, input.Deadline, now); err != nil {
		return err
	}

	switch action {
	case models.ActionRequestRevision:
		if strings.TrimSpace(input.Comment) == "" {
			return ErrCommentRequired
		}
	case models.ActionSchedule:
		if input.ScheduledDate == nil {
			return ErrScheduleDateRequired
		}

		if !input.ScheduledDate.After(now) {
			return ErrScheduleDateNotFuture
		}
	}

	return nil
}

func applyCrossCutting(post *models.Post, priority models.Priority, deadline *time.Time) {
	if priority != "" {
		post.Priority = priority
	}

	if deadline != nil {
		d := *deadline
		post.OverallDeadline = &d
	}
}

// ApplyAction performs a workflow action on behalf of the actor. Authorization is checked
// first, then input validation; only then is a copy of the post mutated.
// Non-transition actions apply the cross-cutting updates and an optional comment only.
func (e *Engine) ApplyAction(post *models.Post, action models.Action, actor models.Actor, input ActionInput) (*models.Post, error) {
	if post == nil {
		return nil, newTransitionError("ApplyAction", nil, action, actor.Role, ErrPostNotFound)
	}

	if !Can(post, action, actor.Role, actor.ID) {
		return post, newTransitionError("ApplyAction", post, action, actor.Role, ErrInvalidTransition)
	}

	now := e.clock.Now()

	if err := validateInput(action, input, now); err != nil {
		return post, newTransitionError("ApplyAction", post, action, actor.Role, err)
	}

	next := post.Status

	if action.IsTransition() {
		var err error

		next, err = e.graph.Destination(post.Status, action, actor.Role)
		if err != nil {
			return post, newTransitionError("ApplyAction", post, action, actor.Role, err)
		}
	}

	updated := post.Clone()
	applyCrossCutting(updated, input.Priority, input.Deadline)

	stamp := now

	switch action {
	case models.ActionSubmitForDesign:
		updated.SubmittedForDesignAt = &stamp
		if input.AssigneeID != "" {
			updated.AssignedDesignerID = input.AssigneeID
			updated.AssignedDesignerName = input.AssigneeName
		}
	case models.ActionStartDesign:
		updated.DesignerID = actor.ID
		updated.DesignerName = actor.Name
	case models.ActionSubmitForReview:
		updated.SubmittedForReviewAt = &stamp
		if input.AssigneeID != "" {
			updated.AssignedReviewerID = input.AssigneeID
			updated.AssignedReviewerName = input.AssigneeName
		}
	case models.ActionApprove:
		updated.ApprovedAt = &stamp
		updated.ReviewerID = actor.ID
		updated.ReviewerName = actor.Name
	case models.ActionRequestRevision:
		updated.ReviewerID = actor.ID
		updated.ReviewerName = actor.Name
		e.appendRevision(updated, actor, strings.TrimSpace(input.Comment), now)
	case models.ActionPublish:
		updated.PublishedAt = &stamp
	case models.ActionSchedule:
		scheduled := *input.ScheduledDate
		updated.ScheduledFor = &scheduled
	}

	if action.IsTransition() {
		completeStage(updated, post.Status)
		updated.Status = next
		e.appendComment(updated, actor, transitionComment(action, input), commentTypeFor(action), now)
	} else if body := strings.TrimSpace(input.Comment); body != "" {
		e.appendComment(updated, actor, body, models.CommentGeneral, now)
	}

	updated.UpdatedAt = now

	e.logger.Debug("applied action",
		"post_id", post.ID,
		"action", action,
		"from", post.Status,
		"to", updated.Status,
		"actor_id", actor.ID,
	)

	return updated, nil
}

// EditContent applies a partial content update. Only the author may edit,
// while the post is a draft or needs revision.
func (e *Engine) EditContent(post *models.Post, actor models.Actor, changes ContentChanges) (*models.Post, error) {
	if post == nil {
		return nil, newTransitionError("EditContent", nil, models.ActionEditContent, actor.Role, ErrPostNotFound)
	}

	if !Can(post, models.ActionEditContent, actor.Role, actor.ID) {
		return post, newTransitionError("EditContent", post, models.ActionEditContent, actor.Role, ErrInvalidTransition)
	}

	now := e.clock.Now()

	if changes.Title != nil && strings.TrimSpace(*changes.Title) == "" {
		return post, newTransitionError("EditContent", post, models.ActionEditContent, actor.Role, ErrTitleRequired)
	}

	if err := validateCrossCutting(changes.Priority, changes.Deadline, now); err != nil {
		return post, newTransitionError("EditContent", post, models.ActionEditContent, actor.Role, err)
	}

	updated := post.Clone()
	applyCrossCutting(updated, changes.Priority, changes.Deadline)

	setString(&updated.Title, changes.Title)
	setString(&updated.Content, changes.Content)
	setString(&updated.Excerpt, changes.Excerpt)
	setString(&updated.Language, changes.Language)
	setString(&updated.Category, changes.Category)
	setString(&updated.SEOTitle, changes.SEOTitle)
	setString(&updated.SEODescription, changes.SEODescription)

	if changes.Tags != nil {
		updated.Tags = slices.Clone(changes.Tags)
	}

	if changes.Featured != nil {
		updated.Featured = *changes.Featured
	}

	if changes.AllowComments != nil {
		updated.AllowComments = *changes.AllowComments
	}

	updated.UpdatedAt = now

	return updated, nil
}

func setString(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}

// AddImages appends images to a post in design.
func (e *Engine) AddImages(post *models.Post, actor models.Actor, images []string) (*models.Post, error) {
	if post == nil {
		return nil, newTransitionError("AddImages", nil, models.ActionAddImages, actor.Role, ErrPostNotFound)
	}

	if !Can(post, models.ActionAddImages, actor.Role, actor.ID) {
		return post, newTransitionError("AddImages", post, models.ActionAddImages, actor.Role, ErrInvalidTransition)
	}

	cleaned := make([]string, 0, len(images))

	for _, image := range images {
		if image = strings.TrimSpace(image); image != "" {
			cleaned = append(cleaned, image)
		}
	}

	if len(cleaned) == 0 {
		return post, newTransitionError("AddImages", post, models.ActionAddImages, actor.Role, ErrImagesRequired)
	}

	updated := post.Clone()
	updated.Images = append(updated.Images, cleaned...)
	updated.UpdatedAt = e.clock.Now()

	return updated, nil
}

// AddComment appends a plain comment at any status. It never changes the status.
func (e *Engine) AddComment(post *models.Post, actor models.Actor, body string) (*models.Post, error) {
	if post == nil {
		return nil, newTransitionError("AddComment", nil, "", actor.Role, ErrPostNotFound)
	}

	if actor.ID == "" {
		return post, newTransitionError("AddComment", post, "", actor.Role, ErrActorRequired)
	}

	body = strings.TrimSpace(body)
	if body == "" {
		return post, newTransitionError("AddComment", post, "", actor.Role, ErrEmptyComment)
	}

	now := e.clock.Now()

	updated := post.Clone()
	e.appendComment(updated, actor, body, models.CommentGeneral, now)
	updated.UpdatedAt = now

	return updated, nil
}

// IsDue reports whether a scheduled post has reached its publication time.
func IsDue(post *models.Post, now time.Time) bool {
	return post != nil &&
		post.Status == models.StatusScheduled &&
		post.ScheduledFor != nil &&
		!post.ScheduledFor.After(now)
}

// Release publishes a scheduled post whose scheduled time has elapsed.
func (e *Engine) Release(post *models.Post) (*models.Post, error) {
	if post == nil {
		return nil, newTransitionError("Release", nil, EventRelease, "", ErrPostNotFound)
	}

	now := e.clock.Now()

	if post.Status != models.StatusScheduled {
		return post, newTransitionError("Release", post, EventRelease, "", ErrInvalidTransition)
	}

	next, err := e.graph.Advance(post.Status, EventRelease, IsDue(post, now))
	if err != nil {
		return post, newTransitionError("Release", post, EventRelease, "", err)
	}

	stamp := now

	updated := post.Clone()
	completeStage(updated, post.Status)
	updated.Status = next
	updated.PublishedAt = &stamp
	e.appendComment(updated, SystemActor, defaultComments[EventRelease], models.CommentGeneral, now)
	updated.UpdatedAt = now

	return updated, nil
}
