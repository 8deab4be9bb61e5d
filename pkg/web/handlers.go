// Package web exposes the editorial workflow over HTTP.
package web

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"

	"github.com/dukex/newsroom/pkg/models"
	"github.com/dukex/newsroom/pkg/notifications"
	"github.com/dukex/newsroom/pkg/query"
	"github.com/dukex/newsroom/pkg/services"
)

type APIHandlers struct {
	posts     *services.Posts
	inbox     *notifications.Inbox
	validator *validator.Validate
}

func NewAPIHandlers(posts *services.Posts, inbox *notifications.Inbox, validator *validator.Validate) *APIHandlers {
	return &APIHandlers{
		posts:     posts,
		inbox:     inbox,
		validator: validator,
	}
}

// bind decodes and validates a JSON body. On failure the 400 response is already written
// and ok is false.
func (h *APIHandlers) bind(c fiber.Ctx, req any) (bool, error) {
	if err := c.Bind().JSON(req); err != nil {
		return false, badRequest(c, "Invalid request body: "+err.Error())
	}

	if err := h.validator.Struct(req); err != nil {
		return false, badRequest(c, "Validation failed: "+err.Error())
	}

	return true, nil
}

func parseListOptions(c fiber.Ctx) (query.Options, error) {
	opts := query.Options{
		Status: c.Query("status", query.StatusAll),
		Search: c.Query("search"),
		View:   query.View(c.Query("view", string(query.ViewAll))),
		Sort:   query.SortKey(c.Query("sort", string(query.SortNewest))),
	}

	if raw := c.Query("needs_attention"); raw != "" {
		needsAttention, err := strconv.ParseBool(raw)
		if err != nil {
			return opts, err
		}

		opts.NeedsAttention = needsAttention
	}

	return opts, nil
}

func (h *APIHandlers) ListPosts(c fiber.Ctx) error {
	actor, ok := ActorFrom(c)
	if !ok {
		return unauthorized(c, "identity is required")
	}

	opts, err := parseListOptions(c)
	if err != nil {
		return badRequest(c, "Invalid query parameters: "+err.Error())
	}

	posts, err := h.posts.List(c.Context(), c.Params("collection"), actor, opts)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(posts)
}

func (h *APIHandlers) CreatePost(c fiber.Ctx) error {
	actor, ok := ActorFrom(c)
	if !ok {
		return unauthorized(c, "identity is required")
	}

	var req CreatePostRequest
	if valid, err := h.bind(c, &req); !valid {
		return err
	}

	post, err := h.posts.Create(c.Context(), c.Params("collection"), actor, req.draft())
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(post)
}

func (h *APIHandlers) GetPost(c fiber.Ctx) error {
	actor, ok := ActorFrom(c)
	if !ok {
		return unauthorized(c, "identity is required")
	}

	detail, err := h.posts.Get(c.Context(), c.Params("collection"), c.Params("id"), actor)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(detail)
}

func (h *APIHandlers) UpdatePost(c fiber.Ctx) error {
	actor, ok := ActorFrom(c)
	if !ok {
		return unauthorized(c, "identity is required")
	}

	var req UpdatePostRequest
	if valid, err := h.bind(c, &req); !valid {
		return err
	}

	post, err := h.posts.EditContent(c.Context(), c.Params("collection"), c.Params("id"), actor, req.changes())
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(post)
}

func (h *APIHandlers) DeletePost(c fiber.Ctx) error {
	actor, ok := ActorFrom(c)
	if !ok {
		return unauthorized(c, "identity is required")
	}

	if err := h.posts.Delete(c.Context(), c.Params("collection"), c.Params("id"), actor); err != nil {
		return handleServiceError(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// ApplyAction runs a workflow action. The body is optional.
func (h *APIHandlers) ApplyAction(c fiber.Ctx) error {
	actor, ok := ActorFrom(c)
	if !ok {
		return unauthorized(c, "identity is required")
	}

	var req ActionRequest
	if len(c.Body()) > 0 {
		if valid, err := h.bind(c, &req); !valid {
			return err
		}
	}

	post, err := h.posts.Transition(
		c.Context(),
		c.Params("collection"),
		c.Params("id"),
		models.Action(c.Params("action")),
		actor,
		req.input(),
	)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(post)
}

func (h *APIHandlers) AddComment(c fiber.Ctx) error {
	actor, ok := ActorFrom(c)
	if !ok {
		return unauthorized(c, "identity is required")
	}

	var req CommentRequest
	if valid, err := h.bind(c, &req); !valid {
		return err
	}

	post, err := h.posts.Comment(c.Context(), c.Params("collection"), c.Params("id"), actor, req.Body)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(post)
}

func (h *APIHandlers) AddImages(c fiber.Ctx) error {
	actor, ok := ActorFrom(c)
	if !ok {
		return unauthorized(c, "identity is required")
	}

	var req AddImagesRequest
	if valid, err := h.bind(c, &req); !valid {
		return err
	}

	post, err := h.posts.AddImages(c.Context(), c.Params("collection"), c.Params("id"), actor, req.Images)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(post)
}

func (h *APIHandlers) Bulk(c fiber.Ctx) error {
	actor, ok := ActorFrom(c)
	if !ok {
		return unauthorized(c, "identity is required")
	}

	var req BulkRequest
	if valid, err := h.bind(c, &req); !valid {
		return err
	}

	result, err := h.posts.Bulk(c.Context(), c.Params("collection"), req.IDs, req.Verb, actor, req.input())
	if err != nil {
		return handleServiceError(c, err)
	}

	removed := make([]string, 0, len(result.Removed))
	for _, post := range result.Removed {
		removed = append(removed, post.ID)
	}

	return c.JSON(BulkResponse{
		Applied: result.Applied,
		Removed: removed,
		Skipped: result.Skipped,
	})
}

func (h *APIHandlers) NeedingAttention(c fiber.Ctx) error {
	actor, ok := ActorFrom(c)
	if !ok {
		return unauthorized(c, "identity is required")
	}

	posts, err := h.posts.NeedingAttention(c.Context(), c.Params("collection"), actor)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(posts)
}

func (h *APIHandlers) Stats(c fiber.Ctx) error {
	actor, ok := ActorFrom(c)
	if !ok {
		return unauthorized(c, "identity is required")
	}

	stats, err := h.posts.Stats(c.Context(), c.Params("collection"), actor)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(stats)
}

// ImportCollection replaces a collection with an uploaded collection document. Admin tier only.
func (h *APIHandlers) ImportCollection(c fiber.Ctx) error {
	actor, ok := ActorFrom(c)
	if !ok {
		return unauthorized(c, "identity is required")
	}

	if !actor.Role.IsAdminTier() {
		return forbidden(c, "only admins may import collections")
	}

	collectionID := c.Params("collection")

	count, err := h.posts.Import(c.Context(), collectionID, c.Body())
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(ImportResponse{CollectionID: collectionID, Posts: count})
}

func (h *APIHandlers) Notifications(c fiber.Ctx) error {
	actor, ok := ActorFrom(c)
	if !ok {
		return unauthorized(c, "identity is required")
	}

	limit, err := strconv.Atoi(c.Query("limit", "50"))
	if err != nil || limit < 0 {
		return badRequest(c, "limit must be a non-negative integer")
	}

	return c.JSON(fiber.Map{
		"notifications": h.inbox.List(actor.ID, limit),
		"total":         h.inbox.Count(actor.ID),
	})
}

// Statuses returns the display metadata of every status, priority and role.
func (h *APIHandlers) Statuses(c fiber.Ctx) error {
	statuses := make([]LabeledValue, 0, len(models.AllStatuses()))
	for _, status := range models.AllStatuses() {
		info := status.Info()
		statuses = append(statuses, LabeledValue{Value: string(status), Label: info.Label, Color: info.Color})
	}

	priorities := make([]LabeledValue, 0, len(models.AllPriorities()))
	for _, priority := range models.AllPriorities() {
		info := priority.Info()
		priorities = append(priorities, LabeledValue{Value: string(priority), Label: info.Label, Color: info.Color})
	}

	return c.JSON(fiber.Map{
		"statuses":   statuses,
		"priorities": priorities,
		"roles":      models.AllRoles(),
		"actions":    models.AllActions(),
	})
}

func (h *APIHandlers) HealthCheck(c fiber.Ctx) error {
	repositoryCheck, ok := h.posts.HealthCheck(c.Context())

	status := "unhealthy"
	message := "Newsroom API is unhealthy"
	httpStatus := http.StatusInternalServerError

	if ok {
		status = "healthy"
		message = "Newsroom API is healthy"
		httpStatus = http.StatusOK
	}

	return c.Status(httpStatus).JSON(fiber.Map{
		"status":  status,
		"message": message,
		"checkers": fiber.Map{
			"repository": repositoryCheck,
		},
		"timestamp": time.Now().UTC(),
	})
}
