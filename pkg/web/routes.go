package web

import "github.com/gofiber/fiber/v3"

// Register mounts every route on router. Routes other than health and statuses require identity headers.
func (h *APIHandlers) Register(router fiber.Router) {
	router.Get("/health", h.HealthCheck)
	router.Get("/statuses", h.Statuses)

	router.Get("/notifications", Identity(), h.Notifications)

	collections := router.Group("/collections/:collection", Identity())
	collections.Put("/", h.ImportCollection)
	collections.Get("/attention", h.NeedingAttention)
	collections.Get("/stats", h.Stats)

	posts := collections.Group("/posts")
	posts.Get("/", h.ListPosts)
	posts.Post("/", h.CreatePost)
	posts.Post("/bulk", h.Bulk)
	posts.Get("/:id", h.GetPost)
	posts.Patch("/:id", h.UpdatePost)
	posts.Delete("/:id", h.DeletePost)
	posts.Post("/:id/actions/:action", h.ApplyAction)
	posts.Post("/:id/comments", h.AddComment)
	posts.Post("/:id/images", h.AddImages)
}
