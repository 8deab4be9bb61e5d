package web

import (
	"github.com/gofiber/fiber/v3"

	"github.com/dukex/newsroom/pkg/models"
)

const (
	HeaderUserID   = "X-User-ID"
	HeaderUserName = "X-User-Name"
	HeaderUserRole = "X-User-Role"
)

type actorKey struct{}

// Identity reads the acting user from request headers. The headers are trusted as
// supplied by an upstream gateway; a missing id or an unknown role is rejected with 401.
func Identity() fiber.Handler {
	return func(c fiber.Ctx) error {
		actor := models.Actor{
			ID:   c.Get(HeaderUserID),
			Name: c.Get(HeaderUserName),
			Role: models.Role(c.Get(HeaderUserRole)),
		}

		if actor.ID == "" {
			return unauthorized(c, HeaderUserID+" header is required")
		}

		if !actor.Role.IsValid() {
			return unauthorized(c, HeaderUserRole+" header must be one of super_admin, admin, boss, designer, editor")
		}

		if actor.Name == "" {
			actor.Name = actor.ID
		}

		c.Locals(actorKey{}, actor)

		return c.Next()
	}
}

// ActorFrom returns the actor stored by Identity.
func ActorFrom(c fiber.Ctx) (models.Actor, bool) {
	actor, ok := c.Locals(actorKey{}).(models.Actor)

	return actor, ok
}
