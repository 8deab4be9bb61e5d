package main

import (
	"log/slog"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/cors"
	"github.com/gofiber/fiber/v3/middleware/healthcheck"
	"github.com/gofiber/fiber/v3/middleware/logger"

	"github.com/dukex/newsroom/pkg/notifications"
	"github.com/dukex/newsroom/pkg/services"
	"github.com/dukex/newsroom/pkg/web"
)

type API struct {
	logger   *slog.Logger
	posts    *services.Posts
	inbox    *notifications.Inbox
	validate *validator.Validate
}

func NewAPI(logger *slog.Logger, posts *services.Posts, inbox *notifications.Inbox) *API {
	return &API{
		logger:   logger,
		posts:    posts,
		inbox:    inbox,
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
}

func (a *API) App() *fiber.App {
	handlers := web.NewAPIHandlers(a.posts, a.inbox, a.validate)

	app := fiber.New()
	app.Use(cors.New())
	app.Use(logger.New(logger.Config{
		DisableColors: true,
	}))

	app.Get(healthcheck.DefaultLivenessEndpoint, healthcheck.NewHealthChecker())
	app.Get(healthcheck.DefaultReadinessEndpoint, healthcheck.NewHealthChecker())

	app.Get("/", func(c fiber.Ctx) error {
		return c.SendString("Newsroom API")
	})

	handlers.Register(app)

	return app
}

func (a *API) Start(port int) error {
	return a.App().Listen(":" + strconv.Itoa(port))
}
