package router

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/alumlink/alumlink-api/internal/config"
	"github.com/alumlink/alumlink-api/internal/handler"
	"github.com/alumlink/alumlink-api/internal/middleware"
	"github.com/alumlink/alumlink-api/internal/models"
	"github.com/alumlink/alumlink-api/internal/observability"
)

// Dependencies groups router dependencies for registration.
type Dependencies struct {
	AuthHandler         *handler.AuthHandler
	FeedHandler         *handler.FeedHandler
	EventHandler        *handler.EventHandler
	PollHandler         *handler.PollHandler
	MessagingHandler    *handler.MessagingHandler
	MemberHandler       *handler.MemberHandler
	BusinessHandler     *handler.BusinessHandler
	JobHandler          *handler.JobHandler
	MemoryHandler       *handler.MemoryHandler
	NotificationHandler *handler.NotificationHandler
	UploadHandler       *handler.UploadHandler
	AdminHandler        *handler.AdminHandler
	JWTMiddleware       fiber.Handler
	DB                  *gorm.DB
	Redis               *redis.Client
}

// Register wires the HTTP routes into the fiber application.
func Register(app *fiber.App, cfg config.Config, deps Dependencies) {
	api := app.Group("/api/v1", func(c *fiber.Ctx) error {
		c.Set("X-Application", cfg.AppName)
		return c.Next()
	})
	api.Get("/health", handler.HealthCheck(cfg, deps.DB, deps.Redis))

	app.Get("/metrics", observability.MetricsHandler())

	jwtMiddleware := deps.JWTMiddleware
	if jwtMiddleware == nil {
		jwtMiddleware = func(c *fiber.Ctx) error { return c.Next() }
	}

	if deps.AuthHandler != nil {
		auth := api.Group("/auth", middleware.RateLimit("auth", cfg.AuthRateLimitPerMin, time.Minute))
		deps.AuthHandler.RegisterPublic(auth)
	}

	if deps.AuthHandler != nil || deps.FeedHandler != nil {
		profile := api.Group("/profile", jwtMiddleware)
		if deps.AuthHandler != nil {
			deps.AuthHandler.RegisterProtected(profile)
		}
		if deps.FeedHandler != nil {
			deps.FeedHandler.RegisterProfile(profile)
		}
	}

	if deps.FeedHandler != nil {
		feed := api.Group("/feed", jwtMiddleware)
		deps.FeedHandler.Register(feed)
	}

	if deps.EventHandler != nil {
		events := api.Group("/events", jwtMiddleware)
		deps.EventHandler.Register(events)
	}

	if deps.PollHandler != nil {
		polls := api.Group("/polls", jwtMiddleware)
		deps.PollHandler.Register(polls)
	}

	if deps.MessagingHandler != nil {
		messages := api.Group("/messages", jwtMiddleware)
		deps.MessagingHandler.Register(messages)
	}

	if deps.MemberHandler != nil {
		members := api.Group("/members", jwtMiddleware)
		deps.MemberHandler.Register(members)
	}

	if deps.BusinessHandler != nil {
		businesses := api.Group("/businesses", jwtMiddleware)
		deps.BusinessHandler.Register(businesses)
	}

	if deps.JobHandler != nil {
		jobs := api.Group("/jobs", jwtMiddleware)
		deps.JobHandler.Register(jobs)
	}

	if deps.MemoryHandler != nil {
		memories := api.Group("/memories", jwtMiddleware)
		deps.MemoryHandler.Register(memories)
	}

	if deps.NotificationHandler != nil {
		notifications := api.Group("/notifications", jwtMiddleware)
		deps.NotificationHandler.Register(notifications)
	}

	if deps.UploadHandler != nil {
		uploads := api.Group("/uploads", jwtMiddleware)
		deps.UploadHandler.Register(uploads)
	}

	if deps.AdminHandler != nil {
		admin := api.Group("/admin", jwtMiddleware, middleware.RequireRole(models.UserRoleAdmin))
		deps.AdminHandler.Register(admin)
	}
}
