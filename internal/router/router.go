package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/noah-isme/journal-go-api/internal/config"
	"github.com/noah-isme/journal-go-api/internal/handler"
	"github.com/noah-isme/journal-go-api/internal/middleware"
	"github.com/noah-isme/journal-go-api/internal/observability"
)

// Dependencies groups router dependencies for registration.
type Dependencies struct {
	AuthHandler    *handler.AuthHandler
	JournalHandler *handler.JournalHandler
	AdminHandler   *handler.AdminHandler
	JWTMiddleware  fiber.Handler
	LoginLimiter   fiber.Handler
}

// Register wires the HTTP routes into the fiber application.
func Register(app *fiber.App, cfg config.Config, deps Dependencies) {
	api := app.Group("/api/v1", func(c *fiber.Ctx) error {
		c.Set("X-Application", cfg.AppName)
		return c.Next()
	})
	api.Get("/health", handler.HealthCheck(cfg))

	app.Get("/metrics", observability.MetricsHandler())

	jwtMiddleware := deps.JWTMiddleware
	if jwtMiddleware == nil {
		jwtMiddleware = func(c *fiber.Ctx) error { return c.Next() }
	}

	if deps.AuthHandler != nil {
		auth := api.Group("/auth")
		if deps.LoginLimiter != nil {
			auth.Use(deps.LoginLimiter)
		}
		deps.AuthHandler.Register(auth)
	}

	if deps.JournalHandler != nil {
		journals := api.Group("/journals", jwtMiddleware)
		deps.JournalHandler.Register(journals)
	}

	if deps.AdminHandler != nil {
		admin := api.Group("/admin", jwtMiddleware, middleware.RequireRole("admin"))
		deps.AdminHandler.Register(admin)
	}
}
