package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/ticketdesk/internal/api/http/handlers"
	"github.com/spec-kit/ticketdesk/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Accounts       *handlers.AccountsHandler
	Tickets        *handlers.TicketsHandler
	Notes          *handlers.NotesHandler
	Dashboard      *handlers.DashboardHandler
	AuthMiddleware *auth.Middleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	authGroup := app.Group("/auth")
	authGroup.Post("/register", cfg.Accounts.Register)
	authGroup.Post("/login", cfg.Accounts.Login)

	protectedAuth := authGroup.Group("", cfg.AuthMiddleware.Handle)
	protectedAuth.Post("/logout", cfg.Accounts.Logout)
	protectedAuth.Get("/session", cfg.Accounts.Session)

	tickets := app.Group("/tickets", cfg.AuthMiddleware.Handle)
	tickets.Get("", cfg.Tickets.List)
	tickets.Put("", cfg.Tickets.Save)
	tickets.Delete("/:id", cfg.Tickets.Delete)
	tickets.Patch("/:id/status", cfg.Tickets.ChangeStatus)

	notes := app.Group("/notes", cfg.AuthMiddleware.Handle)
	notes.Get("", cfg.Notes.List)
	notes.Post("", cfg.Notes.Create)
	notes.Put("/:id", cfg.Notes.Update)
	notes.Delete("/:id", cfg.Notes.Delete)

	dashboard := app.Group("/dashboard", cfg.AuthMiddleware.Handle)
	dashboard.Get("/stats", cfg.Dashboard.Stats)
	dashboard.Get("/cards/:group", cfg.Dashboard.CardOrder)
	dashboard.Put("/cards/:group", cfg.Dashboard.SaveCardOrder)
}
