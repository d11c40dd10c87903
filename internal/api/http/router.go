package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/Katsud0n0/city-nexus-connect/internal/api/http/handlers"
	"github.com/Katsud0n0/city-nexus-connect/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Users          *handlers.UsersHandler
	Requests       *handlers.RequestsHandler
	Stats          *handlers.StatsHandler
	Departments    *handlers.DepartmentsHandler
	AuthMiddleware *auth.Middleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	authGroup := app.Group("/auth")
	authGroup.Post("/register", cfg.Users.Register)
	authGroup.Post("/login", cfg.Users.Login)

	protected := app.Group("", cfg.AuthMiddleware.Handle)

	protected.Get("/users", cfg.Users.List)
	protected.Get("/users/me", cfg.Users.Me)
	protected.Get("/users/me/requests", cfg.Users.MyRequests)

	protected.Post("/requests", cfg.Requests.Create)
	protected.Get("/requests", cfg.Requests.List)
	protected.Get("/requests/:id", cfg.Requests.Get)
	protected.Patch("/requests/:id/status", cfg.Requests.UpdateStatus)
	protected.Delete("/requests/:id", cfg.Requests.Delete)

	protected.Get("/dashboard/stats", cfg.Stats.Dashboard)
	protected.Get("/departments", cfg.Departments.List)
}
