package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/campusops/facility-desk/internal/api/http/handlers"
	"github.com/campusops/facility-desk/internal/auth"
	"github.com/campusops/facility-desk/internal/domain"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Requests       *handlers.RequestsHandler
	Users          *handlers.UsersHandler
	Admin          *handlers.AdminHandler
	AuthMiddleware *auth.AuthMiddleware
	Metrics        fiber.Handler
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	if cfg.Metrics != nil {
		app.Get("/metrics", cfg.Metrics)
	}

	app.Post("/auth/register", cfg.Users.Register)

	requests := app.Group("/requests", cfg.AuthMiddleware.Handle)
	requests.Post("/", cfg.Requests.CreateRequest)
	requests.Get("/", cfg.Requests.ListRequests)
	requests.Post("/suggest", cfg.Requests.Suggest)
	requests.Get("/:id", cfg.Requests.GetRequest)
	requests.Post("/:id/status", auth.RequireRole(domain.RoleWorker, domain.RoleAdmin), cfg.Requests.ChangeStatus)
	requests.Post("/:id/cancel", cfg.Requests.CancelRequest)
	requests.Post("/:id/comments", cfg.Requests.AddComment)
	requests.Post("/:id/feedback", cfg.Requests.SubmitFeedback)
	requests.Delete("/:id", auth.RequireRole(domain.RoleAdmin), cfg.Requests.DeleteRequest)

	admin := app.Group("/admin", cfg.AuthMiddleware.Handle, auth.RequireRole(domain.RoleAdmin))
	admin.Get("/stats", cfg.Admin.Stats)
	admin.Get("/reports/requests.xlsx", cfg.Admin.ExportRequests)
	admin.Get("/users", cfg.Users.ListUsers)
	admin.Post("/users/import", cfg.Users.ImportUsers)
	admin.Post("/users/:id/approve", cfg.Users.ApproveUser)
	admin.Patch("/users/:id", cfg.Users.UpdateUser)
	admin.Delete("/users", cfg.Users.DeleteUsers)
}
