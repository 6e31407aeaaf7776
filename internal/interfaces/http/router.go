package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/tours-api/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Auth      *AuthHandler
	Users     *UserHandler
	Tours     *TourHandler
	Guard     *SessionGuard
	AuthLimit *IPRateLimiter // nil = sin límite por IP en /auth
}

var (
	adminOnly   = entity.NewRoleSet(entity.RoleAdmin)
	tourEditors = entity.NewRoleSet(entity.RoleAdmin, entity.RoleLeadGuide)
)

// Router registra las rutas de la API bajo /api/v1.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api/v1")
	guard := deps.Guard

	// Auth (público, con límite por IP)
	authGroup := api.Group("/auth")
	if deps.AuthLimit != nil {
		authGroup.Use(deps.AuthLimit.Handler())
	}
	authGroup.Post("/signup", deps.Auth.Signup)
	authGroup.Post("/signin", deps.Auth.Signin)
	authGroup.Get("/signout", deps.Auth.Signout)
	authGroup.Get("/session", guard.Optional(deps.Auth.Session))
	authGroup.Post("/forgot-password", deps.Auth.ForgotPassword)
	authGroup.Patch("/reset-password/:token", deps.Auth.ResetPassword)
	authGroup.Patch("/update-password", guard.Require(deps.Auth.UpdatePassword))

	// Users
	users := api.Group("/users")
	users.Get("/me", guard.Require(deps.Users.Me))
	users.Delete("/me", guard.Require(deps.Users.DeleteMe))
	users.Get("/", guard.Require(guard.RequireRole(adminOnly, deps.Users.List)))

	// Tours: lectura pública, escritura admin / lead-guide
	tours := api.Group("/tours")
	tours.Get("/", deps.Tours.List)
	tours.Get("/:id", deps.Tours.GetByID)
	tours.Post("/", guard.Require(guard.RequireRole(tourEditors, deps.Tours.Create)))
	tours.Delete("/:id", guard.Require(guard.RequireRole(tourEditors, deps.Tours.Delete)))
}
