package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Investigacion-api/internal/application/auth"
	"github.com/jhoicas/Investigacion-api/internal/application/usecase"
	"github.com/jhoicas/Investigacion-api/internal/domain/entity"
	"github.com/jhoicas/Investigacion-api/pkg/logger"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC   *auth.AuthUseCase
	UserUC   *usecase.UserUseCase
	Sessions *SessionManager
	Log      *logger.Logger
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth: login y logout son públicos; /me requiere sesión.
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC, deps.Sessions, deps.Log.Named("auth"))
	authGroup.Post("/login", authHandler.Login)
	authGroup.Post("/logout", authHandler.Logout)
	authGroup.Get("/me", RequireAuthenticated(deps.Sessions, deps.Log), authHandler.Me)

	// Administración (solo admin)
	admin := api.Group("/admin", RequirePrivileged(deps.Sessions, deps.Log, entity.RoleAdmin))
	userHandler := NewUserHandler(deps.UserUC, deps.Log.Named("users"))
	admin.Get("/users", userHandler.List)
	admin.Post("/users", userHandler.Create)
	admin.Get("/users/:id", userHandler.Get)
}
