package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/farm-directory-api/internal/application/auth"
	"github.com/jhoicas/farm-directory-api/internal/application/dto"
	"github.com/jhoicas/farm-directory-api/internal/application/usecase"
)

// RouterDeps everything the routes need.
type RouterDeps struct {
	AuthUC  *auth.AuthUseCase
	FarmUC  *usecase.FarmUseCase
	AdminUC *usecase.AdminUseCase
	Cookie  CookieConfig

	// AuthLimit applies to /api/auth/*, APILimit to every /api route.
	AuthLimit RateLimit
	APILimit  RateLimit
}

// Router registers the API routes.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api", RateLimiter(deps.APILimit))
	api.Get("/status", Health)

	requireSession := AuthMiddleware(deps.AuthUC, deps.Cookie.Name)

	// Auth
	authGroup := api.Group("/auth", RateLimiter(deps.AuthLimit))
	authHandler := NewAuthHandler(deps.AuthUC, deps.Cookie)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)
	authGroup.Post("/logout", authHandler.Logout)
	authGroup.Get("/me", requireSession, authHandler.Me)

	// Public directory; static paths go before /:id
	farms := api.Group("/farms")
	farmHandler := NewFarmHandler(deps.FarmUC)
	farms.Get("/", farmHandler.List)
	farms.Get("/categories", farmHandler.Categories)
	farms.Get("/export.kml", farmHandler.ExportKML)
	farms.Get("/:id", farmHandler.GetByID)
	farms.Post("/", requireSession, RequireApprovedOrAdmin(), farmHandler.Create)
	farms.Delete("/:id", requireSession, farmHandler.Delete)

	// Moderation
	admin := api.Group("/admin", requireSession, RequireAdmin())
	adminHandler := NewAdminHandler(deps.AdminUC)
	admin.Get("/users", adminHandler.ListUsers)
	admin.Put("/users/:id", adminHandler.UpdateUserStatus)
	admin.Get("/farms", adminHandler.ListFarms)
	admin.Get("/farms/report.pdf", adminHandler.Report)
	admin.Put("/farms/:id", adminHandler.UpdateFarmStatus)
}

// Health godoc
// @Summary      Health check
// @Tags         system
// @Produce      json
// @Success      200  {object}  dto.HealthResponse
// @Router       /api/status [get]
func Health(c *fiber.Ctx) error {
	return c.JSON(dto.HealthResponse{Status: "ok", Time: time.Now().UTC().Format(time.RFC3339)})
}
