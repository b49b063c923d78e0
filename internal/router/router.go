// Package router wires the HTTP routes to their handlers and
// middleware.
package router

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/ayoub-kd/costume-rental/internal/config"
	"github.com/ayoub-kd/costume-rental/internal/handler"
	"github.com/ayoub-kd/costume-rental/internal/middleware"
	"github.com/ayoub-kd/costume-rental/internal/model"
)

// Handlers bundles every handler the router mounts.
type Handlers struct {
	Auth    *handler.AuthHandler
	Public  *handler.PublicCostumeHandler
	Rentals *handler.RentalHandler
	AdminC  *handler.AdminCostumeHandler
	AdminR  *handler.AdminRentalHandler
	PDF     *handler.PDFHandler
}

// Register mounts all routes on e. rdb may be nil, in which case the
// rate limiter and response cache are disabled.
func Register(e *echo.Echo, h Handlers, cfg config.Config, rdb *redis.Client, log *zap.Logger) {
	e.Use(middleware.RequestLogger(log))
	if rdb != nil {
		e.Use(middleware.RateLimit(config.LoadRateLimitConfig(), rdb))
	}

	e.GET("/", handler.Root)
	e.GET("/healthz", handler.Health)
	e.GET("/costumes/pdf", h.PDF.Catalog)
	e.Static(cfg.StorageBaseURL, cfg.StorageRoot)

	v1 := e.Group("/v1")

	// Public catalog, cached when Redis is available.
	public := v1.Group("")
	if rdb != nil {
		public.Use(middleware.Cache(config.LoadCacheConfig(), rdb))
	}
	public.GET("/costumes", h.Public.List)
	public.GET("/costumes/categories", h.Public.Categories)
	public.GET("/costumes/:id", h.Public.Show)
	public.GET("/costumes/:id/available-dates", h.Public.AvailableDates)

	v1.POST("/register", h.Auth.Register)
	v1.POST("/login", h.Auth.Login)
	v1.POST("/refresh", h.Auth.Refresh)

	auth := v1.Group("", middleware.JWTAuth(cfg.JWTSecret))
	auth.GET("/me", h.Auth.Me)
	auth.POST("/logout", h.Auth.Logout)
	auth.GET("/rentals", h.Rentals.List)
	auth.POST("/rentals", h.Rentals.Create)
	auth.GET("/rentals/:id", h.Rentals.Show)
	auth.PATCH("/rentals/:id/cancel", h.Rentals.Cancel)

	admin := v1.Group("/admin", middleware.JWTAuth(cfg.JWTSecret), middleware.RequireRole(model.RoleAdmin))
	admin.GET("/costumes", h.AdminC.List)
	admin.POST("/costumes", h.AdminC.Create)
	admin.POST("/costumes/:id", h.AdminC.Update)
	admin.PUT("/costumes/:id", h.AdminC.Update)
	admin.DELETE("/costumes/:id", h.AdminC.Delete)
	admin.PATCH("/costumes/:id/toggle-publish", h.AdminC.TogglePublish)
	admin.GET("/rentals", h.AdminR.List)
	admin.GET("/rentals/:id", h.AdminR.Show)
	admin.PATCH("/rentals/:id/status", h.AdminR.UpdateStatus)
}
