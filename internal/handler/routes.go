package handler

import (
	"directory-service/internal/middleware"
	"directory-service/internal/service"

	"github.com/labstack/echo/v4"
)

// Handlers groups everything RegisterRoutes mounts
type Handlers struct {
	Auth     *AuthHandler
	Business *BusinessHandler
	Favorite *FavoriteHandler
	User     *UserHandler
	Health   *HealthHandler
}

// RegisterRoutes mounts the public API on e. authenticate guards every
// route except registration, login, refresh and health.
func RegisterRoutes(e *echo.Echo, h Handlers, authenticate echo.MiddlewareFunc) {
	e.Validator = NewValidator()

	e.GET("/health", h.Health.HealthCheck)

	auth := e.Group("/auth")
	auth.POST("/register", h.Auth.Register)
	auth.POST("/login", h.Auth.Login)
	auth.POST("/refresh", h.Auth.Refresh)
	auth.POST("/logout", h.Auth.Logout, authenticate)

	business := e.Group("/business", authenticate)
	businessOnly := middleware.Require(service.RequireBusiness)
	business.GET("", h.Business.List)
	business.POST("", h.Business.Create, businessOnly)
	business.GET("/categories", h.Business.Categories)
	business.GET("/:id", h.Business.Get)
	business.PUT("/:id", h.Business.Update, businessOnly)
	business.PATCH("/:id", h.Business.Update, businessOnly)
	business.DELETE("/:id", h.Business.Delete, businessOnly)

	business.POST("/:id/favorite", h.Favorite.Add)
	business.DELETE("/:id/favorite", h.Favorite.Remove)

	user := e.Group("/user", authenticate)
	user.GET("/favorites", h.Favorite.List)
	user.GET("/profile", h.User.GetProfile)
	user.PATCH("/profile", h.User.UpdateProfile)
	user.POST("/change-password", h.User.ChangePassword)
}
