package routes

import (
	"github.com/NanamiNakano/apnoxide/internal/auth"
	"github.com/NanamiNakano/apnoxide/internal/handlers"

	"github.com/labstack/echo/v4"
)

func SetupRoutes(api *echo.Group) {
	// Public routes
	api.GET("/health", handlers.HealthCheck)

	// Auth routes with rate limiting
	authGroup := api.Group("/auth")
	authGroup.Use(auth.RateLimitMiddleware)
	authGroup.POST("/signup", handlers.Signup)
	authGroup.POST("/login", handlers.Login)

	// Protected routes
	api.Use(auth.JWTMiddleware)

	devices := api.Group("/devices")
	devices.POST("", handlers.RegisterDevice)
	devices.GET("", handlers.ListDevices)
	devices.DELETE("/:token", handlers.DeleteDevice)

	pushes := api.Group("/pushes")
	pushes.POST("", handlers.SendPush)
	pushes.GET("", handlers.ListPushes)
	pushes.GET("/:id", handlers.GetPush)
}
