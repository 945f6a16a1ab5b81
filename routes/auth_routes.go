package routes

import (
	"github.com/labstack/echo/v4"

	"github.com/earnease/earnease_backend/controllers"
	"github.com/earnease/earnease_backend/middleware"
)

// RegisterAuthRoutes sets up authentication and public routes
func RegisterAuthRoutes(e *echo.Echo, authController *controllers.AuthController, shopController *controllers.ShopController) {
	// Public authentication routes
	e.POST("/api/auth/register", authController.Register)
	e.POST("/api/auth/login", authController.Login)

	// Authenticated session routes
	session := e.Group("/api/auth")
	session.Use(middleware.JWTMiddleware())
	session.POST("/logout", authController.Logout)
	session.GET("/me", authController.Me)

	// Public shop catalog
	e.GET("/api/shop/products", shopController.ListProducts)
}
