package routes

import (
	"github.com/labstack/echo/v4"

	"github.com/earnease/earnease_backend/controllers"
	"github.com/earnease/earnease_backend/middleware"
)

// RegisterAdminRoutes sets up the settlement desk and management routes
func RegisterAdminRoutes(e *echo.Echo, adminController *controllers.AdminController, ceoController *controllers.CEOController, shopController *controllers.ShopController) {
	admin := e.Group("/api/admin")
	admin.Use(middleware.JWTMiddleware())
	admin.Use(middleware.RequireAdmin())

	admin.GET("/dashboard", adminController.GetDashboard)
	admin.GET("/requests/:kind/pending", adminController.ListPendingRequests)
	admin.POST("/requests/settle", adminController.SettleRequest)
	admin.PUT("/users/:id/activation", adminController.SetUserActivation)
	admin.GET("/users", adminController.ListUsers)

	admin.POST("/shop/products", shopController.CreateProduct)
	admin.DELETE("/shop/products/:id", shopController.DeleteProduct)

	ceo := e.Group("/api/ceo")
	ceo.Use(middleware.JWTMiddleware())
	ceo.Use(middleware.RequireSuperadmin())

	ceo.PUT("/users/role", ceoController.UpdateUserRole)
	ceo.GET("/admins", ceoController.ListAdmins)
	ceo.GET("/reports/activity", ceoController.AdminActivityReport)
	ceo.GET("/reports/activations", ceoController.RecentActivations)
	ceo.GET("/settings", ceoController.GetSettings)
	ceo.PUT("/settings", ceoController.UpdateSettings)
}
