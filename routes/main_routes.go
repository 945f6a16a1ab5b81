package routes

import (
	"github.com/labstack/echo/v4"

	"github.com/earnease/earnease_backend/controllers"
	"github.com/earnease/earnease_backend/websocket"
)

// Controllers bundles everything SetupRoutes wires into the router.
type Controllers struct {
	Auth     *controllers.AuthController
	Wallet   *controllers.WalletController
	Task     *controllers.TaskController
	Referral *controllers.ReferralController
	Shop     *controllers.ShopController
	Admin    *controllers.AdminController
	CEO      *controllers.CEOController
}

// SetupRoutes configures all API routes
func SetupRoutes(e *echo.Echo, hub *websocket.Hub, c Controllers) {
	RegisterAuthRoutes(e, c.Auth, c.Shop)
	RegisterUserRoutes(e, hub, c.Wallet, c.Task, c.Referral)
	RegisterAdminRoutes(e, c.Admin, c.CEO, c.Shop)

	// Uploaded payment screenshots
	e.Static("/uploads", "uploads")
}
