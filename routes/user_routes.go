package routes

import (
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/earnease/earnease_backend/controllers"
	"github.com/earnease/earnease_backend/middleware"
	"github.com/earnease/earnease_backend/websocket"
)

// RegisterUserRoutes sets up the authenticated user-facing routes
func RegisterUserRoutes(e *echo.Echo, hub *websocket.Hub, walletController *controllers.WalletController, taskController *controllers.TaskController, referralController *controllers.ReferralController) {
	wallet := e.Group("/api/wallet")
	wallet.Use(middleware.JWTMiddleware())
	wallet.GET("", walletController.GetWallet)
	wallet.GET("/transactions", walletController.GetTransactions)
	wallet.GET("/requests/:kind", walletController.ListMyRequests)
	wallet.POST("/topup", walletController.SubmitTopup)
	wallet.POST("/withdraw", walletController.SubmitWithdraw)
	wallet.POST("/recharge", walletController.SubmitRecharge)
	wallet.POST("/gmail", walletController.SubmitGmailSale)
	wallet.POST("/screenshot", walletController.UploadScreenshot)

	tasks := e.Group("/api/tasks")
	tasks.Use(middleware.JWTMiddleware())
	tasks.GET("", taskController.ListTasks)
	tasks.POST("/video", taskController.WatchVideo)
	tasks.POST("/form", taskController.SubmitForm)

	referral := e.Group("/api/referral")
	referral.Use(middleware.JWTMiddleware())
	referral.GET("", referralController.GetReferralInfo)

	// WebSocket endpoint; clients authenticate after connecting
	e.GET("/api/ws", func(c echo.Context) error {
		return websocket.HandleWebSocket(c, hub, primitive.NilObjectID)
	})
}
