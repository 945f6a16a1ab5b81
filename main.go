package main

import (
	"log"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"

	"github.com/earnease/earnease_backend/config"
	"github.com/earnease/earnease_backend/controllers"
	"github.com/earnease/earnease_backend/middleware"
	"github.com/earnease/earnease_backend/repositories"
	"github.com/earnease/earnease_backend/routes"
	"github.com/earnease/earnease_backend/services"
	"github.com/earnease/earnease_backend/utils"
	"github.com/earnease/earnease_backend/websocket"
)

// CustomValidator is a custom validator for Echo
type CustomValidator struct {
	validator *validator.Validate
}

// Validate validates the request body
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}

func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}

	// Connect to database
	client := config.ConnectDB()
	db := client.Database(config.DatabaseName())

	// Redis backs the daily task cap counters; nil means document fallback
	redisClient := config.ConnectRedis()

	// Firebase powers push notifications; nil means pushes are skipped
	firebaseApp := config.InitFirebase()

	// Storage for payment proof screenshots
	if err := utils.InitializeStorage(); err != nil {
		log.Fatalf("Failed to initialize upload storage: %v", err)
	}

	// WebSocket hub
	wsHub := websocket.NewHub()
	go wsHub.Run()

	// Token blacklist cleanup
	go middleware.CleanupBlacklist()

	// Repositories
	userRepo := repositories.NewUserRepository(db)
	ledgerRepo := repositories.NewLedgerRepository(db)
	requestRepo := repositories.NewRequestRepository(db)
	auditRepo := repositories.NewAuditRepository(db)
	settingsRepo := repositories.NewSettingsRepository(db)
	productRepo := repositories.NewProductRepository(db)
	taskRepo := repositories.NewTaskRepository(db)

	// Services
	notifier := services.NewNotificationService(firebaseApp, wsHub, userRepo)
	settlementService := services.NewSettlementService(ledgerRepo, requestRepo, userRepo, auditRepo, settingsRepo, notifier)
	activationService := services.NewActivationService(userRepo, auditRepo, settingsRepo)
	taskService := services.NewTaskService(ledgerRepo, taskRepo, requestRepo, settingsRepo, redisClient)
	reportService := services.NewReportService(auditRepo)

	// Echo instance
	e := echo.New()
	e.Validator = &CustomValidator{validator: validator.New()}

	rateLimiter := middleware.NewRateLimiter()

	e.Use(echoMiddleware.Logger())
	e.Use(echoMiddleware.Recover())
	e.Use(echoMiddleware.CORS())
	e.Use(echoMiddleware.Secure())
	e.Use(rateLimiter.RateLimit())
	e.Use(middleware.SecurityHeaders())

	e.Match([]string{"GET", "HEAD"}, "/", func(c echo.Context) error {
		return c.JSON(200, map[string]string{
			"status":  "OK",
			"message": "EarnEase Backend is running",
			"version": "1.0",
		})
	})

	e.Match([]string{"GET", "HEAD"}, "/health", func(c echo.Context) error {
		return c.JSON(200, map[string]string{
			"status":   "healthy",
			"database": "connected",
		})
	})

	routes.SetupRoutes(e, wsHub, routes.Controllers{
		Auth:     controllers.NewAuthController(userRepo, settingsRepo),
		Wallet:   controllers.NewWalletController(userRepo, ledgerRepo, requestRepo, settingsRepo),
		Task:     controllers.NewTaskController(taskService, userRepo),
		Referral: controllers.NewReferralController(userRepo, settingsRepo),
		Shop:     controllers.NewShopController(productRepo),
		Admin:    controllers.NewAdminController(settlementService, activationService, requestRepo, userRepo),
		CEO:      controllers.NewCEOController(userRepo, settingsRepo, reportService),
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	e.Logger.Fatal(e.Start(":" + port))
}
