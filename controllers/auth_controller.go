// controllers/auth_controller.go
package controllers

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/earnease/earnease_backend/middleware"
	"github.com/earnease/earnease_backend/models"
	"github.com/earnease/earnease_backend/repositories"
	"github.com/earnease/earnease_backend/utils"
)

// AuthController handles registration, login and session management.
type AuthController struct {
	users    *repositories.UserRepository
	settings *repositories.SettingsRepository
}

func NewAuthController(users *repositories.UserRepository, settings *repositories.SettingsRepository) *AuthController {
	return &AuthController{users: users, settings: settings}
}

// Register creates a new user account. A valid referral code pays the
// referrer immediately and parks the joining bonus on the new account until
// it is activated.
func (ac *AuthController) Register(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var req models.RegisterRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: err.Error(),
		})
	}

	if _, err := ac.users.GetByEmail(ctx, req.Email); err == nil {
		return c.JSON(http.StatusConflict, models.Response{
			Status:  http.StatusConflict,
			Message: "Email is already registered",
		})
	}

	hashed, err := utils.HashPassword(req.Password)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to process password",
		})
	}

	referralCode, err := utils.GenerateReferralCode()
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to generate referral code",
		})
	}
	eeID, err := utils.GenerateEeID()
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to generate account ID",
		})
	}

	user := &models.User{
		Email:        req.Email,
		Password:     hashed,
		DisplayName:  req.DisplayName,
		EeID:         eeID,
		Role:         models.RoleUser,
		ReferralCode: referralCode,
		FCMToken:     req.FCMToken,
	}

	if req.ReferralCode != "" {
		ac.applyReferral(ctx, user, req.ReferralCode)
	}

	if err := ac.users.Create(ctx, user); err != nil {
		log.Printf("user registration failed: %v", err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to create account",
		})
	}

	token, err := utils.GenerateJWT(user)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to generate token",
		})
	}

	user.Password = ""
	return c.JSON(http.StatusCreated, models.Response{
		Status:  http.StatusCreated,
		Message: "Account created",
		Data:    models.LoginResponse{Token: token, User: *user},
	})
}

// applyReferral resolves the referral code and pays the referrer. Invalid
// codes are ignored so a typo never blocks signup.
func (ac *AuthController) applyReferral(ctx context.Context, user *models.User, code string) {
	referrer, err := ac.users.GetByReferralCode(ctx, code)
	if err != nil {
		if err != mongo.ErrNoDocuments {
			log.Printf("referral lookup failed for code %s: %v", code, err)
		}
		return
	}

	settings, err := ac.settings.Load(ctx)
	if err != nil {
		log.Printf("settings load failed during referral: %v", err)
		return
	}

	user.ReferredBy = code
	user.ReferralPending = settings.ReferralJoiningBonus

	if referrer.IsActive {
		if err := ac.users.CreditReferrer(ctx, referrer.ID, settings.ReferralBonus); err != nil {
			log.Printf("failed to credit referrer %s: %v", referrer.ID.Hex(), err)
		}
	}
}

// Login authenticates with email and password.
func (ac *AuthController) Login(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var req models.LoginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: err.Error(),
		})
	}

	user, err := ac.users.GetByEmail(ctx, req.Email)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Invalid email or password",
		})
	}
	if !utils.CheckPassword(user.Password, req.Password) {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Invalid email or password",
		})
	}

	token, err := utils.GenerateJWT(user)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to generate token",
		})
	}

	user.Password = ""
	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Login successful",
		Data:    models.LoginResponse{Token: token, User: *user},
	})
}

// Logout invalidates the presented token until it expires.
func (ac *AuthController) Logout(c echo.Context) error {
	claims := middleware.GetUserFromToken(c)
	if claims == nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Not authenticated",
		})
	}

	auth := c.Request().Header.Get("Authorization")
	const prefix = "Bearer "
	if len(auth) > len(prefix) {
		expiry := time.Unix(claims.ExpiresAt, 0)
		middleware.BlacklistToken(auth[len(prefix):], expiry)
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Logged out",
	})
}

// Me returns the authenticated user's profile.
func (ac *AuthController) Me(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	claims := middleware.GetUserFromToken(c)
	userID, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid user ID",
		})
	}

	user, err := ac.users.GetByID(ctx, userID)
	if err != nil {
		return c.JSON(http.StatusNotFound, models.Response{
			Status:  http.StatusNotFound,
			Message: "User not found",
		})
	}

	user.Password = ""
	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Profile retrieved",
		Data:    user,
	})
}
