// controllers/referral_controller.go
package controllers

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/earnease/earnease_backend/middleware"
	"github.com/earnease/earnease_backend/models"
	"github.com/earnease/earnease_backend/repositories"
	"github.com/earnease/earnease_backend/utils"
)

// ReferralController serves the referral program surface.
type ReferralController struct {
	users    *repositories.UserRepository
	settings *repositories.SettingsRepository
}

func NewReferralController(users *repositories.UserRepository, settings *repositories.SettingsRepository) *ReferralController {
	return &ReferralController{users: users, settings: settings}
}

// GetReferralInfo returns the user's code, share link, QR code and earnings.
func (rc *ReferralController) GetReferralInfo(c echo.Context) error {
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

	user, err := rc.users.GetByID(ctx, userID)
	if err != nil {
		return c.JSON(http.StatusNotFound, models.Response{
			Status:  http.StatusNotFound,
			Message: "User not found",
		})
	}

	settings, err := rc.settings.Load(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to load settings",
		})
	}

	qrCode, err := utils.GenerateReferralQRCode(user.ReferralCode)
	if err != nil {
		log.Printf("QR code generation failed for user %s: %v", userID.Hex(), err)
		qrCode = ""
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Referral info retrieved",
		Data: map[string]interface{}{
			"referralCode":     user.ReferralCode,
			"referralLink":     utils.ReferralLink(user.ReferralCode),
			"qrCode":           qrCode,
			"referralCount":    user.ReferralCount,
			"referralEarnings": user.ReferralEarnings,
			"referralPending":  user.ReferralPending,
			"bonusPerReferral": settings.ReferralBonus,
			"joiningBonus":     settings.ReferralJoiningBonus,
		},
	})
}
