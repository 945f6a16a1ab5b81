// controllers/wallet_controller.go
package controllers

import (
	"context"
	"fmt"
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

// WalletController exposes the user-facing wallet surface: balance,
// transaction history and the submission endpoints for the five request
// kinds. Submissions only create pending documents; money moves when an
// admin settles them.
type WalletController struct {
	users    *repositories.UserRepository
	ledger   *repositories.LedgerRepository
	requests *repositories.RequestRepository
	settings *repositories.SettingsRepository
}

func NewWalletController(users *repositories.UserRepository, ledger *repositories.LedgerRepository, requests *repositories.RequestRepository, settings *repositories.SettingsRepository) *WalletController {
	return &WalletController{users: users, ledger: ledger, requests: requests, settings: settings}
}

func (wc *WalletController) currentUser(c echo.Context, ctx context.Context) (*models.User, error) {
	claims := middleware.GetUserFromToken(c)
	if claims == nil {
		return nil, fmt.Errorf("missing token")
	}
	userID, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		return nil, err
	}
	return wc.users.GetByID(ctx, userID)
}

// GetWallet returns the balance and earnings breakdown.
func (wc *WalletController) GetWallet(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	user, err := wc.currentUser(c, ctx)
	if err != nil {
		return c.JSON(http.StatusNotFound, models.Response{
			Status:  http.StatusNotFound,
			Message: "User not found",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Wallet retrieved",
		Data: map[string]interface{}{
			"walletBalance":    user.WalletBalance,
			"videoEarnings":    user.VideoEarnings,
			"formEarnings":     user.FormEarnings,
			"referralEarnings": user.ReferralEarnings,
			"referralPending":  user.ReferralPending,
			"isActive":         user.IsActive,
		},
	})
}

// GetTransactions returns the user's wallet transaction history.
func (wc *WalletController) GetTransactions(c echo.Context) error {
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

	txs, err := wc.ledger.ListTransactions(ctx, userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to load transactions",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Transactions retrieved",
		Data:    txs,
	})
}

// SubmitTopup files a top-up claim with the payment proof screenshot.
func (wc *WalletController) SubmitTopup(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	user, err := wc.currentUser(c, ctx)
	if err != nil {
		return c.JSON(http.StatusNotFound, models.Response{
			Status:  http.StatusNotFound,
			Message: "User not found",
		})
	}

	var req models.SubmitTopupRequest
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

	topup, err := wc.requests.CreateTopup(ctx, user.ID, user.Email, &req)
	if err != nil {
		log.Printf("topup creation failed for user %s: %v", user.ID.Hex(), err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to submit top-up request",
		})
	}

	return c.JSON(http.StatusCreated, models.Response{
		Status:  http.StatusCreated,
		Message: "Top-up request submitted for review",
		Data:    topup,
	})
}

// SubmitWithdraw files a withdrawal request. The balance check here is a
// convenience for the client; the decisive check runs again when an admin
// approves the request.
func (wc *WalletController) SubmitWithdraw(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	user, err := wc.currentUser(c, ctx)
	if err != nil {
		return c.JSON(http.StatusNotFound, models.Response{
			Status:  http.StatusNotFound,
			Message: "User not found",
		})
	}
	if !user.IsActive {
		return c.JSON(http.StatusForbidden, models.Response{
			Status:  http.StatusForbidden,
			Message: "Account is not activated",
		})
	}

	var req models.SubmitWithdrawRequest
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

	settings, err := wc.settings.Load(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to load settings",
		})
	}
	if req.Amount < settings.MinWithdraw {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: fmt.Sprintf("Minimum withdrawal amount is %d", settings.MinWithdraw),
		})
	}
	if user.WalletBalance < req.Amount {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Insufficient balance",
		})
	}

	withdraw, err := wc.requests.CreateWithdraw(ctx, user.ID, user.Email, &req)
	if err != nil {
		log.Printf("withdraw creation failed for user %s: %v", user.ID.Hex(), err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to submit withdrawal request",
		})
	}

	return c.JSON(http.StatusCreated, models.Response{
		Status:  http.StatusCreated,
		Message: "Withdrawal request submitted for review",
		Data:    withdraw,
	})
}

// SubmitRecharge files a mobile recharge request. A recharge for exactly the
// bonus-qualifying amount earns a small cashback at approval time.
func (wc *WalletController) SubmitRecharge(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	user, err := wc.currentUser(c, ctx)
	if err != nil {
		return c.JSON(http.StatusNotFound, models.Response{
			Status:  http.StatusNotFound,
			Message: "User not found",
		})
	}
	if !user.IsActive {
		return c.JSON(http.StatusForbidden, models.Response{
			Status:  http.StatusForbidden,
			Message: "Account is not activated",
		})
	}

	var req models.SubmitRechargeRequest
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

	settings, err := wc.settings.Load(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to load settings",
		})
	}
	if req.Amount < settings.MinRecharge {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: fmt.Sprintf("Minimum recharge amount is %d", settings.MinRecharge),
		})
	}
	if user.WalletBalance < req.Amount {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Insufficient balance",
		})
	}

	var bonus int64
	if req.Amount == settings.RechargeBonusAmount {
		bonus = settings.RechargeBonus
	}

	recharge, err := wc.requests.CreateRecharge(ctx, user.ID, user.Email, &req, bonus)
	if err != nil {
		log.Printf("recharge creation failed for user %s: %v", user.ID.Hex(), err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to submit recharge request",
		})
	}

	return c.JSON(http.StatusCreated, models.Response{
		Status:  http.StatusCreated,
		Message: "Recharge request submitted for review",
		Data:    recharge,
	})
}

// SubmitGmailSale files a Gmail account sale for admin verification.
func (wc *WalletController) SubmitGmailSale(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	user, err := wc.currentUser(c, ctx)
	if err != nil {
		return c.JSON(http.StatusNotFound, models.Response{
			Status:  http.StatusNotFound,
			Message: "User not found",
		})
	}
	if !user.IsActive {
		return c.JSON(http.StatusForbidden, models.Response{
			Status:  http.StatusForbidden,
			Message: "Account is not activated",
		})
	}

	var req models.SubmitGmailSaleRequest
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

	settings, err := wc.settings.Load(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to load settings",
		})
	}

	sale, err := wc.requests.CreateGmailSale(ctx, user.ID, user.Email, &req, settings.GmailReward)
	if err != nil {
		log.Printf("gmail sale creation failed for user %s: %v", user.ID.Hex(), err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to submit Gmail sale",
		})
	}

	return c.JSON(http.StatusCreated, models.Response{
		Status:  http.StatusCreated,
		Message: "Gmail sale submitted for review",
		Data:    sale,
	})
}

// UploadScreenshot stores a payment proof image and returns its URL.
func (wc *WalletController) UploadScreenshot(c echo.Context) error {
	file, err := c.FormFile("screenshot")
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Screenshot file is required",
		})
	}

	url, err := utils.SaveScreenshot(file)
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: err.Error(),
		})
	}

	return c.JSON(http.StatusCreated, models.Response{
		Status:  http.StatusCreated,
		Message: "Screenshot uploaded",
		Data:    map[string]string{"url": url},
	})
}

// ListMyRequests returns the user's own requests of one kind.
func (wc *WalletController) ListMyRequests(c echo.Context) error {
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

	kind := models.RequestKind(c.Param("kind"))
	if kind.CollectionName() == "" {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Unknown request kind",
		})
	}

	list, err := wc.requests.ListByUser(ctx, kind, userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to load requests",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Requests retrieved",
		Data:    list,
	})
}
