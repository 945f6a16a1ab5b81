// controllers/admin_controller.go
package controllers

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/earnease/earnease_backend/middleware"
	"github.com/earnease/earnease_backend/models"
	"github.com/earnease/earnease_backend/repositories"
	"github.com/earnease/earnease_backend/services"
)

// AdminController is the settlement desk: pending queues, approve/reject
// decisions and activation management.
type AdminController struct {
	settlement *services.SettlementService
	activation *services.ActivationService
	requests   *repositories.RequestRepository
	users      *repositories.UserRepository
}

func NewAdminController(settlement *services.SettlementService, activation *services.ActivationService, requests *repositories.RequestRepository, users *repositories.UserRepository) *AdminController {
	return &AdminController{
		settlement: settlement,
		activation: activation,
		requests:   requests,
		users:      users,
	}
}

var allRequestKinds = []models.RequestKind{
	models.KindTopup,
	models.KindWithdraw,
	models.KindRecharge,
	models.KindGmail,
	models.KindForm,
}

// GetDashboard returns pending counts per request kind plus user totals.
func (ac *AdminController) GetDashboard(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pending := map[string]int64{}
	for _, kind := range allRequestKinds {
		count, err := ac.requests.CountPending(ctx, kind)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, models.Response{
				Status:  http.StatusInternalServerError,
				Message: "Failed to count pending requests",
			})
		}
		pending[string(kind)] = count
	}

	activeUsers, err := ac.users.CountByActive(ctx, true)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to count users",
		})
	}
	inactiveUsers, err := ac.users.CountByActive(ctx, false)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to count users",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Dashboard retrieved",
		Data: map[string]interface{}{
			"pendingRequests": pending,
			"activeUsers":     activeUsers,
			"inactiveUsers":   inactiveUsers,
		},
	})
}

// ListPendingRequests returns the pending queue for one request kind.
func (ac *AdminController) ListPendingRequests(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	kind := models.RequestKind(c.Param("kind"))
	if kind.CollectionName() == "" {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Unknown request kind",
		})
	}

	list, err := ac.requests.ListPending(ctx, kind)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to load pending requests",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Pending requests retrieved",
		Data:    list,
	})
}

// SettleRequest applies an approve or reject decision to one pending request.
func (ac *AdminController) SettleRequest(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	claims := middleware.GetUserFromToken(c)
	adminID, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid admin ID",
		})
	}

	var req models.SettleRequestBody
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

	requestID, err := primitive.ObjectIDFromHex(req.RequestID)
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request ID",
		})
	}

	kind := models.RequestKind(req.RequestType)
	approve := req.Action == "approve"

	view, err := ac.settlement.Settle(ctx, adminID, kind, requestID, approve)
	if err != nil {
		return settlementError(c, err)
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Request settled",
		Data: map[string]interface{}{
			"kind":      string(view.Kind),
			"requestId": view.ID.Hex(),
			"userId":    view.UserID.Hex(),
			"status":    string(view.Status),
			"amount":    view.Amount,
		},
	})
}

func settlementError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, models.ErrInvalidStateTransition):
		return c.JSON(http.StatusConflict, models.Response{
			Status:  http.StatusConflict,
			Message: "Request has already been settled",
		})
	case errors.Is(err, models.ErrInsufficientFunds):
		return c.JSON(http.StatusUnprocessableEntity, models.Response{
			Status:  http.StatusUnprocessableEntity,
			Message: "User balance is insufficient; request left pending",
		})
	case errors.Is(err, models.ErrPermissionDenied):
		return c.JSON(http.StatusForbidden, models.Response{
			Status:  http.StatusForbidden,
			Message: "Not authorized to settle requests",
		})
	case errors.Is(err, models.ErrUpstreamUnavailable):
		return c.JSON(http.StatusServiceUnavailable, models.Response{
			Status:  http.StatusServiceUnavailable,
			Message: "Storage unavailable, settlement rolled back",
		})
	default:
		log.Printf("settlement failed: %v", err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to settle request",
		})
	}
}

// SetUserActivation flips a user's active flag.
func (ac *AdminController) SetUserActivation(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	claims := middleware.GetUserFromToken(c)
	adminID, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid admin ID",
		})
	}

	targetID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid user ID",
		})
	}

	var body struct {
		Active bool `json:"active"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}

	user, err := ac.activation.SetUserActive(ctx, adminID, targetID, body.Active)
	if err != nil {
		if errors.Is(err, models.ErrPermissionDenied) {
			return c.JSON(http.StatusForbidden, models.Response{
				Status:  http.StatusForbidden,
				Message: "Not authorized to manage activation",
			})
		}
		log.Printf("activation toggle failed for user %s: %v", targetID.Hex(), err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to update activation",
		})
	}

	user.Password = ""
	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Activation updated",
		Data:    user,
	})
}

// ListUsers returns all user accounts for the admin panel.
func (ac *AdminController) ListUsers(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	users, err := ac.users.ListAll(ctx, 1000)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to load users",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Users retrieved",
		Data:    users,
	})
}
