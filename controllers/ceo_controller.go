// controllers/ceo_controller.go
package controllers

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/earnease/earnease_backend/models"
	"github.com/earnease/earnease_backend/repositories"
	"github.com/earnease/earnease_backend/services"
)

// CEOController holds the superadmin-only surface: role management, the
// cross-admin activity report and reward settings.
type CEOController struct {
	users    *repositories.UserRepository
	settings *repositories.SettingsRepository
	reports  *services.ReportService
}

func NewCEOController(users *repositories.UserRepository, settings *repositories.SettingsRepository, reports *services.ReportService) *CEOController {
	return &CEOController{users: users, settings: settings, reports: reports}
}

// UpdateUserRole promotes or demotes an account between user and admin.
func (cc *CEOController) UpdateUserRole(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var req models.UpdateRoleRequest
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

	userID, err := primitive.ObjectIDFromHex(req.UserID)
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid user ID",
		})
	}

	target, err := cc.users.GetByID(ctx, userID)
	if err != nil {
		return c.JSON(http.StatusNotFound, models.Response{
			Status:  http.StatusNotFound,
			Message: "User not found",
		})
	}
	if target.Role == models.RoleSuperadmin {
		return c.JSON(http.StatusForbidden, models.Response{
			Status:  http.StatusForbidden,
			Message: "Superadmin role cannot be changed",
		})
	}

	if err := cc.users.UpdateRole(ctx, userID, req.Role); err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to update role",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Role updated",
		Data:    map[string]string{"userId": req.UserID, "role": req.Role},
	})
}

// ListAdmins returns all accounts holding the admin role.
func (cc *CEOController) ListAdmins(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	admins, err := cc.users.ListByRole(ctx, models.RoleAdmin, 500)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to load admins",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Admins retrieved",
		Data:    admins,
	})
}

// AdminActivityReport returns the filtered audit trail with per-admin
// outcome totals. Filters come from query parameters: adminId, action,
// outcome, startDate and endDate (both dates in 2006-01-02 form, endDate
// inclusive).
func (cc *CEOController) AdminActivityReport(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	filter := models.ActivityFilter{
		ActionContains: c.QueryParam("action"),
		Outcome:        c.QueryParam("outcome"),
	}

	if adminIDStr := c.QueryParam("adminId"); adminIDStr != "" {
		adminID, err := primitive.ObjectIDFromHex(adminIDStr)
		if err != nil {
			return c.JSON(http.StatusBadRequest, models.Response{
				Status:  http.StatusBadRequest,
				Message: "Invalid admin ID",
			})
		}
		filter.AdminID = &adminID
	}

	if startStr := c.QueryParam("startDate"); startStr != "" {
		start, err := time.Parse("2006-01-02", startStr)
		if err != nil {
			return c.JSON(http.StatusBadRequest, models.Response{
				Status:  http.StatusBadRequest,
				Message: "Invalid startDate, expected YYYY-MM-DD",
			})
		}
		filter.StartDate = &start
	}
	if endStr := c.QueryParam("endDate"); endStr != "" {
		end, err := time.Parse("2006-01-02", endStr)
		if err != nil {
			return c.JSON(http.StatusBadRequest, models.Response{
				Status:  http.StatusBadRequest,
				Message: "Invalid endDate, expected YYYY-MM-DD",
			})
		}
		filter.EndDate = &end
	}

	report, err := cc.reports.AdminActivity(ctx, filter)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to build activity report",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Activity report generated",
		Data:    report,
	})
}

// RecentActivations lists the latest account activations.
func (cc *CEOController) RecentActivations(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	limit := int64(100)
	if limitStr := c.QueryParam("limit"); limitStr != "" {
		if parsed, err := strconv.ParseInt(limitStr, 10, 64); err == nil {
			limit = parsed
		}
	}

	logs, err := cc.reports.RecentActivations(ctx, limit)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to load activation history",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Activations retrieved",
		Data:    logs,
	})
}

// GetSettings returns the current reward settings.
func (cc *CEOController) GetSettings(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	settings, err := cc.settings.Load(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to load settings",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Settings retrieved",
		Data:    settings,
	})
}

// UpdateSettings overwrites the reward settings.
func (cc *CEOController) UpdateSettings(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var settings models.AppSettings
	if err := c.Bind(&settings); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}

	if err := cc.settings.Save(ctx, &settings); err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to save settings",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Settings updated",
		Data:    settings,
	})
}
