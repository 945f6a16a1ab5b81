// controllers/task_controller.go
package controllers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/earnease/earnease_backend/middleware"
	"github.com/earnease/earnease_backend/models"
	"github.com/earnease/earnease_backend/repositories"
	"github.com/earnease/earnease_backend/services"
)

// TaskController exposes the daily earning tasks.
type TaskController struct {
	tasks *services.TaskService
	users *repositories.UserRepository
}

func NewTaskController(tasks *services.TaskService, users *repositories.UserRepository) *TaskController {
	return &TaskController{tasks: tasks, users: users}
}

func (tc *TaskController) currentUser(c echo.Context, ctx context.Context) (*models.User, error) {
	claims := middleware.GetUserFromToken(c)
	userID, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		return nil, err
	}
	return tc.users.GetByID(ctx, userID)
}

// WatchVideo credits the reward for one completed ad video.
func (tc *TaskController) WatchVideo(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	user, err := tc.currentUser(c, ctx)
	if err != nil {
		return c.JSON(http.StatusNotFound, models.Response{
			Status:  http.StatusNotFound,
			Message: "User not found",
		})
	}

	balance, err := tc.tasks.WatchVideo(ctx, user)
	if err != nil {
		return taskError(c, err)
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Video reward credited",
		Data:    map[string]interface{}{"walletBalance": balance},
	})
}

// SubmitForm queues a form-fill task for admin review.
func (tc *TaskController) SubmitForm(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	user, err := tc.currentUser(c, ctx)
	if err != nil {
		return c.JSON(http.StatusNotFound, models.Response{
			Status:  http.StatusNotFound,
			Message: "User not found",
		})
	}

	var data models.FormFillFields
	if err := c.Bind(&data); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}

	submission, err := tc.tasks.SubmitForm(ctx, user, data)
	if err != nil {
		return taskError(c, err)
	}

	return c.JSON(http.StatusCreated, models.Response{
		Status:  http.StatusCreated,
		Message: "Form submitted for review",
		Data:    submission,
	})
}

// ListTasks returns the user's recent completed tasks.
func (tc *TaskController) ListTasks(c echo.Context) error {
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

	tasks, err := tc.tasks.ListTasks(ctx, userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to load tasks",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Tasks retrieved",
		Data:    tasks,
	})
}

func taskError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, services.ErrDailyCapReached):
		return c.JSON(http.StatusTooManyRequests, models.Response{
			Status:  http.StatusTooManyRequests,
			Message: "Daily limit reached, try again tomorrow",
		})
	case errors.Is(err, services.ErrAccountNotActive):
		return c.JSON(http.StatusForbidden, models.Response{
			Status:  http.StatusForbidden,
			Message: "Account is not activated",
		})
	default:
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to complete task",
		})
	}
}
