// services/task_service.go
package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/go-redis/redis/v8"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/earnease/earnease_backend/models"
)

// ErrDailyCapReached means the user already completed today's quota for the
// task type.
var ErrDailyCapReached = errors.New("daily task limit reached")

// ErrAccountNotActive means the account has not been activated and cannot
// earn yet.
var ErrAccountNotActive = errors.New("account is not activated")

type TaskStore interface {
	Insert(ctx context.Context, task *models.Task) error
	CountSince(ctx context.Context, userID primitive.ObjectID, taskType string, since time.Time) (int64, error)
	ListByUser(ctx context.Context, userID primitive.ObjectID, limit int64) ([]models.Task, error)
}

type FormQueue interface {
	CreateFormSubmission(ctx context.Context, userID primitive.ObjectID, userEmail string, data models.FormFillFields, amount int64) (*models.FormSubmission, error)
}

// TaskService credits ad-video rewards immediately and queues form
// submissions for admin review. Daily caps are enforced with Redis counters
// keyed by user, task type and calendar day; when Redis is down the caps
// fall back to counting task documents.
type TaskService struct {
	ledger   LedgerStore
	tasks    TaskStore
	forms    FormQueue
	settings SettingsStore
	redis    *redis.Client
}

func NewTaskService(ledger LedgerStore, tasks TaskStore, forms FormQueue, settings SettingsStore, redisClient *redis.Client) *TaskService {
	return &TaskService{
		ledger:   ledger,
		tasks:    tasks,
		forms:    forms,
		settings: settings,
		redis:    redisClient,
	}
}

// WatchVideo records one completed ad video and credits the reward. Returns
// the new wallet balance.
func (s *TaskService) WatchVideo(ctx context.Context, user *models.User) (int64, error) {
	if !user.IsActive {
		return 0, ErrAccountNotActive
	}
	settings, err := s.settings.Load(ctx)
	if err != nil {
		return 0, err
	}
	if err := s.underDailyCap(ctx, user.ID, models.TaskVideo, settings.MaxDailyVideos); err != nil {
		return 0, err
	}

	balance, err := s.ledger.ApplyDelta(ctx, user.ID, settings.VideoReward, "video reward")
	if err != nil {
		return 0, err
	}
	if err := s.ledger.IncrementEarnings(ctx, user.ID, "videoEarnings", settings.VideoReward); err != nil {
		log.Printf("video earnings counter update failed for user %s: %v", user.ID.Hex(), err)
	}
	if err := s.tasks.Insert(ctx, &models.Task{
		UserID: user.ID,
		Type:   models.TaskVideo,
		Amount: settings.VideoReward,
	}); err != nil {
		log.Printf("task record write failed for user %s: %v", user.ID.Hex(), err)
	}
	if err := s.ledger.RecordTransaction(ctx, &models.WalletTransaction{
		UserID:      user.ID,
		Amount:      settings.VideoReward,
		Type:        models.TxCredit,
		Description: "Ad video reward",
	}); err != nil {
		log.Printf("wallet transaction write failed for user %s: %v", user.ID.Hex(), err)
	}
	return balance, nil
}

// SubmitForm records a form-fill task and queues it for admin settlement.
// The reward is credited only when an admin approves the submission.
func (s *TaskService) SubmitForm(ctx context.Context, user *models.User, data models.FormFillFields) (*models.FormSubmission, error) {
	if !user.IsActive {
		return nil, ErrAccountNotActive
	}
	settings, err := s.settings.Load(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.underDailyCap(ctx, user.ID, models.TaskForm, settings.MaxDailyForms); err != nil {
		return nil, err
	}

	submission, err := s.forms.CreateFormSubmission(ctx, user.ID, user.Email, data, settings.FormReward)
	if err != nil {
		return nil, err
	}
	if err := s.tasks.Insert(ctx, &models.Task{
		UserID: user.ID,
		Type:   models.TaskForm,
		Amount: settings.FormReward,
		Data:   &data,
	}); err != nil {
		log.Printf("task record write failed for user %s: %v", user.ID.Hex(), err)
	}
	return submission, nil
}

// ListTasks returns a user's recent completed tasks.
func (s *TaskService) ListTasks(ctx context.Context, userID primitive.ObjectID) ([]models.Task, error) {
	return s.tasks.ListByUser(ctx, userID, 100)
}

func (s *TaskService) underDailyCap(ctx context.Context, userID primitive.ObjectID, taskType string, max int64) error {
	if s.redis != nil {
		key := fmt.Sprintf("taskcap:%s:%s:%s", taskType, userID.Hex(), time.Now().Format("2006-01-02"))
		n, err := s.redis.Incr(ctx, key).Result()
		if err == nil {
			if n == 1 {
				s.redis.Expire(ctx, key, 48*time.Hour)
			}
			if n > max {
				return ErrDailyCapReached
			}
			return nil
		}
		log.Printf("redis cap counter unavailable, counting from documents: %v", err)
	}

	now := time.Now()
	since := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	count, err := s.tasks.CountSince(ctx, userID, taskType, since)
	if err != nil {
		return err
	}
	if count >= max {
		return ErrDailyCapReached
	}
	return nil
}
