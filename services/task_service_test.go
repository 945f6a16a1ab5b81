package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/earnease/earnease_backend/models"
)

type fakeTasks struct {
	inserted []models.Task
}

func (f *fakeTasks) Insert(ctx context.Context, task *models.Task) error {
	f.inserted = append(f.inserted, *task)
	return nil
}

func (f *fakeTasks) CountSince(ctx context.Context, userID primitive.ObjectID, taskType string, since time.Time) (int64, error) {
	var n int64
	for _, task := range f.inserted {
		if task.UserID == userID && task.Type == taskType {
			n++
		}
	}
	return n, nil
}

func (f *fakeTasks) ListByUser(ctx context.Context, userID primitive.ObjectID, limit int64) ([]models.Task, error) {
	out := []models.Task{}
	for _, task := range f.inserted {
		if task.UserID == userID {
			out = append(out, task)
		}
	}
	return out, nil
}

type fakeFormQueue struct {
	created []models.FormSubmission
}

func (f *fakeFormQueue) CreateFormSubmission(ctx context.Context, userID primitive.ObjectID, userEmail string, data models.FormFillFields, amount int64) (*models.FormSubmission, error) {
	submission := models.FormSubmission{
		RequestBase: models.RequestBase{
			ID:        primitive.NewObjectID(),
			UserID:    userID,
			UserEmail: userEmail,
			Status:    models.StatusPending,
		},
		Amount: amount,
		Data:   data,
	}
	f.created = append(f.created, submission)
	return &submission, nil
}

func newTaskFixture() (*TaskService, *fakeLedger, *fakeTasks, *fakeFormQueue, *models.User) {
	ledger := newFakeLedger()
	tasks := &fakeTasks{}
	forms := &fakeFormQueue{}
	// No Redis client; caps are counted from the task store.
	service := NewTaskService(ledger, tasks, forms, fakeSettings{}, nil)
	user := &models.User{
		ID:       primitive.NewObjectID(),
		Email:    "worker@earnease.app",
		IsActive: true,
	}
	return service, ledger, tasks, forms, user
}

func TestWatchVideo_CreditsReward(t *testing.T) {
	service, ledger, tasks, _, user := newTaskFixture()

	balance, err := service.WatchVideo(context.Background(), user)
	require.NoError(t, err)

	assert.Equal(t, int64(5), balance)
	assert.Equal(t, int64(5), ledger.balances[user.ID])
	assert.Equal(t, int64(5), ledger.earnings["videoEarnings"])
	require.Len(t, tasks.inserted, 1)
	assert.Equal(t, models.TaskVideo, tasks.inserted[0].Type)
	require.Len(t, ledger.txs, 1)
	assert.Equal(t, models.TxCredit, ledger.txs[0].Type)
}

func TestWatchVideo_DailyCap(t *testing.T) {
	service, ledger, _, _, user := newTaskFixture()

	for i := 0; i < 5; i++ {
		_, err := service.WatchVideo(context.Background(), user)
		require.NoError(t, err)
	}

	_, err := service.WatchVideo(context.Background(), user)
	require.ErrorIs(t, err, ErrDailyCapReached)
	assert.Equal(t, int64(25), ledger.balances[user.ID])
}

func TestWatchVideo_InactiveAccount(t *testing.T) {
	service, ledger, _, _, user := newTaskFixture()
	user.IsActive = false

	_, err := service.WatchVideo(context.Background(), user)
	require.ErrorIs(t, err, ErrAccountNotActive)
	assert.Equal(t, int64(0), ledger.balances[user.ID])
}

func TestSubmitForm_QueuesPendingSubmission(t *testing.T) {
	service, ledger, tasks, forms, user := newTaskFixture()

	data := models.FormFillFields{Name: "Test", Feedback: "Nice app", Rating: "5"}
	submission, err := service.SubmitForm(context.Background(), user, data)
	require.NoError(t, err)

	assert.Equal(t, models.StatusPending, submission.Status)
	assert.Equal(t, int64(2), submission.Amount)
	assert.Equal(t, data, submission.Data)

	// The reward is not credited at submission time.
	assert.Equal(t, int64(0), ledger.balances[user.ID])

	require.Len(t, forms.created, 1)
	require.Len(t, tasks.inserted, 1)
	assert.Equal(t, models.TaskForm, tasks.inserted[0].Type)
}

func TestSubmitForm_DailyCap(t *testing.T) {
	service, _, _, forms, user := newTaskFixture()

	data := models.FormFillFields{Name: "Test", Feedback: "ok", Rating: "4"}
	for i := 0; i < 7; i++ {
		_, err := service.SubmitForm(context.Background(), user, data)
		require.NoError(t, err)
	}

	_, err := service.SubmitForm(context.Background(), user, data)
	require.ErrorIs(t, err, ErrDailyCapReached)
	assert.Len(t, forms.created, 7)
}

func TestVideoAndFormCapsAreIndependent(t *testing.T) {
	service, _, _, _, user := newTaskFixture()

	for i := 0; i < 5; i++ {
		_, err := service.WatchVideo(context.Background(), user)
		require.NoError(t, err)
	}
	_, err := service.WatchVideo(context.Background(), user)
	require.ErrorIs(t, err, ErrDailyCapReached)

	// Forms still allowed after the video cap is hit.
	_, err = service.SubmitForm(context.Background(), user, models.FormFillFields{Name: "n", Feedback: "f", Rating: "3"})
	require.NoError(t, err)
}
