package services

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/earnease/earnease_backend/models"
)

// activationUsers extends the settlement user fake with SetActive.
type activationUsers struct {
	*fakeUsers
}

func (f *activationUsers) SetActive(ctx context.Context, id primitive.ObjectID, active bool) error {
	user, ok := f.users[id]
	if !ok {
		return fmt.Errorf("user %s not found", id.Hex())
	}
	user.IsActive = active
	return nil
}

func newActivationFixture() (*ActivationService, *activationUsers, *fakeAudit, *models.User, *models.User) {
	admin := &models.User{
		ID:    primitive.NewObjectID(),
		Email: "admin@earnease.app",
		Role:  models.RoleAdmin,
	}
	target := &models.User{
		ID:              primitive.NewObjectID(),
		Email:           "new@earnease.app",
		Role:            models.RoleUser,
		ReferralPending: 100,
	}
	users := &activationUsers{newFakeUsers(admin, target)}
	audit := &fakeAudit{}
	service := NewActivationService(users, audit, fakeSettings{})
	return service, users, audit, admin, target
}

func TestSetUserActive_FirstActivationReleasesPendingBonus(t *testing.T) {
	service, _, audit, admin, target := newActivationFixture()

	updated, err := service.SetUserActive(context.Background(), admin.ID, target.ID, true)
	require.NoError(t, err)

	assert.True(t, updated.IsActive)
	assert.True(t, updated.IsInitiallyActivated)
	assert.Equal(t, int64(200), updated.WalletBalance)
	assert.Equal(t, int64(0), updated.ReferralPending)

	require.Len(t, audit.activationLogs, 1)
	assert.Equal(t, admin.ID, audit.activationLogs[0].AdminID)
	assert.Equal(t, target.ID, audit.activationLogs[0].ActivatedUserID)
}

func TestSetUserActive_DeactivateAndReactivateKeepsBalance(t *testing.T) {
	service, _, audit, admin, target := newActivationFixture()

	_, err := service.SetUserActive(context.Background(), admin.ID, target.ID, true)
	require.NoError(t, err)

	deactivated, err := service.SetUserActive(context.Background(), admin.ID, target.ID, false)
	require.NoError(t, err)
	assert.False(t, deactivated.IsActive)
	assert.True(t, deactivated.IsInitiallyActivated)

	reactivated, err := service.SetUserActive(context.Background(), admin.ID, target.ID, true)
	require.NoError(t, err)
	assert.True(t, reactivated.IsActive)

	// The one-time bonus is paid exactly once.
	assert.Equal(t, int64(200), reactivated.WalletBalance)
	assert.Len(t, audit.activationLogs, 2)
}

func TestSetUserActive_Idempotent(t *testing.T) {
	service, _, audit, admin, target := newActivationFixture()

	first, err := service.SetUserActive(context.Background(), admin.ID, target.ID, true)
	require.NoError(t, err)

	second, err := service.SetUserActive(context.Background(), admin.ID, target.ID, true)
	require.NoError(t, err)

	assert.Equal(t, first.WalletBalance, second.WalletBalance)
	assert.Len(t, audit.activationLogs, 1)
}

func TestSetUserActive_NonAdminDenied(t *testing.T) {
	service, _, _, _, target := newActivationFixture()

	_, err := service.SetUserActive(context.Background(), target.ID, target.ID, true)
	require.ErrorIs(t, err, models.ErrPermissionDenied)
}
