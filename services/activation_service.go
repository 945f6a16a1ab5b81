// services/activation_service.go
package services

import (
	"context"
	"fmt"
	"log"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/earnease/earnease_backend/models"
	"github.com/earnease/earnease_backend/utils"
)

// ActivationUserStore is the user surface the activation flow needs.
type ActivationUserStore interface {
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	FirstActivation(ctx context.Context, id primitive.ObjectID, newBalance int64) (bool, error)
	SetActive(ctx context.Context, id primitive.ObjectID, active bool) error
}

// ActivationService handles the admin-driven activation toggle. The first
// ever activation of an account releases the pending referral bonus on top
// of the activation floor; later toggles only flip the active flag and never
// touch the balance.
type ActivationService struct {
	users    ActivationUserStore
	audit    AuditStore
	settings SettingsStore
	locks    *utils.KeyedMutex
}

func NewActivationService(users ActivationUserStore, audit AuditStore, settings SettingsStore) *ActivationService {
	return &ActivationService{
		users:    users,
		audit:    audit,
		settings: settings,
		locks:    utils.NewKeyedMutex(),
	}
}

// SetUserActive flips a user's active flag on behalf of an admin.
func (s *ActivationService) SetUserActive(ctx context.Context, adminID, targetID primitive.ObjectID, active bool) (*models.User, error) {
	admin, err := s.users.GetByID(ctx, adminID)
	if err != nil {
		return nil, err
	}
	if !admin.IsAdmin() {
		return nil, fmt.Errorf("%w: role %q cannot manage activation", models.ErrPermissionDenied, admin.Role)
	}

	lockKey := targetID.Hex()
	s.locks.Lock(lockKey)
	defer s.locks.Unlock(lockKey)

	target, err := s.users.GetByID(ctx, targetID)
	if err != nil {
		return nil, err
	}

	switch {
	case active && !target.IsInitiallyActivated:
		settings, err := s.settings.Load(ctx)
		if err != nil {
			return nil, err
		}
		newBalance := settings.ActivationFloor + target.ReferralPending
		activated, err := s.users.FirstActivation(ctx, targetID, newBalance)
		if err != nil {
			return nil, err
		}
		if activated {
			s.logActivation(ctx, admin, target)
		}

	case active && !target.IsActive:
		if err := s.users.SetActive(ctx, targetID, true); err != nil {
			return nil, err
		}
		s.logActivation(ctx, admin, target)

	case !active && target.IsActive:
		if err := s.users.SetActive(ctx, targetID, false); err != nil {
			return nil, err
		}

	default:
		// Already in the requested state.
	}

	return s.users.GetByID(ctx, targetID)
}

func (s *ActivationService) logActivation(ctx context.Context, admin, target *models.User) {
	entry := &models.ActivationLog{
		AdminID:            admin.ID,
		AdminEmail:         admin.Email,
		ActivatedUserID:    target.ID,
		ActivatedUserEmail: target.Email,
	}
	if err := s.audit.RecordActivation(ctx, entry); err != nil {
		log.Printf("activation log write failed for user %s: %v", target.ID.Hex(), err)
	}
}
