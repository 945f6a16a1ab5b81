// services/settlement_service.go
package services

import (
	"context"
	"fmt"
	"log"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/earnease/earnease_backend/models"
	"github.com/earnease/earnease_backend/utils"
)

// LedgerStore applies balance movements. Debits must refuse to drive the
// balance negative and return models.ErrInsufficientFunds.
type LedgerStore interface {
	ApplyDelta(ctx context.Context, userID primitive.ObjectID, delta int64, reason string) (int64, error)
	IncrementEarnings(ctx context.Context, userID primitive.ObjectID, field string, amount int64) error
	RecordTransaction(ctx context.Context, tx *models.WalletTransaction) error
}

// RequestStore owns the request lifecycle. Claim must be conditional on the
// pending status and return models.ErrInvalidStateTransition when the request
// is already terminal.
type RequestStore interface {
	GetForSettlement(ctx context.Context, kind models.RequestKind, id primitive.ObjectID) (*models.SettlementView, error)
	Claim(ctx context.Context, kind models.RequestKind, id, adminID primitive.ObjectID, status models.RequestStatus) error
	Reopen(ctx context.Context, kind models.RequestKind, id primitive.ObjectID) error
}

type UserStore interface {
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	FirstActivation(ctx context.Context, id primitive.ObjectID, newBalance int64) (bool, error)
	RevertFirstActivation(ctx context.Context, id primitive.ObjectID, prev *models.User) error
}

type AuditStore interface {
	RecordAdminAction(ctx context.Context, entry *models.AdminActionLog) error
	RecordActivation(ctx context.Context, entry *models.ActivationLog) error
}

type SettingsStore interface {
	Load(ctx context.Context) (*models.AppSettings, error)
}

// Notifier delivers best-effort user notifications. Implementations must not
// block settlement and must swallow their own errors.
type Notifier interface {
	RequestSettled(userID primitive.ObjectID, email string, view *models.SettlementView, status models.RequestStatus)
}

// SettlementService is the only code path that moves money for the five
// request kinds. Every decision follows the same shape: claim the pending
// request, mutate the ledger, write the audit entry, then fire supplementary
// writes. A failure before the audit entry rolls everything back and reopens
// the request, so a request can never pay out twice and an approved request
// always has a matching audit row.
type SettlementService struct {
	ledger   LedgerStore
	requests RequestStore
	users    UserStore
	audit    AuditStore
	settings SettingsStore
	notifier Notifier
	locks    *utils.KeyedMutex
}

func NewSettlementService(ledger LedgerStore, requests RequestStore, users UserStore, audit AuditStore, settings SettingsStore, notifier Notifier) *SettlementService {
	return &SettlementService{
		ledger:   ledger,
		requests: requests,
		users:    users,
		audit:    audit,
		settings: settings,
		notifier: notifier,
		locks:    utils.NewKeyedMutex(),
	}
}

// undoStack collects compensating actions for the mutations already applied,
// to run in reverse order if a later step fails.
type undoStack []func(context.Context) error

func (u undoStack) run(ctx context.Context) {
	for i := len(u) - 1; i >= 0; i-- {
		if err := u[i](ctx); err != nil {
			log.Printf("settlement rollback step failed: %v", err)
		}
	}
}

// Settle applies one admin decision to one pending request.
func (s *SettlementService) Settle(ctx context.Context, adminID primitive.ObjectID, kind models.RequestKind, requestID primitive.ObjectID, approve bool) (*models.SettlementView, error) {
	admin, err := s.users.GetByID(ctx, adminID)
	if err != nil {
		return nil, err
	}
	if !admin.IsAdmin() {
		return nil, fmt.Errorf("%w: role %q cannot settle requests", models.ErrPermissionDenied, admin.Role)
	}

	view, err := s.requests.GetForSettlement(ctx, kind, requestID)
	if err != nil {
		return nil, err
	}
	if view.Status.Terminal() {
		return nil, fmt.Errorf("%w: request %s is already %s", models.ErrInvalidStateTransition, requestID.Hex(), view.Status)
	}

	// One settlement per user at a time. All wallet writes for this user
	// happen inside the lock, so concurrent decisions serialize.
	lockKey := view.UserID.Hex()
	s.locks.Lock(lockKey)
	defer s.locks.Unlock(lockKey)

	status := models.StatusRejected
	if approve {
		status = models.StatusSuccess
	}

	// The conditional claim is the double-settlement guard: it only matches
	// while the request is still pending.
	if err := s.requests.Claim(ctx, kind, requestID, adminID, status); err != nil {
		return nil, err
	}

	var undo undoStack
	var txs []models.WalletTransaction
	var activation *models.ActivationLog

	if approve {
		txs, activation, err = s.apply(ctx, admin, view, &undo)
		if err != nil {
			undo.run(ctx)
			if reopenErr := s.requests.Reopen(ctx, kind, requestID); reopenErr != nil {
				log.Printf("failed to reopen %s request %s after rollback: %v", kind, requestID.Hex(), reopenErr)
			}
			return nil, err
		}
	}

	entry := &models.AdminActionLog{
		AdminID:      adminID,
		AdminName:    admin.DisplayName,
		Action:       actionName(kind, approve),
		TargetUserID: view.UserID,
		RequestID:    requestID,
		Outcome:      outcomeFor(approve),
	}
	if err := s.audit.RecordAdminAction(ctx, entry); err != nil {
		undo.run(ctx)
		if reopenErr := s.requests.Reopen(ctx, kind, requestID); reopenErr != nil {
			log.Printf("failed to reopen %s request %s after rollback: %v", kind, requestID.Hex(), reopenErr)
		}
		return nil, fmt.Errorf("%w: audit log write failed: %v", models.ErrUpstreamUnavailable, err)
	}

	// Everything below is supplementary: failures are logged, never rolled
	// back, and never surfaced to the admin.
	if activation != nil {
		if err := s.audit.RecordActivation(ctx, activation); err != nil {
			log.Printf("activation log write failed for user %s: %v", view.UserID.Hex(), err)
		}
	}
	for i := range txs {
		if err := s.ledger.RecordTransaction(ctx, &txs[i]); err != nil {
			log.Printf("wallet transaction write failed for user %s: %v", view.UserID.Hex(), err)
		}
	}
	if s.notifier != nil {
		s.notifier.RequestSettled(view.UserID, view.UserEmail, view, status)
	}

	view.Status = status
	return view, nil
}

// apply performs the kind-specific balance mutation for an approval and
// returns the wallet transactions to record afterwards.
func (s *SettlementService) apply(ctx context.Context, admin *models.User, view *models.SettlementView, undo *undoStack) ([]models.WalletTransaction, *models.ActivationLog, error) {
	switch view.Kind {
	case models.KindTopup:
		return s.applyTopup(ctx, admin, view, undo)

	case models.KindWithdraw:
		if _, err := s.debit(ctx, view.UserID, view.Amount, "withdraw approved", undo); err != nil {
			return nil, nil, err
		}
		return []models.WalletTransaction{
			{UserID: view.UserID, Amount: view.Amount, Type: models.TxDebit, Description: "Withdrawal"},
		}, nil, nil

	case models.KindRecharge:
		if _, err := s.debit(ctx, view.UserID, view.Amount, "recharge approved", undo); err != nil {
			return nil, nil, err
		}
		txs := []models.WalletTransaction{
			{UserID: view.UserID, Amount: view.Amount, Type: models.TxDebit, Description: "Mobile recharge"},
		}
		if view.Bonus > 0 {
			if _, err := s.credit(ctx, view.UserID, view.Bonus, "recharge bonus", undo); err != nil {
				return nil, nil, err
			}
			txs = append(txs, models.WalletTransaction{
				UserID: view.UserID, Amount: view.Bonus, Type: models.TxCredit, Description: "Recharge bonus",
			})
		}
		return txs, nil, nil

	case models.KindGmail:
		if _, err := s.credit(ctx, view.UserID, view.Amount, "gmail sale approved", undo); err != nil {
			return nil, nil, err
		}
		return []models.WalletTransaction{
			{UserID: view.UserID, Amount: view.Amount, Type: models.TxCredit, Description: "Gmail sale reward"},
		}, nil, nil

	case models.KindForm:
		if _, err := s.credit(ctx, view.UserID, view.Amount, "form submission approved", undo); err != nil {
			return nil, nil, err
		}
		if err := s.ledger.IncrementEarnings(ctx, view.UserID, "formEarnings", view.Amount); err != nil {
			return nil, nil, err
		}
		amount := view.Amount
		*undo = append(*undo, func(ctx context.Context) error {
			return s.ledger.IncrementEarnings(ctx, view.UserID, "formEarnings", -amount)
		})
		return []models.WalletTransaction{
			{UserID: view.UserID, Amount: view.Amount, Type: models.TxCredit, Description: "Form submission reward"},
		}, nil, nil
	}
	return nil, nil, fmt.Errorf("unknown request kind %q", view.Kind)
}

// applyTopup handles the activation special case. The first approved top-up
// of a never-activated account is consumed as the activation charge: the
// account unlocks, any pending referral bonus is released, and the paid
// amount is not credited to the wallet.
func (s *SettlementService) applyTopup(ctx context.Context, admin *models.User, view *models.SettlementView, undo *undoStack) ([]models.WalletTransaction, *models.ActivationLog, error) {
	user, err := s.users.GetByID(ctx, view.UserID)
	if err != nil {
		return nil, nil, err
	}

	if !user.IsInitiallyActivated {
		settings, err := s.settings.Load(ctx)
		if err != nil {
			return nil, nil, err
		}
		newBalance := settings.ActivationFloor + user.ReferralPending
		activated, err := s.users.FirstActivation(ctx, view.UserID, newBalance)
		if err != nil {
			return nil, nil, err
		}
		if activated {
			prev := *user
			*undo = append(*undo, func(ctx context.Context) error {
				return s.users.RevertFirstActivation(ctx, view.UserID, &prev)
			})
			activation := &models.ActivationLog{
				AdminID:            admin.ID,
				AdminEmail:         admin.Email,
				ActivatedUserID:    user.ID,
				ActivatedUserEmail: user.Email,
			}
			return []models.WalletTransaction{
				{UserID: view.UserID, Amount: view.Amount, Type: models.TxDebit, Description: "Account activation charge"},
			}, activation, nil
		}
		// Lost the activation race; fall through to a plain credit.
	}

	if _, err := s.credit(ctx, view.UserID, view.Amount, "topup approved", undo); err != nil {
		return nil, nil, err
	}
	return []models.WalletTransaction{
		{UserID: view.UserID, Amount: view.Amount, Type: models.TxCredit, Description: "Wallet top-up"},
	}, nil, nil
}

func (s *SettlementService) credit(ctx context.Context, userID primitive.ObjectID, amount int64, reason string, undo *undoStack) (int64, error) {
	balance, err := s.ledger.ApplyDelta(ctx, userID, amount, reason)
	if err != nil {
		return 0, err
	}
	*undo = append(*undo, func(ctx context.Context) error {
		_, err := s.ledger.ApplyDelta(ctx, userID, -amount, reason+" (rollback)")
		return err
	})
	return balance, nil
}

func (s *SettlementService) debit(ctx context.Context, userID primitive.ObjectID, amount int64, reason string, undo *undoStack) (int64, error) {
	balance, err := s.ledger.ApplyDelta(ctx, userID, -amount, reason)
	if err != nil {
		return 0, err
	}
	*undo = append(*undo, func(ctx context.Context) error {
		_, err := s.ledger.ApplyDelta(ctx, userID, amount, reason+" (rollback)")
		return err
	})
	return balance, nil
}

func actionName(kind models.RequestKind, approve bool) string {
	if approve {
		return fmt.Sprintf("%s_approve", kind)
	}
	return fmt.Sprintf("%s_reject", kind)
}

func outcomeFor(approve bool) string {
	if approve {
		return models.OutcomeSuccess
	}
	return models.OutcomeUnsuccess
}
