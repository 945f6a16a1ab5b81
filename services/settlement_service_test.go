package services

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/earnease/earnease_backend/models"
)

// In-memory fakes for the settlement stores.

type fakeLedger struct {
	balances map[primitive.ObjectID]int64
	earnings map[string]int64
	txs      []models.WalletTransaction
}

func newFakeLedger() *fakeLedger {
	return &fakeLedger{
		balances: make(map[primitive.ObjectID]int64),
		earnings: make(map[string]int64),
	}
}

func (f *fakeLedger) ApplyDelta(ctx context.Context, userID primitive.ObjectID, delta int64, reason string) (int64, error) {
	balance := f.balances[userID]
	if delta < 0 && balance < -delta {
		return 0, fmt.Errorf("%w: balance %d, debit %d", models.ErrInsufficientFunds, balance, -delta)
	}
	f.balances[userID] = balance + delta
	return f.balances[userID], nil
}

func (f *fakeLedger) IncrementEarnings(ctx context.Context, userID primitive.ObjectID, field string, amount int64) error {
	f.earnings[field] += amount
	return nil
}

func (f *fakeLedger) RecordTransaction(ctx context.Context, tx *models.WalletTransaction) error {
	f.txs = append(f.txs, *tx)
	return nil
}

type fakeRequests struct {
	views   map[primitive.ObjectID]*models.SettlementView
	reopens int
}

func newFakeRequests() *fakeRequests {
	return &fakeRequests{views: make(map[primitive.ObjectID]*models.SettlementView)}
}

func (f *fakeRequests) GetForSettlement(ctx context.Context, kind models.RequestKind, id primitive.ObjectID) (*models.SettlementView, error) {
	view, ok := f.views[id]
	if !ok {
		return nil, fmt.Errorf("request %s not found", id.Hex())
	}
	copy := *view
	return &copy, nil
}

func (f *fakeRequests) Claim(ctx context.Context, kind models.RequestKind, id, adminID primitive.ObjectID, status models.RequestStatus) error {
	view, ok := f.views[id]
	if !ok || view.Status != models.StatusPending {
		return fmt.Errorf("%w: request %s", models.ErrInvalidStateTransition, id.Hex())
	}
	view.Status = status
	return nil
}

func (f *fakeRequests) Reopen(ctx context.Context, kind models.RequestKind, id primitive.ObjectID) error {
	view, ok := f.views[id]
	if !ok {
		return fmt.Errorf("request %s not found", id.Hex())
	}
	view.Status = models.StatusPending
	f.reopens++
	return nil
}

type fakeUsers struct {
	users map[primitive.ObjectID]*models.User
}

func newFakeUsers(users ...*models.User) *fakeUsers {
	f := &fakeUsers{users: make(map[primitive.ObjectID]*models.User)}
	for _, u := range users {
		f.users[u.ID] = u
	}
	return f
}

func (f *fakeUsers) GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	user, ok := f.users[id]
	if !ok {
		return nil, fmt.Errorf("user %s not found", id.Hex())
	}
	copy := *user
	return &copy, nil
}

func (f *fakeUsers) FirstActivation(ctx context.Context, id primitive.ObjectID, newBalance int64) (bool, error) {
	user, ok := f.users[id]
	if !ok {
		return false, fmt.Errorf("user %s not found", id.Hex())
	}
	if user.IsInitiallyActivated {
		return false, nil
	}
	user.WalletBalance = newBalance
	user.ReferralPending = 0
	user.IsActive = true
	user.IsInitiallyActivated = true
	return true, nil
}

func (f *fakeUsers) RevertFirstActivation(ctx context.Context, id primitive.ObjectID, prev *models.User) error {
	user, ok := f.users[id]
	if !ok {
		return fmt.Errorf("user %s not found", id.Hex())
	}
	user.WalletBalance = prev.WalletBalance
	user.ReferralPending = prev.ReferralPending
	user.IsActive = prev.IsActive
	user.IsInitiallyActivated = false
	return nil
}

type fakeAudit struct {
	adminLogs      []models.AdminActionLog
	activationLogs []models.ActivationLog
	failAdminLog   bool
}

func (f *fakeAudit) RecordAdminAction(ctx context.Context, entry *models.AdminActionLog) error {
	if f.failAdminLog {
		return errors.New("audit store down")
	}
	f.adminLogs = append(f.adminLogs, *entry)
	return nil
}

func (f *fakeAudit) RecordActivation(ctx context.Context, entry *models.ActivationLog) error {
	f.activationLogs = append(f.activationLogs, *entry)
	return nil
}

type fakeSettings struct{}

func (fakeSettings) Load(ctx context.Context) (*models.AppSettings, error) {
	defaults := models.DefaultSettings()
	return &defaults, nil
}

type settlementFixture struct {
	service  *SettlementService
	ledger   *fakeLedger
	requests *fakeRequests
	users    *fakeUsers
	audit    *fakeAudit
	admin    *models.User
	user     *models.User
}

func newSettlementFixture(t *testing.T) *settlementFixture {
	t.Helper()

	admin := &models.User{
		ID:          primitive.NewObjectID(),
		Email:       "admin@earnease.app",
		DisplayName: "Desk Admin",
		Role:        models.RoleAdmin,
	}
	user := &models.User{
		ID:                   primitive.NewObjectID(),
		Email:                "user@earnease.app",
		DisplayName:          "Regular User",
		Role:                 models.RoleUser,
		IsActive:             true,
		IsInitiallyActivated: true,
	}

	ledger := newFakeLedger()
	requests := newFakeRequests()
	users := newFakeUsers(admin, user)
	audit := &fakeAudit{}

	return &settlementFixture{
		service:  NewSettlementService(ledger, requests, users, audit, fakeSettings{}, nil),
		ledger:   ledger,
		requests: requests,
		users:    users,
		audit:    audit,
		admin:    admin,
		user:     user,
	}
}

func (f *settlementFixture) addRequest(kind models.RequestKind, amount, bonus int64) primitive.ObjectID {
	id := primitive.NewObjectID()
	f.requests.views[id] = &models.SettlementView{
		Kind:      kind,
		ID:        id,
		UserID:    f.user.ID,
		UserEmail: f.user.Email,
		Amount:    amount,
		Bonus:     bonus,
		Status:    models.StatusPending,
	}
	return id
}

func TestSettle_WithdrawApprove(t *testing.T) {
	f := newSettlementFixture(t)
	f.ledger.balances[f.user.ID] = 600
	reqID := f.addRequest(models.KindWithdraw, 500, 0)

	view, err := f.service.Settle(context.Background(), f.admin.ID, models.KindWithdraw, reqID, true)
	require.NoError(t, err)

	assert.Equal(t, models.StatusSuccess, view.Status)
	assert.Equal(t, int64(100), f.ledger.balances[f.user.ID])
	assert.Equal(t, models.StatusSuccess, f.requests.views[reqID].Status)

	require.Len(t, f.audit.adminLogs, 1)
	assert.Equal(t, "withdraw_approve", f.audit.adminLogs[0].Action)
	assert.Equal(t, models.OutcomeSuccess, f.audit.adminLogs[0].Outcome)
	assert.Equal(t, f.user.ID, f.audit.adminLogs[0].TargetUserID)

	require.Len(t, f.ledger.txs, 1)
	assert.Equal(t, models.TxDebit, f.ledger.txs[0].Type)
}

func TestSettle_WithdrawInsufficientFundsLeavesRequestPending(t *testing.T) {
	f := newSettlementFixture(t)
	f.ledger.balances[f.user.ID] = 100
	reqID := f.addRequest(models.KindWithdraw, 500, 0)

	_, err := f.service.Settle(context.Background(), f.admin.ID, models.KindWithdraw, reqID, true)
	require.ErrorIs(t, err, models.ErrInsufficientFunds)

	assert.Equal(t, int64(100), f.ledger.balances[f.user.ID])
	assert.Equal(t, models.StatusPending, f.requests.views[reqID].Status)
	assert.Empty(t, f.audit.adminLogs)
	assert.Empty(t, f.ledger.txs)
}

func TestSettle_DoubleSettlementRejected(t *testing.T) {
	f := newSettlementFixture(t)
	f.ledger.balances[f.user.ID] = 1000
	reqID := f.addRequest(models.KindWithdraw, 500, 0)

	_, err := f.service.Settle(context.Background(), f.admin.ID, models.KindWithdraw, reqID, true)
	require.NoError(t, err)

	_, err = f.service.Settle(context.Background(), f.admin.ID, models.KindWithdraw, reqID, true)
	require.ErrorIs(t, err, models.ErrInvalidStateTransition)

	// The balance moved exactly once.
	assert.Equal(t, int64(500), f.ledger.balances[f.user.ID])
	assert.Len(t, f.audit.adminLogs, 1)
}

func TestSettle_RejectDoesNotTouchBalance(t *testing.T) {
	f := newSettlementFixture(t)
	f.ledger.balances[f.user.ID] = 300
	reqID := f.addRequest(models.KindTopup, 200, 0)

	view, err := f.service.Settle(context.Background(), f.admin.ID, models.KindTopup, reqID, false)
	require.NoError(t, err)

	assert.Equal(t, models.StatusRejected, view.Status)
	assert.Equal(t, int64(300), f.ledger.balances[f.user.ID])
	assert.Empty(t, f.ledger.txs)

	require.Len(t, f.audit.adminLogs, 1)
	assert.Equal(t, "topup_reject", f.audit.adminLogs[0].Action)
	assert.Equal(t, models.OutcomeUnsuccess, f.audit.adminLogs[0].Outcome)
}

func TestSettle_TopupActivatesNewAccount(t *testing.T) {
	f := newSettlementFixture(t)
	f.user.IsActive = false
	f.user.IsInitiallyActivated = false
	f.user.ReferralPending = 100
	f.users.users[f.user.ID] = f.user
	reqID := f.addRequest(models.KindTopup, 150, 0)

	view, err := f.service.Settle(context.Background(), f.admin.ID, models.KindTopup, reqID, true)
	require.NoError(t, err)
	assert.Equal(t, models.StatusSuccess, view.Status)

	updated := f.users.users[f.user.ID]
	assert.True(t, updated.IsActive)
	assert.True(t, updated.IsInitiallyActivated)
	assert.Equal(t, int64(0), updated.ReferralPending)
	// Activation floor plus the released referral bonus; the paid amount is
	// consumed, not credited.
	assert.Equal(t, int64(200), updated.WalletBalance)
	assert.Equal(t, int64(0), f.ledger.balances[f.user.ID])

	require.Len(t, f.ledger.txs, 1)
	assert.Equal(t, models.TxDebit, f.ledger.txs[0].Type)
	assert.Equal(t, "Account activation charge", f.ledger.txs[0].Description)

	require.Len(t, f.audit.activationLogs, 1)
	assert.Equal(t, f.user.ID, f.audit.activationLogs[0].ActivatedUserID)
	assert.Equal(t, f.admin.ID, f.audit.activationLogs[0].AdminID)
}

func TestSettle_TopupCreditsActiveAccount(t *testing.T) {
	f := newSettlementFixture(t)
	f.ledger.balances[f.user.ID] = 50
	reqID := f.addRequest(models.KindTopup, 200, 0)

	_, err := f.service.Settle(context.Background(), f.admin.ID, models.KindTopup, reqID, true)
	require.NoError(t, err)

	assert.Equal(t, int64(250), f.ledger.balances[f.user.ID])
	assert.Empty(t, f.audit.activationLogs)
	require.Len(t, f.ledger.txs, 1)
	assert.Equal(t, models.TxCredit, f.ledger.txs[0].Type)
}

func TestSettle_RechargeWithBonus(t *testing.T) {
	f := newSettlementFixture(t)
	f.ledger.balances[f.user.ID] = 150
	reqID := f.addRequest(models.KindRecharge, 100, 10)

	_, err := f.service.Settle(context.Background(), f.admin.ID, models.KindRecharge, reqID, true)
	require.NoError(t, err)

	// 150 - 100 + 10 bonus
	assert.Equal(t, int64(60), f.ledger.balances[f.user.ID])
	require.Len(t, f.ledger.txs, 2)
	assert.Equal(t, models.TxDebit, f.ledger.txs[0].Type)
	assert.Equal(t, models.TxCredit, f.ledger.txs[1].Type)
	assert.Equal(t, int64(10), f.ledger.txs[1].Amount)
}

func TestSettle_RechargeWithoutBonus(t *testing.T) {
	f := newSettlementFixture(t)
	f.ledger.balances[f.user.ID] = 300
	reqID := f.addRequest(models.KindRecharge, 200, 0)

	_, err := f.service.Settle(context.Background(), f.admin.ID, models.KindRecharge, reqID, true)
	require.NoError(t, err)

	assert.Equal(t, int64(100), f.ledger.balances[f.user.ID])
	require.Len(t, f.ledger.txs, 1)
}

func TestSettle_GmailSaleCreditsReward(t *testing.T) {
	f := newSettlementFixture(t)
	reqID := f.addRequest(models.KindGmail, 9, 0)

	_, err := f.service.Settle(context.Background(), f.admin.ID, models.KindGmail, reqID, true)
	require.NoError(t, err)

	assert.Equal(t, int64(9), f.ledger.balances[f.user.ID])
}

func TestSettle_FormApproveCreditsAndCounts(t *testing.T) {
	f := newSettlementFixture(t)
	reqID := f.addRequest(models.KindForm, 2, 0)

	_, err := f.service.Settle(context.Background(), f.admin.ID, models.KindForm, reqID, true)
	require.NoError(t, err)

	assert.Equal(t, int64(2), f.ledger.balances[f.user.ID])
	assert.Equal(t, int64(2), f.ledger.earnings["formEarnings"])
}

func TestSettle_AuditFailureRollsBack(t *testing.T) {
	f := newSettlementFixture(t)
	f.audit.failAdminLog = true
	f.ledger.balances[f.user.ID] = 600
	reqID := f.addRequest(models.KindWithdraw, 500, 0)

	_, err := f.service.Settle(context.Background(), f.admin.ID, models.KindWithdraw, reqID, true)
	require.ErrorIs(t, err, models.ErrUpstreamUnavailable)

	assert.Equal(t, int64(600), f.ledger.balances[f.user.ID])
	assert.Equal(t, models.StatusPending, f.requests.views[reqID].Status)
	assert.Equal(t, 1, f.requests.reopens)
	assert.Empty(t, f.ledger.txs)
}

func TestSettle_AuditFailureRevertsActivation(t *testing.T) {
	f := newSettlementFixture(t)
	f.audit.failAdminLog = true
	f.user.IsActive = false
	f.user.IsInitiallyActivated = false
	f.user.ReferralPending = 100
	f.users.users[f.user.ID] = f.user
	reqID := f.addRequest(models.KindTopup, 150, 0)

	_, err := f.service.Settle(context.Background(), f.admin.ID, models.KindTopup, reqID, true)
	require.ErrorIs(t, err, models.ErrUpstreamUnavailable)

	reverted := f.users.users[f.user.ID]
	assert.False(t, reverted.IsActive)
	assert.False(t, reverted.IsInitiallyActivated)
	assert.Equal(t, int64(100), reverted.ReferralPending)
	assert.Equal(t, int64(0), reverted.WalletBalance)
	assert.Equal(t, models.StatusPending, f.requests.views[reqID].Status)
}

func TestSettle_NonAdminDenied(t *testing.T) {
	f := newSettlementFixture(t)
	f.ledger.balances[f.user.ID] = 1000
	reqID := f.addRequest(models.KindWithdraw, 500, 0)

	_, err := f.service.Settle(context.Background(), f.user.ID, models.KindWithdraw, reqID, true)
	require.ErrorIs(t, err, models.ErrPermissionDenied)

	assert.Equal(t, int64(1000), f.ledger.balances[f.user.ID])
	assert.Equal(t, models.StatusPending, f.requests.views[reqID].Status)
}
