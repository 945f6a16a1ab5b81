// repositories/request_repository.go
package repositories

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/earnease/earnease_backend/models"
)

// RequestRepository is the append-create, status-mutate queue backing every
// money-movement request type. Requests are never deleted; the only allowed
// mutation is the single pending -> terminal transition performed by Claim.
type RequestRepository struct {
	db *mongo.Database
}

func NewRequestRepository(db *mongo.Database) *RequestRepository {
	return &RequestRepository{db: db}
}

func (r *RequestRepository) collection(kind models.RequestKind) (*mongo.Collection, error) {
	name := kind.CollectionName()
	if name == "" {
		return nil, fmt.Errorf("unknown request kind %q", kind)
	}
	return r.db.Collection(name), nil
}

func (r *RequestRepository) insert(ctx context.Context, kind models.RequestKind, doc interface{}) error {
	coll, err := r.collection(kind)
	if err != nil {
		return err
	}
	if _, err := coll.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("%w: %v", models.ErrUpstreamUnavailable, err)
	}
	return nil
}

func newRequestBase(userID primitive.ObjectID, userEmail string) models.RequestBase {
	return models.RequestBase{
		ID:        primitive.NewObjectID(),
		UserID:    userID,
		UserEmail: userEmail,
		Status:    models.StatusPending,
		CreatedAt: time.Now(),
	}
}

// CreateTopup queues a topup claim for admin review.
func (r *RequestRepository) CreateTopup(ctx context.Context, userID primitive.ObjectID, userEmail string, body *models.SubmitTopupRequest) (*models.TopupRequest, error) {
	req := &models.TopupRequest{
		RequestBase:   newRequestBase(userID, userEmail),
		Amount:        body.Amount,
		Method:        body.Method,
		SenderNumber:  body.SenderNumber,
		ScreenshotURL: body.ScreenshotURL,
	}
	return req, r.insert(ctx, models.KindTopup, req)
}

// CreateWithdraw queues a withdraw request. Funds are not escrowed here;
// the settlement engine re-checks the balance at approval time.
func (r *RequestRepository) CreateWithdraw(ctx context.Context, userID primitive.ObjectID, userEmail string, body *models.SubmitWithdrawRequest) (*models.WithdrawRequest, error) {
	req := &models.WithdrawRequest{
		RequestBase: newRequestBase(userID, userEmail),
		Amount:      body.Amount,
		Method:      body.Method,
		Number:      body.Number,
	}
	return req, r.insert(ctx, models.KindWithdraw, req)
}

// CreateRecharge queues a mobile recharge. The bonus is computed once at
// creation so the settlement engine credits exactly what the user was shown.
func (r *RequestRepository) CreateRecharge(ctx context.Context, userID primitive.ObjectID, userEmail string, body *models.SubmitRechargeRequest, bonus int64) (*models.RechargeRequest, error) {
	req := &models.RechargeRequest{
		RequestBase:  newRequestBase(userID, userEmail),
		Amount:       body.Amount,
		MobileNumber: body.MobileNumber,
		Bonus:        bonus,
	}
	return req, r.insert(ctx, models.KindRecharge, req)
}

// CreateGmailSale queues a credential sale for admin verification.
func (r *RequestRepository) CreateGmailSale(ctx context.Context, userID primitive.ObjectID, userEmail string, body *models.SubmitGmailSaleRequest, reward int64) (*models.GmailSaleRequest, error) {
	req := &models.GmailSaleRequest{
		RequestBase:   newRequestBase(userID, userEmail),
		Gmail:         body.Gmail,
		GmailPassword: body.Password,
		Reward:        reward,
	}
	return req, r.insert(ctx, models.KindGmail, req)
}

// CreateFormSubmission queues a filled form for admin review.
func (r *RequestRepository) CreateFormSubmission(ctx context.Context, userID primitive.ObjectID, userEmail string, data models.FormFillFields, amount int64) (*models.FormSubmission, error) {
	req := &models.FormSubmission{
		RequestBase: newRequestBase(userID, userEmail),
		Amount:      amount,
		Data:        data,
	}
	return req, r.insert(ctx, models.KindForm, req)
}

// GetForSettlement loads a request as the kind-independent projection the
// settlement engine operates on.
func (r *RequestRepository) GetForSettlement(ctx context.Context, kind models.RequestKind, id primitive.ObjectID) (*models.SettlementView, error) {
	coll, err := r.collection(kind)
	if err != nil {
		return nil, err
	}

	res := coll.FindOne(ctx, bson.M{"_id": id})

	view := &models.SettlementView{Kind: kind, ID: id}
	switch kind {
	case models.KindTopup:
		var req models.TopupRequest
		if err := res.Decode(&req); err != nil {
			return nil, decodeErr(err, kind, id)
		}
		view.UserID, view.UserEmail, view.Amount, view.Status = req.UserID, req.UserEmail, req.Amount, req.Status
	case models.KindWithdraw:
		var req models.WithdrawRequest
		if err := res.Decode(&req); err != nil {
			return nil, decodeErr(err, kind, id)
		}
		view.UserID, view.UserEmail, view.Amount, view.Status = req.UserID, req.UserEmail, req.Amount, req.Status
	case models.KindRecharge:
		var req models.RechargeRequest
		if err := res.Decode(&req); err != nil {
			return nil, decodeErr(err, kind, id)
		}
		view.UserID, view.UserEmail, view.Amount, view.Status = req.UserID, req.UserEmail, req.Amount, req.Status
		view.Bonus = req.Bonus
	case models.KindGmail:
		var req models.GmailSaleRequest
		if err := res.Decode(&req); err != nil {
			return nil, decodeErr(err, kind, id)
		}
		view.UserID, view.UserEmail, view.Amount, view.Status = req.UserID, req.UserEmail, req.Reward, req.Status
	case models.KindForm:
		var req models.FormSubmission
		if err := res.Decode(&req); err != nil {
			return nil, decodeErr(err, kind, id)
		}
		view.UserID, view.UserEmail, view.Amount, view.Status = req.UserID, req.UserEmail, req.Amount, req.Status
	default:
		return nil, fmt.Errorf("unknown request kind %q", kind)
	}

	return view, nil
}

func decodeErr(err error, kind models.RequestKind, id primitive.ObjectID) error {
	if err == mongo.ErrNoDocuments {
		return fmt.Errorf("%s request %s not found", kind, id.Hex())
	}
	return fmt.Errorf("%w: %v", models.ErrUpstreamUnavailable, err)
}

// Claim performs the one allowed status transition, pending -> terminal,
// as a single conditional update. A request that is already terminal (or was
// claimed by a concurrent admin session) fails with ErrInvalidStateTransition
// and nothing is written.
func (r *RequestRepository) Claim(ctx context.Context, kind models.RequestKind, id, adminID primitive.ObjectID, status models.RequestStatus) error {
	if !status.Terminal() {
		return fmt.Errorf("cannot claim %s request %s to non-terminal status %q", kind, id.Hex(), status)
	}

	coll, err := r.collection(kind)
	if err != nil {
		return err
	}

	now := time.Now()
	res, err := coll.UpdateOne(ctx,
		bson.M{"_id": id, "status": models.StatusPending},
		bson.M{"$set": bson.M{
			"status":      status,
			"adminId":     adminID,
			"processedAt": now,
		}},
	)
	if err != nil {
		return fmt.Errorf("%w: %v", models.ErrUpstreamUnavailable, err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("%w: %s request %s is not pending", models.ErrInvalidStateTransition, kind, id.Hex())
	}
	return nil
}

// Reopen restores a claimed request to pending. Used only by the settlement
// engine to compensate when the ledger mutation fails after a Claim, so no
// terminal status without its balance effect is left behind.
func (r *RequestRepository) Reopen(ctx context.Context, kind models.RequestKind, id primitive.ObjectID) error {
	coll, err := r.collection(kind)
	if err != nil {
		return err
	}

	_, err = coll.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{
			"$set":   bson.M{"status": models.StatusPending},
			"$unset": bson.M{"adminId": "", "processedAt": ""},
		},
	)
	if err != nil {
		return fmt.Errorf("%w: %v", models.ErrUpstreamUnavailable, err)
	}
	return nil
}

// ListPending returns every pending request of the given kind, oldest first,
// for the admin review queue. Reads are non-blocking; staleness is fine.
func (r *RequestRepository) ListPending(ctx context.Context, kind models.RequestKind) (interface{}, error) {
	return r.list(ctx, kind, bson.M{"status": models.StatusPending}, 1)
}

// ListByUser returns the user's request history of the given kind, newest first.
func (r *RequestRepository) ListByUser(ctx context.Context, kind models.RequestKind, userID primitive.ObjectID) (interface{}, error) {
	return r.list(ctx, kind, bson.M{"userId": userID}, -1)
}

func (r *RequestRepository) list(ctx context.Context, kind models.RequestKind, filter bson.M, sortDir int) (interface{}, error) {
	coll, err := r.collection(kind)
	if err != nil {
		return nil, err
	}

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: sortDir}}).SetLimit(500)
	cursor, err := coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrUpstreamUnavailable, err)
	}
	defer cursor.Close(ctx)

	var result interface{}
	switch kind {
	case models.KindTopup:
		out := []models.TopupRequest{}
		err = cursor.All(ctx, &out)
		result = out
	case models.KindWithdraw:
		out := []models.WithdrawRequest{}
		err = cursor.All(ctx, &out)
		result = out
	case models.KindRecharge:
		out := []models.RechargeRequest{}
		err = cursor.All(ctx, &out)
		result = out
	case models.KindGmail:
		out := []models.GmailSaleRequest{}
		err = cursor.All(ctx, &out)
		result = out
	case models.KindForm:
		out := []models.FormSubmission{}
		err = cursor.All(ctx, &out)
		result = out
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrUpstreamUnavailable, err)
	}
	return result, nil
}

// CountPending returns the pending-queue depth per kind for dashboards.
func (r *RequestRepository) CountPending(ctx context.Context, kind models.RequestKind) (int64, error) {
	coll, err := r.collection(kind)
	if err != nil {
		return 0, err
	}
	n, err := coll.CountDocuments(ctx, bson.M{"status": models.StatusPending})
	if err != nil {
		return 0, fmt.Errorf("%w: %v", models.ErrUpstreamUnavailable, err)
	}
	return n, nil
}
