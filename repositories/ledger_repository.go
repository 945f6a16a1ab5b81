// repositories/ledger_repository.go
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

// LedgerRepository is the single source of truth for spendable balance.
// Every mutation is a single conditional document update so a debit can
// never observe a stale balance. The repository knows nothing about
// requests; exactly-once settlement is enforced by the engine's status gate.
type LedgerRepository struct {
	users        *mongo.Collection
	transactions *mongo.Collection
}

func NewLedgerRepository(db *mongo.Database) *LedgerRepository {
	return &LedgerRepository{
		users:        db.Collection("users"),
		transactions: db.Collection("walletTransactions"),
	}
}

// GetBalance returns the user's current wallet balance.
func (r *LedgerRepository) GetBalance(ctx context.Context, userID primitive.ObjectID) (int64, error) {
	var user models.User
	err := r.users.FindOne(ctx, bson.M{"_id": userID}).Decode(&user)
	if err == mongo.ErrNoDocuments {
		return 0, fmt.Errorf("user %s not found", userID.Hex())
	}
	if err != nil {
		return 0, fmt.Errorf("%w: %v", models.ErrUpstreamUnavailable, err)
	}
	return user.WalletBalance, nil
}

// ApplyDelta atomically adds delta to the user's wallet balance and returns
// the new balance. A debit that would drive the balance negative fails with
// ErrInsufficientFunds and leaves the balance untouched.
func (r *LedgerRepository) ApplyDelta(ctx context.Context, userID primitive.ObjectID, delta int64, reason string) (int64, error) {
	filter := bson.M{"_id": userID}
	if delta < 0 {
		filter["walletBalance"] = bson.M{"$gte": -delta}
	}

	update := bson.M{
		"$inc": bson.M{"walletBalance": delta},
		"$set": bson.M{"updatedAt": time.Now()},
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var updated models.User
	err := r.users.FindOneAndUpdate(ctx, filter, update, opts).Decode(&updated)
	if err == mongo.ErrNoDocuments {
		// Either the user does not exist or the balance guard failed.
		var user models.User
		lookupErr := r.users.FindOne(ctx, bson.M{"_id": userID}).Decode(&user)
		if lookupErr == mongo.ErrNoDocuments {
			return 0, fmt.Errorf("user %s not found", userID.Hex())
		}
		if lookupErr != nil {
			return 0, fmt.Errorf("%w: %v", models.ErrUpstreamUnavailable, lookupErr)
		}
		return user.WalletBalance, fmt.Errorf("%w: %s requires %d, balance is %d",
			models.ErrInsufficientFunds, reason, -delta, user.WalletBalance)
	}
	if err != nil {
		return 0, fmt.Errorf("%w: %v", models.ErrUpstreamUnavailable, err)
	}

	return updated.WalletBalance, nil
}

// SetActive flips the earning-features flag without touching the balance.
func (r *LedgerRepository) SetActive(ctx context.Context, userID primitive.ObjectID, active bool) error {
	res, err := r.users.UpdateOne(ctx, bson.M{"_id": userID}, bson.M{
		"$set": bson.M{"isActive": active, "updatedAt": time.Now()},
	})
	if err != nil {
		return fmt.Errorf("%w: %v", models.ErrUpstreamUnavailable, err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("user %s not found", userID.Hex())
	}
	return nil
}

// MarkInitiallyActivated records that the one-time activation has happened.
func (r *LedgerRepository) MarkInitiallyActivated(ctx context.Context, userID primitive.ObjectID) error {
	res, err := r.users.UpdateOne(ctx, bson.M{"_id": userID}, bson.M{
		"$set": bson.M{"isInitiallyActivated": true, "updatedAt": time.Now()},
	})
	if err != nil {
		return fmt.Errorf("%w: %v", models.ErrUpstreamUnavailable, err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("user %s not found", userID.Hex())
	}
	return nil
}

// IncrementEarnings bumps one of the per-source earnings counters
// ("videoEarnings", "formEarnings", "referralEarnings").
func (r *LedgerRepository) IncrementEarnings(ctx context.Context, userID primitive.ObjectID, field string, amount int64) error {
	_, err := r.users.UpdateOne(ctx, bson.M{"_id": userID}, bson.M{
		"$inc": bson.M{field: amount},
		"$set": bson.M{"updatedAt": time.Now()},
	})
	if err != nil {
		return fmt.Errorf("%w: %v", models.ErrUpstreamUnavailable, err)
	}
	return nil
}

// RecordTransaction appends an immutable wallet-transaction entry.
func (r *LedgerRepository) RecordTransaction(ctx context.Context, tx *models.WalletTransaction) error {
	if tx.ID.IsZero() {
		tx.ID = primitive.NewObjectID()
	}
	if tx.CreatedAt.IsZero() {
		tx.CreatedAt = time.Now()
	}
	_, err := r.transactions.InsertOne(ctx, tx)
	if err != nil {
		return fmt.Errorf("%w: %v", models.ErrUpstreamUnavailable, err)
	}
	return nil
}

// ListTransactions returns the user's wallet transaction history, newest first.
func (r *LedgerRepository) ListTransactions(ctx context.Context, userID primitive.ObjectID) ([]models.WalletTransaction, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}).SetLimit(200)
	cursor, err := r.transactions.Find(ctx, bson.M{"userId": userID}, opts)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrUpstreamUnavailable, err)
	}
	defer cursor.Close(ctx)

	transactions := []models.WalletTransaction{}
	if err := cursor.All(ctx, &transactions); err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrUpstreamUnavailable, err)
	}
	return transactions, nil
}
