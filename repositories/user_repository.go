// repositories/user_repository.go
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

type UserRepository struct {
	collection *mongo.Collection
}

func NewUserRepository(db *mongo.Database) *UserRepository {
	return &UserRepository{collection: db.Collection("users")}
}

// Create inserts a new user account.
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now

	_, err := r.collection.InsertOne(ctx, user)
	if mongo.IsDuplicateKeyError(err) {
		return fmt.Errorf("email or referral code already in use")
	}
	if err != nil {
		return fmt.Errorf("%w: %v", models.ErrUpstreamUnavailable, err)
	}
	return nil
}

func (r *UserRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	var user models.User
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&user)
	if err == mongo.ErrNoDocuments {
		return nil, fmt.Errorf("user %s not found", id.Hex())
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrUpstreamUnavailable, err)
	}
	return &user, nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := r.collection.FindOne(ctx, bson.M{"email": email}).Decode(&user)
	if err == mongo.ErrNoDocuments {
		return nil, mongo.ErrNoDocuments
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrUpstreamUnavailable, err)
	}
	return &user, nil
}

func (r *UserRepository) GetByReferralCode(ctx context.Context, code string) (*models.User, error) {
	var user models.User
	err := r.collection.FindOne(ctx, bson.M{"referralCode": code}).Decode(&user)
	if err == mongo.ErrNoDocuments {
		return nil, mongo.ErrNoDocuments
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrUpstreamUnavailable, err)
	}
	return &user, nil
}

// FirstActivation applies the one-time activation bonus: balance is set to
// newBalance, both activation flags flip and any pending referral bonus is
// cleared. The isInitiallyActivated guard in the filter makes the bonus
// idempotent; returns false when the user was already initially activated.
func (r *UserRepository) FirstActivation(ctx context.Context, id primitive.ObjectID, newBalance int64) (bool, error) {
	res, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": id, "isInitiallyActivated": false},
		bson.M{"$set": bson.M{
			"walletBalance":        newBalance,
			"referralPending":      int64(0),
			"isActive":             true,
			"isInitiallyActivated": true,
			"updatedAt":            time.Now(),
		}},
	)
	if err != nil {
		return false, fmt.Errorf("%w: %v", models.ErrUpstreamUnavailable, err)
	}
	return res.MatchedCount > 0, nil
}

// RevertFirstActivation undoes FirstActivation after a downstream write
// failed, restoring the pre-activation snapshot.
func (r *UserRepository) RevertFirstActivation(ctx context.Context, id primitive.ObjectID, prev *models.User) error {
	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$set": bson.M{
			"walletBalance":        prev.WalletBalance,
			"referralPending":      prev.ReferralPending,
			"isActive":             prev.IsActive,
			"isInitiallyActivated": false,
			"updatedAt":            time.Now(),
		},
	})
	if err != nil {
		return fmt.Errorf("%w: %v", models.ErrUpstreamUnavailable, err)
	}
	return nil
}

// SetActive flips the active flag without touching the balance.
func (r *UserRepository) SetActive(ctx context.Context, id primitive.ObjectID, active bool) error {
	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$set": bson.M{"isActive": active, "updatedAt": time.Now()},
	})
	if err != nil {
		return fmt.Errorf("%w: %v", models.ErrUpstreamUnavailable, err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("user %s not found", id.Hex())
	}
	return nil
}

// CreditReferrer pays the referral bonus and bumps the referral counters.
func (r *UserRepository) CreditReferrer(ctx context.Context, id primitive.ObjectID, bonus int64) error {
	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$inc": bson.M{
			"walletBalance":    bonus,
			"referralEarnings": bonus,
			"referralCount":    int64(1),
		},
		"$set": bson.M{"updatedAt": time.Now()},
	})
	if err != nil {
		return fmt.Errorf("%w: %v", models.ErrUpstreamUnavailable, err)
	}
	return nil
}

// UpdateRole sets the role claim. Only "user" and "admin" may be assigned;
// the superadmin role is never granted through the API.
func (r *UserRepository) UpdateRole(ctx context.Context, id primitive.ObjectID, role string) error {
	if role != models.RoleUser && role != models.RoleAdmin {
		return fmt.Errorf("role %q cannot be assigned", role)
	}
	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$set": bson.M{"role": role, "updatedAt": time.Now()},
	})
	if err != nil {
		return fmt.Errorf("%w: %v", models.ErrUpstreamUnavailable, err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("user %s not found", id.Hex())
	}
	return nil
}

// SetFCMToken stores the device token used for push notifications.
func (r *UserRepository) SetFCMToken(ctx context.Context, id primitive.ObjectID, token string) error {
	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$set": bson.M{"fcmToken": token, "updatedAt": time.Now()},
	})
	if err != nil {
		return fmt.Errorf("%w: %v", models.ErrUpstreamUnavailable, err)
	}
	return nil
}

// ListByRole returns users with the given role, newest first.
func (r *UserRepository) ListByRole(ctx context.Context, role string, limit int64) ([]models.User, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}).SetLimit(limit).
		SetProjection(bson.M{"password": 0})
	cursor, err := r.collection.Find(ctx, bson.M{"role": role}, opts)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrUpstreamUnavailable, err)
	}
	defer cursor.Close(ctx)

	users := []models.User{}
	if err := cursor.All(ctx, &users); err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrUpstreamUnavailable, err)
	}
	return users, nil
}

// ListAll returns all users for the admin panel, newest first.
func (r *UserRepository) ListAll(ctx context.Context, limit int64) ([]models.User, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}).SetLimit(limit).
		SetProjection(bson.M{"password": 0})
	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrUpstreamUnavailable, err)
	}
	defer cursor.Close(ctx)

	users := []models.User{}
	if err := cursor.All(ctx, &users); err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrUpstreamUnavailable, err)
	}
	return users, nil
}

// CountByActive returns user totals for the CEO dashboard.
func (r *UserRepository) CountByActive(ctx context.Context, active bool) (int64, error) {
	n, err := r.collection.CountDocuments(ctx, bson.M{"isActive": active})
	if err != nil {
		return 0, fmt.Errorf("%w: %v", models.ErrUpstreamUnavailable, err)
	}
	return n, nil
}
