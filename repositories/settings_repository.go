// repositories/settings_repository.go
package repositories

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/earnease/earnease_backend/models"
)

// SettingsRepository stores the single app settings document.
type SettingsRepository struct {
	collection *mongo.Collection
}

func NewSettingsRepository(db *mongo.Database) *SettingsRepository {
	return &SettingsRepository{collection: db.Collection("settings")}
}

// Load returns the stored settings, falling back to defaults when no
// document exists yet.
func (r *SettingsRepository) Load(ctx context.Context) (*models.AppSettings, error) {
	var settings models.AppSettings
	err := r.collection.FindOne(ctx, bson.M{"_id": "app"}).Decode(&settings)
	if err == mongo.ErrNoDocuments {
		defaults := models.DefaultSettings()
		return &defaults, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrUpstreamUnavailable, err)
	}
	return &settings, nil
}

// Save upserts the settings document.
func (r *SettingsRepository) Save(ctx context.Context, settings *models.AppSettings) error {
	_, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": "app"},
		bson.M{"$set": settings},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("%w: %v", models.ErrUpstreamUnavailable, err)
	}
	return nil
}
