// repositories/audit_repository.go
package repositories

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/earnease/earnease_backend/models"
)

// AuditRepository persists admin action logs and activation logs.
type AuditRepository struct {
	adminLogs      *mongo.Collection
	activationLogs *mongo.Collection
}

func NewAuditRepository(db *mongo.Database) *AuditRepository {
	return &AuditRepository{
		adminLogs:      db.Collection("adminLogs"),
		activationLogs: db.Collection("activationLogs"),
	}
}

// RecordAdminAction writes one audit entry. Settlement treats a failure here
// as fatal and rolls the settlement back, so the error is surfaced verbatim.
func (r *AuditRepository) RecordAdminAction(ctx context.Context, entry *models.AdminActionLog) error {
	if entry.ID.IsZero() {
		entry.ID = primitive.NewObjectID()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}
	_, err := r.adminLogs.InsertOne(ctx, entry)
	if err != nil {
		return fmt.Errorf("%w: %v", models.ErrUpstreamUnavailable, err)
	}
	return nil
}

func (r *AuditRepository) RecordActivation(ctx context.Context, entry *models.ActivationLog) error {
	if entry.ID.IsZero() {
		entry.ID = primitive.NewObjectID()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}
	_, err := r.activationLogs.InsertOne(ctx, entry)
	if err != nil {
		return fmt.Errorf("%w: %v", models.ErrUpstreamUnavailable, err)
	}
	return nil
}

// ListAdminActions returns audit entries matching the filter, newest first.
// The end date is inclusive: the query upper bound is midnight of the
// following day. Substring matching on the action text is case-insensitive.
func (r *AuditRepository) ListAdminActions(ctx context.Context, filter models.ActivityFilter) ([]models.AdminActionLog, error) {
	query := bson.M{}
	if filter.AdminID != nil {
		query["adminId"] = *filter.AdminID
	}
	if filter.Outcome != "" {
		query["outcome"] = filter.Outcome
	}
	if filter.ActionContains != "" {
		query["action"] = bson.M{
			"$regex":   regexEscape(filter.ActionContains),
			"$options": "i",
		}
	}
	if dateRange := dateRangeQuery(filter.StartDate, filter.EndDate); dateRange != nil {
		query["createdAt"] = dateRange
	}

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}).SetLimit(1000)
	cursor, err := r.adminLogs.Find(ctx, query, opts)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrUpstreamUnavailable, err)
	}
	defer cursor.Close(ctx)

	logs := []models.AdminActionLog{}
	if err := cursor.All(ctx, &logs); err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrUpstreamUnavailable, err)
	}
	return logs, nil
}

func (r *AuditRepository) ListActivations(ctx context.Context, limit int64) ([]models.ActivationLog, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}).SetLimit(limit)
	cursor, err := r.activationLogs.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrUpstreamUnavailable, err)
	}
	defer cursor.Close(ctx)

	logs := []models.ActivationLog{}
	if err := cursor.All(ctx, &logs); err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrUpstreamUnavailable, err)
	}
	return logs, nil
}

func dateRangeQuery(start, end *time.Time) bson.M {
	if start == nil && end == nil {
		return nil
	}
	q := bson.M{}
	if start != nil {
		q["$gte"] = startOfDay(*start)
	}
	if end != nil {
		q["$lt"] = startOfDay(*end).AddDate(0, 0, 1)
	}
	return q
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func regexEscape(s string) string {
	specials := `\.+*?()|[]{}^$`
	var b strings.Builder
	for _, r := range s {
		if strings.ContainsRune(specials, r) {
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}
