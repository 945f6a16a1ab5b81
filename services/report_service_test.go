package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/earnease/earnease_backend/models"
)

type fakeAuditReader struct {
	entries     []models.AdminActionLog
	activations []models.ActivationLog
	lastFilter  models.ActivityFilter
}

func (f *fakeAuditReader) ListAdminActions(ctx context.Context, filter models.ActivityFilter) ([]models.AdminActionLog, error) {
	f.lastFilter = filter
	out := []models.AdminActionLog{}
	for _, entry := range f.entries {
		if filter.AdminID != nil && entry.AdminID != *filter.AdminID {
			continue
		}
		if filter.Outcome != "" && entry.Outcome != filter.Outcome {
			continue
		}
		out = append(out, entry)
	}
	return out, nil
}

func (f *fakeAuditReader) ListActivations(ctx context.Context, limit int64) ([]models.ActivationLog, error) {
	if int64(len(f.activations)) > limit {
		return f.activations[:limit], nil
	}
	return f.activations, nil
}

func TestAdminActivity_AggregatesPerAdmin(t *testing.T) {
	alice := primitive.NewObjectID()
	bob := primitive.NewObjectID()

	reader := &fakeAuditReader{entries: []models.AdminActionLog{
		{AdminID: alice, AdminName: "Alice", Action: "withdraw_approve", Outcome: models.OutcomeSuccess},
		{AdminID: alice, AdminName: "Alice", Action: "topup_reject", Outcome: models.OutcomeUnsuccess},
		{AdminID: alice, AdminName: "Alice", Action: "topup_approve", Outcome: models.OutcomeSuccess},
		{AdminID: bob, AdminName: "Bob", Action: "gmail_approve", Outcome: models.OutcomeSuccess},
	}}
	service := NewReportService(reader)

	report, err := service.AdminActivity(context.Background(), models.ActivityFilter{})
	require.NoError(t, err)

	assert.Equal(t, 4, report.Total)
	require.Len(t, report.Summaries, 2)

	// Sorted by total, busiest admin first.
	assert.Equal(t, "Alice", report.Summaries[0].AdminName)
	assert.Equal(t, int64(2), report.Summaries[0].SuccessCount)
	assert.Equal(t, int64(1), report.Summaries[0].UnsuccessCount)
	assert.Equal(t, int64(3), report.Summaries[0].Total)

	assert.Equal(t, "Bob", report.Summaries[1].AdminName)
	assert.Equal(t, int64(1), report.Summaries[1].SuccessCount)
	assert.Equal(t, int64(0), report.Summaries[1].UnsuccessCount)
}

func TestAdminActivity_FilterByAdmin(t *testing.T) {
	alice := primitive.NewObjectID()
	bob := primitive.NewObjectID()

	reader := &fakeAuditReader{entries: []models.AdminActionLog{
		{AdminID: alice, AdminName: "Alice", Outcome: models.OutcomeSuccess},
		{AdminID: bob, AdminName: "Bob", Outcome: models.OutcomeSuccess},
	}}
	service := NewReportService(reader)

	report, err := service.AdminActivity(context.Background(), models.ActivityFilter{AdminID: &alice})
	require.NoError(t, err)

	assert.Equal(t, 1, report.Total)
	require.Len(t, report.Summaries, 1)
	assert.Equal(t, alice, report.Summaries[0].AdminID)
}

func TestAdminActivity_EmptyResult(t *testing.T) {
	service := NewReportService(&fakeAuditReader{})

	report, err := service.AdminActivity(context.Background(), models.ActivityFilter{Outcome: models.OutcomeUnsuccess})
	require.NoError(t, err)

	assert.Equal(t, 0, report.Total)
	assert.Empty(t, report.Entries)
	assert.Empty(t, report.Summaries)
}

func TestRecentActivations_ClampsLimit(t *testing.T) {
	reader := &fakeAuditReader{activations: []models.ActivationLog{{}, {}, {}}}
	service := NewReportService(reader)

	logs, err := service.RecentActivations(context.Background(), 2)
	require.NoError(t, err)
	assert.Len(t, logs, 2)

	logs, err = service.RecentActivations(context.Background(), 0)
	require.NoError(t, err)
	assert.Len(t, logs, 3)
}
