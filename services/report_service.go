// services/report_service.go
package services

import (
	"context"
	"sort"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/earnease/earnease_backend/models"
)

type AuditReader interface {
	ListAdminActions(ctx context.Context, filter models.ActivityFilter) ([]models.AdminActionLog, error)
	ListActivations(ctx context.Context, limit int64) ([]models.ActivationLog, error)
}

// ActivityReport bundles the filtered audit entries with per-admin outcome
// totals for the management dashboard.
type ActivityReport struct {
	Entries   []models.AdminActionLog       `json:"entries"`
	Summaries []models.AdminActivitySummary `json:"summaries"`
	Total     int                           `json:"total"`
}

type ReportService struct {
	audit AuditReader
}

func NewReportService(audit AuditReader) *ReportService {
	return &ReportService{audit: audit}
}

// AdminActivity builds the admin activity report. Aggregation happens in
// memory over the filtered entries, so the summaries always match what the
// caller sees in the entry list.
func (s *ReportService) AdminActivity(ctx context.Context, filter models.ActivityFilter) (*ActivityReport, error) {
	entries, err := s.audit.ListAdminActions(ctx, filter)
	if err != nil {
		return nil, err
	}

	byAdmin := make(map[primitive.ObjectID]*models.AdminActivitySummary)
	for _, entry := range entries {
		summary, ok := byAdmin[entry.AdminID]
		if !ok {
			summary = &models.AdminActivitySummary{
				AdminID:   entry.AdminID,
				AdminName: entry.AdminName,
			}
			byAdmin[entry.AdminID] = summary
		}
		if summary.AdminName == "" {
			summary.AdminName = entry.AdminName
		}
		if entry.Outcome == models.OutcomeSuccess {
			summary.SuccessCount++
		} else {
			summary.UnsuccessCount++
		}
		summary.Total++
	}

	summaries := make([]models.AdminActivitySummary, 0, len(byAdmin))
	for _, summary := range byAdmin {
		summaries = append(summaries, *summary)
	}
	sort.Slice(summaries, func(i, j int) bool {
		if summaries[i].Total != summaries[j].Total {
			return summaries[i].Total > summaries[j].Total
		}
		return summaries[i].AdminName < summaries[j].AdminName
	})

	return &ActivityReport{
		Entries:   entries,
		Summaries: summaries,
		Total:     len(entries),
	}, nil
}

// RecentActivations returns the latest activation log entries.
func (s *ReportService) RecentActivations(ctx context.Context, limit int64) ([]models.ActivationLog, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	return s.audit.ListActivations(ctx, limit)
}
