// Package analytics computes the moderator dashboard aggregates.
package analytics

import (
	"context"
	"fmt"

	"casewatch/backend/internal/auth"
	"casewatch/backend/internal/config"
	"casewatch/backend/internal/models"
	"casewatch/backend/internal/storage"
)

// Dashboard is a point-in-time summary of the case base.
type Dashboard struct {
	TotalCases     int64                `json:"totalCases"`
	TotalUsers     int64                `json:"totalUsers"`
	PendingCases   int64                `json:"pendingCases"`
	ResolvedCases  int64                `json:"resolvedCases"`
	ResolutionRate string               `json:"resolutionRate"`
	TopSupported   []models.Case        `json:"topSupported"`
	ByCategory     []storage.GroupCount `json:"byCategory"`
	TopLocations   []storage.GroupCount `json:"topLocations"`
	RecentCases    []models.Case        `json:"recentCases"`
}

type Service struct {
	store storage.Storage
}

func NewService(store storage.Storage) *Service {
	return &Service{store: store}
}

// Dashboard gathers the aggregates. Moderators only.
func (s *Service) Dashboard(ctx context.Context, actor auth.Actor) (*Dashboard, error) {
	if err := auth.Authorize(actor, auth.Moderators...); err != nil {
		return nil, err
	}

	var (
		d   Dashboard
		err error
	)
	if d.TotalCases, err = s.store.CountCases(ctx); err != nil {
		return nil, err
	}
	if d.TotalUsers, err = s.store.CountUsers(ctx); err != nil {
		return nil, err
	}
	if d.PendingCases, err = s.store.CountCases(ctx, models.StatusPendingReview); err != nil {
		return nil, err
	}
	if d.ResolvedCases, err = s.store.CountCases(ctx, models.StatusResolved); err != nil {
		return nil, err
	}
	d.ResolutionRate = resolutionRate(d.ResolvedCases, d.TotalCases)

	if d.TopSupported, _, err = s.store.ListCases(ctx, storage.CaseFilter{
		Order: storage.OrderBySupport,
		Limit: config.DashboardTopSupported,
	}); err != nil {
		return nil, err
	}
	if d.ByCategory, err = s.store.CountCasesBy(ctx, "category", 0); err != nil {
		return nil, err
	}
	if d.TopLocations, err = s.store.CountCasesBy(ctx, "location", config.DashboardTopLocations); err != nil {
		return nil, err
	}
	if d.RecentCases, _, err = s.store.ListCases(ctx, storage.CaseFilter{
		Order: storage.OrderByNewest,
		Limit: config.DashboardRecentCases,
	}); err != nil {
		return nil, err
	}
	return &d, nil
}

func resolutionRate(resolved, total int64) string {
	if total == 0 {
		return "0.0%"
	}
	return fmt.Sprintf("%.1f%%", float64(resolved)*100/float64(total))
}
