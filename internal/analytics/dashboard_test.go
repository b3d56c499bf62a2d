package analytics_test

import (
	"context"
	"testing"

	"casewatch/backend/internal/analytics"
	"casewatch/backend/internal/apperr"
	"casewatch/backend/internal/auth"
	"casewatch/backend/internal/models"
	"casewatch/backend/internal/storage/storagetest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDashboard(t *testing.T) {
	ctx := context.Background()
	store := storagetest.New(t)
	owner := storagetest.SeedUser(t, store, "Owner", models.RolePublic)
	mod := storagetest.SeedUser(t, store, "Mod", models.RoleModerator)

	seed := []struct {
		category models.CaseCategory
		location string
		status   models.CaseStatus
		support  int64
	}{
		{models.CategoryAccident, "Pune", models.StatusResolved, 4},
		{models.CategoryAccident, "Pune", models.StatusVerified, 12},
		{models.CategoryCorruption, "Nagpur", models.StatusPendingReview, 0},
		{models.CategoryAssault, "Pune", models.StatusCourtHearing, 7},
	}
	for _, s := range seed {
		c := &models.Case{
			Title:           "Seeded case",
			Description:     "Seeded for dashboard aggregation.",
			Category:        s.category,
			Location:        s.location,
			ReferenceNumber: "REF-001",
			Status:          s.status,
			CreatedByID:     owner.ID,
		}
		require.NoError(t, store.CreateCase(ctx, c))
		require.NoError(t, store.SetTally(ctx, c.ID, s.support, 0))
	}

	svc := analytics.NewService(store)

	_, err := svc.Dashboard(ctx, auth.Actor{UserID: owner.ID, Role: owner.Role, Status: owner.Status})
	assert.Equal(t, apperr.KindForbidden, apperr.KindOf(err))

	d, err := svc.Dashboard(ctx, auth.Actor{UserID: mod.ID, Role: mod.Role, Status: mod.Status})
	require.NoError(t, err)

	assert.Equal(t, int64(4), d.TotalCases)
	assert.Equal(t, int64(2), d.TotalUsers)
	assert.Equal(t, int64(1), d.PendingCases)
	assert.Equal(t, int64(1), d.ResolvedCases)
	assert.Equal(t, "25.0%", d.ResolutionRate)

	require.Len(t, d.TopSupported, 4)
	assert.Equal(t, 12, d.TopSupported[0].SupportCount)
	assert.Equal(t, 7, d.TopSupported[1].SupportCount)

	require.NotEmpty(t, d.ByCategory)
	assert.Equal(t, "ACCIDENT", d.ByCategory[0].Label)
	assert.Equal(t, int64(2), d.ByCategory[0].Count)

	require.Len(t, d.TopLocations, 2)
	assert.Equal(t, "Pune", d.TopLocations[0].Label)
	assert.Equal(t, int64(3), d.TopLocations[0].Count)

	assert.Len(t, d.RecentCases, 4)
}

func TestDashboard_Empty(t *testing.T) {
	store := storagetest.New(t)
	admin := storagetest.SeedUser(t, store, "Admin", models.RoleAdmin)

	d, err := analytics.NewService(store).Dashboard(context.Background(),
		auth.Actor{UserID: admin.ID, Role: admin.Role, Status: admin.Status})

	require.NoError(t, err)
	assert.Equal(t, "0.0%", d.ResolutionRate)
	assert.Empty(t, d.TopSupported)
}
