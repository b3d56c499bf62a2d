package moderation_test

import (
	"context"
	"testing"

	"casewatch/backend/internal/apperr"
	"casewatch/backend/internal/auth"
	"casewatch/backend/internal/models"
	"casewatch/backend/internal/moderation"
	"casewatch/backend/internal/storage/storagetest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestUserDirectory(t *testing.T) {
	ctx := context.Background()
	store := storagetest.New(t)
	svc := moderation.NewService(store, nil)
	mod := storagetest.SeedUser(t, store, "Mod", models.RoleModerator)
	admin := storagetest.SeedUser(t, store, "Admin", models.RoleAdmin)
	citizen := storagetest.SeedUser(t, store, "Citizen", models.RolePublic)
	storagetest.SeedUser(t, store, "Second citizen", models.RolePublic)
	lawyer := storagetest.SeedUser(t, store, "Adv. Rao", models.RoleLawyer)

	moderator := auth.Actor{UserID: mod.ID, Role: mod.Role, Status: mod.Status}
	administrator := auth.Actor{UserID: admin.ID, Role: admin.Role, Status: admin.Status}
	public := auth.Actor{UserID: citizen.ID, Role: citizen.Role, Status: citizen.Status}

	t.Run("list pages through users", func(t *testing.T) {
		page, err := svc.ListUsers(ctx, moderator, 1, 2)
		require.NoError(t, err)
		assert.Equal(t, int64(5), page.Total)
		assert.Equal(t, 3, page.TotalPages)
		assert.Len(t, page.Items, 2)

		last, err := svc.ListUsers(ctx, moderator, 3, 2)
		require.NoError(t, err)
		assert.Len(t, last.Items, 1)

		_, err = svc.ListUsers(ctx, public, 1, 20)
		assert.Equal(t, apperr.KindForbidden, apperr.KindOf(err))
	})

	t.Run("lookup", func(t *testing.T) {
		u, err := svc.GetUser(ctx, moderator, lawyer.ID)
		require.NoError(t, err)
		assert.Equal(t, "Adv. Rao", u.Name)

		_, err = svc.GetUser(ctx, moderator, "missing")
		assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))

		_, err = svc.GetUser(ctx, auth.Anonymous, lawyer.ID)
		assert.Equal(t, apperr.KindUnauthorized, apperr.KindOf(err))
	})

	t.Run("stats are admin only", func(t *testing.T) {
		_, err := svc.SuspendUser(ctx, moderator, citizen.ID, "Spam submissions")
		require.NoError(t, err)

		_, err = svc.Stats(ctx, moderator)
		assert.Equal(t, apperr.KindForbidden, apperr.KindOf(err))

		st, err := svc.Stats(ctx, administrator)
		require.NoError(t, err)
		assert.Equal(t, int64(5), st.Total)
		assert.Equal(t, int64(4), st.Verified)
		assert.Equal(t, int64(1), st.Suspended)
		assert.Zero(t, st.Pending)
		assert.Zero(t, st.Banned)
		require.NotEmpty(t, st.ByRole)
		assert.Equal(t, string(models.RolePublic), st.ByRole[0].Label)
		assert.Equal(t, int64(2), st.ByRole[0].Count)
	})

	t.Run("role change", func(t *testing.T) {
		u, err := svc.UpdateRole(ctx, administrator, lawyer.ID, "moderator")
		require.NoError(t, err)
		assert.Equal(t, models.RoleModerator, u.Role)

		stored, err := store.GetUserByID(ctx, lawyer.ID)
		require.NoError(t, err)
		assert.Equal(t, models.RoleModerator, stored.Role)

		_, err = svc.UpdateRole(ctx, administrator, lawyer.ID, "MODERATOR")
		assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))

		_, err = svc.UpdateRole(ctx, administrator, lawyer.ID, "JUDGE")
		assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))

		_, err = svc.UpdateRole(ctx, administrator, admin.ID, "PUBLIC")
		assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))

		_, err = svc.UpdateRole(ctx, moderator, citizen.ID, "LAWYER")
		assert.Equal(t, apperr.KindForbidden, apperr.KindOf(err))

		_, err = svc.UpdateRole(ctx, administrator, "missing", "LAWYER")
		assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
	})
}

func TestUpdateRole_StorageFailureIsReturned(t *testing.T) {
	storageMock := new(MockStorage)
	svc := moderation.NewService(storageMock, nil)

	storageMock.On("WithTx", mock.Anything).Return(nil)
	storageMock.On("GetUserByID", mock.Anything, "u-2").
		Return(&models.User{ID: "u-2", Role: models.RolePublic, Status: models.AccountVerified}, nil)
	storageMock.On("UpdateUserRole", mock.Anything, "u-2", models.RoleLawyer).
		Return(apperr.New(apperr.KindStorage, "database unavailable"))

	_, err := svc.UpdateRole(context.Background(), adminActor, "u-2", "LAWYER")

	assert.Equal(t, apperr.KindStorage, apperr.KindOf(err))
	storageMock.AssertExpectations(t)
}
