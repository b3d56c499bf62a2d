package moderation

import (
	"context"

	"casewatch/backend/internal/apperr"
	"casewatch/backend/internal/auth"
	"casewatch/backend/internal/config"
	"casewatch/backend/internal/models"
	"casewatch/backend/internal/storage"
)

// UserStats summarizes the mirrored accounts.
type UserStats struct {
	Total     int64                `json:"total"`
	Verified  int64                `json:"verified"`
	Pending   int64                `json:"pending"`
	Suspended int64                `json:"suspended"`
	Banned    int64                `json:"banned"`
	ByRole    []storage.GroupCount `json:"byRole"`
}

// ListUsers pages through accounts, newest first. Moderators only.
func (s *Service) ListUsers(ctx context.Context, actor auth.Actor, page, limit int) (models.Page[models.User], error) {
	var empty models.Page[models.User]
	if err := auth.Authorize(actor, auth.Moderators...); err != nil {
		return empty, err
	}
	page, limit = models.Paging(page, limit, config.ModerationPageSize, config.MaxPageSize)
	users, total, err := s.store.ListUsers(ctx, (page-1)*limit, limit)
	if err != nil {
		return empty, err
	}
	return models.NewPage(users, total, page, limit), nil
}

// GetUser looks up one account. Moderators only.
func (s *Service) GetUser(ctx context.Context, actor auth.Actor, userID string) (*models.User, error) {
	if err := auth.Authorize(actor, auth.Moderators...); err != nil {
		return nil, err
	}
	return s.store.GetUserByID(ctx, userID)
}

// Stats counts accounts by status and role. ADMIN only.
func (s *Service) Stats(ctx context.Context, actor auth.Actor) (*UserStats, error) {
	if err := auth.Authorize(actor, models.RoleAdmin); err != nil {
		return nil, err
	}
	var (
		st  UserStats
		err error
	)
	counts := []struct {
		dst    *int64
		status []models.AccountStatus
	}{
		{&st.Total, nil},
		{&st.Verified, []models.AccountStatus{models.AccountVerified}},
		{&st.Pending, []models.AccountStatus{models.AccountPending}},
		{&st.Suspended, []models.AccountStatus{models.AccountSuspended}},
		{&st.Banned, []models.AccountStatus{models.AccountBanned}},
	}
	for _, c := range counts {
		if *c.dst, err = s.store.CountUsers(ctx, c.status...); err != nil {
			return nil, err
		}
	}
	if st.ByRole, err = s.store.CountUsersByRole(ctx); err != nil {
		return nil, err
	}
	if st.ByRole == nil {
		st.ByRole = []storage.GroupCount{}
	}
	return &st, nil
}

// UpdateRole changes the role of an account. ADMIN only; admins cannot
// change their own role.
func (s *Service) UpdateRole(ctx context.Context, actor auth.Actor, userID, role string) (*models.User, error) {
	if err := auth.Authorize(actor, models.RoleAdmin); err != nil {
		return nil, err
	}
	to, ok := models.ParseRole(role)
	if !ok {
		return nil, apperr.Newf(apperr.KindValidation, "unknown role %q", role)
	}
	if userID == actor.UserID {
		return nil, apperr.New(apperr.KindValidation, "admins cannot change their own role")
	}

	var target *models.User
	err := s.store.WithTx(ctx, func(tx storage.Storage) error {
		u, err := tx.GetUserByID(ctx, userID)
		if err != nil {
			return err
		}
		if u.Role == to {
			return apperr.Newf(apperr.KindConflict, "user is already %s", to)
		}
		if err := tx.UpdateUserRole(ctx, u.ID, to); err != nil {
			return err
		}
		u.Role = to
		target = u
		return nil
	})
	if err != nil {
		return nil, err
	}

	roleChanges.WithLabelValues(string(to)).Inc()
	s.logger.Info("account role changed",
		"event", "user_role_changed",
		"user_id", target.ID,
		"performed_by", actor.UserID,
		"role", string(to),
	)
	return target, nil
}
