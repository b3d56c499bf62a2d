package moderation

import (
	"context"
	"log/slog"
	"slices"
	"strings"

	"casewatch/backend/internal/apperr"
	"casewatch/backend/internal/auth"
	"casewatch/backend/internal/config"
	"casewatch/backend/internal/models"
	"casewatch/backend/internal/storage"
)

type Service struct {
	store  storage.Storage
	logger *slog.Logger
}

func NewService(store storage.Storage, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{store: store, logger: logger.With("module", "moderation")}
}

// restriction describes one account status change and who may make it.
type restriction struct {
	action   models.ModerationAction
	to       models.AccountStatus
	allowed  []models.Role
	from     []models.AccountStatus
	needsWhy bool
}

var (
	suspendUser = restriction{
		action:   models.ActionSuspendUser,
		to:       models.AccountSuspended,
		allowed:  auth.Moderators,
		from:     []models.AccountStatus{models.AccountPending, models.AccountVerified},
		needsWhy: true,
	}
	banUser = restriction{
		action:   models.ActionBanUser,
		to:       models.AccountBanned,
		allowed:  []models.Role{models.RoleAdmin},
		from:     []models.AccountStatus{models.AccountPending, models.AccountVerified, models.AccountSuspended},
		needsWhy: true,
	}
	unsuspendUser = restriction{
		action:  models.ActionUnsuspendUser,
		to:      models.AccountVerified,
		allowed: auth.Moderators,
		from:    []models.AccountStatus{models.AccountSuspended, models.AccountBanned},
	}
)

// SuspendUser blocks a user from mutating operations until unsuspended.
func (s *Service) SuspendUser(ctx context.Context, actor auth.Actor, userID, reason string) (*models.User, error) {
	return s.restrict(ctx, actor, userID, reason, suspendUser)
}

// BanUser permanently blocks a user. ADMIN only.
func (s *Service) BanUser(ctx context.Context, actor auth.Actor, userID, reason string) (*models.User, error) {
	return s.restrict(ctx, actor, userID, reason, banUser)
}

// UnsuspendUser restores a suspended or banned user to VERIFIED. Lifting a
// ban needs an ADMIN.
func (s *Service) UnsuspendUser(ctx context.Context, actor auth.Actor, userID, reason string) (*models.User, error) {
	return s.restrict(ctx, actor, userID, reason, unsuspendUser)
}

func (s *Service) restrict(ctx context.Context, actor auth.Actor, userID, reason string, r restriction) (*models.User, error) {
	if err := auth.Authorize(actor, r.allowed...); err != nil {
		return nil, err
	}
	reason = strings.TrimSpace(reason)
	if r.needsWhy && reason == "" {
		return nil, apperr.New(apperr.KindValidation, "a reason is required")
	}
	if userID == actor.UserID {
		return nil, apperr.New(apperr.KindValidation, "moderators cannot change their own account status")
	}

	var target *models.User
	err := s.store.WithTx(ctx, func(tx storage.Storage) error {
		u, err := tx.GetUserByID(ctx, userID)
		if err != nil {
			return err
		}
		if u.Role == models.RoleAdmin || (u.Role == models.RoleModerator && !actor.HasRole(models.RoleAdmin)) {
			return apperr.Newf(apperr.KindForbidden, "cannot change the status of a %s", u.Role)
		}
		if u.Status == models.AccountBanned && r.action == models.ActionUnsuspendUser && !actor.HasRole(models.RoleAdmin) {
			return apperr.New(apperr.KindForbidden, "only an admin can lift a ban")
		}
		if !slices.Contains(r.from, u.Status) {
			return apperr.Newf(apperr.KindConflict, "account is already %s", u.Status)
		}
		if err := tx.UpdateUserStatus(ctx, u.ID, r.to); err != nil {
			return err
		}
		if err := Record(ctx, tx, r.action, actor.UserID, u.ID, reason); err != nil {
			return err
		}
		u.Status = r.to
		target = u
		return nil
	})
	if err != nil {
		return nil, err
	}

	if r.to.Restricted() {
		err = s.store.MarkUserRestricted(ctx, target.ID, r.to)
	} else {
		err = s.store.ClearUserRestriction(ctx, target.ID)
	}
	if err != nil {
		s.logger.Warn("restriction cache not updated", "user_id", target.ID, "error", err.Error())
	}
	userActions.WithLabelValues(string(r.action)).Inc()
	s.logger.Info("account status changed",
		"event", strings.ToLower(string(r.action)),
		"user_id", target.ID,
		"performed_by", actor.UserID,
		"status", string(r.to),
	)
	return target, nil
}

// Logs lists the audit trail, newest first. Moderators only.
func (s *Service) Logs(ctx context.Context, actor auth.Actor, page, limit int) (models.Page[models.ModerationLog], error) {
	var empty models.Page[models.ModerationLog]
	if err := auth.Authorize(actor, auth.Moderators...); err != nil {
		return empty, err
	}
	page, limit = models.Paging(page, limit, config.ModerationPageSize, config.MaxPageSize)
	logs, total, err := s.store.ListModerationLogs(ctx, (page-1)*limit, limit)
	if err != nil {
		return empty, err
	}
	return models.NewPage(logs, total, page, limit), nil
}
