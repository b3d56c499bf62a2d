package storage

import (
	"context"

	"casewatch/backend/internal/apperr"
	"casewatch/backend/internal/models"

	"gorm.io/gorm"
)

func (s *Service) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	var u models.User
	if err := s.DB.WithContext(ctx).Where("id = ?", id).First(&u).Error; err != nil {
		return nil, notFound(err, "user")
	}
	return &u, nil
}

// SaveUserIfNotExists records a user seen for the first time. An existing row
// is left untouched and loaded into u.
func (s *Service) SaveUserIfNotExists(ctx context.Context, u *models.User) error {
	attrs := models.User{Name: u.Name, Email: u.Email, Role: u.Role, Status: u.Status}
	err := s.DB.WithContext(ctx).
		Where(models.User{ID: u.ID}).
		Attrs(attrs).
		FirstOrCreate(u).Error
	if err != nil {
		return s.logError("storage_save_user_failed", err, "user_id", u.ID)
	}
	return nil
}

func (s *Service) UpdateUserStatus(ctx context.Context, id string, status models.AccountStatus) error {
	res := s.DB.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", id).
		Update("status", status)
	if res.Error != nil {
		return s.logError("storage_update_user_status_failed", res.Error, "user_id", id)
	}
	if res.RowsAffected == 0 {
		return apperr.New(apperr.KindNotFound, "user not found")
	}
	return nil
}

func (s *Service) UpdateUserRole(ctx context.Context, id string, role models.Role) error {
	res := s.DB.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", id).
		Update("role", role)
	if res.Error != nil {
		return s.logError("storage_update_user_role_failed", res.Error, "user_id", id)
	}
	if res.RowsAffected == 0 {
		return apperr.New(apperr.KindNotFound, "user not found")
	}
	return nil
}

// ListUsers returns a page of mirrored users, newest first.
func (s *Service) ListUsers(ctx context.Context, offset, limit int) ([]models.User, int64, error) {
	q := s.DB.WithContext(ctx).Model(&models.User{})

	var total int64
	if err := q.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, s.logError("storage_count_users_failed", err)
	}

	var users []models.User
	err := q.Order("created_at DESC").
		Order("id").
		Offset(offset).
		Limit(limit).
		Find(&users).Error
	if err != nil {
		return nil, 0, s.logError("storage_list_users_failed", err)
	}
	return users, total, nil
}

// CountUsers counts users, optionally only those in one of statuses.
func (s *Service) CountUsers(ctx context.Context, statuses ...models.AccountStatus) (int64, error) {
	q := s.DB.WithContext(ctx).Model(&models.User{})
	if len(statuses) > 0 {
		q = q.Where("status IN ?", statuses)
	}
	var n int64
	if err := q.Count(&n).Error; err != nil {
		return 0, s.logError("storage_count_users_failed", err)
	}
	return n, nil
}

// CountUsersByRole groups users by role, largest groups first.
func (s *Service) CountUsersByRole(ctx context.Context) ([]GroupCount, error) {
	var rows []GroupCount
	err := s.DB.WithContext(ctx).Model(&models.User{}).
		Select("role AS label, COUNT(*) AS count").
		Group("role").
		Order("count DESC").
		Order("role").
		Scan(&rows).Error
	if err != nil {
		return nil, s.logError("storage_count_users_by_role_failed", err)
	}
	return rows, nil
}

func (s *Service) AppendModerationLog(ctx context.Context, l *models.ModerationLog) error {
	if err := s.DB.WithContext(ctx).Create(l).Error; err != nil {
		return s.logError("storage_append_moderation_log_failed", err, "action", string(l.ActionType))
	}
	return nil
}

// ListModerationLogs returns a page of the audit trail, newest first.
func (s *Service) ListModerationLogs(ctx context.Context, offset, limit int) ([]models.ModerationLog, int64, error) {
	q := s.DB.WithContext(ctx).Model(&models.ModerationLog{})

	var total int64
	if err := q.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, s.logError("storage_count_moderation_logs_failed", err)
	}

	var logs []models.ModerationLog
	err := q.Preload("PerformedBy", withUserSummary).
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&logs).Error
	if err != nil {
		return nil, 0, s.logError("storage_list_moderation_logs_failed", err)
	}
	return logs, total, nil
}
