package storage

import (
	"context"
	"fmt"
	"strings"
	"time"

	"casewatch/backend/internal/apperr"
	"casewatch/backend/internal/models"

	"gorm.io/gorm"
)

// CaseOrder selects the sort of a case listing.
type CaseOrder int

const (
	// OrderBySupport sorts by supportCount desc, then createdAt desc.
	OrderBySupport CaseOrder = iota
	// OrderByNewest sorts by createdAt desc.
	OrderByNewest
)

// CaseFilter narrows ListCases. Empty fields do not filter.
type CaseFilter struct {
	Statuses []models.CaseStatus
	Category models.CaseCategory
	Location string
	Search   string
	Order    CaseOrder
	Offset   int
	Limit    int
}

// GroupCount is one row of a GROUP BY count.
type GroupCount struct {
	Label string `json:"label"`
	Count int64  `json:"count"`
}

func withUserSummary(db *gorm.DB) *gorm.DB {
	return db.Select("id", "name", "role")
}

func (s *Service) CreateCase(ctx context.Context, c *models.Case) error {
	if err := s.DB.WithContext(ctx).Create(c).Error; err != nil {
		return s.logError("storage_create_case_failed", err, "created_by", c.CreatedByID)
	}
	return nil
}

func (s *Service) GetCase(ctx context.Context, id string) (*models.Case, error) {
	var c models.Case
	if err := s.DB.WithContext(ctx).Where("id = ?", id).First(&c).Error; err != nil {
		return nil, notFound(err, "case")
	}
	return &c, nil
}

// GetCaseDetail loads a case with its people, timeline (oldest first) and
// lawyer commentary (newest first).
func (s *Service) GetCaseDetail(ctx context.Context, id string) (*models.Case, error) {
	var c models.Case
	err := s.DB.WithContext(ctx).
		Preload("CreatedBy", withUserSummary).
		Preload("VerifiedBy", withUserSummary).
		Preload("Updates", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC") }).
		Preload("Updates.CreatedBy", withUserSummary).
		Preload("LawyerComments", func(db *gorm.DB) *gorm.DB { return db.Order("created_at DESC") }).
		Preload("LawyerComments.Lawyer", withUserSummary).
		Where("id = ?", id).
		First(&c).Error
	if err != nil {
		return nil, notFound(err, "case")
	}
	return &c, nil
}

func (s *Service) ListCases(ctx context.Context, f CaseFilter) ([]models.Case, int64, error) {
	q := s.DB.WithContext(ctx).Model(&models.Case{})
	if len(f.Statuses) > 0 {
		q = q.Where("status IN ?", f.Statuses)
	}
	if f.Category != "" {
		q = q.Where("category = ?", f.Category)
	}
	if loc := strings.TrimSpace(f.Location); loc != "" {
		q = q.Where(`LOWER(location) LIKE ? ESCAPE '\'`, likePattern(loc))
	}
	if term := strings.TrimSpace(f.Search); term != "" {
		p := likePattern(term)
		q = q.Where(
			`(LOWER(title) LIKE ? ESCAPE '\' OR LOWER(description) LIKE ? ESCAPE '\' OR LOWER(reference_number) LIKE ? ESCAPE '\')`,
			p, p, p,
		)
	}

	var total int64
	if err := q.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, s.logError("storage_count_cases_failed", err)
	}

	switch f.Order {
	case OrderByNewest:
		q = q.Order("created_at DESC")
	default:
		q = q.Order("support_count DESC").Order("created_at DESC")
	}
	if f.Limit > 0 {
		q = q.Limit(f.Limit)
	}
	if f.Offset > 0 {
		q = q.Offset(f.Offset)
	}

	var items []models.Case
	if err := q.Preload("CreatedBy", withUserSummary).Find(&items).Error; err != nil {
		return nil, 0, s.logError("storage_list_cases_failed", err)
	}
	return items, total, nil
}

// TransitionCaseStatus moves a case to `to` only while its current status is
// one of `from`. Zero rows affected means the case is missing or was in
// another state; the caller decides which.
func (s *Service) TransitionCaseStatus(ctx context.Context, id string, from []models.CaseStatus, to models.CaseStatus, verifiedBy *string) (int64, error) {
	updates := map[string]any{
		"status":     to,
		"updated_at": time.Now(),
	}
	if verifiedBy != nil {
		updates["verified_by_id"] = *verifiedBy
	}
	res := s.DB.WithContext(ctx).Model(&models.Case{}).
		Where("id = ? AND status IN ?", id, from).
		Updates(updates)
	if res.Error != nil {
		return 0, s.logError("storage_transition_case_failed", res.Error, "case_id", id, "to", string(to))
	}
	return res.RowsAffected, nil
}

// AdjustTally applies counter deltas with in-database arithmetic so that
// concurrent transactions never overwrite each other's increments.
func (s *Service) AdjustTally(ctx context.Context, caseID string, supportDelta, opposeDelta int) error {
	res := s.DB.WithContext(ctx).Model(&models.Case{}).
		Where("id = ?", caseID).
		Updates(map[string]any{
			"support_count": gorm.Expr("support_count + ?", supportDelta),
			"oppose_count":  gorm.Expr("oppose_count + ?", opposeDelta),
		})
	if res.Error != nil {
		return s.logError("storage_adjust_tally_failed", res.Error, "case_id", caseID)
	}
	if res.RowsAffected == 0 {
		return apperr.New(apperr.KindNotFound, "case not found")
	}
	return nil
}

func (s *Service) SetTally(ctx context.Context, caseID string, support, oppose int64) error {
	res := s.DB.WithContext(ctx).Model(&models.Case{}).
		Where("id = ?", caseID).
		Updates(map[string]any{"support_count": support, "oppose_count": oppose})
	if res.Error != nil {
		return s.logError("storage_set_tally_failed", res.Error, "case_id", caseID)
	}
	if res.RowsAffected == 0 {
		return apperr.New(apperr.KindNotFound, "case not found")
	}
	return nil
}

func (s *Service) CountCases(ctx context.Context, statuses ...models.CaseStatus) (int64, error) {
	q := s.DB.WithContext(ctx).Model(&models.Case{})
	if len(statuses) > 0 {
		q = q.Where("status IN ?", statuses)
	}
	var n int64
	if err := q.Count(&n).Error; err != nil {
		return 0, s.logError("storage_count_cases_failed", err)
	}
	return n, nil
}

var groupableCaseColumns = map[string]struct{}{
	"category": {},
	"location": {},
	"status":   {},
}

// CountCasesBy groups cases by one of category, location or status, largest
// groups first. limit <= 0 returns every group.
func (s *Service) CountCasesBy(ctx context.Context, column string, limit int) ([]GroupCount, error) {
	if _, ok := groupableCaseColumns[column]; !ok {
		return nil, fmt.Errorf("cannot group cases by %q", column)
	}
	q := s.DB.WithContext(ctx).Model(&models.Case{}).
		Select(column + " AS label, COUNT(*) AS count").
		Group(column).
		Order("count DESC").
		Order(column)
	if limit > 0 {
		q = q.Limit(limit)
	}
	var rows []GroupCount
	if err := q.Scan(&rows).Error; err != nil {
		return nil, s.logError("storage_count_cases_by_failed", err, "column", column)
	}
	return rows, nil
}

func (s *Service) AppendCaseUpdate(ctx context.Context, u *models.CaseUpdate) error {
	if err := s.DB.WithContext(ctx).Create(u).Error; err != nil {
		return s.logError("storage_append_case_update_failed", err, "case_id", u.CaseID)
	}
	return nil
}

func (s *Service) CreateLawyerComment(ctx context.Context, c *models.LawyerComment) error {
	if err := s.DB.WithContext(ctx).Create(c).Error; err != nil {
		return s.logError("storage_create_lawyer_comment_failed", err, "case_id", c.CaseID)
	}
	return nil
}

// likePattern lower-cases term and escapes LIKE wildcards for use with
// ESCAPE '\'.
func likePattern(term string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(strings.ToLower(term)) + "%"
}
