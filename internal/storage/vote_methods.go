package storage

import (
	"context"
	"errors"

	"casewatch/backend/internal/apperr"
	"casewatch/backend/internal/models"

	"gorm.io/gorm"
)

// FindVote returns the user's vote on a case, or nil when there is none.
func (s *Service) FindVote(ctx context.Context, userID, caseID string) (*models.Vote, error) {
	var v models.Vote
	err := s.DB.WithContext(ctx).
		Where("user_id = ? AND case_id = ?", userID, caseID).
		First(&v).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, s.logError("storage_find_vote_failed", err, "user_id", userID, "case_id", caseID)
	}
	return &v, nil
}

// CreateVote inserts a vote. A second vote by the same user on the same case
// is reported as a Conflict.
func (s *Service) CreateVote(ctx context.Context, v *models.Vote) error {
	err := s.DB.WithContext(ctx).Create(v).Error
	if err == nil {
		return nil
	}
	if isUniqueViolation(err) {
		return apperr.Wrap(err, apperr.KindConflict, "vote already recorded")
	}
	return s.logError("storage_create_vote_failed", err, "user_id", v.UserID, "case_id", v.CaseID)
}

// ChangeVoteType flips a vote only if it still has type `from`.
func (s *Service) ChangeVoteType(ctx context.Context, voteID string, from, to models.VoteType) (int64, error) {
	res := s.DB.WithContext(ctx).Model(&models.Vote{}).
		Where("id = ? AND vote_type = ?", voteID, from).
		Update("vote_type", to)
	if res.Error != nil {
		return 0, s.logError("storage_change_vote_failed", res.Error, "vote_id", voteID)
	}
	return res.RowsAffected, nil
}

func (s *Service) DeleteVote(ctx context.Context, voteID string) (int64, error) {
	res := s.DB.WithContext(ctx).Where("id = ?", voteID).Delete(&models.Vote{})
	if res.Error != nil {
		return 0, s.logError("storage_delete_vote_failed", res.Error, "vote_id", voteID)
	}
	return res.RowsAffected, nil
}

// CountVotes recounts the vote rows of a case by type.
func (s *Service) CountVotes(ctx context.Context, caseID string) (support, oppose int64, err error) {
	var rows []struct {
		VoteType models.VoteType
		Total    int64
	}
	err = s.DB.WithContext(ctx).Model(&models.Vote{}).
		Select("vote_type, COUNT(*) AS total").
		Where("case_id = ?", caseID).
		Group("vote_type").
		Scan(&rows).Error
	if err != nil {
		return 0, 0, s.logError("storage_count_votes_failed", err, "case_id", caseID)
	}
	for _, r := range rows {
		switch r.VoteType {
		case models.VoteSupport:
			support = r.Total
		case models.VoteOppose:
			oppose = r.Total
		}
	}
	return support, oppose, nil
}
