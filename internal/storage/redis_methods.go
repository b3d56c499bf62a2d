package storage

import (
	"context"
	"encoding/json"
	"errors"

	"casewatch/backend/internal/models"

	"github.com/redis/go-redis/v9"
)

// CaseEventsChannel is the pub/sub channel case changes are published on.
const CaseEventsChannel = "case:events"

func restrictionKey(userID string) string { return "restrict:" + userID }

// MarkUserRestricted caches a suspension or ban so the HTTP layer can refuse
// the user before their token expires.
func (s *Service) MarkUserRestricted(ctx context.Context, userID string, status models.AccountStatus) error {
	if s.Redis == nil {
		return nil
	}
	if err := s.Redis.Set(ctx, restrictionKey(userID), string(status), 0).Err(); err != nil {
		return s.logError("storage_mark_restricted_failed", err, "user_id", userID)
	}
	return nil
}

func (s *Service) ClearUserRestriction(ctx context.Context, userID string) error {
	if s.Redis == nil {
		return nil
	}
	if err := s.Redis.Del(ctx, restrictionKey(userID)).Err(); err != nil {
		return s.logError("storage_clear_restricted_failed", err, "user_id", userID)
	}
	return nil
}

// UserRestriction returns the cached restriction of a user, or "" when the
// user is not restricted.
func (s *Service) UserRestriction(ctx context.Context, userID string) (models.AccountStatus, error) {
	if s.Redis == nil {
		return "", nil
	}
	status, err := s.Redis.Get(ctx, restrictionKey(userID)).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return models.AccountStatus(status), nil
}

// PublishCaseEvent publishes ev as JSON on CaseEventsChannel.
func (s *Service) PublishCaseEvent(ctx context.Context, ev models.CaseEvent) error {
	if s.Redis == nil {
		return nil
	}
	payload, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	return s.Redis.Publish(ctx, CaseEventsChannel, payload).Err()
}
