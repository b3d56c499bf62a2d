// Package moderation owns the append-only moderation audit trail and the
// account restrictions moderators apply to users.
package moderation

import (
	"context"
	"strings"

	"casewatch/backend/internal/models"
	"casewatch/backend/internal/storage"
)

// Record appends one audit row using tx, so the row commits or rolls back
// with the action it describes. An empty reason is stored as NULL.
func Record(ctx context.Context, tx storage.Storage, action models.ModerationAction, performedBy, targetID, reason string) error {
	entry := &models.ModerationLog{
		ActionType:    action,
		PerformedByID: performedBy,
		TargetID:      targetID,
	}
	if r := strings.TrimSpace(reason); r != "" {
		entry.Reason = &r
	}
	return tx.AppendModerationLog(ctx, entry)
}
