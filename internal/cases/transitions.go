package cases

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"casewatch/backend/internal/apperr"
	"casewatch/backend/internal/auth"
	"casewatch/backend/internal/moderation"
	"casewatch/backend/internal/models"
	"casewatch/backend/internal/storage"
)

// statusMoves are the moves allowed through UpdateStatus. REJECTED and
// CLOSED have no entry and are terminal. Approve, reject and flag have
// their own operations.
var statusMoves = map[models.CaseStatus][]models.CaseStatus{
	models.StatusVerified: {
		models.StatusUnderInvestigation,
		models.StatusCourtHearing,
		models.StatusResolved,
		models.StatusClosed,
	},
	models.StatusUnderInvestigation: {
		models.StatusCourtHearing,
		models.StatusResolved,
		models.StatusClosed,
	},
	models.StatusCourtHearing: {
		models.StatusResolved,
		models.StatusClosed,
	},
	models.StatusResolved: {
		models.StatusClosed,
	},
	models.StatusFlagged: {
		models.StatusVerified,
		models.StatusClosed,
	},
}

// flaggable are the statuses a case may be flagged from.
var flaggable = []models.CaseStatus{
	models.StatusPendingReview,
	models.StatusVerified,
	models.StatusUnderInvestigation,
	models.StatusCourtHearing,
	models.StatusResolved,
}

// CanMove reports whether UpdateStatus allows from -> to.
func CanMove(from, to models.CaseStatus) bool {
	return slices.Contains(statusMoves[from], to)
}

// transition describes one guarded status change and what it records.
type transition struct {
	from       []models.CaseStatus
	to         models.CaseStatus
	updateType models.UpdateType
	text       string
	action     models.ModerationAction // empty: no audit row
	reason     string
	verify     bool
}

// Approve verifies a case awaiting review.
func (s *Service) Approve(ctx context.Context, actor auth.Actor, caseID string) (*models.Case, error) {
	if err := auth.Authorize(actor, auth.Moderators...); err != nil {
		return nil, err
	}
	return s.apply(ctx, actor, caseID, transition{
		from:       []models.CaseStatus{models.StatusPendingReview},
		to:         models.StatusVerified,
		updateType: models.UpdateVerification,
		text:       "Case verified and approved by moderator",
		action:     models.ActionApproveCase,
		verify:     true,
	})
}

// Reject refuses a case awaiting review. A reason is required.
func (s *Service) Reject(ctx context.Context, actor auth.Actor, caseID, reason string) (*models.Case, error) {
	if err := auth.Authorize(actor, auth.Moderators...); err != nil {
		return nil, err
	}
	reason = s.text.clean(reason)
	if reason == "" {
		return nil, apperr.New(apperr.KindValidation, "a rejection reason is required")
	}
	return s.apply(ctx, actor, caseID, transition{
		from:       []models.CaseStatus{models.StatusPendingReview},
		to:         models.StatusRejected,
		updateType: models.UpdateReview,
		text:       "Case rejected: " + reason,
		action:     models.ActionRejectCase,
		reason:     reason,
	})
}

// Flag pulls a case for review from any non-terminal status.
func (s *Service) Flag(ctx context.Context, actor auth.Actor, caseID, reason string) (*models.Case, error) {
	if err := auth.Authorize(actor, auth.Moderators...); err != nil {
		return nil, err
	}
	reason = s.text.clean(reason)
	if reason == "" {
		return nil, apperr.New(apperr.KindValidation, "a flag reason is required")
	}
	return s.apply(ctx, actor, caseID, transition{
		from:       flaggable,
		to:         models.StatusFlagged,
		updateType: models.UpdateReview,
		text:       "Case flagged: " + reason,
		action:     models.ActionFlagCase,
		reason:     reason,
	})
}

// UpdateStatus moves a case forward along statusMoves. The timeline entry
// carries reason, or "Status changed to X" when reason is empty.
func (s *Service) UpdateStatus(ctx context.Context, actor auth.Actor, caseID, status, reason string) (*models.Case, error) {
	if err := auth.Authorize(actor, auth.Moderators...); err != nil {
		return nil, err
	}
	to := models.CaseStatus(strings.ToUpper(strings.TrimSpace(status)))
	if !to.Valid() {
		return nil, apperr.Newf(apperr.KindValidation, "unknown status %q", status)
	}

	var sources []models.CaseStatus
	for from, targets := range statusMoves {
		if slices.Contains(targets, to) {
			sources = append(sources, from)
		}
	}
	text := s.text.clean(reason)
	if text == "" {
		text = fmt.Sprintf("Status changed to %s", to)
	}
	return s.apply(ctx, actor, caseID, transition{
		from:       sources,
		to:         to,
		updateType: models.UpdateStatusChange,
		text:       text,
		verify:     to == models.StatusVerified,
	})
}

// apply runs a transition atomically: the guarded status write, the timeline
// entry and the audit row commit together or not at all.
func (s *Service) apply(ctx context.Context, actor auth.Actor, caseID string, t transition) (*models.Case, error) {
	var updated *models.Case
	err := s.store.WithTx(ctx, func(tx storage.Storage) error {
		current, err := tx.GetCase(ctx, caseID)
		if err != nil {
			return err
		}
		if !slices.Contains(t.from, current.Status) {
			return apperr.Newf(apperr.KindConflict, "cannot move case from %s to %s", current.Status, t.to)
		}

		var verifiedBy *string
		if t.verify {
			verifiedBy = &actor.UserID
		}
		n, err := tx.TransitionCaseStatus(ctx, caseID, []models.CaseStatus{current.Status}, t.to, verifiedBy)
		if err != nil {
			return err
		}
		if n == 0 {
			return apperr.New(apperr.KindConflict, "case status changed concurrently")
		}

		err = tx.AppendCaseUpdate(ctx, &models.CaseUpdate{
			CaseID:      caseID,
			UpdateText:  t.text,
			UpdateType:  t.updateType,
			CreatedByID: actor.UserID,
		})
		if err != nil {
			return err
		}
		if t.action != "" {
			if err := moderation.Record(ctx, tx, t.action, actor.UserID, caseID, t.reason); err != nil {
				return err
			}
		}

		updated, err = tx.GetCase(ctx, caseID)
		return err
	})
	if err != nil {
		if apperr.KindOf(err) == apperr.KindConflict {
			transitionsRefused.WithLabelValues(string(t.to)).Inc()
		}
		return nil, err
	}

	transitionsApplied.WithLabelValues(string(t.to)).Inc()
	s.logger.Info("case status changed",
		"event", "case_status",
		"case_id", caseID,
		"user_id", actor.UserID,
		"status", string(t.to),
	)
	s.publish(ctx, models.CaseEvent{
		Type:    models.EventCaseStatus,
		CaseID:  caseID,
		ActorID: actor.UserID,
		Status:  updated.Status,
		Support: updated.SupportCount,
		Oppose:  updated.OpposeCount,
	})
	return updated, nil
}
