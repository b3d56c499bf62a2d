// Package votes keeps one vote per user per case and the case tallies in
// exact agreement with the vote rows.
package votes

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"casewatch/backend/internal/apperr"
	"casewatch/backend/internal/auth"
	"casewatch/backend/internal/models"
	"casewatch/backend/internal/storage"
)

type Ledger struct {
	store  storage.Storage
	logger *slog.Logger
}

func NewLedger(store storage.Storage, logger *slog.Logger) *Ledger {
	if logger == nil {
		logger = slog.Default()
	}
	return &Ledger{store: store, logger: logger.With("module", "votes")}
}

// Tally is the vote count of a case after a change.
type Tally struct {
	CaseID  string `json:"caseId"`
	Support int    `json:"supportCount"`
	Oppose  int    `json:"opposeCount"`
}

// delta returns the counter changes for adding (+1) or removing (-1) a vote.
func delta(vt models.VoteType, sign int) (support, oppose int) {
	if vt == models.VoteSupport {
		return sign, 0
	}
	return 0, sign
}

// Cast records the actor's vote. A first vote creates the row; a vote of the
// other type flips it; repeating the same vote is a Conflict.
func (l *Ledger) Cast(ctx context.Context, actor auth.Actor, caseID string, voteType string) (*Tally, error) {
	if err := auth.Authorize(actor); err != nil {
		return nil, err
	}
	vt := models.VoteType(strings.ToUpper(strings.TrimSpace(voteType)))
	if !vt.Valid() {
		return nil, apperr.Newf(apperr.KindValidation, "voteType must be SUPPORT or OPPOSE, got %q", voteType)
	}

	var tally *Tally
	outcome := "created"
	err := l.store.WithTx(ctx, func(tx storage.Storage) error {
		if _, err := tx.GetCase(ctx, caseID); err != nil {
			return err
		}
		existing, err := tx.FindVote(ctx, actor.UserID, caseID)
		if err != nil {
			return err
		}

		switch {
		case existing == nil:
			if err := tx.CreateVote(ctx, &models.Vote{UserID: actor.UserID, CaseID: caseID, VoteType: vt}); err != nil {
				return err
			}
			s, o := delta(vt, 1)
			if err := tx.AdjustTally(ctx, caseID, s, o); err != nil {
				return err
			}
		case existing.VoteType == vt:
			return apperr.Newf(apperr.KindConflict, "already voted %s on this case", vt)
		default:
			n, err := tx.ChangeVoteType(ctx, existing.ID, existing.VoteType, vt)
			if err != nil {
				return err
			}
			if n == 0 {
				return apperr.New(apperr.KindConflict, "vote changed concurrently")
			}
			oldS, oldO := delta(existing.VoteType, -1)
			newS, newO := delta(vt, 1)
			if err := tx.AdjustTally(ctx, caseID, oldS+newS, oldO+newO); err != nil {
				return err
			}
			outcome = "changed"
		}

		tally, err = readTally(ctx, tx, caseID)
		return err
	})
	if err != nil {
		if apperr.KindOf(err) == apperr.KindConflict {
			votesRefused.Inc()
		}
		return nil, err
	}

	votesCast.WithLabelValues(string(vt), outcome).Inc()
	l.logger.Debug("vote recorded", "event", "vote_"+outcome, "case_id", caseID, "user_id", actor.UserID, "vote", string(vt))
	l.publish(ctx, actor, tally)
	return tally, nil
}

// Remove withdraws the actor's vote on a case.
func (l *Ledger) Remove(ctx context.Context, actor auth.Actor, caseID string) (*Tally, error) {
	if err := auth.Authorize(actor); err != nil {
		return nil, err
	}

	var (
		tally   *Tally
		removed models.VoteType
	)
	err := l.store.WithTx(ctx, func(tx storage.Storage) error {
		existing, err := tx.FindVote(ctx, actor.UserID, caseID)
		if err != nil {
			return err
		}
		if existing == nil {
			return apperr.New(apperr.KindNotFound, "no vote to remove")
		}
		n, err := tx.DeleteVote(ctx, existing.ID)
		if err != nil {
			return err
		}
		if n == 0 {
			return apperr.New(apperr.KindNotFound, "no vote to remove")
		}
		s, o := delta(existing.VoteType, -1)
		if err := tx.AdjustTally(ctx, caseID, s, o); err != nil {
			return err
		}
		removed = existing.VoteType
		tally, err = readTally(ctx, tx, caseID)
		return err
	})
	if err != nil {
		return nil, err
	}

	votesRemoved.WithLabelValues(string(removed)).Inc()
	l.publish(ctx, actor, tally)
	return tally, nil
}

// UserVote returns the actor's current vote on a case, or nil.
func (l *Ledger) UserVote(ctx context.Context, actor auth.Actor, caseID string) (*models.VoteType, error) {
	if !actor.Authenticated() {
		return nil, apperr.New(apperr.KindUnauthorized, "authentication required")
	}
	v, err := l.store.FindVote(ctx, actor.UserID, caseID)
	if err != nil || v == nil {
		return nil, err
	}
	return &v.VoteType, nil
}

// Recount recomputes a case's tallies from its vote rows and reports
// whether the stored counters had drifted.
func (l *Ledger) Recount(ctx context.Context, caseID string) (*Tally, bool, error) {
	var (
		tally   *Tally
		drifted bool
	)
	err := l.store.WithTx(ctx, func(tx storage.Storage) error {
		c, err := tx.GetCase(ctx, caseID)
		if err != nil {
			return err
		}
		support, oppose, err := tx.CountVotes(ctx, caseID)
		if err != nil {
			return err
		}
		drifted = int64(c.SupportCount) != support || int64(c.OpposeCount) != oppose
		if drifted {
			if err := tx.SetTally(ctx, caseID, support, oppose); err != nil {
				return err
			}
		}
		tally = &Tally{CaseID: caseID, Support: int(support), Oppose: int(oppose)}
		return nil
	})
	if err != nil {
		return nil, false, err
	}
	if drifted {
		l.logger.Warn("tally drift corrected", "event", "tally_recount", "case_id", caseID,
			"support", tally.Support, "oppose", tally.Oppose)
	}
	return tally, drifted, nil
}

func readTally(ctx context.Context, tx storage.Storage, caseID string) (*Tally, error) {
	c, err := tx.GetCase(ctx, caseID)
	if err != nil {
		return nil, err
	}
	return &Tally{CaseID: c.ID, Support: c.SupportCount, Oppose: c.OpposeCount}, nil
}

func (l *Ledger) publish(ctx context.Context, actor auth.Actor, t *Tally) {
	err := l.store.PublishCaseEvent(ctx, models.CaseEvent{
		Type:     models.EventVoteChanged,
		CaseID:   t.CaseID,
		ActorID:  actor.UserID,
		Support:  t.Support,
		Oppose:   t.Oppose,
		Occurred: time.Now().UTC(),
	})
	if err != nil {
		l.logger.Warn("vote event not published", "case_id", t.CaseID, "error", err.Error())
	}
}
