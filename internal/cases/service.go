// Package cases is the case lifecycle manager: submission, public listing,
// moderation transitions and the case timeline.
package cases

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"casewatch/backend/internal/apperr"
	"casewatch/backend/internal/auth"
	"casewatch/backend/internal/config"
	"casewatch/backend/internal/models"
	"casewatch/backend/internal/storage"

	"github.com/go-playground/validator/v10"
)

type Service struct {
	store    storage.Storage
	logger   *slog.Logger
	validate *validator.Validate
	text     plainText
}

func NewService(store storage.Storage, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		store:    store,
		logger:   logger.With("module", "cases"),
		validate: newValidator(),
		text:     newPlainText(),
	}
}

// CreateInput is a case submission.
type CreateInput struct {
	Title           string   `json:"title" validate:"required,max=255"`
	Description     string   `json:"description" validate:"required"`
	Category        string   `json:"category" validate:"required,case_category"`
	Location        string   `json:"location" validate:"required,max=255"`
	ReferenceNumber string   `json:"referenceNumber" validate:"max=128"`
	SourceURL       string   `json:"sourceUrl" validate:"omitempty,url,max=2048"`
	MainImage       string   `json:"mainImage" validate:"max=2048"`
	GroundStatus    string   `json:"groundStatus"`
	Documents       []string `json:"documents"`
}

// Create validates and persists a new case in PENDING_REVIEW together with
// its SUBMISSION timeline entry.
func (s *Service) Create(ctx context.Context, actor auth.Actor, in CreateInput) (*models.Case, error) {
	if err := auth.Authorize(actor); err != nil {
		return nil, err
	}
	if !hasReference(in.ReferenceNumber, in.SourceURL) {
		casesRejected.WithLabelValues(string(apperr.KindMissingReference)).Inc()
		return nil, apperr.New(apperr.KindMissingReference,
			"a reference number (FIR, court case ID) or a source URL is required")
	}
	// Tags can split a term, so the stripped text is screened as well.
	if err := checkAbusive(in.Title, in.Description, s.text.clean(in.Title), s.text.clean(in.Description)); err != nil {
		casesRejected.WithLabelValues(string(apperr.KindAbusiveContent)).Inc()
		return nil, err
	}
	if err := s.validate.Struct(in); err != nil {
		casesRejected.WithLabelValues(string(apperr.KindValidation)).Inc()
		return nil, validationError(err)
	}

	c := &models.Case{
		Title:           s.text.clean(in.Title),
		Description:     s.text.clean(in.Description),
		Category:        models.CaseCategory(in.Category),
		Location:        s.text.clean(in.Location),
		ReferenceNumber: s.text.clean(in.ReferenceNumber),
		SourceURL:       optional(in.SourceURL),
		MainImage:       optional(in.MainImage),
		GroundStatus:    optional(s.text.clean(in.GroundStatus)),
		Documents:       cleanDocuments(in.Documents),
		Status:          models.StatusPendingReview,
		CreatedByID:     actor.UserID,
	}
	if c.Title == "" || c.Description == "" || c.Location == "" {
		return nil, apperr.New(apperr.KindValidation, "title, description and location must contain text")
	}

	err := s.store.WithTx(ctx, func(tx storage.Storage) error {
		if err := tx.CreateCase(ctx, c); err != nil {
			return err
		}
		return tx.AppendCaseUpdate(ctx, &models.CaseUpdate{
			CaseID:      c.ID,
			UpdateText:  "Case submitted and awaiting review",
			UpdateType:  models.UpdateSubmission,
			CreatedByID: actor.UserID,
		})
	})
	if err != nil {
		return nil, err
	}

	casesCreated.WithLabelValues(string(c.Category)).Inc()
	s.logger.Info("case submitted", "event", "case_created", "case_id", c.ID, "user_id", actor.UserID)
	s.publish(ctx, models.CaseEvent{Type: models.EventCaseCreated, CaseID: c.ID, ActorID: actor.UserID, Status: c.Status})
	return c, nil
}

// Get returns a case with its timeline and lawyer commentary.
func (s *Service) Get(ctx context.Context, id string) (*models.Case, error) {
	return s.store.GetCaseDetail(ctx, id)
}

// ListQuery are the public listing filters. Status is honoured for
// moderators; other callers may only ask for a publicly visible status.
type ListQuery struct {
	Status   string
	Category string
	Location string
	Search   string
	Page     int
	Limit    int
}

func (s *Service) List(ctx context.Context, actor auth.Actor, q ListQuery) (models.Page[models.Case], error) {
	var empty models.Page[models.Case]

	statuses := models.PublicStatuses
	if q.Status != "" {
		st := models.CaseStatus(strings.ToUpper(q.Status))
		if !st.Valid() {
			return empty, apperr.Newf(apperr.KindValidation, "unknown status %q", q.Status)
		}
		if !st.IsPublic() && auth.Authorize(actor, auth.Moderators...) != nil {
			return empty, apperr.New(apperr.KindForbidden, "only moderators may list non-public cases")
		}
		statuses = []models.CaseStatus{st}
	}

	var category models.CaseCategory
	if q.Category != "" {
		category = models.CaseCategory(strings.ToUpper(q.Category))
		if !category.Valid() {
			return empty, apperr.Newf(apperr.KindValidation, "unknown category %q", q.Category)
		}
	}

	page, limit := models.Paging(q.Page, q.Limit, config.DefaultPageSize, config.MaxPageSize)
	items, total, err := s.store.ListCases(ctx, storage.CaseFilter{
		Statuses: statuses,
		Category: category,
		Location: q.Location,
		Search:   q.Search,
		Order:    storage.OrderBySupport,
		Offset:   (page - 1) * limit,
		Limit:    limit,
	})
	if err != nil {
		return empty, err
	}
	return models.NewPage(items, total, page, limit), nil
}

// Trending returns the most supported live cases.
func (s *Service) Trending(ctx context.Context, limit int) ([]models.Case, error) {
	_, limit = models.Paging(1, limit, config.TrendingLimit, config.MaxPageSize)
	items, _, err := s.store.ListCases(ctx, storage.CaseFilter{
		Statuses: models.TrendingStatuses,
		Order:    storage.OrderBySupport,
		Limit:    limit,
	})
	if items == nil {
		items = []models.Case{}
	}
	return items, err
}

// Queue lists cases of every status, newest first, for moderators. An
// empty status lists everything.
func (s *Service) Queue(ctx context.Context, actor auth.Actor, status string, page, limit int) (models.Page[models.Case], error) {
	var empty models.Page[models.Case]
	if err := auth.Authorize(actor, auth.Moderators...); err != nil {
		return empty, err
	}
	var statuses []models.CaseStatus
	if status != "" {
		st := models.CaseStatus(strings.ToUpper(status))
		if !st.Valid() {
			return empty, apperr.Newf(apperr.KindValidation, "unknown status %q", status)
		}
		statuses = []models.CaseStatus{st}
	}
	page, limit = models.Paging(page, limit, config.ModerationPageSize, config.MaxPageSize)
	items, total, err := s.store.ListCases(ctx, storage.CaseFilter{
		Statuses: statuses,
		Order:    storage.OrderByNewest,
		Offset:   (page - 1) * limit,
		Limit:    limit,
	})
	if err != nil {
		return empty, err
	}
	return models.NewPage(items, total, page, limit), nil
}

// UpdateInput is a manual timeline entry.
type UpdateInput struct {
	UpdateText string `json:"updateText" validate:"required"`
	UpdateType string `json:"updateType" validate:"required,update_type"`
}

// AddUpdate appends a timeline entry written by a moderator.
func (s *Service) AddUpdate(ctx context.Context, actor auth.Actor, caseID string, in UpdateInput) (*models.CaseUpdate, error) {
	if err := auth.Authorize(actor, auth.Moderators...); err != nil {
		return nil, err
	}
	in.UpdateType = strings.ToUpper(strings.TrimSpace(in.UpdateType))
	if err := s.validate.Struct(in); err != nil {
		return nil, validationError(err)
	}
	text := s.text.clean(in.UpdateText)
	if text == "" {
		return nil, apperr.New(apperr.KindValidation, "updateText must contain text")
	}

	update := &models.CaseUpdate{
		CaseID:      caseID,
		UpdateText:  text,
		UpdateType:  models.UpdateType(in.UpdateType),
		CreatedByID: actor.UserID,
	}
	err := s.store.WithTx(ctx, func(tx storage.Storage) error {
		if _, err := tx.GetCase(ctx, caseID); err != nil {
			return err
		}
		return tx.AppendCaseUpdate(ctx, update)
	})
	if err != nil {
		return nil, err
	}
	return update, nil
}

// AddLawyerComment attaches legal commentary written by a LAWYER. Commentary
// that declares guilt is refused.
func (s *Service) AddLawyerComment(ctx context.Context, actor auth.Actor, caseID, explanation string) (*models.LawyerComment, error) {
	if err := auth.Authorize(actor, models.RoleLawyer); err != nil {
		return nil, err
	}
	if strings.TrimSpace(explanation) == "" {
		return nil, apperr.New(apperr.KindValidation, "explanation is required")
	}

	comment := &models.LawyerComment{CaseID: caseID, LawyerID: actor.UserID}
	err := s.store.WithTx(ctx, func(tx storage.Storage) error {
		if _, err := tx.GetCase(ctx, caseID); err != nil {
			return err
		}
		comment.Explanation = s.text.clean(explanation)
		if err := checkGuilt(explanation, comment.Explanation); err != nil {
			return err
		}
		if comment.Explanation == "" {
			return apperr.New(apperr.KindValidation, "explanation must contain text")
		}
		return tx.CreateLawyerComment(ctx, comment)
	})
	if err != nil {
		return nil, err
	}
	return comment, nil
}

// publish sends a case event after commit. Failures are logged only.
func (s *Service) publish(ctx context.Context, ev models.CaseEvent) {
	ev.Occurred = time.Now().UTC()
	if err := s.store.PublishCaseEvent(ctx, ev); err != nil {
		s.logger.Warn("case event not published", "event", ev.Type, "case_id", ev.CaseID, "error", err.Error())
	}
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

func cleanDocuments(docs []string) []string {
	out := make([]string, 0, len(docs))
	for _, d := range docs {
		if d = strings.TrimSpace(d); d != "" {
			out = append(out, d)
		}
	}
	return out
}
