package storage

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"casewatch/backend/internal/apperr"
	"casewatch/backend/internal/models"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Storage is everything the case workflow, the vote ledger and moderation
// need from persistence. Implementations returned by WithTx run every call
// inside the same database transaction.
type Storage interface {
	WithTx(ctx context.Context, fn func(tx Storage) error) error

	CreateCase(ctx context.Context, c *models.Case) error
	GetCase(ctx context.Context, id string) (*models.Case, error)
	GetCaseDetail(ctx context.Context, id string) (*models.Case, error)
	ListCases(ctx context.Context, f CaseFilter) ([]models.Case, int64, error)
	TransitionCaseStatus(ctx context.Context, id string, from []models.CaseStatus, to models.CaseStatus, verifiedBy *string) (int64, error)
	AdjustTally(ctx context.Context, caseID string, supportDelta, opposeDelta int) error
	SetTally(ctx context.Context, caseID string, support, oppose int64) error
	CountCases(ctx context.Context, statuses ...models.CaseStatus) (int64, error)
	CountCasesBy(ctx context.Context, column string, limit int) ([]GroupCount, error)

	AppendCaseUpdate(ctx context.Context, u *models.CaseUpdate) error
	CreateLawyerComment(ctx context.Context, c *models.LawyerComment) error

	FindVote(ctx context.Context, userID, caseID string) (*models.Vote, error)
	CreateVote(ctx context.Context, v *models.Vote) error
	ChangeVoteType(ctx context.Context, voteID string, from, to models.VoteType) (int64, error)
	DeleteVote(ctx context.Context, voteID string) (int64, error)
	CountVotes(ctx context.Context, caseID string) (support, oppose int64, err error)

	AppendModerationLog(ctx context.Context, l *models.ModerationLog) error
	ListModerationLogs(ctx context.Context, offset, limit int) ([]models.ModerationLog, int64, error)

	GetUserByID(ctx context.Context, id string) (*models.User, error)
	SaveUserIfNotExists(ctx context.Context, u *models.User) error
	UpdateUserStatus(ctx context.Context, id string, status models.AccountStatus) error
	UpdateUserRole(ctx context.Context, id string, role models.Role) error
	ListUsers(ctx context.Context, offset, limit int) ([]models.User, int64, error)
	CountUsers(ctx context.Context, statuses ...models.AccountStatus) (int64, error)
	CountUsersByRole(ctx context.Context) ([]GroupCount, error)

	MarkUserRestricted(ctx context.Context, userID string, status models.AccountStatus) error
	ClearUserRestriction(ctx context.Context, userID string) error
	UserRestriction(ctx context.Context, userID string) (models.AccountStatus, error)
	PublishCaseEvent(ctx context.Context, ev models.CaseEvent) error
}

// Service is the gorm + redis implementation of Storage. Redis is optional;
// without it restriction keys and case events are skipped.
type Service struct {
	DB     *gorm.DB
	Redis  *redis.Client
	Logger *slog.Logger
}

// NewStorageService wraps an open database and an optional redis client.
func NewStorageService(db *gorm.DB, rdb *redis.Client) *Service {
	return &Service{
		DB:     db,
		Redis:  rdb,
		Logger: slog.Default(),
	}
}

// WithTx runs fn in a transaction. Returning an error rolls back.
func (s *Service) WithTx(ctx context.Context, fn func(tx Storage) error) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&Service{DB: tx, Redis: s.Redis, Logger: s.Logger})
	})
}

func (s *Service) logError(event string, err error, attrs ...any) error {
	fields := make([]any, 0, len(attrs)+6)
	fields = append(fields,
		"event", event,
		"module", "storage",
		"error", err.Error(),
	)
	fields = append(fields, attrs...)
	s.logger().Error("storage operation failed", fields...)
	return err
}

func (s *Service) logger() *slog.Logger {
	if s.Logger == nil {
		return slog.Default()
	}
	return s.Logger
}

// notFound converts gorm's not-found into the domain NotFound.
func notFound(err error, what string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperr.New(apperr.KindNotFound, what+" not found")
	}
	return err
}

func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

var _ Storage = (*Service)(nil)
