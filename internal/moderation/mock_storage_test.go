package moderation_test

import (
	"context"

	"casewatch/backend/internal/models"
	"casewatch/backend/internal/storage"

	"github.com/stretchr/testify/mock"
)

// MockStorage runs WithTx callbacks against itself.
type MockStorage struct {
	mock.Mock
}

func (m *MockStorage) WithTx(ctx context.Context, fn func(tx storage.Storage) error) error {
	args := m.Called(ctx)
	if err := args.Error(0); err != nil {
		return err
	}
	return fn(m)
}

func (m *MockStorage) CreateCase(ctx context.Context, c *models.Case) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *MockStorage) GetCase(ctx context.Context, id string) (*models.Case, error) {
	args := m.Called(ctx, id)
	c, _ := args.Get(0).(*models.Case)
	return c, args.Error(1)
}

func (m *MockStorage) GetCaseDetail(ctx context.Context, id string) (*models.Case, error) {
	args := m.Called(ctx, id)
	c, _ := args.Get(0).(*models.Case)
	return c, args.Error(1)
}

func (m *MockStorage) ListCases(ctx context.Context, f storage.CaseFilter) ([]models.Case, int64, error) {
	args := m.Called(ctx, f)
	return args.Get(0).([]models.Case), args.Get(1).(int64), args.Error(2)
}

func (m *MockStorage) TransitionCaseStatus(ctx context.Context, id string, from []models.CaseStatus, to models.CaseStatus, verifiedBy *string) (int64, error) {
	args := m.Called(ctx, id, from, to, verifiedBy)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockStorage) AdjustTally(ctx context.Context, caseID string, supportDelta, opposeDelta int) error {
	args := m.Called(ctx, caseID, supportDelta, opposeDelta)
	return args.Error(0)
}

func (m *MockStorage) SetTally(ctx context.Context, caseID string, support, oppose int64) error {
	args := m.Called(ctx, caseID, support, oppose)
	return args.Error(0)
}

func (m *MockStorage) CountCases(ctx context.Context, statuses ...models.CaseStatus) (int64, error) {
	args := m.Called(ctx, statuses)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockStorage) CountCasesBy(ctx context.Context, column string, limit int) ([]storage.GroupCount, error) {
	args := m.Called(ctx, column, limit)
	return args.Get(0).([]storage.GroupCount), args.Error(1)
}

func (m *MockStorage) AppendCaseUpdate(ctx context.Context, u *models.CaseUpdate) error {
	args := m.Called(ctx, u)
	return args.Error(0)
}

func (m *MockStorage) CreateLawyerComment(ctx context.Context, c *models.LawyerComment) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *MockStorage) FindVote(ctx context.Context, userID, caseID string) (*models.Vote, error) {
	args := m.Called(ctx, userID, caseID)
	v, _ := args.Get(0).(*models.Vote)
	return v, args.Error(1)
}

func (m *MockStorage) CreateVote(ctx context.Context, v *models.Vote) error {
	args := m.Called(ctx, v)
	return args.Error(0)
}

func (m *MockStorage) ChangeVoteType(ctx context.Context, voteID string, from, to models.VoteType) (int64, error) {
	args := m.Called(ctx, voteID, from, to)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockStorage) DeleteVote(ctx context.Context, voteID string) (int64, error) {
	args := m.Called(ctx, voteID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockStorage) CountVotes(ctx context.Context, caseID string) (int64, int64, error) {
	args := m.Called(ctx, caseID)
	return args.Get(0).(int64), args.Get(1).(int64), args.Error(2)
}

func (m *MockStorage) AppendModerationLog(ctx context.Context, l *models.ModerationLog) error {
	args := m.Called(ctx, l)
	return args.Error(0)
}

func (m *MockStorage) ListModerationLogs(ctx context.Context, offset, limit int) ([]models.ModerationLog, int64, error) {
	args := m.Called(ctx, offset, limit)
	return args.Get(0).([]models.ModerationLog), args.Get(1).(int64), args.Error(2)
}

func (m *MockStorage) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	args := m.Called(ctx, id)
	u, _ := args.Get(0).(*models.User)
	return u, args.Error(1)
}

func (m *MockStorage) SaveUserIfNotExists(ctx context.Context, u *models.User) error {
	args := m.Called(ctx, u)
	return args.Error(0)
}

func (m *MockStorage) UpdateUserStatus(ctx context.Context, id string, status models.AccountStatus) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

func (m *MockStorage) UpdateUserRole(ctx context.Context, id string, role models.Role) error {
	args := m.Called(ctx, id, role)
	return args.Error(0)
}

func (m *MockStorage) ListUsers(ctx context.Context, offset, limit int) ([]models.User, int64, error) {
	args := m.Called(ctx, offset, limit)
	users, _ := args.Get(0).([]models.User)
	return users, args.Get(1).(int64), args.Error(2)
}

func (m *MockStorage) CountUsers(ctx context.Context, statuses ...models.AccountStatus) (int64, error) {
	args := m.Called(ctx, statuses)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockStorage) CountUsersByRole(ctx context.Context) ([]storage.GroupCount, error) {
	args := m.Called(ctx)
	rows, _ := args.Get(0).([]storage.GroupCount)
	return rows, args.Error(1)
}

func (m *MockStorage) MarkUserRestricted(ctx context.Context, userID string, status models.AccountStatus) error {
	args := m.Called(ctx, userID, status)
	return args.Error(0)
}

func (m *MockStorage) ClearUserRestriction(ctx context.Context, userID string) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func (m *MockStorage) UserRestriction(ctx context.Context, userID string) (models.AccountStatus, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(models.AccountStatus), args.Error(1)
}

func (m *MockStorage) PublishCaseEvent(ctx context.Context, ev models.CaseEvent) error {
	args := m.Called(ctx, ev)
	return args.Error(0)
}

var _ storage.Storage = (*MockStorage)(nil)
