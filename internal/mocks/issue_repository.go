package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"sauti-jamii/internal/domain"
)

type IssueRepository struct {
	mock.Mock
}

func (m *IssueRepository) Create(ctx context.Context, issue *domain.Issue) error {
	args := m.Called(ctx, issue)
	return args.Error(0)
}

func (m *IssueRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Issue, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Issue), args.Error(1)
}

func (m *IssueRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.IssueStatus) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

func (m *IssueRepository) UpdateAssignment(ctx context.Context, id uuid.UUID, assigneeID uuid.UUID, status domain.IssueStatus) error {
	args := m.Called(ctx, id, assigneeID, status)
	return args.Error(0)
}

func (m *IssueRepository) List(ctx context.Context, filter domain.IssueFilter, params domain.PaginationParams) ([]domain.Issue, int64, error) {
	args := m.Called(ctx, filter, params)
	return args.Get(0).([]domain.Issue), args.Get(1).(int64), args.Error(2)
}

type IssueHistoryRepository struct {
	mock.Mock
}

func (m *IssueHistoryRepository) Create(ctx context.Context, entry *domain.IssueStatusHistory) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *IssueHistoryRepository) ListByIssue(ctx context.Context, issueID uuid.UUID) ([]domain.IssueStatusHistory, error) {
	args := m.Called(ctx, issueID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.IssueStatusHistory), args.Error(1)
}
