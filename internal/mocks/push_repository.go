package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"sauti-jamii/internal/domain"
)

type PushRepository struct {
	mock.Mock
}

func (m *PushRepository) Upsert(ctx context.Context, reg *domain.PushRegistration) error {
	args := m.Called(ctx, reg)
	return args.Error(0)
}

func (m *PushRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.PushRegistration, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.PushRegistration), args.Error(1)
}

func (m *PushRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *PushRepository) DeleteByEndpoint(ctx context.Context, userID uuid.UUID, endpoint string) error {
	args := m.Called(ctx, userID, endpoint)
	return args.Error(0)
}
