package mocks

import (
	"context"

	webpush "github.com/SherClockHolmes/webpush-go"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"sauti-jamii/internal/domain"
)

type PushService struct {
	mock.Mock
}

func (m *PushService) Register(ctx context.Context, userID uuid.UUID, input domain.RegisterPushInput, userAgent *string) (*domain.PushRegistration, error) {
	args := m.Called(ctx, userID, input, userAgent)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PushRegistration), args.Error(1)
}

func (m *PushService) Unregister(ctx context.Context, userID uuid.UUID, endpoint string) error {
	args := m.Called(ctx, userID, endpoint)
	return args.Error(0)
}

func (m *PushService) Registrations(ctx context.Context, userID uuid.UUID) ([]domain.PushRegistration, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.PushRegistration), args.Error(1)
}

func (m *PushService) Deliver(ctx context.Context, reg *domain.PushRegistration, payload []byte) error {
	args := m.Called(ctx, reg, payload)
	return args.Error(0)
}

// PushTransport stands in for the outbound web push client so delivery logic
// can be exercised against canned provider status codes.
type PushTransport struct {
	mock.Mock
}

func (m *PushTransport) Push(ctx context.Context, sub *webpush.Subscription, payload []byte) (int, error) {
	args := m.Called(ctx, sub, payload)
	return args.Int(0), args.Error(1)
}
