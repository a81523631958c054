package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"sauti-jamii/internal/domain"
	"sauti-jamii/internal/service/notifier"
)

type NotifierService struct {
	mock.Mock
}

func (m *NotifierService) Notify(ctx context.Context, recipientID uuid.UUID, input domain.NotificationInput) (*domain.Notification, error) {
	args := m.Called(ctx, recipientID, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Notification), args.Error(1)
}

func (m *NotifierService) List(ctx context.Context, userID uuid.UUID, unreadOnly bool, params domain.PaginationParams) (domain.PaginatedResponse[domain.Notification], error) {
	args := m.Called(ctx, userID, unreadOnly, params)
	return args.Get(0).(domain.PaginatedResponse[domain.Notification]), args.Error(1)
}

func (m *NotifierService) MarkAsRead(ctx context.Context, userID, id uuid.UUID) error {
	args := m.Called(ctx, userID, id)
	return args.Error(0)
}

func (m *NotifierService) MarkAllAsRead(ctx context.Context, userID uuid.UUID) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func (m *NotifierService) GetUnreadCount(ctx context.Context, userID uuid.UUID) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *NotifierService) GetPreferences(ctx context.Context, userID uuid.UUID) (*domain.NotificationPreference, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.NotificationPreference), args.Error(1)
}

func (m *NotifierService) UpdatePreferences(ctx context.Context, userID uuid.UUID, input domain.UpdatePreferenceInput) (*domain.NotificationPreference, error) {
	args := m.Called(ctx, userID, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.NotificationPreference), args.Error(1)
}

func (m *NotifierService) Settings() notifier.ChannelSettings {
	args := m.Called()
	return args.Get(0).(notifier.ChannelSettings)
}

func (m *NotifierService) UpdateSettings(settings notifier.ChannelSettings) {
	m.Called(settings)
}
