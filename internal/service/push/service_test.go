package push_test

import (
	"context"
	"net/http"
	"testing"

	"sauti-jamii/internal/domain"
	"sauti-jamii/internal/mocks"
	"sauti-jamii/internal/service/push"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestPushService_Register(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	agent := "Mozilla/5.0"

	t.Run("Success", func(t *testing.T) {
		mockRepo := new(mocks.PushRepository)
		svc := push.NewServiceWithTransport(mockRepo, new(mocks.PushTransport))

		mockRepo.On("Upsert", ctx, mock.MatchedBy(func(r *domain.PushRegistration) bool {
			return r.UserID == userID && r.Endpoint == "https://push.example.com/abc" && r.P256dh == "p256" && r.Auth == "auth"
		})).Return(nil).Once()

		reg, err := svc.Register(ctx, userID, domain.RegisterPushInput{
			Endpoint: "https://push.example.com/abc",
			P256dh:   "p256",
			Auth:     "auth",
		}, &agent)

		assert.NoError(t, err)
		assert.NotNil(t, reg)
		assert.Equal(t, &agent, reg.UserAgent)
		mockRepo.AssertExpectations(t)
	})

	t.Run("Missing Key Material", func(t *testing.T) {
		mockRepo := new(mocks.PushRepository)
		svc := push.NewServiceWithTransport(mockRepo, new(mocks.PushTransport))

		reg, err := svc.Register(ctx, userID, domain.RegisterPushInput{Endpoint: "https://push.example.com/abc"}, nil)

		assert.ErrorIs(t, err, domain.ErrInvalidInput)
		assert.Nil(t, reg)
		mockRepo.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything)
	})
}

func TestPushService_Unregister(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	t.Run("Success", func(t *testing.T) {
		mockRepo := new(mocks.PushRepository)
		svc := push.NewServiceWithTransport(mockRepo, new(mocks.PushTransport))

		mockRepo.On("DeleteByEndpoint", ctx, userID, "https://push.example.com/abc").Return(nil).Once()

		err := svc.Unregister(ctx, userID, "https://push.example.com/abc")

		assert.NoError(t, err)
		mockRepo.AssertExpectations(t)
	})

	t.Run("Empty Endpoint", func(t *testing.T) {
		mockRepo := new(mocks.PushRepository)
		svc := push.NewServiceWithTransport(mockRepo, new(mocks.PushTransport))

		err := svc.Unregister(ctx, userID, "  ")

		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})
}

func TestPushService_Deliver(t *testing.T) {
	ctx := context.Background()
	reg := &domain.PushRegistration{
		ID:       uuid.New(),
		UserID:   uuid.New(),
		Endpoint: "https://push.example.com/abc",
		P256dh:   "p256",
		Auth:     "auth",
	}
	payload := []byte(`{"title":"hello"}`)

	t.Run("Success", func(t *testing.T) {
		mockRepo := new(mocks.PushRepository)
		mockTransport := new(mocks.PushTransport)
		svc := push.NewServiceWithTransport(mockRepo, mockTransport)

		mockTransport.On("Push", ctx, mock.Anything, payload).Return(http.StatusCreated, nil).Once()

		err := svc.Deliver(ctx, reg, payload)

		assert.NoError(t, err)
		mockTransport.AssertExpectations(t)
		mockRepo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})

	t.Run("Gone Endpoint Is Pruned", func(t *testing.T) {
		mockRepo := new(mocks.PushRepository)
		mockTransport := new(mocks.PushTransport)
		svc := push.NewServiceWithTransport(mockRepo, mockTransport)

		mockTransport.On("Push", ctx, mock.Anything, payload).Return(http.StatusGone, nil).Once()
		mockRepo.On("Delete", ctx, reg.ID).Return(nil).Once()

		err := svc.Deliver(ctx, reg, payload)

		assert.ErrorIs(t, err, push.ErrRegistrationGone)
		mockRepo.AssertExpectations(t)
	})

	t.Run("Not Found Endpoint Is Pruned", func(t *testing.T) {
		mockRepo := new(mocks.PushRepository)
		mockTransport := new(mocks.PushTransport)
		svc := push.NewServiceWithTransport(mockRepo, mockTransport)

		mockTransport.On("Push", ctx, mock.Anything, payload).Return(http.StatusNotFound, nil).Once()
		mockRepo.On("Delete", ctx, reg.ID).Return(nil).Once()

		err := svc.Deliver(ctx, reg, payload)

		assert.ErrorIs(t, err, push.ErrRegistrationGone)
		mockRepo.AssertExpectations(t)
	})

	t.Run("Provider Error Keeps Registration", func(t *testing.T) {
		mockRepo := new(mocks.PushRepository)
		mockTransport := new(mocks.PushTransport)
		svc := push.NewServiceWithTransport(mockRepo, mockTransport)

		mockTransport.On("Push", ctx, mock.Anything, payload).Return(http.StatusInternalServerError, nil).Once()

		err := svc.Deliver(ctx, reg, payload)

		assert.Error(t, err)
		assert.NotErrorIs(t, err, push.ErrRegistrationGone)
		mockRepo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})

	t.Run("Transport Error Keeps Registration", func(t *testing.T) {
		mockRepo := new(mocks.PushRepository)
		mockTransport := new(mocks.PushTransport)
		svc := push.NewServiceWithTransport(mockRepo, mockTransport)

		mockTransport.On("Push", ctx, mock.Anything, payload).Return(0, assert.AnError).Once()

		err := svc.Deliver(ctx, reg, payload)

		assert.Error(t, err)
		mockRepo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})
}
