package message_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"sauti-jamii/internal/domain"
	"sauti-jamii/internal/mocks"
	"sauti-jamii/internal/realtime"
	"sauti-jamii/internal/service/message"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type captureSink struct {
	mu       sync.Mutex
	payloads []any
}

func (s *captureSink) Deliver(payload any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.payloads = append(s.payloads, payload)
	return nil
}

func (s *captureSink) Close() error { return nil }

func (s *captureSink) received() []any {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]any(nil), s.payloads...)
}

func TestMessageService_Send(t *testing.T) {
	ctx := context.Background()
	senderID := uuid.New()
	recipientID := uuid.New()
	sender := &domain.User{ID: senderID, FullName: "Amina Odhiambo", Role: domain.RoleCitizen}
	recipient := &domain.User{ID: recipientID, FullName: "Brian Mwangi", Role: domain.RoleRepresentative}

	t.Run("Success", func(t *testing.T) {
		mockMsgRepo := new(mocks.MessageRepository)
		mockUserRepo := new(mocks.UserRepository)
		mockNotifier := new(mocks.NotifierService)
		svc := message.NewService(mockMsgRepo, mockUserRepo, realtime.NewRegistry(), mockNotifier)

		mockUserRepo.On("GetByID", ctx, senderID).Return(sender, nil).Once()
		mockUserRepo.On("GetByID", ctx, recipientID).Return(recipient, nil).Once()
		mockMsgRepo.On("Create", ctx, mock.MatchedBy(func(m *domain.Message) bool {
			return m.SenderID == senderID && m.RecipientID == recipientID && m.Body == "Water main burst on Moi Avenue"
		})).Return(nil).Once()
		mockNotifier.On("Notify", ctx, recipientID, mock.MatchedBy(func(in domain.NotificationInput) bool {
			return in.Type == domain.NotifNewMessage && in.Data["sender_id"] == senderID.String()
		})).Return(&domain.Notification{}, nil).Once()

		msg, err := svc.Send(ctx, senderID, domain.SendMessageInput{
			RecipientID: recipientID,
			Body:        "Water main burst on Moi Avenue",
		})

		assert.NoError(t, err)
		assert.NotNil(t, msg)
		assert.Equal(t, "general", msg.Category)
		assert.Nil(t, msg.DeliveredAt)
		assert.Nil(t, msg.ReadAt)
		mockMsgRepo.AssertExpectations(t)
		mockNotifier.AssertExpectations(t)
	})

	t.Run("Notifier Failure Does Not Fail Send", func(t *testing.T) {
		mockMsgRepo := new(mocks.MessageRepository)
		mockUserRepo := new(mocks.UserRepository)
		mockNotifier := new(mocks.NotifierService)
		svc := message.NewService(mockMsgRepo, mockUserRepo, realtime.NewRegistry(), mockNotifier)

		mockUserRepo.On("GetByID", ctx, senderID).Return(sender, nil).Once()
		mockUserRepo.On("GetByID", ctx, recipientID).Return(recipient, nil).Once()
		mockMsgRepo.On("Create", ctx, mock.Anything).Return(nil).Once()
		mockNotifier.On("Notify", ctx, recipientID, mock.Anything).Return(nil, assert.AnError).Once()

		msg, err := svc.Send(ctx, senderID, domain.SendMessageInput{
			RecipientID: recipientID,
			Body:        "Are the new clinic hours posted?",
		})

		assert.NoError(t, err)
		assert.NotNil(t, msg)
	})

	t.Run("Missing Recipient", func(t *testing.T) {
		mockMsgRepo := new(mocks.MessageRepository)
		svc := message.NewService(mockMsgRepo, new(mocks.UserRepository), realtime.NewRegistry(), new(mocks.NotifierService))

		msg, err := svc.Send(ctx, senderID, domain.SendMessageInput{Body: "hello"})

		assert.ErrorIs(t, err, domain.ErrInvalidInput)
		assert.Nil(t, msg)
		mockMsgRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("Blank Body", func(t *testing.T) {
		svc := message.NewService(new(mocks.MessageRepository), new(mocks.UserRepository), realtime.NewRegistry(), new(mocks.NotifierService))

		msg, err := svc.Send(ctx, senderID, domain.SendMessageInput{RecipientID: recipientID, Body: "   "})

		assert.ErrorIs(t, err, domain.ErrInvalidInput)
		assert.Nil(t, msg)
	})

	t.Run("Unknown Recipient", func(t *testing.T) {
		mockUserRepo := new(mocks.UserRepository)
		svc := message.NewService(new(mocks.MessageRepository), mockUserRepo, realtime.NewRegistry(), new(mocks.NotifierService))

		mockUserRepo.On("GetByID", ctx, senderID).Return(sender, nil).Once()
		mockUserRepo.On("GetByID", ctx, recipientID).Return(nil, domain.ErrNotFound).Once()

		msg, err := svc.Send(ctx, senderID, domain.SendMessageInput{RecipientID: recipientID, Body: "hello"})

		assert.ErrorIs(t, err, domain.ErrNotFound)
		assert.Nil(t, msg)
	})
}

func TestMessageService_AcknowledgeDelivered(t *testing.T) {
	ctx := context.Background()
	senderID := uuid.New()
	recipientID := uuid.New()
	messageID := uuid.New()

	pending := &domain.Message{ID: messageID, SenderID: senderID, RecipientID: recipientID, Body: "hello"}
	deliveredAt := time.Now()
	delivered := &domain.Message{ID: messageID, SenderID: senderID, RecipientID: recipientID, Body: "hello", DeliveredAt: &deliveredAt}

	t.Run("Recipient Ack Transitions And Notifies Sender", func(t *testing.T) {
		mockMsgRepo := new(mocks.MessageRepository)
		registry := realtime.NewRegistry()
		senderSink := &captureSink{}
		registry.Attach(senderID, senderSink)
		svc := message.NewService(mockMsgRepo, new(mocks.UserRepository), registry, new(mocks.NotifierService))

		mockMsgRepo.On("GetByID", ctx, messageID).Return(pending, nil).Once()
		mockMsgRepo.On("MarkDelivered", ctx, messageID).Return(true, nil).Once()
		mockMsgRepo.On("GetByID", ctx, messageID).Return(delivered, nil).Once()

		msg, err := svc.AcknowledgeDelivered(ctx, messageID, recipientID)

		assert.NoError(t, err)
		assert.NotNil(t, msg.DeliveredAt)
		assert.Len(t, senderSink.received(), 1)
		mockMsgRepo.AssertExpectations(t)
	})

	t.Run("Repeat Ack Is Idempotent", func(t *testing.T) {
		mockMsgRepo := new(mocks.MessageRepository)
		svc := message.NewService(mockMsgRepo, new(mocks.UserRepository), realtime.NewRegistry(), new(mocks.NotifierService))

		mockMsgRepo.On("GetByID", ctx, messageID).Return(delivered, nil).Once()

		msg, err := svc.AcknowledgeDelivered(ctx, messageID, recipientID)

		assert.NoError(t, err)
		assert.Equal(t, &deliveredAt, msg.DeliveredAt)
		mockMsgRepo.AssertNotCalled(t, "MarkDelivered", mock.Anything, mock.Anything)
	})

	t.Run("Concurrent Ack Lost Race Still Succeeds", func(t *testing.T) {
		mockMsgRepo := new(mocks.MessageRepository)
		registry := realtime.NewRegistry()
		senderSink := &captureSink{}
		registry.Attach(senderID, senderSink)
		svc := message.NewService(mockMsgRepo, new(mocks.UserRepository), registry, new(mocks.NotifierService))

		mockMsgRepo.On("GetByID", ctx, messageID).Return(pending, nil).Once()
		mockMsgRepo.On("MarkDelivered", ctx, messageID).Return(false, nil).Once()
		mockMsgRepo.On("GetByID", ctx, messageID).Return(delivered, nil).Once()

		msg, err := svc.AcknowledgeDelivered(ctx, messageID, recipientID)

		assert.NoError(t, err)
		assert.Equal(t, &deliveredAt, msg.DeliveredAt)
		// The winning ack already broadcast; the loser must not repeat it.
		assert.Empty(t, senderSink.received())
	})

	t.Run("Non Recipient Is Forbidden", func(t *testing.T) {
		mockMsgRepo := new(mocks.MessageRepository)
		svc := message.NewService(mockMsgRepo, new(mocks.UserRepository), realtime.NewRegistry(), new(mocks.NotifierService))

		mockMsgRepo.On("GetByID", ctx, messageID).Return(pending, nil).Once()

		msg, err := svc.AcknowledgeDelivered(ctx, messageID, senderID)

		assert.ErrorIs(t, err, domain.ErrForbidden)
		assert.Nil(t, msg)
		mockMsgRepo.AssertNotCalled(t, "MarkDelivered", mock.Anything, mock.Anything)
	})

	t.Run("Unknown Message", func(t *testing.T) {
		mockMsgRepo := new(mocks.MessageRepository)
		svc := message.NewService(mockMsgRepo, new(mocks.UserRepository), realtime.NewRegistry(), new(mocks.NotifierService))

		mockMsgRepo.On("GetByID", ctx, messageID).Return(nil, domain.ErrNotFound).Once()

		msg, err := svc.AcknowledgeDelivered(ctx, messageID, recipientID)

		assert.ErrorIs(t, err, domain.ErrNotFound)
		assert.Nil(t, msg)
	})
}

func TestMessageService_AcknowledgeRead(t *testing.T) {
	ctx := context.Background()
	senderID := uuid.New()
	recipientID := uuid.New()
	messageID := uuid.New()

	unread := &domain.Message{ID: messageID, SenderID: senderID, RecipientID: recipientID, Body: "hello"}
	readAt := time.Now()
	read := &domain.Message{ID: messageID, SenderID: senderID, RecipientID: recipientID, Body: "hello", IsRead: true, ReadAt: &readAt}

	t.Run("Recipient Ack Transitions And Notifies Sender", func(t *testing.T) {
		mockMsgRepo := new(mocks.MessageRepository)
		registry := realtime.NewRegistry()
		senderSink := &captureSink{}
		registry.Attach(senderID, senderSink)
		svc := message.NewService(mockMsgRepo, new(mocks.UserRepository), registry, new(mocks.NotifierService))

		mockMsgRepo.On("GetByID", ctx, messageID).Return(unread, nil).Once()
		mockMsgRepo.On("MarkRead", ctx, messageID).Return(true, nil).Once()
		mockMsgRepo.On("GetByID", ctx, messageID).Return(read, nil).Once()

		msg, err := svc.AcknowledgeRead(ctx, messageID, recipientID)

		assert.NoError(t, err)
		assert.True(t, msg.IsRead)
		assert.Len(t, senderSink.received(), 1)
	})

	t.Run("Repeat Ack Is Idempotent", func(t *testing.T) {
		mockMsgRepo := new(mocks.MessageRepository)
		svc := message.NewService(mockMsgRepo, new(mocks.UserRepository), realtime.NewRegistry(), new(mocks.NotifierService))

		mockMsgRepo.On("GetByID", ctx, messageID).Return(read, nil).Once()

		msg, err := svc.AcknowledgeRead(ctx, messageID, recipientID)

		assert.NoError(t, err)
		assert.Equal(t, &readAt, msg.ReadAt)
		mockMsgRepo.AssertNotCalled(t, "MarkRead", mock.Anything, mock.Anything)
	})

	t.Run("Sender Cannot Mark Read", func(t *testing.T) {
		mockMsgRepo := new(mocks.MessageRepository)
		svc := message.NewService(mockMsgRepo, new(mocks.UserRepository), realtime.NewRegistry(), new(mocks.NotifierService))

		mockMsgRepo.On("GetByID", ctx, messageID).Return(unread, nil).Once()

		msg, err := svc.AcknowledgeRead(ctx, messageID, senderID)

		assert.ErrorIs(t, err, domain.ErrForbidden)
		assert.Nil(t, msg)
	})
}

func TestMessageService_ListInbox(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	params := domain.PaginationParams{Page: 1, PageSize: 20}

	mockMsgRepo := new(mocks.MessageRepository)
	svc := message.NewService(mockMsgRepo, new(mocks.UserRepository), realtime.NewRegistry(), new(mocks.NotifierService))

	stored := []domain.Message{{ID: uuid.New(), RecipientID: userID, Body: "one"}}
	mockMsgRepo.On("ListInbox", ctx, userID, params).Return(stored, int64(1), nil).Once()

	page, err := svc.ListInbox(ctx, userID, params)

	assert.NoError(t, err)
	assert.Equal(t, int64(1), page.TotalItems)
	assert.Len(t, page.Data, 1)
	mockMsgRepo.AssertExpectations(t)
}
