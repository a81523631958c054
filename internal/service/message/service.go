// Package message tracks the lifecycle of point-to-point messages. Delivery
// and read are recipient-asserted facts: the server records them only when the
// recipient's client acknowledges, never by inference.
package message

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"sauti-jamii/internal/domain"
	"sauti-jamii/internal/realtime"
	"sauti-jamii/internal/repository"
	"sauti-jamii/internal/service/notifier"
)

type Service interface {
	Send(ctx context.Context, senderID uuid.UUID, input domain.SendMessageInput) (*domain.Message, error)
	// AcknowledgeDelivered is idempotent: repeating the ack returns the same
	// delivered_at timestamp without further effect.
	AcknowledgeDelivered(ctx context.Context, messageID, actorID uuid.UUID) (*domain.Message, error)
	// AcknowledgeRead is likewise idempotent and, like delivery, may only be
	// asserted by the recipient.
	AcknowledgeRead(ctx context.Context, messageID, actorID uuid.UUID) (*domain.Message, error)
	ListConversation(ctx context.Context, userID, peerID uuid.UUID, params domain.PaginationParams) (domain.PaginatedResponse[domain.Message], error)
	ListInbox(ctx context.Context, userID uuid.UUID, params domain.PaginationParams) (domain.PaginatedResponse[domain.Message], error)
}

type service struct {
	messageRepo repository.MessageRepository
	userRepo    repository.UserRepository
	registry    *realtime.Registry
	notifier    notifier.Service
}

func NewService(
	messageRepo repository.MessageRepository,
	userRepo repository.UserRepository,
	registry *realtime.Registry,
	notifierSvc notifier.Service,
) Service {
	return &service{
		messageRepo: messageRepo,
		userRepo:    userRepo,
		registry:    registry,
		notifier:    notifierSvc,
	}
}

// lifecycleEvent is the live payload emitted to the sender's connections when
// the recipient acknowledges delivery or read.
type lifecycleEvent struct {
	Event     string     `json:"event"`
	MessageID uuid.UUID  `json:"message_id"`
	At        *time.Time `json:"at,omitempty"`
}

func (s *service) Send(ctx context.Context, senderID uuid.UUID, input domain.SendMessageInput) (*domain.Message, error) {
	if input.RecipientID == uuid.Nil {
		return nil, fmt.Errorf("%w: recipient is required", domain.ErrInvalidInput)
	}
	if strings.TrimSpace(input.Body) == "" {
		return nil, fmt.Errorf("%w: message body is required", domain.ErrInvalidInput)
	}

	sender, err := s.userRepo.GetByID(ctx, senderID)
	if err != nil {
		return nil, err
	}
	if _, err := s.userRepo.GetByID(ctx, input.RecipientID); err != nil {
		return nil, err
	}

	category := input.Category
	if category == "" {
		category = "general"
	}

	msg := &domain.Message{
		ID:          uuid.New(),
		SenderID:    senderID,
		RecipientID: input.RecipientID,
		Body:        input.Body,
		Topic:       input.Topic,
		Category:    category,
	}

	if err := s.messageRepo.Create(ctx, msg); err != nil {
		return nil, err
	}

	// Notifying is best-effort: the message is durably stored regardless of
	// whether the recipient can be reached on any channel right now.
	if _, err := s.notifier.Notify(ctx, msg.RecipientID, domain.NotificationInput{
		Type:  domain.NotifNewMessage,
		Title: fmt.Sprintf("New message from %s", sender.FullName),
		Body:  msg.Body,
		Data: map[string]string{
			"message_id": msg.ID.String(),
			"sender_id":  msg.SenderID.String(),
			"category":   msg.Category,
		},
	}); err != nil {
		log.Printf("message: failed to notify recipient %s: %v", msg.RecipientID, err)
	}

	return msg, nil
}

func (s *service) AcknowledgeDelivered(ctx context.Context, messageID, actorID uuid.UUID) (*domain.Message, error) {
	msg, err := s.messageRepo.GetByID(ctx, messageID)
	if err != nil {
		return nil, err
	}
	if msg.RecipientID != actorID {
		return nil, fmt.Errorf("%w: only the recipient may acknowledge delivery", domain.ErrForbidden)
	}

	if msg.DeliveredAt != nil {
		return msg, nil
	}

	transitioned, err := s.messageRepo.MarkDelivered(ctx, messageID)
	if err != nil {
		return nil, err
	}

	// Reload so concurrent acks all observe the single delivered_at value.
	msg, err = s.messageRepo.GetByID(ctx, messageID)
	if err != nil {
		return nil, err
	}

	if transitioned {
		s.registry.Broadcast(msg.SenderID, lifecycleEvent{
			Event:     "message:delivered",
			MessageID: msg.ID,
			At:        msg.DeliveredAt,
		})
	}

	return msg, nil
}

func (s *service) AcknowledgeRead(ctx context.Context, messageID, actorID uuid.UUID) (*domain.Message, error) {
	msg, err := s.messageRepo.GetByID(ctx, messageID)
	if err != nil {
		return nil, err
	}
	if msg.RecipientID != actorID {
		return nil, fmt.Errorf("%w: only the recipient may mark a message read", domain.ErrForbidden)
	}

	if msg.ReadAt != nil {
		return msg, nil
	}

	transitioned, err := s.messageRepo.MarkRead(ctx, messageID)
	if err != nil {
		return nil, err
	}

	msg, err = s.messageRepo.GetByID(ctx, messageID)
	if err != nil {
		return nil, err
	}

	if transitioned {
		s.registry.Broadcast(msg.SenderID, lifecycleEvent{
			Event:     "message:read",
			MessageID: msg.ID,
			At:        msg.ReadAt,
		})
	}

	return msg, nil
}

func (s *service) ListConversation(ctx context.Context, userID, peerID uuid.UUID, params domain.PaginationParams) (domain.PaginatedResponse[domain.Message], error) {
	messages, total, err := s.messageRepo.ListConversation(ctx, userID, peerID, params)
	if err != nil {
		return domain.PaginatedResponse[domain.Message]{}, err
	}
	return domain.NewPaginatedResponse(messages, params.Page, params.PageSize, total), nil
}

func (s *service) ListInbox(ctx context.Context, userID uuid.UUID, params domain.PaginationParams) (domain.PaginatedResponse[domain.Message], error) {
	messages, total, err := s.messageRepo.ListInbox(ctx, userID, params)
	if err != nil {
		return domain.PaginatedResponse[domain.Message]{}, err
	}
	return domain.NewPaginatedResponse(messages, params.Page, params.PageSize, total), nil
}
