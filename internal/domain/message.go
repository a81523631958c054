package domain

import (
	"time"

	"github.com/google/uuid"
)

type Message struct {
	ID          uuid.UUID  `json:"id" db:"id"`
	SenderID    uuid.UUID  `json:"sender_id" db:"sender_id"`
	RecipientID uuid.UUID  `json:"recipient_id" db:"recipient_id"`
	Body        string     `json:"body" db:"body"`
	Topic       *string    `json:"topic,omitempty" db:"topic"`
	Category    string     `json:"category" db:"category"`
	IsRead      bool       `json:"is_read" db:"is_read"`
	SentAt      time.Time  `json:"sent_at" db:"sent_at"`
	DeliveredAt *time.Time `json:"delivered_at,omitempty" db:"delivered_at"`
	ReadAt      *time.Time `json:"read_at,omitempty" db:"read_at"`
}

type SendMessageInput struct {
	RecipientID uuid.UUID `json:"recipient_id" validate:"required"`
	Body        string    `json:"body" validate:"required"`
	Topic       *string   `json:"topic,omitempty"`
	Category    string    `json:"category"`
}
