package domain

import (
	"time"

	"github.com/google/uuid"
)

// PushRegistration is one device/browser push subscription: the provider
// endpoint plus the key material needed to address it. Unique per
// (user, endpoint); re-registering replaces the key material.
type PushRegistration struct {
	ID        uuid.UUID `json:"id" db:"id"`
	UserID    uuid.UUID `json:"user_id" db:"user_id"`
	Endpoint  string    `json:"endpoint" db:"endpoint"`
	P256dh    string    `json:"-" db:"p256dh"`
	Auth      string    `json:"-" db:"auth"`
	UserAgent *string   `json:"user_agent,omitempty" db:"user_agent"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

type RegisterPushInput struct {
	Endpoint string `json:"endpoint" validate:"required"`
	P256dh   string `json:"p256dh" validate:"required"`
	Auth     string `json:"auth" validate:"required"`
}

type UnregisterPushInput struct {
	Endpoint string `json:"endpoint" validate:"required"`
}
