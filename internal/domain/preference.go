package domain

import (
	"time"

	"github.com/google/uuid"
)

// NotificationPreference has one row per user, created lazily on first access.
type NotificationPreference struct {
	UserID    uuid.UUID `json:"user_id" db:"user_id"`
	InApp     bool      `json:"in_app" db:"in_app"`
	Push      bool      `json:"push" db:"push"`
	Email     bool      `json:"email" db:"email"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

func DefaultNotificationPreference(userID uuid.UUID) *NotificationPreference {
	return &NotificationPreference{
		UserID: userID,
		InApp:  true,
		Push:   true,
		Email:  false,
	}
}

type UpdatePreferenceInput struct {
	InApp *bool `json:"in_app,omitempty"`
	Push  *bool `json:"push,omitempty"`
	Email *bool `json:"email,omitempty"`
}
