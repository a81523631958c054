package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

type Notification struct {
	ID        uuid.UUID        `json:"id" db:"id"`
	UserID    uuid.UUID        `json:"user_id" db:"user_id"`
	Type      NotificationType `json:"type" db:"type"`
	Title     string           `json:"title" db:"title"`
	Body      string           `json:"body" db:"body"`
	Data      json.RawMessage  `json:"data,omitempty" db:"data"`
	IsRead    bool             `json:"is_read" db:"is_read"`
	ReadAt    *time.Time       `json:"read_at,omitempty" db:"read_at"`
	CreatedAt time.Time        `json:"created_at" db:"created_at"`
}

type NotificationType string

const (
	NotifNewMessage    NotificationType = "new_message"
	NotifIssueStatus   NotificationType = "issue_status"
	NotifIssueAssigned NotificationType = "issue_assigned"
	NotifPolicyComment NotificationType = "policy_comment"
	NotifForumReply    NotificationType = "forum_reply"
)

// NotificationInput is the fan-out engine's "notify user X" intent.
type NotificationInput struct {
	Type  NotificationType
	Title string
	Body  string
	Data  map[string]string
}
