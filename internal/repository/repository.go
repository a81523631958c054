package repository

import (
	"github.com/jmoiron/sqlx"
)

type Repositories struct {
	User         UserRepository
	Message      MessageRepository
	Issue        IssueRepository
	IssueHistory IssueHistoryRepository
	Notification NotificationRepository
	Preference   PreferenceRepository
	Push         PushRepository
}

func NewRepositories(db *sqlx.DB) *Repositories {
	return &Repositories{
		User:         NewUserRepository(db),
		Message:      NewMessageRepository(db),
		Issue:        NewIssueRepository(db),
		IssueHistory: NewIssueHistoryRepository(db),
		Notification: NewNotificationRepository(db),
		Preference:   NewPreferenceRepository(db),
		Push:         NewPushRepository(db),
	}
}
