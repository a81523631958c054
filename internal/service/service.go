package service

import (
	"github.com/redis/go-redis/v9"

	"sauti-jamii/internal/config"
	"sauti-jamii/internal/realtime"
	"sauti-jamii/internal/repository"
	"sauti-jamii/internal/service/email"
	"sauti-jamii/internal/service/issue"
	"sauti-jamii/internal/service/message"
	"sauti-jamii/internal/service/notifier"
	"sauti-jamii/internal/service/push"
)

type Services struct {
	Message  message.Service
	Issue    issue.Service
	Notifier notifier.Service
	Push     push.Service
	Email    email.Service
}

func NewServices(repos *repository.Repositories, redisClient *redis.Client, registry *realtime.Registry, cfg *config.Config) *Services {
	emailService := email.NewService(cfg)
	pushService := push.NewService(repos.Push, cfg)
	notifierService := notifier.NewService(
		repos.Notification,
		repos.Preference,
		repos.Push,
		repos.User,
		registry,
		pushService,
		emailService,
		redisClient,
	)
	messageService := message.NewService(repos.Message, repos.User, registry, notifierService)
	issueService := issue.NewService(repos.Issue, repos.IssueHistory, repos.User, notifierService)

	return &Services{
		Message:  messageService,
		Issue:    issueService,
		Notifier: notifierService,
		Push:     pushService,
		Email:    emailService,
	}
}
