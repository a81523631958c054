package handler

import (
	"github.com/gofiber/fiber/v2"

	"sauti-jamii/internal/domain"
	"sauti-jamii/internal/realtime"
	"sauti-jamii/internal/service"
)

type Handlers struct {
	Message      *MessageHandler
	Issue        *IssueHandler
	Notification *NotificationHandler
	Push         *PushHandler
	WS           *WSHandler
}

func NewHandlers(services *service.Services, registry *realtime.Registry) *Handlers {
	return &Handlers{
		Message:      NewMessageHandler(services.Message),
		Issue:        NewIssueHandler(services.Issue),
		Notification: NewNotificationHandler(services.Notifier),
		Push:         NewPushHandler(services.Push),
		WS:           NewWSHandler(registry),
	}
}

func getPaginationParams(c *fiber.Ctx) domain.PaginationParams {
	params := domain.PaginationParams{
		Page:     c.QueryInt("page", 1),
		PageSize: c.QueryInt("page_size", 20),
	}
	params.Validate()
	return params
}
