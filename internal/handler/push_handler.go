package handler

import (
	"github.com/gofiber/fiber/v2"

	"sauti-jamii/internal/domain"
	"sauti-jamii/internal/middleware"
	"sauti-jamii/internal/service/push"
)

type PushHandler struct {
	pushService push.Service
}

func NewPushHandler(pushService push.Service) *PushHandler {
	return &PushHandler{pushService: pushService}
}

func (h *PushHandler) Subscribe(c *fiber.Ctx) error {
	userID := middleware.GetCurrentUserID(c)

	var input domain.RegisterPushInput
	if err := c.BodyParser(&input); err != nil {
		return middleware.BadRequest("Invalid request body")
	}

	var userAgent *string
	if ua := c.Get("User-Agent"); ua != "" {
		userAgent = &ua
	}

	reg, err := h.pushService.Register(c.Context(), userID, input, userAgent)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(reg)
}

func (h *PushHandler) Unsubscribe(c *fiber.Ctx) error {
	userID := middleware.GetCurrentUserID(c)

	var input domain.UnregisterPushInput
	if err := c.BodyParser(&input); err != nil {
		return middleware.BadRequest("Invalid request body")
	}

	if err := h.pushService.Unregister(c.Context(), userID, input.Endpoint); err != nil {
		return err
	}

	return c.SendStatus(fiber.StatusNoContent)
}
