package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"sauti-jamii/internal/domain"
	"sauti-jamii/internal/middleware"
	"sauti-jamii/internal/service/notifier"
)

type NotificationHandler struct {
	notifService notifier.Service
}

func NewNotificationHandler(notifService notifier.Service) *NotificationHandler {
	return &NotificationHandler{notifService: notifService}
}

func (h *NotificationHandler) List(c *fiber.Ctx) error {
	userID := middleware.GetCurrentUserID(c)

	params := getPaginationParams(c)
	unreadOnly := c.Query("unread_only") == "true"

	result, err := h.notifService.List(c.Context(), userID, unreadOnly, params)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(result)
}

func (h *NotificationHandler) GetUnreadCount(c *fiber.Ctx) error {
	userID := middleware.GetCurrentUserID(c)

	count, err := h.notifService.GetUnreadCount(c.Context(), userID)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"count": count,
	})
}

func (h *NotificationHandler) MarkAsRead(c *fiber.Ctx) error {
	notifID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return middleware.BadRequest("Invalid notification ID")
	}

	if err := h.notifService.MarkAsRead(c.Context(), middleware.GetCurrentUserID(c), notifID); err != nil {
		return err
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func (h *NotificationHandler) MarkAllAsRead(c *fiber.Ctx) error {
	if err := h.notifService.MarkAllAsRead(c.Context(), middleware.GetCurrentUserID(c)); err != nil {
		return err
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func (h *NotificationHandler) GetPreferences(c *fiber.Ctx) error {
	pref, err := h.notifService.GetPreferences(c.Context(), middleware.GetCurrentUserID(c))
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(pref)
}

func (h *NotificationHandler) UpdatePreferences(c *fiber.Ctx) error {
	var input domain.UpdatePreferenceInput
	if err := c.BodyParser(&input); err != nil {
		return middleware.BadRequest("Invalid request body")
	}

	pref, err := h.notifService.UpdatePreferences(c.Context(), middleware.GetCurrentUserID(c), input)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(pref)
}

func (h *NotificationHandler) GetDeliverySettings(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(h.notifService.Settings())
}

func (h *NotificationHandler) UpdateDeliverySettings(c *fiber.Ctx) error {
	var settings notifier.ChannelSettings
	if err := c.BodyParser(&settings); err != nil {
		return middleware.BadRequest("Invalid request body")
	}

	h.notifService.UpdateSettings(settings)

	return c.Status(fiber.StatusOK).JSON(settings)
}
