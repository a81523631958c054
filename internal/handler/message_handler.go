package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"sauti-jamii/internal/domain"
	"sauti-jamii/internal/middleware"
	"sauti-jamii/internal/service/message"
)

type MessageHandler struct {
	messageService message.Service
}

func NewMessageHandler(messageService message.Service) *MessageHandler {
	return &MessageHandler{messageService: messageService}
}

func (h *MessageHandler) Send(c *fiber.Ctx) error {
	senderID := middleware.GetCurrentUserID(c)

	var input domain.SendMessageInput
	if err := c.BodyParser(&input); err != nil {
		return middleware.BadRequest("Invalid request body")
	}

	msg, err := h.messageService.Send(c.Context(), senderID, input)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(msg)
}

func (h *MessageHandler) AcknowledgeDelivered(c *fiber.Ctx) error {
	messageID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return middleware.BadRequest("Invalid message ID")
	}

	msg, err := h.messageService.AcknowledgeDelivered(c.Context(), messageID, middleware.GetCurrentUserID(c))
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(msg)
}

func (h *MessageHandler) AcknowledgeRead(c *fiber.Ctx) error {
	messageID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return middleware.BadRequest("Invalid message ID")
	}

	msg, err := h.messageService.AcknowledgeRead(c.Context(), messageID, middleware.GetCurrentUserID(c))
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(msg)
}

func (h *MessageHandler) List(c *fiber.Ctx) error {
	userID := middleware.GetCurrentUserID(c)
	params := getPaginationParams(c)

	if with := c.Query("with"); with != "" {
		peerID, err := uuid.Parse(with)
		if err != nil {
			return middleware.BadRequest("Invalid peer ID")
		}
		result, err := h.messageService.ListConversation(c.Context(), userID, peerID, params)
		if err != nil {
			return err
		}
		return c.Status(fiber.StatusOK).JSON(result)
	}

	result, err := h.messageService.ListInbox(c.Context(), userID, params)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusOK).JSON(result)
}
