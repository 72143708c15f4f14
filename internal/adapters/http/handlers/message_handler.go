package handlers

import (
	"dailywage-hub/internal/core/services"
	"dailywage-hub/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// MessageHandler handles direct message endpoints
type MessageHandler struct {
	messageService *services.MessageService
}

// NewMessageHandler creates a new message handler
func NewMessageHandler(messageService *services.MessageService) *MessageHandler {
	return &MessageHandler{messageService: messageService}
}

type sendMessageRequest struct {
	SenderID   string `json:"senderId"`
	ReceiverID string `json:"receiverId"`
	JobID      string `json:"jobId"`
	Content    string `json:"content"`
}

// Send sends a message
// @Summary Send message
// @Tags Messages
// @Accept json
// @Produce json
// @Security SessionCookie
// @Param body body sendMessageRequest true "Message"
// @Success 201 {object} models.Message
// @Failure 400 {object} response.ErrorBody
// @Failure 403 {object} response.ErrorBody
// @Failure 404 {object} response.ErrorBody
// @Router /messages [post]
func (h *MessageHandler) Send(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return err
	}

	var req sendMessageRequest
	if err := bind(c, sendMessageSchema, &req); err != nil {
		return err
	}

	input := &services.SendInput{Content: req.Content}
	if input.SenderID, err = parseUUID(req.SenderID, "senderId"); err != nil {
		return err
	}
	if input.ReceiverID, err = parseUUID(req.ReceiverID, "receiverId"); err != nil {
		return err
	}
	if req.JobID != "" {
		var jobID uuid.UUID
		if jobID, err = parseUUID(req.JobID, "jobId"); err != nil {
			return err
		}
		input.JobID = &jobID
	}

	msg, err := h.messageService.Send(c.Context(), p, input)
	if err != nil {
		return err
	}
	return response.Created(c, msg)
}

// Conversation lists messages between two users
// @Summary Get conversation
// @Tags Messages
// @Produce json
// @Security SessionCookie
// @Param userId1 path string true "User ID"
// @Param userId2 path string true "User ID"
// @Success 200 {array} models.Message
// @Failure 403 {object} response.ErrorBody
// @Router /messages/{userId1}/{userId2} [get]
func (h *MessageHandler) Conversation(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	userA, err := uuidParam(c, "userId1")
	if err != nil {
		return err
	}
	userB, err := uuidParam(c, "userId2")
	if err != nil {
		return err
	}

	msgs, err := h.messageService.Conversation(c.Context(), p, userA, userB)
	if err != nil {
		return err
	}
	return response.OK(c, msgs)
}

// MarkRead marks a message read
// @Summary Mark message read
// @Tags Messages
// @Produce json
// @Security SessionCookie
// @Param id path string true "Message ID"
// @Success 200 {object} models.Message
// @Failure 403 {object} response.ErrorBody
// @Failure 404 {object} response.ErrorBody
// @Router /messages/{id}/read [patch]
func (h *MessageHandler) MarkRead(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	id, err := uuidParam(c, "id")
	if err != nil {
		return err
	}

	msg, err := h.messageService.MarkRead(c.Context(), p, id)
	if err != nil {
		return err
	}
	return response.OK(c, msg)
}

// UnreadCount counts the caller's unread messages
// @Summary Unread message count
// @Tags Messages
// @Produce json
// @Security SessionCookie
// @Success 200 {object} services.UnreadCount
// @Router /messages/unread-count [get]
func (h *MessageHandler) UnreadCount(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return err
	}

	count, err := h.messageService.UnreadCount(c.Context(), p)
	if err != nil {
		return err
	}
	return response.OK(c, count)
}
