package handler

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/huddlehq/huddle-backend/internal/domain"
	"github.com/huddlehq/huddle-backend/internal/middleware"
	"github.com/huddlehq/huddle-backend/internal/service"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

// MessageHandler handles message, thread and reaction HTTP requests
type MessageHandler struct {
	messageService *service.MessageService
}

// NewMessageHandler creates a new MessageHandler
func NewMessageHandler(messageService *service.MessageService) *MessageHandler {
	return &MessageHandler{messageService: messageService}
}

// EditMessageRequest represents the edit message request body
type EditMessageRequest struct {
	Body string `json:"body"`
}

// ToggleReactionRequest represents the toggle reaction request body
type ToggleReactionRequest struct {
	Value string `json:"value"`
}

func messageBodyError(c echo.Context, err error) (error, bool) {
	if errors.Is(err, domain.ErrBodyRequired) {
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "body", Message: "Body is required"},
		}), true
	}
	if errors.Is(err, domain.ErrBodyTooLong) {
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "body", Message: "Body must be 10000 characters or less"},
		}), true
	}
	return nil, false
}

// CreateMessage handles POST /api/v1/messages
func (h *MessageHandler) CreateMessage(c echo.Context) error {
	userID := middleware.GetUserID(c)

	var input service.CreateMessageInput
	if err := c.Bind(&input); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	message, err := h.messageService.Create(c.Request().Context(), userID, input)
	if err != nil {
		if resp, ok := messageBodyError(c, err); ok {
			return resp
		}
		if errors.Is(err, domain.ErrInvalidMessageStream) {
			return NewValidationError(c, "Exactly one of channelId and conversationId must be set", nil)
		}
		if errors.Is(err, domain.ErrChannelNotFound) {
			return NewNotFoundError(c, "Channel not found")
		}
		if errors.Is(err, domain.ErrConversationNotFound) {
			return NewNotFoundError(c, "Conversation not found")
		}
		if errors.Is(err, domain.ErrMessageNotFound) {
			return NewNotFoundError(c, "Parent message not found")
		}
		if errors.Is(err, domain.ErrUnauthorized) {
			return NewForbiddenError(c, "Workspace membership required")
		}
		log.Error().Err(err).Stringer("user_id", userID).Msg("Failed to create message")
		return NewInternalError(c, "Failed to create message")
	}

	return c.JSON(http.StatusCreated, message)
}

// EditMessage handles PATCH /api/v1/messages/:id
func (h *MessageHandler) EditMessage(c echo.Context) error {
	userID := middleware.GetUserID(c)

	messageID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid message ID", nil)
	}

	var req EditMessageRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	message, err := h.messageService.Edit(c.Request().Context(), userID, messageID, req.Body)
	if err != nil {
		if resp, ok := messageBodyError(c, err); ok {
			return resp
		}
		if errors.Is(err, domain.ErrMessageNotFound) {
			return NewNotFoundError(c, "Message not found")
		}
		if errors.Is(err, domain.ErrNotMessageAuthor) {
			return NewForbiddenError(c, "Only the author can edit a message")
		}
		if errors.Is(err, domain.ErrUnauthorized) {
			return NewForbiddenError(c, "Workspace membership required")
		}
		log.Error().Err(err).Stringer("message_id", messageID).Msg("Failed to edit message")
		return NewInternalError(c, "Failed to edit message")
	}

	return c.JSON(http.StatusOK, message)
}

// DeleteMessage handles DELETE /api/v1/messages/:id
func (h *MessageHandler) DeleteMessage(c echo.Context) error {
	userID := middleware.GetUserID(c)

	messageID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid message ID", nil)
	}

	if err := h.messageService.Delete(c.Request().Context(), userID, messageID); err != nil {
		if errors.Is(err, domain.ErrMessageNotFound) {
			return NewNotFoundError(c, "Message not found")
		}
		if errors.Is(err, domain.ErrUnauthorized) {
			return NewForbiddenError(c, "Author or admin role required")
		}
		log.Error().Err(err).Stringer("message_id", messageID).Msg("Failed to delete message")
		return NewInternalError(c, "Failed to delete message")
	}

	return c.NoContent(http.StatusNoContent)
}

// GetThread handles GET /api/v1/messages/:id/thread
func (h *MessageHandler) GetThread(c echo.Context) error {
	userID := middleware.GetUserID(c)

	messageID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid message ID", nil)
	}

	replies, err := h.messageService.ListThread(c.Request().Context(), userID, messageID)
	if err != nil {
		if errors.Is(err, domain.ErrMessageNotFound) {
			return NewNotFoundError(c, "Message not found")
		}
		if errors.Is(err, domain.ErrUnauthorized) {
			return NewForbiddenError(c, "Workspace membership required")
		}
		log.Error().Err(err).Stringer("message_id", messageID).Msg("Failed to list thread")
		return NewInternalError(c, "Failed to list thread")
	}

	return c.JSON(http.StatusOK, replies)
}

// GetReactions handles GET /api/v1/messages/:id/reactions
func (h *MessageHandler) GetReactions(c echo.Context) error {
	userID := middleware.GetUserID(c)

	messageID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid message ID", nil)
	}

	reactions, err := h.messageService.Reactions(c.Request().Context(), userID, messageID)
	if err != nil {
		if errors.Is(err, domain.ErrMessageNotFound) {
			return NewNotFoundError(c, "Message not found")
		}
		if errors.Is(err, domain.ErrUnauthorized) {
			return NewForbiddenError(c, "Workspace membership required")
		}
		log.Error().Err(err).Stringer("message_id", messageID).Msg("Failed to list reactions")
		return NewInternalError(c, "Failed to list reactions")
	}

	return c.JSON(http.StatusOK, reactions)
}

// ToggleReaction handles POST /api/v1/messages/:id/reactions
func (h *MessageHandler) ToggleReaction(c echo.Context) error {
	userID := middleware.GetUserID(c)

	messageID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid message ID", nil)
	}

	var req ToggleReactionRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	added, err := h.messageService.ToggleReaction(c.Request().Context(), userID, messageID, req.Value)
	if err != nil {
		if errors.Is(err, domain.ErrValueRequired) {
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "value", Message: "Value is required"},
			})
		}
		if errors.Is(err, domain.ErrMessageNotFound) {
			return NewNotFoundError(c, "Message not found")
		}
		if errors.Is(err, domain.ErrUnauthorized) {
			return NewForbiddenError(c, "Workspace membership required")
		}
		log.Error().Err(err).Stringer("message_id", messageID).Msg("Failed to toggle reaction")
		return NewInternalError(c, "Failed to toggle reaction")
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"added": added,
	})
}
