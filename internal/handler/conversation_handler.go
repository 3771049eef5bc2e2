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

// ConversationHandler handles conversation-related HTTP requests
type ConversationHandler struct {
	conversationService *service.ConversationService
	messageService      *service.MessageService
}

// NewConversationHandler creates a new ConversationHandler
func NewConversationHandler(conversationService *service.ConversationService, messageService *service.MessageService) *ConversationHandler {
	return &ConversationHandler{
		conversationService: conversationService,
		messageService:      messageService,
	}
}

// CreateConversationRequest represents the create-or-get conversation
// request body
type CreateConversationRequest struct {
	MemberID uuid.UUID `json:"memberId"`
}

// CreateConversation handles POST /api/v1/workspaces/:id/conversations
func (h *ConversationHandler) CreateConversation(c echo.Context) error {
	userID := middleware.GetUserID(c)

	workspaceID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid workspace ID", nil)
	}

	var req CreateConversationRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}
	if req.MemberID == uuid.Nil {
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "memberId", Message: "Member ID is required"},
		})
	}

	conversation, err := h.conversationService.CreateOrGet(c.Request().Context(), userID, workspaceID, req.MemberID)
	if err != nil {
		if errors.Is(err, domain.ErrMemberNotFound) {
			return NewNotFoundError(c, "Member not found")
		}
		if errors.Is(err, domain.ErrUnauthorized) {
			return NewForbiddenError(c, "Workspace membership required")
		}
		log.Error().Err(err).Stringer("workspace_id", workspaceID).Msg("Failed to create conversation")
		return NewInternalError(c, "Failed to create conversation")
	}

	return c.JSON(http.StatusOK, conversation)
}

// GetConversation handles GET /api/v1/conversations/:id
func (h *ConversationHandler) GetConversation(c echo.Context) error {
	userID := middleware.GetUserID(c)

	conversationID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid conversation ID", nil)
	}

	conversation, err := h.conversationService.Get(c.Request().Context(), userID, conversationID)
	if err != nil {
		if errors.Is(err, domain.ErrConversationNotFound) {
			return NewNotFoundError(c, "Conversation not found")
		}
		if errors.Is(err, domain.ErrUnauthorized) {
			return NewForbiddenError(c, "Conversation participants only")
		}
		log.Error().Err(err).Stringer("conversation_id", conversationID).Msg("Failed to get conversation")
		return NewInternalError(c, "Failed to get conversation")
	}

	return c.JSON(http.StatusOK, conversation)
}

// GetConversationMessages handles GET /api/v1/conversations/:id/messages
func (h *ConversationHandler) GetConversationMessages(c echo.Context) error {
	userID := middleware.GetUserID(c)

	conversationID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid conversation ID", nil)
	}

	limit, offset := pageParams(c)

	messages, err := h.messageService.ListConversation(c.Request().Context(), userID, conversationID, limit, offset)
	if err != nil {
		if errors.Is(err, domain.ErrConversationNotFound) {
			return NewNotFoundError(c, "Conversation not found")
		}
		if errors.Is(err, domain.ErrUnauthorized) {
			return NewForbiddenError(c, "Conversation participants only")
		}
		log.Error().Err(err).Stringer("conversation_id", conversationID).Msg("Failed to list conversation messages")
		return NewInternalError(c, "Failed to list conversation messages")
	}

	return c.JSON(http.StatusOK, messages)
}
