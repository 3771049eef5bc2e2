package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/huddlehq/huddle-backend/internal/domain"
	"github.com/huddlehq/huddle-backend/internal/middleware"
	"github.com/huddlehq/huddle-backend/internal/service"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

// ChannelHandler handles channel-related HTTP requests
type ChannelHandler struct {
	channelService *service.ChannelService
	messageService *service.MessageService
}

// NewChannelHandler creates a new ChannelHandler
func NewChannelHandler(channelService *service.ChannelService, messageService *service.MessageService) *ChannelHandler {
	return &ChannelHandler{
		channelService: channelService,
		messageService: messageService,
	}
}

// CreateChannelRequest represents the create channel request body
type CreateChannelRequest struct {
	Name string `json:"name"`
}

// RenameChannelRequest represents the rename channel request body
type RenameChannelRequest struct {
	Name string `json:"name"`
}

func channelNameError(c echo.Context, err error) (error, bool) {
	if errors.Is(err, domain.ErrNameRequired) {
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "name", Message: "Name is required"},
		}), true
	}
	if errors.Is(err, domain.ErrNameTooLong) {
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "name", Message: "Name must be 80 characters or less"},
		}), true
	}
	return nil, false
}

// CreateChannel handles POST /api/v1/workspaces/:id/channels
func (h *ChannelHandler) CreateChannel(c echo.Context) error {
	userID := middleware.GetUserID(c)

	workspaceID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid workspace ID", nil)
	}

	var req CreateChannelRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	channel, err := h.channelService.Create(c.Request().Context(), userID, workspaceID, req.Name)
	if err != nil {
		if resp, ok := channelNameError(c, err); ok {
			return resp
		}
		if errors.Is(err, domain.ErrUnauthorized) {
			return NewForbiddenError(c, "Admin role required")
		}
		log.Error().Err(err).Stringer("workspace_id", workspaceID).Msg("Failed to create channel")
		return NewInternalError(c, "Failed to create channel")
	}

	return c.JSON(http.StatusCreated, channel)
}

// GetChannels handles GET /api/v1/workspaces/:id/channels
func (h *ChannelHandler) GetChannels(c echo.Context) error {
	userID := middleware.GetUserID(c)

	workspaceID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid workspace ID", nil)
	}

	channels, err := h.channelService.List(c.Request().Context(), userID, workspaceID)
	if err != nil {
		if errors.Is(err, domain.ErrUnauthorized) {
			return NewForbiddenError(c, "Workspace membership required")
		}
		log.Error().Err(err).Stringer("workspace_id", workspaceID).Msg("Failed to list channels")
		return NewInternalError(c, "Failed to list channels")
	}

	return c.JSON(http.StatusOK, channels)
}

// GetChannel handles GET /api/v1/channels/:id
func (h *ChannelHandler) GetChannel(c echo.Context) error {
	userID := middleware.GetUserID(c)

	channelID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid channel ID", nil)
	}

	channel, err := h.channelService.Get(c.Request().Context(), userID, channelID)
	if err != nil {
		if errors.Is(err, domain.ErrChannelNotFound) {
			return NewNotFoundError(c, "Channel not found")
		}
		if errors.Is(err, domain.ErrUnauthorized) {
			return NewForbiddenError(c, "Workspace membership required")
		}
		log.Error().Err(err).Stringer("channel_id", channelID).Msg("Failed to get channel")
		return NewInternalError(c, "Failed to get channel")
	}

	return c.JSON(http.StatusOK, channel)
}

// RenameChannel handles PATCH /api/v1/channels/:id
func (h *ChannelHandler) RenameChannel(c echo.Context) error {
	userID := middleware.GetUserID(c)

	channelID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid channel ID", nil)
	}

	var req RenameChannelRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	channel, err := h.channelService.Rename(c.Request().Context(), userID, channelID, req.Name)
	if err != nil {
		if resp, ok := channelNameError(c, err); ok {
			return resp
		}
		if errors.Is(err, domain.ErrChannelNotFound) {
			return NewNotFoundError(c, "Channel not found")
		}
		if errors.Is(err, domain.ErrUnauthorized) {
			return NewForbiddenError(c, "Admin role required")
		}
		log.Error().Err(err).Stringer("channel_id", channelID).Msg("Failed to rename channel")
		return NewInternalError(c, "Failed to rename channel")
	}

	return c.JSON(http.StatusOK, channel)
}

// DeleteChannel handles DELETE /api/v1/channels/:id
func (h *ChannelHandler) DeleteChannel(c echo.Context) error {
	userID := middleware.GetUserID(c)

	channelID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid channel ID", nil)
	}

	if err := h.channelService.Delete(c.Request().Context(), userID, channelID); err != nil {
		if errors.Is(err, domain.ErrChannelNotFound) {
			return NewNotFoundError(c, "Channel not found")
		}
		if errors.Is(err, domain.ErrUnauthorized) {
			return NewForbiddenError(c, "Admin role required")
		}
		log.Error().Err(err).Stringer("channel_id", channelID).Msg("Failed to delete channel")
		return NewInternalError(c, "Failed to delete channel")
	}

	return c.NoContent(http.StatusNoContent)
}

// GetChannelMessages handles GET /api/v1/channels/:id/messages
func (h *ChannelHandler) GetChannelMessages(c echo.Context) error {
	userID := middleware.GetUserID(c)

	channelID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid channel ID", nil)
	}

	limit, offset := pageParams(c)

	messages, err := h.messageService.ListChannel(c.Request().Context(), userID, channelID, limit, offset)
	if err != nil {
		if errors.Is(err, domain.ErrChannelNotFound) {
			return NewNotFoundError(c, "Channel not found")
		}
		if errors.Is(err, domain.ErrUnauthorized) {
			return NewForbiddenError(c, "Workspace membership required")
		}
		log.Error().Err(err).Stringer("channel_id", channelID).Msg("Failed to list channel messages")
		return NewInternalError(c, "Failed to list channel messages")
	}

	return c.JSON(http.StatusOK, messages)
}

// pageParams extracts limit and offset query parameters; invalid or absent
// values fall back to the service defaults
func pageParams(c echo.Context) (limit, offset int) {
	if v, err := strconv.Atoi(c.QueryParam("limit")); err == nil {
		limit = v
	}
	if v, err := strconv.Atoi(c.QueryParam("offset")); err == nil {
		offset = v
	}
	return limit, offset
}
