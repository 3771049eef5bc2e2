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

// WorkspaceDisconnector closes live connections to a workspace after it is
// deleted
type WorkspaceDisconnector interface {
	DisconnectWorkspace(workspaceID uuid.UUID)
}

// WorkspaceHandler handles workspace-related HTTP requests
type WorkspaceHandler struct {
	workspaceService *service.WorkspaceService
	disconnector     WorkspaceDisconnector
}

// NewWorkspaceHandler creates a new WorkspaceHandler. disconnector may be
// nil when WebSocket support is disabled.
func NewWorkspaceHandler(workspaceService *service.WorkspaceService, disconnector WorkspaceDisconnector) *WorkspaceHandler {
	return &WorkspaceHandler{
		workspaceService: workspaceService,
		disconnector:     disconnector,
	}
}

// CreateWorkspaceRequest represents the create workspace request body
type CreateWorkspaceRequest struct {
	Name string `json:"name"`
}

// RenameWorkspaceRequest represents the rename workspace request body
type RenameWorkspaceRequest struct {
	Name string `json:"name"`
}

// JoinWorkspaceRequest represents the join workspace request body
type JoinWorkspaceRequest struct {
	JoinCode string `json:"joinCode"`
}

func workspaceIDParam(c echo.Context) (uuid.UUID, error) {
	return uuid.Parse(c.Param("id"))
}

// CreateWorkspace handles POST /api/v1/workspaces
func (h *WorkspaceHandler) CreateWorkspace(c echo.Context) error {
	userID := middleware.GetUserID(c)

	var req CreateWorkspaceRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	workspace, err := h.workspaceService.Create(c.Request().Context(), userID, service.CreateWorkspaceInput{
		Name: req.Name,
	})
	if err != nil {
		if errors.Is(err, domain.ErrNameRequired) {
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "name", Message: "Name is required"},
			})
		}
		if errors.Is(err, domain.ErrNameTooLong) {
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "name", Message: "Name must be 80 characters or less"},
			})
		}
		if errors.Is(err, domain.ErrUnauthorized) {
			return NewUnauthorizedError(c, "Authentication required")
		}
		log.Error().Err(err).Stringer("user_id", userID).Msg("Failed to create workspace")
		return NewInternalError(c, "Failed to create workspace")
	}

	return c.JSON(http.StatusCreated, workspace)
}

// GetWorkspaces handles GET /api/v1/workspaces
func (h *WorkspaceHandler) GetWorkspaces(c echo.Context) error {
	userID := middleware.GetUserID(c)

	workspaces, err := h.workspaceService.ListForUser(c.Request().Context(), userID)
	if err != nil {
		log.Error().Err(err).Stringer("user_id", userID).Msg("Failed to list workspaces")
		return NewInternalError(c, "Failed to list workspaces")
	}

	return c.JSON(http.StatusOK, workspaces)
}

// GetWorkspace handles GET /api/v1/workspaces/:id
//
// Members get the full workspace including its join code. For everyone
// else the workspace simply doesn't exist: 404 whether the ID is unknown
// or the caller just isn't a member.
func (h *WorkspaceHandler) GetWorkspace(c echo.Context) error {
	userID := middleware.GetUserID(c)

	workspaceID, err := workspaceIDParam(c)
	if err != nil {
		return NewValidationError(c, "Invalid workspace ID", nil)
	}

	workspace, err := h.workspaceService.GetFull(c.Request().Context(), userID, workspaceID)
	if err != nil {
		if errors.Is(err, domain.ErrUnauthorized) {
			return NewUnauthorizedError(c, "Authentication required")
		}
		log.Error().Err(err).Stringer("workspace_id", workspaceID).Msg("Failed to get workspace")
		return NewInternalError(c, "Failed to get workspace")
	}
	if workspace == nil {
		return NewNotFoundError(c, "Workspace not found")
	}

	return c.JSON(http.StatusOK, workspace)
}

// GetWorkspaceInfo handles GET /api/v1/workspaces/:id/info
func (h *WorkspaceHandler) GetWorkspaceInfo(c echo.Context) error {
	userID := middleware.GetUserID(c)

	workspaceID, err := workspaceIDParam(c)
	if err != nil {
		return NewValidationError(c, "Invalid workspace ID", nil)
	}

	info, err := h.workspaceService.GetInfo(c.Request().Context(), userID, workspaceID)
	if err != nil {
		log.Error().Err(err).Stringer("workspace_id", workspaceID).Msg("Failed to get workspace info")
		return NewInternalError(c, "Failed to get workspace info")
	}

	// nil for unauthenticated callers; the join screen treats it as "sign
	// in first"
	return c.JSON(http.StatusOK, info)
}

// RenameWorkspace handles PATCH /api/v1/workspaces/:id
func (h *WorkspaceHandler) RenameWorkspace(c echo.Context) error {
	userID := middleware.GetUserID(c)

	workspaceID, err := workspaceIDParam(c)
	if err != nil {
		return NewValidationError(c, "Invalid workspace ID", nil)
	}

	var req RenameWorkspaceRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	workspace, err := h.workspaceService.Rename(c.Request().Context(), userID, workspaceID, req.Name)
	if err != nil {
		if errors.Is(err, domain.ErrUnauthorized) {
			return NewForbiddenError(c, "Admin role required")
		}
		if errors.Is(err, domain.ErrNameRequired) {
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "name", Message: "Name is required"},
			})
		}
		if errors.Is(err, domain.ErrNameTooLong) {
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "name", Message: "Name must be 80 characters or less"},
			})
		}
		if errors.Is(err, domain.ErrWorkspaceNotFound) {
			return NewNotFoundError(c, "Workspace not found")
		}
		log.Error().Err(err).Stringer("workspace_id", workspaceID).Msg("Failed to rename workspace")
		return NewInternalError(c, "Failed to rename workspace")
	}

	return c.JSON(http.StatusOK, workspace)
}

// RotateJoinCode handles POST /api/v1/workspaces/:id/join-code
func (h *WorkspaceHandler) RotateJoinCode(c echo.Context) error {
	userID := middleware.GetUserID(c)

	workspaceID, err := workspaceIDParam(c)
	if err != nil {
		return NewValidationError(c, "Invalid workspace ID", nil)
	}

	workspace, err := h.workspaceService.RotateJoinCode(c.Request().Context(), userID, workspaceID)
	if err != nil {
		if errors.Is(err, domain.ErrUnauthorized) {
			return NewForbiddenError(c, "Admin role required")
		}
		if errors.Is(err, domain.ErrWorkspaceNotFound) {
			return NewNotFoundError(c, "Workspace not found")
		}
		log.Error().Err(err).Stringer("workspace_id", workspaceID).Msg("Failed to rotate join code")
		return NewInternalError(c, "Failed to rotate join code")
	}

	return c.JSON(http.StatusOK, workspace)
}

// DeleteWorkspace handles DELETE /api/v1/workspaces/:id
func (h *WorkspaceHandler) DeleteWorkspace(c echo.Context) error {
	userID := middleware.GetUserID(c)

	workspaceID, err := workspaceIDParam(c)
	if err != nil {
		return NewValidationError(c, "Invalid workspace ID", nil)
	}

	if err := h.workspaceService.Delete(c.Request().Context(), userID, workspaceID); err != nil {
		if errors.Is(err, domain.ErrUnauthorized) {
			return NewForbiddenError(c, "Admin role required")
		}
		if errors.Is(err, domain.ErrWorkspaceNotFound) {
			return NewNotFoundError(c, "Workspace not found")
		}
		log.Error().Err(err).Stringer("workspace_id", workspaceID).Msg("Failed to delete workspace")
		return NewInternalError(c, "Failed to delete workspace")
	}

	if h.disconnector != nil {
		h.disconnector.DisconnectWorkspace(workspaceID)
	}

	return c.NoContent(http.StatusNoContent)
}

// JoinWorkspace handles POST /api/v1/workspaces/:id/join
func (h *WorkspaceHandler) JoinWorkspace(c echo.Context) error {
	userID := middleware.GetUserID(c)

	workspaceID, err := workspaceIDParam(c)
	if err != nil {
		return NewValidationError(c, "Invalid workspace ID", nil)
	}

	var req JoinWorkspaceRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	workspace, err := h.workspaceService.Join(c.Request().Context(), userID, workspaceID, req.JoinCode)
	if err != nil {
		if errors.Is(err, domain.ErrUnauthorized) {
			return NewUnauthorizedError(c, "Authentication required")
		}
		if errors.Is(err, domain.ErrWorkspaceNotFound) {
			return NewNotFoundError(c, "Workspace not found")
		}
		if errors.Is(err, domain.ErrInvalidJoinCode) {
			return NewForbiddenError(c, "Invalid join code")
		}
		if errors.Is(err, domain.ErrAlreadyMember) {
			return NewConflictError(c, "Already a member of this workspace")
		}
		log.Error().Err(err).Stringer("workspace_id", workspaceID).Msg("Failed to join workspace")
		return NewInternalError(c, "Failed to join workspace")
	}

	log.Info().Stringer("workspace_id", workspaceID).Stringer("user_id", userID).Msg("User joined workspace")

	return c.JSON(http.StatusOK, map[string]interface{}{
		"workspaceId": workspace.ID,
	})
}
