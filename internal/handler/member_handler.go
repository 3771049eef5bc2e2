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

// MemberHandler handles member-related HTTP requests
type MemberHandler struct {
	memberService *service.MemberService
}

// NewMemberHandler creates a new MemberHandler
func NewMemberHandler(memberService *service.MemberService) *MemberHandler {
	return &MemberHandler{memberService: memberService}
}

// UpdateRoleRequest represents the update member role request body
type UpdateRoleRequest struct {
	Role string `json:"role"`
}

// GetMembers handles GET /api/v1/workspaces/:id/members
func (h *MemberHandler) GetMembers(c echo.Context) error {
	userID := middleware.GetUserID(c)

	workspaceID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid workspace ID", nil)
	}

	members, err := h.memberService.List(c.Request().Context(), userID, workspaceID)
	if err != nil {
		if errors.Is(err, domain.ErrUnauthorized) {
			return NewForbiddenError(c, "Workspace membership required")
		}
		log.Error().Err(err).Stringer("workspace_id", workspaceID).Msg("Failed to list members")
		return NewInternalError(c, "Failed to list members")
	}

	return c.JSON(http.StatusOK, members)
}

// GetCurrentMember handles GET /api/v1/workspaces/:id/member
func (h *MemberHandler) GetCurrentMember(c echo.Context) error {
	userID := middleware.GetUserID(c)

	workspaceID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid workspace ID", nil)
	}

	member, err := h.memberService.Current(c.Request().Context(), userID, workspaceID)
	if err != nil {
		if errors.Is(err, domain.ErrUnauthorized) {
			return NewForbiddenError(c, "Workspace membership required")
		}
		log.Error().Err(err).Stringer("workspace_id", workspaceID).Msg("Failed to get current member")
		return NewInternalError(c, "Failed to get current member")
	}

	return c.JSON(http.StatusOK, member)
}

// GetMember handles GET /api/v1/members/:id
func (h *MemberHandler) GetMember(c echo.Context) error {
	userID := middleware.GetUserID(c)

	memberID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid member ID", nil)
	}

	member, err := h.memberService.Get(c.Request().Context(), userID, memberID)
	if err != nil {
		if errors.Is(err, domain.ErrMemberNotFound) {
			return NewNotFoundError(c, "Member not found")
		}
		if errors.Is(err, domain.ErrUnauthorized) {
			return NewForbiddenError(c, "Workspace membership required")
		}
		log.Error().Err(err).Stringer("member_id", memberID).Msg("Failed to get member")
		return NewInternalError(c, "Failed to get member")
	}

	return c.JSON(http.StatusOK, member)
}

// UpdateMemberRole handles PATCH /api/v1/members/:id
func (h *MemberHandler) UpdateMemberRole(c echo.Context) error {
	userID := middleware.GetUserID(c)

	memberID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid member ID", nil)
	}

	var req UpdateRoleRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	member, err := h.memberService.UpdateRole(c.Request().Context(), userID, memberID, domain.Role(req.Role))
	if err != nil {
		if errors.Is(err, domain.ErrInvalidRole) {
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "role", Message: "Role must be 'admin' or 'member'"},
			})
		}
		if errors.Is(err, domain.ErrMemberNotFound) {
			return NewNotFoundError(c, "Member not found")
		}
		if errors.Is(err, domain.ErrUnauthorized) {
			return NewForbiddenError(c, "Admin role required")
		}
		log.Error().Err(err).Stringer("member_id", memberID).Msg("Failed to update member role")
		return NewInternalError(c, "Failed to update member role")
	}

	return c.JSON(http.StatusOK, member)
}

// RemoveMember handles DELETE /api/v1/members/:id
func (h *MemberHandler) RemoveMember(c echo.Context) error {
	userID := middleware.GetUserID(c)

	memberID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid member ID", nil)
	}

	if err := h.memberService.Remove(c.Request().Context(), userID, memberID); err != nil {
		if errors.Is(err, domain.ErrMemberNotFound) {
			return NewNotFoundError(c, "Member not found")
		}
		if errors.Is(err, domain.ErrUnauthorized) {
			return NewForbiddenError(c, "Not allowed to remove this member")
		}
		if errors.Is(err, domain.ErrAdminRemoval) {
			return NewConflictError(c, "Admins cannot be removed")
		}
		log.Error().Err(err).Stringer("member_id", memberID).Msg("Failed to remove member")
		return NewInternalError(c, "Failed to remove member")
	}

	return c.NoContent(http.StatusNoContent)
}
