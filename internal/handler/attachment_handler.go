package handler

import (
	"errors"
	"io"
	"net/http"

	"github.com/google/uuid"
	"github.com/huddlehq/huddle-backend/internal/domain"
	"github.com/huddlehq/huddle-backend/internal/middleware"
	"github.com/huddlehq/huddle-backend/internal/service"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

// AttachmentHandler handles message image upload HTTP requests
type AttachmentHandler struct {
	attachmentService *service.AttachmentService
}

// NewAttachmentHandler creates a new AttachmentHandler
func NewAttachmentHandler(attachmentService *service.AttachmentService) *AttachmentHandler {
	return &AttachmentHandler{attachmentService: attachmentService}
}

// AttachmentURLRequest represents the presign request body
type AttachmentURLRequest struct {
	Path string `json:"path"`
}

// UploadAttachment handles POST /api/v1/workspaces/:id/attachments
//
// Expects a multipart form with a "file" field. The stored path is
// returned so the client can reference it when posting the message.
func (h *AttachmentHandler) UploadAttachment(c echo.Context) error {
	userID := middleware.GetUserID(c)

	workspaceID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid workspace ID", nil)
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return NewValidationError(c, "Missing file upload", nil)
	}
	if fileHeader.Size > service.MaxAttachmentSize {
		return NewValidationError(c, service.ErrAttachmentTooLarge.Error(), nil)
	}

	file, err := fileHeader.Open()
	if err != nil {
		return NewValidationError(c, "Invalid file upload", nil)
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, service.MaxAttachmentSize+1))
	if err != nil {
		log.Error().Err(err).Stringer("workspace_id", workspaceID).Msg("Failed to read upload")
		return NewInternalError(c, "Failed to read upload")
	}

	attachment, err := h.attachmentService.Upload(c.Request().Context(), userID, workspaceID, fileHeader.Filename, data)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrAttachmentTooLarge),
			errors.Is(err, service.ErrInvalidFormat),
			errors.Is(err, service.ErrInvalidImageData):
			return NewValidationError(c, err.Error(), nil)
		case errors.Is(err, service.ErrStorageDisabled):
			return NewConflictError(c, "Attachment storage is not configured")
		case errors.Is(err, domain.ErrUnauthorized):
			return NewForbiddenError(c, "Workspace membership required")
		}
		log.Error().Err(err).Stringer("workspace_id", workspaceID).Msg("Failed to upload attachment")
		return NewInternalError(c, "Failed to upload attachment")
	}

	return c.JSON(http.StatusCreated, attachment)
}

// GetAttachmentURL handles POST /api/v1/attachments/url
//
// Presigned URLs expire, so clients exchange a stored path for a fresh
// read URL whenever they render an image.
func (h *AttachmentHandler) GetAttachmentURL(c echo.Context) error {
	userID := middleware.GetUserID(c)

	var req AttachmentURLRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}
	if req.Path == "" {
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "path", Message: "Path is required"},
		})
	}

	url, err := h.attachmentService.URL(c.Request().Context(), userID, req.Path)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidFormat):
			return NewValidationError(c, "Invalid attachment path", nil)
		case errors.Is(err, service.ErrStorageDisabled):
			return NewConflictError(c, "Attachment storage is not configured")
		case errors.Is(err, domain.ErrUnauthorized):
			return NewForbiddenError(c, "Workspace membership required")
		}
		log.Error().Err(err).Str("path", req.Path).Msg("Failed to presign attachment")
		return NewInternalError(c, "Failed to presign attachment")
	}

	return c.JSON(http.StatusOK, map[string]string{
		"url": url,
	})
}
