package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"path/filepath"
	"strings"
	"time"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
	"github.com/huddlehq/huddle-backend/internal/repository/storage"
)

const (
	// MaxAttachmentSize is the largest accepted upload
	MaxAttachmentSize = 5 * 1024 * 1024 // 5MB

	// DisplayMaxWidth is the width images are downscaled to before storage
	DisplayMaxWidth = 1600

	// JPEGQuality is the re-encode quality for downscaled images
	JPEGQuality = 85

	// PresignExpiry is how long generated read URLs stay valid
	PresignExpiry = 15 * time.Minute
)

var (
	ErrAttachmentTooLarge = errors.New("file too large. Maximum size is 5MB")
	ErrInvalidFormat      = errors.New("invalid format. Supported: JPEG, PNG, WebP")
	ErrInvalidImageData   = errors.New("invalid image data")
	ErrStorageDisabled    = errors.New("attachment storage not configured")
)

// AllowedExtensions maps extensions to content types
var AllowedExtensions = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".webp": "image/webp",
}

// Attachment describes a stored upload
type Attachment struct {
	Path string `json:"path"`
	URL  string `json:"url"`
}

// AttachmentService handles validation, processing and storage of message
// image attachments. Uploads are keyed under the workspace so access
// control can be enforced on reads.
type AttachmentService struct {
	storage    storage.AttachmentRepository
	authorizer *Authorizer
}

// NewAttachmentService creates a new AttachmentService. storage may be nil
// when object storage is not configured; uploads are then rejected.
func NewAttachmentService(storage storage.AttachmentRepository, authorizer *Authorizer) *AttachmentService {
	return &AttachmentService{storage: storage, authorizer: authorizer}
}

// IsEnabled indicates whether uploads are supported (storage configured)
func (s *AttachmentService) IsEnabled() bool {
	return s != nil && s.storage != nil
}

// Upload validates an image, downscales it if oversized and stores it
// under the workspace. Members only.
func (s *AttachmentService) Upload(ctx context.Context, userID, workspaceID uuid.UUID, filename string, data []byte) (*Attachment, error) {
	if !s.IsEnabled() {
		return nil, ErrStorageDisabled
	}

	if _, err := s.authorizer.RequireMember(ctx, workspaceID, userID); err != nil {
		return nil, err
	}

	if len(data) > MaxAttachmentSize {
		return nil, ErrAttachmentTooLarge
	}

	ext := strings.ToLower(filepath.Ext(filename))
	if _, ok := AllowedExtensions[ext]; !ok {
		return nil, ErrInvalidFormat
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, ErrInvalidImageData
	}

	// Downscale large images; re-encode as JPEG which is good enough for
	// chat display and keeps objects small
	if img.Bounds().Dx() > DisplayMaxWidth {
		img = imaging.Resize(img, DisplayMaxWidth, 0, imaging.Lanczos)
		ext = ".jpg"
	}

	var buf bytes.Buffer
	switch ext {
	case ".png":
		err = imaging.Encode(&buf, img, imaging.PNG)
	default:
		err = imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(JPEGQuality))
	}
	if err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}

	objectPath := fmt.Sprintf("%s/%s%s", workspaceID, uuid.New(), ext)
	contentType := AllowedExtensions[ext]

	if _, err := s.storage.Upload(ctx, objectPath, &buf, contentType, int64(buf.Len())); err != nil {
		return nil, err
	}

	url, err := s.storage.PresignedURL(ctx, objectPath, PresignExpiry)
	if err != nil {
		return nil, err
	}

	return &Attachment{Path: objectPath, URL: url}, nil
}

// URL generates a fresh presigned read URL for a stored attachment. The
// caller must be a member of the workspace the object belongs to, which is
// encoded as the first path segment.
func (s *AttachmentService) URL(ctx context.Context, userID uuid.UUID, objectPath string) (string, error) {
	if !s.IsEnabled() {
		return "", ErrStorageDisabled
	}

	workspaceID, err := workspaceFromPath(objectPath)
	if err != nil {
		return "", err
	}
	if _, err := s.authorizer.RequireMember(ctx, workspaceID, userID); err != nil {
		return "", err
	}

	return s.storage.PresignedURL(ctx, objectPath, PresignExpiry)
}

func workspaceFromPath(objectPath string) (uuid.UUID, error) {
	segment, _, ok := strings.Cut(objectPath, "/")
	if !ok {
		return uuid.Nil, ErrInvalidFormat
	}
	workspaceID, err := uuid.Parse(segment)
	if err != nil {
		return uuid.Nil, ErrInvalidFormat
	}
	return workspaceID, nil
}
