package storage

import (
	"context"
	"io"
	"time"
)

// AttachmentRepository abstracts object storage for message attachments.
// Implementations store opaque objects by path; URLs for reading are
// generated on demand and expire.
type AttachmentRepository interface {
	Upload(ctx context.Context, objectPath string, data io.Reader, contentType string, size int64) (string, error)
	Delete(ctx context.Context, objectPath string) error
	PresignedURL(ctx context.Context, objectPath string, expiry time.Duration) (string, error)
}
