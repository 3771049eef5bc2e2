package service

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/huddlehq/huddle-backend/internal/domain"
	"github.com/huddlehq/huddle-backend/internal/testutil"
)

type attachmentFixture struct {
	attachments *testutil.MockAttachmentRepository
	memberRepo  *testutil.MockMemberRepository
	service     *AttachmentService
	workspaceID uuid.UUID
	member      *domain.Member
}

func newAttachmentFixture() *attachmentFixture {
	f := &attachmentFixture{
		attachments: testutil.NewMockAttachmentRepository(),
		memberRepo:  testutil.NewMockMemberRepository(),
		workspaceID: uuid.New(),
	}
	f.member = &domain.Member{
		ID:          uuid.New(),
		UserID:      uuid.New(),
		WorkspaceID: f.workspaceID,
		Role:        domain.RoleMember,
	}
	f.memberRepo.AddMember(f.member)
	f.service = NewAttachmentService(f.attachments, NewAuthorizer(f.memberRepo))
	return f
}

// pngBytes renders a solid-color PNG of the given size
func pngBytes(t *testing.T, width, height int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for x := 0; x < width; x++ {
		for y := 0; y < height; y++ {
			img.Set(x, y, color.RGBA{R: 200, G: 30, B: 30, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("Failed to encode test image: %v", err)
	}
	return buf.Bytes()
}

func TestUploadAttachment_Success(t *testing.T) {
	f := newAttachmentFixture()

	attachment, err := f.service.Upload(context.Background(), f.member.UserID, f.workspaceID, "photo.png", pngBytes(t, 100, 80))
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if !strings.HasPrefix(attachment.Path, f.workspaceID.String()+"/") {
		t.Errorf("Expected path keyed under workspace, got %q", attachment.Path)
	}
	if attachment.URL == "" {
		t.Error("Expected presigned URL")
	}
	if _, ok := f.attachments.Objects[attachment.Path]; !ok {
		t.Error("Expected object stored")
	}
}

func TestUploadAttachment_NonMember(t *testing.T) {
	f := newAttachmentFixture()

	_, err := f.service.Upload(context.Background(), uuid.New(), f.workspaceID, "photo.png", pngBytes(t, 10, 10))
	if err != domain.ErrUnauthorized {
		t.Errorf("Expected ErrUnauthorized, got %v", err)
	}
}

func TestUploadAttachment_BadExtension(t *testing.T) {
	f := newAttachmentFixture()

	_, err := f.service.Upload(context.Background(), f.member.UserID, f.workspaceID, "script.exe", pngBytes(t, 10, 10))
	if err != ErrInvalidFormat {
		t.Errorf("Expected ErrInvalidFormat, got %v", err)
	}
}

func TestUploadAttachment_CorruptImage(t *testing.T) {
	f := newAttachmentFixture()

	_, err := f.service.Upload(context.Background(), f.member.UserID, f.workspaceID, "photo.png", []byte("not an image"))
	if err != ErrInvalidImageData {
		t.Errorf("Expected ErrInvalidImageData, got %v", err)
	}
}

func TestUploadAttachment_TooLarge(t *testing.T) {
	f := newAttachmentFixture()

	_, err := f.service.Upload(context.Background(), f.member.UserID, f.workspaceID, "photo.png", make([]byte, MaxAttachmentSize+1))
	if err != ErrAttachmentTooLarge {
		t.Errorf("Expected ErrAttachmentTooLarge, got %v", err)
	}
}

func TestUploadAttachment_StorageDisabled(t *testing.T) {
	f := newAttachmentFixture()
	disabled := NewAttachmentService(nil, NewAuthorizer(f.memberRepo))

	_, err := disabled.Upload(context.Background(), f.member.UserID, f.workspaceID, "photo.png", pngBytes(t, 10, 10))
	if err != ErrStorageDisabled {
		t.Errorf("Expected ErrStorageDisabled, got %v", err)
	}
}

func TestAttachmentURL_MembersOnly(t *testing.T) {
	f := newAttachmentFixture()
	objectPath := f.workspaceID.String() + "/pic.jpg"
	f.attachments.Objects[objectPath] = []byte("data")

	url, err := f.service.URL(context.Background(), f.member.UserID, objectPath)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if url == "" {
		t.Error("Expected presigned URL")
	}

	_, err = f.service.URL(context.Background(), uuid.New(), objectPath)
	if err != domain.ErrUnauthorized {
		t.Errorf("Expected ErrUnauthorized for outsider, got %v", err)
	}
}

func TestAttachmentURL_MalformedPath(t *testing.T) {
	f := newAttachmentFixture()

	_, err := f.service.URL(context.Background(), f.member.UserID, "no-workspace-prefix.jpg")
	if err != ErrInvalidFormat {
		t.Errorf("Expected ErrInvalidFormat, got %v", err)
	}
}
