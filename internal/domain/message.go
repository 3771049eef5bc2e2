package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Message is a post by a member into either a channel or a conversation.
// Exactly one of ChannelID and ConversationID is set. A message with a
// ParentMessageID is a thread reply.
type Message struct {
	ID              uuid.UUID  `json:"id"`
	Body            string     `json:"body"`
	ImagePath       *string    `json:"imagePath,omitempty"`
	MemberID        uuid.UUID  `json:"memberId"`
	WorkspaceID     uuid.UUID  `json:"workspaceId"`
	ChannelID       *uuid.UUID `json:"channelId,omitempty"`
	ConversationID  *uuid.UUID `json:"conversationId,omitempty"`
	ParentMessageID *uuid.UUID `json:"parentMessageId,omitempty"`
	CreatedAt       time.Time  `json:"createdAt"`
	UpdatedAt       time.Time  `json:"updatedAt"`
}

// MessageRepository defines the interface for message persistence operations
type MessageRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*Message, error)
	// GetPageByChannel returns top-level channel messages newest first.
	GetPageByChannel(ctx context.Context, channelID uuid.UUID, limit, offset int) ([]*Message, error)
	// GetPageByConversation returns conversation messages newest first.
	GetPageByConversation(ctx context.Context, conversationID uuid.UUID, limit, offset int) ([]*Message, error)
	// GetThread returns replies to a parent message, oldest first.
	GetThread(ctx context.Context, parentMessageID uuid.UUID) ([]*Message, error)
	Create(ctx context.Context, message *Message) (*Message, error)
	UpdateBody(ctx context.Context, id uuid.UUID, body string) (*Message, error)
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteByMember(ctx context.Context, memberID uuid.UUID) error
	DeleteByWorkspace(ctx context.Context, workspaceID uuid.UUID) error
}
