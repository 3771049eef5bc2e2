package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Reaction is an emoji reaction by a member on a message. A member can
// react with a given value at most once per message.
type Reaction struct {
	ID          uuid.UUID `json:"id"`
	WorkspaceID uuid.UUID `json:"workspaceId"`
	MessageID   uuid.UUID `json:"messageId"`
	MemberID    uuid.UUID `json:"memberId"`
	Value       string    `json:"value"`
	CreatedAt   time.Time `json:"createdAt"`
}

// ReactionRepository defines the interface for reaction persistence operations
type ReactionRepository interface {
	// GetByMessageMemberValue returns (nil, nil) when no such reaction exists.
	GetByMessageMemberValue(ctx context.Context, messageID, memberID uuid.UUID, value string) (*Reaction, error)
	GetAllByMessage(ctx context.Context, messageID uuid.UUID) ([]*Reaction, error)
	Create(ctx context.Context, reaction *Reaction) (*Reaction, error)
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteByMessage(ctx context.Context, messageID uuid.UUID) error
	DeleteByMember(ctx context.Context, memberID uuid.UUID) error
	DeleteByWorkspace(ctx context.Context, workspaceID uuid.UUID) error
}
