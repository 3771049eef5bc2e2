package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Conversation is a 1:1 direct-message stream between two members of the
// same workspace. The member pair is stored in a canonical order so only
// one conversation exists per pair.
type Conversation struct {
	ID          uuid.UUID `json:"id"`
	WorkspaceID uuid.UUID `json:"workspaceId"`
	MemberOneID uuid.UUID `json:"memberOneId"`
	MemberTwoID uuid.UUID `json:"memberTwoId"`
	CreatedAt   time.Time `json:"createdAt"`
}

// ConversationRepository defines the interface for conversation persistence operations
type ConversationRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*Conversation, error)
	// GetByMembers looks up the conversation for a member pair in either order.
	GetByMembers(ctx context.Context, workspaceID, memberA, memberB uuid.UUID) (*Conversation, error)
	Create(ctx context.Context, conversation *Conversation) (*Conversation, error)
	DeleteByMember(ctx context.Context, memberID uuid.UUID) error
	DeleteByWorkspace(ctx context.Context, workspaceID uuid.UUID) error
}
