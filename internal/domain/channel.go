package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// DefaultChannelName is the channel every workspace starts with.
const DefaultChannelName = "general"

// Channel represents a named message stream inside a workspace
type Channel struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	WorkspaceID uuid.UUID `json:"workspaceId"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// ChannelRepository defines the interface for channel persistence operations
type ChannelRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*Channel, error)
	GetAllByWorkspace(ctx context.Context, workspaceID uuid.UUID) ([]*Channel, error)
	Create(ctx context.Context, channel *Channel) (*Channel, error)
	UpdateName(ctx context.Context, id uuid.UUID, name string) (*Channel, error)
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteByWorkspace(ctx context.Context, workspaceID uuid.UUID) error
}
