package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// JoinCodeLength is the length of a workspace join code.
const JoinCodeLength = 6

// Workspace is the root entity: members, channels, conversations, messages
// and reactions all hang off it and must not outlive it.
type Workspace struct {
	ID            uuid.UUID `json:"id"`
	Name          string    `json:"name"`
	JoinCode      string    `json:"joinCode"`
	CreatorUserID uuid.UUID `json:"creatorUserId"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// WorkspaceInfo is the join-preview projection of a workspace. The name is
// visible to any authenticated user so the join screen can show what they
// are about to join; Name is nil when the workspace no longer exists.
type WorkspaceInfo struct {
	Name     *string `json:"name"`
	IsMember bool    `json:"isMember"`
}

// WorkspaceRepository defines the interface for workspace persistence operations
type WorkspaceRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*Workspace, error)
	// GetAllByUserID returns every workspace the user is a member of.
	GetAllByUserID(ctx context.Context, userID uuid.UUID) ([]*Workspace, error)
	Create(ctx context.Context, workspace *Workspace) (*Workspace, error)
	UpdateName(ctx context.Context, id uuid.UUID, name string) (*Workspace, error)
	UpdateJoinCode(ctx context.Context, id uuid.UUID, joinCode string) (*Workspace, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
