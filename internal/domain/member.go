package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Role is a member's role within a workspace. It is a closed set; anything
// other than RoleAdmin or RoleMember is rejected before it reaches storage.
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleMember Role = "member"
)

// Valid reports whether the role is one of the known values.
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleMember
}

// Member links a user to a workspace. At most one member row exists per
// (workspace, user) pair.
type Member struct {
	ID          uuid.UUID `json:"id"`
	UserID      uuid.UUID `json:"userId"`
	WorkspaceID uuid.UUID `json:"workspaceId"`
	Role        Role      `json:"role"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// IsAdmin reports whether the member holds the admin role.
func (m *Member) IsAdmin() bool {
	return m.Role == RoleAdmin
}

// WorkspaceMember is a member joined with the user it represents, for
// member listings.
type WorkspaceMember struct {
	Member
	User User `json:"user"`
}

// MemberRepository defines the interface for member persistence operations
type MemberRepository interface {
	// GetByWorkspaceAndUser resolves the unique member row for the
	// (workspace, user) pair via the composite index.
	GetByWorkspaceAndUser(ctx context.Context, workspaceID, userID uuid.UUID) (*Member, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Member, error)
	GetAllByWorkspace(ctx context.Context, workspaceID uuid.UUID) ([]*WorkspaceMember, error)
	Create(ctx context.Context, member *Member) (*Member, error)
	UpdateRole(ctx context.Context, id uuid.UUID, role Role) (*Member, error)
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteByWorkspace(ctx context.Context, workspaceID uuid.UUID) error
}
