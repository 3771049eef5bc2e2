package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/huddlehq/huddle-backend/internal/domain"
	"github.com/huddlehq/huddle-backend/internal/testutil"
)

func TestRequireMember(t *testing.T) {
	memberRepo := testutil.NewMockMemberRepository()
	authorizer := NewAuthorizer(memberRepo)

	workspaceID := uuid.New()
	member := &domain.Member{
		ID:          uuid.New(),
		UserID:      uuid.New(),
		WorkspaceID: workspaceID,
		Role:        domain.RoleMember,
	}
	memberRepo.AddMember(member)

	got, err := authorizer.RequireMember(context.Background(), workspaceID, member.UserID)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if got.ID != member.ID {
		t.Errorf("Expected member %s, got %s", member.ID, got.ID)
	}

	// Non-members are indistinguishable from missing workspaces
	if _, err := authorizer.RequireMember(context.Background(), workspaceID, uuid.New()); err != domain.ErrUnauthorized {
		t.Errorf("Expected ErrUnauthorized for non-member, got %v", err)
	}
	if _, err := authorizer.RequireMember(context.Background(), uuid.New(), member.UserID); err != domain.ErrUnauthorized {
		t.Errorf("Expected ErrUnauthorized for unknown workspace, got %v", err)
	}
	if _, err := authorizer.RequireMember(context.Background(), workspaceID, uuid.Nil); err != domain.ErrUnauthorized {
		t.Errorf("Expected ErrUnauthorized for unauthenticated caller, got %v", err)
	}
}

func TestRequireAdmin(t *testing.T) {
	memberRepo := testutil.NewMockMemberRepository()
	authorizer := NewAuthorizer(memberRepo)

	workspaceID := uuid.New()
	admin := &domain.Member{ID: uuid.New(), UserID: uuid.New(), WorkspaceID: workspaceID, Role: domain.RoleAdmin}
	member := &domain.Member{ID: uuid.New(), UserID: uuid.New(), WorkspaceID: workspaceID, Role: domain.RoleMember}
	memberRepo.AddMember(admin)
	memberRepo.AddMember(member)

	if _, err := authorizer.RequireAdmin(context.Background(), workspaceID, admin.UserID); err != nil {
		t.Errorf("Expected admin to pass, got %v", err)
	}
	if _, err := authorizer.RequireAdmin(context.Background(), workspaceID, member.UserID); err != domain.ErrUnauthorized {
		t.Errorf("Expected ErrUnauthorized for regular member, got %v", err)
	}
}
