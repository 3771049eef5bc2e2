package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/huddlehq/huddle-backend/internal/domain"
)

// Authorizer resolves a caller's membership in a workspace. Every
// workspace-scoped operation goes through it before touching data.
//
// A caller who is not a member gets ErrUnauthorized, never a not-found
// error, so outsiders can't probe which workspace IDs exist.
type Authorizer struct {
	memberRepo domain.MemberRepository
}

// NewAuthorizer creates a new Authorizer
func NewAuthorizer(memberRepo domain.MemberRepository) *Authorizer {
	return &Authorizer{memberRepo: memberRepo}
}

// RequireMember returns the caller's member row in the workspace, or
// ErrUnauthorized if the caller is unauthenticated or not a member.
func (a *Authorizer) RequireMember(ctx context.Context, workspaceID, userID uuid.UUID) (*domain.Member, error) {
	if userID == uuid.Nil {
		return nil, domain.ErrUnauthorized
	}
	member, err := a.memberRepo.GetByWorkspaceAndUser(ctx, workspaceID, userID)
	if err != nil {
		if errors.Is(err, domain.ErrMemberNotFound) {
			return nil, domain.ErrUnauthorized
		}
		return nil, err
	}
	return member, nil
}

// RequireAdmin returns the caller's member row in the workspace, or
// ErrUnauthorized if the caller is not an admin member.
func (a *Authorizer) RequireAdmin(ctx context.Context, workspaceID, userID uuid.UUID) (*domain.Member, error) {
	member, err := a.RequireMember(ctx, workspaceID, userID)
	if err != nil {
		return nil, err
	}
	if !member.IsAdmin() {
		return nil, domain.ErrUnauthorized
	}
	return member, nil
}
