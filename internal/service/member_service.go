package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/huddlehq/huddle-backend/internal/domain"
	"github.com/huddlehq/huddle-backend/internal/websocket"
	"github.com/rs/zerolog/log"
)

// MemberService handles workspace membership business logic
type MemberService struct {
	memberRepo       domain.MemberRepository
	messageRepo      domain.MessageRepository
	reactionRepo     domain.ReactionRepository
	conversationRepo domain.ConversationRepository
	authorizer       *Authorizer
	tx               domain.Transactor
	eventPublisher   websocket.EventPublisher
}

// NewMemberService creates a new MemberService
func NewMemberService(
	memberRepo domain.MemberRepository,
	messageRepo domain.MessageRepository,
	reactionRepo domain.ReactionRepository,
	conversationRepo domain.ConversationRepository,
	authorizer *Authorizer,
	tx domain.Transactor,
) *MemberService {
	return &MemberService{
		memberRepo:       memberRepo,
		messageRepo:      messageRepo,
		reactionRepo:     reactionRepo,
		conversationRepo: conversationRepo,
		authorizer:       authorizer,
		tx:               tx,
	}
}

// SetEventPublisher sets the event publisher for real-time updates
func (s *MemberService) SetEventPublisher(publisher websocket.EventPublisher) {
	s.eventPublisher = publisher
}

// publishEvent publishes a WebSocket event if a publisher is configured
func (s *MemberService) publishEvent(workspaceID uuid.UUID, event websocket.Event) {
	if s.eventPublisher != nil {
		s.eventPublisher.Publish(workspaceID, event)
	}
}

// List returns all members of a workspace, joined with their users.
// Members only.
func (s *MemberService) List(ctx context.Context, userID, workspaceID uuid.UUID) ([]*domain.WorkspaceMember, error) {
	if _, err := s.authorizer.RequireMember(ctx, workspaceID, userID); err != nil {
		return nil, err
	}
	return s.memberRepo.GetAllByWorkspace(ctx, workspaceID)
}

// Current returns the caller's own member row in a workspace
func (s *MemberService) Current(ctx context.Context, userID, workspaceID uuid.UUID) (*domain.Member, error) {
	return s.authorizer.RequireMember(ctx, workspaceID, userID)
}

// IsMember reports whether a user belongs to a workspace. Used by the
// WebSocket handler before subscribing a client to a workspace stream.
func (s *MemberService) IsMember(ctx context.Context, workspaceID, userID uuid.UUID) (bool, error) {
	_, err := s.authorizer.RequireMember(ctx, workspaceID, userID)
	if err != nil {
		if errors.Is(err, domain.ErrUnauthorized) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// Get returns a member by ID. The caller must belong to the same workspace.
func (s *MemberService) Get(ctx context.Context, userID, memberID uuid.UUID) (*domain.Member, error) {
	if userID == uuid.Nil {
		return nil, domain.ErrUnauthorized
	}
	member, err := s.memberRepo.GetByID(ctx, memberID)
	if err != nil {
		return nil, err
	}
	if _, err := s.authorizer.RequireMember(ctx, member.WorkspaceID, userID); err != nil {
		return nil, err
	}
	return member, nil
}

// UpdateRole changes a member's role. Admin only.
func (s *MemberService) UpdateRole(ctx context.Context, userID, memberID uuid.UUID, role domain.Role) (*domain.Member, error) {
	if !role.Valid() {
		return nil, domain.ErrInvalidRole
	}

	member, err := s.memberRepo.GetByID(ctx, memberID)
	if err != nil {
		return nil, err
	}

	if _, err := s.authorizer.RequireAdmin(ctx, member.WorkspaceID, userID); err != nil {
		return nil, err
	}

	updated, err := s.memberRepo.UpdateRole(ctx, memberID, role)
	if err != nil {
		return nil, err
	}

	s.publishEvent(member.WorkspaceID, websocket.MemberUpdated(updated))
	return updated, nil
}

// Remove deletes a member along with everything they authored: their
// messages, their reactions and any 1:1 conversations they were part of.
// An admin can remove anyone but an admin; a member can only remove
// themselves (leave). Admins cannot be removed.
func (s *MemberService) Remove(ctx context.Context, userID, memberID uuid.UUID) error {
	target, err := s.memberRepo.GetByID(ctx, memberID)
	if err != nil {
		return err
	}

	caller, err := s.authorizer.RequireMember(ctx, target.WorkspaceID, userID)
	if err != nil {
		return err
	}

	if !caller.IsAdmin() && caller.ID != target.ID {
		return domain.ErrUnauthorized
	}
	if target.IsAdmin() {
		return domain.ErrAdminRemoval
	}

	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.messageRepo.DeleteByMember(ctx, target.ID); err != nil {
			return err
		}
		if err := s.reactionRepo.DeleteByMember(ctx, target.ID); err != nil {
			return err
		}
		if err := s.conversationRepo.DeleteByMember(ctx, target.ID); err != nil {
			return err
		}
		return s.memberRepo.Delete(ctx, target.ID)
	})
	if err != nil {
		return err
	}

	log.Info().
		Stringer("workspace_id", target.WorkspaceID).
		Stringer("member_id", target.ID).
		Stringer("removed_by", caller.ID).
		Msg("Member removed")

	s.publishEvent(target.WorkspaceID, websocket.MemberRemoved(map[string]interface{}{
		"workspaceId": target.WorkspaceID,
		"memberId":    target.ID,
	}))
	return nil
}
