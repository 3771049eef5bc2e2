package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/huddlehq/huddle-backend/internal/domain"
	"github.com/huddlehq/huddle-backend/internal/websocket"
)

// ConversationService handles 1:1 direct-message streams
type ConversationService struct {
	conversationRepo domain.ConversationRepository
	memberRepo       domain.MemberRepository
	authorizer       *Authorizer
	tx               domain.Transactor
	eventPublisher   websocket.EventPublisher
}

// NewConversationService creates a new ConversationService
func NewConversationService(
	conversationRepo domain.ConversationRepository,
	memberRepo domain.MemberRepository,
	authorizer *Authorizer,
	tx domain.Transactor,
) *ConversationService {
	return &ConversationService{
		conversationRepo: conversationRepo,
		memberRepo:       memberRepo,
		authorizer:       authorizer,
		tx:               tx,
	}
}

// SetEventPublisher sets the event publisher for real-time updates
func (s *ConversationService) SetEventPublisher(publisher websocket.EventPublisher) {
	s.eventPublisher = publisher
}

// publishEvent publishes a WebSocket event if a publisher is configured
func (s *ConversationService) publishEvent(workspaceID uuid.UUID, event websocket.Event) {
	if s.eventPublisher != nil {
		s.eventPublisher.Publish(workspaceID, event)
	}
}

// CreateOrGet returns the conversation between the caller and another
// member of the same workspace, creating it if it doesn't exist yet. The
// member pair is stored in canonical order so the lookup is symmetric.
func (s *ConversationService) CreateOrGet(ctx context.Context, userID, workspaceID, otherMemberID uuid.UUID) (*domain.Conversation, error) {
	caller, err := s.authorizer.RequireMember(ctx, workspaceID, userID)
	if err != nil {
		return nil, err
	}

	other, err := s.memberRepo.GetByID(ctx, otherMemberID)
	if err != nil {
		return nil, err
	}
	if other.WorkspaceID != workspaceID {
		return nil, domain.ErrMemberNotFound
	}

	var conversation *domain.Conversation
	created := false
	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		conversation, err = s.conversationRepo.GetByMembers(ctx, workspaceID, caller.ID, other.ID)
		if err == nil {
			return nil
		}
		if err != domain.ErrConversationNotFound {
			return err
		}

		memberOne, memberTwo := caller.ID, other.ID
		if memberTwo.String() < memberOne.String() {
			memberOne, memberTwo = memberTwo, memberOne
		}

		conversation, err = s.conversationRepo.Create(ctx, &domain.Conversation{
			WorkspaceID: workspaceID,
			MemberOneID: memberOne,
			MemberTwoID: memberTwo,
		})
		if err != nil {
			return err
		}
		created = true
		return nil
	})
	if err != nil {
		return nil, err
	}

	if created {
		s.publishEvent(workspaceID, websocket.ConversationCreated(conversation))
	}
	return conversation, nil
}

// Get returns a conversation the caller is part of
func (s *ConversationService) Get(ctx context.Context, userID, conversationID uuid.UUID) (*domain.Conversation, error) {
	if userID == uuid.Nil {
		return nil, domain.ErrUnauthorized
	}
	conversation, err := s.conversationRepo.GetByID(ctx, conversationID)
	if err != nil {
		return nil, err
	}
	caller, err := s.authorizer.RequireMember(ctx, conversation.WorkspaceID, userID)
	if err != nil {
		return nil, err
	}
	if conversation.MemberOneID != caller.ID && conversation.MemberTwoID != caller.ID {
		return nil, domain.ErrUnauthorized
	}
	return conversation, nil
}
