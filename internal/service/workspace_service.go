package service

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/huddlehq/huddle-backend/internal/domain"
	"github.com/huddlehq/huddle-backend/internal/util"
	"github.com/huddlehq/huddle-backend/internal/websocket"
	"github.com/rs/zerolog/log"
)

// WorkspaceService handles workspace lifecycle and membership entry points
type WorkspaceService struct {
	workspaceRepo    domain.WorkspaceRepository
	memberRepo       domain.MemberRepository
	channelRepo      domain.ChannelRepository
	conversationRepo domain.ConversationRepository
	messageRepo      domain.MessageRepository
	reactionRepo     domain.ReactionRepository
	authorizer       *Authorizer
	tx               domain.Transactor
	eventPublisher   websocket.EventPublisher
}

// NewWorkspaceService creates a new WorkspaceService
func NewWorkspaceService(
	workspaceRepo domain.WorkspaceRepository,
	memberRepo domain.MemberRepository,
	channelRepo domain.ChannelRepository,
	conversationRepo domain.ConversationRepository,
	messageRepo domain.MessageRepository,
	reactionRepo domain.ReactionRepository,
	authorizer *Authorizer,
	tx domain.Transactor,
) *WorkspaceService {
	return &WorkspaceService{
		workspaceRepo:    workspaceRepo,
		memberRepo:       memberRepo,
		channelRepo:      channelRepo,
		conversationRepo: conversationRepo,
		messageRepo:      messageRepo,
		reactionRepo:     reactionRepo,
		authorizer:       authorizer,
		tx:               tx,
	}
}

// SetEventPublisher sets the event publisher for real-time updates
func (s *WorkspaceService) SetEventPublisher(publisher websocket.EventPublisher) {
	s.eventPublisher = publisher
}

// publishEvent publishes a WebSocket event if a publisher is configured
func (s *WorkspaceService) publishEvent(workspaceID uuid.UUID, event websocket.Event) {
	if s.eventPublisher != nil {
		s.eventPublisher.Publish(workspaceID, event)
	}
}

// CreateWorkspaceInput holds the fields for creating a workspace
type CreateWorkspaceInput struct {
	Name string `json:"name"`
}

func validateWorkspaceName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", domain.ErrNameRequired
	}
	if len(name) > domain.MaxWorkspaceNameLength {
		return "", domain.ErrNameTooLong
	}
	return name, nil
}

// Create creates a workspace with the caller as its admin member and a
// default channel. Workspace, member and channel are created atomically so
// a workspace is never observable without an admin.
func (s *WorkspaceService) Create(ctx context.Context, userID uuid.UUID, input CreateWorkspaceInput) (*domain.Workspace, error) {
	if userID == uuid.Nil {
		return nil, domain.ErrUnauthorized
	}

	name, err := validateWorkspaceName(input.Name)
	if err != nil {
		return nil, err
	}

	var workspace *domain.Workspace
	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		workspace, err = s.workspaceRepo.Create(ctx, &domain.Workspace{
			Name:          name,
			JoinCode:      util.GenerateJoinCode(domain.JoinCodeLength),
			CreatorUserID: userID,
		})
		if err != nil {
			return err
		}

		if _, err := s.memberRepo.Create(ctx, &domain.Member{
			UserID:      userID,
			WorkspaceID: workspace.ID,
			Role:        domain.RoleAdmin,
		}); err != nil {
			return err
		}

		_, err = s.channelRepo.Create(ctx, &domain.Channel{
			Name:        domain.DefaultChannelName,
			WorkspaceID: workspace.ID,
		})
		return err
	})
	if err != nil {
		return nil, err
	}

	log.Info().
		Stringer("workspace_id", workspace.ID).
		Stringer("user_id", userID).
		Msg("Workspace created")

	return workspace, nil
}

// ListForUser returns every workspace the caller is a member of. An
// unauthenticated caller gets an empty list rather than an error; this
// feeds a listing screen and must stay lenient.
func (s *WorkspaceService) ListForUser(ctx context.Context, userID uuid.UUID) ([]*domain.Workspace, error) {
	if userID == uuid.Nil {
		return []*domain.Workspace{}, nil
	}
	return s.workspaceRepo.GetAllByUserID(ctx, userID)
}

// GetInfo returns the join-preview projection of a workspace: its name and
// whether the caller is already a member, so the join screen can show what
// they are about to join. Lenient by design: a missing workspace yields a
// nil Name and an unauthenticated caller gets (nil, nil), never an error.
func (s *WorkspaceService) GetInfo(ctx context.Context, userID, workspaceID uuid.UUID) (*domain.WorkspaceInfo, error) {
	if userID == uuid.Nil {
		return nil, nil
	}

	info := &domain.WorkspaceInfo{}

	workspace, err := s.workspaceRepo.GetByID(ctx, workspaceID)
	if err == nil {
		info.Name = &workspace.Name
	} else if err != domain.ErrWorkspaceNotFound {
		return nil, err
	}

	if _, err := s.authorizer.RequireMember(ctx, workspaceID, userID); err == nil {
		info.IsMember = true
	} else if err != domain.ErrUnauthorized {
		return nil, err
	}

	return info, nil
}

// GetFull returns the workspace, join code included, for members only.
// Non-members get (nil, nil) rather than an error so the response doesn't
// reveal whether the workspace exists.
func (s *WorkspaceService) GetFull(ctx context.Context, userID, workspaceID uuid.UUID) (*domain.Workspace, error) {
	if userID == uuid.Nil {
		return nil, domain.ErrUnauthorized
	}

	if _, err := s.authorizer.RequireMember(ctx, workspaceID, userID); err != nil {
		if err == domain.ErrUnauthorized {
			return nil, nil
		}
		return nil, err
	}

	workspace, err := s.workspaceRepo.GetByID(ctx, workspaceID)
	if err != nil {
		if err == domain.ErrWorkspaceNotFound {
			// Dangling membership; treat like non-member
			return nil, nil
		}
		return nil, err
	}
	return workspace, nil
}

// Rename updates a workspace's name. Admin only.
func (s *WorkspaceService) Rename(ctx context.Context, userID, workspaceID uuid.UUID, name string) (*domain.Workspace, error) {
	if _, err := s.authorizer.RequireAdmin(ctx, workspaceID, userID); err != nil {
		return nil, err
	}

	name, err := validateWorkspaceName(name)
	if err != nil {
		return nil, err
	}

	workspace, err := s.workspaceRepo.UpdateName(ctx, workspaceID, name)
	if err != nil {
		return nil, err
	}

	s.publishEvent(workspaceID, websocket.WorkspaceUpdated(workspace))
	return workspace, nil
}

// RotateJoinCode replaces a workspace's join code with a fresh one,
// invalidating the old code in the same statement. Admin only.
func (s *WorkspaceService) RotateJoinCode(ctx context.Context, userID, workspaceID uuid.UUID) (*domain.Workspace, error) {
	if _, err := s.authorizer.RequireAdmin(ctx, workspaceID, userID); err != nil {
		return nil, err
	}

	workspace, err := s.workspaceRepo.UpdateJoinCode(ctx, workspaceID, util.GenerateJoinCode(domain.JoinCodeLength))
	if err != nil {
		return nil, err
	}

	// Broadcast that the code changed without broadcasting the code itself
	s.publishEvent(workspaceID, websocket.WorkspaceCodeRotated(map[string]interface{}{
		"workspaceId": workspaceID,
	}))
	return workspace, nil
}

// Delete removes a workspace and everything in it. Admin only. All
// dependent records are removed in one transaction, workspace row last, so
// a half-deleted workspace is never visible.
func (s *WorkspaceService) Delete(ctx context.Context, userID, workspaceID uuid.UUID) error {
	if _, err := s.authorizer.RequireAdmin(ctx, workspaceID, userID); err != nil {
		return err
	}

	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.reactionRepo.DeleteByWorkspace(ctx, workspaceID); err != nil {
			return err
		}
		if err := s.messageRepo.DeleteByWorkspace(ctx, workspaceID); err != nil {
			return err
		}
		if err := s.conversationRepo.DeleteByWorkspace(ctx, workspaceID); err != nil {
			return err
		}
		if err := s.channelRepo.DeleteByWorkspace(ctx, workspaceID); err != nil {
			return err
		}
		if err := s.memberRepo.DeleteByWorkspace(ctx, workspaceID); err != nil {
			return err
		}
		return s.workspaceRepo.Delete(ctx, workspaceID)
	})
	if err != nil {
		return err
	}

	log.Info().
		Stringer("workspace_id", workspaceID).
		Stringer("user_id", userID).
		Msg("Workspace deleted")

	s.publishEvent(workspaceID, websocket.WorkspaceDeleted(map[string]interface{}{
		"workspaceId": workspaceID,
	}))
	return nil
}

// Join adds the caller to a workspace as a regular member if the supplied
// join code matches. The code comparison is case-insensitive. The
// membership check and insert run in one transaction; the unique
// constraint on (workspace, user) backstops concurrent joins.
func (s *WorkspaceService) Join(ctx context.Context, userID, workspaceID uuid.UUID, joinCode string) (*domain.Workspace, error) {
	if userID == uuid.Nil {
		return nil, domain.ErrUnauthorized
	}

	var workspace *domain.Workspace
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		workspace, err = s.workspaceRepo.GetByID(ctx, workspaceID)
		if err != nil {
			return err
		}

		if !strings.EqualFold(strings.TrimSpace(joinCode), workspace.JoinCode) {
			return domain.ErrInvalidJoinCode
		}

		if _, err := s.memberRepo.GetByWorkspaceAndUser(ctx, workspaceID, userID); err == nil {
			return domain.ErrAlreadyMember
		} else if err != domain.ErrMemberNotFound {
			return err
		}

		_, err = s.memberRepo.Create(ctx, &domain.Member{
			UserID:      userID,
			WorkspaceID: workspaceID,
			Role:        domain.RoleMember,
		})
		return err
	})
	if err != nil {
		return nil, err
	}

	log.Info().
		Stringer("workspace_id", workspaceID).
		Stringer("user_id", userID).
		Msg("User joined workspace")

	s.publishEvent(workspaceID, websocket.MemberJoined(map[string]interface{}{
		"workspaceId": workspaceID,
		"userId":      userID,
	}))
	return workspace, nil
}
