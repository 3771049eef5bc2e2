package service

import (
	"context"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"github.com/huddlehq/huddle-backend/internal/domain"
	"github.com/huddlehq/huddle-backend/internal/websocket"
)

var whitespaceRun = regexp.MustCompile(`\s+`)

// normalizeChannelName lowercases a channel name and collapses whitespace
// runs into single dashes, so "  Team  Updates " becomes "team-updates".
func normalizeChannelName(name string) (string, error) {
	name = strings.TrimSpace(name)
	name = whitespaceRun.ReplaceAllString(name, "-")
	name = strings.ToLower(name)
	if name == "" {
		return "", domain.ErrNameRequired
	}
	if len(name) > domain.MaxChannelNameLength {
		return "", domain.ErrNameTooLong
	}
	return name, nil
}

// ChannelService handles channel business logic
type ChannelService struct {
	channelRepo    domain.ChannelRepository
	authorizer     *Authorizer
	tx             domain.Transactor
	eventPublisher websocket.EventPublisher
}

// NewChannelService creates a new ChannelService
func NewChannelService(channelRepo domain.ChannelRepository, authorizer *Authorizer, tx domain.Transactor) *ChannelService {
	return &ChannelService{
		channelRepo: channelRepo,
		authorizer:  authorizer,
		tx:          tx,
	}
}

// SetEventPublisher sets the event publisher for real-time updates
func (s *ChannelService) SetEventPublisher(publisher websocket.EventPublisher) {
	s.eventPublisher = publisher
}

// publishEvent publishes a WebSocket event if a publisher is configured
func (s *ChannelService) publishEvent(workspaceID uuid.UUID, event websocket.Event) {
	if s.eventPublisher != nil {
		s.eventPublisher.Publish(workspaceID, event)
	}
}

// Create adds a channel to a workspace. Admin only.
func (s *ChannelService) Create(ctx context.Context, userID, workspaceID uuid.UUID, name string) (*domain.Channel, error) {
	if _, err := s.authorizer.RequireAdmin(ctx, workspaceID, userID); err != nil {
		return nil, err
	}

	name, err := normalizeChannelName(name)
	if err != nil {
		return nil, err
	}

	channel, err := s.channelRepo.Create(ctx, &domain.Channel{
		Name:        name,
		WorkspaceID: workspaceID,
	})
	if err != nil {
		return nil, err
	}

	s.publishEvent(workspaceID, websocket.ChannelCreated(channel))
	return channel, nil
}

// List returns all channels of a workspace. Members only.
func (s *ChannelService) List(ctx context.Context, userID, workspaceID uuid.UUID) ([]*domain.Channel, error) {
	if _, err := s.authorizer.RequireMember(ctx, workspaceID, userID); err != nil {
		return nil, err
	}
	return s.channelRepo.GetAllByWorkspace(ctx, workspaceID)
}

// Get returns a channel by ID. The caller must be a member of its workspace.
func (s *ChannelService) Get(ctx context.Context, userID, channelID uuid.UUID) (*domain.Channel, error) {
	if userID == uuid.Nil {
		return nil, domain.ErrUnauthorized
	}
	channel, err := s.channelRepo.GetByID(ctx, channelID)
	if err != nil {
		return nil, err
	}
	if _, err := s.authorizer.RequireMember(ctx, channel.WorkspaceID, userID); err != nil {
		return nil, err
	}
	return channel, nil
}

// Rename updates a channel's name. Admin only.
func (s *ChannelService) Rename(ctx context.Context, userID, channelID uuid.UUID, name string) (*domain.Channel, error) {
	channel, err := s.channelRepo.GetByID(ctx, channelID)
	if err != nil {
		return nil, err
	}

	if _, err := s.authorizer.RequireAdmin(ctx, channel.WorkspaceID, userID); err != nil {
		return nil, err
	}

	name, err = normalizeChannelName(name)
	if err != nil {
		return nil, err
	}

	updated, err := s.channelRepo.UpdateName(ctx, channelID, name)
	if err != nil {
		return nil, err
	}

	s.publishEvent(channel.WorkspaceID, websocket.ChannelUpdated(updated))
	return updated, nil
}

// Delete removes a channel and its messages. Admin only. Message rows
// cascade off the channel row at the store level, so the whole removal is
// a single atomic statement.
func (s *ChannelService) Delete(ctx context.Context, userID, channelID uuid.UUID) error {
	channel, err := s.channelRepo.GetByID(ctx, channelID)
	if err != nil {
		return err
	}

	if _, err := s.authorizer.RequireAdmin(ctx, channel.WorkspaceID, userID); err != nil {
		return err
	}

	if err := s.channelRepo.Delete(ctx, channelID); err != nil {
		return err
	}

	s.publishEvent(channel.WorkspaceID, websocket.ChannelDeleted(map[string]interface{}{
		"workspaceId": channel.WorkspaceID,
		"channelId":   channelID,
	}))
	return nil
}
