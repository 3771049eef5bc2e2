package service

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/huddlehq/huddle-backend/internal/domain"
	"github.com/huddlehq/huddle-backend/internal/repository/storage"
	"github.com/huddlehq/huddle-backend/internal/websocket"
	"github.com/rs/zerolog/log"
)

const (
	// DefaultPageSize is the message page size when none is requested
	DefaultPageSize = 50
	// MaxPageSize caps the requested message page size
	MaxPageSize = 100
)

// MessageService handles messages, threads and reactions
type MessageService struct {
	messageRepo      domain.MessageRepository
	channelRepo      domain.ChannelRepository
	conversationRepo domain.ConversationRepository
	reactionRepo     domain.ReactionRepository
	authorizer       *Authorizer
	tx               domain.Transactor
	attachments      storage.AttachmentRepository
	eventPublisher   websocket.EventPublisher
}

// NewMessageService creates a new MessageService. attachments may be nil
// when object storage is not configured.
func NewMessageService(
	messageRepo domain.MessageRepository,
	channelRepo domain.ChannelRepository,
	conversationRepo domain.ConversationRepository,
	reactionRepo domain.ReactionRepository,
	authorizer *Authorizer,
	tx domain.Transactor,
	attachments storage.AttachmentRepository,
) *MessageService {
	return &MessageService{
		messageRepo:      messageRepo,
		channelRepo:      channelRepo,
		conversationRepo: conversationRepo,
		reactionRepo:     reactionRepo,
		authorizer:       authorizer,
		tx:               tx,
		attachments:      attachments,
	}
}

// SetEventPublisher sets the event publisher for real-time updates
func (s *MessageService) SetEventPublisher(publisher websocket.EventPublisher) {
	s.eventPublisher = publisher
}

// publishEvent publishes a WebSocket event if a publisher is configured
func (s *MessageService) publishEvent(workspaceID uuid.UUID, event websocket.Event) {
	if s.eventPublisher != nil {
		s.eventPublisher.Publish(workspaceID, event)
	}
}

// CreateMessageInput holds the fields for posting a message. Exactly one
// of ChannelID and ConversationID must be set unless ParentMessageID is
// given, in which case the stream is inherited from the parent.
type CreateMessageInput struct {
	Body            string     `json:"body"`
	ImagePath       *string    `json:"imagePath,omitempty"`
	ChannelID       *uuid.UUID `json:"channelId,omitempty"`
	ConversationID  *uuid.UUID `json:"conversationId,omitempty"`
	ParentMessageID *uuid.UUID `json:"parentMessageId,omitempty"`
}

func validateMessageBody(body string, hasImage bool) (string, error) {
	body = strings.TrimSpace(body)
	if body == "" && !hasImage {
		return "", domain.ErrBodyRequired
	}
	if len(body) > domain.MaxMessageBodyLength {
		return "", domain.ErrBodyTooLong
	}
	return body, nil
}

// Create posts a message. The caller must be a member of the target
// workspace; for conversations they must also be one of the two
// participants.
func (s *MessageService) Create(ctx context.Context, userID uuid.UUID, input CreateMessageInput) (*domain.Message, error) {
	if userID == uuid.Nil {
		return nil, domain.ErrUnauthorized
	}

	body, err := validateMessageBody(input.Body, input.ImagePath != nil)
	if err != nil {
		return nil, err
	}

	// A reply inherits its stream from the parent
	if input.ParentMessageID != nil {
		parent, err := s.messageRepo.GetByID(ctx, *input.ParentMessageID)
		if err != nil {
			return nil, err
		}
		input.ChannelID = parent.ChannelID
		input.ConversationID = parent.ConversationID
	}

	if (input.ChannelID == nil) == (input.ConversationID == nil) {
		return nil, domain.ErrInvalidMessageStream
	}

	var workspaceID uuid.UUID
	var conversation *domain.Conversation
	if input.ChannelID != nil {
		channel, err := s.channelRepo.GetByID(ctx, *input.ChannelID)
		if err != nil {
			return nil, err
		}
		workspaceID = channel.WorkspaceID
	} else {
		conversation, err = s.conversationRepo.GetByID(ctx, *input.ConversationID)
		if err != nil {
			return nil, err
		}
		workspaceID = conversation.WorkspaceID
	}

	member, err := s.authorizer.RequireMember(ctx, workspaceID, userID)
	if err != nil {
		return nil, err
	}
	if conversation != nil && conversation.MemberOneID != member.ID && conversation.MemberTwoID != member.ID {
		return nil, domain.ErrUnauthorized
	}

	message, err := s.messageRepo.Create(ctx, &domain.Message{
		Body:            body,
		ImagePath:       input.ImagePath,
		MemberID:        member.ID,
		WorkspaceID:     workspaceID,
		ChannelID:       input.ChannelID,
		ConversationID:  input.ConversationID,
		ParentMessageID: input.ParentMessageID,
	})
	if err != nil {
		return nil, err
	}

	s.publishEvent(workspaceID, websocket.MessageCreated(message))
	return message, nil
}

// ListChannel returns a page of top-level messages in a channel, newest
// first. Members only.
func (s *MessageService) ListChannel(ctx context.Context, userID, channelID uuid.UUID, limit, offset int) ([]*domain.Message, error) {
	channel, err := s.channelRepo.GetByID(ctx, channelID)
	if err != nil {
		return nil, err
	}
	if _, err := s.authorizer.RequireMember(ctx, channel.WorkspaceID, userID); err != nil {
		return nil, err
	}
	return s.messageRepo.GetPageByChannel(ctx, channelID, clampPageSize(limit), max(offset, 0))
}

// ListConversation returns a page of messages in a conversation, newest
// first. Participants only.
func (s *MessageService) ListConversation(ctx context.Context, userID, conversationID uuid.UUID, limit, offset int) ([]*domain.Message, error) {
	conversation, err := s.conversationRepo.GetByID(ctx, conversationID)
	if err != nil {
		return nil, err
	}
	member, err := s.authorizer.RequireMember(ctx, conversation.WorkspaceID, userID)
	if err != nil {
		return nil, err
	}
	if conversation.MemberOneID != member.ID && conversation.MemberTwoID != member.ID {
		return nil, domain.ErrUnauthorized
	}
	return s.messageRepo.GetPageByConversation(ctx, conversationID, clampPageSize(limit), max(offset, 0))
}

// ListThread returns the replies to a message, oldest first. Members only.
func (s *MessageService) ListThread(ctx context.Context, userID, parentMessageID uuid.UUID) ([]*domain.Message, error) {
	parent, err := s.messageRepo.GetByID(ctx, parentMessageID)
	if err != nil {
		return nil, err
	}
	if _, err := s.authorizer.RequireMember(ctx, parent.WorkspaceID, userID); err != nil {
		return nil, err
	}
	return s.messageRepo.GetThread(ctx, parentMessageID)
}

// Edit replaces a message's body. Author only; not even admins may edit
// someone else's words.
func (s *MessageService) Edit(ctx context.Context, userID, messageID uuid.UUID, body string) (*domain.Message, error) {
	message, err := s.messageRepo.GetByID(ctx, messageID)
	if err != nil {
		return nil, err
	}

	member, err := s.authorizer.RequireMember(ctx, message.WorkspaceID, userID)
	if err != nil {
		return nil, err
	}
	if message.MemberID != member.ID {
		return nil, domain.ErrNotMessageAuthor
	}

	body, err = validateMessageBody(body, message.ImagePath != nil)
	if err != nil {
		return nil, err
	}

	updated, err := s.messageRepo.UpdateBody(ctx, messageID, body)
	if err != nil {
		return nil, err
	}

	s.publishEvent(message.WorkspaceID, websocket.MessageUpdated(updated))
	return updated, nil
}

// Delete removes a message, its replies and its reactions. Author or
// workspace admin. A stored attachment is removed best-effort afterwards;
// an orphaned object is preferable to a failed delete.
func (s *MessageService) Delete(ctx context.Context, userID, messageID uuid.UUID) error {
	message, err := s.messageRepo.GetByID(ctx, messageID)
	if err != nil {
		return err
	}

	member, err := s.authorizer.RequireMember(ctx, message.WorkspaceID, userID)
	if err != nil {
		return err
	}
	if message.MemberID != member.ID && !member.IsAdmin() {
		return domain.ErrUnauthorized
	}

	if err := s.messageRepo.Delete(ctx, messageID); err != nil {
		return err
	}

	if message.ImagePath != nil && s.attachments != nil {
		if err := s.attachments.Delete(ctx, *message.ImagePath); err != nil {
			log.Warn().
				Err(err).
				Str("path", *message.ImagePath).
				Msg("Failed to delete message attachment")
		}
	}

	s.publishEvent(message.WorkspaceID, websocket.MessageDeleted(map[string]interface{}{
		"workspaceId": message.WorkspaceID,
		"messageId":   messageID,
	}))
	return nil
}

// Reactions returns all reactions on a message. Members only.
func (s *MessageService) Reactions(ctx context.Context, userID, messageID uuid.UUID) ([]*domain.Reaction, error) {
	message, err := s.messageRepo.GetByID(ctx, messageID)
	if err != nil {
		return nil, err
	}
	if _, err := s.authorizer.RequireMember(ctx, message.WorkspaceID, userID); err != nil {
		return nil, err
	}
	return s.reactionRepo.GetAllByMessage(ctx, messageID)
}

// ToggleReaction adds the caller's reaction with the given value to a
// message, or removes it if it already exists. The check and write run in
// one transaction so a double toggle can't produce duplicates.
func (s *MessageService) ToggleReaction(ctx context.Context, userID, messageID uuid.UUID, value string) (added bool, err error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return false, domain.ErrValueRequired
	}

	message, err := s.messageRepo.GetByID(ctx, messageID)
	if err != nil {
		return false, err
	}

	member, err := s.authorizer.RequireMember(ctx, message.WorkspaceID, userID)
	if err != nil {
		return false, err
	}

	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		existing, err := s.reactionRepo.GetByMessageMemberValue(ctx, messageID, member.ID, value)
		if err != nil {
			return err
		}
		if existing != nil {
			return s.reactionRepo.Delete(ctx, existing.ID)
		}
		added = true
		_, err = s.reactionRepo.Create(ctx, &domain.Reaction{
			WorkspaceID: message.WorkspaceID,
			MessageID:   messageID,
			MemberID:    member.ID,
			Value:       value,
		})
		return err
	})
	if err != nil {
		return false, err
	}

	s.publishEvent(message.WorkspaceID, websocket.ReactionToggled(map[string]interface{}{
		"workspaceId": message.WorkspaceID,
		"messageId":   messageID,
		"memberId":    member.ID,
		"value":       value,
		"added":       added,
	}))
	return added, nil
}

func clampPageSize(limit int) int {
	if limit <= 0 {
		return DefaultPageSize
	}
	if limit > MaxPageSize {
		return MaxPageSize
	}
	return limit
}
