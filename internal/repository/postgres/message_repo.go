package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/huddlehq/huddle-backend/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// MessageRepository implements domain.MessageRepository using PostgreSQL
type MessageRepository struct {
	pool *pgxpool.Pool
}

// NewMessageRepository creates a new MessageRepository
func NewMessageRepository(pool *pgxpool.Pool) *MessageRepository {
	return &MessageRepository{pool: pool}
}

const messageColumns = `id, body, image_path, member_id, workspace_id, channel_id, conversation_id, parent_message_id, created_at, updated_at`

func scanMessage(row pgx.Row) (*domain.Message, error) {
	var m domain.Message
	err := row.Scan(&m.ID, &m.Body, &m.ImagePath, &m.MemberID, &m.WorkspaceID,
		&m.ChannelID, &m.ConversationID, &m.ParentMessageID, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func collectMessages(rows pgx.Rows) ([]*domain.Message, error) {
	defer rows.Close()
	messages := []*domain.Message{}
	for rows.Next() {
		message, err := scanMessage(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan message: %w", err)
		}
		messages = append(messages, message)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating messages: %w", err)
	}
	return messages, nil
}

// GetByID retrieves a message by its ID
func (r *MessageRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Message, error) {
	message, err := scanMessage(q(ctx, r.pool).QueryRow(ctx,
		`SELECT `+messageColumns+` FROM messages WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrMessageNotFound
		}
		return nil, fmt.Errorf("failed to get message: %w", err)
	}
	return message, nil
}

// GetPageByChannel retrieves a page of top-level channel messages, newest first
func (r *MessageRepository) GetPageByChannel(ctx context.Context, channelID uuid.UUID, limit, offset int) ([]*domain.Message, error) {
	rows, err := q(ctx, r.pool).Query(ctx, `
		SELECT `+messageColumns+` FROM messages
		WHERE channel_id = $1 AND parent_message_id IS NULL
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`, channelID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list channel messages: %w", err)
	}
	return collectMessages(rows)
}

// GetPageByConversation retrieves a page of conversation messages, newest first
func (r *MessageRepository) GetPageByConversation(ctx context.Context, conversationID uuid.UUID, limit, offset int) ([]*domain.Message, error) {
	rows, err := q(ctx, r.pool).Query(ctx, `
		SELECT `+messageColumns+` FROM messages
		WHERE conversation_id = $1 AND parent_message_id IS NULL
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`, conversationID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list conversation messages: %w", err)
	}
	return collectMessages(rows)
}

// GetThread retrieves the replies to a parent message, oldest first
func (r *MessageRepository) GetThread(ctx context.Context, parentMessageID uuid.UUID) ([]*domain.Message, error) {
	rows, err := q(ctx, r.pool).Query(ctx, `
		SELECT `+messageColumns+` FROM messages
		WHERE parent_message_id = $1
		ORDER BY created_at`, parentMessageID)
	if err != nil {
		return nil, fmt.Errorf("failed to list thread messages: %w", err)
	}
	return collectMessages(rows)
}

// Create creates a new message
func (r *MessageRepository) Create(ctx context.Context, message *domain.Message) (*domain.Message, error) {
	created, err := scanMessage(q(ctx, r.pool).QueryRow(ctx, `
		INSERT INTO messages (body, image_path, member_id, workspace_id, channel_id, conversation_id, parent_message_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING `+messageColumns,
		message.Body, message.ImagePath, message.MemberID, message.WorkspaceID,
		message.ChannelID, message.ConversationID, message.ParentMessageID))
	if err != nil {
		return nil, fmt.Errorf("failed to create message: %w", err)
	}
	return created, nil
}

// UpdateBody replaces a message's body
func (r *MessageRepository) UpdateBody(ctx context.Context, id uuid.UUID, body string) (*domain.Message, error) {
	updated, err := scanMessage(q(ctx, r.pool).QueryRow(ctx, `
		UPDATE messages SET body = $2, updated_at = now()
		WHERE id = $1
		RETURNING `+messageColumns,
		id, body))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrMessageNotFound
		}
		return nil, fmt.Errorf("failed to update message: %w", err)
	}
	return updated, nil
}

// Delete removes a message. Replies and reactions go with it via the
// ON DELETE CASCADE constraints.
func (r *MessageRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := q(ctx, r.pool).Exec(ctx, `DELETE FROM messages WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete message: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrMessageNotFound
	}
	return nil
}

// DeleteByMember removes all messages authored by a member
func (r *MessageRepository) DeleteByMember(ctx context.Context, memberID uuid.UUID) error {
	_, err := q(ctx, r.pool).Exec(ctx, `DELETE FROM messages WHERE member_id = $1`, memberID)
	if err != nil {
		return fmt.Errorf("failed to delete member messages: %w", err)
	}
	return nil
}

// DeleteByWorkspace removes all messages of a workspace
func (r *MessageRepository) DeleteByWorkspace(ctx context.Context, workspaceID uuid.UUID) error {
	_, err := q(ctx, r.pool).Exec(ctx, `DELETE FROM messages WHERE workspace_id = $1`, workspaceID)
	if err != nil {
		return fmt.Errorf("failed to delete workspace messages: %w", err)
	}
	return nil
}
