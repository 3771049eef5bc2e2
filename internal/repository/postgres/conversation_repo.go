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

// ConversationRepository implements domain.ConversationRepository using PostgreSQL
type ConversationRepository struct {
	pool *pgxpool.Pool
}

// NewConversationRepository creates a new ConversationRepository
func NewConversationRepository(pool *pgxpool.Pool) *ConversationRepository {
	return &ConversationRepository{pool: pool}
}

const conversationColumns = `id, workspace_id, member_one_id, member_two_id, created_at`

func scanConversation(row pgx.Row) (*domain.Conversation, error) {
	var c domain.Conversation
	err := row.Scan(&c.ID, &c.WorkspaceID, &c.MemberOneID, &c.MemberTwoID, &c.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// GetByID retrieves a conversation by its ID
func (r *ConversationRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Conversation, error) {
	conversation, err := scanConversation(q(ctx, r.pool).QueryRow(ctx,
		`SELECT `+conversationColumns+` FROM conversations WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrConversationNotFound
		}
		return nil, fmt.Errorf("failed to get conversation: %w", err)
	}
	return conversation, nil
}

// GetByMembers retrieves the conversation between two members regardless of
// which order the pair is given in.
func (r *ConversationRepository) GetByMembers(ctx context.Context, workspaceID, memberA, memberB uuid.UUID) (*domain.Conversation, error) {
	conversation, err := scanConversation(q(ctx, r.pool).QueryRow(ctx, `
		SELECT `+conversationColumns+` FROM conversations
		WHERE workspace_id = $1
		  AND ((member_one_id = $2 AND member_two_id = $3)
		    OR (member_one_id = $3 AND member_two_id = $2))`,
		workspaceID, memberA, memberB))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrConversationNotFound
		}
		return nil, fmt.Errorf("failed to get conversation: %w", err)
	}
	return conversation, nil
}

// Create creates a new conversation
func (r *ConversationRepository) Create(ctx context.Context, conversation *domain.Conversation) (*domain.Conversation, error) {
	created, err := scanConversation(q(ctx, r.pool).QueryRow(ctx, `
		INSERT INTO conversations (workspace_id, member_one_id, member_two_id)
		VALUES ($1, $2, $3)
		RETURNING `+conversationColumns,
		conversation.WorkspaceID, conversation.MemberOneID, conversation.MemberTwoID))
	if err != nil {
		return nil, fmt.Errorf("failed to create conversation: %w", err)
	}
	return created, nil
}

// DeleteByMember removes all conversations a member participates in
func (r *ConversationRepository) DeleteByMember(ctx context.Context, memberID uuid.UUID) error {
	_, err := q(ctx, r.pool).Exec(ctx,
		`DELETE FROM conversations WHERE member_one_id = $1 OR member_two_id = $1`, memberID)
	if err != nil {
		return fmt.Errorf("failed to delete member conversations: %w", err)
	}
	return nil
}

// DeleteByWorkspace removes all conversations of a workspace
func (r *ConversationRepository) DeleteByWorkspace(ctx context.Context, workspaceID uuid.UUID) error {
	_, err := q(ctx, r.pool).Exec(ctx, `DELETE FROM conversations WHERE workspace_id = $1`, workspaceID)
	if err != nil {
		return fmt.Errorf("failed to delete workspace conversations: %w", err)
	}
	return nil
}
