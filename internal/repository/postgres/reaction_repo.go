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

// ReactionRepository implements domain.ReactionRepository using PostgreSQL
type ReactionRepository struct {
	pool *pgxpool.Pool
}

// NewReactionRepository creates a new ReactionRepository
func NewReactionRepository(pool *pgxpool.Pool) *ReactionRepository {
	return &ReactionRepository{pool: pool}
}

const reactionColumns = `id, workspace_id, message_id, member_id, value, created_at`

func scanReaction(row pgx.Row) (*domain.Reaction, error) {
	var re domain.Reaction
	err := row.Scan(&re.ID, &re.WorkspaceID, &re.MessageID, &re.MemberID, &re.Value, &re.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &re, nil
}

// GetByMessageMemberValue retrieves a specific reaction, used by the toggle.
// Returns (nil, nil) when no such reaction exists.
func (r *ReactionRepository) GetByMessageMemberValue(ctx context.Context, messageID, memberID uuid.UUID, value string) (*domain.Reaction, error) {
	reaction, err := scanReaction(q(ctx, r.pool).QueryRow(ctx, `
		SELECT `+reactionColumns+` FROM reactions
		WHERE message_id = $1 AND member_id = $2 AND value = $3`,
		messageID, memberID, value))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get reaction: %w", err)
	}
	return reaction, nil
}

// GetAllByMessage retrieves all reactions on a message
func (r *ReactionRepository) GetAllByMessage(ctx context.Context, messageID uuid.UUID) ([]*domain.Reaction, error) {
	rows, err := q(ctx, r.pool).Query(ctx,
		`SELECT `+reactionColumns+` FROM reactions WHERE message_id = $1 ORDER BY created_at`, messageID)
	if err != nil {
		return nil, fmt.Errorf("failed to list reactions: %w", err)
	}
	defer rows.Close()

	reactions := []*domain.Reaction{}
	for rows.Next() {
		reaction, err := scanReaction(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan reaction: %w", err)
		}
		reactions = append(reactions, reaction)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating reactions: %w", err)
	}
	return reactions, nil
}

// Create creates a new reaction
func (r *ReactionRepository) Create(ctx context.Context, reaction *domain.Reaction) (*domain.Reaction, error) {
	created, err := scanReaction(q(ctx, r.pool).QueryRow(ctx, `
		INSERT INTO reactions (workspace_id, message_id, member_id, value)
		VALUES ($1, $2, $3, $4)
		RETURNING `+reactionColumns,
		reaction.WorkspaceID, reaction.MessageID, reaction.MemberID, reaction.Value))
	if err != nil {
		return nil, fmt.Errorf("failed to create reaction: %w", err)
	}
	return created, nil
}

// Delete removes a reaction by ID
func (r *ReactionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := q(ctx, r.pool).Exec(ctx, `DELETE FROM reactions WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete reaction: %w", err)
	}
	return nil
}

// DeleteByMessage removes all reactions on a message
func (r *ReactionRepository) DeleteByMessage(ctx context.Context, messageID uuid.UUID) error {
	_, err := q(ctx, r.pool).Exec(ctx, `DELETE FROM reactions WHERE message_id = $1`, messageID)
	if err != nil {
		return fmt.Errorf("failed to delete message reactions: %w", err)
	}
	return nil
}

// DeleteByMember removes all reactions left by a member
func (r *ReactionRepository) DeleteByMember(ctx context.Context, memberID uuid.UUID) error {
	_, err := q(ctx, r.pool).Exec(ctx, `DELETE FROM reactions WHERE member_id = $1`, memberID)
	if err != nil {
		return fmt.Errorf("failed to delete member reactions: %w", err)
	}
	return nil
}

// DeleteByWorkspace removes all reactions of a workspace
func (r *ReactionRepository) DeleteByWorkspace(ctx context.Context, workspaceID uuid.UUID) error {
	_, err := q(ctx, r.pool).Exec(ctx, `DELETE FROM reactions WHERE workspace_id = $1`, workspaceID)
	if err != nil {
		return fmt.Errorf("failed to delete workspace reactions: %w", err)
	}
	return nil
}
