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

// ChannelRepository implements domain.ChannelRepository using PostgreSQL
type ChannelRepository struct {
	pool *pgxpool.Pool
}

// NewChannelRepository creates a new ChannelRepository
func NewChannelRepository(pool *pgxpool.Pool) *ChannelRepository {
	return &ChannelRepository{pool: pool}
}

const channelColumns = `id, name, workspace_id, created_at, updated_at`

func scanChannel(row pgx.Row) (*domain.Channel, error) {
	var c domain.Channel
	err := row.Scan(&c.ID, &c.Name, &c.WorkspaceID, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// GetByID retrieves a channel by its ID
func (r *ChannelRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Channel, error) {
	channel, err := scanChannel(q(ctx, r.pool).QueryRow(ctx,
		`SELECT `+channelColumns+` FROM channels WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrChannelNotFound
		}
		return nil, fmt.Errorf("failed to get channel: %w", err)
	}
	return channel, nil
}

// GetAllByWorkspace retrieves all channels of a workspace in creation order
func (r *ChannelRepository) GetAllByWorkspace(ctx context.Context, workspaceID uuid.UUID) ([]*domain.Channel, error) {
	rows, err := q(ctx, r.pool).Query(ctx,
		`SELECT `+channelColumns+` FROM channels WHERE workspace_id = $1 ORDER BY created_at`, workspaceID)
	if err != nil {
		return nil, fmt.Errorf("failed to list channels: %w", err)
	}
	defer rows.Close()

	channels := []*domain.Channel{}
	for rows.Next() {
		channel, err := scanChannel(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan channel: %w", err)
		}
		channels = append(channels, channel)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating channels: %w", err)
	}
	return channels, nil
}

// Create creates a new channel
func (r *ChannelRepository) Create(ctx context.Context, channel *domain.Channel) (*domain.Channel, error) {
	created, err := scanChannel(q(ctx, r.pool).QueryRow(ctx, `
		INSERT INTO channels (name, workspace_id)
		VALUES ($1, $2)
		RETURNING `+channelColumns,
		channel.Name, channel.WorkspaceID))
	if err != nil {
		return nil, fmt.Errorf("failed to create channel: %w", err)
	}
	return created, nil
}

// UpdateName renames a channel
func (r *ChannelRepository) UpdateName(ctx context.Context, id uuid.UUID, name string) (*domain.Channel, error) {
	updated, err := scanChannel(q(ctx, r.pool).QueryRow(ctx, `
		UPDATE channels SET name = $2, updated_at = now()
		WHERE id = $1
		RETURNING `+channelColumns,
		id, name))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrChannelNotFound
		}
		return nil, fmt.Errorf("failed to rename channel: %w", err)
	}
	return updated, nil
}

// Delete removes a channel by ID
func (r *ChannelRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := q(ctx, r.pool).Exec(ctx, `DELETE FROM channels WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete channel: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrChannelNotFound
	}
	return nil
}

// DeleteByWorkspace removes all channels of a workspace
func (r *ChannelRepository) DeleteByWorkspace(ctx context.Context, workspaceID uuid.UUID) error {
	_, err := q(ctx, r.pool).Exec(ctx, `DELETE FROM channels WHERE workspace_id = $1`, workspaceID)
	if err != nil {
		return fmt.Errorf("failed to delete workspace channels: %w", err)
	}
	return nil
}
