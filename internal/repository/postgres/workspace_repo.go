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

// WorkspaceRepository implements domain.WorkspaceRepository using PostgreSQL
type WorkspaceRepository struct {
	pool *pgxpool.Pool
}

// NewWorkspaceRepository creates a new WorkspaceRepository
func NewWorkspaceRepository(pool *pgxpool.Pool) *WorkspaceRepository {
	return &WorkspaceRepository{pool: pool}
}

const workspaceColumns = `id, name, join_code, creator_user_id, created_at, updated_at`

func scanWorkspace(row pgx.Row) (*domain.Workspace, error) {
	var w domain.Workspace
	err := row.Scan(&w.ID, &w.Name, &w.JoinCode, &w.CreatorUserID, &w.CreatedAt, &w.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &w, nil
}

// GetByID retrieves a workspace by its ID
func (r *WorkspaceRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Workspace, error) {
	workspace, err := scanWorkspace(q(ctx, r.pool).QueryRow(ctx,
		`SELECT `+workspaceColumns+` FROM workspaces WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrWorkspaceNotFound
		}
		return nil, fmt.Errorf("failed to get workspace: %w", err)
	}
	return workspace, nil
}

// GetAllByUserID retrieves every workspace the user has a member row for.
// The inner join naturally skips memberships whose workspace is gone.
func (r *WorkspaceRepository) GetAllByUserID(ctx context.Context, userID uuid.UUID) ([]*domain.Workspace, error) {
	rows, err := q(ctx, r.pool).Query(ctx, `
		SELECT w.id, w.name, w.join_code, w.creator_user_id, w.created_at, w.updated_at
		FROM workspaces w
		JOIN members m ON m.workspace_id = w.id
		WHERE m.user_id = $1
		ORDER BY w.created_at`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list workspaces: %w", err)
	}
	defer rows.Close()

	workspaces := []*domain.Workspace{}
	for rows.Next() {
		workspace, err := scanWorkspace(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan workspace: %w", err)
		}
		workspaces = append(workspaces, workspace)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating workspaces: %w", err)
	}
	return workspaces, nil
}

// Create creates a new workspace
func (r *WorkspaceRepository) Create(ctx context.Context, workspace *domain.Workspace) (*domain.Workspace, error) {
	created, err := scanWorkspace(q(ctx, r.pool).QueryRow(ctx, `
		INSERT INTO workspaces (name, join_code, creator_user_id)
		VALUES ($1, $2, $3)
		RETURNING `+workspaceColumns,
		workspace.Name, workspace.JoinCode, workspace.CreatorUserID))
	if err != nil {
		return nil, fmt.Errorf("failed to create workspace: %w", err)
	}
	return created, nil
}

// UpdateName renames a workspace
func (r *WorkspaceRepository) UpdateName(ctx context.Context, id uuid.UUID, name string) (*domain.Workspace, error) {
	updated, err := scanWorkspace(q(ctx, r.pool).QueryRow(ctx, `
		UPDATE workspaces SET name = $2, updated_at = now()
		WHERE id = $1
		RETURNING `+workspaceColumns,
		id, name))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrWorkspaceNotFound
		}
		return nil, fmt.Errorf("failed to rename workspace: %w", err)
	}
	return updated, nil
}

// UpdateJoinCode replaces the workspace's join code. The swap is a single
// UPDATE, so there is no window in which both codes are valid.
func (r *WorkspaceRepository) UpdateJoinCode(ctx context.Context, id uuid.UUID, joinCode string) (*domain.Workspace, error) {
	updated, err := scanWorkspace(q(ctx, r.pool).QueryRow(ctx, `
		UPDATE workspaces SET join_code = $2, updated_at = now()
		WHERE id = $1
		RETURNING `+workspaceColumns,
		id, joinCode))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrWorkspaceNotFound
		}
		return nil, fmt.Errorf("failed to rotate join code: %w", err)
	}
	return updated, nil
}

// Delete deletes the workspace row. Dependent rows must already be gone;
// the cascade in the service layer deletes them first in the same
// transaction.
func (r *WorkspaceRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := q(ctx, r.pool).Exec(ctx, `DELETE FROM workspaces WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete workspace: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrWorkspaceNotFound
	}
	return nil
}
