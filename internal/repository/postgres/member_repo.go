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

// MemberRepository implements domain.MemberRepository using PostgreSQL
type MemberRepository struct {
	pool *pgxpool.Pool
}

// NewMemberRepository creates a new MemberRepository
func NewMemberRepository(pool *pgxpool.Pool) *MemberRepository {
	return &MemberRepository{pool: pool}
}

const memberColumns = `id, user_id, workspace_id, role, created_at, updated_at`

func scanMember(row pgx.Row) (*domain.Member, error) {
	var m domain.Member
	err := row.Scan(&m.ID, &m.UserID, &m.WorkspaceID, &m.Role, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// GetByWorkspaceAndUser retrieves the unique member row for the
// (workspace, user) pair. This is the index lookup behind every
// authorization check.
func (r *MemberRepository) GetByWorkspaceAndUser(ctx context.Context, workspaceID, userID uuid.UUID) (*domain.Member, error) {
	member, err := scanMember(q(ctx, r.pool).QueryRow(ctx,
		`SELECT `+memberColumns+` FROM members WHERE workspace_id = $1 AND user_id = $2`,
		workspaceID, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrMemberNotFound
		}
		return nil, fmt.Errorf("failed to get member: %w", err)
	}
	return member, nil
}

// GetByID retrieves a member by its ID
func (r *MemberRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Member, error) {
	member, err := scanMember(q(ctx, r.pool).QueryRow(ctx,
		`SELECT `+memberColumns+` FROM members WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrMemberNotFound
		}
		return nil, fmt.Errorf("failed to get member: %w", err)
	}
	return member, nil
}

// GetAllByWorkspace retrieves all members of a workspace joined with their
// user profiles, admins first then by join time.
func (r *MemberRepository) GetAllByWorkspace(ctx context.Context, workspaceID uuid.UUID) ([]*domain.WorkspaceMember, error) {
	rows, err := q(ctx, r.pool).Query(ctx, `
		SELECT m.id, m.user_id, m.workspace_id, m.role, m.created_at, m.updated_at,
		       u.id, u.auth0_id, u.email, u.name, u.picture_url, u.created_at, u.updated_at
		FROM members m
		JOIN users u ON u.id = m.user_id
		WHERE m.workspace_id = $1
		ORDER BY m.role, m.created_at`, workspaceID)
	if err != nil {
		return nil, fmt.Errorf("failed to list members: %w", err)
	}
	defer rows.Close()

	members := []*domain.WorkspaceMember{}
	for rows.Next() {
		var wm domain.WorkspaceMember
		err := rows.Scan(
			&wm.ID, &wm.UserID, &wm.WorkspaceID, &wm.Role, &wm.CreatedAt, &wm.UpdatedAt,
			&wm.User.ID, &wm.User.Auth0ID, &wm.User.Email, &wm.User.Name, &wm.User.PictureURL,
			&wm.User.CreatedAt, &wm.User.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan member: %w", err)
		}
		members = append(members, &wm)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating members: %w", err)
	}
	return members, nil
}

// Create inserts a member row. The UNIQUE(workspace_id, user_id) constraint
// is the store-level backstop for concurrent joins; a violation surfaces as
// domain.ErrAlreadyMember.
func (r *MemberRepository) Create(ctx context.Context, member *domain.Member) (*domain.Member, error) {
	created, err := scanMember(q(ctx, r.pool).QueryRow(ctx, `
		INSERT INTO members (user_id, workspace_id, role)
		VALUES ($1, $2, $3)
		RETURNING `+memberColumns,
		member.UserID, member.WorkspaceID, member.Role))
	if err != nil {
		if isUniqueViolation(err, "members_workspace_user_key") {
			return nil, domain.ErrAlreadyMember
		}
		return nil, fmt.Errorf("failed to create member: %w", err)
	}
	return created, nil
}

// UpdateRole changes a member's role
func (r *MemberRepository) UpdateRole(ctx context.Context, id uuid.UUID, role domain.Role) (*domain.Member, error) {
	updated, err := scanMember(q(ctx, r.pool).QueryRow(ctx, `
		UPDATE members SET role = $2, updated_at = now()
		WHERE id = $1
		RETURNING `+memberColumns,
		id, role))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrMemberNotFound
		}
		return nil, fmt.Errorf("failed to update member role: %w", err)
	}
	return updated, nil
}

// Delete removes a member by ID
func (r *MemberRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := q(ctx, r.pool).Exec(ctx, `DELETE FROM members WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete member: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrMemberNotFound
	}
	return nil
}

// DeleteByWorkspace removes all members of a workspace. Deleting zero rows
// is not an error, so a cascade retry is safe.
func (r *MemberRepository) DeleteByWorkspace(ctx context.Context, workspaceID uuid.UUID) error {
	_, err := q(ctx, r.pool).Exec(ctx, `DELETE FROM members WHERE workspace_id = $1`, workspaceID)
	if err != nil {
		return fmt.Errorf("failed to delete workspace members: %w", err)
	}
	return nil
}
