package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/openloom/workspace-chat/internal/domain"
)

// ThreadRepository implements domain.ThreadRepository
type ThreadRepository struct {
	db *DB
}

// NewThreadRepository creates a new thread repository
func NewThreadRepository(db *DB) *ThreadRepository {
	return &ThreadRepository{db: db}
}

func (r *ThreadRepository) Create(ctx context.Context, thread *domain.Thread) error {
	query := `
		INSERT INTO threads (id, workspace_id, user_id, slug, name, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := r.db.Pool.Exec(ctx, query,
		thread.ID,
		thread.WorkspaceID,
		thread.UserID,
		thread.Slug,
		thread.Name,
		thread.CreatedAt,
		thread.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create thread: %w", err)
	}
	return nil
}

func (r *ThreadRepository) GetBySlug(ctx context.Context, workspaceID uuid.UUID, slug string) (*domain.Thread, error) {
	query := `
		SELECT id, workspace_id, user_id, slug, name, created_at, updated_at
		FROM threads
		WHERE workspace_id = $1 AND slug = $2
	`
	var t domain.Thread
	err := r.db.Pool.QueryRow(ctx, query, workspaceID, slug).Scan(
		&t.ID,
		&t.WorkspaceID,
		&t.UserID,
		&t.Slug,
		&t.Name,
		&t.CreatedAt,
		&t.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get thread: %w", err)
	}
	return &t, nil
}

func (r *ThreadRepository) ListByWorkspace(ctx context.Context, workspaceID uuid.UUID) ([]domain.Thread, error) {
	query := `
		SELECT id, workspace_id, user_id, slug, name, created_at, updated_at
		FROM threads
		WHERE workspace_id = $1
		ORDER BY updated_at DESC
	`
	rows, err := r.db.Pool.Query(ctx, query, workspaceID)
	if err != nil {
		return nil, fmt.Errorf("failed to list threads: %w", err)
	}
	defer rows.Close()

	var threads []domain.Thread
	for rows.Next() {
		var t domain.Thread
		if err := rows.Scan(
			&t.ID,
			&t.WorkspaceID,
			&t.UserID,
			&t.Slug,
			&t.Name,
			&t.CreatedAt,
			&t.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan thread: %w", err)
		}
		threads = append(threads, t)
	}
	return threads, nil
}

func (r *ThreadRepository) Rename(ctx context.Context, id uuid.UUID, name string) error {
	query := `UPDATE threads SET name = $1, updated_at = $2 WHERE id = $3`
	_, err := r.db.Pool.Exec(ctx, query, name, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to rename thread: %w", err)
	}
	return nil
}

func (r *ThreadRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM threads WHERE id = $1`
	_, err := r.db.Pool.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete thread: %w", err)
	}
	return nil
}
