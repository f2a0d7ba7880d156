package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/openloom/workspace-chat/internal/domain"
)

// ThreadRepository implements domain.ThreadRepository
type ThreadRepository struct {
	store *Store
}

// NewThreadRepository creates a new thread repository
func NewThreadRepository(store *Store) *ThreadRepository {
	return &ThreadRepository{store: store}
}

func (r *ThreadRepository) Create(ctx context.Context, thread *domain.Thread) error {
	query := `
		INSERT INTO threads (id, workspace_id, user_id, slug, name, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`
	_, err := r.store.db.ExecContext(ctx, query,
		thread.ID.String(),
		thread.WorkspaceID.String(),
		uuidOrNil(thread.UserID),
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
		WHERE workspace_id = ? AND slug = ?
	`
	thread, err := scanThread(r.store.db.QueryRowContext(ctx, query, workspaceID.String(), slug))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get thread: %w", err)
	}
	return thread, nil
}

func (r *ThreadRepository) ListByWorkspace(ctx context.Context, workspaceID uuid.UUID) ([]domain.Thread, error) {
	query := `
		SELECT id, workspace_id, user_id, slug, name, created_at, updated_at
		FROM threads
		WHERE workspace_id = ?
		ORDER BY updated_at DESC
	`
	rows, err := r.store.db.QueryContext(ctx, query, workspaceID.String())
	if err != nil {
		return nil, fmt.Errorf("failed to list threads: %w", err)
	}
	defer rows.Close()

	var threads []domain.Thread
	for rows.Next() {
		thread, err := scanThread(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan thread: %w", err)
		}
		threads = append(threads, *thread)
	}
	return threads, rows.Err()
}

func (r *ThreadRepository) Rename(ctx context.Context, id uuid.UUID, name string) error {
	query := `UPDATE threads SET name = ?, updated_at = ? WHERE id = ?`
	_, err := r.store.db.ExecContext(ctx, query, name, time.Now(), id.String())
	if err != nil {
		return fmt.Errorf("failed to rename thread: %w", err)
	}
	return nil
}

func (r *ThreadRepository) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.store.db.ExecContext(ctx, `DELETE FROM threads WHERE id = ?`, id.String())
	if err != nil {
		return fmt.Errorf("failed to delete thread: %w", err)
	}
	return nil
}

func scanThread(row rowScanner) (*domain.Thread, error) {
	var thread domain.Thread
	var id, workspaceID string
	var userID sql.NullString
	if err := row.Scan(
		&id,
		&workspaceID,
		&userID,
		&thread.Slug,
		&thread.Name,
		&thread.CreatedAt,
		&thread.UpdatedAt,
	); err != nil {
		return nil, err
	}

	parsed, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("invalid thread id %q: %w", id, err)
	}
	thread.ID = parsed

	if thread.WorkspaceID, err = uuid.Parse(workspaceID); err != nil {
		return nil, fmt.Errorf("invalid workspace id %q: %w", workspaceID, err)
	}

	if userID.Valid {
		parsed, err := uuid.Parse(userID.String)
		if err != nil {
			return nil, fmt.Errorf("invalid user id %q: %w", userID.String, err)
		}
		thread.UserID = &parsed
	}

	return &thread, nil
}

// uuidOrNil maps an optional UUID to its TEXT column value
func uuidOrNil(id *uuid.UUID) any {
	if id == nil {
		return nil
	}
	return id.String()
}
