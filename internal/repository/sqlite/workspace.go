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

// WorkspaceRepository handles workspace data access
type WorkspaceRepository struct {
	store *Store
}

// NewWorkspaceRepository creates a new workspace repository
func NewWorkspaceRepository(store *Store) *WorkspaceRepository {
	return &WorkspaceRepository{store: store}
}

func (r *WorkspaceRepository) Create(ctx context.Context, workspace *domain.Workspace) error {
	query := `
		INSERT INTO workspaces (id, slug, name, chat_mode, chat_model, system_prompt, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := r.store.db.ExecContext(ctx, query,
		workspace.ID.String(),
		workspace.Slug,
		workspace.Name,
		string(workspace.ChatMode),
		workspace.ChatModel,
		workspace.SystemPrompt,
		workspace.CreatedAt,
		workspace.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create workspace: %w", err)
	}
	return nil
}

func (r *WorkspaceRepository) GetBySlug(ctx context.Context, slug string) (*domain.Workspace, error) {
	query := `
		SELECT id, slug, name, chat_mode, chat_model, system_prompt, created_at, updated_at
		FROM workspaces
		WHERE slug = ?
	`
	workspace, err := scanWorkspace(r.store.db.QueryRowContext(ctx, query, slug))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get workspace: %w", err)
	}
	return workspace, nil
}

func (r *WorkspaceRepository) List(ctx context.Context) ([]domain.Workspace, error) {
	query := `
		SELECT id, slug, name, chat_mode, chat_model, system_prompt, created_at, updated_at
		FROM workspaces
		ORDER BY created_at DESC
	`
	rows, err := r.store.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list workspaces: %w", err)
	}
	defer rows.Close()

	var workspaces []domain.Workspace
	for rows.Next() {
		workspace, err := scanWorkspace(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan workspace: %w", err)
		}
		workspaces = append(workspaces, *workspace)
	}
	return workspaces, rows.Err()
}

func (r *WorkspaceRepository) Update(ctx context.Context, id uuid.UUID, update *domain.WorkspaceUpdate) error {
	query := `
		UPDATE workspaces
		SET name = COALESCE(?, name),
		    chat_mode = COALESCE(?, chat_mode),
		    chat_model = COALESCE(?, chat_model),
		    system_prompt = COALESCE(?, system_prompt),
		    updated_at = ?
		WHERE id = ?
	`
	_, err := r.store.db.ExecContext(ctx, query,
		update.Name, update.ChatMode, update.ChatModel, update.SystemPrompt, time.Now(), id.String())
	if err != nil {
		return fmt.Errorf("failed to update workspace: %w", err)
	}
	return nil
}

func (r *WorkspaceRepository) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.store.db.ExecContext(ctx, `DELETE FROM workspaces WHERE id = ?`, id.String())
	if err != nil {
		return fmt.Errorf("failed to delete workspace: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanWorkspace(row rowScanner) (*domain.Workspace, error) {
	var workspace domain.Workspace
	var id, mode string
	if err := row.Scan(
		&id,
		&workspace.Slug,
		&workspace.Name,
		&mode,
		&workspace.ChatModel,
		&workspace.SystemPrompt,
		&workspace.CreatedAt,
		&workspace.UpdatedAt,
	); err != nil {
		return nil, err
	}

	parsed, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("invalid workspace id %q: %w", id, err)
	}
	workspace.ID = parsed
	workspace.ChatMode = domain.ChatMode(mode)
	return &workspace, nil
}
