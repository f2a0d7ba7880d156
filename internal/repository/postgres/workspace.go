package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/openloom/workspace-chat/internal/domain"
)

// WorkspaceRepository handles workspace data access
type WorkspaceRepository struct {
	db *DB
}

// NewWorkspaceRepository creates a new workspace repository
func NewWorkspaceRepository(db *DB) *WorkspaceRepository {
	return &WorkspaceRepository{db: db}
}

// Create creates a new workspace
func (r *WorkspaceRepository) Create(ctx context.Context, workspace *domain.Workspace) error {
	query := `
		INSERT INTO workspaces (id, slug, name, chat_mode, chat_model, system_prompt, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.db.Pool.Exec(ctx, query,
		workspace.ID,
		workspace.Slug,
		workspace.Name,
		workspace.ChatMode,
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

// GetBySlug retrieves a workspace by slug
func (r *WorkspaceRepository) GetBySlug(ctx context.Context, slug string) (*domain.Workspace, error) {
	query := `
		SELECT id, slug, name, chat_mode, chat_model, system_prompt, created_at, updated_at
		FROM workspaces
		WHERE slug = $1
	`

	var workspace domain.Workspace
	err := r.db.Pool.QueryRow(ctx, query, slug).Scan(
		&workspace.ID,
		&workspace.Slug,
		&workspace.Name,
		&workspace.ChatMode,
		&workspace.ChatModel,
		&workspace.SystemPrompt,
		&workspace.CreatedAt,
		&workspace.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get workspace: %w", err)
	}

	return &workspace, nil
}

// List retrieves all workspaces
func (r *WorkspaceRepository) List(ctx context.Context) ([]domain.Workspace, error) {
	query := `
		SELECT id, slug, name, chat_mode, chat_model, system_prompt, created_at, updated_at
		FROM workspaces
		ORDER BY created_at DESC
	`

	rows, err := r.db.Pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list workspaces: %w", err)
	}
	defer rows.Close()

	var workspaces []domain.Workspace
	for rows.Next() {
		var workspace domain.Workspace
		if err := rows.Scan(
			&workspace.ID,
			&workspace.Slug,
			&workspace.Name,
			&workspace.ChatMode,
			&workspace.ChatModel,
			&workspace.SystemPrompt,
			&workspace.CreatedAt,
			&workspace.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan workspace: %w", err)
		}
		workspaces = append(workspaces, workspace)
	}

	return workspaces, nil
}

// Update updates a workspace
func (r *WorkspaceRepository) Update(ctx context.Context, id uuid.UUID, update *domain.WorkspaceUpdate) error {
	query := `
		UPDATE workspaces
		SET name = COALESCE($2, name),
		    chat_mode = COALESCE($3, chat_mode),
		    chat_model = COALESCE($4, chat_model),
		    system_prompt = COALESCE($5, system_prompt),
		    updated_at = NOW()
		WHERE id = $1
	`

	_, err := r.db.Pool.Exec(ctx, query, id, update.Name, update.ChatMode, update.ChatModel, update.SystemPrompt)
	if err != nil {
		return fmt.Errorf("failed to update workspace: %w", err)
	}

	return nil
}

// Delete deletes a workspace
func (r *WorkspaceRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM workspaces WHERE id = $1`

	_, err := r.db.Pool.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete workspace: %w", err)
	}

	return nil
}
