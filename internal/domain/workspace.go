package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// ChatMode controls how the engine grounds its replies
type ChatMode string

const (
	ChatModeChat  ChatMode = "chat"
	ChatModeQuery ChatMode = "query"
)

// Workspace represents a slug-addressed chat workspace
type Workspace struct {
	ID           uuid.UUID `json:"id"`
	Slug         string    `json:"slug"`
	Name         string    `json:"name"`
	ChatMode     ChatMode  `json:"chat_mode"`
	ChatModel    string    `json:"chat_model,omitempty"`
	SystemPrompt string    `json:"system_prompt,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// WorkspaceCreate represents workspace creation data
type WorkspaceCreate struct {
	Name         string `json:"name" validate:"required,max=255"`
	ChatMode     string `json:"chat_mode" validate:"omitempty,oneof=chat query"`
	ChatModel    string `json:"chat_model,omitempty" validate:"omitempty,max=255"`
	SystemPrompt string `json:"system_prompt,omitempty"`
}

// WorkspaceUpdate represents workspace update data
type WorkspaceUpdate struct {
	Name         *string `json:"name,omitempty" validate:"omitempty,max=255"`
	ChatMode     *string `json:"chat_mode,omitempty" validate:"omitempty,oneof=chat query"`
	ChatModel    *string `json:"chat_model,omitempty" validate:"omitempty,max=255"`
	SystemPrompt *string `json:"system_prompt,omitempty"`
}

// WorkspaceRepository defines the interface for workspace storage
type WorkspaceRepository interface {
	Create(ctx context.Context, workspace *Workspace) error
	GetBySlug(ctx context.Context, slug string) (*Workspace, error)
	List(ctx context.Context) ([]Workspace, error)
	Update(ctx context.Context, id uuid.UUID, update *WorkspaceUpdate) error
	Delete(ctx context.Context, id uuid.UUID) error
}
