package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// DefaultThreadName is the placeholder title a thread carries until its
// first chat turn renames it.
const DefaultThreadName = "Thread"

// Thread represents a conversation thread scoped to a workspace
type Thread struct {
	ID          uuid.UUID  `json:"id"`
	WorkspaceID uuid.UUID  `json:"workspace_id"`
	UserID      *uuid.UUID `json:"user_id,omitempty"`
	Slug        string     `json:"slug"`
	Name        string     `json:"name"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// ThreadUpdate represents thread update data
type ThreadUpdate struct {
	Name string `json:"name" validate:"required,max=255"`
}

// ThreadRepository defines the interface for thread storage
type ThreadRepository interface {
	Create(ctx context.Context, thread *Thread) error
	GetBySlug(ctx context.Context, workspaceID uuid.UUID, slug string) (*Thread, error)
	ListByWorkspace(ctx context.Context, workspaceID uuid.UUID) ([]Thread, error)
	Rename(ctx context.Context, id uuid.UUID, name string) error
	Delete(ctx context.Context, id uuid.UUID) error
}
