package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// MessageRole represents the sender of a message
type MessageRole string

const (
	RoleUser      MessageRole = "user"
	RoleAssistant MessageRole = "assistant"
)

// Message represents a chat message in a workspace
type Message struct {
	ID          uuid.UUID   `json:"id"`
	WorkspaceID uuid.UUID   `json:"workspace_id"`
	ThreadID    *uuid.UUID  `json:"thread_id,omitempty"`
	UserID      *uuid.UUID  `json:"user_id,omitempty"` // Null for assistant messages
	Role        MessageRole `json:"role"`
	Content     string      `json:"content"`
	CreatedAt   time.Time   `json:"created_at"`
}

// MessageRepository defines the interface for message storage
type MessageRepository interface {
	Create(ctx context.Context, message *Message) error
	ListByWorkspace(ctx context.Context, workspaceID uuid.UUID, limit int) ([]Message, error)
	ListByThread(ctx context.Context, threadID uuid.UUID, limit int) ([]Message, error)
	// CountByUserSince counts user-authored messages created at or after the
	// given instant. Backs the rolling 24h quota read.
	CountByUserSince(ctx context.Context, userID uuid.UUID, since time.Time) (int, error)
}
