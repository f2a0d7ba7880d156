package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/openloom/workspace-chat/internal/domain"
)

// MessageRepository implements domain.MessageRepository
type MessageRepository struct {
	db *DB
}

// NewMessageRepository creates a new message repository
func NewMessageRepository(db *DB) *MessageRepository {
	return &MessageRepository{db: db}
}

func (r *MessageRepository) Create(ctx context.Context, message *domain.Message) error {
	query := `
		INSERT INTO messages (id, workspace_id, thread_id, user_id, role, content, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := r.db.Pool.Exec(ctx, query,
		message.ID,
		message.WorkspaceID,
		message.ThreadID,
		message.UserID,
		message.Role,
		message.Content,
		message.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create message: %w", err)
	}
	return nil
}

// ListByWorkspace returns the latest workspace-level messages in
// chronological order
func (r *MessageRepository) ListByWorkspace(ctx context.Context, workspaceID uuid.UUID, limit int) ([]domain.Message, error) {
	query := `
		SELECT id, workspace_id, thread_id, user_id, role, content, created_at
		FROM (
			SELECT id, workspace_id, thread_id, user_id, role, content, created_at
			FROM messages
			WHERE workspace_id = $1 AND thread_id IS NULL
			ORDER BY created_at DESC
			LIMIT $2
		) recent
		ORDER BY created_at ASC
	`
	return r.list(ctx, query, workspaceID, limit)
}

// ListByThread returns the latest thread messages in chronological order
func (r *MessageRepository) ListByThread(ctx context.Context, threadID uuid.UUID, limit int) ([]domain.Message, error) {
	query := `
		SELECT id, workspace_id, thread_id, user_id, role, content, created_at
		FROM (
			SELECT id, workspace_id, thread_id, user_id, role, content, created_at
			FROM messages
			WHERE thread_id = $1
			ORDER BY created_at DESC
			LIMIT $2
		) recent
		ORDER BY created_at ASC
	`
	return r.list(ctx, query, threadID, limit)
}

func (r *MessageRepository) list(ctx context.Context, query string, scopeID uuid.UUID, limit int) ([]domain.Message, error) {
	rows, err := r.db.Pool.Query(ctx, query, scopeID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}
	defer rows.Close()

	var messages []domain.Message
	for rows.Next() {
		var m domain.Message
		if err := rows.Scan(
			&m.ID,
			&m.WorkspaceID,
			&m.ThreadID,
			&m.UserID,
			&m.Role,
			&m.Content,
			&m.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan message: %w", err)
		}
		messages = append(messages, m)
	}
	return messages, nil
}

// CountByUserSince counts user-authored messages since the given instant
func (r *MessageRepository) CountByUserSince(ctx context.Context, userID uuid.UUID, since time.Time) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM messages
		WHERE user_id = $1 AND role = 'user' AND created_at >= $2
	`
	var count int
	if err := r.db.Pool.QueryRow(ctx, query, userID, since).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count messages: %w", err)
	}
	return count, nil
}
