package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/openloom/workspace-chat/internal/domain"
)

// MessageRepository implements domain.MessageRepository
type MessageRepository struct {
	store *Store
}

// NewMessageRepository creates a new message repository
func NewMessageRepository(store *Store) *MessageRepository {
	return &MessageRepository{store: store}
}

func (r *MessageRepository) Create(ctx context.Context, message *domain.Message) error {
	query := `
		INSERT INTO messages (id, workspace_id, thread_id, user_id, role, content, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`
	_, err := r.store.db.ExecContext(ctx, query,
		message.ID.String(),
		message.WorkspaceID.String(),
		uuidOrNil(message.ThreadID),
		uuidOrNil(message.UserID),
		message.Role,
		message.Content,
		message.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create message: %w", err)
	}
	return nil
}

func (r *MessageRepository) ListByWorkspace(ctx context.Context, workspaceID uuid.UUID, limit int) ([]domain.Message, error) {
	query := `
		SELECT id, workspace_id, thread_id, user_id, role, content, created_at
		FROM (
			SELECT id, workspace_id, thread_id, user_id, role, content, created_at
			FROM messages
			WHERE workspace_id = ? AND thread_id IS NULL
			ORDER BY created_at DESC
			LIMIT ?
		)
		ORDER BY created_at ASC
	`
	return r.list(ctx, query, workspaceID.String(), limit)
}

func (r *MessageRepository) ListByThread(ctx context.Context, threadID uuid.UUID, limit int) ([]domain.Message, error) {
	query := `
		SELECT id, workspace_id, thread_id, user_id, role, content, created_at
		FROM (
			SELECT id, workspace_id, thread_id, user_id, role, content, created_at
			FROM messages
			WHERE thread_id = ?
			ORDER BY created_at DESC
			LIMIT ?
		)
		ORDER BY created_at ASC
	`
	return r.list(ctx, query, threadID.String(), limit)
}

func (r *MessageRepository) CountByUserSince(ctx context.Context, userID uuid.UUID, since time.Time) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM messages
		WHERE user_id = ? AND role = 'user' AND created_at >= ?
	`
	var count int
	if err := r.store.db.QueryRowContext(ctx, query, userID.String(), since).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count messages: %w", err)
	}
	return count, nil
}

func (r *MessageRepository) list(ctx context.Context, query string, args ...any) ([]domain.Message, error) {
	rows, err := r.store.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}
	defer rows.Close()

	var messages []domain.Message
	for rows.Next() {
		message, err := scanMessage(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan message: %w", err)
		}
		messages = append(messages, *message)
	}
	return messages, rows.Err()
}

func scanMessage(row rowScanner) (*domain.Message, error) {
	var message domain.Message
	var id, workspaceID string
	var threadID, userID sql.NullString
	if err := row.Scan(
		&id,
		&workspaceID,
		&threadID,
		&userID,
		&message.Role,
		&message.Content,
		&message.CreatedAt,
	); err != nil {
		return nil, err
	}

	parsed, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("invalid message id %q: %w", id, err)
	}
	message.ID = parsed

	if message.WorkspaceID, err = uuid.Parse(workspaceID); err != nil {
		return nil, fmt.Errorf("invalid workspace id %q: %w", workspaceID, err)
	}

	if threadID.Valid {
		parsed, err := uuid.Parse(threadID.String)
		if err != nil {
			return nil, fmt.Errorf("invalid thread id %q: %w", threadID.String, err)
		}
		message.ThreadID = &parsed
	}
	if userID.Valid {
		parsed, err := uuid.Parse(userID.String)
		if err != nil {
			return nil, fmt.Errorf("invalid user id %q: %w", userID.String, err)
		}
		message.UserID = &parsed
	}

	return &message, nil
}
