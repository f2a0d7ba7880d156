package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/openloom/workspace-chat/internal/domain"
)

// EventLogRepository implements domain.EventLogRepository
type EventLogRepository struct {
	store *Store
}

// NewEventLogRepository creates a new event log repository
func NewEventLogRepository(store *Store) *EventLogRepository {
	return &EventLogRepository{store: store}
}

func (r *EventLogRepository) Create(ctx context.Context, entry *domain.EventLog) error {
	metadata, err := json.Marshal(entry.Metadata)
	if err != nil {
		return fmt.Errorf("failed to marshal event metadata: %w", err)
	}

	query := `
		INSERT INTO event_logs (id, event, metadata, user_id, occurred_at)
		VALUES (?, ?, ?, ?, ?)
	`
	_, err = r.store.db.ExecContext(ctx, query,
		entry.ID.String(),
		entry.Event,
		string(metadata),
		uuidOrNil(entry.UserID),
		entry.OccurredAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create event log: %w", err)
	}
	return nil
}

func (r *EventLogRepository) ListRecent(ctx context.Context, limit int) ([]domain.EventLog, error) {
	query := `
		SELECT id, event, metadata, user_id, occurred_at
		FROM event_logs
		ORDER BY occurred_at DESC
		LIMIT ?
	`
	rows, err := r.store.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list event logs: %w", err)
	}
	defer rows.Close()

	var entries []domain.EventLog
	for rows.Next() {
		var entry domain.EventLog
		var id, metadata string
		var userID sql.NullString
		if err := rows.Scan(&id, &entry.Event, &metadata, &userID, &entry.OccurredAt); err != nil {
			return nil, fmt.Errorf("failed to scan event log: %w", err)
		}

		if entry.ID, err = uuid.Parse(id); err != nil {
			return nil, fmt.Errorf("invalid event log id %q: %w", id, err)
		}
		if userID.Valid {
			parsed, err := uuid.Parse(userID.String)
			if err != nil {
				return nil, fmt.Errorf("invalid user id %q: %w", userID.String, err)
			}
			entry.UserID = &parsed
		}
		if metadata != "" {
			if err := json.Unmarshal([]byte(metadata), &entry.Metadata); err != nil {
				return nil, fmt.Errorf("failed to unmarshal event metadata: %w", err)
			}
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}
