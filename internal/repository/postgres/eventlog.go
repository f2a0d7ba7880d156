package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/openloom/workspace-chat/internal/domain"
)

// EventLogRepository implements domain.EventLogRepository
type EventLogRepository struct {
	db *DB
}

// NewEventLogRepository creates a new event log repository
func NewEventLogRepository(db *DB) *EventLogRepository {
	return &EventLogRepository{db: db}
}

func (r *EventLogRepository) Create(ctx context.Context, entry *domain.EventLog) error {
	metadata, err := json.Marshal(entry.Metadata)
	if err != nil {
		return fmt.Errorf("failed to marshal metadata: %w", err)
	}

	query := `
		INSERT INTO event_logs (id, event, metadata, user_id, occurred_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err = r.db.Pool.Exec(ctx, query,
		entry.ID,
		entry.Event,
		metadata,
		entry.UserID,
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
		LIMIT $1
	`
	rows, err := r.db.Pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list event logs: %w", err)
	}
	defer rows.Close()

	var entries []domain.EventLog
	for rows.Next() {
		var entry domain.EventLog
		var metadata []byte
		if err := rows.Scan(
			&entry.ID,
			&entry.Event,
			&metadata,
			&entry.UserID,
			&entry.OccurredAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan event log: %w", err)
		}
		if len(metadata) > 0 {
			if err := json.Unmarshal(metadata, &entry.Metadata); err != nil {
				return nil, fmt.Errorf("failed to unmarshal metadata: %w", err)
			}
		}
		entries = append(entries, entry)
	}
	return entries, nil
}
