package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// EventLog represents a structured operator-facing event record
type EventLog struct {
	ID         uuid.UUID      `json:"id"`
	Event      string         `json:"event"`
	Metadata   map[string]any `json:"metadata,omitempty"`
	UserID     *uuid.UUID     `json:"user_id,omitempty"`
	OccurredAt time.Time      `json:"occurred_at"`
}

// Event names
const (
	EventSentChat = "sent_chat"
)

// EventLogRepository defines the interface for event log storage
type EventLogRepository interface {
	Create(ctx context.Context, entry *EventLog) error
	ListRecent(ctx context.Context, limit int) ([]EventLog, error)
}
