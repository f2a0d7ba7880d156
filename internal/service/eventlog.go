package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/openloom/workspace-chat/internal/domain"
)

// EventLogService records structured operator-facing events
type EventLogService struct {
	repo domain.EventLogRepository
}

// NewEventLogService creates a new event log service
func NewEventLogService(repo domain.EventLogRepository) *EventLogService {
	return &EventLogService{repo: repo}
}

// Log writes one event record
func (s *EventLogService) Log(ctx context.Context, event string, metadata map[string]any, userID *uuid.UUID) error {
	entry := &domain.EventLog{
		ID:         uuid.New(),
		Event:      event,
		Metadata:   metadata,
		UserID:     userID,
		OccurredAt: time.Now(),
	}
	if err := s.repo.Create(ctx, entry); err != nil {
		return fmt.Errorf("failed to create event log: %w", err)
	}
	return nil
}

// ListRecent returns the most recent event records
func (s *EventLogService) ListRecent(ctx context.Context, limit int) ([]domain.EventLog, error) {
	if limit <= 0 {
		limit = 50
	}
	return s.repo.ListRecent(ctx, limit)
}
