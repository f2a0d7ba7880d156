package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/openloom/workspace-chat/internal/domain"
)

// ErrThreadNotFound is returned when a thread slug cannot be resolved
var ErrThreadNotFound = errors.New("thread not found")

// ThreadService handles thread operations
type ThreadService struct {
	threads domain.ThreadRepository
}

// NewThreadService creates a new thread service
func NewThreadService(threads domain.ThreadRepository) *ThreadService {
	return &ThreadService{threads: threads}
}

// Create creates a new thread in a workspace. Thread slugs are opaque UUIDs.
func (s *ThreadService) Create(ctx context.Context, workspace *domain.Workspace, userID *uuid.UUID, name string) (*domain.Thread, error) {
	if name == "" {
		name = domain.DefaultThreadName
	}

	now := time.Now()
	thread := &domain.Thread{
		ID:          uuid.New(),
		WorkspaceID: workspace.ID,
		UserID:      userID,
		Slug:        uuid.NewString(),
		Name:        name,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.threads.Create(ctx, thread); err != nil {
		return nil, fmt.Errorf("failed to create thread: %w", err)
	}

	return thread, nil
}

// GetBySlug resolves a thread by slug within a workspace
func (s *ThreadService) GetBySlug(ctx context.Context, workspaceID uuid.UUID, slug string) (*domain.Thread, error) {
	thread, err := s.threads.GetBySlug(ctx, workspaceID, slug)
	if err != nil {
		return nil, fmt.Errorf("failed to get thread: %w", err)
	}
	if thread == nil {
		return nil, ErrThreadNotFound
	}
	return thread, nil
}

// ListByWorkspace returns all threads in a workspace
func (s *ThreadService) ListByWorkspace(ctx context.Context, workspaceID uuid.UUID) ([]domain.Thread, error) {
	return s.threads.ListByWorkspace(ctx, workspaceID)
}

// Rename sets a thread's display name
func (s *ThreadService) Rename(ctx context.Context, thread *domain.Thread, name string) error {
	if err := s.threads.Rename(ctx, thread.ID, name); err != nil {
		return fmt.Errorf("failed to rename thread: %w", err)
	}
	thread.Name = name
	return nil
}

// Delete removes a thread
func (s *ThreadService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.threads.Delete(ctx, id)
}

// AutoRename applies the candidate title to a thread that still carries its
// placeholder name, i.e. on the first chat turn only. It returns the renamed
// thread, or nil when no rename was applied.
func (s *ThreadService) AutoRename(ctx context.Context, thread *domain.Thread, candidate string) (*domain.Thread, error) {
	if thread == nil || candidate == "" {
		return nil, nil
	}
	if thread.Name != "" && thread.Name != domain.DefaultThreadName {
		return nil, nil
	}
	if candidate == thread.Name {
		return nil, nil
	}

	if err := s.threads.Rename(ctx, thread.ID, candidate); err != nil {
		return nil, fmt.Errorf("failed to auto-rename thread: %w", err)
	}

	thread.Name = candidate
	return thread, nil
}
