package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/openloom/workspace-chat/internal/domain"
)

// ErrWorkspaceNotFound is returned when a workspace slug cannot be resolved
var ErrWorkspaceNotFound = errors.New("workspace not found")

var slugStripRe = regexp.MustCompile(`[^a-z0-9]+`)

// WorkspaceService handles workspace operations
type WorkspaceService struct {
	workspaces domain.WorkspaceRepository
}

// NewWorkspaceService creates a new workspace service
func NewWorkspaceService(workspaces domain.WorkspaceRepository) *WorkspaceService {
	return &WorkspaceService{workspaces: workspaces}
}

// Create creates a new workspace with a URL-safe slug derived from its name
func (s *WorkspaceService) Create(ctx context.Context, input domain.WorkspaceCreate) (*domain.Workspace, error) {
	mode := domain.ChatMode(input.ChatMode)
	if mode == "" {
		mode = domain.ChatModeChat
	}

	slug, err := s.uniqueSlug(ctx, input.Name)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	workspace := &domain.Workspace{
		ID:           uuid.New(),
		Slug:         slug,
		Name:         input.Name,
		ChatMode:     mode,
		ChatModel:    input.ChatModel,
		SystemPrompt: input.SystemPrompt,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.workspaces.Create(ctx, workspace); err != nil {
		return nil, fmt.Errorf("failed to create workspace: %w", err)
	}

	return workspace, nil
}

// GetBySlug resolves a workspace by slug
func (s *WorkspaceService) GetBySlug(ctx context.Context, slug string) (*domain.Workspace, error) {
	workspace, err := s.workspaces.GetBySlug(ctx, slug)
	if err != nil {
		return nil, fmt.Errorf("failed to get workspace: %w", err)
	}
	if workspace == nil {
		return nil, ErrWorkspaceNotFound
	}
	return workspace, nil
}

// List returns all workspaces
func (s *WorkspaceService) List(ctx context.Context) ([]domain.Workspace, error) {
	return s.workspaces.List(ctx)
}

// Update applies a partial update to a workspace
func (s *WorkspaceService) Update(ctx context.Context, id uuid.UUID, update *domain.WorkspaceUpdate) error {
	if err := s.workspaces.Update(ctx, id, update); err != nil {
		return fmt.Errorf("failed to update workspace: %w", err)
	}
	return nil
}

// Delete removes a workspace
func (s *WorkspaceService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.workspaces.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete workspace: %w", err)
	}
	return nil
}

// uniqueSlug slugifies the name and disambiguates with a short suffix when
// the slug is already taken
func (s *WorkspaceService) uniqueSlug(ctx context.Context, name string) (string, error) {
	slug := Slugify(name)

	existing, err := s.workspaces.GetBySlug(ctx, slug)
	if err != nil {
		return "", fmt.Errorf("failed to check slug: %w", err)
	}
	if existing == nil {
		return slug, nil
	}

	return slug + "-" + uuid.NewString()[:8], nil
}

// Slugify lowercases a name and collapses everything outside [a-z0-9] into
// single dashes
func Slugify(name string) string {
	slug := strings.ToLower(strings.TrimSpace(name))
	slug = slugStripRe.ReplaceAllString(slug, "-")
	slug = strings.Trim(slug, "-")
	if slug == "" {
		slug = uuid.NewString()[:8]
	}
	return slug
}
