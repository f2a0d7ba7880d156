package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/openloom/workspace-chat/internal/domain"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"simple", "Support", "support"},
		{"spaces and case", "My Team Workspace", "my-team-workspace"},
		{"punctuation", "Q&A: onboarding (2024)", "q-a-onboarding-2024"},
		{"leading and trailing junk", "  --Hello--  ", "hello"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Slugify(tt.in))
		})
	}
}

func TestSlugify_EmptyFallsBackToRandom(t *testing.T) {
	got := Slugify("!!!")
	assert.NotEmpty(t, got)
	assert.NotEqual(t, Slugify("???"), got)
}

func TestWorkspaceService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("derives slug from name", func(t *testing.T) {
		workspaces := new(MockWorkspaceRepository)
		svc := NewWorkspaceService(workspaces)

		workspaces.On("GetBySlug", ctx, "design-reviews").Return(nil, nil)
		workspaces.On("Create", ctx, mock.AnythingOfType("*domain.Workspace")).Return(nil)

		ws, err := svc.Create(ctx, domain.WorkspaceCreate{Name: "Design Reviews"})
		require.NoError(t, err)
		assert.Equal(t, "design-reviews", ws.Slug)
		assert.Equal(t, domain.ChatModeChat, ws.ChatMode)
	})

	t.Run("disambiguates taken slugs", func(t *testing.T) {
		workspaces := new(MockWorkspaceRepository)
		svc := NewWorkspaceService(workspaces)

		existing := &domain.Workspace{Slug: "support"}
		workspaces.On("GetBySlug", ctx, "support").Return(existing, nil)
		workspaces.On("Create", ctx, mock.AnythingOfType("*domain.Workspace")).Return(nil)

		ws, err := svc.Create(ctx, domain.WorkspaceCreate{Name: "Support"})
		require.NoError(t, err)
		assert.NotEqual(t, "support", ws.Slug)
		assert.Contains(t, ws.Slug, "support-")
	})

	t.Run("keeps requested chat mode", func(t *testing.T) {
		workspaces := new(MockWorkspaceRepository)
		svc := NewWorkspaceService(workspaces)

		workspaces.On("GetBySlug", ctx, mock.Anything).Return(nil, nil)
		workspaces.On("Create", ctx, mock.AnythingOfType("*domain.Workspace")).Return(nil)

		ws, err := svc.Create(ctx, domain.WorkspaceCreate{Name: "Docs", ChatMode: "query"})
		require.NoError(t, err)
		assert.Equal(t, domain.ChatModeQuery, ws.ChatMode)
	})
}
