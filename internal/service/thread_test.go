package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/openloom/workspace-chat/internal/domain"
)

func TestThreadService_Create(t *testing.T) {
	threads := new(MockThreadRepository)
	svc := NewThreadService(threads)
	workspace := testWorkspace()

	t.Run("named", func(t *testing.T) {
		threads.On("Create", mock.Anything, mock.AnythingOfType("*domain.Thread")).Return(nil).Once()

		thread, err := svc.Create(context.Background(), workspace, nil, "Planning")
		require.NoError(t, err)
		assert.Equal(t, "Planning", thread.Name)
		assert.Equal(t, workspace.ID, thread.WorkspaceID)
		assert.NotEmpty(t, thread.Slug)
	})

	t.Run("default name", func(t *testing.T) {
		threads.On("Create", mock.Anything, mock.AnythingOfType("*domain.Thread")).Return(nil).Once()

		thread, err := svc.Create(context.Background(), workspace, nil, "")
		require.NoError(t, err)
		assert.Equal(t, domain.DefaultThreadName, thread.Name)
	})

	t.Run("slugs are unique", func(t *testing.T) {
		threads.On("Create", mock.Anything, mock.AnythingOfType("*domain.Thread")).Return(nil).Twice()

		a, err := svc.Create(context.Background(), workspace, nil, "")
		require.NoError(t, err)
		b, err := svc.Create(context.Background(), workspace, nil, "")
		require.NoError(t, err)
		assert.NotEqual(t, a.Slug, b.Slug)
	})
}

func TestThreadService_AutoRename(t *testing.T) {
	ctx := context.Background()

	t.Run("applies on default name", func(t *testing.T) {
		threads := new(MockThreadRepository)
		svc := NewThreadService(threads)
		thread := &domain.Thread{ID: uuid.New(), Name: domain.DefaultThreadName}

		threads.On("Rename", ctx, thread.ID, "Trip planning").Return(nil)

		renamed, err := svc.AutoRename(ctx, thread, "Trip planning")
		require.NoError(t, err)
		require.NotNil(t, renamed)
		assert.Equal(t, "Trip planning", renamed.Name)
		assert.Equal(t, "Trip planning", thread.Name)
	})

	t.Run("skips custom names", func(t *testing.T) {
		threads := new(MockThreadRepository)
		svc := NewThreadService(threads)
		thread := &domain.Thread{ID: uuid.New(), Name: "Kept by hand"}

		renamed, err := svc.AutoRename(ctx, thread, "Trip planning")
		require.NoError(t, err)
		assert.Nil(t, renamed)
		assert.Equal(t, "Kept by hand", thread.Name)
		threads.AssertNotCalled(t, "Rename", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("skips nil thread and empty candidate", func(t *testing.T) {
		threads := new(MockThreadRepository)
		svc := NewThreadService(threads)

		renamed, err := svc.AutoRename(ctx, nil, "Trip planning")
		require.NoError(t, err)
		assert.Nil(t, renamed)

		thread := &domain.Thread{ID: uuid.New(), Name: domain.DefaultThreadName}
		renamed, err = svc.AutoRename(ctx, thread, "")
		require.NoError(t, err)
		assert.Nil(t, renamed)
	})

	t.Run("repository failure keeps old name", func(t *testing.T) {
		threads := new(MockThreadRepository)
		svc := NewThreadService(threads)
		thread := &domain.Thread{ID: uuid.New(), Name: domain.DefaultThreadName}

		threads.On("Rename", ctx, thread.ID, "Trip planning").Return(errors.New("write failed"))

		renamed, err := svc.AutoRename(ctx, thread, "Trip planning")
		assert.Error(t, err)
		assert.Nil(t, renamed)
		assert.Equal(t, domain.DefaultThreadName, thread.Name)
	})
}
