package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/openloom/workspace-chat/internal/domain"
)

// MockMessageRepository mocks the MessageRepository interface
type MockMessageRepository struct {
	mock.Mock
}

func (m *MockMessageRepository) Create(ctx context.Context, message *domain.Message) error {
	args := m.Called(ctx, message)
	return args.Error(0)
}

func (m *MockMessageRepository) ListByWorkspace(ctx context.Context, workspaceID uuid.UUID, limit int) ([]domain.Message, error) {
	args := m.Called(ctx, workspaceID, limit)
	return args.Get(0).([]domain.Message), args.Error(1)
}

func (m *MockMessageRepository) ListByThread(ctx context.Context, threadID uuid.UUID, limit int) ([]domain.Message, error) {
	args := m.Called(ctx, threadID, limit)
	return args.Get(0).([]domain.Message), args.Error(1)
}

func (m *MockMessageRepository) CountByUserSince(ctx context.Context, userID uuid.UUID, since time.Time) (int, error) {
	args := m.Called(ctx, userID, since)
	return args.Int(0), args.Error(1)
}

// MockThreadRepository mocks the ThreadRepository interface
type MockThreadRepository struct {
	mock.Mock
}

func (m *MockThreadRepository) Create(ctx context.Context, thread *domain.Thread) error {
	args := m.Called(ctx, thread)
	return args.Error(0)
}

func (m *MockThreadRepository) GetBySlug(ctx context.Context, workspaceID uuid.UUID, slug string) (*domain.Thread, error) {
	args := m.Called(ctx, workspaceID, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Thread), args.Error(1)
}

func (m *MockThreadRepository) ListByWorkspace(ctx context.Context, workspaceID uuid.UUID) ([]domain.Thread, error) {
	args := m.Called(ctx, workspaceID)
	return args.Get(0).([]domain.Thread), args.Error(1)
}

func (m *MockThreadRepository) Rename(ctx context.Context, id uuid.UUID, name string) error {
	args := m.Called(ctx, id, name)
	return args.Error(0)
}

func (m *MockThreadRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockWorkspaceRepository mocks the WorkspaceRepository interface
type MockWorkspaceRepository struct {
	mock.Mock
}

func (m *MockWorkspaceRepository) Create(ctx context.Context, workspace *domain.Workspace) error {
	args := m.Called(ctx, workspace)
	return args.Error(0)
}

func (m *MockWorkspaceRepository) GetBySlug(ctx context.Context, slug string) (*domain.Workspace, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Workspace), args.Error(1)
}

func (m *MockWorkspaceRepository) List(ctx context.Context) ([]domain.Workspace, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Workspace), args.Error(1)
}

func (m *MockWorkspaceRepository) Update(ctx context.Context, id uuid.UUID, update *domain.WorkspaceUpdate) error {
	args := m.Called(ctx, id, update)
	return args.Error(0)
}

func (m *MockWorkspaceRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockUserRepository mocks the UserRepository interface
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

// MockStreamEngine mocks the StreamEngine interface
type MockStreamEngine struct {
	mock.Mock
}

func (m *MockStreamEngine) StreamChat(ctx context.Context, ch domain.EventWriter, req domain.StreamRequest) error {
	args := m.Called(ctx, ch, req)
	return args.Error(0)
}

// MockTelemetrySink mocks the TelemetrySink interface
type MockTelemetrySink struct {
	mock.Mock
}

func (m *MockTelemetrySink) Send(ctx context.Context, event string, props map[string]any) error {
	args := m.Called(ctx, event, props)
	return args.Error(0)
}

// MockEventRecorder mocks the EventRecorder interface
type MockEventRecorder struct {
	mock.Mock
}

func (m *MockEventRecorder) Log(ctx context.Context, event string, metadata map[string]any, userID *uuid.UUID) error {
	args := m.Called(ctx, event, metadata, userID)
	return args.Error(0)
}

// captureWriter records every event written to the channel
type captureWriter struct {
	events []domain.ResponseEvent
}

func (w *captureWriter) Write(event domain.ResponseEvent) error {
	w.events = append(w.events, event)
	return nil
}
